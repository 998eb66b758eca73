package meetlink

import (
	"strings"
	"testing"
)

func TestDetectMeetingLink(t *testing.T) {
	m, ok := Detect("join us: https://us02web.zoom.us/j/1234567890?pwd=abcDEF123 now")
	if !ok {
		t.Fatal("link not detected")
	}
	if m.ID != "1234567890" {
		t.Errorf("ID = %q, want 1234567890", m.ID)
	}
	if m.Passcode != "abcDEF123" {
		t.Errorf("Passcode = %q, want abcDEF123", m.Passcode)
	}
}

func TestDetectPersonalLinkWithoutPasscode(t *testing.T) {
	m, ok := Detect("http://zoom.us/my/987654")
	if !ok {
		t.Fatal("link not detected")
	}
	if m.ID != "987654" || m.Passcode != "" {
		t.Errorf("meeting = %+v", m)
	}
}

func TestDetectIgnoresPlainText(t *testing.T) {
	if _, ok := Detect("let's zoom later"); ok {
		t.Error("plain mention of zoom should not match")
	}
}

func TestRenderStyles(t *testing.T) {
	m := Meeting{URL: "https://zoom.us/j/42", ID: "42", Passcode: "pw"}

	for _, style := range []string{StyleProfessional, StyleMascot, StyleMinimal} {
		card := Render(style, m, "Alice", "")
		if card == "" {
			t.Errorf("style %s rendered empty card", style)
		}
		if !strings.Contains(card, m.URL) {
			t.Errorf("style %s card missing URL: %q", style, card)
		}
	}
}

func TestRenderPasscodeOmittedWhenAbsent(t *testing.T) {
	m := Meeting{URL: "https://zoom.us/j/42", ID: "42"}
	card := Render(StyleProfessional, m, "Alice", "")
	if strings.Contains(card, "Passcode") {
		t.Errorf("card should omit passcode line: %q", card)
	}
}

func TestRenderCustomTemplate(t *testing.T) {
	m := Meeting{URL: "https://zoom.us/j/42", ID: "42", Passcode: "pw"}
	card := Render(StyleCustom, m, "Alice", "{host} -> {url} ({id}/{passcode})")
	want := "Alice -> https://zoom.us/j/42 (42/pw)"
	if card != want {
		t.Errorf("card = %q, want %q", card, want)
	}
}

func TestRenderOffAndUnknownStyles(t *testing.T) {
	m := Meeting{URL: "https://zoom.us/j/42", ID: "42"}
	if card := Render(StyleOff, m, "Alice", ""); card != "" {
		t.Errorf("off style rendered %q", card)
	}
	if card := Render("bogus", m, "Alice", ""); card != "" {
		t.Errorf("unknown style rendered %q", card)
	}
}
