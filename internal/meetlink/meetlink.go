// Package meetlink detects Zoom meeting links in chat messages and
// renders them as templated cards for re-posting.
package meetlink

import (
	"fmt"
	"regexp"
	"strings"
)

// Card styles. StyleOff disables re-posting entirely.
const (
	StyleProfessional = "professional"
	StyleMascot       = "mascot"
	StyleMinimal      = "minimal"
	StyleCustom       = "custom"
	StyleOff          = "off"
)

var zoomPattern = regexp.MustCompile(`https?://(?:[a-zA-Z0-9-]+\.)?zoom\.us/(?:j|my)/(\d+)(?:\?pwd=([a-zA-Z0-9]+))?`)

// Meeting is a detected meeting link.
type Meeting struct {
	URL      string
	ID       string
	Passcode string
}

// Detect returns the first Zoom link found in text, if any.
func Detect(text string) (Meeting, bool) {
	m := zoomPattern.FindStringSubmatch(text)
	if m == nil {
		return Meeting{}, false
	}
	return Meeting{URL: m[0], ID: m[1], Passcode: m[2]}, true
}

// Render formats the card for a meeting in the given style. The custom
// template substitutes {url}, {id}, {passcode} and {host}. An empty
// string means nothing should be posted.
func Render(style string, m Meeting, host, customTemplate string) string {
	switch style {
	case StyleProfessional:
		var b strings.Builder
		fmt.Fprintf(&b, "Meeting Started\nHosted by %s\n\nID: %s\n", host, m.ID)
		if m.Passcode != "" {
			fmt.Fprintf(&b, "Passcode: %s\n", m.Passcode)
		}
		fmt.Fprintf(&b, "\nJoin: %s", m.URL)
		return b.String()

	case StyleMascot:
		var b strings.Builder
		fmt.Fprintf(&b, "DexKeeper Zoom-In!\n%s opened a portal!\n\nID: %s\n", host, m.ID)
		if m.Passcode != "" {
			fmt.Fprintf(&b, "Code: %s\n", m.Passcode)
		}
		fmt.Fprintf(&b, "\nJump in: %s", m.URL)
		return b.String()

	case StyleMinimal:
		return fmt.Sprintf("Zoom: %s (ID: %s)", m.URL, m.ID)

	case StyleCustom:
		r := strings.NewReplacer(
			"{url}", m.URL,
			"{id}", m.ID,
			"{passcode}", m.Passcode,
			"{host}", host,
		)
		return r.Replace(customTemplate)
	}
	return ""
}
