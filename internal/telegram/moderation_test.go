package telegram

import (
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"dexkeeper/internal/flood"
	"dexkeeper/internal/settings"
)

type fakeModerationAPI struct {
	deleted []int
	muted   []int64
	until   []time.Time
}

func (f *fakeModerationAPI) DeleteMessage(chatID int64, messageID int) error {
	f.deleted = append(f.deleted, messageID)
	return nil
}

func (f *fakeModerationAPI) MuteMember(chatID, userID int64, until time.Time) error {
	f.muted = append(f.muted, userID)
	f.until = append(f.until, until)
	return nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newSettingsStore(t *testing.T) settings.Store {
	t.Helper()
	store, err := settings.NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"), testLogger())
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func newModeratorFixture(t *testing.T) (*Moderator, *fakeModerationAPI, settings.Store) {
	t.Helper()
	api := &fakeModerationAPI{}
	store := newSettingsStore(t)
	tracker := flood.NewWindowTracker(2*time.Second, 64)
	mod := NewModerator(tracker, store, api, 5, time.Hour, testLogger())
	return mod, api, store
}

func TestFloodGateFiresOnSixthMessage(t *testing.T) {
	mod, api, _ := newModeratorFixture(t)
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	// 6 messages within one second: only the 6th crosses the threshold.
	for i := 0; i < 6; i++ {
		mod.CheckMessage(1, -100, 100+i, "hello", base.Add(time.Duration(i)*150*time.Millisecond))
	}

	if len(api.deleted) != 1 || api.deleted[0] != 105 {
		t.Errorf("deleted = %v, want only message 105", api.deleted)
	}
	if len(api.muted) != 1 || api.muted[0] != 1 {
		t.Errorf("muted = %v, want actor 1", api.muted)
	}
	wantUntil := base.Add(750*time.Millisecond + time.Hour)
	if !api.until[0].Equal(wantUntil) {
		t.Errorf("mute until = %v, want %v", api.until[0], wantUntil)
	}
}

func TestSpacedMessagesNeverTriggerFloodGate(t *testing.T) {
	mod, api, _ := newModeratorFixture(t)
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	// 6 messages spread across 10 seconds with the 2-second window.
	for i := 0; i < 6; i++ {
		mod.CheckMessage(1, -100, 100+i, "hello", base.Add(time.Duration(i)*2*time.Second))
	}

	if len(api.deleted) != 0 || len(api.muted) != 0 {
		t.Errorf("deleted = %v muted = %v, want no action", api.deleted, api.muted)
	}
}

func TestContentFilterDeletesMatch(t *testing.T) {
	mod, api, store := newModeratorFixture(t)
	if err := store.SetStringList(settings.KeyFilterWords, []string{"spam"}); err != nil {
		t.Fatalf("seed filter: %v", err)
	}

	mod.CheckMessage(1, -100, 200, "buy SPAM now", time.Now())

	if len(api.deleted) != 1 || api.deleted[0] != 200 {
		t.Errorf("deleted = %v, want [200]", api.deleted)
	}
	if len(api.muted) != 0 {
		t.Errorf("content filter must not mute, got %v", api.muted)
	}
}

func TestContentFilterIgnoresCleanMessage(t *testing.T) {
	mod, api, store := newModeratorFixture(t)
	if err := store.SetStringList(settings.KeyFilterWords, []string{"spam"}); err != nil {
		t.Fatalf("seed filter: %v", err)
	}

	mod.CheckMessage(1, -100, 200, "perfectly fine message", time.Now())

	if len(api.deleted) != 0 {
		t.Errorf("deleted = %v, want none", api.deleted)
	}
}

func TestEmptyFilterListMatchesNothing(t *testing.T) {
	mod, api, _ := newModeratorFixture(t)

	mod.CheckMessage(1, -100, 200, "anything at all", time.Now())

	if len(api.deleted) != 0 {
		t.Errorf("deleted = %v, want none with empty filter", api.deleted)
	}
}
