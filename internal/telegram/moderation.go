package telegram

import (
	"log/slog"
	"strings"
	"time"

	"dexkeeper/internal/flood"
	"dexkeeper/internal/settings"
)

// moderationAPI is the slice of the transport the middleware acts through.
type moderationAPI interface {
	DeleteMessage(chatID int64, messageID int) error
	MuteMember(chatID, userID int64, until time.Time) error
}

// Moderator runs the per-message moderation checks: the flood gate and
// the content filter. Both are best-effort; a message that is already
// gone or a restriction that cannot be applied is logged and forgotten.
type Moderator struct {
	tracker   flood.Tracker
	settings  settings.Store
	api       moderationAPI
	threshold int
	mute      time.Duration
	logger    *slog.Logger
}

func NewModerator(
	tracker flood.Tracker,
	st settings.Store,
	api moderationAPI,
	threshold int,
	muteDuration time.Duration,
	logger *slog.Logger,
) *Moderator {
	return &Moderator{
		tracker:   tracker,
		settings:  st,
		api:       api,
		threshold: threshold,
		mute:      muteDuration,
		logger:    logger,
	}
}

// CheckMessage applies both checks to one inbound text message. The two
// checks are independent; either, both, or neither may fire.
func (m *Moderator) CheckMessage(actorID, chatID int64, messageID int, text string, now time.Time) {
	if count := m.tracker.Hit(actorID, now); count > m.threshold {
		m.logger.Info("flood gate triggered", "user_id", actorID, "count", count)
		if err := m.api.DeleteMessage(chatID, messageID); err != nil {
			m.logger.Warn("flood: delete failed", "error", err)
		}
		if err := m.api.MuteMember(chatID, actorID, now.Add(m.mute)); err != nil {
			m.logger.Warn("flood: restrict failed", "error", err)
		}
	}

	if m.containsBannedWord(text) {
		m.logger.Info("content filter triggered", "user_id", actorID)
		if err := m.api.DeleteMessage(chatID, messageID); err != nil {
			m.logger.Warn("filter: delete failed", "error", err)
		}
	}
}

func (m *Moderator) containsBannedWord(text string) bool {
	lowered := strings.ToLower(text)
	for _, word := range m.settings.StringList(settings.KeyFilterWords) {
		if word != "" && strings.Contains(lowered, word) {
			return true
		}
	}
	return false
}
