package telegram

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"dexkeeper/internal/audit"
	"dexkeeper/internal/settings"
	"dexkeeper/internal/users"
)

const defaultWelcome = "Welcome! Please read the rules."
const lockdownNotice = "New member requests are currently paused."

// joinAPI is the slice of the transport the join workflow acts through.
type joinAPI interface {
	SendText(chatID int64, text string) error
	DeleteMessage(chatID int64, messageID int) error
	MuteMember(chatID, userID int64, until time.Time) error
	LiftRestrictions(chatID, userID int64) error
	SendVerifyPrompt(chatID int64, text string, targetID int64) (int, error)
	BanChatMember(chatID, userID int64) error
}

// JoinGate runs the join-verification workflow on membership events.
type JoinGate struct {
	settings settings.Store
	auditLog audit.Log
	users    users.Store
	api      joinAPI
	logger   *slog.Logger
}

func NewJoinGate(st settings.Store, log audit.Log, us users.Store, api joinAPI, logger *slog.Logger) *JoinGate {
	return &JoinGate{settings: st, auditLog: log, users: us, api: api, logger: logger}
}

// HandleNewMember gates one newly joined member. Block-listed identities
// are removed outright; otherwise challenge mode restricts the member
// behind a single-tap verification, and open mode welcomes immediately.
func (g *JoinGate) HandleNewMember(chatID, memberID int64, displayName string) {
	for _, banned := range g.settings.IDList(settings.KeyBlacklist) {
		if banned == memberID {
			if err := g.api.BanChatMember(chatID, memberID); err != nil {
				g.logger.Warn("join: block-listed member removal failed", "user_id", memberID, "error", err)
			}
			if _, err := g.auditLog.Record(memberID, audit.ActionDecline, map[string]any{"reason": "blacklist"}, 0); err != nil {
				g.logger.Error("join: audit write failed", "error", err)
			}
			return
		}
	}

	if g.settings.Bool(settings.KeyLockdownMode, false) {
		if err := g.api.MuteMember(chatID, memberID, time.Time{}); err != nil {
			g.logger.Warn("join: lockdown restrict failed", "user_id", memberID, "error", err)
		}
		if err := g.api.SendText(chatID, lockdownNotice); err != nil {
			g.logger.Warn("join: lockdown notice failed", "error", err)
		}
		return
	}

	if !g.settings.Bool(settings.KeyCaptchaEnabled, true) {
		// Open mode: welcome immediately.
		if err := g.users.SetStatus(memberID, users.StatusApproved); err != nil {
			g.logger.Error("join: status update failed", "user_id", memberID, "error", err)
			return
		}
		g.sendWelcome(chatID)
		return
	}

	// Challenge mode: restrict first, then offer the verification.
	if err := g.api.MuteMember(chatID, memberID, time.Time{}); err != nil {
		g.logger.Warn("join: restrict failed", "user_id", memberID, "error", err)
	}

	prompt := fmt.Sprintf("Welcome %s! Tap below to verify you are human.", displayName)
	promptID, err := g.api.SendVerifyPrompt(chatID, prompt, memberID)
	if err != nil {
		g.logger.Warn("join: verify prompt failed", "user_id", memberID, "error", err)
	}

	if err := g.users.AddPending(users.PendingJoin{
		UserID:   memberID,
		ChatID:   chatID,
		PromptID: promptID,
	}); err != nil {
		g.logger.Error("join: pending record failed", "user_id", memberID, "error", err)
	}
}

// HandleVerify processes a tap on the challenge button. It returns the
// acknowledgement to show the tapping user. Only the addressed identity
// can lift the restriction, and only once.
func (g *JoinGate) HandleVerify(actorID int64, chatID int64, payload string) (notice string, alert bool) {
	targetID, err := strconv.ParseInt(strings.TrimPrefix(payload, verifyPrefix), 10, 64)
	if err != nil {
		return "", false
	}

	if actorID != targetID {
		return "This check is not for you.", true
	}

	pending, err := g.users.GetPending(targetID)
	if err != nil {
		g.logger.Error("verify: pending lookup failed", "user_id", targetID, "error", err)
		return "Verification is unavailable right now.", true
	}
	if pending == nil {
		return "Already verified.", false
	}

	if err := g.api.LiftRestrictions(chatID, targetID); err != nil {
		g.logger.Warn("verify: lift restrictions failed", "user_id", targetID, "error", err)
		return "Verification failed, try again.", true
	}

	if err := g.users.SetStatus(targetID, users.StatusApproved); err != nil {
		g.logger.Error("verify: status update failed", "user_id", targetID, "error", err)
		return "Verification is unavailable right now.", true
	}
	if err := g.users.RemovePending(targetID); err != nil {
		g.logger.Error("verify: pending cleanup failed", "user_id", targetID, "error", err)
		return "Verification is unavailable right now.", true
	}
	if _, err := g.auditLog.Record(targetID, audit.ActionApprove, map[string]any{"via": "challenge"}, 0); err != nil {
		g.logger.Error("verify: audit write failed", "error", err)
		return "Verification is unavailable right now.", true
	}

	if pending.PromptID != 0 {
		if err := g.api.DeleteMessage(chatID, pending.PromptID); err != nil {
			g.logger.Warn("verify: prompt removal failed", "error", err)
		}
	}
	g.sendWelcome(chatID)
	return "Verified. Welcome!", false
}

func (g *JoinGate) sendWelcome(chatID int64) {
	text := g.settings.String(settings.KeyWelcomeMessage, defaultWelcome)
	if err := g.api.SendText(chatID, text); err != nil {
		g.logger.Warn("welcome send failed", "error", err)
	}
}
