package console

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"dexkeeper/internal/audit"
	"dexkeeper/internal/settings"
	"dexkeeper/internal/users"
)

// Transport is the outbound action surface the executor needs. Every
// call may fail; the executor decides per effect whether a failure is
// swallowed or surfaced.
type Transport interface {
	SendText(chatID int64, text string) error
	SendPoll(chatID int64, question string, options []string) error
	CreateTopic(chatID int64, name string) error
	SendDocument(chatID int64, filename string, data []byte, caption string) error
	BanChatMember(chatID, userID int64) error
	UnbanChatMember(chatID, userID int64) error
}

// Deferrer registers a one-shot deferred function.
type Deferrer interface {
	After(d time.Duration, fn func())
}

// Actor identifies the operator driving an effect and the chat the
// console lives in.
type Actor struct {
	OperatorID int64
	ChatID     int64
}

// Executor applies wizard effects against the shared stores and the
// transport. Persistence failures abort the effect and propagate;
// transport failures are swallowed and reflected in the notice.
type Executor struct {
	settings  settings.Store
	auditLog  audit.Log
	users     users.Store
	transport Transport
	deferrer  Deferrer
	pause     time.Duration
	logger    *slog.Logger
}

func NewExecutor(
	st settings.Store,
	log audit.Log,
	us users.Store,
	tr Transport,
	df Deferrer,
	broadcastPause time.Duration,
	logger *slog.Logger,
) *Executor {
	return &Executor{
		settings:  st,
		auditLog:  log,
		users:     us,
		transport: tr,
		deferrer:  df,
		pause:     broadcastPause,
		logger:    logger,
	}
}

// Execute applies one effect and returns the operator notice. UI effects
// are not handled here; the transport driver renders those.
func (e *Executor) Execute(ctx context.Context, actor Actor, eff Effect) (string, error) {
	switch eff := eff.(type) {
	case Ban:
		return e.ban(actor, eff.UserID)
	case Unban:
		return e.unban(actor, eff.UserID)
	case ViewUser:
		return e.viewUser(eff.UserID)
	case Promote:
		return e.promote(actor, eff.UserID)
	case SendPoll:
		return e.sendPoll(actor, eff)
	case ScheduleMessage:
		return e.schedule(actor, eff)
	case CreateTopic:
		return e.createTopic(actor, eff.Name)
	case SetWelcome:
		return e.setWelcome(actor, eff.Text)
	case ToggleFilterWord:
		return e.toggleFilterWord(actor, eff.Word)
	case ToggleLockdown:
		return e.toggleLockdown(actor)
	case Broadcast:
		return e.broadcast(ctx, actor, eff.Text)
	case ExportUsers:
		return e.exportUsers(actor)
	case SetLinkCardStyle:
		return e.setLinkCardStyle(eff.Style)
	}
	return "", nil
}

func (e *Executor) ban(actor Actor, userID int64) (string, error) {
	list := e.settings.IDList(settings.KeyBlacklist)
	if !containsID(list, userID) {
		if err := e.settings.SetIDList(settings.KeyBlacklist, append(list, userID)); err != nil {
			return "", err
		}
	}
	if err := e.users.SetStatus(userID, users.StatusBanned); err != nil {
		return "", err
	}

	// Block-list membership is authoritative; chat removal is advisory.
	if err := e.transport.BanChatMember(actor.ChatID, userID); err != nil {
		e.logger.Warn("ban: chat removal failed", "user_id", userID, "error", err)
	}

	if _, err := e.auditLog.Record(userID, audit.ActionBan, nil, actor.OperatorID); err != nil {
		return "", err
	}
	return fmt.Sprintf("Banned %d", userID), nil
}

func (e *Executor) unban(actor Actor, userID int64) (string, error) {
	list := e.settings.IDList(settings.KeyBlacklist)
	trimmed := removeID(list, userID)
	if len(trimmed) != len(list) {
		if err := e.settings.SetIDList(settings.KeyBlacklist, trimmed); err != nil {
			return "", err
		}
	}
	if err := e.users.SetStatus(userID, users.StatusApproved); err != nil {
		return "", err
	}

	if err := e.transport.UnbanChatMember(actor.ChatID, userID); err != nil {
		e.logger.Warn("unban: chat restore failed", "user_id", userID, "error", err)
	}

	if _, err := e.auditLog.Record(userID, audit.ActionUnban, nil, actor.OperatorID); err != nil {
		return "", err
	}
	return fmt.Sprintf("Unbanned %d", userID), nil
}

func (e *Executor) viewUser(userID int64) (string, error) {
	rec, err := e.users.Get(userID)
	if err != nil {
		return "", err
	}
	if rec == nil {
		return fmt.Sprintf("User %d has never interacted with this group.", userID), nil
	}
	return fmt.Sprintf(
		"User %d\nUsername: %s\nName: %s\nLanguage: %s\nJoined: %s\nStatus: %s",
		rec.UserID, rec.Username, rec.FullName, rec.Language,
		rec.JoinedAt.UTC().Format(time.RFC3339), rec.Status,
	), nil
}

func (e *Executor) promote(actor Actor, userID int64) (string, error) {
	admins := e.settings.IDList(settings.KeyAdmins)
	if !containsID(admins, userID) {
		if err := e.settings.SetIDList(settings.KeyAdmins, append(admins, userID)); err != nil {
			return "", err
		}
	}
	if _, err := e.auditLog.Record(userID, audit.ActionPromote, nil, actor.OperatorID); err != nil {
		return "", err
	}
	return fmt.Sprintf("Promoted %d to admin", userID), nil
}

func (e *Executor) sendPoll(actor Actor, eff SendPoll) (string, error) {
	if err := e.transport.SendPoll(actor.ChatID, eff.Question, eff.Options); err != nil {
		e.logger.Warn("poll send failed", "error", err)
		return "Could not publish the poll.", nil
	}
	return "Poll published.", nil
}

func (e *Executor) schedule(actor Actor, eff ScheduleMessage) (string, error) {
	chatID := actor.ChatID
	text := eff.Text
	e.deferrer.After(eff.Delay, func() {
		if err := e.transport.SendText(chatID, text); err != nil {
			e.logger.Warn("scheduled send failed", "chat_id", chatID, "error", err)
		}
	})
	details := map[string]any{"delay_minutes": int(eff.Delay.Minutes())}
	if _, err := e.auditLog.Record(actor.OperatorID, audit.ActionSchedule, details, actor.OperatorID); err != nil {
		return "", err
	}
	return fmt.Sprintf("Scheduled in %dm.", int(eff.Delay.Minutes())), nil
}

func (e *Executor) createTopic(actor Actor, name string) (string, error) {
	if err := e.transport.CreateTopic(actor.ChatID, name); err != nil {
		e.logger.Warn("topic creation failed", "name", name, "error", err)
		return fmt.Sprintf("Could not create topic %q.", name), nil
	}
	return fmt.Sprintf("Topic %q created.", name), nil
}

func (e *Executor) setWelcome(actor Actor, text string) (string, error) {
	if err := e.settings.SetString(settings.KeyWelcomeMessage, text); err != nil {
		return "", err
	}
	if _, err := e.auditLog.Record(actor.OperatorID, audit.ActionWelcome, nil, actor.OperatorID); err != nil {
		return "", err
	}
	return "Welcome message updated.", nil
}

func (e *Executor) toggleFilterWord(actor Actor, word string) (string, error) {
	words := e.settings.StringList(settings.KeyFilterWords)
	notice := fmt.Sprintf("Added %q to the filter.", word)
	action := "add"

	if containsString(words, word) {
		words = removeString(words, word)
		notice = fmt.Sprintf("Removed %q from the filter.", word)
		action = "remove"
	} else {
		words = append(words, word)
	}

	if err := e.settings.SetStringList(settings.KeyFilterWords, words); err != nil {
		return "", err
	}
	details := map[string]any{"word": word, "op": action}
	if _, err := e.auditLog.Record(actor.OperatorID, audit.ActionFilter, details, actor.OperatorID); err != nil {
		return "", err
	}
	return notice, nil
}

func (e *Executor) toggleLockdown(actor Actor) (string, error) {
	enabled := !e.settings.Bool(settings.KeyLockdownMode, false)
	if err := e.settings.SetBool(settings.KeyLockdownMode, enabled); err != nil {
		return "", err
	}
	details := map[string]any{"enabled": enabled}
	if _, err := e.auditLog.Record(actor.OperatorID, audit.ActionLockdown, details, actor.OperatorID); err != nil {
		return "", err
	}
	if enabled {
		return "Lockdown ENABLED.", nil
	}
	return "Lockdown DISABLED.", nil
}

func (e *Executor) broadcast(ctx context.Context, actor Actor, text string) (string, error) {
	ids, err := e.users.IDs()
	if err != nil {
		return "", err
	}

	start := time.Now()
	var sent, failed int
	for _, id := range ids {
		if err := e.transport.SendText(id, text); err != nil {
			failed++
		} else {
			sent++
		}
		// Pacing against platform rate limits, not a correctness mechanism.
		select {
		case <-ctx.Done():
			return fmt.Sprintf("Broadcast interrupted. Sent: %d, failed: %d", sent, failed), nil
		case <-time.After(e.pause):
		}
	}

	elapsed := time.Since(start)
	details := map[string]any{"sent": sent, "failed": failed, "elapsed_ms": elapsed.Milliseconds()}
	if _, err := e.auditLog.Record(actor.OperatorID, audit.ActionBroadcast, details, actor.OperatorID); err != nil {
		return "", err
	}
	return fmt.Sprintf("Broadcast done. Sent: %d, failed: %d, time: %.1fs", sent, failed, elapsed.Seconds()), nil
}

func (e *Executor) exportUsers(actor Actor) (string, error) {
	recs, err := e.users.All()
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := users.WriteCSV(&buf, recs); err != nil {
		return "", err
	}

	filename := fmt.Sprintf("dexkeeper_users_%d.csv", time.Now().Unix())
	if err := e.transport.SendDocument(actor.ChatID, filename, buf.Bytes(), "User export"); err != nil {
		e.logger.Warn("export send failed", "error", err)
		return "Could not deliver the export document.", nil
	}
	return fmt.Sprintf("Exported %d users.", len(recs)), nil
}

func (e *Executor) setLinkCardStyle(style string) (string, error) {
	if err := e.settings.SetString(settings.KeyLinkCardStyle, style); err != nil {
		return "", err
	}
	return fmt.Sprintf("Meeting card style set to %s.", style), nil
}

func containsID(list []int64, id int64) bool {
	for _, v := range list {
		if v == id {
			return true
		}
	}
	return false
}

func removeID(list []int64, id int64) []int64 {
	out := make([]int64, 0, len(list))
	for _, v := range list {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func removeString(list []string, s string) []string {
	out := make([]string, 0, len(list))
	for _, v := range list {
		if v != s {
			out = append(out, v)
		}
	}
	return out
}
