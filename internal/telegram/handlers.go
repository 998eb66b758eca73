package telegram

import (
	"context"
	"log/slog"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"dexkeeper/internal/console"
	"dexkeeper/internal/meetlink"
	"dexkeeper/internal/settings"
	"dexkeeper/internal/users"
)

// Handler fans inbound updates out by type: text messages go through the
// moderation middleware, membership events through the join workflow,
// commands and button presses through the console.
type Handler struct {
	api       *API
	settings  settings.Store
	users     users.Store
	moderator *Moderator
	joinGate  *JoinGate
	driver    *ConsoleDriver
	guard     *console.Guard
	botID     int64
	logger    *slog.Logger
}

func NewHandler(
	api *API,
	st settings.Store,
	us users.Store,
	moderator *Moderator,
	joinGate *JoinGate,
	driver *ConsoleDriver,
	guard *console.Guard,
	botID int64,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		api:       api,
		settings:  st,
		users:     us,
		moderator: moderator,
		joinGate:  joinGate,
		driver:    driver,
		guard:     guard,
		botID:     botID,
		logger:    logger,
	}
}

// HandleUpdate processes a single update. Panics are contained by the
// caller; errors here never stop the event loop.
func (h *Handler) HandleUpdate(ctx context.Context, update tgbotapi.Update) {
	if cb := update.CallbackQuery; cb != nil {
		h.handleCallback(ctx, cb)
		return
	}

	msg := update.Message
	if msg == nil {
		return
	}

	if msg.From != nil {
		h.recordSighting(msg.From)
	}

	if len(msg.NewChatMembers) > 0 {
		for _, member := range msg.NewChatMembers {
			if member.ID == h.botID || member.IsBot {
				continue
			}
			h.recordSighting(&member)
			h.joinGate.HandleNewMember(msg.Chat.ID, member.ID, displayName(&member))
		}
		return
	}

	if msg.IsCommand() {
		h.handleCommand(ctx, msg)
		return
	}

	if msg.Text != "" && msg.From != nil {
		h.handleText(ctx, msg)
	}
}

func (h *Handler) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	if cb.From == nil {
		return
	}
	h.recordSighting(cb.From)

	if cb.Message == nil {
		return
	}
	chatID := cb.Message.Chat.ID

	if strings.HasPrefix(cb.Data, verifyPrefix) {
		notice, alert := h.joinGate.HandleVerify(cb.From.ID, chatID, cb.Data)
		if err := h.api.AnswerCallback(cb.ID, notice, alert); err != nil {
			h.logger.Warn("verify answer failed", "error", err)
		}
		return
	}

	h.driver.HandleCallback(ctx, cb.ID, cb.From.ID, chatID, cb.Message.MessageID, cb.Data)
}

func (h *Handler) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	switch msg.Command() {
	case "admin":
		h.driver.HandleOpen(ctx, msg.From.ID, msg.Chat.ID)
	case "cancel":
		h.driver.HandleCancel(ctx, msg.From.ID, msg.Chat.ID)
	}
}

func (h *Handler) handleText(ctx context.Context, msg *tgbotapi.Message) {
	actorID := msg.From.ID

	// An operator mid-wizard gets the text routed into the console.
	if h.driver.WantsInput(actorID) {
		h.driver.HandleInput(ctx, actorID, msg.Chat.ID, msg.Text)
		return
	}

	// Moderation applies only to non-privileged actors in group chats.
	if isGroup(msg.Chat) && h.guard.Check(actorID) != console.Authorized {
		h.moderator.CheckMessage(actorID, msg.Chat.ID, msg.MessageID, msg.Text, time.Now())
	}

	if isGroup(msg.Chat) {
		h.reformatMeetingLink(msg)
	}
}

// reformatMeetingLink replaces a raw Zoom link with a templated card.
func (h *Handler) reformatMeetingLink(msg *tgbotapi.Message) {
	style := h.settings.String(settings.KeyLinkCardStyle, meetlink.StyleProfessional)
	if style == meetlink.StyleOff {
		return
	}

	meeting, ok := meetlink.Detect(msg.Text)
	if !ok {
		return
	}

	custom := h.settings.String(settings.KeyLinkCardCustom, "{url}")
	card := meetlink.Render(style, meeting, displayName(msg.From), custom)
	if card == "" {
		return
	}

	if err := h.api.DeleteMessage(msg.Chat.ID, msg.MessageID); err != nil {
		h.logger.Warn("meeting link: delete failed", "error", err)
	}
	if err := h.api.SendText(msg.Chat.ID, card); err != nil {
		h.logger.Warn("meeting link: card send failed", "error", err)
	}
}

// recordSighting upserts the user registry on first observed interaction.
func (h *Handler) recordSighting(u *tgbotapi.User) {
	err := h.users.Upsert(users.Record{
		UserID:   u.ID,
		Username: u.UserName,
		FullName: displayName(u),
		Language: u.LanguageCode,
	})
	if err != nil {
		h.logger.Error("user upsert failed", "user_id", u.ID, "error", err)
	}
}

func displayName(u *tgbotapi.User) string {
	if u == nil {
		return ""
	}
	name := u.FirstName
	if u.LastName != "" {
		name += " " + u.LastName
	}
	if name == "" {
		name = u.UserName
	}
	return name
}

func isGroup(chat *tgbotapi.Chat) bool {
	return chat != nil && (chat.IsGroup() || chat.IsSuperGroup())
}
