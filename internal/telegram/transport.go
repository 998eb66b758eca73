package telegram

import (
	"fmt"
	"log/slog"
	"strconv"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"dexkeeper/internal/apperr"
	"dexkeeper/internal/console"
)

// verifyPrefix tags challenge callbacks with the addressed user id.
const verifyPrefix = "verify:"

// API adapts tgbotapi to the outbound action contract used by the
// console executor, the moderation middleware and the join workflow.
// Every method returns a transport-classified error on failure.
type API struct {
	bot    *tgbotapi.BotAPI
	logger *slog.Logger
}

func NewAPI(bot *tgbotapi.BotAPI, logger *slog.Logger) *API {
	return &API{bot: bot, logger: logger}
}

func (a *API) SendText(chatID int64, text string) error {
	if _, err := a.bot.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		return apperr.Wrap(apperr.KindTransport, err, "send message")
	}
	return nil
}

// SendMenu sends a fresh console message and returns its message id.
func (a *API) SendMenu(chatID int64, text string, buttons [][]console.Button) (int, error) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = keyboard(buttons)
	sent, err := a.bot.Send(msg)
	if err != nil {
		return 0, apperr.Wrap(apperr.KindTransport, err, "send menu")
	}
	return sent.MessageID, nil
}

// EditMenu redraws the console in place.
func (a *API) EditMenu(chatID int64, messageID int, text string, buttons [][]console.Button) error {
	edit := tgbotapi.NewEditMessageTextAndMarkup(chatID, messageID, text, keyboard(buttons))
	if _, err := a.bot.Send(edit); err != nil {
		return apperr.Wrap(apperr.KindTransport, err, "edit menu")
	}
	return nil
}

func (a *API) SendPoll(chatID int64, question string, options []string) error {
	if _, err := a.bot.Send(tgbotapi.NewPoll(chatID, question, options...)); err != nil {
		return apperr.Wrap(apperr.KindTransport, err, "send poll")
	}
	return nil
}

// CreateTopic creates a forum topic. The library has no typed config for
// this endpoint, so the request goes through MakeRequest.
func (a *API) CreateTopic(chatID int64, name string) error {
	params := tgbotapi.Params{
		"chat_id": strconv.FormatInt(chatID, 10),
		"name":    name,
	}
	if _, err := a.bot.MakeRequest("createForumTopic", params); err != nil {
		return apperr.Wrap(apperr.KindTransport, err, "create forum topic")
	}
	return nil
}

func (a *API) SendDocument(chatID int64, filename string, data []byte, caption string) error {
	doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{Name: filename, Bytes: data})
	doc.Caption = caption
	if _, err := a.bot.Send(doc); err != nil {
		return apperr.Wrap(apperr.KindTransport, err, "send document")
	}
	return nil
}

func (a *API) BanChatMember(chatID, userID int64) error {
	cfg := tgbotapi.BanChatMemberConfig{
		ChatMemberConfig: tgbotapi.ChatMemberConfig{ChatID: chatID, UserID: userID},
	}
	if _, err := a.bot.Request(cfg); err != nil {
		return apperr.Wrap(apperr.KindTransport, err, "ban chat member")
	}
	return nil
}

func (a *API) UnbanChatMember(chatID, userID int64) error {
	cfg := tgbotapi.UnbanChatMemberConfig{
		ChatMemberConfig: tgbotapi.ChatMemberConfig{ChatID: chatID, UserID: userID},
		OnlyIfBanned:     true,
	}
	if _, err := a.bot.Request(cfg); err != nil {
		return apperr.Wrap(apperr.KindTransport, err, "unban chat member")
	}
	return nil
}

func (a *API) DeleteMessage(chatID int64, messageID int) error {
	if _, err := a.bot.Request(tgbotapi.NewDeleteMessage(chatID, messageID)); err != nil {
		return apperr.Wrap(apperr.KindTransport, err, "delete message")
	}
	return nil
}

// MuteMember revokes the member's send permission. A zero until mutes
// indefinitely (Telegram treats far-future dates the same way).
func (a *API) MuteMember(chatID, userID int64, until time.Time) error {
	cfg := tgbotapi.RestrictChatMemberConfig{
		ChatMemberConfig: tgbotapi.ChatMemberConfig{ChatID: chatID, UserID: userID},
		Permissions:      &tgbotapi.ChatPermissions{CanSendMessages: false},
	}
	if !until.IsZero() {
		cfg.UntilDate = until.Unix()
	}
	if _, err := a.bot.Request(cfg); err != nil {
		return apperr.Wrap(apperr.KindTransport, err, "restrict member")
	}
	return nil
}

// LiftRestrictions restores full send permissions.
func (a *API) LiftRestrictions(chatID, userID int64) error {
	cfg := tgbotapi.RestrictChatMemberConfig{
		ChatMemberConfig: tgbotapi.ChatMemberConfig{ChatID: chatID, UserID: userID},
		Permissions: &tgbotapi.ChatPermissions{
			CanSendMessages:       true,
			CanSendMediaMessages:  true,
			CanSendPolls:          true,
			CanSendOtherMessages:  true,
			CanAddWebPagePreviews: true,
		},
	}
	if _, err := a.bot.Request(cfg); err != nil {
		return apperr.Wrap(apperr.KindTransport, err, "lift restrictions")
	}
	return nil
}

// SendVerifyPrompt posts the single-tap challenge addressed to targetID
// and returns the prompt's message id.
func (a *API) SendVerifyPrompt(chatID int64, text string, targetID int64) (int, error) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("I am human", fmt.Sprintf("%s%d", verifyPrefix, targetID)),
		),
	)
	sent, err := a.bot.Send(msg)
	if err != nil {
		return 0, apperr.Wrap(apperr.KindTransport, err, "send verify prompt")
	}
	return sent.MessageID, nil
}

// AnswerCallback acknowledges a button press with a short notice.
func (a *API) AnswerCallback(callbackID, text string, alert bool) error {
	cb := tgbotapi.NewCallback(callbackID, text)
	cb.ShowAlert = alert
	if _, err := a.bot.Request(cb); err != nil {
		return apperr.Wrap(apperr.KindTransport, err, "answer callback")
	}
	return nil
}

func keyboard(buttons [][]console.Button) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(buttons))
	for _, row := range buttons {
		r := make([]tgbotapi.InlineKeyboardButton, 0, len(row))
		for _, b := range row {
			r = append(r, tgbotapi.NewInlineKeyboardButtonData(b.Label, b.Payload))
		}
		rows = append(rows, r)
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}
