package telegram

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"dexkeeper/internal/console"
)

const accessDenied = "Access denied: admin only."

// consoleAPI is the slice of the transport the console driver renders
// through.
type consoleAPI interface {
	SendText(chatID int64, text string) error
	SendMenu(chatID int64, text string, buttons [][]console.Button) (int, error)
	EditMenu(chatID int64, messageID int, text string, buttons [][]console.Button) error
	DeleteMessage(chatID int64, messageID int) error
	AnswerCallback(callbackID, text string, alert bool) error
}

// editTarget names a console message that can be redrawn in place.
type editTarget struct {
	chatID    int64
	messageID int
}

// ConsoleDriver feeds operator interactions into the state machine and
// renders the resulting effects. Authorization is checked at every entry
// point; a denied actor causes no state change and no audit entry.
type ConsoleDriver struct {
	guard    *console.Guard
	sessions *console.Sessions
	executor *console.Executor
	api      consoleAPI
	logger   *slog.Logger
}

func NewConsoleDriver(
	guard *console.Guard,
	sessions *console.Sessions,
	executor *console.Executor,
	api consoleAPI,
	logger *slog.Logger,
) *ConsoleDriver {
	return &ConsoleDriver{
		guard:    guard,
		sessions: sessions,
		executor: executor,
		api:      api,
		logger:   logger,
	}
}

// HandleOpen processes the console entry command.
func (d *ConsoleDriver) HandleOpen(ctx context.Context, actorID, chatID int64) {
	if d.guard.Check(actorID) != console.Authorized {
		d.notify(chatID, accessDenied)
		return
	}
	effects := d.sessions.Dispatch(actorID, console.Open{}, time.Now())
	d.apply(ctx, console.Actor{OperatorID: actorID, ChatID: chatID}, effects, nil)
}

// HandleCancel processes the cancel command.
func (d *ConsoleDriver) HandleCancel(ctx context.Context, actorID, chatID int64) {
	if d.guard.Check(actorID) != console.Authorized {
		d.notify(chatID, accessDenied)
		return
	}
	effects := d.sessions.Dispatch(actorID, console.Cancel{}, time.Now())
	d.apply(ctx, console.Actor{OperatorID: actorID, ChatID: chatID}, effects, nil)
}

// HandleCallback processes a console button press.
func (d *ConsoleDriver) HandleCallback(ctx context.Context, callbackID string, actorID, chatID int64, messageID int, payload string) {
	if d.guard.Check(actorID) != console.Authorized {
		if err := d.api.AnswerCallback(callbackID, accessDenied, true); err != nil {
			d.logger.Warn("callback answer failed", "error", err)
		}
		return
	}
	if err := d.api.AnswerCallback(callbackID, "", false); err != nil {
		d.logger.Warn("callback answer failed", "error", err)
	}

	effects := d.sessions.Dispatch(actorID, console.Select{Data: payload}, time.Now())
	target := &editTarget{chatID: chatID, messageID: messageID}
	d.apply(ctx, console.Actor{OperatorID: actorID, ChatID: chatID}, effects, target)
}

// WantsInput reports whether the actor's session is waiting for text.
func (d *ConsoleDriver) WantsInput(actorID int64) bool {
	if d.guard.Check(actorID) != console.Authorized {
		return false
	}
	return d.sessions.Awaiting(actorID, time.Now())
}

// HandleInput feeds a text message into the operator's wizard step.
func (d *ConsoleDriver) HandleInput(ctx context.Context, actorID, chatID int64, text string) {
	if d.guard.Check(actorID) != console.Authorized {
		return
	}
	effects := d.sessions.Dispatch(actorID, console.Input{Text: text}, time.Now())
	d.apply(ctx, console.Actor{OperatorID: actorID, ChatID: chatID}, effects, nil)
}

// apply renders UI effects and delegates the rest to the executor. The
// session has already transitioned; failures here surface as operator
// notices, never as a stuck console.
func (d *ConsoleDriver) apply(ctx context.Context, actor console.Actor, effects []console.Effect, target *editTarget) {
	for _, eff := range effects {
		switch eff := eff.(type) {
		case console.ShowMenu:
			d.renderMenu(actor.ChatID, eff.Menu, target)
			target = nil

		case console.Prompt:
			buttons := [][]console.Button{{{Label: "Cancel", Payload: console.PayloadCancel}}}
			if target != nil {
				if err := d.api.EditMenu(target.chatID, target.messageID, eff.Text, buttons); err != nil {
					d.logger.Warn("prompt edit failed", "error", err)
				}
				target = nil
			} else {
				if _, err := d.api.SendMenu(actor.ChatID, eff.Text, buttons); err != nil {
					d.logger.Warn("prompt send failed", "error", err)
				}
			}

		case console.CloseConsole:
			if target != nil {
				if err := d.api.DeleteMessage(target.chatID, target.messageID); err != nil {
					d.logger.Warn("console close failed", "error", err)
				}
				target = nil
			}

		default:
			notice, err := d.executor.Execute(ctx, actor, eff)
			if err != nil {
				d.logger.Error("console effect failed", "effect", fmt.Sprintf("%T", eff), "error", err)
				d.notify(actor.ChatID, "The operation failed and was not applied.")
				continue
			}
			if notice != "" {
				d.notify(actor.ChatID, notice)
			}
		}
	}
}

func (d *ConsoleDriver) renderMenu(chatID int64, menu string, target *editTarget) {
	text := fmt.Sprintf("DexKeeper Admin: %s", menu)
	buttons := console.MenuButtons(menu)
	if target != nil {
		if err := d.api.EditMenu(target.chatID, target.messageID, text, buttons); err != nil {
			d.logger.Warn("menu edit failed", "error", err)
		}
		return
	}
	if _, err := d.api.SendMenu(chatID, text, buttons); err != nil {
		d.logger.Warn("menu send failed", "error", err)
	}
}

func (d *ConsoleDriver) notify(chatID int64, text string) {
	if err := d.api.SendText(chatID, text); err != nil {
		d.logger.Warn("notice send failed", "error", err)
	}
}
