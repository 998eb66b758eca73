package telegram

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"dexkeeper/internal/audit"
	"dexkeeper/internal/config"
	"dexkeeper/internal/console"
	"dexkeeper/internal/flood"
	"dexkeeper/internal/scheduler"
	"dexkeeper/internal/settings"
	"dexkeeper/internal/users"
)

// Bot owns the long-polling update loop and the component wiring.
type Bot struct {
	api     *tgbotapi.BotAPI
	handler *Handler
	cfg     config.TelegramConfig
	logger  *slog.Logger

	// Track active update processing
	activeRequests sync.WaitGroup
}

// NewBot wires the moderation middleware, the join workflow and the
// admin console around a shared settings store and audit log.
func NewBot(
	cfg *config.Config,
	st settings.Store,
	auditLog audit.Log,
	userStore users.Store,
	tracker flood.Tracker,
	sched *scheduler.Scheduler,
	logger *slog.Logger,
) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(cfg.Telegram.BotToken)
	if err != nil {
		return nil, fmt.Errorf("create bot api: %w", err)
	}

	transport := NewAPI(api, logger)
	guard := console.NewGuard(cfg.Telegram.AdminID, st)
	sessions := console.NewSessions(cfg.Console.SessionTTL)
	executor := console.NewExecutor(st, auditLog, userStore, transport, sched, cfg.Broadcast.Pause, logger)
	driver := NewConsoleDriver(guard, sessions, executor, transport, logger)

	moderator := NewModerator(
		tracker, st, transport,
		cfg.Moderation.FloodThreshold, cfg.Moderation.MuteDuration,
		logger,
	)
	joinGate := NewJoinGate(st, auditLog, userStore, transport, logger)

	handler := NewHandler(
		transport, st, userStore,
		moderator, joinGate, driver, guard,
		api.Self.ID, logger,
	)

	return &Bot{
		api:     api,
		handler: handler,
		cfg:     cfg.Telegram,
		logger:  logger,
	}, nil
}

// Run starts the bot and blocks until context is cancelled
func (b *Bot) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = b.cfg.PollingTimeout

	updates := b.api.GetUpdatesChan(u)

	b.logger.Info("bot started", "username", b.api.Self.UserName)

	for {
		select {
		case <-ctx.Done():
			b.logger.Info("stopping bot, waiting for active updates")

			// Stop receiving updates
			b.api.StopReceivingUpdates()

			// Wait for active updates with timeout
			done := make(chan struct{})
			go func() {
				b.activeRequests.Wait()
				close(done)
			}()

			select {
			case <-done:
				b.logger.Info("all active updates completed")
			case <-time.After(25 * time.Second):
				b.logger.Warn("some updates may not have completed")
			}

			return ctx.Err()

		case update, ok := <-updates:
			if !ok {
				return nil
			}

			// Process update in goroutine
			b.activeRequests.Add(1)
			go func(upd tgbotapi.Update) {
				defer b.activeRequests.Done()
				defer func() {
					// A panic in one handler must not take down the loop.
					if r := recover(); r != nil {
						b.logger.Error("panic in update handler",
							"panic", r,
							"stack", string(debug.Stack()),
						)
					}
				}()

				b.handler.HandleUpdate(ctx, upd)
			}(update)
		}
	}
}

// GetBotInfo returns information about the bot
func (b *Bot) GetBotInfo() tgbotapi.User {
	return b.api.Self
}
