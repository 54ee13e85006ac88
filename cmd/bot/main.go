package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/set-night/gratax/internal/config"
	"github.com/set-night/gratax/internal/handler"
	"github.com/set-night/gratax/internal/middleware"
	"github.com/set-night/gratax/internal/service"
	"github.com/set-night/gratax/internal/storage"
	"github.com/set-night/gratax/internal/telegram"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Setup structured logging
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	}))
	slog.SetDefault(logger)

	// Load user-facing content
	content, err := config.LoadContent(cfg.ContentFile)
	if err != nil {
		slog.Error("failed to load content", "error", err)
		os.Exit(1)
	}
	content.DefaultLanguage = cfg.DefaultLanguage
	if err := content.Validate(); err != nil {
		slog.Error("invalid content", "error", err)
		os.Exit(1)
	}

	// Setup context with graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Open conversation storage
	store, err := storage.Open(ctx, cfg, logger)
	if err != nil {
		slog.Error("failed to open storage", "error", err, "driver", cfg.StorageDriver)
		os.Exit(1)
	}
	defer func() {
		if err := store.Close(); err != nil {
			slog.Error("failed to close storage", "error", err)
		}
	}()

	// Initialize services
	responder, remoteStats := service.NewResponder(cfg, content, logger)
	assistants := service.NewAssistantFactory(store, responder, remoteStats, content, logger)

	// Handler pointer for use in middleware closures
	var h *handler.Handler

	opts := []bot.Option{
		bot.WithMiddlewares(
			middleware.Recover(func(err error, where string) {
				if h != nil {
					h.ReportError(err, where)
				}
			}),
			middleware.Logging(),
			middleware.InFlight(func(ctx context.Context, b *bot.Bot, update *models.Update) {
				if h != nil {
					h.HandleBusy(ctx, b, update)
				}
			}),
			middleware.ChatLoader(assistants, cfg),
		),
		bot.WithDefaultHandler(func(ctx context.Context, b *bot.Bot, update *models.Update) {}),
	}
	b, err := bot.New(cfg.BotToken, opts...)
	if err != nil {
		slog.Error("failed to create bot", "error", err)
		os.Exit(1)
	}

	// Get bot info
	me, err := b.GetMe(ctx)
	if err != nil {
		slog.Error("failed to get bot info", "error", err)
		os.Exit(1)
	}

	if cfg.DropPendingUpdates {
		if _, err := b.DeleteWebhook(ctx, &bot.DeleteWebhookParams{DropPendingUpdates: true}); err != nil {
			slog.Warn("failed to drop pending updates", "error", err)
		}
	}

	// Initialize telegram logger
	tgLogger := telegram.NewTelegramLogger(b, cfg)

	// Initialize handler
	h = handler.New(handler.Deps{
		Bot:      b,
		Cfg:      cfg,
		TgLogger: tgLogger,
	})

	// Register all handlers
	h.Register()

	// Register default text handler for questions
	b.RegisterHandler(bot.HandlerTypeMessageText, "", bot.MatchTypePrefix, h.HandleText)

	// Start bot
	slog.Info("starting bot",
		"username", me.Username,
		"id", me.ID,
		"remote", cfg.RemoteEnabled(),
		"storage", cfg.StorageDriver,
	)
	b.Start(ctx)

	// Graceful shutdown
	slog.Info("bot stopped gracefully")
}
