package handler

import (
	"github.com/go-telegram/bot"

	"github.com/set-night/gratax/internal/config"
	"github.com/set-night/gratax/internal/telegram"
)

// Handler holds all dependencies needed by command and callback handlers.
// The chat's assistant itself arrives in the update context.
type Handler struct {
	bot      *bot.Bot
	cfg      *config.Config
	tgLogger *telegram.TelegramLogger
}

// Deps contains all dependencies required to construct a Handler.
type Deps struct {
	Bot      *bot.Bot
	Cfg      *config.Config
	TgLogger *telegram.TelegramLogger
}

// New creates a new Handler from the provided dependencies.
func New(deps Deps) *Handler {
	return &Handler{
		bot:      deps.Bot,
		cfg:      deps.Cfg,
		tgLogger: deps.TgLogger,
	}
}
