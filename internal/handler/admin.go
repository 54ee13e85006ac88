package handler

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/set-night/gratax/internal/middleware"
	tg "github.com/set-night/gratax/internal/telegram"
)

func (h *Handler) handleStats(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || !middleware.IsAdmin(ctx) {
		return
	}
	a := middleware.GetAssistant(ctx)
	if a == nil {
		return
	}

	chatID := update.Message.Chat.ID

	stats, err := a.Stats(ctx)
	if err != nil {
		h.fail(ctx, b, chatID, err, "compute statistics")
		return
	}
	h.reply(ctx, b, chatID, tg.FormatStats(stats), nil)
}

func (h *Handler) handleClear(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || !middleware.IsAdmin(ctx) {
		return
	}
	a := middleware.GetAssistant(ctx)
	if a == nil {
		return
	}

	chatID := update.Message.Chat.ID

	if err := a.Clear(ctx); err != nil {
		h.fail(ctx, b, chatID, err, "clear chat data")
		return
	}
	h.reply(ctx, b, chatID, "🧹 All conversations and preferences for this chat were erased.", &models.ReplyKeyboardRemove{RemoveKeyboard: true})
}
