package handler

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/set-night/gratax/internal/middleware"
	tg "github.com/set-night/gratax/internal/telegram"
)

func (h *Handler) handleTopics(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	a := middleware.GetAssistant(ctx)
	if a == nil {
		return
	}

	categories := a.Content().Categories
	if len(categories) == 0 {
		h.reply(ctx, b, update.Message.Chat.ID, "No topics are configured yet. Just type your question!", nil)
		return
	}
	h.reply(ctx, b, update.Message.Chat.ID, "📂 *Topics*\n\nPick a topic to see common questions:", tg.CategoryKeyboard(categories))
}

func (h *Handler) handleCategorySelect(ctx context.Context, b *bot.Bot, update *models.Update) {
	cq := update.CallbackQuery
	if cq == nil {
		return
	}
	tg.AnswerCallback(ctx, b, update, "")

	a := middleware.GetAssistant(ctx)
	if a == nil {
		return
	}

	categories := a.Content().Categories
	idx, err := strconv.Atoi(strings.TrimPrefix(cq.Data, tg.CallbackCategory))
	if err != nil || idx < 0 || idx >= len(categories) {
		return
	}
	category := categories[idx]

	text := fmt.Sprintf("📂 *%s*\n\nTap a question to ask it:", tg.EscapeMarkdown(category.Name))
	h.reply(ctx, b, middleware.ChatID(update), text, tg.QuestionKeyboard(category.Questions))
}
