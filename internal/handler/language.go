package handler

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/set-night/gratax/internal/domain"
	"github.com/set-night/gratax/internal/middleware"
	tg "github.com/set-night/gratax/internal/telegram"
)

func (h *Handler) handleLanguage(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	a := middleware.GetAssistant(ctx)
	if a == nil {
		return
	}

	current := a.Language(ctx)
	text := fmt.Sprintf("🌍 *Language*\n\nCurrent: %s\nChoose the language I should answer in:", current.Name)
	h.reply(ctx, b, update.Message.Chat.ID, text, tg.LanguageKeyboard(a.Languages(), current.Code))
}

func (h *Handler) handleLanguageSelect(ctx context.Context, b *bot.Bot, update *models.Update) {
	cq := update.CallbackQuery
	if cq == nil {
		return
	}
	a := middleware.GetAssistant(ctx)
	if a == nil {
		tg.AnswerCallback(ctx, b, update, "")
		return
	}

	code := strings.TrimPrefix(cq.Data, tg.CallbackLanguage)
	err := a.SetLanguage(ctx, code)
	if errors.Is(err, domain.ErrUnknownLanguage) {
		tg.AnswerCallback(ctx, b, update, "❌ This language is no longer available.")
		return
	}
	if err != nil {
		h.fail(ctx, b, middleware.ChatID(update), err, "set language")
		tg.AnswerCallback(ctx, b, update, "")
		return
	}

	lang := a.Language(ctx)
	tg.AnswerCallback(ctx, b, update, "✅ "+lang.Name)

	if msg := cq.Message.Message; msg != nil {
		text := fmt.Sprintf("✅ Language set to *%s*.\n\n%s", lang.Name, tg.EscapeMarkdown(lang.Greeting))
		tg.EditMessage(ctx, b, msg.Chat.ID, msg.ID, text, tg.LanguageKeyboard(a.Languages(), lang.Code))
	}
}
