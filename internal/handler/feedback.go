package handler

import (
	"context"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/set-night/gratax/internal/middleware"
	tg "github.com/set-night/gratax/internal/telegram"
)

// parseFeedback splits feedback callback data into the message id and verdict.
func parseFeedback(data string) (messageID string, helpful bool, ok bool) {
	switch {
	case strings.HasPrefix(data, tg.CallbackHelpful):
		messageID, helpful = strings.TrimPrefix(data, tg.CallbackHelpful), true
	case strings.HasPrefix(data, tg.CallbackNotHelpful):
		messageID = strings.TrimPrefix(data, tg.CallbackNotHelpful)
	}
	return messageID, helpful, messageID != ""
}

func (h *Handler) handleFeedback(ctx context.Context, b *bot.Bot, update *models.Update) {
	cq := update.CallbackQuery
	if cq == nil {
		return
	}
	a := middleware.GetAssistant(ctx)
	messageID, helpful, ok := parseFeedback(cq.Data)
	if a == nil || !ok {
		tg.AnswerCallback(ctx, b, update, "")
		return
	}

	if err := a.Feedback(ctx, messageID, helpful); err != nil {
		h.fail(ctx, b, middleware.ChatID(update), err, "save feedback")
		tg.AnswerCallback(ctx, b, update, "")
		return
	}

	tg.AnswerCallback(ctx, b, update, "🙏 Thanks for your feedback!")

	if msg := cq.Message.Message; msg != nil {
		verdict := "👍 Marked as helpful"
		if !helpful {
			verdict = "👎 Marked as not helpful"
		}
		b.EditMessageReplyMarkup(ctx, &bot.EditMessageReplyMarkupParams{
			ChatID:      msg.Chat.ID,
			MessageID:   msg.ID,
			ReplyMarkup: tg.InlineKeyboard(tg.ButtonRow(tg.InlineButton(verdict, "noop"))),
		})
	}
}
