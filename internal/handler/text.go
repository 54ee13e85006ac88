package handler

import (
	"context"
	"errors"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/set-night/gratax/internal/domain"
	"github.com/set-night/gratax/internal/middleware"
	tg "github.com/set-night/gratax/internal/telegram"
)

// HandleText answers a tax question typed (or tapped) by the user.
func (h *Handler) HandleText(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || strings.HasPrefix(update.Message.Text, "/") {
		return
	}
	a := middleware.GetAssistant(ctx)
	if a == nil {
		return
	}

	chatID := update.Message.Chat.ID

	stopTyping := tg.StartTyping(ctx, b, chatID)
	turn, err := a.Ask(ctx, update.Message.Text)
	stopTyping()

	if errors.Is(err, domain.ErrEmptyMessage) {
		return
	}
	if err != nil {
		h.fail(ctx, b, chatID, err, "answer question")
		return
	}

	unanswered := turn.Unanswered()
	if unanswered {
		h.tgLogger.LogUnanswered(chatID, a.Language(ctx).Code, turn.Question.Content)
	}

	var markup models.ReplyMarkup
	if kb := tg.ReplyKeyboard(turn.Reply.ID, a.Content().ContactWebsite, unanswered); kb != nil {
		markup = kb
	}
	if h.reply(ctx, b, chatID, tg.FormatReply(turn.Reply), markup) == nil {
		return
	}

	if len(turn.Reply.SuggestedFollowups) > 0 {
		h.reply(ctx, b, chatID, "💡 You might also ask:", tg.QuestionKeyboard(turn.Reply.SuggestedFollowups))
	}
}
