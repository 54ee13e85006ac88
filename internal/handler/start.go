package handler

import (
	"context"
	"fmt"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/set-night/gratax/internal/middleware"
	tg "github.com/set-night/gratax/internal/telegram"
)

const commandsHelp = "📋 *Commands:*\n" +
	"/new - Start a new conversation\n" +
	"/language - Choose your language\n" +
	"/topics - Browse questions by topic\n" +
	"/help - Show this message\n\n" +
	"Or just type your tax question!"

func (h *Handler) handleStart(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	a := middleware.GetAssistant(ctx)
	if a == nil {
		return
	}

	chatID := update.Message.Chat.ID

	conv, created, err := a.Open(ctx)
	if err != nil {
		h.fail(ctx, b, chatID, err, "open conversation")
		return
	}

	greeting := a.Language(ctx).Greeting
	suggested := a.Content().SuggestedQuestions
	if created && len(conv.Messages) > 0 {
		greeting = conv.Messages[0].Content
		suggested = conv.Messages[0].SuggestedFollowups
	}

	text := fmt.Sprintf("👋 *%s*\n\n%s\n\n%s",
		tg.EscapeMarkdown(a.Content().BotName), tg.EscapeMarkdown(greeting), commandsHelp)
	h.reply(ctx, b, chatID, text, tg.QuestionKeyboard(suggested))
}

func (h *Handler) handleHelp(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	text := commandsHelp
	if middleware.IsAdmin(ctx) {
		mode := "demo"
		if h.cfg.RemoteEnabled() {
			mode = "remote"
		}
		text += "\n\n🔧 *Admin:*\n/stats - Usage statistics\n/clear - Erase this chat's data\nMode: " + mode
	}
	h.reply(ctx, b, update.Message.Chat.ID, text, nil)
}

func (h *Handler) handleNew(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	a := middleware.GetAssistant(ctx)
	if a == nil {
		return
	}

	chatID := update.Message.Chat.ID

	conv, err := a.NewConversation(ctx)
	if err != nil {
		h.fail(ctx, b, chatID, err, "new conversation")
		return
	}

	greeting := conv.Messages[len(conv.Messages)-1]
	text := "🔄 New conversation started.\n\n" + tg.EscapeMarkdown(greeting.Content)
	h.reply(ctx, b, chatID, text, tg.QuestionKeyboard(greeting.SuggestedFollowups))
}
