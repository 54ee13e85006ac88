package handler

import (
	"context"
	"log/slog"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	tg "github.com/set-night/gratax/internal/telegram"
)

// Register registers all command and callback handlers on the bot instance.
func (h *Handler) Register() {
	// Commands
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/start", bot.MatchTypePrefix, h.handleStart)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/help", bot.MatchTypePrefix, h.handleHelp)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/new", bot.MatchTypePrefix, h.handleNew)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/language", bot.MatchTypePrefix, h.handleLanguage)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/topics", bot.MatchTypePrefix, h.handleTopics)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/stats", bot.MatchTypePrefix, h.handleStats)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/clear", bot.MatchTypePrefix, h.handleClear)

	// Feedback callbacks
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, tg.CallbackHelpful, bot.MatchTypePrefix, h.handleFeedback)
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, tg.CallbackNotHelpful, bot.MatchTypePrefix, h.handleFeedback)

	// Menu callbacks
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, tg.CallbackLanguage, bot.MatchTypePrefix, h.handleLanguageSelect)
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, tg.CallbackCategory, bot.MatchTypePrefix, h.handleCategorySelect)
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "noop", bot.MatchTypeExact, h.handleNoop)
}

// handleNoop acknowledges callbacks of non-interactive buttons.
func (h *Handler) handleNoop(ctx context.Context, b *bot.Bot, update *models.Update) {
	tg.AnswerCallback(ctx, b, update, "")
}

// HandleBusy tells the user their previous question is still being answered.
func (h *Handler) HandleBusy(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: update.Message.Chat.ID,
		Text:   "⏳ Please wait, I'm still answering your previous question.",
	})
}

// ReportError mirrors an error raised outside a handler to the admin chat.
func (h *Handler) ReportError(err error, where string) {
	h.tgLogger.LogError(err, where)
}

// reply sends text to a chat and reports delivery failures.
func (h *Handler) reply(ctx context.Context, b *bot.Bot, chatID int64, text string, markup models.ReplyMarkup) *models.Message {
	msg, err := tg.SendLongMessage(ctx, b, chatID, text, markup)
	if err != nil {
		slog.Error("send reply", "error", err, "chat_id", chatID)
		return nil
	}
	return msg
}

// fail logs err, mirrors it to the admin chat and apologises to the user.
func (h *Handler) fail(ctx context.Context, b *bot.Bot, chatID int64, err error, where string) {
	slog.Error(where, "error", err, "chat_id", chatID)
	h.tgLogger.LogError(err, where)
	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   "❌ Something went wrong. Please try again in a moment.",
	})
}
