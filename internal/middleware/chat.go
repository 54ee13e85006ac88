package middleware

import (
	"context"
	"strconv"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/set-night/gratax/internal/service"
)

type ctxKey string

const (
	AssistantKey ctxKey = "assistant"
	AdminKey     ctxKey = "admin"
)

// GetAssistant extracts the chat's assistant from context.
func GetAssistant(ctx context.Context) *service.Assistant {
	a, ok := ctx.Value(AssistantKey).(*service.Assistant)
	if !ok {
		return nil
	}
	return a
}

// IsAdmin reports whether the update's sender is an administrator.
func IsAdmin(ctx context.Context) bool {
	admin, _ := ctx.Value(AdminKey).(bool)
	return admin
}

// ChatID returns the chat an update belongs to, or 0.
func ChatID(update *models.Update) int64 {
	switch {
	case update.Message != nil:
		return update.Message.Chat.ID
	case update.CallbackQuery != nil && update.CallbackQuery.Message.Message != nil:
		return update.CallbackQuery.Message.Message.Chat.ID
	default:
		return 0
	}
}

func senderID(update *models.Update) int64 {
	switch {
	case update.Message != nil && update.Message.From != nil:
		return update.Message.From.ID
	case update.CallbackQuery != nil:
		return update.CallbackQuery.From.ID
	default:
		return 0
	}
}

// Origin names the storage namespace of a chat.
func Origin(chatID int64) string {
	return "chat:" + strconv.FormatInt(chatID, 10)
}

// ChatLoader returns middleware that puts the chat's assistant and the
// sender's admin flag into context. Updates without a chat pass through bare.
func ChatLoader(factory *service.AssistantFactory, cfg interface{ IsAdmin(int64) bool }) bot.Middleware {
	return func(next bot.HandlerFunc) bot.HandlerFunc {
		return func(ctx context.Context, b *bot.Bot, update *models.Update) {
			chatID := ChatID(update)
			if chatID == 0 {
				next(ctx, b, update)
				return
			}

			assistant, release := factory.Acquire(Origin(chatID))
			defer release()

			ctx = context.WithValue(ctx, AssistantKey, assistant)
			if from := senderID(update); from != 0 {
				ctx = context.WithValue(ctx, AdminKey, cfg.IsAdmin(from))
			}

			next(ctx, b, update)
		}
	}
}
