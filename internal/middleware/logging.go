package middleware

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// Logging returns middleware that logs update processing time.
func Logging() bot.Middleware {
	return func(next bot.HandlerFunc) bot.HandlerFunc {
		return func(ctx context.Context, b *bot.Bot, update *models.Update) {
			start := time.Now()

			updateType := "unknown"
			var userID int64
			var detail string

			switch {
			case update.Message != nil:
				updateType = "message"
				if update.Message.From != nil {
					userID = update.Message.From.ID
				}
				detail = commandOf(update.Message.Text)
			case update.CallbackQuery != nil:
				updateType = "callback_query"
				userID = update.CallbackQuery.From.ID
				detail = update.CallbackQuery.Data
			}

			next(ctx, b, update)

			slog.Debug("update processed",
				"type", updateType,
				"chat_id", ChatID(update),
				"user_id", userID,
				"detail", detail,
				"duration", time.Since(start),
			)
		}
	}
}

// commandOf returns the command of a message, leaving user text out of logs.
func commandOf(text string) string {
	if len(text) == 0 || text[0] != '/' {
		return ""
	}
	for i, r := range text {
		if r == ' ' || r == '@' {
			return text[:i]
		}
	}
	return text
}
