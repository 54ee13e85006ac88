package middleware

import (
	"context"
	"log/slog"
	"sync"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// InFlight returns middleware that lets a chat have one text message in
// progress at a time. Messages arriving meanwhile go to busy instead.
// Commands and callbacks are not limited.
func InFlight(busy bot.HandlerFunc) bot.Middleware {
	var pending sync.Map

	return func(next bot.HandlerFunc) bot.HandlerFunc {
		return func(ctx context.Context, b *bot.Bot, update *models.Update) {
			if update.Message == nil || update.Message.Text == "" || update.Message.Text[0] == '/' {
				next(ctx, b, update)
				return
			}

			chatID := update.Message.Chat.ID
			if _, loaded := pending.LoadOrStore(chatID, struct{}{}); loaded {
				slog.Debug("chat busy, message rejected", "chat_id", chatID)
				if busy != nil {
					busy(ctx, b, update)
				}
				return
			}
			defer pending.Delete(chatID)

			next(ctx, b, update)
		}
	}
}
