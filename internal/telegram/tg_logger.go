package telegram

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/set-night/gratax/internal/config"
)

// TelegramLogger mirrors notable events into topics of an admin chat.
type TelegramLogger struct {
	bot *bot.Bot
	cfg *config.Config
}

func NewTelegramLogger(b *bot.Bot, cfg *config.Config) *TelegramLogger {
	return &TelegramLogger{bot: b, cfg: cfg}
}

type LogType string

const (
	LogTypeError      LogType = "error"
	LogTypeUnanswered LogType = "unanswered"
)

func (l *TelegramLogger) Log(logType LogType, message string) {
	if l == nil || l.cfg.LogTelegramChatID == 0 {
		return
	}

	topicID := l.topicID(logType)
	if topicID == 0 {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := l.bot.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:          l.cfg.LogTelegramChatID,
		Text:            Truncate(message, config.MaxTelegramMessageLen),
		ParseMode:       models.ParseModeMarkdownV1,
		MessageThreadID: topicID,
	})
	if err != nil {
		slog.Error("failed to send telegram log", "type", logType, "error", err)
	}
}

func (l *TelegramLogger) LogError(err error, where string) {
	msg := fmt.Sprintf("❌ *Error*\n\n*Context:* %s\n*Error:* %s\n*Time:* %s",
		EscapeMarkdown(where), EscapeMarkdown(err.Error()), time.Now().Format(time.DateTime))
	l.Log(LogTypeError, msg)
}

// LogUnanswered reports a question the assistant had no answer for.
func (l *TelegramLogger) LogUnanswered(chatID int64, language, question string) {
	msg := fmt.Sprintf("❓ *Unanswered question*\n\n*Chat:* `%d`\n*Language:* %s\n*Question:* %s",
		chatID, EscapeMarkdown(language), EscapeMarkdown(question))
	l.Log(LogTypeUnanswered, msg)
}

func (l *TelegramLogger) topicID(logType LogType) int {
	switch logType {
	case LogTypeError:
		return l.cfg.LogTopicError
	case LogTypeUnanswered:
		return l.cfg.LogTopicUnanswered
	default:
		return 0
	}
}
