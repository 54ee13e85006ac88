package telegram

import (
	"strconv"

	"github.com/go-telegram/bot/models"

	"github.com/set-night/gratax/internal/config"
	"github.com/set-night/gratax/internal/domain"
)

// Callback data prefixes.
const (
	CallbackHelpful    = "fb_up_"
	CallbackNotHelpful = "fb_down_"
	CallbackLanguage   = "lang_"
	CallbackCategory   = "cat_"
)

func InlineButton(text, callbackData string) models.InlineKeyboardButton {
	return models.InlineKeyboardButton{
		Text:         text,
		CallbackData: callbackData,
	}
}

func URLButton(text, url string) models.InlineKeyboardButton {
	return models.InlineKeyboardButton{
		Text: text,
		URL:  url,
	}
}

func InlineKeyboard(rows ...[]models.InlineKeyboardButton) *models.InlineKeyboardMarkup {
	return &models.InlineKeyboardMarkup{
		InlineKeyboard: rows,
	}
}

func ButtonRow(buttons ...models.InlineKeyboardButton) []models.InlineKeyboardButton {
	return buttons
}

// FeedbackKeyboard returns the 👍/👎 buttons for a bot message, or nil when
// the message id does not fit in callback data.
func FeedbackKeyboard(messageID string) *models.InlineKeyboardMarkup {
	if messageID == "" || len(CallbackNotHelpful+messageID) > config.MaxCallbackDataLen {
		return nil
	}
	return InlineKeyboard(ButtonRow(
		InlineButton("👍 Helpful", CallbackHelpful+messageID),
		InlineButton("👎 Not helpful", CallbackNotHelpful+messageID),
	))
}

// ReplyKeyboard returns the buttons under an answer: feedback when the message
// id fits, plus a link to website for unanswered questions. Nil when empty.
func ReplyKeyboard(messageID, website string, unanswered bool) *models.InlineKeyboardMarkup {
	var rows [][]models.InlineKeyboardButton
	if kb := FeedbackKeyboard(messageID); kb != nil {
		rows = append(rows, kb.InlineKeyboard...)
	}
	if unanswered && website != "" {
		rows = append(rows, ButtonRow(URLButton("🌐 Visit GRA", website)))
	}
	if len(rows) == 0 {
		return nil
	}
	return InlineKeyboard(rows...)
}

// LanguageKeyboard lists languages two per row, marking the current one.
func LanguageKeyboard(languages []domain.Language, current string) *models.InlineKeyboardMarkup {
	var rows [][]models.InlineKeyboardButton
	var row []models.InlineKeyboardButton
	for _, lang := range languages {
		label := lang.Name
		if lang.Code == current {
			label = "✅ " + label
		}
		row = append(row, InlineButton(label, CallbackLanguage+lang.Code))
		if len(row) == 2 {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}
	return InlineKeyboard(rows...)
}

// CategoryKeyboard lists question categories one per row.
func CategoryKeyboard(categories []domain.QuestionCategory) *models.InlineKeyboardMarkup {
	rows := make([][]models.InlineKeyboardButton, 0, len(categories))
	for i, c := range categories {
		rows = append(rows, ButtonRow(InlineButton(c.Name, CallbackCategory+strconv.Itoa(i))))
	}
	return InlineKeyboard(rows...)
}

// QuestionKeyboard offers questions as reply buttons; tapping one sends it as
// a message. Returns nil for no questions.
func QuestionKeyboard(questions []string) models.ReplyMarkup {
	if len(questions) == 0 {
		return nil
	}
	rows := make([][]models.KeyboardButton, 0, len(questions))
	for _, q := range questions {
		rows = append(rows, []models.KeyboardButton{{Text: q}})
	}
	return &models.ReplyKeyboardMarkup{
		Keyboard:        rows,
		ResizeKeyboard:  true,
		OneTimeKeyboard: true,
	}
}
