package telegram

import (
	"strings"
	"unicode/utf8"
)

// SplitMessage splits text into chunks of at most maxLen runes, preferring
// paragraph breaks, then line breaks.
func SplitMessage(text string, maxLen int) []string {
	if utf8.RuneCountInString(text) <= maxLen {
		return []string{text}
	}

	var parts []string
	for utf8.RuneCountInString(text) > maxLen {
		runes := []rune(text)
		chunk := string(runes[:maxLen])

		splitAt := len(chunk)
		if i := strings.LastIndex(chunk, "\n\n"); i > len(chunk)/2 {
			splitAt = i + 2
		} else if i := strings.LastIndex(chunk, "\n"); i > len(chunk)/2 {
			splitAt = i + 1
		}

		parts = append(parts, chunk[:splitAt])
		text = text[splitAt:]
	}
	if text != "" {
		parts = append(parts, text)
	}
	return parts
}

// Truncate cuts text to maxLen runes, marking the cut with an ellipsis.
func Truncate(text string, maxLen int) string {
	if utf8.RuneCountInString(text) <= maxLen {
		return text
	}
	return string([]rune(text)[:maxLen-1]) + "…"
}

var markdownEscaper = strings.NewReplacer(
	"_", "\\_",
	"*", "\\*",
	"`", "\\`",
	"[", "\\[",
)

// EscapeMarkdown escapes text for Telegram's legacy Markdown mode.
func EscapeMarkdown(text string) string {
	return markdownEscaper.Replace(text)
}

// FixMarkdown closes unbalanced code spans and emphasis so Telegram
// accepts the text.
func FixMarkdown(text string) string {
	if strings.Count(text, "```")%2 != 0 {
		text += "\n```"
	}

	var b strings.Builder
	var inBlock, inCode, inBold bool

	runes := []rune(text)
	for i := 0; i < len(runes); i++ {
		if i+2 < len(runes) && string(runes[i:i+3]) == "```" {
			if inCode {
				b.WriteRune('`')
				inCode = false
			}
			inBlock = !inBlock
			b.WriteString("```")
			i += 2
			continue
		}

		if !inBlock {
			switch {
			case runes[i] == '\\' && i+1 < len(runes):
				b.WriteRune(runes[i])
				i++
				b.WriteRune(runes[i])
				continue
			case runes[i] == '`':
				inCode = !inCode
			case runes[i] == '*' && !inCode:
				inBold = !inBold
			}
		}
		b.WriteRune(runes[i])
	}

	if inCode {
		b.WriteRune('`')
	}
	if inBold {
		b.WriteRune('*')
	}
	return b.String()
}
