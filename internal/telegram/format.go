package telegram

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/set-night/gratax/internal/domain"
)

const excerptLen = 200

var hundred = decimal.NewFromInt(100)

// FormatConfidence renders a 0..1 confidence as a whole percentage.
func FormatConfidence(confidence float64) string {
	pct := decimal.NewFromFloat(confidence).Mul(hundred).Round(0)
	if pct.IsNegative() {
		pct = decimal.Zero
	}
	if pct.GreaterThan(hundred) {
		pct = hundred
	}
	return pct.String() + "%"
}

func FormatCitation(c domain.Citation) string {
	var b strings.Builder
	b.WriteString("• ")
	b.WriteString(EscapeMarkdown(c.Document))
	if c.Section != "" {
		b.WriteString(", ")
		b.WriteString(EscapeMarkdown(c.Section))
	}
	if c.Page > 0 {
		fmt.Fprintf(&b, ", p. %d", c.Page)
	}
	if c.Excerpt != "" {
		fmt.Fprintf(&b, "\n  “%s”", EscapeMarkdown(Truncate(c.Excerpt, excerptLen)))
	}
	return b.String()
}

// FormatReply renders a bot message with its sources and confidence.
func FormatReply(msg domain.Message) string {
	var b strings.Builder
	b.WriteString(EscapeMarkdown(msg.Content))

	if len(msg.Citations) > 0 {
		b.WriteString("\n\n📚 *Sources*")
		for _, c := range msg.Citations {
			b.WriteString("\n")
			b.WriteString(FormatCitation(c))
		}
	}
	// Greetings and fallbacks carry no sources; their confidence is not shown.
	if msg.Confidence != nil && len(msg.Citations) > 0 {
		fmt.Fprintf(&b, "\n\n_Confidence: %s_", FormatConfidence(*msg.Confidence))
	}
	return b.String()
}

// FormatStats renders the statistics summary shown to admins.
func FormatStats(s *domain.Stats) string {
	var b strings.Builder
	b.WriteString("📊 *Statistics*\n\n")

	b.WriteString("*Today*\n")
	fmt.Fprintf(&b, "Conversations: %d\nMessages: %d\n", s.Today.TotalConversations, s.Today.TotalMessages)
	if len(s.Today.Languages) > 0 {
		fmt.Fprintf(&b, "Languages: %s\n", formatLanguageCounts(s.Today.Languages))
	}

	b.WriteString("\n*All time*\n")
	fmt.Fprintf(&b, "Conversations: %d\nMessages: %d\n", s.AllTime.TotalConversations, s.AllTime.TotalMessages)

	if len(s.TopQuestions) > 0 {
		b.WriteString("\n*Top questions*\n")
		for i, q := range s.TopQuestions {
			fmt.Fprintf(&b, "%d. %s (%d)\n", i+1, EscapeMarkdown(q.Question), q.Count)
		}
	}

	if len(s.Unanswered) > 0 {
		b.WriteString("\n*Unanswered*\n")
		for _, q := range s.Unanswered {
			fmt.Fprintf(&b, "• %s\n", EscapeMarkdown(q))
		}
	}

	if len(s.RecentConversations) > 0 {
		b.WriteString("\n*Recent conversations*\n")
		for _, c := range s.RecentConversations {
			fmt.Fprintf(&b, "• %s · %s · %d messages\n",
				c.StartedAt.Format("2006-01-02 15:04"), c.Language, len(c.Messages))
		}
	}

	return strings.TrimRight(b.String(), "\n")
}

func formatLanguageCounts(counts map[string]int) string {
	codes := make([]string, 0, len(counts))
	for code := range counts {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	parts := make([]string, len(codes))
	for i, code := range codes {
		parts[i] = fmt.Sprintf("%s %d", code, counts[code])
	}
	return strings.Join(parts, ", ")
}
