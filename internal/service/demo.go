package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/set-night/gratax/internal/config"
	"github.com/set-night/gratax/internal/domain"
)

const (
	keyPhraseScore     = 10
	keywordScore       = 2
	minMatchScore      = 2
	greetConfidence    = 1.0
	matchConfidence    = 0.92
	fallbackConfidence = 0.1

	informalLanguage = "pidgin"
)

var greetingTokens = []string{
	"hello", "hi", "hey", "good morning", "good afternoon",
	"good evening", "akwaaba", "chale", "charley",
}

var greetings = map[string]string{
	"en":     "Hello! I'm Kofi, your GRA tax assistant. I can help you with questions about VAT, income tax, E-Levy, TIN registration, and more. What would you like to know?",
	"pidgin": "Chale! I be Kofi, your GRA tax assistant. I fit help you with VAT, income tax, E-Levy, TIN registration, and plenty more. Wetin you wan know?",
	"twi":    "Akwaaba! Me din de Kofi, wo GRA tax assistant. Metumi aboa wo VAT, income tax, E-Levy, TIN registration ne nea aka nyinaa ho. Dɛn na wopɛ sɛ wohunu?",
}

// Fallback templates take the contact phone and website.
var fallbacks = map[string]string{
	"en":     "I don't have specific information about that in my knowledge base. For detailed assistance, please:\n\n• Call GRA: %s\n• Visit: %s\n• Visit any GRA office near you\n\nIs there something else about VAT, income tax, or E-Levy I can help with?",
	"pidgin": "I no get answer for dat one for my head o. Abeg try:\n\n• Call GRA: %s\n• Check: %s\n• Go any GRA office wey dey near you\n\nAnything else about VAT, income tax or E-Levy wey I fit help?",
	"twi":    "Menni nkɔmɔ pa bi wɔ me nkyerɛwde mu. Mesrɛ wo:\n\n• Frɛ GRA: %s\n• Kɔ: %s\n• Kɔ GRA ofisi biara a ɛbɛn wo\n\nBiribi foforo wɔ VAT, income tax anaa E-Levy ho a metumi aboa wo?",
}

var matchFollowups = []string{
	"How do I register for VAT?",
	"What is the E-Levy rate?",
}

// informalReplacements rewrite English answers into rough Pidgin. Each pattern
// replaces only its first occurrence.
var informalReplacements = [][2]string{
	{"You must", "You go need to"},
	{"You can", "You fit"},
	{"This means", "Dis mean sey"},
	{"Great news", "Good news"},
	{"Yes,", "Yes o,"},
}

// DemoResponder answers from the built-in knowledge table without any network.
type DemoResponder struct {
	knowledge []KnowledgeEntry
	content   *config.Content
}

func NewDemoResponder(content *config.Content, knowledge []KnowledgeEntry) *DemoResponder {
	if knowledge == nil {
		knowledge = DefaultKnowledgeBase()
	}
	return &DemoResponder{knowledge: knowledge, content: content}
}

func (d *DemoResponder) Respond(ctx context.Context, req domain.ChatRequest) (*domain.Response, error) {
	text := strings.ToLower(strings.TrimSpace(req.Message))

	if isGreeting(text) {
		return d.greeting(req.Language), nil
	}
	if entry, _ := d.bestMatch(text); entry != nil {
		return d.answer(entry, req.Language), nil
	}
	return d.fallback(req.Language), nil
}

func isGreeting(text string) bool {
	for _, g := range greetingTokens {
		if strings.Contains(text, g) {
			return true
		}
	}
	return false
}

// bestMatch scores every entry against the normalized text: 10 for the key
// phrase, 2 per keyword. The first highest-scoring entry wins if it reaches 2.
func (d *DemoResponder) bestMatch(text string) (*KnowledgeEntry, int) {
	var (
		best      *KnowledgeEntry
		bestScore int
	)
	for i := range d.knowledge {
		entry := &d.knowledge[i]
		score := 0
		if strings.Contains(text, entry.Key) {
			score += keyPhraseScore
		}
		for _, kw := range entry.Keywords {
			if strings.Contains(text, kw) {
				score += keywordScore
			}
		}
		if score > bestScore {
			best, bestScore = entry, score
		}
	}
	if bestScore < minMatchScore {
		return nil, bestScore
	}
	return best, bestScore
}

func (d *DemoResponder) greeting(language string) *domain.Response {
	suggested := d.content.SuggestedQuestions
	if len(suggested) > 3 {
		suggested = suggested[:3]
	}
	return &domain.Response{
		Text:               localized(greetings, language),
		Citations:          []domain.Citation{},
		Confidence:         greetConfidence,
		LanguageDetected:   language,
		SuggestedFollowups: append([]string(nil), suggested...),
	}
}

func (d *DemoResponder) answer(entry *KnowledgeEntry, language string) *domain.Response {
	text := entry.Answer
	if language == informalLanguage {
		text = toInformal(text)
	}
	return &domain.Response{
		Text:               text,
		Citations:          []domain.Citation{entry.Citation},
		Confidence:         matchConfidence,
		LanguageDetected:   language,
		SuggestedFollowups: append([]string(nil), matchFollowups...),
	}
}

func (d *DemoResponder) fallback(language string) *domain.Response {
	text := fmt.Sprintf(localized(fallbacks, language), d.content.ContactPhone, d.content.ContactWebsite)
	return &domain.Response{
		Text:               text,
		Citations:          []domain.Citation{},
		Confidence:         fallbackConfidence,
		LanguageDetected:   language,
		SuggestedFollowups: append([]string(nil), d.content.SuggestedQuestions...),
	}
}

func toInformal(text string) string {
	for _, r := range informalReplacements {
		text = strings.Replace(text, r[0], r[1], 1)
	}
	return text
}

func localized(texts map[string]string, language string) string {
	if t, ok := texts[language]; ok {
		return t
	}
	return texts["en"]
}
