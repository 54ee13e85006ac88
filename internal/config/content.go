package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/set-night/gratax/internal/domain"
)

// Content is the deploy-time copy shown to users: persona, languages,
// suggested questions and contact details.
type Content struct {
	BotName            string                    `yaml:"bot_name"`
	DefaultLanguage    string                    `yaml:"default_language"`
	Languages          []domain.Language         `yaml:"languages"`
	SuggestedQuestions []string                  `yaml:"suggested_questions"`
	Categories         []domain.QuestionCategory `yaml:"categories"`
	ContactPhone       string                    `yaml:"contact_phone"`
	ContactWebsite     string                    `yaml:"contact_website"`
}

func DefaultContent() *Content {
	return &Content{
		BotName:         "Kofi",
		DefaultLanguage: "en",
		Languages: []domain.Language{
			{Code: "en", Name: "English", Greeting: "Akwaaba! I'm Kofi, your GRA tax assistant. How can I help you today?"},
			{Code: "pidgin", Name: "Pidgin", Greeting: "Chale! I be Kofi, your GRA tax assistant. Wetin I fit help you with today?"},
			{Code: "twi", Name: "Twi", Greeting: "Akwaaba! Me din de Kofi, wo GRA tax assistant. Ɛdeɛn na metumi aboa wo nnɛ?"},
			{Code: "ga", Name: "Ga", Greeting: "Ojekoo! I'm Kofi, your GRA tax assistant. How can I help you today?"},
			{Code: "ewe", Name: "Ewe", Greeting: "Woezɔ! I'm Kofi, your GRA tax assistant. How can I help you today?"},
		},
		SuggestedQuestions: []string{
			"What is the VAT rate in Ghana?",
			"Do I need to register for VAT?",
			"How much is E-Levy?",
			"How do I get a TIN number?",
		},
		Categories: []domain.QuestionCategory{
			{Name: "VAT", Questions: []string{
				"What is the VAT rate in Ghana?",
				"Do I need to register for VAT?",
				"Are food items exempt from VAT?",
				"Do I pay VAT on exported goods?",
			}},
			{Name: "Income Tax", Questions: []string{
				"What are the income tax bands?",
				"How do I file my annual returns?",
				"What expenses can I deduct?",
			}},
			{Name: "E-Levy", Questions: []string{
				"What is E-Levy?",
				"How much is E-Levy on mobile money?",
				"Who is exempt from E-Levy?",
			}},
			{Name: "Registration", Questions: []string{
				"How do I get a TIN?",
				"What documents do I need to register my business?",
			}},
		},
		ContactPhone:   "0800-900-110",
		ContactWebsite: "https://gra.gov.gh",
	}
}

// LoadContent returns the default content, overlaid with the YAML file at
// path when path is non-empty. Fields missing from the file keep their defaults.
func LoadContent(path string) (*Content, error) {
	content := DefaultContent()
	if path == "" {
		return content, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read content file: %w", err)
	}
	if err := yaml.Unmarshal(data, content); err != nil {
		return nil, fmt.Errorf("parse content file: %w", err)
	}
	if err := content.Validate(); err != nil {
		return nil, err
	}
	return content, nil
}

func (c *Content) Validate() error {
	if len(c.Languages) == 0 {
		return fmt.Errorf("validate content: no languages configured")
	}
	if _, ok := c.Language(c.DefaultLanguage); !ok {
		return fmt.Errorf("validate content: default language %q is not configured", c.DefaultLanguage)
	}
	return nil
}

func (c *Content) Language(code string) (domain.Language, bool) {
	for _, l := range c.Languages {
		if l.Code == code {
			return l, true
		}
	}
	return domain.Language{}, false
}
