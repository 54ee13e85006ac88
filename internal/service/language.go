package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/set-night/gratax/internal/config"
	"github.com/set-night/gratax/internal/domain"
	"github.com/set-night/gratax/internal/storage"
)

// LanguageService keeps an origin's language preference.
type LanguageService struct {
	storage storage.Storage
	content *config.Content
	logger  *slog.Logger
}

func NewLanguageService(s storage.Storage, content *config.Content, logger *slog.Logger) *LanguageService {
	if logger == nil {
		logger = slog.Default()
	}
	return &LanguageService{storage: s, content: content, logger: logger}
}

// Get returns the saved language if it is still configured, otherwise the default.
func (l *LanguageService) Get(ctx context.Context) string {
	code, ok, err := l.storage.Get(ctx, config.KeyLanguage)
	if err != nil {
		l.logger.Warn("get language", "error", err)
		return l.content.DefaultLanguage
	}
	if !ok {
		return l.content.DefaultLanguage
	}
	if _, known := l.content.Language(code); !known {
		return l.content.DefaultLanguage
	}
	return code
}

func (l *LanguageService) Set(ctx context.Context, code string) error {
	if _, ok := l.content.Language(code); !ok {
		return fmt.Errorf("%w: %s", domain.ErrUnknownLanguage, code)
	}
	if err := l.storage.Set(ctx, config.KeyLanguage, code); err != nil {
		return fmt.Errorf("save language: %w", err)
	}
	return nil
}

func (l *LanguageService) Current(ctx context.Context) domain.Language {
	lang, _ := l.content.Language(l.Get(ctx))
	return lang
}

func (l *LanguageService) Greeting(ctx context.Context) string {
	return l.Current(ctx).Greeting
}

func (l *LanguageService) Languages() []domain.Language {
	return l.content.Languages
}
