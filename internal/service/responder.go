package service

import (
	"context"
	"log/slog"

	"github.com/set-night/gratax/internal/config"
	"github.com/set-night/gratax/internal/domain"
)

// Responder produces the bot's reply to one user turn. A nil error means the
// response is usable; callers never see a half-filled response.
type Responder interface {
	Respond(ctx context.Context, req domain.ChatRequest) (*domain.Response, error)
}

// StatsSource provides statistics computed elsewhere than the local store.
type StatsSource interface {
	Stats(ctx context.Context) (*domain.Stats, error)
}

// FallbackResponder asks the primary responder and, when it fails for any
// reason, answers from the fallback instead.
type FallbackResponder struct {
	primary  Responder
	fallback Responder
	logger   *slog.Logger
}

func NewFallbackResponder(primary, fallback Responder, logger *slog.Logger) *FallbackResponder {
	if logger == nil {
		logger = slog.Default()
	}
	return &FallbackResponder{primary: primary, fallback: fallback, logger: logger}
}

func (f *FallbackResponder) Respond(ctx context.Context, req domain.ChatRequest) (*domain.Response, error) {
	if f.primary == nil {
		return f.fallback.Respond(ctx, req)
	}
	resp, err := f.primary.Respond(ctx, req)
	if err == nil {
		return resp, nil
	}
	f.logger.Warn("remote responder failed, using local simulation",
		"error", err,
		"conversation_id", req.ConversationID,
	)
	return f.fallback.Respond(ctx, req)
}

// NewResponder wires the response engine from configuration: the webhook with
// local fallback when a remote endpoint is enabled, the local simulation otherwise.
// The returned StatsSource is nil without a remote endpoint.
func NewResponder(cfg *config.Config, content *config.Content, logger *slog.Logger) (Responder, StatsSource) {
	demo := NewDemoResponder(content, DefaultKnowledgeBase())
	if !cfg.RemoteEnabled() {
		return demo, nil
	}
	client := NewWebhookClient(cfg.WebhookURL, cfg.RequestTimeout)
	var stats StatsSource = client
	if cfg.StatsCacheTTL > 0 {
		stats = NewCachedStats(client, cfg.StatsCacheTTL)
	}
	return NewFallbackResponder(client, demo, logger), stats
}
