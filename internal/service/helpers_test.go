package service

import (
	"context"
	"fmt"
	"time"

	"github.com/set-night/gratax/internal/config"
	"github.com/set-night/gratax/internal/domain"
	"github.com/set-night/gratax/internal/storage"
)

type fakeClock struct {
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 3, 6, 9, 30, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func sequentialIDs() func(prefix string) string {
	n := 0
	return func(prefix string) string {
		n++
		return fmt.Sprintf("%s_%d", prefix, n)
	}
}

func newTestStore(s storage.Storage, clock *fakeClock) *ConversationStore {
	return NewConversationStore(s,
		WithClock(clock.Now),
		WithIDGenerator(sequentialIDs()),
		WithLocation(time.UTC),
	)
}

// stubResponder returns a fixed response or error and records requests.
type stubResponder struct {
	resp     *domain.Response
	err      error
	requests []domain.ChatRequest
}

func (s *stubResponder) Respond(ctx context.Context, req domain.ChatRequest) (*domain.Response, error) {
	s.requests = append(s.requests, req)
	if s.err != nil {
		return nil, s.err
	}
	return s.resp, nil
}

func testContent() *config.Content {
	return config.DefaultContent()
}
