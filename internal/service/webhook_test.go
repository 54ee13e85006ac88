package service

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/set-night/gratax/internal/config"
	"github.com/set-night/gratax/internal/domain"
)

func TestWebhookRespond(t *testing.T) {
	var got domain.ChatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/webhook/chat", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Write([]byte(`{"success":true,"response":{"text":"The VAT rate is 15%.","citations":[{"document":"Act 870","section":"Section 3","excerpt":"...","page":5}],"confidence":0.88,"language_detected":"en","suggested_followups":["What is NHIL?"]}}`))
	}))
	defer srv.Close()

	client := NewWebhookClient(srv.URL+"/webhook/", time.Second)
	resp, err := client.Respond(context.Background(), domain.ChatRequest{
		Message:        "vat rate",
		ConversationID: "conv_1",
		Language:       "en",
		UserID:         "user_1",
	})
	require.NoError(t, err)

	assert.Equal(t, domain.ChatRequest{Message: "vat rate", ConversationID: "conv_1", Language: "en", UserID: "user_1"}, got)
	assert.Equal(t, "The VAT rate is 15%.", resp.Text)
	assert.Equal(t, 0.88, resp.Confidence)
	require.Len(t, resp.Citations, 1)
	assert.Equal(t, 5, resp.Citations[0].Page)
	assert.Equal(t, []string{"What is NHIL?"}, resp.SuggestedFollowups)
}

func TestWebhookRequestFieldNames(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var raw map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&raw))
		assert.Equal(t, map[string]string{
			"message":         "hi",
			"conversation_id": "conv_9",
			"language":        "twi",
			"user_id":         "user_9",
		}, raw)
		w.Write([]byte(`{"success":true,"response":{"text":"ok"}}`))
	}))
	defer srv.Close()

	resp, err := NewWebhookClient(srv.URL, time.Second).Respond(context.Background(), domain.ChatRequest{
		Message: "hi", ConversationID: "conv_9", Language: "twi", UserID: "user_9",
	})
	require.NoError(t, err)
	assert.NotNil(t, resp.Citations)
	assert.Equal(t, "twi", resp.LanguageDetected)
}

func TestWebhookFailures(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{"server error", http.StatusInternalServerError, `oops`, domain.ErrRemoteStatus},
		{"not found", http.StatusNotFound, ``, domain.ErrRemoteStatus},
		{"rejected", http.StatusOK, `{"success":false,"error":"quota"}`, domain.ErrRemoteRejected},
		{"missing response", http.StatusOK, `{"success":true}`, domain.ErrRemoteRejected},
		{"malformed", http.StatusOK, `<html>`, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			resp, err := NewWebhookClient(srv.URL, time.Second).Respond(context.Background(), domain.ChatRequest{Message: "x"})
			assert.Nil(t, resp)
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestWebhookUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := NewWebhookClient(url, time.Second).Respond(context.Background(), domain.ChatRequest{Message: "x"})
	assert.Error(t, err)
}

func TestWebhookFlattensHTML(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":true,"response":{"text":"<p>You need:</p><ul><li>Ghana Card</li><li>Proof of address</li></ul>"}}`))
	}))
	defer srv.Close()

	resp, err := NewWebhookClient(srv.URL, time.Second).Respond(context.Background(), domain.ChatRequest{Message: "tin"})
	require.NoError(t, err)

	assert.NotContains(t, resp.Text, "<")
	assert.Contains(t, resp.Text, "You need:")
	assert.Contains(t, resp.Text, "• Ghana Card")
	assert.Contains(t, resp.Text, "• Proof of address")
}

func TestWebhookStats(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/stats", r.URL.Path)
		w.Write([]byte(`{
			"today": {"total_conversations": 4, "total_messages": 12, "languages": {"en": 3, "twi": 1}},
			"all_time": {"total_conversations": 40, "total_messages": 300},
			"top_questions": [{"question": "vat rate", "count": 9}],
			"unanswered": ["what time is it"],
			"recent_conversations": []
		}`))
	}))
	defer srv.Close()

	stats, err := NewWebhookClient(srv.URL, time.Second).Stats(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 4, stats.Today.TotalConversations)
	assert.Equal(t, 3, stats.Today.Languages["en"])
	assert.Equal(t, 300, stats.AllTime.TotalMessages)
	assert.Equal(t, []domain.QuestionStat{{Question: "vat rate", Count: 9}}, stats.TopQuestions)
	assert.Equal(t, []string{"what time is it"}, stats.Unanswered)
}

func TestFallbackResponder(t *testing.T) {
	demo := NewDemoResponder(testContent(), nil)

	t.Run("primary succeeds", func(t *testing.T) {
		primary := &stubResponder{resp: &domain.Response{Text: "remote"}}
		resp, err := NewFallbackResponder(primary, demo, nil).Respond(context.Background(), domain.ChatRequest{Message: "vat rate"})
		require.NoError(t, err)
		assert.Equal(t, "remote", resp.Text)
	})

	t.Run("primary fails", func(t *testing.T) {
		primary := &stubResponder{err: errors.New("connection refused")}
		resp, err := NewFallbackResponder(primary, demo, nil).Respond(context.Background(), domain.ChatRequest{Message: "what is the vat rate", Language: "en"})
		require.NoError(t, err)
		assert.Equal(t, 0.92, resp.Confidence)
		assert.Len(t, primary.requests, 1)
	})

	t.Run("no primary", func(t *testing.T) {
		resp, err := NewFallbackResponder(nil, demo, nil).Respond(context.Background(), domain.ChatRequest{Message: "hello"})
		require.NoError(t, err)
		assert.Equal(t, 1.0, resp.Confidence)
	})
}

func TestFallbackResponderOverHTTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	cfg := &config.Config{WebhookURL: srv.URL, RequestTimeout: time.Second}
	responder, stats := NewResponder(cfg, testContent(), nil)
	require.NotNil(t, stats)

	resp, err := responder.Respond(context.Background(), domain.ChatRequest{Message: "what time is it", Language: "en"})
	require.NoError(t, err)
	assert.Equal(t, 0.1, resp.Confidence)
}

func TestNewResponderDemoMode(t *testing.T) {
	cfg := &config.Config{WebhookURL: "https://hooks.example.com", DemoMode: true, RequestTimeout: time.Second}

	responder, stats := NewResponder(cfg, testContent(), nil)

	assert.IsType(t, &DemoResponder{}, responder)
	assert.Nil(t, stats)
}

func TestCachedStats(t *testing.T) {
	remote := &stubStats{stats: &domain.Stats{AllTime: domain.AllTimeStats{TotalMessages: 3}}}
	clock := newFakeClock()
	cached := NewCachedStats(remote, time.Minute)
	cached.now = clock.Now
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		stats, err := cached.Stats(ctx)
		require.NoError(t, err)
		assert.Equal(t, 3, stats.AllTime.TotalMessages)
	}
	assert.Equal(t, 1, remote.calls)

	clock.Advance(2 * time.Minute)
	_, err := cached.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, remote.calls)
}

func TestCachedStatsDoesNotCacheFailures(t *testing.T) {
	remote := &stubStats{err: errors.New("down")}
	cached := NewCachedStats(remote, time.Minute)
	ctx := context.Background()

	_, err := cached.Stats(ctx)
	require.Error(t, err)

	remote.err = nil
	remote.stats = &domain.Stats{}
	_, err = cached.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, remote.calls)
}
