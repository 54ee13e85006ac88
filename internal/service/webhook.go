package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/set-night/gratax/internal/config"
	"github.com/set-night/gratax/internal/domain"
)

// WebhookClient talks to the remote assistant backend.
type WebhookClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewWebhookClient(baseURL string, timeout time.Duration) *WebhookClient {
	return &WebhookClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

type chatEnvelope struct {
	Success  bool             `json:"success"`
	Response *domain.Response `json:"response"`
	Error    string           `json:"error,omitempty"`
}

func (c *WebhookClient) Respond(ctx context.Context, chatReq domain.ChatRequest) (*domain.Response, error) {
	payload, err := json.Marshal(chatReq)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+config.EndpointChat, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	body, err := c.do(req)
	if err != nil {
		return nil, err
	}

	var envelope chatEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}
	if !envelope.Success || envelope.Response == nil {
		if envelope.Error != "" {
			return nil, fmt.Errorf("%w: %s", domain.ErrRemoteRejected, envelope.Error)
		}
		return nil, domain.ErrRemoteRejected
	}

	resp := envelope.Response
	if looksLikeHTML(resp.Text) {
		resp.Text = htmlToText(resp.Text)
	}
	if resp.Citations == nil {
		resp.Citations = []domain.Citation{}
	}
	if resp.LanguageDetected == "" {
		resp.LanguageDetected = chatReq.Language
	}
	return resp, nil
}

// Stats fetches aggregate statistics computed by the backend.
func (c *WebhookClient) Stats(ctx context.Context) (*domain.Stats, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+config.EndpointStats, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	body, err := c.do(req)
	if err != nil {
		return nil, err
	}

	var stats domain.Stats
	if err := json.Unmarshal(body, &stats); err != nil {
		return nil, fmt.Errorf("parse stats: %w", err)
	}
	return &stats, nil
}

func (c *WebhookClient) do(req *http.Request) ([]byte, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %d", domain.ErrRemoteStatus, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	return body, nil
}

func looksLikeHTML(text string) bool {
	return strings.Contains(text, "<") && strings.Contains(text, ">")
}

// htmlToText flattens markup some backends put in answers, keeping line
// breaks and list bullets.
func htmlToText(text string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(text))
	if err != nil {
		return text
	}
	doc.Find("br").ReplaceWithHtml("\n")
	doc.Find("li").Each(func(_ int, s *goquery.Selection) {
		s.PrependHtml("• ")
		s.AppendHtml("\n")
	})
	doc.Find("p").Each(func(_ int, s *goquery.Selection) {
		s.AppendHtml("\n\n")
	})
	return strings.TrimSpace(doc.Text())
}
