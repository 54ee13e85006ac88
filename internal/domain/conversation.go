package domain

import (
	"strings"
	"time"
)

type Role string

const (
	RoleUser Role = "user"
	RoleBot  Role = "bot"
)

type Conversation struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	StartedAt time.Time `json:"started"`
	Language  string    `json:"language"`
	Messages  []Message `json:"messages"`
	Resolved  bool      `json:"resolved"`
}

// Message is one turn of a conversation. ID and Timestamp are assigned by the
// conversation store when the message is appended.
type Message struct {
	ID                 string     `json:"id"`
	Role               Role       `json:"role"`
	Content            string     `json:"content"`
	Timestamp          time.Time  `json:"timestamp"`
	Citations          []Citation `json:"citations,omitempty"`
	Confidence         *float64   `json:"confidence,omitempty"`
	SuggestedFollowups []string   `json:"suggested_followups,omitempty"`
	Feedback           *bool      `json:"feedback,omitempty"`
}

type Citation struct {
	Document string `json:"document"`
	Section  string `json:"section"`
	Excerpt  string `json:"excerpt"`
	Page     int    `json:"page"`
}

// FallbackMarker is the phrase a bot reply contains when it could not answer.
const FallbackMarker = "don't have"

func (m *Message) IsFallback() bool {
	return m.Role == RoleBot && strings.Contains(m.Content, FallbackMarker)
}

// FindMessage returns the message with the given id, or nil.
func (c *Conversation) FindMessage(id string) *Message {
	for i := range c.Messages {
		if c.Messages[i].ID == id {
			return &c.Messages[i]
		}
	}
	return nil
}

func (c *Conversation) LastMessage() *Message {
	if len(c.Messages) == 0 {
		return nil
	}
	return &c.Messages[len(c.Messages)-1]
}

// BotMessage builds an unsaved bot message from a responder reply.
func BotMessage(r *Response) Message {
	confidence := r.Confidence
	return Message{
		Role:               RoleBot,
		Content:            r.Text,
		Citations:          r.Citations,
		Confidence:         &confidence,
		SuggestedFollowups: r.SuggestedFollowups,
	}
}

func UserMessage(text string) Message {
	return Message{Role: RoleUser, Content: text}
}
