package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/set-night/gratax/internal/config"
	"github.com/set-night/gratax/internal/domain"
	"github.com/set-night/gratax/internal/storage"
)

// ConversationStore owns the conversation list and the current-conversation
// pointer of one origin. The whole list is read, modified and written back on
// every mutation.
type ConversationStore struct {
	storage  storage.Storage
	logger   *slog.Logger
	mu       *sync.Mutex
	now      func() time.Time
	newID    func(prefix string) string
	location *time.Location
}

type StoreOption func(*ConversationStore)

func WithClock(now func() time.Time) StoreOption {
	return func(s *ConversationStore) { s.now = now }
}

func WithIDGenerator(newID func(prefix string) string) StoreOption {
	return func(s *ConversationStore) { s.newID = newID }
}

// WithLocation sets the time zone used to decide which conversations started "today".
func WithLocation(loc *time.Location) StoreOption {
	return func(s *ConversationStore) { s.location = loc }
}

func WithStoreLogger(logger *slog.Logger) StoreOption {
	return func(s *ConversationStore) { s.logger = logger }
}

// WithMutex shares a lock between stores that point at the same origin.
func WithMutex(mu *sync.Mutex) StoreOption {
	return func(s *ConversationStore) { s.mu = mu }
}

func NewConversationStore(s storage.Storage, opts ...StoreOption) *ConversationStore {
	store := &ConversationStore{
		storage:  s,
		logger:   slog.Default(),
		mu:       &sync.Mutex{},
		now:      time.Now,
		newID:    NewID,
		location: time.Local,
	}
	for _, opt := range opts {
		opt(store)
	}
	return store
}

// UserID returns the persisted user id, generating and saving one on first use.
func (s *ConversationStore) UserID(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok, err := s.storage.Get(ctx, config.KeyUserID)
	if err != nil {
		return "", fmt.Errorf("get user id: %w", err)
	}
	if ok && id != "" {
		return id, nil
	}

	id = s.newID("user")
	if err := s.storage.Set(ctx, config.KeyUserID, id); err != nil {
		return "", fmt.Errorf("save user id: %w", err)
	}
	return id, nil
}

// CreateConversation starts an empty conversation, puts it at the head of the
// list and makes it current.
func (s *ConversationStore) CreateConversation(ctx context.Context, userID, language string) (*domain.Conversation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	conversations, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	conv := domain.Conversation{
		ID:        s.newID("conv"),
		UserID:    userID,
		StartedAt: s.now(),
		Language:  language,
		Messages:  []domain.Message{},
		Resolved:  false,
	}
	conversations = append([]domain.Conversation{conv}, conversations...)

	if err := s.save(ctx, conversations); err != nil {
		return nil, err
	}
	if err := s.storage.Set(ctx, config.KeyCurrentConversation, conv.ID); err != nil {
		return nil, fmt.Errorf("set current conversation: %w", err)
	}
	return &conv, nil
}

// CurrentID returns the current-conversation pointer, or "" when unset.
func (s *ConversationStore) CurrentID(ctx context.Context) (string, error) {
	id, _, err := s.storage.Get(ctx, config.KeyCurrentConversation)
	if err != nil {
		return "", fmt.Errorf("get current conversation id: %w", err)
	}
	return id, nil
}

// Current returns the current conversation, or nil when the pointer is unset
// or refers to a conversation that no longer exists.
func (s *ConversationStore) Current(ctx context.Context) (*domain.Conversation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	conversations, idx, err := s.loadCurrent(ctx)
	if err != nil || idx < 0 {
		return nil, err
	}
	conv := conversations[idx]
	return &conv, nil
}

// AppendMessage assigns an id and timestamp to msg and appends it to the
// current conversation. Without a current conversation msg is returned as is
// and nothing is written.
func (s *ConversationStore) AppendMessage(ctx context.Context, msg domain.Message) (domain.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	conversations, idx, err := s.loadCurrent(ctx)
	if err != nil {
		return msg, err
	}
	if idx < 0 {
		return msg, nil
	}
	conv := &conversations[idx]

	ts := s.now()
	// Keep timestamps non-decreasing even if the clock steps back.
	if last := conv.LastMessage(); last != nil && ts.Before(last.Timestamp) {
		ts = last.Timestamp
	}
	msg.ID = s.newID("msg")
	msg.Timestamp = ts
	conv.Messages = append(conv.Messages, msg)

	if err := s.save(ctx, conversations); err != nil {
		return msg, err
	}
	return msg, nil
}

// Messages returns the current conversation's messages, or none.
func (s *ConversationStore) Messages(ctx context.Context) ([]domain.Message, error) {
	conv, err := s.Current(ctx)
	if err != nil {
		return nil, err
	}
	if conv == nil {
		return []domain.Message{}, nil
	}
	return conv.Messages, nil
}

// SetFeedback records whether a message of the current conversation was
// helpful. Unknown ids are ignored.
func (s *ConversationStore) SetFeedback(ctx context.Context, messageID string, helpful bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	conversations, idx, err := s.loadCurrent(ctx)
	if err != nil || idx < 0 {
		return err
	}
	msg := conversations[idx].FindMessage(messageID)
	if msg == nil {
		return nil
	}
	msg.Feedback = &helpful
	return s.save(ctx, conversations)
}

// Conversations returns the stored list, most recent first.
func (s *ConversationStore) Conversations(ctx context.Context) ([]domain.Conversation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx)
}

// ComputeStatistics derives usage statistics from the stored list.
func (s *ConversationStore) ComputeStatistics(ctx context.Context) (*domain.Stats, error) {
	conversations, err := s.Conversations(ctx)
	if err != nil {
		return nil, err
	}
	return computeStatistics(conversations, s.now(), s.location), nil
}

// ClearAll removes every key the store owns.
func (s *ConversationStore) ClearAll(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, key := range config.StorageKeys {
		if err := s.storage.Remove(ctx, key); err != nil {
			return fmt.Errorf("remove %s: %w", key, err)
		}
	}
	return nil
}

func (s *ConversationStore) load(ctx context.Context) ([]domain.Conversation, error) {
	data, ok, err := s.storage.Get(ctx, config.KeyConversations)
	if err != nil {
		return nil, fmt.Errorf("get conversations: %w", err)
	}
	if !ok || data == "" {
		return []domain.Conversation{}, nil
	}

	var conversations []domain.Conversation
	if err := json.Unmarshal([]byte(data), &conversations); err != nil {
		s.logger.Warn("stored conversations are corrupt, starting fresh", "error", err)
		return []domain.Conversation{}, nil
	}
	if conversations == nil {
		conversations = []domain.Conversation{}
	}
	return conversations, nil
}

func (s *ConversationStore) loadCurrent(ctx context.Context) ([]domain.Conversation, int, error) {
	currentID, err := s.CurrentID(ctx)
	if err != nil {
		return nil, -1, err
	}
	if currentID == "" {
		return nil, -1, nil
	}

	conversations, err := s.load(ctx)
	if err != nil {
		return nil, -1, err
	}
	for i := range conversations {
		if conversations[i].ID == currentID {
			return conversations, i, nil
		}
	}
	return conversations, -1, nil
}

func (s *ConversationStore) save(ctx context.Context, conversations []domain.Conversation) error {
	data, err := json.Marshal(conversations)
	if err != nil {
		return fmt.Errorf("marshal conversations: %w", err)
	}
	if err := s.storage.Set(ctx, config.KeyConversations, string(data)); err != nil {
		return fmt.Errorf("save conversations: %w", err)
	}
	return nil
}
