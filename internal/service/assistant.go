package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/set-night/gratax/internal/config"
	"github.com/set-night/gratax/internal/domain"
	"github.com/set-night/gratax/internal/storage"
)

// Assistant runs the chat flow for one origin: user input goes to the
// responder, both turns are appended to the current conversation.
type Assistant struct {
	store     *ConversationStore
	languages *LanguageService
	responder Responder
	stats     StatsSource
	content   *config.Content
	logger    *slog.Logger

	// turn serializes operations that pick or replace the current
	// conversation, so a turn's messages land in the conversation it opened.
	turn *sync.Mutex
}

// Turn is the outcome of one Ask: the saved user and bot messages.
type Turn struct {
	ConversationID string
	Question       domain.Message
	Reply          domain.Message
}

// Unanswered reports whether the reply is a fallback. Localized fallbacks lack
// the English marker, so the fallback confidence counts too.
func (t *Turn) Unanswered() bool {
	if t.Reply.IsFallback() {
		return true
	}
	return t.Reply.Confidence != nil && *t.Reply.Confidence <= fallbackConfidence && len(t.Reply.Citations) == 0
}

type AssistantDeps struct {
	Store     *ConversationStore
	Languages *LanguageService
	Responder Responder
	Stats     StatsSource
	Content   *config.Content
	Logger    *slog.Logger
	// TurnLock is shared by assistants of one origin. A fresh lock is used when nil.
	TurnLock *sync.Mutex
}

func NewAssistant(deps AssistantDeps) *Assistant {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	turn := deps.TurnLock
	if turn == nil {
		turn = &sync.Mutex{}
	}
	return &Assistant{
		store:     deps.Store,
		languages: deps.Languages,
		responder: deps.Responder,
		stats:     deps.Stats,
		content:   deps.Content,
		logger:    logger,
		turn:      turn,
	}
}

// Open returns the current conversation, starting a greeted one if there is
// none. The bool reports whether a conversation was created.
func (a *Assistant) Open(ctx context.Context) (*domain.Conversation, bool, error) {
	a.turn.Lock()
	defer a.turn.Unlock()
	return a.open(ctx)
}

func (a *Assistant) open(ctx context.Context) (*domain.Conversation, bool, error) {
	conv, err := a.store.Current(ctx)
	if err != nil {
		return nil, false, err
	}
	if conv != nil {
		return conv, false, nil
	}
	conv, err = a.newConversation(ctx)
	if err != nil {
		return nil, false, err
	}
	return conv, true, nil
}

// NewConversation starts a conversation and greets the user in their language.
// It waits for a turn in progress to finish.
func (a *Assistant) NewConversation(ctx context.Context) (*domain.Conversation, error) {
	a.turn.Lock()
	defer a.turn.Unlock()
	return a.newConversation(ctx)
}

func (a *Assistant) newConversation(ctx context.Context) (*domain.Conversation, error) {
	userID, err := a.store.UserID(ctx)
	if err != nil {
		return nil, err
	}
	language := a.languages.Get(ctx)

	conv, err := a.store.CreateConversation(ctx, userID, language)
	if err != nil {
		return nil, fmt.Errorf("create conversation: %w", err)
	}

	greeting, err := a.store.AppendMessage(ctx, domain.Message{
		Role:               domain.RoleBot,
		Content:            a.languages.Greeting(ctx),
		Citations:          []domain.Citation{},
		SuggestedFollowups: append([]string(nil), a.content.SuggestedQuestions...),
	})
	if err != nil {
		return nil, fmt.Errorf("append greeting: %w", err)
	}
	conv.Messages = append(conv.Messages, greeting)
	return conv, nil
}

// Ask records the user's message, gets a reply and records it. The
// conversation cannot be replaced or cleared until the turn is done.
func (a *Assistant) Ask(ctx context.Context, text string) (*Turn, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, domain.ErrEmptyMessage
	}

	a.turn.Lock()
	defer a.turn.Unlock()

	conv, _, err := a.open(ctx)
	if err != nil {
		return nil, err
	}

	question, err := a.store.AppendMessage(ctx, domain.UserMessage(text))
	if err != nil {
		return nil, fmt.Errorf("append question: %w", err)
	}

	userID, err := a.store.UserID(ctx)
	if err != nil {
		return nil, err
	}

	resp, err := a.responder.Respond(ctx, domain.ChatRequest{
		Message:        text,
		ConversationID: conv.ID,
		Language:       a.languages.Get(ctx),
		UserID:         userID,
	})
	if err != nil {
		return nil, fmt.Errorf("respond: %w", err)
	}

	reply, err := a.store.AppendMessage(ctx, domain.BotMessage(resp))
	if err != nil {
		return nil, fmt.Errorf("append reply: %w", err)
	}

	return &Turn{ConversationID: conv.ID, Question: question, Reply: reply}, nil
}

func (a *Assistant) Feedback(ctx context.Context, messageID string, helpful bool) error {
	return a.store.SetFeedback(ctx, messageID, helpful)
}

// Stats prefers the remote backend's statistics and falls back to the local store.
func (a *Assistant) Stats(ctx context.Context) (*domain.Stats, error) {
	if a.stats != nil {
		stats, err := a.stats.Stats(ctx)
		if err == nil {
			return stats, nil
		}
		a.logger.Warn("remote stats failed, computing locally", "error", err)
	}
	return a.store.ComputeStatistics(ctx)
}

func (a *Assistant) Language(ctx context.Context) domain.Language {
	return a.languages.Current(ctx)
}

func (a *Assistant) SetLanguage(ctx context.Context, code string) error {
	return a.languages.Set(ctx, code)
}

func (a *Assistant) Languages() []domain.Language {
	return a.languages.Languages()
}

func (a *Assistant) Content() *config.Content {
	return a.content
}

// Clear erases everything stored for the origin.
func (a *Assistant) Clear(ctx context.Context) error {
	a.turn.Lock()
	defer a.turn.Unlock()
	return a.store.ClearAll(ctx)
}

// AssistantFactory builds assistants for origins sharing one storage backend.
type AssistantFactory struct {
	storage   storage.Storage
	responder Responder
	stats     StatsSource
	content   *config.Content
	logger    *slog.Logger
	storeOpts []StoreOption

	mu      sync.Mutex
	origins map[string]*originLocks
}

// originLocks are the locks of one origin, kept while an assistant holds them.
type originLocks struct {
	store sync.Mutex
	turn  sync.Mutex
	refs  int
}

func NewAssistantFactory(s storage.Storage, responder Responder, stats StatsSource, content *config.Content, logger *slog.Logger, opts ...StoreOption) *AssistantFactory {
	if logger == nil {
		logger = slog.Default()
	}
	return &AssistantFactory{
		storage:   s,
		responder: responder,
		stats:     stats,
		content:   content,
		logger:    logger,
		storeOpts: opts,
		origins:   make(map[string]*originLocks),
	}
}

// Acquire returns the assistant of origin and a release func to call once the
// assistant is no longer used. Assistants of the same origin share locks, so
// concurrent updates from one chat do not lose writes. The locks of an origin
// are dropped when its last assistant is released.
func (f *AssistantFactory) Acquire(origin string) (*Assistant, func()) {
	f.mu.Lock()
	locks, ok := f.origins[origin]
	if !ok {
		locks = &originLocks{}
		f.origins[origin] = locks
	}
	locks.refs++
	f.mu.Unlock()

	var once sync.Once
	release := func() {
		once.Do(func() {
			f.mu.Lock()
			defer f.mu.Unlock()
			locks.refs--
			if locks.refs == 0 {
				delete(f.origins, origin)
			}
		})
	}

	scoped := storage.NewPrefixed(f.storage, origin+":")
	opts := append([]StoreOption{WithStoreLogger(f.logger)}, f.storeOpts...)
	opts = append(opts, WithMutex(&locks.store))

	return NewAssistant(AssistantDeps{
		Store:     NewConversationStore(scoped, opts...),
		Languages: NewLanguageService(scoped, f.content, f.logger),
		Responder: f.responder,
		Stats:     f.stats,
		Content:   f.content,
		Logger:    f.logger.With("origin", origin),
		TurnLock:  &locks.turn,
	}), release
}

// activeOrigins returns how many origins currently hold locks.
func (f *AssistantFactory) activeOrigins() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.origins)
}
