package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/set-night/gratax/internal/domain"
	"github.com/set-night/gratax/internal/storage"
)

type stubStats struct {
	stats *domain.Stats
	err   error
	calls int
}

func (s *stubStats) Stats(ctx context.Context) (*domain.Stats, error) {
	s.calls++
	return s.stats, s.err
}

func newTestAssistant(responder Responder, stats StatsSource) (*Assistant, *fakeClock) {
	clock := newFakeClock()
	mem := storage.NewMemory()
	content := testContent()
	return NewAssistant(AssistantDeps{
		Store:     newTestStore(mem, clock),
		Languages: NewLanguageService(mem, content, nil),
		Responder: responder,
		Stats:     stats,
		Content:   content,
	}), clock
}

func TestAssistantOpenCreatesGreetedConversation(t *testing.T) {
	a, _ := newTestAssistant(&stubResponder{}, nil)
	ctx := context.Background()

	conv, created, err := a.Open(ctx)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "en", conv.Language)
	require.Len(t, conv.Messages, 1)

	greeting := conv.Messages[0]
	assert.Equal(t, domain.RoleBot, greeting.Role)
	assert.Equal(t, testContent().Languages[0].Greeting, greeting.Content)
	assert.Equal(t, testContent().SuggestedQuestions, greeting.SuggestedFollowups)

	again, created, err := a.Open(ctx)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, conv.ID, again.ID)
	assert.Len(t, again.Messages, 1)
}

func TestAssistantGreetsInSelectedLanguage(t *testing.T) {
	a, _ := newTestAssistant(&stubResponder{}, nil)
	ctx := context.Background()

	require.NoError(t, a.SetLanguage(ctx, "twi"))
	conv, err := a.NewConversation(ctx)
	require.NoError(t, err)

	assert.Equal(t, "twi", conv.Language)
	assert.Contains(t, conv.Messages[0].Content, "Akwaaba")
}

func TestAssistantAsk(t *testing.T) {
	responder := &stubResponder{resp: &domain.Response{
		Text:               "The standard VAT rate is 15%.",
		Citations:          []domain.Citation{{Document: "Act 870", Section: "Section 3"}},
		Confidence:         0.92,
		SuggestedFollowups: []string{"What is NHIL?"},
	}}
	a, _ := newTestAssistant(responder, nil)
	ctx := context.Background()
	require.NoError(t, a.SetLanguage(ctx, "pidgin"))

	turn, err := a.Ask(ctx, "  what is the vat rate  ")
	require.NoError(t, err)

	assert.Equal(t, "what is the vat rate", turn.Question.Content)
	assert.Equal(t, domain.RoleUser, turn.Question.Role)
	assert.Equal(t, domain.RoleBot, turn.Reply.Role)
	assert.Equal(t, "The standard VAT rate is 15%.", turn.Reply.Content)
	require.NotNil(t, turn.Reply.Confidence)
	assert.Equal(t, 0.92, *turn.Reply.Confidence)
	assert.False(t, turn.Unanswered())

	require.Len(t, responder.requests, 1)
	req := responder.requests[0]
	assert.Equal(t, "what is the vat rate", req.Message)
	assert.Equal(t, "pidgin", req.Language)
	assert.Equal(t, turn.ConversationID, req.ConversationID)
	assert.NotEmpty(t, req.UserID)

	userID, err := a.store.UserID(ctx)
	require.NoError(t, err)
	assert.Equal(t, userID, req.UserID)

	messages, err := a.store.Messages(ctx)
	require.NoError(t, err)
	require.Len(t, messages, 3)
	assert.Equal(t, turn.Question.ID, messages[1].ID)
	assert.Equal(t, turn.Reply.ID, messages[2].ID)
}

func TestAssistantAskWithDemoResponder(t *testing.T) {
	a, _ := newTestAssistant(NewDemoResponder(testContent(), nil), nil)
	ctx := context.Background()

	turn, err := a.Ask(ctx, "what time is it")
	require.NoError(t, err)
	assert.True(t, turn.Unanswered())

	stats, err := a.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"what time is it"}, stats.Unanswered)
}

func TestAssistantAskEmpty(t *testing.T) {
	responder := &stubResponder{}
	a, _ := newTestAssistant(responder, nil)

	_, err := a.Ask(context.Background(), "   ")

	assert.ErrorIs(t, err, domain.ErrEmptyMessage)
	assert.Empty(t, responder.requests)
}

func TestAssistantAskResponderError(t *testing.T) {
	boom := errors.New("boom")
	a, _ := newTestAssistant(&stubResponder{err: boom}, nil)
	ctx := context.Background()

	_, err := a.Ask(ctx, "vat rate")
	assert.ErrorIs(t, err, boom)

	messages, err := a.store.Messages(ctx)
	require.NoError(t, err)
	require.Len(t, messages, 2)
	assert.Equal(t, domain.RoleUser, messages[1].Role)
}

func TestAssistantFeedback(t *testing.T) {
	a, _ := newTestAssistant(&stubResponder{resp: &domain.Response{Text: "ok"}}, nil)
	ctx := context.Background()

	turn, err := a.Ask(ctx, "vat rate")
	require.NoError(t, err)
	require.NoError(t, a.Feedback(ctx, turn.Reply.ID, false))

	conv, err := a.store.Current(ctx)
	require.NoError(t, err)
	msg := conv.FindMessage(turn.Reply.ID)
	require.NotNil(t, msg)
	require.NotNil(t, msg.Feedback)
	assert.False(t, *msg.Feedback)
}

func TestAssistantStats(t *testing.T) {
	t.Run("remote", func(t *testing.T) {
		remote := &stubStats{stats: &domain.Stats{AllTime: domain.AllTimeStats{TotalConversations: 99}}}
		a, _ := newTestAssistant(&stubResponder{}, remote)

		stats, err := a.Stats(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 99, stats.AllTime.TotalConversations)
	})

	t.Run("remote fails", func(t *testing.T) {
		remote := &stubStats{err: errors.New("unreachable")}
		a, _ := newTestAssistant(&stubResponder{}, remote)
		ctx := context.Background()
		_, _, err := a.Open(ctx)
		require.NoError(t, err)

		stats, err := a.Stats(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, remote.calls)
		assert.Equal(t, 1, stats.AllTime.TotalConversations)
		assert.Equal(t, 1, stats.AllTime.TotalMessages)
	})

	t.Run("local only", func(t *testing.T) {
		a, _ := newTestAssistant(&stubResponder{}, nil)

		stats, err := a.Stats(context.Background())
		require.NoError(t, err)
		assert.Zero(t, stats.AllTime.TotalConversations)
	})
}

func TestAssistantClear(t *testing.T) {
	a, _ := newTestAssistant(&stubResponder{}, nil)
	ctx := context.Background()
	_, _, err := a.Open(ctx)
	require.NoError(t, err)
	require.NoError(t, a.SetLanguage(ctx, "ga"))

	require.NoError(t, a.Clear(ctx))

	conversations, err := a.store.Conversations(ctx)
	require.NoError(t, err)
	assert.Empty(t, conversations)
	assert.Equal(t, "en", a.Language(ctx).Code)
}

func TestAssistantFactoryIsolatesOrigins(t *testing.T) {
	mem := storage.NewMemory()
	factory := NewAssistantFactory(mem, &stubResponder{resp: &domain.Response{Text: "ok"}}, nil, testContent(), nil)
	ctx := context.Background()

	alice, releaseAlice := factory.Acquire("chat:1")
	defer releaseAlice()
	bob, releaseBob := factory.Acquire("chat:2")
	defer releaseBob()

	_, err := alice.Ask(ctx, "vat rate")
	require.NoError(t, err)
	require.NoError(t, bob.SetLanguage(ctx, "ewe"))

	aliceConvs, err := alice.store.Conversations(ctx)
	require.NoError(t, err)
	bobConvs, err := bob.store.Conversations(ctx)
	require.NoError(t, err)

	assert.Len(t, aliceConvs, 1)
	assert.Empty(t, bobConvs)
	assert.Equal(t, "en", alice.Language(ctx).Code)
	assert.Equal(t, "ewe", bob.Language(ctx).Code)

	again, releaseAgain := factory.Acquire("chat:1")
	defer releaseAgain()
	convs, err := again.store.Conversations(ctx)
	require.NoError(t, err)
	assert.Len(t, convs, 1)
}

func TestAssistantFactoryConcurrentAsks(t *testing.T) {
	factory := NewAssistantFactory(storage.NewMemory(), NewDemoResponder(testContent(), nil), nil, testContent(), nil)
	ctx := context.Background()
	first, release := factory.Acquire("chat:7")
	_, _, err := first.Open(ctx)
	require.NoError(t, err)
	release()

	// Every update gets its own Assistant, as the bot handlers do.
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			a, release := factory.Acquire("chat:7")
			defer release()
			_, err := a.Ask(ctx, "what is the vat rate")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Zero(t, factory.activeOrigins())

	last, release := factory.Acquire("chat:7")
	defer release()
	messages, err := last.store.Messages(ctx)
	require.NoError(t, err)
	assert.Len(t, messages, 1+2*20)
}

func TestAssistantFactoryDropsReleasedOrigins(t *testing.T) {
	factory := NewAssistantFactory(storage.NewMemory(), &stubResponder{resp: &domain.Response{Text: "ok"}}, nil, testContent(), nil)

	_, releaseA := factory.Acquire("chat:1")
	_, releaseB := factory.Acquire("chat:1")
	_, releaseC := factory.Acquire("chat:2")
	assert.Equal(t, 2, factory.activeOrigins())

	releaseA()
	releaseA()
	assert.Equal(t, 2, factory.activeOrigins())

	releaseB()
	assert.Equal(t, 1, factory.activeOrigins())

	releaseC()
	assert.Zero(t, factory.activeOrigins())
}

// blockingResponder holds each request until release is closed.
type blockingResponder struct {
	started chan domain.ChatRequest
	release chan struct{}
}

func (r *blockingResponder) Respond(ctx context.Context, req domain.ChatRequest) (*domain.Response, error) {
	r.started <- req
	<-r.release
	return &domain.Response{Text: "VAT is 15%."}, nil
}

func TestNewConversationWaitsForTurn(t *testing.T) {
	responder := &blockingResponder{started: make(chan domain.ChatRequest, 1), release: make(chan struct{})}
	factory := NewAssistantFactory(storage.NewMemory(), responder, nil, testContent(), nil)
	ctx := context.Background()

	asker, releaseAsker := factory.Acquire("chat:9")
	defer releaseAsker()
	turnDone := make(chan *Turn, 1)
	go func() {
		turn, err := asker.Ask(ctx, "what is the vat rate")
		assert.NoError(t, err)
		turnDone <- turn
	}()
	req := <-responder.started

	// A /new arriving mid-turn gets its own assistant, as commands do.
	other, releaseOther := factory.Acquire("chat:9")
	defer releaseOther()
	created := make(chan *domain.Conversation, 1)
	go func() {
		conv, err := other.NewConversation(ctx)
		assert.NoError(t, err)
		created <- conv
	}()

	select {
	case <-created:
		t.Fatal("conversation replaced while a turn was in progress")
	case <-time.After(50 * time.Millisecond):
	}

	close(responder.release)
	turn := <-turnDone
	fresh := <-created
	assert.Equal(t, req.ConversationID, turn.ConversationID)
	assert.NotEqual(t, turn.ConversationID, fresh.ID)

	conversations, err := other.store.Conversations(ctx)
	require.NoError(t, err)
	require.Len(t, conversations, 2)
	assert.Equal(t, fresh.ID, conversations[0].ID)
	assert.Len(t, conversations[0].Messages, 1)

	asked := conversations[1]
	assert.Equal(t, req.ConversationID, asked.ID)
	require.Len(t, asked.Messages, 3)
	assert.Equal(t, "what is the vat rate", asked.Messages[1].Content)
	assert.Equal(t, "VAT is 15%.", asked.Messages[2].Content)
}

func TestAssistantTimestampsFollowClock(t *testing.T) {
	a, clock := newTestAssistant(&stubResponder{resp: &domain.Response{Text: "ok"}}, nil)
	ctx := context.Background()

	_, _, err := a.Open(ctx)
	require.NoError(t, err)
	clock.Advance(time.Minute)

	turn, err := a.Ask(ctx, "tin")
	require.NoError(t, err)
	assert.Equal(t, clock.Now(), turn.Question.Timestamp)
}

func TestTurnUnansweredInLocalLanguage(t *testing.T) {
	a, _ := newTestAssistant(NewDemoResponder(testContent(), nil), nil)
	ctx := context.Background()
	require.NoError(t, a.SetLanguage(ctx, "pidgin"))

	turn, err := a.Ask(ctx, "what time is it")
	require.NoError(t, err)

	assert.False(t, turn.Reply.IsFallback())
	assert.True(t, turn.Unanswered())
}
