package service

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	promdto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yorikya/note-speaker/internal/dto"
	"github.com/yorikya/note-speaker/internal/metrics"
	"github.com/yorikya/note-speaker/internal/pkg/logger"
	"github.com/yorikya/note-speaker/internal/repository/memory"
	"github.com/yorikya/note-speaker/pkg/dialogue"
	"github.com/yorikya/note-speaker/pkg/embedding"
	"github.com/yorikya/note-speaker/pkg/events"
	"github.com/yorikya/note-speaker/pkg/intent"
	"github.com/yorikya/note-speaker/pkg/llm"
)

type stubLLM struct {
	reply string
	err   error
}

func (s *stubLLM) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	return s.reply, s.err
}

func (s *stubLLM) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	return s.reply, s.err
}

type collectingDelivery struct {
	mu     sync.Mutex
	frames map[string][][]byte
}

func (d *collectingDelivery) SendToSession(sessionID string, data []byte) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.frames == nil {
		d.frames = map[string][][]byte{}
	}
	d.frames[sessionID] = append(d.frames[sessionID], data)
	return 1
}

func (d *collectingDelivery) count(sessionID string) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.frames[sessionID])
}

func (d *collectingDelivery) snapshot(sessionID string) [][]byte {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([][]byte(nil), d.frames[sessionID]...)
}

func newRouter() *intent.Router {
	log := logger.NewNopLogger()
	general := intent.NewGeneralRouter(context.Background(), embedding.NewMatcher(nil, log), 0, log)
	return intent.NewRouter(general, 0, log)
}

func newService(pub events.Publisher, provider llm.LLMProvider) IAssistantService {
	return NewAssistantService(
		newRouter(),
		memory.NewSessionRepository(time.Minute),
		pub,
		provider,
		AssistantSettings{EmbeddingProvider: "fallback", LLMProvider: "stub"},
		logger.NewNopLogger(),
	)
}

func TestCommandCreatesSession(t *testing.T) {
	svc := newService(nil, nil)
	ctx := context.Background()

	res, err := svc.Command(ctx, &dto.CommandRequest{
		Command: "create",
		Payload: json.RawMessage(`{"title":"shopping list","description":""}`),
	})
	require.NoError(t, err)
	assert.NotEmpty(t, res.SessionID)
	assert.Equal(t, "Note created: shopping list", res.Reply)
	assert.Equal(t, string(dialogue.ModeIdle), res.Mode)

	res, err = svc.Command(ctx, &dto.CommandRequest{SessionID: res.SessionID, Command: "find shopping list"})
	require.NoError(t, err)
	assert.Contains(t, res.Reply, "Found 1 record 'shopping list'")
	assert.Equal(t, string(dialogue.ModeAwaitingDeleteConfirmation), res.Mode)

	session, err := svc.GetSession(ctx, res.SessionID)
	require.NoError(t, err)
	assert.Equal(t, "shopping list", session.LastFoundTitle)
	require.Len(t, session.Notes, 1)
	assert.Equal(t, "shopping list", session.Notes[0].Title)
}

func TestCommandPayloadDefaultsToCommandText(t *testing.T) {
	svc := newService(nil, nil)
	ctx := context.Background()

	res, _ := svc.Command(ctx, &dto.CommandRequest{SessionID: "s", Command: "create groceries"})
	assert.Equal(t, "Note created: groceries", res.Reply)

	svc.Command(ctx, &dto.CommandRequest{SessionID: "s", Command: "update description", Payload: json.RawMessage(`"groceries"`)})
	svc.Command(ctx, &dto.CommandRequest{SessionID: "s", Command: "milk and eggs"})
	res, _ = svc.Command(ctx, &dto.CommandRequest{SessionID: "s", Command: "stop recording"})
	assert.Equal(t, "Stopped recording. Updated 'groceries' description.", res.Reply)

	session, err := svc.GetSession(ctx, "s")
	require.NoError(t, err)
	assert.Equal(t, "milk and eggs", session.Notes[0].Description)
}

func TestBarePhrasesDoNotEchoCommandAsTitle(t *testing.T) {
	svc := newService(nil, nil)
	ctx := context.Background()

	res, err := svc.Command(ctx, &dto.CommandRequest{SessionID: "s", Command: "create"})
	require.NoError(t, err)
	assert.Equal(t, "Note created: ", res.Reply)

	res, err = svc.Command(ctx, &dto.CommandRequest{SessionID: "s", Command: "add note"})
	require.NoError(t, err)
	assert.Equal(t, "Note created: ", res.Reply)

	res, err = svc.Command(ctx, &dto.CommandRequest{SessionID: "s", Command: "search note"})
	require.NoError(t, err)
	assert.NotContains(t, res.Reply, "search note")

	session, err := svc.GetSession(ctx, "s")
	require.NoError(t, err)
	for _, n := range session.Notes {
		assert.Empty(t, n.Title)
	}
}

func TestCommandRejectsMalformedPayload(t *testing.T) {
	svc := newService(nil, nil)

	_, err := svc.Command(context.Background(), &dto.CommandRequest{Command: "create", Payload: json.RawMessage(`{"title":`)})
	assert.Error(t, err)
}

func TestEndSession(t *testing.T) {
	svc := newService(nil, nil)
	ctx := context.Background()

	svc.Chat(ctx, "s", "create note x", intent.TextPayload("create note x"))
	require.NoError(t, svc.EndSession(ctx, "s"))
	assert.ErrorIs(t, svc.EndSession(ctx, "s"), ErrSessionNotFound)

	_, err := svc.GetSession(ctx, "s")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestHealth(t *testing.T) {
	ctx := context.Background()

	shallow := newService(nil, &stubLLM{reply: "OK"}).Health(ctx, false)
	assert.Equal(t, "ok", shallow.Status)
	assert.Empty(t, shallow.LLMReply)

	deep := newService(nil, &stubLLM{reply: "OK"}).Health(ctx, true)
	assert.Equal(t, "ok", deep.Status)
	assert.Equal(t, "OK", deep.LLMReply)

	down := newService(nil, &stubLLM{err: errors.New("connection refused")}).Health(ctx, true)
	assert.Equal(t, "degraded", down.Status)
	assert.Equal(t, "connection refused", down.LLMError)
}

func TestNoteEventsReachSessionClients(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	defer pubSub.Close()

	delivery := &collectingDelivery{}
	consumer := NewConsumerService(pubSub, "note.events", delivery, logger.NewNopLogger())
	require.NoError(t, consumer.Consume(ctx))

	svc := newService(NewPublisherService("note.events", pubSub), nil)
	svc.Chat(ctx, "s1", "create note groceries", intent.TextPayload(""))
	svc.Chat(ctx, "s1", "find groceries", intent.TextPayload(""))
	svc.Chat(ctx, "s1", "yes", intent.TextPayload(""))

	require.Eventually(t, func() bool { return delivery.count("s1") == 2 }, time.Second, 10*time.Millisecond)

	seen := map[string]dto.ChatReply{}
	for _, raw := range delivery.snapshot("s1") {
		var frame dto.ChatReply
		require.NoError(t, json.Unmarshal(raw, &frame))
		assert.Equal(t, "event", frame.Type)
		seen[frame.Event] = frame
	}
	require.Contains(t, seen, events.NoteCreated)
	require.Contains(t, seen, events.NoteDeleted)
	assert.Equal(t, "groceries", seen[events.NoteDeleted].Data["title"])
	assert.Equal(t, "s1", seen[events.NoteDeleted].Data["session_id"])
}

func activeSessions(t *testing.T) float64 {
	t.Helper()
	var m promdto.Metric
	require.NoError(t, metrics.ActiveSessions.Write(&m))
	return m.GetGauge().GetValue()
}

func TestActiveSessionsGaugeFollowsExpiry(t *testing.T) {
	svc := NewAssistantService(
		newRouter(),
		memory.NewSessionRepository(100*time.Millisecond),
		nil,
		nil,
		AssistantSettings{},
		logger.NewNopLogger(),
	)

	_, err := svc.Command(context.Background(), &dto.CommandRequest{SessionID: "short-lived", Command: "create groceries"})
	require.NoError(t, err)
	assert.Equal(t, float64(1), activeSessions(t))

	require.Eventually(t, func() bool { return activeSessions(t) == 0 }, time.Second, 10*time.Millisecond)
}

func TestEndSessionUpdatesGauge(t *testing.T) {
	svc := newService(nil, nil)
	ctx := context.Background()

	svc.Command(ctx, &dto.CommandRequest{SessionID: "a", Command: "create x"})
	svc.Command(ctx, &dto.CommandRequest{SessionID: "b", Command: "create y"})
	assert.Equal(t, float64(2), activeSessions(t))

	require.NoError(t, svc.EndSession(ctx, "a"))
	assert.Equal(t, float64(1), activeSessions(t))
}
