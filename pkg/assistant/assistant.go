package assistant

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/yorikya/note-speaker/internal/pkg/logger"
	"github.com/yorikya/note-speaker/pkg/dialogue"
	"github.com/yorikya/note-speaker/pkg/events"
	"github.com/yorikya/note-speaker/pkg/intent"
	"github.com/yorikya/note-speaker/pkg/notes"
)

// Payload is the data sent with a command
type Payload = intent.Payload

var tracer = otel.Tracer("github.com/yorikya/note-speaker/pkg/assistant")

// Observer is told about every handled command
type Observer interface {
	ObserveCommand(action intent.Action, stage string, elapsed time.Duration)
}

// Options configures a session
type Options struct {
	TitleCutoff float64
	Publisher   events.Publisher
	Observer    Observer
}

// Assistant is one conversation: its notes, its dialogue state and the router
// shared across sessions. Handle calls are serialized.
type Assistant struct {
	id       string
	mu       sync.Mutex
	state    dialogue.State
	notes    *notes.Collection
	handlers *notes.Handlers
	router   *intent.Router
	manager  *dialogue.Manager
	observer Observer
	logger   logger.ILogger
}

func New(id string, router *intent.Router, opts Options, log logger.ILogger) *Assistant {
	collection := notes.NewCollection()
	return &Assistant{
		id:       id,
		state:    dialogue.NewState(),
		notes:    collection,
		handlers: notes.NewHandlers(collection, opts.TitleCutoff, id, opts.Publisher, log),
		router:   router,
		manager:  dialogue.NewManager(log),
		observer: opts.Observer,
		logger:   log,
	}
}

func (a *Assistant) ID() string {
	return a.id
}

// Handle resolves and executes one command, always answering with a reply
func (a *Assistant) Handle(ctx context.Context, command string, payload Payload) string {
	ctx, span := tracer.Start(ctx, "assistant.Handle")
	defer span.End()

	a.mu.Lock()
	defer a.mu.Unlock()

	start := time.Now()
	res := a.router.Resolve(ctx, command, payload, a.state)
	span.SetAttributes(
		attribute.String("session.id", a.id),
		attribute.String("intent.action", string(res.Action)),
		attribute.String("intent.stage", res.Stage),
	)

	reply := a.execute(ctx, res)
	if a.observer != nil {
		a.observer.ObserveCommand(res.Action, res.Stage, time.Since(start))
	}

	a.logger.Info("ASSISTANT", "Command handled", map[string]interface{}{
		"session_id": a.id,
		"command":    command,
		"action":     string(res.Action),
		"stage":      res.Stage,
		"mode":       string(a.state.Mode),
	})
	if err := a.state.Validate(); err != nil {
		a.logger.Error("ASSISTANT", "Dialogue state out of sync", map[string]interface{}{
			"session_id": a.id,
			"error":      err.Error(),
		})
		a.manager.TransitionToIdle(&a.state)
	}
	return reply
}

func (a *Assistant) execute(ctx context.Context, res intent.Resolution) string {
	switch res.Action {
	case intent.ActionAccumulate:
		return a.manager.Accumulate(&a.state, res.Line)

	case intent.ActionStopRecording:
		rec := a.manager.FinishRecording(&a.state)
		return a.handlers.UpdateDescription(ctx, rec.NoteID, rec.Title, rec.Description)

	case intent.ActionCancelRecording:
		return a.manager.CancelRecording(&a.state)

	case intent.ActionCancel:
		return "Action cancelled."

	case intent.ActionCreate:
		return a.handlers.Create(ctx, res.Title, res.Description)

	case intent.ActionFind:
		result := a.handlers.Find(ctx, res.Query)
		if n, ok := result.Single(); ok {
			return a.manager.AwaitDeleteConfirmation(&a.state, n.Title, n.ID)
		}
		a.manager.ClearConfirmation(&a.state)
		return result.String()

	case intent.ActionDelete:
		reply := a.handlers.Delete(ctx, res.NoteID, res.Title)
		a.manager.ClearConfirmation(&a.state)
		return reply

	case intent.ActionStartRecording:
		return a.manager.StartRecording(&a.state, res.Title, res.NoteID)

	default:
		return res.UnsupportedMessage()
	}
}

// State returns a copy of the dialogue state
func (a *Assistant) State() dialogue.State {
	a.mu.Lock()
	defer a.mu.Unlock()

	s := a.state
	s.AccumulatedLines = append([]string(nil), a.state.AccumulatedLines...)
	return s
}

// Notes returns the session's notes in insertion order
func (a *Assistant) Notes() []notes.Note {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.handlers.Notes()
}
