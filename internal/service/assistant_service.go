package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/yorikya/note-speaker/internal/dto"
	"github.com/yorikya/note-speaker/internal/metrics"
	"github.com/yorikya/note-speaker/internal/pkg/logger"
	"github.com/yorikya/note-speaker/internal/repository/memory"
	"github.com/yorikya/note-speaker/pkg/assistant"
	"github.com/yorikya/note-speaker/pkg/events"
	"github.com/yorikya/note-speaker/pkg/intent"
	"github.com/yorikya/note-speaker/pkg/llm"
)

var ErrSessionNotFound = errors.New("session not found")

const healthPrompt = "Reply with the single word OK."

type IAssistantService interface {
	Command(ctx context.Context, req *dto.CommandRequest) (*dto.CommandResponse, error)
	Chat(ctx context.Context, sessionID, text string, payload intent.Payload) string
	GetSession(ctx context.Context, sessionID string) (*dto.SessionResponse, error)
	EndSession(ctx context.Context, sessionID string) error
	Health(ctx context.Context, deep bool) *dto.HealthResponse
}

type AssistantSettings struct {
	TitleCutoff       float64
	EmbeddingProvider string
	LLMProvider       string
}

type assistantService struct {
	router      *intent.Router
	sessions    *memory.SessionRepository
	publisher   events.Publisher
	llmProvider llm.LLMProvider
	settings    AssistantSettings
	logger      logger.ILogger
}

func NewAssistantService(
	router *intent.Router,
	sessions *memory.SessionRepository,
	publisher events.Publisher,
	llmProvider llm.LLMProvider,
	settings AssistantSettings,
	log logger.ILogger,
) IAssistantService {
	sessions.OnEvicted(func(id string) {
		metrics.ActiveSessions.Set(float64(sessions.Count()))
		log.Info("SESSION", "Session removed", map[string]interface{}{"session_id": id})
	})

	return &assistantService{
		router:      router,
		sessions:    sessions,
		publisher:   publisher,
		llmProvider: llmProvider,
		settings:    settings,
		logger:      log,
	}
}

func (s *assistantService) newSession(id string) *assistant.Assistant {
	s.logger.Info("SESSION", "Session started", map[string]interface{}{"session_id": id})
	return assistant.New(id, s.router, assistant.Options{
		TitleCutoff: s.settings.TitleCutoff,
		Publisher:   s.publisher,
		Observer:    metrics.CommandObserver{},
	}, s.logger)
}

func (s *assistantService) session(sessionID string) *assistant.Assistant {
	if sessionID == "" {
		sessionID = uuid.NewString()
	}
	a, created := s.sessions.GetOrCreate(sessionID, s.newSession)
	if created {
		metrics.ActiveSessions.Set(float64(s.sessions.Count()))
	}
	return a
}

func (s *assistantService) Command(ctx context.Context, req *dto.CommandRequest) (*dto.CommandResponse, error) {
	payload, err := dto.DecodePayload(req.Payload, req.Command)
	if err != nil {
		return nil, err
	}

	a := s.session(req.SessionID)
	reply := a.Handle(ctx, req.Command, payload)

	return &dto.CommandResponse{
		SessionID: a.ID(),
		Reply:     reply,
		Mode:      string(a.State().Mode),
	}, nil
}

// Chat handles one chat line; text doubles as the payload when none is sent
func (s *assistantService) Chat(ctx context.Context, sessionID, text string, payload intent.Payload) string {
	return s.session(sessionID).Handle(ctx, text, payload)
}

func (s *assistantService) GetSession(ctx context.Context, sessionID string) (*dto.SessionResponse, error) {
	a, ok := s.sessions.Get(sessionID)
	if !ok {
		return nil, ErrSessionNotFound
	}

	state := a.State()
	res := &dto.SessionResponse{
		SessionID:        a.ID(),
		Mode:             string(state.Mode),
		RecordingTarget:  state.RecordingTarget,
		AccumulatedLines: state.AccumulatedLines,
		LastFoundTitle:   state.LastFoundTitle,
		Notes:            []dto.NoteResponse{},
	}
	for _, n := range a.Notes() {
		res.Notes = append(res.Notes, dto.NoteResponse{
			ID:          n.ID.String(),
			Title:       n.Title,
			Description: n.Description,
			CreatedAt:   n.CreatedAt,
			UpdatedAt:   n.UpdatedAt,
		})
	}
	return res, nil
}

func (s *assistantService) EndSession(ctx context.Context, sessionID string) error {
	if !s.sessions.Delete(sessionID) {
		return ErrSessionNotFound
	}
	s.logger.Info("SESSION", "Session ended", map[string]interface{}{"session_id": sessionID})
	return nil
}

func (s *assistantService) Health(ctx context.Context, deep bool) *dto.HealthResponse {
	res := &dto.HealthResponse{
		Status:            "ok",
		EmbeddingProvider: s.settings.EmbeddingProvider,
		LLMProvider:       s.settings.LLMProvider,
		ActiveSessions:    s.sessions.Count(),
	}
	if !deep || s.llmProvider == nil {
		return res
	}

	ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	reply, err := s.llmProvider.Generate(ctx, healthPrompt, llm.WithMaxTokens(8), llm.WithTemperature(0))
	if err != nil {
		s.logger.Warn("HEALTH", "Generation provider unreachable", map[string]interface{}{"error": err.Error()})
		res.Status = "degraded"
		res.LLMError = err.Error()
		return res
	}
	res.LLMReply = reply
	return res
}
