package dto

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/yorikya/note-speaker/pkg/intent"
)

type CommandRequest struct {
	SessionID string          `json:"session_id" validate:"omitempty,max=64"`
	Command   string          `json:"command" validate:"required,max=1024"`
	Payload   json.RawMessage `json:"payload"`
}

type CommandResponse struct {
	SessionID string `json:"session_id"`
	Reply     string `json:"reply"`
	Mode      string `json:"mode"`
}

type NoteResponse struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type SessionResponse struct {
	SessionID        string         `json:"session_id"`
	Mode             string         `json:"mode"`
	RecordingTarget  string         `json:"recording_target,omitempty"`
	AccumulatedLines []string       `json:"accumulated_lines,omitempty"`
	LastFoundTitle   string         `json:"last_found_title,omitempty"`
	Notes            []NoteResponse `json:"notes"`
}

type HealthResponse struct {
	Status            string `json:"status"`
	EmbeddingProvider string `json:"embedding_provider"`
	LLMProvider       string `json:"llm_provider"`
	ActiveSessions    int    `json:"active_sessions"`
	LLMReply          string `json:"llm_reply,omitempty"`
	LLMError          string `json:"llm_error,omitempty"`
}

// ChatMessage is an inbound WebSocket frame
type ChatMessage struct {
	Type    string          `json:"type"`
	Text    string          `json:"text"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// ChatReply is an outbound WebSocket frame
type ChatReply struct {
	Type  string                 `json:"type"`
	Text  string                 `json:"text,omitempty"`
	Event string                 `json:"event,omitempty"`
	Data  map[string]interface{} `json:"data,omitempty"`
}

// NoteEventMessage is the bus representation of a note lifecycle event
type NoteEventMessage struct {
	Type       string                 `json:"type"`
	OccurredAt time.Time              `json:"occurred_at"`
	Data       map[string]interface{} `json:"data"`
}

func (m NoteEventMessage) SessionID() string {
	id, _ := m.Data["session_id"].(string)
	return id
}

// DecodePayload turns a raw JSON payload into a command payload.
// Missing or null payloads become fallback text; strings stay text; objects
// become structured fields; anything else is kept as its JSON text.
func DecodePayload(raw json.RawMessage, fallback string) (intent.Payload, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return intent.TextPayload(fallback), nil
	}

	switch trimmed[0] {
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return intent.Payload{}, fmt.Errorf("decode text payload: %w", err)
		}
		return intent.TextPayload(s), nil
	case '{':
		fields := map[string]interface{}{}
		if err := json.Unmarshal(trimmed, &fields); err != nil {
			return intent.Payload{}, fmt.Errorf("decode structured payload: %w", err)
		}
		return intent.FieldsPayload(fields), nil
	default:
		if !json.Valid(trimmed) {
			return intent.Payload{}, fmt.Errorf("decode payload: invalid JSON")
		}
		return intent.TextPayload(string(trimmed)), nil
	}
}
