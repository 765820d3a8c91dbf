package handler

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yorikya/note-speaker/internal/dto"
	"github.com/yorikya/note-speaker/internal/pkg/logger"
	"github.com/yorikya/note-speaker/internal/repository/memory"
	"github.com/yorikya/note-speaker/internal/service"
	internalWS "github.com/yorikya/note-speaker/internal/websocket"
	"github.com/yorikya/note-speaker/pkg/embedding"
	"github.com/yorikya/note-speaker/pkg/intent"
)

func newChatHandler() *ChatHandler {
	log := logger.NewNopLogger()
	general := intent.NewGeneralRouter(context.Background(), embedding.NewMatcher(nil, log), 0, log)
	svc := service.NewAssistantService(
		intent.NewRouter(general, 0, log),
		memory.NewSessionRepository(time.Minute),
		nil,
		nil,
		service.AssistantSettings{},
		log,
	)
	return NewChatHandler(svc, internalWS.NewHub(log), log)
}

func replyText(t *testing.T, raw []byte) string {
	t.Helper()
	var frame dto.ChatReply
	require.NoError(t, json.Unmarshal(raw, &frame))
	assert.Equal(t, "reply", frame.Type)
	return frame.Text
}

func TestHandleMessageErrors(t *testing.T) {
	h := newChatHandler()
	ctx := context.Background()

	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"empty", "   ", msgEmpty},
		{"not json", "hello", msgInvalidFormat},
		{"missing type", `{"text":"find x"}`, msgMissingType},
		{"empty chat text", `{"type":"chat","text":""}`, msgEmpty},
		{"bad payload", `{"type":"chat","text":"create","payload":[1,}`, msgInvalidFormat},
		{"unknown type", `{"type":"typing"}`, "Unsupported message type: typing"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, replyText(t, h.HandleMessage(ctx, "s", []byte(tt.raw))))
		})
	}
}

func TestHandleMessageConversation(t *testing.T) {
	h := newChatHandler()
	ctx := context.Background()

	send := func(raw string) string {
		return replyText(t, h.HandleMessage(ctx, "s", []byte(raw)))
	}

	assert.Equal(t, "Note created: shopping list", send(`{"type":"chat","text":"create note shopping list"}`))
	assert.Contains(t, send(`{"type":"chat","text":"find note shopping list"}`), "Found 1 record 'shopping list'")
	assert.Contains(t, send(`{"type":"chat","text":"update description"}`), "Starting description accumulation for 'shopping list'")
	send(`{"type":"chat","text":"milk"}`)
	send(`{"type":"chat","text":"eggs"}`)
	assert.Equal(t, "Stopped recording. Updated 'shopping list' description.", send(`{"type":"chat","text":"stop recording"}`))

	session, err := h.service.GetSession(ctx, "s")
	require.NoError(t, err)
	assert.Equal(t, "milk\neggs", session.Notes[0].Description)
}

func TestHandleMessageStructuredPayload(t *testing.T) {
	h := newChatHandler()

	raw := h.HandleMessage(context.Background(), "s", []byte(`{"type":"chat","text":"create","payload":{"title":"todo","description":"a"}}`))
	assert.Equal(t, "Note created: todo", replyText(t, raw))
}
