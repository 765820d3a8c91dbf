package handler

import (
	"bytes"
	"context"
	"encoding/json"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"

	"github.com/yorikya/note-speaker/internal/dto"
	"github.com/yorikya/note-speaker/internal/pkg/logger"
	"github.com/yorikya/note-speaker/internal/service"
	internalWS "github.com/yorikya/note-speaker/internal/websocket"
)

const (
	msgEmpty         = "Empty message received"
	msgInvalidFormat = "Invalid message format"
	msgMissingType   = "Missing message type"
)

type ChatHandler struct {
	service service.IAssistantService
	hub     *internalWS.Hub
	logger  logger.ILogger
}

func NewChatHandler(service service.IAssistantService, hub *internalWS.Hub, log logger.ILogger) *ChatHandler {
	return &ChatHandler{
		service: service,
		hub:     hub,
		logger:  log,
	}
}

// ServeWs upgrades the request and drives one conversation over it.
// The optional session_id query parameter resumes an existing session.
func (h *ChatHandler) ServeWs(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}

	sessionID := c.Query("session_id")
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	return websocket.New(func(conn *websocket.Conn) {
		h.logger.Info("ChatHandler", "Starting WebSocket session", map[string]interface{}{"session_id": sessionID})
		internalWS.ServeWs(h.hub, conn, sessionID, func(raw []byte) []byte {
			return h.HandleMessage(context.Background(), sessionID, raw)
		})
		h.logger.Info("ChatHandler", "WebSocket session ended", map[string]interface{}{"session_id": sessionID})
	})(c)
}

// HandleMessage answers one inbound frame with an encoded reply frame
func (h *ChatHandler) HandleMessage(ctx context.Context, sessionID string, raw []byte) []byte {
	return h.encode(sessionID, h.reply(ctx, sessionID, raw))
}

func (h *ChatHandler) reply(ctx context.Context, sessionID string, raw []byte) string {
	if len(bytes.TrimSpace(raw)) == 0 {
		return msgEmpty
	}

	var msg dto.ChatMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		h.logger.Warn("ChatHandler", "Invalid message format", map[string]interface{}{
			"session_id": sessionID,
			"error":      err.Error(),
		})
		return msgInvalidFormat
	}

	switch msg.Type {
	case "":
		return msgMissingType
	case "chat":
		if msg.Text == "" {
			return msgEmpty
		}
		payload, err := dto.DecodePayload(msg.Payload, msg.Text)
		if err != nil {
			return msgInvalidFormat
		}
		return h.service.Chat(ctx, sessionID, msg.Text, payload)
	default:
		return "Unsupported message type: " + msg.Type
	}
}

func (h *ChatHandler) encode(sessionID, text string) []byte {
	data, err := json.Marshal(dto.ChatReply{
		Type: "reply",
		Text: text,
		Data: map[string]interface{}{"session_id": sessionID},
	})
	if err != nil {
		h.logger.Error("ChatHandler", "Failed to encode reply", map[string]interface{}{"error": err.Error()})
		return nil
	}
	return data
}

// RegisterRoutes registers the chat WebSocket route.
func (h *ChatHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/ws/chat", h.ServeWs)
}
