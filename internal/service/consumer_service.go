package service

import (
	"context"
	"encoding/json"

	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/yorikya/note-speaker/internal/dto"
	"github.com/yorikya/note-speaker/internal/pkg/logger"
)

// EventDelivery pushes a serialized frame to every client of a session
type EventDelivery interface {
	SendToSession(sessionID string, data []byte) int
}

type IConsumerService interface {
	Consume(ctx context.Context) error
}

type consumerService struct {
	subscriber message.Subscriber
	topicName  string
	delivery   EventDelivery
	logger     logger.ILogger
}

func NewConsumerService(
	subscriber message.Subscriber,
	topicName string,
	delivery EventDelivery,
	log logger.ILogger,
) IConsumerService {
	return &consumerService{
		subscriber: subscriber,
		topicName:  topicName,
		delivery:   delivery,
		logger:     log,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.subscriber.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(msg *message.Message) {
	// Delivery is best effort, so every message is acked
	defer msg.Ack()

	var event dto.NoteEventMessage
	if err := json.Unmarshal(msg.Payload, &event); err != nil {
		cs.logger.Error("CONSUMER", "Failed to unmarshal note event", map[string]interface{}{
			"message_id": msg.UUID,
			"error":      err.Error(),
		})
		return
	}

	sessionID := event.SessionID()
	if sessionID == "" {
		cs.logger.Warn("CONSUMER", "Note event without session", map[string]interface{}{
			"event": event.Type,
		})
		return
	}

	frame, err := json.Marshal(dto.ChatReply{
		Type:  "event",
		Event: event.Type,
		Data:  event.Data,
	})
	if err != nil {
		cs.logger.Error("CONSUMER", "Failed to encode event frame", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}

	delivered := cs.delivery.SendToSession(sessionID, frame)
	cs.logger.Debug("CONSUMER", "Note event delivered", map[string]interface{}{
		"event":      event.Type,
		"session_id": sessionID,
		"clients":    delivered,
	})
}
