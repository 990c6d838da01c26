package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
)

// TopicWrongQuestionRemoved carries removal notices from the session engine's
// auto-removal policy to whoever maintains the wrong-question book.
const TopicWrongQuestionRemoved = "wrongQuestionRemoved"

// WrongQuestionRemovedEvent is the payload published when a wrong question
// hits its correct-answer threshold.
type WrongQuestionRemovedEvent struct {
	QuestionID string `json:"questionId"`
}

// EventPublisher defines the interface for publishing session events
type EventPublisher interface {
	PublishWrongQuestionRemoved(ctx context.Context, questionID string) error
	Close() error
}

// ChannelEventPublisher implements EventPublisher using Watermill's in-process
// gochannel pub/sub.
type ChannelEventPublisher struct {
	pubSub *gochannel.GoChannel
	logger *slog.Logger
}

// NewChannelEventPublisher creates an in-process event publisher
func NewChannelEventPublisher(logger *slog.Logger) *ChannelEventPublisher {
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{OutputChannelBuffer: 64},
		watermill.NewSlogLogger(logger),
	)
	return &ChannelEventPublisher{
		pubSub: pubSub,
		logger: logger,
	}
}

// Subscribe exposes the underlying subscriber so consumers can listen for a
// topic on the same bus.
func (p *ChannelEventPublisher) Subscribe(ctx context.Context, topic string) (<-chan *message.Message, error) {
	return p.pubSub.Subscribe(ctx, topic)
}

func (p *ChannelEventPublisher) PublishWrongQuestionRemoved(ctx context.Context, questionID string) error {
	payload, err := json.Marshal(WrongQuestionRemovedEvent{QuestionID: questionID})
	if err != nil {
		return fmt.Errorf("failed to marshal removal event: %w", err)
	}

	msg := message.NewMessage(uuid.NewString(), payload)
	msg.Metadata.Set("event_type", TopicWrongQuestionRemoved)
	msg.Metadata.Set("timestamp", time.Now().Format(time.RFC3339))

	if err := p.pubSub.Publish(TopicWrongQuestionRemoved, msg); err != nil {
		p.logger.Error("Failed to publish removal event",
			"question_id", questionID,
			"error", err)
		return fmt.Errorf("failed to publish removal event: %w", err)
	}

	p.logger.Info("Published removal event",
		"question_id", questionID,
		"topic", TopicWrongQuestionRemoved)
	return nil
}

// Close closes the publisher and releases resources
func (p *ChannelEventPublisher) Close() error {
	return p.pubSub.Close()
}

// MockEventPublisher is a mock implementation for testing
type MockEventPublisher struct {
	Removed []string
}

func NewMockEventPublisher() *MockEventPublisher {
	return &MockEventPublisher{Removed: make([]string, 0)}
}

func (m *MockEventPublisher) PublishWrongQuestionRemoved(_ context.Context, questionID string) error {
	m.Removed = append(m.Removed, questionID)
	return nil
}

func (m *MockEventPublisher) Close() error {
	return nil
}
