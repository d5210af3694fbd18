package event

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/khoahotran/portfolio-builder/internal/config"
	"github.com/khoahotran/portfolio-builder/pkg/logger"
)

const (
	TopicProfileEvents = "profile.events"
	TopicProjectEvents = "project.events"
)

type EventType string

const (
	ProfileEventTypeRegistered EventType = "profile.registered"
	ProfileEventTypeUpdated    EventType = "profile.updated"
	ProfileEventTypeLayout     EventType = "profile.layout_changed"
	ProfileEventTypeSEOUpdated EventType = "profile.seo_updated"
	ProfileEventTypeSynced     EventType = "profile.synced"
	ProjectEventTypeCreated    EventType = "project.created"
	ProjectEventTypeUpdated    EventType = "project.updated"
	ProjectEventTypeDeleted    EventType = "project.deleted"
)

type ProfileEventPayload struct {
	EventType  EventType `json:"event_type"`
	UserID     uuid.UUID `json:"user_id"`
	Username   string    `json:"username,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

type ProjectEventPayload struct {
	EventType  EventType `json:"event_type"`
	ProjectID  uuid.UUID `json:"project_id"`
	UserID     uuid.UUID `json:"user_id"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Publisher is what use cases depend on. Publishing is best effort: callers
// log failures and never fail the request because of them.
type Publisher interface {
	PublishProfileEvent(ctx context.Context, payload ProfileEventPayload) error
	PublishProjectEvent(ctx context.Context, payload ProjectEventPayload) error
}

type KafkaProducerClient struct {
	ProfileEventsWriter *kafka.Writer
	ProjectEventsWriter *kafka.Writer
	logger              logger.Logger
}

func NewKafkaProducerClient(cfg config.Config, log logger.Logger) (*KafkaProducerClient, error) {
	brokers := cfg.Kafka.Brokers
	if len(brokers) == 0 {
		return nil, fmt.Errorf("kafka brokers not configured")
	}

	newWriter := func(topic string) *kafka.Writer {
		return &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Topic:                  topic,
			Balancer:               &kafka.Hash{},
			AllowAutoTopicCreation: true,
		}
	}

	log.Info("Kafka producers initialized", zap.Strings("brokers", brokers))
	return &KafkaProducerClient{
		ProfileEventsWriter: newWriter(TopicProfileEvents),
		ProjectEventsWriter: newWriter(TopicProjectEvents),
		logger:              log,
	}, nil
}

// Messages are keyed by user id so every event of one profile lands on the
// same partition and is processed in order.
func (c *KafkaProducerClient) write(ctx context.Context, w *kafka.Writer, key uuid.UUID, payload any) error {
	value, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	if err := w.WriteMessages(ctx, kafka.Message{Key: []byte(key.String()), Value: value}); err != nil {
		return fmt.Errorf("write to %s: %w", w.Topic, err)
	}
	return nil
}

func (c *KafkaProducerClient) PublishProfileEvent(ctx context.Context, payload ProfileEventPayload) error {
	if payload.OccurredAt.IsZero() {
		payload.OccurredAt = time.Now().UTC()
	}
	return c.write(ctx, c.ProfileEventsWriter, payload.UserID, payload)
}

func (c *KafkaProducerClient) PublishProjectEvent(ctx context.Context, payload ProjectEventPayload) error {
	if payload.OccurredAt.IsZero() {
		payload.OccurredAt = time.Now().UTC()
	}
	return c.write(ctx, c.ProjectEventsWriter, payload.UserID, payload)
}

func (c *KafkaProducerClient) Close() {
	if c.ProfileEventsWriter != nil {
		if err := c.ProfileEventsWriter.Close(); err != nil {
			c.logger.Warn("Failed to close profile events writer", zap.Error(err))
		}
	}
	if c.ProjectEventsWriter != nil {
		if err := c.ProjectEventsWriter.Close(); err != nil {
			c.logger.Warn("Failed to close project events writer", zap.Error(err))
		}
	}
	c.logger.Info("Closed Kafka producers")
}

// NopPublisher drops every event. Used when no brokers are configured.
type NopPublisher struct{}

func (NopPublisher) PublishProfileEvent(context.Context, ProfileEventPayload) error { return nil }
func (NopPublisher) PublishProjectEvent(context.Context, ProjectEventPayload) error { return nil }
