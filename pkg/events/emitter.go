// Package events defines the match lifecycle events published for
// downstream consumers (outreach tooling, analytics).
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/Gobusters/ectologger"

	"github.com/Ramsey-B/fern/pkg/kafka"
	"github.com/Ramsey-B/fern/pkg/models"
)

const (
	EventBatchCompleted = "match.batch.completed"
	EventResultReviewed = "match.result.reviewed"
)

// BatchCompletedEvent is emitted after a batch match finishes.
type BatchCompletedEvent struct {
	EventType string            `json:"event_type"`
	TenantID  string            `json:"tenant_id"`
	DatasetID string            `json:"dataset_id"`
	Stats     models.BatchStats `json:"stats"`
	Skipped   int               `json:"skipped"`
	Timestamp time.Time         `json:"timestamp"`
}

// ResultReviewedEvent is emitted when a human accepts or rejects a
// match result.
type ResultReviewedEvent struct {
	EventType  string             `json:"event_type"`
	TenantID   string             `json:"tenant_id"`
	ResultID   string             `json:"result_id"`
	PersonID   string             `json:"person_id"`
	Action     string             `json:"action"` // accept or reject
	NewStatus  models.MatchStatus `json:"new_status"`
	ReviewedBy string             `json:"reviewed_by,omitempty"`
	Timestamp  time.Time          `json:"timestamp"`
}

// Emitter publishes match lifecycle events. Implementations must be
// safe for concurrent use.
type Emitter interface {
	EmitBatchCompleted(ctx context.Context, event BatchCompletedEvent) error
	EmitResultReviewed(ctx context.Context, event ResultReviewedEvent) error
}

// KafkaEmitter publishes events through the Kafka producer.
type KafkaEmitter struct {
	producer *kafka.Producer
	logger   ectologger.Logger
}

// NewKafkaEmitter creates a Kafka-backed emitter.
func NewKafkaEmitter(producer *kafka.Producer, logger ectologger.Logger) *KafkaEmitter {
	return &KafkaEmitter{
		producer: producer,
		logger:   logger,
	}
}

func (e *KafkaEmitter) EmitBatchCompleted(ctx context.Context, event BatchCompletedEvent) error {
	event.EventType = EventBatchCompleted
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}

	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	err = e.producer.Publish(ctx, event.TenantID, data, map[string]string{
		"event_type": event.EventType,
		"tenant_id":  event.TenantID,
	})
	if err != nil {
		return err
	}

	e.logger.WithContext(ctx).WithFields(map[string]any{
		"event_type": event.EventType,
		"dataset_id": event.DatasetID,
	}).Debug("Published batch completed event")

	return nil
}

func (e *KafkaEmitter) EmitResultReviewed(ctx context.Context, event ResultReviewedEvent) error {
	event.EventType = EventResultReviewed
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}

	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	err = e.producer.Publish(ctx, event.ResultID, data, map[string]string{
		"event_type": event.EventType,
		"tenant_id":  event.TenantID,
	})
	if err != nil {
		return err
	}

	e.logger.WithContext(ctx).WithFields(map[string]any{
		"event_type": event.EventType,
		"result_id":  event.ResultID,
		"action":     event.Action,
	}).Debug("Published result reviewed event")

	return nil
}

// NoopEmitter discards events. Used when Kafka is disabled and in
// tests.
type NoopEmitter struct{}

func (NoopEmitter) EmitBatchCompleted(ctx context.Context, event BatchCompletedEvent) error {
	return nil
}

func (NoopEmitter) EmitResultReviewed(ctx context.Context, event ResultReviewedEvent) error {
	return nil
}
