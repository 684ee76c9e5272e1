// internal/interface/repository/kafka_dispatcher.go
package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"farewatch-service/internal/domain/entity"
	"farewatch-service/pkg/logger"

	"github.com/segmentio/kafka-go"
)

// KafkaAlertDispatcher publishes fired alerts to a Kafka topic
type KafkaAlertDispatcher struct {
	writer *kafka.Writer
	logger logger.Logger
	topic  string
}

// NewKafkaAlertDispatcher creates a Kafka alert dispatcher
func NewKafkaAlertDispatcher(brokers []string, topic string, log logger.Logger) (*KafkaAlertDispatcher, error) {
	if len(brokers) == 0 {
		return nil, fmt.Errorf("at least one broker is required")
	}

	if topic == "" {
		return nil, fmt.Errorf("topic cannot be empty")
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{}, // Hash by key for per-route ordering
		RequiredAcks: kafka.RequireAll,
		Compression:  kafka.Snappy,
		MaxAttempts:  3,
		BatchTimeout: 50 * time.Millisecond,
	}

	return &KafkaAlertDispatcher{
		writer: writer,
		logger: log,
		topic:  topic,
	}, nil
}

// Name returns the dispatch channel name
func (d *KafkaAlertDispatcher) Name() string {
	return "kafka"
}

// Dispatch publishes the alert event keyed by tracking id
func (d *KafkaAlertDispatcher) Dispatch(ctx context.Context, event *entity.AlertEvent) error {
	jsonData, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal alert event: %w", err)
	}

	err = d.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.TrackingID),
		Value: jsonData,
	})
	if err != nil {
		return fmt.Errorf("failed to publish alert event: %w", err)
	}

	d.logger.Info("Alert published to Kafka",
		"topic", d.topic,
		"trackingId", event.TrackingID)

	return nil
}

// Close closes the underlying writer
func (d *KafkaAlertDispatcher) Close() error {
	return d.writer.Close()
}
