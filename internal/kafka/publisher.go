package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/segmentio/kafka-go"

	"inventory-ledger/internal/models"
)

// Publisher publishes stock-change events to Kafka
type Publisher struct {
	writer *kafka.Writer
}

// NewPublisher creates a new Kafka publisher. The hash balancer routes
// messages with the same key (product id) to the same partition so
// per-product ordering is preserved.
func NewPublisher(brokers []string, topic string) *Publisher {
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireAll,
		Async:                  false,
		AllowAutoTopicCreation: true,

		BatchTimeout: 10 * time.Millisecond,
		BatchSize:    1,
		MaxAttempts:  3,
		WriteTimeout: 10 * time.Second,
	}

	return &Publisher{writer: writer}
}

// PublishStockEvent publishes a stock-change event, keyed by product id
func (p *Publisher) PublishStockEvent(ctx context.Context, event *models.StockEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal stock event: %w", err)
	}

	message := kafka.Message{
		Key:   []byte(event.ProductID),
		Value: data,
		Headers: []kafka.Header{
			{Key: "event-type", Value: []byte(event.EventType)},
			{Key: "event-id", Value: []byte(event.EventID)},
		},
	}

	if err := p.writer.WriteMessages(ctx, message); err != nil {
		log.Error().Err(err).
			Str("event_type", event.EventType).
			Str("product_id", event.ProductID).
			Str("event_id", event.EventID).
			Msg("Failed to publish stock event")
		return fmt.Errorf("failed to publish stock event: %w", err)
	}

	log.Debug().
		Str("event_type", event.EventType).
		Str("product_id", event.ProductID).
		Str("event_id", event.EventID).
		Msg("Published stock event")

	return nil
}

// Close closes the Kafka writer
func (p *Publisher) Close() error {
	return p.writer.Close()
}
