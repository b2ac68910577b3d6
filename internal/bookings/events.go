package bookings

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/IBM/sarama"
	"github.com/google/uuid"

	"skybook/pkg/logger"
)

// Booking event types published to Kafka.
const (
	EventBookingConfirmed = "BOOKING_CONFIRMED"
	EventBookingCancelled = "BOOKING_CANCELLED"
)

// BookingEvent is the payload published on booking state changes.
// Downstream consumers (notification senders, reporting) key off Type.
type BookingEvent struct {
	Type       string    `json:"type"`
	BookingID  uuid.UUID `json:"booking_id"`
	BookingRef string    `json:"booking_ref"`
	UserID     uuid.UUID `json:"user_id"`
	FlightID   uuid.UUID `json:"flight_id"`
	Passengers int       `json:"passengers"`
	TotalPrice float64   `json:"total_price"`
	OccurredAt time.Time `json:"occurred_at"`
}

// EventPublisher publishes booking lifecycle events. A failed publish
// never fails the booking itself; callers log and move on.
type EventPublisher interface {
	Publish(ctx context.Context, event BookingEvent) error
	Close() error
}

// KafkaPublisherConfig configures the Kafka booking event publisher.
type KafkaPublisherConfig struct {
	Brokers  []string
	Topic    string
	RetryMax int
	Timeout  time.Duration
}

type kafkaPublisher struct {
	producer sarama.SyncProducer
	topic    string
}

// NewKafkaPublisher builds a synchronous, idempotent producer. Events
// are keyed by booking ID so a booking's events stay ordered within a
// partition.
func NewKafkaPublisher(config KafkaPublisherConfig) (EventPublisher, error) {
	saramaConfig := sarama.NewConfig()
	saramaConfig.Producer.Return.Successes = true
	saramaConfig.Producer.Return.Errors = true
	saramaConfig.Producer.RequiredAcks = sarama.WaitForAll
	saramaConfig.Producer.Compression = sarama.CompressionSnappy
	saramaConfig.Producer.Retry.Max = config.RetryMax
	saramaConfig.Producer.Timeout = config.Timeout
	saramaConfig.Producer.Idempotent = true
	saramaConfig.Net.MaxOpenRequests = 1
	saramaConfig.Producer.Partitioner = sarama.NewHashPartitioner

	producer, err := sarama.NewSyncProducer(config.Brokers, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka producer: %w", err)
	}

	return &kafkaPublisher{producer: producer, topic: config.Topic}, nil
}

func (p *kafkaPublisher) Publish(ctx context.Context, event BookingEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal booking event: %w", err)
	}

	message := &sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(event.BookingID.String()),
		Value: sarama.ByteEncoder(payload),
		Headers: []sarama.RecordHeader{
			{Key: []byte("event_type"), Value: []byte(event.Type)},
			{Key: []byte("booking_ref"), Value: []byte(event.BookingRef)},
			{Key: []byte("occurred_at"), Value: []byte(event.OccurredAt.Format(time.RFC3339))},
		},
		Timestamp: event.OccurredAt,
	}

	partition, offset, err := p.producer.SendMessage(message)
	if err != nil {
		return fmt.Errorf("failed to publish booking event: %w", err)
	}

	logger.GetDefault().Debug("booking event published",
		"topic", p.topic, "partition", partition, "offset", offset,
		"type", event.Type, "booking_ref", event.BookingRef)

	return nil
}

func (p *kafkaPublisher) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}

// noopPublisher stands in when Kafka is disabled.
type noopPublisher struct{}

func NewNoopPublisher() EventPublisher {
	return noopPublisher{}
}

func (noopPublisher) Publish(ctx context.Context, event BookingEvent) error { return nil }
func (noopPublisher) Close() error                                          { return nil }
