// Package kafka publishes price-update events for the notification layer.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/IBM/sarama"

	"github.com/pkordes/hotel-offers/internal/domain"
)

// EventType is sent in the "event-type" header of every message.
const EventType = "guest_prices.updated"

// Publisher sends GuestPricesUpdated messages over a sarama SyncProducer.
// Messages are keyed by guest id so updates for one guest stay ordered.
type Publisher struct {
	producer sarama.SyncProducer
	topic    string
}

// NewPublisher connects a synchronous, idempotent producer to brokers.
// A nil cfg means sarama.NewConfig().
func NewPublisher(brokers []string, topic string, cfg *sarama.Config) (*Publisher, error) {
	if cfg == nil {
		cfg = sarama.NewConfig()
	}
	cfg.Producer.RequiredAcks = sarama.WaitForAll
	cfg.Producer.Idempotent = true
	cfg.Producer.Return.Successes = true
	cfg.Net.MaxOpenRequests = 1

	producer, err := sarama.NewSyncProducer(brokers, cfg)
	if err != nil {
		return nil, fmt.Errorf("kafka.NewPublisher: %w", err)
	}
	return NewPublisherWithProducer(producer, topic), nil
}

// NewPublisherWithProducer wraps an existing producer.
func NewPublisherWithProducer(producer sarama.SyncProducer, topic string) *Publisher {
	return &Publisher{producer: producer, topic: topic}
}

// PublishGuestPrices sends msg as JSON. SyncProducer has no context
// support; ctx is only checked before sending.
func (p *Publisher) PublishGuestPrices(ctx context.Context, msg domain.GuestPricesUpdated) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("kafka.Publisher.PublishGuestPrices: %w", err)
	}

	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("kafka.Publisher.PublishGuestPrices: encode: %w", err)
	}

	_, _, err = p.producer.SendMessage(&sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(strconv.FormatInt(msg.GuestID, 10)),
		Value: sarama.ByteEncoder(payload),
		Headers: []sarama.RecordHeader{
			{Key: []byte("content-type"), Value: []byte("application/json")},
			{Key: []byte("event-type"), Value: []byte(EventType)},
			{Key: []byte("run-id"), Value: []byte(msg.RunID.String())},
		},
	})
	if err != nil {
		return fmt.Errorf("kafka.Publisher.PublishGuestPrices: guest %d: %w", msg.GuestID, err)
	}
	return nil
}

// Close flushes and closes the producer.
func (p *Publisher) Close() error {
	if p.producer == nil {
		return nil
	}
	return p.producer.Close()
}
