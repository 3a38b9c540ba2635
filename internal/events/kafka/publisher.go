// Package kafka publishes completed ledger operations to a Kafka topic
// for downstream billing and dashboard consumers.
package kafka

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/ncibb/credit-ledger/internal/domain"
	"github.com/segmentio/kafka-go"
)

// Publisher writes transaction-completed events to a Kafka topic.
type Publisher struct {
	writer *kafka.Writer
}

// NewPublisher returns a Publisher writing to the given brokers and topic.
func NewPublisher(brokers []string, topic string) *Publisher {
	return &Publisher{
		writer: &kafka.Writer{
			Addr:     kafka.TCP(brokers...),
			Topic:    topic,
			Balancer: &kafka.LeastBytes{},
		},
	}
}

// Publish writes the event keyed by account id. Delivery is best-effort;
// the caller decides whether a failure matters.
func (p *Publisher) Publish(ctx context.Context, event domain.TransactionCompleted) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(strconv.FormatInt(int64(event.AccountID), 10)),
		Value: data,
	})
}

// Close closes the underlying writer.
func (p *Publisher) Close() error {
	return p.writer.Close()
}
