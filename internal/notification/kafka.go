package notification

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"
)

// KafkaNotifier publishes notification events to a Kafka topic, keyed by the
// destination wallet so events for one wallet stay ordered.
type KafkaNotifier struct {
	writer *kafka.Writer
}

// NewKafkaNotifier constructs a notifier writing to the given brokers and topic.
func NewKafkaNotifier(brokers []string, topic string) *KafkaNotifier {
	return &KafkaNotifier{
		writer: &kafka.Writer{
			Addr:     kafka.TCP(brokers...),
			Topic:    topic,
			Balancer: &kafka.LeastBytes{},
		},
	}
}

type kafkaEvent struct {
	Kind     string    `json:"kind"`
	WalletID string    `json:"wallet_id"`
	Body     string    `json:"body"`
	SentAt   time.Time `json:"sent_at"`
}

// Send marshals the message and writes it to the topic.
func (n *KafkaNotifier) Send(ctx context.Context, message Message) error {
	payload, err := json.Marshal(kafkaEvent{
		Kind:     message.Kind,
		WalletID: message.WalletID,
		Body:     message.Body,
		SentAt:   time.Now().UTC(),
	})
	if err != nil {
		return err
	}

	return n.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(message.WalletID),
		Value: payload,
	})
}

// Close flushes and closes the underlying writer.
func (n *KafkaNotifier) Close() error {
	return n.writer.Close()
}
