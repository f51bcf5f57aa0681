package events

import (
	"context"
	"fmt"

	"reservas/pkg/kafka"
)

const kafkaSource = "reservations-service"

// KafkaSink mirrors events onto the Kafka topic for consumers that prefer the
// stream over the webhook feed. Keyed by espacio_id so per-space ordering
// holds within a partition.
type KafkaSink struct {
	producer *kafka.Producer
}

func NewKafkaSink(producer *kafka.Producer) *KafkaSink {
	return &KafkaSink{producer: producer}
}

func (s *KafkaSink) Name() string {
	return "kafka"
}

func (s *KafkaSink) Deliver(ctx context.Context, event Event) error {
	key, _ := event.Payload["espacio_id"].(string)
	if key == "" {
		key = event.Name
	}

	msg := kafka.NewMessage().
		WithKey(key).
		WithValue(event).
		WithEventType(event.Name).
		WithSource(kafkaSource).
		Build()

	if err := s.producer.Publish(ctx, msg); err != nil {
		return fmt.Errorf("kafka delivery for %s: %w", event.Name, err)
	}
	return nil
}
