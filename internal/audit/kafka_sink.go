package audit

import (
	"context"
	"encoding/json"
	"fmt"

	"credshare/internal/platform/kafka/producer"
)

// KafkaSink streams audit events to a Kafka topic, keyed by owner so one
// owner's trail stays ordered within a partition.
type KafkaSink struct {
	producer *producer.Producer
	topic    string
}

func NewKafkaSink(p *producer.Producer, topic string) *KafkaSink {
	return &KafkaSink{producer: p, topic: topic}
}

func (s *KafkaSink) Publish(ctx context.Context, event Event) error {
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal audit event: %w", err)
	}
	return s.producer.Produce(ctx, &producer.Message{
		Topic: s.topic,
		Key:   event.Owner.Bytes(),
		Value: value,
		Headers: map[string]string{
			"action": string(event.Action),
		},
	})
}
