package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	sharedBus "github.com/davicafu/makethechange/internal/shared/infra/platform/bus"
)

// KafkaPublisher escribe los eventos de catálogo en Kafka como JSON.
// Con un writer sin topic fijo, cada mensaje va al topic de su agregado
// (bus.Router); la clave de partición mantiene el orden por elemento.
type KafkaPublisher struct {
	writer *kafka.Writer
	log    *zap.Logger
}

var _ sharedBus.EventBus = (*KafkaPublisher)(nil)

func NewKafkaPublisher(writer *kafka.Writer, log *zap.Logger) *KafkaPublisher {
	return &KafkaPublisher{writer: writer, log: log}
}

func (p *KafkaPublisher) Publish(ctx context.Context, event interface{}) error {
	msg, err := p.message(event)
	if err != nil {
		return err
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.log.Error("Error publishing to Kafka", zap.String("topic", msg.Topic), zap.Error(err))
		return fmt.Errorf("kafka publish %q: %w", msg.Topic, err)
	}

	p.log.Debug("Event published to Kafka", zap.String("topic", msg.Topic), zap.ByteString("key", msg.Key))
	return nil
}

func (p *KafkaPublisher) message(event interface{}) (kafka.Message, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("encode event: %w", err)
	}

	msg := kafka.Message{Value: data}
	if keyer, ok := event.(sharedBus.Keyer); ok {
		msg.Key = []byte(keyer.PartitionKey())
	}
	if p.writer.Topic == "" {
		msg.Topic = sharedBus.TopicOf(event, "")
		if msg.Topic == "" {
			return kafka.Message{}, fmt.Errorf("event %T has no topic", event)
		}
	}
	return msg, nil
}
