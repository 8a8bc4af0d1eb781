package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	sharedBus "github.com/davicafu/makethechange/internal/shared/infra/platform/bus"
)

// NATSPublisher publica en el subject "<prefix>.<topic>".
type NATSPublisher struct {
	conn   *nats.Conn
	prefix string
	log    *zap.Logger
}

var _ sharedBus.EventBus = (*NATSPublisher)(nil)

// NewNATSPublisher conecta con reconexión infinita.
func NewNATSPublisher(url, prefix string, log *zap.Logger) (*NATSPublisher, error) {
	nc, err := nats.Connect(url,
		nats.MaxReconnects(-1),
		nats.ReconnectWait(time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("connecting to NATS at %s: %w", url, err)
	}
	return &NATSPublisher{conn: nc, prefix: prefix, log: log}, nil
}

func (p *NATSPublisher) Publish(ctx context.Context, event interface{}) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshaling event: %w", err)
	}

	subject := Subject(p.prefix, sharedBus.TopicOf(event, "events"))
	if err := p.conn.Publish(subject, data); err != nil {
		p.log.Error("Error publishing to NATS", zap.String("subject", subject), zap.Error(err))
		return err
	}
	return nil
}

// Subscribe entrega los mensajes de subject (admite comodines, p.ej. "mtc.>")
// al handler. Devuelve la función para darse de baja.
func (p *NATSPublisher) Subscribe(subject string, handler MessageHandler) (func() error, error) {
	sub, err := p.conn.Subscribe(subject, func(msg *nats.Msg) {
		handler.HandleMessage(context.Background(), msg.Subject, msg.Data)
	})
	if err != nil {
		return nil, fmt.Errorf("subscribing to %s: %w", subject, err)
	}
	if err := p.conn.Flush(); err != nil {
		_ = sub.Unsubscribe()
		return nil, fmt.Errorf("flushing subscription: %w", err)
	}
	return sub.Unsubscribe, nil
}

func (p *NATSPublisher) Close() error {
	p.conn.Close()
	return nil
}

// Subject compone el subject NATS de un topic.
func Subject(prefix, topic string) string {
	if prefix == "" {
		return topic
	}
	return prefix + "." + topic
}
