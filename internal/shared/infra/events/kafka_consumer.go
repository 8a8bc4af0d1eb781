package events

import (
	"context"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// MessageHandler lo cumplen los consumidores de eventos. key es la clave de
// partición (Kafka) o el subject (NATS); puede venir vacía.
type MessageHandler interface {
	HandleMessage(ctx context.Context, key string, payload []byte)
}

// ConsumerAdapter entrega los mensajes de un kafka.Reader a un MessageHandler.
// El offset se confirma después de procesar cada mensaje: si el proceso cae
// a mitad, el mensaje se vuelve a leer.
type ConsumerAdapter struct {
	reader  *kafka.Reader
	handler MessageHandler
	log     *zap.Logger
}

func NewConsumerAdapter(reader *kafka.Reader, handler MessageHandler, log *zap.Logger) *ConsumerAdapter {
	return &ConsumerAdapter{reader: reader, handler: handler, log: log}
}

// Start lanza el bucle de consumo en una goroutine; termina al cancelar ctx.
func (c *ConsumerAdapter) Start(ctx context.Context) {
	topic := c.reader.Config().Topic
	log := c.log.With(zap.String("topic", topic))
	log.Info("🎧 Consumidor de Kafka iniciado", zap.Strings("brokers", c.reader.Config().Brokers))

	go func() {
		for {
			msg, err := c.reader.FetchMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					log.Info("Consumidor de Kafka detenido.")
					return
				}
				log.Error("Error al leer mensaje de Kafka", zap.Error(err))
				continue
			}

			c.handler.HandleMessage(ctx, string(msg.Key), msg.Value)

			if err := c.reader.CommitMessages(ctx, msg); err != nil && ctx.Err() == nil {
				log.Warn("⚠️ No se pudo confirmar el offset",
					zap.Int("partition", msg.Partition),
					zap.Int64("offset", msg.Offset),
					zap.Error(err))
			}
		}
	}()
}
