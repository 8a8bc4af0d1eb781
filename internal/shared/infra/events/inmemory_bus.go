package events

import (
	"context"
	"encoding/json"
	"sync"

	sharedBus "github.com/davicafu/makethechange/internal/shared/infra/platform/bus"
)

// InMemoryEventBus reparte cada evento (serializado a JSON) entre todos los
// suscriptores. Un suscriptor lento pierde eventos en vez de bloquear al bus.
type InMemoryEventBus struct {
	subscribers []chan interface{}
	mu          sync.RWMutex
	topic       string
}

var _ sharedBus.EventBus = (*InMemoryEventBus)(nil)

func NewInMemoryEventBus(topic string) *InMemoryEventBus {
	return &InMemoryEventBus{topic: topic}
}

func (b *InMemoryEventBus) Topic() string { return b.topic }

func (b *InMemoryEventBus) Publish(ctx context.Context, event interface{}) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	b.mu.RLock()
	subs := append([]chan interface{}(nil), b.subscribers...)
	b.mu.RUnlock()

	for _, ch := range subs {
		select {
		case ch <- payload:
		default:
		}
	}
	return nil
}

// Subscribe devuelve un canal con hueco para bufferSize eventos.
func (b *InMemoryEventBus) Subscribe(bufferSize int) <-chan interface{} {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan interface{}, bufferSize)
	b.subscribers = append(b.subscribers, ch)
	return ch
}

// Consume entrega lo que llega por ch a handler hasta que ctx se cancela.
func Consume(ctx context.Context, ch <-chan interface{}, handler MessageHandler) {
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case msg := <-ch:
				if payload, ok := msg.([]byte); ok {
					handler.HandleMessage(ctx, "", payload)
				}
			}
		}
	}()
}
