package bus

import "context"

// Keyer lo implementan los eventos que deben mantener orden por agregado.
type Keyer interface {
	PartitionKey() string
}

// Router lo implementan los eventos que saben a qué topic van.
// Los adapters que no enrutan (bus en memoria) lo ignoran.
type Router interface {
	RouteTopic() string
}

// La semántica de topic/nombre y formato del payload la deciden los adapters.
type EventBus interface {
	Publish(ctx context.Context, event interface{}) error
}

// TopicOf devuelve el topic del evento o fallback.
func TopicOf(event interface{}, fallback string) string {
	if r, ok := event.(Router); ok && r.RouteTopic() != "" {
		return r.RouteTopic()
	}
	return fallback
}
