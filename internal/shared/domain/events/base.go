package events

import (
	"encoding/json"
	"reflect"
	"time"
)

// IntegrationEvent es el sobre común de todo lo que viaja por el bus.
type IntegrationEvent struct {
	Type      string          `json:"type"`
	Key       string          `json:"key,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
	Data      json.RawMessage `json:"data"`

	// Topic solo sirve para enrutar; no viaja en el mensaje.
	Topic string `json:"-"`
}

// PartitionKey mantiene los eventos de un mismo agregado en la misma partición.
func (e IntegrationEvent) PartitionKey() string {
	return e.Key
}

func (e IntegrationEvent) RouteTopic() string {
	return e.Topic
}

// EventMetadata asocia un tipo de evento con su payload y su topic.
type EventMetadata struct {
	Type  reflect.Type
	Topic string
}

// MergeRegistries junta los registros de cada dominio en uno.
func MergeRegistries(registries ...map[string]EventMetadata) map[string]EventMetadata {
	merged := make(map[string]EventMetadata)
	for _, r := range registries {
		for k, v := range r {
			merged[k] = v
		}
	}
	return merged
}
