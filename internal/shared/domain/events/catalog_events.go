package events

import (
	"time"

	"github.com/google/uuid"
)

// ItemPatched se emite cada vez que un PATCH de catálogo se confirma.
// Fields es la clave del patch ("featured", "stock", "featured,stock"...).
type ItemPatched struct {
	ID        uuid.UUID `json:"id"`
	Aggregate string    `json:"aggregate"`
	Fields    string    `json:"fields"`
	PatchedAt time.Time `json:"patched_at"`
}

// PatchedEventType es el tipo de evento de outbox de un agregado.
func PatchedEventType(aggregate string) string {
	return aggregate + ".patched"
}
