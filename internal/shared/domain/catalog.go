package domain

import (
	"context"

	sharedQuery "github.com/davicafu/makethechange/internal/shared/infra/platform/query"
	"github.com/google/uuid"
)

// CatalogRepository es el puerto común de los catálogos listables
// (productos, proyectos, inversiones, posts).
// Update persiste la entidad y su evento de outbox de forma atómica.
type CatalogRepository[T any] interface {
	List(ctx context.Context, criteria Criteria, pagination sharedQuery.Pagination, sort sharedQuery.Sort) (sharedQuery.Page[T], error)
	GetByID(ctx context.Context, id uuid.UUID) (*T, error)
	Update(ctx context.Context, item *T, evt OutboxEvent) error
}
