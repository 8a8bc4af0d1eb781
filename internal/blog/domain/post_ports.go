package domain

import (
	"fmt"

	"github.com/davicafu/makethechange/internal/listing"
	sharedDomain "github.com/davicafu/makethechange/internal/shared/domain"
)

var ErrPostNotFound = fmt.Errorf("blog post %w", sharedDomain.ErrNotFound)

const (
	PostAggregate  = "blog"
	PaginationMode = listing.CursorMode
	PageSize       = 20
)

// --- Repositorio de Posts ---
type PostRepository interface {
	sharedDomain.CatalogRepository[Post]
}
