package domain

import (
	"fmt"

	"github.com/davicafu/makethechange/internal/listing"
	sharedDomain "github.com/davicafu/makethechange/internal/shared/domain"
)

var ErrProductNotFound = fmt.Errorf("product %w", sharedDomain.ErrNotFound)

const (
	ProductAggregate = "product"
	// El catálogo de la tienda pagina por cursor ("ver más").
	PaginationMode = listing.CursorMode
	PageSize       = 18
)

// --- Repositorio de Products ---
type ProductRepository interface {
	sharedDomain.CatalogRepository[Product]
}
