package domain

import (
	"fmt"

	"github.com/davicafu/makethechange/internal/listing"
	sharedDomain "github.com/davicafu/makethechange/internal/shared/domain"
)

var ErrProjectNotFound = fmt.Errorf("project %w", sharedDomain.ErrNotFound)

const (
	ProjectAggregate = "project"
	PaginationMode   = listing.PageMode
	PageSize         = 18
)

// --- Repositorio de Projects ---
type ProjectRepository interface {
	sharedDomain.CatalogRepository[Project]
}
