package domain

import (
	"fmt"

	"github.com/davicafu/makethechange/internal/listing"
	sharedDomain "github.com/davicafu/makethechange/internal/shared/domain"
)

var ErrInvestmentNotFound = fmt.Errorf("investment %w", sharedDomain.ErrNotFound)

const (
	InvestmentAggregate = "investment"
	PaginationMode      = listing.PageMode
	PageSize            = 20
)

// --- Repositorio de Investments ---
type InvestmentRepository interface {
	sharedDomain.CatalogRepository[Investment]
}
