package application

import (
	"go.uber.org/zap"

	investmentDomain "github.com/davicafu/makethechange/internal/investment/domain"
	sharedApp "github.com/davicafu/makethechange/internal/shared/application"
	sharedCache "github.com/davicafu/makethechange/internal/shared/infra/platform/cache"
)

// InvestmentService son los casos de uso del listado de inversiones.
type InvestmentService = sharedApp.Catalog[investmentDomain.Investment, investmentDomain.InvestmentCriteria, investmentDomain.InvestmentPatch]

func NewInvestmentService(repo investmentDomain.InvestmentRepository, cache sharedCache.Cache, log *zap.Logger) *InvestmentService {
	return sharedApp.NewCatalog[investmentDomain.Investment, investmentDomain.InvestmentCriteria, investmentDomain.InvestmentPatch](
		sharedApp.CatalogConfig[investmentDomain.Investment, investmentDomain.InvestmentCriteria]{
			Aggregate: investmentDomain.InvestmentAggregate,
			Defaults:  investmentDomain.DefaultCriteria(),
			Mode:      investmentDomain.PaginationMode,
			PageSize:  investmentDomain.PageSize,
		},
		repo, cache, log,
	)
}
