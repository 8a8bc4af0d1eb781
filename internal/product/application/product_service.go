package application

import (
	"go.uber.org/zap"

	productDomain "github.com/davicafu/makethechange/internal/product/domain"
	sharedApp "github.com/davicafu/makethechange/internal/shared/application"
	sharedCache "github.com/davicafu/makethechange/internal/shared/infra/platform/cache"
)

// ProductService son los casos de uso del catálogo de productos.
type ProductService = sharedApp.Catalog[productDomain.Product, productDomain.ProductCriteria, productDomain.ProductPatch]

func NewProductService(repo productDomain.ProductRepository, cache sharedCache.Cache, log *zap.Logger) *ProductService {
	return sharedApp.NewCatalog[productDomain.Product, productDomain.ProductCriteria, productDomain.ProductPatch](
		sharedApp.CatalogConfig[productDomain.Product, productDomain.ProductCriteria]{
			Aggregate: productDomain.ProductAggregate,
			Defaults:  productDomain.DefaultCriteria(),
			Mode:      productDomain.PaginationMode,
			PageSize:  productDomain.PageSize,
		},
		repo, cache, log,
	)
}
