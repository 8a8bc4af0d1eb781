package memory

import (
	"github.com/google/uuid"

	productDomain "github.com/davicafu/makethechange/internal/product/domain"
	sharedMemory "github.com/davicafu/makethechange/internal/shared/infra/platform/db/memory"
)

// ProductRepoMemory guarda los productos en memoria (modo local y tests).
type ProductRepoMemory = sharedMemory.CatalogRepo[productDomain.Product]

var _ productDomain.ProductRepository = (*ProductRepoMemory)(nil)

func NewProductRepoMemory(seed ...productDomain.Product) *ProductRepoMemory {
	repo := sharedMemory.NewCatalogRepo(
		func(p productDomain.Product) uuid.UUID { return p.ID },
		sharedMemory.Fields[productDomain.Product]{
			"name":         func(p productDomain.Product) interface{} { return p.Name },
			"description":  func(p productDomain.Product) interface{} { return p.Description },
			"category":     func(p productDomain.Product) interface{} { return p.Category },
			"producer":     func(p productDomain.Product) interface{} { return p.Producer },
			"tags":         func(p productDomain.Product) interface{} { return p.Tags },
			"status":       func(p productDomain.Product) interface{} { return string(p.Status) },
			"price_points": func(p productDomain.Product) interface{} { return p.PricePoints },
			"stock":        func(p productDomain.Product) interface{} { return p.Stock },
			"featured":     func(p productDomain.Product) interface{} { return p.Featured },
			"created_at":   func(p productDomain.Product) interface{} { return p.CreatedAt },
		},
		productDomain.ErrProductNotFound,
	)
	repo.Seed(seed...)
	return repo
}
