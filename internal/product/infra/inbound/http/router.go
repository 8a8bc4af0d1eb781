package http

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	productApp "github.com/davicafu/makethechange/internal/product/application"
	productDomain "github.com/davicafu/makethechange/internal/product/domain"
	sharedHTTP "github.com/davicafu/makethechange/internal/shared/infra/inbound/http"
)

// ProductHandler encapsula los endpoints HTTP del catálogo de productos.
type ProductHandler = sharedHTTP.CatalogHandler[productDomain.Product, productDomain.ProductCriteria, productDomain.ProductPatch]

func NewProductHandler(service *productApp.ProductService, log *zap.Logger) *ProductHandler {
	return sharedHTTP.NewCatalogHandler[productDomain.Product, productDomain.ProductCriteria, productDomain.ProductPatch](service, log)
}

// RegisterProductRoutes registra las rutas HTTP bajo "/products".
func RegisterProductRoutes(r *gin.RouterGroup, handler *ProductHandler, mutations ...gin.HandlerFunc) {
	sharedHTTP.RegisterCatalogRoutes(r, "/products", handler, mutations...)
}
