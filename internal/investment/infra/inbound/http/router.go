package http

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	investmentApp "github.com/davicafu/makethechange/internal/investment/application"
	investmentDomain "github.com/davicafu/makethechange/internal/investment/domain"
	sharedHTTP "github.com/davicafu/makethechange/internal/shared/infra/inbound/http"
)

// InvestmentHandler encapsula los endpoints HTTP del listado de inversiones.
type InvestmentHandler = sharedHTTP.CatalogHandler[investmentDomain.Investment, investmentDomain.InvestmentCriteria, investmentDomain.InvestmentPatch]

func NewInvestmentHandler(service *investmentApp.InvestmentService, log *zap.Logger) *InvestmentHandler {
	return sharedHTTP.NewCatalogHandler[investmentDomain.Investment, investmentDomain.InvestmentCriteria, investmentDomain.InvestmentPatch](service, log)
}

// RegisterInvestmentRoutes registra las rutas HTTP bajo "/investments".
func RegisterInvestmentRoutes(r *gin.RouterGroup, handler *InvestmentHandler, mutations ...gin.HandlerFunc) {
	sharedHTTP.RegisterCatalogRoutes(r, "/investments", handler, mutations...)
}
