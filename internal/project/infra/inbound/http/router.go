package http

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	projectApp "github.com/davicafu/makethechange/internal/project/application"
	projectDomain "github.com/davicafu/makethechange/internal/project/domain"
	sharedHTTP "github.com/davicafu/makethechange/internal/shared/infra/inbound/http"
)

// ProjectHandler encapsula los endpoints HTTP del listado de proyectos.
type ProjectHandler = sharedHTTP.CatalogHandler[projectDomain.Project, projectDomain.ProjectCriteria, projectDomain.ProjectPatch]

func NewProjectHandler(service *projectApp.ProjectService, log *zap.Logger) *ProjectHandler {
	return sharedHTTP.NewCatalogHandler[projectDomain.Project, projectDomain.ProjectCriteria, projectDomain.ProjectPatch](service, log)
}

// RegisterProjectRoutes registra las rutas HTTP bajo "/projects".
func RegisterProjectRoutes(r *gin.RouterGroup, handler *ProjectHandler, mutations ...gin.HandlerFunc) {
	sharedHTTP.RegisterCatalogRoutes(r, "/projects", handler, mutations...)
}
