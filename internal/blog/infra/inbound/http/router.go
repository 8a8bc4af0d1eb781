package http

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	blogApp "github.com/davicafu/makethechange/internal/blog/application"
	blogDomain "github.com/davicafu/makethechange/internal/blog/domain"
	sharedHTTP "github.com/davicafu/makethechange/internal/shared/infra/inbound/http"
)

// PostHandler encapsula los endpoints HTTP del blog.
type PostHandler = sharedHTTP.CatalogHandler[blogDomain.Post, blogDomain.PostCriteria, blogDomain.PostPatch]

func NewPostHandler(service *blogApp.PostService, log *zap.Logger) *PostHandler {
	return sharedHTTP.NewCatalogHandler[blogDomain.Post, blogDomain.PostCriteria, blogDomain.PostPatch](service, log)
}

// RegisterPostRoutes registra las rutas HTTP bajo "/blog".
func RegisterPostRoutes(r *gin.RouterGroup, handler *PostHandler, mutations ...gin.HandlerFunc) {
	sharedHTTP.RegisterCatalogRoutes(r, "/blog", handler, mutations...)
}
