package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/davicafu/makethechange/internal/shared/application"
)

// RegisterCatalogRoutes registra las rutas de un catálogo bajo path.
// mutations se ejecuta solo antes de los PATCH (p.ej. el rate limit).
func RegisterCatalogRoutes[T any, F application.Query[F], P application.Patch[T]](r *gin.RouterGroup, path string, handler *CatalogHandler[T, F, P], mutations ...gin.HandlerFunc) {
	catalog := r.Group(path)
	{
		catalog.GET("", handler.List)    // Listar con filtros y paginación
		catalog.GET("/:id", handler.Get) // Obtener por ID
		catalog.PATCH("/:id", append(mutations, handler.Patch)...)
	}
}

// RegisterHealthRoutes expone /health para los balanceadores.
func RegisterHealthRoutes(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}
