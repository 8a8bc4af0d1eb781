package http

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/davicafu/makethechange/internal/listing"
	"github.com/davicafu/makethechange/internal/shared/application"
	sharedDomain "github.com/davicafu/makethechange/internal/shared/domain"
	sharedQuery "github.com/davicafu/makethechange/internal/shared/infra/platform/query"
	"github.com/davicafu/makethechange/pkg/utils"
)

// CatalogService es lo que necesita el handler de un catálogo.
type CatalogService[T any, F application.Query[F], P application.Patch[T]] interface {
	Aggregate() string
	Decode(v url.Values) (listing.Descriptor[F], error)
	List(ctx context.Context, d listing.Descriptor[F]) (sharedQuery.Page[T], error)
	Get(ctx context.Context, id uuid.UUID) (*T, error)
	Patch(ctx context.Context, id uuid.UUID, patch P) (*T, error)
}

// CatalogHandler encapsula los endpoints HTTP de un catálogo.
type CatalogHandler[T any, F application.Query[F], P application.Patch[T]] struct {
	service CatalogService[T, F, P]
	log     *zap.Logger
}

func NewCatalogHandler[T any, F application.Query[F], P application.Patch[T]](service CatalogService[T, F, P], log *zap.Logger) *CatalogHandler[T, F, P] {
	if log == nil {
		log = zap.NewNop()
	}
	return &CatalogHandler[T, F, P]{service: service, log: log}
}

// List endpoint GET /<catalogo>?search=...&status=...&cursor=...|page=...
func (h *CatalogHandler[T, F, P]) List(c *gin.Context) {
	d, err := h.service.Decode(c.Request.URL.Query())
	if err != nil {
		utils.SendBadRequest(c, err.Error())
		return
	}

	page, err := h.service.List(c.Request.Context(), d)
	if err != nil {
		if errors.Is(err, sharedQuery.ErrInvalidCursor) {
			utils.SendBadRequest(c, err.Error())
			return
		}
		utils.SendInternalServerError(c, "failed to list "+h.service.Aggregate())
		return
	}

	utils.SendSuccess(c, http.StatusOK, page)
}

// Get endpoint GET /<catalogo>/:id
func (h *CatalogHandler[T, F, P]) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.SendBadRequest(c, "invalid "+h.service.Aggregate()+" id")
		return
	}

	item, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		h.sendError(c, err)
		return
	}

	utils.SendSuccess(c, http.StatusOK, item)
}

// Patch endpoint PATCH /<catalogo>/:id. Solo los campos presentes se tocan.
func (h *CatalogHandler[T, F, P]) Patch(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.SendBadRequest(c, "invalid "+h.service.Aggregate()+" id")
		return
	}

	var patch P
	if err := c.ShouldBindJSON(&patch); err != nil {
		utils.SendBadRequest(c, err.Error())
		return
	}

	item, err := h.service.Patch(c.Request.Context(), id, patch)
	if err != nil {
		h.sendError(c, err)
		return
	}

	h.log.Info("✏️ Item patched",
		zap.String("aggregate", h.service.Aggregate()),
		zap.String("id", id.String()),
		zap.String("fields", patch.Key()))
	utils.SendSuccess(c, http.StatusOK, item)
}

func (h *CatalogHandler[T, F, P]) sendError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, sharedDomain.ErrNotFound):
		utils.SendNotFound(c, h.service.Aggregate()+" not found")
	case errors.Is(err, sharedDomain.ErrInvalidPatch):
		utils.SendBadRequest(c, err.Error())
	default:
		utils.SendInternalServerError(c, err.Error())
	}
}
