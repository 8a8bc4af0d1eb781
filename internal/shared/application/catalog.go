// Package application tiene el servicio genérico que comparten los catálogos.
package application

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/davicafu/makethechange/internal/listing"
	sharedDomain "github.com/davicafu/makethechange/internal/shared/domain"
	sharedEvents "github.com/davicafu/makethechange/internal/shared/domain/events"
	sharedCache "github.com/davicafu/makethechange/internal/shared/infra/platform/cache"
	sharedQuery "github.com/davicafu/makethechange/internal/shared/infra/platform/query"
	sharedUtils "github.com/davicafu/makethechange/internal/shared/infra/utils"
)

const (
	itemTTL       = 120
	listTTL       = 60
	generationTTL = 24 * 60 * 60
)

// Query son los criterios de una entidad: filtros de la UI que además
// saben traducirse a condiciones neutrales y a un orden.
type Query[F any] interface {
	listing.Criteria[F]
	ToConditions() []sharedDomain.Criterion
	SortOrder() sharedQuery.Sort
}

// Patch es una edición parcial que el servicio sabe validar y aplicar.
type Patch[T any] interface {
	listing.Patch
	Validate() error
	Apply(item T, now time.Time) T
}

// CatalogConfig describe un catálogo concreto.
type CatalogConfig[T any, F Query[F]] struct {
	Aggregate string // "product", "project"...
	Defaults  F
	Mode      listing.PaginationMode
	PageSize  int
}

// Catalog implementa listar, leer y editar para cualquier entidad de
// catálogo, con cache-aside sobre la caché compartida.
//
// Las páginas se cachean bajo una generación; cualquier edición (propia o
// llegada por el bus) cambia la generación y deja huérfanas las páginas viejas.
type Catalog[T any, F Query[F], P Patch[T]] struct {
	cfg   CatalogConfig[T, F]
	repo  sharedDomain.CatalogRepository[T]
	cache sharedCache.Cache
	log   *zap.Logger
	now   func() time.Time
}

func NewCatalog[T any, F Query[F], P Patch[T]](cfg CatalogConfig[T, F], repo sharedDomain.CatalogRepository[T], cache sharedCache.Cache, log *zap.Logger) *Catalog[T, F, P] {
	if log == nil {
		log = zap.NewNop()
	}
	return &Catalog[T, F, P]{
		cfg:   cfg,
		repo:  repo,
		cache: cache,
		log:   log.With(zap.String("aggregate", cfg.Aggregate)),
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// WithNow fija el reloj de los timestamps de edición (tests).
func (s *Catalog[T, F, P]) WithNow(now func() time.Time) *Catalog[T, F, P] {
	s.now = now
	return s
}

func (s *Catalog[T, F, P]) Aggregate() string { return s.cfg.Aggregate }

func (s *Catalog[T, F, P]) Mode() listing.PaginationMode { return s.cfg.Mode }

func (s *Catalog[T, F, P]) Defaults() F { return s.cfg.Defaults }

// Decode construye el descriptor de una petición con los valores por defecto del catálogo.
func (s *Catalog[T, F, P]) Decode(v url.Values) (listing.Descriptor[F], error) {
	return listing.DecodeDescriptor(s.cfg.Defaults, s.cfg.Mode, s.cfg.PageSize, v)
}

// ---------------- Lectura ----------------

// List devuelve la página del descriptor (cache-aside con reintentos).
func (s *Catalog[T, F, P]) List(ctx context.Context, d listing.Descriptor[F]) (sharedQuery.Page[T], error) {
	key := s.listKey(ctx, d)

	if s.cache != nil {
		var cached sharedQuery.Page[T]
		if hit, _ := s.cache.Get(ctx, key, &cached); hit {
			return cached, nil
		}
	}

	var page sharedQuery.Page[T]
	err := sharedUtils.RetryUnless(ctx, 3, 100*time.Millisecond, isPermanent, func() error {
		var errRetry error
		page, errRetry = s.repo.List(ctx, d.Criteria, d.Pagination(), d.Criteria.SortOrder())
		return errRetry
	})
	if err != nil {
		if !errors.Is(err, sharedQuery.ErrInvalidCursor) {
			s.log.Error("Failed to list", zap.String("query", d.Key()), zap.Error(err))
		}
		return sharedQuery.Page[T]{}, err
	}

	sharedCache.AsyncCacheSet(ctx, s.cache, key, page, listTTL, s.log)
	return page, nil
}

// Fetch hace de listing.Fetcher en proceso.
func (s *Catalog[T, F, P]) Fetch(ctx context.Context, d listing.Descriptor[F]) (sharedQuery.Page[T], error) {
	return s.List(ctx, d)
}

// Get obtiene un elemento, usando el patrón cache-aside con reintentos.
func (s *Catalog[T, F, P]) Get(ctx context.Context, id uuid.UUID) (*T, error) {
	if s.cache != nil {
		var it T
		if hit, _ := s.cache.Get(ctx, s.itemKey(id), &it); hit {
			return &it, nil
		}
	}

	var item *T
	err := sharedUtils.RetryUnless(ctx, 3, 100*time.Millisecond, isPermanent, func() error {
		var errRetry error
		item, errRetry = s.repo.GetByID(ctx, id)
		return errRetry
	})
	if err != nil {
		if errors.Is(err, sharedDomain.ErrNotFound) {
			s.log.Warn("Item not found", zap.String("id", id.String()))
		} else {
			s.log.Error("Failed to fetch item", zap.String("id", id.String()), zap.Error(err))
		}
		return nil, err
	}

	sharedCache.AsyncCacheSet(ctx, s.cache, s.itemKey(id), item, itemTTL, s.log)
	return item, nil
}

// ---------------- Escritura ----------------

// Patch valida y aplica patch sobre el elemento id, y guarda la entidad y
// su evento de outbox en la misma operación del repositorio.
func (s *Catalog[T, F, P]) Patch(ctx context.Context, id uuid.UUID, patch P) (*T, error) {
	if err := patch.Validate(); err != nil {
		if !errors.Is(err, sharedDomain.ErrInvalidPatch) {
			err = fmt.Errorf("%w: %v", sharedDomain.ErrInvalidPatch, err)
		}
		return nil, err
	}

	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	now := s.now()
	updated := patch.Apply(*current, now)
	evt := sharedDomain.NewOutboxEvent(
		s.cfg.Aggregate,
		id.String(),
		sharedEvents.PatchedEventType(s.cfg.Aggregate),
		sharedEvents.ItemPatched{ID: id, Aggregate: s.cfg.Aggregate, Fields: patch.Key(), PatchedAt: now},
		now,
	)

	if err := s.repo.Update(ctx, &updated, evt); err != nil {
		s.log.Error("Failed to patch item", zap.String("id", id.String()), zap.String("fields", patch.Key()), zap.Error(err))
		return nil, err
	}

	sharedCache.AsyncCacheSet(ctx, s.cache, s.itemKey(id), updated, itemTTL, s.log)
	s.Invalidate(ctx)

	return &updated, nil
}

// Mutate hace de listing.Mutator en proceso.
func (s *Catalog[T, F, P]) Mutate(ctx context.Context, id string, patch P) (T, error) {
	var zero T
	uid, err := uuid.Parse(id)
	if err != nil {
		return zero, fmt.Errorf("%w: invalid id %q", sharedDomain.ErrInvalidPatch, id)
	}
	item, err := s.Patch(ctx, uid, patch)
	if err != nil {
		return zero, err
	}
	return *item, nil
}

// Invalidate descarta todas las páginas cacheadas del catálogo.
func (s *Catalog[T, F, P]) Invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, s.generationKey(), time.Now().UnixNano(), generationTTL); err != nil {
		s.log.Warn("⚠️ Cache invalidation failed", zap.Error(err))
	}
}

// Forget borra de la caché un elemento concreto.
func (s *Catalog[T, F, P]) Forget(ctx context.Context, id uuid.UUID) {
	sharedCache.AsyncCacheDelete(ctx, s.cache, s.itemKey(id), s.log)
}

// ---------------- Claves de caché ----------------

func (s *Catalog[T, F, P]) itemKey(id uuid.UUID) string {
	return fmt.Sprintf("%s:id:%s", s.cfg.Aggregate, id)
}

func (s *Catalog[T, F, P]) generationKey() string {
	return s.cfg.Aggregate + ":list:gen"
}

func (s *Catalog[T, F, P]) listKey(ctx context.Context, d listing.Descriptor[F]) string {
	var gen int64
	if s.cache != nil {
		if hit, _ := s.cache.Get(ctx, s.generationKey(), &gen); !hit {
			gen = 0
		}
	}
	return fmt.Sprintf("%s:list:g%d:%s", s.cfg.Aggregate, gen, d.Key())
}

// Los errores de dominio no mejoran reintentando.
func isPermanent(err error) bool {
	return errors.Is(err, sharedDomain.ErrNotFound) ||
		errors.Is(err, sharedQuery.ErrInvalidCursor) ||
		errors.Is(err, context.Canceled)
}
