package events

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	sharedDomain "github.com/davicafu/makethechange/internal/shared/domain"
	sharedEvents "github.com/davicafu/makethechange/internal/shared/domain/events"
	sharedUtils "github.com/davicafu/makethechange/internal/shared/infra/utils"
)

const DefaultAnalyticsBatch = 50

// CatalogCache es lo que el consumidor necesita de cada servicio de catálogo.
type CatalogCache interface {
	Invalidate(ctx context.Context)
	Forget(ctx context.Context, id uuid.UUID)
}

// CatalogConsumer procesa los eventos "<agregado>.patched": descarta la
// caché del catálogo afectado (la edición pudo venir de otra instancia) y
// acumula las ediciones para la analítica.
type CatalogConsumer struct {
	catalogs  map[string]CatalogCache
	analytics sharedDomain.MutationAnalyticsRepository
	batchSize int
	log       *zap.Logger

	mu      sync.Mutex
	pending []sharedEvents.ItemPatched
}

// NewCatalogConsumer crea el consumidor. analytics puede ser nil.
func NewCatalogConsumer(catalogs map[string]CatalogCache, analytics sharedDomain.MutationAnalyticsRepository, batchSize int, logger *zap.Logger) *CatalogConsumer {
	if batchSize <= 0 {
		batchSize = DefaultAnalyticsBatch
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CatalogConsumer{
		catalogs:  catalogs,
		analytics: analytics,
		batchSize: batchSize,
		log:       logger,
	}
}

// HandleMessage es el punto de entrada para un nuevo mensaje/evento.
func (c *CatalogConsumer) HandleMessage(ctx context.Context, key string, payload []byte) {
	var base sharedEvents.IntegrationEvent
	if err := json.Unmarshal(payload, &base); err != nil {
		c.log.Warn("Failed to unmarshal integration event", zap.String("key", key), zap.Error(err))
		return
	}

	aggregate, ok := strings.CutSuffix(base.Type, ".patched")
	if !ok {
		c.log.Debug("Ignoring event type", zap.String("type", base.Type), zap.String("key", key))
		return
	}
	catalog, ok := c.catalogs[aggregate]
	if !ok {
		c.log.Warn("Unknown catalog in event", zap.String("type", base.Type), zap.String("key", key))
		return
	}

	evt, err := sharedUtils.DecodeData[sharedEvents.ItemPatched](base.Data)
	if err != nil {
		c.log.Warn("Failed to unmarshal event data", zap.String("type", base.Type), zap.Error(err))
		return
	}

	catalog.Invalidate(ctx)
	catalog.Forget(ctx, evt.ID)
	c.log.Info("Catalog cache invalidated via event",
		zap.String("aggregate", aggregate),
		zap.String("id", evt.ID.String()),
		zap.String("fields", evt.Fields))

	c.record(ctx, evt)
}

// Flush envía a analítica lo acumulado.
func (c *CatalogConsumer) Flush(ctx context.Context) {
	c.mu.Lock()
	batch := c.pending
	c.pending = nil
	c.mu.Unlock()

	if len(batch) == 0 || c.analytics == nil {
		return
	}

	ctxFlush, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
	defer cancel()
	if err := c.analytics.LogBatch(ctxFlush, batch); err != nil {
		c.log.Warn("⚠️ Failed to log mutation batch", zap.Int("size", len(batch)), zap.Error(err))
		return
	}
	c.log.Debug("Mutation batch logged", zap.Int("size", len(batch)))
}

// StartFlusher vacía el lote cada interval hasta que ctx se cancela.
func (c *CatalogConsumer) StartFlusher(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				c.Flush(ctx)
				return
			case <-ticker.C:
				c.Flush(ctx)
			}
		}
	}()
}

func (c *CatalogConsumer) record(ctx context.Context, evt sharedEvents.ItemPatched) {
	if c.analytics == nil {
		return
	}
	c.mu.Lock()
	c.pending = append(c.pending, evt)
	full := len(c.pending) >= c.batchSize
	c.mu.Unlock()

	if full {
		c.Flush(ctx)
	}
}
