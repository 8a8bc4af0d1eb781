package relayer

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"time"

	"go.uber.org/zap"

	sharedDomain "github.com/davicafu/makethechange/internal/shared/domain"
	sharedDomainEvents "github.com/davicafu/makethechange/internal/shared/domain/events"
	sharedBus "github.com/davicafu/makethechange/internal/shared/infra/platform/bus"
	"github.com/davicafu/makethechange/pkg/clock"
)

// Worker saca los eventos pendientes del outbox, los envuelve en un
// IntegrationEvent y los publica. Solo marca como procesado lo publicado.
type Worker struct {
	repo          sharedDomain.OutboxRepository
	publisher     sharedBus.EventBus
	eventRegistry map[string]sharedDomainEvents.EventMetadata
	interval      time.Duration
	batchSize     int
	clock         clock.Clock
	log           *zap.Logger
}

func NewOutboxWorker(
	repo sharedDomain.OutboxRepository,
	publisher sharedBus.EventBus,
	registry map[string]sharedDomainEvents.EventMetadata,
	interval time.Duration,
	batchSize int,
	log *zap.Logger,
) *Worker {
	return &Worker{
		repo:          repo,
		publisher:     publisher,
		eventRegistry: registry,
		interval:      interval,
		batchSize:     batchSize,
		clock:         clock.Real(),
		log:           log,
	}
}

// WithClock cambia el reloj del ticker (tests).
func (w *Worker) WithClock(c clock.Clock) *Worker {
	w.clock = c
	return w
}

// Start ejecuta el bucle de polling hasta que ctx se cancela. Bloquea.
func (w *Worker) Start(ctx context.Context) {
	ticker := w.clock.NewTicker(w.interval)
	defer ticker.Stop()

	w.log.Info("🚀 Outbox worker iniciado", zap.Duration("interval", w.interval))

	for {
		select {
		case <-ctx.Done():
			w.log.Info("🛑 Outbox worker detenido.")
			return
		case <-ticker.C:
			w.ProcessBatch(ctx)
		}
	}
}

// ProcessBatch publica un lote y devuelve cuántos eventos quedaron marcados.
func (w *Worker) ProcessBatch(ctx context.Context) int {
	events, err := w.repo.FetchPendingOutbox(ctx, w.batchSize)
	if err != nil {
		w.log.Warn("⚠️ Error al obtener eventos pendientes", zap.Error(err))
		return 0
	}
	if len(events) > 0 {
		w.log.Debug(fmt.Sprintf("📬 %d eventos encontrados para procesar", len(events)))
	}

	published := 0
	for _, evt := range events {
		if w.publishAndMark(ctx, evt) {
			published++
		}
	}
	return published
}

func (w *Worker) publishAndMark(ctx context.Context, evt sharedDomain.OutboxEvent) bool {
	integration, err := w.toIntegrationEvent(evt)
	if err != nil {
		w.log.Error("Evento de outbox no publicable",
			zap.String("event_id", evt.ID.String()),
			zap.String("event_type", evt.EventType),
			zap.Error(err),
		)
		return false
	}

	if err := w.publisher.Publish(ctx, integration); err != nil {
		w.log.Warn("⚠️ No se pudo publicar evento",
			zap.String("event_id", evt.ID.String()),
			zap.Error(err),
		)
		return false // se reintenta en el siguiente tick
	}

	if err := w.repo.MarkOutboxProcessed(ctx, evt.ID); err != nil {
		w.log.Warn("⚠️ No se pudo marcar evento como procesado",
			zap.String("event_id", evt.ID.String()),
			zap.Error(err),
		)
		return false
	}

	w.log.Info("✅ Evento publicado y marcado",
		zap.String("event_id", evt.ID.String()),
		zap.String("event_type", evt.EventType),
	)
	return true
}

// toIntegrationEvent valida el payload contra el tipo registrado y lo envuelve.
func (w *Worker) toIntegrationEvent(evt sharedDomain.OutboxEvent) (sharedDomainEvents.IntegrationEvent, error) {
	metadata, ok := w.eventRegistry[evt.EventType]
	if !ok {
		return sharedDomainEvents.IntegrationEvent{}, fmt.Errorf("unknown event type %q", evt.EventType)
	}

	raw, err := json.Marshal(evt.Payload)
	if err != nil {
		return sharedDomainEvents.IntegrationEvent{}, fmt.Errorf("encoding payload: %w", err)
	}
	typed := reflect.New(metadata.Type).Interface()
	if err := json.Unmarshal(raw, typed); err != nil {
		return sharedDomainEvents.IntegrationEvent{}, fmt.Errorf("decoding payload as %s: %w", metadata.Type, err)
	}
	data, err := json.Marshal(typed)
	if err != nil {
		return sharedDomainEvents.IntegrationEvent{}, err
	}

	return sharedDomainEvents.IntegrationEvent{
		Type:      evt.EventType,
		Key:       evt.AggregateID,
		Timestamp: evt.CreatedAt,
		Data:      data,
		Topic:     metadata.Topic,
	}, nil
}
