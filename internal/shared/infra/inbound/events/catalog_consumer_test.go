package events

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	sharedEvents "github.com/davicafu/makethechange/internal/shared/domain/events"
	infraEvents "github.com/davicafu/makethechange/internal/shared/infra/events"
	"github.com/davicafu/makethechange/internal/shared/infra/mocks"
)

type fakeCatalog struct {
	mu          sync.Mutex
	invalidated int
	forgotten   []uuid.UUID
}

func (f *fakeCatalog) Invalidate(ctx context.Context) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.invalidated++
}

func (f *fakeCatalog) Forget(ctx context.Context, id uuid.UUID) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.forgotten = append(f.forgotten, id)
}

func (f *fakeCatalog) Invalidations() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.invalidated
}

func patchedMessage(t *testing.T, evt sharedEvents.ItemPatched) []byte {
	t.Helper()
	data, err := json.Marshal(evt)
	require.NoError(t, err)
	msg, err := json.Marshal(sharedEvents.IntegrationEvent{
		Type:      sharedEvents.PatchedEventType(evt.Aggregate),
		Key:       evt.ID.String(),
		Timestamp: evt.PatchedAt,
		Data:      data,
	})
	require.NoError(t, err)
	return msg
}

func TestCatalogConsumer_InvalidatesAndBatches(t *testing.T) {
	products := &fakeCatalog{}
	analytics := &mocks.MockMutationAnalytics{}
	consumer := NewCatalogConsumer(map[string]CatalogCache{"product": products}, analytics, 2, zap.NewNop())

	first := sharedEvents.ItemPatched{ID: uuid.New(), Aggregate: "product", Fields: "stock", PatchedAt: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)}
	second := sharedEvents.ItemPatched{ID: uuid.New(), Aggregate: "product", Fields: "featured", PatchedAt: first.PatchedAt}
	analytics.On("LogBatch", mock.Anything, []sharedEvents.ItemPatched{first, second}).Return(nil).Once()

	ctx := context.Background()
	consumer.HandleMessage(ctx, first.ID.String(), patchedMessage(t, first))
	analytics.AssertNotCalled(t, "LogBatch", mock.Anything, mock.Anything)

	consumer.HandleMessage(ctx, second.ID.String(), patchedMessage(t, second))

	assert.Equal(t, 2, products.Invalidations())
	assert.Equal(t, []uuid.UUID{first.ID, second.ID}, products.forgotten)
	analytics.AssertExpectations(t)
}

func TestCatalogConsumer_IgnoresOtherEvents(t *testing.T) {
	products := &fakeCatalog{}
	consumer := NewCatalogConsumer(map[string]CatalogCache{"product": products}, nil, 0, zap.NewNop())
	ctx := context.Background()

	consumer.HandleMessage(ctx, "", []byte("not json"))
	consumer.HandleMessage(ctx, "", []byte(`{"type":"product.deleted","data":{}}`))
	consumer.HandleMessage(ctx, "", patchedMessage(t, sharedEvents.ItemPatched{ID: uuid.New(), Aggregate: "blog"}))
	consumer.HandleMessage(ctx, "", []byte(`{"type":"product.patched","data":"oops"}`))

	assert.Equal(t, 0, products.Invalidations())
	consumer.Flush(ctx) // sin analítica no hace nada
}

func TestCatalogConsumer_NilLoggerIsQuiet(t *testing.T) {
	products := &fakeCatalog{}
	consumer := NewCatalogConsumer(map[string]CatalogCache{"product": products}, nil, 0, nil)
	ctx := context.Background()

	assert.NotPanics(t, func() {
		consumer.HandleMessage(ctx, "", []byte("not json"))
		consumer.HandleMessage(ctx, "", patchedMessage(t, sharedEvents.ItemPatched{ID: uuid.New(), Aggregate: "product", Fields: "stock"}))
	})
	assert.Equal(t, 1, products.Invalidations())
}

func TestCatalogConsumer_OverInMemoryBus(t *testing.T) {
	projects := &fakeCatalog{}
	consumer := NewCatalogConsumer(map[string]CatalogCache{"project": projects}, nil, 0, zap.NewNop())
	bus := infraEvents.NewInMemoryEventBus("catalog")
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	infraEvents.Consume(ctx, bus.Subscribe(8), consumer)

	evt := sharedEvents.ItemPatched{ID: uuid.New(), Aggregate: "project", Fields: "status"}
	data, _ := json.Marshal(evt)
	require.NoError(t, bus.Publish(ctx, sharedEvents.IntegrationEvent{Type: "project.patched", Data: data}))

	assert.Eventually(t, func() bool { return projects.Invalidations() == 1 }, time.Second, 5*time.Millisecond)
}
