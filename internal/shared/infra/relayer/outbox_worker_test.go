package relayer

import (
	"context"
	"encoding/json"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	sharedDomain "github.com/davicafu/makethechange/internal/shared/domain"
	sharedDomainEvents "github.com/davicafu/makethechange/internal/shared/domain/events"
	"github.com/davicafu/makethechange/internal/shared/infra/mocks"
	"github.com/davicafu/makethechange/pkg/clock"
)

const productPatched = "product.patched"

func testRegistry() map[string]sharedDomainEvents.EventMetadata {
	return map[string]sharedDomainEvents.EventMetadata{
		productPatched: {
			Type:  reflect.TypeOf(sharedDomainEvents.ItemPatched{}),
			Topic: "product",
		},
	}
}

func patchedOutboxEvent() sharedDomain.OutboxEvent {
	itemID := uuid.New()
	return sharedDomain.OutboxEvent{
		ID:            uuid.New(),
		AggregateType: "product",
		AggregateID:   itemID.String(),
		EventType:     productPatched,
		Payload:       map[string]interface{}{"id": itemID.String(), "aggregate": "product", "fields": "stock"},
		CreatedAt:     time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC),
	}
}

func TestOutboxWorker_ProcessBatch_Success(t *testing.T) {
	// Arrange
	repo := new(mocks.MockOutboxRepository)
	publisher := new(mocks.MockPublisher)
	evt := patchedOutboxEvent()

	var published sharedDomainEvents.IntegrationEvent
	repo.On("FetchPendingOutbox", mock.Anything, 10).Return([]sharedDomain.OutboxEvent{evt}, nil).Once()
	publisher.On("Publish", mock.Anything, mock.AnythingOfType("events.IntegrationEvent")).
		Run(func(args mock.Arguments) { published = args.Get(1).(sharedDomainEvents.IntegrationEvent) }).
		Return(nil).Once()
	repo.On("MarkOutboxProcessed", mock.Anything, evt.ID).Return(nil).Once()

	worker := NewOutboxWorker(repo, publisher, testRegistry(), time.Second, 10, zap.NewNop())

	// Act
	n := worker.ProcessBatch(context.Background())

	// Assert
	assert.Equal(t, 1, n)
	repo.AssertExpectations(t)
	publisher.AssertExpectations(t)

	assert.Equal(t, productPatched, published.Type)
	assert.Equal(t, evt.AggregateID, published.PartitionKey())
	assert.Equal(t, "product", published.RouteTopic())

	var data sharedDomainEvents.ItemPatched
	require.NoError(t, json.Unmarshal(published.Data, &data))
	assert.Equal(t, evt.AggregateID, data.ID.String())
	assert.Equal(t, "stock", data.Fields)
}

func TestOutboxWorker_ProcessBatch_PublisherFails(t *testing.T) {
	// Arrange
	repo := new(mocks.MockOutboxRepository)
	publisher := new(mocks.MockPublisher)

	repo.On("FetchPendingOutbox", mock.Anything, 10).Return([]sharedDomain.OutboxEvent{patchedOutboxEvent()}, nil).Once()
	publisher.On("Publish", mock.Anything, mock.Anything).Return(errors.New("kafka is down")).Once()

	worker := NewOutboxWorker(repo, publisher, testRegistry(), time.Second, 10, zap.NewNop())

	// Act
	n := worker.ProcessBatch(context.Background())

	// Assert: no se marca, se reintenta en el siguiente tick
	assert.Equal(t, 0, n)
	publisher.AssertExpectations(t)
	repo.AssertNotCalled(t, "MarkOutboxProcessed", mock.Anything, mock.Anything)
}

func TestOutboxWorker_ProcessBatch_UnknownEventType(t *testing.T) {
	// Arrange
	repo := new(mocks.MockOutboxRepository)
	publisher := new(mocks.MockPublisher)
	evt := patchedOutboxEvent()
	evt.EventType = "unregistered.event"

	repo.On("FetchPendingOutbox", mock.Anything, 10).Return([]sharedDomain.OutboxEvent{evt}, nil).Once()

	worker := NewOutboxWorker(repo, publisher, testRegistry(), time.Second, 10, zap.NewNop())

	// Act
	worker.ProcessBatch(context.Background())

	// Assert
	repo.AssertExpectations(t)
	publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
	repo.AssertNotCalled(t, "MarkOutboxProcessed", mock.Anything, mock.Anything)
}

func TestOutboxWorker_Start_PollsOnEveryTick(t *testing.T) {
	// Arrange
	repo := new(mocks.MockOutboxRepository)
	publisher := new(mocks.MockPublisher)
	polled := make(chan struct{}, 4)
	repo.On("FetchPendingOutbox", mock.Anything, 5).
		Run(func(mock.Arguments) { polled <- struct{}{} }).
		Return([]sharedDomain.OutboxEvent(nil), nil)

	fake := clock.Fake(time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC))
	worker := NewOutboxWorker(repo, publisher, testRegistry(), time.Second, 5, zap.NewNop()).WithClock(fake)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		worker.Start(ctx)
		close(done)
	}()

	// Act
	require.Eventually(t, func() bool { return fake.Pending() > 0 }, time.Second, time.Millisecond)
	fake.Advance(time.Second)

	// Assert
	select {
	case <-polled:
	case <-time.After(time.Second):
		t.Fatal("el worker no hizo polling tras el tick")
	}
	cancel()
	<-done
	publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
}
