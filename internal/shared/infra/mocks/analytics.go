package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	sharedDomain "github.com/davicafu/makethechange/internal/shared/domain"
	sharedEvents "github.com/davicafu/makethechange/internal/shared/domain/events"
)

// MockMutationAnalytics simula el repositorio de analítica de ediciones.
type MockMutationAnalytics struct {
	mock.Mock
}

var _ sharedDomain.MutationAnalyticsRepository = (*MockMutationAnalytics)(nil)

func (m *MockMutationAnalytics) LogBatch(ctx context.Context, events []sharedEvents.ItemPatched) error {
	args := m.Called(ctx, events)
	return args.Error(0)
}

func (m *MockMutationAnalytics) GetDailyMutations(ctx context.Context, start, end time.Time) ([]sharedDomain.DailyMutations, error) {
	args := m.Called(ctx, start, end)
	rows, _ := args.Get(0).([]sharedDomain.DailyMutations)
	return rows, args.Error(1)
}
