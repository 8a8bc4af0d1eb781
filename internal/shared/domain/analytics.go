package domain

import (
	"context"
	"time"

	sharedEvents "github.com/davicafu/makethechange/internal/shared/domain/events"
)

// DailyMutations cuenta las ediciones confirmadas de un agregado en un día.
type DailyMutations struct {
	Day       time.Time
	Aggregate string
	Count     int
}

// MutationAnalyticsRepository guarda el histórico de ediciones de catálogo.
type MutationAnalyticsRepository interface {
	LogBatch(ctx context.Context, events []sharedEvents.ItemPatched) error
	GetDailyMutations(ctx context.Context, start, end time.Time) ([]DailyMutations, error)
}
