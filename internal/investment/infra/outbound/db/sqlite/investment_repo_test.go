package sqlite

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	investmentDomain "github.com/davicafu/makethechange/internal/investment/domain"
	"github.com/davicafu/makethechange/internal/listing"
	sharedDomain "github.com/davicafu/makethechange/internal/shared/domain"
	sharedSQLite "github.com/davicafu/makethechange/internal/shared/infra/platform/db/sqlite"
	sharedQuery "github.com/davicafu/makethechange/internal/shared/infra/platform/query"
)

func newTestRepo(t *testing.T) (*InvestmentRepoSQLite, *sql.DB) {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, InitSQLiteInvestmentSchema(db))
	return NewInvestmentRepoSQLite(db), db
}

func seed(t *testing.T, repo *InvestmentRepoSQLite, projectA, projectB uuid.UUID) []investmentDomain.Investment {
	t.Helper()
	base := time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC)
	investors := []string{"Ana", "Luis", "Marta", "Ana", "Pedro"}
	out := make([]investmentDomain.Investment, len(investors))
	for i, name := range investors {
		project, title := projectA, "Bosque Asturias"
		if i%2 == 1 {
			project, title = projectB, "Placas Solares Jaén"
		}
		out[i] = investmentDomain.Investment{
			ID:             uuid.New(),
			ProjectID:      project,
			ProjectTitle:   title,
			Investor:       name,
			AmountPoints:   100 * (i + 1),
			ExpectedReturn: 10 * (i + 1),
			Status:         investmentDomain.InvestmentConfirmed,
			CreatedAt:      base.Add(time.Duration(i) * time.Minute),
			UpdatedAt:      base.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, repo.Insert(context.Background(), out[i]))
	}
	return out
}

func TestInvestmentRepoSQLite_ListByProject(t *testing.T) {
	repo, _ := newTestRepo(t)
	projectA, projectB := uuid.New(), uuid.New()
	seeded := seed(t, repo, projectA, projectB)

	criteria, err := investmentDomain.DefaultCriteria().With(listing.FieldProject, projectB.String())
	require.NoError(t, err)
	page, err := repo.List(context.Background(), criteria, sharedQuery.OffsetPagination{Limit: 20}, criteria.SortOrder())

	require.NoError(t, err)
	assert.Equal(t, 2, page.Total)
	require.Len(t, page.Items, 2)
	assert.Equal(t, seeded[3].ID, page.Items[0].ID)
	assert.Equal(t, seeded[1], page.Items[1])
}

func TestInvestmentRepoSQLite_SearchAndSort(t *testing.T) {
	repo, _ := newTestRepo(t)
	seed(t, repo, uuid.New(), uuid.New())

	criteria, err := investmentDomain.DefaultCriteria().With(listing.FieldSearch, "ana")
	require.NoError(t, err)
	criteria, err = criteria.With(listing.FieldSort, "amount_desc")
	require.NoError(t, err)

	page, err := repo.List(context.Background(), criteria, sharedQuery.OffsetPagination{Limit: 1, Offset: 1}, criteria.SortOrder())

	require.NoError(t, err)
	assert.Equal(t, 2, page.Total)
	require.Len(t, page.Items, 1)
	assert.Equal(t, 100, page.Items[0].AmountPoints)
}

func TestInvestmentRepoSQLite_Update(t *testing.T) {
	repo, db := newTestRepo(t)
	seeded := seed(t, repo, uuid.New(), uuid.New())
	now := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)

	updated := investmentDomain.ReturnsPatch(20).Apply(seeded[1], now)
	evt := sharedDomain.NewOutboxEvent(investmentDomain.InvestmentAggregate, updated.ID.String(), investmentDomain.InvestmentPatched, map[string]string{"fields": "returns_received"}, now)
	require.NoError(t, repo.Update(context.Background(), &updated, evt))

	got, err := repo.GetByID(context.Background(), updated.ID)
	require.NoError(t, err)
	assert.Equal(t, investmentDomain.InvestmentClosed, got.Status)
	assert.Equal(t, 20, got.ReturnsReceived)

	pending, err := sharedSQLite.NewOutboxRepoSQLite(db).FetchPendingOutbox(context.Background(), 10)
	require.NoError(t, err)
	assert.Len(t, pending, 1)

	_, err = repo.GetByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, investmentDomain.ErrInvestmentNotFound)
}
