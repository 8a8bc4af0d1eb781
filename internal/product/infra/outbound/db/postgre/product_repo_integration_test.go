package postgres

import (
	"context"
	"database/sql"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	productDomain "github.com/davicafu/makethechange/internal/product/domain"
	"github.com/davicafu/makethechange/internal/seed"
	sharedDomain "github.com/davicafu/makethechange/internal/shared/domain"
	sharedEvents "github.com/davicafu/makethechange/internal/shared/domain/events"
	sharedPostgres "github.com/davicafu/makethechange/internal/shared/infra/platform/db/postgres"
	sharedQuery "github.com/davicafu/makethechange/internal/shared/infra/platform/query"
)

// setupPostgresTestDB se conecta a Postgres, crea el esquema y limpia las tablas.
func setupPostgresTestDB(t *testing.T) *sql.DB {
	connStr := os.Getenv("DATABASE_URL")
	if connStr == "" {
		t.Skip("DATABASE_URL no está configurada, saltando test de integración con Postgres")
	}

	db, err := sql.Open("pgx", connStr)
	require.NoError(t, err)
	require.NoError(t, db.Ping())
	t.Cleanup(func() { db.Close() })

	require.NoError(t, InitPostgresProductSchema(db))
	// Aislamiento entre tests
	_, err = db.Exec(`TRUNCATE TABLE products, outbox`)
	require.NoError(t, err)
	return db
}

func TestProductRepoPostgres_Integration_ListAndPatch(t *testing.T) {
	db := setupPostgresTestDB(t)
	ctx := context.Background()
	repo := NewProductRepoPostgres(db)

	for _, p := range seed.Products(40) {
		require.NoError(t, repo.Insert(ctx, p))
	}

	criteria := productDomain.ProductCriteria{Category: "miel", Sort: productDomain.DefaultProductSort}
	page, err := repo.List(ctx, criteria, sharedQuery.CursorPagination{Limit: 6}, criteria.SortOrder())
	require.NoError(t, err)
	assert.Equal(t, 10, page.Total)
	assert.Len(t, page.Items, 6)
	require.NotEmpty(t, page.NextCursor)

	rest, err := repo.List(ctx, criteria, sharedQuery.CursorPagination{Limit: 6, Cursor: page.NextCursor}, criteria.SortOrder())
	require.NoError(t, err)
	assert.Len(t, rest.Items, 4)
	assert.Empty(t, rest.NextCursor)

	// Update + outbox en la misma transacción
	now := time.Now().UTC()
	target := page.Items[0]
	patched := productDomain.StockPatch(target.Stock + 5).Apply(target, now)
	evt := sharedDomain.NewOutboxEvent(productDomain.ProductAggregate, target.ID.String(), productDomain.ProductPatched,
		sharedEvents.ItemPatched{ID: target.ID, Aggregate: productDomain.ProductAggregate, Fields: "stock", PatchedAt: now}, now)
	require.NoError(t, repo.Update(ctx, &patched, evt))

	stored, err := repo.GetByID(ctx, target.ID)
	require.NoError(t, err)
	assert.Equal(t, target.Stock+5, stored.Stock)

	pending, err := sharedPostgres.NewOutboxRepoPostgres(db).FetchPendingOutbox(ctx, 10)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, productDomain.ProductPatched, pending[0].EventType)
}
