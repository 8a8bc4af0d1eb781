package clickhouse

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"

	sharedDomain "github.com/davicafu/makethechange/internal/shared/domain"
	sharedEvents "github.com/davicafu/makethechange/internal/shared/domain/events"
)

// MutationAnalyticsRepo implementa MutationAnalyticsRepository para ClickHouse.
type MutationAnalyticsRepo struct {
	db  *sql.DB
	now func() time.Time
}

var _ sharedDomain.MutationAnalyticsRepository = (*MutationAnalyticsRepo)(nil)

// NewMutationAnalyticsRepo abre la conexión y comprueba que responde.
func NewMutationAnalyticsRepo(addr string, dbName string) (*MutationAnalyticsRepo, error) {
	conn := clickhouse.OpenDB(&clickhouse.Options{
		Addr: []string{addr},
		Auth: clickhouse.Auth{
			Database: dbName,
		},
		Settings: clickhouse.Settings{
			"max_execution_time": 60,
		},
	})

	if err := conn.Ping(); err != nil {
		return nil, fmt.Errorf("could not ping clickhouse: %w", err)
	}

	return NewMutationAnalyticsRepoFromDB(conn), nil
}

// NewMutationAnalyticsRepoFromDB usa una conexión ya abierta.
func NewMutationAnalyticsRepoFromDB(db *sql.DB) *MutationAnalyticsRepo {
	return &MutationAnalyticsRepo{db: db, now: time.Now}
}

// LogBatch inserta un lote de ediciones. ClickHouse funciona mejor con lotes.
func (r *MutationAnalyticsRepo) LogBatch(ctx context.Context, events []sharedEvents.ItemPatched) error {
	if len(events) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx, "INSERT INTO catalog_mutations_log (id, aggregate, fields, patched_at, event_time)")
	if err != nil {
		tx.Rollback()
		return err
	}
	defer stmt.Close()

	eventTime := r.now().UTC()
	for _, evt := range events {
		if _, err := stmt.ExecContext(ctx, evt.ID, evt.Aggregate, evt.Fields, evt.PatchedAt, eventTime); err != nil {
			// un registro roto tumba el lote entero
			tx.Rollback()
			return fmt.Errorf("failed to exec statement for %s %s: %w", evt.Aggregate, evt.ID, err)
		}
	}

	return tx.Commit()
}

func (r *MutationAnalyticsRepo) GetDailyMutations(ctx context.Context, start, end time.Time) ([]sharedDomain.DailyMutations, error) {
	query := `
		SELECT
			toStartOfDay(patched_at) AS day,
			aggregate,
			count() AS mutations
		FROM catalog_mutations_log
		WHERE patched_at BETWEEN ? AND ?
		GROUP BY day, aggregate
		ORDER BY day, aggregate
	`
	rows, err := r.db.QueryContext(ctx, query, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []sharedDomain.DailyMutations
	for rows.Next() {
		var d sharedDomain.DailyMutations
		if err := rows.Scan(&d.Day, &d.Aggregate, &d.Count); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// InitSchema crea la tabla si no existe. Particionada por mes.
func (r *MutationAnalyticsRepo) InitSchema(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS catalog_mutations_log (
			id          UUID,
			aggregate   LowCardinality(String),
			fields      String,
			patched_at  DateTime64(3),
			event_time  DateTime64(3)
		) ENGINE = MergeTree()
		PARTITION BY toYYYYMM(patched_at)
		ORDER BY (aggregate, patched_at);
	`
	_, err := r.db.ExecContext(ctx, query)
	return err
}
