package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	investmentDomain "github.com/davicafu/makethechange/internal/investment/domain"
	sharedDomain "github.com/davicafu/makethechange/internal/shared/domain"
	sharedSQLite "github.com/davicafu/makethechange/internal/shared/infra/platform/db/sqlite"
	"github.com/davicafu/makethechange/internal/shared/infra/platform/db/sqlquery"
	sharedQuery "github.com/davicafu/makethechange/internal/shared/infra/platform/query"
)

const investmentColumns = "id, project_id, project_title, investor, amount_points, expected_return, returns_received, status, created_at, updated_at"

// InvestmentRepoSQLite implementa InvestmentRepository sobre SQLite.
type InvestmentRepoSQLite struct {
	db *sql.DB
}

var _ investmentDomain.InvestmentRepository = (*InvestmentRepoSQLite)(nil)

func NewInvestmentRepoSQLite(db *sql.DB) *InvestmentRepoSQLite {
	return &InvestmentRepoSQLite{db: db}
}

// ------------------ Escritura + Outbox ------------------

func (r *InvestmentRepoSQLite) Update(ctx context.Context, inv *investmentDomain.Investment, evt sharedDomain.OutboxEvent) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin tx: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`UPDATE investments SET status=?, returns_received=?, updated_at=? WHERE id=?`,
		string(inv.Status), inv.ReturnsReceived, sqlquery.Timestamp(inv.UpdatedAt), inv.ID.String(),
	)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return investmentDomain.ErrInvestmentNotFound
	}

	if err := sharedSQLite.InsertOutboxTx(ctx, tx, evt); err != nil {
		return err
	}
	return tx.Commit()
}

// Insert carga una inversión sin evento (seed).
func (r *InvestmentRepoSQLite) Insert(ctx context.Context, inv investmentDomain.Investment) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO investments (`+investmentColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		inv.ID.String(), inv.ProjectID.String(), inv.ProjectTitle, inv.Investor, inv.AmountPoints,
		inv.ExpectedReturn, inv.ReturnsReceived, string(inv.Status),
		sqlquery.Timestamp(inv.CreatedAt), sqlquery.Timestamp(inv.UpdatedAt),
	)
	return err
}

// ------------------ Lectura ------------------

func (r *InvestmentRepoSQLite) GetByID(ctx context.Context, id uuid.UUID) (*investmentDomain.Investment, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+investmentColumns+` FROM investments WHERE id = ?`, id.String())
	inv, err := scanInvestment(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, investmentDomain.ErrInvestmentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("db scan error: %w", err)
	}
	return inv, nil
}

func (r *InvestmentRepoSQLite) List(ctx context.Context, criteria sharedDomain.Criteria, pagination sharedQuery.Pagination, sort sharedQuery.Sort) (sharedQuery.Page[investmentDomain.Investment], error) {
	var empty sharedQuery.Page[investmentDomain.Investment]
	b := sqlquery.New(sqlquery.SQLite).Where(sharedDomain.Conditions(criteria))

	countSQL, countArgs := b.Count("investments")
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return empty, fmt.Errorf("count investments: %w", err)
	}

	query, args, limit, err := b.List("SELECT "+investmentColumns+" FROM investments", pagination, sort, investmentDomain.PageSize)
	if err != nil {
		return empty, err
	}
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return empty, err
	}
	defer rows.Close()

	items := []investmentDomain.Investment{}
	for rows.Next() {
		inv, err := scanInvestment(rows)
		if err != nil {
			return empty, err
		}
		items = append(items, *inv)
	}
	if err := rows.Err(); err != nil {
		return empty, err
	}

	if _, ok := pagination.(sharedQuery.CursorPagination); ok {
		return sharedQuery.CursorPage(items, total, limit, func(inv investmentDomain.Investment) string {
			return sharedQuery.EncodeCursor(cursorValue(inv, sort.Field), inv.ID.String())
		}), nil
	}
	return sharedQuery.Page[investmentDomain.Investment]{Items: items, Total: total}, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanInvestment(s scanner) (*investmentDomain.Investment, error) {
	var inv investmentDomain.Investment
	var id, projectID, status, createdAt, updatedAt string
	if err := s.Scan(&id, &projectID, &inv.ProjectTitle, &inv.Investor, &inv.AmountPoints,
		&inv.ExpectedReturn, &inv.ReturnsReceived, &status, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	var err error
	if inv.ID, err = uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("invalid investment id %q: %w", id, err)
	}
	if inv.ProjectID, err = uuid.Parse(projectID); err != nil {
		return nil, fmt.Errorf("invalid project id %q: %w", projectID, err)
	}
	if inv.CreatedAt, err = sqlquery.ParseTimestamp(createdAt); err != nil {
		return nil, err
	}
	if inv.UpdatedAt, err = sqlquery.ParseTimestamp(updatedAt); err != nil {
		return nil, err
	}
	inv.Status = investmentDomain.InvestmentStatus(status)
	return &inv, nil
}

func cursorValue(inv investmentDomain.Investment, field string) string {
	switch field {
	case "amount_points":
		return fmt.Sprint(inv.AmountPoints)
	case "returns_received":
		return fmt.Sprint(inv.ReturnsReceived)
	case "created_at":
		return sqlquery.Timestamp(inv.CreatedAt)
	}
	return inv.ID.String()
}

// ------------------ Inicialización del Esquema ------------------

// InitSQLiteInvestmentSchema crea las tablas 'investments' y 'outbox' si no existen.
func InitSQLiteInvestmentSchema(db *sql.DB) error {
	_, err := db.Exec(`
	CREATE TABLE IF NOT EXISTS investments (
		id TEXT PRIMARY KEY,
		project_id TEXT NOT NULL,
		project_title TEXT NOT NULL,
		investor TEXT NOT NULL,
		amount_points INTEGER NOT NULL,
		expected_return INTEGER NOT NULL DEFAULT 0,
		returns_received INTEGER NOT NULL DEFAULT 0,
		status TEXT NOT NULL,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`)
	if err != nil {
		return fmt.Errorf("failed to create investments table: %w", err)
	}
	if _, err := db.Exec(`CREATE INDEX IF NOT EXISTS idx_investments_project ON investments(project_id)`); err != nil {
		return fmt.Errorf("failed to create investments index: %w", err)
	}
	return sharedSQLite.InitOutboxSchema(db)
}
