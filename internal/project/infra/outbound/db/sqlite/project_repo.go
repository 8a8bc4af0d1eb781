package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	projectDomain "github.com/davicafu/makethechange/internal/project/domain"
	sharedDomain "github.com/davicafu/makethechange/internal/shared/domain"
	sharedSQLite "github.com/davicafu/makethechange/internal/shared/infra/platform/db/sqlite"
	"github.com/davicafu/makethechange/internal/shared/infra/platform/db/sqlquery"
	sharedQuery "github.com/davicafu/makethechange/internal/shared/infra/platform/query"
)

const projectColumns = "id, title, summary, category, producer, location, lat, lng, tags, status, goal_points, raised_points, featured, image_url, created_at, updated_at"

// ProjectRepoSQLite implementa ProjectRepository sobre SQLite.
type ProjectRepoSQLite struct {
	db *sql.DB
}

var _ projectDomain.ProjectRepository = (*ProjectRepoSQLite)(nil)

func NewProjectRepoSQLite(db *sql.DB) *ProjectRepoSQLite {
	return &ProjectRepoSQLite{db: db}
}

// ------------------ Escritura + Outbox ------------------

func (r *ProjectRepoSQLite) Update(ctx context.Context, p *projectDomain.Project, evt sharedDomain.OutboxEvent) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin tx: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`UPDATE projects SET status=?, featured=?, updated_at=? WHERE id=?`,
		string(p.Status), p.Featured, sqlquery.Timestamp(p.UpdatedAt), p.ID.String(),
	)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return projectDomain.ErrProjectNotFound
	}

	if err := sharedSQLite.InsertOutboxTx(ctx, tx, evt); err != nil {
		return err
	}
	return tx.Commit()
}

// Insert carga un proyecto sin evento (seed).
func (r *ProjectRepoSQLite) Insert(ctx context.Context, p projectDomain.Project) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO projects (`+projectColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID.String(), p.Title, p.Summary, p.Category, p.Producer, p.Location, p.Lat, p.Lng,
		sqlquery.JoinList(p.Tags), string(p.Status), p.GoalPoints, p.RaisedPoints, p.Featured, p.ImageURL,
		sqlquery.Timestamp(p.CreatedAt), sqlquery.Timestamp(p.UpdatedAt),
	)
	return err
}

// ------------------ Lectura ------------------

func (r *ProjectRepoSQLite) GetByID(ctx context.Context, id uuid.UUID) (*projectDomain.Project, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+projectColumns+` FROM projects WHERE id = ?`, id.String())
	p, err := scanProject(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, projectDomain.ErrProjectNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("db scan error: %w", err)
	}
	return p, nil
}

func (r *ProjectRepoSQLite) List(ctx context.Context, criteria sharedDomain.Criteria, pagination sharedQuery.Pagination, sort sharedQuery.Sort) (sharedQuery.Page[projectDomain.Project], error) {
	var empty sharedQuery.Page[projectDomain.Project]
	b := sqlquery.New(sqlquery.SQLite).Where(sharedDomain.Conditions(criteria))

	countSQL, countArgs := b.Count("projects")
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return empty, fmt.Errorf("count projects: %w", err)
	}

	query, args, limit, err := b.List("SELECT "+projectColumns+" FROM projects", pagination, sort, projectDomain.PageSize)
	if err != nil {
		return empty, err
	}
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return empty, err
	}
	defer rows.Close()

	items := []projectDomain.Project{}
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return empty, err
		}
		items = append(items, *p)
	}
	if err := rows.Err(); err != nil {
		return empty, err
	}

	if _, ok := pagination.(sharedQuery.CursorPagination); ok {
		return sharedQuery.CursorPage(items, total, limit, func(p projectDomain.Project) string {
			return sharedQuery.EncodeCursor(cursorValue(p, sort.Field), p.ID.String())
		}), nil
	}
	return sharedQuery.Page[projectDomain.Project]{Items: items, Total: total}, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanProject(s scanner) (*projectDomain.Project, error) {
	var p projectDomain.Project
	var id, tags, status, createdAt, updatedAt string
	if err := s.Scan(&id, &p.Title, &p.Summary, &p.Category, &p.Producer, &p.Location, &p.Lat, &p.Lng,
		&tags, &status, &p.GoalPoints, &p.RaisedPoints, &p.Featured, &p.ImageURL, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	var err error
	if p.ID, err = uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("invalid project id %q: %w", id, err)
	}
	if p.CreatedAt, err = sqlquery.ParseTimestamp(createdAt); err != nil {
		return nil, err
	}
	if p.UpdatedAt, err = sqlquery.ParseTimestamp(updatedAt); err != nil {
		return nil, err
	}
	p.Tags = sqlquery.SplitList(tags)
	p.Status = projectDomain.ProjectStatus(status)
	return &p, nil
}

// cursorValue es el valor de la columna de orden tal y como lo guarda SQLite.
func cursorValue(p projectDomain.Project, field string) string {
	switch field {
	case "title":
		return p.Title
	case "goal_points":
		return fmt.Sprint(p.GoalPoints)
	case "raised_points":
		return fmt.Sprint(p.RaisedPoints)
	case "created_at":
		return sqlquery.Timestamp(p.CreatedAt)
	}
	return p.ID.String()
}

// ------------------ Inicialización del Esquema ------------------

// InitSQLiteProjectSchema crea las tablas 'projects' y 'outbox' si no existen.
func InitSQLiteProjectSchema(db *sql.DB) error {
	_, err := db.Exec(`
	CREATE TABLE IF NOT EXISTS projects (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		summary TEXT NOT NULL DEFAULT '',
		category TEXT NOT NULL,
		producer TEXT NOT NULL,
		location TEXT NOT NULL DEFAULT '',
		lat REAL NOT NULL DEFAULT 0,
		lng REAL NOT NULL DEFAULT 0,
		tags TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL,
		goal_points INTEGER NOT NULL,
		raised_points INTEGER NOT NULL DEFAULT 0,
		featured INTEGER NOT NULL DEFAULT 0,
		image_url TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`)
	if err != nil {
		return fmt.Errorf("failed to create projects table: %w", err)
	}
	return sharedSQLite.InitOutboxSchema(db)
}
