package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib" // Driver de PostgreSQL

	productDomain "github.com/davicafu/makethechange/internal/product/domain"
	sharedDomain "github.com/davicafu/makethechange/internal/shared/domain"
	sharedPostgres "github.com/davicafu/makethechange/internal/shared/infra/platform/db/postgres"
	"github.com/davicafu/makethechange/internal/shared/infra/platform/db/sqlquery"
	sharedQuery "github.com/davicafu/makethechange/internal/shared/infra/platform/query"
)

const productColumns = "id, name, description, category, producer, tags, status, price_points, stock, featured, image_url, created_at, updated_at"

// ProductRepoPostgres implementa la interfaz ProductRepository para PostgreSQL.
type ProductRepoPostgres struct {
	db *sql.DB
}

var _ productDomain.ProductRepository = (*ProductRepoPostgres)(nil)

// NewProductRepoPostgres es el constructor del repositorio.
func NewProductRepoPostgres(db *sql.DB) *ProductRepoPostgres {
	return &ProductRepoPostgres{db: db}
}

// ------------------ Escritura + Outbox ------------------

// Update guarda los campos editables y el evento en una transacción.
func (r *ProductRepoPostgres) Update(ctx context.Context, p *productDomain.Product, evt sharedDomain.OutboxEvent) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin tx: %w", err)
	}
	defer tx.Rollback() // Se ignora si el Commit() es exitoso

	res, err := tx.ExecContext(ctx,
		`UPDATE products SET status=$1, stock=$2, featured=$3, updated_at=$4 WHERE id=$5`,
		string(p.Status), p.Stock, p.Featured, p.UpdatedAt, p.ID,
	)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	rows, _ := res.RowsAffected()
	if rows == 0 {
		return productDomain.ErrProductNotFound
	}

	if err := sharedPostgres.InsertOutboxTx(ctx, tx, evt); err != nil {
		return fmt.Errorf("failed to insert outbox: %w", err)
	}

	return tx.Commit()
}

// ------------------ Lectura ------------------

func (r *ProductRepoPostgres) GetByID(ctx context.Context, id uuid.UUID) (*productDomain.Product, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+productColumns+` FROM products WHERE id=$1`, id)

	p, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, productDomain.ErrProductNotFound
		}
		return nil, fmt.Errorf("db scan error: %w", err)
	}
	return p, nil
}

// List cuenta el total con los filtros y trae una página. En modo cursor
// pide una fila de más para saber si hay siguiente página.
func (r *ProductRepoPostgres) List(ctx context.Context, criteria sharedDomain.Criteria, pagination sharedQuery.Pagination, sort sharedQuery.Sort) (sharedQuery.Page[productDomain.Product], error) {
	b := sqlquery.New(sqlquery.Postgres).Where(sharedDomain.Conditions(criteria))

	countSQL, countArgs := b.Count("products")
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return sharedQuery.Page[productDomain.Product]{}, fmt.Errorf("count products: %w", err)
	}

	query, args, limit, err := b.List("SELECT "+productColumns+" FROM products", pagination, sort, productDomain.PageSize)
	if err != nil {
		return sharedQuery.Page[productDomain.Product]{}, err
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return sharedQuery.Page[productDomain.Product]{}, err
	}
	defer rows.Close()

	var items []productDomain.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return sharedQuery.Page[productDomain.Product]{}, err
		}
		items = append(items, *p)
	}
	if err := rows.Err(); err != nil {
		return sharedQuery.Page[productDomain.Product]{}, err
	}

	if _, ok := pagination.(sharedQuery.CursorPagination); ok {
		return sharedQuery.CursorPage(items, total, limit, func(p productDomain.Product) string {
			return sharedQuery.EncodeCursor(cursorValue(p, sort.Field), p.ID.String())
		}), nil
	}
	return sharedQuery.Page[productDomain.Product]{Items: nonNil(items), Total: total}, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanProduct(s scanner) (*productDomain.Product, error) {
	var p productDomain.Product
	var tags, status string
	var imageURL sql.NullString
	if err := s.Scan(&p.ID, &p.Name, &p.Description, &p.Category, &p.Producer, &tags, &status,
		&p.PricePoints, &p.Stock, &p.Featured, &imageURL, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	p.Tags = sqlquery.SplitList(tags)
	p.Status = productDomain.ProductStatus(status)
	p.ImageURL = imageURL.String
	return &p, nil
}

// cursorValue es el valor de la columna de orden tal y como lo compara Postgres.
func cursorValue(p productDomain.Product, field string) string {
	switch field {
	case "name":
		return p.Name
	case "price_points":
		return fmt.Sprint(p.PricePoints)
	case "stock":
		return fmt.Sprint(p.Stock)
	case "created_at":
		return p.CreatedAt.UTC().Format(time.RFC3339Nano)
	}
	return p.ID.String()
}

func nonNil(items []productDomain.Product) []productDomain.Product {
	if items == nil {
		return []productDomain.Product{}
	}
	return items
}

// ------------------ Inicialización del Esquema ------------------

// InitPostgresProductSchema crea la tabla 'products' y 'outbox' si no existen.
func InitPostgresProductSchema(db *sql.DB) error {
	_, err := db.Exec(`
    CREATE TABLE IF NOT EXISTS products (
        id UUID PRIMARY KEY,
        name TEXT NOT NULL,
        description TEXT NOT NULL DEFAULT '',
        category TEXT NOT NULL,
        producer TEXT NOT NULL,
        tags TEXT NOT NULL DEFAULT '',
        status TEXT NOT NULL,
        price_points INTEGER NOT NULL,
        stock INTEGER NOT NULL DEFAULT 0,
        featured BOOLEAN NOT NULL DEFAULT FALSE,
        image_url TEXT,
        created_at TIMESTAMP WITH TIME ZONE NOT NULL,
        updated_at TIMESTAMP WITH TIME ZONE NOT NULL
    )`)
	if err != nil {
		return fmt.Errorf("failed to create products table: %w", err)
	}
	return sharedPostgres.InitOutboxSchema(db)
}

// Insert carga un producto sin evento (seed de datos de demo).
func (r *ProductRepoPostgres) Insert(ctx context.Context, p productDomain.Product) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO products (`+productColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		 ON CONFLICT (id) DO NOTHING`,
		p.ID, p.Name, p.Description, p.Category, p.Producer, sqlquery.JoinList(p.Tags), string(p.Status),
		p.PricePoints, p.Stock, p.Featured, p.ImageURL, p.CreatedAt, p.UpdatedAt,
	)
	return err
}
