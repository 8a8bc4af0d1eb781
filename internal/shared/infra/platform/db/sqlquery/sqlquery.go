// Package sqlquery traduce Criteria, Sort y Pagination a SQL para los
// repositorios de Postgres y SQLite.
package sqlquery

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	sharedDomain "github.com/davicafu/makethechange/internal/shared/domain"
	sharedQuery "github.com/davicafu/makethechange/internal/shared/infra/platform/query"
	sharedUtils "github.com/davicafu/makethechange/internal/shared/infra/utils"
)

type Dialect int

const (
	Postgres Dialect = iota // $1, $2...
	SQLite                  // ?
)

// TimestampLayout es de ancho fijo para que en SQLite el orden de texto
// coincida con el orden cronológico.
const TimestampLayout = "2006-01-02T15:04:05.000000000Z"

// Timestamp formatea t en UTC con TimestampLayout.
func Timestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// ParseTimestamp es la inversa de Timestamp.
func ParseTimestamp(s string) (time.Time, error) {
	return time.Parse(TimestampLayout, s)
}

// Builder acumula condiciones WHERE y sus argumentos.
type Builder struct {
	dialect Dialect
	clauses []string
	args    []interface{}
}

func New(d Dialect) *Builder {
	return &Builder{dialect: d}
}

func (b *Builder) clone() *Builder {
	return &Builder{
		dialect: b.dialect,
		clauses: append([]string(nil), b.clauses...),
		args:    append([]interface{}(nil), b.args...),
	}
}

// Arg añade un argumento y devuelve su placeholder.
func (b *Builder) Arg(v interface{}) string {
	if b.dialect == SQLite {
		if id, ok := v.(uuid.UUID); ok {
			v = id.String()
		}
	}
	b.args = append(b.args, v)
	if b.dialect == Postgres {
		return "$" + strconv.Itoa(len(b.args))
	}
	return "?"
}

// Where traduce las condiciones neutrales. Los nombres de campo vienen del
// dominio, nunca de la petición.
func (b *Builder) Where(conds []sharedDomain.Criterion) *Builder {
	for _, c := range conds {
		fields := strings.Split(c.Field, "|")
		parts := make([]string, 0, len(fields))
		for _, f := range fields {
			parts = append(parts, b.condition(f, c.Op, c.Value))
		}
		if len(parts) == 1 {
			b.clauses = append(b.clauses, parts[0])
		} else {
			b.clauses = append(b.clauses, "("+strings.Join(parts, " OR ")+")")
		}
	}
	return b
}

func (b *Builder) condition(field string, op sharedDomain.Operator, value interface{}) string {
	switch op {
	case sharedDomain.OpContains:
		// las listas se guardan como ",a,b,"
		return fmt.Sprintf("%s LIKE %s", field, b.Arg("%,"+fmt.Sprint(value)+",%"))
	case sharedDomain.OpILike:
		if b.dialect == SQLite {
			return fmt.Sprintf("%s LIKE %s", field, b.Arg(value))
		}
	}
	return fmt.Sprintf("%s %s %s", field, op, b.Arg(value))
}

// WhereSQL devuelve " WHERE ..." o "" si no hay condiciones.
func (b *Builder) WhereSQL() string {
	if len(b.clauses) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(b.clauses, " AND ")
}

func (b *Builder) Args() []interface{} {
	return append([]interface{}(nil), b.args...)
}

// Count construye el SELECT COUNT(*) con las condiciones actuales.
func (b *Builder) Count(table string) (string, []interface{}) {
	return "SELECT COUNT(*) FROM " + table + b.WhereSQL(), b.Args()
}

// List construye la consulta de una página. En modo cursor pide limit+1
// filas para saber si hay más (ver query.CursorPage) y añade el predicado
// keyset (sort, id). Devuelve el límite efectivo.
func (b *Builder) List(selectSQL string, p sharedQuery.Pagination, sort sharedQuery.Sort, fallbackLimit int) (string, []interface{}, int, error) {
	q := b.clone()
	limit := sharedQuery.LimitOf(p, fallbackLimit)

	var tail string
	switch v := p.(type) {
	case sharedQuery.CursorPagination:
		if v.Cursor != "" {
			sortValue, id, err := sharedQuery.DecodeCursor(v.Cursor)
			if err != nil {
				return "", nil, 0, err
			}
			q.after(sort, sortValue, id)
		}
		tail = fmt.Sprintf(" LIMIT %s", q.Arg(limit+1))
	case sharedQuery.OffsetPagination:
		tail = fmt.Sprintf(" LIMIT %s OFFSET %s", q.Arg(limit), q.Arg(max(v.Offset, 0)))
	default:
		tail = fmt.Sprintf(" LIMIT %s", q.Arg(limit))
	}

	return selectSQL + q.WhereSQL() + OrderBy(sort) + tail, q.args, limit, nil
}

func (b *Builder) after(sort sharedQuery.Sort, sortValue, id string) {
	cmp := sharedUtils.Ternary(sort.Desc, "<", ">")
	if sort.Field == "" || sort.Field == "id" {
		b.clauses = append(b.clauses, fmt.Sprintf("id %s %s", cmp, b.Arg(id)))
		return
	}
	first := b.Arg(sortValue)
	equal := b.Arg(sortValue)
	b.clauses = append(b.clauses, fmt.Sprintf("(%s %s %s OR (%s = %s AND id %s %s))",
		sort.Field, cmp, first, sort.Field, equal, cmp, b.Arg(id)))
}

// OrderBy ordena por sort y desempata por id en la misma dirección.
func OrderBy(sort sharedQuery.Sort) string {
	dir := sharedUtils.Ternary(sort.Desc, "DESC", "ASC")
	if sort.Field == "" || sort.Field == "id" {
		return " ORDER BY id " + dir
	}
	return fmt.Sprintf(" ORDER BY %s %s, id %s", sort.Field, dir, dir)
}

// JoinList guarda una lista como ",a,b," para poder buscar con LIKE.
func JoinList(values []string) string {
	if len(values) == 0 {
		return ""
	}
	return "," + strings.Join(values, ",") + ","
}

// SplitList es la inversa de JoinList.
func SplitList(s string) []string {
	s = strings.Trim(s, ",")
	if s == "" {
		return []string{}
	}
	return strings.Split(s, ",")
}
