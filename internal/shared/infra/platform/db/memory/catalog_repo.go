// Package memory es un repositorio de catálogo en memoria para el modo local
// y los tests. Interpreta las mismas condiciones neutrales que sqlquery.
package memory

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	sharedDomain "github.com/davicafu/makethechange/internal/shared/domain"
	sharedQuery "github.com/davicafu/makethechange/internal/shared/infra/platform/query"
)

// Fields expone los campos filtrables y ordenables de T por nombre de columna.
// Las listas (tags) se devuelven como []string.
type Fields[T any] map[string]func(T) interface{}

type CatalogRepo[T any] struct {
	mu       sync.RWMutex
	items    map[uuid.UUID]T
	idOf     func(T) uuid.UUID
	fields   Fields[T]
	notFound error
	limit    int

	outbox []sharedDomain.OutboxEvent
}

var (
	_ sharedDomain.CatalogRepository[struct{}] = (*CatalogRepo[struct{}])(nil)
	_ sharedDomain.OutboxRepository           = (*CatalogRepo[struct{}])(nil)
)

// NewCatalogRepo crea el repo. notFound es el sentinel del dominio para GetByID/Update.
func NewCatalogRepo[T any](idOf func(T) uuid.UUID, fields Fields[T], notFound error) *CatalogRepo[T] {
	return &CatalogRepo[T]{
		items:    make(map[uuid.UUID]T),
		idOf:     idOf,
		fields:   fields,
		notFound: notFound,
		limit:    20,
	}
}

// Seed carga o sustituye elementos sin generar eventos.
func (r *CatalogRepo[T]) Seed(items ...T) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, it := range items {
		r.items[r.idOf(it)] = it
	}
}

func (r *CatalogRepo[T]) GetByID(ctx context.Context, id uuid.UUID) (*T, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	it, ok := r.items[id]
	if !ok {
		return nil, r.notFound
	}
	return &it, nil
}

func (r *CatalogRepo[T]) Update(ctx context.Context, item *T, evt sharedDomain.OutboxEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := r.idOf(*item)
	if _, ok := r.items[id]; !ok {
		return r.notFound
	}
	r.items[id] = *item
	r.outbox = append(r.outbox, evt)
	return nil
}

func (r *CatalogRepo[T]) List(ctx context.Context, criteria sharedDomain.Criteria, pagination sharedQuery.Pagination, sort sharedQuery.Sort) (sharedQuery.Page[T], error) {
	r.mu.RLock()
	matched := make([]T, 0, len(r.items))
	conds := sharedDomain.Conditions(criteria)
	for _, it := range r.items {
		if r.matches(it, conds) {
			matched = append(matched, it)
		}
	}
	r.mu.RUnlock()

	r.sortItems(matched, sort)
	total := len(matched)
	limit := sharedQuery.LimitOf(pagination, r.limit)

	switch p := pagination.(type) {
	case sharedQuery.OffsetPagination:
		start := min(max(p.Offset, 0), total)
		end := min(start+limit, total)
		return sharedQuery.Page[T]{Items: append([]T{}, matched[start:end]...), Total: total}, nil

	case sharedQuery.CursorPagination:
		start := 0
		if p.Cursor != "" {
			var err error
			if start, err = r.after(matched, sort, p.Cursor); err != nil {
				return sharedQuery.Page[T]{}, err
			}
		}
		end := min(start+limit+1, total)
		window := append([]T{}, matched[start:end]...)
		return sharedQuery.CursorPage(window, total, limit, func(it T) string {
			return sharedQuery.EncodeCursor(cursorValue(r.value(it, sort.Field)), r.idOf(it).String())
		}), nil
	}

	end := min(limit, total)
	return sharedQuery.Page[T]{Items: append([]T{}, matched[:end]...), Total: total}, nil
}

// ---------------- Outbox ----------------

func (r *CatalogRepo[T]) FetchPendingOutbox(ctx context.Context, limit int) ([]sharedDomain.OutboxEvent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []sharedDomain.OutboxEvent
	for _, evt := range r.outbox {
		if evt.Processed {
			continue
		}
		out = append(out, evt)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (r *CatalogRepo[T]) MarkOutboxProcessed(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.outbox {
		if r.outbox[i].ID == id {
			r.outbox[i].Processed = true
			return nil
		}
	}
	return fmt.Errorf("outbox event not found: %s", id)
}

// ---------------- Filtrado y orden ----------------

func (r *CatalogRepo[T]) value(it T, field string) interface{} {
	if field == "" || field == "id" {
		return r.idOf(it).String()
	}
	if get, ok := r.fields[field]; ok {
		return get(it)
	}
	return nil
}

// after devuelve el índice del primer elemento posterior al cursor en el
// orden de s (keyset sobre valor de orden + id). El elemento del cursor no
// tiene que seguir en la lista: puede haber salido del filtro o cambiado de
// valor desde que se emitió.
func (r *CatalogRepo[T]) after(items []T, s sharedQuery.Sort, cursor string) (int, error) {
	sortValue, rawID, err := sharedQuery.DecodeCursor(cursor)
	if err != nil {
		return 0, err
	}
	cursorID, err := uuid.Parse(rawID)
	if err != nil {
		return 0, sharedQuery.ErrInvalidCursor
	}
	id := cursorID.String()
	keyed := s.Field != "" && s.Field != "id"

	var pivot interface{}
	for i, it := range items {
		c := 0
		if keyed {
			v := r.value(it, s.Field)
			if pivot == nil {
				if pivot, err = parseCursorValue(v, sortValue); err != nil {
					return 0, err
				}
			}
			c, _ = compare(v, pivot)
		}
		if c == 0 {
			c = strings.Compare(r.idOf(it).String(), id)
		}
		if (s.Desc && c < 0) || (!s.Desc && c > 0) {
			return i, nil
		}
	}
	return len(items), nil
}

func (r *CatalogRepo[T]) matches(it T, conds []sharedDomain.Criterion) bool {
	for _, c := range conds {
		ok := false
		for _, f := range strings.Split(c.Field, "|") {
			if match(r.value(it, f), c.Op, c.Value) {
				ok = true
				break
			}
		}
		if !ok {
			return false
		}
	}
	return true
}

func (r *CatalogRepo[T]) sortItems(items []T, s sharedQuery.Sort) {
	sort.SliceStable(items, func(i, j int) bool {
		c, _ := compare(r.value(items[i], s.Field), r.value(items[j], s.Field))
		if c == 0 {
			c = strings.Compare(r.idOf(items[i]).String(), r.idOf(items[j]).String())
		}
		if s.Desc {
			return c > 0
		}
		return c < 0
	})
}

func match(field interface{}, op sharedDomain.Operator, want interface{}) bool {
	switch op {
	case sharedDomain.OpContains:
		list, _ := field.([]string)
		for _, v := range list {
			if strings.EqualFold(v, fmt.Sprint(want)) {
				return true
			}
		}
		return false
	case sharedDomain.OpLike, sharedDomain.OpILike:
		s, _ := field.(string)
		pattern := strings.Trim(fmt.Sprint(want), "%")
		if op == sharedDomain.OpILike {
			return strings.Contains(strings.ToLower(s), strings.ToLower(pattern))
		}
		return strings.Contains(s, pattern)
	}

	c, ok := compare(field, want)
	if !ok {
		return false
	}
	switch op {
	case sharedDomain.OpEq:
		return c == 0
	case sharedDomain.OpGt:
		return c > 0
	case sharedDomain.OpGte:
		return c >= 0
	case sharedDomain.OpLt:
		return c < 0
	case sharedDomain.OpLte:
		return c <= 0
	}
	return false
}

// compare ordena dos valores del mismo tipo básico. ok=false si no son comparables.
func compare(a, b interface{}) (int, bool) {
	if fa, ok := number(a); ok {
		fb, ok := number(b)
		if !ok {
			return 0, false
		}
		switch {
		case fa < fb:
			return -1, true
		case fa > fb:
			return 1, true
		}
		return 0, true
	}

	switch va := a.(type) {
	case string:
		vb, ok := b.(string)
		return strings.Compare(va, vb), ok
	case uuid.UUID:
		return strings.Compare(va.String(), fmt.Sprint(b)), true
	case bool:
		vb, ok := b.(bool)
		if !ok {
			return 0, false
		}
		switch {
		case va == vb:
			return 0, true
		case !va:
			return -1, true
		}
		return 1, true
	case time.Time:
		vb, ok := b.(time.Time)
		if !ok {
			return 0, false
		}
		return va.Compare(vb), true
	}
	return 0, false
}

func number(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

// parseCursorValue interpreta raw con el tipo de sample, el valor del mismo
// campo en un elemento cualquiera. Es la inversa de cursorValue.
func parseCursorValue(sample interface{}, raw string) (interface{}, error) {
	var (
		v   interface{}
		err error
	)
	switch sample.(type) {
	case time.Time:
		v, err = time.Parse(time.RFC3339Nano, raw)
	case int, int64, float64:
		v, err = strconv.ParseFloat(raw, 64)
	case bool:
		v, err = strconv.ParseBool(raw)
	case string, uuid.UUID:
		v = raw
	}
	if err != nil {
		return nil, sharedQuery.ErrInvalidCursor
	}
	return v, nil
}

func cursorValue(v interface{}) string {
	if t, ok := v.(time.Time); ok {
		return t.UTC().Format(time.RFC3339Nano)
	}
	return fmt.Sprint(v)
}
