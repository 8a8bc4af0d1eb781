package query

import (
	"encoding/base64"
	"errors"
	"strings"
)

// ---------- Tipos de filtrado / paginación / ordenamiento ----------

// OffsetPagination para paginación clásica
type OffsetPagination struct {
	Limit  int
	Offset int
}

// CursorPagination para paginación tipo cursor (solo hacia delante)
type CursorPagination struct {
	Limit  int
	Cursor string // opaco, ver EncodeCursor
}

// Interfaz genérica para paginación
type Pagination interface{}

// Sort indica campo y dirección.
type Sort struct {
	Field string // ej. "created_at", "name"
	Desc  bool
}

// LimitOf devuelve el límite de cualquier paginación, o fallback.
func LimitOf(p Pagination, fallback int) int {
	switch v := p.(type) {
	case OffsetPagination:
		if v.Limit > 0 {
			return v.Limit
		}
	case CursorPagination:
		if v.Limit > 0 {
			return v.Limit
		}
	}
	return fallback
}

// ---------- Resultado ----------

// Page es una página de resultados. NextCursor solo se rellena en
// paginación por cursor y cuando quedan más elementos.
type Page[T any] struct {
	Items      []T    `json:"items"`
	Total      int    `json:"total"`
	NextCursor string `json:"next_cursor,omitempty"`
}

// ---------- Cursor ----------

var ErrInvalidCursor = errors.New("invalid cursor")

// EncodeCursor serializa la posición (valor de orden + id) en un token opaco.
func EncodeCursor(sortValue, id string) string {
	return base64.RawURLEncoding.EncodeToString([]byte(sortValue + "|" + id))
}

// DecodeCursor es la inversa de EncodeCursor.
func DecodeCursor(cursor string) (sortValue, id string, err error) {
	raw, err := base64.RawURLEncoding.DecodeString(cursor)
	if err != nil {
		return "", "", ErrInvalidCursor
	}
	i := strings.LastIndex(string(raw), "|")
	if i < 0 {
		return "", "", ErrInvalidCursor
	}
	return string(raw[:i]), string(raw[i+1:]), nil
}

// CursorPage recorta una consulta hecha con limit+1 filas: si sobra una,
// hay más resultados y NextCursor apunta al último elemento devuelto.
func CursorPage[T any](items []T, total, limit int, cursorOf func(T) string) Page[T] {
	p := Page[T]{Items: items, Total: total}
	if limit > 0 && len(items) > limit {
		p.Items = items[:limit]
		p.NextCursor = cursorOf(items[limit-1])
	}
	if p.Items == nil {
		p.Items = []T{}
	}
	return p
}
