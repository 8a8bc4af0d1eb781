package listing

import (
	"net/url"
	"strconv"

	sharedQuery "github.com/davicafu/makethechange/internal/shared/infra/platform/query"
)

// MaxLimit acota el tamaño de página que acepta DecodeDescriptor.
const MaxLimit = 100

// PaginationMode distingue cursor (solo "siguiente") de número de página (salto libre).
type PaginationMode int

const (
	CursorMode PaginationMode = iota
	PageMode
)

func (m PaginationMode) String() string {
	if m == PageMode {
		return "page"
	}
	return "cursor"
}

// Descriptor es la instantánea inmutable de una consulta: criterios más
// paginación. Es comparable, así que == es la igualdad por valor que se usa
// como clave de caché. En CursorMode Page vale 0; en PageMode Cursor es "".
type Descriptor[F Criteria[F]] struct {
	Criteria F
	Cursor   string
	Page     int
	Limit    int
}

// Values serializa el descriptor como query string.
func (d Descriptor[F]) Values() url.Values {
	v := d.Criteria.Values()
	if v == nil {
		v = url.Values{}
	}
	if d.Cursor != "" {
		v.Set(string(FieldCursor), d.Cursor)
	}
	if d.Page > 0 {
		v.Set(string(FieldPage), strconv.Itoa(d.Page))
	}
	if d.Limit > 0 {
		v.Set(string(FieldLimit), strconv.Itoa(d.Limit))
	}
	return v
}

// Key es la forma textual estable del descriptor (logs, errores, caché remota).
func (d Descriptor[F]) Key() string {
	return d.Values().Encode()
}

// Pagination traduce el descriptor a la paginación de los repositorios.
func (d Descriptor[F]) Pagination() sharedQuery.Pagination {
	if d.Page > 0 {
		return sharedQuery.OffsetPagination{Limit: d.Limit, Offset: (d.Page - 1) * d.Limit}
	}
	return sharedQuery.CursorPagination{Limit: d.Limit, Cursor: d.Cursor}
}

// DecodeDescriptor reconstruye un descriptor desde una query string.
// El límite se acota a [1, MaxLimit]; sin límite se usa pageSize.
func DecodeDescriptor[F Criteria[F]](defaults F, mode PaginationMode, pageSize int, v url.Values) (Descriptor[F], error) {
	d := Descriptor[F]{Criteria: defaults, Limit: pageSize}
	if mode == PageMode {
		d.Page = 1
	}

	if raw := v.Get(string(FieldLimit)); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return d, InvalidValue(FieldLimit, raw)
		}
		d.Limit = min(n, MaxLimit)
	}

	if raw := v.Get(string(FieldCursor)); raw != "" {
		if mode != CursorMode {
			return d, ErrPaginationMode
		}
		d.Cursor = raw
	}

	if raw := v.Get(string(FieldPage)); raw != "" {
		if mode != PageMode {
			return d, ErrPaginationMode
		}
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return d, InvalidValue(FieldPage, raw)
		}
		d.Page = n
	}

	criteria, err := DecodeCriteria(defaults, v)
	if err != nil {
		return d, err
	}
	d.Criteria = criteria
	return d, nil
}

// ---------------- Derivación de páginas ----------------

// TotalPages = ceil(total / pageSize). 0 si no hay elementos.
func TotalPages(total, pageSize int) int {
	if total <= 0 || pageSize <= 0 {
		return 0
	}
	return (total + pageSize - 1) / pageSize
}

// CurrentPageFromCursor estima la página actual cuando solo se conocen el
// total y los elementos recibidos hasta ahora: floor((total-loaded)/pageSize)+1.
// Es un valor de presentación; se acota a [1, TotalPages].
func CurrentPageFromCursor(total, loaded, pageSize int) int {
	if pageSize <= 0 {
		return 1
	}
	remaining := max(total-loaded, 0)
	page := remaining/pageSize + 1
	if pages := TotalPages(total, pageSize); page > pages {
		page = pages
	}
	return max(page, 1)
}
