package listing

import (
	"net/url"
	"sort"
	"strings"
)

// AllToken es el valor "todos" de los selectores. Nunca llega a los criterios:
// Normalize lo convierte en ausencia ("").
const AllToken = "all"

// Field identifica un filtro del controlador.
type Field string

const (
	FieldSearch   Field = "search"
	FieldStatus   Field = "status"
	FieldCategory Field = "category"
	FieldProducer Field = "producer"
	FieldAuthor   Field = "author"
	FieldProject  Field = "project"
	FieldTags     Field = "tags"
	FieldFeatured Field = "featured"
	FieldSort     Field = "sort"

	// Paginación
	FieldCursor Field = "cursor"
	FieldPage   Field = "page"
	FieldLimit  Field = "limit"
)

// IsPagination indica si el campo pertenece a la paginación y no a los filtros.
func (f Field) IsPagination() bool {
	return f == FieldCursor || f == FieldPage || f == FieldLimit
}

// Normalize limpia un valor de UI: espacios fuera y "all" -> ausencia.
func Normalize(v string) string {
	v = strings.TrimSpace(v)
	if strings.EqualFold(v, AllToken) {
		return ""
	}
	return v
}

// Criteria es la forma que debe tener el registro de filtros de una entidad.
// Debe ser comparable: dos criterios iguales son la misma consulta.
type Criteria[F any] interface {
	comparable
	// With devuelve una copia con field = value (ya normalizado).
	// Campos desconocidos -> ErrUnknownField, valores fuera de rango -> ErrInvalidValue.
	With(field Field, value string) (F, error)
	// Values serializa los campos presentes, sin los que están en su valor por defecto vacío.
	Values() url.Values
}

// DecodeCriteria aplica sobre base los filtros presentes en v.
// Ignora las claves de paginación.
func DecodeCriteria[F Criteria[F]](base F, v url.Values) (F, error) {
	keys := make([]string, 0, len(v))
	for k := range v {
		if Field(k).IsPagination() {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := base
	for _, k := range keys {
		next, err := out.With(Field(k), Normalize(v.Get(k)))
		if err != nil {
			return base, err
		}
		out = next
	}
	return out, nil
}

// ---------------- TagSet ----------------

// TagSet es un conjunto de tags en forma canónica (minúsculas, sin
// duplicados, ordenado, separado por comas). Al ser un string mantiene
// comparables los criterios que lo contienen.
type TagSet string

// NewTagSet normaliza tags sueltos en un TagSet.
func NewTagSet(tags ...string) TagSet {
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		for _, part := range strings.Split(t, ",") {
			part = strings.ToLower(strings.TrimSpace(part))
			if part == "" {
				continue
			}
			if _, ok := seen[part]; ok {
				continue
			}
			seen[part] = struct{}{}
			out = append(out, part)
		}
	}
	sort.Strings(out)
	return TagSet(strings.Join(out, ","))
}

// Slice devuelve los tags, nil si el conjunto está vacío.
func (t TagSet) Slice() []string {
	if t == "" {
		return nil
	}
	return strings.Split(string(t), ",")
}

func (t TagSet) Contains(tag string) bool {
	tag = strings.ToLower(strings.TrimSpace(tag))
	for _, s := range t.Slice() {
		if s == tag {
			return true
		}
	}
	return false
}

// Toggle añade el tag si no está y lo quita si está.
func (t TagSet) Toggle(tag string) TagSet {
	if !t.Contains(tag) {
		return NewTagSet(string(t), tag)
	}
	tag = strings.ToLower(strings.TrimSpace(tag))
	var rest []string
	for _, s := range t.Slice() {
		if s != tag {
			rest = append(rest, s)
		}
	}
	return NewTagSet(rest...)
}

// Flag valida un filtro booleano de tres estados: "" (sin filtrar), "true" o "false".
func Flag(field Field, value string) (string, error) {
	switch strings.ToLower(value) {
	case "":
		return "", nil
	case "true", "1", "yes":
		return "true", nil
	case "false", "0", "no":
		return "false", nil
	}
	return "", InvalidValue(field, value)
}
