package domain

// ---------------- Operadores ----------------

type Operator string

const (
	OpEq    Operator = "="
	OpGt    Operator = ">"
	OpGte   Operator = ">="
	OpLt    Operator = "<"
	OpLte   Operator = "<="
	OpLike  Operator = "LIKE"
	OpILike Operator = "ILIKE"
	// OpContains: el campo es una lista (tags) y debe contener el valor.
	OpContains Operator = "CONTAINS"
)

// ---------------- Criterion ----------------

// Criterion describe una condición neutral de filtrado.
// Field admite alternativas separadas por "|" (p.ej. "name|description")
// para búsquedas de texto sobre varias columnas.
type Criterion struct {
	Field string
	Op    Operator
	Value interface{}
}

// ---------------- Criteria ----------------

// Criteria la implementan los filtros de cada catálogo. Las condiciones se
// combinan siempre con AND; el OR solo existe dentro de un Field con "|".
type Criteria interface {
	ToConditions() []Criterion
}

// Conditions devuelve las condiciones de c, aceptando nil.
func Conditions(c Criteria) []Criterion {
	if c == nil {
		return nil
	}
	return c.ToConditions()
}
