package domain

import sharedQuery "github.com/davicafu/makethechange/internal/shared/infra/platform/query"

// SortOptions asocia las claves de orden de la UI ("price_asc") con el
// orden que entiende el repositorio.
type SortOptions map[string]sharedQuery.Sort

func (o SortOptions) Has(key string) bool {
	_, ok := o[key]
	return ok
}

// Order devuelve el orden de key, o el de fallback si key no existe.
func (o SortOptions) Order(key, fallback string) sharedQuery.Sort {
	if s, ok := o[key]; ok {
		return s
	}
	return o[fallback]
}
