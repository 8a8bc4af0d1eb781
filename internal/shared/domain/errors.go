package domain

import "errors"

// Errores comunes de los catálogos. Cada dominio los envuelve con su propio
// sentinel (p.ej. ErrProductNotFound) para que los handlers mapeen con errors.Is.
var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidPatch = errors.New("invalid patch")
)
