package cache

import (
	"context"
)

// Cache es la caché clave-valor que comparten los servicios de catálogo.
// Los valores viajan como JSON, igual en Redis que en memoria.
type Cache interface {
	// Get rellena dest (puntero) y devuelve (true, nil) en un hit, (false, nil) en un miss.
	Get(ctx context.Context, key string, dest interface{}) (bool, error)

	// Set guarda val con un TTL en segundos (0 = TTL por defecto del backend).
	Set(ctx context.Context, key string, val interface{}, ttlSecs int) error

	Delete(ctx context.Context, key string) error
}
