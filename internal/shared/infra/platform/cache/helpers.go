package cache

import (
	"context"
	"time"

	"go.uber.org/zap"
)

const asyncTimeout = 200 * time.Millisecond

// AsyncCacheSet guarda value en background: un fallo de la caché nunca
// retrasa ni rompe la respuesta del catálogo.
func AsyncCacheSet(ctx context.Context, cache Cache, key string, value interface{}, ttl int, log *zap.Logger) {
	if cache == nil {
		return
	}
	background(ctx, log, "set", key, func(c context.Context) error {
		return cache.Set(c, key, value, ttl)
	})
}

// AsyncCacheDelete borra key en background.
func AsyncCacheDelete(ctx context.Context, cache Cache, key string, log *zap.Logger) {
	if cache == nil {
		return
	}
	background(ctx, log, "delete", key, func(c context.Context) error {
		return cache.Delete(c, key)
	})
}

// background ejecuta op con un contexto propio que sobrevive a ctx.
func background(ctx context.Context, log *zap.Logger, op, key string, fn func(context.Context) error) {
	if log == nil {
		log = zap.NewNop()
	}
	go func() {
		cacheCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), asyncTimeout)
		defer cancel()

		if err := fn(cacheCtx); err != nil {
			log.Warn("Cache operation failed",
				zap.String("op", op),
				zap.String("key", key),
				zap.Error(err))
		}
	}()
}
