package utils

import (
	"context"
	"time"
)

// Ternary es un operador ternario genérico
func Ternary[T any](condition bool, ifTrue, ifFalse T) T {
	if condition {
		return ifTrue
	}
	return ifFalse
}

// Retry ejecuta fn hasta attempts veces esperando delay entre intentos.
// Devuelve el último error, o el del contexto si se cancela mientras espera.
func Retry(ctx context.Context, attempts int, delay time.Duration, fn func() error) error {
	var err error
	for i := 0; i < attempts; i++ {
		if err = fn(); err == nil {
			return nil
		}
		if i == attempts-1 {
			break
		}
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return err
}

// RetryUnless es Retry pero corta en seco con los errores que no tiene
// sentido reintentar (p.ej. not found).
func RetryUnless(ctx context.Context, attempts int, delay time.Duration, permanent func(error) bool, fn func() error) error {
	var stop error
	err := Retry(ctx, attempts, delay, func() error {
		err := fn()
		if err != nil && permanent(err) {
			stop = err
			return nil
		}
		return err
	})
	if stop != nil {
		return stop
	}
	return err
}
