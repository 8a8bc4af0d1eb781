package clock

import "time"

// Clock abstrae el tiempo para que los debounces y los workers se puedan
// probar de forma determinista. Producción usa Real(); los tests Fake().
type Clock interface {
	Now() time.Time

	// AfterFunc llama a f cuando pasa d. Si d <= 0, f se ejecuta ya
	// (en otra goroutine con el reloj real, en línea con el falso).
	AfterFunc(d time.Duration, f func()) *Timer

	// NewTicker entrega ticks en C cada d. Panic si d <= 0.
	NewTicker(d time.Duration) *Ticker
}

// Timer es un evento programado por AfterFunc.
type Timer struct {
	stopFunc func() bool
}

// Stop evita que el timer se dispare. Devuelve false si ya se disparó o ya estaba parado.
func (t *Timer) Stop() bool { return t.stopFunc() }

// Ticker entrega ticks periódicos en C (buffer 1, los ticks atrasados se pierden).
type Ticker struct {
	C <-chan time.Time

	stopFunc func()
}

func (t *Ticker) Stop() { t.stopFunc() }
