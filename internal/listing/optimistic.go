package listing

import (
	"context"
	"sync"
	"time"

	"github.com/davicafu/makethechange/pkg/clock"
	"go.uber.org/zap"
)

const (
	DefaultMutationDebounce = 400 * time.Millisecond
	DefaultMutationTimeout  = 10 * time.Second
)

// Patch es una edición parcial de un elemento. Key identifica los campos que
// toca: dos patches con la misma Key compiten por el mismo timer y solo se
// envía el último.
type Patch interface {
	Key() string
}

// Mutator confirma un patch en el servidor y devuelve la entidad resultante.
type Mutator[T any, P Patch] interface {
	Mutate(ctx context.Context, id string, patch P) (T, error)
}

// MutatorFunc adapta una función a Mutator.
type MutatorFunc[T any, P Patch] func(ctx context.Context, id string, patch P) (T, error)

func (f MutatorFunc[T, P]) Mutate(ctx context.Context, id string, patch P) (T, error) {
	return f(ctx, id, patch)
}

// ItemStore es la vista local sobre la que se proyectan las ediciones (un Binding).
type ItemStore[T any] interface {
	ItemID(item T) string
	Item(id string) (T, bool)
	ReplaceItem(id string, item T) bool
	AddReconciler(r Reconciler[T])
}

// MutationState es el estado de las ediciones de un elemento.
type MutationState string

const (
	MutationIdle       MutationState = "idle"
	MutationPending    MutationState = "pending"
	MutationInFlight   MutationState = "in_flight"
	MutationConfirmed  MutationState = "confirmed"
	MutationRolledBack MutationState = "rolled_back"
)

// OptimisticOption configura un Optimistic.
type OptimisticOption func(*optimisticOptions)

type optimisticOptions struct {
	clock   clock.Clock
	log     *zap.Logger
	onError func(*MutationError)
	timeout time.Duration
}

func WithMutationClock(c clock.Clock) OptimisticOption {
	return func(o *optimisticOptions) { o.clock = c }
}

func WithMutationLogger(log *zap.Logger) OptimisticOption {
	return func(o *optimisticOptions) { o.log = log }
}

// OnMutationError recibe los fallos de confirmación (notificación transitoria).
func OnMutationError(fn func(*MutationError)) OptimisticOption {
	return func(o *optimisticOptions) { o.onError = fn }
}

func WithMutationTimeout(d time.Duration) OptimisticOption {
	return func(o *optimisticOptions) { o.timeout = d }
}

// slot es un timer de debounce por (elemento, Key del patch).
type slot[P Patch] struct {
	patch    P
	timer    *clock.Timer
	gen      uint64
	inFlight int
	pending  bool
}

type itemEdits[T any, P Patch] struct {
	confirmed T
	slots     map[string]*slot[P]
	order     []string
	last      MutationState
	// sent numera los envíos del elemento; applied es el último cuya
	// respuesta se aceptó. Una respuesta más vieja no pisa a una más nueva.
	sent    uint64
	applied uint64
}

// Optimistic aplica patches a la vista local al instante y los confirma
// tras un debounce. Lo mostrado es siempre el último valor confirmado por el
// servidor más los patches aún no confirmados. Si un envío falla, el
// elemento vuelve al valor confirmado y se descartan sus ediciones
// pendientes; no se reintenta. Cada elemento es independiente.
type Optimistic[T any, P Patch] struct {
	mu sync.Mutex

	store   ItemStore[T]
	mutator Mutator[T, P]
	apply   func(T, P) T
	items   map[string]*itemEdits[T, P]

	clock   clock.Clock
	log     *zap.Logger
	onError func(*MutationError)
	timeout time.Duration

	wg sync.WaitGroup
}

// NewOptimistic crea el binding y se registra como reconciliador de store.
// apply proyecta un patch sobre un elemento sin efectos secundarios.
func NewOptimistic[T any, P Patch](store ItemStore[T], mutator Mutator[T, P], apply func(T, P) T, opts ...OptimisticOption) *Optimistic[T, P] {
	o := optimisticOptions{
		clock:   clock.Real(),
		log:     zap.NewNop(),
		timeout: DefaultMutationTimeout,
	}
	for _, opt := range opts {
		opt(&o)
	}

	m := &Optimistic[T, P]{
		store:   store,
		mutator: mutator,
		apply:   apply,
		items:   make(map[string]*itemEdits[T, P]),
		clock:   o.clock,
		log:     o.log,
		onError: o.onError,
		timeout: o.timeout,
	}
	store.AddReconciler(m.reconcile)
	return m
}

// Adjust aplica patch al elemento id ya mismo y (re)arranca su timer. Cuando
// el timer vence se envía una sola vez el último patch recibido para esa Key;
// los intermedios nunca salen por la red.
func (m *Optimistic[T, P]) Adjust(ctx context.Context, id string, patch P, debounce time.Duration) error {
	current, ok := m.store.Item(id)
	if !ok {
		return ErrItemNotFound
	}

	m.mu.Lock()
	edits, ok := m.items[id]
	if !ok || !edits.hasOutstanding() {
		// Primera edición desde la última confirmación: lo que se ve ahora es
		// el valor confirmado al que se vuelve si algo falla.
		edits = &itemEdits[T, P]{confirmed: current, slots: make(map[string]*slot[P])}
		m.items[id] = edits
	}

	key := patch.Key()
	s, ok := edits.slots[key]
	if !ok {
		s = &slot[P]{}
		edits.slots[key] = s
	}
	edits.touch(key)
	if s.timer != nil {
		s.timer.Stop()
	}
	s.patch = patch
	s.pending = true
	s.gen++
	gen := s.gen

	display := edits.project(m.apply)
	m.mu.Unlock()

	m.store.ReplaceItem(id, display)

	// El envío sobrevive a la cancelación de ctx.
	sendCtx := context.WithoutCancel(ctx)
	timer := m.clock.AfterFunc(debounce, func() { m.fire(sendCtx, id, key, gen) })

	m.mu.Lock()
	if s.gen == gen && s.pending {
		s.timer = timer
	}
	m.mu.Unlock()
	return nil
}

// State devuelve el estado agregado de las ediciones de id.
func (m *Optimistic[T, P]) State(id string) MutationState {
	m.mu.Lock()
	defer m.mu.Unlock()

	edits, ok := m.items[id]
	if !ok {
		return MutationIdle
	}
	pending, inFlight := false, false
	for _, s := range edits.slots {
		pending = pending || s.pending
		inFlight = inFlight || s.inFlight > 0
	}
	switch {
	case pending:
		return MutationPending
	case inFlight:
		return MutationInFlight
	case edits.last != "":
		return edits.last
	}
	return MutationIdle
}

// Pending lista los elementos con ediciones sin enviar.
func (m *Optimistic[T, P]) Pending() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	var ids []string
	for id, edits := range m.items {
		for _, s := range edits.slots {
			if s.pending {
				ids = append(ids, id)
				break
			}
		}
	}
	return ids
}

// Flush envía ya todas las ediciones pendientes y espera a que terminen.
func (m *Optimistic[T, P]) Flush(ctx context.Context) {
	type due struct {
		id, key string
		gen     uint64
	}
	var all []due

	m.mu.Lock()
	for id, edits := range m.items {
		for key, s := range edits.slots {
			if s.pending {
				if s.timer != nil {
					s.timer.Stop()
				}
				all = append(all, due{id: id, key: key, gen: s.gen})
			}
		}
	}
	m.mu.Unlock()

	for _, d := range all {
		m.fire(context.WithoutCancel(ctx), d.id, d.key, d.gen)
	}
	m.wg.Wait()
}

// Close cancela los timers pendientes sin enviar nada.
func (m *Optimistic[T, P]) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, edits := range m.items {
		for _, s := range edits.slots {
			if s.timer != nil {
				s.timer.Stop()
			}
			s.pending = false
			s.gen++
		}
	}
}

// Wait espera a que terminen los envíos en curso.
func (m *Optimistic[T, P]) Wait() {
	m.wg.Wait()
}

// ---------------- Internos ----------------

func (m *Optimistic[T, P]) fire(ctx context.Context, id, key string, gen uint64) {
	m.mu.Lock()
	edits, ok := m.items[id]
	if !ok {
		m.mu.Unlock()
		return
	}
	s, ok := edits.slots[key]
	if !ok || s.gen != gen || !s.pending {
		m.mu.Unlock()
		return
	}
	s.pending = false
	s.inFlight++
	s.timer = nil
	patch := s.patch
	edits.sent++
	seq := edits.sent
	m.wg.Add(1)
	m.mu.Unlock()

	defer m.wg.Done()

	mctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	m.log.Debug("sending patch", zap.String("item_id", id), zap.String("fields", key))
	server, err := m.mutator.Mutate(mctx, id, patch)
	if err != nil {
		m.rollback(id, key, err)
		return
	}
	m.confirm(id, key, gen, seq, server)
}

func (m *Optimistic[T, P]) confirm(id, key string, gen, seq uint64, server T) {
	m.mu.Lock()
	edits, ok := m.items[id]
	if !ok {
		m.mu.Unlock()
		return
	}
	if s, ok := edits.slots[key]; ok {
		s.inFlight--
		if s.gen == gen && !s.pending && s.inFlight == 0 {
			delete(edits.slots, key)
			edits.forget(key)
		}
	}
	if seq > edits.applied {
		edits.applied = seq
		edits.confirmed = server
		edits.last = MutationConfirmed
	}
	display := edits.project(m.apply)
	m.mu.Unlock()

	m.store.ReplaceItem(id, display)
	m.log.Debug("patch confirmed", zap.String("item_id", id), zap.String("fields", key))
}

func (m *Optimistic[T, P]) rollback(id, key string, cause error) {
	m.mu.Lock()
	edits, ok := m.items[id]
	if !ok {
		m.mu.Unlock()
		return
	}
	for k, s := range edits.slots {
		if s.timer != nil {
			s.timer.Stop()
		}
		// Otro envío en vuelo del mismo elemento terminará por su cuenta,
		// pero ya sin slot al que volver.
		delete(edits.slots, k)
	}
	edits.order = nil
	edits.applied = edits.sent
	edits.last = MutationRolledBack
	restored := edits.confirmed
	m.mu.Unlock()

	m.store.ReplaceItem(id, restored)

	merr := &MutationError{ItemID: id, Err: cause}
	m.log.Warn("patch rejected, rolled back", zap.String("item_id", id), zap.String("fields", key), zap.Error(cause))
	if m.onError != nil {
		m.onError(merr)
	}
}

// reconcile vuelve a proyectar las ediciones pendientes sobre datos frescos.
// Los elementos sin ediciones pendientes se dejan tal cual llegan.
func (m *Optimistic[T, P]) reconcile(items []T) []T {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.items) == 0 {
		return items
	}
	for i, it := range items {
		id := m.store.ItemID(it)
		edits, ok := m.items[id]
		if !ok {
			continue
		}
		if !edits.hasOutstanding() {
			delete(m.items, id)
			continue
		}
		edits.confirmed = it
		items[i] = edits.project(m.apply)
	}
	return items
}

func (e *itemEdits[T, P]) hasOutstanding() bool {
	for _, s := range e.slots {
		if s.pending || s.inFlight > 0 {
			return true
		}
	}
	return false
}

// project = confirmado + patches vivos, en el orden en que se tocaron.
func (e *itemEdits[T, P]) project(apply func(T, P) T) T {
	out := e.confirmed
	for _, k := range e.order {
		if s, ok := e.slots[k]; ok {
			out = apply(out, s.patch)
		}
	}
	return out
}

func (e *itemEdits[T, P]) touch(key string) {
	e.forget(key)
	e.order = append(e.order, key)
}

func (e *itemEdits[T, P]) forget(key string) {
	for i, k := range e.order {
		if k == key {
			e.order = append(e.order[:i], e.order[i+1:]...)
			return
		}
	}
}
