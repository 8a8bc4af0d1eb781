package listing

import (
	"context"
	"sync"

	sharedQuery "github.com/davicafu/makethechange/internal/shared/infra/platform/query"
	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"
)

// DefaultPageCacheSize es el número de páginas que recuerda un Binding.
const DefaultPageCacheSize = 32

// Fetcher trae una página para un descriptor (transporte HTTP, servicio local...).
type Fetcher[T any, F Criteria[F]] interface {
	Fetch(ctx context.Context, d Descriptor[F]) (sharedQuery.Page[T], error)
}

// FetcherFunc adapta una función a Fetcher.
type FetcherFunc[T any, F Criteria[F]] func(ctx context.Context, d Descriptor[F]) (sharedQuery.Page[T], error)

func (f FetcherFunc[T, F]) Fetch(ctx context.Context, d Descriptor[F]) (sharedQuery.Page[T], error) {
	return f(ctx, d)
}

// Reconciler se aplica a los elementos recién llegados del servidor antes de
// mostrarlos (p.ej. para volver a proyectar ediciones optimistas pendientes).
type Reconciler[T any] func(items []T) []T

// ListState es lo que ve la UI de una lista.
type ListState[T any] struct {
	Items       []T
	Total       int
	TotalPages  int
	NextCursor  string
	CurrentPage int
	// IsPending: todavía no hay datos para el descriptor actual.
	IsPending bool
	// IsFetching: hay una petición en vuelo (también al revalidar).
	IsFetching bool
	IsError    bool
	Err        error
}

// BindingOption configura un Binding.
type BindingOption func(*bindingOptions)

type bindingOptions struct {
	log       *zap.Logger
	cacheSize int
}

func WithBindingLogger(log *zap.Logger) BindingOption {
	return func(o *bindingOptions) { o.log = log }
}

func WithPageCacheSize(n int) BindingOption {
	return func(o *bindingOptions) { o.cacheSize = n }
}

// Binding mantiene la página visible del descriptor actual.
//
// Cada petición lleva un número de secuencia y solo la última puede
// publicar su resultado: una respuesta lenta de un descriptor anterior
// nunca pisa a una más nueva. Las páginas recibidas se guardan en una LRU
// por descriptor; volver a un descriptor conocido muestra su copia al
// instante mientras se revalida. Items es una copia local: las ediciones
// optimistas nunca tocan la página cacheada.
type Binding[T any, F Criteria[F]] struct {
	mu sync.Mutex

	fetcher Fetcher[T, F]
	idOf    func(T) string
	cache   *lru.Cache[Descriptor[F], sharedQuery.Page[T]]
	log     *zap.Logger

	desc     Descriptor[F]
	mounted  bool
	seq      uint64
	inflight map[uint64]struct{}

	hasData      bool
	items        []T
	page         sharedQuery.Page[T]
	loadedBefore int
	err          error

	reconcilers []Reconciler[T]
	subs        map[int]func(ListState[T])
	nextSub     int
	dirty       bool
	publishing  bool

	wg sync.WaitGroup
}

// NewBinding crea un Binding. idOf identifica un elemento para ReplaceItem.
func NewBinding[T any, F Criteria[F]](fetcher Fetcher[T, F], idOf func(T) string, opts ...BindingOption) *Binding[T, F] {
	o := bindingOptions{log: zap.NewNop(), cacheSize: DefaultPageCacheSize}
	for _, opt := range opts {
		opt(&o)
	}

	cache, err := lru.New[Descriptor[F], sharedQuery.Page[T]](max(o.cacheSize, 1))
	if err != nil {
		// Solo falla con tamaño <= 0, descartado arriba.
		panic(err)
	}

	return &Binding[T, F]{
		fetcher:  fetcher,
		idOf:     idOf,
		cache:    cache,
		log:      o.log,
		inflight: make(map[uint64]struct{}),
		subs:     make(map[int]func(ListState[T])),
	}
}

// ---------------- Ciclo de vida ----------------

// Mount monta la lista sobre d y siempre pide datos frescos.
func (b *Binding[T, F]) Mount(ctx context.Context, d Descriptor[F]) {
	b.mu.Lock()
	b.mounted = true
	b.mu.Unlock()

	b.load(ctx, d, "mount")
}

// SetDescriptor cambia la consulta. No hace nada si d es igual al actual.
// Antes de Mount solo recuerda el descriptor.
func (b *Binding[T, F]) SetDescriptor(ctx context.Context, d Descriptor[F]) {
	b.mu.Lock()
	if !b.mounted {
		b.desc = d
		b.mu.Unlock()
		return
	}
	if d == b.desc {
		b.mu.Unlock()
		return
	}
	b.mu.Unlock()

	b.load(ctx, d, "descriptor")
}

// Focus revalida al recuperar el foco: los datos pueden haber cambiado en otra sesión.
func (b *Binding[T, F]) Focus(ctx context.Context) {
	b.refresh(ctx, "focus")
}

// Refetch repite la consulta actual. Es el único reintento tras un error.
func (b *Binding[T, F]) Refetch(ctx context.Context) {
	b.refresh(ctx, "refetch")
}

// Wait bloquea hasta que terminan todas las peticiones lanzadas.
func (b *Binding[T, F]) Wait() {
	b.wg.Wait()
}

// ---------------- Lectura ----------------

func (b *Binding[T, F]) Descriptor() Descriptor[F] {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.desc
}

func (b *Binding[T, F]) State() ListState[T] {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.stateLocked()
}

// Subscribe recibe el estado tras cada cambio. Se llama sin locks tomados y
// nunca en paralelo; con cambios concurrentes puede saltarse fotos
// intermedias, pero no llega una anterior a otra ya entregada.
func (b *Binding[T, F]) Subscribe(fn func(ListState[T])) (unsubscribe func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextSub
	b.nextSub++
	b.subs[id] = fn
	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.subs, id)
	}
}

// ---------------- Acceso por elemento ----------------

// ItemID identifica un elemento.
func (b *Binding[T, F]) ItemID(item T) string {
	return b.idOf(item)
}

// Item devuelve el elemento visible con ese id.
func (b *Binding[T, F]) Item(id string) (T, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, it := range b.items {
		if b.idOf(it) == id {
			return it, true
		}
	}
	var zero T
	return zero, false
}

// ReplaceItem sustituye el elemento visible con ese id. Devuelve false si
// no está en la página actual.
func (b *Binding[T, F]) ReplaceItem(id string, item T) bool {
	b.mu.Lock()
	found := false
	for i, it := range b.items {
		if b.idOf(it) == id {
			b.items[i] = item
			found = true
			break
		}
	}
	b.mu.Unlock()
	if !found {
		return false
	}

	b.publish()
	return true
}

// AddReconciler registra r para los datos que lleguen a partir de ahora.
func (b *Binding[T, F]) AddReconciler(r Reconciler[T]) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.reconcilers = append(b.reconcilers, r)
}

// ---------------- Internos ----------------

func (b *Binding[T, F]) refresh(ctx context.Context, reason string) {
	b.mu.Lock()
	if !b.mounted {
		b.mu.Unlock()
		return
	}
	d := b.desc
	b.mu.Unlock()

	b.load(ctx, d, reason)
}

func (b *Binding[T, F]) load(ctx context.Context, d Descriptor[F], reason string) {
	b.mu.Lock()
	if d != b.desc {
		b.advanceLocked(d)
		if cached, ok := b.cache.Get(d); ok {
			b.showLocked(cached)
		} else {
			b.hasData = false
			b.items = nil
			b.page = sharedQuery.Page[T]{}
		}
		b.err = nil
		b.desc = d
	}
	b.seq++
	seq := b.seq
	b.inflight[seq] = struct{}{}
	b.mu.Unlock()

	b.publish()
	b.log.Debug("fetching list", zap.String("reason", reason), zap.String("query", d.Key()), zap.Uint64("seq", seq))

	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		page, err := b.fetcher.Fetch(ctx, d)
		b.commit(seq, d, page, err)
	}()
}

func (b *Binding[T, F]) commit(seq uint64, d Descriptor[F], page sharedQuery.Page[T], err error) {
	b.mu.Lock()
	delete(b.inflight, seq)
	if seq != b.seq {
		b.mu.Unlock()
		b.log.Debug("discarding stale response", zap.String("query", d.Key()), zap.Uint64("seq", seq))
		return
	}

	if err != nil {
		b.err = &FetchError{Key: d.Key(), Err: err}
		b.log.Warn("list fetch failed", zap.String("query", d.Key()), zap.Error(err))
	} else {
		b.cache.Add(d, page)
		b.showLocked(page)
		b.err = nil
	}
	b.mu.Unlock()

	b.publish()
}

// advanceLocked acumula los elementos ya cargados cuando d es la página
// siguiente de la actual (mismo criterio, cursor = NextCursor).
func (b *Binding[T, F]) advanceLocked(d Descriptor[F]) {
	switch {
	case d.Cursor == "":
		b.loadedBefore = 0
	case d.Criteria == b.desc.Criteria && d.Cursor == b.page.NextCursor && b.hasData:
		b.loadedBefore += len(b.page.Items)
	}
}

func (b *Binding[T, F]) showLocked(page sharedQuery.Page[T]) {
	items := append([]T(nil), page.Items...)
	for _, r := range b.reconcilers {
		items = r(items)
	}
	b.page = page
	b.items = items
	b.hasData = true
}

func (b *Binding[T, F]) stateLocked() ListState[T] {
	s := ListState[T]{
		Items:      append([]T(nil), b.items...),
		Total:      b.page.Total,
		TotalPages: TotalPages(b.page.Total, b.desc.Limit),
		NextCursor: b.page.NextCursor,
		IsPending:  !b.hasData && b.err == nil,
		IsFetching: len(b.inflight) > 0,
		IsError:    b.err != nil,
		Err:        b.err,
	}
	if b.desc.Page > 0 {
		s.CurrentPage = b.desc.Page
	} else if b.hasData {
		s.CurrentPage = CurrentPageFromCursor(b.page.Total, b.loadedBefore+len(b.page.Items), b.desc.Limit)
	}
	return s
}

// publish entrega el estado actual a los suscriptores. Las entregas no se
// solapan: si otra goroutine ya está notificando, solo marca el estado como
// sucio y esa goroutine entrega la última foto al terminar. Así un
// suscriptor nunca recibe un estado anterior a uno que ya vio.
func (b *Binding[T, F]) publish() {
	b.mu.Lock()
	b.dirty = true
	if b.publishing {
		b.mu.Unlock()
		return
	}
	b.publishing = true

	for b.dirty {
		b.dirty = false
		state := b.stateLocked()
		subs := make([]func(ListState[T]), 0, len(b.subs))
		for _, fn := range b.subs {
			subs = append(subs, fn)
		}
		b.mu.Unlock()

		for _, fn := range subs {
			fn(state)
		}

		b.mu.Lock()
	}

	b.publishing = false
	b.mu.Unlock()
}
