package listing

import (
	"strconv"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/davicafu/makethechange/pkg/clock"
	"go.uber.org/zap"
)

const (
	DefaultSearchDelay     = 300 * time.Millisecond
	DefaultMinSearchLength = 3
)

// ControllerOption configura un Controller.
type ControllerOption func(*controllerOptions)

type controllerOptions struct {
	clock       clock.Clock
	log         *zap.Logger
	searchDelay time.Duration
	minSearch   int
	viewModes   []ViewMode
}

func WithClock(c clock.Clock) ControllerOption {
	return func(o *controllerOptions) { o.clock = c }
}

func WithLogger(log *zap.Logger) ControllerOption {
	return func(o *controllerOptions) { o.log = log }
}

// WithSearchDelay fija cuánto se difiere la búsqueda tras la última tecla.
func WithSearchDelay(d time.Duration) ControllerOption {
	return func(o *controllerOptions) { o.searchDelay = d }
}

// WithMinSearchLength: por debajo de n caracteres la búsqueda no filtra.
func WithMinSearchLength(n int) ControllerOption {
	return func(o *controllerOptions) { o.minSearch = n }
}

// WithViewModes limita los modos de vista disponibles; el primero es el inicial.
func WithViewModes(modes ...ViewMode) ControllerOption {
	return func(o *controllerOptions) { o.viewModes = modes }
}

// Controller guarda el estado de filtros de una pantalla y emite el
// Descriptor derivado a sus suscriptores cada vez que cambia.
//
// El texto de búsqueda tiene dos valores: el que se muestra (SearchInput,
// inmediato) y el que filtra (diferido con un debounce). Las emisiones se
// agrupan: si llegan cambios mientras se notifica, solo se emite el último.
type Controller[F Criteria[F]] struct {
	mu sync.Mutex

	defaults F
	criteria F
	mode     PaginationMode
	pageSize int
	cursor   string
	page     int

	searchInput string
	searchGen   uint64
	searchTimer *clock.Timer

	viewModes []ViewMode
	view      ViewMode

	last     Descriptor[F]
	dirty    bool
	flushing bool
	subs     map[int]func(Descriptor[F])
	nextSub  int

	clock       clock.Clock
	log         *zap.Logger
	searchDelay time.Duration
	minSearch   int
}

// NewController crea un controlador con los criterios por defecto de la entidad.
func NewController[F Criteria[F]](defaults F, mode PaginationMode, pageSize int, opts ...ControllerOption) *Controller[F] {
	o := controllerOptions{
		clock:       clock.Real(),
		log:         zap.NewNop(),
		searchDelay: DefaultSearchDelay,
		minSearch:   DefaultMinSearchLength,
		viewModes:   DefaultViewModes,
	}
	for _, opt := range opts {
		opt(&o)
	}

	c := &Controller[F]{
		defaults:    defaults,
		criteria:    defaults,
		mode:        mode,
		pageSize:    pageSize,
		viewModes:   append([]ViewMode(nil), o.viewModes...),
		subs:        make(map[int]func(Descriptor[F])),
		clock:       o.clock,
		log:         o.log,
		searchDelay: o.searchDelay,
		minSearch:   o.minSearch,
	}
	if len(c.viewModes) > 0 {
		c.view = c.viewModes[0]
	}
	c.resetPaginationLocked()
	c.last = c.descriptorLocked()
	return c
}

// ---------------- Lectura ----------------

func (c *Controller[F]) Descriptor() Descriptor[F] {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.descriptorLocked()
}

func (c *Controller[F]) Criteria() F {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.criteria
}

func (c *Controller[F]) Mode() PaginationMode { return c.mode }

// SearchInput es el texto tal y como lo escribió el usuario.
func (c *Controller[F]) SearchInput() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.searchInput
}

// IsFilterActive es true si algún filtro difiere de su valor por defecto.
func (c *Controller[F]) IsFilterActive() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.criteria != c.defaults
}

// IsPendingFilters es true mientras hay una búsqueda diferida sin aplicar
// o se está notificando un nuevo descriptor.
func (c *Controller[F]) IsPendingFilters() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.searchTimer != nil || c.flushing
}

// ---------------- Suscripción ----------------

// Subscribe registra fn para cada descriptor nuevo. fn se llama sin locks
// tomados y puede volver a llamar al controlador.
func (c *Controller[F]) Subscribe(fn func(Descriptor[F])) (unsubscribe func()) {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := c.nextSub
	c.nextSub++
	c.subs[id] = fn
	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.subs, id)
	}
}

// ---------------- Filtros ----------------

// SetFilter cambia un filtro. Cualquier cambio fuera de la paginación
// devuelve la paginación a su valor inicial.
func (c *Controller[F]) SetFilter(field Field, value string) error {
	if field == FieldSearch {
		c.SetSearch(value)
		return nil
	}
	value = Normalize(value)

	switch field {
	case FieldCursor:
		return c.NextPage(value)
	case FieldPage:
		n, err := strconv.Atoi(value)
		if err != nil {
			return InvalidValue(field, value)
		}
		return c.GoToPage(n)
	case FieldLimit:
		return ErrUnknownField
	}

	c.mu.Lock()
	next, err := c.criteria.With(field, value)
	if err != nil {
		c.mu.Unlock()
		return err
	}
	if next != c.criteria {
		c.criteria = next
		c.resetPaginationLocked()
	}
	c.mu.Unlock()

	c.flush()
	return nil
}

// SetSearch actualiza el texto visible al momento y programa su aplicación
// como filtro cuando pasa el retardo de búsqueda sin nuevas teclas.
func (c *Controller[F]) SetSearch(text string) {
	c.mu.Lock()
	c.searchInput = text
	c.searchGen++
	gen := c.searchGen
	if c.searchTimer != nil {
		c.searchTimer.Stop()
		c.searchTimer = nil
	}
	if c.searchDelay <= 0 {
		c.mu.Unlock()
		c.commitSearch(gen)
		return
	}
	// Se asigna antes de soltar el lock; con el reloj real el callback
	// no puede adelantarse porque necesita el mismo lock.
	c.searchTimer = c.clock.AfterFunc(c.searchDelay, func() { c.commitSearch(gen) })
	c.mu.Unlock()
}

func (c *Controller[F]) commitSearch(gen uint64) {
	c.mu.Lock()
	if gen != c.searchGen {
		c.mu.Unlock()
		return
	}
	c.searchTimer = nil

	value := Normalize(c.searchInput)
	if utf8.RuneCountInString(value) < c.minSearch {
		value = ""
	}
	next, err := c.criteria.With(FieldSearch, value)
	if err != nil {
		c.mu.Unlock()
		c.log.Warn("search value rejected", zap.String("search", value), zap.Error(err))
		return
	}
	if next != c.criteria {
		c.criteria = next
		c.resetPaginationLocked()
	}
	c.mu.Unlock()

	c.flush()
}

// ResetFilters vuelve a los valores por defecto, borra el texto de búsqueda
// (incluida la búsqueda diferida pendiente) y la paginación. Emite una sola vez.
func (c *Controller[F]) ResetFilters() {
	c.mu.Lock()
	c.searchGen++
	if c.searchTimer != nil {
		c.searchTimer.Stop()
		c.searchTimer = nil
	}
	c.searchInput = ""
	c.criteria = c.defaults
	c.resetPaginationLocked()
	c.mu.Unlock()

	c.flush()
}

// ---------------- Paginación ----------------

// NextPage avanza al cursor dado. Solo en CursorMode.
func (c *Controller[F]) NextPage(cursor string) error {
	if c.mode != CursorMode {
		return ErrPaginationMode
	}
	c.mu.Lock()
	c.cursor = cursor
	c.mu.Unlock()

	c.flush()
	return nil
}

// GoToPage salta a la página n (desde 1). Solo en PageMode.
func (c *Controller[F]) GoToPage(n int) error {
	if c.mode != PageMode {
		return ErrPaginationMode
	}
	if n < 1 {
		return InvalidValue(FieldPage, strconv.Itoa(n))
	}
	c.mu.Lock()
	c.page = n
	c.mu.Unlock()

	c.flush()
	return nil
}

// ---------------- Modo de vista ----------------

func (c *Controller[F]) ViewMode() ViewMode {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.view
}

func (c *Controller[F]) ViewModes() []ViewMode {
	return append([]ViewMode(nil), c.viewModes...)
}

func (c *Controller[F]) SetViewMode(m ViewMode) error {
	if indexOf(c.viewModes, m) < 0 {
		return ErrUnknownViewMode
	}
	c.mu.Lock()
	c.view = m
	c.mu.Unlock()
	return nil
}

// CycleViewMode pasa al siguiente modo del subconjunto y lo devuelve.
func (c *Controller[F]) CycleViewMode() ViewMode {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.viewModes) == 0 {
		return c.view
	}
	c.view = c.viewModes[(indexOf(c.viewModes, c.view)+1)%len(c.viewModes)]
	return c.view
}

// ---------------- Internos ----------------

func (c *Controller[F]) descriptorLocked() Descriptor[F] {
	d := Descriptor[F]{Criteria: c.criteria, Limit: c.pageSize}
	if c.mode == PageMode {
		d.Page = c.page
	} else {
		d.Cursor = c.cursor
	}
	return d
}

func (c *Controller[F]) resetPaginationLocked() {
	c.cursor = ""
	c.page = 1
}

// flush notifica el descriptor actual si cambió. Si otra llamada ya está
// notificando, solo marca el estado como sucio y esa llamada emitirá el final.
func (c *Controller[F]) flush() {
	c.mu.Lock()
	c.dirty = true
	if c.flushing {
		c.mu.Unlock()
		return
	}
	c.flushing = true

	for c.dirty {
		c.dirty = false
		d := c.descriptorLocked()
		if d == c.last {
			continue
		}
		c.last = d
		subs := make([]func(Descriptor[F]), 0, len(c.subs))
		for _, fn := range c.subs {
			subs = append(subs, fn)
		}
		c.mu.Unlock()

		c.log.Debug("descriptor changed", zap.String("query", d.Key()))
		for _, fn := range subs {
			fn(d)
		}

		c.mu.Lock()
	}

	c.flushing = false
	c.mu.Unlock()
}
