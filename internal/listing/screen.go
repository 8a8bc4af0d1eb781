package listing

import (
	"context"
	"time"
)

// ScreenConfig reúne lo que cambia entre catálogos.
type ScreenConfig[T any, F Criteria[F], P Patch] struct {
	Defaults F
	Mode     PaginationMode
	PageSize int

	Fetcher Fetcher[T, F]
	IDOf    func(T) string
	Present func(T, ViewMode) Card

	// Edición en línea; opcional.
	Mutator  Mutator[T, P]
	Apply    func(T, P) T
	Patches  PatchBuilder[P]
	Debounce time.Duration

	ControllerOptions []ControllerOption
	BindingOptions    []BindingOption
	MutationOptions   []OptimisticOption
}

// Screen conecta los cuatro componentes de una pantalla de listado:
// cada descriptor nuevo del Controller llega al Binding.
type Screen[T any, F Criteria[F], P Patch] struct {
	Controller *Controller[F]
	List       *Binding[T, F]
	Edits      *Optimistic[T, P]
	Adapter    *Adapter[T, P]

	ctx         context.Context
	unsubscribe func()
}

func NewScreen[T any, F Criteria[F], P Patch](ctx context.Context, cfg ScreenConfig[T, F, P]) *Screen[T, F, P] {
	s := &Screen[T, F, P]{ctx: ctx}
	s.Controller = NewController(cfg.Defaults, cfg.Mode, cfg.PageSize, cfg.ControllerOptions...)
	s.List = NewBinding(cfg.Fetcher, cfg.IDOf, cfg.BindingOptions...)
	s.Adapter = NewAdapter[T, P](cfg.Present, s.Controller)

	if cfg.Mutator != nil && cfg.Apply != nil {
		s.Edits = NewOptimistic(s.List, cfg.Mutator, cfg.Apply, cfg.MutationOptions...)
		s.Adapter.WithEditing(s.Edits, cfg.Patches, cfg.Debounce)
	}

	s.unsubscribe = s.Controller.Subscribe(func(d Descriptor[F]) {
		s.List.SetDescriptor(s.ctx, d)
	})
	return s
}

// Mount hace la primera carga.
func (s *Screen[T, F, P]) Mount() {
	s.List.Mount(s.ctx, s.Controller.Descriptor())
}

// Cards presenta la página visible en el modo de vista actual.
func (s *Screen[T, F, P]) Cards() []Card {
	return s.Adapter.Cards(s.List.State().Items, s.Controller.ViewMode())
}

// Close desconecta la pantalla y descarta las ediciones sin enviar.
func (s *Screen[T, F, P]) Close() {
	s.unsubscribe()
	if s.Edits != nil {
		s.Edits.Close()
	}
}
