package listing

import (
	"context"
	"fmt"
	"time"
)

// ---------------- Card ----------------

// Card es la descripción renderizable de un elemento en un modo de vista.
type Card struct {
	ID          string    `json:"id"`
	Variant     ViewMode  `json:"variant"`
	Title       string    `json:"title"`
	Subtitle    string    `json:"subtitle,omitempty"`
	Description string    `json:"description,omitempty"`
	ImageURL    string    `json:"image_url,omitempty"`
	Href        string    `json:"href,omitempty"`
	Badges      []Badge   `json:"badges,omitempty"`
	Counters    []Counter `json:"counters,omitempty"`
	Toggles     []Toggle  `json:"toggles,omitempty"`
	Location    *GeoPoint `json:"location,omitempty"`
}

// Badge es una etiqueta. Si Field no está vacío, pulsarla filtra por Value.
type Badge struct {
	Label string `json:"label"`
	Tone  string `json:"tone,omitempty"`
	Field Field  `json:"field,omitempty"`
	Value string `json:"value,omitempty"`
}

// Counter es un valor numérico editable en línea.
type Counter struct {
	Field string  `json:"field"`
	Label string  `json:"label"`
	Value float64 `json:"value"`
	Step  float64 `json:"step"`
	Min   float64 `json:"min"`
}

// Toggle es un interruptor editable en línea.
type Toggle struct {
	Field string `json:"field"`
	Label string `json:"label"`
	On    bool   `json:"on"`
}

type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

func (c Card) toggle(field string) (Toggle, bool) {
	for _, t := range c.Toggles {
		if t.Field == field {
			return t, true
		}
	}
	return Toggle{}, false
}

func (c Card) counter(field string) (Counter, bool) {
	for _, n := range c.Counters {
		if n.Field == field {
			return n, true
		}
	}
	return Counter{}, false
}

// ---------------- Adapter ----------------

// FilterSetter es la parte del Controller que usan los atajos de filtro.
type FilterSetter interface {
	SetFilter(field Field, value string) error
}

// Adjuster es la parte de Optimistic que usan los controles en línea.
type Adjuster[P Patch] interface {
	Adjust(ctx context.Context, id string, patch P, debounce time.Duration) error
}

// PatchBuilder traduce una acción sobre una Card en el patch de la entidad.
type PatchBuilder[P Patch] struct {
	Toggle  func(field string, on bool) (P, error)
	Counter func(field string, value float64) (P, error)
}

// Adapter es la capa fina entre elementos y Cards. No guarda estado propio:
// los atajos de filtro van al Controller y las ediciones a Optimistic.
type Adapter[T any, P Patch] struct {
	present  func(T, ViewMode) Card
	filters  FilterSetter
	adjuster Adjuster[P]
	patches  PatchBuilder[P]
	debounce time.Duration
}

// NewAdapter crea un adapter de solo lectura más atajos de filtro.
func NewAdapter[T any, P Patch](present func(T, ViewMode) Card, filters FilterSetter) *Adapter[T, P] {
	return &Adapter[T, P]{present: present, filters: filters, debounce: DefaultMutationDebounce}
}

// WithEditing habilita Toggle/Step sobre adjuster.
func (a *Adapter[T, P]) WithEditing(adjuster Adjuster[P], patches PatchBuilder[P], debounce time.Duration) *Adapter[T, P] {
	a.adjuster = adjuster
	a.patches = patches
	if debounce > 0 {
		a.debounce = debounce
	}
	return a
}

// Cards presenta items en el modo dado.
func (a *Adapter[T, P]) Cards(items []T, mode ViewMode) []Card {
	cards := make([]Card, 0, len(items))
	for _, it := range items {
		c := a.present(it, mode)
		c.Variant = mode
		cards = append(cards, c)
	}
	return cards
}

// SelectBadge usa la badge como atajo de filtro. Nunca llama al fetcher:
// el refetch llega por la suscripción del Controller.
func (a *Adapter[T, P]) SelectBadge(b Badge) error {
	if b.Field == "" {
		return fmt.Errorf("%w: badge %q is not a filter shortcut", ErrInvalidValue, b.Label)
	}
	return a.filters.SetFilter(b.Field, b.Value)
}

// Toggle invierte el interruptor field de la card.
func (a *Adapter[T, P]) Toggle(ctx context.Context, card Card, field string) error {
	t, ok := card.toggle(field)
	if !ok || a.adjuster == nil || a.patches.Toggle == nil {
		return fmt.Errorf("%w: toggle %q", ErrUnknownField, field)
	}
	patch, err := a.patches.Toggle(field, !t.On)
	if err != nil {
		return err
	}
	return a.adjuster.Adjust(ctx, card.ID, patch, a.debounce)
}

// Step suma delta pasos al contador field de la card (sin bajar de su mínimo).
func (a *Adapter[T, P]) Step(ctx context.Context, card Card, field string, delta int) error {
	n, ok := card.counter(field)
	if !ok || a.adjuster == nil || a.patches.Counter == nil {
		return fmt.Errorf("%w: counter %q", ErrUnknownField, field)
	}
	step := n.Step
	if step == 0 {
		step = 1
	}
	value := max(n.Value+float64(delta)*step, n.Min)
	patch, err := a.patches.Counter(field, value)
	if err != nil {
		return err
	}
	return a.adjuster.Adjust(ctx, card.ID, patch, a.debounce)
}
