package listing

import (
	"strings"
	"sync"
	"time"

	"github.com/davicafu/makethechange/pkg/clock"
)

// DefaultMarkerDelay es el debounce del filtro de marcadores del mapa.
const DefaultMarkerDelay = 200 * time.Millisecond

// Bounds es el rectángulo visible del mapa.
type Bounds struct {
	South, West, North, East float64
}

func (b Bounds) IsZero() bool { return b == Bounds{} }

func (b Bounds) Contains(p GeoPoint) bool {
	return p.Lat >= b.South && p.Lat <= b.North && p.Lng >= b.West && p.Lng <= b.East
}

// MarkerFilter filtra las cards con ubicación por texto y por área visible.
// El mapa no sabe de descriptores, así que el recálculo va con un timer.
type MarkerFilter struct {
	mu       sync.Mutex
	clock    clock.Clock
	delay    time.Duration
	cards    []Card
	text     string
	bounds   Bounds
	markers  []Card
	timer    *clock.Timer
	gen      uint64
	onChange func([]Card)
}

func NewMarkerFilter(c clock.Clock, delay time.Duration, onChange func([]Card)) *MarkerFilter {
	if c == nil {
		c = clock.Real()
	}
	return &MarkerFilter{clock: c, delay: delay, onChange: onChange}
}

func (f *MarkerFilter) SetCards(cards []Card) {
	f.update(func() { f.cards = append([]Card(nil), cards...) })
}

func (f *MarkerFilter) SetText(text string) {
	f.update(func() { f.text = strings.ToLower(strings.TrimSpace(text)) })
}

func (f *MarkerFilter) SetBounds(b Bounds) {
	f.update(func() { f.bounds = b })
}

// Markers devuelve el último resultado calculado.
func (f *MarkerFilter) Markers() []Card {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Card(nil), f.markers...)
}

func (f *MarkerFilter) update(change func()) {
	f.mu.Lock()
	change()
	if f.timer != nil {
		f.timer.Stop()
	}
	f.gen++
	gen := f.gen
	f.mu.Unlock()

	t := f.clock.AfterFunc(f.delay, func() { f.recompute(gen) })

	f.mu.Lock()
	if f.gen == gen {
		f.timer = t
	}
	f.mu.Unlock()
}

func (f *MarkerFilter) recompute(gen uint64) {
	f.mu.Lock()
	if gen != f.gen {
		f.mu.Unlock()
		return
	}
	f.timer = nil

	var out []Card
	for _, c := range f.cards {
		if c.Location == nil {
			continue
		}
		if !f.bounds.IsZero() && !f.bounds.Contains(*c.Location) {
			continue
		}
		if f.text != "" && !strings.Contains(strings.ToLower(c.Title+" "+c.Subtitle), f.text) {
			continue
		}
		out = append(out, c)
	}
	f.markers = out
	cb := f.onChange
	f.mu.Unlock()

	if cb != nil {
		cb(append([]Card(nil), out...))
	}
}
