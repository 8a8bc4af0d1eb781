package listing

import (
	"context"
	"errors"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/davicafu/makethechange/pkg/clock"
	sharedQuery "github.com/davicafu/makethechange/internal/shared/infra/platform/query"
)

// ---------------- Criterios de prueba ----------------

const defaultSort = "created_at_desc"

type flowerCriteria struct {
	Search   string
	Status   string
	Category string
	Tags     TagSet
	Sort     string
}

func defaultFlowerCriteria() flowerCriteria {
	return flowerCriteria{Sort: defaultSort}
}

func (c flowerCriteria) With(field Field, value string) (flowerCriteria, error) {
	switch field {
	case FieldSearch:
		c.Search = value
	case FieldStatus:
		if value != "" && value != "active" && value != "draft" {
			return c, InvalidValue(field, value)
		}
		c.Status = value
	case FieldCategory:
		c.Category = value
	case FieldTags:
		c.Tags = NewTagSet(value)
	case FieldSort:
		if value == "" {
			value = defaultSort
		}
		c.Sort = value
	default:
		return c, ErrUnknownField
	}
	return c, nil
}

func (c flowerCriteria) Values() url.Values {
	v := url.Values{}
	if c.Search != "" {
		v.Set(string(FieldSearch), c.Search)
	}
	if c.Status != "" {
		v.Set(string(FieldStatus), c.Status)
	}
	if c.Category != "" {
		v.Set(string(FieldCategory), c.Category)
	}
	if c.Tags != "" {
		v.Set(string(FieldTags), string(c.Tags))
	}
	v.Set(string(FieldSort), c.Sort)
	return v
}

// ---------------- Elementos y patches ----------------

type flower struct {
	ID       string
	Name     string
	Category string
	Stock    int
	Featured bool
}

func flowerID(f flower) string { return f.ID }

type flowerPatch struct {
	Stock    *int
	Featured *bool
}

func (p flowerPatch) Key() string {
	switch {
	case p.Stock != nil && p.Featured != nil:
		return "featured,stock"
	case p.Stock != nil:
		return "stock"
	case p.Featured != nil:
		return "featured"
	}
	return ""
}

func stockPatch(n int) flowerPatch { return flowerPatch{Stock: &n} }

func featuredPatch(on bool) flowerPatch { return flowerPatch{Featured: &on} }

func applyFlowerPatch(f flower, p flowerPatch) flower {
	if p.Stock != nil {
		f.Stock = *p.Stock
	}
	if p.Featured != nil {
		f.Featured = *p.Featured
	}
	return f
}

func presentFlower(f flower, mode ViewMode) Card {
	return Card{
		ID:    f.ID,
		Title: f.Name,
		Badges: []Badge{
			{Label: f.Category, Field: FieldCategory, Value: f.Category},
		},
		Counters: []Counter{{Field: "stock", Label: "Stock", Value: float64(f.Stock), Step: 1}},
		Toggles:  []Toggle{{Field: "featured", Label: "Destacado", On: f.Featured}},
	}
}

var flowerPatches = PatchBuilder[flowerPatch]{
	Toggle: func(field string, on bool) (flowerPatch, error) {
		if field != "featured" {
			return flowerPatch{}, ErrUnknownField
		}
		return featuredPatch(on), nil
	},
	Counter: func(field string, value float64) (flowerPatch, error) {
		if field != "stock" {
			return flowerPatch{}, ErrUnknownField
		}
		return stockPatch(int(value)), nil
	},
}

func makeFlowers(n int) []flower {
	out := make([]flower, n)
	for i := range out {
		out[i] = flower{ID: "f" + strconv.Itoa(i+1), Name: "Flor " + strconv.Itoa(i+1), Category: "roses", Stock: 10}
	}
	return out
}

// ---------------- Fakes ----------------

// fakeFetcher cuenta las llamadas y responde con lo que diga respond.
type fakeFetcher struct {
	mu      sync.Mutex
	calls   []Descriptor[flowerCriteria]
	respond func(d Descriptor[flowerCriteria]) (sharedQuery.Page[flower], error)
}

func (f *fakeFetcher) Fetch(ctx context.Context, d Descriptor[flowerCriteria]) (sharedQuery.Page[flower], error) {
	f.mu.Lock()
	f.calls = append(f.calls, d)
	respond := f.respond
	f.mu.Unlock()

	if respond == nil {
		return sharedQuery.Page[flower]{Items: makeFlowers(3), Total: 3}, nil
	}
	return respond(d)
}

func (f *fakeFetcher) Calls() []Descriptor[flowerCriteria] {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Descriptor[flowerCriteria](nil), f.calls...)
}

// gatedFetcher bloquea cada petición hasta que el test la libera.
type gatedFetcher struct {
	mu    sync.Mutex
	gates map[string]chan struct{}
	pages map[string]sharedQuery.Page[flower]
}

func newGatedFetcher() *gatedFetcher {
	return &gatedFetcher{gates: map[string]chan struct{}{}, pages: map[string]sharedQuery.Page[flower]{}}
}

func (g *gatedFetcher) gate(d Descriptor[flowerCriteria]) chan struct{} {
	g.mu.Lock()
	defer g.mu.Unlock()
	ch, ok := g.gates[d.Key()]
	if !ok {
		ch = make(chan struct{})
		g.gates[d.Key()] = ch
	}
	return ch
}

func (g *gatedFetcher) serve(d Descriptor[flowerCriteria], page sharedQuery.Page[flower]) {
	g.mu.Lock()
	g.pages[d.Key()] = page
	g.mu.Unlock()
	close(g.gate(d))
}

func (g *gatedFetcher) Fetch(ctx context.Context, d Descriptor[flowerCriteria]) (sharedQuery.Page[flower], error) {
	<-g.gate(d)
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.pages[d.Key()], nil
}

// fakeMutator registra lo que se envía y responde con el patch aplicado.
type fakeMutator struct {
	mu    sync.Mutex
	sent  []flowerPatch
	ids   []string
	fail  error
	store map[string]flower
}

func (m *fakeMutator) Mutate(ctx context.Context, id string, p flowerPatch) (flower, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, p)
	m.ids = append(m.ids, id)
	if m.fail != nil {
		return flower{}, m.fail
	}
	f := applyFlowerPatch(m.store[id], p)
	m.store[id] = f
	return f, nil
}

func (m *fakeMutator) Sent() []flowerPatch {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]flowerPatch(nil), m.sent...)
}

var errBoom = errors.New("boom")

func newFakeClock() *clock.FakeClock {
	return clock.Fake(time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC))
}
