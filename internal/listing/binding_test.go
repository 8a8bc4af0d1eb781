package listing

import (
	"context"
	"sync"
	"testing"

	sharedQuery "github.com/davicafu/makethechange/internal/shared/infra/platform/query"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTotalPages(t *testing.T) {
	cases := []struct{ total, size, want int }{
		{0, 18, 0},
		{1, 18, 1},
		{18, 18, 1},
		{19, 18, 2},
		{40, 18, 3},
		{40, 20, 2},
		{41, 20, 3},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, TotalPages(c.total, c.size), "total=%d size=%d", c.total, c.size)
	}
}

func TestCurrentPageFromCursor(t *testing.T) {
	assert.Equal(t, 3, TotalPages(40, 18))
	assert.Equal(t, 2, CurrentPageFromCursor(40, 18, 18))
	assert.Equal(t, 1, CurrentPageFromCursor(40, 36, 18))
	assert.Equal(t, 1, CurrentPageFromCursor(0, 0, 18))
	assert.Equal(t, 3, CurrentPageFromCursor(40, 0, 18), "acotado a TotalPages")
}

func flowerDescriptor(category string) Descriptor[flowerCriteria] {
	c := defaultFlowerCriteria()
	c.Category = category
	return Descriptor[flowerCriteria]{Criteria: c, Limit: 18}
}

func TestBinding_MountFetchesAndDerivesPages(t *testing.T) {
	fetcher := &fakeFetcher{respond: func(d Descriptor[flowerCriteria]) (sharedQuery.Page[flower], error) {
		return sharedQuery.Page[flower]{Items: makeFlowers(18), Total: 40, NextCursor: "next"}, nil
	}}
	b := NewBinding[flower](fetcher, flowerID)

	b.Mount(context.Background(), flowerDescriptor(""))
	b.Wait()

	s := b.State()
	assert.False(t, s.IsPending)
	assert.False(t, s.IsFetching)
	assert.Len(t, s.Items, 18)
	assert.Equal(t, 40, s.Total)
	assert.Equal(t, 3, s.TotalPages)
	assert.Equal(t, 2, s.CurrentPage)
	assert.Equal(t, "next", s.NextCursor)
}

func TestBinding_StaleResponseIsDiscarded(t *testing.T) {
	fetcher := newGatedFetcher()
	b := NewBinding[flower](fetcher, flowerID)
	older, newer := flowerDescriptor("roses"), flowerDescriptor("tulips")

	b.Mount(context.Background(), older)
	b.SetDescriptor(context.Background(), newer)

	// B responde primero, A después.
	fetcher.serve(newer, sharedQuery.Page[flower]{Items: []flower{{ID: "t1", Name: "Tulipán"}}, Total: 1})
	fetcher.serve(older, sharedQuery.Page[flower]{Items: []flower{{ID: "r1", Name: "Rosa"}}, Total: 1})
	b.Wait()

	s := b.State()
	require.Len(t, s.Items, 1)
	assert.Equal(t, "t1", s.Items[0].ID)
	assert.Equal(t, newer, b.Descriptor())
}

func TestBinding_SameDescriptorIsNoop(t *testing.T) {
	fetcher := &fakeFetcher{}
	b := NewBinding[flower](fetcher, flowerID)

	b.SetDescriptor(context.Background(), flowerDescriptor("roses"))
	assert.Empty(t, fetcher.Calls(), "sin montar no se pide nada")

	b.Mount(context.Background(), flowerDescriptor("roses"))
	b.SetDescriptor(context.Background(), flowerDescriptor("roses"))
	b.Wait()

	assert.Len(t, fetcher.Calls(), 1)
}

func TestBinding_FocusAlwaysRefetches(t *testing.T) {
	fetcher := &fakeFetcher{}
	b := NewBinding[flower](fetcher, flowerID)

	b.Focus(context.Background())
	assert.Empty(t, fetcher.Calls())

	b.Mount(context.Background(), flowerDescriptor(""))
	b.Wait()
	b.Focus(context.Background())
	b.Wait()

	assert.Len(t, fetcher.Calls(), 2)
}

func TestBinding_ErrorThenRefetch(t *testing.T) {
	fail := true
	fetcher := &fakeFetcher{}
	fetcher.respond = func(d Descriptor[flowerCriteria]) (sharedQuery.Page[flower], error) {
		if fail {
			return sharedQuery.Page[flower]{}, errBoom
		}
		return sharedQuery.Page[flower]{Items: makeFlowers(2), Total: 2}, nil
	}
	b := NewBinding[flower](fetcher, flowerID)

	b.Mount(context.Background(), flowerDescriptor(""))
	b.Wait()

	s := b.State()
	assert.True(t, s.IsError)
	assert.False(t, s.IsPending)
	var fetchErr *FetchError
	require.ErrorAs(t, s.Err, &fetchErr)
	assert.ErrorIs(t, s.Err, errBoom)
	assert.Len(t, fetcher.Calls(), 1, "sin reintentos automáticos")

	fail = false
	b.Refetch(context.Background())
	b.Wait()

	s = b.State()
	assert.False(t, s.IsError)
	assert.Len(t, s.Items, 2)
	assert.Equal(t, fetcher.Calls()[0], fetcher.Calls()[1], "el reintento repite el mismo descriptor")
}

func TestBinding_CachedDescriptorShownWhileRevalidating(t *testing.T) {
	fetcher := newGatedFetcher()
	b := NewBinding[flower](fetcher, flowerID)
	roses, tulips := flowerDescriptor("roses"), flowerDescriptor("tulips")

	fetcher.serve(roses, sharedQuery.Page[flower]{Items: []flower{{ID: "r1"}}, Total: 1})
	fetcher.serve(tulips, sharedQuery.Page[flower]{Items: []flower{{ID: "t1"}}, Total: 1})
	b.Mount(context.Background(), roses)
	b.Wait()
	b.SetDescriptor(context.Background(), tulips)
	b.Wait()

	var states []ListState[flower]
	b.Subscribe(func(s ListState[flower]) { states = append(states, s) })
	b.SetDescriptor(context.Background(), roses)
	b.Wait()

	require.NotEmpty(t, states)
	first := states[0]
	assert.False(t, first.IsPending, "la copia cacheada se muestra al instante")
	assert.True(t, first.IsFetching)
	require.Len(t, first.Items, 1)
	assert.Equal(t, "r1", first.Items[0].ID)
}

func TestBinding_CursorPagesAccumulateLoadedCount(t *testing.T) {
	fetcher := &fakeFetcher{respond: func(d Descriptor[flowerCriteria]) (sharedQuery.Page[flower], error) {
		if d.Cursor == "" {
			return sharedQuery.Page[flower]{Items: makeFlowers(18), Total: 40, NextCursor: "c2"}, nil
		}
		return sharedQuery.Page[flower]{Items: makeFlowers(18), Total: 40, NextCursor: "c3"}, nil
	}}
	b := NewBinding[flower](fetcher, flowerID)
	first := flowerDescriptor("")

	b.Mount(context.Background(), first)
	b.Wait()
	assert.Equal(t, 2, b.State().CurrentPage)

	second := first
	second.Cursor = "c2"
	b.SetDescriptor(context.Background(), second)
	b.Wait()

	assert.Equal(t, 1, b.State().CurrentPage)
}

func TestBinding_ReplaceItemOnlyTouchesVisibleCopy(t *testing.T) {
	fetcher := &fakeFetcher{}
	b := NewBinding[flower](fetcher, flowerID)
	d := flowerDescriptor("")
	b.Mount(context.Background(), d)
	b.Wait()

	edited := flower{ID: "f1", Name: "Editada"}
	assert.True(t, b.ReplaceItem("f1", edited))
	assert.False(t, b.ReplaceItem("missing", edited))

	got, ok := b.Item("f1")
	require.True(t, ok)
	assert.Equal(t, "Editada", got.Name)

	cached, ok := b.cache.Get(d)
	require.True(t, ok)
	assert.Equal(t, "Flor 1", cached.Items[0].Name)
}

func TestBinding_SubscribersNeverSeeAnOlderState(t *testing.T) {
	fetcher := newGatedFetcher()
	b := NewBinding[flower](fetcher, flowerID)
	roses, tulips := flowerDescriptor("roses"), flowerDescriptor("tulips")

	fetcher.serve(roses, sharedQuery.Page[flower]{Items: []flower{{ID: "r1", Name: "Rosa"}}, Total: 1})
	b.Mount(context.Background(), roses)
	b.Wait()

	var (
		mu      sync.Mutex
		states  []ListState[flower]
		blocked = make(chan struct{})
		release = make(chan struct{})
		once    sync.Once
	)
	b.Subscribe(func(s ListState[flower]) {
		// la entrega de la edición se queda parada mientras llega la página nueva
		if len(s.Items) == 1 && s.Items[0].Name == "Editada" {
			once.Do(func() {
				close(blocked)
				<-release
			})
		}
		mu.Lock()
		states = append(states, s)
		mu.Unlock()
	})

	edited := make(chan bool)
	go func() { edited <- b.ReplaceItem("r1", flower{ID: "r1", Name: "Editada"}) }()
	<-blocked

	b.SetDescriptor(context.Background(), tulips)
	fetcher.serve(tulips, sharedQuery.Page[flower]{Items: []flower{{ID: "t1", Name: "Tulipán"}}, Total: 1})
	b.Wait()

	close(release)
	require.True(t, <-edited)

	mu.Lock()
	defer mu.Unlock()
	require.NotEmpty(t, states)
	last := states[len(states)-1]
	require.Len(t, last.Items, 1)
	assert.Equal(t, "t1", last.Items[0].ID, "la última entrega es la página nueva")
	assert.False(t, last.IsFetching)
	assert.Equal(t, b.State().Items, last.Items)
}
