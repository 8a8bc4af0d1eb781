package listing

import (
	"testing"
	"time"

	sharedQuery "github.com/davicafu/makethechange/internal/shared/infra/platform/query"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFlowerController(mode PaginationMode, opts ...ControllerOption) (*Controller[flowerCriteria], *[]Descriptor[flowerCriteria]) {
	c := NewController(defaultFlowerCriteria(), mode, 18, opts...)
	var emitted []Descriptor[flowerCriteria]
	c.Subscribe(func(d Descriptor[flowerCriteria]) { emitted = append(emitted, d) })
	return c, &emitted
}

func TestController_IsFilterActive(t *testing.T) {
	steps := []struct {
		field  Field
		value  string
		active bool
	}{
		{FieldCategory, "roses", true},
		{FieldStatus, "active", true},
		{FieldCategory, "all", true},
		{FieldStatus, "", false},
		{FieldSort, "name_asc", true},
		{FieldSort, "all", false},
		{FieldTags, "spring, Red,red", true},
		{FieldTags, " ", false},
	}

	c, _ := newFlowerController(CursorMode)
	for _, s := range steps {
		require.NoError(t, c.SetFilter(s.field, s.value))
		assert.Equal(t, s.active, c.IsFilterActive(), "tras %s=%q", s.field, s.value)
	}
}

func TestController_AllTokenIsNormalizedToAbsence(t *testing.T) {
	c, _ := newFlowerController(CursorMode)

	require.NoError(t, c.SetFilter(FieldCategory, "roses"))
	require.NoError(t, c.SetFilter(FieldCategory, " ALL "))

	assert.Equal(t, "", c.Criteria().Category)
	assert.False(t, c.IsFilterActive())
}

func TestController_FilterChangeResetsCursor(t *testing.T) {
	c, emitted := newFlowerController(CursorMode)

	require.NoError(t, c.NextPage("cursor-2"))
	assert.Equal(t, "cursor-2", c.Descriptor().Cursor)

	require.NoError(t, c.SetFilter(FieldStatus, "active"))

	assert.Equal(t, "", c.Descriptor().Cursor)
	assert.Len(t, *emitted, 2)
}

func TestController_FilterChangeResetsPage(t *testing.T) {
	c, _ := newFlowerController(PageMode)

	require.NoError(t, c.GoToPage(3))
	assert.Equal(t, 3, c.Descriptor().Page)
	assert.Equal(t, sharedQuery.OffsetPagination{Limit: 18, Offset: 36}, c.Descriptor().Pagination())

	require.NoError(t, c.SetFilter(FieldCategory, "tulips"))
	assert.Equal(t, 1, c.Descriptor().Page)

	// Un valor idéntico no es un cambio: la página se mantiene.
	require.NoError(t, c.GoToPage(2))
	require.NoError(t, c.SetFilter(FieldCategory, "tulips"))
	assert.Equal(t, 2, c.Descriptor().Page)
}

func TestController_PaginationModeIsEnforced(t *testing.T) {
	cursor, _ := newFlowerController(CursorMode)
	assert.ErrorIs(t, cursor.GoToPage(2), ErrPaginationMode)

	paged, _ := newFlowerController(PageMode)
	assert.ErrorIs(t, paged.NextPage("abc"), ErrPaginationMode)
	assert.ErrorIs(t, paged.GoToPage(0), ErrInvalidValue)
	assert.NoError(t, paged.SetFilter(FieldPage, "4"))
	assert.Equal(t, 4, paged.Descriptor().Page)
}

func TestController_InvalidValueKeepsState(t *testing.T) {
	c, emitted := newFlowerController(CursorMode)

	err := c.SetFilter(FieldStatus, "exploded")

	assert.ErrorIs(t, err, ErrInvalidValue)
	assert.ErrorIs(t, c.SetFilter(Field("colour"), "red"), ErrUnknownField)
	assert.Equal(t, defaultFlowerCriteria(), c.Criteria())
	assert.Empty(t, *emitted)
}

func TestController_SearchIsDeferred(t *testing.T) {
	clk := newFakeClock()
	c, emitted := newFlowerController(CursorMode, WithClock(clk))

	c.SetSearch("rose")

	// El texto visible cambia ya; el filtro todavía no.
	assert.Equal(t, "rose", c.SearchInput())
	assert.Equal(t, "", c.Criteria().Search)
	assert.True(t, c.IsPendingFilters())
	assert.Empty(t, *emitted)

	clk.Advance(DefaultSearchDelay)

	assert.Equal(t, "rose", c.Criteria().Search)
	assert.False(t, c.IsPendingFilters())
	require.Len(t, *emitted, 1)
	assert.Equal(t, "rose", (*emitted)[0].Criteria.Search)
}

func TestController_SearchCoalescesKeystrokes(t *testing.T) {
	clk := newFakeClock()
	c, emitted := newFlowerController(CursorMode, WithClock(clk))

	for _, text := range []string{"r", "ro", "ros", "rose"} {
		c.SetSearch(text)
		clk.Advance(100 * time.Millisecond)
	}
	clk.Advance(DefaultSearchDelay)

	require.Len(t, *emitted, 1)
	assert.Equal(t, "rose", (*emitted)[0].Criteria.Search)
}

func TestController_ShortSearchDoesNotFilter(t *testing.T) {
	clk := newFakeClock()
	c, emitted := newFlowerController(CursorMode, WithClock(clk))

	c.SetSearch("ro")
	clk.Advance(DefaultSearchDelay)

	assert.Equal(t, "ro", c.SearchInput())
	assert.Equal(t, "", c.Criteria().Search)
	assert.Empty(t, *emitted)
}

func TestController_ResetFiltersEmitsOnce(t *testing.T) {
	clk := newFakeClock()
	c, emitted := newFlowerController(CursorMode, WithClock(clk))

	require.NoError(t, c.SetFilter(FieldCategory, "roses"))
	require.NoError(t, c.SetFilter(FieldSort, "name_asc"))
	c.SetSearch("rose")
	clk.Advance(DefaultSearchDelay)
	c.SetSearch("roses") // queda diferida
	before := len(*emitted)

	c.ResetFilters()
	clk.Advance(time.Second)

	assert.Equal(t, before+1, len(*emitted))
	assert.Equal(t, defaultFlowerCriteria(), c.Criteria())
	assert.Equal(t, defaultSort, c.Criteria().Sort)
	assert.Equal(t, "", c.SearchInput())
	assert.False(t, c.IsFilterActive())
	assert.False(t, c.IsPendingFilters())
}

func TestController_ResetWithoutChangesDoesNotEmit(t *testing.T) {
	c, emitted := newFlowerController(CursorMode)

	c.ResetFilters()

	assert.Empty(t, *emitted)
}

func TestController_ReentrantChangesEmitFinalDescriptor(t *testing.T) {
	c := NewController(defaultFlowerCriteria(), CursorMode, 18)
	var seen []string
	c.Subscribe(func(d Descriptor[flowerCriteria]) {
		seen = append(seen, d.Criteria.Category)
		if d.Criteria.Category == "roses" {
			// Un suscriptor que encadena otro cambio durante la notificación.
			_ = c.SetFilter(FieldCategory, "tulips")
		}
	})

	require.NoError(t, c.SetFilter(FieldCategory, "roses"))

	assert.Equal(t, []string{"roses", "tulips"}, seen)
	assert.Equal(t, "tulips", c.Descriptor().Criteria.Category)
}

func TestController_ViewModes(t *testing.T) {
	c := NewController(defaultFlowerCriteria(), PageMode, 18, WithViewModes(ViewGrid, ViewList, ViewMap))

	assert.Equal(t, ViewGrid, c.ViewMode())
	assert.Equal(t, ViewList, c.CycleViewMode())
	assert.Equal(t, ViewMap, c.CycleViewMode())
	assert.Equal(t, ViewGrid, c.CycleViewMode())

	plain := NewController(defaultFlowerCriteria(), PageMode, 18)
	assert.ErrorIs(t, plain.SetViewMode(ViewMap), ErrUnknownViewMode)
	assert.NoError(t, plain.SetViewMode(ViewList))
	assert.Equal(t, ViewList, plain.ViewMode())
}

func TestController_Unsubscribe(t *testing.T) {
	c := NewController(defaultFlowerCriteria(), CursorMode, 18)
	calls := 0
	unsubscribe := c.Subscribe(func(Descriptor[flowerCriteria]) { calls++ })

	require.NoError(t, c.SetFilter(FieldCategory, "roses"))
	unsubscribe()
	require.NoError(t, c.SetFilter(FieldCategory, "tulips"))

	assert.Equal(t, 1, calls)
}
