package application

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	blogDomain "github.com/davicafu/makethechange/internal/blog/domain"
	blogMemory "github.com/davicafu/makethechange/internal/blog/infra/outbound/db/memory"
	"github.com/davicafu/makethechange/internal/listing"
	"github.com/davicafu/makethechange/internal/shared/infra/mocks"
	"github.com/davicafu/makethechange/pkg/clock"
)

func seedPosts(n int) []blogDomain.Post {
	base := time.Date(2025, 1, 1, 8, 0, 0, 0, time.UTC)
	authors := []string{"Lucía", "Jorge"}
	out := make([]blogDomain.Post, n)
	for i := range out {
		status := blogDomain.PostPublished
		if i == 0 {
			status = blogDomain.PostDraft
		}
		out[i] = blogDomain.Post{
			ID:          uuid.New(),
			Title:       fmt.Sprintf("Diario %02d", i),
			Slug:        fmt.Sprintf("diario-%02d", i),
			Excerpt:     "Así avanza la plantación del bosque",
			Author:      authors[i%2],
			Tags:        []string{"diario"},
			Status:      status,
			ReadMinutes: 4,
			PublishedAt: base.Add(time.Duration(i) * 24 * time.Hour),
			CreatedAt:   base,
			UpdatedAt:   base,
		}
	}
	return out
}

func TestPostScreen_CursorAndSearch(t *testing.T) {
	ctx := context.Background()
	svc := NewPostService(blogMemory.NewPostRepoMemory(seedPosts(26)...), mocks.NewDummyCache(), nil)
	fake := clock.Fake(time.Now())

	cfg := NewScreenConfig(svc, svc, time.Hour)
	cfg.ControllerOptions = append(cfg.ControllerOptions, listing.WithClock(fake))
	screen := listing.NewScreen(ctx, cfg)
	defer screen.Close()

	screen.Mount()
	screen.List.Wait()
	state := screen.List.State()
	assert.Equal(t, 25, state.Total, "el borrador no aparece")
	require.Len(t, state.Items, blogDomain.PageSize)
	assert.Equal(t, "Diario 25", state.Items[0].Title)

	// "ver más" con el cursor de la página
	require.NoError(t, screen.Controller.NextPage(state.NextCursor))
	screen.List.Wait()
	state = screen.List.State()
	require.Len(t, state.Items, 5)
	assert.Equal(t, "Diario 05", state.Items[0].Title)
	assert.Equal(t, listing.CurrentPageFromCursor(25, 25, blogDomain.PageSize), state.CurrentPage)
	assert.Empty(t, state.NextCursor)

	// La búsqueda se aplica tras el debounce y vuelve al principio
	screen.Controller.SetSearch("diario 1")
	assert.Equal(t, "diario 1", screen.Controller.SearchInput())
	assert.True(t, screen.Controller.IsPendingFilters())
	fake.Advance(listing.DefaultSearchDelay)
	screen.List.Wait()

	state = screen.List.State()
	assert.Equal(t, 10, state.Total)
	assert.Equal(t, 1, state.CurrentPage)
	assert.Empty(t, screen.Controller.Descriptor().Cursor)

	// Badge de autor como atajo
	card := screen.Cards()[0]
	require.NoError(t, screen.Adapter.SelectBadge(card.Badges[1]))
	screen.List.Wait()
	for _, p := range screen.List.State().Items {
		assert.Equal(t, card.Badges[1].Value, p.Author)
	}

	screen.Controller.ResetFilters()
	screen.List.Wait()
	assert.Equal(t, 25, screen.List.State().Total)
	assert.False(t, screen.Controller.IsFilterActive())
}

func TestPresentPost_Topic(t *testing.T) {
	p := seedPosts(2)[1]

	card := PresentPost(p, listing.ViewGrid)
	assert.Equal(t, listing.Badge{Label: "Medio ambiente", Tone: "success"}, card.Badges[0])
	assert.ErrorIs(t, listing.NewAdapter[blogDomain.Post, blogDomain.PostPatch](PresentPost, nil).SelectBadge(card.Badges[0]), listing.ErrInvalidValue)

	p.Title, p.Excerpt = "Reunión de socios", "Resumen del encuentro"
	assert.Equal(t, "Comunidad", PresentPost(p, listing.ViewGrid).Badges[0].Label)

	list := PresentPost(p, listing.ViewList)
	assert.Equal(t, "Jorge · 4 min · 02/01/2025", list.Subtitle)
	assert.Equal(t, "#diario", list.Badges[3].Label)
}
