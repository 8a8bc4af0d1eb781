package application

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/davicafu/makethechange/internal/listing"
	productDomain "github.com/davicafu/makethechange/internal/product/domain"
	productMemory "github.com/davicafu/makethechange/internal/product/infra/outbound/db/memory"
	"github.com/davicafu/makethechange/internal/shared/infra/mocks"
)

func seedProducts(n int) []productDomain.Product {
	base := time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC)
	out := make([]productDomain.Product, n)
	for i := range out {
		category := "miel"
		if i%2 == 1 {
			category = "cosmetica"
		}
		out[i] = productDomain.Product{
			ID:          uuid.New(),
			Name:        fmt.Sprintf("Producto %02d", i),
			Category:    category,
			Producer:    "Apiarios Sol",
			Tags:        []string{"bio"},
			Status:      productDomain.ProductActive,
			PricePoints: 100 + i,
			Stock:       5,
			CreatedAt:   base.Add(time.Duration(i) * time.Hour),
			UpdatedAt:   base.Add(time.Duration(i) * time.Hour),
		}
	}
	return out
}

func TestProductScreen_InProcess(t *testing.T) {
	ctx := context.Background()
	products := seedProducts(20)
	repo := productMemory.NewProductRepoMemory(products...)
	svc := NewProductService(repo, mocks.NewDummyCache(), nil)

	screen := listing.NewScreen(ctx, NewScreenConfig(svc, svc, 10*time.Millisecond))
	defer screen.Close()

	// Primera carga: los 18 más recientes
	screen.Mount()
	screen.List.Wait()
	state := screen.List.State()
	require.False(t, state.IsError, "%v", state.Err)
	assert.Equal(t, 20, state.Total)
	assert.Equal(t, 2, state.TotalPages)
	require.Len(t, state.Items, productDomain.PageSize)
	assert.Equal(t, products[19].ID, state.Items[0].ID)
	assert.NotEmpty(t, state.NextCursor)

	// La badge de categoría filtra
	cards := screen.Cards()
	require.Equal(t, listing.FieldCategory, cards[0].Badges[0].Field)
	require.NoError(t, screen.Adapter.SelectBadge(cards[0].Badges[0]))
	screen.List.Wait()

	state = screen.List.State()
	assert.Equal(t, 10, state.Total)
	for _, p := range state.Items {
		assert.Equal(t, "cosmetica", p.Category)
	}

	// El contador de stock se edita al momento y se confirma al hacer flush
	target := screen.Cards()[0]
	require.NoError(t, screen.Adapter.Step(ctx, target, "stock", 1))

	local, ok := screen.List.Item(target.ID)
	require.True(t, ok)
	assert.Equal(t, 6, local.Stock)

	screen.Edits.Flush(ctx)
	assert.Equal(t, listing.MutationConfirmed, screen.Edits.State(target.ID))

	stored, err := repo.GetByID(ctx, uuid.MustParse(target.ID))
	require.NoError(t, err)
	assert.Equal(t, 6, stored.Stock)

	pending, err := repo.FetchPendingOutbox(ctx, 10)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, productDomain.ProductPatched, pending[0].EventType)
}

func TestProductService_InvalidStatusFilter(t *testing.T) {
	svc := NewProductService(productMemory.NewProductRepoMemory(), nil, nil)

	_, err := svc.Decode(map[string][]string{"status": {"sold"}})

	assert.ErrorIs(t, err, listing.ErrInvalidValue)
}

func TestPresentProduct(t *testing.T) {
	p := seedProducts(1)[0]
	p.Description = "Miel cruda de brezo"

	grid := PresentProduct(p, listing.ViewGrid)
	list := PresentProduct(p, listing.ViewList)

	assert.Equal(t, "Producto 00", grid.Title)
	assert.Equal(t, "Apiarios Sol · 100 pts", grid.Subtitle)
	assert.Empty(t, grid.Description)
	assert.Len(t, grid.Badges, 2)
	assert.Equal(t, "Miel cruda de brezo", list.Description)
	assert.Equal(t, listing.Badge{Label: "#bio", Field: listing.FieldTags, Value: "bio"}, list.Badges[2])
	assert.Equal(t, "success", grid.Badges[1].Tone)

	patch, err := ProductPatches.Toggle("featured", true)
	require.NoError(t, err)
	assert.True(t, ApplyLocal(p, patch).Featured)
	_, err = ProductPatches.Counter("price", 1)
	assert.ErrorIs(t, err, listing.ErrUnknownField)
}

func TestProductService_NextPageAfterUnfeaturing(t *testing.T) {
	ctx := context.Background()
	products := seedProducts(30)
	for i := range products {
		products[i].Featured = true
	}
	svc := NewProductService(productMemory.NewProductRepoMemory(products...), mocks.NewDummyCache(), nil)

	criteria, err := productDomain.DefaultCriteria().With(listing.FieldFeatured, "true")
	require.NoError(t, err)
	d := listing.Descriptor[productDomain.ProductCriteria]{Criteria: criteria, Limit: 10}

	page1, err := svc.Fetch(ctx, d)
	require.NoError(t, err)
	require.Len(t, page1.Items, 10)

	// la última de la página deja de estar destacada antes de pedir la siguiente
	last := page1.Items[9]
	_, err = svc.Mutate(ctx, last.ID.String(), productDomain.FeaturedPatch(false))
	require.NoError(t, err)

	d.Cursor = page1.NextCursor
	page2, err := svc.Fetch(ctx, d)
	require.NoError(t, err)
	require.Len(t, page2.Items, 10)
	assert.Equal(t, 29, page2.Total)
	assert.Equal(t, products[19].ID, page2.Items[0].ID)
}
