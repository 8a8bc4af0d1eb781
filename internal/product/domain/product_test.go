package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/davicafu/makethechange/internal/listing"
	shared "github.com/davicafu/makethechange/internal/shared/domain"
	sharedQuery "github.com/davicafu/makethechange/internal/shared/infra/platform/query"
)

func TestProductCriteria_With(t *testing.T) {
	c := DefaultCriteria()

	c, err := c.With(listing.FieldStatus, "active")
	require.NoError(t, err)
	c, err = c.With(listing.FieldTags, "Miel, bio,miel")
	require.NoError(t, err)
	c, err = c.With(listing.FieldFeatured, "yes")
	require.NoError(t, err)

	assert.Equal(t, "active", c.Status)
	assert.Equal(t, listing.TagSet("bio,miel"), c.Tags)
	assert.Equal(t, "true", c.Featured)

	_, err = c.With(listing.FieldStatus, "sold")
	assert.ErrorIs(t, err, listing.ErrInvalidValue)
	_, err = c.With(listing.FieldSort, "random")
	assert.ErrorIs(t, err, listing.ErrInvalidValue)
	_, err = c.With(listing.FieldAuthor, "ana")
	assert.ErrorIs(t, err, listing.ErrUnknownField)

	// sort vacío (o "all") vuelve al orden por defecto
	c, err = c.With(listing.FieldSort, "price_desc")
	require.NoError(t, err)
	c, err = c.With(listing.FieldSort, listing.Normalize("all"))
	require.NoError(t, err)
	assert.Equal(t, DefaultProductSort, c.Sort)
}

func TestProductCriteria_RoundTrip(t *testing.T) {
	c := ProductCriteria{Search: "miel", Category: "alimentacion", Tags: listing.NewTagSet("bio"), Featured: "false", Sort: "price_asc"}

	back, err := listing.DecodeCriteria(DefaultCriteria(), c.Values())

	require.NoError(t, err)
	assert.Equal(t, c, back)
}

func TestProductCriteria_ToConditions(t *testing.T) {
	c := ProductCriteria{Search: "miel", Producer: "Apiarios Sol", Tags: listing.NewTagSet("bio", "local"), Featured: "true", Sort: "stock_asc"}

	assert.Equal(t, []shared.Criterion{
		{Field: "name|description", Op: shared.OpILike, Value: "%miel%"},
		{Field: "producer", Op: shared.OpEq, Value: "Apiarios Sol"},
		{Field: "tags", Op: shared.OpContains, Value: "bio"},
		{Field: "tags", Op: shared.OpContains, Value: "local"},
		{Field: "featured", Op: shared.OpEq, Value: true},
	}, c.ToConditions())
	assert.Equal(t, sharedQuery.Sort{Field: "stock"}, c.SortOrder())
	assert.Equal(t, sharedQuery.Sort{Field: "created_at", Desc: true}, DefaultCriteria().SortOrder())
}

func TestProductPatch(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	p := Product{ID: uuid.New(), Status: ProductActive, Stock: 3, Tags: []string{"bio"}}

	patch := ProductPatch{Stock: new(int), Featured: new(bool)}
	assert.Equal(t, "featured,stock", patch.Key())
	require.NoError(t, patch.Validate())

	out := patch.Apply(p, now)
	assert.Equal(t, 0, out.Stock)
	assert.Equal(t, ProductOutOfStock, out.Status)
	assert.Equal(t, now, out.UpdatedAt)
	assert.Equal(t, 3, p.Stock, "el original no cambia")

	back := StockPatch(5).Apply(out, now)
	assert.Equal(t, ProductActive, back.Status)

	explicit := ProductPatch{Stock: new(int), Status: ptr(ProductDraft)}.Apply(p, now)
	assert.Equal(t, ProductDraft, explicit.Status)
}

func TestProductPatch_Validate(t *testing.T) {
	assert.ErrorIs(t, ProductPatch{}.Validate(), shared.ErrInvalidPatch)
	assert.ErrorIs(t, StockPatch(-1).Validate(), shared.ErrInvalidPatch)
	assert.ErrorIs(t, StatusPatch("sold").Validate(), shared.ErrInvalidPatch)
	assert.NoError(t, FeaturedPatch(true).Validate())
}

func TestNewEventRegistry(t *testing.T) {
	reg := NewEventRegistry()

	require.Contains(t, reg, "product.patched")
	assert.Equal(t, ProductTopic, reg[ProductPatched].Topic)
}

func ptr[T any](v T) *T { return &v }
