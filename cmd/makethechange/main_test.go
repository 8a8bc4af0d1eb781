package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	blogHttp "github.com/davicafu/makethechange/internal/blog/infra/inbound/http"
	"github.com/davicafu/makethechange/internal/config"
	investmentHttp "github.com/davicafu/makethechange/internal/investment/infra/inbound/http"
	"github.com/davicafu/makethechange/internal/listing"
	productHttp "github.com/davicafu/makethechange/internal/product/infra/inbound/http"
	projectHttp "github.com/davicafu/makethechange/internal/project/infra/inbound/http"
	"github.com/davicafu/makethechange/internal/seed"
	sharedHTTP "github.com/davicafu/makethechange/internal/shared/infra/inbound/http"
)

// newTestAPI levanta la API con los catálogos de demo en memoria.
func newTestAPI(t *testing.T) (*httptest.Server, *catalogs) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	log = zap.NewNop()
	jsonOutput = true
	t.Cleanup(func() { jsonOutput = false })

	cats := newMemoryCatalogs(&config.Config{Store: config.StoreMemory, Seed: true}, nil, log)
	router := gin.New()
	sharedHTTP.RegisterHealthRoutes(router)
	api := router.Group("/api/v1")
	productHttp.RegisterProductRoutes(api, productHttp.NewProductHandler(cats.products, log))
	projectHttp.RegisterProjectRoutes(api, projectHttp.NewProjectHandler(cats.projects, log))
	investmentHttp.RegisterInvestmentRoutes(api, investmentHttp.NewInvestmentHandler(cats.investments, log))
	blogHttp.RegisterPostRoutes(api, blogHttp.NewPostHandler(cats.posts, log))

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv, cats
}

func decodeListing(t *testing.T, out *bytes.Buffer) listingView {
	t.Helper()
	var v listingView
	require.NoError(t, json.Unmarshal(out.Bytes(), &v), out.String())
	return v
}

func TestBrowse_ProductsByCategory(t *testing.T) {
	srv, _ := newTestAPI(t)
	catalog, err := lookupCatalog("products")
	require.NoError(t, err)

	var out bytes.Buffer
	err = catalog.browse(context.Background(), srv.URL, browseOptions{
		filters: map[listing.Field]string{listing.FieldCategory: "miel"},
	}, &out)
	require.NoError(t, err)

	v := decodeListing(t, &out)
	assert.Equal(t, 10, v.Total)
	assert.Equal(t, 1, v.TotalPages)
	assert.Equal(t, 1, v.CurrentPage)
	assert.True(t, v.Filtered)
	assert.Empty(t, v.NextCursor)
	require.Len(t, v.Cards, 10)
	for _, c := range v.Cards {
		assert.Equal(t, "miel", c.Badges[0].Label)
	}
}

func TestBrowse_ProductsFollowCursor(t *testing.T) {
	srv, _ := newTestAPI(t)
	catalog, _ := lookupCatalog("products")

	var first, second bytes.Buffer
	require.NoError(t, catalog.browse(context.Background(), srv.URL, browseOptions{}, &first))
	require.NoError(t, catalog.browse(context.Background(), srv.URL, browseOptions{next: 1}, &second))

	p1, p2 := decodeListing(t, &first), decodeListing(t, &second)
	assert.Equal(t, 40, p1.Total)
	require.Len(t, p1.Cards, 18)
	require.Len(t, p2.Cards, 18)
	assert.NotEmpty(t, p1.NextCursor)
	assert.NotEqual(t, p1.Cards[0].ID, p2.Cards[0].ID)
	assert.Equal(t, listing.CurrentPageFromCursor(40, 36, 18), p2.CurrentPage)
}

func TestBrowse_ProjectsSecondPageOnMap(t *testing.T) {
	srv, _ := newTestAPI(t)
	catalog, _ := lookupCatalog("projects")

	var out bytes.Buffer
	require.NoError(t, catalog.browse(context.Background(), srv.URL, browseOptions{page: 2, view: "map"}, &out))

	v := decodeListing(t, &out)
	assert.Equal(t, listing.ViewMap, v.View)
	assert.Equal(t, 24, v.Total)
	assert.Equal(t, 2, v.TotalPages)
	assert.Equal(t, 2, v.CurrentPage)
	require.Len(t, v.Cards, 6)
	for _, c := range v.Cards {
		assert.NotNil(t, c.Location)
	}
}

func TestBrowse_RejectsWrongPaginationAndView(t *testing.T) {
	srv, _ := newTestAPI(t)

	products, _ := lookupCatalog("products")
	err := products.browse(context.Background(), srv.URL, browseOptions{page: 2}, &bytes.Buffer{})
	assert.ErrorIs(t, err, listing.ErrPaginationMode)

	err = products.browse(context.Background(), srv.URL, browseOptions{view: "map"}, &bytes.Buffer{})
	assert.ErrorIs(t, err, listing.ErrUnknownViewMode)

	_, err = lookupCatalog("users")
	assert.Error(t, err)
}

func TestAdjust_ToggleAndStepProduct(t *testing.T) {
	srv, cats := newTestAPI(t)
	catalog, _ := lookupCatalog("products")
	id := seed.ID("product", 1).String()

	var out bytes.Buffer
	require.NoError(t, catalog.adjust(context.Background(), srv.URL, adjustOptions{id: id, toggle: "featured"}, &out))
	var card listing.Card
	require.NoError(t, json.Unmarshal(out.Bytes(), &card))
	require.Len(t, card.Toggles, 1)
	assert.True(t, card.Toggles[0].On)

	out.Reset()
	require.NoError(t, catalog.adjust(context.Background(), srv.URL, adjustOptions{id: id, step: "stock", by: 2}, &out))

	stored, err := cats.products.Get(context.Background(), seed.ID("product", 1))
	require.NoError(t, err)
	assert.True(t, stored.Featured)
	assert.Equal(t, 6, stored.Stock)
}

func TestAdjust_UnknownItem(t *testing.T) {
	srv, _ := newTestAPI(t)
	catalog, _ := lookupCatalog("blog")

	err := catalog.adjust(context.Background(), srv.URL, adjustOptions{id: seed.ID("post", 999).String(), toggle: "featured"}, &bytes.Buffer{})
	assert.Error(t, err)
}
