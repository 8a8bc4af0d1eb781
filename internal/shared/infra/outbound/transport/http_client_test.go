package transport

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/davicafu/makethechange/internal/listing"
	sharedDomain "github.com/davicafu/makethechange/internal/shared/domain"
)

type bulb struct {
	ID    string `json:"id"`
	Color string `json:"color"`
}

type bulbCriteria struct {
	Status string
}

func (c bulbCriteria) With(field listing.Field, value string) (bulbCriteria, error) {
	c.Status = value
	return c, nil
}

func (c bulbCriteria) Values() url.Values {
	v := url.Values{}
	if c.Status != "" {
		v.Set("status", c.Status)
	}
	return v
}

type bulbPatch struct {
	Color *string `json:"color,omitempty"`
}

func (bulbPatch) Key() string { return "color" }

func newClient(t *testing.T, handler http.HandlerFunc) *CatalogClient[bulb, bulbCriteria, bulbPatch] {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewCatalogClient[bulb, bulbCriteria, bulbPatch](srv.URL+"/", "/bulbs", nil)
}

func TestCatalogClient_Fetch(t *testing.T) {
	var gotPath, gotQuery string
	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath, gotQuery = r.URL.Path, r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"data":{"items":[{"id":"b1","color":"red"}],"total":7,"next_cursor":"abc"}}`)
	})
	var fetcher listing.Fetcher[bulb, bulbCriteria] = client

	page, err := fetcher.Fetch(context.Background(), listing.Descriptor[bulbCriteria]{
		Criteria: bulbCriteria{Status: "active"},
		Cursor:   "xyz",
		Limit:    18,
	})

	require.NoError(t, err)
	assert.Equal(t, "/api/v1/bulbs", gotPath)
	assert.Equal(t, "cursor=xyz&limit=18&status=active", gotQuery)
	assert.Equal(t, []bulb{{ID: "b1", Color: "red"}}, page.Items)
	assert.Equal(t, 7, page.Total)
	assert.Equal(t, "abc", page.NextCursor)
}

func TestCatalogClient_FetchEmptyPage(t *testing.T) {
	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"data":{"items":null,"total":0}}`)
	})

	page, err := client.Fetch(context.Background(), listing.Descriptor[bulbCriteria]{Page: 1, Limit: 20})

	require.NoError(t, err)
	assert.NotNil(t, page.Items)
	assert.Empty(t, page.Items)
}

func TestCatalogClient_Mutate(t *testing.T) {
	var body map[string]interface{}
	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/api/v1/bulbs/b1", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		_, _ = io.WriteString(w, `{"data":{"id":"b1","color":"blue"}}`)
	})
	var mutator listing.Mutator[bulb, bulbPatch] = client

	color := "blue"
	got, err := mutator.Mutate(context.Background(), "b1", bulbPatch{Color: &color})

	require.NoError(t, err)
	assert.Equal(t, map[string]interface{}{"color": "blue"}, body)
	assert.Equal(t, bulb{ID: "b1", Color: "blue"}, got)
}

func TestCatalogClient_Errors(t *testing.T) {
	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v1/bulbs/missing":
			w.WriteHeader(http.StatusNotFound)
			_, _ = io.WriteString(w, `{"error":{"message":"bulb not found"}}`)
		default:
			w.WriteHeader(http.StatusBadGateway)
			_, _ = io.WriteString(w, "upstream down")
		}
	})
	ctx := context.Background()

	_, err := client.Get(ctx, "missing")
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.Equal(t, "bulb not found", apiErr.Message)
	assert.ErrorIs(t, err, sharedDomain.ErrNotFound)

	_, err = client.Fetch(ctx, listing.Descriptor[bulbCriteria]{Limit: 18})
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
	assert.Equal(t, "upstream down", apiErr.Message)
	assert.NotErrorIs(t, err, sharedDomain.ErrNotFound)
}
