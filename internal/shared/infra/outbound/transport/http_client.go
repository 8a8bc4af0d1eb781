// Package transport consume la API HTTP de catálogos desde los bindings de listing.
package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/davicafu/makethechange/internal/listing"
	sharedDomain "github.com/davicafu/makethechange/internal/shared/domain"
	sharedQuery "github.com/davicafu/makethechange/internal/shared/infra/platform/query"
)

const DefaultTimeout = 10 * time.Second

// APIError es una respuesta de error del servidor.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

// Unwrap permite errors.Is(err, domain.ErrNotFound) con un 404.
func (e *APIError) Unwrap() error {
	switch e.StatusCode {
	case http.StatusNotFound:
		return sharedDomain.ErrNotFound
	case http.StatusBadRequest:
		return sharedDomain.ErrInvalidPatch
	}
	return nil
}

// CatalogClient habla con /api/v1/<path> y hace de Fetcher y Mutator.
type CatalogClient[T any, F listing.Criteria[F], P listing.Patch] struct {
	baseURL    string
	httpClient *http.Client
}

// NewCatalogClient apunta a baseURL (p.ej. "http://localhost:8080") y al
// catálogo path (p.ej. "products").
func NewCatalogClient[T any, F listing.Criteria[F], P listing.Patch](baseURL, path string, httpClient *http.Client) *CatalogClient[T, F, P] {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultTimeout}
	}
	return &CatalogClient[T, F, P]{
		baseURL:    strings.TrimRight(baseURL, "/") + "/api/v1/" + strings.Trim(path, "/"),
		httpClient: httpClient,
	}
}

// Fetch pide la página de d.
func (c *CatalogClient[T, F, P]) Fetch(ctx context.Context, d listing.Descriptor[F]) (sharedQuery.Page[T], error) {
	target := ""
	if q := d.Values(); len(q) > 0 {
		target = "?" + q.Encode()
	}

	var resp struct {
		Data sharedQuery.Page[T] `json:"data"`
	}
	if err := c.doJSON(ctx, http.MethodGet, target, nil, &resp); err != nil {
		return sharedQuery.Page[T]{}, err
	}
	if resp.Data.Items == nil {
		resp.Data.Items = []T{}
	}
	return resp.Data, nil
}

// Get trae un elemento por id.
func (c *CatalogClient[T, F, P]) Get(ctx context.Context, id string) (T, error) {
	var resp struct {
		Data T `json:"data"`
	}
	err := c.doJSON(ctx, http.MethodGet, "/"+url.PathEscape(id), nil, &resp)
	return resp.Data, err
}

// Mutate envía el patch y devuelve la entidad confirmada por el servidor.
func (c *CatalogClient[T, F, P]) Mutate(ctx context.Context, id string, patch P) (T, error) {
	var resp struct {
		Data T `json:"data"`
	}
	err := c.doJSON(ctx, http.MethodPatch, "/"+url.PathEscape(id), patch, &resp)
	return resp.Data, err
}

func (c *CatalogClient[T, F, P]) doJSON(ctx context.Context, method, path string, body any, result any) error {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request body: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("performing request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode >= 400 {
		var errResp struct {
			Error struct {
				Message string `json:"message"`
			} `json:"error"`
		}
		if json.Unmarshal(respBody, &errResp) == nil && errResp.Error.Message != "" {
			return &APIError{StatusCode: resp.StatusCode, Message: errResp.Error.Message}
		}
		return &APIError{StatusCode: resp.StatusCode, Message: string(respBody)}
	}

	if result != nil {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}
	return nil
}
