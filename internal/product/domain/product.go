package domain

import (
	"time"

	"github.com/google/uuid"
)

type ProductStatus string

const (
	ProductActive     ProductStatus = "active"
	ProductDraft      ProductStatus = "draft"
	ProductOutOfStock ProductStatus = "out_of_stock"
	ProductArchived   ProductStatus = "archived"
)

func (s ProductStatus) Valid() bool {
	switch s {
	case ProductActive, ProductDraft, ProductOutOfStock, ProductArchived:
		return true
	}
	return false
}

// Product es un artículo de la tienda. El precio va en puntos de impacto.
type Product struct {
	ID          uuid.UUID     `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Category    string        `json:"category"`
	Producer    string        `json:"producer"`
	Tags        []string      `json:"tags"`
	Status      ProductStatus `json:"status"`
	PricePoints int           `json:"price_points"`
	Stock       int           `json:"stock"`
	Featured    bool          `json:"featured"`
	ImageURL    string        `json:"image_url,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

func (p *Product) PartitionKey() string {
	return p.ID.String()
}

// --- Métodos de dominio ---

// SetStock cambia el stock y mantiene el estado coherente: un producto
// activo sin stock pasa a agotado y vuelve a activo al reponerse.
func (p *Product) SetStock(stock int, now time.Time) {
	p.Stock = stock
	switch {
	case stock == 0 && p.Status == ProductActive:
		p.Status = ProductOutOfStock
	case stock > 0 && p.Status == ProductOutOfStock:
		p.Status = ProductActive
	}
	p.UpdatedAt = now
}
