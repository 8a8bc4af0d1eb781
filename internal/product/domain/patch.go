package domain

import (
	"fmt"
	"strings"
	"time"

	shared "github.com/davicafu/makethechange/internal/shared/domain"
)

// ProductPatch son los campos editables desde el listado. nil = sin tocar.
type ProductPatch struct {
	Stock    *int           `json:"stock,omitempty"`
	Featured *bool          `json:"featured,omitempty"`
	Status   *ProductStatus `json:"status,omitempty"`
}

func StockPatch(n int) ProductPatch { return ProductPatch{Stock: &n} }

func FeaturedPatch(on bool) ProductPatch { return ProductPatch{Featured: &on} }

func StatusPatch(s ProductStatus) ProductPatch { return ProductPatch{Status: &s} }

// Key lista los campos presentes, en orden alfabético.
func (p ProductPatch) Key() string {
	var fields []string
	if p.Featured != nil {
		fields = append(fields, "featured")
	}
	if p.Status != nil {
		fields = append(fields, "status")
	}
	if p.Stock != nil {
		fields = append(fields, "stock")
	}
	return strings.Join(fields, ",")
}

func (p ProductPatch) Validate() error {
	if p.Key() == "" {
		return fmt.Errorf("%w: no fields to update", shared.ErrInvalidPatch)
	}
	if p.Stock != nil && *p.Stock < 0 {
		return fmt.Errorf("%w: stock must be >= 0", shared.ErrInvalidPatch)
	}
	if p.Status != nil && !p.Status.Valid() {
		return fmt.Errorf("%w: unknown status %q", shared.ErrInvalidPatch, *p.Status)
	}
	return nil
}

// Apply devuelve una copia de product con el patch aplicado. Un estado
// explícito gana al que derivaría el stock.
func (p ProductPatch) Apply(product Product, now time.Time) Product {
	product.Tags = append([]string(nil), product.Tags...)
	if p.Stock != nil {
		product.SetStock(*p.Stock, now)
	}
	if p.Featured != nil {
		product.Featured = *p.Featured
	}
	if p.Status != nil {
		product.Status = *p.Status
	}
	product.UpdatedAt = now
	return product
}
