package application

import (
	"fmt"
	"time"

	"github.com/davicafu/makethechange/internal/listing"
	productDomain "github.com/davicafu/makethechange/internal/product/domain"
)

var statusTones = map[productDomain.ProductStatus]string{
	productDomain.ProductActive:     "success",
	productDomain.ProductDraft:      "neutral",
	productDomain.ProductOutOfStock: "warning",
	productDomain.ProductArchived:   "muted",
}

// PresentProduct es la card de un producto. En lista se añade la descripción.
func PresentProduct(p productDomain.Product, mode listing.ViewMode) listing.Card {
	card := listing.Card{
		ID:       p.ID.String(),
		Title:    p.Name,
		Subtitle: fmt.Sprintf("%s · %d pts", p.Producer, p.PricePoints),
		ImageURL: p.ImageURL,
		Href:     "/products/" + p.ID.String(),
		Badges: []listing.Badge{
			{Label: p.Category, Field: listing.FieldCategory, Value: p.Category},
			{Label: string(p.Status), Tone: statusTones[p.Status], Field: listing.FieldStatus, Value: string(p.Status)},
		},
		Counters: []listing.Counter{{Field: "stock", Label: "Stock", Value: float64(p.Stock), Step: 1}},
		Toggles:  []listing.Toggle{{Field: "featured", Label: "Destacado", On: p.Featured}},
	}
	if mode == listing.ViewList {
		card.Description = p.Description
		for _, tag := range p.Tags {
			card.Badges = append(card.Badges, listing.Badge{Label: "#" + tag, Field: listing.FieldTags, Value: tag})
		}
	}
	return card
}

// ProductPatches traduce los controles de la card a patches.
var ProductPatches = listing.PatchBuilder[productDomain.ProductPatch]{
	Toggle: func(field string, on bool) (productDomain.ProductPatch, error) {
		if field != "featured" {
			return productDomain.ProductPatch{}, listing.ErrUnknownField
		}
		return productDomain.FeaturedPatch(on), nil
	},
	Counter: func(field string, value float64) (productDomain.ProductPatch, error) {
		if field != "stock" {
			return productDomain.ProductPatch{}, listing.ErrUnknownField
		}
		return productDomain.StockPatch(int(value)), nil
	},
}

// ApplyLocal proyecta un patch en la vista sin tocar la fecha de edición.
func ApplyLocal(p productDomain.Product, patch productDomain.ProductPatch) productDomain.Product {
	return patch.Apply(p, p.UpdatedAt)
}

func ProductID(p productDomain.Product) string { return p.ID.String() }

// NewScreenConfig monta la pantalla de productos sobre un fetcher y un mutator
// (cliente HTTP o el propio servicio).
func NewScreenConfig(
	fetcher listing.Fetcher[productDomain.Product, productDomain.ProductCriteria],
	mutator listing.Mutator[productDomain.Product, productDomain.ProductPatch],
	debounce time.Duration,
) listing.ScreenConfig[productDomain.Product, productDomain.ProductCriteria, productDomain.ProductPatch] {
	return listing.ScreenConfig[productDomain.Product, productDomain.ProductCriteria, productDomain.ProductPatch]{
		Defaults: productDomain.DefaultCriteria(),
		Mode:     productDomain.PaginationMode,
		PageSize: productDomain.PageSize,
		Fetcher:  fetcher,
		IDOf:     ProductID,
		Present:  PresentProduct,
		Mutator:  mutator,
		Apply:    ApplyLocal,
		Patches:  ProductPatches,
		Debounce: debounce,
	}
}
