package domain

import (
	"net/url"

	"github.com/davicafu/makethechange/internal/listing"
	shared "github.com/davicafu/makethechange/internal/shared/domain"
	sharedQuery "github.com/davicafu/makethechange/internal/shared/infra/platform/query"
)

const DefaultProductSort = "created_at_desc"

var productSorts = shared.SortOptions{
	"created_at_desc": {Field: "created_at", Desc: true},
	"name_asc":        {Field: "name"},
	"price_asc":       {Field: "price_points"},
	"price_desc":      {Field: "price_points", Desc: true},
	"stock_asc":       {Field: "stock"},
}

// ProductCriteria son los filtros del listado de productos.
type ProductCriteria struct {
	Search   string
	Status   string
	Category string
	Producer string
	Tags     listing.TagSet
	Featured string // "", "true", "false"
	Sort     string
}

func DefaultCriteria() ProductCriteria {
	return ProductCriteria{Sort: DefaultProductSort}
}

func (c ProductCriteria) With(field listing.Field, value string) (ProductCriteria, error) {
	switch field {
	case listing.FieldSearch:
		c.Search = value
	case listing.FieldStatus:
		if value != "" && !ProductStatus(value).Valid() {
			return c, listing.InvalidValue(field, value)
		}
		c.Status = value
	case listing.FieldCategory:
		c.Category = value
	case listing.FieldProducer:
		c.Producer = value
	case listing.FieldTags:
		c.Tags = listing.NewTagSet(value)
	case listing.FieldFeatured:
		flag, err := listing.Flag(field, value)
		if err != nil {
			return c, err
		}
		c.Featured = flag
	case listing.FieldSort:
		if value == "" {
			value = DefaultProductSort
		}
		if !productSorts.Has(value) {
			return c, listing.InvalidValue(field, value)
		}
		c.Sort = value
	default:
		return c, listing.ErrUnknownField
	}
	return c, nil
}

func (c ProductCriteria) Values() url.Values {
	v := url.Values{}
	set := func(f listing.Field, s string) {
		if s != "" {
			v.Set(string(f), s)
		}
	}
	set(listing.FieldSearch, c.Search)
	set(listing.FieldStatus, c.Status)
	set(listing.FieldCategory, c.Category)
	set(listing.FieldProducer, c.Producer)
	set(listing.FieldTags, string(c.Tags))
	set(listing.FieldFeatured, c.Featured)
	set(listing.FieldSort, c.Sort)
	return v
}

// ToConditions implementa la interfaz shared.Criteria.
func (c ProductCriteria) ToConditions() []shared.Criterion {
	var conds []shared.Criterion
	if c.Search != "" {
		conds = append(conds, shared.Criterion{Field: "name|description", Op: shared.OpILike, Value: "%" + c.Search + "%"})
	}
	if c.Status != "" {
		conds = append(conds, shared.Criterion{Field: "status", Op: shared.OpEq, Value: c.Status})
	}
	if c.Category != "" {
		conds = append(conds, shared.Criterion{Field: "category", Op: shared.OpEq, Value: c.Category})
	}
	if c.Producer != "" {
		conds = append(conds, shared.Criterion{Field: "producer", Op: shared.OpEq, Value: c.Producer})
	}
	for _, tag := range c.Tags.Slice() {
		conds = append(conds, shared.Criterion{Field: "tags", Op: shared.OpContains, Value: tag})
	}
	if c.Featured != "" {
		conds = append(conds, shared.Criterion{Field: "featured", Op: shared.OpEq, Value: c.Featured == "true"})
	}
	return conds
}

func (c ProductCriteria) SortOrder() sharedQuery.Sort {
	return productSorts.Order(c.Sort, DefaultProductSort)
}
