package domain

import (
	"net/url"

	"github.com/davicafu/makethechange/internal/listing"
	shared "github.com/davicafu/makethechange/internal/shared/domain"
	sharedQuery "github.com/davicafu/makethechange/internal/shared/infra/platform/query"
)

const DefaultPostSort = "published_desc"

var postSorts = shared.SortOptions{
	"published_desc": {Field: "published_at", Desc: true},
	"views_desc":     {Field: "views", Desc: true},
	"title_asc":      {Field: "title"},
}

// PostCriteria son los filtros del listado del blog.
type PostCriteria struct {
	Search   string
	Status   string
	Author   string
	Tags     listing.TagSet
	Featured string
	Sort     string
}

// DefaultCriteria muestra solo lo publicado.
func DefaultCriteria() PostCriteria {
	return PostCriteria{Status: string(PostPublished), Sort: DefaultPostSort}
}

func (c PostCriteria) With(field listing.Field, value string) (PostCriteria, error) {
	switch field {
	case listing.FieldSearch:
		c.Search = value
	case listing.FieldStatus:
		if value != "" && !PostStatus(value).Valid() {
			return c, listing.InvalidValue(field, value)
		}
		c.Status = value
	case listing.FieldAuthor:
		c.Author = value
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
			value = DefaultPostSort
		}
		if !postSorts.Has(value) {
			return c, listing.InvalidValue(field, value)
		}
		c.Sort = value
	default:
		return c, listing.ErrUnknownField
	}
	return c, nil
}

// Values siempre incluye status: vacío significa "todos" y tiene que
// distinguirse del valor por defecto.
func (c PostCriteria) Values() url.Values {
	v := url.Values{}
	set := func(f listing.Field, s string) {
		if s != "" {
			v.Set(string(f), s)
		}
	}
	set(listing.FieldSearch, c.Search)
	v.Set(string(listing.FieldStatus), listing.AllToken)
	set(listing.FieldStatus, c.Status)
	set(listing.FieldAuthor, c.Author)
	set(listing.FieldTags, string(c.Tags))
	set(listing.FieldFeatured, c.Featured)
	set(listing.FieldSort, c.Sort)
	return v
}

// ToConditions implementa la interfaz shared.Criteria.
func (c PostCriteria) ToConditions() []shared.Criterion {
	var conds []shared.Criterion
	if c.Search != "" {
		conds = append(conds, shared.Criterion{Field: "title|excerpt", Op: shared.OpILike, Value: "%" + c.Search + "%"})
	}
	if c.Status != "" {
		conds = append(conds, shared.Criterion{Field: "status", Op: shared.OpEq, Value: c.Status})
	}
	if c.Author != "" {
		conds = append(conds, shared.Criterion{Field: "author", Op: shared.OpEq, Value: c.Author})
	}
	for _, tag := range c.Tags.Slice() {
		conds = append(conds, shared.Criterion{Field: "tags", Op: shared.OpContains, Value: tag})
	}
	if c.Featured != "" {
		conds = append(conds, shared.Criterion{Field: "featured", Op: shared.OpEq, Value: c.Featured == "true"})
	}
	return conds
}

func (c PostCriteria) SortOrder() sharedQuery.Sort {
	return postSorts.Order(c.Sort, DefaultPostSort)
}
