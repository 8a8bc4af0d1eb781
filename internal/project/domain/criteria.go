package domain

import (
	"net/url"

	"github.com/davicafu/makethechange/internal/listing"
	shared "github.com/davicafu/makethechange/internal/shared/domain"
	sharedQuery "github.com/davicafu/makethechange/internal/shared/infra/platform/query"
)

const DefaultProjectSort = "created_at_desc"

var projectSorts = shared.SortOptions{
	"created_at_desc": {Field: "created_at", Desc: true},
	"title_asc":       {Field: "title"},
	"raised_desc":     {Field: "raised_points", Desc: true},
	"goal_asc":        {Field: "goal_points"},
}

// ProjectCriteria son los filtros del listado de proyectos. Category es el
// tipo de proyecto (reforestación, energía...).
type ProjectCriteria struct {
	Search   string
	Status   string
	Category string
	Producer string
	Tags     listing.TagSet
	Featured string
	Sort     string
}

func DefaultCriteria() ProjectCriteria {
	return ProjectCriteria{Sort: DefaultProjectSort}
}

func (c ProjectCriteria) With(field listing.Field, value string) (ProjectCriteria, error) {
	switch field {
	case listing.FieldSearch:
		c.Search = value
	case listing.FieldStatus:
		if value != "" && !ProjectStatus(value).Valid() {
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
			value = DefaultProjectSort
		}
		if !projectSorts.Has(value) {
			return c, listing.InvalidValue(field, value)
		}
		c.Sort = value
	default:
		return c, listing.ErrUnknownField
	}
	return c, nil
}

func (c ProjectCriteria) Values() url.Values {
	v := url.Values{}
	for f, s := range map[listing.Field]string{
		listing.FieldSearch:   c.Search,
		listing.FieldStatus:   c.Status,
		listing.FieldCategory: c.Category,
		listing.FieldProducer: c.Producer,
		listing.FieldTags:     string(c.Tags),
		listing.FieldFeatured: c.Featured,
		listing.FieldSort:     c.Sort,
	} {
		if s != "" {
			v.Set(string(f), s)
		}
	}
	return v
}

// ToConditions implementa la interfaz shared.Criteria.
func (c ProjectCriteria) ToConditions() []shared.Criterion {
	var conds []shared.Criterion
	if c.Search != "" {
		conds = append(conds, shared.Criterion{Field: "title|summary|location", Op: shared.OpILike, Value: "%" + c.Search + "%"})
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

func (c ProjectCriteria) SortOrder() sharedQuery.Sort {
	return projectSorts.Order(c.Sort, DefaultProjectSort)
}
