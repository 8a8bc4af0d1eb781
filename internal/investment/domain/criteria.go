package domain

import (
	"net/url"

	"github.com/google/uuid"

	"github.com/davicafu/makethechange/internal/listing"
	shared "github.com/davicafu/makethechange/internal/shared/domain"
	sharedQuery "github.com/davicafu/makethechange/internal/shared/infra/platform/query"
)

const DefaultInvestmentSort = "created_at_desc"

var investmentSorts = shared.SortOptions{
	"created_at_desc": {Field: "created_at", Desc: true},
	"amount_desc":     {Field: "amount_points", Desc: true},
	"amount_asc":      {Field: "amount_points"},
	"returns_desc":    {Field: "returns_received", Desc: true},
}

// InvestmentCriteria son los filtros del listado de inversiones.
type InvestmentCriteria struct {
	Search  string
	Status  string
	Project string // uuid del proyecto
	Sort    string
}

func DefaultCriteria() InvestmentCriteria {
	return InvestmentCriteria{Sort: DefaultInvestmentSort}
}

func (c InvestmentCriteria) With(field listing.Field, value string) (InvestmentCriteria, error) {
	switch field {
	case listing.FieldSearch:
		c.Search = value
	case listing.FieldStatus:
		if value != "" && !InvestmentStatus(value).Valid() {
			return c, listing.InvalidValue(field, value)
		}
		c.Status = value
	case listing.FieldProject:
		if value != "" {
			id, err := uuid.Parse(value)
			if err != nil {
				return c, listing.InvalidValue(field, value)
			}
			value = id.String()
		}
		c.Project = value
	case listing.FieldSort:
		if value == "" {
			value = DefaultInvestmentSort
		}
		if !investmentSorts.Has(value) {
			return c, listing.InvalidValue(field, value)
		}
		c.Sort = value
	default:
		return c, listing.ErrUnknownField
	}
	return c, nil
}

func (c InvestmentCriteria) Values() url.Values {
	v := url.Values{}
	set := func(f listing.Field, s string) {
		if s != "" {
			v.Set(string(f), s)
		}
	}
	set(listing.FieldSearch, c.Search)
	set(listing.FieldStatus, c.Status)
	set(listing.FieldProject, c.Project)
	set(listing.FieldSort, c.Sort)
	return v
}

// ToConditions implementa la interfaz shared.Criteria.
func (c InvestmentCriteria) ToConditions() []shared.Criterion {
	var conds []shared.Criterion
	if c.Search != "" {
		conds = append(conds, shared.Criterion{Field: "project_title|investor", Op: shared.OpILike, Value: "%" + c.Search + "%"})
	}
	if c.Status != "" {
		conds = append(conds, shared.Criterion{Field: "status", Op: shared.OpEq, Value: c.Status})
	}
	if c.Project != "" {
		conds = append(conds, shared.Criterion{Field: "project_id", Op: shared.OpEq, Value: c.Project})
	}
	return conds
}

func (c InvestmentCriteria) SortOrder() sharedQuery.Sort {
	return investmentSorts.Order(c.Sort, DefaultInvestmentSort)
}
