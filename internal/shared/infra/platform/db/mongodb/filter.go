package mongodb

import (
	"regexp"
	"strings"

	"go.mongodb.org/mongo-driver/bson"

	sharedDomain "github.com/davicafu/makethechange/internal/shared/domain"
	sharedQuery "github.com/davicafu/makethechange/internal/shared/infra/platform/query"
)

// CriteriaToFilter traduce las condiciones neutrales a un filtro de Mongo.
// fieldMap renombra campos del dominio a campos del documento.
func CriteriaToFilter(criteria sharedDomain.Criteria, fieldMap map[string]string) bson.D {
	filter := bson.D{}
	for _, c := range sharedDomain.Conditions(criteria) {
		fields := strings.Split(c.Field, "|")
		if len(fields) == 1 {
			filter = append(filter, bson.E{Key: docField(fields[0], fieldMap), Value: condition(c)})
			continue
		}
		or := bson.A{}
		for _, f := range fields {
			or = append(or, bson.M{docField(f, fieldMap): condition(c)})
		}
		filter = append(filter, bson.E{Key: "$or", Value: or})
	}
	return filter
}

func condition(c sharedDomain.Criterion) bson.M {
	switch c.Op {
	case sharedDomain.OpGt:
		return bson.M{"$gt": c.Value}
	case sharedDomain.OpGte:
		return bson.M{"$gte": c.Value}
	case sharedDomain.OpLt:
		return bson.M{"$lt": c.Value}
	case sharedDomain.OpLte:
		return bson.M{"$lte": c.Value}
	case sharedDomain.OpLike, sharedDomain.OpILike:
		// LIKE '%texto%' -> regex literal
		pattern := regexp.QuoteMeta(strings.Trim(c.Value.(string), "%"))
		if c.Op == sharedDomain.OpILike {
			return bson.M{"$regex": pattern, "$options": "i"}
		}
		return bson.M{"$regex": pattern}
	case sharedDomain.OpContains:
		return bson.M{"$all": bson.A{c.Value}}
	}
	return bson.M{"$eq": c.Value}
}

func docField(field string, fieldMap map[string]string) string {
	if mapped, ok := fieldMap[field]; ok {
		return mapped
	}
	return field
}

// SortOf ordena por sort y desempata por _id.
func SortOf(sort sharedQuery.Sort, fieldMap map[string]string) bson.D {
	dir := 1
	if sort.Desc {
		dir = -1
	}
	if sort.Field == "" || sort.Field == "id" {
		return bson.D{{Key: "_id", Value: dir}}
	}
	return bson.D{{Key: docField(sort.Field, fieldMap), Value: dir}, {Key: "_id", Value: dir}}
}

// After es el predicado keyset de la página siguiente a (sortValue, id).
func After(sort sharedQuery.Sort, sortValue interface{}, id string, fieldMap map[string]string) bson.E {
	op := "$gt"
	if sort.Desc {
		op = "$lt"
	}
	if sort.Field == "" || sort.Field == "id" {
		return bson.E{Key: "_id", Value: bson.M{op: id}}
	}
	field := docField(sort.Field, fieldMap)
	return bson.E{Key: "$or", Value: bson.A{
		bson.M{field: bson.M{op: sortValue}},
		bson.M{field: sortValue, "_id": bson.M{op: id}},
	}}
}
