package mongodb

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/tasknest/tasknest-api/internal/store"
)

// idFields are the document fields whose values hold ObjectIDs on the wire
// as 24-hex strings. Filter values under these keys are coerced so that
// {"_id": "64ff..."} matches the way it would after a schema cast.
var idFields = map[string]bool{
	"_id":          true,
	"pendingTasks": true,
}

// logical operators whose value is a list of sub-filters.
var logicalOps = map[string]bool{
	"$and": true,
	"$or":  true,
	"$nor": true,
}

// NormalizeFilter converts a parsed where document into the filter actually
// sent to the store, coercing hex strings in ID positions to ObjectIDs.
// Values that do not look like ObjectIDs pass through untouched; a filter
// the store cannot evaluate is the store's error to raise.
func NormalizeFilter(where map[string]interface{}) bson.M {
	if where == nil {
		return bson.M{}
	}

	out := make(bson.M, len(where))
	for key, value := range where {
		switch {
		case logicalOps[key]:
			subs, ok := value.([]interface{})
			if !ok {
				out[key] = value
				continue
			}
			normalized := make([]interface{}, len(subs))
			for i, sub := range subs {
				if doc, ok := sub.(map[string]interface{}); ok {
					normalized[i] = NormalizeFilter(doc)
				} else {
					normalized[i] = sub
				}
			}
			out[key] = normalized
		case idFields[key]:
			out[key] = coerceIDValue(value)
		default:
			out[key] = value
		}
	}
	return out
}

// coerceIDValue rewrites hex strings to ObjectIDs inside a filter value:
// plain values, operator documents ({"$in": [...]}) and arrays.
func coerceIDValue(value interface{}) interface{} {
	switch v := value.(type) {
	case string:
		if id, err := primitive.ObjectIDFromHex(v); err == nil {
			return id
		}
		return v
	case []interface{}:
		coerced := make([]interface{}, len(v))
		for i, item := range v {
			coerced[i] = coerceIDValue(item)
		}
		return coerced
	case map[string]interface{}:
		coerced := make(bson.M, len(v))
		for op, operand := range v {
			coerced[op] = coerceIDValue(operand)
		}
		return coerced
	default:
		return value
	}
}

// findOptions translates the shaping part of a ListQuery into driver options.
func findOptions(q store.ListQuery) *options.FindOptions {
	opts := options.Find()
	if len(q.Select) > 0 {
		opts.SetProjection(projectionDoc(q.Select))
	}
	if len(q.Sort) > 0 {
		opts.SetSort(sortDoc(q.Sort))
	}
	if q.Skip > 0 {
		opts.SetSkip(q.Skip)
	}
	if q.Limit > 0 {
		opts.SetLimit(q.Limit)
	}
	return opts
}

// sortDoc keeps the caller's field precedence by emitting an ordered bson.D.
func sortDoc(sort []store.SortField) bson.D {
	doc := make(bson.D, 0, len(sort))
	for _, field := range sort {
		direction := 1
		if field.Desc {
			direction = -1
		}
		doc = append(doc, bson.E{Key: field.Field, Value: direction})
	}
	return doc
}

func projectionDoc(sel store.Projection) bson.D {
	doc := make(bson.D, 0, len(sel))
	for field, include := range sel {
		value := 0
		if include {
			value = 1
		}
		doc = append(doc, bson.E{Key: field, Value: value})
	}
	return doc
}
