package mocks

import (
	"sort"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/tasknest/tasknest-api/internal/store"
)

// matches evaluates a where predicate against a raw document. Supported
// shapes: field equality, array-field containment, and the $in/$nin/$ne
// operator documents the reconciliation and list paths use.
func matches(doc map[string]interface{}, where map[string]interface{}) bool {
	for field, cond := range where {
		if !fieldMatches(doc[field], cond) {
			return false
		}
	}
	return true
}

func fieldMatches(value, cond interface{}) bool {
	if ops, ok := cond.(map[string]interface{}); ok {
		for op, operand := range ops {
			switch op {
			case "$in":
				if !anyEqual(value, operand) {
					return false
				}
			case "$nin":
				if anyEqual(value, operand) {
					return false
				}
			case "$ne":
				if looseEqual(value, operand) {
					return false
				}
			default:
				return false
			}
		}
		return true
	}
	return looseEqual(value, cond)
}

// anyEqual reports whether value equals any element of the operand list.
func anyEqual(value, operand interface{}) bool {
	list, ok := operand.([]interface{})
	if !ok {
		return looseEqual(value, operand)
	}
	for _, item := range list {
		if looseEqual(value, item) {
			return true
		}
	}
	return false
}

// looseEqual compares document values the way the store's schema casts
// would: ObjectIDs equal their hex form, numbers compare across widths, and
// an array field equals a scalar when any element does.
func looseEqual(a, b interface{}) bool {
	if ids, ok := a.([]primitive.ObjectID); ok {
		for _, id := range ids {
			if looseEqual(id, b) {
				return true
			}
		}
		return false
	}

	if aID, ok := a.(primitive.ObjectID); ok {
		switch bv := b.(type) {
		case primitive.ObjectID:
			return aID == bv
		case string:
			return aID.Hex() == bv
		}
		return false
	}
	if _, ok := b.(primitive.ObjectID); ok {
		return looseEqual(b, a)
	}

	if af, aok := toFloat(a); aok {
		if bf, bok := toFloat(b); bok {
			return af == bf
		}
		return false
	}

	return a == b
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

// shape applies sort, skip, limit and projection to the filtered documents,
// mirroring the real store's result shaping.
func shape(docs []map[string]interface{}, q store.ListQuery) []map[string]interface{} {
	if len(q.Sort) > 0 {
		sort.SliceStable(docs, func(i, j int) bool {
			for _, field := range q.Sort {
				c := compareValues(docs[i][field.Field], docs[j][field.Field])
				if c == 0 {
					continue
				}
				if field.Desc {
					return c > 0
				}
				return c < 0
			}
			return false
		})
	}

	if q.Skip > 0 {
		if q.Skip >= int64(len(docs)) {
			docs = nil
		} else {
			docs = docs[q.Skip:]
		}
	}
	if q.Limit > 0 && int64(len(docs)) > q.Limit {
		docs = docs[:q.Limit]
	}

	shaped := make([]map[string]interface{}, len(docs))
	for i, doc := range docs {
		shaped[i] = applyProjection(doc, q.Select)
	}
	return shaped
}

func compareValues(a, b interface{}) int {
	if af, aok := toFloat(a); aok {
		if bf, bok := toFloat(b); bok {
			switch {
			case af < bf:
				return -1
			case af > bf:
				return 1
			}
			return 0
		}
	}
	if at, ok := a.(time.Time); ok {
		if bt, ok := b.(time.Time); ok {
			return at.Compare(bt)
		}
	}
	if aID, ok := a.(primitive.ObjectID); ok {
		if bID, ok := b.(primitive.ObjectID); ok {
			return strings.Compare(aID.Hex(), bID.Hex())
		}
	}
	if as, ok := a.(string); ok {
		if bs, ok := b.(string); ok {
			return strings.Compare(as, bs)
		}
	}
	if ab, ok := a.(bool); ok {
		if bb, ok := b.(bool); ok {
			switch {
			case ab == bb:
				return 0
			case bb:
				return -1
			}
			return 1
		}
	}
	return 0
}

// applyProjection shapes a document: any included field switches the
// projection to include mode (keeping _id unless excluded); otherwise the
// listed fields are dropped.
func applyProjection(doc map[string]interface{}, sel store.Projection) map[string]interface{} {
	if len(sel) == 0 {
		return doc
	}

	includeMode := false
	for field, include := range sel {
		if include && field != "_id" {
			includeMode = true
			break
		}
	}

	out := make(map[string]interface{}, len(doc))
	if includeMode {
		for field, include := range sel {
			if include {
				if v, ok := doc[field]; ok {
					out[field] = v
				}
			}
		}
		if excluded, ok := sel["_id"]; !ok || excluded {
			out["_id"] = doc["_id"]
		}
		return out
	}

	for field, v := range doc {
		if include, listed := sel[field]; listed && !include {
			continue
		}
		out[field] = v
	}
	return out
}
