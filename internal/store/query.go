package store

import (
	"encoding/json"
	"net/url"
	"strconv"
	"strings"
)

// SortField is a single ordering term. Fields are applied in the order they
// appeared in the query string.
type SortField struct {
	Field string
	Desc  bool
}

// Projection maps field names to include (true) or exclude (false).
// A nil Projection means "all fields".
type Projection map[string]bool

// ListQuery is the typed form of the read-path query parameters shared by
// both collections. The zero value means "everything, natural order, no cap".
type ListQuery struct {
	// Where is the raw document predicate, passed through to the store.
	// nil matches all documents.
	Where map[string]interface{}

	// Sort lists ordering terms, outermost first.
	Sort []SortField

	// Select restricts which fields come back. nil returns all fields.
	Select Projection

	// Skip is the non-negative result offset.
	Skip int64

	// Limit caps the result set; 0 means uncapped.
	Limit int64

	// Count, when set, asks for only the number of matching documents.
	// All shaping parameters other than Where are ignored.
	Count bool
}

// ParseListQuery builds a ListQuery from raw URL query parameters.
//
// The parser is total: a parameter that fails to parse (bad JSON, bad
// integer, negative offset) is treated as absent and its default applies.
// Malformed input is never an error here; only the store can reject a query.
//
// defaultLimit is the cap applied when no valid limit parameter is present
// (100 for tasks, 0 for users).
func ParseListQuery(values url.Values, defaultLimit int64) ListQuery {
	q := ListQuery{Limit: defaultLimit}

	q.Where = parseDocument(values.Get("where"))
	q.Sort = parseSort(values.Get("sort"))
	q.Select = ParseProjection(values.Get("select"))
	if q.Select == nil {
		// "filter" is the legacy alias; "select" wins when both are present.
		q.Select = ParseProjection(values.Get("filter"))
	}

	if skip, err := strconv.ParseInt(values.Get("skip"), 10, 64); err == nil && skip > 0 {
		q.Skip = skip
	}
	if limit, err := strconv.ParseInt(values.Get("limit"), 10, 64); err == nil && limit >= 0 {
		q.Limit = limit
	}

	q.Count = values.Get("count") == "true"

	return q
}

// parseDocument decodes a JSON object parameter, returning nil on anything
// that is not a well-formed object.
func parseDocument(raw string) map[string]interface{} {
	if raw == "" {
		return nil
	}
	var doc map[string]interface{}
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return nil
	}
	if len(doc) == 0 {
		return nil
	}
	return doc
}

// parseSort decodes an ordering document like {"deadline":1,"name":-1}.
//
// encoding/json maps do not preserve key order, so the object is walked at
// the token level to keep the caller's field precedence. Directions accept
// the numeric 1/-1 form and the "asc"/"desc" string form.
func parseSort(raw string) []SortField {
	if raw == "" {
		return nil
	}

	dec := json.NewDecoder(strings.NewReader(raw))

	tok, err := dec.Token()
	if err != nil {
		return nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil
	}

	var sort []SortField
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil
		}

		valTok, err := dec.Token()
		if err != nil {
			return nil
		}

		switch v := valTok.(type) {
		case float64:
			sort = append(sort, SortField{Field: key, Desc: v < 0})
		case string:
			switch strings.ToLower(v) {
			case "asc", "ascending":
				sort = append(sort, SortField{Field: key})
			case "desc", "descending":
				sort = append(sort, SortField{Field: key, Desc: true})
			default:
				return nil
			}
		default:
			return nil
		}
	}

	return sort
}

// ParseProjection decodes a field-selection document like {"name":1,"_id":0}.
// Truthy values include a field, falsy values exclude it. Returns nil when
// the parameter is absent or malformed.
func ParseProjection(raw string) Projection {
	doc := parseDocument(raw)
	if doc == nil {
		return nil
	}

	sel := make(Projection, len(doc))
	for field, v := range doc {
		switch val := v.(type) {
		case float64:
			sel[field] = val != 0
		case bool:
			sel[field] = val
		default:
			// Unrecognized direction values poison the whole document;
			// fall back to "all fields" rather than guessing.
			return nil
		}
	}
	return sel
}
