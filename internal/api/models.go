// Package api contains the HTTP handlers for the task and user collections,
// plus the tolerant request types the legacy wire format needs.
package api

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// FlexTime unmarshals a timestamp supplied as epoch milliseconds (number or
// numeric string), an RFC 3339 string, or a date-only string.
type FlexTime struct {
	time.Time
}

func (t *FlexTime) UnmarshalJSON(data []byte) error {
	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	switch v := raw.(type) {
	case nil:
		return nil
	case float64:
		t.Time = time.UnixMilli(int64(v)).UTC()
		return nil
	case string:
		if ms, err := strconv.ParseInt(v, 10, 64); err == nil {
			t.Time = time.UnixMilli(ms).UTC()
			return nil
		}
		for _, layout := range []string{time.RFC3339, "2006-01-02"} {
			if parsed, err := time.Parse(layout, v); err == nil {
				t.Time = parsed.UTC()
				return nil
			}
		}
		return fmt.Errorf("unrecognized timestamp %q", v)
	default:
		return fmt.Errorf("unsupported timestamp type %T", raw)
	}
}

// FlexBool accepts JSON booleans and the strings "true"/"false".
type FlexBool bool

func (b *FlexBool) UnmarshalJSON(data []byte) error {
	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	switch v := raw.(type) {
	case nil:
		return nil
	case bool:
		*b = FlexBool(v)
		return nil
	case string:
		switch strings.ToLower(v) {
		case "true":
			*b = true
			return nil
		case "false":
			*b = false
			return nil
		}
		return fmt.Errorf("unrecognized boolean %q", v)
	default:
		return fmt.Errorf("unsupported boolean type %T", raw)
	}
}

// PendingList accepts a pendingTasks value as a JSON array of ID strings or
// as a single comma-separated string. Empty segments are dropped.
type PendingList []string

func (p *PendingList) UnmarshalJSON(data []byte) error {
	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	switch v := raw.(type) {
	case nil:
		*p = nil
		return nil
	case string:
		var ids []string
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				ids = append(ids, part)
			}
		}
		*p = ids
		return nil
	case []interface{}:
		ids := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return fmt.Errorf("pendingTasks entries must be strings, got %T", item)
			}
			ids = append(ids, s)
		}
		*p = ids
		return nil
	default:
		return fmt.Errorf("unsupported pendingTasks type %T", raw)
	}
}
