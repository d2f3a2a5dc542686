package resource

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Record is one backend-owned row as decoded from the list endpoint.
// Shapes vary per content type, so the engine keeps them dynamic and reads
// fields through the accessors below.
type Record map[string]interface{}

// ID returns the record id; ok is false for unsaved drafts or junk data.
func (r Record) ID() (int, bool) {
	switch v := r["id"].(type) {
	case float64:
		return int(v), true
	case json.Number:
		if i, err := v.Int64(); err == nil {
			return int(i), true
		}
	case int:
		return v, true
	case string:
		if i, err := strconv.Atoi(v); err == nil {
			return i, true
		}
	}
	return 0, false
}

// IDStr renders the id for URLs and templates; "" for unsaved drafts.
func (r Record) IDStr() string {
	if id, ok := r.ID(); ok {
		return strconv.Itoa(id)
	}
	return ""
}

// Str renders the named field as a string; nil becomes "".
func (r Record) Str(name string) string {
	switch v := r[name].(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		if v {
			return "1"
		}
		return "0"
	case float64:
		// JSON numbers; render integers without the decimal point
		if v == float64(int64(v)) {
			return strconv.FormatInt(int64(v), 10)
		}
		return strconv.FormatFloat(v, 'f', -1, 64)
	case json.Number:
		return v.String()
	default:
		data, _ := json.Marshal(v)
		return string(data)
	}
}

// Flag reads a boolean-as-0/1 field.
func (r Record) Flag(name string) bool {
	s := strings.Trim(r.Str(name), `"`)
	return s == "1" || strings.EqualFold(s, "true")
}
