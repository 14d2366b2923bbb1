package domain

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// Row is one dynamically-shaped entity record as it travels between the
// codecs, the conflict resolver, and the repositories. Its shape is
// constrained by the entity's Schema, which is the single source of
// truth for field names and kinds.
type Row map[string]any

// Clone returns a shallow copy of the row.
func (r Row) Clone() Row {
	out := make(Row, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Has reports whether the field is present and non-nil.
func (r Row) Has(field string) bool {
	v, ok := r[field]
	return ok && v != nil
}

// String returns the field as a string. Non-string scalars are
// stringified; missing or nil fields return "".
func (r Row) String(field string) string {
	v, ok := r[field]
	if !ok || v == nil {
		return ""
	}
	switch t := v.(type) {
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case time.Time:
		return t.UTC().Format(time.RFC3339)
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return ""
		}
		return string(b)
	}
}

// Int64 returns the field as int64. String and float values are
// converted; anything else yields 0 with ok=false.
func (r Row) Int64(field string) (int64, bool) {
	v, ok := r[field]
	if !ok || v == nil {
		return 0, false
	}
	switch t := v.(type) {
	case int64:
		return t, true
	case int:
		return int64(t), true
	case float64:
		return int64(t), true
	case json.Number:
		n, err := t.Int64()
		return n, err == nil
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(t), 10, 64)
		return n, err == nil
	}
	return 0, false
}

// Bool returns the field as a boolean. The strings "true"/"1"/"yes" are
// true; "false"/"0"/"no"/"" are false. Missing fields are false.
func (r Row) Bool(field string) bool {
	v, ok := r[field]
	if !ok || v == nil {
		return false
	}
	switch t := v.(type) {
	case bool:
		return t
	case string:
		switch strings.ToLower(strings.TrimSpace(t)) {
		case "true", "1", "yes":
			return true
		}
		return false
	case float64:
		return t != 0
	case int:
		return t != 0
	case int64:
		return t != 0
	}
	return false
}

// Time returns the field as a time.Time, accepting time.Time values and
// RFC 3339 / date-only strings.
func (r Row) Time(field string) (time.Time, bool) {
	v, ok := r[field]
	if !ok || v == nil {
		return time.Time{}, false
	}
	switch t := v.(type) {
	case time.Time:
		return t, true
	case string:
		return ParseTime(t)
	}
	return time.Time{}, false
}

// ParseTime parses RFC 3339 timestamps and plain dates ("2006-01-02").
func ParseTime(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"} {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}
