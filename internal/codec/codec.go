// Package codec serializes entity rows to and from the three wire
// formats (JSON, CSV, XML). Decoding is the left inverse of encoding:
// parsing an encoded document reproduces equivalent field values, with
// type coercion from string back to number/boolean performed per known
// schema field.
package codec

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/quotehub/quotehub-backend/internal/domain"
)

// Encode serializes rows in the given format. Row keys starting with
// domain.InternalKeyPrefix are processing metadata and are dropped.
func Encode(dt domain.DataType, rows []domain.Row, f domain.Format) (string, error) {
	schema, ok := domain.SchemaFor(dt)
	if !ok {
		return "", fmt.Errorf("encode: unknown entity type %q", dt)
	}

	switch f {
	case domain.FormatJSON:
		return encodeJSON(rows)
	case domain.FormatCSV:
		return encodeCSV(schema, rows)
	case domain.FormatXML:
		return encodeXML(schema, rows)
	default:
		return "", fmt.Errorf("encode: unsupported format %q", f)
	}
}

// Decode parses content in the given format into rows, coercing values
// to the kinds declared by the entity's schema.
func Decode(content string, f domain.Format, dt domain.DataType) ([]domain.Row, error) {
	schema, ok := domain.SchemaFor(dt)
	if !ok {
		return nil, fmt.Errorf("decode: unknown entity type %q", dt)
	}

	switch f {
	case domain.FormatJSON:
		return decodeJSON(schema, content)
	case domain.FormatCSV:
		return decodeCSV(schema, content)
	case domain.FormatXML:
		return decodeXML(schema, content)
	default:
		return nil, fmt.Errorf("decode: unsupported format %q", f)
	}
}

// exportKeys returns the serializable keys of a row: everything except
// internal metadata keys.
func exportKeys(row domain.Row) []string {
	keys := make([]string, 0, len(row))
	for k := range row {
		if strings.HasPrefix(k, domain.InternalKeyPrefix) {
			continue
		}
		keys = append(keys, k)
	}
	return keys
}

// coerceRow converts decoded values to the kinds the schema declares.
// Unknown keys pass through untouched.
func coerceRow(schema domain.Schema, row domain.Row) domain.Row {
	out := make(domain.Row, len(row))
	for k, v := range row {
		f, known := schema.Field(k)
		if !known {
			out[k] = v
			continue
		}
		coerced, ok := coerceValue(f, v)
		if ok {
			out[k] = coerced
		}
	}
	return out
}

// coerceValue converts one value to the field's kind. The second return
// is false when the value should be treated as absent.
func coerceValue(f domain.Field, v any) (any, bool) {
	if v == nil {
		return nil, false
	}

	switch f.Kind {
	case domain.KindBool:
		// Empty string coerces to false, not null.
		if s, isStr := v.(string); isStr {
			switch strings.ToLower(strings.TrimSpace(s)) {
			case "true", "1", "yes":
				return true, true
			default:
				return false, true
			}
		}
		if b, isBool := v.(bool); isBool {
			return b, true
		}
		return domain.Row{"v": v}.Bool("v"), true

	case domain.KindInt:
		if s, isStr := v.(string); isStr {
			s = strings.TrimSpace(s)
			if s == "" {
				return nil, false
			}
			n, err := strconv.ParseInt(s, 10, 64)
			if err != nil {
				return v, true // leave malformed values for validation to reject
			}
			return n, true
		}
		if n, ok := (domain.Row{"v": v}).Int64("v"); ok {
			return n, true
		}
		return v, true

	case domain.KindFloat:
		switch t := v.(type) {
		case float64:
			return t, true
		case string:
			t = strings.TrimSpace(t)
			if t == "" {
				return nil, false
			}
			n, err := strconv.ParseFloat(t, 64)
			if err != nil {
				return v, true
			}
			return n, true
		}
		return v, true

	case domain.KindJSON:
		if s, isStr := v.(string); isStr {
			s = strings.TrimSpace(s)
			if s == "" {
				return nil, false
			}
			var decoded any
			if err := json.Unmarshal([]byte(s), &decoded); err != nil {
				return v, true
			}
			return decoded, true
		}
		return v, true

	case domain.KindTime, domain.KindString:
		if s, isStr := v.(string); isStr {
			if s == "" && f.Kind == domain.KindTime {
				return nil, false
			}
			return s, true
		}
		return v, true
	}

	return v, true
}
