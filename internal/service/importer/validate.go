package importer

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/quotehub/quotehub-backend/internal/domain"
)

// validateRows runs schema checks over a decoded entity file. Hard
// violations come back as errors keyed by row index; duplicate natural
// keys inside the bundle are soft and come back as warnings.
func validateRows(dt domain.DataType, rows []domain.Row) (errs, warnings []string) {
	schema, ok := domain.SchemaFor(dt)
	if !ok {
		return []string{fmt.Sprintf("unknown entity type %q", dt)}, nil
	}

	for i, row := range rows {
		for _, field := range schema.Fields {
			errs = append(errs, checkField(dt, i, field, row)...)
		}
	}

	warnings = append(warnings, duplicateWarnings(dt, rows)...)
	return errs, warnings
}

func checkField(dt domain.DataType, idx int, field domain.Field, row domain.Row) []string {
	var errs []string
	fail := func(msg string) {
		errs = append(errs, fmt.Sprintf("%s[%d].%s: %s", dt, idx, field.Name, msg))
	}

	val, present := row[field.Name]
	if !present || val == nil {
		if field.Required {
			fail("is required")
		}
		return errs
	}

	switch field.Kind {
	case domain.KindString:
		s := row.String(field.Name)
		if field.Required && s == "" {
			fail("must not be empty")
		}
		if field.MaxLen > 0 && len(s) > field.MaxLen {
			fail(fmt.Sprintf("exceeds maximum length %d", field.MaxLen))
		}
		if len(field.Enum) > 0 && s != "" && !contains(field.Enum, s) {
			fail(fmt.Sprintf("invalid value %q", s))
		}
	case domain.KindInt:
		n, ok := row.Int64(field.Name)
		if !ok {
			fail(fmt.Sprintf("is not a number: %v", val))
			break
		}
		if field.Counter && n < 0 {
			fail("must not be negative")
		}
	case domain.KindFloat:
		switch val.(type) {
		case float64, float32, int, int64:
		default:
			fail(fmt.Sprintf("is not a number: %v", val))
		}
	case domain.KindBool:
		switch val.(type) {
		case bool:
		default:
			fail(fmt.Sprintf("is not a boolean: %v", val))
		}
	case domain.KindTime:
		switch v := val.(type) {
		case time.Time:
		case string:
			if _, ok := domain.ParseTime(v); !ok {
				fail("invalid timestamp: " + v)
			}
		default:
			fail(fmt.Sprintf("invalid timestamp: %v", val))
		}
	case domain.KindJSON:
		switch v := val.(type) {
		case map[string]any, []any:
		case string:
			if !json.Valid([]byte(v)) {
				fail("invalid JSON value")
			}
		default:
			fail(fmt.Sprintf("invalid JSON value: %v", val))
		}
	}
	return errs
}

// duplicateWarnings flags rows inside one file that collide on their
// natural key or fingerprint. The first occurrence wins; later ones
// are resolved by the conflict policy at apply time.
func duplicateWarnings(dt domain.DataType, rows []domain.Row) []string {
	keyOf := func(row domain.Row) string { return domain.NaturalKey(dt, row) }
	if dt == domain.DataTypeQuotes {
		keyOf = domain.Fingerprint
	} else if !domain.HasNaturalKey(dt) {
		return nil
	}

	var warnings []string
	seen := make(map[string]int, len(rows))
	for i, row := range rows {
		key := keyOf(row)
		if key == "" {
			continue
		}
		if first, dup := seen[key]; dup {
			warnings = append(warnings, fmt.Sprintf(
				"%s[%d] duplicates %s[%d] within the uploaded file", dt, i, dt, first))
			continue
		}
		seen[key] = i
	}
	return warnings
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if strings.EqualFold(item, v) {
			return true
		}
	}
	return false
}
