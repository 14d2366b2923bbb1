package codec

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/quotehub/quotehub-backend/internal/domain"
)

// encodeCSV writes a header row that is the union of all keys seen
// across rows (internal metadata keys excluded), ordered by schema
// declaration with unknown keys appended alphabetically. Every field is
// stringified; objects and arrays are JSON-stringified. Quoting and
// quote-doubling are handled by encoding/csv.
func encodeCSV(schema domain.Schema, rows []domain.Row) (string, error) {
	header := csvHeader(schema, rows)

	var sb strings.Builder
	w := csv.NewWriter(&sb)

	if err := w.Write(header); err != nil {
		return "", fmt.Errorf("encode csv header: %w", err)
	}

	record := make([]string, len(header))
	for _, row := range rows {
		for i, col := range header {
			if row.Has(col) {
				record[i] = row.String(col)
			} else {
				record[i] = ""
			}
		}
		if err := w.Write(record); err != nil {
			return "", fmt.Errorf("encode csv row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("encode csv: %w", err)
	}
	return sb.String(), nil
}

func csvHeader(schema domain.Schema, rows []domain.Row) []string {
	seen := make(map[string]bool)
	for _, row := range rows {
		for _, k := range exportKeys(row) {
			seen[k] = true
		}
	}

	var header []string
	for _, col := range schema.Columns() {
		if seen[col] {
			header = append(header, col)
			delete(seen, col)
		}
	}

	extra := make([]string, 0, len(seen))
	for k := range seen {
		extra = append(extra, k)
	}
	sort.Strings(extra)
	return append(header, extra...)
}

func decodeCSV(schema domain.Schema, content string) ([]domain.Row, error) {
	r := csv.NewReader(strings.NewReader(content))
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("decode csv header: %w", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	var rows []domain.Row
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("decode csv row %d: %w", len(rows)+2, err)
		}

		row := make(domain.Row, len(header))
		for i, col := range header {
			if col == "" || i >= len(record) {
				continue
			}
			value := record[i]
			f, known := schema.Field(col)
			if !known {
				if value != "" {
					row[col] = value
				}
				continue
			}
			// Empty cells: booleans coerce to false, everything else is absent.
			if value == "" && f.Kind != domain.KindBool {
				continue
			}
			if coerced, ok := coerceValue(f, value); ok {
				row[col] = coerced
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}
