package codec

import (
	"encoding/json"
	"fmt"

	"github.com/quotehub/quotehub-backend/internal/domain"
)

// encodeJSON is a direct structural serialization: arrays and objects
// inside a row are preserved as nested JSON.
func encodeJSON(rows []domain.Row) (string, error) {
	out := make([]domain.Row, len(rows))
	for i, row := range rows {
		clean := make(domain.Row, len(row))
		for _, k := range exportKeys(row) {
			clean[k] = row[k]
		}
		out[i] = clean
	}

	b, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode json: %w", err)
	}
	return string(b), nil
}

func decodeJSON(schema domain.Schema, content string) ([]domain.Row, error) {
	var raw []domain.Row
	if err := json.Unmarshal([]byte(content), &raw); err != nil {
		// Accept a single object payload as a one-row set.
		var single domain.Row
		if err2 := json.Unmarshal([]byte(content), &single); err2 != nil {
			return nil, fmt.Errorf("decode json: %w", err)
		}
		raw = []domain.Row{single}
	}

	rows := make([]domain.Row, len(raw))
	for i, r := range raw {
		rows[i] = coerceRow(schema, r)
	}
	return rows, nil
}
