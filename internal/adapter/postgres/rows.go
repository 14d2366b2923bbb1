package postgres

import (
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/quotehub/quotehub-backend/internal/domain"
)

// Builder is the squirrel statement builder configured for PostgreSQL
// placeholders. All repository queries start from it.
var Builder = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// CollectRows scans every remaining row into a domain.Row keyed by
// column name. NULL columns are omitted; timestamps stay as time.Time.
func CollectRows(rows pgx.Rows) ([]domain.Row, error) {
	defer rows.Close()

	fields := rows.FieldDescriptions()
	var out []domain.Row

	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, err
		}

		row := make(domain.Row, len(fields))
		for i, fd := range fields {
			v := values[i]
			if v == nil {
				continue
			}
			row[fd.Name] = normalizeValue(v)
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// normalizeValue converts driver-specific values into the small set of
// types domain.Row works with.
func normalizeValue(v any) any {
	switch t := v.(type) {
	case int16:
		return int64(t)
	case int32:
		return int64(t)
	case int:
		return int64(t)
	case float32:
		return float64(t)
	case time.Time:
		return t.UTC()
	default:
		return v
	}
}
