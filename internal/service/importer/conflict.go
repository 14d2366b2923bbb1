package importer

import (
	"github.com/quotehub/quotehub-backend/internal/domain"
)

type action string

const (
	actionInsert action = "insert"
	actionSkip   action = "skip"
	actionUpdate action = "update"
)

// resolution is the decided fate of one candidate row.
type resolution struct {
	Action     action
	Candidate  domain.Row
	ExistingID int64      // set for update
	Fields     domain.Row // merged field set for update
}

// resolveRows applies the conflict policy to a batch of candidates
// against their pre-fetched existing counterparts. The existing map is
// keyed by natural key (or fingerprint for quotes); the lookup itself
// is batched by the caller so this function stays pure.
func resolveRows(
	rows []domain.Row,
	existing map[string]domain.Row,
	keyOf func(domain.Row) string,
	cc ConflictConfig,
	schema domain.Schema,
) []resolution {
	out := make([]resolution, 0, len(rows))
	for _, row := range rows {
		out = append(out, resolveRow(row, existing, keyOf, cc, schema))
	}
	return out
}

func resolveRow(
	row domain.Row,
	existing map[string]domain.Row,
	keyOf func(domain.Row) string,
	cc ConflictConfig,
	schema domain.Schema,
) resolution {
	if cc.Mode == domain.ConflictInsert {
		return resolution{Action: actionInsert, Candidate: row}
	}

	key := keyOf(row)
	if key == "" {
		return resolution{Action: actionInsert, Candidate: row}
	}
	match, found := existing[key]
	if !found {
		return resolution{Action: actionInsert, Candidate: row}
	}

	if cc.Mode == domain.ConflictIgnore {
		return resolution{Action: actionSkip, Candidate: row}
	}

	// Upsert. A matched row without a readable id cannot be updated.
	id, ok := match.Int64("id")
	if !ok {
		return resolution{Action: actionSkip, Candidate: row}
	}
	fields := mergeFields(match, row, cc.Strategy, schema)
	if len(fields) == 0 {
		return resolution{Action: actionSkip, Candidate: row}
	}
	return resolution{Action: actionUpdate, Candidate: row, ExistingID: id, Fields: fields}
}

// mergeFields computes the update set for an upsert match.
//
// fill-missing keeps every non-null existing value and only adopts the
// candidate's value for fields the existing row is missing. Counters
// follow the same rule and are never summed. overwrite takes every
// field present on the candidate.
func mergeFields(existing, candidate domain.Row, strategy domain.UpdateStrategy, schema domain.Schema) domain.Row {
	fields := make(domain.Row)
	for _, field := range schema.Fields {
		switch field.Name {
		case "id", "created_at", "updated_at":
			continue
		}

		candVal, candHas := candidate[field.Name]
		if !candHas || candVal == nil {
			continue
		}

		if strategy == domain.StrategyOverwrite {
			fields[field.Name] = candVal
			continue
		}

		if existVal, has := existing[field.Name]; has && existVal != nil {
			continue
		}
		fields[field.Name] = candVal
	}
	return fields
}

// keyFor returns the batched-lookup key function for an entity type.
func keyFor(dt domain.DataType) func(domain.Row) string {
	if dt == domain.DataTypeQuotes {
		return domain.Fingerprint
	}
	return func(row domain.Row) string { return domain.NaturalKey(dt, row) }
}
