package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/quotehub/quotehub-backend/internal/domain"
)

// EntityStore implements the schema-driven persistence operations shared
// by every entity repository: dynamic-column inserts, batched
// natural-key lookups, field-map updates, and sequence advancement.
// Entity packages embed it and add their own finders.
type EntityStore struct {
	pool   *pgxpool.Pool
	schema domain.Schema
}

// NewEntityStore creates a store for one entity type.
func NewEntityStore(pool *pgxpool.Pool, dt domain.DataType) (*EntityStore, error) {
	schema, ok := domain.SchemaFor(dt)
	if !ok {
		return nil, fmt.Errorf("entity store: unknown entity type %q", dt)
	}
	return &EntityStore{pool: pool, schema: schema}, nil
}

// Schema returns the entity schema backing this store.
func (s *EntityStore) Schema() domain.Schema { return s.schema }

// Pool exposes the underlying pool for finders built on top of the store.
func (s *EntityStore) Pool() *pgxpool.Pool { return s.pool }

// table returns the quoted table name ("references" is a reserved word).
func (s *EntityStore) table() string {
	return `"` + s.schema.Table + `"`
}

// hasIDColumn reports whether the schema carries a surrogate id.
func (s *EntityStore) hasIDColumn() bool {
	_, ok := s.schema.Field("id")
	return ok
}

// Insert writes one row using only the schema columns present on it.
// When withID is false the "id" column is dropped so the database
// assigns one. Returns the row's id (zero for tables without one).
func (s *EntityStore) Insert(ctx context.Context, row domain.Row, withID bool) (int64, error) {
	cols, args := s.insertColumns(row, withID)
	if len(cols) == 0 {
		return 0, fmt.Errorf("%s: %w", s.schema.Table, domain.NewValidationError("row", "no recognized fields"))
	}

	q := Builder.Insert(s.table()).Columns(cols...).Values(args...)

	querier := QuerierFromCtx(ctx, s.pool)

	if !s.hasIDColumn() {
		sql, sqlArgs, err := q.ToSql()
		if err != nil {
			return 0, fmt.Errorf("build insert: %w", err)
		}
		if _, err := querier.Exec(ctx, sql, sqlArgs...); err != nil {
			return 0, MapError(err, s.schema.Table, rowKey(row))
		}
		return 0, nil
	}

	sql, sqlArgs, err := q.Suffix("RETURNING id").ToSql()
	if err != nil {
		return 0, fmt.Errorf("build insert: %w", err)
	}

	var id int64
	if err := querier.QueryRow(ctx, sql, sqlArgs...).Scan(&id); err != nil {
		return 0, MapError(err, s.schema.Table, rowKey(row))
	}
	return id, nil
}

// insertColumns converts the row to column/arg slices in schema order.
func (s *EntityStore) insertColumns(row domain.Row, withID bool) ([]string, []any) {
	var cols []string
	var args []any
	for _, f := range s.schema.Fields {
		if f.Name == "id" && !withID {
			continue
		}
		if !row.Has(f.Name) {
			continue
		}
		arg, ok := toArg(f, row)
		if !ok {
			continue
		}
		cols = append(cols, f.Name)
		args = append(args, arg)
	}
	return cols, args
}

// FindByNaturalKeys issues one lookup for a whole sub-batch of keys and
// returns the matching rows keyed by their recomputed natural key. One
// round-trip per sub-batch, not one per row.
func (s *EntityStore) FindByNaturalKeys(ctx context.Context, keys []string) (map[string]domain.Row, error) {
	if len(keys) == 0 || !domain.HasNaturalKey(s.schema.Entity) {
		return map[string]domain.Row{}, nil
	}

	expr, ok := naturalKeyExpr(s.schema.Entity)
	if !ok {
		return map[string]domain.Row{}, nil
	}

	q := Builder.Select(s.schema.Columns()...).
		From(s.table()).
		Where(squirrel.Expr(expr+" = ANY(?)", keys))

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build natural-key lookup: %w", err)
	}

	rows, err := QuerierFromCtx(ctx, s.pool).Query(ctx, sql, args...)
	if err != nil {
		return nil, MapError(err, s.schema.Table, "natural keys")
	}

	found, err := CollectRows(rows)
	if err != nil {
		return nil, MapError(err, s.schema.Table, "natural keys")
	}

	// Recompute the key in Go so matching follows the same
	// normalization as the incoming rows (the SQL expression is a
	// superset filter).
	out := make(map[string]domain.Row, len(found))
	for _, row := range found {
		if key := domain.NaturalKey(s.schema.Entity, row); key != "" {
			out[key] = row
		}
	}
	return out, nil
}

// naturalKeyExpr returns the SQL form of the entity's natural key.
func naturalKeyExpr(dt domain.DataType) (string, bool) {
	switch dt {
	case domain.DataTypeAuthors, domain.DataTypeTags:
		return "lower(btrim(name))", true
	case domain.DataTypeReferences:
		return "lower(btrim(name)) || '|' || lower(btrim(primary_type))", true
	case domain.DataTypeUsers:
		return "lower(btrim(email))", true
	}
	return "", false
}

// UpdateFields applies a merged field map to one row by id.
func (s *EntityStore) UpdateFields(ctx context.Context, id int64, fields domain.Row) error {
	setMap := make(map[string]any, len(fields))
	for name := range fields {
		f, known := s.schema.Field(name)
		if !known || name == "id" {
			continue
		}
		if arg, ok := toArg(f, fields); ok {
			setMap[name] = arg
		}
	}
	if len(setMap) == 0 {
		return nil
	}
	if _, hasUpdated := s.schema.Field("updated_at"); hasUpdated {
		setMap["updated_at"] = time.Now().UTC()
	}

	sql, args, err := Builder.Update(s.table()).
		SetMap(setMap).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	tag, err := QuerierFromCtx(ctx, s.pool).Exec(ctx, sql, args...)
	if err != nil {
		return MapError(err, s.schema.Table, strconv.FormatInt(id, 10))
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s %d: %w", s.schema.Table, id, domain.ErrNotFound)
	}
	return nil
}

// AdvanceIDSequence moves the table's id sequence past MAX(id) so
// organic inserts after an id-preserving import never collide.
func (s *EntityStore) AdvanceIDSequence(ctx context.Context) error {
	if !s.hasIDColumn() {
		return nil
	}
	sql := fmt.Sprintf(
		`SELECT setval(pg_get_serial_sequence('%s', 'id'), GREATEST((SELECT COALESCE(MAX(id), 1) FROM %s), 1))`,
		s.table(), s.table(),
	)
	if _, err := QuerierFromCtx(ctx, s.pool).Exec(ctx, sql); err != nil {
		return MapError(err, s.schema.Table, "id sequence")
	}
	return nil
}

// Count returns the total number of rows.
func (s *EntityStore) Count(ctx context.Context) (int, error) {
	sql, args, err := Builder.Select("COUNT(*)").From(s.table()).ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count: %w", err)
	}
	var n int
	if err := QuerierFromCtx(ctx, s.pool).QueryRow(ctx, sql, args...).Scan(&n); err != nil {
		return 0, MapError(err, s.schema.Table, "count")
	}
	return n, nil
}

// ExistsByID reports whether rows with the given ids exist; the result
// map contains only the ids that do.
func (s *EntityStore) ExistsByID(ctx context.Context, ids []int64) (map[int64]bool, error) {
	if len(ids) == 0 || !s.hasIDColumn() {
		return map[int64]bool{}, nil
	}

	sql, args, err := Builder.Select("id").From(s.table()).
		Where(squirrel.Expr("id = ANY(?)", ids)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build exists lookup: %w", err)
	}

	rows, err := QuerierFromCtx(ctx, s.pool).Query(ctx, sql, args...)
	if err != nil {
		return nil, MapError(err, s.schema.Table, "exists")
	}
	defer rows.Close()

	out := make(map[int64]bool, len(ids))
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, MapError(err, s.schema.Table, "exists")
		}
		out[id] = true
	}
	return out, rows.Err()
}

// toArg converts a row field into a database argument.
func toArg(f domain.Field, row domain.Row) (any, bool) {
	v := row[f.Name]
	if v == nil {
		return nil, false
	}

	switch f.Kind {
	case domain.KindInt:
		n, ok := row.Int64(f.Name)
		if !ok {
			return nil, false
		}
		return n, true
	case domain.KindFloat:
		switch t := v.(type) {
		case float64:
			return t, true
		case int64:
			return float64(t), true
		case string:
			n, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
			if err != nil {
				return nil, false
			}
			return n, true
		}
		return nil, false
	case domain.KindBool:
		return row.Bool(f.Name), true
	case domain.KindTime:
		ts, ok := row.Time(f.Name)
		if !ok {
			return nil, false
		}
		return ts.UTC(), true
	case domain.KindJSON:
		b, err := json.Marshal(v)
		if err != nil {
			return nil, false
		}
		return string(b), true
	default:
		return row.String(f.Name), true
	}
}

// rowKey returns a short identifying value for error messages.
func rowKey(row domain.Row) string {
	if id, ok := row.Int64("id"); ok {
		return strconv.FormatInt(id, 10)
	}
	if name := row.String("name"); name != "" {
		return name
	}
	return "row"
}
