// Package relation implements a shared repository for the pure
// relation and activity tables (quote_tags, user_likes, quote_views
// and the rest). These tables have no natural keys and no mergeable
// state, so one schema-driven repository serves all of them.
package relation

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/quotehub/quotehub-backend/internal/adapter/postgres"
	"github.com/quotehub/quotehub-backend/internal/domain"
)

// Repo provides persistence for one relation or activity table.
type Repo struct {
	*postgres.EntityStore
}

// New creates a repository for the given relation entity type.
func New(pool *pgxpool.Pool, dt domain.DataType) (*Repo, error) {
	if domain.CoreEntities[dt] {
		return nil, fmt.Errorf("%s is a core entity, not a relation", dt)
	}
	store, err := postgres.NewEntityStore(pool, dt)
	if err != nil {
		return nil, err
	}
	return &Repo{EntityStore: store}, nil
}

// Find returns rows from the relation table, newest first when the
// table carries a created_at column.
func (r *Repo) Find(ctx context.Context, f domain.ExportFilter) ([]domain.Row, error) {
	q := postgres.Builder.Select(r.Schema().Columns()...).From(r.Schema().Table)
	if _, ok := r.Schema().Field("created_at"); ok {
		q = q.OrderBy("created_at DESC")
	}
	if f.Limit > 0 {
		q = q.Limit(uint64(f.Limit))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build %s query: %w", r.Schema().Table, err)
	}

	rows, err := postgres.QuerierFromCtx(ctx, r.Pool()).Query(ctx, sql, args...)
	if err != nil {
		return nil, postgres.MapError(err, r.Schema().Table, "find")
	}
	return postgres.CollectRows(rows)
}

// CountFiltered returns the number of rows in the relation table.
func (r *Repo) CountFiltered(ctx context.Context, _ domain.ExportFilter) (int, error) {
	return r.Count(ctx)
}
