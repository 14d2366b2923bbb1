// Package author implements the Author repository using PostgreSQL.
package author

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/quotehub/quotehub-backend/internal/adapter/postgres"
	"github.com/quotehub/quotehub-backend/internal/domain"
)

// Repo provides author persistence. The embedded EntityStore carries
// the schema-driven insert/lookup/update/sequence operations.
type Repo struct {
	*postgres.EntityStore
}

// New creates a new author repository.
func New(pool *pgxpool.Pool) (*Repo, error) {
	store, err := postgres.NewEntityStore(pool, domain.DataTypeAuthors)
	if err != nil {
		return nil, err
	}
	return &Repo{EntityStore: store}, nil
}

// Find returns authors matching the filter, newest first.
func (r *Repo) Find(ctx context.Context, f domain.ExportFilter) ([]domain.Row, error) {
	q := r.filtered(postgres.Builder.Select(r.Schema().Columns()...).From(`"authors"`), f).
		OrderBy("created_at DESC")
	if f.Limit > 0 {
		q = q.Limit(uint64(f.Limit))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build author query: %w", err)
	}

	rows, err := postgres.QuerierFromCtx(ctx, r.Pool()).Query(ctx, sql, args...)
	if err != nil {
		return nil, postgres.MapError(err, "authors", "find")
	}
	return postgres.CollectRows(rows)
}

// CountFiltered returns the number of authors matching the filter,
// ignoring the limit. Used by export validation for size estimates.
func (r *Repo) CountFiltered(ctx context.Context, f domain.ExportFilter) (int, error) {
	sql, args, err := r.filtered(postgres.Builder.Select("COUNT(*)").From(`"authors"`), f).ToSql()
	if err != nil {
		return 0, fmt.Errorf("build author count: %w", err)
	}

	var n int
	if err := postgres.QuerierFromCtx(ctx, r.Pool()).QueryRow(ctx, sql, args...).Scan(&n); err != nil {
		return 0, postgres.MapError(err, "authors", "count")
	}
	return n, nil
}

// QuoteCounts returns quotes-per-author for the given author ids.
// Derived data for include_relations exports; never mutates sources.
func (r *Repo) QuoteCounts(ctx context.Context, ids []int64) (map[int64]int64, error) {
	if len(ids) == 0 {
		return map[int64]int64{}, nil
	}

	sql, args, err := postgres.Builder.
		Select("author_id", "COUNT(*)").
		From("quotes").
		Where(squirrel.Expr("author_id = ANY(?)", ids)).
		GroupBy("author_id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build author quote counts: %w", err)
	}

	rows, err := postgres.QuerierFromCtx(ctx, r.Pool()).Query(ctx, sql, args...)
	if err != nil {
		return nil, postgres.MapError(err, "authors", "quote counts")
	}
	defer rows.Close()

	out := make(map[int64]int64, len(ids))
	for rows.Next() {
		var id, count int64
		if err := rows.Scan(&id, &count); err != nil {
			return nil, postgres.MapError(err, "authors", "quote counts")
		}
		out[id] = count
	}
	return out, rows.Err()
}

func (r *Repo) filtered(q squirrel.SelectBuilder, f domain.ExportFilter) squirrel.SelectBuilder {
	if f.Search != nil && *f.Search != "" {
		q = q.Where(squirrel.ILike{"name": "%" + *f.Search + "%"})
	}
	if f.IsFictional != nil {
		q = q.Where(squirrel.Eq{"is_fictional": *f.IsFictional})
	}
	if f.MinViews != nil {
		q = q.Where(squirrel.GtOrEq{"views_count": *f.MinViews})
	}
	if f.CreatedAfter != nil {
		q = q.Where(squirrel.GtOrEq{"created_at": *f.CreatedAfter})
	}
	if f.CreatedBefore != nil {
		q = q.Where(squirrel.LtOrEq{"created_at": *f.CreatedBefore})
	}
	return q
}
