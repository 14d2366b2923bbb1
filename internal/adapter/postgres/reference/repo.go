// Package reference implements the Reference repository using PostgreSQL.
package reference

import (
	"context"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/quotehub/quotehub-backend/internal/adapter/postgres"
	"github.com/quotehub/quotehub-backend/internal/domain"
)

// Repo provides reference persistence.
type Repo struct {
	*postgres.EntityStore
}

// New creates a new reference repository.
func New(pool *pgxpool.Pool) (*Repo, error) {
	store, err := postgres.NewEntityStore(pool, domain.DataTypeReferences)
	if err != nil {
		return nil, err
	}
	return &Repo{EntityStore: store}, nil
}

// Find returns references matching the filter, newest first.
func (r *Repo) Find(ctx context.Context, f domain.ExportFilter) ([]domain.Row, error) {
	q := r.filtered(postgres.Builder.Select(r.Schema().Columns()...).From(`"references"`), f).
		OrderBy("created_at DESC")
	if f.Limit > 0 {
		q = q.Limit(uint64(f.Limit))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build reference query: %w", err)
	}

	rows, err := postgres.QuerierFromCtx(ctx, r.Pool()).Query(ctx, sql, args...)
	if err != nil {
		return nil, postgres.MapError(err, "references", "find")
	}
	return postgres.CollectRows(rows)
}

// CountFiltered returns the number of references matching the filter.
func (r *Repo) CountFiltered(ctx context.Context, f domain.ExportFilter) (int, error) {
	sql, args, err := r.filtered(postgres.Builder.Select("COUNT(*)").From(`"references"`), f).ToSql()
	if err != nil {
		return 0, fmt.Errorf("build reference count: %w", err)
	}

	var n int
	if err := postgres.QuerierFromCtx(ctx, r.Pool()).QueryRow(ctx, sql, args...).Scan(&n); err != nil {
		return 0, postgres.MapError(err, "references", "count")
	}
	return n, nil
}

// QuoteCounts returns quotes-per-reference for the given reference ids.
func (r *Repo) QuoteCounts(ctx context.Context, ids []int64) (map[int64]int64, error) {
	if len(ids) == 0 {
		return map[int64]int64{}, nil
	}

	sql, args, err := postgres.Builder.
		Select("reference_id", "COUNT(*)").
		From("quotes").
		Where(squirrel.Expr("reference_id = ANY(?)", ids)).
		GroupBy("reference_id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build reference quote counts: %w", err)
	}

	rows, err := postgres.QuerierFromCtx(ctx, r.Pool()).Query(ctx, sql, args...)
	if err != nil {
		return nil, postgres.MapError(err, "references", "quote counts")
	}
	defer rows.Close()

	out := make(map[int64]int64, len(ids))
	for rows.Next() {
		var id, count int64
		if err := rows.Scan(&id, &count); err != nil {
			return nil, postgres.MapError(err, "references", "quote counts")
		}
		out[id] = count
	}
	return out, rows.Err()
}

func (r *Repo) filtered(q squirrel.SelectBuilder, f domain.ExportFilter) squirrel.SelectBuilder {
	if f.Search != nil && *f.Search != "" {
		q = q.Where(squirrel.ILike{"name": "%" + *f.Search + "%"})
	}
	if f.PrimaryType != nil && *f.PrimaryType != "" {
		q = q.Where(squirrel.Eq{"primary_type": strings.ToLower(*f.PrimaryType)})
	}
	if f.Language != nil && *f.Language != "" {
		q = q.Where(squirrel.Eq{"original_language": *f.Language})
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
