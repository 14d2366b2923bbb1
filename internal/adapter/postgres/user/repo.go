// Package user implements the User repository using PostgreSQL.
package user

import (
	"context"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/quotehub/quotehub-backend/internal/adapter/postgres"
	"github.com/quotehub/quotehub-backend/internal/domain"
)

// Repo provides user persistence.
type Repo struct {
	*postgres.EntityStore
}

// New creates a new user repository.
func New(pool *pgxpool.Pool) (*Repo, error) {
	store, err := postgres.NewEntityStore(pool, domain.DataTypeUsers)
	if err != nil {
		return nil, err
	}
	return &Repo{EntityStore: store}, nil
}

// Find returns users matching the filter, newest first.
func (r *Repo) Find(ctx context.Context, f domain.ExportFilter) ([]domain.Row, error) {
	q := r.filtered(postgres.Builder.Select(r.Schema().Columns()...).From("users"), f).
		OrderBy("created_at DESC")
	if f.Limit > 0 {
		q = q.Limit(uint64(f.Limit))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build user query: %w", err)
	}

	rows, err := postgres.QuerierFromCtx(ctx, r.Pool()).Query(ctx, sql, args...)
	if err != nil {
		return nil, postgres.MapError(err, "users", "find")
	}
	return postgres.CollectRows(rows)
}

// CountFiltered returns the number of users matching the filter.
func (r *Repo) CountFiltered(ctx context.Context, f domain.ExportFilter) (int, error) {
	sql, args, err := r.filtered(postgres.Builder.Select("COUNT(*)").From("users"), f).ToSql()
	if err != nil {
		return 0, fmt.Errorf("build user count: %w", err)
	}

	var n int
	if err := postgres.QuerierFromCtx(ctx, r.Pool()).QueryRow(ctx, sql, args...).Scan(&n); err != nil {
		return 0, postgres.MapError(err, "users", "count")
	}
	return n, nil
}

func (r *Repo) filtered(q squirrel.SelectBuilder, f domain.ExportFilter) squirrel.SelectBuilder {
	if f.Search != nil && *f.Search != "" {
		pattern := "%" + *f.Search + "%"
		q = q.Where(squirrel.Or{
			squirrel.ILike{"name": pattern},
			squirrel.ILike{"email": pattern},
		})
	}
	if f.Role != nil && *f.Role != "" {
		q = q.Where(squirrel.Eq{"role": strings.ToLower(*f.Role)})
	}
	if f.CreatedAfter != nil {
		q = q.Where(squirrel.GtOrEq{"created_at": *f.CreatedAfter})
	}
	if f.CreatedBefore != nil {
		q = q.Where(squirrel.LtOrEq{"created_at": *f.CreatedBefore})
	}
	return q
}
