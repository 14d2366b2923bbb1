// Package quote implements the Quote repository using PostgreSQL.
package quote

import (
	"context"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/quotehub/quotehub-backend/internal/adapter/postgres"
	"github.com/quotehub/quotehub-backend/internal/domain"
)

// Repo provides quote persistence.
type Repo struct {
	*postgres.EntityStore
}

// New creates a new quote repository.
func New(pool *pgxpool.Pool) (*Repo, error) {
	store, err := postgres.NewEntityStore(pool, domain.DataTypeQuotes)
	if err != nil {
		return nil, err
	}
	return &Repo{EntityStore: store}, nil
}

// Find returns quotes matching the filter, newest first.
func (r *Repo) Find(ctx context.Context, f domain.ExportFilter) ([]domain.Row, error) {
	q := r.filtered(postgres.Builder.Select(r.Schema().Columns()...).From("quotes"), f).
		OrderBy("created_at DESC")
	if f.Limit > 0 {
		q = q.Limit(uint64(f.Limit))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build quote query: %w", err)
	}

	rows, err := postgres.QuerierFromCtx(ctx, r.Pool()).Query(ctx, sql, args...)
	if err != nil {
		return nil, postgres.MapError(err, "quotes", "find")
	}
	return postgres.CollectRows(rows)
}

// CountFiltered returns the number of quotes matching the filter.
func (r *Repo) CountFiltered(ctx context.Context, f domain.ExportFilter) (int, error) {
	sql, args, err := r.filtered(postgres.Builder.Select("COUNT(*)").From("quotes"), f).ToSql()
	if err != nil {
		return 0, fmt.Errorf("build quote count: %w", err)
	}

	var n int
	if err := postgres.QuerierFromCtx(ctx, r.Pool()).QueryRow(ctx, sql, args...).Scan(&n); err != nil {
		return 0, postgres.MapError(err, "quotes", "count")
	}
	return n, nil
}

// FindByNormalizedContents returns quotes whose trimmed lowercased
// content matches one of the given values. Used for duplicate
// detection during imports; matches are narrowed to exact
// author/reference pairs by the caller.
func (r *Repo) FindByNormalizedContents(ctx context.Context, contents []string) ([]domain.Row, error) {
	if len(contents) == 0 {
		return nil, nil
	}

	sql, args, err := postgres.Builder.
		Select(r.Schema().Columns()...).
		From("quotes").
		Where(squirrel.Expr("lower(btrim(content)) = ANY(?)", contents)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build quote content lookup: %w", err)
	}

	rows, err := postgres.QuerierFromCtx(ctx, r.Pool()).Query(ctx, sql, args...)
	if err != nil {
		return nil, postgres.MapError(err, "quotes", "content lookup")
	}
	return postgres.CollectRows(rows)
}

// AttachRelations embeds author, reference and tag data into the given
// quote rows under the "author", "reference" and "tags" keys. Lookups
// are batched per relation; a dangling id leaves the key absent.
func (r *Repo) AttachRelations(ctx context.Context, rows []domain.Row) error {
	if len(rows) == 0 {
		return nil
	}

	authorIDs := collectIDs(rows, "author_id")
	refIDs := collectIDs(rows, "reference_id")
	quoteIDs := collectIDs(rows, "id")

	authors, err := r.lookupByID(ctx, "authors", []string{"id", "name", "is_fictional", "job"}, authorIDs)
	if err != nil {
		return err
	}
	refs, err := r.lookupByID(ctx, "\"references\"", []string{"id", "name", "primary_type", "release_date"}, refIDs)
	if err != nil {
		return err
	}
	tags, err := r.tagNames(ctx, quoteIDs)
	if err != nil {
		return err
	}

	for _, row := range rows {
		if id, ok := row.Int64("author_id"); ok {
			if a, found := authors[id]; found {
				row["author"] = a
			}
		}
		if id, ok := row.Int64("reference_id"); ok {
			if ref, found := refs[id]; found {
				row["reference"] = ref
			}
		}
		if id, ok := row.Int64("id"); ok {
			if names, found := tags[id]; found {
				row["tags"] = names
			}
		}
	}
	return nil
}

func (r *Repo) lookupByID(ctx context.Context, table string, columns []string, ids []int64) (map[int64]domain.Row, error) {
	if len(ids) == 0 {
		return map[int64]domain.Row{}, nil
	}

	sql, args, err := postgres.Builder.
		Select(columns...).
		From(table).
		Where(squirrel.Expr("id = ANY(?)", ids)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build %s lookup: %w", table, err)
	}

	rows, err := postgres.QuerierFromCtx(ctx, r.Pool()).Query(ctx, sql, args...)
	if err != nil {
		return nil, postgres.MapError(err, strings.Trim(table, `"`), "relation lookup")
	}
	collected, err := postgres.CollectRows(rows)
	if err != nil {
		return nil, err
	}

	out := make(map[int64]domain.Row, len(collected))
	for _, row := range collected {
		if id, ok := row.Int64("id"); ok {
			out[id] = row
		}
	}
	return out, nil
}

func (r *Repo) tagNames(ctx context.Context, quoteIDs []int64) (map[int64][]string, error) {
	if len(quoteIDs) == 0 {
		return map[int64][]string{}, nil
	}

	sql, args, err := postgres.Builder.
		Select("qt.quote_id", "t.name").
		From("quote_tags qt").
		Join("tags t ON t.id = qt.tag_id").
		Where(squirrel.Expr("qt.quote_id = ANY(?)", quoteIDs)).
		OrderBy("t.name").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build quote tag lookup: %w", err)
	}

	rows, err := postgres.QuerierFromCtx(ctx, r.Pool()).Query(ctx, sql, args...)
	if err != nil {
		return nil, postgres.MapError(err, "quote_tags", "tag lookup")
	}
	defer rows.Close()

	out := make(map[int64][]string)
	for rows.Next() {
		var id int64
		var name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, postgres.MapError(err, "quote_tags", "tag lookup")
		}
		out[id] = append(out[id], name)
	}
	return out, rows.Err()
}

func (r *Repo) filtered(q squirrel.SelectBuilder, f domain.ExportFilter) squirrel.SelectBuilder {
	if f.Search != nil && *f.Search != "" {
		q = q.Where(squirrel.ILike{"content": "%" + *f.Search + "%"})
	}
	if f.Status != nil {
		q = q.Where(squirrel.Eq{"status": string(*f.Status)})
	}
	if f.Language != nil && *f.Language != "" {
		q = q.Where(squirrel.Eq{"language": strings.ToLower(*f.Language)})
	}
	if f.AuthorID != nil {
		q = q.Where(squirrel.Eq{"author_id": *f.AuthorID})
	}
	if f.ReferenceID != nil {
		q = q.Where(squirrel.Eq{"reference_id": *f.ReferenceID})
	}
	if f.UserID != nil {
		q = q.Where(squirrel.Eq{"user_id": *f.UserID})
	}
	if len(f.TagIDs) > 0 {
		q = q.Where(squirrel.Expr(
			"EXISTS (SELECT 1 FROM quote_tags qt WHERE qt.quote_id = quotes.id AND qt.tag_id = ANY(?))",
			f.TagIDs,
		))
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

func collectIDs(rows []domain.Row, key string) []int64 {
	seen := make(map[int64]struct{}, len(rows))
	out := make([]int64, 0, len(rows))
	for _, row := range rows {
		id, ok := row.Int64(key)
		if !ok {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
