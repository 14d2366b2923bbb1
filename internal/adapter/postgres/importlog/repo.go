// Package importlog implements the ImportLog repository using PostgreSQL.
package importlog

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/quotehub/quotehub-backend/internal/adapter/postgres"
	"github.com/quotehub/quotehub-backend/internal/domain"
)

const table = "import_logs"

var columns = []string{
	"id", "import_id", "filename", "format", "data_type", "total_records",
	"successful", "failed", "warnings", "options", "status", "created_at",
	"completed_at",
}

// Repo provides import log persistence.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new import log repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Create persists the log and fills in its generated id and timestamp.
func (r *Repo) Create(ctx context.Context, log *domain.ImportLog) error {
	sql, args, err := postgres.Builder.
		Insert(table).
		Columns(
			"import_id", "filename", "format", "data_type", "total_records",
			"successful", "failed", "warnings", "options", "status",
		).
		Values(
			log.ImportID, log.Filename, string(log.Format), string(log.DataType),
			log.TotalRecords, log.Successful, log.Failed, log.Warnings,
			log.Options, string(log.Status),
		).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build import log insert: %w", err)
	}

	q := postgres.QuerierFromCtx(ctx, r.pool)
	if err := q.QueryRow(ctx, sql, args...).Scan(&log.ID, &log.CreatedAt); err != nil {
		return postgres.MapError(err, "import log", log.ImportID.String())
	}
	return nil
}

// GetByImportID returns the log identified by its public import id.
func (r *Repo) GetByImportID(ctx context.Context, importID uuid.UUID) (*domain.ImportLog, error) {
	sql, args, err := postgres.Builder.
		Select(columns...).
		From(table).
		Where(squirrel.Eq{"import_id": importID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build import log query: %w", err)
	}

	var (
		log      domain.ImportLog
		format   string
		dataType string
		status   string
	)
	q := postgres.QuerierFromCtx(ctx, r.pool)
	err = q.QueryRow(ctx, sql, args...).Scan(
		&log.ID, &log.ImportID, &log.Filename, &format, &dataType,
		&log.TotalRecords, &log.Successful, &log.Failed, &log.Warnings,
		&log.Options, &status, &log.CreatedAt, &log.CompletedAt,
	)
	if err != nil {
		return nil, postgres.MapError(err, "import log", importID.String())
	}
	log.Format = domain.Format(format)
	log.DataType = domain.DataType(dataType)
	log.Status = domain.ImportStatus(status)
	return &log, nil
}

// UpdateCounts overwrites the running totals for an in-flight job.
func (r *Repo) UpdateCounts(ctx context.Context, importID uuid.UUID, total, successful, failed, warnings int) error {
	return r.update(ctx, importID, squirrel.Eq{
		"total_records": total,
		"successful":    successful,
		"failed":        failed,
		"warnings":      warnings,
	})
}

// SetStatus moves the job to a new state. Terminal states also record
// the completion time.
func (r *Repo) SetStatus(ctx context.Context, importID uuid.UUID, status domain.ImportStatus) error {
	fields := squirrel.Eq{"status": string(status)}
	if status.Terminal() {
		fields["completed_at"] = time.Now().UTC()
	}
	return r.update(ctx, importID, fields)
}

func (r *Repo) update(ctx context.Context, importID uuid.UUID, fields squirrel.Eq) error {
	sql, args, err := postgres.Builder.
		Update(table).
		SetMap(map[string]any(fields)).
		Where(squirrel.Eq{"import_id": importID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build import log update: %w", err)
	}

	tag, err := postgres.QuerierFromCtx(ctx, r.pool).Exec(ctx, sql, args...)
	if err != nil {
		return postgres.MapError(err, "import log", importID.String())
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("import log %s: %w", importID, domain.ErrNotFound)
	}
	return nil
}
