// Package exportlog implements the ExportLog repository using PostgreSQL.
package exportlog

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/quotehub/quotehub-backend/internal/adapter/postgres"
	"github.com/quotehub/quotehub-backend/internal/domain"
)

const table = "export_logs"

var columns = []string{
	"id", "export_id", "filename", "format", "data_type", "filters",
	"record_count", "file_size", "user_id", "include_relations",
	"include_metadata", "download_count", "created_at", "expires_at",
}

// Repo provides export log persistence.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new export log repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Create persists the log and fills in its generated id and timestamp.
func (r *Repo) Create(ctx context.Context, log *domain.ExportLog) error {
	sql, args, err := postgres.Builder.
		Insert(table).
		Columns(
			"export_id", "filename", "format", "data_type", "filters",
			"record_count", "file_size", "user_id", "include_relations",
			"include_metadata", "expires_at",
		).
		Values(
			log.ExportID, log.Filename, string(log.Format), string(log.DataType),
			log.Filters, log.RecordCount, log.FileSize, log.UserID,
			log.IncludeRelations, log.IncludeMetadata, log.ExpiresAt,
		).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build export log insert: %w", err)
	}

	q := postgres.QuerierFromCtx(ctx, r.pool)
	if err := q.QueryRow(ctx, sql, args...).Scan(&log.ID, &log.CreatedAt); err != nil {
		return postgres.MapError(err, "export log", log.ExportID.String())
	}
	return nil
}

// GetByExportID returns the log identified by its public export id.
func (r *Repo) GetByExportID(ctx context.Context, exportID uuid.UUID) (*domain.ExportLog, error) {
	sql, args, err := postgres.Builder.
		Select(columns...).
		From(table).
		Where(squirrel.Eq{"export_id": exportID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build export log query: %w", err)
	}

	var (
		log      domain.ExportLog
		format   string
		dataType string
	)
	q := postgres.QuerierFromCtx(ctx, r.pool)
	err = q.QueryRow(ctx, sql, args...).Scan(
		&log.ID, &log.ExportID, &log.Filename, &format, &dataType,
		&log.Filters, &log.RecordCount, &log.FileSize, &log.UserID,
		&log.IncludeRelations, &log.IncludeMetadata, &log.DownloadCount,
		&log.CreatedAt, &log.ExpiresAt,
	)
	if err != nil {
		return nil, postgres.MapError(err, "export log", exportID.String())
	}
	log.Format = domain.Format(format)
	log.DataType = domain.DataType(dataType)
	return &log, nil
}

// IncrementDownload bumps the download counter for an export.
func (r *Repo) IncrementDownload(ctx context.Context, exportID uuid.UUID) error {
	sql, args, err := postgres.Builder.
		Update(table).
		Set("download_count", squirrel.Expr("download_count + 1")).
		Where(squirrel.Eq{"export_id": exportID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build export log update: %w", err)
	}

	tag, err := postgres.QuerierFromCtx(ctx, r.pool).Exec(ctx, sql, args...)
	if err != nil {
		return postgres.MapError(err, "export log", exportID.String())
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("export log %s: %w", exportID, domain.ErrNotFound)
	}
	return nil
}
