// Package backupfile implements the BackupFile repository using PostgreSQL.
package backupfile

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

const table = "backup_files"

var columns = []string{
	"id", "backup_id", "file_key", "export_log_id", "import_log_id",
	"filename", "file_path", "original_size", "compressed_size",
	"content_hash", "compression_type", "status", "retention_days",
	"expires_at", "access_count", "last_access_at", "created_at",
}

// Repo provides backup metadata persistence.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new backup file repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Create persists the metadata row and fills in its generated id and
// timestamp. Callers create the row before the object-store write, in
// uploading status.
func (r *Repo) Create(ctx context.Context, b *domain.BackupFile) error {
	sql, args, err := postgres.Builder.
		Insert(table).
		Columns(
			"backup_id", "file_key", "export_log_id", "import_log_id",
			"filename", "file_path", "original_size", "compressed_size",
			"content_hash", "compression_type", "status", "retention_days",
			"expires_at",
		).
		Values(
			b.BackupID, b.FileKey, b.ExportLogID, b.ImportLogID,
			b.Filename, b.FilePath, b.OriginalSize, b.CompressedSize,
			b.ContentHash, string(b.CompressionType), string(b.Status),
			b.RetentionDays, b.ExpiresAt,
		).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build backup insert: %w", err)
	}

	q := postgres.QuerierFromCtx(ctx, r.pool)
	if err := q.QueryRow(ctx, sql, args...).Scan(&b.ID, &b.CreatedAt); err != nil {
		return postgres.MapError(err, "backup", b.BackupID.String())
	}
	return nil
}

// GetByBackupID returns the metadata row for the given public backup id.
func (r *Repo) GetByBackupID(ctx context.Context, backupID uuid.UUID) (*domain.BackupFile, error) {
	rows, err := r.query(ctx, squirrel.Eq{"backup_id": backupID}, 0)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("backup %s: %w", backupID, domain.ErrNotFound)
	}
	return rows[0], nil
}

// GetByExportLogID returns the stored backup that archives the given
// export.
func (r *Repo) GetByExportLogID(ctx context.Context, exportLogID int64) (*domain.BackupFile, error) {
	rows, err := r.query(ctx, squirrel.Eq{
		"export_log_id": exportLogID,
		"status":        string(domain.BackupStored),
	}, 1)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("backup for export log %d: %w", exportLogID, domain.ErrNotFound)
	}
	return rows[0], nil
}

// ListExpired returns stored backups past their expiry, oldest first.
func (r *Repo) ListExpired(ctx context.Context, now time.Time, limit int) ([]*domain.BackupFile, error) {
	return r.query(ctx, squirrel.And{
		squirrel.Eq{"status": string(domain.BackupStored)},
		squirrel.Expr("expires_at IS NOT NULL"),
		squirrel.Lt{"expires_at": now},
	}, limit)
}

// SetStatus moves the backup to a new state, recording the sizes and
// content hash when the stored state is reached.
func (r *Repo) SetStatus(ctx context.Context, backupID uuid.UUID, status domain.BackupStatus) error {
	return r.update(ctx, backupID, map[string]any{"status": string(status)})
}

// MarkStored finalizes an uploading row with the bytes actually written.
func (r *Repo) MarkStored(ctx context.Context, backupID uuid.UUID, compressedSize int64, hash string, compression domain.CompressionType) error {
	return r.update(ctx, backupID, map[string]any{
		"status":           string(domain.BackupStored),
		"compressed_size":  compressedSize,
		"content_hash":     hash,
		"compression_type": string(compression),
	})
}

// TouchAccess bumps the access counter and timestamp on retrieval.
func (r *Repo) TouchAccess(ctx context.Context, backupID uuid.UUID) error {
	sql, args, err := postgres.Builder.
		Update(table).
		Set("access_count", squirrel.Expr("access_count + 1")).
		Set("last_access_at", time.Now().UTC()).
		Where(squirrel.Eq{"backup_id": backupID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build backup access update: %w", err)
	}
	_, err = postgres.QuerierFromCtx(ctx, r.pool).Exec(ctx, sql, args...)
	if err != nil {
		return postgres.MapError(err, "backup", backupID.String())
	}
	return nil
}

// Delete removes the metadata row.
func (r *Repo) Delete(ctx context.Context, backupID uuid.UUID) error {
	sql, args, err := postgres.Builder.
		Delete(table).
		Where(squirrel.Eq{"backup_id": backupID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build backup delete: %w", err)
	}

	tag, err := postgres.QuerierFromCtx(ctx, r.pool).Exec(ctx, sql, args...)
	if err != nil {
		return postgres.MapError(err, "backup", backupID.String())
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("backup %s: %w", backupID, domain.ErrNotFound)
	}
	return nil
}

func (r *Repo) update(ctx context.Context, backupID uuid.UUID, fields map[string]any) error {
	sql, args, err := postgres.Builder.
		Update(table).
		SetMap(fields).
		Where(squirrel.Eq{"backup_id": backupID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build backup update: %w", err)
	}

	tag, err := postgres.QuerierFromCtx(ctx, r.pool).Exec(ctx, sql, args...)
	if err != nil {
		return postgres.MapError(err, "backup", backupID.String())
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("backup %s: %w", backupID, domain.ErrNotFound)
	}
	return nil
}

func (r *Repo) query(ctx context.Context, pred any, limit int) ([]*domain.BackupFile, error) {
	q := postgres.Builder.Select(columns...).From(table).Where(pred).OrderBy("created_at ASC")
	if limit > 0 {
		q = q.Limit(uint64(limit))
	}
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build backup query: %w", err)
	}

	rows, err := postgres.QuerierFromCtx(ctx, r.pool).Query(ctx, sql, args...)
	if err != nil {
		return nil, postgres.MapError(err, "backup", "query")
	}
	defer rows.Close()

	var out []*domain.BackupFile
	for rows.Next() {
		var (
			b           domain.BackupFile
			compression string
			status      string
		)
		err := rows.Scan(
			&b.ID, &b.BackupID, &b.FileKey, &b.ExportLogID, &b.ImportLogID,
			&b.Filename, &b.FilePath, &b.OriginalSize, &b.CompressedSize,
			&b.ContentHash, &compression, &status, &b.RetentionDays,
			&b.ExpiresAt, &b.AccessCount, &b.LastAccessAt, &b.CreatedAt,
		)
		if err != nil {
			return nil, postgres.MapError(err, "backup", "scan")
		}
		b.CompressionType = domain.CompressionType(compression)
		b.Status = domain.BackupStatus(status)
		out = append(out, &b)
	}
	return out, rows.Err()
}
