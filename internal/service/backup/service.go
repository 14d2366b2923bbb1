// Package backup archives export and import payloads into object
// storage with compression, integrity hashing and retention tracking.
package backup

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/quotehub/quotehub-backend/internal/config"
	"github.com/quotehub/quotehub-backend/internal/domain"
)

// ---------------------------------------------------------------------------
// Consumer-defined interfaces (private)
// ---------------------------------------------------------------------------

type metadataRepo interface {
	Create(ctx context.Context, b *domain.BackupFile) error
	GetByBackupID(ctx context.Context, backupID uuid.UUID) (*domain.BackupFile, error)
	GetByExportLogID(ctx context.Context, exportLogID int64) (*domain.BackupFile, error)
	ListExpired(ctx context.Context, now time.Time, limit int) ([]*domain.BackupFile, error)
	SetStatus(ctx context.Context, backupID uuid.UUID, status domain.BackupStatus) error
	MarkStored(ctx context.Context, backupID uuid.UUID, compressedSize int64, hash string, compression domain.CompressionType) error
	TouchAccess(ctx context.Context, backupID uuid.UUID) error
	Delete(ctx context.Context, backupID uuid.UUID) error
}

type objectStore interface {
	Put(ctx context.Context, key string, data []byte) error
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
}

// ---------------------------------------------------------------------------
// Service
// ---------------------------------------------------------------------------

// Service implements the backup store business logic.
type Service struct {
	log   *slog.Logger
	repo  metadataRepo
	store objectStore
	cfg   config.BackupConfig
	now   func() time.Time
}

// NewService creates a new Backup service.
func NewService(logger *slog.Logger, repo metadataRepo, store objectStore, cfg config.BackupConfig) *Service {
	return &Service{
		log:   logger.With("service", "backup"),
		repo:  repo,
		store: store,
		cfg:   cfg,
		now:   func() time.Time { return time.Now().UTC() },
	}
}
