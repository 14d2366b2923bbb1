// Package export builds filtered, serialized snapshots of content
// entities and records each completed export.
package export

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/quotehub/quotehub-backend/internal/config"
	"github.com/quotehub/quotehub-backend/internal/domain"
	"github.com/quotehub/quotehub-backend/internal/service/backup"
)

// ---------------------------------------------------------------------------
// Consumer-defined interfaces
// ---------------------------------------------------------------------------

// EntityRepo is the read surface the export engine needs from an
// entity repository. Exported so callers can assemble the repos map.
type EntityRepo interface {
	Find(ctx context.Context, f domain.ExportFilter) ([]domain.Row, error)
	CountFiltered(ctx context.Context, f domain.ExportFilter) (int, error)
}

// quoteCounter is implemented by repos whose rows carry a derived
// quotes-per-row count (authors, references, tags).
type quoteCounter interface {
	QuoteCounts(ctx context.Context, ids []int64) (map[int64]int64, error)
}

// relationAttacher is implemented by the quote repo to embed author,
// reference and tag data.
type relationAttacher interface {
	AttachRelations(ctx context.Context, rows []domain.Row) error
}

type logRepo interface {
	Create(ctx context.Context, log *domain.ExportLog) error
	GetByExportID(ctx context.Context, exportID uuid.UUID) (*domain.ExportLog, error)
	IncrementDownload(ctx context.Context, exportID uuid.UUID) error
}

type backupService interface {
	Create(ctx context.Context, in backup.CreateInput) (*backup.CreateResult, error)
	GetForExportLog(ctx context.Context, exportLogID int64) (*backup.GetResult, error)
}

// ---------------------------------------------------------------------------
// Service
// ---------------------------------------------------------------------------

// Service implements the export engine.
type Service struct {
	log     *slog.Logger
	repos   map[domain.DataType]EntityRepo
	logs    logRepo
	backups backupService
	cfg     config.ExportConfig
	now     func() time.Time
}

// NewService creates a new Export service. The repos map must cover
// every exportable entity type; backups may be nil to disable backup
// creation entirely.
func NewService(
	logger *slog.Logger,
	repos map[domain.DataType]EntityRepo,
	logs logRepo,
	backups backupService,
	cfg config.ExportConfig,
) *Service {
	return &Service{
		log:     logger.With("service", "export"),
		repos:   repos,
		logs:    logs,
		backups: backups,
		cfg:     cfg,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

func (s *Service) repo(dt domain.DataType) (EntityRepo, error) {
	r, ok := s.repos[dt]
	if !ok {
		return nil, domain.NewValidationError("entity", "unsupported entity type: "+string(dt))
	}
	return r, nil
}
