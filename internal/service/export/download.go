package export

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/quotehub/quotehub-backend/internal/domain"
)

// Download is a retrievable export payload.
type Download struct {
	Content  []byte
	Filename string
	MimeType string
}

// Download serves a previously exported file from its archived backup.
// The export must exist, be unexpired, and have a stored backup behind
// it; each successful download is counted.
func (s *Service) Download(ctx context.Context, exportID uuid.UUID) (*Download, error) {
	logRow, err := s.logs.GetByExportID(ctx, exportID)
	if err != nil {
		return nil, err
	}
	if logRow.Expired(s.now()) {
		return nil, fmt.Errorf("export %s: %w", exportID, domain.ErrExpired)
	}
	if s.backups == nil {
		return nil, fmt.Errorf("export %s has no archived content: %w", exportID, domain.ErrNotFound)
	}

	got, err := s.backups.GetForExportLog(ctx, logRow.ID)
	if err != nil {
		return nil, err
	}

	if err := s.logs.IncrementDownload(ctx, exportID); err != nil {
		s.log.Warn("count export download", "export_id", exportID, "error", err)
	}

	return &Download{
		Content:  got.Content,
		Filename: logRow.Filename,
		MimeType: logRow.Format.MimeType(),
	}, nil
}
