package backup

import (
	"bytes"
	"compress/gzip"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"

	"github.com/google/uuid"

	"github.com/quotehub/quotehub-backend/internal/domain"
)

// GetResult is a retrieved backup payload with its metadata.
type GetResult struct {
	Content []byte
	Meta    *domain.BackupFile
}

// Get retrieves and verifies a backup. The hash is recomputed over the
// stored bytes before decompression; a mismatch is corruption and the
// content is never served.
func (s *Service) Get(ctx context.Context, backupID uuid.UUID) (*GetResult, error) {
	meta, err := s.repo.GetByBackupID(ctx, backupID)
	if err != nil {
		return nil, err
	}
	return s.retrieve(ctx, meta)
}

// Stat returns backup metadata without fetching the stored object or
// counting an access.
func (s *Service) Stat(ctx context.Context, backupID uuid.UUID) (*domain.BackupFile, error) {
	return s.repo.GetByBackupID(ctx, backupID)
}

// GetForExportLog retrieves the backup archiving the given export.
func (s *Service) GetForExportLog(ctx context.Context, exportLogID int64) (*GetResult, error) {
	meta, err := s.repo.GetByExportLogID(ctx, exportLogID)
	if err != nil {
		return nil, err
	}
	return s.retrieve(ctx, meta)
}

func (s *Service) retrieve(ctx context.Context, meta *domain.BackupFile) (*GetResult, error) {
	if meta.Status != domain.BackupStored {
		return nil, fmt.Errorf("backup %s is %s: %w", meta.BackupID, meta.Status, domain.ErrNotFound)
	}

	stored, err := s.store.Get(ctx, meta.FileKey)
	if err != nil {
		return nil, fmt.Errorf("fetch backup object: %w", err)
	}

	sum := sha256.Sum256(stored)
	if hex.EncodeToString(sum[:]) != meta.ContentHash {
		return nil, fmt.Errorf("backup %s hash mismatch: %w", meta.BackupID, domain.ErrCorrupted)
	}

	content := stored
	if meta.CompressionType == domain.CompressionGzip {
		zr, err := gzip.NewReader(bytes.NewReader(stored))
		if err != nil {
			return nil, fmt.Errorf("backup %s: %w", meta.BackupID, domain.ErrCorrupted)
		}
		content, err = io.ReadAll(zr)
		if cErr := zr.Close(); err == nil {
			err = cErr
		}
		if err != nil {
			return nil, fmt.Errorf("backup %s: %w", meta.BackupID, domain.ErrCorrupted)
		}
	}

	if err := s.repo.TouchAccess(ctx, meta.BackupID); err != nil {
		s.log.Warn("record backup access", "backup_id", meta.BackupID, "error", err)
	}

	return &GetResult{Content: content, Meta: meta}, nil
}
