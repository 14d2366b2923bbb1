package backup

import (
	"bytes"
	"compress/gzip"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"path"

	"github.com/google/uuid"

	"github.com/quotehub/quotehub-backend/internal/domain"
)

// compressFloor is the smallest payload worth compressing. Below it
// the gzip header overhead outweighs any gain.
const compressFloor = 1024

// compressKeepRatio rejects compression that saves less than 10%.
const compressKeepRatio = 0.9

// CreateInput describes one payload to archive.
type CreateInput struct {
	Content       []byte
	Filename      string
	DataType      domain.DataType
	Format        domain.Format
	ExportLogID   *int64
	ImportLogID   *int64
	RetentionDays int // 0 uses the configured default
}

// CreateResult reports where and how the payload was stored.
type CreateResult struct {
	BackupID        uuid.UUID
	FileKey         string
	OriginalSize    int64
	CompressedSize  int64
	ContentHash     string
	CompressionType domain.CompressionType
}

// Create archives the payload. The metadata row is written in
// uploading status before the object write and only moved to stored
// after the write succeeds, so a crash never yields a stored row
// without bytes behind it.
func (s *Service) Create(ctx context.Context, in CreateInput) (*CreateResult, error) {
	if len(in.Content) == 0 {
		return nil, domain.NewValidationError("content", "must not be empty")
	}
	if in.Filename == "" {
		return nil, domain.NewValidationError("filename", "must not be empty")
	}

	stored, compression := compress(in.Content)
	sum := sha256.Sum256(stored)
	hash := hex.EncodeToString(sum[:])

	retention := in.RetentionDays
	if retention <= 0 {
		retention = s.cfg.DefaultRetentionDays
	}

	now := s.now()
	expires := now.AddDate(0, 0, retention)
	backupID := uuid.New()
	key := path.Join("backups", now.Format("2006-01-02"), in.Filename)

	meta := &domain.BackupFile{
		BackupID:        backupID,
		FileKey:         key,
		ExportLogID:     in.ExportLogID,
		ImportLogID:     in.ImportLogID,
		Filename:        in.Filename,
		FilePath:        key,
		OriginalSize:    int64(len(in.Content)),
		CompressedSize:  int64(len(stored)),
		ContentHash:     hash,
		CompressionType: compression,
		Status:          domain.BackupUploading,
		RetentionDays:   retention,
		ExpiresAt:       &expires,
	}
	if err := s.repo.Create(ctx, meta); err != nil {
		return nil, fmt.Errorf("create backup metadata: %w", err)
	}

	if err := s.store.Put(ctx, key, stored); err != nil {
		if stErr := s.repo.SetStatus(ctx, backupID, domain.BackupFailed); stErr != nil {
			s.log.Error("mark backup failed", "backup_id", backupID, "error", stErr)
		}
		return nil, fmt.Errorf("store backup object: %w", err)
	}

	if err := s.repo.MarkStored(ctx, backupID, int64(len(stored)), hash, compression); err != nil {
		return nil, fmt.Errorf("finalize backup metadata: %w", err)
	}

	s.log.Info("backup created",
		"backup_id", backupID,
		"data_type", in.DataType,
		"original_size", len(in.Content),
		"stored_size", len(stored),
		"compression", compression,
	)

	return &CreateResult{
		BackupID:        backupID,
		FileKey:         key,
		OriginalSize:    int64(len(in.Content)),
		CompressedSize:  int64(len(stored)),
		ContentHash:     hash,
		CompressionType: compression,
	}, nil
}

// compress applies the storage heuristic: payloads under the floor
// stay raw, and gzip output is kept only when it saves at least 10%.
func compress(content []byte) ([]byte, domain.CompressionType) {
	if len(content) < compressFloor {
		return content, domain.CompressionNone
	}

	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write(content); err != nil {
		return content, domain.CompressionNone
	}
	if err := zw.Close(); err != nil {
		return content, domain.CompressionNone
	}

	if float64(buf.Len()) >= float64(len(content))*compressKeepRatio {
		return content, domain.CompressionNone
	}
	return buf.Bytes(), domain.CompressionGzip
}
