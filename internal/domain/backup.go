package domain

import (
	"time"

	"github.com/google/uuid"
)

// BackupFile is the metadata row for one archived artifact. The row is
// created as BackupUploading before the object-store write and moved to
// BackupStored only after the write succeeds; a row left in uploading or
// failed state must never be served as a valid backup.
type BackupFile struct {
	ID              int64
	BackupID        uuid.UUID
	FileKey         string // object-store key: backups/YYYY-MM-DD/<filename>
	ExportLogID     *int64
	ImportLogID     *int64
	Filename        string
	FilePath        string
	OriginalSize    int64
	CompressedSize  int64
	ContentHash     string // SHA-256 over the bytes actually stored
	CompressionType CompressionType
	Status          BackupStatus
	RetentionDays   int
	ExpiresAt       *time.Time
	AccessCount     int
	LastAccessAt    *time.Time
	CreatedAt       time.Time
}

// Expired reports whether the backup is past its retention expiry.
func (b *BackupFile) Expired(now time.Time) bool {
	return b.ExpiresAt != nil && b.ExpiresAt.Before(now)
}
