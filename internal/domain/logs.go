package domain

import (
	"time"

	"github.com/google/uuid"
)

// ExportLog is the durable record of one completed export. It is never
// mutated after creation except for the download-count increment.
type ExportLog struct {
	ID               int64
	ExportID         uuid.UUID
	Filename         string
	Format           Format
	DataType         DataType
	Filters          string // serialized filter criteria (JSON)
	RecordCount      int
	FileSize         int64
	UserID           *int64
	IncludeRelations bool
	IncludeMetadata  bool
	DownloadCount    int
	CreatedAt        time.Time
	ExpiresAt        *time.Time
}

// Expired reports whether the export's download link is past its expiry.
func (l *ExportLog) Expired(now time.Time) bool {
	return l.ExpiresAt != nil && l.ExpiresAt.Before(now)
}

// ImportLog is the durable record of one import job. It is created when
// the job starts, updated incrementally as batches complete, and is
// terminal once completed or failed.
type ImportLog struct {
	ID           int64
	ImportID     uuid.UUID
	Filename     string
	Format       Format
	DataType     DataType
	TotalRecords int
	Successful   int
	Failed       int
	Warnings     int
	Options      string // options snapshot (JSON)
	Status       ImportStatus
	CreatedAt    time.Time
	CompletedAt  *time.Time
}
