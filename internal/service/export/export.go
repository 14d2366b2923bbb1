package export

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/quotehub/quotehub-backend/internal/codec"
	"github.com/quotehub/quotehub-backend/internal/domain"
	"github.com/quotehub/quotehub-backend/internal/service/backup"
)

// Input describes one export request.
type Input struct {
	DataType         domain.DataType
	Format           domain.Format
	Filters          FilterInput
	IncludeRelations bool
	IncludeMetadata  bool
	Limit            int
}

// Result is a completed export.
type Result struct {
	ExportID    uuid.UUID
	Filename    string
	Format      domain.Format
	Content     string
	RecordCount int
	FileSize    int64
	Warnings    []string
	ExpiresAt   *time.Time
}

// Export runs the full pipeline: validate filters, query, decorate,
// encode, archive, log. Backup failure degrades to a warning; the
// export response is never aborted by it.
func (s *Service) Export(ctx context.Context, in Input) (*Result, error) {
	if !in.Format.IsValid() {
		return nil, domain.NewValidationError("format", "unknown format: "+string(in.Format))
	}
	repo, err := s.repo(in.DataType)
	if err != nil {
		return nil, err
	}
	filter, err := buildFilter(in.DataType, in.Filters, in.Limit)
	if err != nil {
		return nil, err
	}

	rows, err := repo.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", in.DataType, err)
	}

	if in.IncludeRelations {
		if err := s.attachRelations(ctx, repo, rows); err != nil {
			return nil, err
		}
	}
	if !in.IncludeMetadata {
		stripMetadata(rows)
	}

	content, err := codec.Encode(in.DataType, rows, in.Format)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", in.DataType, err)
	}

	res := &Result{
		ExportID:    uuid.New(),
		Format:      in.Format,
		Content:     content,
		RecordCount: len(rows),
		FileSize:    int64(len(content)),
	}
	res.Filename = fmt.Sprintf("%s_export_%s.%s", in.DataType, s.now().Format("20060102_150405"), in.Format)

	filtersJSON, err := json.Marshal(in.Filters)
	if err != nil {
		return nil, fmt.Errorf("serialize filters: %w", err)
	}
	expires := s.now().Add(s.cfg.DownloadTTL)
	res.ExpiresAt = &expires

	logRow := &domain.ExportLog{
		ExportID:         res.ExportID,
		Filename:         res.Filename,
		Format:           in.Format,
		DataType:         in.DataType,
		Filters:          string(filtersJSON),
		RecordCount:      res.RecordCount,
		FileSize:         res.FileSize,
		IncludeRelations: in.IncludeRelations,
		IncludeMetadata:  in.IncludeMetadata,
		ExpiresAt:        res.ExpiresAt,
	}
	if err := s.logs.Create(ctx, logRow); err != nil {
		return nil, fmt.Errorf("write export log: %w", err)
	}

	if s.backups != nil && len(content) > 0 {
		backupRes, err := s.backups.Create(ctx, backup.CreateInput{
			Content:     []byte(content),
			Filename:    res.Filename,
			DataType:    in.DataType,
			Format:      in.Format,
			ExportLogID: &logRow.ID,
		})
		if err != nil {
			s.log.Warn("export backup failed", "export_id", res.ExportID, "error", err)
			res.Warnings = append(res.Warnings, "backup creation failed: "+err.Error())
		} else {
			s.log.Debug("export archived", "export_id", res.ExportID, "backup_id", backupRes.BackupID)
		}
	}

	s.log.Info("export completed",
		"export_id", res.ExportID,
		"data_type", in.DataType,
		"format", in.Format,
		"records", res.RecordCount,
		"size", res.FileSize,
	)
	return res, nil
}

// attachRelations decorates rows with derived relation data. Quotes get
// embedded author/reference/tag objects; countable entities get a
// quote_count field. Source tables are never mutated.
func (s *Service) attachRelations(ctx context.Context, repo EntityRepo, rows []domain.Row) error {
	if len(rows) == 0 {
		return nil
	}

	if attacher, ok := repo.(relationAttacher); ok {
		if err := attacher.AttachRelations(ctx, rows); err != nil {
			return fmt.Errorf("attach relations: %w", err)
		}
		return nil
	}

	counter, ok := repo.(quoteCounter)
	if !ok {
		return nil
	}
	ids := make([]int64, 0, len(rows))
	for _, row := range rows {
		if id, ok := row.Int64("id"); ok {
			ids = append(ids, id)
		}
	}
	counts, err := counter.QuoteCounts(ctx, ids)
	if err != nil {
		return fmt.Errorf("quote counts: %w", err)
	}
	for _, row := range rows {
		if id, ok := row.Int64("id"); ok {
			row["quote_count"] = counts[id]
		}
	}
	return nil
}

// stripMetadata drops bookkeeping timestamps from exported rows.
func stripMetadata(rows []domain.Row) {
	for _, row := range rows {
		delete(row, "created_at")
		delete(row, "updated_at")
	}
}
