package backup

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// Delete removes the backup object and its metadata row.
func (s *Service) Delete(ctx context.Context, backupID uuid.UUID) error {
	meta, err := s.repo.GetByBackupID(ctx, backupID)
	if err != nil {
		return err
	}

	if err := s.store.Delete(ctx, meta.FileKey); err != nil {
		return fmt.Errorf("delete backup object: %w", err)
	}
	if err := s.repo.Delete(ctx, backupID); err != nil {
		return fmt.Errorf("delete backup metadata: %w", err)
	}

	s.log.Info("backup deleted", "backup_id", backupID, "file_key", meta.FileKey)
	return nil
}
