package backup

import (
	"context"
	"fmt"
)

// CleanupResult reports one expiry sweep.
type CleanupResult struct {
	Deleted int
	Failed  int
}

// CleanupExpired removes backups whose retention has lapsed. Object
// deletion is best-effort: a missing or unreachable object is counted
// as failed but its metadata row is still removed, so a sweep never
// leaves orphan rows behind.
func (s *Service) CleanupExpired(ctx context.Context) (*CleanupResult, error) {
	expired, err := s.repo.ListExpired(ctx, s.now(), 0)
	if err != nil {
		return nil, fmt.Errorf("list expired backups: %w", err)
	}

	res := &CleanupResult{}
	for _, b := range expired {
		objectOK := true
		if err := s.store.Delete(ctx, b.FileKey); err != nil {
			s.log.Warn("delete expired backup object", "backup_id", b.BackupID, "error", err)
			objectOK = false
		}

		if err := s.repo.Delete(ctx, b.BackupID); err != nil {
			s.log.Error("delete expired backup metadata", "backup_id", b.BackupID, "error", err)
			res.Failed++
			continue
		}

		if objectOK {
			res.Deleted++
		} else {
			res.Failed++
		}
	}

	s.log.Info("backup cleanup finished", "deleted", res.Deleted, "failed", res.Failed)
	return res, nil
}
