package config

import (
	"fmt"
)

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in 1..65535 (got %d)", c.Server.Port)
	}

	if c.Export.MaxRecords <= 0 {
		return fmt.Errorf("export.max_records must be > 0 (got %d)", c.Export.MaxRecords)
	}
	if c.Export.DownloadTTL <= 0 {
		return fmt.Errorf("export.download_ttl must be > 0 (got %v)", c.Export.DownloadTTL)
	}
	if c.Export.InlineThreshold < 0 {
		return fmt.Errorf("export.inline_threshold must be >= 0 (got %d)", c.Export.InlineThreshold)
	}

	if c.Import.MaxUploadSize <= 0 {
		return fmt.Errorf("import.max_upload_size must be > 0 (got %d)", c.Import.MaxUploadSize)
	}
	if c.Import.BatchTimeout < 0 {
		return fmt.Errorf("import.batch_timeout must be >= 0 (got %v)", c.Import.BatchTimeout)
	}
	if c.Import.BatchPause < 0 {
		return fmt.Errorf("import.batch_pause must be >= 0 (got %v)", c.Import.BatchPause)
	}

	if c.Backup.Dir == "" {
		return fmt.Errorf("backup.dir must not be empty")
	}
	if c.Backup.DefaultRetentionDays <= 0 {
		return fmt.Errorf("backup.default_retention_days must be > 0 (got %d)", c.Backup.DefaultRetentionDays)
	}

	return nil
}
