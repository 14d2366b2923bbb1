package importer

import (
	"fmt"

	"github.com/quotehub/quotehub-backend/internal/domain"
)

// ConflictConfig is the per-entity conflict policy.
type ConflictConfig struct {
	Mode     domain.ConflictMode   `json:"mode"`
	Strategy domain.UpdateStrategy `json:"update_strategy,omitempty"`
}

// Options controls one import job. The zero value plus normalize()
// yields a safe default configuration.
type Options struct {
	Conflict               map[domain.DataType]ConflictConfig `json:"conflict,omitempty"`
	BatchSize              int                                `json:"batch_size,omitempty"`
	SubBatchSize           int                                `json:"sub_batch_size,omitempty"`
	PreserveIDs            bool                               `json:"preserve_ids,omitempty"`
	CreateBackup           bool                               `json:"create_backup,omitempty"`
	RetentionDays          int                                `json:"retention_days,omitempty"`
	IgnoreValidationErrors bool                               `json:"ignore_validation_errors,omitempty"`
	DryRun                 bool                               `json:"dry_run,omitempty"`
}

const (
	defaultBatchSize    = 100
	defaultSubBatchSize = 10
)

// normalize validates the options once at job start, fills defaults
// and downgrades unsupported combinations. Quotes have no mergeable
// natural key, so upsert on quotes becomes insert with a warning.
func (o *Options) normalize() ([]string, error) {
	var warnings []string

	if o.BatchSize <= 0 {
		o.BatchSize = defaultBatchSize
	}
	if o.SubBatchSize <= 0 {
		o.SubBatchSize = defaultSubBatchSize
	}
	if o.SubBatchSize > o.BatchSize {
		o.SubBatchSize = o.BatchSize
	}

	for dt, cc := range o.Conflict {
		if !dt.IsValid() {
			return nil, domain.NewValidationError("conflict", "unknown entity type: "+string(dt))
		}
		if !cc.Mode.IsValid() {
			return nil, domain.NewValidationError(
				"conflict."+string(dt),
				fmt.Sprintf("unknown conflict mode %q", cc.Mode),
			)
		}
		if cc.Mode == domain.ConflictUpsert {
			if dt == domain.DataTypeQuotes {
				cc.Mode = domain.ConflictInsert
				cc.Strategy = ""
				o.Conflict[dt] = cc
				warnings = append(warnings, "quotes do not support upsert; falling back to insert")
				continue
			}
			if !domain.HasNaturalKey(dt) {
				return nil, domain.NewValidationError(
					"conflict."+string(dt),
					string(dt)+" has no natural key and cannot be upserted",
				)
			}
			if cc.Strategy == "" {
				cc.Strategy = domain.StrategyFillMissing
				o.Conflict[dt] = cc
			} else if !cc.Strategy.IsValid() {
				return nil, domain.NewValidationError(
					"conflict."+string(dt),
					fmt.Sprintf("unknown update strategy %q", cc.Strategy),
				)
			}
		}
		if cc.Mode == domain.ConflictIgnore && !domain.HasNaturalKey(dt) && dt != domain.DataTypeQuotes {
			warnings = append(warnings, string(dt)+" has no natural key; ignore mode behaves like insert")
		}
	}

	if o.RetentionDays < 0 {
		return nil, domain.NewValidationError("retention_days", "must not be negative")
	}
	return warnings, nil
}

// conflictFor returns the effective policy for an entity, defaulting
// to plain insert.
func (o *Options) conflictFor(dt domain.DataType) ConflictConfig {
	if cc, ok := o.Conflict[dt]; ok {
		return cc
	}
	return ConflictConfig{Mode: domain.ConflictInsert}
}
