// Package importer orchestrates bundle imports: parse, validate,
// conflict-resolve and batch-apply entity files in dependency order,
// with live progress tracking and a durable import log.
package importer

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/quotehub/quotehub-backend/internal/config"
	"github.com/quotehub/quotehub-backend/internal/domain"
	"github.com/quotehub/quotehub-backend/internal/progress"
	"github.com/quotehub/quotehub-backend/internal/service/backup"
)

// ---------------------------------------------------------------------------
// Consumer-defined interfaces
// ---------------------------------------------------------------------------

// EntityRepo is the write surface the orchestrator needs from an
// entity repository. Exported so callers can assemble the repos map.
type EntityRepo interface {
	Schema() domain.Schema
	Insert(ctx context.Context, row domain.Row, withID bool) (int64, error)
	FindByNaturalKeys(ctx context.Context, keys []string) (map[string]domain.Row, error)
	UpdateFields(ctx context.Context, id int64, fields domain.Row) error
	AdvanceIDSequence(ctx context.Context) error
	ExistsByID(ctx context.Context, ids []int64) (map[int64]bool, error)
}

// contentLookup is implemented by the quote repo for fingerprint-based
// duplicate detection.
type contentLookup interface {
	FindByNormalizedContents(ctx context.Context, contents []string) ([]domain.Row, error)
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type progressTracker interface {
	Initialize(importID string)
	SetStatus(importID string, status domain.ImportStatus)
	UpdateStep(importID string, step domain.DataType, status domain.StepStatus, message string)
	AddCounts(importID string, processed, successful, failed int)
	SetTotal(importID string, total int)
	AddError(importID, message string)
	AddWarning(importID, message string)
	AddExtras(importID string, counts map[string]int)
	Get(importID string) (progress.State, bool)
	Evict(importID string)
}

type importLogRepo interface {
	Create(ctx context.Context, log *domain.ImportLog) error
	UpdateCounts(ctx context.Context, importID uuid.UUID, total, successful, failed, warnings int) error
	SetStatus(ctx context.Context, importID uuid.UUID, status domain.ImportStatus) error
}

type backupCreator interface {
	Create(ctx context.Context, in backup.CreateInput) (*backup.CreateResult, error)
}

// ---------------------------------------------------------------------------
// Service
// ---------------------------------------------------------------------------

// Service implements the import orchestrator.
type Service struct {
	log     *slog.Logger
	repos   map[domain.DataType]EntityRepo
	tx      txManager
	tracker progressTracker
	logs    importLogRepo
	backups backupCreator
	cfg     config.ImportConfig
}

// NewService creates a new Import service. The repos map must cover
// every entity type accepted in bundles; backups may be nil to disable
// raw-bundle archiving.
func NewService(
	logger *slog.Logger,
	repos map[domain.DataType]EntityRepo,
	tx txManager,
	tracker progressTracker,
	logs importLogRepo,
	backups backupCreator,
	cfg config.ImportConfig,
) *Service {
	return &Service{
		log:     logger.With("service", "import"),
		repos:   repos,
		tx:      tx,
		tracker: tracker,
		logs:    logs,
		backups: backups,
		cfg:     cfg,
	}
}

// Input describes one uploaded import.
type Input struct {
	Filename string
	Content  []byte
	Entity   domain.DataType // hint for single files with opaque names
	Options  Options
}

// Summary is the final outcome of one import job.
type Summary struct {
	ImportID   uuid.UUID           `json:"import_id"`
	Status     domain.ImportStatus `json:"status"`
	Total      int                 `json:"total_records"`
	Processed  int                 `json:"processed_records"`
	Successful int                 `json:"successful_records"`
	Failed     int                 `json:"failed_records"`
	Skipped    int                 `json:"skipped_records"`
	Warnings   []string            `json:"warnings"`
	Errors     []string            `json:"errors"`
	Extras     map[string]int      `json:"extras,omitempty"`
}

// Run executes the import synchronously and returns the final summary.
// Intended for smaller bundles; the progress record is evicted on
// return since the summary supersedes it.
func (s *Service) Run(ctx context.Context, in Input) (*Summary, error) {
	importID := uuid.New()
	s.tracker.Initialize(importID.String())
	defer s.tracker.Evict(importID.String())

	summary := s.run(ctx, importID, in)
	return summary, nil
}

// Start launches the import as a detached background job and returns
// its id immediately. Progress is observable via GetProgress; the
// record stays available for polling after the job finishes.
func (s *Service) Start(in Input) uuid.UUID {
	importID := uuid.New()
	s.tracker.Initialize(importID.String())

	go func() {
		// The triggering request's context dies with the response;
		// the job must not.
		s.run(context.Background(), importID, in)
	}()
	return importID
}

// GetProgress returns the live state of a job.
func (s *Service) GetProgress(importID uuid.UUID) (progress.State, bool) {
	return s.tracker.Get(importID.String())
}

// ---------------------------------------------------------------------------
// Pipeline
// ---------------------------------------------------------------------------

// jobState carries the running counts and ID mappings of one job.
type jobState struct {
	importID uuid.UUID
	opts     *Options

	total      int
	processed  int
	successful int
	failed     int
	skipped    int
	warnings   []string
	errors     []string
	extras     map[string]int

	// idMaps records bundle ID -> database ID per entity, filled as
	// rows are inserted, matched or updated. Dependent entities use it
	// to rewrite their reference fields.
	idMaps map[domain.DataType]map[int64]int64
}

func (s *Service) run(ctx context.Context, importID uuid.UUID, in Input) *Summary {
	id := importID.String()
	state := &jobState{
		importID: importID,
		opts:     &in.Options,
		extras:   map[string]int{},
		idMaps:   map[domain.DataType]map[int64]int64{},
	}

	s.tracker.SetStatus(id, domain.ImportProcessing)

	optWarnings, err := in.Options.normalize()
	if err != nil {
		return s.fail(state, nil, "invalid options: "+err.Error())
	}
	for _, w := range optWarnings {
		s.warn(state, w)
	}

	bundle, err := parseBundle(in.Filename, in.Content, in.Entity)
	if err != nil {
		return s.fail(state, nil, "parse failed: "+err.Error())
	}
	for _, w := range bundle.Warnings {
		s.warn(state, w)
	}
	state.total = bundle.Total
	s.tracker.SetTotal(id, bundle.Total)

	logRow, err := s.createLog(ctx, importID, in, bundle)
	if err != nil {
		return s.fail(state, nil, "create import log: "+err.Error())
	}

	// Validation pass over every file before any write.
	for _, dt := range domain.EntityOrder {
		file, ok := bundle.Files[dt]
		if !ok {
			continue
		}
		errs, warns := validateRows(dt, file.Rows)
		for _, w := range warns {
			s.warn(state, w)
		}
		if len(errs) > 0 && !in.Options.IgnoreValidationErrors {
			s.warn(state, fmt.Sprintf("%s: validation failed, entity skipped (%d issues)", dt, len(errs)))
			s.tracker.UpdateStep(id, dt, domain.StepCompleted, "skipped: validation failed")
			state.processed += len(file.Rows)
			if domain.CoreEntities[dt] {
				for _, e := range errs {
					s.recordError(state, e)
				}
				state.failed += len(file.Rows)
				s.tracker.AddCounts(id, len(file.Rows), 0, len(file.Rows))
			} else {
				// Soft entities never contribute to failed_records;
				// their issues surface as warnings and extras.
				for _, e := range errs {
					s.warn(state, e)
				}
				state.extras[string(dt)+"_failed"] += len(file.Rows)
				s.tracker.AddExtras(id, map[string]int{string(dt) + "_failed": len(file.Rows)})
				s.tracker.AddCounts(id, len(file.Rows), 0, 0)
			}
			delete(bundle.Files, dt)
		} else if len(errs) > 0 {
			for _, e := range errs {
				s.warn(state, "ignored validation issue: "+e)
			}
		}
	}

	// Apply pass, strict dependency order.
	for _, dt := range domain.EntityOrder {
		file, ok := bundle.Files[dt]
		if !ok {
			continue
		}
		if err := s.importEntity(ctx, state, logRow, file); err != nil {
			if domain.CoreEntities[dt] {
				return s.fail(state, logRow, fmt.Sprintf("%s import failed: %v", dt, err))
			}
			s.warn(state, fmt.Sprintf("%s import failed: %v", dt, err))
			s.tracker.UpdateStep(id, dt, domain.StepCompleted, "failed: "+err.Error())
		}
	}

	return s.finalize(state, logRow)
}

// importEntity runs backup, conflict resolution and batched apply for
// one entity file.
func (s *Service) importEntity(ctx context.Context, state *jobState, logRow *domain.ImportLog, file *bundleFile) error {
	id := state.importID.String()
	dt := file.Entity
	repo, ok := s.repos[dt]
	if !ok {
		return fmt.Errorf("no repository for entity type %s", dt)
	}

	s.tracker.UpdateStep(id, dt, domain.StepProcessing, fmt.Sprintf("importing %d rows", len(file.Rows)))

	if state.opts.CreateBackup && s.backups != nil && !state.opts.DryRun {
		s.archiveRaw(ctx, state, logRow, file)
	}

	for start := 0; start < len(file.Rows); start += state.opts.BatchSize {
		end := start + state.opts.BatchSize
		if end > len(file.Rows) {
			end = len(file.Rows)
		}
		if err := s.applyBatch(ctx, state, repo, file, file.Rows[start:end]); err != nil {
			return err
		}
		// Cooperative pause between batches so a large job cannot
		// starve other work.
		if end < len(file.Rows) && s.cfg.BatchPause > 0 {
			time.Sleep(s.cfg.BatchPause)
		}
	}

	if state.opts.PreserveIDs && !state.opts.DryRun {
		if err := repo.AdvanceIDSequence(ctx); err != nil {
			s.warn(state, fmt.Sprintf("%s: advance id sequence: %v", dt, err))
		}
	}

	s.tracker.UpdateStep(id, dt, domain.StepCompleted, "")
	return nil
}

// applyBatch resolves conflicts for one outer batch and applies it in
// transactional sub-batches with per-row fallback.
func (s *Service) applyBatch(ctx context.Context, state *jobState, repo EntityRepo, file *bundleFile, rows []domain.Row) error {
	dt := file.Entity

	batchCtx := ctx
	if s.cfg.BatchTimeout > 0 {
		var cancel context.CancelFunc
		batchCtx, cancel = context.WithTimeout(ctx, s.cfg.BatchTimeout)
		defer cancel()
	}

	s.remapReferences(batchCtx, state, repo, dt, rows)

	existing, err := s.lookupExisting(batchCtx, repo, dt, rows, state.opts.conflictFor(dt))
	if err != nil {
		return fmt.Errorf("conflict lookup: %w", err)
	}
	resolutions := resolveRows(rows, existing, keyFor(dt), state.opts.conflictFor(dt), repo.Schema())

	// Matched rows contribute to the ID map even when skipped, so
	// dependent entities can resolve their references.
	for i, res := range resolutions {
		if res.Action == actionInsert {
			continue
		}
		if oldID, ok := rows[i].Int64("id"); ok {
			newID := res.ExistingID
			if res.Action == actionSkip {
				if match, found := existing[keyFor(dt)(rows[i])]; found {
					newID, _ = match.Int64("id")
				}
			}
			if newID != 0 {
				s.mapID(state, dt, oldID, newID)
			}
		}
	}

	for start := 0; start < len(resolutions); start += state.opts.SubBatchSize {
		end := start + state.opts.SubBatchSize
		if end > len(resolutions) {
			end = len(resolutions)
		}
		s.applySubBatch(batchCtx, state, repo, dt, resolutions[start:end])
	}
	return nil
}

// applySubBatch first attempts the sub-batch as one transaction; if
// that fails it retries row by row so one bad row does not sacrifice
// its siblings.
func (s *Service) applySubBatch(ctx context.Context, state *jobState, repo EntityRepo, dt domain.DataType, resolutions []resolution) {
	if state.opts.DryRun {
		for _, res := range resolutions {
			s.recordOutcome(state, dt, res.Action, nil)
		}
		return
	}

	// Stage outcomes; commit them to the trackers only if the
	// transaction holds.
	type staged struct {
		res   resolution
		newID int64
	}
	var stagedRows []staged

	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		stagedRows = stagedRows[:0]
		for _, res := range resolutions {
			newID, err := s.applyOne(txCtx, state, repo, res)
			if err != nil {
				return err
			}
			stagedRows = append(stagedRows, staged{res: res, newID: newID})
		}
		return nil
	})
	if err == nil {
		for _, st := range stagedRows {
			s.commitOutcome(state, dt, st.res, st.newID)
		}
		return
	}

	// Per-row fallback, each row in its own transaction.
	for _, res := range resolutions {
		var newID int64
		err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
			var applyErr error
			newID, applyErr = s.applyOne(txCtx, state, repo, res)
			return applyErr
		})
		if err != nil {
			s.recordOutcome(state, dt, "", fmt.Errorf("%s (%s): %w", dt, rowIdentity(dt, res.Candidate), err))
			continue
		}
		s.commitOutcome(state, dt, res, newID)
	}
}

// applyOne executes a single resolution and returns the database id of
// the affected row (0 for skips).
func (s *Service) applyOne(ctx context.Context, state *jobState, repo EntityRepo, res resolution) (int64, error) {
	switch res.Action {
	case actionSkip:
		return 0, nil
	case actionUpdate:
		return res.ExistingID, repo.UpdateFields(ctx, res.ExistingID, res.Fields)
	default:
		withID := false
		if state.opts.PreserveIDs {
			_, withID = res.Candidate.Int64("id")
		}
		return repo.Insert(ctx, res.Candidate, withID)
	}
}

// commitOutcome records a successful row application.
func (s *Service) commitOutcome(state *jobState, dt domain.DataType, res resolution, newID int64) {
	if res.Action == actionInsert && newID != 0 {
		if oldID, ok := res.Candidate.Int64("id"); ok {
			s.mapID(state, dt, oldID, newID)
		}
	}
	s.recordOutcome(state, dt, res.Action, nil)
}

// recordOutcome advances the counters for one row. A non-nil error
// marks the row failed; otherwise the action decides the bucket. Rows
// of soft (non-core) entities are additionally tallied in extras.
func (s *Service) recordOutcome(state *jobState, dt domain.DataType, act action, rowErr error) {
	id := state.importID.String()
	state.processed++

	soft := !domain.CoreEntities[dt]
	switch {
	case rowErr != nil:
		if soft {
			s.warn(state, rowErr.Error())
			state.extras[string(dt)+"_failed"]++
			s.tracker.AddExtras(id, map[string]int{string(dt) + "_failed": 1})
			s.tracker.AddCounts(id, 1, 0, 0)
			return
		}
		state.failed++
		s.recordError(state, rowErr.Error())
		s.tracker.AddCounts(id, 1, 0, 1)
	case act == actionSkip:
		state.skipped++
		state.extras[string(dt)+"_skipped"]++
		s.tracker.AddExtras(id, map[string]int{string(dt) + "_skipped": 1})
		s.tracker.AddCounts(id, 1, 0, 0)
	default:
		state.successful++
		s.tracker.AddCounts(id, 1, 1, 0)
		if soft {
			state.extras[string(dt)]++
			s.tracker.AddExtras(id, map[string]int{string(dt): 1})
		}
	}
}

// ---------------------------------------------------------------------------
// Reference remapping
// ---------------------------------------------------------------------------

// remapReferences rewrites bundle-local reference IDs to database IDs
// using the mappings collected from prerequisite entities. References
// that are neither mapped nor present in the database are cleared for
// optional fields and will surface as per-row errors for required ones.
func (s *Service) remapReferences(ctx context.Context, state *jobState, repo EntityRepo, dt domain.DataType, rows []domain.Row) {
	schema := repo.Schema()

	var refFields []domain.Field
	for _, f := range schema.Fields {
		if f.Ref != "" {
			refFields = append(refFields, f)
		}
	}
	if len(refFields) == 0 {
		return
	}

	// Collect IDs that have no bundle mapping and verify them against
	// the database in one query per referenced entity.
	unmapped := map[domain.DataType]map[int64]bool{}
	for _, row := range rows {
		for _, f := range refFields {
			old, ok := row.Int64(f.Name)
			if !ok {
				continue
			}
			if _, mapped := state.idMaps[f.Ref][old]; mapped {
				continue
			}
			if unmapped[f.Ref] == nil {
				unmapped[f.Ref] = map[int64]bool{}
			}
			unmapped[f.Ref][old] = true
		}
	}

	known := map[domain.DataType]map[int64]bool{}
	for refDT, idSet := range unmapped {
		refRepo, ok := s.repos[refDT]
		if !ok {
			continue
		}
		ids := make([]int64, 0, len(idSet))
		for id := range idSet {
			ids = append(ids, id)
		}
		exists, err := refRepo.ExistsByID(ctx, ids)
		if err != nil {
			s.warn(state, fmt.Sprintf("%s: verify %s references: %v", dt, refDT, err))
			continue
		}
		known[refDT] = exists
	}

	for _, row := range rows {
		for _, f := range refFields {
			old, ok := row.Int64(f.Name)
			if !ok {
				continue
			}
			if newID, mapped := state.idMaps[f.Ref][old]; mapped {
				row[f.Name] = newID
				continue
			}
			if known[f.Ref][old] {
				continue // valid database id, keep as-is
			}
			if f.Required {
				// Leave the dangling id in place: the foreign key
				// rejects the row and it is reported individually.
				continue
			}
			s.warn(state, fmt.Sprintf("%s: dropping unresolved %s reference %d", dt, f.Ref, old))
			delete(row, f.Name)
		}
	}
}

func (s *Service) mapID(state *jobState, dt domain.DataType, oldID, newID int64) {
	if state.idMaps[dt] == nil {
		state.idMaps[dt] = map[int64]int64{}
	}
	state.idMaps[dt][oldID] = newID
}

// ---------------------------------------------------------------------------
// Conflict lookups
// ---------------------------------------------------------------------------

// lookupExisting fetches the existing counterparts of a batch in one
// query, keyed the same way the resolver keys candidates.
func (s *Service) lookupExisting(ctx context.Context, repo EntityRepo, dt domain.DataType, rows []domain.Row, cc ConflictConfig) (map[string]domain.Row, error) {
	if cc.Mode == domain.ConflictInsert {
		return nil, nil
	}

	if dt == domain.DataTypeQuotes {
		lookup, ok := repo.(contentLookup)
		if !ok {
			return nil, nil
		}
		seen := map[string]bool{}
		var contents []string
		for _, row := range rows {
			c := domain.NormalizeText(row.String("content"))
			if c != "" && !seen[c] {
				seen[c] = true
				contents = append(contents, c)
			}
		}
		if len(contents) == 0 {
			return nil, nil
		}
		matches, err := lookup.FindByNormalizedContents(ctx, contents)
		if err != nil {
			return nil, err
		}
		existing := make(map[string]domain.Row, len(matches))
		for _, m := range matches {
			if fp := domain.Fingerprint(m); fp != "" {
				existing[fp] = m
			}
		}
		return existing, nil
	}

	if !domain.HasNaturalKey(dt) {
		return nil, nil
	}
	seen := map[string]bool{}
	var keys []string
	for _, row := range rows {
		k := domain.NaturalKey(dt, row)
		if k != "" && !seen[k] {
			seen[k] = true
			keys = append(keys, k)
		}
	}
	if len(keys) == 0 {
		return nil, nil
	}
	return repo.FindByNaturalKeys(ctx, keys)
}

// ---------------------------------------------------------------------------
// Bookkeeping
// ---------------------------------------------------------------------------

func (s *Service) createLog(ctx context.Context, importID uuid.UUID, in Input, bundle *parsedBundle) (*domain.ImportLog, error) {
	optionsJSON, err := json.Marshal(in.Options)
	if err != nil {
		return nil, err
	}

	logRow := &domain.ImportLog{
		ImportID:     importID,
		Filename:     in.Filename,
		DataType:     bundleDataType(bundle),
		Format:       bundleFormat(bundle),
		TotalRecords: bundle.Total,
		Options:      string(optionsJSON),
		Status:       domain.ImportProcessing,
	}
	if err := s.logs.Create(ctx, logRow); err != nil {
		return nil, err
	}
	return logRow, nil
}

// bundleDataType picks the representative entity for the import log:
// the single file's entity, or the first core entity present.
func bundleDataType(bundle *parsedBundle) domain.DataType {
	if len(bundle.Files) == 1 {
		for dt := range bundle.Files {
			return dt
		}
	}
	for _, dt := range domain.EntityOrder {
		if _, ok := bundle.Files[dt]; ok && domain.CoreEntities[dt] {
			return dt
		}
	}
	for _, dt := range domain.EntityOrder {
		if _, ok := bundle.Files[dt]; ok {
			return dt
		}
	}
	return domain.DataTypeQuotes
}

func bundleFormat(bundle *parsedBundle) domain.Format {
	for _, dt := range domain.EntityOrder {
		if f, ok := bundle.Files[dt]; ok {
			return f.Format
		}
	}
	return domain.FormatJSON
}

// archiveRaw stores the original uploaded bytes for one entity file,
// tagged with the import. Failure is always a warning, never fatal.
func (s *Service) archiveRaw(ctx context.Context, state *jobState, logRow *domain.ImportLog, file *bundleFile) {
	name := fmt.Sprintf("import_%s_%s", state.importID, file.Name)
	_, err := s.backups.Create(ctx, backup.CreateInput{
		Content:       file.Raw,
		Filename:      name,
		DataType:      file.Entity,
		Format:        file.Format,
		ImportLogID:   importLogID(logRow),
		RetentionDays: state.opts.RetentionDays,
	})
	if err != nil {
		s.warn(state, fmt.Sprintf("%s: raw data backup failed: %v", file.Entity, err))
	}
}

func importLogID(logRow *domain.ImportLog) *int64 {
	if logRow == nil || logRow.ID == 0 {
		return nil
	}
	return &logRow.ID
}

func (s *Service) warn(state *jobState, msg string) {
	state.warnings = append(state.warnings, msg)
	s.tracker.AddWarning(state.importID.String(), msg)
}

func (s *Service) recordError(state *jobState, msg string) {
	state.errors = append(state.errors, msg)
	s.tracker.AddError(state.importID.String(), msg)
}

func (s *Service) fail(state *jobState, logRow *domain.ImportLog, msg string) *Summary {
	id := state.importID.String()
	s.recordError(state, msg)
	s.tracker.SetStatus(id, domain.ImportFailed)
	s.persistFinal(state, logRow, domain.ImportFailed)
	s.log.Error("import failed", "import_id", id, "error", msg)
	return s.summary(state, domain.ImportFailed)
}

func (s *Service) finalize(state *jobState, logRow *domain.ImportLog) *Summary {
	id := state.importID.String()
	s.tracker.SetStatus(id, domain.ImportCompleted)
	s.persistFinal(state, logRow, domain.ImportCompleted)

	s.log.Info("import completed",
		"import_id", id,
		"total", state.total,
		"successful", state.successful,
		"failed", state.failed,
		"skipped", state.skipped,
		"warnings", len(state.warnings),
	)
	return s.summary(state, domain.ImportCompleted)
}

func (s *Service) persistFinal(state *jobState, logRow *domain.ImportLog, status domain.ImportStatus) {
	if logRow == nil {
		return
	}
	// Final bookkeeping must survive a canceled job context.
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.logs.UpdateCounts(ctx, state.importID, state.total, state.successful, state.failed, len(state.warnings)); err != nil {
		s.log.Error("update import log counts", "import_id", state.importID, "error", err)
	}
	if err := s.logs.SetStatus(ctx, state.importID, status); err != nil {
		s.log.Error("update import log status", "import_id", state.importID, "error", err)
	}
}

func (s *Service) summary(state *jobState, status domain.ImportStatus) *Summary {
	return &Summary{
		ImportID:   state.importID,
		Status:     status,
		Total:      state.total,
		Processed:  state.processed,
		Successful: state.successful,
		Failed:     state.failed,
		Skipped:    state.skipped,
		Warnings:   state.warnings,
		Errors:     state.errors,
		Extras:     state.extras,
	}
}

// rowIdentity names a row in error messages by its most identifying
// field.
func rowIdentity(dt domain.DataType, row domain.Row) string {
	for _, field := range []string{"name", "email", "content"} {
		if v := row.String(field); v != "" {
			if len(v) > 40 {
				v = v[:40] + "..."
			}
			return field + "=" + v
		}
	}
	if id, ok := row.Int64("id"); ok {
		return fmt.Sprintf("id=%d", id)
	}
	return string(dt) + " row"
}
