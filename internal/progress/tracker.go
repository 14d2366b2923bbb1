// Package progress tracks the live state of import jobs. The tracker is
// process-local; the durable record of a finished job is the import log,
// not this store.
package progress

import (
	"sync"
	"time"

	"github.com/quotehub/quotehub-backend/internal/domain"
)

// Step is the sub-status of one entity type within a job.
type Step struct {
	Status  domain.StepStatus `json:"status"`
	Message string            `json:"message,omitempty"`
}

// State is a snapshot of one job's progress.
type State struct {
	ImportID   string                   `json:"import_id"`
	Status     domain.ImportStatus      `json:"status"`
	Steps      map[domain.DataType]Step `json:"steps"`
	Total      int                      `json:"total_records"`
	Processed  int                      `json:"processed_records"`
	Successful int                      `json:"successful_records"`
	Failed     int                      `json:"failed_records"`
	Warnings   []string                 `json:"warnings"`
	Errors     []string                 `json:"errors"`
	Extras     map[string]int           `json:"extras,omitempty"`
	StartedAt  time.Time                `json:"started_at"`
	UpdatedAt  time.Time                `json:"updated_at"`
}

// Tracker is a job-ID-keyed in-memory progress store. All methods are
// safe for concurrent use; reads return snapshot copies so multiple
// pollers observe the same monotonically-advancing state.
type Tracker struct {
	mu   sync.RWMutex
	jobs map[string]*State
}

// NewTracker creates an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{jobs: make(map[string]*State)}
}

// Initialize creates a fresh progress record with zeroed counts and
// every entity step pending.
func (t *Tracker) Initialize(importID string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	steps := make(map[domain.DataType]Step, len(domain.EntityOrder))
	for _, dt := range domain.EntityOrder {
		steps[dt] = Step{Status: domain.StepPending}
	}

	now := time.Now()
	t.jobs[importID] = &State{
		ImportID:  importID,
		Status:    domain.ImportPending,
		Steps:     steps,
		Warnings:  []string{},
		Errors:    []string{},
		StartedAt: now,
		UpdatedAt: now,
	}
}

// SetStatus moves the job to a new lifecycle status.
func (t *Tracker) SetStatus(importID string, status domain.ImportStatus) {
	t.mutate(importID, func(s *State) {
		s.Status = status
	})
}

// UpdateStep merges a partial update into one entity step.
func (t *Tracker) UpdateStep(importID string, step domain.DataType, status domain.StepStatus, message string) {
	t.mutate(importID, func(s *State) {
		cur := s.Steps[step]
		if status != "" {
			cur.Status = status
		}
		if message != "" {
			cur.Message = message
		}
		s.Steps[step] = cur
	})
}

// AddCounts advances the running record counts.
func (t *Tracker) AddCounts(importID string, processed, successful, failed int) {
	t.mutate(importID, func(s *State) {
		s.Processed += processed
		s.Successful += successful
		s.Failed += failed
	})
}

// SetTotal sets the expected total record count.
func (t *Tracker) SetTotal(importID string, total int) {
	t.mutate(importID, func(s *State) {
		s.Total = total
	})
}

// AddError appends a record-level error message. Never truncates.
func (t *Tracker) AddError(importID, message string) {
	t.mutate(importID, func(s *State) {
		s.Errors = append(s.Errors, message)
	})
}

// AddWarning appends a soft-issue message. Never truncates.
func (t *Tracker) AddWarning(importID, message string) {
	t.mutate(importID, func(s *State) {
		s.Warnings = append(s.Warnings, message)
	})
}

// AddExtras accumulates secondary counts for optional relation imports.
func (t *Tracker) AddExtras(importID string, counts map[string]int) {
	t.mutate(importID, func(s *State) {
		if s.Extras == nil {
			s.Extras = make(map[string]int, len(counts))
		}
		for k, v := range counts {
			s.Extras[k] += v
		}
	})
}

// Get returns a snapshot of the job's state. The snapshot is detached:
// mutating it does not affect the tracker.
func (t *Tracker) Get(importID string) (State, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	s, ok := t.jobs[importID]
	if !ok {
		return State{}, false
	}
	return snapshot(s), true
}

// Evict removes a job's progress record. Called once polling clients no
// longer need it; the import log remains as the permanent record.
func (t *Tracker) Evict(importID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.jobs, importID)
}

func (t *Tracker) mutate(importID string, fn func(*State)) {
	t.mu.Lock()
	defer t.mu.Unlock()

	s, ok := t.jobs[importID]
	if !ok {
		return
	}
	fn(s)
	s.UpdatedAt = time.Now()
}

func snapshot(s *State) State {
	out := *s

	out.Steps = make(map[domain.DataType]Step, len(s.Steps))
	for k, v := range s.Steps {
		out.Steps[k] = v
	}

	out.Warnings = append([]string(nil), s.Warnings...)
	out.Errors = append([]string(nil), s.Errors...)

	if s.Extras != nil {
		out.Extras = make(map[string]int, len(s.Extras))
		for k, v := range s.Extras {
			out.Extras[k] = v
		}
	}
	return out
}
