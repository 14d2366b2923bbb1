package domain

import "time"

// ExportFilter is the declarative filter set for export queries. Each
// entity repository applies the subset of criteria that pertains to it;
// filters that do not apply to an entity type are rejected during
// validation, before query construction.
type ExportFilter struct {
	// Search performs a case-insensitive substring match on the
	// entity's primary text column (name, content, or email).
	Search *string

	// Status filters quotes by moderation state.
	Status *QuoteStatus

	// Language filters quotes by language code.
	Language *string

	// IsFictional filters authors.
	IsFictional *bool

	// PrimaryType filters references.
	PrimaryType *string

	// Role filters users.
	Role *string

	AuthorID    *int64
	ReferenceID *int64
	UserID      *int64

	// TagIDs filters quotes by tag membership (any of).
	TagIDs []int64

	// MinViews is a numeric threshold on views_count.
	MinViews *int

	CreatedAfter  *time.Time
	CreatedBefore *time.Time

	// Limit caps the number of exported rows; 0 means no limit.
	Limit int
}
