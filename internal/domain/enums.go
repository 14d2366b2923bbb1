package domain

import "strings"

// DataType identifies the kind of transferable entity.
type DataType string

const (
	DataTypeAuthors          DataType = "authors"
	DataTypeReferences       DataType = "references"
	DataTypeTags             DataType = "tags"
	DataTypeUsers            DataType = "users"
	DataTypeQuotes           DataType = "quotes"
	DataTypeQuoteTags        DataType = "quote_tags"
	DataTypeUserCollections  DataType = "user_collections"
	DataTypeCollectionQuotes DataType = "collection_quotes"
	DataTypeUserLikes        DataType = "user_likes"
	DataTypeUserSessions     DataType = "user_sessions"
	DataTypeUserMessages     DataType = "user_messages"
	DataTypeQuoteReports     DataType = "quote_reports"
	DataTypeQuoteViews       DataType = "quote_views"
	DataTypeAuthorViews      DataType = "author_views"
	DataTypeReferenceViews   DataType = "reference_views"
)

func (d DataType) String() string { return string(d) }

func (d DataType) IsValid() bool {
	_, ok := schemas[d]
	return ok
}

// EntityOrder is the processing order for multi-entity imports.
// Independent entities first, then quotes, then pure relation tables,
// then activity/analytics tables. Dependent entities must never be
// processed before every entity they reference.
var EntityOrder = []DataType{
	DataTypeAuthors,
	DataTypeReferences,
	DataTypeTags,
	DataTypeUsers,
	DataTypeQuotes,
	DataTypeQuoteTags,
	DataTypeUserCollections,
	DataTypeCollectionQuotes,
	DataTypeUserLikes,
	DataTypeUserSessions,
	DataTypeUserMessages,
	DataTypeQuoteReports,
	DataTypeQuoteViews,
	DataTypeAuthorViews,
	DataTypeReferenceViews,
}

// CoreEntities are the entity types required for content integrity.
// Everything else is a "soft" relation import: its failure produces a
// warning, never a failed job.
var CoreEntities = map[DataType]bool{
	DataTypeAuthors:    true,
	DataTypeReferences: true,
	DataTypeTags:       true,
	DataTypeUsers:      true,
	DataTypeQuotes:     true,
}

// ParseDataType matches a normalized basename to a DataType.
// Hyphens and underscores are interchangeable ("quote-tags" == "quote_tags").
func ParseDataType(name string) (DataType, bool) {
	normalized := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "-", "_")
	dt := DataType(normalized)
	if dt.IsValid() {
		return dt, true
	}
	return "", false
}

// Format is a serialization wire format.
type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
	FormatXML  Format = "xml"
)

func (f Format) String() string { return string(f) }

func (f Format) IsValid() bool {
	switch f {
	case FormatJSON, FormatCSV, FormatXML:
		return true
	}
	return false
}

// MimeType returns the content type served for downloads in this format.
func (f Format) MimeType() string {
	switch f {
	case FormatCSV:
		return "text/csv"
	case FormatXML:
		return "application/xml"
	default:
		return "application/json"
	}
}

// ConflictMode decides what happens when an incoming row matches an
// existing row by natural key.
type ConflictMode string

const (
	ConflictInsert ConflictMode = "insert"
	ConflictIgnore ConflictMode = "ignore"
	ConflictUpsert ConflictMode = "upsert"
)

func (m ConflictMode) String() string { return string(m) }

func (m ConflictMode) IsValid() bool {
	switch m {
	case ConflictInsert, ConflictIgnore, ConflictUpsert:
		return true
	}
	return false
}

// UpdateStrategy selects how upsert merges an incoming row into an
// existing one.
type UpdateStrategy string

const (
	StrategyFillMissing UpdateStrategy = "fill-missing"
	StrategyOverwrite   UpdateStrategy = "overwrite"
)

func (s UpdateStrategy) String() string { return string(s) }

func (s UpdateStrategy) IsValid() bool {
	switch s {
	case StrategyFillMissing, StrategyOverwrite:
		return true
	}
	return false
}

// ImportStatus is the lifecycle state of an import job.
type ImportStatus string

const (
	ImportPending    ImportStatus = "pending"
	ImportProcessing ImportStatus = "processing"
	ImportCompleted  ImportStatus = "completed"
	ImportFailed     ImportStatus = "failed"
)

func (s ImportStatus) String() string { return string(s) }

// Terminal reports whether the status is final.
func (s ImportStatus) Terminal() bool {
	return s == ImportCompleted || s == ImportFailed
}

// StepStatus is the per-entity-step state within an import job.
// There is no per-step failure state: a fatal step error escalates the
// whole job to ImportFailed.
type StepStatus string

const (
	StepPending    StepStatus = "pending"
	StepProcessing StepStatus = "processing"
	StepCompleted  StepStatus = "completed"
)

// BackupStatus is the storage lifecycle state of a backup file.
type BackupStatus string

const (
	BackupUploading BackupStatus = "uploading"
	BackupStored    BackupStatus = "stored"
	BackupFailed    BackupStatus = "failed"
	BackupExpired   BackupStatus = "expired"
)

func (s BackupStatus) String() string { return string(s) }

// CompressionType records how backup content was stored.
type CompressionType string

const (
	CompressionNone CompressionType = "none"
	CompressionGzip CompressionType = "gzip"
)

func (c CompressionType) String() string { return string(c) }

func (c CompressionType) IsValid() bool {
	return c == CompressionNone || c == CompressionGzip
}

// QuoteStatus is the moderation state of a quote.
type QuoteStatus string

const (
	QuoteDraft    QuoteStatus = "draft"
	QuotePending  QuoteStatus = "pending"
	QuoteApproved QuoteStatus = "approved"
	QuoteRejected QuoteStatus = "rejected"
)

func (s QuoteStatus) String() string { return string(s) }

func (s QuoteStatus) IsValid() bool {
	switch s {
	case QuoteDraft, QuotePending, QuoteApproved, QuoteRejected:
		return true
	}
	return false
}
