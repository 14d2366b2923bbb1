package domain

import (
	"fmt"
	"strings"
)

// NaturalKey computes the conflict-detection key for a row of the given
// entity type. An empty key means the row has no usable natural key and
// conflict detection is skipped for it.
//
// Keys per entity:
//   - authors: lowercased trimmed name
//   - references: lowercased name + "|" + lowercased primary type
//   - tags: lowercased trimmed name
//   - users: lowercased trimmed email
//
// Quotes use Fingerprint instead: their key is only good for pre-insert
// duplicate detection, never for upsert-style merging.
func NaturalKey(dt DataType, row Row) string {
	switch dt {
	case DataTypeAuthors, DataTypeTags:
		return NormalizeText(row.String("name"))
	case DataTypeReferences:
		name := NormalizeText(row.String("name"))
		if name == "" {
			return ""
		}
		return name + "|" + strings.ToLower(strings.TrimSpace(row.String("primary_type")))
	case DataTypeUsers:
		return strings.ToLower(strings.TrimSpace(row.String("email")))
	default:
		return ""
	}
}

// HasNaturalKey reports whether the entity type supports natural-key
// conflict resolution.
func HasNaturalKey(dt DataType) bool {
	switch dt {
	case DataTypeAuthors, DataTypeReferences, DataTypeTags, DataTypeUsers:
		return true
	}
	return false
}

// Fingerprint computes the duplicate-detection key for a quote row:
// normalized content plus the author and reference IDs. Rows without
// content yield an empty fingerprint.
func Fingerprint(row Row) string {
	content := NormalizeText(row.String("content"))
	if content == "" {
		return ""
	}
	authorID, _ := row.Int64("author_id")
	refID, _ := row.Int64("reference_id")
	return fmt.Sprintf("%s|%d|%d", content, authorID, refID)
}
