package export

import (
	"fmt"
	"strings"
	"time"

	"github.com/quotehub/quotehub-backend/internal/domain"
)

// FilterInput is the raw, transport-level filter set. Values arrive as
// strings and are validated and coerced before any query is built.
type FilterInput struct {
	Search        string  `json:"search,omitempty"`
	Status        string  `json:"status,omitempty"`
	Language      string  `json:"language,omitempty"`
	IsFictional   *bool   `json:"is_fictional,omitempty"`
	PrimaryType   string  `json:"primary_type,omitempty"`
	Role          string  `json:"role,omitempty"`
	AuthorID      *int64  `json:"author_id,omitempty"`
	ReferenceID   *int64  `json:"reference_id,omitempty"`
	UserID        *int64  `json:"user_id,omitempty"`
	TagIDs        []int64 `json:"tag_ids,omitempty"`
	MinViews      *int    `json:"min_views,omitempty"`
	CreatedAfter  string  `json:"created_after,omitempty"`
	CreatedBefore string  `json:"created_before,omitempty"`
}

// filterScope lists which criteria each entity type accepts.
var filterScope = map[domain.DataType]map[string]bool{
	domain.DataTypeAuthors:    {"search": true, "is_fictional": true, "min_views": true, "dates": true},
	domain.DataTypeReferences: {"search": true, "primary_type": true, "language": true, "min_views": true, "dates": true},
	domain.DataTypeTags:       {"search": true, "dates": true},
	domain.DataTypeUsers:      {"search": true, "role": true, "dates": true},
	domain.DataTypeQuotes: {
		"search": true, "status": true, "language": true, "author_id": true,
		"reference_id": true, "user_id": true, "tag_ids": true,
		"min_views": true, "dates": true,
	},
}

// buildFilter validates the raw input against the entity's filter
// scope and coerces it into a typed filter. All problems are collected
// into one ValidationError so the caller sees every issue at once.
func buildFilter(dt domain.DataType, in FilterInput, limit int) (domain.ExportFilter, error) {
	scope := filterScope[dt]
	var (
		out  domain.ExportFilter
		errs []domain.FieldError
	)

	deny := func(field string) {
		errs = append(errs, domain.FieldError{
			Field:   field,
			Message: fmt.Sprintf("not applicable to entity type %s", dt),
		})
	}

	if in.Search != "" {
		if !scope["search"] {
			deny("search")
		} else {
			search := strings.TrimSpace(in.Search)
			out.Search = &search
		}
	}
	if in.Status != "" {
		status := domain.QuoteStatus(strings.ToLower(in.Status))
		switch {
		case !scope["status"]:
			deny("status")
		case !status.IsValid():
			errs = append(errs, domain.FieldError{Field: "status", Message: "unknown status: " + in.Status})
		default:
			out.Status = &status
		}
	}
	if in.Language != "" {
		if !scope["language"] {
			deny("language")
		} else {
			lang := strings.ToLower(strings.TrimSpace(in.Language))
			out.Language = &lang
		}
	}
	if in.IsFictional != nil {
		if !scope["is_fictional"] {
			deny("is_fictional")
		} else {
			out.IsFictional = in.IsFictional
		}
	}
	if in.PrimaryType != "" {
		pt := strings.ToLower(strings.TrimSpace(in.PrimaryType))
		switch {
		case !scope["primary_type"]:
			deny("primary_type")
		case !validPrimaryType(pt):
			errs = append(errs, domain.FieldError{Field: "primary_type", Message: "unknown primary type: " + in.PrimaryType})
		default:
			out.PrimaryType = &pt
		}
	}
	if in.Role != "" {
		if !scope["role"] {
			deny("role")
		} else {
			role := strings.ToLower(strings.TrimSpace(in.Role))
			out.Role = &role
		}
	}
	if in.AuthorID != nil {
		if !scope["author_id"] {
			deny("author_id")
		} else {
			out.AuthorID = in.AuthorID
		}
	}
	if in.ReferenceID != nil {
		if !scope["reference_id"] {
			deny("reference_id")
		} else {
			out.ReferenceID = in.ReferenceID
		}
	}
	if in.UserID != nil {
		if !scope["user_id"] {
			deny("user_id")
		} else {
			out.UserID = in.UserID
		}
	}
	if len(in.TagIDs) > 0 {
		if !scope["tag_ids"] {
			deny("tag_ids")
		} else {
			out.TagIDs = in.TagIDs
		}
	}
	if in.MinViews != nil {
		switch {
		case !scope["min_views"]:
			deny("min_views")
		case *in.MinViews < 0:
			errs = append(errs, domain.FieldError{Field: "min_views", Message: "must not be negative"})
		default:
			out.MinViews = in.MinViews
		}
	}

	if in.CreatedAfter != "" {
		if t, err := parseDate(in.CreatedAfter); err != nil {
			errs = append(errs, domain.FieldError{Field: "created_after", Message: err.Error()})
		} else if !scope["dates"] {
			deny("created_after")
		} else {
			out.CreatedAfter = &t
		}
	}
	if in.CreatedBefore != "" {
		if t, err := parseDate(in.CreatedBefore); err != nil {
			errs = append(errs, domain.FieldError{Field: "created_before", Message: err.Error()})
		} else if !scope["dates"] {
			deny("created_before")
		} else {
			out.CreatedBefore = &t
		}
	}
	if out.CreatedAfter != nil && out.CreatedBefore != nil && out.CreatedAfter.After(*out.CreatedBefore) {
		errs = append(errs, domain.FieldError{Field: "created_after", Message: "must not be after created_before"})
	}

	if limit < 0 {
		errs = append(errs, domain.FieldError{Field: "limit", Message: "must not be negative"})
	}
	out.Limit = limit

	if len(errs) > 0 {
		return domain.ExportFilter{}, domain.NewValidationErrors(errs)
	}
	return out, nil
}

func parseDate(v string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, v); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date: %q", v)
}

func validPrimaryType(v string) bool {
	schema, _ := domain.SchemaFor(domain.DataTypeReferences)
	field, ok := schema.Field("primary_type")
	if !ok {
		return false
	}
	for _, allowed := range field.Enum {
		if v == allowed {
			return true
		}
	}
	return false
}
