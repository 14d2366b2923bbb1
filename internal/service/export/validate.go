package export

import (
	"context"
	"errors"
	"fmt"

	"github.com/quotehub/quotehub-backend/internal/domain"
)

// ValidationResult is a pre-flight estimate for an export request.
type ValidationResult struct {
	Valid          bool
	Errors         []string
	Warnings       []string
	EstimatedCount int
	EstimatedSize  int64
}

// Rough serialized bytes per record, by format. Only used for the
// pre-flight size estimate.
var bytesPerRecord = map[domain.Format]int64{
	domain.FormatJSON: 256,
	domain.FormatCSV:  128,
	domain.FormatXML:  384,
}

// Validate checks the request and estimates the export's shape with a
// count query instead of running the full export. Soft issues become
// warnings; hard ones make the result invalid without error.
func (s *Service) Validate(ctx context.Context, in Input) (*ValidationResult, error) {
	res := &ValidationResult{Valid: true}

	if !in.Format.IsValid() {
		res.Valid = false
		res.Errors = append(res.Errors, "unknown format: "+string(in.Format))
	}

	repo, err := s.repo(in.DataType)
	if err != nil {
		res.Valid = false
		res.Errors = append(res.Errors, "unsupported entity type: "+string(in.DataType))
		return res, nil
	}

	filter, err := buildFilter(in.DataType, in.Filters, in.Limit)
	if err != nil {
		var vErr *domain.ValidationError
		if !errors.As(err, &vErr) {
			return nil, err
		}
		res.Valid = false
		for _, fe := range vErr.Errors {
			res.Errors = append(res.Errors, fe.Field+": "+fe.Message)
		}
		return res, nil
	}

	if filter.Search != nil && len(*filter.Search) < 3 {
		res.Warnings = append(res.Warnings, "search term is very short and may match too broadly")
	}

	count, err := repo.CountFiltered(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("count %s: %w", in.DataType, err)
	}
	if in.Limit > 0 && count > in.Limit {
		count = in.Limit
	}
	if count == 0 {
		res.Warnings = append(res.Warnings, "no rows match the given filters")
	}

	res.EstimatedCount = count
	perRecord := bytesPerRecord[in.Format]
	if perRecord == 0 {
		perRecord = bytesPerRecord[domain.FormatJSON]
	}
	res.EstimatedSize = int64(count) * perRecord
	return res, nil
}
