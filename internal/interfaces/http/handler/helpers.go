package handler

import (
	"time"

	"github.com/google/uuid"

	"github.com/printpay/receivables/internal/domain/receivables"
)

// parseDate parses a YYYY-MM-DD string as a calendar date
func parseDate(s string) (time.Time, error) {
	d, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, err
	}
	return receivables.DateOnly(d), nil
}

// parseOptionalDate parses s, returning nil for an empty string
func parseOptionalDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	d, err := parseDate(s)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// parseOptionalID parses s, returning nil for an empty string
func parseOptionalID(s string) (*uuid.UUID, error) {
	if s == "" {
		return nil, nil
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

func toJobTypes(tags []string) []receivables.JobType {
	out := make([]receivables.JobType, 0, len(tags))
	for _, t := range tags {
		out = append(out, receivables.JobType(t))
	}
	return out
}
