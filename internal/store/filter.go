package store

import (
	"strings"

	"github.com/mpetrenko/cargoflow/internal/domain"
)

// ApplyFilter returns the trips satisfying every criterion set in opts.
// Unset criteria are not constraints, so a zero FilterOptions passes every
// trip. The result preserves input order (stable filter, no re-sort) and is
// always a fresh slice, never a view into the input.
//
// Date bounds are inclusive and compared as strings, which is correct because
// trip dates are fixed-width "2006-01-02" values that order lexicographically.
func ApplyFilter(trips []domain.Trip, opts domain.FilterOptions) []domain.Trip {
	out := make([]domain.Trip, 0, len(trips))
	for _, t := range trips {
		if matchesFilter(t, opts) {
			out = append(out, t)
		}
	}
	return out
}

func matchesFilter(t domain.Trip, opts domain.FilterOptions) bool {
	if opts.StartDate != "" && t.Date < opts.StartDate {
		return false
	}
	if opts.EndDate != "" && t.Date > opts.EndDate {
		return false
	}
	if opts.ClientID != "" && t.ClientID != opts.ClientID {
		return false
	}
	if opts.StartLocation != "" && !containsFold(t.StartLocation, opts.StartLocation) {
		return false
	}
	if opts.EndLocation != "" && !containsFold(t.EndLocation, opts.EndLocation) {
		return false
	}
	if opts.Status != "" && t.Status != opts.Status {
		return false
	}
	return true
}

// containsFold reports whether substr occurs in s, ignoring case.
func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
