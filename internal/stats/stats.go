// Package stats computes aggregate statistics over trips.
// Everything here is a pure function over an in-memory trip slice; the
// handler feeds it snapshots from the record store, so no statistics query
// ever touches the remote collection store.
package stats

import (
	"fmt"
	"sort"
	"time"

	"github.com/mpetrenko/cargoflow/internal/domain"
)

// Period selects the trailing window for statistics queries.
type Period string

const (
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
	PeriodYear  Period = "year"
)

// ParsePeriod validates a raw period value. An empty value defaults to month,
// matching the statistics screen's initial selection.
func ParsePeriod(raw string) (Period, error) {
	switch Period(raw) {
	case PeriodWeek, PeriodMonth, PeriodYear:
		return Period(raw), nil
	case "":
		return PeriodMonth, nil
	}
	return "", fmt.Errorf("%w: unknown period %q", domain.ErrValidation, raw)
}

// Summary holds the headline numbers for a set of trips.
type Summary struct {
	TotalTrips    int                       `json:"total_trips"`
	TotalIncome   float64                   `json:"total_income"`
	TotalExpenses float64                   `json:"total_expenses"`
	Profit        float64                   `json:"profit"`
	ByStatus      map[domain.TripStatus]int `json:"by_status"`
}

// Summarize totals income, expenses and profit over trips and counts trips
// per status. ByStatus only contains statuses that actually occur.
func Summarize(trips []domain.Trip) Summary {
	s := Summary{
		TotalTrips: len(trips),
		ByStatus:   make(map[domain.TripStatus]int),
	}
	for _, t := range trips {
		s.TotalIncome += t.Income
		s.TotalExpenses += t.Expenses
		s.ByStatus[t.Status]++
	}
	s.Profit = s.TotalIncome - s.TotalExpenses
	return s
}

// DateRow is the financial total for a single calendar date.
type DateRow struct {
	Date     string  `json:"date"`
	Income   float64 `json:"income"`
	Expenses float64 `json:"expenses"`
	Profit   float64 `json:"profit"`
}

// GroupByDate sums income, expenses and profit per trip date and returns the
// rows in ascending date order.
func GroupByDate(trips []domain.Trip) []DateRow {
	byDate := make(map[string]*DateRow)
	for _, t := range trips {
		row, ok := byDate[t.Date]
		if !ok {
			row = &DateRow{Date: t.Date}
			byDate[t.Date] = row
		}
		row.Income += t.Income
		row.Expenses += t.Expenses
		row.Profit += t.Income - t.Expenses
	}

	out := make([]DateRow, 0, len(byDate))
	for _, row := range byDate {
		out = append(out, *row)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

// FilterPeriod returns the trips dated within the trailing period ending at
// now. The cutoff is inclusive. Trips with a malformed date are excluded.
func FilterPeriod(trips []domain.Trip, p Period, now time.Time) []domain.Trip {
	var cutoff time.Time
	switch p {
	case PeriodWeek:
		cutoff = now.AddDate(0, 0, -7)
	case PeriodMonth:
		cutoff = now.AddDate(0, -1, 0)
	case PeriodYear:
		cutoff = now.AddDate(-1, 0, 0)
	default:
		return append([]domain.Trip{}, trips...)
	}

	floor := cutoff.Format("2006-01-02")
	out := make([]domain.Trip, 0, len(trips))
	for _, t := range trips {
		if t.Date >= floor {
			out = append(out, t)
		}
	}
	return out
}
