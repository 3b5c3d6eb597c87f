// Package domain contains the core data types for the Cargoflow application.
// This package has zero external dependencies and is imported by every other
// internal package (repo, store, stats, handler).
package domain

// TripStatus is the fixed lifecycle enumeration for a trip.
type TripStatus string

const (
	StatusPlanned    TripStatus = "planned"
	StatusInProgress TripStatus = "in-progress"
	StatusCompleted  TripStatus = "completed"
	StatusCancelled  TripStatus = "cancelled"
)

// Valid reports whether s is one of the four known trip statuses.
func (s TripStatus) Valid() bool {
	switch s {
	case StatusPlanned, StatusInProgress, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Trip represents a single transport job.
//
// Date is a fixed-width ISO date string ("2006-01-02"); keeping it a string
// lets date-range filters compare lexicographically, which is correct for
// that format. ClientID references a Client by convention only — there is no
// enforced foreign key, and a trip may outlive its client.
type Trip struct {
	ID            string     `json:"id"`
	Date          string     `json:"date"`
	ClientID      string     `json:"client_id"`
	StartLocation string     `json:"start_location"`
	EndLocation   string     `json:"end_location"`
	Cargo         string     `json:"cargo"`
	Driver        string     `json:"driver"`
	Vehicle       string     `json:"vehicle"`
	Status        TripStatus `json:"status"`
	Income        float64    `json:"income"`
	Expenses      float64    `json:"expenses"`
	Notes         string     `json:"notes"`
}

// FilterOptions carries the optional trip filter criteria.
// Zero-valued fields are not constraints. All provided criteria must hold
// (logical AND). StartDate and EndDate are inclusive "2006-01-02" bounds;
// location filters are case-insensitive substring matches.
type FilterOptions struct {
	StartDate     string
	EndDate       string
	ClientID      string
	StartLocation string
	EndLocation   string
	Status        TripStatus
}

// IsZero reports whether no criteria are set, i.e. the filter passes everything.
func (f FilterOptions) IsZero() bool {
	return f == FilterOptions{}
}
