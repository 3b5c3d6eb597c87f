package domain

import "time"

// TripHistory is an immutable audit entry recorded whenever a trip update
// changes at least one field. It is created once, never modified, and removed
// only when its parent trip is deleted.
//
// ChangedFields, PreviousValues and NewValues are JSON-encoded strings
// (a string array and two field→value objects respectively). They are opaque
// to the collection store and re-parsed by consumers that render the audit
// trail.
type TripHistory struct {
	ID             string    `json:"id"`
	TripID         string    `json:"trip_id"`
	ChangeDate     time.Time `json:"change_date"`
	ChangedFields  string    `json:"changed_fields"`
	PreviousValues string    `json:"previous_values"`
	NewValues      string    `json:"new_values"`
}
