package store

import "github.com/mpetrenko/cargoflow/internal/domain"

// tripFields lists the comparable Trip fields in schema declaration order.
// DiffTrips walks this list, so repeated diffs of identical inputs always
// produce identically ordered output. The ID field is excluded: identity is
// never a change.
var tripFields = []struct {
	name  string
	value func(domain.Trip) any
}{
	{"date", func(t domain.Trip) any { return t.Date }},
	{"client_id", func(t domain.Trip) any { return t.ClientID }},
	{"start_location", func(t domain.Trip) any { return t.StartLocation }},
	{"end_location", func(t domain.Trip) any { return t.EndLocation }},
	{"cargo", func(t domain.Trip) any { return t.Cargo }},
	{"driver", func(t domain.Trip) any { return t.Driver }},
	{"vehicle", func(t domain.Trip) any { return t.Vehicle }},
	{"status", func(t domain.Trip) any { return string(t.Status) }},
	{"income", func(t domain.Trip) any { return t.Income }},
	{"expenses", func(t domain.Trip) any { return t.Expenses }},
	{"notes", func(t domain.Trip) any { return t.Notes }},
}

// ChangeSet is the result of diffing two versions of a trip.
// Fields holds the names of changed fields in schema order; Previous and New
// map each of those names to the value before and after the change.
type ChangeSet struct {
	Fields   []string
	Previous map[string]any
	New      map[string]any
}

// Empty reports whether no field differs between the two versions.
// An empty change set never produces a history record.
func (c ChangeSet) Empty() bool {
	return len(c.Fields) == 0
}

// DiffTrips computes the field-level difference between two versions of a
// trip. Comparison is strict value equality; all trip fields are scalars, so
// no deep comparison is needed.
func DiffTrips(previous, current domain.Trip) ChangeSet {
	cs := ChangeSet{
		Previous: make(map[string]any),
		New:      make(map[string]any),
	}
	for _, f := range tripFields {
		before, after := f.value(previous), f.value(current)
		if before == after {
			continue
		}
		cs.Fields = append(cs.Fields, f.name)
		cs.Previous[f.name] = before
		cs.New[f.name] = after
	}
	return cs
}
