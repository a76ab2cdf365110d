package request

import (
	"slices"
	"time"
)

// DateRange is inclusive on both ends; a zero bound is open.
type DateRange struct {
	From time.Time
	To   time.Time
}

// Overlaps reports whether [start, end] intersects the range.
func (d DateRange) Overlaps(start, end time.Time) bool {
	if !d.From.IsZero() && end.Before(DateOf(d.From)) {
		return false
	}
	if !d.To.IsZero() && start.After(DateOf(d.To)) {
		return false
	}
	return true
}

// Filter narrows a listing. Unset fields impose no constraint; set fields are
// combined with AND.
type Filter struct {
	EmployeeID *string
	Status     *Status
	Kind       *Kind
	DateRange  *DateRange

	// EmployeeIDs restricts results to a set of owners. nil means unrestricted,
	// an empty non-nil slice matches nothing.
	EmployeeIDs []string
}

func (f Filter) Matches(r Request) bool {
	if f.EmployeeID != nil && r.EmployeeID != *f.EmployeeID {
		return false
	}
	if f.EmployeeIDs != nil && !slices.Contains(f.EmployeeIDs, r.EmployeeID) {
		return false
	}
	if f.Status != nil && r.Status != *f.Status {
		return false
	}
	if f.Kind != nil && r.Kind != *f.Kind {
		return false
	}
	if f.DateRange != nil {
		start, end := r.EffectiveDates()
		if !f.DateRange.Overlaps(start, end) {
			return false
		}
	}
	return true
}
