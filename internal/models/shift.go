package models

import (
	"fmt"
	"strings"
)

// Shift is a planned block of work. End is strictly after Start on the same date.
type Shift struct {
	ID         string       `db:"id" json:"id" yaml:"id"`
	EmployeeID EmployeeRef  `db:"employee_id" json:"employeeId" yaml:"employeeId"`
	Date       CalendarDate `db:"date" json:"date" yaml:"date"`
	Start      TimeOfDay    `db:"start_time" json:"start" yaml:"start"`
	End        TimeOfDay    `db:"end_time" json:"end" yaml:"end"`
	Department string       `db:"department" json:"department" yaml:"department"`
}

// Duration returns the length of the shift in minutes.
func (s Shift) Duration() int { return s.End.Sub(s.Start) }

// Clashes reports whether s and other are distinct shifts of the same assigned
// employee on the same date with intersecting [start, end) intervals.
func (s Shift) Clashes(other Shift) bool {
	if s.ID == other.ID || !s.EmployeeID.IsAssigned() || s.EmployeeID != other.EmployeeID {
		return false
	}
	return s.Date == other.Date && Overlaps(s.Start, s.End, other.Start, other.End)
}

// Validate checks the shape of a single shift, not its relation to others.
func (s Shift) Validate() error {
	if s.Date.IsZero() {
		return fmt.Errorf("date is required")
	}
	if !s.Start.Valid() || !s.End.Valid() {
		return fmt.Errorf("times must lie within 00:00-23:59")
	}
	if !s.End.After(s.Start) {
		return fmt.Errorf("end %s must be after start %s", s.End, s.Start)
	}
	return nil
}

// NewShift is the input to shift creation; the id is assigned by the store.
type NewShift struct {
	EmployeeID EmployeeRef
	Date       CalendarDate
	Start      TimeOfDay
	End        TimeOfDay
	Department string
}

// ShiftFilter narrows a shift listing. Nil fields match everything; set fields are ANDed.
type ShiftFilter struct {
	Date       *CalendarDate
	EmployeeID *string
	Department *string
}

// Matches applies the filter to one shift.
func (f ShiftFilter) Matches(s Shift) bool {
	if f.Date != nil && s.Date != *f.Date {
		return false
	}
	if f.EmployeeID != nil && !s.EmployeeID.Is(*f.EmployeeID) {
		return false
	}
	if f.Department != nil && !strings.EqualFold(s.Department, *f.Department) {
		return false
	}
	return true
}

// ShiftConflictError names the existing shift a create or reassign would overlap.
type ShiftConflictError struct {
	Candidate Shift `json:"candidate"`
	Existing  Shift `json:"existing"`
}

func (e *ShiftConflictError) Error() string {
	return fmt.Sprintf("employee %s already works %s-%s on %s (shift %s)",
		e.Existing.EmployeeID, e.Existing.Start, e.Existing.End, e.Existing.Date, e.Existing.ID)
}
