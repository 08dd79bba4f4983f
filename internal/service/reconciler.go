package service

import (
	"github.com/noah-isme/shiftwise-api/internal/models"
)

// ReconcileOptions tunes Reconcile. The zero value means no leave and zero tolerance.
type ReconcileOptions struct {
	Leave            models.LeaveSet
	ToleranceMinutes int
}

type eventKey struct {
	employeeID string
	date       models.CalendarDate
}

// Reconcile derives one attendance record per shift, in shift order. It is a pure
// function of its inputs. All shifts and events must fall on the same date.
//
// Rules, first match wins:
//  1. no clock event, or one without times: TIME_OFF on approved leave, otherwise ABSENT
//  2. clocked in after start+tolerance: LATE_IN
//  3. clocked out before end-tolerance: EARLY_OUT
//  4. both times present and within tolerance: ON_TIME
//
// Unassigned shifts and events missing one timestamp that break neither rule 2 nor 3
// are UNKNOWN. When an employee has several events for the date the first is used.
func Reconcile(shifts []models.Shift, events []models.ClockEvent, opts ReconcileOptions) ([]models.AttendanceRecord, error) {
	if opts.ToleranceMinutes < 0 {
		return nil, validationError("tolerance must not be negative")
	}
	if err := ensureSingleDate(shifts, events); err != nil {
		return nil, err
	}

	byEmployee := make(map[eventKey]models.ClockEvent, len(events))
	for _, ev := range events {
		key := eventKey{ev.EmployeeID, ev.Date}
		if _, seen := byEmployee[key]; !seen {
			byEmployee[key] = ev
		}
	}

	records := make([]models.AttendanceRecord, 0, len(shifts))
	for _, shift := range shifts {
		records = append(records, reconcileShift(shift, byEmployee, opts))
	}
	return records, nil
}

func reconcileShift(shift models.Shift, events map[eventKey]models.ClockEvent, opts ReconcileOptions) models.AttendanceRecord {
	record := models.AttendanceRecord{Shift: shift, Status: models.AttendanceUnknown}

	employeeID, assigned := shift.EmployeeID.ID()
	if !assigned {
		return record
	}

	ev, found := events[eventKey{employeeID, shift.Date}]
	if found {
		record.ActualStart = copyTime(ev.ActualStart)
		record.ActualEnd = copyTime(ev.ActualEnd)
		record.Notes = copyString(ev.Note)
	}
	if record.ActualStart != nil {
		record.LateMinutes = positive(record.ActualStart.Sub(shift.Start))
	}
	if record.ActualEnd != nil {
		record.EarlyMinutes = positive(shift.End.Sub(*record.ActualEnd))
	}

	tol := opts.ToleranceMinutes
	switch {
	case record.ActualStart == nil && record.ActualEnd == nil:
		if opts.Leave.Contains(employeeID, shift.Date) {
			record.Status = models.AttendanceTimeOff
		} else {
			record.Status = models.AttendanceAbsent
		}
	case record.ActualStart != nil && record.LateMinutes > tol:
		record.Status = models.AttendanceLateIn
	case record.ActualEnd != nil && record.EarlyMinutes > tol:
		record.Status = models.AttendanceEarlyOut
	case record.ActualStart != nil && record.ActualEnd != nil:
		record.Status = models.AttendanceOnTime
	}
	return record
}

func ensureSingleDate(shifts []models.Shift, events []models.ClockEvent) error {
	var date models.CalendarDate
	check := func(d models.CalendarDate, what, id string) error {
		if date.IsZero() {
			date = d
			return nil
		}
		if d != date {
			return validationError("%s %s is dated %s but reconciliation is for %s", what, id, d, date)
		}
		return nil
	}
	for _, s := range shifts {
		if err := check(s.Date, "shift", s.ID); err != nil {
			return err
		}
	}
	for _, ev := range events {
		if err := check(ev.Date, "clock event for employee", ev.EmployeeID); err != nil {
			return err
		}
	}
	return nil
}

func positive(n int) int {
	if n < 0 {
		return 0
	}
	return n
}

func copyTime(t *models.TimeOfDay) *models.TimeOfDay {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

func copyString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
