package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/noah-isme/shiftwise-api/internal/models"
	appErrors "github.com/noah-isme/shiftwise-api/pkg/errors"
)

var (
	june3 = models.MustParseCalendarDate("2024-06-03")
	june4 = models.MustParseCalendarDate("2024-06-04")
)

func tod(raw string) models.TimeOfDay { return models.MustParseTimeOfDay(raw) }

func todPtr(raw string) *models.TimeOfDay {
	t := tod(raw)
	return &t
}

func strPtr(s string) *string { return &s }

func newShift(id, employee string, date models.CalendarDate, start, end string) models.Shift {
	return models.Shift{
		ID:         id,
		EmployeeID: models.AssignedTo(employee),
		Date:       date,
		Start:      tod(start),
		End:        tod(end),
		Department: "Front Desk",
	}
}

func newStoreWith(seed ...models.Shift) *ShiftStore {
	store := NewShiftStore(nil)
	if err := store.Load(seed); err != nil {
		panic(err)
	}
	return store
}

type stubDirectory struct {
	employees []models.Employee
	err       error
}

func (d stubDirectory) FindByID(_ context.Context, id string) (*models.Employee, error) {
	if d.err != nil {
		return nil, d.err
	}
	for _, emp := range d.employees {
		if emp.ID == id {
			e := emp
			return &e, nil
		}
	}
	return nil, appErrors.Clone(appErrors.ErrNotFound, "employee not found")
}

func (d stubDirectory) List(context.Context) ([]models.Employee, error) {
	return d.employees, d.err
}

func directoryOf(ids ...string) stubDirectory {
	d := stubDirectory{}
	for _, id := range ids {
		d.employees = append(d.employees, models.Employee{ID: id, Name: "Employee " + id, Department: "Front Desk"})
	}
	return d
}

type stubClocks struct {
	mu     sync.Mutex
	events []models.ClockEvent
	calls  int
}

func (c *stubClocks) ListByDate(_ context.Context, date models.CalendarDate) ([]models.ClockEvent, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++
	out := make([]models.ClockEvent, 0)
	for _, ev := range c.events {
		if ev.Date == date {
			out = append(out, ev)
		}
	}
	return out, nil
}

func (c *stubClocks) Record(_ context.Context, ev models.ClockEvent) (models.ClockEvent, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	ev.ID = fmt.Sprintf("c%d", len(c.events)+1)
	c.events = append(c.events, ev)
	return ev, nil
}

type stubLeave struct {
	approved []models.LeaveRequest
	pending  int
}

func (l stubLeave) ApprovedOn(_ context.Context, date models.CalendarDate) ([]models.LeaveRequest, error) {
	out := make([]models.LeaveRequest, 0)
	for _, req := range l.approved {
		if req.Covers(date) {
			out = append(out, req)
		}
	}
	return out, nil
}

func (l stubLeave) CountPending(context.Context) (int, error) { return l.pending, nil }
