package fixtures

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/shiftwise-api/internal/models"
	appErrors "github.com/noah-isme/shiftwise-api/pkg/errors"
)

const sample = `
employees:
  - id: E2
    name: Bo Chen
    department: Kitchen
  - id: E1
    name: Ada Byron
    department: Front Desk
shifts:
  - id: S1
    employeeId: E1
    date: 2024-06-03
    start: "09:00"
    end: "17:00"
    department: Front Desk
  - id: S2
    employeeId: TBD
    date: 2024-06-03
    start: "12:00"
    end: "20:00"
    department: Kitchen
  - id: S3
    employeeId: null
    date: 2024-06-04
    start: "06:00"
    end: "14:00"
clockEvents:
  - employeeId: E1
    date: 2024-06-03
    actualStart: "09:15"
    actualEnd: null
    note: bus delay
leaveRequests:
  - id: L1
    employeeId: E2
    leaveType: Vacation
    startDate: 2024-06-03
    endDate: 2024-06-05
    status: Approved
  - id: L2
    employeeId: E1
    leaveType: Sick
    startDate: 2024-06-10
    endDate: 2024-06-10
    status: pending
`

func TestParseDecodesDomainTypes(t *testing.T) {
	doc, err := Parse([]byte(sample))
	require.NoError(t, err)

	require.Len(t, doc.Shifts, 3)
	assert.True(t, doc.Shifts[0].EmployeeID.Is("E1"))
	assert.Equal(t, "2024-06-03", doc.Shifts[0].Date.String())
	assert.Equal(t, models.MustParseTimeOfDay("17:00"), doc.Shifts[0].End)
	assert.False(t, doc.Shifts[1].EmployeeID.IsAssigned())
	assert.False(t, doc.Shifts[2].EmployeeID.IsAssigned())

	require.Len(t, doc.ClockEvents, 1)
	require.NotNil(t, doc.ClockEvents[0].ActualStart)
	assert.Equal(t, "09:15", doc.ClockEvents[0].ActualStart.String())
	assert.Nil(t, doc.ClockEvents[0].ActualEnd)

	assert.Equal(t, models.LeaveStatusApproved, doc.LeaveRequests[0].Status)
	assert.Equal(t, models.LeaveStatusPending, doc.LeaveRequests[1].Status)
}

func TestParseRejectsUnknownFieldsAndBadTimes(t *testing.T) {
	_, err := Parse([]byte("shift:\n  - id: S1\n"))
	assert.Error(t, err)

	_, err = Parse([]byte("shifts:\n  - id: S1\n    start: \"9am\"\n"))
	assert.Error(t, err)
}

func TestSourceServesCollaborators(t *testing.T) {
	doc, err := Parse([]byte(sample))
	require.NoError(t, err)
	src, err := NewSource(doc)
	require.NoError(t, err)
	ctx := context.Background()
	june3 := models.MustParseCalendarDate("2024-06-03")

	employees, err := src.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, "E1", employees[0].ID)

	_, err = src.FindByID(ctx, "E9")
	assert.ErrorIs(t, err, appErrors.ErrNotFound)

	approved, err := src.ApprovedOn(ctx, june3)
	require.NoError(t, err)
	require.Len(t, approved, 1)
	assert.Equal(t, "L1", approved[0].ID)

	pending, err := src.CountPending(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, pending)

	start := models.MustParseTimeOfDay("12:00")
	recorded, err := src.Record(ctx, models.ClockEvent{EmployeeID: "E2", Date: june3, ActualStart: &start})
	require.NoError(t, err)
	assert.NotEmpty(t, recorded.ID)

	events, err := src.ListByDate(ctx, june3)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "fixture-1", events[0].ID)
	assert.Equal(t, "E2", events[1].EmployeeID)
}

func TestNewSourceRejectsDuplicateEmployees(t *testing.T) {
	_, err := NewSource(Document{Employees: []models.Employee{{ID: "E1"}, {ID: "E1"}}})
	assert.Error(t, err)
}

func TestLoadDirMergesFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a_employees.yaml"), []byte("employees:\n  - id: E1\n    name: Ada\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b_shifts.yml"), []byte("shifts:\n  - id: S1\n    employeeId: E1\n    date: 2024-06-03\n    start: \"09:00\"\n    end: \"17:00\"\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o644))

	doc, err := Load(dir)
	require.NoError(t, err)
	assert.Len(t, doc.Employees, 1)
	assert.Len(t, doc.Shifts, 1)

	_, err = LoadDir(t.TempDir())
	assert.Error(t, err)
}

func TestBundledFixturesLoad(t *testing.T) {
	doc, err := LoadDir(filepath.Join("..", "..", "fixtures"))
	require.NoError(t, err)
	assert.NotEmpty(t, doc.Employees)
	assert.NotEmpty(t, doc.Shifts)
	_, err = NewSource(doc)
	require.NoError(t, err)
}
