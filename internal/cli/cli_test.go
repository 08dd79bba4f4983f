package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validFixtures = `
employees:
  - {id: E1, name: Ada Byron, department: Front Desk}
  - {id: E2, name: Bo Chen, department: Kitchen}
shifts:
  - {id: S1, employeeId: E1, date: 2024-06-03, start: "09:00", end: "17:00", department: Front Desk}
  - {id: S2, employeeId: E2, date: 2024-06-03, start: "12:00", end: "20:00", department: Kitchen}
  - {id: S3, employeeId: TBD, date: 2024-06-04, start: "08:00", end: "12:00", department: Kitchen}
clockEvents:
  - {employeeId: E1, date: 2024-06-03, actualStart: "09:15", actualEnd: "17:00"}
leaveRequests:
  - {id: L1, employeeId: E2, leaveType: sick, startDate: 2024-06-03, endDate: 2024-06-03, status: approved}
`

const overlappingFixtures = `
employees:
  - {id: E1, name: Ada Byron, department: Front Desk}
shifts:
  - {id: S1, employeeId: E1, date: 2024-06-03, start: "09:00", end: "17:00"}
  - {id: S2, employeeId: E1, date: 2024-06-03, start: "12:00", end: "20:00"}
`

func writeFixtures(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fixtures.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	cmd := NewRootCommand()
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestValidateCommand(t *testing.T) {
	path := writeFixtures(t, validFixtures)

	out, err := execute(t, "validate", "--fixtures", path)
	require.NoError(t, err)
	assert.Contains(t, out, "2 employees, 3 shifts (1 unassigned), 1 clock events, 1 leave requests")

	out, err = execute(t, "validate", "--fixtures", path, "--format", "json")
	require.NoError(t, err)
	var resp struct {
		Status string           `json:"status"`
		Data   ValidationResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.True(t, resp.Data.Valid)
	assert.Equal(t, 3, resp.Data.Shifts)
}

func TestValidateCommandReportsOverlap(t *testing.T) {
	path := writeFixtures(t, overlappingFixtures)

	out, err := execute(t, "validate", "--fixtures", path)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "shift S2 overlaps shift S1 for employee E1 on 2024-06-03")
}

func TestValidateCommandMissingFixtures(t *testing.T) {
	_, err := execute(t, "validate", "--fixtures", filepath.Join(t.TempDir(), "missing"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestReconcileCommand(t *testing.T) {
	path := writeFixtures(t, validFixtures)

	out, err := execute(t, "reconcile", "--fixtures", path, "--date", "2024-06-03")
	require.NoError(t, err)
	assert.Contains(t, out, "Ada Byron")
	assert.Contains(t, out, "LATE_IN")
	assert.Contains(t, out, "TIME_OFF")

	out, err = execute(t, "reconcile", "--fixtures", path, "--date", "2024-06-03", "--tolerance", "15", "--status", "on-time", "--format", "json")
	require.NoError(t, err)
	var resp struct {
		Data struct {
			Rows []struct {
				ShiftID string `json:"shiftId"`
				Status  string `json:"status"`
			} `json:"rows"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.Len(t, resp.Data.Rows, 1)
	assert.Equal(t, "S1", resp.Data.Rows[0].ShiftID)
}

func TestReconcileCommandRejectsBadFlags(t *testing.T) {
	path := writeFixtures(t, validFixtures)

	for _, args := range [][]string{
		{"reconcile", "--fixtures", path, "--date", "June"},
		{"reconcile", "--fixtures", path, "--tolerance", "-5"},
		{"reconcile", "--fixtures", path, "--status", "sleepy"},
	} {
		_, err := execute(t, args...)
		require.Error(t, err, args)
		assert.Equal(t, ExitCommandError, GetExitCode(err), args)
	}

	_, err := execute(t, "reconcile", "--format", "xml")
	assert.Error(t, err)
}

func TestWeekCommand(t *testing.T) {
	path := writeFixtures(t, validFixtures)

	out, err := execute(t, "week", "--fixtures", path, "--anchor", "2024-06-03")
	require.NoError(t, err)
	assert.Contains(t, out, "Mon 2024-06-03")
	assert.Contains(t, out, "09:00-17:00")
	assert.Contains(t, out, "(unassigned)")
	assert.Contains(t, out, "08:00-12:00")

	out, err = execute(t, "week", "--fixtures", path, "--anchor", "2024-06-03", "--department", "kitchen", "--format", "json")
	require.NoError(t, err)
	var resp struct {
		Data struct {
			Rows []struct {
				Employee struct {
					ID string `json:"id"`
				} `json:"employee"`
			} `json:"rows"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.Len(t, resp.Data.Rows, 1)
	assert.Equal(t, "E2", resp.Data.Rows[0].Employee.ID)
}

func TestBundledFixturesValidate(t *testing.T) {
	_, err := execute(t, "validate", "--fixtures", filepath.Join("..", "..", "fixtures"))
	assert.NoError(t, err)
}
