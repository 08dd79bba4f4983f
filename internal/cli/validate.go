package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/noah-isme/shiftwise-api/internal/models"
)

// ValidationResult summarises a fixture set.
type ValidationResult struct {
	Valid         bool   `json:"valid"`
	Employees     int    `json:"employees"`
	Shifts        int    `json:"shifts"`
	Unassigned    int    `json:"unassigned"`
	ClockEvents   int    `json:"clockEvents"`
	LeaveRequests int    `json:"leaveRequests"`
	Problem       string `json:"problem,omitempty"`
}

// NewValidateCommand checks that fixtures parse and satisfy the overlap rule.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate fixture files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd, rootOpts)
		},
	}
}

func runValidate(cmd *cobra.Command, rootOpts *RootOptions) error {
	out := formatter{format: rootOpts.Format, out: cmd.OutOrStdout()}

	ws, err := loadWorkspace(rootOpts.Fixtures, 0)
	if err != nil {
		if GetExitCode(err) == ExitCommandError {
			return err
		}
		result := ValidationResult{Problem: describeProblem(err)}
		if out.json() {
			_ = out.failure(result, err.Error())
		} else {
			fmt.Fprintf(cmd.OutOrStdout(), "✗ %s\n", result.Problem)
		}
		return err
	}

	result := ValidationResult{
		Valid:         true,
		Employees:     len(ws.doc.Employees),
		Shifts:        ws.store.Len(),
		Unassigned:    len(ws.store.Unassigned()),
		ClockEvents:   len(ws.doc.ClockEvents),
		LeaveRequests: len(ws.doc.LeaveRequests),
	}
	if out.json() {
		return out.success(result)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✓ %d employees, %d shifts (%d unassigned), %d clock events, %d leave requests\n",
		result.Employees, result.Shifts, result.Unassigned, result.ClockEvents, result.LeaveRequests)
	return nil
}

func describeProblem(err error) string {
	var conflict *models.ShiftConflictError
	if errors.As(err, &conflict) {
		return fmt.Sprintf("shift %s overlaps shift %s for employee %s on %s",
			conflict.Candidate.ID, conflict.Existing.ID, conflict.Candidate.EmployeeID, conflict.Candidate.Date)
	}
	return err.Error()
}
