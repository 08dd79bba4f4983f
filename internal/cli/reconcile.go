package cli

import (
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/noah-isme/shiftwise-api/internal/models"
	"github.com/noah-isme/shiftwise-api/internal/service"
)

type reconcileOptions struct {
	date      string
	status    string
	tolerance int
}

// NewReconcileCommand prints the daily attendance table.
func NewReconcileCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &reconcileOptions{}
	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Reconcile one day of shifts against clock events",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReconcile(cmd, rootOpts, opts)
		},
	}
	cmd.Flags().StringVar(&opts.date, "date", "", "date to reconcile (YYYY-MM-DD, default today)")
	cmd.Flags().StringVar(&opts.status, "status", "", "only rows with this status")
	cmd.Flags().IntVar(&opts.tolerance, "tolerance", 0, "minutes of lateness or early leave to ignore")
	return cmd
}

func runReconcile(cmd *cobra.Command, rootOpts *RootOptions, opts *reconcileOptions) error {
	date := models.DateOf(time.Now())
	if opts.date != "" {
		parsed, err := models.ParseCalendarDate(opts.date)
		if err != nil {
			return WrapExitError(ExitCommandError, "invalid --date", err)
		}
		date = parsed
	}
	if opts.tolerance < 0 {
		return &ExitError{Code: ExitCommandError, Message: "--tolerance must not be negative"}
	}
	status, err := service.ParseStatusParam(opts.status)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid --status", err)
	}

	ws, err := loadWorkspace(rootOpts.Fixtures, opts.tolerance)
	if err != nil {
		return err
	}
	table, err := ws.queries.DailyAttendance(cmd.Context(), service.DailyAttendanceQuery{Date: date, Status: status})
	if err != nil {
		return WrapExitError(ExitCommandError, "reconcile", err)
	}

	out := formatter{format: rootOpts.Format, out: cmd.OutOrStdout()}
	if out.json() {
		return out.success(table)
	}

	rows := make([][]string, 0, len(table.Rows))
	for _, r := range table.Rows {
		rows = append(rows, []string{
			r.EmployeeName,
			r.ScheduledStart.String() + "-" + r.ScheduledEnd.String(),
			optionalTime(r.ActualStart) + "-" + optionalTime(r.ActualEnd),
			string(r.Status),
			strconv.Itoa(r.LateMinutes),
			strconv.Itoa(r.EarlyMinutes),
		})
	}
	return out.table([]string{"EMPLOYEE", "SCHEDULED", "ACTUAL", "STATUS", "LATE", "EARLY"}, rows)
}

func optionalTime(t *models.TimeOfDay) string {
	if t == nil {
		return "--:--"
	}
	return t.String()
}
