package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/noah-isme/shiftwise-api/internal/dto"
	"github.com/noah-isme/shiftwise-api/internal/models"
	"github.com/noah-isme/shiftwise-api/internal/service"
)

type weekOptions struct {
	anchor     string
	offset     int
	department string
}

// NewWeekCommand prints the planning grid for one week.
func NewWeekCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &weekOptions{}
	cmd := &cobra.Command{
		Use:   "week",
		Short: "Print the weekly shift grid",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWeek(cmd, rootOpts, opts)
		},
	}
	cmd.Flags().StringVar(&opts.anchor, "anchor", "", "first day of the week (YYYY-MM-DD, default today)")
	cmd.Flags().IntVar(&opts.offset, "offset", 0, "weeks relative to the anchor")
	cmd.Flags().StringVar(&opts.department, "department", "", "only this department")
	return cmd
}

func runWeek(cmd *cobra.Command, rootOpts *RootOptions, opts *weekOptions) error {
	anchor := models.DateOf(time.Now())
	if opts.anchor != "" {
		parsed, err := models.ParseCalendarDate(opts.anchor)
		if err != nil {
			return WrapExitError(ExitCommandError, "invalid --anchor", err)
		}
		anchor = parsed
	}

	ws, err := loadWorkspace(rootOpts.Fixtures, 0)
	if err != nil {
		return err
	}
	grid, err := ws.queries.WeeklyGrid(cmd.Context(), service.WeeklyGridQuery{
		Anchor:     anchor,
		WeekOffset: opts.offset,
		Department: opts.department,
	})
	if err != nil {
		return WrapExitError(ExitCommandError, "build weekly grid", err)
	}

	out := formatter{format: rootOpts.Format, out: cmd.OutOrStdout()}
	if out.json() {
		return out.success(grid)
	}
	return out.table(weekHeader(grid), weekRows(grid))
}

func weekHeader(grid *dto.WeeklyGridResponse) []string {
	header := []string{"EMPLOYEE"}
	for _, day := range grid.Days {
		header = append(header, fmt.Sprintf("%s %s", day.Weekday().String()[:3], day))
	}
	return header
}

func weekRows(grid *dto.WeeklyGridResponse) [][]string {
	rows := make([][]string, 0, len(grid.Rows)+1)
	for _, row := range grid.Rows {
		line := []string{row.Employee.Name}
		for _, cell := range row.Cells {
			line = append(line, formatShifts(cell.Shifts))
		}
		rows = append(rows, line)
	}

	if len(grid.Unassigned) > 0 {
		line := make([]string, len(grid.Days)+1)
		line[0] = "(unassigned)"
		for i, day := range grid.Days {
			var open []models.Shift
			for _, shift := range grid.Unassigned {
				if shift.Date == day {
					open = append(open, shift)
				}
			}
			line[i+1] = formatShifts(open)
		}
		rows = append(rows, line)
	}
	return rows
}

func formatShifts(shifts []models.Shift) string {
	if len(shifts) == 0 {
		return "-"
	}
	parts := make([]string, 0, len(shifts))
	for _, shift := range shifts {
		parts = append(parts, fmt.Sprintf("%s-%s", shift.Start, shift.End))
	}
	return strings.Join(parts, ",")
}
