package dto

import "github.com/noah-isme/shiftwise-api/internal/models"

// DailyAttendanceQuery binds GET /attendance/daily and /attendance/export.
type DailyAttendanceQuery struct {
	Date      string `form:"date"`
	Status    string `form:"status"`
	Tolerance *int   `form:"tolerance"`
	Format    string `form:"format"`
}

// AttendanceRow is one line of the daily attendance table.
type AttendanceRow struct {
	ShiftID        string                  `json:"shiftId"`
	EmployeeID     *string                 `json:"employeeId"`
	EmployeeName   string                  `json:"employeeName"`
	Department     string                  `json:"department"`
	Date           models.CalendarDate     `json:"date"`
	ScheduledStart models.TimeOfDay        `json:"scheduledStart"`
	ScheduledEnd   models.TimeOfDay        `json:"scheduledEnd"`
	ActualStart    *models.TimeOfDay       `json:"actualStart"`
	ActualEnd      *models.TimeOfDay       `json:"actualEnd"`
	Status         models.AttendanceStatus `json:"status"`
	LateMinutes    int                     `json:"lateMinutes"`
	EarlyMinutes   int                     `json:"earlyMinutes"`
	Notes          *string                 `json:"notes,omitempty"`
}

// DailyAttendanceResponse is the reconciled table for one date.
type DailyAttendanceResponse struct {
	Date             models.CalendarDate      `json:"date"`
	ToleranceMinutes int                      `json:"toleranceMinutes"`
	Status           *models.AttendanceStatus `json:"status,omitempty"`
	Rows             []AttendanceRow          `json:"rows"`
}

// RecordClockEventRequest is the POST /attendance/clock-events body.
type RecordClockEventRequest struct {
	EmployeeID  string  `json:"employeeId" validate:"required,max=64"`
	Date        string  `json:"date" validate:"required"`
	ActualStart *string `json:"actualStart"`
	ActualEnd   *string `json:"actualEnd"`
	Note        *string `json:"note" validate:"omitempty,max=500"`
}
