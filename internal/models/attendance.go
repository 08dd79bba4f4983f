package models

// AttendanceStatus is the outcome of reconciling a shift with its clock event.
type AttendanceStatus string

const (
	AttendanceOnTime   AttendanceStatus = "ON_TIME"
	AttendanceLateIn   AttendanceStatus = "LATE_IN"
	AttendanceEarlyOut AttendanceStatus = "EARLY_OUT"
	AttendanceAbsent   AttendanceStatus = "ABSENT"
	AttendanceTimeOff  AttendanceStatus = "TIME_OFF"
	AttendanceUnknown  AttendanceStatus = "UNKNOWN"
)

// AttendanceStatuses lists every status in display order.
var AttendanceStatuses = []AttendanceStatus{
	AttendanceOnTime, AttendanceLateIn, AttendanceEarlyOut,
	AttendanceAbsent, AttendanceTimeOff, AttendanceUnknown,
}

func (s AttendanceStatus) Valid() bool {
	for _, known := range AttendanceStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// ClockEvent is the actual clock-in/out of an employee on a date.
type ClockEvent struct {
	ID          string       `db:"id" json:"id" yaml:"id"`
	EmployeeID  string       `db:"employee_id" json:"employeeId" yaml:"employeeId"`
	Date        CalendarDate `db:"date" json:"date" yaml:"date"`
	ActualStart *TimeOfDay   `db:"actual_start" json:"actualStart" yaml:"actualStart"`
	ActualEnd   *TimeOfDay   `db:"actual_end" json:"actualEnd" yaml:"actualEnd"`
	Note        *string      `db:"note" json:"note,omitempty" yaml:"note"`
}

// AttendanceRecord pairs a shift with what happened. It is derived on demand.
type AttendanceRecord struct {
	Shift        Shift            `json:"shift"`
	ActualStart  *TimeOfDay       `json:"actualStart"`
	ActualEnd    *TimeOfDay       `json:"actualEnd"`
	Status       AttendanceStatus `json:"status"`
	Notes        *string          `json:"notes,omitempty"`
	LateMinutes  int              `json:"lateMinutes"`
	EarlyMinutes int              `json:"earlyMinutes"`
}

// AttendanceSummary aggregates one day of records for the dashboard.
type AttendanceSummary struct {
	Date                CalendarDate             `json:"date"`
	TotalShifts         int                      `json:"totalShifts"`
	AssignedShifts      int                      `json:"assignedShifts"`
	UnassignedShifts    int                      `json:"unassignedShifts"`
	ByStatus            map[AttendanceStatus]int `json:"byStatus"`
	AbsenteeismRate     float64                  `json:"absenteeismRate"`
	PendingLeaveRequest int                      `json:"pendingLeaveRequests"`
}
