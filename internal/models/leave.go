package models

// LeaveStatus is the approval state of a leave request.
type LeaveStatus string

const (
	LeaveStatusPending  LeaveStatus = "PENDING"
	LeaveStatusApproved LeaveStatus = "APPROVED"
	LeaveStatusRejected LeaveStatus = "REJECTED"
)

// LeaveRequest is read from the leave collaborator; this service never mutates it.
type LeaveRequest struct {
	ID         string       `db:"id" json:"id" yaml:"id"`
	EmployeeID string       `db:"employee_id" json:"employeeId" yaml:"employeeId"`
	LeaveType  string       `db:"leave_type" json:"leaveType" yaml:"leaveType"`
	StartDate  CalendarDate `db:"start_date" json:"startDate" yaml:"startDate"`
	EndDate    CalendarDate `db:"end_date" json:"endDate" yaml:"endDate"`
	Status     LeaveStatus  `db:"status" json:"status" yaml:"status"`
}

// Covers reports whether date falls within the inclusive request range.
func (l LeaveRequest) Covers(date CalendarDate) bool {
	return !date.Before(l.StartDate) && !date.After(l.EndDate)
}

type leaveKey struct {
	employeeID string
	date       CalendarDate
}

// LeaveSet holds (employee, date) pairs of approved leave. The zero value is empty and usable.
type LeaveSet struct {
	entries map[leaveKey]struct{}
}

func NewLeaveSet() LeaveSet {
	return LeaveSet{entries: map[leaveKey]struct{}{}}
}

func (s *LeaveSet) Add(employeeID string, date CalendarDate) {
	if s.entries == nil {
		s.entries = map[leaveKey]struct{}{}
	}
	s.entries[leaveKey{employeeID, date}] = struct{}{}
}

func (s LeaveSet) Contains(employeeID string, date CalendarDate) bool {
	_, ok := s.entries[leaveKey{employeeID, date}]
	return ok
}

func (s LeaveSet) Len() int { return len(s.entries) }

// LeaveSetFor keeps approved requests covering date.
func LeaveSetFor(date CalendarDate, requests []LeaveRequest) LeaveSet {
	set := NewLeaveSet()
	for _, req := range requests {
		if req.Status == LeaveStatusApproved && req.Covers(date) {
			set.Add(req.EmployeeID, date)
		}
	}
	return set
}
