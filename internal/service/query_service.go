package service

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/noah-isme/shiftwise-api/internal/dto"
	"github.com/noah-isme/shiftwise-api/internal/models"
)

// ClockEventSource yields and records actual clock-in/out data.
type ClockEventSource interface {
	ListByDate(ctx context.Context, date models.CalendarDate) ([]models.ClockEvent, error)
	Record(ctx context.Context, event models.ClockEvent) (models.ClockEvent, error)
}

// LeaveSource exposes leave requests owned by another system.
type LeaveSource interface {
	ApprovedOn(ctx context.Context, date models.CalendarDate) ([]models.LeaveRequest, error)
	CountPending(ctx context.Context) (int, error)
}

// WeeklyGridQuery selects the seven days starting at Anchor + 7*WeekOffset.
type WeeklyGridQuery struct {
	Anchor     models.CalendarDate
	WeekOffset int
	Department string
}

// DailyAttendanceQuery selects one date. Nil Status returns every row; nil Tolerance uses the configured default.
type DailyAttendanceQuery struct {
	Date      models.CalendarDate
	Status    *models.AttendanceStatus
	Tolerance *int
}

// QueryOptions holds facade defaults.
type QueryOptions struct {
	ToleranceMinutes int
	SummaryTTL       time.Duration
}

// QueryService is the read side: planning grid, unassigned pool and attendance tables.
type QueryService struct {
	store     *ShiftStore
	directory EmployeeDirectory
	clocks    ClockEventSource
	leave     LeaveSource
	cache     *CacheService
	metrics   *MetricsService
	opts      QueryOptions
	logger    *zap.Logger
}

// NewQueryService wires the facade. clocks and leave may be nil, meaning no events and no leave.
func NewQueryService(store *ShiftStore, directory EmployeeDirectory, clocks ClockEventSource, leave LeaveSource, cache *CacheService, metrics *MetricsService, opts QueryOptions, logger *zap.Logger) *QueryService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.ToleranceMinutes < 0 {
		opts.ToleranceMinutes = 0
	}
	return &QueryService{
		store:     store,
		directory: directory,
		clocks:    clocks,
		leave:     leave,
		cache:     cache,
		metrics:   metrics,
		opts:      opts,
		logger:    logger,
	}
}

// WeeklyGrid lays out shifts for a week. Rows are directory employees in directory
// order followed by anyone else holding a shift that week; cells keep store order.
func (s *QueryService) WeeklyGrid(ctx context.Context, q WeeklyGridQuery) (*dto.WeeklyGridResponse, error) {
	if q.Anchor.IsZero() {
		return nil, validationError("anchor date is required")
	}
	days := models.DaysOfWeek(q.Anchor.AddDays(7 * q.WeekOffset))
	column := make(map[models.CalendarDate]int, len(days))
	for i, d := range days {
		column[d] = i
	}

	var filter models.ShiftFilter
	if q.Department != "" {
		filter.Department = &q.Department
	}
	shifts := s.store.List(filter)

	employees, err := s.listEmployees(ctx)
	if err != nil {
		return nil, err
	}

	resp := &dto.WeeklyGridResponse{
		Anchor:     q.Anchor,
		WeekOffset: q.WeekOffset,
		Department: q.Department,
		Days:       days[:],
		Rows:       make([]dto.WeeklyGridRow, 0, len(employees)),
		Unassigned: make([]models.Shift, 0),
	}

	rowOf := make(map[string]int)
	addRow := func(emp models.Employee) int {
		row := dto.WeeklyGridRow{Employee: emp, Cells: make([]dto.WeeklyGridCell, len(days))}
		for i, d := range days {
			row.Cells[i] = dto.WeeklyGridCell{Date: d, Shifts: make([]models.Shift, 0)}
		}
		resp.Rows = append(resp.Rows, row)
		rowOf[emp.ID] = len(resp.Rows) - 1
		return rowOf[emp.ID]
	}
	for _, emp := range employees {
		if q.Department != "" && !strings.EqualFold(emp.Department, q.Department) {
			continue
		}
		if _, dup := rowOf[emp.ID]; !dup {
			addRow(emp)
		}
	}

	for _, shift := range shifts {
		col, inWeek := column[shift.Date]
		if !inWeek {
			continue
		}
		id, assigned := shift.EmployeeID.ID()
		if !assigned {
			resp.Unassigned = append(resp.Unassigned, shift)
			continue
		}
		idx, ok := rowOf[id]
		if !ok {
			idx = addRow(lookupEmployee(id, employees))
		}
		cell := &resp.Rows[idx].Cells[col]
		cell.Shifts = append(cell.Shifts, shift)
	}
	return resp, nil
}

// UnassignedPool returns open shifts in store order.
func (s *QueryService) UnassignedPool(_ context.Context) []models.Shift {
	return s.store.Unassigned()
}

// DailyAttendance reconciles every shift on q.Date against that day's clock events and leave.
func (s *QueryService) DailyAttendance(ctx context.Context, q DailyAttendanceQuery) (*dto.DailyAttendanceResponse, error) {
	if q.Status != nil && !q.Status.Valid() {
		return nil, validationError("unknown attendance status %q", *q.Status)
	}
	tolerance := s.opts.ToleranceMinutes
	if q.Tolerance != nil {
		tolerance = *q.Tolerance
	}

	day, err := s.reconcileDay(ctx, q.Date, tolerance)
	if err != nil {
		return nil, err
	}

	resp := &dto.DailyAttendanceResponse{
		Date:             q.Date,
		ToleranceMinutes: tolerance,
		Status:           q.Status,
		Rows:             make([]dto.AttendanceRow, 0, len(day.records)),
	}
	for _, rec := range day.records {
		if q.Status != nil && rec.Status != *q.Status {
			continue
		}
		resp.Rows = append(resp.Rows, day.row(rec))
	}
	return resp, nil
}

// AttendanceSummary computes the dashboard KPIs for date, served from cache when possible.
func (s *QueryService) AttendanceSummary(ctx context.Context, date models.CalendarDate) (*models.AttendanceSummary, bool, error) {
	if date.IsZero() {
		return nil, false, validationError("date is required")
	}
	// Read before the snapshot: a mutation landing mid-computation moves later reads to a new key.
	key := summaryCacheKey(date, s.cache.AttendanceGeneration())
	var cached models.AttendanceSummary
	if hit, _ := s.cache.Get(ctx, key, &cached); hit {
		return &cached, true, nil
	}

	day, err := s.reconcileDay(ctx, date, s.opts.ToleranceMinutes)
	if err != nil {
		return nil, false, err
	}

	summary := &models.AttendanceSummary{
		Date:     date,
		ByStatus: make(map[models.AttendanceStatus]int, len(models.AttendanceStatuses)),
	}
	for _, status := range models.AttendanceStatuses {
		summary.ByStatus[status] = 0
	}
	for _, rec := range day.records {
		summary.TotalShifts++
		if rec.Shift.EmployeeID.IsAssigned() {
			summary.AssignedShifts++
		} else {
			summary.UnassignedShifts++
		}
		summary.ByStatus[rec.Status]++
	}
	if summary.AssignedShifts > 0 {
		rate := float64(summary.ByStatus[models.AttendanceAbsent]) / float64(summary.AssignedShifts) * 100
		summary.AbsenteeismRate = math.Round(rate*10) / 10
	}
	if s.leave != nil {
		pending, err := s.leave.CountPending(ctx)
		if err != nil {
			return nil, false, fmt.Errorf("count pending leave: %w", err)
		}
		summary.PendingLeaveRequest = pending
	}

	_ = s.cache.Set(ctx, key, summary, s.opts.SummaryTTL)
	return summary, false, nil
}

// AttendanceRows returns every reconciled row for date, for exports.
func (s *QueryService) AttendanceRows(ctx context.Context, date models.CalendarDate, status *models.AttendanceStatus) ([]dto.AttendanceRow, error) {
	resp, err := s.DailyAttendance(ctx, DailyAttendanceQuery{Date: date, Status: status})
	if err != nil {
		return nil, err
	}
	return resp.Rows, nil
}

type reconciledDay struct {
	records   []models.AttendanceRecord
	employees map[string]models.Employee
}

func (d reconciledDay) row(rec models.AttendanceRecord) dto.AttendanceRow {
	name := ""
	if id, ok := rec.Shift.EmployeeID.ID(); ok {
		name = models.UnknownEmployeeName
		if emp, found := d.employees[id]; found {
			name = emp.Name
		}
	}
	return dto.AttendanceRow{
		ShiftID:        rec.Shift.ID,
		EmployeeID:     rec.Shift.EmployeeID.Ptr(),
		EmployeeName:   name,
		Department:     rec.Shift.Department,
		Date:           rec.Shift.Date,
		ScheduledStart: rec.Shift.Start,
		ScheduledEnd:   rec.Shift.End,
		ActualStart:    rec.ActualStart,
		ActualEnd:      rec.ActualEnd,
		Status:         rec.Status,
		LateMinutes:    rec.LateMinutes,
		EarlyMinutes:   rec.EarlyMinutes,
		Notes:          rec.Notes,
	}
}

func (s *QueryService) reconcileDay(ctx context.Context, date models.CalendarDate, tolerance int) (*reconciledDay, error) {
	if date.IsZero() {
		return nil, validationError("date is required")
	}
	shifts := s.store.List(models.ShiftFilter{Date: &date})

	var (
		events    []models.ClockEvent
		approved  []models.LeaveRequest
		employees []models.Employee
	)
	g, gctx := errgroup.WithContext(ctx)
	if s.clocks != nil {
		g.Go(func() error {
			var err error
			if events, err = s.clocks.ListByDate(gctx, date); err != nil {
				return fmt.Errorf("load clock events: %w", err)
			}
			return nil
		})
	}
	if s.leave != nil {
		g.Go(func() error {
			var err error
			if approved, err = s.leave.ApprovedOn(gctx, date); err != nil {
				return fmt.Errorf("load approved leave: %w", err)
			}
			return nil
		})
	}
	g.Go(func() error {
		var err error
		employees, err = s.listEmployees(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		s.logger.Error("load attendance inputs", zap.String("date", date.String()), zap.Error(err))
		return nil, err
	}

	sameDay := events[:0:0]
	for _, ev := range events {
		if ev.Date == date {
			sameDay = append(sameDay, ev)
		}
	}

	records, err := Reconcile(shifts, sameDay, ReconcileOptions{
		Leave:            models.LeaveSetFor(date, approved),
		ToleranceMinutes: tolerance,
	})
	if err != nil {
		return nil, err
	}
	s.metrics.RecordReconciliation(records)

	byID := make(map[string]models.Employee, len(employees))
	for _, emp := range employees {
		byID[emp.ID] = emp
	}
	return &reconciledDay{records: records, employees: byID}, nil
}

func (s *QueryService) listEmployees(ctx context.Context) ([]models.Employee, error) {
	if s.directory == nil {
		return nil, nil
	}
	employees, err := s.directory.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list employees: %w", err)
	}
	return employees, nil
}

func lookupEmployee(id string, known []models.Employee) models.Employee {
	for _, emp := range known {
		if emp.ID == id {
			return emp
		}
	}
	return models.Employee{ID: id, Name: models.UnknownEmployeeName}
}

func summaryCacheKey(date models.CalendarDate, generation uint64) string {
	return fmt.Sprintf("attendance:summary:%s:g%d", date, generation)
}
