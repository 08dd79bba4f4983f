package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/noah-isme/shiftwise-api/internal/models"
	appErrors "github.com/noah-isme/shiftwise-api/pkg/errors"
)

// EmployeeDirectory resolves employees. FindByID returns an error matching appErrors.ErrNotFound for unknown ids.
type EmployeeDirectory interface {
	FindByID(ctx context.Context, id string) (*models.Employee, error)
	List(ctx context.Context) ([]models.Employee, error)
}

// ReassignRequest moves a shift to another employee and/or date. A nil TargetStart keeps
// the current start; otherwise the shift keeps its duration from the new start.
// An unassigned TargetEmployeeID returns the shift to the pool.
type ReassignRequest struct {
	ShiftID          string
	TargetEmployeeID models.EmployeeRef
	TargetDate       models.CalendarDate
	TargetStart      *models.TimeOfDay
}

// AssignmentService validates and applies drag-and-drop reassignments.
type AssignmentService struct {
	store     *ShiftStore
	directory EmployeeDirectory
	cache     *CacheService
	metrics   *MetricsService
	logger    *zap.Logger
}

// NewAssignmentService builds the engine. directory, cache and metrics are optional.
func NewAssignmentService(store *ShiftStore, directory EmployeeDirectory, cache *CacheService, metrics *MetricsService, logger *zap.Logger) *AssignmentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AssignmentService{store: store, directory: directory, cache: cache, metrics: metrics, logger: logger}
}

// Reassign applies req atomically: either employee, date, start and end all change or nothing does.
func (s *AssignmentService) Reassign(ctx context.Context, req ReassignRequest) (models.Shift, error) {
	shift, err := s.reassign(ctx, req)
	s.metrics.RecordShiftMutation("reassign", mutationResult(err))
	if err != nil {
		fields := []zap.Field{
			zap.String("shift_id", req.ShiftID),
			zap.String("employee_id", req.TargetEmployeeID.String()),
			zap.String("date", req.TargetDate.String()),
			zap.Error(err),
		}
		if isClientError(err) {
			s.logger.Warn("reassign rejected", fields...)
		} else {
			s.logger.Error("reassign failed", fields...)
		}
		return models.Shift{}, err
	}

	s.logger.Info("shift reassigned",
		zap.String("shift_id", shift.ID),
		zap.String("employee_id", shift.EmployeeID.String()),
		zap.String("date", shift.Date.String()),
		zap.String("start", shift.Start.String()),
	)
	invalidateAttendance(ctx, s.cache)
	return shift, nil
}

func (s *AssignmentService) reassign(ctx context.Context, req ReassignRequest) (models.Shift, error) {
	if req.ShiftID == "" {
		return models.Shift{}, validationError("shift id is required")
	}
	if req.TargetDate.IsZero() {
		return models.Shift{}, validationError("target date is required")
	}
	if err := s.ensureEmployeeExists(ctx, req.TargetEmployeeID); err != nil {
		return models.Shift{}, err
	}

	return s.store.Commit(ctx, req.ShiftID, func(current models.Shift) (models.Shift, error) {
		next := current
		next.EmployeeID = req.TargetEmployeeID
		next.Date = req.TargetDate
		if req.TargetStart != nil {
			end, err := models.AddMinutes(*req.TargetStart, current.Duration())
			if err != nil {
				return models.Shift{}, rangeError(err)
			}
			next.Start, next.End = *req.TargetStart, end
		}
		return next, nil
	})
}

func (s *AssignmentService) ensureEmployeeExists(ctx context.Context, ref models.EmployeeRef) error {
	id, assigned := ref.ID()
	if !assigned || s.directory == nil {
		return nil
	}
	if _, err := s.directory.FindByID(ctx, id); err != nil {
		if errors.Is(err, appErrors.ErrNotFound) {
			return notFoundError("employee", id)
		}
		return err
	}
	return nil
}

// attendanceCachePattern covers every cached attendance summary.
const attendanceCachePattern = "attendance:*"

// invalidateAttendance must run after the source mutation is applied.
func invalidateAttendance(ctx context.Context, cache *CacheService) {
	cache.advanceAttendance()
	// Failures are already logged by the cache service.
	_ = cache.Invalidate(ctx, attendanceCachePattern)
}
