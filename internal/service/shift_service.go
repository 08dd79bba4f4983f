package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/shiftwise-api/internal/dto"
	"github.com/noah-isme/shiftwise-api/internal/models"
	appErrors "github.com/noah-isme/shiftwise-api/pkg/errors"
)

// ShiftService adapts HTTP payloads to the shift store and assignment engine.
type ShiftService struct {
	store      *ShiftStore
	assignment *AssignmentService
	cache      *CacheService
	metrics    *MetricsService
	validator  *validator.Validate
	logger     *zap.Logger
}

func NewShiftService(store *ShiftStore, assignment *AssignmentService, cache *CacheService, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *ShiftService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ShiftService{store: store, assignment: assignment, cache: cache, metrics: metrics, validator: validate, logger: logger}
}

// List applies the query filters; unassigned=true returns only the pool.
func (s *ShiftService) List(_ context.Context, q dto.ShiftQuery) ([]models.Shift, error) {
	var filter models.ShiftFilter
	if q.Date != "" {
		date, err := ParseDateParam("date", q.Date)
		if err != nil {
			return nil, err
		}
		filter.Date = &date
	}
	if id := strings.TrimSpace(q.EmployeeID); id != "" {
		filter.EmployeeID = &id
	}
	if dept := strings.TrimSpace(q.Department); dept != "" {
		filter.Department = &dept
	}

	if !q.Unassigned {
		return s.store.List(filter), nil
	}
	if filter.EmployeeID != nil {
		return nil, validationError("employeeId cannot be combined with unassigned")
	}
	pool := make([]models.Shift, 0)
	for _, shift := range s.store.Unassigned() {
		if filter.Matches(shift) {
			pool = append(pool, shift)
		}
	}
	return pool, nil
}

func (s *ShiftService) Get(_ context.Context, id string) (models.Shift, error) {
	return s.store.Get(id)
}

func (s *ShiftService) Unassigned(_ context.Context) []models.Shift {
	return s.store.Unassigned()
}

// Create validates the payload and adds the shift.
func (s *ShiftService) Create(ctx context.Context, req dto.CreateShiftRequest) (models.Shift, error) {
	spec, err := s.newShift(req)
	if err != nil {
		s.metrics.RecordShiftMutation("create", MutationResultRejected)
		return models.Shift{}, err
	}

	shift, err := s.store.Create(ctx, spec)
	s.metrics.RecordShiftMutation("create", mutationResult(err))
	if err != nil {
		if isConflict(err) {
			s.logger.Warn("shift create conflict",
				zap.String("employee_id", spec.EmployeeID.String()),
				zap.String("date", spec.Date.String()),
				zap.Error(err))
			return models.Shift{}, err
		}
		if isClientError(err) {
			return models.Shift{}, err
		}
		s.logger.Error("shift create failed", zap.Error(err))
		return models.Shift{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create shift")
	}

	s.logger.Info("shift created",
		zap.String("shift_id", shift.ID),
		zap.String("employee_id", shift.EmployeeID.String()),
		zap.String("date", shift.Date.String()))
	invalidateAttendance(ctx, s.cache)
	return shift, nil
}

// Reassign converts the drop payload and delegates to the assignment engine.
func (s *ShiftService) Reassign(ctx context.Context, id string, req dto.ReassignShiftRequest) (models.Shift, error) {
	if err := s.validator.Struct(req); err != nil {
		return models.Shift{}, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid reassign payload")
	}
	if (req.EmployeeID == nil) == !req.Unassign {
		return models.Shift{}, validationError("exactly one of employeeId or unassign must be set")
	}

	target := models.Unassigned()
	if req.EmployeeID != nil {
		target = models.AssignedTo(*req.EmployeeID)
		if !target.IsAssigned() {
			return models.Shift{}, validationError("employeeId %q is not a valid employee id", *req.EmployeeID)
		}
	}
	date, err := ParseDateParam("date", req.Date)
	if err != nil {
		return models.Shift{}, err
	}
	start, err := parseOptionalTime("start", req.Start)
	if err != nil {
		return models.Shift{}, err
	}

	shift, err := s.assignment.Reassign(ctx, ReassignRequest{
		ShiftID:          id,
		TargetEmployeeID: target,
		TargetDate:       date,
		TargetStart:      start,
	})
	if err != nil && !isClientError(err) {
		return models.Shift{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to reassign shift")
	}
	return shift, err
}

func (s *ShiftService) newShift(req dto.CreateShiftRequest) (models.NewShift, error) {
	if err := s.validator.Struct(req); err != nil {
		return models.NewShift{}, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid shift payload")
	}
	date, err := ParseDateParam("date", req.Date)
	if err != nil {
		return models.NewShift{}, err
	}
	start, err := ParseTimeParam("start", req.Start)
	if err != nil {
		return models.NewShift{}, err
	}
	end, err := ParseTimeParam("end", req.End)
	if err != nil {
		return models.NewShift{}, err
	}
	employee := models.Unassigned()
	if req.EmployeeID != nil {
		employee = models.AssignedTo(*req.EmployeeID)
	}
	return models.NewShift{
		EmployeeID: employee,
		Date:       date,
		Start:      start,
		End:        end,
		Department: strings.TrimSpace(req.Department),
	}, nil
}
