package service

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/shiftwise-api/internal/dto"
	"github.com/noah-isme/shiftwise-api/internal/models"
	appErrors "github.com/noah-isme/shiftwise-api/pkg/errors"
)

// ClockEventService ingests clock-in/out events.
type ClockEventService struct {
	source    ClockEventSource
	directory EmployeeDirectory
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
}

func NewClockEventService(source ClockEventSource, directory EmployeeDirectory, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *ClockEventService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ClockEventService{source: source, directory: directory, cache: cache, validator: validate, logger: logger}
}

// Record stores one event. Either timestamp may be missing (still clocked in, or
// no-show with a note), but when both are present the end must follow the start.
func (s *ClockEventService) Record(ctx context.Context, req dto.RecordClockEventRequest) (models.ClockEvent, error) {
	if err := s.validator.Struct(req); err != nil {
		return models.ClockEvent{}, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid clock event payload")
	}
	date, err := ParseDateParam("date", req.Date)
	if err != nil {
		return models.ClockEvent{}, err
	}
	start, err := parseOptionalTime("actualStart", req.ActualStart)
	if err != nil {
		return models.ClockEvent{}, err
	}
	end, err := parseOptionalTime("actualEnd", req.ActualEnd)
	if err != nil {
		return models.ClockEvent{}, err
	}
	if start != nil && end != nil && !end.After(*start) {
		return models.ClockEvent{}, validationError("actualEnd %s must be after actualStart %s", end, start)
	}

	employeeID := strings.TrimSpace(req.EmployeeID)
	if s.directory != nil {
		if _, err := s.directory.FindByID(ctx, employeeID); err != nil {
			if errors.Is(err, appErrors.ErrNotFound) {
				return models.ClockEvent{}, notFoundError("employee", employeeID)
			}
			return models.ClockEvent{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to look up employee")
		}
	}

	event, err := s.source.Record(ctx, models.ClockEvent{
		EmployeeID:  employeeID,
		Date:        date,
		ActualStart: start,
		ActualEnd:   end,
		Note:        req.Note,
	})
	if err != nil {
		s.logger.Error("record clock event failed", zap.String("employee_id", employeeID), zap.Error(err))
		return models.ClockEvent{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record clock event")
	}

	s.logger.Info("clock event recorded",
		zap.String("employee_id", employeeID),
		zap.String("date", date.String()))
	invalidateAttendance(ctx, s.cache)
	return event, nil
}

// ListByDate returns the raw events of a date.
func (s *ClockEventService) ListByDate(ctx context.Context, date models.CalendarDate) ([]models.ClockEvent, error) {
	events, err := s.source.ListByDate(ctx, date)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load clock events")
	}
	return events, nil
}
