package service

import (
	"strings"

	"github.com/noah-isme/shiftwise-api/internal/models"
)

// ParseDateParam parses a YYYY-MM-DD request value, reporting failures as VALIDATION_ERROR.
func ParseDateParam(field, raw string) (models.CalendarDate, error) {
	if strings.TrimSpace(raw) == "" {
		return models.CalendarDate{}, validationError("%s is required", field)
	}
	d, err := models.ParseCalendarDate(raw)
	if err != nil {
		return models.CalendarDate{}, validationError("%s: %v", field, err)
	}
	return d, nil
}

// ParseTimeParam parses an HH:MM request value.
func ParseTimeParam(field, raw string) (models.TimeOfDay, error) {
	t, err := models.ParseTimeOfDay(raw)
	if err != nil {
		return 0, validationError("%s: %v", field, err)
	}
	return t, nil
}

func parseOptionalTime(field string, raw *string) (*models.TimeOfDay, error) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil, nil
	}
	t, err := ParseTimeParam(field, *raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// ParseStatusParam returns nil for an empty value and accepts statuses case-insensitively.
func ParseStatusParam(raw string) (*models.AttendanceStatus, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.EqualFold(raw, "all") {
		return nil, nil
	}
	status := models.AttendanceStatus(strings.ToUpper(strings.ReplaceAll(raw, "-", "_")))
	if !status.Valid() {
		return nil, validationError("unknown attendance status %q", raw)
	}
	return &status, nil
}
