package service

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/noah-isme/shiftwise-api/internal/models"
	appErrors "github.com/noah-isme/shiftwise-api/pkg/errors"
)

func validationError(format string, args ...interface{}) *appErrors.Error {
	return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf(format, args...))
}

func notFoundError(kind, id string) *appErrors.Error {
	return appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("%s %s not found", kind, id))
}

// conflictError wraps the domain conflict so errors.As still finds it and exposes the clashing shift.
func conflictError(conflict *models.ShiftConflictError) *appErrors.Error {
	err := appErrors.Wrap(conflict, appErrors.ErrConflict.Code, appErrors.ErrConflict.Status, conflict.Error())
	return appErrors.WithDetails(err, conflict)
}

func rangeError(err error) *appErrors.Error {
	return appErrors.Wrap(err, appErrors.ErrRange.Code, appErrors.ErrRange.Status, appErrors.ErrRange.Message)
}

func isConflict(err error) bool {
	return errors.Is(err, appErrors.ErrConflict)
}

func isClientError(err error) bool {
	var appErr *appErrors.Error
	return errors.As(err, &appErr) && appErr.Status < http.StatusInternalServerError
}
