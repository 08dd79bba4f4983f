package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/shiftwise-api/internal/dto"
	appErrors "github.com/noah-isme/shiftwise-api/pkg/errors"
)

func newShiftServiceFixture() (*ShiftService, *ShiftStore) {
	store := newStoreWith(newShift("S1", "E1", june3, "09:00", "17:00"))
	metrics := NewMetricsService()
	assignment := NewAssignmentService(store, directoryOf("E1", "E2"), nil, metrics, nil)
	return NewShiftService(store, assignment, nil, metrics, nil, nil), store
}

func TestShiftServiceCreate(t *testing.T) {
	svc, store := newShiftServiceFixture()
	ctx := context.Background()

	shift, err := svc.Create(ctx, dto.CreateShiftRequest{EmployeeID: strPtr("E2"), Date: "2024-06-03", Start: "12:00", End: "20:00", Department: " Kitchen "})
	require.NoError(t, err)
	assert.Equal(t, "Kitchen", shift.Department)
	assert.Equal(t, 2, store.Len())

	_, err = svc.Create(ctx, dto.CreateShiftRequest{EmployeeID: strPtr("E1"), Date: "2024-06-03", Start: "12:00", End: "20:00"})
	assert.ErrorIs(t, err, appErrors.ErrConflict)

	_, err = svc.Create(ctx, dto.CreateShiftRequest{Date: "03/06/2024", Start: "12:00", End: "20:00"})
	assert.ErrorIs(t, err, appErrors.ErrValidation)

	_, err = svc.Create(ctx, dto.CreateShiftRequest{Date: "2024-06-03", Start: "25:00", End: "20:00"})
	assert.ErrorIs(t, err, appErrors.ErrValidation)

	_, err = svc.Create(ctx, dto.CreateShiftRequest{Date: "2024-06-03", Start: "12:00"})
	assert.ErrorIs(t, err, appErrors.ErrValidation)
}

func TestShiftServiceList(t *testing.T) {
	svc, _ := newShiftServiceFixture()
	ctx := context.Background()
	_, err := svc.Create(ctx, dto.CreateShiftRequest{Date: "2024-06-03", Start: "08:00", End: "12:00", Department: "Front Desk"})
	require.NoError(t, err)

	all, err := svc.List(ctx, dto.ShiftQuery{Date: "2024-06-03"})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	pool, err := svc.List(ctx, dto.ShiftQuery{Unassigned: true, Department: "front desk"})
	require.NoError(t, err)
	assert.Len(t, pool, 1)

	_, err = svc.List(ctx, dto.ShiftQuery{Unassigned: true, EmployeeID: "E1"})
	assert.ErrorIs(t, err, appErrors.ErrValidation)

	_, err = svc.List(ctx, dto.ShiftQuery{Date: "tomorrow"})
	assert.ErrorIs(t, err, appErrors.ErrValidation)
}

func TestShiftServiceReassign(t *testing.T) {
	svc, _ := newShiftServiceFixture()
	ctx := context.Background()

	shift, err := svc.Reassign(ctx, "S1", dto.ReassignShiftRequest{EmployeeID: strPtr("E2"), Date: "2024-06-04", Start: strPtr("10:00")})
	require.NoError(t, err)
	assert.True(t, shift.EmployeeID.Is("E2"))
	assert.Equal(t, "18:00", shift.End.String())

	pooled, err := svc.Reassign(ctx, "S1", dto.ReassignShiftRequest{Unassign: true, Date: "2024-06-04"})
	require.NoError(t, err)
	assert.False(t, pooled.EmployeeID.IsAssigned())

	_, err = svc.Reassign(ctx, "S1", dto.ReassignShiftRequest{Date: "2024-06-04"})
	assert.ErrorIs(t, err, appErrors.ErrValidation)

	_, err = svc.Reassign(ctx, "S1", dto.ReassignShiftRequest{EmployeeID: strPtr("E1"), Unassign: true, Date: "2024-06-04"})
	assert.ErrorIs(t, err, appErrors.ErrValidation)

	_, err = svc.Reassign(ctx, "S1", dto.ReassignShiftRequest{EmployeeID: strPtr("TBD"), Date: "2024-06-04"})
	assert.ErrorIs(t, err, appErrors.ErrValidation)

	_, err = svc.Reassign(ctx, "missing", dto.ReassignShiftRequest{EmployeeID: strPtr("E1"), Date: "2024-06-04"})
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
}

func TestParseStatusParam(t *testing.T) {
	status, err := ParseStatusParam("late-in")
	require.NoError(t, err)
	require.NotNil(t, status)
	assert.Equal(t, "LATE_IN", string(*status))

	status, err = ParseStatusParam("all")
	require.NoError(t, err)
	assert.Nil(t, status)

	_, err = ParseStatusParam("sleeping")
	assert.ErrorIs(t, err, appErrors.ErrValidation)
}
