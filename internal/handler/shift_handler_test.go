package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/shiftwise-api/internal/dto"
	"github.com/noah-isme/shiftwise-api/internal/models"
)

func TestShiftHandlerCreateConflict(t *testing.T) {
	app := newTestApp(t)
	handler := NewShiftHandler(app.shifts)

	c, w := newGinContext(http.MethodPost, "/shifts", []byte(`{"employeeId":"E1","date":"2024-06-03","start":"12:00","end":"20:00"}`))
	handler.Create(c)

	require.Equal(t, http.StatusConflict, w.Code)
	env := decodeEnvelope(t, w)
	require.NotNil(t, env.Error)
	assert.Equal(t, "CONFLICT", env.Error.Code)

	details, ok := env.Error.Details.(map[string]interface{})
	require.True(t, ok)
	existing := details["existing"].(map[string]interface{})
	assert.Equal(t, "S1", existing["id"])
}

func TestShiftHandlerCreate(t *testing.T) {
	app := newTestApp(t)
	handler := NewShiftHandler(app.shifts)

	c, w := newGinContext(http.MethodPost, "/shifts", []byte(`{"employeeId":"E2","date":"2024-06-03","start":"12:00","end":"20:00","department":"Kitchen"}`))
	handler.Create(c)
	require.Equal(t, http.StatusCreated, w.Code)

	var shift models.Shift
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, w).Data, &shift))
	assert.True(t, shift.EmployeeID.Is("E2"))
	assert.Equal(t, 3, app.store.Len())

	c, w = newGinContext(http.MethodPost, "/shifts", []byte(`{"date":`))
	handler.Create(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestShiftHandlerReassign(t *testing.T) {
	app := newTestApp(t)
	r := app.router()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/shifts/S1/reassign", strings.NewReader(`{"employeeId":"E2","date":"2024-06-04"}`)))
	require.Equal(t, http.StatusOK, w.Code)

	var shift models.Shift
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, w).Data, &shift))
	assert.Equal(t, "2024-06-04", shift.Date.String())
	assert.Equal(t, "09:00", shift.Start.String())
	assert.Equal(t, "17:00", shift.End.String())

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/shifts/S1/reassign", strings.NewReader(`{"employeeId":"E2","date":"2024-06-04","start":"20:00"}`)))
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "RANGE_ERROR", decodeEnvelope(t, w).Error.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/shifts/nope/reassign", strings.NewReader(`{"employeeId":"E2","date":"2024-06-04"}`)))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/shifts/S1/reassign", strings.NewReader(`{"employeeId":"E404","date":"2024-06-04"}`)))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestShiftHandlerListAndPool(t *testing.T) {
	app := newTestApp(t)
	r := app.router()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/shifts?date=2024-06-03&department=kitchen", nil))
	require.Equal(t, http.StatusOK, w.Code)
	var list dto.ShiftListResponse
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, w).Data, &list))
	assert.Equal(t, 1, list.Total)
	assert.Equal(t, "S2", list.Shifts[0].ID)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/shifts/unassigned", nil))
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, w).Data, &list))
	assert.Equal(t, 1, list.Total)
	assert.Contains(t, w.Body.String(), `"employeeId":null`)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/shifts?date=June", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/shifts/S1", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}
