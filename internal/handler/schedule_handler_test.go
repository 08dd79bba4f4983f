package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/shiftwise-api/internal/dto"
)

func TestScheduleHandlerWeek(t *testing.T) {
	app := newTestApp(t)
	r := app.router()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/schedule/week", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var grid dto.WeeklyGridResponse
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, w).Data, &grid))
	assert.Equal(t, "2024-06-03", grid.Days[0].String())
	require.Len(t, grid.Rows, 2)
	assert.Equal(t, "Ada Byron", grid.Rows[0].Employee.Name)
	assert.Len(t, grid.Rows[0].Cells[0].Shifts, 1)
	assert.Len(t, grid.Unassigned, 1)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/schedule/week?anchor=2024-06-03&offset=1", nil))
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, w).Data, &grid))
	assert.Equal(t, "2024-06-10", grid.Days[0].String())
	assert.Empty(t, grid.Unassigned)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/schedule/week?anchor=yesterday", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestScheduleHandlerSlots(t *testing.T) {
	c, w := newGinContext(http.MethodGet, "/schedule/slots", nil)
	NewScheduleHandler(nil, today).Slots(c)
	require.Equal(t, http.StatusOK, w.Code)

	var slots dto.SlotsResponse
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, w).Data, &slots))
	require.Len(t, slots.Slots, 15)
	assert.Equal(t, "08:00", slots.Slots[0].String())
	assert.Equal(t, "22:00", slots.Slots[14].String())
}
