package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/shiftwise-api/internal/models"
	"github.com/noah-isme/shiftwise-api/internal/repository"
	"github.com/noah-isme/shiftwise-api/internal/service"
	appErrors "github.com/noah-isme/shiftwise-api/pkg/errors"
	"github.com/noah-isme/shiftwise-api/pkg/fixtures"
)

var june3 = models.MustParseCalendarDate("2024-06-03")

func today() models.CalendarDate { return june3 }

func newGinContext(method, path string, body []byte) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	return c, w
}

type envelope struct {
	Data  json.RawMessage        `json:"data"`
	Error *appErrors.Error       `json:"error"`
	Meta  map[string]interface{} `json:"meta"`
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

type testApp struct {
	store    *service.ShiftStore
	source   *fixtures.Source
	shifts   *service.ShiftService
	queries  *service.QueryService
	clocks   *service.ClockEventService
	exporter *service.ExportService
}

// newTestApp wires the real services over an in-memory fixture data set.
func newTestApp(t *testing.T) *testApp {
	t.Helper()
	doc, err := fixtures.Parse([]byte(`
employees:
  - {id: E1, name: Ada Byron, department: Front Desk}
  - {id: E2, name: Bo Chen, department: Kitchen}
shifts:
  - {id: S1, employeeId: E1, date: 2024-06-03, start: "09:00", end: "17:00", department: Front Desk}
  - {id: S2, employeeId: null, date: 2024-06-03, start: "12:00", end: "20:00", department: Kitchen}
clockEvents:
  - {employeeId: E1, date: 2024-06-03, actualStart: "09:15", actualEnd: "17:00"}
`))
	require.NoError(t, err)
	source, err := fixtures.NewSource(doc)
	require.NoError(t, err)

	store := service.NewShiftStore(nil)
	require.NoError(t, store.Load(doc.Shifts))

	cache := service.NewCacheService(repository.NewMemoryCacheRepository(), nil, 0, nil)
	assignment := service.NewAssignmentService(store, source, cache, nil, nil)
	queries := service.NewQueryService(store, source, source, source, cache, nil, service.QueryOptions{}, nil)
	return &testApp{
		store:    store,
		source:   source,
		shifts:   service.NewShiftService(store, assignment, cache, nil, nil, nil),
		queries:  queries,
		clocks:   service.NewClockEventService(source, source, cache, nil, nil),
		exporter: service.NewExportService(queries, nil, nil, service.ExportConfig{}, nil),
	}
}

func (a *testApp) router() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	RegisterRoutes(r, "/api/v1", Handlers{
		Shifts:     NewShiftHandler(a.shifts),
		Schedule:   NewScheduleHandler(a.queries, today),
		Attendance: NewAttendanceHandler(a.queries, a.clocks, a.exporter, today),
		Ops:        NewMetricsHandler(service.NewMetricsService(), map[string]ReadinessCheck{"store": func(context.Context) error { return nil }}),
	})
	return r
}
