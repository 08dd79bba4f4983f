package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/shiftwise-api/internal/dto"
	"github.com/noah-isme/shiftwise-api/internal/middleware"
	"github.com/noah-isme/shiftwise-api/internal/models"
	"github.com/noah-isme/shiftwise-api/internal/service"
	appErrors "github.com/noah-isme/shiftwise-api/pkg/errors"
	"github.com/noah-isme/shiftwise-api/pkg/export"
	"github.com/noah-isme/shiftwise-api/pkg/response"
)

type attendanceReader interface {
	DailyAttendance(ctx context.Context, q service.DailyAttendanceQuery) (*dto.DailyAttendanceResponse, error)
	AttendanceSummary(ctx context.Context, date models.CalendarDate) (*models.AttendanceSummary, bool, error)
}

type clockEventRecorder interface {
	Record(ctx context.Context, req dto.RecordClockEventRequest) (models.ClockEvent, error)
}

type attendanceRenderer interface {
	Render(ctx context.Context, date models.CalendarDate, status *models.AttendanceStatus, format export.Format) ([]byte, string, error)
}

// AttendanceHandler serves reconciliation results and ingests clock events.
type AttendanceHandler struct {
	queries  attendanceReader
	clocks   clockEventRecorder
	exporter attendanceRenderer
	today    func() models.CalendarDate
}

func NewAttendanceHandler(queries attendanceReader, clocks clockEventRecorder, exporter attendanceRenderer, today func() models.CalendarDate) *AttendanceHandler {
	return &AttendanceHandler{queries: queries, clocks: clocks, exporter: exporter, today: today}
}

// Daily godoc
// @Summary Daily attendance table
// @Tags Attendance
// @Produce json
// @Param date query string false "Date (YYYY-MM-DD), defaults to today"
// @Param status query string false "ON_TIME, LATE_IN, EARLY_OUT, ABSENT, TIME_OFF, UNKNOWN or all"
// @Param tolerance query int false "Tolerance in minutes"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /attendance/daily [get]
func (h *AttendanceHandler) Daily(c *gin.Context) {
	q, ok := h.bindDaily(c)
	if !ok {
		return
	}
	result, err := h.queries.DailyAttendance(c.Request.Context(), q)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, result, middleware.ExtractMeta(c))
}

// Summary godoc
// @Summary Attendance KPIs
// @Tags Attendance
// @Produce json
// @Param date query string false "Date (YYYY-MM-DD), defaults to today"
// @Success 200 {object} response.Envelope
// @Router /attendance/summary [get]
func (h *AttendanceHandler) Summary(c *gin.Context) {
	date, ok := h.dateParam(c)
	if !ok {
		return
	}
	summary, hit, err := h.queries.AttendanceSummary(c.Request.Context(), date)
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, hit)
	response.OK(c, summary, middleware.ExtractMeta(c))
}

// RecordClockEvent godoc
// @Summary Record clock-in/out
// @Tags Attendance
// @Accept json
// @Produce json
// @Param payload body dto.RecordClockEventRequest true "Clock event"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /attendance/clock-events [post]
func (h *AttendanceHandler) RecordClockEvent(c *gin.Context) {
	var req dto.RecordClockEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid request body"))
		return
	}
	event, err := h.clocks.Record(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, event)
}

// Export godoc
// @Summary Download daily attendance
// @Tags Attendance
// @Produce text/csv
// @Produce application/pdf
// @Param date query string false "Date (YYYY-MM-DD), defaults to today"
// @Param status query string false "Status filter"
// @Param format query string false "csv or pdf"
// @Success 200 {file} file
// @Failure 400 {object} response.Envelope
// @Router /attendance/export [get]
func (h *AttendanceHandler) Export(c *gin.Context) {
	q, ok := h.bindDaily(c)
	if !ok {
		return
	}
	format, err := export.ParseFormat(c.Query("format"))
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, err.Error()))
		return
	}
	payload, filename, err := h.exporter.Render(c.Request.Context(), q.Date, q.Status, format)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, format.ContentType(), payload)
}

func (h *AttendanceHandler) bindDaily(c *gin.Context) (service.DailyAttendanceQuery, bool) {
	var raw dto.DailyAttendanceQuery
	if err := c.ShouldBindQuery(&raw); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid query parameters"))
		return service.DailyAttendanceQuery{}, false
	}
	date, ok := h.dateParam(c)
	if !ok {
		return service.DailyAttendanceQuery{}, false
	}
	status, err := service.ParseStatusParam(raw.Status)
	if err != nil {
		response.Error(c, err)
		return service.DailyAttendanceQuery{}, false
	}
	if raw.Tolerance != nil && *raw.Tolerance < 0 {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "tolerance must not be negative"))
		return service.DailyAttendanceQuery{}, false
	}
	return service.DailyAttendanceQuery{Date: date, Status: status, Tolerance: raw.Tolerance}, true
}

func (h *AttendanceHandler) dateParam(c *gin.Context) (models.CalendarDate, bool) {
	raw := c.Query("date")
	if raw == "" {
		return h.today(), true
	}
	date, err := service.ParseDateParam("date", raw)
	if err != nil {
		response.Error(c, err)
		return models.CalendarDate{}, false
	}
	return date, true
}
