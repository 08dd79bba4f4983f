package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/shiftwise-api/internal/dto"
	"github.com/noah-isme/shiftwise-api/internal/models"
	"github.com/noah-isme/shiftwise-api/internal/service"
	appErrors "github.com/noah-isme/shiftwise-api/pkg/errors"
	"github.com/noah-isme/shiftwise-api/pkg/response"
)

type weeklyGridReader interface {
	WeeklyGrid(ctx context.Context, q service.WeeklyGridQuery) (*dto.WeeklyGridResponse, error)
}

// ScheduleHandler serves the planning grid.
type ScheduleHandler struct {
	queries weeklyGridReader
	today   func() models.CalendarDate
}

// NewScheduleHandler builds the handler; today supplies the default anchor.
func NewScheduleHandler(queries weeklyGridReader, today func() models.CalendarDate) *ScheduleHandler {
	return &ScheduleHandler{queries: queries, today: today}
}

// Week godoc
// @Summary Weekly planning grid
// @Tags Schedule
// @Produce json
// @Param anchor query string false "First day of the week (YYYY-MM-DD), defaults to today"
// @Param offset query int false "Week offset from the anchor"
// @Param department query string false "Department"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /schedule/week [get]
func (h *ScheduleHandler) Week(c *gin.Context) {
	var q dto.WeeklyGridQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid query parameters"))
		return
	}
	anchor := h.today()
	if q.Anchor != "" {
		parsed, err := service.ParseDateParam("anchor", q.Anchor)
		if err != nil {
			response.Error(c, err)
			return
		}
		anchor = parsed
	}

	grid, err := h.queries.WeeklyGrid(c.Request.Context(), service.WeeklyGridQuery{
		Anchor:     anchor,
		WeekOffset: q.Offset,
		Department: q.Department,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, grid)
}

// Slots godoc
// @Summary Hourly drop slots
// @Tags Schedule
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /schedule/slots [get]
func (h *ScheduleHandler) Slots(c *gin.Context) {
	response.OK(c, dto.SlotsResponse{Slots: models.HourlySlots()})
}
