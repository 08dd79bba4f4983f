package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/shiftwise-api/internal/dto"
	"github.com/noah-isme/shiftwise-api/internal/models"
	appErrors "github.com/noah-isme/shiftwise-api/pkg/errors"
	"github.com/noah-isme/shiftwise-api/pkg/response"
)

type shiftService interface {
	List(ctx context.Context, q dto.ShiftQuery) ([]models.Shift, error)
	Get(ctx context.Context, id string) (models.Shift, error)
	Unassigned(ctx context.Context) []models.Shift
	Create(ctx context.Context, req dto.CreateShiftRequest) (models.Shift, error)
	Reassign(ctx context.Context, id string, req dto.ReassignShiftRequest) (models.Shift, error)
}

// ShiftHandler exposes the shift store and the assignment engine.
type ShiftHandler struct {
	shifts shiftService
}

func NewShiftHandler(shifts shiftService) *ShiftHandler {
	return &ShiftHandler{shifts: shifts}
}

// List godoc
// @Summary List shifts
// @Tags Shifts
// @Produce json
// @Param date query string false "Date (YYYY-MM-DD)"
// @Param employeeId query string false "Employee ID"
// @Param department query string false "Department"
// @Param unassigned query bool false "Only open shifts"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /shifts [get]
func (h *ShiftHandler) List(c *gin.Context) {
	var q dto.ShiftQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid query parameters"))
		return
	}
	shifts, err := h.shifts.List(c.Request.Context(), q)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.ShiftListResponse{Shifts: shifts, Total: len(shifts)})
}

// Unassigned godoc
// @Summary Unassigned shift pool
// @Tags Shifts
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /shifts/unassigned [get]
func (h *ShiftHandler) Unassigned(c *gin.Context) {
	pool := h.shifts.Unassigned(c.Request.Context())
	response.OK(c, dto.ShiftListResponse{Shifts: pool, Total: len(pool)})
}

// Get godoc
// @Summary Get shift
// @Tags Shifts
// @Produce json
// @Param id path string true "Shift ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /shifts/{id} [get]
func (h *ShiftHandler) Get(c *gin.Context) {
	shift, err := h.shifts.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, shift)
}

// Create godoc
// @Summary Create shift
// @Tags Shifts
// @Accept json
// @Produce json
// @Param payload body dto.CreateShiftRequest true "Shift payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /shifts [post]
func (h *ShiftHandler) Create(c *gin.Context) {
	var req dto.CreateShiftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid request body"))
		return
	}
	shift, err := h.shifts.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, shift)
}

// Reassign godoc
// @Summary Reassign shift
// @Description Moves a shift to another employee and/or date, or back to the unassigned pool. On 409 the client must roll back its optimistic view.
// @Tags Shifts
// @Accept json
// @Produce json
// @Param id path string true "Shift ID"
// @Param payload body dto.ReassignShiftRequest true "Drop target"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Failure 422 {object} response.Envelope
// @Router /shifts/{id}/reassign [post]
func (h *ShiftHandler) Reassign(c *gin.Context) {
	var req dto.ReassignShiftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid request body"))
		return
	}
	shift, err := h.shifts.Reassign(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, shift, nil)
}
