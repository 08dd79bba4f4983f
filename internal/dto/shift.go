package dto

import "github.com/noah-isme/shiftwise-api/internal/models"

// ShiftQuery binds GET /shifts query parameters.
type ShiftQuery struct {
	Date       string `form:"date"`
	EmployeeID string `form:"employeeId"`
	Department string `form:"department"`
	Unassigned bool   `form:"unassigned"`
}

// CreateShiftRequest is the POST /shifts body. A null or absent employeeId creates an open shift.
type CreateShiftRequest struct {
	EmployeeID *string `json:"employeeId" validate:"omitempty,max=64"`
	Date       string  `json:"date" validate:"required"`
	Start      string  `json:"start" validate:"required"`
	End        string  `json:"end" validate:"required"`
	Department string  `json:"department" validate:"omitempty,max=64"`
}

// ReassignShiftRequest is the drop target of a drag. Exactly one of employeeId
// and unassign must be set; start is optional and keeps the shift length.
type ReassignShiftRequest struct {
	EmployeeID *string `json:"employeeId" validate:"omitempty,min=1,max=64"`
	Unassign   bool    `json:"unassign"`
	Date       string  `json:"date" validate:"required"`
	Start      *string `json:"start,omitempty"`
}

// ShiftListResponse wraps a listing with its count.
type ShiftListResponse struct {
	Shifts []models.Shift `json:"shifts"`
	Total  int            `json:"total"`
}
