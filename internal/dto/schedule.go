package dto

import "github.com/noah-isme/shiftwise-api/internal/models"

// WeeklyGridQuery binds GET /schedule/week.
type WeeklyGridQuery struct {
	Anchor     string `form:"anchor"`
	Offset     int    `form:"offset"`
	Department string `form:"department"`
}

// WeeklyGridResponse is the planning grid: one row per employee, one cell per day.
type WeeklyGridResponse struct {
	Anchor     models.CalendarDate   `json:"anchor"`
	WeekOffset int                   `json:"weekOffset"`
	Department string                `json:"department,omitempty"`
	Days       []models.CalendarDate `json:"days"`
	Rows       []WeeklyGridRow       `json:"rows"`
	Unassigned []models.Shift        `json:"unassigned"`
}

// WeeklyGridRow holds seven cells aligned with WeeklyGridResponse.Days.
type WeeklyGridRow struct {
	Employee models.Employee  `json:"employee"`
	Cells    []WeeklyGridCell `json:"cells"`
}

type WeeklyGridCell struct {
	Date   models.CalendarDate `json:"date"`
	Shifts []models.Shift      `json:"shifts"`
}

// SlotsResponse lists the hourly drop targets of the grid.
type SlotsResponse struct {
	Slots []models.TimeOfDay `json:"slots"`
}
