package dto

import (
	"time"

	"github.com/noah-isme/shiftwise-api/internal/models"
)

// AttendanceReportRequest is the POST /reports/attendance body.
type AttendanceReportRequest struct {
	Date   string `json:"date" validate:"required"`
	Format string `json:"format" validate:"omitempty,oneof=csv pdf CSV PDF"`
	Status string `json:"status"`
}

// ReportJobResponse acknowledges a queued job.
type ReportJobResponse struct {
	ID     string              `json:"id"`
	Status models.ReportStatus `json:"status"`
}

// ReportStatusResponse reports job progress and, once finished, a signed download link.
type ReportStatusResponse struct {
	ID          string              `json:"id"`
	Status      models.ReportStatus `json:"status"`
	DownloadURL *string             `json:"downloadUrl,omitempty"`
	ExpiresAt   *time.Time          `json:"expiresAt,omitempty"`
	Error       *string             `json:"error,omitempty"`
}
