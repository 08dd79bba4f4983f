package handler

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/shiftwise-api/internal/dto"
	"github.com/noah-isme/shiftwise-api/internal/models"
	"github.com/noah-isme/shiftwise-api/internal/service"
	appErrors "github.com/noah-isme/shiftwise-api/pkg/errors"
)

type reportServiceMock struct {
	createResp  *dto.ReportJobResponse
	createErr   error
	statusResp  *dto.ReportStatusResponse
	statusErr   error
	download    *service.ReportDownload
	downloadErr error
}

func (m *reportServiceMock) CreateAttendanceJob(context.Context, dto.AttendanceReportRequest) (*dto.ReportJobResponse, error) {
	return m.createResp, m.createErr
}

func (m *reportServiceMock) GetStatus(context.Context, string) (*dto.ReportStatusResponse, error) {
	return m.statusResp, m.statusErr
}

func (m *reportServiceMock) ResolveDownload(context.Context, string) (*service.ReportDownload, error) {
	return m.download, m.downloadErr
}

func TestReportHandlerCreateAttendance(t *testing.T) {
	handler := NewReportHandler(&reportServiceMock{createResp: &dto.ReportJobResponse{ID: "job-1", Status: models.ReportStatusQueued}})

	c, w := newGinContext(http.MethodPost, "/reports/attendance", []byte(`{"date":"2024-06-03","format":"pdf"}`))
	handler.CreateAttendance(c)
	require.Equal(t, http.StatusAccepted, w.Code)
	assert.Contains(t, w.Body.String(), "job-1")

	handler = NewReportHandler(&reportServiceMock{createErr: appErrors.Clone(appErrors.ErrValidation, "date is required")})
	c, w = newGinContext(http.MethodPost, "/reports/attendance", []byte(`{}`))
	handler.CreateAttendance(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestReportHandlerStatus(t *testing.T) {
	handler := NewReportHandler(&reportServiceMock{statusErr: appErrors.Clone(appErrors.ErrNotFound, "report missing not found")})

	c, w := newGinContext(http.MethodGet, "/reports/missing", nil)
	c.AddParam("id", "missing")
	handler.Status(c)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestReportHandlerDownload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "attendance_2024-06-03.csv")
	require.NoError(t, os.WriteFile(path, []byte("Employee\nAda\n"), 0o644))
	file, err := os.Open(path)
	require.NoError(t, err)

	handler := NewReportHandler(&reportServiceMock{download: &service.ReportDownload{
		File:        file,
		Filename:    "attendance_2024-06-03.csv",
		ContentType: "text/csv",
	}})

	c, w := newGinContext(http.MethodGet, "/reports/download?token=abc", nil)
	handler.Download(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "attendance_2024-06-03.csv")
	assert.Equal(t, "Employee\nAda\n", w.Body.String())

	c, w = newGinContext(http.MethodGet, "/reports/download", nil)
	handler.Download(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	handler = NewReportHandler(&reportServiceMock{downloadErr: appErrors.Clone(appErrors.ErrForbidden, "invalid or expired download token")})
	c, w = newGinContext(http.MethodGet, "/reports/download?token=abc", nil)
	handler.Download(c)
	assert.Equal(t, http.StatusForbidden, w.Code)
}
