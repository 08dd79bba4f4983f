package service

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/shiftwise-api/internal/dto"
	"github.com/noah-isme/shiftwise-api/internal/models"
	"github.com/noah-isme/shiftwise-api/pkg/export"
	"github.com/noah-isme/shiftwise-api/pkg/storage"
)

type fileStorage interface {
	Save(name string, data []byte) (string, error)
	Open(name string) (*os.File, error)
	Delete(name string) error
	CleanupOlderThan(ttl time.Duration) ([]string, error)
}

type attendanceRowSource interface {
	AttendanceRows(ctx context.Context, date models.CalendarDate, status *models.AttendanceStatus) ([]dto.AttendanceRow, error)
}

// ExportConfig tunes where download links point and how long files live.
type ExportConfig struct {
	APIPrefix string
	ResultTTL time.Duration
}

// ExportResult describes a stored export and its signed link.
type ExportResult struct {
	Path      string
	URL       string
	ExpiresAt time.Time
}

// ExportService renders the daily attendance table and stores the output.
type ExportService struct {
	rows    attendanceRowSource
	storage fileStorage
	signer  *storage.SignedURLSigner
	cfg     ExportConfig
	logger  *zap.Logger
}

// NewExportService builds the exporter. storage and signer are only needed for stored exports.
func NewExportService(rows attendanceRowSource, store fileStorage, signer *storage.SignedURLSigner, cfg ExportConfig, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.ResultTTL <= 0 {
		cfg.ResultTTL = 24 * time.Hour
	}
	if cfg.APIPrefix == "" {
		cfg.APIPrefix = "/api/v1"
	}
	return &ExportService{rows: rows, storage: store, signer: signer, cfg: cfg, logger: logger}
}

var attendanceColumns = []string{
	"Employee", "Department", "Date", "Scheduled", "Actual In", "Actual Out", "Status", "Late (min)", "Early (min)", "Notes",
}

// AttendanceTable builds the tabular form of the daily attendance view.
func (s *ExportService) AttendanceTable(ctx context.Context, date models.CalendarDate, status *models.AttendanceStatus) (export.Table, error) {
	rows, err := s.rows.AttendanceRows(ctx, date, status)
	if err != nil {
		return export.Table{}, err
	}
	table := export.Table{
		Title:   "Attendance " + date.String(),
		Columns: attendanceColumns,
		Rows:    make([][]string, 0, len(rows)),
	}
	for _, r := range rows {
		name := r.EmployeeName
		if r.EmployeeID == nil {
			name = "(unassigned)"
		}
		table.Rows = append(table.Rows, []string{
			name,
			r.Department,
			r.Date.String(),
			r.ScheduledStart.String() + "-" + r.ScheduledEnd.String(),
			formatOptionalTime(r.ActualStart),
			formatOptionalTime(r.ActualEnd),
			string(r.Status),
			strconv.Itoa(r.LateMinutes),
			strconv.Itoa(r.EarlyMinutes),
			deref(r.Notes),
		})
	}
	return table, nil
}

// Render produces the file body and a suggested filename.
func (s *ExportService) Render(ctx context.Context, date models.CalendarDate, status *models.AttendanceStatus, format export.Format) ([]byte, string, error) {
	table, err := s.AttendanceTable(ctx, date, status)
	if err != nil {
		return nil, "", err
	}
	payload, err := export.Render(format, table)
	if err != nil {
		return nil, "", err
	}
	return payload, fmt.Sprintf("attendance_%s.%s", date, format), nil
}

// Generate renders the export for job and stores it behind a signed URL.
func (s *ExportService) Generate(ctx context.Context, job *models.ReportJob) (*ExportResult, error) {
	if s.storage == nil || s.signer == nil {
		return nil, fmt.Errorf("export storage is not configured")
	}
	format, err := export.ParseFormat(job.Params.Format)
	if err != nil {
		return nil, err
	}
	payload, filename, err := s.Render(ctx, job.Params.Date, job.Params.Status, format)
	if err != nil {
		return nil, err
	}
	path, err := s.storage.Save(job.ID+"/"+filename, payload)
	if err != nil {
		return nil, err
	}
	url, expiresAt, err := s.SignedURL(job.ID, path)
	if err != nil {
		return nil, err
	}
	return &ExportResult{Path: path, URL: url, ExpiresAt: expiresAt}, nil
}

// SignedURL issues a fresh download link for a stored export.
func (s *ExportService) SignedURL(jobID, path string) (string, time.Time, error) {
	if s.signer == nil {
		return "", time.Time{}, fmt.Errorf("export signer is not configured")
	}
	token, expiresAt, err := s.signer.Generate(jobID, path)
	if err != nil {
		return "", time.Time{}, err
	}
	return s.DownloadURL(token), expiresAt, nil
}

func (s *ExportService) DownloadURL(token string) string {
	return fmt.Sprintf("%s/reports/download?token=%s", s.cfg.APIPrefix, token)
}

func (s *ExportService) Verify(token string, allowExpired bool) (storage.Claims, error) {
	if s.signer == nil {
		return storage.Claims{}, storage.ErrInvalidToken
	}
	return s.signer.Verify(token, allowExpired)
}

func (s *ExportService) Open(path string) (*os.File, error) {
	return s.storage.Open(path)
}

func (s *ExportService) Delete(path string) error {
	return s.storage.Delete(path)
}

// Cleanup removes stored files older than the result TTL.
func (s *ExportService) Cleanup() ([]string, error) {
	if s.storage == nil {
		return nil, nil
	}
	return s.storage.CleanupOlderThan(s.cfg.ResultTTL)
}

func formatOptionalTime(t *models.TimeOfDay) string {
	if t == nil {
		return ""
	}
	return t.String()
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
