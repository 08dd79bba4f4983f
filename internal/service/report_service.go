package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/shiftwise-api/internal/dto"
	"github.com/noah-isme/shiftwise-api/internal/models"
	appErrors "github.com/noah-isme/shiftwise-api/pkg/errors"
	"github.com/noah-isme/shiftwise-api/pkg/export"
	"github.com/noah-isme/shiftwise-api/pkg/jobs"
)

// ReportJobStore persists export job metadata. GetByID returns an error matching appErrors.ErrNotFound for unknown ids.
type ReportJobStore interface {
	Create(ctx context.Context, job *models.ReportJob) error
	GetByID(ctx context.Context, id string) (*models.ReportJob, error)
	Update(ctx context.Context, job *models.ReportJob) error
	ListQueued(ctx context.Context, limit int) ([]models.ReportJob, error)
	ListFinishedBefore(ctx context.Context, cutoff time.Time, limit int) ([]models.ReportJob, error)
}

type jobDispatcher interface {
	Enqueue(job jobs.Job) error
}

const attendanceReportJob = "attendance_export"

// ReportServiceConfig governs cleanup of finished jobs.
type ReportServiceConfig struct {
	ResultTTL       time.Duration
	CleanupInterval time.Duration
}

// ReportDownload is an opened export ready to stream.
type ReportDownload struct {
	File        *os.File
	Filename    string
	ContentType string
	ExpiresAt   time.Time
}

// ReportService manages asynchronous attendance exports.
type ReportService struct {
	repo      ReportJobStore
	queue     jobDispatcher
	exporter  *ExportService
	validator *validator.Validate
	logger    *zap.Logger
	cfg       ReportServiceConfig
}

func NewReportService(repo ReportJobStore, queue jobDispatcher, exporter *ExportService, validate *validator.Validate, logger *zap.Logger, cfg ReportServiceConfig) *ReportService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.ResultTTL <= 0 {
		cfg.ResultTTL = 24 * time.Hour
	}
	return &ReportService{repo: repo, queue: queue, exporter: exporter, validator: validate, logger: logger, cfg: cfg}
}

// CreateAttendanceJob validates the request, records the job and queues it.
func (s *ReportService) CreateAttendanceJob(ctx context.Context, req dto.AttendanceReportRequest) (*dto.ReportJobResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid report payload")
	}
	date, err := ParseDateParam("date", req.Date)
	if err != nil {
		return nil, err
	}
	format, err := export.ParseFormat(req.Format)
	if err != nil {
		return nil, validationError("%v", err)
	}
	status, err := ParseStatusParam(req.Status)
	if err != nil {
		return nil, err
	}

	job := &models.ReportJob{
		Params: models.ReportJobParams{Date: date, Format: string(format), Status: status},
		Status: models.ReportStatusQueued,
	}
	if err := s.repo.Create(ctx, job); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create report job")
	}
	if err := s.queue.Enqueue(jobs.Job{ID: job.ID, Type: attendanceReportJob}); err != nil {
		msg := "failed to enqueue job"
		now := time.Now().UTC()
		job.Status, job.ErrorMessage, job.FinishedAt = models.ReportStatusFailed, &msg, &now
		if updateErr := s.repo.Update(ctx, job); updateErr != nil {
			s.logger.Warn("mark report job failed", zap.String("job_id", job.ID), zap.Error(updateErr))
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to enqueue report job")
	}
	return &dto.ReportJobResponse{ID: job.ID, Status: job.Status}, nil
}

// GetStatus reports progress; finished jobs carry a freshly signed download link.
func (s *ReportService) GetStatus(ctx context.Context, id string) (*dto.ReportStatusResponse, error) {
	job, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := &dto.ReportStatusResponse{ID: job.ID, Status: job.Status, Error: job.ErrorMessage}
	if job.Status == models.ReportStatusFinished && job.ResultPath != nil {
		url, expiresAt, err := s.exporter.SignedURL(job.ID, *job.ResultPath)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sign download")
		}
		resp.DownloadURL, resp.ExpiresAt = &url, &expiresAt
	}
	return resp, nil
}

// ResolveDownload verifies token and opens the export it grants.
func (s *ReportService) ResolveDownload(ctx context.Context, token string) (*ReportDownload, error) {
	claims, err := s.exporter.Verify(token, false)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "invalid or expired download token")
	}
	job, err := s.load(ctx, claims.JobID)
	if err != nil {
		return nil, err
	}
	if job.Status != models.ReportStatusFinished || job.ResultPath == nil {
		return nil, appErrors.Clone(appErrors.ErrNotReady, "report is not ready")
	}
	if *job.ResultPath != claims.Path {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "token does not match report")
	}
	file, err := s.exporter.Open(claims.Path)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to open report")
	}
	format, _ := export.ParseFormat(job.Params.Format)
	return &ReportDownload{
		File:        file,
		Filename:    path.Base(claims.Path),
		ContentType: format.ContentType(),
		ExpiresAt:   claims.ExpiresAt,
	}, nil
}

// RecoverPendingJobs re-enqueues jobs left queued by a previous process.
func (s *ReportService) RecoverPendingJobs(ctx context.Context) {
	pending, err := s.repo.ListQueued(ctx, 50)
	if err != nil {
		s.logger.Warn("recover queued reports", zap.Error(err))
		return
	}
	for _, job := range pending {
		if err := s.queue.Enqueue(jobs.Job{ID: job.ID, Type: attendanceReportJob}); err != nil {
			s.logger.Warn("requeue report", zap.String("job_id", job.ID), zap.Error(err))
		}
	}
}

// StartCleanup purges expired exports every CleanupInterval until ctx ends.
func (s *ReportService) StartCleanup(ctx context.Context) {
	if s.cfg.CleanupInterval <= 0 {
		return
	}
	ticker := time.NewTicker(s.cfg.CleanupInterval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.Cleanup(ctx)
			}
		}
	}()
}

// Cleanup deletes files of jobs finished before now-ResultTTL, then any stray old files.
func (s *ReportService) Cleanup(ctx context.Context) {
	cutoff := time.Now().Add(-s.cfg.ResultTTL)
	expired, err := s.repo.ListFinishedBefore(ctx, cutoff, 100)
	if err != nil {
		s.logger.Warn("list expired reports", zap.Error(err))
		return
	}
	for _, job := range expired {
		if job.ResultPath == nil {
			continue
		}
		if err := s.exporter.Delete(*job.ResultPath); err != nil {
			s.logger.Warn("delete expired report", zap.String("job_id", job.ID), zap.Error(err))
		}
	}
	if removed, err := s.exporter.Cleanup(); err != nil {
		s.logger.Warn("storage cleanup failed", zap.Error(err))
	} else if len(removed) > 0 {
		s.logger.Info("removed expired exports", zap.Int("count", len(removed)))
	}
}

func (s *ReportService) load(ctx context.Context, id string) (*models.ReportJob, error) {
	job, err := s.repo.GetByID(ctx, strings.TrimSpace(id))
	if err != nil {
		if errors.Is(err, appErrors.ErrNotFound) {
			return nil, notFoundError("report", id)
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load report job")
	}
	return job, nil
}

type exportGenerator interface {
	Generate(ctx context.Context, job *models.ReportJob) (*ExportResult, error)
}

// ReportWorker is the queue handler that renders export jobs.
type ReportWorker struct {
	repo       ReportJobStore
	exporter   exportGenerator
	metrics    *MetricsService
	maxRetries int
	logger     *zap.Logger
}

func NewReportWorker(repo ReportJobStore, exporter exportGenerator, metrics *MetricsService, maxRetries int, logger *zap.Logger) *ReportWorker {
	if logger == nil {
		logger = zap.NewNop()
	}
	if maxRetries < 0 {
		maxRetries = 0
	}
	return &ReportWorker{repo: repo, exporter: exporter, metrics: metrics, maxRetries: maxRetries, logger: logger}
}

// Handle processes one queued job. Returning an error asks the queue to retry.
func (w *ReportWorker) Handle(ctx context.Context, job jobs.Job) error {
	if job.Type != attendanceReportJob {
		return fmt.Errorf("unknown job type %q", job.Type)
	}
	record, err := w.repo.GetByID(ctx, job.ID)
	if err != nil {
		return err
	}
	record.Status = models.ReportStatusProcessing
	if err := w.repo.Update(ctx, record); err != nil {
		return err
	}

	result, err := w.exporter.Generate(ctx, record)
	if err != nil {
		msg := err.Error()
		record.ErrorMessage = &msg
		record.Status = models.ReportStatusQueued
		if job.Attempt >= w.maxRetries {
			now := time.Now().UTC()
			record.Status, record.FinishedAt = models.ReportStatusFailed, &now
			w.metrics.RecordReportJob(models.ReportStatusFailed)
		}
		if updateErr := w.repo.Update(ctx, record); updateErr != nil {
			w.logger.Warn("update failed report job", zap.String("job_id", job.ID), zap.Error(updateErr))
		}
		return err
	}

	now := time.Now().UTC()
	record.Status, record.ResultPath, record.FinishedAt, record.ErrorMessage = models.ReportStatusFinished, &result.Path, &now, nil
	if err := w.repo.Update(ctx, record); err != nil {
		return err
	}
	w.metrics.RecordReportJob(models.ReportStatusFinished)
	w.logger.Info("report generated", zap.String("job_id", job.ID), zap.String("path", result.Path))
	return nil
}
