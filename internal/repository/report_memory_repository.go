package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/noah-isme/shiftwise-api/internal/models"
	appErrors "github.com/noah-isme/shiftwise-api/pkg/errors"
)

// MemoryReportRepository keeps export jobs in process memory for deployments without Postgres.
type MemoryReportRepository struct {
	mu   sync.RWMutex
	jobs map[string]models.ReportJob
}

func NewMemoryReportRepository() *MemoryReportRepository {
	return &MemoryReportRepository{jobs: make(map[string]models.ReportJob)}
}

func (r *MemoryReportRepository) Create(_ context.Context, job *models.ReportJob) error {
	prepareReportJob(job)
	r.mu.Lock()
	defer r.mu.Unlock()
	r.jobs[job.ID] = *job
	return nil
}

func (r *MemoryReportRepository) GetByID(_ context.Context, id string) (*models.ReportJob, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	job, ok := r.jobs[id]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "report job not found")
	}
	return &job, nil
}

func (r *MemoryReportRepository) Update(_ context.Context, job *models.ReportJob) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.jobs[job.ID]; !ok {
		return appErrors.Clone(appErrors.ErrNotFound, "report job not found")
	}
	r.jobs[job.ID] = *job
	return nil
}

func (r *MemoryReportRepository) ListQueued(_ context.Context, limit int) ([]models.ReportJob, error) {
	return r.filter(limit, func(j models.ReportJob) bool { return j.Status == models.ReportStatusQueued }, func(j models.ReportJob) time.Time { return j.CreatedAt }), nil
}

func (r *MemoryReportRepository) ListFinishedBefore(_ context.Context, cutoff time.Time, limit int) ([]models.ReportJob, error) {
	return r.filter(limit, func(j models.ReportJob) bool {
		return j.Status == models.ReportStatusFinished && j.FinishedAt != nil && j.FinishedAt.Before(cutoff)
	}, func(j models.ReportJob) time.Time { return *j.FinishedAt }), nil
}

func (r *MemoryReportRepository) filter(limit int, keep func(models.ReportJob) bool, by func(models.ReportJob) time.Time) []models.ReportJob {
	r.mu.RLock()
	out := make([]models.ReportJob, 0)
	for _, job := range r.jobs {
		if keep(job) {
			out = append(out, job)
		}
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return by(out[i]).Before(by(out[j])) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
