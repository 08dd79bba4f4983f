package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/shiftwise-api/internal/models"
	appErrors "github.com/noah-isme/shiftwise-api/pkg/errors"
)

func TestReportRepositoryCreateAndGet(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewReportRepository(db)

	mock.ExpectExec("INSERT INTO report_jobs").
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), "QUEUED", nil, sqlmock.AnyArg(), nil, nil).
		WillReturnResult(sqlmock.NewResult(1, 1))

	job := &models.ReportJob{Params: models.ReportJobParams{Date: models.MustParseCalendarDate("2024-06-03"), Format: "csv"}}
	require.NoError(t, repo.Create(context.Background(), job))
	require.NotEmpty(t, job.ID)

	mock.ExpectQuery(regexp.QuoteMeta("FROM report_jobs WHERE id = $1")).
		WithArgs(job.ID).
		WillReturnRows(sqlmock.NewRows([]string{"id", "params", "status", "result_path", "created_at", "finished_at", "error_message"}).
			AddRow(job.ID, []byte(`{"date":"2024-06-03","format":"csv"}`), "QUEUED", nil, time.Now(), nil, nil))

	got, err := repo.GetByID(context.Background(), job.ID)
	require.NoError(t, err)
	assert.Equal(t, "2024-06-03", got.Params.Date.String())
	assert.Equal(t, models.ReportStatusQueued, got.Status)

	mock.ExpectQuery("FROM report_jobs WHERE id").WithArgs("missing").WillReturnError(sql.ErrNoRows)
	_, err = repo.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, appErrors.ErrNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMemoryReportRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryReportRepository()

	job := &models.ReportJob{Params: models.ReportJobParams{Format: "pdf"}}
	require.NoError(t, repo.Create(ctx, job))

	queued, err := repo.ListQueued(ctx, 10)
	require.NoError(t, err)
	require.Len(t, queued, 1)

	finished := time.Now().Add(-48 * time.Hour)
	job.Status, job.FinishedAt = models.ReportStatusFinished, &finished
	require.NoError(t, repo.Update(ctx, job))

	old, err := repo.ListFinishedBefore(ctx, time.Now().Add(-24*time.Hour), 10)
	require.NoError(t, err)
	assert.Len(t, old, 1)

	_, err = repo.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
}
