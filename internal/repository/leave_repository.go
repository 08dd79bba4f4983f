package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/shiftwise-api/internal/models"
)

// LeaveRepository reads leave requests managed by the leave workflow.
type LeaveRepository struct {
	db *sqlx.DB
}

func NewLeaveRepository(db *sqlx.DB) *LeaveRepository {
	return &LeaveRepository{db: db}
}

// ApprovedOn returns approved requests whose range includes date.
func (r *LeaveRepository) ApprovedOn(ctx context.Context, date models.CalendarDate) ([]models.LeaveRequest, error) {
	var requests []models.LeaveRequest
	query := `SELECT id, employee_id, leave_type, start_date, end_date, status FROM leave_requests
		WHERE status = $1 AND start_date <= $2 AND end_date >= $2 ORDER BY start_date, id`
	if err := r.db.SelectContext(ctx, &requests, query, models.LeaveStatusApproved, date); err != nil {
		return nil, fmt.Errorf("list approved leave for %s: %w", date, err)
	}
	return requests, nil
}

func (r *LeaveRepository) CountPending(ctx context.Context) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM leave_requests WHERE status = $1`, models.LeaveStatusPending); err != nil {
		return 0, fmt.Errorf("count pending leave: %w", err)
	}
	return count, nil
}
