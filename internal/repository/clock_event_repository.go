package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/shiftwise-api/internal/models"
)

// ClockEventRepository stores clock-in/out events.
type ClockEventRepository struct {
	db *sqlx.DB
}

func NewClockEventRepository(db *sqlx.DB) *ClockEventRepository {
	return &ClockEventRepository{db: db}
}

// ListByDate returns the events of date in the order they were recorded.
func (r *ClockEventRepository) ListByDate(ctx context.Context, date models.CalendarDate) ([]models.ClockEvent, error) {
	var events []models.ClockEvent
	query := `SELECT id, employee_id, date, actual_start, actual_end, note FROM clock_events WHERE date = $1 ORDER BY recorded_at, id`
	if err := r.db.SelectContext(ctx, &events, query, date); err != nil {
		return nil, fmt.Errorf("list clock events for %s: %w", date, err)
	}
	return events, nil
}

func (r *ClockEventRepository) Record(ctx context.Context, event models.ClockEvent) (models.ClockEvent, error) {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	query := `INSERT INTO clock_events (id, employee_id, date, actual_start, actual_end, note) VALUES ($1, $2, $3, $4, $5, $6)`
	if _, err := r.db.ExecContext(ctx, query,
		event.ID, event.EmployeeID, event.Date, event.ActualStart, event.ActualEnd, event.Note); err != nil {
		return models.ClockEvent{}, fmt.Errorf("insert clock event: %w", err)
	}
	return event, nil
}
