package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/shiftwise-api/internal/models"
)

const shiftColumns = "id, employee_id, date, start_time, end_time, department"

// ShiftRepository persists shifts in Postgres. The in-memory store stays authoritative
// at runtime; this repository hydrates it at start-up and mirrors each commit.
type ShiftRepository struct {
	db *sqlx.DB
}

func NewShiftRepository(db *sqlx.DB) *ShiftRepository {
	return &ShiftRepository{db: db}
}

// ListAll returns every shift in insertion order.
func (r *ShiftRepository) ListAll(ctx context.Context) ([]models.Shift, error) {
	var shifts []models.Shift
	query := "SELECT " + shiftColumns + " FROM shifts ORDER BY seq"
	if err := r.db.SelectContext(ctx, &shifts, query); err != nil {
		return nil, fmt.Errorf("list shifts: %w", err)
	}
	return shifts, nil
}

func (r *ShiftRepository) Insert(ctx context.Context, shift models.Shift) error {
	query := `INSERT INTO shifts (` + shiftColumns + `) VALUES ($1, $2, $3, $4, $5, $6)`
	if _, err := r.db.ExecContext(ctx, query,
		shift.ID, shift.EmployeeID, shift.Date, shift.Start, shift.End, shift.Department); err != nil {
		return fmt.Errorf("insert shift %s: %w", shift.ID, err)
	}
	return nil
}

// Update overwrites the mutable columns; a missing row is sql.ErrNoRows.
func (r *ShiftRepository) Update(ctx context.Context, shift models.Shift) error {
	query := `UPDATE shifts SET employee_id = $2, date = $3, start_time = $4, end_time = $5, department = $6, updated_at = NOW() WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query,
		shift.ID, shift.EmployeeID, shift.Date, shift.Start, shift.End, shift.Department)
	if err != nil {
		return fmt.Errorf("update shift %s: %w", shift.ID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update shift %s: %w", shift.ID, err)
	}
	if affected == 0 {
		return fmt.Errorf("update shift %s: %w", shift.ID, sql.ErrNoRows)
	}
	return nil
}
