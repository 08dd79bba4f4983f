package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/shiftwise-api/internal/models"
	appErrors "github.com/noah-isme/shiftwise-api/pkg/errors"
)

// EmployeeRepository reads the employee directory; this service never writes it.
type EmployeeRepository struct {
	db *sqlx.DB
}

func NewEmployeeRepository(db *sqlx.DB) *EmployeeRepository {
	return &EmployeeRepository{db: db}
}

func (r *EmployeeRepository) FindByID(ctx context.Context, id string) (*models.Employee, error) {
	var emp models.Employee
	err := r.db.GetContext(ctx, &emp, `SELECT id, name, department FROM employees WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "employee not found")
	}
	if err != nil {
		return nil, fmt.Errorf("find employee %s: %w", id, err)
	}
	return &emp, nil
}

// List returns the directory sorted by name.
func (r *EmployeeRepository) List(ctx context.Context) ([]models.Employee, error) {
	var employees []models.Employee
	if err := r.db.SelectContext(ctx, &employees, `SELECT id, name, department FROM employees ORDER BY name, id`); err != nil {
		return nil, fmt.Errorf("list employees: %w", err)
	}
	return employees, nil
}
