package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/cmlabs-hris/hris-approval-go/internal/domain/employee"
)

type EmployeeRepository struct {
	db *DB
}

func NewEmployeeRepository(db *DB) *EmployeeRepository {
	return &EmployeeRepository{db: db}
}

const employeeColumns = `
	id, employee_code, full_name, email, position, line_manager_id,
	base_salary, active, created_at, updated_at`

// Create implements employee.EmployeeRepository.
func (r *EmployeeRepository) Create(ctx context.Context, newEmployee employee.Employee) (employee.Employee, error) {
	var salary sql.NullString
	if newEmployee.BaseSalary != nil {
		salary = sql.NullString{String: newEmployee.BaseSalary.String(), Valid: true}
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO employees (
			id, employee_code, full_name, email, position, line_manager_id,
			base_salary, active, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		newEmployee.ID, newEmployee.EmployeeCode, newEmployee.FullName, newEmployee.Email,
		nullString(newEmployee.Position), nullString(newEmployee.LineManagerID),
		salary, newEmployee.Active, formatTime(newEmployee.CreatedAt), formatTime(newEmployee.UpdatedAt),
	)
	switch {
	case uniqueViolation(err, "employees.employee_code"):
		return employee.Employee{}, employee.ErrEmployeeCodeExists
	case uniqueViolation(err, "employees.email"):
		return employee.Employee{}, employee.ErrEmailExists
	case err != nil:
		return employee.Employee{}, fmt.Errorf("failed to insert employee: %w", err)
	}

	return newEmployee, nil
}

// GetByID implements employee.EmployeeRepository.
func (r *EmployeeRepository) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+employeeColumns+` FROM employees WHERE id = ?`, id)

	e, err := scanEmployee(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee: %w", err)
	}
	return e, nil
}

// List implements employee.EmployeeRepository.
func (r *EmployeeRepository) List(ctx context.Context) ([]employee.Employee, error) {
	return r.list(ctx, `SELECT `+employeeColumns+` FROM employees ORDER BY created_at, rowid`)
}

// ListByLineManager implements employee.EmployeeRepository.
func (r *EmployeeRepository) ListByLineManager(ctx context.Context, managerID string) ([]employee.Employee, error) {
	return r.list(ctx, `SELECT `+employeeColumns+` FROM employees WHERE line_manager_id = ? ORDER BY created_at, rowid`, managerID)
}

func (r *EmployeeRepository) list(ctx context.Context, query string, args ...any) ([]employee.Employee, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	defer rows.Close()

	employees := []employee.Employee{}
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		employees = append(employees, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	return employees, nil
}

func scanEmployee(row scanner) (employee.Employee, error) {
	var (
		e                    employee.Employee
		position, managerID  sql.NullString
		salary               decimal.NullDecimal
		createdAt, updatedAt string
	)

	err := row.Scan(
		&e.ID, &e.EmployeeCode, &e.FullName, &e.Email, &position, &managerID,
		&salary, &e.Active, &createdAt, &updatedAt,
	)
	if err != nil {
		return employee.Employee{}, err
	}

	e.Position = stringPtr(position)
	e.LineManagerID = stringPtr(managerID)
	if salary.Valid {
		e.BaseSalary = &salary.Decimal
	}
	if e.CreatedAt, err = parseTime(createdAt); err != nil {
		return employee.Employee{}, err
	}
	if e.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return employee.Employee{}, err
	}
	return e, nil
}
