package memory

import (
	"context"
	"sync"

	"github.com/cmlabs-hris/hris-approval-go/internal/domain/employee"
)

type EmployeeRepository struct {
	mu        sync.RWMutex
	employees map[string]employee.Employee
	order     []string
}

func NewEmployeeRepository() *EmployeeRepository {
	return &EmployeeRepository{employees: make(map[string]employee.Employee)}
}

// Create implements employee.EmployeeRepository.
func (m *EmployeeRepository) Create(ctx context.Context, newEmployee employee.Employee) (employee.Employee, error) {
	if err := ctx.Err(); err != nil {
		return employee.Employee{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, e := range m.employees {
		if e.EmployeeCode == newEmployee.EmployeeCode {
			return employee.Employee{}, employee.ErrEmployeeCodeExists
		}
		if e.Email == newEmployee.Email {
			return employee.Employee{}, employee.ErrEmailExists
		}
	}

	m.employees[newEmployee.ID] = cloneEmployee(newEmployee)
	m.order = append(m.order, newEmployee.ID)
	return cloneEmployee(newEmployee), nil
}

// GetByID implements employee.EmployeeRepository.
func (m *EmployeeRepository) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	if err := ctx.Err(); err != nil {
		return employee.Employee{}, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	e, ok := m.employees[id]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return cloneEmployee(e), nil
}

// List implements employee.EmployeeRepository.
func (m *EmployeeRepository) List(ctx context.Context) ([]employee.Employee, error) {
	return m.list(ctx, func(employee.Employee) bool { return true })
}

// ListByLineManager implements employee.EmployeeRepository.
func (m *EmployeeRepository) ListByLineManager(ctx context.Context, managerID string) ([]employee.Employee, error) {
	return m.list(ctx, func(e employee.Employee) bool { return e.ReportsTo(managerID) })
}

func (m *EmployeeRepository) list(ctx context.Context, keep func(employee.Employee) bool) ([]employee.Employee, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]employee.Employee, 0, len(m.order))
	for _, id := range m.order {
		if e := m.employees[id]; keep(e) {
			result = append(result, cloneEmployee(e))
		}
	}
	return result, nil
}

func cloneEmployee(e employee.Employee) employee.Employee {
	out := e
	out.Position = cloneString(e.Position)
	out.LineManagerID = cloneString(e.LineManagerID)
	if e.BaseSalary != nil {
		v := *e.BaseSalary
		out.BaseSalary = &v
	}
	return out
}
