package employee

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/cmlabs-hris/hris-approval-go/internal/domain/auth"
	"github.com/cmlabs-hris/hris-approval-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-approval-go/internal/pkg/listquery"
)

var employeeFields = listquery.Fields[employee.Employee]{
	"full_name":     listquery.ByFold(func(e employee.Employee) string { return e.FullName }),
	"employee_code": listquery.By(func(e employee.Employee) string { return e.EmployeeCode }),
	"created_at":    listquery.ByTime(func(e employee.Employee) time.Time { return e.CreatedAt }),
}

type EmployeeServiceImpl struct {
	employee.EmployeeRepository
	now func() time.Time
}

func NewEmployeeService(employeeRepository employee.EmployeeRepository) employee.EmployeeService {
	return &EmployeeServiceImpl{
		EmployeeRepository: employeeRepository,
		now:                time.Now,
	}
}

// Create implements employee.EmployeeService.
func (s *EmployeeServiceImpl) Create(ctx context.Context, session auth.Session, req employee.CreateEmployeeRequest) (employee.Employee, error) {
	if !session.Can(auth.PermissionEmployeeManage) {
		return employee.Employee{}, employee.ErrUnauthorized
	}
	if err := req.Validate(); err != nil {
		return employee.Employee{}, err
	}

	if req.LineManagerID != nil {
		if _, err := s.EmployeeRepository.GetByID(ctx, *req.LineManagerID); err != nil {
			if errors.Is(err, employee.ErrEmployeeNotFound) {
				return employee.Employee{}, employee.ErrLineManagerNotFound
			}
			return employee.Employee{}, fmt.Errorf("failed to get line manager: %w", err)
		}
	}

	id, err := uuid.NewV7()
	if err != nil {
		return employee.Employee{}, fmt.Errorf("failed to generate employee id: %w", err)
	}

	now := s.now()
	created, err := s.EmployeeRepository.Create(ctx, employee.Employee{
		ID:            id.String(),
		EmployeeCode:  req.EmployeeCode,
		FullName:      req.FullName,
		Email:         req.Email,
		Position:      req.Position,
		LineManagerID: req.LineManagerID,
		BaseSalary:    req.BaseSalary,
		Active:        true,
		CreatedAt:     now,
		UpdatedAt:     now,
	})
	if err != nil {
		return employee.Employee{}, fmt.Errorf("failed to create employee: %w", err)
	}
	return created, nil
}

// Get implements employee.EmployeeService.
func (s *EmployeeServiceImpl) Get(ctx context.Context, session auth.Session, id string) (employee.Employee, error) {
	if id != session.EmployeeID && !session.Can(auth.PermissionEmployeeViewAll) {
		return employee.Employee{}, employee.ErrUnauthorized
	}
	return s.EmployeeRepository.GetByID(ctx, id)
}

// List implements employee.EmployeeService. Sessions without the directory
// permission only ever see themselves.
func (s *EmployeeServiceImpl) List(ctx context.Context, session auth.Session, filter employee.EmployeeFilter, params listquery.Params) (listquery.Result[employee.Employee], error) {
	var employees []employee.Employee
	if session.Can(auth.PermissionEmployeeViewAll) {
		all, err := s.EmployeeRepository.List(ctx)
		if err != nil {
			return listquery.Result[employee.Employee]{}, fmt.Errorf("failed to list employees: %w", err)
		}
		employees = all
	} else {
		self, err := s.EmployeeRepository.GetByID(ctx, session.EmployeeID)
		if err != nil {
			return listquery.Result[employee.Employee]{}, err
		}
		employees = []employee.Employee{self}
	}

	query := listquery.Build(params, employeeFields, "full_name", filter.Matches)
	return listquery.Apply(employees, query), nil
}
