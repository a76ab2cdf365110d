package employee

import (
	"strings"
	"time"

	"github.com/cmlabs-hris/hris-approval-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type CreateEmployeeRequest struct {
	EmployeeCode  string           `json:"employee_code"`
	FullName      string           `json:"full_name"`
	Email         string           `json:"email"`
	Position      *string          `json:"position,omitempty"`
	LineManagerID *string          `json:"line_manager_id,omitempty"`
	BaseSalary    *decimal.Decimal `json:"base_salary,omitempty"`
}

func (r *CreateEmployeeRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeCode) {
		errs.Add("employee_code", "employee_code is required")
	} else if !validator.IsValidEmployeeCode(r.EmployeeCode) {
		errs.Add("employee_code", "employee_code must match the NNNN-NNNN format")
	}

	if validator.IsEmpty(r.FullName) {
		errs.Add("full_name", "full_name is required")
	} else if len(r.FullName) > 255 {
		errs.Add("full_name", "full_name must not exceed 255 characters")
	}

	if !validator.IsValidEmail(r.Email) {
		errs.Add("email", "email must be a valid email address")
	}

	if r.LineManagerID != nil && validator.IsEmpty(*r.LineManagerID) {
		errs.Add("line_manager_id", "line_manager_id must not be empty")
	}

	if r.BaseSalary != nil && r.BaseSalary.IsNegative() {
		errs.Add("base_salary", "base_salary must not be negative")
	}

	return errs.Err()
}

// Matches is the free-text search used by the employee list.
func (e Employee) Matches(search string) bool {
	search = strings.ToLower(strings.TrimSpace(search))
	if search == "" {
		return true
	}
	return strings.Contains(strings.ToLower(e.FullName), search) ||
		strings.Contains(strings.ToLower(e.EmployeeCode), search) ||
		strings.Contains(strings.ToLower(e.Email), search)
}

type EmployeeFilter struct {
	Search        string
	LineManagerID *string
	ActiveOnly    bool
}

func (f EmployeeFilter) Matches(e Employee) bool {
	if f.ActiveOnly && !e.Active {
		return false
	}
	if f.LineManagerID != nil && !e.ReportsTo(*f.LineManagerID) {
		return false
	}
	return e.Matches(f.Search)
}

type EmployeeResponse struct {
	ID            string           `json:"id"`
	EmployeeCode  string           `json:"employee_code"`
	FullName      string           `json:"full_name"`
	Email         string           `json:"email"`
	Position      *string          `json:"position"`
	LineManagerID *string          `json:"line_manager_id"`
	BaseSalary    *decimal.Decimal `json:"base_salary,omitempty"`
	Active        bool             `json:"active"`
	CreatedAt     string           `json:"created_at"`
}

func NewEmployeeResponse(e Employee) EmployeeResponse {
	return EmployeeResponse{
		ID:            e.ID,
		EmployeeCode:  e.EmployeeCode,
		FullName:      e.FullName,
		Email:         e.Email,
		Position:      e.Position,
		LineManagerID: e.LineManagerID,
		BaseSalary:    e.BaseSalary,
		Active:        e.Active,
		CreatedAt:     e.CreatedAt.Format(time.RFC3339),
	}
}
