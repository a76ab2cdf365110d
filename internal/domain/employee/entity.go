package employee

import (
	"time"

	"github.com/shopspring/decimal"
)

type Employee struct {
	ID            string
	EmployeeCode  string
	FullName      string
	Email         string
	Position      *string
	LineManagerID *string
	BaseSalary    *decimal.Decimal
	Active        bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// ReportsTo reports whether managerID is the employee's direct line manager.
func (e Employee) ReportsTo(managerID string) bool {
	return e.LineManagerID != nil && *e.LineManagerID == managerID
}
