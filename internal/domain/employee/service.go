package employee

import (
	"context"

	"github.com/cmlabs-hris/hris-approval-go/internal/domain/auth"
	"github.com/cmlabs-hris/hris-approval-go/internal/pkg/listquery"
)

type EmployeeService interface {
	Create(ctx context.Context, session auth.Session, req CreateEmployeeRequest) (Employee, error)
	Get(ctx context.Context, session auth.Session, id string) (Employee, error)
	List(ctx context.Context, session auth.Session, filter EmployeeFilter, params listquery.Params) (listquery.Result[Employee], error)
}
