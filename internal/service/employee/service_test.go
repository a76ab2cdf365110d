package employee

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cmlabs-hris/hris-approval-go/internal/domain/auth"
	"github.com/cmlabs-hris/hris-approval-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-approval-go/internal/pkg/listquery"
	"github.com/cmlabs-hris/hris-approval-go/internal/pkg/validator"
	"github.com/cmlabs-hris/hris-approval-go/internal/repository/memory"
)

var hr = auth.Session{EmployeeID: "hr", Roles: []auth.Role{auth.RoleHR}}

func seed(t *testing.T, svc employee.EmployeeService, code, name, email string, manager *string) employee.Employee {
	t.Helper()
	e, err := svc.Create(context.Background(), hr, employee.CreateEmployeeRequest{
		EmployeeCode:  code,
		FullName:      name,
		Email:         email,
		LineManagerID: manager,
	})
	require.NoError(t, err)
	return e
}

func TestCreate(t *testing.T) {
	svc := NewEmployeeService(memory.NewEmployeeRepository())
	ctx := context.Background()

	salary := decimal.NewFromInt(8000000)
	created, err := svc.Create(ctx, hr, employee.CreateEmployeeRequest{
		EmployeeCode: "2024-0001",
		FullName:     "Rina Kusuma",
		Email:        "rina@example.com",
		BaseSalary:   &salary,
	})
	require.NoError(t, err)
	assert.True(t, validator.IsValidUUID(created.ID))
	assert.True(t, created.Active)
	assert.True(t, created.BaseSalary.Equal(salary))

	_, err = svc.Create(ctx, hr, employee.CreateEmployeeRequest{EmployeeCode: "2024-0001", FullName: "Dup", Email: "dup@example.com"})
	assert.ErrorIs(t, err, employee.ErrEmployeeCodeExists)

	missing := "nobody"
	_, err = svc.Create(ctx, hr, employee.CreateEmployeeRequest{EmployeeCode: "2024-0002", FullName: "X", Email: "x@example.com", LineManagerID: &missing})
	assert.ErrorIs(t, err, employee.ErrLineManagerNotFound)

	_, err = svc.Create(ctx, hr, employee.CreateEmployeeRequest{EmployeeCode: "bad", FullName: "", Email: "nope"})
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Len(t, verrs.ToMap(), 3)

	_, err = svc.Create(ctx, auth.Session{EmployeeID: created.ID}, employee.CreateEmployeeRequest{EmployeeCode: "2024-0003", FullName: "Y", Email: "y@example.com"})
	assert.ErrorIs(t, err, employee.ErrUnauthorized)
}

func TestGet_Visibility(t *testing.T) {
	svc := NewEmployeeService(memory.NewEmployeeRepository())
	a := seed(t, svc, "2024-0001", "Ana", "ana@example.com", nil)
	b := seed(t, svc, "2024-0002", "Budi", "budi@example.com", nil)

	_, err := svc.Get(context.Background(), auth.Session{EmployeeID: a.ID}, a.ID)
	assert.NoError(t, err)
	_, err = svc.Get(context.Background(), auth.Session{EmployeeID: a.ID}, b.ID)
	assert.ErrorIs(t, err, employee.ErrUnauthorized)

	manager := auth.Session{EmployeeID: a.ID, Roles: []auth.Role{auth.RoleLineManager}}
	_, err = svc.Get(context.Background(), manager, b.ID)
	assert.NoError(t, err)
}

func TestList(t *testing.T) {
	svc := NewEmployeeService(memory.NewEmployeeRepository())
	lead := seed(t, svc, "2024-0003", "citra", "citra@example.com", nil)
	seed(t, svc, "2024-0001", "Budi", "budi@example.com", &lead.ID)
	seed(t, svc, "2024-0002", "Agus", "agus@example.com", &lead.ID)

	ctx := context.Background()
	names := func(r listquery.Result[employee.Employee]) []string {
		out := make([]string, 0, len(r.Items))
		for _, e := range r.Items {
			out = append(out, e.FullName)
		}
		return out
	}

	byName, err := svc.List(ctx, hr, employee.EmployeeFilter{}, listquery.Params{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, []string{"Agus", "Budi", "citra"}, names(byName))

	byCode, err := svc.List(ctx, hr, employee.EmployeeFilter{}, listquery.Params{Page: 1, Limit: 2, SortBy: "employee_code", SortOrder: listquery.Desc})
	require.NoError(t, err)
	assert.Equal(t, []string{"citra", "Agus"}, names(byCode))
	assert.Equal(t, 3, byCode.TotalItems)
	assert.Equal(t, 2, byCode.TotalPages)

	team, err := svc.List(ctx, hr, employee.EmployeeFilter{LineManagerID: &lead.ID, Search: "bu"}, listquery.Params{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, []string{"Budi"}, names(team))

	self, err := svc.List(ctx, auth.Session{EmployeeID: lead.ID}, employee.EmployeeFilter{}, listquery.Params{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, []string{"citra"}, names(self))
}
