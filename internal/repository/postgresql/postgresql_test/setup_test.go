package postgresql_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/cmlabs-hris/hris-approval-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-approval-go/internal/repository/postgresql"
)

func setupTestDB(t *testing.T) *TestDatabaseSetup {
	t.Helper()

	setup, err := NewTestDatabase()
	if err != nil {
		t.Skipf("postgres unavailable: %v", err)
	}
	t.Cleanup(setup.Close)

	require.NoError(t, setup.TruncateAllTables(context.Background()))
	return setup
}

func newID(t *testing.T) string {
	t.Helper()
	id, err := uuid.NewV7()
	require.NoError(t, err)
	return id.String()
}

func seedEmployee(t *testing.T, setup *TestDatabaseSetup, code string, managerID *string) employee.Employee {
	t.Helper()

	now := time.Now().UTC().Truncate(time.Microsecond)
	e, err := postgresql.NewEmployeeRepository(setup.DB).Create(context.Background(), employee.Employee{
		ID:            newID(t),
		EmployeeCode:  code,
		FullName:      "Employee " + code,
		Email:         code + "@example.com",
		LineManagerID: managerID,
		Active:        true,
		CreatedAt:     now,
		UpdatedAt:     now,
	})
	require.NoError(t, err)
	return e
}
