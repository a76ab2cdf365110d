package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionFromClaims_Roles(t *testing.T) {
	claims := map[string]interface{}{
		"employee_id": "emp-1",
		"roles":       []interface{}{"line_manager", "HR", "HR", "ROOT"},
	}

	session, err := SessionFromClaims("token", claims)
	require.NoError(t, err)

	assert.Equal(t, "emp-1", session.EmployeeID)
	assert.Equal(t, []Role{RoleLineManager, RoleHR}, session.Roles)
	assert.True(t, session.IsHR())
	assert.True(t, session.IsLineManager())
	assert.True(t, session.Has(RoleEmployee))
}

func TestSessionFromClaims_CommaSeparatedRoles(t *testing.T) {
	session, err := SessionFromClaims("token", map[string]interface{}{
		"employee_id": "emp-1",
		"roles":       "LINE_MANAGER, EMPLOYEE",
	})
	require.NoError(t, err)
	assert.Equal(t, []Role{RoleLineManager, RoleEmployee}, session.Roles)
	assert.False(t, session.IsHR())
}

func TestSessionFromClaims_MissingEmployee(t *testing.T) {
	_, err := SessionFromClaims("token", map[string]interface{}{"roles": []string{"HR"}})
	assert.ErrorIs(t, err, ErrEmployeeIDMissing)
}

func TestSession_Can(t *testing.T) {
	employee := Session{EmployeeID: "emp-1"}
	manager := Session{EmployeeID: "emp-2", Roles: []Role{RoleLineManager}}
	hr := Session{EmployeeID: "emp-3", Roles: []Role{RoleHR}}

	assert.True(t, employee.Can(PermissionRequestCreate))
	assert.False(t, employee.Can(PermissionRequestApprove))
	assert.True(t, manager.Can(PermissionRequestApprove))
	assert.False(t, manager.Can(PermissionEmployeeManage))
	assert.True(t, hr.Can(PermissionEmployeeManage))
	assert.True(t, hr.Can(PermissionRequestViewAll))
}
