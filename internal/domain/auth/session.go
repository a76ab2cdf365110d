package auth

import (
	"slices"
	"strings"
)

type Role string

const (
	RoleEmployee    Role = "EMPLOYEE"     // Every authenticated employee
	RoleLineManager Role = "LINE_MANAGER" // First-stage approver for direct reports
	RoleHR          Role = "HR"           // Second-stage or bypass approver
)

var roles = []Role{RoleEmployee, RoleLineManager, RoleHR}

// IsValid reports whether r belongs to the closed role vocabulary.
func (r Role) IsValid() bool {
	return slices.Contains(roles, r)
}

// IsApprover reports whether r can act on a request's status.
func (r Role) IsApprover() bool {
	return r == RoleLineManager || r == RoleHR
}

// ParseRole accepts the role case-insensitively.
func ParseRole(s string) (Role, bool) {
	r := Role(strings.ToUpper(strings.TrimSpace(s)))
	return r, r.IsValid()
}

// Session is the authenticated actor of one HTTP call. It is built by the
// transport layer from the verified bearer token and handed to every service
// method explicitly.
type Session struct {
	Token      string
	EmployeeID string
	Roles      []Role
}

func (s Session) Has(role Role) bool {
	if role == RoleEmployee {
		return s.EmployeeID != ""
	}
	return slices.Contains(s.Roles, role)
}

func (s Session) IsHR() bool {
	return s.Has(RoleHR)
}

func (s Session) IsLineManager() bool {
	return s.Has(RoleLineManager)
}

// SessionFromClaims reads the employee and roles claims written by the jwt
// package. Unknown role strings are dropped.
func SessionFromClaims(token string, claims map[string]interface{}) (Session, error) {
	employeeID, ok := claims["employee_id"].(string)
	if !ok || employeeID == "" {
		return Session{}, ErrEmployeeIDMissing
	}

	session := Session{Token: token, EmployeeID: employeeID}

	switch raw := claims["roles"].(type) {
	case []interface{}:
		for _, v := range raw {
			if s, ok := v.(string); ok {
				session.addRole(s)
			}
		}
	case []string:
		for _, s := range raw {
			session.addRole(s)
		}
	case string:
		for _, s := range strings.Split(raw, ",") {
			session.addRole(s)
		}
	}

	return session, nil
}

func (s *Session) addRole(raw string) {
	role, ok := ParseRole(raw)
	if !ok || slices.Contains(s.Roles, role) {
		return
	}
	s.Roles = append(s.Roles, role)
}
