package auth

import "errors"

var (
	ErrInvalidToken            = errors.New("invalid or expired token")
	ErrTokenExpired            = errors.New("token has expired")
	ErrEmployeeIDMissing       = errors.New("employee_id claim is missing")
	ErrRoleNotHeld             = errors.New("acting role is not held by the current session")
	ErrNotLineManager          = errors.New("only the employee's line manager may act on this request")
	ErrInsufficientPermissions = errors.New("insufficient permissions")
	ErrTokenIssuingDisabled    = errors.New("token issuing is disabled outside development")
)
