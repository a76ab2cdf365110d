package employee

import "errors"

var (
	ErrEmployeeNotFound    = errors.New("employee not found")
	ErrEmployeeCodeExists  = errors.New("employee code already exists")
	ErrEmailExists         = errors.New("email already registered")
	ErrLineManagerNotFound = errors.New("line manager not found")
	ErrUnauthorized        = errors.New("unauthorized to access this employee")
)
