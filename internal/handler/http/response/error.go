package response

import (
	"errors"
	"net/http"

	"github.com/cmlabs-hris/hris-approval-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-approval-go/internal/domain/auth"
	"github.com/cmlabs-hris/hris-approval-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-approval-go/internal/domain/report"
	"github.com/cmlabs-hris/hris-approval-go/internal/domain/request"
	"github.com/cmlabs-hris/hris-approval-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	var illegal *request.IllegalTransitionError
	if errors.As(err, &illegal) {
		Conflict(w, illegal.Error())
		return
	}

	switch {
	// Auth domain errors
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrTokenExpired),
		errors.Is(err, auth.ErrEmployeeIDMissing):
		Unauthorized(w, err.Error())
	case errors.Is(err, auth.ErrRoleNotHeld),
		errors.Is(err, auth.ErrNotLineManager),
		errors.Is(err, auth.ErrInsufficientPermissions),
		errors.Is(err, auth.ErrTokenIssuingDisabled):
		Forbidden(w, err.Error())

	// Request domain errors
	case errors.Is(err, request.ErrRequestNotFound):
		NotFound(w, "Request not found")
	case errors.Is(err, request.ErrConcurrentModification):
		Conflict(w, "Request was modified concurrently, please retry")
	case errors.Is(err, request.ErrTransport):
		BadGateway(w, "Request store is unavailable, the change was not applied")

	// Employee domain errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, employee.ErrLineManagerNotFound):
		ValidationError(w, map[string]string{"line_manager_id": err.Error()})
	case errors.Is(err, employee.ErrEmployeeCodeExists):
		Conflict(w, "Employee code already exists")
	case errors.Is(err, employee.ErrEmailExists):
		Conflict(w, "Email already registered")
	case errors.Is(err, employee.ErrUnauthorized):
		Forbidden(w, err.Error())

	// Attendance domain errors
	case errors.Is(err, attendance.ErrAlreadyCheckedIn),
		errors.Is(err, attendance.ErrAlreadyCheckedOut),
		errors.Is(err, attendance.ErrHolidayExists):
		Conflict(w, err.Error())
	case errors.Is(err, attendance.ErrNotCheckedIn):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, attendance.ErrAttendanceNotFound):
		NotFound(w, "Attendance record not found")
	case errors.Is(err, attendance.ErrUnauthorized):
		Forbidden(w, err.Error())

	// Report domain errors
	case errors.Is(err, report.ErrUnauthorized):
		Forbidden(w, err.Error())

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
