package attendance

import "errors"

// Attendance domain errors
var (
	ErrAlreadyCheckedIn  = errors.New("you have already checked in today")
	ErrNotCheckedIn      = errors.New("you have not checked in yet")
	ErrAlreadyCheckedOut = errors.New("you have already checked out")

	ErrAttendanceNotFound = errors.New("attendance record not found")
	ErrHolidayExists      = errors.New("a holiday is already registered on this date")
	ErrUnauthorized       = errors.New("unauthorized to access this attendance record")
)
