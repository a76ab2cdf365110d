package report

import "errors"

var (
	ErrInvalidPeriod = errors.New("period must be either day or month")
	ErrInvalidMonth  = errors.New("month must be between 1 and 12")
	ErrInvalidYear   = errors.New("year must be a valid year")
	ErrInvalidClock  = errors.New("clock must be in HH:MM format")
	ErrUnauthorized  = errors.New("unauthorized to view reports")
)
