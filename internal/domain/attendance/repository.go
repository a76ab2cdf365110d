package attendance

import (
	"context"
	"time"
)

type AttendanceRepository interface {
	// Upsert inserts or replaces the record for (EmployeeID, Date).
	Upsert(ctx context.Context, a Attendance) (Attendance, error)
	GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (Attendance, error)
	// ListByPeriod returns records with from <= Date <= to.
	ListByPeriod(ctx context.Context, from, to time.Time) ([]Attendance, error)
}

type HolidayRepository interface {
	Create(ctx context.Context, h Holiday) (Holiday, error)
	ListByPeriod(ctx context.Context, from, to time.Time) ([]Holiday, error)
}
