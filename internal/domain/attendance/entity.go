package attendance

import (
	"time"
)

type Attendance struct {
	ID         string
	EmployeeID string
	Date       time.Time
	ClockIn    *time.Time
	ClockOut   *time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// WorkMinutes is zero until both clock-in and clock-out are recorded.
func (a Attendance) WorkMinutes() int {
	if a.ClockIn == nil || a.ClockOut == nil || a.ClockOut.Before(*a.ClockIn) {
		return 0
	}
	return int(a.ClockOut.Sub(*a.ClockIn).Minutes())
}

// Holiday is a company-wide non-working day.
type Holiday struct {
	ID        string
	Date      time.Time
	Name      string
	CreatedAt time.Time
}
