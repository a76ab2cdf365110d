package report

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/cmlabs-hris/hris-approval-go/internal/pkg/validator"
)

type PeriodKind string

const (
	PeriodDay   PeriodKind = "day"
	PeriodMonth PeriodKind = "month"
)

// Period is an inclusive range of calendar dates, stored as UTC midnights.
type Period struct {
	Kind  PeriodKind
	Start time.Time
	End   time.Time
}

func DayPeriod(date time.Time) Period {
	d := dateOf(date)
	return Period{Kind: PeriodDay, Start: d, End: d}
}

func MonthPeriod(year int, month time.Month) Period {
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return Period{Kind: PeriodMonth, Start: start, End: start.AddDate(0, 1, -1)}
}

// Contains compares by wall-clock date, ignoring the time of day.
func (p Period) Contains(t time.Time) bool {
	d := dateOf(t)
	return !d.Before(p.Start) && !d.After(p.End)
}

// Clip narrows the inclusive date range [start, end] to the period. ok is
// false when they do not overlap.
func (p Period) Clip(start, end time.Time) (from, to time.Time, ok bool) {
	from, to = dateOf(start), dateOf(end)
	if to.Before(p.Start) || from.After(p.End) || to.Before(from) {
		return time.Time{}, time.Time{}, false
	}
	if from.Before(p.Start) {
		from = p.Start
	}
	if to.After(p.End) {
		to = p.End
	}
	return from, to, true
}

// Days lists every date of the period in ascending order.
func (p Period) Days() []time.Time {
	var days []time.Time
	for d := p.Start; !d.After(p.End); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

func (p Period) String() string {
	if p.Kind == PeriodDay {
		return p.Start.Format(validator.DateLayout)
	}
	return p.Start.Format("2006-01")
}

func dateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// AttendanceRecord is the read-side view of one attendance day.
type AttendanceRecord struct {
	EmployeeID string
	Date       time.Time
	ClockIn    *time.Time
	ClockOut   *time.Time
}

// LeaveRecord is an approved leave. DayWeight is the weight applied to each
// date of the range, 0.5 for half-day leave and 1 otherwise.
type LeaveRecord struct {
	EmployeeID string
	StartDate  time.Time
	EndDate    time.Time
	DayWeight  float64
}

type Holiday struct {
	Date time.Time
	Name string
}

// EmployeeSummaryRow is derived on every fetch and never persisted.
type EmployeeSummaryRow struct {
	EmployeeID          string
	WorkingDays         int
	PresentDays         int
	ApprovedLeaveDays   float64
	HolidaysInPeriod    int
	AbsentDays          float64
	LateInEarlyOutCount int
	BaseSalary          decimal.Decimal
	TotalDeduction      decimal.Decimal
	Payable             decimal.Decimal
}

// SummaryRow pairs a computed row with the employee's display fields.
type SummaryRow struct {
	EmployeeSummaryRow
	EmployeeName string
	EmployeeCode string
}
