package report

import (
	"fmt"
	"slices"
	"time"

	"github.com/shopspring/decimal"
)

// Clock is a time of day in minutes after midnight.
type Clock int

func ParseClock(s string) (Clock, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}
	return Clock(t.Hour()*60 + t.Minute()), nil
}

func ClockOf(t time.Time) Clock {
	return Clock(t.Hour()*60 + t.Minute())
}

func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", int(c)/60, int(c)%60)
}

// SummaryConfig carries everything the aggregator would otherwise have to
// assume: thresholds, the working week and the deduction rates.
type SummaryConfig struct {
	CheckInThreshold  Clock
	CheckOutThreshold Clock
	Workdays          []time.Weekday

	// Location is where clock times are read; nil means each timestamp's own.
	Location *time.Location

	LateDeduction   decimal.Decimal
	AbsentDeduction decimal.Decimal

	// BaseSalary is keyed by employee id; employees without an entry are
	// paid zero.
	BaseSalary map[string]decimal.Decimal

	// Employees always get a row, even without records in the period.
	Employees []string
}

func DefaultWorkdays() []time.Weekday {
	return []time.Weekday{time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday}
}

// LocalClock reads the time of day of t in the configured location.
func (c SummaryConfig) LocalClock(t time.Time) Clock {
	if c.Location != nil {
		t = t.In(c.Location)
	}
	return ClockOf(t)
}

func (c SummaryConfig) IsWorkday(d time.Time) bool {
	return slices.Contains(c.Workdays, d.Weekday())
}
