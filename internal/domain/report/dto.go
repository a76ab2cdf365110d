package report

import (
	"strconv"
	"time"

	"github.com/cmlabs-hris/hris-approval-go/internal/pkg/validator"
)

type SummaryRequest struct {
	Period string `json:"period"`
	Year   int    `json:"year"`
	Month  int    `json:"month"`
	Date   string `json:"date"`
}

func (r *SummaryRequest) Validate() error {
	var errs validator.ValidationErrors

	switch PeriodKind(r.Period) {
	case PeriodMonth:
		if r.Month < 1 || r.Month > 12 {
			errs.Add("month", ErrInvalidMonth.Error())
		}
		if r.Year < 1970 || r.Year > 9999 {
			errs.Add("year", ErrInvalidYear.Error())
		}
	case PeriodDay:
		if _, ok := validator.IsValidDate(r.Date); !ok {
			errs.Add("date", "date must be a date in YYYY-MM-DD format")
		}
	default:
		errs.Add("period", ErrInvalidPeriod.Error())
	}

	return errs.Err()
}

// ToPeriod must only be called after Validate succeeded.
func (r *SummaryRequest) ToPeriod() Period {
	if PeriodKind(r.Period) == PeriodDay {
		d, _ := validator.IsValidDate(r.Date)
		return DayPeriod(d)
	}
	return MonthPeriod(r.Year, time.Month(r.Month))
}

type SummaryRowResponse struct {
	EmployeeID          string  `json:"employee_id"`
	EmployeeName        string  `json:"employee_name,omitempty"`
	EmployeeCode        string  `json:"employee_code,omitempty"`
	WorkingDays         int     `json:"working_days"`
	PresentDays         int     `json:"present_days"`
	ApprovedLeaveDays   float64 `json:"approved_leave_days"`
	HolidaysInPeriod    int     `json:"holidays_in_period"`
	AbsentDays          float64 `json:"absent_days"`
	LateInEarlyOutCount int     `json:"late_in_early_out_count"`
	BaseSalary          string  `json:"base_salary"`
	TotalDeduction      string  `json:"total_deduction"`
	Payable             string  `json:"payable"`
}

func NewSummaryRowResponse(row SummaryRow) SummaryRowResponse {
	return SummaryRowResponse{
		EmployeeID:          row.EmployeeID,
		EmployeeName:        row.EmployeeName,
		EmployeeCode:        row.EmployeeCode,
		WorkingDays:         row.WorkingDays,
		PresentDays:         row.PresentDays,
		ApprovedLeaveDays:   row.ApprovedLeaveDays,
		HolidaysInPeriod:    row.HolidaysInPeriod,
		AbsentDays:          row.AbsentDays,
		LateInEarlyOutCount: row.LateInEarlyOutCount,
		BaseSalary:          row.BaseSalary.StringFixed(2),
		TotalDeduction:      row.TotalDeduction.StringFixed(2),
		Payable:             row.Payable.StringFixed(2),
	}
}

// ParseInt returns 0 for an empty or malformed value; Validate reports it.
func ParseInt(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
