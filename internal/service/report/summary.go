package report

import (
	"cmp"
	"slices"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cmlabs-hris/hris-approval-go/internal/domain/report"
	"github.com/cmlabs-hris/hris-approval-go/internal/domain/request"
)

type employeeTally struct {
	present   map[time.Time]bool
	leave     map[time.Time]float64
	lateEarly int
}

// Summarize derives one row per employee found in the attendance or leave
// records of the period, plus one per id in cfg.Employees. Rows are ordered by
// employee id. Inputs are never modified.
func Summarize(
	attendance []report.AttendanceRecord,
	leaves []report.LeaveRecord,
	holidays []report.Holiday,
	period report.Period,
	cfg report.SummaryConfig,
) []report.EmployeeSummaryRow {
	holidaySet := make(map[time.Time]bool)
	for _, h := range holidays {
		d := request.DateOf(h.Date)
		if period.Contains(d) && cfg.IsWorkday(d) {
			holidaySet[d] = true
		}
	}

	workingDays := 0
	for _, d := range period.Days() {
		if cfg.IsWorkday(d) {
			workingDays++
		}
	}

	tallies := make(map[string]*employeeTally)
	tally := func(employeeID string) *employeeTally {
		t, ok := tallies[employeeID]
		if !ok {
			t = &employeeTally{present: make(map[time.Time]bool), leave: make(map[time.Time]float64)}
			tallies[employeeID] = t
		}
		return t
	}

	for _, id := range cfg.Employees {
		tally(id)
	}

	for _, a := range attendance {
		if !period.Contains(a.Date) {
			continue
		}
		t := tally(a.EmployeeID)
		if a.ClockIn != nil {
			t.present[request.DateOf(a.Date)] = true
		}
		late := a.ClockIn != nil && cfg.LocalClock(*a.ClockIn) > cfg.CheckInThreshold
		early := a.ClockOut != nil && cfg.LocalClock(*a.ClockOut) < cfg.CheckOutThreshold
		if late || early {
			t.lateEarly++
		}
	}

	for _, l := range leaves {
		start, end, ok := period.Clip(l.StartDate, l.EndDate)
		if !ok {
			continue
		}
		t := tally(l.EmployeeID)
		for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
			if !cfg.IsWorkday(d) || holidaySet[d] {
				continue
			}
			// overlapping leaves on the same day count once
			t.leave[d] = max(t.leave[d], l.DayWeight)
		}
	}

	rows := make([]report.EmployeeSummaryRow, 0, len(tallies))
	for employeeID, t := range tallies {
		leaveDays := 0.0
		for _, w := range t.leave {
			leaveDays += w
		}

		absent := float64(workingDays) - float64(len(t.present)) - leaveDays - float64(len(holidaySet))
		if absent < 0 {
			absent = 0
		}

		deduction := cfg.LateDeduction.Mul(decimal.NewFromInt(int64(t.lateEarly))).
			Add(cfg.AbsentDeduction.Mul(decimal.NewFromFloat(absent)))

		base := cfg.BaseSalary[employeeID]
		payable := base.Sub(deduction)
		if payable.IsNegative() {
			payable = decimal.Zero
		}

		rows = append(rows, report.EmployeeSummaryRow{
			EmployeeID:          employeeID,
			WorkingDays:         workingDays,
			PresentDays:         len(t.present),
			ApprovedLeaveDays:   leaveDays,
			HolidaysInPeriod:    len(holidaySet),
			AbsentDays:          absent,
			LateInEarlyOutCount: t.lateEarly,
			BaseSalary:          base,
			TotalDeduction:      deduction,
			Payable:             payable,
		})
	}

	slices.SortFunc(rows, func(a, b report.EmployeeSummaryRow) int {
		return cmp.Compare(a.EmployeeID, b.EmployeeID)
	})
	return rows
}

type correctionKey struct {
	employeeID string
	date       time.Time
}

// ApplyCorrections returns a copy of records with the timestamps of
// HR-approved ATTENDANCE_IN / ATTENDANCE_OUT requests overlaid. A correction
// for a day with no record adds one. Later approvals win.
func ApplyCorrections(records []report.AttendanceRecord, requests []request.Request, loc *time.Location) []report.AttendanceRecord {
	if loc == nil {
		loc = time.UTC
	}

	approved := make([]request.Request, 0, len(requests))
	for _, r := range requests {
		if r.Status == request.StatusApprovedByHR && r.Kind.IsAttendance() && r.RequestedValue.Attendance != nil {
			approved = append(approved, r)
		}
	}
	slices.SortStableFunc(approved, func(a, b request.Request) int {
		return a.UpdatedAt.Compare(b.UpdatedAt)
	})

	out := slices.Clone(records)
	index := make(map[correctionKey]int, len(out))
	for i, rec := range out {
		index[correctionKey{rec.EmployeeID, request.DateOf(rec.Date)}] = i
	}

	for _, r := range approved {
		ts := r.RequestedValue.Attendance.Timestamp
		key := correctionKey{r.EmployeeID, request.DateOf(ts.In(loc))}
		i, ok := index[key]
		if !ok {
			out = append(out, report.AttendanceRecord{EmployeeID: r.EmployeeID, Date: key.date})
			i = len(out) - 1
			index[key] = i
		}
		if r.Kind == request.KindAttendanceIn {
			out[i].ClockIn = &ts
		} else {
			out[i].ClockOut = &ts
		}
	}
	return out
}

// LeaveRecordsFromRequests keeps only leave requests approved by HR.
func LeaveRecordsFromRequests(requests []request.Request) []report.LeaveRecord {
	var out []report.LeaveRecord
	for _, r := range requests {
		if r.Status != request.StatusApprovedByHR || !r.Kind.IsLeave() || r.RequestedValue.Leave == nil {
			continue
		}
		weight := 1.0
		if r.Kind == request.KindLeaveHalfDay {
			weight = 0.5
		}
		out = append(out, report.LeaveRecord{
			EmployeeID: r.EmployeeID,
			StartDate:  r.RequestedValue.Leave.StartDate,
			EndDate:    r.RequestedValue.Leave.EndDate,
			DayWeight:  weight,
		})
	}
	return out
}
