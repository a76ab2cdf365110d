package report

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cmlabs-hris/hris-approval-go/internal/domain/report"
	"github.com/cmlabs-hris/hris-approval-go/internal/domain/request"
)

func day(s string) time.Time {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return d
}

func at(date, clock string) *time.Time {
	t, err := time.Parse("2006-01-02 15:04", date+" "+clock)
	if err != nil {
		panic(err)
	}
	return &t
}

func testConfig() report.SummaryConfig {
	in, _ := report.ParseClock("09:00")
	out, _ := report.ParseClock("17:00")
	return report.SummaryConfig{
		CheckInThreshold:  in,
		CheckOutThreshold: out,
		Workdays:          report.DefaultWorkdays(),
		LateDeduction:     decimal.NewFromInt(50000),
		AbsentDeduction:   decimal.NewFromInt(200000),
		BaseSalary: map[string]decimal.Decimal{
			"emp-1": decimal.NewFromInt(10000000),
		},
	}
}

func TestSummarize_FullMonthWithLeaveAndHoliday(t *testing.T) {
	// February 2027 starts on a Monday and has exactly 20 weekdays.
	period := report.MonthPeriod(2027, time.February)

	var records []report.AttendanceRecord
	for _, d := range period.Days() {
		date := d.Format("2006-01-02")
		if d.Weekday() == time.Saturday || d.Weekday() == time.Sunday || date == "2027-02-25" || date == "2027-02-26" {
			continue
		}
		records = append(records, report.AttendanceRecord{
			EmployeeID: "emp-1",
			Date:       d,
			ClockIn:    at(date, "08:30"),
			ClockOut:   at(date, "17:30"),
		})
	}
	require.Len(t, records, 18)

	leaves := []report.LeaveRecord{{EmployeeID: "emp-1", StartDate: day("2027-02-25"), EndDate: day("2027-02-25"), DayWeight: 1}}
	holidays := []report.Holiday{{Date: day("2027-02-26"), Name: "Founders Day"}}

	rows := Summarize(records, leaves, holidays, period, testConfig())
	require.Len(t, rows, 1)

	row := rows[0]
	assert.Equal(t, "emp-1", row.EmployeeID)
	assert.Equal(t, 20, row.WorkingDays)
	assert.Equal(t, 18, row.PresentDays)
	assert.Equal(t, 1.0, row.ApprovedLeaveDays)
	assert.Equal(t, 1, row.HolidaysInPeriod)
	assert.Equal(t, 0.0, row.AbsentDays)
	assert.Equal(t, 0, row.LateInEarlyOutCount)
	assert.True(t, row.TotalDeduction.IsZero())
	assert.True(t, row.Payable.Equal(decimal.NewFromInt(10000000)))
}

func TestSummarize_LateInEarlyOutCountedOncePerRecord(t *testing.T) {
	period := report.DayPeriod(day("2027-02-01"))
	records := []report.AttendanceRecord{
		{EmployeeID: "late", Date: day("2027-02-01"), ClockIn: at("2027-02-01", "09:01"), ClockOut: at("2027-02-01", "17:00")},
		{EmployeeID: "both", Date: day("2027-02-01"), ClockIn: at("2027-02-01", "09:30"), ClockOut: at("2027-02-01", "16:00")},
		{EmployeeID: "ontime", Date: day("2027-02-01"), ClockIn: at("2027-02-01", "09:00"), ClockOut: at("2027-02-01", "17:00")},
		{EmployeeID: "open", Date: day("2027-02-01"), ClockIn: at("2027-02-01", "08:00")},
	}

	rows := Summarize(records, nil, nil, period, testConfig())
	counts := map[string]int{}
	for _, r := range rows {
		counts[r.EmployeeID] = r.LateInEarlyOutCount
		assert.Equal(t, 1, r.PresentDays)
		assert.Equal(t, 0.0, r.AbsentDays)
	}
	assert.Equal(t, map[string]int{"late": 1, "both": 1, "ontime": 0, "open": 0}, counts)
}

func TestSummarize_DeductionAndPayable(t *testing.T) {
	period := report.MonthPeriod(2027, time.February)
	records := []report.AttendanceRecord{
		{EmployeeID: "emp-1", Date: day("2027-02-01"), ClockIn: at("2027-02-01", "10:00"), ClockOut: at("2027-02-01", "17:00")},
	}

	rows := Summarize(records, nil, nil, period, testConfig())
	require.Len(t, rows, 1)

	// 19 absent days and 1 late arrival
	assert.Equal(t, 19.0, rows[0].AbsentDays)
	expected := decimal.NewFromInt(19*200000 + 50000)
	assert.True(t, rows[0].TotalDeduction.Equal(expected), rows[0].TotalDeduction.String())
	assert.True(t, rows[0].Payable.Equal(decimal.NewFromInt(10000000).Sub(expected)))
}

func TestSummarize_PayableFloorsAtZero(t *testing.T) {
	cfg := testConfig()
	cfg.BaseSalary = nil
	cfg.Employees = []string{"emp-9"}

	rows := Summarize(nil, nil, nil, report.MonthPeriod(2027, time.February), cfg)
	require.Len(t, rows, 1)
	assert.Equal(t, 20.0, rows[0].AbsentDays)
	assert.True(t, rows[0].Payable.IsZero())
	assert.True(t, rows[0].BaseSalary.IsZero())
}

func TestSummarize_AbsentFloorsAtZero(t *testing.T) {
	period := report.DayPeriod(day("2027-02-01"))
	records := []report.AttendanceRecord{
		{EmployeeID: "emp-1", Date: day("2027-02-01"), ClockIn: at("2027-02-01", "08:00")},
	}
	leaves := []report.LeaveRecord{{EmployeeID: "emp-1", StartDate: day("2027-02-01"), EndDate: day("2027-02-01"), DayWeight: 1}}

	rows := Summarize(records, leaves, nil, period, testConfig())
	require.Len(t, rows, 1)
	assert.Equal(t, 0.0, rows[0].AbsentDays)
}

func TestSummarize_LeaveSkipsWeekendsAndHolidays(t *testing.T) {
	period := report.MonthPeriod(2027, time.February)
	// Thursday to Tuesday: Fri is a holiday, Sat and Sun are off.
	leaves := []report.LeaveRecord{
		{EmployeeID: "emp-1", StartDate: day("2027-02-04"), EndDate: day("2027-02-09"), DayWeight: 1},
		{EmployeeID: "emp-2", StartDate: day("2027-02-10"), EndDate: day("2027-02-10"), DayWeight: 0.5},
		// duplicate day with the full leave above
		{EmployeeID: "emp-1", StartDate: day("2027-02-08"), EndDate: day("2027-02-08"), DayWeight: 0.5},
	}
	holidays := []report.Holiday{
		{Date: day("2027-02-05"), Name: "Holiday"},
		{Date: day("2027-02-06"), Name: "Weekend holiday"},
		{Date: day("2027-03-01"), Name: "Next month"},
	}

	rows := Summarize(nil, leaves, holidays, period, testConfig())
	require.Len(t, rows, 2)

	assert.Equal(t, "emp-1", rows[0].EmployeeID)
	assert.Equal(t, 3.0, rows[0].ApprovedLeaveDays)
	assert.Equal(t, 1, rows[0].HolidaysInPeriod)
	assert.Equal(t, 16.0, rows[0].AbsentDays)

	assert.Equal(t, "emp-2", rows[1].EmployeeID)
	assert.Equal(t, 0.5, rows[1].ApprovedLeaveDays)
	assert.Equal(t, 18.5, rows[1].AbsentDays)
}

func TestSummarize_IgnoresRecordsOutsidePeriod(t *testing.T) {
	period := report.DayPeriod(day("2027-02-01"))
	records := []report.AttendanceRecord{
		{EmployeeID: "emp-1", Date: day("2027-02-02"), ClockIn: at("2027-02-02", "10:00")},
	}
	leaves := []report.LeaveRecord{{EmployeeID: "emp-2", StartDate: day("2027-01-01"), EndDate: day("2027-01-31"), DayWeight: 1}}

	assert.Empty(t, Summarize(records, leaves, nil, period, testConfig()))
}

func TestSummarize_DistinctPresentDates(t *testing.T) {
	period := report.MonthPeriod(2027, time.February)
	records := []report.AttendanceRecord{
		{EmployeeID: "emp-1", Date: day("2027-02-01"), ClockIn: at("2027-02-01", "08:00")},
		{EmployeeID: "emp-1", Date: day("2027-02-01"), ClockIn: at("2027-02-01", "13:00")},
		{EmployeeID: "emp-1", Date: day("2027-02-02")},
	}

	rows := Summarize(records, nil, nil, period, testConfig())
	require.Len(t, rows, 1)
	assert.Equal(t, 1, rows[0].PresentDays)
}

func TestSummarize_DeterministicAndOrdered(t *testing.T) {
	period := report.MonthPeriod(2027, time.February)
	records := []report.AttendanceRecord{
		{EmployeeID: "c", Date: day("2027-02-01"), ClockIn: at("2027-02-01", "08:00")},
		{EmployeeID: "a", Date: day("2027-02-01"), ClockIn: at("2027-02-01", "08:00")},
		{EmployeeID: "b", Date: day("2027-02-01"), ClockIn: at("2027-02-01", "08:00")},
	}
	snapshot := append([]report.AttendanceRecord(nil), records...)

	first := Summarize(records, nil, nil, period, testConfig())
	second := Summarize(records, nil, nil, period, testConfig())

	assert.Equal(t, first, second)
	assert.Equal(t, []string{"a", "b", "c"}, []string{first[0].EmployeeID, first[1].EmployeeID, first[2].EmployeeID})
	assert.Equal(t, snapshot, records)
}

func TestSummarize_UsesConfiguredLocation(t *testing.T) {
	jakarta := time.FixedZone("WIB", 7*3600)
	cfg := testConfig()
	cfg.Location = jakarta

	// 01:30 UTC is 08:30 in UTC+7.
	records := []report.AttendanceRecord{
		{EmployeeID: "emp-1", Date: day("2027-02-01"), ClockIn: at("2027-02-01", "01:30"), ClockOut: at("2027-02-01", "10:30")},
	}

	rows := Summarize(records, nil, nil, report.DayPeriod(day("2027-02-01")), cfg)
	require.Len(t, rows, 1)
	assert.Equal(t, 0, rows[0].LateInEarlyOutCount)
}

func correction(id, employeeID string, kind request.Kind, status request.Status, ts *time.Time, updated time.Time) request.Request {
	return request.Request{
		ID:             id,
		EmployeeID:     employeeID,
		Kind:           kind,
		Status:         status,
		RequestedValue: request.RequestedValue{Attendance: &request.AttendanceCorrection{Timestamp: *ts}},
		UpdatedAt:      updated,
	}
}

func TestApplyCorrections(t *testing.T) {
	original := at("2027-02-01", "10:15")
	records := []report.AttendanceRecord{
		{EmployeeID: "emp-1", Date: day("2027-02-01"), ClockIn: original},
	}
	t0 := day("2027-02-03")

	requests := []request.Request{
		correction("r1", "emp-1", request.KindAttendanceIn, request.StatusApprovedByHR, at("2027-02-01", "08:55"), t0.Add(2*time.Hour)),
		correction("r2", "emp-1", request.KindAttendanceIn, request.StatusApprovedByHR, at("2027-02-01", "08:45"), t0),
		correction("r3", "emp-1", request.KindAttendanceOut, request.StatusApprovedByHR, at("2027-02-01", "17:05"), t0),
		correction("r4", "emp-1", request.KindAttendanceIn, request.StatusPending, at("2027-02-01", "07:00"), t0.Add(3*time.Hour)),
		correction("r5", "emp-2", request.KindAttendanceIn, request.StatusApprovedByHR, at("2027-02-02", "08:00"), t0),
	}

	out := ApplyCorrections(records, requests, time.UTC)
	require.Len(t, out, 2)

	assert.Equal(t, *at("2027-02-01", "08:55"), *out[0].ClockIn, "latest approval wins")
	assert.Equal(t, *at("2027-02-01", "17:05"), *out[0].ClockOut)

	assert.Equal(t, "emp-2", out[1].EmployeeID)
	assert.Equal(t, day("2027-02-02"), out[1].Date)
	assert.Nil(t, out[1].ClockOut)

	// input untouched
	assert.Same(t, original, records[0].ClockIn)
	assert.Nil(t, records[0].ClockOut)
}

func TestLeaveRecordsFromRequests(t *testing.T) {
	leave := func(id string, kind request.Kind, status request.Status) request.Request {
		return request.Request{
			ID: id, EmployeeID: "emp-1", Kind: kind, Status: status,
			RequestedValue: request.RequestedValue{Leave: &request.LeaveRange{
				StartDate: day("2027-02-01"), EndDate: day("2027-02-02"), Days: 2,
			}},
		}
	}

	records := LeaveRecordsFromRequests([]request.Request{
		leave("a", request.KindLeaveAnnual, request.StatusApprovedByHR),
		leave("b", request.KindLeaveHalfDay, request.StatusApprovedByHR),
		leave("c", request.KindLeaveSick, request.StatusApprovedByLineManager),
		leave("d", request.KindLeaveCasual, request.StatusRejectedByHR),
		correction("e", "emp-1", request.KindAttendanceIn, request.StatusApprovedByHR, at("2027-02-01", "08:00"), time.Time{}),
	})

	require.Len(t, records, 2)
	assert.Equal(t, 1.0, records[0].DayWeight)
	assert.Equal(t, 0.5, records[1].DayWeight)
	assert.Equal(t, day("2027-02-02"), records[0].EndDate)
}

func TestSummarize_ClipsLongLeaveToPeriod(t *testing.T) {
	period := report.MonthPeriod(2026, time.March)
	leaves := []report.LeaveRecord{
		{EmployeeID: "emp-1", StartDate: day("0001-01-01"), EndDate: day("9999-12-31"), DayWeight: 1},
		{EmployeeID: "emp-2", StartDate: day("2026-02-20"), EndDate: day("2026-03-03"), DayWeight: 1},
	}

	start := time.Now()
	rows := Summarize(nil, leaves, nil, period, testConfig())
	assert.Less(t, time.Since(start), 100*time.Millisecond)

	require.Len(t, rows, 2)
	assert.Equal(t, 22.0, rows[0].ApprovedLeaveDays)
	assert.Equal(t, 0.0, rows[0].AbsentDays)
	// Mon 2 and Tue 3 March
	assert.Equal(t, 2.0, rows[1].ApprovedLeaveDays)
}
