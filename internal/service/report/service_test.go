package report

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cmlabs-hris/hris-approval-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-approval-go/internal/domain/auth"
	"github.com/cmlabs-hris/hris-approval-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-approval-go/internal/domain/report"
	"github.com/cmlabs-hris/hris-approval-go/internal/domain/request"
	"github.com/cmlabs-hris/hris-approval-go/internal/pkg/listquery"
	"github.com/cmlabs-hris/hris-approval-go/internal/pkg/validator"
	"github.com/cmlabs-hris/hris-approval-go/internal/repository/memory"
)

func TestSummary(t *testing.T) {
	ctx := context.Background()
	employees := memory.NewEmployeeRepository()
	attendances := memory.NewAttendanceRepository()
	holidays := memory.NewHolidayRepository()
	requests := memory.NewRequestRepository()

	lead := "lead"
	salary := decimal.NewFromInt(5000000)
	for _, e := range []employee.Employee{
		{ID: "lead", EmployeeCode: "0000-0001", FullName: "Lead", Email: "lead@example.com", Active: true},
		{ID: "staff", EmployeeCode: "0000-0002", FullName: "Staff", Email: "staff@example.com", LineManagerID: &lead, BaseSalary: &salary, Active: true},
		{ID: "other", EmployeeCode: "0000-0003", FullName: "Other", Email: "other@example.com", Active: true},
	} {
		_, err := employees.Create(ctx, e)
		require.NoError(t, err)
	}

	// staff arrives late on Feb 1, then HR approves a correction to 08:50
	late := time.Date(2027, 2, 1, 9, 40, 0, 0, time.UTC)
	out := time.Date(2027, 2, 1, 17, 10, 0, 0, time.UTC)
	_, err := attendances.Upsert(ctx, attendance.Attendance{ID: "a1", EmployeeID: "staff", Date: late, ClockIn: &late, ClockOut: &out})
	require.NoError(t, err)

	_, err = requests.Create(ctx, request.Request{
		ID: "r1", EmployeeID: "staff", Kind: request.KindAttendanceIn, Status: request.StatusApprovedByHR,
		RequestedValue: request.RequestedValue{Attendance: &request.AttendanceCorrection{
			Timestamp: time.Date(2027, 2, 1, 8, 50, 0, 0, time.UTC),
		}},
	})
	require.NoError(t, err)
	_, err = requests.Create(ctx, request.Request{
		ID: "r2", EmployeeID: "staff", Kind: request.KindLeaveAnnual, Status: request.StatusApprovedByHR,
		RequestedValue: request.RequestedValue{Leave: &request.LeaveRange{
			StartDate: time.Date(2027, 2, 2, 0, 0, 0, 0, time.UTC),
			EndDate:   time.Date(2027, 2, 3, 0, 0, 0, 0, time.UTC),
			Days:      2,
		}},
	})
	require.NoError(t, err)
	_, err = requests.Create(ctx, request.Request{
		ID: "r3", EmployeeID: "staff", Kind: request.KindLeaveSick, Status: request.StatusPending,
		RequestedValue: request.RequestedValue{Leave: &request.LeaveRange{
			StartDate: time.Date(2027, 2, 4, 0, 0, 0, 0, time.UTC),
			EndDate:   time.Date(2027, 2, 4, 0, 0, 0, 0, time.UTC),
			Days:      1,
		}},
	})
	require.NoError(t, err)

	_, err = holidays.Create(ctx, attendance.Holiday{ID: "h1", Date: time.Date(2027, 2, 17, 0, 0, 0, 0, time.UTC), Name: "Lunar New Year"})
	require.NoError(t, err)

	in, _ := report.ParseClock("09:00")
	outThreshold, _ := report.ParseClock("17:00")
	svc := NewReportService(requests, attendances, holidays, employees, report.SummaryConfig{
		CheckInThreshold:  in,
		CheckOutThreshold: outThreshold,
		Workdays:          report.DefaultWorkdays(),
		LateDeduction:     decimal.NewFromInt(25000),
		AbsentDeduction:   decimal.NewFromInt(100000),
	})

	req := report.SummaryRequest{Period: "month", Year: 2027, Month: 2}
	params := listquery.Params{Page: 1, Limit: 10}

	hr := auth.Session{EmployeeID: "hr", Roles: []auth.Role{auth.RoleHR}}
	res, err := svc.Summary(ctx, hr, req, params)
	require.NoError(t, err)
	require.Equal(t, 3, res.TotalItems)

	var staff report.SummaryRow
	for _, row := range res.Items {
		if row.EmployeeID == "staff" {
			staff = row
		}
	}
	assert.Equal(t, "Staff", staff.EmployeeName)
	assert.Equal(t, 20, staff.WorkingDays)
	assert.Equal(t, 1, staff.PresentDays)
	assert.Equal(t, 2.0, staff.ApprovedLeaveDays)
	assert.Equal(t, 1, staff.HolidaysInPeriod)
	assert.Equal(t, 16.0, staff.AbsentDays)
	assert.Equal(t, 0, staff.LateInEarlyOutCount, "corrected clock-in is on time")
	assert.True(t, staff.TotalDeduction.Equal(decimal.NewFromInt(1600000)))
	assert.True(t, staff.Payable.Equal(decimal.NewFromInt(3400000)))

	managerView, err := svc.Summary(ctx, auth.Session{EmployeeID: "lead", Roles: []auth.Role{auth.RoleLineManager}}, req, listquery.Params{Page: 1, Limit: 10, SortBy: "absent_days", SortOrder: listquery.Desc})
	require.NoError(t, err)
	require.Len(t, managerView.Items, 2)
	assert.Equal(t, "lead", managerView.Items[0].EmployeeID)
	assert.Equal(t, "staff", managerView.Items[1].EmployeeID)

	_, err = svc.Summary(ctx, auth.Session{EmployeeID: "staff"}, req, params)
	assert.ErrorIs(t, err, report.ErrUnauthorized)

	_, err = svc.Summary(ctx, hr, report.SummaryRequest{Period: "week"}, params)
	var verrs validator.ValidationErrors
	assert.ErrorAs(t, err, &verrs)
}

func TestSummary_CorrectionAcrossPeriodBoundary(t *testing.T) {
	ctx := context.Background()
	employees := memory.NewEmployeeRepository()
	attendances := memory.NewAttendanceRepository()
	holidays := memory.NewHolidayRepository()
	requests := memory.NewRequestRepository()

	_, err := employees.Create(ctx, employee.Employee{ID: "staff", EmployeeCode: "0000-0001", FullName: "Staff", Email: "staff@example.com", Active: true})
	require.NoError(t, err)

	// 2027-03-01 06:30 in UTC+7, stored in UTC on the last day of February
	_, err = requests.Create(ctx, request.Request{
		ID: "r1", EmployeeID: "staff", Kind: request.KindAttendanceIn, Status: request.StatusApprovedByHR,
		RequestedValue: request.RequestedValue{Attendance: &request.AttendanceCorrection{
			Timestamp: time.Date(2027, 2, 28, 23, 30, 0, 0, time.UTC),
		}},
	})
	require.NoError(t, err)

	in, _ := report.ParseClock("09:00")
	out, _ := report.ParseClock("17:00")
	svc := NewReportService(requests, attendances, holidays, employees, report.SummaryConfig{
		CheckInThreshold:  in,
		CheckOutThreshold: out,
		Workdays:          report.DefaultWorkdays(),
		Location:          time.FixedZone("WIB", 7*3600),
	})
	hr := auth.Session{EmployeeID: "hr", Roles: []auth.Role{auth.RoleHR}}
	params := listquery.Params{Page: 1, Limit: 10}

	march, err := svc.Summary(ctx, hr, report.SummaryRequest{Period: "month", Year: 2027, Month: 3}, params)
	require.NoError(t, err)
	require.Len(t, march.Items, 1)
	assert.Equal(t, 1, march.Items[0].PresentDays)

	february, err := svc.Summary(ctx, hr, report.SummaryRequest{Period: "month", Year: 2027, Month: 2}, params)
	require.NoError(t, err)
	require.Len(t, february.Items, 1)
	assert.Equal(t, 0, february.Items[0].PresentDays)
}
