package report

import (
	"context"
	"fmt"
	"maps"
	"slices"

	"github.com/shopspring/decimal"

	"github.com/cmlabs-hris/hris-approval-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-approval-go/internal/domain/auth"
	"github.com/cmlabs-hris/hris-approval-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-approval-go/internal/domain/report"
	"github.com/cmlabs-hris/hris-approval-go/internal/domain/request"
	"github.com/cmlabs-hris/hris-approval-go/internal/pkg/listquery"
)

var summaryFields = listquery.Fields[report.SummaryRow]{
	"employee_id":   listquery.By(func(r report.SummaryRow) string { return r.EmployeeID }),
	"employee_name": listquery.ByFold(func(r report.SummaryRow) string { return r.EmployeeName }),
	"employee_code": listquery.By(func(r report.SummaryRow) string { return r.EmployeeCode }),
	"present_days":  listquery.By(func(r report.SummaryRow) int { return r.PresentDays }),
	"absent_days":   listquery.By(func(r report.SummaryRow) float64 { return r.AbsentDays }),
	"late_in_early_out_count": listquery.By(func(r report.SummaryRow) int {
		return r.LateInEarlyOutCount
	}),
	"total_deduction": func(a, b report.SummaryRow) int { return a.TotalDeduction.Cmp(b.TotalDeduction) },
	"payable":         func(a, b report.SummaryRow) int { return a.Payable.Cmp(b.Payable) },
}

type ReportServiceImpl struct {
	requestRepo    request.Repository
	attendanceRepo attendance.AttendanceRepository
	holidayRepo    attendance.HolidayRepository
	employeeRepo   employee.EmployeeRepository
	config         report.SummaryConfig
}

// NewReportService takes the thresholds, working week and rates in config;
// BaseSalary and Employees are filled per call from the employee store.
func NewReportService(
	requestRepo request.Repository,
	attendanceRepo attendance.AttendanceRepository,
	holidayRepo attendance.HolidayRepository,
	employeeRepo employee.EmployeeRepository,
	config report.SummaryConfig,
) report.ReportService {
	return &ReportServiceImpl{
		requestRepo:    requestRepo,
		attendanceRepo: attendanceRepo,
		holidayRepo:    holidayRepo,
		employeeRepo:   employeeRepo,
		config:         config,
	}
}

// Summary implements report.ReportService.
func (s *ReportServiceImpl) Summary(ctx context.Context, session auth.Session, req report.SummaryRequest, params listquery.Params) (listquery.Result[report.SummaryRow], error) {
	if !session.Can(auth.PermissionReportsView) {
		return listquery.Result[report.SummaryRow]{}, report.ErrUnauthorized
	}
	if err := req.Validate(); err != nil {
		return listquery.Result[report.SummaryRow]{}, err
	}
	period := req.ToPeriod()

	employees, err := s.visibleEmployees(ctx, session)
	if err != nil {
		return listquery.Result[report.SummaryRow]{}, err
	}
	visible := make(map[string]employee.Employee, len(employees))
	cfg := s.config
	cfg.BaseSalary = make(map[string]decimal.Decimal, len(employees))
	cfg.Employees = make([]string, 0, len(employees))
	for _, e := range employees {
		visible[e.ID] = e
		if e.Active {
			cfg.Employees = append(cfg.Employees, e.ID)
		}
		if e.BaseSalary != nil {
			cfg.BaseSalary[e.ID] = *e.BaseSalary
		}
	}

	attendances, err := s.attendanceRepo.ListByPeriod(ctx, period.Start, period.End)
	if err != nil {
		return listquery.Result[report.SummaryRow]{}, fmt.Errorf("failed to list attendances: %w", err)
	}
	records := make([]report.AttendanceRecord, 0, len(attendances))
	for _, a := range attendances {
		if _, ok := visible[a.EmployeeID]; !ok {
			continue
		}
		records = append(records, report.AttendanceRecord{
			EmployeeID: a.EmployeeID,
			Date:       a.Date,
			ClockIn:    a.ClockIn,
			ClockOut:   a.ClockOut,
		})
	}

	holidays, err := s.holidayRepo.ListByPeriod(ctx, period.Start, period.End)
	if err != nil {
		return listquery.Result[report.SummaryRow]{}, fmt.Errorf("failed to list holidays: %w", err)
	}
	holidayRecords := make([]report.Holiday, 0, len(holidays))
	for _, h := range holidays {
		holidayRecords = append(holidayRecords, report.Holiday{Date: h.Date, Name: h.Name})
	}

	// Stored dates follow each timestamp's own offset while corrections are
	// bucketed in cfg.Location, so fetch a day either side; Summarize drops
	// whatever falls outside the period.
	approved := request.StatusApprovedByHR
	requests, err := s.requestRepo.List(ctx, request.Filter{
		Status:      &approved,
		DateRange:   &request.DateRange{From: period.Start.AddDate(0, 0, -1), To: period.End.AddDate(0, 0, 1)},
		EmployeeIDs: slices.Collect(maps.Keys(visible)),
	})
	if err != nil {
		return listquery.Result[report.SummaryRow]{}, fmt.Errorf("failed to list approved requests: %w", err)
	}

	records = ApplyCorrections(records, requests, cfg.Location)
	rows := Summarize(records, LeaveRecordsFromRequests(requests), holidayRecords, period, cfg)

	out := make([]report.SummaryRow, 0, len(rows))
	for _, row := range rows {
		e := visible[row.EmployeeID]
		out = append(out, report.SummaryRow{
			EmployeeSummaryRow: row,
			EmployeeName:       e.FullName,
			EmployeeCode:       e.EmployeeCode,
		})
	}

	query := listquery.Build(params, summaryFields, "employee_id", nil)
	return listquery.Apply(out, query), nil
}

// visibleEmployees returns everyone for HR, otherwise the line manager and
// their direct reports.
func (s *ReportServiceImpl) visibleEmployees(ctx context.Context, session auth.Session) ([]employee.Employee, error) {
	if session.IsHR() {
		employees, err := s.employeeRepo.List(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list employees: %w", err)
		}
		return employees, nil
	}

	self, err := s.employeeRepo.GetByID(ctx, session.EmployeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to get employee: %w", err)
	}
	reports, err := s.employeeRepo.ListByLineManager(ctx, session.EmployeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list direct reports: %w", err)
	}
	return append([]employee.Employee{self}, reports...), nil
}
