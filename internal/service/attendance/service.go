package attendance

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/cmlabs-hris/hris-approval-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-approval-go/internal/domain/auth"
	"github.com/cmlabs-hris/hris-approval-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-approval-go/internal/domain/request"
	"github.com/cmlabs-hris/hris-approval-go/internal/pkg/keylock"
	"github.com/cmlabs-hris/hris-approval-go/internal/pkg/listquery"
	"github.com/cmlabs-hris/hris-approval-go/internal/pkg/validator"
)

var attendanceFields = listquery.Fields[attendance.Attendance]{
	"date":      listquery.ByTime(func(a attendance.Attendance) time.Time { return a.Date }),
	"clock_in":  listquery.ByOptionalTime(func(a attendance.Attendance) *time.Time { return a.ClockIn }),
	"clock_out": listquery.ByOptionalTime(func(a attendance.Attendance) *time.Time { return a.ClockOut }),
}

type AttendanceServiceImpl struct {
	attendance.AttendanceRepository
	attendance.HolidayRepository
	employee.EmployeeRepository
	location *time.Location
	locks    *keylock.Map
	now      func() time.Time
}

// NewAttendanceService reads "today" in loc; nil means UTC.
func NewAttendanceService(
	attendanceRepository attendance.AttendanceRepository,
	holidayRepository attendance.HolidayRepository,
	employeeRepository employee.EmployeeRepository,
	loc *time.Location,
) attendance.AttendanceService {
	if loc == nil {
		loc = time.UTC
	}
	return &AttendanceServiceImpl{
		AttendanceRepository: attendanceRepository,
		HolidayRepository:    holidayRepository,
		EmployeeRepository:   employeeRepository,
		location:             loc,
		locks:                keylock.New(),
		now:                  time.Now,
	}
}

func (s *AttendanceServiceImpl) today() (time.Time, time.Time) {
	now := s.now().In(s.location)
	return now, request.DateOf(now)
}

// ClockIn implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) ClockIn(ctx context.Context, session auth.Session) (attendance.Attendance, error) {
	unlock, err := s.locks.Lock(ctx, session.EmployeeID)
	if err != nil {
		return attendance.Attendance{}, err
	}
	defer unlock()

	now, date := s.today()

	existing, err := s.AttendanceRepository.GetByEmployeeAndDate(ctx, session.EmployeeID, date)
	switch {
	case err == nil && existing.ClockIn != nil:
		return attendance.Attendance{}, attendance.ErrAlreadyCheckedIn
	case err != nil && !errors.Is(err, attendance.ErrAttendanceNotFound):
		return attendance.Attendance{}, fmt.Errorf("failed to check today's attendance: %w", err)
	}

	id, err := uuid.NewV7()
	if err != nil {
		return attendance.Attendance{}, fmt.Errorf("failed to generate attendance id: %w", err)
	}

	saved, err := s.AttendanceRepository.Upsert(ctx, attendance.Attendance{
		ID:         id.String(),
		EmployeeID: session.EmployeeID,
		Date:       date,
		ClockIn:    &now,
		CreatedAt:  now,
		UpdatedAt:  now,
	})
	if err != nil {
		return attendance.Attendance{}, fmt.Errorf("failed to save clock-in: %w", err)
	}
	return saved, nil
}

// ClockOut implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) ClockOut(ctx context.Context, session auth.Session) (attendance.Attendance, error) {
	unlock, err := s.locks.Lock(ctx, session.EmployeeID)
	if err != nil {
		return attendance.Attendance{}, err
	}
	defer unlock()

	now, date := s.today()

	existing, err := s.AttendanceRepository.GetByEmployeeAndDate(ctx, session.EmployeeID, date)
	if err != nil {
		if errors.Is(err, attendance.ErrAttendanceNotFound) {
			return attendance.Attendance{}, attendance.ErrNotCheckedIn
		}
		return attendance.Attendance{}, fmt.Errorf("failed to check today's attendance: %w", err)
	}
	if existing.ClockIn == nil {
		return attendance.Attendance{}, attendance.ErrNotCheckedIn
	}
	if existing.ClockOut != nil {
		return attendance.Attendance{}, attendance.ErrAlreadyCheckedOut
	}

	existing.ClockOut = &now
	existing.UpdatedAt = now
	saved, err := s.AttendanceRepository.Upsert(ctx, existing)
	if err != nil {
		return attendance.Attendance{}, fmt.Errorf("failed to save clock-out: %w", err)
	}
	return saved, nil
}

// List implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) List(ctx context.Context, session auth.Session, filter attendance.AttendanceFilter, params listquery.Params) (listquery.Result[attendance.Attendance], error) {
	if err := filter.Validate(); err != nil {
		return listquery.Result[attendance.Attendance]{}, err
	}

	visible, err := s.visibleEmployees(ctx, session)
	if err != nil {
		return listquery.Result[attendance.Attendance]{}, err
	}
	if filter.EmployeeID != nil && visible != nil && !slices.Contains(visible, *filter.EmployeeID) {
		return listquery.Result[attendance.Attendance]{}, attendance.ErrUnauthorized
	}

	from, to := filter.Range(s.now().In(s.location))
	records, err := s.AttendanceRepository.ListByPeriod(ctx, from, to)
	if err != nil {
		return listquery.Result[attendance.Attendance]{}, fmt.Errorf("failed to list attendances: %w", err)
	}

	keep := func(a attendance.Attendance) bool {
		if filter.EmployeeID != nil {
			return a.EmployeeID == *filter.EmployeeID
		}
		return visible == nil || slices.Contains(visible, a.EmployeeID)
	}
	query := listquery.Build(params, attendanceFields, "date", keep)
	return listquery.Apply(records, query), nil
}

// visibleEmployees returns nil when the session may see every record.
func (s *AttendanceServiceImpl) visibleEmployees(ctx context.Context, session auth.Session) ([]string, error) {
	if session.Can(auth.PermissionAttendanceViewAll) {
		return nil, nil
	}
	visible := []string{session.EmployeeID}
	if session.IsLineManager() {
		reports, err := s.EmployeeRepository.ListByLineManager(ctx, session.EmployeeID)
		if err != nil {
			return nil, fmt.Errorf("failed to list direct reports: %w", err)
		}
		for _, e := range reports {
			visible = append(visible, e.ID)
		}
	}
	return visible, nil
}

// CreateHoliday implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) CreateHoliday(ctx context.Context, session auth.Session, req attendance.CreateHolidayRequest) (attendance.Holiday, error) {
	if !session.Can(auth.PermissionHolidayManage) {
		return attendance.Holiday{}, attendance.ErrUnauthorized
	}
	if err := req.Validate(); err != nil {
		return attendance.Holiday{}, err
	}

	id, err := uuid.NewV7()
	if err != nil {
		return attendance.Holiday{}, fmt.Errorf("failed to generate holiday id: %w", err)
	}
	date, _ := validator.IsValidDate(req.Date)

	created, err := s.HolidayRepository.Create(ctx, attendance.Holiday{
		ID:        id.String(),
		Date:      date,
		Name:      req.Name,
		CreatedAt: s.now(),
	})
	if err != nil {
		return attendance.Holiday{}, fmt.Errorf("failed to create holiday: %w", err)
	}
	return created, nil
}

// ListHolidays implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) ListHolidays(ctx context.Context, filter attendance.AttendanceFilter) ([]attendance.Holiday, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}
	from, to := filter.Range(s.now().In(s.location))
	return s.HolidayRepository.ListByPeriod(ctx, from, to)
}
