package memory

import (
	"cmp"
	"context"
	"slices"
	"sync"
	"time"

	"github.com/cmlabs-hris/hris-approval-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-approval-go/internal/domain/request"
)

type attendanceKey struct {
	employeeID string
	date       time.Time
}

type AttendanceRepository struct {
	mu      sync.RWMutex
	records map[attendanceKey]attendance.Attendance
}

func NewAttendanceRepository() *AttendanceRepository {
	return &AttendanceRepository{records: make(map[attendanceKey]attendance.Attendance)}
}

// Upsert implements attendance.AttendanceRepository.
func (m *AttendanceRepository) Upsert(ctx context.Context, a attendance.Attendance) (attendance.Attendance, error) {
	if err := ctx.Err(); err != nil {
		return attendance.Attendance{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	a.Date = request.DateOf(a.Date)
	k := attendanceKey{a.EmployeeID, a.Date}
	if existing, ok := m.records[k]; ok {
		a.ID = existing.ID
		a.CreatedAt = existing.CreatedAt
	}
	m.records[k] = cloneAttendance(a)
	return cloneAttendance(a), nil
}

// GetByEmployeeAndDate implements attendance.AttendanceRepository.
func (m *AttendanceRepository) GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (attendance.Attendance, error) {
	if err := ctx.Err(); err != nil {
		return attendance.Attendance{}, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	a, ok := m.records[attendanceKey{employeeID, request.DateOf(date)}]
	if !ok {
		return attendance.Attendance{}, attendance.ErrAttendanceNotFound
	}
	return cloneAttendance(a), nil
}

// ListByPeriod implements attendance.AttendanceRepository. Records are ordered
// by date, then employee id.
func (m *AttendanceRepository) ListByPeriod(ctx context.Context, from, to time.Time) ([]attendance.Attendance, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	from, to = request.DateOf(from), request.DateOf(to)
	var result []attendance.Attendance
	for _, a := range m.records {
		if !a.Date.Before(from) && !a.Date.After(to) {
			result = append(result, cloneAttendance(a))
		}
	}
	slices.SortFunc(result, func(a, b attendance.Attendance) int {
		if c := a.Date.Compare(b.Date); c != 0 {
			return c
		}
		return cmp.Compare(a.EmployeeID, b.EmployeeID)
	})
	return result, nil
}

func cloneAttendance(a attendance.Attendance) attendance.Attendance {
	out := a
	if a.ClockIn != nil {
		v := *a.ClockIn
		out.ClockIn = &v
	}
	if a.ClockOut != nil {
		v := *a.ClockOut
		out.ClockOut = &v
	}
	return out
}

type HolidayRepository struct {
	mu       sync.RWMutex
	holidays map[time.Time]attendance.Holiday
}

func NewHolidayRepository() *HolidayRepository {
	return &HolidayRepository{holidays: make(map[time.Time]attendance.Holiday)}
}

// Create implements attendance.HolidayRepository.
func (m *HolidayRepository) Create(ctx context.Context, h attendance.Holiday) (attendance.Holiday, error) {
	if err := ctx.Err(); err != nil {
		return attendance.Holiday{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	h.Date = request.DateOf(h.Date)
	if _, ok := m.holidays[h.Date]; ok {
		return attendance.Holiday{}, attendance.ErrHolidayExists
	}
	m.holidays[h.Date] = h
	return h, nil
}

// ListByPeriod implements attendance.HolidayRepository.
func (m *HolidayRepository) ListByPeriod(ctx context.Context, from, to time.Time) ([]attendance.Holiday, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	from, to = request.DateOf(from), request.DateOf(to)
	var result []attendance.Holiday
	for d, h := range m.holidays {
		if !d.Before(from) && !d.After(to) {
			result = append(result, h)
		}
	}
	slices.SortFunc(result, func(a, b attendance.Holiday) int { return a.Date.Compare(b.Date) })
	return result, nil
}
