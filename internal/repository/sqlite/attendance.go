package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-approval-go/internal/domain/attendance"
)

type AttendanceRepository struct {
	db *DB
}

func NewAttendanceRepository(db *DB) *AttendanceRepository {
	return &AttendanceRepository{db: db}
}

const attendanceColumns = `id, employee_id, date, clock_in, clock_out, created_at, updated_at`

// Upsert implements attendance.AttendanceRepository. An existing row for the
// same employee and date keeps its id and created_at.
func (r *AttendanceRepository) Upsert(ctx context.Context, a attendance.Attendance) (attendance.Attendance, error) {
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO attendances (id, employee_id, date, clock_in, clock_out, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (employee_id, date) DO UPDATE
		SET clock_in = excluded.clock_in,
			clock_out = excluded.clock_out,
			updated_at = excluded.updated_at
		RETURNING `+attendanceColumns,
		a.ID, a.EmployeeID, formatDate(a.Date), nullTime(a.ClockIn), nullTime(a.ClockOut),
		formatTime(a.CreatedAt), formatTime(a.UpdatedAt),
	)

	saved, err := scanAttendance(row)
	if err != nil {
		return attendance.Attendance{}, fmt.Errorf("failed to upsert attendance: %w", err)
	}
	return saved, nil
}

// GetByEmployeeAndDate implements attendance.AttendanceRepository.
func (r *AttendanceRepository) GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (attendance.Attendance, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+attendanceColumns+` FROM attendances WHERE employee_id = ? AND date = ?`,
		employeeID, formatDate(date),
	)

	a, err := scanAttendance(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return attendance.Attendance{}, attendance.ErrAttendanceNotFound
		}
		return attendance.Attendance{}, fmt.Errorf("failed to get attendance: %w", err)
	}
	return a, nil
}

// ListByPeriod implements attendance.AttendanceRepository.
func (r *AttendanceRepository) ListByPeriod(ctx context.Context, from, to time.Time) ([]attendance.Attendance, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+attendanceColumns+` FROM attendances WHERE date BETWEEN ? AND ? ORDER BY date, employee_id`,
		formatDate(from), formatDate(to),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendances: %w", err)
	}
	defer rows.Close()

	records := []attendance.Attendance{}
	for rows.Next() {
		a, err := scanAttendance(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance: %w", err)
		}
		records = append(records, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list attendances: %w", err)
	}
	return records, nil
}

func scanAttendance(row scanner) (attendance.Attendance, error) {
	var (
		a                    attendance.Attendance
		date                 string
		clockIn, clockOut    sql.NullString
		createdAt, updatedAt string
	)

	if err := row.Scan(&a.ID, &a.EmployeeID, &date, &clockIn, &clockOut, &createdAt, &updatedAt); err != nil {
		return attendance.Attendance{}, err
	}

	var err error
	if a.Date, err = parseDate(date); err != nil {
		return attendance.Attendance{}, err
	}
	if a.ClockIn, err = parseNullTime(clockIn); err != nil {
		return attendance.Attendance{}, err
	}
	if a.ClockOut, err = parseNullTime(clockOut); err != nil {
		return attendance.Attendance{}, err
	}
	if a.CreatedAt, err = parseTime(createdAt); err != nil {
		return attendance.Attendance{}, err
	}
	if a.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return attendance.Attendance{}, err
	}
	return a, nil
}

type HolidayRepository struct {
	db *DB
}

func NewHolidayRepository(db *DB) *HolidayRepository {
	return &HolidayRepository{db: db}
}

// Create implements attendance.HolidayRepository.
func (r *HolidayRepository) Create(ctx context.Context, h attendance.Holiday) (attendance.Holiday, error) {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO holidays (id, date, name, created_at) VALUES (?, ?, ?, ?)`,
		h.ID, formatDate(h.Date), h.Name, formatTime(h.CreatedAt),
	)
	switch {
	case uniqueViolation(err, "holidays.date"):
		return attendance.Holiday{}, attendance.ErrHolidayExists
	case err != nil:
		return attendance.Holiday{}, fmt.Errorf("failed to insert holiday: %w", err)
	}
	return h, nil
}

// ListByPeriod implements attendance.HolidayRepository.
func (r *HolidayRepository) ListByPeriod(ctx context.Context, from, to time.Time) ([]attendance.Holiday, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, date, name, created_at FROM holidays WHERE date BETWEEN ? AND ? ORDER BY date`,
		formatDate(from), formatDate(to),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list holidays: %w", err)
	}
	defer rows.Close()

	holidays := []attendance.Holiday{}
	for rows.Next() {
		var (
			h               attendance.Holiday
			date, createdAt string
		)
		if err := rows.Scan(&h.ID, &date, &h.Name, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan holiday: %w", err)
		}
		if h.Date, err = parseDate(date); err != nil {
			return nil, err
		}
		if h.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, err
		}
		holidays = append(holidays, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list holidays: %w", err)
	}
	return holidays, nil
}
