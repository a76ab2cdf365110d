package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/cmlabs-hris/hris-approval-go/internal/domain/request"
)

type RequestRepository struct {
	db *DB
}

func NewRequestRepository(db *DB) *RequestRepository {
	return &RequestRepository{db: db}
}

const requestColumns = `
	id, employee_id, kind, status,
	attendance_at, leave_start_date, leave_end_date, leave_days,
	description, note_by_line_manager, note_by_hr,
	created_at, updated_at`

// Create implements request.Repository.
func (r *RequestRepository) Create(ctx context.Context, req request.Request) (request.Request, error) {
	var (
		attendanceAt         sql.NullString
		leaveStart, leaveEnd sql.NullString
		leaveDays            sql.NullFloat64
	)
	if a := req.RequestedValue.Attendance; a != nil {
		attendanceAt = nullTime(&a.Timestamp)
	}
	if l := req.RequestedValue.Leave; l != nil {
		leaveStart = sql.NullString{String: formatDate(l.StartDate), Valid: true}
		leaveEnd = sql.NullString{String: formatDate(l.EndDate), Valid: true}
		leaveDays = sql.NullFloat64{Float64: l.Days, Valid: true}
	}
	effectiveStart, effectiveEnd := req.EffectiveDates()

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO requests (
			id, employee_id, kind, status,
			attendance_at, leave_start_date, leave_end_date, leave_days,
			effective_start, effective_end,
			description, note_by_line_manager, note_by_hr,
			created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		req.ID, req.EmployeeID, string(req.Kind), string(req.Status),
		attendanceAt, leaveStart, leaveEnd, leaveDays,
		formatDate(effectiveStart), formatDate(effectiveEnd),
		req.Description, nullString(req.NoteByLineManager), nullString(req.NoteByHR),
		formatTime(req.CreatedAt), formatTime(req.UpdatedAt),
	)
	if err != nil {
		return request.Request{}, fmt.Errorf("failed to insert request: %w", err)
	}
	return req, nil
}

// GetByID implements request.Repository.
func (r *RequestRepository) GetByID(ctx context.Context, id string) (request.Request, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+requestColumns+` FROM requests WHERE id = ?`, id)

	req, err := scanRequest(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return request.Request{}, request.ErrRequestNotFound
		}
		return request.Request{}, fmt.Errorf("failed to get request: %w", err)
	}
	return req, nil
}

// List implements request.Repository. Results come back in creation order.
func (r *RequestRepository) List(ctx context.Context, filter request.Filter) ([]request.Request, error) {
	if filter.EmployeeIDs != nil && len(filter.EmployeeIDs) == 0 {
		return []request.Request{}, nil
	}

	var (
		conditions []string
		args       []any
	)

	if filter.EmployeeID != nil {
		conditions = append(conditions, "employee_id = ?")
		args = append(args, *filter.EmployeeID)
	}
	if filter.EmployeeIDs != nil {
		conditions = append(conditions, "employee_id IN (?"+strings.Repeat(", ?", len(filter.EmployeeIDs)-1)+")")
		for _, id := range filter.EmployeeIDs {
			args = append(args, id)
		}
	}
	if filter.Status != nil {
		conditions = append(conditions, "status = ?")
		args = append(args, string(*filter.Status))
	}
	if filter.Kind != nil {
		conditions = append(conditions, "kind = ?")
		args = append(args, string(*filter.Kind))
	}
	if dr := filter.DateRange; dr != nil {
		if !dr.From.IsZero() {
			conditions = append(conditions, "effective_end >= ?")
			args = append(args, formatDate(request.DateOf(dr.From)))
		}
		if !dr.To.IsZero() {
			conditions = append(conditions, "effective_start <= ?")
			args = append(args, formatDate(request.DateOf(dr.To)))
		}
	}

	query := `SELECT ` + requestColumns + ` FROM requests`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY created_at, rowid"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list requests: %w", err)
	}
	defer rows.Close()

	requests := []request.Request{}
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan request: %w", err)
		}
		requests = append(requests, req)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list requests: %w", err)
	}
	return requests, nil
}

// Update implements request.Repository as a single conditional UPDATE.
func (r *RequestRepository) Update(ctx context.Context, req request.Request, expected request.Status) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE requests
		SET status = ?, note_by_line_manager = ?, note_by_hr = ?, updated_at = ?
		WHERE id = ? AND status = ?`,
		string(req.Status), nullString(req.NoteByLineManager), nullString(req.NoteByHR), formatTime(req.UpdatedAt),
		req.ID, string(expected),
	)
	if err != nil {
		return fmt.Errorf("failed to update request: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update request: %w", err)
	}
	if affected == 1 {
		return nil
	}

	var exists int
	err = r.db.QueryRowContext(ctx, `SELECT 1 FROM requests WHERE id = ?`, req.ID).Scan(&exists)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return request.ErrRequestNotFound
	case err != nil:
		return fmt.Errorf("failed to check request: %w", err)
	}
	return request.ErrConcurrentModification
}

func scanRequest(row scanner) (request.Request, error) {
	var (
		req                  request.Request
		kind, status         string
		attendanceAt         sql.NullString
		leaveStart, leaveEnd sql.NullString
		leaveDays            sql.NullFloat64
		noteByLM, noteByHR   sql.NullString
		createdAt, updatedAt string
	)

	err := row.Scan(
		&req.ID, &req.EmployeeID, &kind, &status,
		&attendanceAt, &leaveStart, &leaveEnd, &leaveDays,
		&req.Description, &noteByLM, &noteByHR,
		&createdAt, &updatedAt,
	)
	if err != nil {
		return request.Request{}, err
	}

	req.Kind = request.Kind(kind)
	req.Status = request.Status(status)
	req.NoteByLineManager = stringPtr(noteByLM)
	req.NoteByHR = stringPtr(noteByHR)

	if req.CreatedAt, err = parseTime(createdAt); err != nil {
		return request.Request{}, err
	}
	if req.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return request.Request{}, err
	}

	switch {
	case attendanceAt.Valid:
		ts, err := parseTime(attendanceAt.String)
		if err != nil {
			return request.Request{}, err
		}
		req.RequestedValue.Attendance = &request.AttendanceCorrection{Timestamp: ts}
	case leaveStart.Valid && leaveEnd.Valid:
		start, err := parseDate(leaveStart.String)
		if err != nil {
			return request.Request{}, err
		}
		end, err := parseDate(leaveEnd.String)
		if err != nil {
			return request.Request{}, err
		}
		leave := &request.LeaveRange{StartDate: start, EndDate: end, Days: leaveDays.Float64}
		if !leaveDays.Valid {
			leave.Days = request.LeaveDays(req.Kind, start, end)
		}
		req.RequestedValue.Leave = leave
	}

	return req, nil
}
