package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/cmlabs-hris/hris-approval-go/internal/domain/request"
	"github.com/cmlabs-hris/hris-approval-go/internal/pkg/database"
)

type requestRepositoryImpl struct {
	db *database.DB
}

func NewRequestRepository(db *database.DB) request.Repository {
	return &requestRepositoryImpl{db: db}
}

const requestColumns = `
	id, employee_id, kind, status,
	attendance_at, leave_start_date, leave_end_date, leave_days,
	description, note_by_line_manager, note_by_hr,
	created_at, updated_at`

// Create implements request.Repository.
func (r *requestRepositoryImpl) Create(ctx context.Context, req request.Request) (request.Request, error) {
	q := GetQuerier(ctx, r.db)

	var (
		attendanceAt         *time.Time
		leaveStart, leaveEnd *time.Time
		leaveDays            *float64
	)
	if a := req.RequestedValue.Attendance; a != nil {
		attendanceAt = &a.Timestamp
	}
	if l := req.RequestedValue.Leave; l != nil {
		leaveStart, leaveEnd, leaveDays = &l.StartDate, &l.EndDate, &l.Days
	}
	effectiveStart, effectiveEnd := req.EffectiveDates()

	query := `
		INSERT INTO requests (
			id, employee_id, kind, status,
			attendance_at, leave_start_date, leave_end_date, leave_days,
			effective_start, effective_end,
			description, note_by_line_manager, note_by_hr,
			created_at, updated_at
		) VALUES (
			$1, $2, $3, $4,
			$5, $6, $7, $8,
			$9, $10,
			$11, $12, $13,
			$14, $15
		)
	`

	_, err := q.Exec(ctx, query,
		req.ID, req.EmployeeID, req.Kind, req.Status,
		attendanceAt, leaveStart, leaveEnd, leaveDays,
		effectiveStart, effectiveEnd,
		req.Description, req.NoteByLineManager, req.NoteByHR,
		req.CreatedAt, req.UpdatedAt,
	)
	if err != nil {
		return request.Request{}, fmt.Errorf("failed to insert request: %w", err)
	}

	return req, nil
}

// GetByID implements request.Repository.
func (r *requestRepositoryImpl) GetByID(ctx context.Context, id string) (request.Request, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + requestColumns + ` FROM requests WHERE id = $1`

	req, err := scanRequest(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return request.Request{}, request.ErrRequestNotFound
		}
		return request.Request{}, fmt.Errorf("failed to get request: %w", err)
	}
	return req, nil
}

// List implements request.Repository. Results come back in creation order.
func (r *requestRepositoryImpl) List(ctx context.Context, filter request.Filter) ([]request.Request, error) {
	q := GetQuerier(ctx, r.db)

	if filter.EmployeeIDs != nil && len(filter.EmployeeIDs) == 0 {
		return []request.Request{}, nil
	}

	var (
		conditions []string
		args       []interface{}
	)
	add := func(clause string, value interface{}) {
		args = append(args, value)
		conditions = append(conditions, fmt.Sprintf(clause, len(args)))
	}

	if filter.EmployeeID != nil {
		add("employee_id = $%d", *filter.EmployeeID)
	}
	if filter.EmployeeIDs != nil {
		add("employee_id = ANY($%d)", filter.EmployeeIDs)
	}
	if filter.Status != nil {
		add("status = $%d", *filter.Status)
	}
	if filter.Kind != nil {
		add("kind = $%d", *filter.Kind)
	}
	if dr := filter.DateRange; dr != nil {
		if !dr.From.IsZero() {
			add("effective_end >= $%d", request.DateOf(dr.From))
		}
		if !dr.To.IsZero() {
			add("effective_start <= $%d", request.DateOf(dr.To))
		}
	}

	query := `SELECT ` + requestColumns + ` FROM requests`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY created_at, id"

	rows, err := q.Query(ctx, query, args...)
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

// Update implements request.Repository. The stored row is locked while its
// status is compared with expected.
func (r *requestRepositoryImpl) Update(ctx context.Context, req request.Request, expected request.Status) error {
	return WithTransaction(ctx, r.db, func(ctx context.Context) error {
		q := GetQuerier(ctx, r.db)

		var current request.Status
		err := q.QueryRow(ctx, `SELECT status FROM requests WHERE id = $1 FOR UPDATE`, req.ID).Scan(&current)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return request.ErrRequestNotFound
			}
			return fmt.Errorf("failed to lock request: %w", err)
		}
		if current != expected {
			return request.ErrConcurrentModification
		}

		query := `
			UPDATE requests
			SET status = $2, note_by_line_manager = $3, note_by_hr = $4, updated_at = $5
			WHERE id = $1
		`
		if _, err := q.Exec(ctx, query, req.ID, req.Status, req.NoteByLineManager, req.NoteByHR, req.UpdatedAt); err != nil {
			return fmt.Errorf("failed to update request: %w", err)
		}
		return nil
	})
}

func scanRequest(row pgx.Row) (request.Request, error) {
	var (
		req                  request.Request
		attendanceAt         *time.Time
		leaveStart, leaveEnd *time.Time
		leaveDays            *float64
	)

	err := row.Scan(
		&req.ID, &req.EmployeeID, &req.Kind, &req.Status,
		&attendanceAt, &leaveStart, &leaveEnd, &leaveDays,
		&req.Description, &req.NoteByLineManager, &req.NoteByHR,
		&req.CreatedAt, &req.UpdatedAt,
	)
	if err != nil {
		return request.Request{}, err
	}

	switch {
	case attendanceAt != nil:
		req.RequestedValue.Attendance = &request.AttendanceCorrection{Timestamp: *attendanceAt}
	case leaveStart != nil && leaveEnd != nil:
		leave := &request.LeaveRange{StartDate: *leaveStart, EndDate: *leaveEnd}
		if leaveDays != nil {
			leave.Days = *leaveDays
		} else {
			leave.Days = request.LeaveDays(req.Kind, leave.StartDate, leave.EndDate)
		}
		req.RequestedValue.Leave = leave
	}

	return req, nil
}
