package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cmlabs-hris/hris-approval-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-approval-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-approval-go/internal/domain/request"
)

func newRequest(id, employeeID string) request.Request {
	now := time.Date(2027, 2, 1, 9, 0, 0, 0, time.UTC)
	return request.Request{
		ID:          id,
		EmployeeID:  employeeID,
		Kind:        request.KindAttendanceIn,
		Status:      request.StatusPending,
		Description: "forgot to clock in",
		RequestedValue: request.RequestedValue{
			Attendance: &request.AttendanceCorrection{Timestamp: now},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestRequestRepository_CreateGetList(t *testing.T) {
	ctx := context.Background()
	repo := NewRequestRepository()

	_, err := repo.Create(ctx, newRequest("r1", "emp-1"))
	require.NoError(t, err)
	_, err = repo.Create(ctx, newRequest("r2", "emp-2"))
	require.NoError(t, err)

	got, err := repo.GetByID(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, "emp-1", got.EmployeeID)

	_, err = repo.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, request.ErrRequestNotFound)

	employeeID := "emp-2"
	list, err := repo.List(ctx, request.Filter{EmployeeID: &employeeID})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "r2", list[0].ID)

	all, err := repo.List(ctx, request.Filter{})
	require.NoError(t, err)
	assert.Equal(t, []string{"r1", "r2"}, []string{all[0].ID, all[1].ID})
}

func TestRequestRepository_ReturnsSnapshots(t *testing.T) {
	ctx := context.Background()
	repo := NewRequestRepository()
	_, err := repo.Create(ctx, newRequest("r1", "emp-1"))
	require.NoError(t, err)

	got, err := repo.GetByID(ctx, "r1")
	require.NoError(t, err)
	got.Status = request.StatusApprovedByHR
	got.RequestedValue.Attendance.Timestamp = time.Time{}

	again, err := repo.GetByID(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, request.StatusPending, again.Status)
	assert.False(t, again.RequestedValue.Attendance.Timestamp.IsZero())
}

func TestRequestRepository_UpdateCompareAndSet(t *testing.T) {
	ctx := context.Background()
	repo := NewRequestRepository()
	_, err := repo.Create(ctx, newRequest("r1", "emp-1"))
	require.NoError(t, err)

	r, _ := repo.GetByID(ctx, "r1")
	note := "ok"
	r.Status = request.StatusApprovedByLineManager
	r.NoteByLineManager = &note
	r.Description = "rewritten"
	require.NoError(t, repo.Update(ctx, r, request.StatusPending))

	stale := r
	stale.Status = request.StatusRejectedByLineManager
	assert.ErrorIs(t, repo.Update(ctx, stale, request.StatusPending), request.ErrConcurrentModification)

	stored, _ := repo.GetByID(ctx, "r1")
	assert.Equal(t, request.StatusApprovedByLineManager, stored.Status)
	assert.Equal(t, "ok", *stored.NoteByLineManager)
	assert.Equal(t, "forgot to clock in", stored.Description)

	missing := newRequest("nope", "emp-1")
	assert.ErrorIs(t, repo.Update(ctx, missing, request.StatusPending), request.ErrRequestNotFound)
}

func TestRequestRepository_CancelledContext(t *testing.T) {
	repo := NewRequestRepository()
	_, err := repo.Create(context.Background(), newRequest("r1", "emp-1"))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := newRequest("r1", "emp-1")
	r.Status = request.StatusApprovedByHR
	assert.ErrorIs(t, repo.Update(ctx, r, request.StatusPending), context.Canceled)

	stored, _ := repo.GetByID(context.Background(), "r1")
	assert.Equal(t, request.StatusPending, stored.Status)
}

func TestEmployeeRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewEmployeeRepository()
	manager := "emp-1"

	_, err := repo.Create(ctx, employee.Employee{ID: "emp-1", EmployeeCode: "0001-0001", Email: "a@example.com", Active: true})
	require.NoError(t, err)
	_, err = repo.Create(ctx, employee.Employee{ID: "emp-2", EmployeeCode: "0001-0002", Email: "b@example.com", LineManagerID: &manager})
	require.NoError(t, err)

	_, err = repo.Create(ctx, employee.Employee{ID: "emp-3", EmployeeCode: "0001-0001", Email: "c@example.com"})
	assert.ErrorIs(t, err, employee.ErrEmployeeCodeExists)
	_, err = repo.Create(ctx, employee.Employee{ID: "emp-3", EmployeeCode: "0001-0003", Email: "b@example.com"})
	assert.ErrorIs(t, err, employee.ErrEmailExists)

	_, err = repo.GetByID(ctx, "emp-9")
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)

	reports, err := repo.ListByLineManager(ctx, "emp-1")
	require.NoError(t, err)
	require.Len(t, reports, 1)
	assert.Equal(t, "emp-2", reports[0].ID)

	all, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestAttendanceRepository_UpsertKeepsIdentity(t *testing.T) {
	ctx := context.Background()
	repo := NewAttendanceRepository()

	in := time.Date(2027, 2, 1, 8, 0, 0, 0, time.UTC)
	created, err := repo.Upsert(ctx, attendance.Attendance{ID: "a1", EmployeeID: "emp-1", Date: in, ClockIn: &in, CreatedAt: in})
	require.NoError(t, err)
	assert.Equal(t, time.Date(2027, 2, 1, 0, 0, 0, 0, time.UTC), created.Date)

	out := in.Add(9 * time.Hour)
	updated, err := repo.Upsert(ctx, attendance.Attendance{ID: "other", EmployeeID: "emp-1", Date: in, ClockIn: &in, ClockOut: &out})
	require.NoError(t, err)
	assert.Equal(t, "a1", updated.ID)
	assert.Equal(t, in, updated.CreatedAt)

	got, err := repo.GetByEmployeeAndDate(ctx, "emp-1", in)
	require.NoError(t, err)
	require.NotNil(t, got.ClockOut)
	assert.Equal(t, out, *got.ClockOut)

	_, err = repo.GetByEmployeeAndDate(ctx, "emp-2", in)
	assert.ErrorIs(t, err, attendance.ErrAttendanceNotFound)
}

func TestAttendanceRepository_ListByPeriod(t *testing.T) {
	ctx := context.Background()
	repo := NewAttendanceRepository()
	for _, a := range []attendance.Attendance{
		{ID: "3", EmployeeID: "b", Date: time.Date(2027, 2, 2, 0, 0, 0, 0, time.UTC)},
		{ID: "2", EmployeeID: "b", Date: time.Date(2027, 2, 1, 0, 0, 0, 0, time.UTC)},
		{ID: "1", EmployeeID: "a", Date: time.Date(2027, 2, 1, 0, 0, 0, 0, time.UTC)},
		{ID: "4", EmployeeID: "a", Date: time.Date(2027, 3, 1, 0, 0, 0, 0, time.UTC)},
	} {
		_, err := repo.Upsert(ctx, a)
		require.NoError(t, err)
	}

	list, err := repo.ListByPeriod(ctx, time.Date(2027, 2, 1, 0, 0, 0, 0, time.UTC), time.Date(2027, 2, 28, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, []string{"1", "2", "3"}, []string{list[0].ID, list[1].ID, list[2].ID})
}

func TestHolidayRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewHolidayRepository()

	d := time.Date(2027, 2, 26, 15, 0, 0, 0, time.UTC)
	_, err := repo.Create(ctx, attendance.Holiday{ID: "h1", Date: d, Name: "Founders Day"})
	require.NoError(t, err)
	_, err = repo.Create(ctx, attendance.Holiday{ID: "h2", Date: d, Name: "Again"})
	assert.ErrorIs(t, err, attendance.ErrHolidayExists)

	list, err := repo.ListByPeriod(ctx, time.Date(2027, 2, 1, 0, 0, 0, 0, time.UTC), time.Date(2027, 2, 28, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Founders Day", list[0].Name)
}
