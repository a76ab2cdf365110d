package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/hris-approval-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-approval-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/hris-approval-go/internal/handler/http/response"
	"github.com/cmlabs-hris/hris-approval-go/internal/pkg/listquery"
)

type AttendanceHandler interface {
	ClockIn(w http.ResponseWriter, r *http.Request)
	ClockOut(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	CreateHoliday(w http.ResponseWriter, r *http.Request)
	ListHolidays(w http.ResponseWriter, r *http.Request)
}

type attendanceHandlerImpl struct {
	attendanceService attendance.AttendanceService
	limits            listquery.Limits
}

func NewAttendanceHandler(attendanceService attendance.AttendanceService, limits listquery.Limits) AttendanceHandler {
	return &attendanceHandlerImpl{
		attendanceService: attendanceService,
		limits:            limits,
	}
}

// ClockIn implements AttendanceHandler.
func (h *attendanceHandlerImpl) ClockIn(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	record, err := h.attendanceService.ClockIn(r.Context(), session)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Clocked in", attendance.NewAttendanceResponse(record))
}

// ClockOut implements AttendanceHandler.
func (h *attendanceHandlerImpl) ClockOut(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	record, err := h.attendanceService.ClockOut(r.Context(), session)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Clocked out", attendance.NewAttendanceResponse(record))
}

func parseAttendanceFilter(r *http.Request) attendance.AttendanceFilter {
	var filter attendance.AttendanceFilter
	q := r.URL.Query()

	if employeeID := q.Get("employee_id"); employeeID != "" {
		filter.EmployeeID = &employeeID
	}
	if startDate := q.Get("start_date"); startDate != "" {
		filter.StartDate = &startDate
	}
	if endDate := q.Get("end_date"); endDate != "" {
		filter.EndDate = &endDate
	}

	return filter
}

// List implements AttendanceHandler.
func (h *attendanceHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	params := listquery.Parse(r, h.limits)
	result, err := h.attendanceService.List(r.Context(), session, parseAttendanceFilter(r), params)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Page(w, result, params.Limit, attendance.NewAttendanceResponse)
}

// CreateHoliday implements AttendanceHandler.
func (h *attendanceHandlerImpl) CreateHoliday(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	var req attendance.CreateHolidayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("CreateHoliday decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	holiday, err := h.attendanceService.CreateHoliday(r.Context(), session, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Holiday created", attendance.NewHolidayResponse(holiday))
}

// ListHolidays implements AttendanceHandler.
func (h *attendanceHandlerImpl) ListHolidays(w http.ResponseWriter, r *http.Request) {
	holidays, err := h.attendanceService.ListHolidays(r.Context(), parseAttendanceFilter(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	items := make([]attendance.HolidayResponse, 0, len(holidays))
	for _, holiday := range holidays {
		items = append(items, attendance.NewHolidayResponse(holiday))
	}
	response.Success(w, items)
}
