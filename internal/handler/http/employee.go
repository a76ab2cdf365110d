package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/cmlabs-hris/hris-approval-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-approval-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/hris-approval-go/internal/handler/http/response"
	"github.com/cmlabs-hris/hris-approval-go/internal/pkg/listquery"
)

type EmployeeHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
}

type employeeHandlerImpl struct {
	employeeService employee.EmployeeService
	limits          listquery.Limits
}

func NewEmployeeHandler(employeeService employee.EmployeeService, limits listquery.Limits) EmployeeHandler {
	return &employeeHandlerImpl{
		employeeService: employeeService,
		limits:          limits,
	}
}

// Create implements EmployeeHandler.
func (h *employeeHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	var req employee.CreateEmployeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("CreateEmployee decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	created, err := h.employeeService.Create(r.Context(), session, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Employee created", employee.NewEmployeeResponse(created))
}

// List implements EmployeeHandler.
func (h *employeeHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	q := r.URL.Query()
	filter := employee.EmployeeFilter{Search: q.Get("search")}
	if lineManagerID := q.Get("line_manager_id"); lineManagerID != "" {
		filter.LineManagerID = &lineManagerID
	}
	if activeOnly, err := strconv.ParseBool(q.Get("active_only")); err == nil {
		filter.ActiveOnly = activeOnly
	}

	params := listquery.Parse(r, h.limits)
	result, err := h.employeeService.List(r.Context(), session, filter, params)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Page(w, result, params.Limit, employee.NewEmployeeResponse)
}

// Get implements EmployeeHandler.
func (h *employeeHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Employee ID is required", nil)
		return
	}

	found, err := h.employeeService.Get(r.Context(), session, id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, employee.NewEmployeeResponse(found))
}
