package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/cmlabs-hris/hris-approval-go/internal/domain/request"
	"github.com/cmlabs-hris/hris-approval-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/hris-approval-go/internal/handler/http/response"
	"github.com/cmlabs-hris/hris-approval-go/internal/pkg/listquery"
	"github.com/cmlabs-hris/hris-approval-go/internal/pkg/validator"
)

type RequestHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	UpdateStatus(w http.ResponseWriter, r *http.Request)
	Approve(w http.ResponseWriter, r *http.Request)
	Reject(w http.ResponseWriter, r *http.Request)
}

type requestHandlerImpl struct {
	requestService request.Service
	limits         listquery.Limits
}

func NewRequestHandler(requestService request.Service, limits listquery.Limits) RequestHandler {
	return &requestHandlerImpl{
		requestService: requestService,
		limits:         limits,
	}
}

var requestSortFields = listquery.Fields[request.Request]{
	"created_at": listquery.ByTime(func(r request.Request) time.Time { return r.CreatedAt }),
	"updated_at": listquery.ByTime(func(r request.Request) time.Time { return r.UpdatedAt }),
	"status":     listquery.By(func(r request.Request) request.Status { return r.Status }),
	"kind":       listquery.By(func(r request.Request) request.Kind { return r.Kind }),
}

// Create implements RequestHandler.
func (h *requestHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	var req request.CreateRequestInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("CreateRequest decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	created, err := h.requestService.Create(r.Context(), session, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Request submitted", request.NewRequestResponse(created))
}

// List implements RequestHandler.
func (h *requestHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	filter, err := parseRequestFilter(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	requests, err := h.requestService.List(r.Context(), session, filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	params := listquery.Parse(r, h.limits)
	result := listquery.Apply(requests, listquery.Build(params, requestSortFields, "created_at", nil))

	response.Page(w, result, params.Limit, request.NewRequestResponse)
}

func parseRequestFilter(r *http.Request) (request.Filter, error) {
	var (
		filter request.Filter
		errs   validator.ValidationErrors
	)
	q := r.URL.Query()

	if employeeID := q.Get("employee_id"); employeeID != "" {
		filter.EmployeeID = &employeeID
	}

	if raw := q.Get("status"); raw != "" {
		status := request.Status(strings.ToUpper(raw))
		if status.IsValid() {
			filter.Status = &status
		} else {
			errs.Add("status", "status is not a known request status")
		}
	}

	if raw := q.Get("kind"); raw != "" {
		kind := request.Kind(strings.ToUpper(raw))
		if kind.IsValid() {
			filter.Kind = &kind
		} else {
			errs.Add("kind", "kind is not a known request kind")
		}
	}

	var dates request.DateRange
	if raw := q.Get("start_date"); raw != "" {
		d, ok := validator.IsValidDate(raw)
		if !ok {
			errs.Add("start_date", "start_date must be a date in YYYY-MM-DD format")
		}
		dates.From = d
	}
	if raw := q.Get("end_date"); raw != "" {
		d, ok := validator.IsValidDate(raw)
		if !ok {
			errs.Add("end_date", "end_date must be a date in YYYY-MM-DD format")
		}
		dates.To = d
	}
	if !dates.From.IsZero() && !dates.To.IsZero() && dates.To.Before(dates.From) {
		errs.Add("end_date", "end_date must not be before start_date")
	}
	if !dates.From.IsZero() || !dates.To.IsZero() {
		filter.DateRange = &dates
	}

	return filter, errs.Err()
}

// Get implements RequestHandler.
func (h *requestHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Request ID is required", nil)
		return
	}

	found, err := h.requestService.Get(r.Context(), session, id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, request.NewRequestResponse(found))
}

// UpdateStatus implements RequestHandler.
func (h *requestHandlerImpl) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	var req request.UpdateStatusInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("UpdateStatus decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	updated, err := h.requestService.UpdateStatus(r.Context(), session, chi.URLParam(r, "id"), req.Status, req.ActingRole, req.Note)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Request status updated", request.NewRequestResponse(updated))
}

// Approve implements RequestHandler.
func (h *requestHandlerImpl) Approve(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, request.OutcomeApprove, "Request approved")
}

// Reject implements RequestHandler.
func (h *requestHandlerImpl) Reject(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, request.OutcomeReject, "Request rejected")
}

func (h *requestHandlerImpl) decide(w http.ResponseWriter, r *http.Request, outcome request.Outcome, message string) {
	session, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	var req request.DecisionInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Decide decode error", "error", err, "outcome", outcome)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	updated, err := h.requestService.Decide(r.Context(), session, chi.URLParam(r, "id"), req.ActingRole, outcome, req.Note)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, message, request.NewRequestResponse(updated))
}
