package http

import (
	"net/http"

	"github.com/cmlabs-hris/hris-approval-go/internal/domain/report"
	"github.com/cmlabs-hris/hris-approval-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/hris-approval-go/internal/handler/http/response"
	"github.com/cmlabs-hris/hris-approval-go/internal/pkg/listquery"
)

type ReportHandler interface {
	Summary(w http.ResponseWriter, r *http.Request)
}

type reportHandlerImpl struct {
	reportService report.ReportService
	limits        listquery.Limits
}

func NewReportHandler(reportService report.ReportService, limits listquery.Limits) ReportHandler {
	return &reportHandlerImpl{
		reportService: reportService,
		limits:        limits,
	}
}

// Summary implements ReportHandler. The period defaults to month.
func (h *reportHandlerImpl) Summary(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	q := r.URL.Query()
	req := report.SummaryRequest{
		Period: q.Get("period"),
		Year:   report.ParseInt(q.Get("year")),
		Month:  report.ParseInt(q.Get("month")),
		Date:   q.Get("date"),
	}
	if req.Period == "" {
		req.Period = string(report.PeriodMonth)
	}

	params := listquery.Parse(r, h.limits)
	result, err := h.reportService.Summary(r.Context(), session, req, params)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Page(w, result, params.Limit, report.NewSummaryRowResponse)
}
