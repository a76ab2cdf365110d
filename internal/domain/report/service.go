package report

import (
	"context"

	"github.com/cmlabs-hris/hris-approval-go/internal/domain/auth"
	"github.com/cmlabs-hris/hris-approval-go/internal/pkg/listquery"
)

type ReportService interface {
	Summary(ctx context.Context, session auth.Session, req SummaryRequest, params listquery.Params) (listquery.Result[SummaryRow], error)
}
