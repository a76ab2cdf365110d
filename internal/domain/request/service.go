package request

import (
	"context"

	"github.com/cmlabs-hris/hris-approval-go/internal/domain/auth"
)

type Service interface {
	Create(ctx context.Context, session auth.Session, input CreateRequestInput) (Request, error)
	Get(ctx context.Context, session auth.Session, id string) (Request, error)
	List(ctx context.Context, session auth.Session, filter Filter) ([]Request, error)
	UpdateStatus(ctx context.Context, session auth.Session, id string, newStatus Status, actingRole auth.Role, note string) (Request, error)
	Decide(ctx context.Context, session auth.Session, id string, actingRole auth.Role, outcome Outcome, note string) (Request, error)
}
