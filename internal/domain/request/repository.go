package request

import (
	"context"
)

// Repository - backing store for requests. Implementations return
// ErrRequestNotFound for unknown ids and ErrConcurrentModification when Update
// finds a status other than expected; any other error means the call did not
// reach or did not complete on the store.
type Repository interface {
	Create(ctx context.Context, r Request) (Request, error)
	GetByID(ctx context.Context, id string) (Request, error)
	List(ctx context.Context, filter Filter) ([]Request, error)
	Update(ctx context.Context, r Request, expected Status) error
}
