package request

import (
	"errors"
	"fmt"

	"github.com/cmlabs-hris/hris-approval-go/internal/domain/auth"
)

var (
	ErrRequestNotFound        = errors.New("request not found")
	ErrIllegalTransition      = errors.New("illegal status transition")
	ErrConcurrentModification = errors.New("request was modified concurrently")
	ErrTransport              = errors.New("request store unavailable")
)

// IllegalTransitionError identifies the rejected move. It unwraps to
// ErrIllegalTransition.
type IllegalTransitionError struct {
	Current   Status
	Requested Status
	Role      auth.Role
}

func (e *IllegalTransitionError) Error() string {
	requested := string(e.Requested)
	if requested == "" {
		requested = "<none>"
	}
	return fmt.Sprintf("illegal transition from %s to %s by %s", e.Current, requested, e.Role)
}

func (e *IllegalTransitionError) Unwrap() error {
	return ErrIllegalTransition
}

// TransportError reports a backing-store call that failed, timed out or was
// cancelled. The operation did not happen.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("request store %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() []error {
	return []error{ErrTransport, e.Err}
}
