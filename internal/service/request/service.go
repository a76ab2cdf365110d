package request

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/cmlabs-hris/hris-approval-go/internal/domain/auth"
	"github.com/cmlabs-hris/hris-approval-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-approval-go/internal/domain/request"
	"github.com/cmlabs-hris/hris-approval-go/internal/pkg/keylock"
	"github.com/cmlabs-hris/hris-approval-go/internal/pkg/sse"
)

// maxUpdateAttempts bounds how often UpdateStatus re-reads a request whose
// stored status changed underneath it.
const maxUpdateAttempts = 3

// EventPublisher is satisfied by *sse.Hub.
type EventPublisher interface {
	Publish(event sse.Event)
}

type RequestServiceImpl struct {
	repo      request.Repository
	employees employee.EmployeeRepository
	events    EventPublisher
	locks     *keylock.Map
	now       func() time.Time
}

type Option func(*RequestServiceImpl)

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(s *RequestServiceImpl) { s.now = now }
}

// NewRequestService wires the request workflow. events may be nil.
func NewRequestService(repo request.Repository, employees employee.EmployeeRepository, events EventPublisher, opts ...Option) request.Service {
	s := &RequestServiceImpl{
		repo:      repo,
		employees: employees,
		events:    events,
		locks:     keylock.New(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create implements request.Service.
func (s *RequestServiceImpl) Create(ctx context.Context, session auth.Session, input request.CreateRequestInput) (request.Request, error) {
	if input.EmployeeID == "" {
		input.EmployeeID = session.EmployeeID
	}
	if input.EmployeeID != session.EmployeeID && !session.IsHR() {
		return request.Request{}, auth.ErrInsufficientPermissions
	}
	if err := input.Validate(); err != nil {
		return request.Request{}, err
	}

	owner, err := s.employees.GetByID(ctx, input.EmployeeID)
	if err != nil {
		return request.Request{}, fmt.Errorf("failed to get employee %s: %w", input.EmployeeID, err)
	}

	id, err := uuid.NewV7()
	if err != nil {
		return request.Request{}, fmt.Errorf("failed to generate request id: %w", err)
	}

	now := s.now()
	created, err := s.repo.Create(ctx, request.Request{
		ID:             id.String(),
		EmployeeID:     owner.ID,
		Kind:           input.Kind,
		Status:         request.StatusPending,
		RequestedValue: input.RequestedValue(),
		Description:    input.Description,
		CreatedAt:      now,
		UpdatedAt:      now,
	})
	if err != nil {
		return request.Request{}, storeError("create", err)
	}

	if owner.LineManagerID != nil {
		s.publish(sse.Event{
			Recipient: *owner.LineManagerID,
			Type:      sse.EventRequestCreated,
			Data:      request.NewRequestResponse(created),
		})
	}

	return created, nil
}

// Get implements request.Service.
func (s *RequestServiceImpl) Get(ctx context.Context, session auth.Session, id string) (request.Request, error) {
	r, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return request.Request{}, storeError("get", err)
	}

	if !session.IsHR() && r.EmployeeID != session.EmployeeID {
		manages, err := s.manages(ctx, session, r.EmployeeID)
		if err != nil {
			return request.Request{}, err
		}
		if !manages {
			return request.Request{}, auth.ErrInsufficientPermissions
		}
	}

	return r, nil
}

// List implements request.Service. HR sees every request, line managers see
// their own and their direct reports', everyone else only their own.
func (s *RequestServiceImpl) List(ctx context.Context, session auth.Session, filter request.Filter) ([]request.Request, error) {
	if !session.IsHR() {
		visible := []string{session.EmployeeID}
		if session.IsLineManager() {
			reports, err := s.employees.ListByLineManager(ctx, session.EmployeeID)
			if err != nil {
				return nil, fmt.Errorf("failed to list direct reports: %w", err)
			}
			for _, e := range reports {
				visible = append(visible, e.ID)
			}
		}

		if filter.EmployeeIDs != nil {
			visible = slices.DeleteFunc(visible, func(id string) bool {
				return !slices.Contains(filter.EmployeeIDs, id)
			})
		}
		filter.EmployeeIDs = visible
	}

	list, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, storeError("list", err)
	}
	return list, nil
}

// UpdateStatus implements request.Service.
func (s *RequestServiceImpl) UpdateStatus(ctx context.Context, session auth.Session, id string, newStatus request.Status, actingRole auth.Role, note string) (request.Request, error) {
	return s.update(ctx, session, id, actingRole, note, func(request.Status) (request.Status, error) {
		return newStatus, nil
	})
}

// Decide implements request.Service.
func (s *RequestServiceImpl) Decide(ctx context.Context, session auth.Session, id string, actingRole auth.Role, outcome request.Outcome, note string) (request.Request, error) {
	return s.update(ctx, session, id, actingRole, note, func(current request.Status) (request.Status, error) {
		return request.Transition(current, actingRole, outcome)
	})
}

// update runs read, check and compare-and-set while holding the request's
// lock. The target is resolved against the status actually read, so a
// decision that lost a race is judged against the winner's result.
func (s *RequestServiceImpl) update(
	ctx context.Context,
	session auth.Session,
	id string,
	actingRole auth.Role,
	note string,
	target func(current request.Status) (request.Status, error),
) (request.Request, error) {
	if !actingRole.IsApprover() || !session.Has(actingRole) {
		return request.Request{}, auth.ErrRoleNotHeld
	}

	unlock, err := s.locks.Lock(ctx, id)
	if err != nil {
		return request.Request{}, &request.TransportError{Op: "lock", Err: err}
	}
	defer unlock()

	for attempt := 0; attempt < maxUpdateAttempts; attempt++ {
		current, err := s.repo.GetByID(ctx, id)
		if err != nil {
			return request.Request{}, storeError("get", err)
		}

		if actingRole == auth.RoleLineManager {
			manages, err := s.manages(ctx, session, current.EmployeeID)
			if err != nil {
				return request.Request{}, err
			}
			if !manages {
				return request.Request{}, auth.ErrNotLineManager
			}
		}

		status, err := target(current.Status)
		if err != nil {
			return request.Request{}, err
		}
		updated, err := request.ApplyDecision(current, actingRole, status, note, s.now())
		if err != nil {
			return request.Request{}, err
		}

		err = s.repo.Update(ctx, updated, current.Status)
		if errors.Is(err, request.ErrConcurrentModification) {
			continue
		}
		if err != nil {
			return request.Request{}, storeError("update", err)
		}

		s.publish(sse.Event{
			Recipient: updated.EmployeeID,
			Type:      sse.EventRequestStatusChanged,
			Data:      request.NewRequestResponse(updated),
		})
		return updated, nil
	}

	return request.Request{}, request.ErrConcurrentModification
}

// manages reports whether the session's employee is the direct line manager
// of employeeID.
func (s *RequestServiceImpl) manages(ctx context.Context, session auth.Session, employeeID string) (bool, error) {
	if !session.IsLineManager() {
		return false, nil
	}
	owner, err := s.employees.GetByID(ctx, employeeID)
	if errors.Is(err, employee.ErrEmployeeNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to get employee %s: %w", employeeID, err)
	}
	return owner.ReportsTo(session.EmployeeID), nil
}

func (s *RequestServiceImpl) publish(event sse.Event) {
	if s.events != nil {
		s.events.Publish(event)
	}
}

// storeError passes domain errors through and marks anything else as a
// failed store call.
func storeError(op string, err error) error {
	if errors.Is(err, request.ErrRequestNotFound) || errors.Is(err, request.ErrConcurrentModification) {
		return err
	}
	return &request.TransportError{Op: op, Err: err}
}
