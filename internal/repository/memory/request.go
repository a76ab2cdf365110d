// Package memory provides in-process repositories for development and tests.
package memory

import (
	"context"
	"sync"

	"github.com/cmlabs-hris/hris-approval-go/internal/domain/request"
)

type RequestRepository struct {
	mu       sync.RWMutex
	requests map[string]request.Request
	order    []string
}

func NewRequestRepository() *RequestRepository {
	return &RequestRepository{requests: make(map[string]request.Request)}
}

// Create implements request.Repository.
func (m *RequestRepository) Create(ctx context.Context, r request.Request) (request.Request, error) {
	if err := ctx.Err(); err != nil {
		return request.Request{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.requests[r.ID] = cloneRequest(r)
	m.order = append(m.order, r.ID)
	return cloneRequest(r), nil
}

// GetByID implements request.Repository.
func (m *RequestRepository) GetByID(ctx context.Context, id string) (request.Request, error) {
	if err := ctx.Err(); err != nil {
		return request.Request{}, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	r, ok := m.requests[id]
	if !ok {
		return request.Request{}, request.ErrRequestNotFound
	}
	return cloneRequest(r), nil
}

// List implements request.Repository. Results come back in insertion order.
func (m *RequestRepository) List(ctx context.Context, filter request.Filter) ([]request.Request, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]request.Request, 0, len(m.order))
	for _, id := range m.order {
		r := m.requests[id]
		if filter.Matches(r) {
			result = append(result, cloneRequest(r))
		}
	}
	return result, nil
}

// Update implements request.Repository.
func (m *RequestRepository) Update(ctx context.Context, r request.Request, expected request.Status) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	stored, ok := m.requests[r.ID]
	if !ok {
		return request.ErrRequestNotFound
	}
	if stored.Status != expected {
		return request.ErrConcurrentModification
	}

	// Only the decision fields are mutable.
	stored.Status = r.Status
	stored.NoteByLineManager = cloneString(r.NoteByLineManager)
	stored.NoteByHR = cloneString(r.NoteByHR)
	stored.UpdatedAt = r.UpdatedAt
	m.requests[r.ID] = stored
	return nil
}

func cloneRequest(r request.Request) request.Request {
	out := r
	if r.RequestedValue.Attendance != nil {
		v := *r.RequestedValue.Attendance
		out.RequestedValue.Attendance = &v
	}
	if r.RequestedValue.Leave != nil {
		v := *r.RequestedValue.Leave
		out.RequestedValue.Leave = &v
	}
	out.NoteByLineManager = cloneString(r.NoteByLineManager)
	out.NoteByHR = cloneString(r.NoteByHR)
	return out
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
