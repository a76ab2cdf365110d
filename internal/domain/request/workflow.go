package request

import (
	"slices"
	"time"

	"github.com/cmlabs-hris/hris-approval-go/internal/domain/auth"
)

// transitions is the complete approval table. A (status, role) pair that is
// absent has no legal move.
var transitions = map[Status]map[auth.Role][]Status{
	StatusPending: {
		auth.RoleLineManager: {StatusApprovedByLineManager, StatusRejectedByLineManager},
		auth.RoleHR:          {StatusApprovedByHR, StatusRejectedByHR},
	},
	StatusApprovedByLineManager: {
		auth.RoleHR: {StatusApprovedByHR, StatusRejectedByHR},
	},
}

// AllowedTransitions lists the statuses role may move a request to from current.
func AllowedTransitions(current Status, role auth.Role) []Status {
	return slices.Clone(transitions[current][role])
}

// IsTerminal reports whether no role can move a request out of s.
func IsTerminal(s Status) bool {
	return len(transitions[s]) == 0
}

// ValidateTransition checks a requested move against the table.
func ValidateTransition(current Status, role auth.Role, requested Status) error {
	if slices.Contains(transitions[current][role], requested) {
		return nil
	}
	return &IllegalTransitionError{Current: current, Requested: requested, Role: role}
}

// TargetStatus maps an approver's decision to the status it produces.
func TargetStatus(role auth.Role, outcome Outcome) (Status, bool) {
	switch {
	case role == auth.RoleLineManager && outcome == OutcomeApprove:
		return StatusApprovedByLineManager, true
	case role == auth.RoleLineManager && outcome == OutcomeReject:
		return StatusRejectedByLineManager, true
	case role == auth.RoleHR && outcome == OutcomeApprove:
		return StatusApprovedByHR, true
	case role == auth.RoleHR && outcome == OutcomeReject:
		return StatusRejectedByHR, true
	}
	return "", false
}

// Transition is the pure state-machine step.
func Transition(current Status, role auth.Role, outcome Outcome) (Status, error) {
	target, ok := TargetStatus(role, outcome)
	if !ok {
		return "", &IllegalTransitionError{Current: current, Role: role}
	}
	if err := ValidateTransition(current, role, target); err != nil {
		return "", err
	}
	return target, nil
}

// ApplyDecision returns a copy of r moved to status by role. The acting role's
// note is written only when non-empty and not yet set; the other role's note
// is never touched. r itself is not modified.
func ApplyDecision(r Request, role auth.Role, status Status, note string, now time.Time) (Request, error) {
	if err := ValidateTransition(r.Status, role, status); err != nil {
		return Request{}, err
	}

	next := r
	next.Status = status
	next.UpdatedAt = now

	if note != "" {
		n := note
		switch role {
		case auth.RoleLineManager:
			if next.NoteByLineManager == nil {
				next.NoteByLineManager = &n
			}
		case auth.RoleHR:
			if next.NoteByHR == nil {
				next.NoteByHR = &n
			}
		}
	}

	return next, nil
}
