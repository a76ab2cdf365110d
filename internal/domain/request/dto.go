package request

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/cmlabs-hris/hris-approval-go/internal/domain/auth"
	"github.com/cmlabs-hris/hris-approval-go/internal/pkg/validator"
)

const (
	MaxDescriptionLength = 1000

	// MaxLeaveDays bounds a single leave range.
	MaxLeaveDays = 366
)

type CreateRequestInput struct {
	EmployeeID  string `json:"employee_id"`
	Kind        Kind   `json:"kind"`
	Description string `json:"description"`

	// Attendance kinds
	Timestamp string `json:"timestamp,omitempty"`

	// Leave kinds
	StartDate string `json:"start_date,omitempty"`
	EndDate   string `json:"end_date,omitempty"`
}

func (r *CreateRequestInput) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs.Add("employee_id", "employee_id is required")
	}

	if validator.IsEmpty(r.Description) {
		errs.Add("description", "description is required")
	} else if utf8.RuneCountInString(r.Description) > MaxDescriptionLength {
		errs.Add("description", fmt.Sprintf("description must not exceed %d characters", MaxDescriptionLength))
	}

	switch {
	case r.Kind == "":
		errs.Add("kind", "kind is required")
	case !r.Kind.IsValid():
		errs.Add("kind", "kind must be one of "+joinKinds())
	case r.Kind.IsAttendance():
		if validator.IsEmpty(r.Timestamp) {
			errs.Add("timestamp", "timestamp is required for attendance corrections")
		} else if _, ok := validator.IsValidDateTime(r.Timestamp); !ok {
			errs.Add("timestamp", "timestamp must be an RFC3339 date-time")
		}
	case r.Kind.IsLeave():
		start, startOK := validator.IsValidDate(r.StartDate)
		end, endOK := validator.IsValidDate(r.EndDate)
		if !startOK {
			errs.Add("start_date", "start_date must be a date in YYYY-MM-DD format")
		}
		if !endOK {
			errs.Add("end_date", "end_date must be a date in YYYY-MM-DD format")
		}
		if startOK && endOK {
			if end.Before(start) {
				errs.Add("end_date", "end_date must not be before start_date")
			} else if r.Kind == KindLeaveHalfDay && !end.Equal(start) {
				errs.Add("end_date", "half-day leave must start and end on the same day")
			} else if LeaveDays(r.Kind, start, end) > MaxLeaveDays {
				errs.Add("end_date", fmt.Sprintf("leave must not span more than %d days", MaxLeaveDays))
			}
		}
	}

	return errs.Err()
}

// RequestedValue builds the tagged payload. It must only be called after
// Validate succeeded.
func (r *CreateRequestInput) RequestedValue() RequestedValue {
	if r.Kind.IsAttendance() {
		ts, _ := validator.IsValidDateTime(r.Timestamp)
		return RequestedValue{Attendance: &AttendanceCorrection{Timestamp: ts}}
	}
	start, _ := validator.IsValidDate(r.StartDate)
	end, _ := validator.IsValidDate(r.EndDate)
	return RequestedValue{Leave: &LeaveRange{
		StartDate: start,
		EndDate:   end,
		Days:      LeaveDays(r.Kind, start, end),
	}}
}

func joinKinds() string {
	names := make([]string, len(Kinds))
	for i, k := range Kinds {
		names[i] = string(k)
	}
	return strings.Join(names, ", ")
}

type UpdateStatusInput struct {
	Status     Status    `json:"status"`
	ActingRole auth.Role `json:"acting_role"`
	Note       string    `json:"note,omitempty"`
}

func (r *UpdateStatusInput) Validate() error {
	var errs validator.ValidationErrors

	r.Status = Status(strings.ToUpper(strings.TrimSpace(string(r.Status))))
	if !r.Status.IsValid() {
		errs.Add("status", "status is not a known request status")
	}

	role, ok := auth.ParseRole(string(r.ActingRole))
	if !ok || !role.IsApprover() {
		errs.Add("acting_role", "acting_role must be LINE_MANAGER or HR")
	}
	r.ActingRole = role

	if utf8.RuneCountInString(r.Note) > MaxDescriptionLength {
		errs.Add("note", fmt.Sprintf("note must not exceed %d characters", MaxDescriptionLength))
	}

	return errs.Err()
}

type DecisionInput struct {
	ActingRole auth.Role `json:"acting_role"`
	Note       string    `json:"note,omitempty"`
}

func (r *DecisionInput) Validate() error {
	var errs validator.ValidationErrors

	role, ok := auth.ParseRole(string(r.ActingRole))
	if !ok || !role.IsApprover() {
		errs.Add("acting_role", "acting_role must be LINE_MANAGER or HR")
	}
	r.ActingRole = role

	if utf8.RuneCountInString(r.Note) > MaxDescriptionLength {
		errs.Add("note", fmt.Sprintf("note must not exceed %d characters", MaxDescriptionLength))
	}

	return errs.Err()
}

type AttendanceValueResponse struct {
	Timestamp string `json:"timestamp"`
}

type LeaveValueResponse struct {
	StartDate string  `json:"start_date"`
	EndDate   string  `json:"end_date"`
	Days      float64 `json:"days"`
}

type RequestResponse struct {
	ID                string                   `json:"id"`
	EmployeeID        string                   `json:"employee_id"`
	Kind              Kind                     `json:"kind"`
	Status            Status                   `json:"status"`
	Attendance        *AttendanceValueResponse `json:"attendance,omitempty"`
	Leave             *LeaveValueResponse      `json:"leave,omitempty"`
	Description       string                   `json:"description"`
	NoteByLineManager *string                  `json:"note_by_line_manager"`
	NoteByHR          *string                  `json:"note_by_hr"`
	AllowedStatuses   map[auth.Role][]Status   `json:"allowed_statuses,omitempty"`
	Final             bool                     `json:"final"`
	CreatedAt         string                   `json:"created_at"`
	UpdatedAt         string                   `json:"updated_at"`
}

func NewRequestResponse(r Request) RequestResponse {
	resp := RequestResponse{
		ID:                r.ID,
		EmployeeID:        r.EmployeeID,
		Kind:              r.Kind,
		Status:            r.Status,
		Final:             IsTerminal(r.Status),
		Description:       r.Description,
		NoteByLineManager: r.NoteByLineManager,
		NoteByHR:          r.NoteByHR,
		CreatedAt:         r.CreatedAt.Format(time.RFC3339),
		UpdatedAt:         r.UpdatedAt.Format(time.RFC3339),
	}

	if a := r.RequestedValue.Attendance; a != nil {
		resp.Attendance = &AttendanceValueResponse{Timestamp: a.Timestamp.Format(time.RFC3339)}
	}
	if l := r.RequestedValue.Leave; l != nil {
		resp.Leave = &LeaveValueResponse{
			StartDate: l.StartDate.Format(validator.DateLayout),
			EndDate:   l.EndDate.Format(validator.DateLayout),
			Days:      l.Days,
		}
	}

	for _, role := range []auth.Role{auth.RoleLineManager, auth.RoleHR} {
		if next := AllowedTransitions(r.Status, role); len(next) > 0 {
			if resp.AllowedStatuses == nil {
				resp.AllowedStatuses = make(map[auth.Role][]Status)
			}
			resp.AllowedStatuses[role] = next
		}
	}

	return resp
}
