package request

import (
	"time"
)

// Kind discriminates the payload carried in RequestedValue.
type Kind string

const (
	KindAttendanceIn  Kind = "ATTENDANCE_IN"
	KindAttendanceOut Kind = "ATTENDANCE_OUT"
	KindLeaveSick     Kind = "LEAVE_SICK"
	KindLeaveAnnual   Kind = "LEAVE_ANNUAL"
	KindLeaveCasual   Kind = "LEAVE_CASUAL"
	KindLeaveHalfDay  Kind = "LEAVE_HALF_DAY"
)

var Kinds = []Kind{
	KindAttendanceIn,
	KindAttendanceOut,
	KindLeaveSick,
	KindLeaveAnnual,
	KindLeaveCasual,
	KindLeaveHalfDay,
}

func (k Kind) IsAttendance() bool {
	return k == KindAttendanceIn || k == KindAttendanceOut
}

func (k Kind) IsLeave() bool {
	switch k {
	case KindLeaveSick, KindLeaveAnnual, KindLeaveCasual, KindLeaveHalfDay:
		return true
	}
	return false
}

func (k Kind) IsValid() bool {
	return k.IsAttendance() || k.IsLeave()
}

type Status string

const (
	StatusPending               Status = "PENDING"
	StatusApprovedByLineManager Status = "APPROVED_BY_LINE_MANAGER"
	StatusRejectedByLineManager Status = "REJECTED_BY_LINE_MANAGER"
	StatusApprovedByHR          Status = "APPROVED_BY_HR"
	StatusRejectedByHR          Status = "REJECTED_BY_HR"
)

var Statuses = []Status{
	StatusPending,
	StatusApprovedByLineManager,
	StatusRejectedByLineManager,
	StatusApprovedByHR,
	StatusRejectedByHR,
}

func (s Status) IsValid() bool {
	for _, v := range Statuses {
		if v == s {
			return true
		}
	}
	return false
}

// Outcome is the decision an approver takes; the resulting status depends on
// the approver's role.
type Outcome string

const (
	OutcomeApprove Outcome = "APPROVE"
	OutcomeReject  Outcome = "REJECT"
)

// AttendanceCorrection is the payload of ATTENDANCE_IN / ATTENDANCE_OUT.
type AttendanceCorrection struct {
	Timestamp time.Time
}

// LeaveRange is the payload of the LEAVE_* kinds. Dates are whole days,
// both ends inclusive.
type LeaveRange struct {
	StartDate time.Time
	EndDate   time.Time
	Days      float64
}

// RequestedValue holds exactly one arm, selected by the request's Kind.
type RequestedValue struct {
	Attendance *AttendanceCorrection
	Leave      *LeaveRange
}

// Request entity
type Request struct {
	ID         string
	EmployeeID string
	Kind       Kind
	Status     Status

	RequestedValue RequestedValue
	Description    string

	NoteByLineManager *string
	NoteByHR          *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// EffectiveDates returns the first and last calendar day the request covers.
func (r Request) EffectiveDates() (time.Time, time.Time) {
	switch {
	case r.RequestedValue.Attendance != nil:
		d := DateOf(r.RequestedValue.Attendance.Timestamp)
		return d, d
	case r.RequestedValue.Leave != nil:
		return DateOf(r.RequestedValue.Leave.StartDate), DateOf(r.RequestedValue.Leave.EndDate)
	}
	d := DateOf(r.CreatedAt)
	return d, d
}

// DateOf truncates t to its calendar day, keeping the wall-clock date of t's
// own location and expressing it in UTC.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// LeaveDays counts inclusive calendar days; a half-day leave is worth 0.5.
func LeaveDays(kind Kind, start, end time.Time) float64 {
	if kind == KindLeaveHalfDay {
		return 0.5
	}
	days := DayNumber(end) - DayNumber(start) + 1
	if days < 0 {
		return 0
	}
	return float64(days)
}

// DayNumber counts calendar days since the Unix epoch for the wall-clock date
// of t. It does not overflow for any representable year.
func DayNumber(t time.Time) int64 {
	return DateOf(t).Unix() / secondsPerDay
}

const secondsPerDay = 24 * 60 * 60
