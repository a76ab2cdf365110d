package response

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cmlabs-hris/hris-approval-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-approval-go/internal/domain/auth"
	"github.com/cmlabs-hris/hris-approval-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-approval-go/internal/domain/request"
	"github.com/cmlabs-hris/hris-approval-go/internal/pkg/validator"
)

func TestHandleError(t *testing.T) {
	var verrs validator.ValidationErrors
	verrs.Add("description", "description is required")

	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"validation", verrs, http.StatusUnprocessableEntity, "VALIDATION_ERROR"},
		{"illegal transition", &request.IllegalTransitionError{Current: request.StatusApprovedByHR, Requested: request.StatusRejectedByHR, Role: auth.RoleHR}, http.StatusConflict, "CONFLICT"},
		{"not found", fmt.Errorf("get: %w", request.ErrRequestNotFound), http.StatusNotFound, "NOT_FOUND"},
		{"concurrent", request.ErrConcurrentModification, http.StatusConflict, "CONFLICT"},
		{"transport", &request.TransportError{Op: "update", Err: context.DeadlineExceeded}, http.StatusBadGateway, "BAD_GATEWAY"},
		{"role not held", auth.ErrRoleNotHeld, http.StatusForbidden, "FORBIDDEN"},
		{"not line manager", auth.ErrNotLineManager, http.StatusForbidden, "FORBIDDEN"},
		{"invalid token", auth.ErrInvalidToken, http.StatusUnauthorized, "UNAUTHORIZED"},
		{"employee missing", fmt.Errorf("x: %w", employee.ErrEmployeeNotFound), http.StatusNotFound, "NOT_FOUND"},
		{"line manager missing", employee.ErrLineManagerNotFound, http.StatusUnprocessableEntity, "VALIDATION_ERROR"},
		{"already checked in", attendance.ErrAlreadyCheckedIn, http.StatusConflict, "CONFLICT"},
		{"not checked in", attendance.ErrNotCheckedIn, http.StatusBadRequest, "BAD_REQUEST"},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, "INTERNAL_SERVER_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			HandleError(rec, tt.err)

			assert.Equal(t, tt.status, rec.Code)
			var body Response
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.False(t, body.Success)
			require.NotNil(t, body.Error)
			assert.Equal(t, tt.code, body.Error.Code)
		})
	}
}

func TestHandleError_IllegalTransitionMessage(t *testing.T) {
	rec := httptest.NewRecorder()
	HandleError(rec, &request.IllegalTransitionError{
		Current:   request.StatusRejectedByLineManager,
		Requested: request.StatusApprovedByLineManager,
		Role:      auth.RoleLineManager,
	})

	var body Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "illegal transition from REJECTED_BY_LINE_MANAGER to APPROVED_BY_LINE_MANAGER by LINE_MANAGER", body.Error.Message)
}
