package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/hris-approval-go/internal/domain/auth"
	"github.com/cmlabs-hris/hris-approval-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-approval-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/hris-approval-go/internal/handler/http/response"
	"github.com/cmlabs-hris/hris-approval-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/hris-approval-go/internal/pkg/validator"
)

type AuthHandler interface {
	IssueToken(w http.ResponseWriter, r *http.Request)
	Me(w http.ResponseWriter, r *http.Request)
	Logout(w http.ResponseWriter, r *http.Request)
}

type AuthHandlerImpl struct {
	jwtService   jwt.Service
	employees    employee.EmployeeRepository
	issueEnabled bool
}

// NewAuthHandler wires the token endpoints. Identity is owned by an upstream
// provider; IssueToken only works when issueEnabled is set.
func NewAuthHandler(jwtService jwt.Service, employees employee.EmployeeRepository, issueEnabled bool) AuthHandler {
	return &AuthHandlerImpl{
		jwtService:   jwtService,
		employees:    employees,
		issueEnabled: issueEnabled,
	}
}

type IssueTokenRequest struct {
	EmployeeID string   `json:"employee_id"`
	Roles      []string `json:"roles"`
}

func (r *IssueTokenRequest) Validate() ([]auth.Role, error) {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs.Add("employee_id", "employee_id is required")
	}

	roles := make([]auth.Role, 0, len(r.Roles))
	for _, raw := range r.Roles {
		role, ok := auth.ParseRole(raw)
		if !ok {
			errs.Add("roles", "roles must be EMPLOYEE, LINE_MANAGER or HR")
			break
		}
		roles = append(roles, role)
	}

	return roles, errs.Err()
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresAt   int64  `json:"expires_at"`
}

type SessionResponse struct {
	EmployeeID string      `json:"employee_id"`
	Roles      []auth.Role `json:"roles"`
}

// IssueToken implements AuthHandler.
func (a *AuthHandlerImpl) IssueToken(w http.ResponseWriter, r *http.Request) {
	if !a.issueEnabled {
		response.HandleError(w, auth.ErrTokenIssuingDisabled)
		return
	}

	var req IssueTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("IssueToken decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	roles, err := req.Validate()
	if err != nil {
		response.HandleError(w, err)
		return
	}

	if _, err := a.employees.GetByID(r.Context(), req.EmployeeID); err != nil {
		response.HandleError(w, err)
		return
	}

	token, expiresAt, err := a.jwtService.GenerateAccessToken(req.EmployeeID, roles)
	if err != nil {
		slog.Error("GenerateAccessToken error", "error", err)
		response.InternalServerError(w, "Failed to generate token")
		return
	}

	response.Created(w, "Token issued", TokenResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresAt:   expiresAt,
	})
}

// Me implements AuthHandler.
func (a *AuthHandlerImpl) Me(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	roles := session.Roles
	if roles == nil {
		roles = []auth.Role{}
	}
	response.Success(w, SessionResponse{EmployeeID: session.EmployeeID, Roles: roles})
}

// Logout revokes the bearer token of the call.
func (a *AuthHandlerImpl) Logout(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	a.jwtService.RevokeToken(session.Token)
	response.Success(w, "Logged out successfully")
}
