package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/Yamine-coder/gestion-rh-sub010/internal/dto"
	"github.com/Yamine-coder/gestion-rh-sub010/internal/service"
	"github.com/Yamine-coder/gestion-rh-sub010/pkg/response"
)

// AuthHandler serves the authentication endpoints.
type AuthHandler struct {
	authSvc service.AuthService
}

// NewAuthHandler creates an AuthHandler.
func NewAuthHandler(authSvc service.AuthService) *AuthHandler {
	return &AuthHandler{authSvc: authSvc}
}

// Login exchanges credentials for an access token.
// POST /api/v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 11001, "invalid login payload")
		return
	}

	result, err := h.authSvc.Login(c.Request.Context(), &req)
	if err != nil {
		h.handleAuthError(c, err)
		return
	}

	response.OK(c, result)
}

// Me returns the authenticated employee's profile.
// GET /api/v1/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	employeeID := c.GetString("employee_id")

	employee, err := h.authSvc.Me(c.Request.Context(), employeeID)
	if err != nil {
		h.handleAuthError(c, err)
		return
	}

	response.OK(c, employee)
}

func (h *AuthHandler) handleAuthError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrAuthBadCredentials):
		response.Unauthorized(c, 11002, "invalid email or password")
	case errors.Is(err, service.ErrAuthEmployeeInactive):
		response.Forbidden(c, 11003, "employee account is deactivated")
	case errors.Is(err, service.ErrEmployeeNotFound):
		response.NotFound(c, 11004, "employee not found")
	default:
		response.InternalError(c)
	}
}
