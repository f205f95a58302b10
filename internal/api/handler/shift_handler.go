package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/Yamine-coder/gestion-rh-sub010/internal/dto"
	"github.com/Yamine-coder/gestion-rh-sub010/internal/service"
	apperrors "github.com/Yamine-coder/gestion-rh-sub010/pkg/errors"
	"github.com/Yamine-coder/gestion-rh-sub010/pkg/response"
)

// ShiftHandler serves the shift-planning endpoints.
type ShiftHandler struct {
	shiftSvc service.ShiftService
}

// NewShiftHandler creates a ShiftHandler.
func NewShiftHandler(shiftSvc service.ShiftService) *ShiftHandler {
	return &ShiftHandler{shiftSvc: shiftSvc}
}

// Create plans one employee-day.
// POST /api/v1/shifts
func (h *ShiftHandler) Create(c *gin.Context) {
	var req dto.CreateShiftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 13001, "invalid shift payload")
		return
	}

	shift, err := h.shiftSvc.Create(c.Request.Context(), &req)
	if err != nil {
		h.handleShiftError(c, err)
		return
	}

	response.Created(c, shift)
}

// Replan replaces the segment plan of an open shift.
// PUT /api/v1/shifts/:id
func (h *ShiftHandler) Replan(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 13001, "shift id is required")
		return
	}

	var req dto.ReplanShiftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 13001, "invalid shift payload")
		return
	}

	shift, err := h.shiftSvc.Replan(c.Request.Context(), id, &req)
	if err != nil {
		h.handleShiftError(c, err)
		return
	}

	response.OK(c, shift)
}

// ClosePayroll freezes a shift for payroll.
// POST /api/v1/shifts/:id/close
func (h *ShiftHandler) ClosePayroll(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 13001, "shift id is required")
		return
	}

	shift, err := h.shiftSvc.ClosePayroll(c.Request.Context(), id)
	if err != nil {
		h.handleShiftError(c, err)
		return
	}

	response.OK(c, shift)
}

// Get returns one shift with its segments.
// GET /api/v1/shifts/:id
func (h *ShiftHandler) Get(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 13001, "shift id is required")
		return
	}

	shift, err := h.shiftSvc.Get(c.Request.Context(), id)
	if err != nil {
		h.handleShiftError(c, err)
		return
	}

	response.OK(c, shift)
}

// List returns shifts in a day range, optionally for one employee.
// GET /api/v1/shifts?from=2026-02-01&to=2026-02-28&employee_id=xxx
func (h *ShiftHandler) List(c *gin.Context) {
	var req dto.ShiftListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 13001, "from and to are required as YYYY-MM-DD")
		return
	}

	shifts, err := h.shiftSvc.List(c.Request.Context(), &req)
	if err != nil {
		h.handleShiftError(c, err)
		return
	}

	response.OK(c, gin.H{"list": shifts})
}

func (h *ShiftHandler) handleShiftError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrShiftNotFound):
		response.NotFound(c, 13002, "shift not found")
	case errors.Is(err, service.ErrShiftAlreadyPlanned):
		response.Conflict(c, 13003, "a shift already exists for this employee and day")
	case errors.Is(err, service.ErrShiftPayrollClosed):
		response.Conflict(c, 13004, "shift is payroll-closed")
	case errors.Is(err, service.ErrShiftDayUnparseable):
		response.BadRequest(c, 13005, "day must be YYYY-MM-DD")
	case errors.Is(err, apperrors.ErrOptimisticLock):
		response.Conflict(c, 13006, "shift was modified concurrently, retry")
	default:
		response.InternalError(c)
	}
}
