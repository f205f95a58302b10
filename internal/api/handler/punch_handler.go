package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/Yamine-coder/gestion-rh-sub010/internal/dto"
	"github.com/Yamine-coder/gestion-rh-sub010/internal/service"
	"github.com/Yamine-coder/gestion-rh-sub010/pkg/response"
)

// PunchHandler serves the clock-event endpoints.
type PunchHandler struct {
	punchSvc service.PunchService
}

// NewPunchHandler creates a PunchHandler.
func NewPunchHandler(punchSvc service.PunchService) *PunchHandler {
	return &PunchHandler{punchSvc: punchSvc}
}

// Record ingests one punch and reconciles the affected employee-day.
// POST /api/v1/punches
func (h *PunchHandler) Record(c *gin.Context) {
	var req dto.RecordPunchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 12001, "invalid punch payload")
		return
	}

	result, err := h.punchSvc.Record(c.Request.Context(), &req)
	if err != nil {
		h.handlePunchError(c, err)
		return
	}

	response.Created(c, result)
}

// List returns the stored punches for one employee-day.
// GET /api/v1/punches?employee_id=xxx&day=2026-02-10
func (h *PunchHandler) List(c *gin.Context) {
	var req dto.PunchListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 12001, "employee_id and day are required")
		return
	}

	punches, err := h.punchSvc.List(c.Request.Context(), &req)
	if err != nil {
		h.handlePunchError(c, err)
		return
	}

	response.OK(c, gin.H{"list": punches})
}

func (h *PunchHandler) handlePunchError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrPunchBadTimestamp):
		response.BadRequest(c, 12002, "timestamp must be ISO-8601")
	case errors.Is(err, service.ErrPunchFromFuture):
		response.BadRequest(c, 12003, "timestamp is in the future")
	case errors.Is(err, service.ErrPunchDayUnparseable):
		response.BadRequest(c, 12004, "day must be YYYY-MM-DD")
	default:
		response.InternalError(c)
	}
}
