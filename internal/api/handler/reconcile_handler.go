package handler

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Yamine-coder/gestion-rh-sub010/internal/dto"
	"github.com/Yamine-coder/gestion-rh-sub010/internal/model"
	"github.com/Yamine-coder/gestion-rh-sub010/internal/service"
	"github.com/Yamine-coder/gestion-rh-sub010/pkg/response"
)

// ReconcileHandler serves the manual sweep trigger.
type ReconcileHandler struct {
	reconcileSvc service.ReconcileService
}

// NewReconcileHandler creates a ReconcileHandler.
func NewReconcileHandler(reconcileSvc service.ReconcileService) *ReconcileHandler {
	return &ReconcileHandler{reconcileSvc: reconcileSvc}
}

// Sweep reconciles every employee-day with a shift or a punch in the
// requested range.
// POST /api/v1/reconcile/sweep
func (h *ReconcileHandler) Sweep(c *gin.Context) {
	var req dto.SweepRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 17001, "from and to are required as YYYY-MM-DD")
		return
	}

	from, err := time.Parse(model.DayFormat, req.From)
	if err != nil {
		response.BadRequest(c, 17001, "from must be YYYY-MM-DD")
		return
	}
	to, err := time.Parse(model.DayFormat, req.To)
	if err != nil {
		response.BadRequest(c, 17001, "to must be YYYY-MM-DD")
		return
	}

	result, err := h.reconcileSvc.Sweep(c.Request.Context(), from, to)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidDayRange):
			response.BadRequest(c, 17002, "from must not be after to")
		case errors.Is(err, service.ErrSweepInProgress):
			response.Conflict(c, 17003, "a sweep is already running")
		default:
			response.InternalError(c)
		}
		return
	}

	response.OK(c, result)
}
