package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/Yamine-coder/gestion-rh-sub010/internal/dto"
	"github.com/Yamine-coder/gestion-rh-sub010/internal/service"
	"github.com/Yamine-coder/gestion-rh-sub010/pkg/response"
)

// AnomalyHandler serves the anomaly review feed.
type AnomalyHandler struct {
	anomalySvc service.AnomalyService
}

// NewAnomalyHandler creates an AnomalyHandler.
func NewAnomalyHandler(anomalySvc service.AnomalyService) *AnomalyHandler {
	return &AnomalyHandler{anomalySvc: anomalySvc}
}

// List returns persisted anomalies, filtered and paginated.
// GET /api/v1/anomalies?employee_id=xxx&from=...&to=...&type=...&severity=...&status=...
func (h *AnomalyHandler) List(c *gin.Context) {
	var req dto.AnomalyListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 14001, "invalid anomaly filter")
		return
	}

	anomalies, total, err := h.anomalySvc.List(c.Request.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrAnomalyBadDayFilter):
			response.BadRequest(c, 14002, "from and to must be YYYY-MM-DD")
		default:
			response.InternalError(c)
		}
		return
	}

	response.OKPage(c, anomalies, total, req.Page, req.Limit())
}
