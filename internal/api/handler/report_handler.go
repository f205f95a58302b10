package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/Yamine-coder/gestion-rh-sub010/internal/dto"
	"github.com/Yamine-coder/gestion-rh-sub010/internal/service"
	"github.com/Yamine-coder/gestion-rh-sub010/pkg/response"
)

// ReportHandler serves the period aggregation metrics.
type ReportHandler struct {
	reportSvc service.ReportService
}

// NewReportHandler creates a ReportHandler.
func NewReportHandler(reportSvc service.ReportService) *ReportHandler {
	return &ReportHandler{reportSvc: reportSvc}
}

// Attendance returns punctuality and attendance rates for a period.
// GET /api/v1/reports/attendance?from=...&to=...&employee_id=xxx
func (h *ReportHandler) Attendance(c *gin.Context) {
	var req dto.AttendanceReportRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 15001, "from and to are required as YYYY-MM-DD")
		return
	}

	report, err := h.reportSvc.AttendanceReport(c.Request.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrReportBadDayRange):
			response.BadRequest(c, 15002, "from must not be after to")
		default:
			response.InternalError(c)
		}
		return
	}

	response.OK(c, report)
}
