package handler

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/Yamine-coder/gestion-rh-sub010/internal/service"
	"github.com/Yamine-coder/gestion-rh-sub010/pkg/response"
)

const (
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	icsContentType  = "text/calendar; charset=utf-8"
)

// ExportHandler serves the file export endpoints.
type ExportHandler struct {
	exportSvc service.ExportService
}

// NewExportHandler creates an ExportHandler.
func NewExportHandler(exportSvc service.ExportService) *ExportHandler {
	return &ExportHandler{exportSvc: exportSvc}
}

// Anomalies exports the anomalies of a period as an xlsx workbook.
// GET /api/v1/exports/anomalies.xlsx?from=...&to=...
func (h *ExportHandler) Anomalies(c *gin.Context) {
	buf, filename, err := h.exportSvc.ExportAnomalies(c.Request.Context(), c.Query("from"), c.Query("to"))
	if err != nil {
		h.handleExportError(c, err)
		return
	}

	writeDownload(c, filename, xlsxContentType, buf.Bytes())
}

// ShiftCalendar exports planned shifts as an iCalendar feed.
// GET /api/v1/exports/shifts.ics?from=...&to=...&employee_id=xxx
func (h *ExportHandler) ShiftCalendar(c *gin.Context) {
	buf, filename, err := h.exportSvc.ExportShiftCalendar(
		c.Request.Context(), c.Query("employee_id"), c.Query("from"), c.Query("to"))
	if err != nil {
		h.handleExportError(c, err)
		return
	}

	writeDownload(c, filename, icsContentType, buf.Bytes())
}

func writeDownload(c *gin.Context, filename, contentType string, data []byte) {
	encoded := url.QueryEscape(filename)
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+encoded)
	c.Data(http.StatusOK, contentType, data)
}

func (h *ExportHandler) handleExportError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrExportBadDayRange):
		response.BadRequest(c, 16001, "from and to are required as YYYY-MM-DD")
	case errors.Is(err, service.ErrExportNoAnomalies):
		response.NotFound(c, 16002, "no anomalies in the requested period")
	case errors.Is(err, service.ErrExportNoShifts):
		response.NotFound(c, 16003, "no shifts in the requested period")
	case errors.Is(err, service.ErrExportGenerateFail):
		response.InternalError(c)
	default:
		response.InternalError(c)
	}
}
