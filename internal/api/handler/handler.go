package handler

import "github.com/Yamine-coder/gestion-rh-sub010/internal/service"

// Handler aggregates all HTTP handlers.
type Handler struct {
	Auth      *AuthHandler
	Punch     *PunchHandler
	Shift     *ShiftHandler
	Anomaly   *AnomalyHandler
	Reconcile *ReconcileHandler
	Report    *ReportHandler
	Export    *ExportHandler
}

// NewHandler wires the handler aggregate.
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Auth:      NewAuthHandler(svc.Auth),
		Punch:     NewPunchHandler(svc.Punch),
		Shift:     NewShiftHandler(svc.Shift),
		Anomaly:   NewAnomalyHandler(svc.Anomaly),
		Reconcile: NewReconcileHandler(svc.Reconcile),
		Report:    NewReportHandler(svc.Report),
		Export:    NewExportHandler(svc.Export),
	}
}
