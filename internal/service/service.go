package service

import (
	"go.uber.org/zap"

	"github.com/Yamine-coder/gestion-rh-sub010/config"
	"github.com/Yamine-coder/gestion-rh-sub010/internal/repository"
	"github.com/Yamine-coder/gestion-rh-sub010/pkg/jwt"
	"github.com/Yamine-coder/gestion-rh-sub010/pkg/redis"
)

// Service aggregates all services.
type Service struct {
	Auth      AuthService
	Punch     PunchService
	Shift     ShiftService
	Anomaly   AnomalyService
	Reconcile ReconcileService
	Report    ReportService
	Export    ExportService
}

// NewService wires the service aggregate.
// rdb may be nil; only the sweep leader lock degrades.
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	rdb *redis.Client,
	logger *zap.Logger,
) *Service {
	reconcile := NewReconcileService(&cfg.Attendance, repo, rdb, logger)
	return &Service{
		Auth:      NewAuthService(repo, jwtMgr, logger),
		Punch:     NewPunchService(&cfg.Attendance, repo, reconcile, logger),
		Shift:     NewShiftService(repo, logger),
		Anomaly:   NewAnomalyService(repo, logger),
		Reconcile: reconcile,
		Report:    NewReportService(&cfg.Attendance, repo, logger),
		Export:    NewExportService(&cfg.Attendance, repo, logger),
	}
}
