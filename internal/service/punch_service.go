package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Yamine-coder/gestion-rh-sub010/config"
	"github.com/Yamine-coder/gestion-rh-sub010/internal/dto"
	"github.com/Yamine-coder/gestion-rh-sub010/internal/model"
	"github.com/Yamine-coder/gestion-rh-sub010/internal/repository"
)

// ── Punch errors ──

var (
	ErrPunchBadTimestamp    = errors.New("punch timestamp is not valid ISO-8601")
	ErrPunchFromFuture      = errors.New("punch timestamp is implausibly in the future")
	ErrPunchDayUnparseable  = errors.New("day is not a valid date")
)

// clockSkewAllowance tolerates small device clock drift before a punch
// is rejected as future-dated.
const clockSkewAllowance = 5 * time.Minute

// PunchService ingests raw clock events and serves the punch audit feed.
type PunchService interface {
	// Record stores a punch and immediately reconciles the affected
	// employee-day (the on-punch hook).
	Record(ctx context.Context, req *dto.RecordPunchRequest) (*dto.RecordPunchResponse, error)
	List(ctx context.Context, req *dto.PunchListRequest) ([]dto.PunchResponse, error)
}

type punchService struct {
	repo      *repository.Repository
	reconcile ReconcileService
	logger    *zap.Logger
	loc       *time.Location
	nowFn     func() time.Time
}

// NewPunchService creates a PunchService.
func NewPunchService(cfg *config.AttendanceConfig, repo *repository.Repository, reconcile ReconcileService, logger *zap.Logger) PunchService {
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		loc = time.UTC
	}
	return &punchService{
		repo:      repo,
		reconcile: reconcile,
		logger:    logger,
		loc:       loc,
		nowFn:     time.Now,
	}
}

func (s *punchService) Record(ctx context.Context, req *dto.RecordPunchRequest) (*dto.RecordPunchResponse, error) {
	punchedAt, err := time.Parse(time.RFC3339, req.Timestamp)
	if err != nil {
		return nil, ErrPunchBadTimestamp
	}
	punchedAt = punchedAt.UTC()

	// Clock-skew rejection happens here at the boundary; the engine
	// assumes sane timestamps.
	if punchedAt.After(s.nowFn().Add(clockSkewAllowance)) {
		return nil, ErrPunchFromFuture
	}

	day, minute := LocalDayMinute(punchedAt, s.loc)

	// Devices may emit badge references missing from the directory;
	// the raw event is stored regardless and surfaced by the report.
	if _, err := s.repo.Employee.GetByID(ctx, req.EmployeeID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Warn("punch references unknown employee",
				zap.String("employee_id", req.EmployeeID),
			)
		} else {
			return nil, err
		}
	}

	punch := &model.PunchEvent{
		EmployeeID:  req.EmployeeID,
		PunchedAt:   punchedAt,
		Kind:        req.Kind,
		Day:         day,
		MinuteOfDay: minute,
	}
	if err := s.repo.Punch.Create(ctx, punch); err != nil {
		s.logger.Error("store punch failed", zap.Error(err))
		return nil, err
	}

	created := s.reconcileAfterPunch(ctx, req.EmployeeID, day, minute)

	resp := &dto.RecordPunchResponse{Punch: toPunchResponse(punch)}
	for i := range created {
		resp.NewAnomalies = append(resp.NewAnomalies, *toAnomalyResponse(&created[i], ""))
	}
	return resp, nil
}

// reconcileAfterPunch runs the incremental reconciliation. An
// early-morning punch may belong to the previous day's late shift, so
// that day is reconciled too. Failures are logged, never returned: the
// punch itself is already safely stored and the next sweep will catch up.
func (s *punchService) reconcileAfterPunch(ctx context.Context, employeeID string, day time.Time, minute int) []model.Anomaly {
	created, err := s.reconcile.ReconcileDay(ctx, employeeID, day)
	if err != nil {
		s.logger.Error("on-punch reconcile failed",
			zap.String("employee_id", employeeID),
			zap.String("day", day.Format(model.DayFormat)),
			zap.Error(err),
		)
	}

	if minute < rolloverPunchBefore {
		prev, err := s.reconcile.ReconcileDay(ctx, employeeID, day.AddDate(0, 0, -1))
		if err != nil {
			s.logger.Error("on-punch reconcile of previous day failed",
				zap.String("employee_id", employeeID),
				zap.Error(err),
			)
		}
		created = append(created, prev...)
	}

	return created
}

func (s *punchService) List(ctx context.Context, req *dto.PunchListRequest) ([]dto.PunchResponse, error) {
	day, err := time.Parse(model.DayFormat, req.Day)
	if err != nil {
		return nil, ErrPunchDayUnparseable
	}

	punches, err := s.repo.Punch.ListByEmployeeDay(ctx, req.EmployeeID, day)
	if err != nil {
		s.logger.Error("list punches failed", zap.Error(err))
		return nil, err
	}

	result := make([]dto.PunchResponse, 0, len(punches))
	for i := range punches {
		result = append(result, *toPunchResponse(&punches[i]))
	}
	return result, nil
}

func toPunchResponse(p *model.PunchEvent) *dto.PunchResponse {
	return &dto.PunchResponse{
		ID:          p.PunchID,
		EmployeeID:  p.EmployeeID,
		PunchedAt:   p.PunchedAt.Format(time.RFC3339),
		Kind:        p.Kind,
		Day:         p.DayKey(),
		MinuteOfDay: p.MinuteOfDay,
	}
}
