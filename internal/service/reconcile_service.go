package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Yamine-coder/gestion-rh-sub010/config"
	"github.com/Yamine-coder/gestion-rh-sub010/internal/dto"
	"github.com/Yamine-coder/gestion-rh-sub010/internal/model"
	"github.com/Yamine-coder/gestion-rh-sub010/internal/repository"
	"github.com/Yamine-coder/gestion-rh-sub010/pkg/redis"
)

// ── Reconciliation errors ──

var (
	ErrSweepInProgress = errors.New("a reconciliation sweep is already running")
	ErrInvalidDayRange = errors.New("invalid day range")
)

// sweepLockTTL bounds how long a crashed sweeper can block the next run.
const sweepLockTTL = 10 * time.Minute

// ReconcileService converts punch/shift data into persisted anomalies.
//
// Idempotent by construction: the anomaly key (employee, day, type) is
// unique, existing records in any status are skipped, and a lost insert
// race counts as success. Re-running over identical input creates
// nothing.
type ReconcileService interface {
	// ReconcileDay reconciles one employee-day and returns only the
	// anomalies created by this call.
	ReconcileDay(ctx context.Context, employeeID string, day time.Time) ([]model.Anomaly, error)
	// Sweep reconciles every employee-day with a shift or a punch in
	// [from, to]. Keys are independent and processed in parallel.
	Sweep(ctx context.Context, from, to time.Time) (*dto.SweepResponse, error)
}

type reconcileService struct {
	repo       *repository.Repository
	rdb        *redis.Client // nil: sweep runs unguarded (single instance)
	logger     *zap.Logger
	loc        *time.Location
	workers    int
	instanceID string
	nowFn      func() time.Time
}

// NewReconcileService creates a ReconcileService.
// The attendance timezone in cfg must already be validated.
func NewReconcileService(cfg *config.AttendanceConfig, repo *repository.Repository, rdb *redis.Client, logger *zap.Logger) ReconcileService {
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		// Config validation guarantees the zone loads; fall back hard
		// rather than silently using the server zone.
		loc = time.UTC
	}
	return &reconcileService{
		repo:       repo,
		rdb:        rdb,
		logger:     logger,
		loc:        loc,
		workers:    cfg.SweepWorkers,
		instanceID: uuid.New().String(),
		nowFn:      time.Now,
	}
}

// ────────────────────── ReconcileDay ──────────────────────

func (s *reconcileService) ReconcileDay(ctx context.Context, employeeID string, day time.Time) ([]model.Anomaly, error) {
	deviations, err := s.computeDeviations(ctx, employeeID, day)
	if err != nil {
		return nil, err
	}

	var created []model.Anomaly
	for _, d := range deviations {
		verdict, anomalous := Classify(d)
		if !anomalous {
			continue
		}
		anomaly, fresh, err := s.upsert(ctx, d, verdict)
		if err != nil {
			return created, err
		}
		if fresh {
			created = append(created, *anomaly)
		}
	}
	return created, nil
}

// computeDeviations assembles one employee-day and runs the comparison.
func (s *reconcileService) computeDeviations(ctx context.Context, employeeID string, day time.Time) ([]Deviation, error) {
	shift, err := s.repo.Shift.GetByEmployeeDay(ctx, employeeID, day)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("load shift: %w", err)
	}
	resolved := ResolveSegments(shift, s.logger)

	marks, err := s.assembleMarks(ctx, employeeID, day, resolved)
	if err != nil {
		return nil, err
	}
	pairs := PairPunches(marks, s.logger)

	nowDay, nowMinute := LocalDayMinute(s.nowFn(), s.loc)
	return CompareDay(employeeID, day, resolved, pairs, nowDay, nowMinute), nil
}

// assembleMarks loads the day's punches in minute space. For shifts
// ending after 20:00 it also pulls the next day's pre-04:00 punches and
// lifts them by one day (midnight rollover).
func (s *reconcileService) assembleMarks(ctx context.Context, employeeID string, day time.Time, resolved ResolvedShift) ([]PunchMark, error) {
	punches, err := s.repo.Punch.ListByEmployeeDay(ctx, employeeID, day)
	if err != nil {
		return nil, fmt.Errorf("load punches: %w", err)
	}

	marks := make([]PunchMark, 0, len(punches))
	for _, p := range punches {
		marks = append(marks, PunchMark{Minute: p.MinuteOfDay, Kind: p.Kind})
	}

	if resolved.HasPlannedWork() && resolved.PlannedEnd() > rolloverShiftEndAfter {
		overflow, err := s.repo.Punch.ListByEmployeeDay(ctx, employeeID, nextDay(day))
		if err != nil {
			return nil, fmt.Errorf("load rollover punches: %w", err)
		}
		for _, p := range overflow {
			if adjusted := rolloverAdjust(p.MinuteOfDay, resolved.PlannedEnd()); adjusted != p.MinuteOfDay {
				marks = append(marks, PunchMark{Minute: adjusted, Kind: p.Kind})
			}
		}
	}

	return marks, nil
}

// upsert creates the anomaly for a verdict unless its key already
// exists in any status. fresh is true only when this call inserted it.
func (s *reconcileService) upsert(ctx context.Context, d Deviation, verdict Verdict) (*model.Anomaly, bool, error) {
	existing, err := s.repo.Anomaly.FindByKey(ctx, d.EmployeeID, d.Day, verdict.Type)
	if err == nil {
		// Already recorded — possibly already reviewed. Never recreate,
		// overwrite, or reopen it.
		return existing, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, fmt.Errorf("find anomaly: %w", err)
	}

	anomaly := &model.Anomaly{
		EmployeeID:    d.EmployeeID,
		Day:           d.Day,
		Type:          verdict.Type,
		Severity:      verdict.Severity,
		Status:        model.AnomalyStatusPending,
		Description:   describeAnomaly(verdict.Type, d.DeltaMinutes),
		DetailPayload: anomalyPayload(d),
	}

	if err := s.repo.Anomaly.Create(ctx, anomaly); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// Lost the insert race to a concurrent reconciler; the key
			// exists, which is all this call has to guarantee.
			s.logger.Debug("anomaly insert lost race, treating as success",
				zap.String("employee_id", d.EmployeeID),
				zap.String("day", d.Day.Format(model.DayFormat)),
				zap.String("type", verdict.Type),
			)
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("create anomaly: %w", err)
	}

	return anomaly, true, nil
}

// anomalyPayload carries the numeric evidence for later audit.
func anomalyPayload(d Deviation) model.JSONMap {
	payload := model.JSONMap{"delta_minutes": d.DeltaMinutes}
	switch d.Kind {
	case DeviationAbsence:
		payload["planned_minutes"] = d.DeltaMinutes
	case DeviationPresence:
		payload["worked_minutes"] = d.DeltaMinutes
	case DeviationMissedBreak, DeviationContinuousWork:
		payload["continuous_minutes"] = d.DeltaMinutes
	}
	return payload
}

// describeAnomaly renders the review-feed description.
func describeAnomaly(anomalyType string, delta int) string {
	switch anomalyType {
	case model.AnomalyOutOfRangeEarly:
		return fmt.Sprintf("arrived %d min before schedule, outside the plausible range", delta)
	case model.AnomalyModerateLate:
		return fmt.Sprintf("arrived %d min late", -delta)
	case model.AnomalyCriticalLate:
		return fmt.Sprintf("arrived %d min late, beyond the critical threshold", -delta)
	case model.AnomalyOutOfRangeLate:
		return fmt.Sprintf("left %d min after schedule, outside the plausible range", delta)
	case model.AnomalyOvertimePending:
		return fmt.Sprintf("%d min overtime pending approval", delta)
	case model.AnomalyOvertimeAutoApproved:
		return fmt.Sprintf("%d min overtime, auto-approved", delta)
	case model.AnomalyEarlyDeparture:
		return fmt.Sprintf("left %d min before schedule", -delta)
	case model.AnomalyEarlyDepartureCritical:
		return fmt.Sprintf("left %d min before schedule, beyond the critical threshold", -delta)
	case model.AnomalyMissedBreak:
		return fmt.Sprintf("no break taken during %d min of continuous work", delta)
	case model.AnomalyContinuousWork:
		return fmt.Sprintf("%d min of continuous work exceeds the statutory limit", delta)
	case model.AnomalyUnplannedAbsence:
		return fmt.Sprintf("absent for a planned %d min shift", delta)
	case model.AnomalyUnplannedPresence:
		return fmt.Sprintf("%d min worked with no planned shift", delta)
	default:
		return fmt.Sprintf("attendance deviation of %d min", delta)
	}
}

// ────────────────────── Sweep ──────────────────────

func (s *reconcileService) Sweep(ctx context.Context, from, to time.Time) (*dto.SweepResponse, error) {
	if to.Before(from) {
		return nil, ErrInvalidDayRange
	}

	if s.rdb != nil {
		acquired, err := s.rdb.AcquireSweepLock(ctx, s.instanceID, sweepLockTTL)
		if err != nil {
			// Redis down: proceed unguarded rather than stall the sweep.
			s.logger.Warn("sweep lock unavailable, proceeding unguarded", zap.Error(err))
		} else if !acquired {
			return nil, ErrSweepInProgress
		} else {
			defer func() {
				if err := s.rdb.ReleaseSweepLock(context.WithoutCancel(ctx), s.instanceID); err != nil {
					s.logger.Warn("release sweep lock failed", zap.Error(err))
				}
			}()
		}
	}

	start := time.Now()
	keys, err := s.collectKeys(ctx, from, to)
	if err != nil {
		return nil, err
	}

	// Distinct keys reconcile independently; only the per-key insert is
	// serialized, and the unique index handles that.
	var createdCount, failedCount atomic.Int64
	jobs := make(chan repository.EmployeeDay)
	var wg sync.WaitGroup

	for i := 0; i < s.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for key := range jobs {
				created, err := s.ReconcileDay(ctx, key.EmployeeID, key.Day)
				if err != nil {
					// One bad employee-day never blocks the rest.
					failedCount.Add(1)
					s.logger.Error("reconcile employee-day failed",
						zap.String("employee_id", key.EmployeeID),
						zap.String("day", key.Day.Format(model.DayFormat)),
						zap.Error(err),
					)
					continue
				}
				createdCount.Add(int64(len(created)))
			}
		}()
	}

	for _, key := range keys {
		jobs <- key
	}
	close(jobs)
	wg.Wait()

	resp := &dto.SweepResponse{
		From:        from.Format(model.DayFormat),
		To:          to.Format(model.DayFormat),
		KeysScanned: len(keys),
		Created:     int(createdCount.Load()),
		FailedKeys:  int(failedCount.Load()),
		DurationMS:  time.Since(start).Milliseconds(),
	}

	s.logger.Info("reconciliation sweep finished",
		zap.String("from", resp.From),
		zap.String("to", resp.To),
		zap.Int("keys", resp.KeysScanned),
		zap.Int("created", resp.Created),
		zap.Int("failed", resp.FailedKeys),
		zap.Int64("duration_ms", resp.DurationMS),
	)

	return resp, nil
}

// collectKeys unions the employee-days that have a shift or a punch.
func (s *reconcileService) collectKeys(ctx context.Context, from, to time.Time) ([]repository.EmployeeDay, error) {
	shifts, err := s.repo.Shift.ListByDayRange(ctx, from, to, "")
	if err != nil {
		return nil, fmt.Errorf("list shifts: %w", err)
	}
	punchKeys, err := s.repo.Punch.DistinctEmployeeDays(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("list punch days: %w", err)
	}

	seen := make(map[string]bool, len(shifts)+len(punchKeys))
	keys := make([]repository.EmployeeDay, 0, len(shifts)+len(punchKeys))
	add := func(employeeID string, day time.Time) {
		k := employeeID + "|" + day.Format(model.DayFormat)
		if seen[k] {
			return
		}
		seen[k] = true
		keys = append(keys, repository.EmployeeDay{EmployeeID: employeeID, Day: day})
	}
	for i := range shifts {
		add(shifts[i].EmployeeID, shifts[i].Day)
	}
	for _, pk := range punchKeys {
		add(pk.EmployeeID, pk.Day)
	}
	return keys, nil
}
