package service

import (
	"context"
	"errors"
	"math"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/Yamine-coder/gestion-rh-sub010/config"
	"github.com/Yamine-coder/gestion-rh-sub010/internal/dto"
	"github.com/Yamine-coder/gestion-rh-sub010/internal/model"
	"github.com/Yamine-coder/gestion-rh-sub010/internal/repository"
)

// ── Report errors ──

var ErrReportBadDayRange = errors.New("report day range is invalid")

// ReportService computes period punctuality and attendance rates.
//
// Both rates are percentages in [0, 100]. Employee-days with zero
// planned minutes are excluded from both denominators, and an empty
// denominator reports as 100 rather than dividing by zero.
type ReportService interface {
	AttendanceReport(ctx context.Context, req *dto.AttendanceReportRequest) (*dto.AttendanceReportResponse, error)
}

type reportService struct {
	repo   *repository.Repository
	logger *zap.Logger
	loc    *time.Location
	nowFn  func() time.Time
}

// NewReportService creates a ReportService.
func NewReportService(cfg *config.AttendanceConfig, repo *repository.Repository, logger *zap.Logger) ReportService {
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		loc = time.UTC
	}
	return &reportService{repo: repo, logger: logger, loc: loc, nowFn: time.Now}
}

func (s *reportService) AttendanceReport(ctx context.Context, req *dto.AttendanceReportRequest) (*dto.AttendanceReportResponse, error) {
	from, err := time.Parse(model.DayFormat, req.From)
	if err != nil {
		return nil, ErrReportBadDayRange
	}
	to, err := time.Parse(model.DayFormat, req.To)
	if err != nil {
		return nil, ErrReportBadDayRange
	}
	if to.Before(from) {
		return nil, ErrReportBadDayRange
	}

	shifts, err := s.repo.Shift.ListByDayRange(ctx, from, to, req.EmployeeID)
	if err != nil {
		s.logger.Error("list shifts for report failed", zap.Error(err))
		return nil, err
	}

	unknown, err := s.auditEmployees(ctx, from, to, shifts)
	if err != nil {
		return nil, err
	}

	nowDay, nowMinute := LocalDayMinute(s.nowFn(), s.loc)

	resp := &dto.AttendanceReportResponse{
		From:               req.From,
		To:                 req.To,
		UnknownEmployeeIDs: unknown,
	}

	unknownSet := make(map[string]bool, len(unknown))
	for _, id := range unknown {
		unknownSet[id] = true
	}

	for i := range shifts {
		shift := &shifts[i]
		// Unknown employees are excluded from the denominators but
		// already surfaced above for data audit.
		if unknownSet[shift.EmployeeID] {
			continue
		}

		resolved := ResolveSegments(shift, s.logger)
		if !resolved.HasPlannedWork() {
			// No planned work: excluded from both denominators.
			continue
		}

		marks, err := s.loadMarks(ctx, shift.EmployeeID, shift.Day, resolved)
		if err != nil {
			return nil, err
		}
		pairs := PairPunches(marks, s.logger)

		resp.PlannedDays++
		resp.TotalPlannedMinutes += resolved.PlannedMinutes
		resp.TotalWorkedMinutes += pairs.WorkedMinutes()

		if dayHasLateArrival(shift.EmployeeID, shift.Day, resolved, pairs, nowDay, nowMinute) {
			resp.LateDays++
		}
	}

	resp.PunctualityRate = punctualityRate(resp.LateDays, resp.PlannedDays)
	resp.AttendanceRate = attendanceRate(resp.TotalWorkedMinutes, resp.TotalPlannedMinutes)

	return resp, nil
}

// loadMarks mirrors the reconciler's day assembly, rollover included.
func (s *reportService) loadMarks(ctx context.Context, employeeID string, day time.Time, resolved ResolvedShift) ([]PunchMark, error) {
	punches, err := s.repo.Punch.ListByEmployeeDay(ctx, employeeID, day)
	if err != nil {
		return nil, err
	}
	marks := make([]PunchMark, 0, len(punches))
	for _, p := range punches {
		marks = append(marks, PunchMark{Minute: p.MinuteOfDay, Kind: p.Kind})
	}
	if resolved.HasPlannedWork() && resolved.PlannedEnd() > rolloverShiftEndAfter {
		overflow, err := s.repo.Punch.ListByEmployeeDay(ctx, employeeID, nextDay(day))
		if err != nil {
			return nil, err
		}
		for _, p := range overflow {
			if adjusted := rolloverAdjust(p.MinuteOfDay, resolved.PlannedEnd()); adjusted != p.MinuteOfDay {
				marks = append(marks, PunchMark{Minute: adjusted, Kind: p.Kind})
			}
		}
	}
	return marks, nil
}

// auditEmployees finds punch employee references missing from the
// directory. They are excluded from the rates and listed for audit.
func (s *reportService) auditEmployees(ctx context.Context, from, to time.Time, shifts []model.Shift) ([]string, error) {
	punchIDs, err := s.repo.Punch.DistinctEmployeeIDs(ctx, from, to)
	if err != nil {
		s.logger.Error("list punch employee ids failed", zap.Error(err))
		return nil, err
	}

	idSet := make(map[string]bool, len(punchIDs)+len(shifts))
	var ids []string
	add := func(id string) {
		if !idSet[id] {
			idSet[id] = true
			ids = append(ids, id)
		}
	}
	for _, id := range punchIDs {
		add(id)
	}
	for i := range shifts {
		add(shifts[i].EmployeeID)
	}

	employees, err := s.repo.Employee.ListByIDs(ctx, ids)
	if err != nil {
		s.logger.Error("resolve employees failed", zap.Error(err))
		return nil, err
	}
	known := make(map[string]bool, len(employees))
	for i := range employees {
		known[employees[i].EmployeeID] = true
	}

	var unknown []string
	for _, id := range ids {
		if !known[id] {
			unknown = append(unknown, id)
		}
	}
	sort.Strings(unknown)
	return unknown, nil
}

// dayHasLateArrival reports whether the day's arrival classifies as
// moderate or critical late. Several late intervals on one day still
// count the day once.
func dayHasLateArrival(employeeID string, day time.Time, resolved ResolvedShift, pairs PairResult, nowDay time.Time, nowMinute int) bool {
	for _, d := range CompareDay(employeeID, day, resolved, pairs, nowDay, nowMinute) {
		if d.Kind != DeviationArrival {
			continue
		}
		verdict, anomalous := Classify(d)
		if !anomalous {
			continue
		}
		if verdict.Type == model.AnomalyModerateLate || verdict.Type == model.AnomalyCriticalLate {
			return true
		}
	}
	return false
}

func punctualityRate(lateDays, plannedDays int) float64 {
	if plannedDays == 0 {
		return 100
	}
	rate := (1 - float64(lateDays)/float64(plannedDays)) * 100
	return math.Round(rate*100) / 100
}

func attendanceRate(worked, planned int) float64 {
	if planned == 0 {
		return 100
	}
	rate := float64(worked) / float64(planned) * 100
	if rate > 100 {
		return 100
	}
	return math.Round(rate*100) / 100
}
