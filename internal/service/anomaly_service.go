package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/Yamine-coder/gestion-rh-sub010/internal/dto"
	"github.com/Yamine-coder/gestion-rh-sub010/internal/model"
	"github.com/Yamine-coder/gestion-rh-sub010/internal/repository"
)

// ── Anomaly feed errors ──

var ErrAnomalyBadDayFilter = errors.New("day filter is not a valid date")

// AnomalyService serves the read-only review feed. Status transitions
// are owned by the external review workflow and are not exposed here.
type AnomalyService interface {
	List(ctx context.Context, req *dto.AnomalyListRequest) ([]dto.AnomalyResponse, int64, error)
}

type anomalyService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewAnomalyService creates an AnomalyService.
func NewAnomalyService(repo *repository.Repository, logger *zap.Logger) AnomalyService {
	return &anomalyService{repo: repo, logger: logger}
}

func (s *anomalyService) List(ctx context.Context, req *dto.AnomalyListRequest) ([]dto.AnomalyResponse, int64, error) {
	filter := repository.AnomalyFilter{
		EmployeeID: req.EmployeeID,
		Type:       req.Type,
		Severity:   req.Severity,
		Status:     req.Status,
	}
	var err error
	if req.From != "" {
		if filter.From, err = time.Parse(model.DayFormat, req.From); err != nil {
			return nil, 0, ErrAnomalyBadDayFilter
		}
	}
	if req.To != "" {
		if filter.To, err = time.Parse(model.DayFormat, req.To); err != nil {
			return nil, 0, ErrAnomalyBadDayFilter
		}
	}

	anomalies, total, err := s.repo.Anomaly.List(ctx, filter, req.Offset(), req.Limit())
	if err != nil {
		s.logger.Error("list anomalies failed", zap.Error(err))
		return nil, 0, err
	}

	names := s.employeeNames(ctx, anomalies)
	result := make([]dto.AnomalyResponse, 0, len(anomalies))
	for i := range anomalies {
		result = append(result, *toAnomalyResponse(&anomalies[i], names[anomalies[i].EmployeeID]))
	}
	return result, total, nil
}

// employeeNames resolves display names; a lookup failure degrades the
// feed to bare IDs instead of failing it.
func (s *anomalyService) employeeNames(ctx context.Context, anomalies []model.Anomaly) map[string]string {
	idSet := make(map[string]bool, len(anomalies))
	var ids []string
	for i := range anomalies {
		if !idSet[anomalies[i].EmployeeID] {
			idSet[anomalies[i].EmployeeID] = true
			ids = append(ids, anomalies[i].EmployeeID)
		}
	}

	names := make(map[string]string, len(ids))
	employees, err := s.repo.Employee.ListByIDs(ctx, ids)
	if err != nil {
		s.logger.Warn("resolve employee names failed", zap.Error(err))
		return names
	}
	for i := range employees {
		names[employees[i].EmployeeID] = employees[i].FullName
	}
	return names
}

func toAnomalyResponse(a *model.Anomaly, employeeName string) *dto.AnomalyResponse {
	return &dto.AnomalyResponse{
		ID:            a.AnomalyID,
		EmployeeID:    a.EmployeeID,
		EmployeeName:  employeeName,
		Day:           a.DayKey(),
		Type:          a.Type,
		Severity:      a.Severity,
		Status:        a.Status,
		Description:   a.Description,
		DetailPayload: a.DetailPayload,
		CreatedAt:     a.CreatedAt.Format(time.RFC3339),
	}
}
