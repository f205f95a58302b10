package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/Yamine-coder/gestion-rh-sub010/internal/model"
)

// AnomalyFilter narrows the anomaly review feed.
type AnomalyFilter struct {
	EmployeeID string
	From       time.Time
	To         time.Time
	Type       string
	Severity   string
	Status     string
}

// AnomalyRepository is the anomaly store interface.
// Only Create and reads: status transitions belong to the external
// review workflow and have no method here on purpose.
type AnomalyRepository interface {
	// Create inserts a new anomaly. The unique (employee_id, day, type)
	// index makes concurrent same-key inserts fail with
	// gorm.ErrDuplicatedKey, which callers treat as "already exists".
	Create(ctx context.Context, anomaly *model.Anomaly) error
	FindByKey(ctx context.Context, employeeID string, day time.Time, anomalyType string) (*model.Anomaly, error)
	List(ctx context.Context, filter AnomalyFilter, offset, limit int) ([]model.Anomaly, int64, error)
	ListByDayRange(ctx context.Context, from, to time.Time, employeeID string) ([]model.Anomaly, error)
}

type anomalyRepo struct {
	db *gorm.DB
}

func NewAnomalyRepo(db *gorm.DB) AnomalyRepository {
	return &anomalyRepo{db: db}
}

func (r *anomalyRepo) Create(ctx context.Context, anomaly *model.Anomaly) error {
	return r.db.WithContext(ctx).Create(anomaly).Error
}

func (r *anomalyRepo) FindByKey(ctx context.Context, employeeID string, day time.Time, anomalyType string) (*model.Anomaly, error) {
	var anomaly model.Anomaly
	err := r.db.WithContext(ctx).
		Where("employee_id = ? AND day = ? AND type = ?",
			employeeID, day.Format(model.DayFormat), anomalyType).
		First(&anomaly).Error
	if err != nil {
		return nil, err
	}
	return &anomaly, nil
}

func (r *anomalyRepo) List(ctx context.Context, filter AnomalyFilter, offset, limit int) ([]model.Anomaly, int64, error) {
	var anomalies []model.Anomaly
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Anomaly{})
	if filter.EmployeeID != "" {
		q = q.Where("employee_id = ?", filter.EmployeeID)
	}
	if !filter.From.IsZero() {
		q = q.Where("day >= ?", filter.From.Format(model.DayFormat))
	}
	if !filter.To.IsZero() {
		q = q.Where("day <= ?", filter.To.Format(model.DayFormat))
	}
	if filter.Type != "" {
		q = q.Where("type = ?", filter.Type)
	}
	if filter.Severity != "" {
		q = q.Where("severity = ?", filter.Severity)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := q.Offset(offset).Limit(limit).
		Order("day DESC, created_at DESC").
		Find(&anomalies).Error
	return anomalies, total, err
}

func (r *anomalyRepo) ListByDayRange(ctx context.Context, from, to time.Time, employeeID string) ([]model.Anomaly, error) {
	var anomalies []model.Anomaly
	q := r.db.WithContext(ctx).
		Where("day >= ? AND day <= ?", from.Format(model.DayFormat), to.Format(model.DayFormat))
	if employeeID != "" {
		q = q.Where("employee_id = ?", employeeID)
	}
	err := q.Order("day ASC, employee_id ASC").Find(&anomalies).Error
	return anomalies, err
}
