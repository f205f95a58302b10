package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/Yamine-coder/gestion-rh-sub010/internal/model"
)

// EmployeeDay is a (employee, civil day) reconciliation key.
type EmployeeDay struct {
	EmployeeID string
	Day        time.Time
}

// PunchRepository is the raw clock-event access interface.
// Punches are append-only; there is no update or delete.
type PunchRepository interface {
	Create(ctx context.Context, punch *model.PunchEvent) error
	ListByEmployeeDay(ctx context.Context, employeeID string, day time.Time) ([]model.PunchEvent, error)
	DistinctEmployeeDays(ctx context.Context, from, to time.Time) ([]EmployeeDay, error)
	DistinctEmployeeIDs(ctx context.Context, from, to time.Time) ([]string, error)
}

type punchRepo struct {
	db *gorm.DB
}

func NewPunchRepo(db *gorm.DB) PunchRepository {
	return &punchRepo{db: db}
}

func (r *punchRepo) Create(ctx context.Context, punch *model.PunchEvent) error {
	return r.db.WithContext(ctx).Create(punch).Error
}

func (r *punchRepo) ListByEmployeeDay(ctx context.Context, employeeID string, day time.Time) ([]model.PunchEvent, error) {
	var punches []model.PunchEvent
	err := r.db.WithContext(ctx).
		Where("employee_id = ? AND day = ?", employeeID, day.Format(model.DayFormat)).
		Order("punched_at ASC").
		Find(&punches).Error
	return punches, err
}

func (r *punchRepo) DistinctEmployeeDays(ctx context.Context, from, to time.Time) ([]EmployeeDay, error) {
	var keys []EmployeeDay
	err := r.db.WithContext(ctx).
		Model(&model.PunchEvent{}).
		Select("DISTINCT employee_id, day").
		Where("day >= ? AND day <= ?", from.Format(model.DayFormat), to.Format(model.DayFormat)).
		Order("day ASC, employee_id ASC").
		Scan(&keys).Error
	return keys, err
}

func (r *punchRepo) DistinctEmployeeIDs(ctx context.Context, from, to time.Time) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).
		Model(&model.PunchEvent{}).
		Distinct("employee_id").
		Where("day >= ? AND day <= ?", from.Format(model.DayFormat), to.Format(model.DayFormat)).
		Pluck("employee_id", &ids).Error
	return ids, err
}
