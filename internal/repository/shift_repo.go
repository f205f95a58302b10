package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/Yamine-coder/gestion-rh-sub010/internal/model"
	pkgerrors "github.com/Yamine-coder/gestion-rh-sub010/pkg/errors"
)

// ShiftRepository is the planned-schedule access interface.
type ShiftRepository interface {
	Create(ctx context.Context, shift *model.Shift) error
	GetByID(ctx context.Context, id string) (*model.Shift, error)
	GetByEmployeeDay(ctx context.Context, employeeID string, day time.Time) (*model.Shift, error)
	ListByDayRange(ctx context.Context, from, to time.Time, employeeID string) ([]model.Shift, error)
	// ReplaceSegments swaps the segment plan under the optimistic-lock
	// version; fails with ErrOptimisticLock on concurrent replan.
	ReplaceSegments(ctx context.Context, shift *model.Shift, segments []model.ShiftSegment) error
	// SetPayrollClosed freezes the shift for payroll.
	SetPayrollClosed(ctx context.Context, shift *model.Shift) error
}

type shiftRepo struct {
	db *gorm.DB
}

func NewShiftRepo(db *gorm.DB) ShiftRepository {
	return &shiftRepo{db: db}
}

func (r *shiftRepo) Create(ctx context.Context, shift *model.Shift) error {
	return r.db.WithContext(ctx).Create(shift).Error
}

func (r *shiftRepo) GetByID(ctx context.Context, id string) (*model.Shift, error) {
	var shift model.Shift
	err := r.db.WithContext(ctx).
		Preload("Segments", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Where("shift_id = ?", id).
		First(&shift).Error
	if err != nil {
		return nil, err
	}
	return &shift, nil
}

func (r *shiftRepo) GetByEmployeeDay(ctx context.Context, employeeID string, day time.Time) (*model.Shift, error) {
	var shift model.Shift
	err := r.db.WithContext(ctx).
		Preload("Segments", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Where("employee_id = ? AND day = ?", employeeID, day.Format(model.DayFormat)).
		First(&shift).Error
	if err != nil {
		return nil, err
	}
	return &shift, nil
}

func (r *shiftRepo) ListByDayRange(ctx context.Context, from, to time.Time, employeeID string) ([]model.Shift, error) {
	var shifts []model.Shift
	q := r.db.WithContext(ctx).
		Preload("Segments", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Where("day >= ? AND day <= ?", from.Format(model.DayFormat), to.Format(model.DayFormat))
	if employeeID != "" {
		q = q.Where("employee_id = ?", employeeID)
	}
	err := q.Order("day ASC, employee_id ASC").Find(&shifts).Error
	return shifts, err
}

func (r *shiftRepo) ReplaceSegments(ctx context.Context, shift *model.Shift, segments []model.ShiftSegment) error {
	oldVersion := shift.Version
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(shift).
			Where("shift_id = ? AND version = ?", shift.ShiftID, oldVersion).
			Updates(map[string]interface{}{
				"version": oldVersion + 1,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return pkgerrors.ErrOptimisticLock
		}

		if err := tx.Where("shift_id = ?", shift.ShiftID).
			Delete(&model.ShiftSegment{}).Error; err != nil {
			return err
		}

		for i := range segments {
			segments[i].ShiftID = shift.ShiftID
			segments[i].Position = i
		}
		if len(segments) > 0 {
			if err := tx.Create(&segments).Error; err != nil {
				return err
			}
		}

		shift.Version = oldVersion + 1
		shift.Segments = segments
		return nil
	})
}

func (r *shiftRepo) SetPayrollClosed(ctx context.Context, shift *model.Shift) error {
	oldVersion := shift.Version
	result := r.db.WithContext(ctx).
		Model(shift).
		Where("shift_id = ? AND version = ?", shift.ShiftID, oldVersion).
		Updates(map[string]interface{}{
			"payroll_closed": true,
			"version":        oldVersion + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	shift.PayrollClosed = true
	shift.Version = oldVersion + 1
	return nil
}
