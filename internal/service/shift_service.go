package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Yamine-coder/gestion-rh-sub010/internal/dto"
	"github.com/Yamine-coder/gestion-rh-sub010/internal/model"
	"github.com/Yamine-coder/gestion-rh-sub010/internal/repository"
)

// ── Shift errors ──

var (
	ErrShiftNotFound       = errors.New("shift not found")
	ErrShiftAlreadyPlanned = errors.New("a shift already exists for this employee and day")
	ErrShiftPayrollClosed  = errors.New("shift is payroll-closed and can no longer be changed")
	ErrShiftDayUnparseable = errors.New("day is not a valid date")
)

// ShiftService is the scheduler-facing planning interface.
type ShiftService interface {
	Create(ctx context.Context, req *dto.CreateShiftRequest) (*dto.ShiftResponse, error)
	Replan(ctx context.Context, id string, req *dto.ReplanShiftRequest) (*dto.ShiftResponse, error)
	ClosePayroll(ctx context.Context, id string) (*dto.ShiftResponse, error)
	Get(ctx context.Context, id string) (*dto.ShiftResponse, error)
	List(ctx context.Context, req *dto.ShiftListRequest) ([]dto.ShiftResponse, error)
}

type shiftService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewShiftService creates a ShiftService.
func NewShiftService(repo *repository.Repository, logger *zap.Logger) ShiftService {
	return &shiftService{repo: repo, logger: logger}
}

func (s *shiftService) Create(ctx context.Context, req *dto.CreateShiftRequest) (*dto.ShiftResponse, error) {
	day, err := time.Parse(model.DayFormat, req.Day)
	if err != nil {
		return nil, ErrShiftDayUnparseable
	}

	shift := &model.Shift{
		EmployeeID: req.EmployeeID,
		Day:        day,
		Segments:   toSegmentModels(req.Segments),
	}

	if err := s.repo.Shift.Create(ctx, shift); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrShiftAlreadyPlanned
		}
		s.logger.Error("create shift failed", zap.Error(err))
		return nil, err
	}

	return toShiftResponse(shift), nil
}

func (s *shiftService) Replan(ctx context.Context, id string, req *dto.ReplanShiftRequest) (*dto.ShiftResponse, error) {
	shift, err := s.getShift(ctx, id)
	if err != nil {
		return nil, err
	}
	if shift.PayrollClosed {
		return nil, ErrShiftPayrollClosed
	}

	if err := s.repo.Shift.ReplaceSegments(ctx, shift, toSegmentModels(req.Segments)); err != nil {
		s.logger.Error("replan shift failed", zap.String("shift_id", id), zap.Error(err))
		return nil, err
	}

	return toShiftResponse(shift), nil
}

func (s *shiftService) ClosePayroll(ctx context.Context, id string) (*dto.ShiftResponse, error) {
	shift, err := s.getShift(ctx, id)
	if err != nil {
		return nil, err
	}
	if shift.PayrollClosed {
		return toShiftResponse(shift), nil
	}

	if err := s.repo.Shift.SetPayrollClosed(ctx, shift); err != nil {
		s.logger.Error("close shift failed", zap.String("shift_id", id), zap.Error(err))
		return nil, err
	}
	return toShiftResponse(shift), nil
}

func (s *shiftService) Get(ctx context.Context, id string) (*dto.ShiftResponse, error) {
	shift, err := s.getShift(ctx, id)
	if err != nil {
		return nil, err
	}
	return toShiftResponse(shift), nil
}

func (s *shiftService) List(ctx context.Context, req *dto.ShiftListRequest) ([]dto.ShiftResponse, error) {
	from, err := time.Parse(model.DayFormat, req.From)
	if err != nil {
		return nil, ErrShiftDayUnparseable
	}
	to, err := time.Parse(model.DayFormat, req.To)
	if err != nil {
		return nil, ErrShiftDayUnparseable
	}

	shifts, err := s.repo.Shift.ListByDayRange(ctx, from, to, req.EmployeeID)
	if err != nil {
		s.logger.Error("list shifts failed", zap.Error(err))
		return nil, err
	}

	result := make([]dto.ShiftResponse, 0, len(shifts))
	for i := range shifts {
		result = append(result, *toShiftResponse(&shifts[i]))
	}
	return result, nil
}

// ── Helpers ──

func (s *shiftService) getShift(ctx context.Context, id string) (*model.Shift, error) {
	shift, err := s.repo.Shift.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrShiftNotFound
		}
		s.logger.Error("load shift failed", zap.String("shift_id", id), zap.Error(err))
		return nil, err
	}
	return shift, nil
}

func toSegmentModels(payloads []dto.SegmentPayload) []model.ShiftSegment {
	segments := make([]model.ShiftSegment, 0, len(payloads))
	for i, p := range payloads {
		segments = append(segments, model.ShiftSegment{
			Position:  i,
			Kind:      p.Kind,
			StartTime: p.Start,
			EndTime:   p.End,
		})
	}
	return segments
}

func toShiftResponse(shift *model.Shift) *dto.ShiftResponse {
	segments := make([]dto.SegmentResponse, 0, len(shift.Segments))
	for _, seg := range shift.Segments {
		segments = append(segments, dto.SegmentResponse{
			Kind:  seg.Kind,
			Start: seg.StartTime,
			End:   seg.EndTime,
		})
	}
	return &dto.ShiftResponse{
		ID:            shift.ShiftID,
		EmployeeID:    shift.EmployeeID,
		Day:           shift.DayKey(),
		PayrollClosed: shift.PayrollClosed,
		Version:       shift.Version,
		Segments:      segments,
		CreatedAt:     shift.CreatedAt.Format(time.RFC3339),
		UpdatedAt:     shift.UpdatedAt.Format(time.RFC3339),
	}
}
