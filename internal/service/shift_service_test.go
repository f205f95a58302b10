package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/Yamine-coder/gestion-rh-sub010/internal/dto"
)

func planRequest(day string) *dto.CreateShiftRequest {
	return &dto.CreateShiftRequest{
		EmployeeID: testEmployeeID,
		Day:        day,
		Segments: []dto.SegmentPayload{
			{Kind: "work", Start: "09:00", End: "12:00"},
			{Kind: "break", Start: "12:00", End: "13:00"},
			{Kind: "work", Start: "13:00", End: "17:00"},
		},
	}
}

func TestShiftCreate(t *testing.T) {
	repo, _, _, _, _ := newMockRepository()
	svc := NewShiftService(repo, zap.NewNop())

	shift, err := svc.Create(context.Background(), planRequest("2026-02-10"))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if shift.Day != "2026-02-10" {
		t.Errorf("Day = %q, want 2026-02-10", shift.Day)
	}
	if len(shift.Segments) != 3 {
		t.Errorf("segments = %d, want 3", len(shift.Segments))
	}
	if shift.PayrollClosed {
		t.Error("new shift must not be payroll-closed")
	}
}

func TestShiftCreate_DuplicateDay(t *testing.T) {
	repo, _, _, _, _ := newMockRepository()
	svc := NewShiftService(repo, zap.NewNop())

	if _, err := svc.Create(context.Background(), planRequest("2026-02-10")); err != nil {
		t.Fatalf("first Create: %v", err)
	}
	_, err := svc.Create(context.Background(), planRequest("2026-02-10"))
	if !errors.Is(err, ErrShiftAlreadyPlanned) {
		t.Errorf("err = %v, want ErrShiftAlreadyPlanned", err)
	}
}

func TestShiftCreate_BadDay(t *testing.T) {
	repo, _, _, _, _ := newMockRepository()
	svc := NewShiftService(repo, zap.NewNop())

	if _, err := svc.Create(context.Background(), planRequest("10/02/2026")); !errors.Is(err, ErrShiftDayUnparseable) {
		t.Errorf("err = %v, want ErrShiftDayUnparseable", err)
	}
}

func TestShiftReplan(t *testing.T) {
	repo, _, _, _, _ := newMockRepository()
	svc := NewShiftService(repo, zap.NewNop())

	created, err := svc.Create(context.Background(), planRequest("2026-02-10"))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	replanned, err := svc.Replan(context.Background(), created.ID, &dto.ReplanShiftRequest{
		Segments: []dto.SegmentPayload{{Kind: "work", Start: "10:00", End: "18:00"}},
	})
	if err != nil {
		t.Fatalf("Replan: %v", err)
	}
	if len(replanned.Segments) != 1 || replanned.Segments[0].Start != "10:00" {
		t.Errorf("segments = %+v, want the replacement plan", replanned.Segments)
	}
	if replanned.Version <= created.Version {
		t.Errorf("version = %d, want bump past %d", replanned.Version, created.Version)
	}
}

func TestShiftReplan_RefusedOnceClosed(t *testing.T) {
	repo, _, _, _, _ := newMockRepository()
	svc := NewShiftService(repo, zap.NewNop())

	created, err := svc.Create(context.Background(), planRequest("2026-02-10"))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := svc.ClosePayroll(context.Background(), created.ID); err != nil {
		t.Fatalf("ClosePayroll: %v", err)
	}

	_, err = svc.Replan(context.Background(), created.ID, &dto.ReplanShiftRequest{
		Segments: []dto.SegmentPayload{{Kind: "work", Start: "10:00", End: "18:00"}},
	})
	if !errors.Is(err, ErrShiftPayrollClosed) {
		t.Errorf("err = %v, want ErrShiftPayrollClosed", err)
	}
}

func TestShiftClosePayroll_Idempotent(t *testing.T) {
	repo, _, _, _, _ := newMockRepository()
	svc := NewShiftService(repo, zap.NewNop())

	created, err := svc.Create(context.Background(), planRequest("2026-02-10"))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	first, err := svc.ClosePayroll(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("first ClosePayroll: %v", err)
	}
	if !first.PayrollClosed {
		t.Error("PayrollClosed = false after close")
	}

	second, err := svc.ClosePayroll(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("second ClosePayroll: %v", err)
	}
	if second.Version != first.Version {
		t.Errorf("second close bumped version %d → %d, want no-op", first.Version, second.Version)
	}
}

func TestShiftGet_NotFound(t *testing.T) {
	repo, _, _, _, _ := newMockRepository()
	svc := NewShiftService(repo, zap.NewNop())

	if _, err := svc.Get(context.Background(), "missing"); !errors.Is(err, ErrShiftNotFound) {
		t.Errorf("err = %v, want ErrShiftNotFound", err)
	}
}

func TestShiftList_FiltersByRange(t *testing.T) {
	repo, _, _, _, _ := newMockRepository()
	svc := NewShiftService(repo, zap.NewNop())

	for _, day := range []string{"2026-02-09", "2026-02-10", "2026-03-01"} {
		if _, err := svc.Create(context.Background(), planRequest(day)); err != nil {
			t.Fatalf("Create %s: %v", day, err)
		}
	}

	list, err := svc.List(context.Background(), &dto.ShiftListRequest{
		DayRangeRequest: dto.DayRangeRequest{From: "2026-02-01", To: "2026-02-28"},
	})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 2 {
		t.Errorf("shifts = %d, want 2 inside February", len(list))
	}
}
