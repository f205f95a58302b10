package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/Yamine-coder/gestion-rh-sub010/config"
	"github.com/Yamine-coder/gestion-rh-sub010/internal/model"
	"github.com/Yamine-coder/gestion-rh-sub010/internal/repository"
)

func newTestReconciler(repo *repository.Repository) *reconcileService {
	cfg := &config.AttendanceConfig{Timezone: "Europe/Paris", SweepWorkers: 4}
	svc := NewReconcileService(cfg, repo, nil, zap.NewNop()).(*reconcileService)
	// Evaluate well past every test day so planned ends have passed.
	svc.nowFn = func() time.Time {
		return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	}
	return svc
}

func seedLateDay(t *testing.T, shifts *mockShiftRepo, punches *mockPunchRepo, employeeID string, day time.Time) {
	t.Helper()
	err := shifts.Create(context.Background(), &model.Shift{
		EmployeeID: employeeID,
		Day:        day,
		Segments: []model.ShiftSegment{
			workSegment("09:00", "12:00"),
			breakSegment("12:00", "13:00"),
			workSegment("13:00", "17:00"),
		},
	})
	if err != nil {
		t.Fatalf("seed shift: %v", err)
	}
	for _, p := range []struct {
		minute int
		kind   string
	}{
		{560, model.PunchKindArrival},
		{720, model.PunchKindDeparture},
		{780, model.PunchKindArrival},
		{960, model.PunchKindDeparture},
	} {
		err := punches.Create(context.Background(), &model.PunchEvent{
			EmployeeID:  employeeID,
			Day:         day,
			MinuteOfDay: p.minute,
			Kind:        p.kind,
		})
		if err != nil {
			t.Fatalf("seed punch: %v", err)
		}
	}
}

func TestReconcileDay_CreatesPendingAnomalies(t *testing.T) {
	repo, _, shifts, punches, _ := newMockRepository()
	day := civilDate(2026, 2, 10)
	seedLateDay(t, shifts, punches, testEmployeeID, day)

	svc := newTestReconciler(repo)
	created, err := svc.ReconcileDay(context.Background(), testEmployeeID, day)
	if err != nil {
		t.Fatalf("ReconcileDay: %v", err)
	}

	if len(created) != 2 {
		t.Fatalf("created = %d anomalies, want 2 (late arrival + early departure)", len(created))
	}
	byType := make(map[string]model.Anomaly, len(created))
	for _, a := range created {
		byType[a.Type] = a
		if a.Status != model.AnomalyStatusPending {
			t.Errorf("%s status = %q, want pending", a.Type, a.Status)
		}
	}

	late, ok := byType[model.AnomalyModerateLate]
	if !ok {
		t.Fatal("moderate_late anomaly missing")
	}
	if late.DetailPayload["delta_minutes"] != -20 {
		t.Errorf("moderate_late delta payload = %v, want -20", late.DetailPayload["delta_minutes"])
	}
	if _, ok := byType[model.AnomalyEarlyDeparture]; !ok {
		t.Error("early_departure anomaly missing")
	}
}

func TestReconcileDay_Idempotent(t *testing.T) {
	repo, _, shifts, punches, anomalies := newMockRepository()
	day := civilDate(2026, 2, 10)
	seedLateDay(t, shifts, punches, testEmployeeID, day)

	svc := newTestReconciler(repo)
	first, err := svc.ReconcileDay(context.Background(), testEmployeeID, day)
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	second, err := svc.ReconcileDay(context.Background(), testEmployeeID, day)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}

	if len(second) != 0 {
		t.Errorf("second run created %d anomalies, want 0", len(second))
	}
	if len(anomalies.anomalies) != len(first) {
		t.Errorf("store holds %d anomalies, want %d", len(anomalies.anomalies), len(first))
	}
}

func TestReconcileDay_NeverReopensReviewedAnomaly(t *testing.T) {
	repo, _, shifts, punches, anomalies := newMockRepository()
	day := civilDate(2026, 2, 10)
	seedLateDay(t, shifts, punches, testEmployeeID, day)

	// The late arrival was already reviewed and refused.
	err := anomalies.Create(context.Background(), &model.Anomaly{
		EmployeeID: testEmployeeID,
		Day:        day,
		Type:       model.AnomalyModerateLate,
		Severity:   model.SeverityWarning,
		Status:     model.AnomalyStatusRefused,
	})
	if err != nil {
		t.Fatalf("seed anomaly: %v", err)
	}

	svc := newTestReconciler(repo)
	created, err := svc.ReconcileDay(context.Background(), testEmployeeID, day)
	if err != nil {
		t.Fatalf("ReconcileDay: %v", err)
	}

	for _, a := range created {
		if a.Type == model.AnomalyModerateLate {
			t.Error("reviewed anomaly was recreated")
		}
	}
	existing, err := anomalies.FindByKey(context.Background(), testEmployeeID, day, model.AnomalyModerateLate)
	if err != nil {
		t.Fatalf("FindByKey: %v", err)
	}
	if existing.Status != model.AnomalyStatusRefused {
		t.Errorf("status = %q, want refused untouched", existing.Status)
	}
}

func TestReconcileDay_LostInsertRaceIsSuccess(t *testing.T) {
	repo, _, shifts, punches, anomalies := newMockRepository()
	day := civilDate(2026, 2, 10)
	seedLateDay(t, shifts, punches, testEmployeeID, day)
	anomalies.failNextCreate = true

	svc := newTestReconciler(repo)
	created, err := svc.ReconcileDay(context.Background(), testEmployeeID, day)
	if err != nil {
		t.Fatalf("ReconcileDay must treat a lost race as success, got %v", err)
	}

	// The race-lost anomaly is not reported as created by this call.
	if len(created) != 1 {
		t.Errorf("created = %d, want 1 (the non-racing anomaly)", len(created))
	}
}

func TestReconcileDay_RolloverPullsNextDayPunches(t *testing.T) {
	repo, _, shifts, punches, _ := newMockRepository()
	day := civilDate(2026, 2, 10)

	err := shifts.Create(context.Background(), &model.Shift{
		EmployeeID: testEmployeeID,
		Day:        day,
		Segments:   []model.ShiftSegment{workSegment("22:00", "04:00")},
	})
	if err != nil {
		t.Fatalf("seed shift: %v", err)
	}
	// Arrival on the shift day, departure stored under the next civil
	// day at 03:50.
	for _, p := range []struct {
		day    time.Time
		minute int
		kind   string
	}{
		{day, 1320, model.PunchKindArrival},
		{nextDay(day), 230, model.PunchKindDeparture},
	} {
		err := punches.Create(context.Background(), &model.PunchEvent{
			EmployeeID:  testEmployeeID,
			Day:         p.day,
			MinuteOfDay: p.minute,
			Kind:        p.kind,
		})
		if err != nil {
			t.Fatalf("seed punch: %v", err)
		}
	}

	svc := newTestReconciler(repo)
	created, err := svc.ReconcileDay(context.Background(), testEmployeeID, day)
	if err != nil {
		t.Fatalf("ReconcileDay: %v", err)
	}

	// 03:50 against a 04:00 end is 10 minutes early: inside tolerance,
	// and crucially not an absence or open day.
	for _, a := range created {
		if a.Type == model.AnomalyUnplannedAbsence {
			t.Error("rollover departure was not matched to the night shift")
		}
	}
}

func TestSweep_CoversShiftAndPunchDays(t *testing.T) {
	repo, _, shifts, punches, _ := newMockRepository()
	from := civilDate(2026, 2, 9)
	to := civilDate(2026, 2, 11)

	// Day with shift + punches.
	seedLateDay(t, shifts, punches, testEmployeeID, civilDate(2026, 2, 10))
	// Day with a shift and no punches (absence).
	err := shifts.Create(context.Background(), &model.Shift{
		EmployeeID: "22222222-2222-2222-2222-222222222222",
		Day:        civilDate(2026, 2, 9),
		Segments:   []model.ShiftSegment{workSegment("09:00", "17:00")},
	})
	if err != nil {
		t.Fatalf("seed shift: %v", err)
	}
	// Day with punches and no shift (unplanned presence).
	for _, p := range []struct {
		minute int
		kind   string
	}{
		{630, model.PunchKindArrival},
		{855, model.PunchKindDeparture},
	} {
		err := punches.Create(context.Background(), &model.PunchEvent{
			EmployeeID:  "33333333-3333-3333-3333-333333333333",
			Day:         civilDate(2026, 2, 11),
			MinuteOfDay: p.minute,
			Kind:        p.kind,
		})
		if err != nil {
			t.Fatalf("seed punch: %v", err)
		}
	}

	svc := newTestReconciler(repo)
	resp, err := svc.Sweep(context.Background(), from, to)
	if err != nil {
		t.Fatalf("Sweep: %v", err)
	}

	if resp.KeysScanned != 3 {
		t.Errorf("KeysScanned = %d, want 3", resp.KeysScanned)
	}
	// moderate_late + early_departure + unplanned_absence + unplanned_presence.
	if resp.Created != 4 {
		t.Errorf("Created = %d, want 4", resp.Created)
	}
	if resp.FailedKeys != 0 {
		t.Errorf("FailedKeys = %d, want 0", resp.FailedKeys)
	}

	// A second sweep over the same window is a no-op.
	again, err := svc.Sweep(context.Background(), from, to)
	if err != nil {
		t.Fatalf("second Sweep: %v", err)
	}
	if again.Created != 0 {
		t.Errorf("second sweep Created = %d, want 0", again.Created)
	}
}

func TestSweep_InvalidRange(t *testing.T) {
	repo, _, _, _, _ := newMockRepository()
	svc := newTestReconciler(repo)

	_, err := svc.Sweep(context.Background(), civilDate(2026, 2, 11), civilDate(2026, 2, 10))
	if !errors.Is(err, ErrInvalidDayRange) {
		t.Errorf("err = %v, want ErrInvalidDayRange", err)
	}
}

func TestDescribeAnomaly_SignRendering(t *testing.T) {
	// Late arrivals are stored with a negative delta but read back as
	// positive minutes in the description.
	got := describeAnomaly(model.AnomalyModerateLate, -20)
	if got != "arrived 20 min late" {
		t.Errorf("description = %q", got)
	}
	got = describeAnomaly(model.AnomalyEarlyDeparture, -60)
	if got != "left 60 min before schedule" {
		t.Errorf("description = %q", got)
	}
}
