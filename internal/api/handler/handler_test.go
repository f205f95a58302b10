package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Yamine-coder/gestion-rh-sub010/internal/dto"
	"github.com/Yamine-coder/gestion-rh-sub010/internal/model"
	"github.com/Yamine-coder/gestion-rh-sub010/internal/service"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func jsonBody(v interface{}) *bytes.Buffer {
	b, _ := json.Marshal(v)
	return bytes.NewBuffer(b)
}

// ── Mock services ──

type mockPunchService struct {
	recordResult *dto.RecordPunchResponse
	recordErr    error
	listResult   []dto.PunchResponse
	listErr      error
}

func (m *mockPunchService) Record(_ context.Context, _ *dto.RecordPunchRequest) (*dto.RecordPunchResponse, error) {
	return m.recordResult, m.recordErr
}
func (m *mockPunchService) List(_ context.Context, _ *dto.PunchListRequest) ([]dto.PunchResponse, error) {
	return m.listResult, m.listErr
}

type mockShiftService struct {
	result *dto.ShiftResponse
	err    error
}

func (m *mockShiftService) Create(_ context.Context, _ *dto.CreateShiftRequest) (*dto.ShiftResponse, error) {
	return m.result, m.err
}
func (m *mockShiftService) Replan(_ context.Context, _ string, _ *dto.ReplanShiftRequest) (*dto.ShiftResponse, error) {
	return m.result, m.err
}
func (m *mockShiftService) ClosePayroll(_ context.Context, _ string) (*dto.ShiftResponse, error) {
	return m.result, m.err
}
func (m *mockShiftService) Get(_ context.Context, _ string) (*dto.ShiftResponse, error) {
	return m.result, m.err
}
func (m *mockShiftService) List(_ context.Context, _ *dto.ShiftListRequest) ([]dto.ShiftResponse, error) {
	return nil, m.err
}

type mockReconcileService struct {
	sweepResult *dto.SweepResponse
	sweepErr    error
}

func (m *mockReconcileService) ReconcileDay(_ context.Context, _ string, _ time.Time) ([]model.Anomaly, error) {
	return nil, nil
}
func (m *mockReconcileService) Sweep(_ context.Context, _, _ time.Time) (*dto.SweepResponse, error) {
	return m.sweepResult, m.sweepErr
}

// ── Punch endpoints ──

func TestPunchHandler_Record_Created(t *testing.T) {
	mock := &mockPunchService{
		recordResult: &dto.RecordPunchResponse{
			Punch: &dto.PunchResponse{ID: "p-1", Day: "2026-02-10", MinuteOfDay: 560},
		},
	}
	h := NewPunchHandler(mock)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/punches", jsonBody(dto.RecordPunchRequest{
		EmployeeID: "11111111-1111-1111-1111-111111111111",
		Timestamp:  "2026-02-10T08:20:00Z",
		Kind:       "arrival",
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/punches", h.Record)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Errorf("status = %d, want 201", w.Code)
	}
}

func TestPunchHandler_Record_BadPayload(t *testing.T) {
	h := NewPunchHandler(&mockPunchService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/punches", jsonBody(map[string]string{
		"employee_id": "not-a-uuid",
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/punches", h.Record)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestPunchHandler_Record_FutureTimestamp(t *testing.T) {
	h := NewPunchHandler(&mockPunchService{recordErr: service.ErrPunchFromFuture})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/punches", jsonBody(dto.RecordPunchRequest{
		EmployeeID: "11111111-1111-1111-1111-111111111111",
		Timestamp:  "2030-01-01T00:00:00Z",
		Kind:       "arrival",
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/punches", h.Record)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

// ── Shift endpoints ──

func TestShiftHandler_Replan_PayrollClosedConflict(t *testing.T) {
	h := NewShiftHandler(&mockShiftService{err: service.ErrShiftPayrollClosed})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("PUT", "/shifts/s-1", jsonBody(dto.ReplanShiftRequest{
		Segments: []dto.SegmentPayload{{Kind: "work", Start: "09:00", End: "17:00"}},
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.PUT("/shifts/:id", h.Replan)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusConflict {
		t.Errorf("status = %d, want 409", w.Code)
	}
}

func TestShiftHandler_Get_NotFound(t *testing.T) {
	h := NewShiftHandler(&mockShiftService{err: service.ErrShiftNotFound})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/shifts/missing", nil)

	r := gin.New()
	r.GET("/shifts/:id", h.Get)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

// ── Sweep endpoint ──

func TestReconcileHandler_Sweep_OK(t *testing.T) {
	h := NewReconcileHandler(&mockReconcileService{
		sweepResult: &dto.SweepResponse{From: "2026-02-01", To: "2026-02-28", KeysScanned: 12},
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/reconcile/sweep", jsonBody(dto.SweepRequest{
		From: "2026-02-01", To: "2026-02-28",
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/reconcile/sweep", h.Sweep)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
}

func TestReconcileHandler_Sweep_AlreadyRunning(t *testing.T) {
	h := NewReconcileHandler(&mockReconcileService{sweepErr: service.ErrSweepInProgress})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/reconcile/sweep", jsonBody(dto.SweepRequest{
		From: "2026-02-01", To: "2026-02-28",
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/reconcile/sweep", h.Sweep)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusConflict {
		t.Errorf("status = %d, want 409", w.Code)
	}
}
