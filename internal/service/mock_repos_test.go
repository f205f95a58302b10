package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/Yamine-coder/gestion-rh-sub010/internal/model"
	"github.com/Yamine-coder/gestion-rh-sub010/internal/repository"
	apperrors "github.com/Yamine-coder/gestion-rh-sub010/pkg/errors"
)

// ── Mock EmployeeRepository ──

type mockEmployeeRepo struct {
	employees map[string]*model.Employee
}

func newMockEmployeeRepo() *mockEmployeeRepo {
	return &mockEmployeeRepo{employees: make(map[string]*model.Employee)}
}

func (m *mockEmployeeRepo) Create(_ context.Context, employee *model.Employee) error {
	if employee.EmployeeID == "" {
		employee.EmployeeID = fmt.Sprintf("emp-%d", len(m.employees)+1)
	}
	m.employees[employee.EmployeeID] = employee
	return nil
}

func (m *mockEmployeeRepo) GetByID(_ context.Context, id string) (*model.Employee, error) {
	if e, ok := m.employees[id]; ok {
		return e, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockEmployeeRepo) GetByEmail(_ context.Context, email string) (*model.Employee, error) {
	for _, e := range m.employees {
		if e.Email == email {
			return e, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockEmployeeRepo) ListActive(_ context.Context) ([]model.Employee, error) {
	var result []model.Employee
	for _, e := range m.employees {
		if e.IsActive {
			result = append(result, *e)
		}
	}
	return result, nil
}

func (m *mockEmployeeRepo) ListByIDs(_ context.Context, ids []string) ([]model.Employee, error) {
	var result []model.Employee
	for _, id := range ids {
		if e, ok := m.employees[id]; ok {
			result = append(result, *e)
		}
	}
	return result, nil
}

// ── Mock ShiftRepository ──

type mockShiftRepo struct {
	shifts map[string]*model.Shift
}

func newMockShiftRepo() *mockShiftRepo {
	return &mockShiftRepo{shifts: make(map[string]*model.Shift)}
}

func (m *mockShiftRepo) dayKey(employeeID string, day time.Time) string {
	return employeeID + "|" + day.Format(model.DayFormat)
}

func (m *mockShiftRepo) Create(_ context.Context, shift *model.Shift) error {
	for _, s := range m.shifts {
		if s.EmployeeID == shift.EmployeeID && s.Day.Equal(shift.Day) {
			return gorm.ErrDuplicatedKey
		}
	}
	if shift.ShiftID == "" {
		shift.ShiftID = fmt.Sprintf("shift-%d", len(m.shifts)+1)
	}
	if shift.Version == 0 {
		shift.Version = 1
	}
	m.shifts[shift.ShiftID] = shift
	return nil
}

func (m *mockShiftRepo) GetByID(_ context.Context, id string) (*model.Shift, error) {
	if s, ok := m.shifts[id]; ok {
		return s, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockShiftRepo) GetByEmployeeDay(_ context.Context, employeeID string, day time.Time) (*model.Shift, error) {
	for _, s := range m.shifts {
		if s.EmployeeID == employeeID && s.Day.Equal(day) {
			return s, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockShiftRepo) ListByDayRange(_ context.Context, from, to time.Time, employeeID string) ([]model.Shift, error) {
	var result []model.Shift
	for _, s := range m.shifts {
		if s.Day.Before(from) || s.Day.After(to) {
			continue
		}
		if employeeID != "" && s.EmployeeID != employeeID {
			continue
		}
		result = append(result, *s)
	}
	sort.Slice(result, func(i, j int) bool {
		return m.dayKey(result[i].EmployeeID, result[i].Day) < m.dayKey(result[j].EmployeeID, result[j].Day)
	})
	return result, nil
}

func (m *mockShiftRepo) ReplaceSegments(_ context.Context, shift *model.Shift, segments []model.ShiftSegment) error {
	stored, ok := m.shifts[shift.ShiftID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if stored.Version != shift.Version {
		return apperrors.ErrOptimisticLock
	}
	shift.Segments = segments
	shift.Version++
	m.shifts[shift.ShiftID] = shift
	return nil
}

func (m *mockShiftRepo) SetPayrollClosed(_ context.Context, shift *model.Shift) error {
	stored, ok := m.shifts[shift.ShiftID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if stored.Version != shift.Version {
		return apperrors.ErrOptimisticLock
	}
	shift.PayrollClosed = true
	shift.Version++
	m.shifts[shift.ShiftID] = shift
	return nil
}

// ── Mock PunchRepository ──

type mockPunchRepo struct {
	punches []*model.PunchEvent
}

func newMockPunchRepo() *mockPunchRepo {
	return &mockPunchRepo{}
}

func (m *mockPunchRepo) Create(_ context.Context, punch *model.PunchEvent) error {
	if punch.PunchID == "" {
		punch.PunchID = fmt.Sprintf("punch-%d", len(m.punches)+1)
	}
	m.punches = append(m.punches, punch)
	return nil
}

func (m *mockPunchRepo) ListByEmployeeDay(_ context.Context, employeeID string, day time.Time) ([]model.PunchEvent, error) {
	var result []model.PunchEvent
	for _, p := range m.punches {
		if p.EmployeeID == employeeID && p.Day.Equal(day) {
			result = append(result, *p)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].MinuteOfDay < result[j].MinuteOfDay
	})
	return result, nil
}

func (m *mockPunchRepo) DistinctEmployeeDays(_ context.Context, from, to time.Time) ([]repository.EmployeeDay, error) {
	seen := make(map[string]bool)
	var result []repository.EmployeeDay
	for _, p := range m.punches {
		if p.Day.Before(from) || p.Day.After(to) {
			continue
		}
		k := p.EmployeeID + "|" + p.Day.Format(model.DayFormat)
		if seen[k] {
			continue
		}
		seen[k] = true
		result = append(result, repository.EmployeeDay{EmployeeID: p.EmployeeID, Day: p.Day})
	}
	return result, nil
}

func (m *mockPunchRepo) DistinctEmployeeIDs(_ context.Context, from, to time.Time) ([]string, error) {
	seen := make(map[string]bool)
	var result []string
	for _, p := range m.punches {
		if p.Day.Before(from) || p.Day.After(to) {
			continue
		}
		if seen[p.EmployeeID] {
			continue
		}
		seen[p.EmployeeID] = true
		result = append(result, p.EmployeeID)
	}
	return result, nil
}

// ── Mock AnomalyRepository ──

// mockAnomalyRepo is mutex-guarded: sweep workers hit it in parallel.
type mockAnomalyRepo struct {
	mu        sync.Mutex
	anomalies []*model.Anomaly
	// failNextCreate simulates losing the insert race to a concurrent
	// reconciler.
	failNextCreate bool
}

func newMockAnomalyRepo() *mockAnomalyRepo {
	return &mockAnomalyRepo{}
}

func (m *mockAnomalyRepo) Create(_ context.Context, anomaly *model.Anomaly) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failNextCreate {
		m.failNextCreate = false
		return gorm.ErrDuplicatedKey
	}
	for _, a := range m.anomalies {
		if a.EmployeeID == anomaly.EmployeeID && a.Day.Equal(anomaly.Day) && a.Type == anomaly.Type {
			return gorm.ErrDuplicatedKey
		}
	}
	if anomaly.AnomalyID == "" {
		anomaly.AnomalyID = fmt.Sprintf("anomaly-%d", len(m.anomalies)+1)
	}
	if anomaly.CreatedAt.IsZero() {
		anomaly.CreatedAt = time.Now()
	}
	m.anomalies = append(m.anomalies, anomaly)
	return nil
}

func (m *mockAnomalyRepo) FindByKey(_ context.Context, employeeID string, day time.Time, anomalyType string) (*model.Anomaly, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.anomalies {
		if a.EmployeeID == employeeID && a.Day.Equal(day) && a.Type == anomalyType {
			return a, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockAnomalyRepo) List(_ context.Context, filter repository.AnomalyFilter, offset, limit int) ([]model.Anomaly, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var matched []model.Anomaly
	for _, a := range m.anomalies {
		if filter.EmployeeID != "" && a.EmployeeID != filter.EmployeeID {
			continue
		}
		if !filter.From.IsZero() && a.Day.Before(filter.From) {
			continue
		}
		if !filter.To.IsZero() && a.Day.After(filter.To) {
			continue
		}
		if filter.Type != "" && a.Type != filter.Type {
			continue
		}
		if filter.Severity != "" && a.Severity != filter.Severity {
			continue
		}
		if filter.Status != "" && a.Status != filter.Status {
			continue
		}
		matched = append(matched, *a)
	}
	total := int64(len(matched))
	if offset >= len(matched) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], total, nil
}

func (m *mockAnomalyRepo) ListByDayRange(_ context.Context, from, to time.Time, employeeID string) ([]model.Anomaly, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []model.Anomaly
	for _, a := range m.anomalies {
		if a.Day.Before(from) || a.Day.After(to) {
			continue
		}
		if employeeID != "" && a.EmployeeID != employeeID {
			continue
		}
		result = append(result, *a)
	}
	return result, nil
}

// newMockRepository assembles a repository aggregate from fresh mocks.
func newMockRepository() (*repository.Repository, *mockEmployeeRepo, *mockShiftRepo, *mockPunchRepo, *mockAnomalyRepo) {
	employees := newMockEmployeeRepo()
	shifts := newMockShiftRepo()
	punches := newMockPunchRepo()
	anomalies := newMockAnomalyRepo()
	repo := &repository.Repository{
		Employee: employees,
		Shift:    shifts,
		Punch:    punches,
		Anomaly:  anomalies,
	}
	return repo, employees, shifts, punches, anomalies
}
