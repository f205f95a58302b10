package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/Yamine-coder/gestion-rh-sub010/config"
	"github.com/Yamine-coder/gestion-rh-sub010/internal/model"
	"github.com/Yamine-coder/gestion-rh-sub010/internal/repository"
)

// ── Export errors ──

var (
	ErrExportNoAnomalies   = errors.New("no anomalies in the requested period")
	ErrExportNoShifts      = errors.New("no shifts in the requested period")
	ErrExportBadDayRange   = errors.New("export day range is invalid")
	ErrExportGenerateFail  = errors.New("generating the export file failed")
)

// ExportService renders review and planning data for external consumers.
//
// Anomalies export as an Excel workbook for payroll review; planned
// shifts export as an iCalendar feed employees can subscribe to.
// Both return a buffer plus a suggested filename; the handler sets the
// HTTP headers and streams it.
type ExportService interface {
	ExportAnomalies(ctx context.Context, from, to string) (*bytes.Buffer, string, error)
	ExportShiftCalendar(ctx context.Context, employeeID, from, to string) (*bytes.Buffer, string, error)
}

type exportService struct {
	repo   *repository.Repository
	logger *zap.Logger
	loc    *time.Location
}

// NewExportService creates an ExportService.
func NewExportService(cfg *config.AttendanceConfig, repo *repository.Repository, logger *zap.Logger) ExportService {
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		loc = time.UTC
	}
	return &exportService{repo: repo, logger: logger, loc: loc}
}

// ────────────────────── ExportAnomalies ──────────────────────

var anomalySheetHeader = []string{
	"Employee", "Day", "Type", "Severity", "Status", "Delta (min)", "Description", "Created",
}

func (s *exportService) ExportAnomalies(ctx context.Context, from, to string) (*bytes.Buffer, string, error) {
	fromDay, toDay, err := parseExportRange(from, to)
	if err != nil {
		return nil, "", err
	}

	anomalies, err := s.repo.Anomaly.ListByDayRange(ctx, fromDay, toDay, "")
	if err != nil {
		s.logger.Error("list anomalies for export failed", zap.Error(err))
		return nil, "", err
	}
	if len(anomalies) == 0 {
		return nil, "", ErrExportNoAnomalies
	}

	names := s.resolveNames(ctx, anomalies)

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Anomalies"
	f.SetSheetName(f.GetSheetName(0), sheet)

	for col, h := range anomalySheetHeader {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return nil, "", ErrExportGenerateFail
		}
	}

	for row, a := range anomalies {
		name := names[a.EmployeeID]
		if name == "" {
			name = a.EmployeeID
		}
		delta := ""
		if v, ok := a.DetailPayload["delta_minutes"]; ok {
			delta = fmt.Sprintf("%v", v)
		}
		values := []interface{}{
			name, a.DayKey(), a.Type, a.Severity, a.Status, delta,
			a.Description, a.CreatedAt.Format("2006-01-02 15:04"),
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return nil, "", ErrExportGenerateFail
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		s.logger.Error("write anomaly workbook failed", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	filename := fmt.Sprintf("anomalies_%s_%s.xlsx", from, to)
	return buf, filename, nil
}

// ────────────────────── ExportShiftCalendar ──────────────────────

func (s *exportService) ExportShiftCalendar(ctx context.Context, employeeID, from, to string) (*bytes.Buffer, string, error) {
	fromDay, toDay, err := parseExportRange(from, to)
	if err != nil {
		return nil, "", err
	}

	shifts, err := s.repo.Shift.ListByDayRange(ctx, fromDay, toDay, employeeID)
	if err != nil {
		s.logger.Error("list shifts for export failed", zap.Error(err))
		return nil, "", err
	}
	if len(shifts) == 0 {
		return nil, "", ErrExportNoShifts
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//gestion-rh//attendance//EN")

	for i := range shifts {
		shift := &shifts[i]
		resolved := ResolveSegments(shift, s.logger)
		for n, work := range resolved.Work {
			event := cal.AddEvent(fmt.Sprintf("%s-%d@gestion-rh", shift.ShiftID, n))
			event.SetCreatedTime(shift.CreatedAt)
			event.SetDtStampTime(shift.CreatedAt)
			event.SetStartAt(s.minuteToTime(shift.Day, work.Start))
			event.SetEndAt(s.minuteToTime(shift.Day, work.End))
			event.SetSummary("Work shift")
		}
	}

	buf := bytes.NewBufferString(cal.Serialize())
	filename := fmt.Sprintf("shifts_%s_%s.ics", from, to)
	return buf, filename, nil
}

// minuteToTime anchors a minute-of-day (possibly past midnight) on a
// civil date in the organization timezone.
func (s *exportService) minuteToTime(day time.Time, minute int) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), 0, minute, 0, 0, s.loc)
}

// ── Helpers ──

func parseExportRange(from, to string) (time.Time, time.Time, error) {
	fromDay, err := time.Parse(model.DayFormat, from)
	if err != nil {
		return time.Time{}, time.Time{}, ErrExportBadDayRange
	}
	toDay, err := time.Parse(model.DayFormat, to)
	if err != nil {
		return time.Time{}, time.Time{}, ErrExportBadDayRange
	}
	if toDay.Before(fromDay) {
		return time.Time{}, time.Time{}, ErrExportBadDayRange
	}
	return fromDay, toDay, nil
}

func (s *exportService) resolveNames(ctx context.Context, anomalies []model.Anomaly) map[string]string {
	seen := make(map[string]bool, len(anomalies))
	var ids []string
	for i := range anomalies {
		if !seen[anomalies[i].EmployeeID] {
			seen[anomalies[i].EmployeeID] = true
			ids = append(ids, anomalies[i].EmployeeID)
		}
	}
	names := make(map[string]string, len(ids))
	employees, err := s.repo.Employee.ListByIDs(ctx, ids)
	if err != nil {
		s.logger.Warn("resolve employee names for export failed", zap.Error(err))
		return names
	}
	for i := range employees {
		names[employees[i].EmployeeID] = employees[i].FullName
	}
	return names
}
