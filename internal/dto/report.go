package dto

// ── Report DTOs ──

// AttendanceReportRequest selects the reporting window.
type AttendanceReportRequest struct {
	EmployeeID string `form:"employee_id" binding:"omitempty,uuid"`
	DayRangeRequest
}

// AttendanceReportResponse carries the period aggregation metrics.
//
// PunctualityRate and AttendanceRate are percentages in [0, 100].
// Employee-days with zero planned minutes are excluded from both
// denominators; an empty denominator reports as 100.
type AttendanceReportResponse struct {
	From                string   `json:"from"`
	To                  string   `json:"to"`
	PunctualityRate     float64  `json:"punctuality_rate"`
	AttendanceRate      float64  `json:"attendance_rate"`
	PlannedDays         int      `json:"planned_days"`
	LateDays            int      `json:"late_days"`
	TotalPlannedMinutes int      `json:"total_planned_minutes"`
	TotalWorkedMinutes  int      `json:"total_worked_minutes"`
	UnknownEmployeeIDs  []string `json:"unknown_employee_ids,omitempty"` // surfaced for data audit
}
