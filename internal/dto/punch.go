package dto

// ── Punch DTOs ──

// RecordPunchRequest ingests one clock event. Timestamp is ISO-8601 UTC.
type RecordPunchRequest struct {
	EmployeeID string `json:"employee_id" binding:"required,uuid"`
	Timestamp  string `json:"timestamp"   binding:"required"`
	Kind       string `json:"kind"        binding:"required,oneof=arrival departure"`
}

// PunchListRequest filters the punch audit feed.
type PunchListRequest struct {
	EmployeeID string `form:"employee_id" binding:"required,uuid"`
	Day        string `form:"day"         binding:"required,datetime=2006-01-02"`
}

// PunchResponse is one stored punch event.
type PunchResponse struct {
	ID          string `json:"id"`
	EmployeeID  string `json:"employee_id"`
	PunchedAt   string `json:"punched_at"`
	Kind        string `json:"kind"`
	Day         string `json:"day"`
	MinuteOfDay int    `json:"minute_of_day"`
}

// RecordPunchResponse returns the stored punch plus any anomalies the
// on-punch reconciliation created for that employee-day.
type RecordPunchResponse struct {
	Punch        *PunchResponse    `json:"punch"`
	NewAnomalies []AnomalyResponse `json:"new_anomalies,omitempty"`
}
