package dto

// ── Anomaly DTOs ──

// AnomalyListRequest filters the review feed.
type AnomalyListRequest struct {
	EmployeeID string `form:"employee_id" binding:"omitempty,uuid"`
	From       string `form:"from"        binding:"omitempty,datetime=2006-01-02"`
	To         string `form:"to"          binding:"omitempty,datetime=2006-01-02"`
	Type       string `form:"type"        binding:"omitempty"`
	Severity   string `form:"severity"    binding:"omitempty"`
	Status     string `form:"status"      binding:"omitempty,oneof=pending validated refused processed"`
	PaginationRequest
}

// AnomalyResponse is one persisted anomaly.
type AnomalyResponse struct {
	ID            string                 `json:"id"`
	EmployeeID    string                 `json:"employee_id"`
	EmployeeName  string                 `json:"employee_name,omitempty"`
	Day           string                 `json:"day"`
	Type          string                 `json:"type"`
	Severity      string                 `json:"severity"`
	Status        string                 `json:"status"`
	Description   string                 `json:"description"`
	DetailPayload map[string]interface{} `json:"detail_payload,omitempty"`
	CreatedAt     string                 `json:"created_at"`
}

// SweepRequest triggers a reconciliation sweep over a day range.
type SweepRequest struct {
	From string `json:"from" binding:"required,datetime=2006-01-02"`
	To   string `json:"to"   binding:"required,datetime=2006-01-02"`
}

// SweepResponse summarizes one sweep run.
type SweepResponse struct {
	From         string `json:"from"`
	To           string `json:"to"`
	KeysScanned  int    `json:"keys_scanned"`
	Created      int    `json:"created"`
	FailedKeys   int    `json:"failed_keys"`
	DurationMS   int64  `json:"duration_ms"`
}
