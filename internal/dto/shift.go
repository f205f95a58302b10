package dto

// ── Shift DTOs ──

// SegmentPayload is one planned range in scheduler wire form.
type SegmentPayload struct {
	Kind  string `json:"kind"  binding:"required,oneof=work break"`
	Start string `json:"start" binding:"required"`
	End   string `json:"end"   binding:"required"`
}

// CreateShiftRequest plans one employee-day.
type CreateShiftRequest struct {
	EmployeeID string           `json:"employee_id" binding:"required,uuid"`
	Day        string           `json:"day"         binding:"required,datetime=2006-01-02"`
	Segments   []SegmentPayload `json:"segments"    binding:"required,min=1,dive"`
}

// ReplanShiftRequest replaces the segment plan for an open shift.
type ReplanShiftRequest struct {
	Segments []SegmentPayload `json:"segments" binding:"required,min=1,dive"`
}

// ShiftListRequest filters shifts by employee and day range.
type ShiftListRequest struct {
	EmployeeID string `form:"employee_id" binding:"omitempty,uuid"`
	DayRangeRequest
}

// SegmentResponse is one stored segment.
type SegmentResponse struct {
	Kind  string `json:"kind"`
	Start string `json:"start"`
	End   string `json:"end"`
}

// ShiftResponse is one stored shift.
type ShiftResponse struct {
	ID            string            `json:"id"`
	EmployeeID    string            `json:"employee_id"`
	Day           string            `json:"day"`
	PayrollClosed bool              `json:"payroll_closed"`
	Version       int               `json:"version"`
	Segments      []SegmentResponse `json:"segments"`
	CreatedAt     string            `json:"created_at"`
	UpdatedAt     string            `json:"updated_at"`
}
