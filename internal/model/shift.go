package model

import "time"

// Segment kinds.
const (
	SegmentKindWork  = "work"
	SegmentKindBreak = "break"
)

// Shift is an employee's planned schedule for one civil day — shifts table.
// Replanned by the external scheduler; immutable once payroll-closed.
type Shift struct {
	ShiftID       string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"shift_id"`
	EmployeeID    string    `gorm:"type:uuid;not null;index:uq_shifts_employee_day,unique" json:"employee_id"`
	Day           time.Time `gorm:"type:date;not null;index:uq_shifts_employee_day,unique" json:"day"`
	PayrollClosed bool      `gorm:"not null;default:false"                         json:"payroll_closed"`
	VersionedModel

	Segments []ShiftSegment `gorm:"foreignKey:ShiftID;constraint:OnDelete:CASCADE" json:"segments,omitempty"`
	Employee *Employee      `gorm:"foreignKey:EmployeeID;references:EmployeeID"    json:"employee,omitempty"`
}

func (Shift) TableName() string { return "shifts" }

// ShiftSegment is one contiguous planned range tagged work or break —
// shift_segments table. Times are "HH:MM" wall-clock strings; parsing
// happens in the resolver so a malformed row degrades one day, not a batch.
type ShiftSegment struct {
	SegmentID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"segment_id"`
	ShiftID   string `gorm:"type:uuid;not null;index"                       json:"shift_id"`
	Position  int    `gorm:"type:smallint;not null"                         json:"position"`
	Kind      string `gorm:"type:varchar(10);not null"                      json:"kind"` // work | break
	StartTime string `gorm:"type:varchar(5);not null"                       json:"start_time"` // "HH:MM"
	EndTime   string `gorm:"type:varchar(5);not null"                       json:"end_time"`   // "HH:MM"
}

func (ShiftSegment) TableName() string { return "shift_segments" }

// DayKey returns the shift day in wire format.
func (s *Shift) DayKey() string { return s.Day.Format(DayFormat) }
