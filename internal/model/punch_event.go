package model

import "time"

// Punch kinds.
const (
	PunchKindArrival   = "arrival"
	PunchKindDeparture = "departure"
)

// PunchEvent is a raw clock-in/clock-out event — punch_events table.
// Immutable once written. PunchedAt is the UTC instant from the device;
// Day and MinuteOfDay are derived at ingestion against the organization
// timezone so queries never depend on the server's local zone.
type PunchEvent struct {
	PunchID     string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"punch_id"`
	EmployeeID  string    `gorm:"type:uuid;not null;index:idx_punch_employee_day" json:"employee_id"`
	PunchedAt   time.Time `gorm:"not null"                                       json:"punched_at"`
	Kind        string    `gorm:"type:varchar(10);not null"                      json:"kind"` // arrival | departure
	Day         time.Time `gorm:"type:date;not null;index:idx_punch_employee_day" json:"day"`
	MinuteOfDay int       `gorm:"type:smallint;not null"                         json:"minute_of_day"`
	CreatedAt   time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"created_at"`
}

func (PunchEvent) TableName() string { return "punch_events" }

// DayKey returns the punch day in wire format.
func (p *PunchEvent) DayKey() string { return p.Day.Format(DayFormat) }
