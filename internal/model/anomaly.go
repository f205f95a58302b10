package model

import "time"

// Anomaly types.
const (
	AnomalyOutOfRangeEarly        = "out_of_range_early"
	AnomalyModerateLate           = "moderate_late"
	AnomalyCriticalLate           = "critical_late"
	AnomalyOutOfRangeLate         = "out_of_range_late"
	AnomalyOvertimePending        = "overtime_pending_approval"
	AnomalyOvertimeAutoApproved   = "overtime_auto_approved"
	AnomalyEarlyDeparture         = "early_departure"
	AnomalyEarlyDepartureCritical = "early_departure_critical"
	AnomalyMissedBreak            = "missed_break"
	AnomalyContinuousWork         = "continuous_work_violation"
	AnomalyUnplannedAbsence       = "unplanned_absence"
	AnomalyUnplannedPresence      = "unplanned_presence"
)

// Severity tiers.
const (
	SeverityInfo        = "info"
	SeverityWarning     = "warning"
	SeverityHigh        = "high"
	SeverityCritical    = "critical"
	SeveritySuspect     = "suspect"
	SeverityNeedsReview = "needs_review"
)

// Anomaly statuses. Only "pending" is ever written by this service;
// the review workflow owns every transition away from it.
const (
	AnomalyStatusPending   = "pending"
	AnomalyStatusValidated = "validated"
	AnomalyStatusRefused   = "refused"
	AnomalyStatusProcessed = "processed"
)

// Anomaly is a persisted, reviewable attendance discrepancy — anomalies table.
// The (employee, day, type) key is unique: the reconciler never creates a
// second record for a key that already exists in any status.
type Anomaly struct {
	AnomalyID     string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"anomaly_id"`
	EmployeeID    string    `gorm:"type:uuid;not null;index:uq_anomalies_key,unique" json:"employee_id"`
	Day           time.Time `gorm:"type:date;not null;index:uq_anomalies_key,unique" json:"day"`
	Type          string    `gorm:"type:varchar(40);not null;index:uq_anomalies_key,unique" json:"type"`
	Severity      string    `gorm:"type:varchar(20);not null"                      json:"severity"`
	Status        string    `gorm:"type:varchar(20);not null;default:'pending'"    json:"status"`
	Description   string    `gorm:"type:varchar(500);not null;default:''"          json:"description"`
	DetailPayload JSONMap   `gorm:"type:jsonb;not null;default:'{}'"               json:"detail_payload"`
	CreatedAt     time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"created_at"`
}

func (Anomaly) TableName() string { return "anomalies" }

// DayKey returns the anomaly day in wire format.
func (a *Anomaly) DayKey() string { return a.Day.Format(DayFormat) }
