package service

import "github.com/Yamine-coder/gestion-rh-sub010/internal/model"

// Arrival tolerance band (delta = planned − actual, minutes).
// Wide on the early side, narrow on the late side: early arrival costs
// the business nothing, late arrival is a coverage gap.
const (
	arrivalEarlyLimit  = 30  // beyond this, suspiciously early
	arrivalLateGrace   = -5  // up to 5 minutes late is benign
	arrivalLateTipping = -20 // beyond this, critically late
)

// Departure tolerance band (delta = actual − planned, minutes).
// Mirror image of arrival: leaving early is the coverage risk, a little
// overtime is routine.
const (
	departureOvertimeLimit  = 90  // beyond this, suspiciously long
	departureOvertimeReview = 30  // above this, overtime needs approval
	departureEarlyGrace     = -15 // up to 15 minutes early is benign
	departureEarlyTipping   = -90 // beyond this, critically early
)

// Verdict is a classified deviation.
type Verdict struct {
	Type     string
	Severity string
}

// Classify maps a deviation's delta onto an anomaly type and severity.
//
// Pure and deterministic: no clock, no storage, no configuration. The
// same deviation always yields the same verdict. Returns false when the
// delta falls inside the acceptable band and no anomaly should exist.
func Classify(d Deviation) (Verdict, bool) {
	switch d.Kind {
	case DeviationArrival:
		return classifyArrival(d.DeltaMinutes)
	case DeviationDeparture:
		return classifyDeparture(d.DeltaMinutes)
	case DeviationMissedBreak:
		return Verdict{Type: model.AnomalyMissedBreak, Severity: model.SeverityHigh}, true
	case DeviationContinuousWork:
		return Verdict{Type: model.AnomalyContinuousWork, Severity: model.SeverityCritical}, true
	case DeviationAbsence:
		return Verdict{Type: model.AnomalyUnplannedAbsence, Severity: model.SeverityCritical}, true
	case DeviationPresence:
		// Routed to payroll as payable extra time, not a fault.
		return Verdict{Type: model.AnomalyUnplannedPresence, Severity: model.SeverityInfo}, true
	default:
		return Verdict{}, false
	}
}

func classifyArrival(delta int) (Verdict, bool) {
	switch {
	case delta > arrivalEarlyLimit:
		return Verdict{Type: model.AnomalyOutOfRangeEarly, Severity: model.SeveritySuspect}, true
	case delta >= arrivalLateGrace:
		return Verdict{}, false
	case delta >= arrivalLateTipping:
		return Verdict{Type: model.AnomalyModerateLate, Severity: model.SeverityWarning}, true
	default:
		return Verdict{Type: model.AnomalyCriticalLate, Severity: model.SeverityCritical}, true
	}
}

func classifyDeparture(delta int) (Verdict, bool) {
	switch {
	case delta > departureOvertimeLimit:
		return Verdict{Type: model.AnomalyOutOfRangeLate, Severity: model.SeveritySuspect}, true
	case delta > departureOvertimeReview:
		return Verdict{Type: model.AnomalyOvertimePending, Severity: model.SeverityNeedsReview}, true
	case delta >= 0:
		return Verdict{Type: model.AnomalyOvertimeAutoApproved, Severity: model.SeverityInfo}, true
	case delta >= departureEarlyGrace:
		return Verdict{}, false
	case delta >= departureEarlyTipping:
		return Verdict{Type: model.AnomalyEarlyDeparture, Severity: model.SeverityWarning}, true
	default:
		return Verdict{Type: model.AnomalyEarlyDepartureCritical, Severity: model.SeverityCritical}, true
	}
}
