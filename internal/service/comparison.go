package service

import "time"

// Break-coverage and continuous-work policy.
const (
	// Breaks shorter than this are not worth checking.
	minCheckedBreak = 30
	// A gap this long counts as "break taken".
	minBreakGap = 20
	// A qualifying gap may drift this far from the scheduled break.
	breakDriftTolerance = 10
	// Statutory limit on uninterrupted work.
	maxContinuousWork = 360
)

// DeviationKind discriminates what a deviation measures.
type DeviationKind string

const (
	DeviationArrival        DeviationKind = "arrival"
	DeviationDeparture      DeviationKind = "departure"
	DeviationMissedBreak    DeviationKind = "missed_break"
	DeviationContinuousWork DeviationKind = "continuous_work"
	DeviationAbsence        DeviationKind = "absence"
	DeviationPresence       DeviationKind = "presence"
)

// Deviation is a computed, unpersisted discrepancy between planned and
// actual time for one employee-day. Consumed immediately by the
// reconciler, never stored.
type Deviation struct {
	EmployeeID   string
	Day          time.Time
	Kind         DeviationKind
	DeltaMinutes int
}

// CompareDay combines a resolved plan and the reconstructed punch
// timeline into typed deviations.
//
// nowDay/nowMinute are the evaluation instant in local civil form,
// threaded in explicitly so the engine never reads the wall clock.
//
// Sign conventions: arrival delta = planned − actual (positive = early);
// departure delta = actual − planned (positive = overtime).
func CompareDay(employeeID string, day time.Time, shift ResolvedShift, pairs PairResult, nowDay time.Time, nowMinute int) []Deviation {
	var deviations []Deviation

	emit := func(kind DeviationKind, delta int) {
		deviations = append(deviations, Deviation{
			EmployeeID:   employeeID,
			Day:          day,
			Kind:         kind,
			DeltaMinutes: delta,
		})
	}

	hasPresence := len(pairs.Intervals) > 0 || pairs.HasOpen

	// No planned work: any presence is extra, payable time.
	if !shift.HasPlannedWork() {
		if worked := pairs.WorkedMinutes(); worked > 0 {
			emit(DeviationPresence, worked)
		}
		return deviations
	}

	// Planned work, nobody showed up, and the planned end has passed.
	if !hasPresence {
		if plannedEndPassed(day, shift.PlannedEnd(), nowDay, nowMinute) {
			emit(DeviationAbsence, shift.PlannedMinutes)
		}
		return deviations
	}

	// Arrival measured against the first work range.
	emit(DeviationArrival, shift.PlannedStart()-pairs.ActualStart())

	// Departure measured against the last work range; skipped while an
	// interval is still open (the day is not over for this employee).
	if len(pairs.Intervals) > 0 && !pairs.HasOpen {
		last := pairs.Intervals[len(pairs.Intervals)-1]
		emit(DeviationDeparture, last.End-shift.PlannedEnd())
	}

	// Break coverage and uninterrupted-work checks use closed intervals
	// only: an open interval's extent is unknown.
	if len(pairs.Intervals) > 0 && !pairs.HasOpen {
		if spanned, ok := missedBreakSpan(shift.Breaks, pairs.Intervals); ok {
			emit(DeviationMissedBreak, spanned)
		}
		if longest := longestInterval(pairs.Intervals); longest > maxContinuousWork {
			emit(DeviationContinuousWork, longest)
		}
	}

	return deviations
}

// plannedEndPassed reports whether the planned end-of-day is behind the
// evaluation instant. Ends past midnight only pass on the next day.
func plannedEndPassed(day time.Time, plannedEnd int, nowDay time.Time, nowMinute int) bool {
	endDay := day
	for plannedEnd >= minutesPerDay {
		endDay = nextDay(endDay)
		plannedEnd -= minutesPerDay
	}
	if nowDay.After(endDay) {
		return true
	}
	return nowDay.Equal(endDay) && nowMinute > plannedEnd
}

// missedBreakSpan finds a scheduled break of at least minCheckedBreak
// minutes that no punch gap covers, and returns the uninterrupted work
// span around it.
//
// A gap counts as "break taken" when it lasts at least minBreakGap
// minutes and overlaps the scheduled break widened by
// breakDriftTolerance on each side. A shorter-than-scheduled gap still
// counts; that is a deliberate, lenient policy choice.
func missedBreakSpan(breaks []Range, intervals []WorkInterval) (int, bool) {
	for _, br := range breaks {
		if br.Len() < minCheckedBreak {
			continue
		}

		taken := false
		for i := 0; i+1 < len(intervals); i++ {
			gap := Range{Start: intervals[i].End, End: intervals[i+1].Start}
			if gap.Len() < minBreakGap {
				continue
			}
			if gap.Start <= br.End+breakDriftTolerance && gap.End >= br.Start-breakDriftTolerance {
				taken = true
				break
			}
		}
		if taken {
			continue
		}

		// The employee must actually have worked through the break for
		// it to count as missed.
		mid := (br.Start + br.End) / 2
		for _, iv := range intervals {
			if iv.Start <= mid && mid <= iv.End {
				return iv.Len(), true
			}
		}
	}
	return 0, false
}

// longestInterval returns the longest uninterrupted worked span.
func longestInterval(intervals []WorkInterval) int {
	longest := 0
	for _, iv := range intervals {
		if iv.Len() > longest {
			longest = iv.Len()
		}
	}
	return longest
}
