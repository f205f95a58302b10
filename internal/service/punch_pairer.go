package service

import (
	"go.uber.org/zap"

	"github.com/Yamine-coder/gestion-rh-sub010/internal/model"
)

// PunchMark is one punch reduced to the day's minute space.
// Minute may exceed 1440 after the midnight-rollover correction.
type PunchMark struct {
	Minute int
	Kind   string // model.PunchKindArrival | model.PunchKindDeparture
}

// WorkInterval is one arrival paired with the next departure.
// Invariant: Start < End.
type WorkInterval struct {
	Start int
	End   int
}

// Len returns the interval duration in minutes.
func (w WorkInterval) Len() int { return w.End - w.Start }

// PairResult is the reconstructed actual-work timeline for one
// employee-day. HasOpen marks a trailing arrival with no departure yet.
type PairResult struct {
	Intervals []WorkInterval
	HasOpen   bool
	OpenStart int
}

// WorkedMinutes sums the closed intervals.
func (p PairResult) WorkedMinutes() int {
	total := 0
	for _, iv := range p.Intervals {
		total += iv.Len()
	}
	return total
}

// ActualStart returns the earliest known presence minute.
// Valid only when Intervals is non-empty or HasOpen is set.
func (p PairResult) ActualStart() int {
	if len(p.Intervals) > 0 {
		return p.Intervals[0].Start
	}
	return p.OpenStart
}

// PairPunches reconstructs work intervals from punches sorted ascending.
//
// Pairing assumes strict arrival/departure alternation. Two consecutive
// punches of the same kind are a device fault: the earlier one is
// dropped and pairing continues. The output is chronologically ordered
// and non-overlapping.
func PairPunches(marks []PunchMark, logger *zap.Logger) PairResult {
	var result PairResult
	pendingStart := -1

	for _, mark := range marks {
		switch mark.Kind {
		case model.PunchKindArrival:
			if pendingStart >= 0 {
				// Duplicate arrival: keep the later one.
				logger.Debug("dropping duplicate arrival punch",
					zap.Int("dropped_minute", pendingStart),
					zap.Int("kept_minute", mark.Minute),
				)
			}
			pendingStart = mark.Minute

		case model.PunchKindDeparture:
			if pendingStart >= 0 {
				if mark.Minute <= pendingStart {
					// Same-minute or inverted pair: unusable.
					logger.Debug("dropping zero-length work interval",
						zap.Int("minute", mark.Minute),
					)
					pendingStart = -1
					continue
				}
				result.Intervals = append(result.Intervals, WorkInterval{
					Start: pendingStart,
					End:   mark.Minute,
				})
				pendingStart = -1
				continue
			}
			// Departure with no pending arrival.
			if n := len(result.Intervals); n > 0 && mark.Minute > result.Intervals[n-1].End {
				// Duplicate departure: the earlier one is dropped, the
				// later one closes the same interval.
				result.Intervals[n-1].End = mark.Minute
			} else {
				logger.Debug("dropping orphan departure punch",
					zap.Int("minute", mark.Minute),
				)
			}
		}
	}

	if pendingStart >= 0 {
		result.HasOpen = true
		result.OpenStart = pendingStart
	}

	return result
}
