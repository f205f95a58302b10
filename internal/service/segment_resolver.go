package service

import (
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/Yamine-coder/gestion-rh-sub010/internal/model"
)

// Range is a planned time range in minutes-of-day. End may exceed 1440
// for segments crossing midnight.
type Range struct {
	Start int
	End   int
}

// Len returns the range duration in minutes.
func (r Range) Len() int { return r.End - r.Start }

// ResolvedShift is a shift's plan after parsing: ordered work ranges,
// break ranges kept separately, and the planned work total.
// Zero work ranges means "no planned work" for the day.
type ResolvedShift struct {
	Work           []Range
	Breaks         []Range
	PlannedMinutes int
}

// HasPlannedWork reports whether the day carries any planned work.
func (r ResolvedShift) HasPlannedWork() bool { return len(r.Work) > 0 }

// PlannedStart returns the first work range's start.
func (r ResolvedShift) PlannedStart() int { return r.Work[0].Start }

// PlannedEnd returns the last work range's end.
func (r ResolvedShift) PlannedEnd() int { return r.Work[len(r.Work)-1].End }

// parseClock parses an "HH:MM" wall-clock string into minutes-of-day.
func parseClock(s string) (int, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 {
		return 0, fmt.Errorf("clock %q: want HH:MM", s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, fmt.Errorf("clock %q: bad hour", s)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, fmt.Errorf("clock %q: bad minute", s)
	}
	return h*60 + m, nil
}

// ResolveSegments parses a shift's segments into minute ranges.
//
// A segment with an unparsable start or end is skipped and logged; it
// degrades that day's precision but never fails the batch. A segment
// whose end precedes its start is taken to cross midnight and its end is
// lifted by one day.
func ResolveSegments(shift *model.Shift, logger *zap.Logger) ResolvedShift {
	var resolved ResolvedShift
	if shift == nil {
		return resolved
	}

	for _, seg := range shift.Segments {
		start, err := parseClock(seg.StartTime)
		if err != nil {
			logger.Warn("skipping malformed shift segment",
				zap.String("shift_id", shift.ShiftID),
				zap.String("employee_id", shift.EmployeeID),
				zap.String("start", seg.StartTime),
				zap.Error(err),
			)
			continue
		}
		end, err := parseClock(seg.EndTime)
		if err != nil {
			logger.Warn("skipping malformed shift segment",
				zap.String("shift_id", shift.ShiftID),
				zap.String("employee_id", shift.EmployeeID),
				zap.String("end", seg.EndTime),
				zap.Error(err),
			)
			continue
		}
		if end <= start {
			// Crosses midnight (e.g. 22:00–06:00).
			end += minutesPerDay
		}

		r := Range{Start: start, End: end}
		switch seg.Kind {
		case model.SegmentKindBreak:
			resolved.Breaks = append(resolved.Breaks, r)
		case model.SegmentKindWork:
			resolved.Work = append(resolved.Work, r)
			resolved.PlannedMinutes += r.Len()
		default:
			logger.Warn("skipping shift segment with unknown kind",
				zap.String("shift_id", shift.ShiftID),
				zap.String("kind", seg.Kind),
			)
		}
	}

	return resolved
}
