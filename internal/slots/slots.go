// Package slots holds the pure slot arithmetic behind availability
// queries: candidate generation from weekly windows, break filtering,
// and booking conflict filtering. No I/O happens here.
package slots

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/motorhall/garage-api/internal/models"
)

// StartGranularityMinutes fixes the spacing between candidate starts.
// Candidates always advance in 30-minute steps regardless of the
// window's slot duration.
const StartGranularityMinutes = 30

// ParseClock converts an "HH:MM" string into minutes since midnight.
func ParseClock(s string) (int, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid time format: %s", s)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, fmt.Errorf("invalid hour in %s", s)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, fmt.Errorf("invalid minute in %s", s)
	}
	return hour*60 + minute, nil
}

// FormatClock renders minutes since midnight as "HH:MM".
func FormatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// Overlaps applies the half-open interval rule to two minute ranges.
// Adjacent ranges (aEnd == bStart) do not overlap.
func Overlaps(aStart, aEnd, bStart, bEnd int) bool {
	return aStart < bEnd && bStart < aEnd
}

// Compute generates candidate start minutes for a window. Starts step
// at the fixed granularity from the window's start time; a candidate
// is kept only while candidate+durationMinutes fits inside the window.
// A closed window produces no candidates.
func Compute(window models.ScheduleWindow, durationMinutes int) ([]int, error) {
	if !window.IsAvailable {
		return nil, nil
	}
	if durationMinutes <= 0 {
		return nil, fmt.Errorf("duration must be positive, got %d", durationMinutes)
	}

	start, err := ParseClock(window.StartTime)
	if err != nil {
		return nil, fmt.Errorf("window start: %w", err)
	}
	end, err := ParseClock(window.EndTime)
	if err != nil {
		return nil, fmt.Errorf("window end: %w", err)
	}
	if start >= end {
		return nil, fmt.Errorf("window start %s is not before end %s", window.StartTime, window.EndTime)
	}

	var candidates []int
	for cursor := start; cursor+durationMinutes <= end; cursor += StartGranularityMinutes {
		candidates = append(candidates, cursor)
	}
	return candidates, nil
}

// FilterBreaks removes candidates that collide with break periods
// applying on the given date. A break with no time sub-range blocks
// the whole day; otherwise the half-open overlap rule decides.
func FilterBreaks(candidates []int, durationMinutes int, breaks []models.BreakPeriod, date time.Time) []int {
	if len(candidates) == 0 || len(breaks) == 0 {
		return candidates
	}

	var applicable []models.BreakPeriod
	for _, b := range breaks {
		if b.ContainsDate(date) {
			applicable = append(applicable, b)
		}
	}
	if len(applicable) == 0 {
		return candidates
	}

	kept := candidates[:0:0]
	for _, cand := range candidates {
		if !breakBlocks(applicable, cand, cand+durationMinutes) {
			kept = append(kept, cand)
		}
	}
	return kept
}

func breakBlocks(breaks []models.BreakPeriod, start, end int) bool {
	for _, b := range breaks {
		if b.WholeDay() {
			return true
		}
		bStart, err := ParseClock(*b.StartTime)
		if err != nil {
			continue
		}
		bEnd, err := ParseClock(*b.EndTime)
		if err != nil {
			continue
		}
		if Overlaps(start, end, bStart, bEnd) {
			return true
		}
	}
	return false
}

// FilterConflicts removes candidates overlapping active ledger
// bookings. Candidates are projected onto absolute instants on the
// given date in loc before comparing, so stored UTC bookings and
// wall-clock candidates meet on the same axis. Completed bookings do
// not block; adjacency is allowed.
func FilterConflicts(candidates []int, durationMinutes int, bookings []models.Booking, date time.Time, loc *time.Location) []int {
	if len(candidates) == 0 || len(bookings) == 0 {
		return candidates
	}

	kept := candidates[:0:0]
	for _, cand := range candidates {
		start := InstantOn(date, cand, loc)
		end := start.Add(time.Duration(durationMinutes) * time.Minute)
		blocked := false
		for _, booking := range bookings {
			if booking.Blocks() && booking.Overlaps(start, end) {
				blocked = true
				break
			}
		}
		if !blocked {
			kept = append(kept, cand)
		}
	}
	return kept
}

// InstantOn anchors minutes-since-midnight onto a calendar date in loc.
func InstantOn(date time.Time, minutes int, loc *time.Location) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), minutes/60, minutes%60, 0, 0, loc)
}
