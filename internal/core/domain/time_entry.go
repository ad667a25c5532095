package domain

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// NotesDelimiter separates notes appended on clock-out from the clock-in notes.
const NotesDelimiter = " | "

// TimeEntry is one clock session of a workman. ClockOut is nil while open.
type TimeEntry struct {
	ID         int64      `json:"id"`
	WorkmanTRN string     `json:"workman_trn"`
	ClockIn    time.Time  `json:"clock_in"`
	ClockOut   *time.Time `json:"clock_out,omitempty"`
	Notes      string     `json:"notes,omitempty"`
}

// Open reports whether the session has not been clocked out yet.
func (e *TimeEntry) Open() bool {
	return e.ClockOut == nil
}

// DurationHours returns the closed session length in hours rounded to two
// decimals. ok is false while the entry is open.
func (e *TimeEntry) DurationHours() (hours float64, ok bool) {
	if e.ClockOut == nil {
		return 0, false
	}
	return RoundHours(e.ClockOut.Sub(e.ClockIn).Hours()), true
}

// DurationFormatted renders the session length as "Xh Ym", or "In Progress".
func (e *TimeEntry) DurationFormatted() string {
	if e.ClockOut == nil {
		return "In Progress"
	}
	d := e.ClockOut.Sub(e.ClockIn)
	return fmt.Sprintf("%dh %dm", int(d/time.Hour), int((d%time.Hour)/time.Minute))
}

// AppendNotes joins extra onto existing with NotesDelimiter. Blank input is ignored.
func AppendNotes(existing, extra string) string {
	extra = strings.TrimSpace(extra)
	switch {
	case extra == "":
		return existing
	case existing == "":
		return extra
	default:
		return existing + NotesDelimiter + extra
	}
}

// Summary aggregates a set of entries.
type Summary struct {
	TotalHours        float64 `json:"total_hours"`
	CompletedSessions int     `json:"completed_sessions"`
	ActiveSessions    int     `json:"active_sessions"`
}

// Aggregate sums the durations of closed entries and counts open ones.
func Aggregate(entries []TimeEntry) Summary {
	var s Summary
	for i := range entries {
		h, ok := entries[i].DurationHours()
		if !ok {
			s.ActiveSessions++
			continue
		}
		s.CompletedSessions++
		s.TotalHours += h
	}
	s.TotalHours = RoundHours(s.TotalHours)
	return s
}

// RoundHours rounds h to two decimals.
func RoundHours(h float64) float64 {
	return math.Round(h*100) / 100
}
