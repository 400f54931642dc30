// Package calendar lays out month grids and buckets entries by day.
package calendar

import (
	"iter"
	"slices"
	"time"

	"github.com/hpungsan/moodcal/internal/mood"
)

// Slot is one cell of a month grid. Blank slots pad the first week.
type Slot struct {
	Date time.Time
}

// Blank reports whether the slot is padding rather than a day.
func (s Slot) Blank() bool {
	return s.Date.IsZero()
}

// Day returns the day of month, or 0 for a blank slot.
func (s Slot) Day() int {
	if s.Blank() {
		return 0
	}
	return s.Date.Day()
}

// DaysInMonth yields the grid for anchor's month: one blank for each column
// before the 1st, counted from weekStart, then every day of the month at
// midnight in anchor's location. The sequence is finite and can be ranged
// over any number of times.
func DaysInMonth(anchor time.Time, weekStart time.Weekday) iter.Seq[Slot] {
	first := StartOfMonth(anchor)
	return func(yield func(Slot) bool) {
		blanks := (int(first.Weekday()) - int(weekStart) + 7) % 7
		for range blanks {
			if !yield(Slot{}) {
				return
			}
		}
		for d := first; d.Month() == first.Month(); d = d.AddDate(0, 0, 1) {
			if !yield(Slot{Date: d}) {
				return
			}
		}
	}
}

// Weeks chunks DaysInMonth into rows of seven, padding the last row with blanks.
func Weeks(anchor time.Time, weekStart time.Weekday) [][]Slot {
	var weeks [][]Slot
	var row []Slot
	for s := range DaysInMonth(anchor, weekStart) {
		row = append(row, s)
		if len(row) == 7 {
			weeks = append(weeks, row)
			row = nil
		}
	}
	if len(row) > 0 {
		for len(row) < 7 {
			row = append(row, Slot{})
		}
		weeks = append(weeks, row)
	}
	return weeks
}

// WeekdayHeaders returns short weekday names starting at weekStart.
func WeekdayHeaders(weekStart time.Weekday) []string {
	out := make([]string, 7)
	for i := range out {
		out[i] = time.Weekday((int(weekStart) + i) % 7).String()[:3]
	}
	return out
}

// EntriesForDay returns entries on date's calendar day, newest first.
func EntriesForDay(date time.Time, all []mood.Entry) []mood.Entry {
	var out []mood.Entry
	for _, e := range all {
		if mood.SameDay(date, e.Day) {
			out = append(out, e)
		}
	}
	slices.SortStableFunc(out, func(a, b mood.Entry) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return out
}

// DayKey formats t's calendar date as YYYY-MM-DD.
func DayKey(t time.Time) string {
	return t.Format(time.DateOnly)
}

// ByDay groups entries by DayKey of their day, preserving collection order
// within each group.
func ByDay(entries []mood.Entry) map[string][]mood.Entry {
	out := make(map[string][]mood.Entry)
	for _, e := range entries {
		k := DayKey(e.Day)
		out[k] = append(out[k], e)
	}
	return out
}
