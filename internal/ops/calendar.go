package ops

import (
	"github.com/hpungsan/moodcal/internal/calendar"
	"github.com/hpungsan/moodcal/internal/config"
	"github.com/hpungsan/moodcal/internal/journal"
)

// MaxCellGlyphs is how many glyphs a calendar cell shows before "+".
const MaxCellGlyphs = 2

// CalendarInput contains parameters for the Calendar operation.
type CalendarInput struct {
	Month string // YYYY-MM; default: current month
}

// CalendarCell is one grid slot. Day is 0 for padding.
type CalendarCell struct {
	Day    int      `json:"day"`
	Date   string   `json:"date,omitempty"`
	Count  int      `json:"count"`
	Glyphs []string `json:"glyphs,omitempty"`
	More   bool     `json:"more,omitempty"`
}

// CalendarOutput contains the result of the Calendar operation.
type CalendarOutput struct {
	Month    string           `json:"month"`
	Label    string           `json:"label"`
	Prev     string           `json:"prev"`
	Next     string           `json:"next"`
	Weekdays []string         `json:"weekdays"`
	Weeks    [][]CalendarCell `json:"weeks"`
}

// Calendar lays out a month grid with the newest glyphs of each day.
func Calendar(j *journal.Journal, cfg *config.Config, input CalendarInput) (*CalendarOutput, error) {
	m, err := resolveMonth(input.Month, j)
	if err != nil {
		return nil, err
	}
	weekStart := cfg.FirstWeekday()

	all := j.EntriesForMonth(m)
	out := &CalendarOutput{
		Month:    calendar.MonthKey(m),
		Label:    calendar.FormatMonth(m),
		Prev:     calendar.MonthKey(calendar.AddMonths(m, -1)),
		Next:     calendar.MonthKey(calendar.AddMonths(m, 1)),
		Weekdays: calendar.WeekdayHeaders(weekStart),
	}

	for _, week := range calendar.Weeks(m, weekStart) {
		row := make([]CalendarCell, len(week))
		for i, slot := range week {
			if slot.Blank() {
				continue
			}
			entries := calendar.EntriesForDay(slot.Date, all)
			cell := CalendarCell{
				Day:   slot.Day(),
				Date:  calendar.DayKey(slot.Date),
				Count: len(entries),
			}
			for k, e := range entries {
				if k == MaxCellGlyphs {
					cell.More = true
					break
				}
				cell.Glyphs = append(cell.Glyphs, e.Mood.Glyph())
			}
			row[i] = cell
		}
		out.Weeks = append(out.Weeks, row)
	}
	return out, nil
}
