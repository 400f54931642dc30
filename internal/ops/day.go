package ops

import (
	"github.com/hpungsan/moodcal/internal/calendar"
	"github.com/hpungsan/moodcal/internal/journal"
)

// DayInput contains parameters for the Day operation.
type DayInput struct {
	Date string // YYYY-MM-DD; default: today
}

// DayOutput contains the result of the Day operation.
type DayOutput struct {
	Date    string        `json:"date"`
	Label   string        `json:"label"`
	Entries []EntryOutput `json:"entries"`
}

// Day lists the entries logged on one day, newest first.
func Day(j *journal.Journal, input DayInput) (*DayOutput, error) {
	d, err := resolveDay(input.Date, j)
	if err != nil {
		return nil, err
	}
	entries := calendar.EntriesForDay(d, j.EntriesForMonth(d))
	return &DayOutput{
		Date:    calendar.DayKey(d),
		Label:   calendar.FormatDate(d),
		Entries: entryOutputs(entries),
	}, nil
}
