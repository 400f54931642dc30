package ops

import (
	"github.com/hpungsan/moodcal/internal/calendar"
	"github.com/hpungsan/moodcal/internal/journal"
)

// MonthInput contains parameters for the Month operation.
type MonthInput struct {
	Month string // YYYY-MM; default: current month
}

// MonthOutput contains the result of the Month operation.
type MonthOutput struct {
	Month   string        `json:"month"`
	Label   string        `json:"label"`
	Count   int           `json:"count"`
	Entries []EntryOutput `json:"entries"`
}

// Month lists a month's entries in the order they were logged.
func Month(j *journal.Journal, input MonthInput) (*MonthOutput, error) {
	m, err := resolveMonth(input.Month, j)
	if err != nil {
		return nil, err
	}
	entries := j.EntriesForMonth(m)
	return &MonthOutput{
		Month:   calendar.MonthKey(m),
		Label:   calendar.FormatMonth(m),
		Count:   len(entries),
		Entries: entryOutputs(entries),
	}, nil
}
