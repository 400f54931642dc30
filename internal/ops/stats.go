package ops

import (
	"github.com/hpungsan/moodcal/internal/calendar"
	"github.com/hpungsan/moodcal/internal/journal"
	"github.com/hpungsan/moodcal/internal/stats"
)

// StatsInput contains parameters for the Stats operation.
type StatsInput struct {
	Month string // YYYY-MM; default: current month
	All   bool   // ignore Month and use every entry
}

// StatsOutput contains the result of the Stats operation.
// Statistics is nil when the period has no entries; Rows always has five lines.
type StatsOutput struct {
	Period     string            `json:"period"`
	Label      string            `json:"label"`
	Total      int               `json:"total"`
	Statistics *stats.Statistics `json:"statistics"`
	Rows       []stats.Row       `json:"rows"`
}

// Stats computes statistics for a month or for the whole journal.
func Stats(j *journal.Journal, input StatsInput) (*StatsOutput, error) {
	out := &StatsOutput{Period: "all", Label: "All time"}

	var s *stats.Statistics
	if input.All {
		s = stats.Compute(j.Entries())
	} else {
		m, err := resolveMonth(input.Month, j)
		if err != nil {
			return nil, err
		}
		out.Period = calendar.MonthKey(m)
		out.Label = calendar.FormatMonth(m)
		s = stats.Compute(j.EntriesForMonth(m))
	}

	out.Statistics = s
	out.Total = s.Total()
	out.Rows = s.Rows()
	return out, nil
}
