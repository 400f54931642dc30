// Package stats computes aggregate figures over mood entries.
package stats

import (
	"slices"

	"github.com/hpungsan/moodcal/internal/mood"
)

// Streak is a run of consecutive entries sharing one mood.
type Streak struct {
	Mood  mood.Kind `json:"mood"`
	Count int       `json:"count"`
}

// Statistics summarizes a non-empty set of entries.
type Statistics struct {
	// Distribution holds only moods that occur; counts sum to len(entries).
	Distribution map[mood.Kind]int `json:"distribution"`

	// MostFrequentMood is nil only when there are no entries.
	MostFrequentMood *mood.Kind `json:"most_frequent_mood"`

	CurrentStreak *Streak `json:"current_streak"`
}

// Compute returns statistics for entries, or nil when entries is empty.
func Compute(entries []mood.Entry) *Statistics {
	if len(entries) == 0 {
		return nil
	}
	dist, leader := distribution(entries)
	return &Statistics{
		Distribution:     dist,
		MostFrequentMood: leader,
		CurrentStreak:    currentStreak(entries),
	}
}

// distribution counts moods in a single pass. A mood takes the lead only
// when its running count strictly exceeds the best seen so far, so on a tie
// the mood that reached the shared count first keeps it.
func distribution(entries []mood.Entry) (map[mood.Kind]int, *mood.Kind) {
	counts := make(map[mood.Kind]int)
	var leader *mood.Kind
	best := 0
	for _, e := range entries {
		counts[e.Mood]++
		if c := counts[e.Mood]; c > best {
			best = c
			k := e.Mood
			leader = &k
		}
	}
	return counts, leader
}

// currentStreak orders entries by day, newest first, and counts how many
// leading entries share the first entry's mood. The sort is stable, so
// entries on the same day keep their collection order. Each entry counts,
// not each day.
func currentStreak(entries []mood.Entry) *Streak {
	sorted := slices.Clone(entries)
	slices.SortStableFunc(sorted, func(a, b mood.Entry) int {
		return b.Day.Compare(a.Day)
	})

	s := &Streak{Mood: sorted[0].Mood, Count: 1}
	for _, e := range sorted[1:] {
		if e.Mood != s.Mood {
			break
		}
		s.Count++
	}
	return s
}

// Row is one line of a full distribution table.
type Row struct {
	Mood    mood.Kind `json:"mood"`
	Glyph   string    `json:"glyph"`
	Count   int       `json:"count"`
	Percent float64   `json:"percent"`
}

// Rows expands the distribution to all five moods in display order,
// including zero counts. A nil receiver yields five zero rows.
func (s *Statistics) Rows() []Row {
	total := 0
	if s != nil {
		for _, c := range s.Distribution {
			total += c
		}
	}
	rows := make([]Row, 0, len(mood.All))
	for _, k := range mood.All {
		r := Row{Mood: k, Glyph: k.Glyph()}
		if s != nil {
			r.Count = s.Distribution[k]
		}
		if total > 0 {
			r.Percent = float64(r.Count) * 100 / float64(total)
		}
		rows = append(rows, r)
	}
	return rows
}

// Total returns the number of entries the statistics were computed over.
func (s *Statistics) Total() int {
	if s == nil {
		return 0
	}
	n := 0
	for _, c := range s.Distribution {
		n += c
	}
	return n
}
