package mood

import (
	"time"

	"github.com/google/uuid"
)

// Entry is one mood log record.
type Entry struct {
	// ID is a UUID assigned at creation
	ID string `json:"id"`

	// Day is CreatedAt truncated to local midnight
	Day time.Time `json:"date"`

	Mood Kind `json:"mood"`

	// Note is optional free text (nullable)
	Note *string `json:"note,omitempty"`

	// CreatedAt is the creation instant; never changes
	CreatedAt time.Time `json:"timestamp"`
}

// NewEntry builds an entry created at now, bucketed into its day in loc.
func NewEntry(kind Kind, note *string, now time.Time, loc *time.Location) Entry {
	now = now.Round(0).In(loc)
	return Entry{
		ID:        uuid.NewString(),
		Day:       StartOfDay(now, loc),
		Mood:      kind,
		Note:      note,
		CreatedAt: now,
	}
}

// NoteText returns the note or "".
func (e Entry) NoteText() string {
	if e.Note == nil {
		return ""
	}
	return *e.Note
}

// StartOfDay returns midnight of t's calendar day in loc.
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// SameDay reports whether a and b fall on the same calendar day in a's location.
func SameDay(a, b time.Time) bool {
	b = b.In(a.Location())
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// SameMonth reports whether a and b fall in the same calendar year and month in a's location.
func SameMonth(a, b time.Time) bool {
	b = b.In(a.Location())
	return a.Year() == b.Year() && a.Month() == b.Month()
}
