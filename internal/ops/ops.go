package ops

import (
	"context"
	"strings"
	"time"

	"github.com/hpungsan/moodcal/internal/calendar"
	"github.com/hpungsan/moodcal/internal/config"
	"github.com/hpungsan/moodcal/internal/errors"
	"github.com/hpungsan/moodcal/internal/journal"
	"github.com/hpungsan/moodcal/internal/mood"
)

// Now is the clock used to resolve "current month" defaults.
var Now = time.Now

// EntryOutput is the wire form of an entry returned by every operation.
type EntryOutput struct {
	ID        string    `json:"id"`
	Date      string    `json:"date"`
	Mood      mood.Kind `json:"mood"`
	Glyph     string    `json:"glyph"`
	Note      *string   `json:"note,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// NewEntryOutput converts an entry to its wire form.
func NewEntryOutput(e mood.Entry) EntryOutput {
	return EntryOutput{
		ID:        e.ID,
		Date:      calendar.DayKey(e.Day),
		Mood:      e.Mood,
		Glyph:     e.Mood.Glyph(),
		Note:      e.Note,
		CreatedAt: e.CreatedAt,
	}
}

func entryOutputs(entries []mood.Entry) []EntryOutput {
	out := make([]EntryOutput, len(entries))
	for i, e := range entries {
		out[i] = NewEntryOutput(e)
	}
	return out
}

// ParseMood validates a user-supplied mood tag.
func ParseMood(s string) (mood.Kind, error) {
	if strings.TrimSpace(s) == "" {
		return "", errors.NewInvalidRequest("mood is required")
	}
	k, err := mood.ParseKind(s)
	if err != nil {
		return "", errors.NewInvalidRequest(err.Error())
	}
	return k, nil
}

// ValidateNote normalizes a note and enforces the configured size limit.
// Blank notes become nil.
func ValidateNote(note *string, cfg *config.Config) (*string, error) {
	note = mood.NormalizeNote(note)
	if note == nil || cfg == nil || cfg.NoteMaxChars <= 0 {
		return note, nil
	}
	if n := mood.CountChars(*note); n > cfg.NoteMaxChars {
		return nil, errors.NewNoteTooLarge(cfg.NoteMaxChars, n)
	}
	return note, nil
}

// RequireID trims and checks an entry id.
func RequireID(id string) (string, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", errors.NewInvalidRequest("id is required")
	}
	return id, nil
}

// resolveMonth parses "YYYY-MM", defaulting to the current month.
func resolveMonth(s string, j *journal.Journal) (time.Time, error) {
	loc := j.Location()
	if strings.TrimSpace(s) == "" {
		return calendar.StartOfMonth(Now().In(loc)), nil
	}
	m, err := calendar.ParseMonth(s, loc)
	if err != nil {
		return time.Time{}, errors.NewInvalidRequest(err.Error())
	}
	return m, nil
}

// resolveDay parses "YYYY-MM-DD", defaulting to today.
func resolveDay(s string, j *journal.Journal) (time.Time, error) {
	loc := j.Location()
	if strings.TrimSpace(s) == "" {
		return mood.StartOfDay(Now(), loc), nil
	}
	d, err := calendar.ParseDay(s, loc)
	if err != nil {
		return time.Time{}, errors.NewInvalidRequest(err.Error())
	}
	return d, nil
}

func checkCtx(ctx context.Context, op string) error {
	if ctx.Err() != nil {
		return errors.NewCancelled(op)
	}
	return nil
}
