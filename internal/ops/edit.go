package ops

import (
	"context"

	"github.com/hpungsan/moodcal/internal/config"
	"github.com/hpungsan/moodcal/internal/errors"
	"github.com/hpungsan/moodcal/internal/journal"
	"github.com/hpungsan/moodcal/internal/mood"
)

// EditInput contains parameters for the Edit operation.
// Only the mood and note of an entry can change.
type EditInput struct {
	ID        string  // required
	Mood      *string // optional
	Note      *string // optional; replaces the note
	ClearNote bool    // removes the note; exclusive with Note
}

// EditOutput contains the result of the Edit operation.
type EditOutput struct {
	Updated bool         `json:"updated"`
	ID      string       `json:"id"`
	Entry   *EntryOutput `json:"entry,omitempty"`
}

// Edit changes an existing entry in place. An unknown id is not an error;
// the output reports Updated=false.
func Edit(ctx context.Context, j *journal.Journal, cfg *config.Config, input EditInput) (*EditOutput, error) {
	if err := checkCtx(ctx, "edit"); err != nil {
		return nil, err
	}

	id, err := RequireID(input.ID)
	if err != nil {
		return nil, err
	}
	if input.Mood == nil && input.Note == nil && !input.ClearNote {
		return nil, errors.NewInvalidRequest("nothing to edit: set mood, note, or clear_note")
	}
	if input.Note != nil && input.ClearNote {
		return nil, errors.NewInvalidRequest("note and clear_note are mutually exclusive")
	}

	var kind *mood.Kind
	if input.Mood != nil {
		k, err := ParseMood(*input.Mood)
		if err != nil {
			return nil, err
		}
		kind = &k
	}
	var note *string
	if input.Note != nil {
		if note, err = ValidateNote(input.Note, cfg); err != nil {
			return nil, err
		}
	}

	e, found, err := j.Modify(ctx, id, func(e *mood.Entry) error {
		if kind != nil {
			e.Mood = *kind
		}
		if input.ClearNote {
			e.Note = nil
		}
		if input.Note != nil {
			e.Note = note
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if !found {
		return &EditOutput{Updated: false, ID: id}, nil
	}
	out := NewEntryOutput(e)
	return &EditOutput{Updated: true, ID: id, Entry: &out}, nil
}
