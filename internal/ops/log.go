package ops

import (
	"context"

	"github.com/hpungsan/moodcal/internal/config"
	"github.com/hpungsan/moodcal/internal/journal"
)

// LogInput contains parameters for the Log operation.
type LogInput struct {
	Mood string  // required; case-insensitive
	Note *string // optional; blank means no note
}

// LogOutput contains the result of the Log operation.
type LogOutput struct {
	Entry EntryOutput `json:"entry"`
}

// Log records a new mood entry for now.
func Log(ctx context.Context, j *journal.Journal, cfg *config.Config, input LogInput) (*LogOutput, error) {
	if err := checkCtx(ctx, "log"); err != nil {
		return nil, err
	}

	kind, err := ParseMood(input.Mood)
	if err != nil {
		return nil, err
	}
	note, err := ValidateNote(input.Note, cfg)
	if err != nil {
		return nil, err
	}

	e := j.Add(ctx, kind, note)
	return &LogOutput{Entry: NewEntryOutput(e)}, nil
}
