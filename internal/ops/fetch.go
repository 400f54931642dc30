package ops

import (
	"github.com/hpungsan/moodcal/internal/errors"
	"github.com/hpungsan/moodcal/internal/journal"
)

// FetchInput contains parameters for the Fetch operation.
type FetchInput struct {
	ID string
}

// Fetch returns a single entry by id.
func Fetch(j *journal.Journal, input FetchInput) (*EntryOutput, error) {
	id, err := RequireID(input.ID)
	if err != nil {
		return nil, err
	}
	e, ok := j.Get(id)
	if !ok {
		return nil, errors.NewNotFound(id)
	}
	out := NewEntryOutput(e)
	return &out, nil
}
