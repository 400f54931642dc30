package ops

import (
	"context"

	"github.com/hpungsan/moodcal/internal/journal"
)

// RemoveInput contains parameters for the Remove operation.
type RemoveInput struct {
	ID string
}

// RemoveOutput contains the result of the Remove operation.
type RemoveOutput struct {
	Deleted bool   `json:"deleted"`
	ID      string `json:"id"`
}

// Remove deletes every entry with the id. Removing an unknown id reports
// Deleted=false and is not an error.
func Remove(ctx context.Context, j *journal.Journal, input RemoveInput) (*RemoveOutput, error) {
	if err := checkCtx(ctx, "remove"); err != nil {
		return nil, err
	}
	id, err := RequireID(input.ID)
	if err != nil {
		return nil, err
	}
	return &RemoveOutput{Deleted: j.Delete(ctx, id), ID: id}, nil
}
