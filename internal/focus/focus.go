// Package focus implements the breathing countdown.
package focus

import (
	"context"
	"fmt"
	"time"
)

// DefaultDuration is the countdown length when none is configured.
const DefaultDuration = 5 * time.Minute

// Timer counts down in whole steps and reports the remaining time.
type Timer struct {
	Duration time.Duration
	Step     time.Duration

	// Tick is called with the remaining time before the first step and after
	// every step, ending with zero when the countdown completes.
	Tick func(remaining time.Duration)

	// After returns a channel that fires once d has elapsed. Defaults to time.After.
	After func(d time.Duration) <-chan time.Time
}

// Run blocks until the countdown completes or ctx is done. It returns the
// time left on the clock and ctx.Err() when stopped early.
func (t *Timer) Run(ctx context.Context) (time.Duration, error) {
	remaining := t.Duration
	if remaining <= 0 {
		remaining = DefaultDuration
	}
	step := t.Step
	if step <= 0 {
		step = time.Second
	}
	after := t.After
	if after == nil {
		after = time.After
	}

	t.tick(remaining)
	for remaining > 0 {
		wait := min(step, remaining)
		select {
		case <-ctx.Done():
			return remaining, ctx.Err()
		case <-after(wait):
		}
		remaining -= wait
		t.tick(remaining)
	}
	return 0, nil
}

func (t *Timer) tick(remaining time.Duration) {
	if t.Tick != nil {
		t.Tick(remaining)
	}
}

// Format renders d as MM:SS, rounding partial seconds up.
func Format(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	secs := int((d + time.Second - 1) / time.Second)
	return fmt.Sprintf("%02d:%02d", secs/60, secs%60)
}
