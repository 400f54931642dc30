package focus

import (
	"context"
	"errors"
	"testing"
	"time"
)

func instant(time.Duration) <-chan time.Time {
	ch := make(chan time.Time, 1)
	ch <- time.Time{}
	return ch
}

func TestFormat(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{5 * time.Minute, "05:00"},
		{299 * time.Second, "04:59"},
		{61 * time.Second, "01:01"},
		{0, "00:00"},
		{-3 * time.Second, "00:00"},
		{1500 * time.Millisecond, "00:02"},
		{100 * time.Minute, "100:00"},
	}
	for _, tt := range tests {
		if got := Format(tt.d); got != tt.want {
			t.Errorf("Format(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}

func TestTimer_CountsDown(t *testing.T) {
	var ticks []string
	timer := &Timer{
		Duration: 3 * time.Second,
		After:    instant,
		Tick:     func(r time.Duration) { ticks = append(ticks, Format(r)) },
	}

	left, err := timer.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if left != 0 {
		t.Errorf("Run() left = %v, want 0", left)
	}

	want := []string{"00:03", "00:02", "00:01", "00:00"}
	if len(ticks) != len(want) {
		t.Fatalf("ticks = %v, want %v", ticks, want)
	}
	for i := range want {
		if ticks[i] != want[i] {
			t.Errorf("ticks[%d] = %q, want %q", i, ticks[i], want[i])
		}
	}
}

func TestTimer_DefaultDuration(t *testing.T) {
	n := 0
	timer := &Timer{After: instant, Tick: func(time.Duration) { n++ }}

	if _, err := timer.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if n != 301 {
		t.Errorf("ticks = %d, want 301", n)
	}
}

func TestTimer_Cancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	calls := 0
	timer := &Timer{
		Duration: 10 * time.Second,
		After: func(d time.Duration) <-chan time.Time {
			calls++
			if calls == 3 {
				cancel()
				return make(chan time.Time)
			}
			return instant(d)
		},
	}

	left, err := timer.Run(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Run() error = %v, want context.Canceled", err)
	}
	if left != 8*time.Second {
		t.Errorf("Run() left = %v, want 8s", left)
	}
}
