package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/hpungsan/moodcal/internal/config"
	"github.com/hpungsan/moodcal/internal/db"
	"github.com/hpungsan/moodcal/internal/journal"
	"github.com/hpungsan/moodcal/internal/ops"
)

var testNow = time.Date(2024, 1, 3, 10, 0, 0, 0, time.UTC)

// setupTestJournal creates a journal over a temporary database.
func setupTestJournal(t *testing.T) *journal.Journal {
	t.Helper()
	database, err := db.Init(t.TempDir())
	if err != nil {
		t.Fatalf("failed to init test db: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	return journal.New(db.NewKV(database),
		journal.WithLocation(time.UTC),
		journal.WithClock(func() time.Time { return testNow }))
}

// testConfig returns a config that allows exports anywhere.
func testConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.AllowUnsafePaths = true
	return cfg
}

// runCLI runs one command and returns what it printed.
func runCLI(t *testing.T, j *journal.Journal, cfg *config.Config, args ...string) (string, error) {
	t.Helper()
	app := newCLIApp(j, cfg, nil)
	var buf bytes.Buffer
	app.Writer = &buf
	app.ErrWriter = &buf
	err := app.Run(append([]string{"moodcal"}, args...))
	return buf.String(), err
}

func TestCLILog(t *testing.T) {
	j := setupTestJournal(t)

	out, err := runCLI(t, j, testConfig(), "log", "--note", "slept well", "Great")
	if err != nil {
		t.Fatalf("log command failed: %v", err)
	}

	var output ops.LogOutput
	if err := json.Unmarshal([]byte(out), &output); err != nil {
		t.Fatalf("failed to parse output: %v\nOutput: %s", err, out)
	}
	if output.Entry.ID == "" {
		t.Error("expected non-empty ID")
	}
	if output.Entry.Date != "2024-01-03" {
		t.Errorf("date = %q, want 2024-01-03", output.Entry.Date)
	}
	if output.Entry.Note == nil || *output.Entry.Note != "slept well" {
		t.Errorf("note = %v, want slept well", output.Entry.Note)
	}
	if j.Len() != 1 {
		t.Errorf("journal Len = %d, want 1", j.Len())
	}
}

func TestCLILog_NoteFromStdin(t *testing.T) {
	j := setupTestJournal(t)

	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("Failed to create pipe: %v", err)
	}
	go func() {
		_, _ = w.WriteString("  from a pipe \n")
		w.Close()
	}()
	oldStdin := os.Stdin
	os.Stdin = r
	defer func() { os.Stdin = oldStdin }()

	if _, err := runCLI(t, j, testConfig(), "log", "--note", "-", "sad"); err != nil {
		t.Fatalf("log command failed: %v", err)
	}
	e := j.Entries()[0]
	if e.Note == nil || *e.Note != "from a pipe" {
		t.Errorf("note = %v, want from a pipe", e.Note)
	}
}

func TestCLIEditShowDelete(t *testing.T) {
	j := setupTestJournal(t)
	cfg := testConfig()
	id := j.Add(context.Background(), "Neutral", nil).ID

	t.Run("edit", func(t *testing.T) {
		out, err := runCLI(t, j, cfg, "edit", "--mood", "happy", "--note", "better", id)
		if err != nil {
			t.Fatalf("edit command failed: %v", err)
		}
		var output ops.EditOutput
		if err := json.Unmarshal([]byte(out), &output); err != nil {
			t.Fatalf("failed to parse output: %v", err)
		}
		if !output.Updated {
			t.Error("expected updated=true")
		}
	})

	t.Run("show", func(t *testing.T) {
		out, err := runCLI(t, j, cfg, "show", id)
		if err != nil {
			t.Fatalf("show command failed: %v", err)
		}
		var output ops.EntryOutput
		if err := json.Unmarshal([]byte(out), &output); err != nil {
			t.Fatalf("failed to parse output: %v", err)
		}
		if output.Mood != "Happy" || output.Note == nil || *output.Note != "better" {
			t.Errorf("entry = %+v", output)
		}
	})

	t.Run("delete twice", func(t *testing.T) {
		for i, want := range []bool{true, false} {
			out, err := runCLI(t, j, cfg, "delete", id)
			if err != nil {
				t.Fatalf("delete #%d failed: %v", i+1, err)
			}
			var output ops.RemoveOutput
			if err := json.Unmarshal([]byte(out), &output); err != nil {
				t.Fatalf("failed to parse output: %v", err)
			}
			if output.Deleted != want {
				t.Errorf("delete #%d deleted=%v, want %v", i+1, output.Deleted, want)
			}
		}
	})
}

func TestCLIViews(t *testing.T) {
	j := setupTestJournal(t)
	cfg := testConfig()
	ctx := context.Background()
	j.Add(ctx, "Happy", nil)
	j.Add(ctx, "Happy", nil)
	j.Add(ctx, "Sad", nil)

	t.Run("month", func(t *testing.T) {
		out, err := runCLI(t, j, cfg, "month", "--month", "2024-01")
		if err != nil {
			t.Fatalf("month command failed: %v", err)
		}
		var output ops.MonthOutput
		if err := json.Unmarshal([]byte(out), &output); err != nil {
			t.Fatalf("failed to parse output: %v", err)
		}
		if output.Count != 3 {
			t.Errorf("count = %d, want 3", output.Count)
		}
	})

	t.Run("day newest first", func(t *testing.T) {
		out, err := runCLI(t, j, cfg, "day", "--date", "2024-01-03")
		if err != nil {
			t.Fatalf("day command failed: %v", err)
		}
		var output ops.DayOutput
		if err := json.Unmarshal([]byte(out), &output); err != nil {
			t.Fatalf("failed to parse output: %v", err)
		}
		if len(output.Entries) != 3 {
			t.Fatalf("entries = %d, want 3", len(output.Entries))
		}
	})

	t.Run("stats", func(t *testing.T) {
		out, err := runCLI(t, j, cfg, "stats", "--all")
		if err != nil {
			t.Fatalf("stats command failed: %v", err)
		}
		var output ops.StatsOutput
		if err := json.Unmarshal([]byte(out), &output); err != nil {
			t.Fatalf("failed to parse output: %v", err)
		}
		if output.Total != 3 {
			t.Errorf("total = %d, want 3", output.Total)
		}
		if m := output.Statistics.MostFrequentMood; m == nil || *m != "Happy" {
			t.Errorf("most frequent = %v, want Happy", m)
		}
	})

	t.Run("calendar text", func(t *testing.T) {
		out, err := runCLI(t, j, cfg, "calendar", "--month", "2024-01")
		if err != nil {
			t.Fatalf("calendar command failed: %v", err)
		}
		lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
		if lines[0] != "January 2024" {
			t.Errorf("title = %q", lines[0])
		}
		if !strings.HasPrefix(lines[1], "Sun") {
			t.Errorf("header = %q", lines[1])
		}
		if len(lines) != 2+5 {
			t.Errorf("lines = %d, want 7\n%s", len(lines), out)
		}
		if !strings.Contains(out, " 3 ") || !strings.Contains(out, "+") {
			t.Errorf("expected day 3 with overflow marker\n%s", out)
		}
	})
}

func TestCLIExportImport(t *testing.T) {
	j := setupTestJournal(t)
	cfg := testConfig()
	j.Add(context.Background(), "Terrible", nil)

	path := filepath.Join(t.TempDir(), "moods.jsonl")
	out, err := runCLI(t, j, cfg, "export", "--path", path)
	if err != nil {
		t.Fatalf("export command failed: %v", err)
	}
	var exp ops.ExportOutput
	if err := json.Unmarshal([]byte(out), &exp); err != nil {
		t.Fatalf("failed to parse output: %v", err)
	}
	if exp.Count != 1 || exp.ExportID == "" {
		t.Errorf("export = %+v", exp)
	}

	other := setupTestJournal(t)
	out, err = runCLI(t, other, cfg, "import", "--path", path)
	if err != nil {
		t.Fatalf("import command failed: %v", err)
	}
	var imp ops.ImportOutput
	if err := json.Unmarshal([]byte(out), &imp); err != nil {
		t.Fatalf("failed to parse output: %v", err)
	}
	if imp.Imported != 1 {
		t.Errorf("imported = %d, want 1", imp.Imported)
	}

	if _, err := runCLI(t, other, cfg, "import", "--path", path); err == nil {
		t.Error("expected collision error in default mode")
	}
	if _, err := runCLI(t, other, cfg, "import", "--path", path, "--mode", "replace"); err != nil {
		t.Errorf("replace import failed: %v", err)
	}
}

func TestCLIFocus_StopsOnCancel(t *testing.T) {
	app := newCLIApp(nil, testConfig(), nil)
	var buf bytes.Buffer
	app.Writer = &buf

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := app.RunContext(ctx, []string{"moodcal", "focus", "--seconds", "90"}); err != nil {
		t.Fatalf("focus command failed: %v", err)
	}
	if !strings.Contains(buf.String(), "01:30") {
		t.Errorf("expected initial tick, got %q", buf.String())
	}
	if !strings.Contains(buf.String(), "Stopped with 01:30 left.") {
		t.Errorf("expected stop message, got %q", buf.String())
	}
}

// TestCLIErrorHandling tests error handling in CLI commands.
func TestCLIErrorHandling(t *testing.T) {
	j := setupTestJournal(t)
	cfg := testConfig()

	tests := []struct {
		name string
		args []string
	}{
		{"unknown mood", []string{"log", "ecstatic"}},
		{"missing mood", []string{"log"}},
		{"show not found", []string{"show", "nonexistent"}},
		{"edit without changes", []string{"edit", "some-id"}},
		{"bad month", []string{"month", "--month", "2024-13"}},
		{"bad import mode", []string{"import", "--path", "x.jsonl", "--mode", "rename"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := runCLI(t, j, cfg, tt.args...); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
	if j.Len() != 0 {
		t.Errorf("journal Len = %d, want 0", j.Len())
	}
}

// TestIsCLIMode tests the isCLIMode function.
func TestIsCLIMode(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		expected bool
	}{
		{"no args", []string{"moodcal"}, false},
		{"log command", []string{"moodcal", "log"}, true},
		{"calendar command", []string{"moodcal", "calendar"}, true},
		{"ui command", []string{"moodcal", "ui"}, true},
		{"help flag", []string{"moodcal", "--help"}, true},
		{"version flag", []string{"moodcal", "--version"}, true},
		{"short help flag", []string{"moodcal", "-h"}, true},
		{"verbose flag", []string{"moodcal", "--verbose", "stats"}, true},
		{"unknown arg defaults to MCP", []string{"moodcal", "--unknown"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			oldArgs := os.Args
			defer func() { os.Args = oldArgs }()

			os.Args = tt.args
			if result := isCLIMode(); result != tt.expected {
				t.Errorf("expected %v, got %v", tt.expected, result)
			}
		})
	}
}

// TestIsHelpOrVersion tests the isHelpOrVersion function.
func TestIsHelpOrVersion(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		expected bool
	}{
		{"no args", []string{"moodcal"}, false},
		{"help flag", []string{"moodcal", "--help"}, true},
		{"short version flag", []string{"moodcal", "-v"}, true},
		{"help subcommand", []string{"moodcal", "help"}, true},
		{"log command is not help", []string{"moodcal", "log"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			oldArgs := os.Args
			defer func() { os.Args = oldArgs }()

			os.Args = tt.args
			if result := isHelpOrVersion(); result != tt.expected {
				t.Errorf("expected %v, got %v", tt.expected, result)
			}
		})
	}
}

// TestReadStdinWithLimit tests the readStdin function respects size limits.
func TestReadStdinWithLimit(t *testing.T) {
	t.Run("within limit", func(t *testing.T) {
		content := "small content"
		r, w, err := os.Pipe()
		if err != nil {
			t.Fatalf("Failed to create pipe: %v", err)
		}
		go func() {
			_, _ = w.WriteString(content)
			w.Close()
		}()

		oldStdin := os.Stdin
		os.Stdin = r
		defer func() { os.Stdin = oldStdin }()

		result, err := readStdin(1000)
		if err != nil {
			t.Errorf("unexpected error: %v", err)
		}
		if result != content {
			t.Errorf("expected %q, got %q", content, result)
		}
	})

	t.Run("exceeds limit", func(t *testing.T) {
		r, w, err := os.Pipe()
		if err != nil {
			t.Fatalf("Failed to create pipe: %v", err)
		}
		go func() {
			_, _ = w.WriteString(strings.Repeat("x", 100))
			w.Close()
		}()

		oldStdin := os.Stdin
		os.Stdin = r
		defer func() { os.Stdin = oldStdin }()

		if _, err := readStdin(50); err == nil {
			t.Error("expected error for content exceeding limit, got nil")
		}
	})
}

func TestPrintCalendar(t *testing.T) {
	out := &ops.CalendarOutput{
		Label:    "February 2026",
		Weekdays: []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"},
		Weeks: [][]ops.CalendarCell{
			{{Day: 1, Glyphs: []string{"😊", "🙂"}, More: true}, {Day: 2}, {Day: 3}, {Day: 4}, {Day: 5}, {Day: 6}, {Day: 7}},
		},
	}
	var buf bytes.Buffer
	printCalendar(&buf, out)

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("lines = %d, want 3:\n%s", len(lines), buf.String())
	}
	if !strings.HasPrefix(lines[2], " 1 😊🙂+") {
		t.Errorf("first cell = %q", lines[2])
	}
	if !strings.HasSuffix(lines[2], " 7") {
		t.Errorf("trailing spaces not trimmed: %q", lines[2])
	}
}
