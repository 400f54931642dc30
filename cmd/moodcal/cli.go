package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/hpungsan/moodcal/internal/config"
	"github.com/hpungsan/moodcal/internal/errors"
	"github.com/hpungsan/moodcal/internal/focus"
	"github.com/hpungsan/moodcal/internal/journal"
	"github.com/hpungsan/moodcal/internal/ops"
	"github.com/hpungsan/moodcal/internal/web"
)

// maxStdinBytes caps a note piped through stdin.
const maxStdinBytes = 64 * 1024

// newCLIApp creates the CLI application with all commands.
func newCLIApp(j *journal.Journal, cfg *config.Config, level *slog.LevelVar) *cli.App {
	app := &cli.App{
		Name:    "moodcal",
		Usage:   "Daily mood journal",
		Version: Version,
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "verbose", Usage: "Log debug output to stderr"},
		},
		Before: func(c *cli.Context) error {
			if c.Bool("verbose") && level != nil {
				level.Set(slog.LevelDebug)
			}
			return nil
		},
		Commands: []*cli.Command{
			logCmd(j, cfg),
			editCmd(j, cfg),
			deleteCmd(j),
			showCmd(j),
			monthCmd(j),
			dayCmd(j),
			statsCmd(j),
			calendarCmd(j, cfg),
			exportCmd(j, cfg),
			importCmd(j, cfg),
			focusCmd(cfg),
			uiCmd(j, cfg),
		},
	}
	// Disable default exit error handler to allow proper error return in tests
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return app
}

// logCmd creates the log command.
func logCmd(j *journal.Journal, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:      "log",
		Usage:     "Log a mood (great|happy|neutral|sad|terrible)",
		ArgsUsage: "<mood>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "note", Aliases: []string{"n"}, Usage: "Optional note; use - to read it from stdin"},
		},
		Action: func(c *cli.Context) error {
			input := ops.LogInput{Mood: c.Args().First()}

			note, err := noteFlag(c)
			if err != nil {
				return outputError(err)
			}
			input.Note = note

			output, err := ops.Log(c.Context, j, cfg, input)
			if err != nil {
				return outputError(err)
			}

			return outputJSON(c.App.Writer, output)
		},
	}
}

// editCmd creates the edit command.
func editCmd(j *journal.Journal, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:      "edit",
		Usage:     "Change the mood or note of an entry",
		ArgsUsage: "<id>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "mood", Aliases: []string{"m"}, Usage: "New mood"},
			&cli.StringFlag{Name: "note", Aliases: []string{"n"}, Usage: "New note; use - to read it from stdin"},
			&cli.BoolFlag{Name: "clear-note", Usage: "Remove the note"},
		},
		Action: func(c *cli.Context) error {
			input := ops.EditInput{
				ID:        c.Args().First(),
				ClearNote: c.Bool("clear-note"),
			}
			if c.IsSet("mood") {
				m := c.String("mood")
				input.Mood = &m
			}

			note, err := noteFlag(c)
			if err != nil {
				return outputError(err)
			}
			input.Note = note

			output, err := ops.Edit(c.Context, j, cfg, input)
			if err != nil {
				return outputError(err)
			}

			return outputJSON(c.App.Writer, output)
		},
	}
}

// deleteCmd creates the delete command.
func deleteCmd(j *journal.Journal) *cli.Command {
	return &cli.Command{
		Name:      "delete",
		Usage:     "Delete an entry",
		ArgsUsage: "<id>",
		Action: func(c *cli.Context) error {
			output, err := ops.Remove(c.Context, j, ops.RemoveInput{ID: c.Args().First()})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(c.App.Writer, output)
		},
	}
}

// showCmd creates the show command.
func showCmd(j *journal.Journal) *cli.Command {
	return &cli.Command{
		Name:      "show",
		Usage:     "Show one entry",
		ArgsUsage: "<id>",
		Action: func(c *cli.Context) error {
			output, err := ops.Fetch(j, ops.FetchInput{ID: c.Args().First()})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(c.App.Writer, output)
		},
	}
}

// monthCmd creates the month command.
func monthCmd(j *journal.Journal) *cli.Command {
	return &cli.Command{
		Name:  "month",
		Usage: "List the entries of a month",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "month", Aliases: []string{"m"}, Usage: "Month as YYYY-MM (default: current)"},
		},
		Action: func(c *cli.Context) error {
			output, err := ops.Month(j, ops.MonthInput{Month: c.String("month")})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(c.App.Writer, output)
		},
	}
}

// dayCmd creates the day command.
func dayCmd(j *journal.Journal) *cli.Command {
	return &cli.Command{
		Name:  "day",
		Usage: "List the entries of a day, newest first",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "date", Aliases: []string{"d"}, Usage: "Day as YYYY-MM-DD (default: today)"},
		},
		Action: func(c *cli.Context) error {
			output, err := ops.Day(j, ops.DayInput{Date: c.String("date")})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(c.App.Writer, output)
		},
	}
}

// statsCmd creates the stats command.
func statsCmd(j *journal.Journal) *cli.Command {
	return &cli.Command{
		Name:  "stats",
		Usage: "Show mood distribution, most frequent mood and current streak",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "month", Aliases: []string{"m"}, Usage: "Month as YYYY-MM (default: current)"},
			&cli.BoolFlag{Name: "all", Aliases: []string{"a"}, Usage: "Use every entry instead of one month"},
		},
		Action: func(c *cli.Context) error {
			output, err := ops.Stats(j, ops.StatsInput{
				Month: c.String("month"),
				All:   c.Bool("all"),
			})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(c.App.Writer, output)
		},
	}
}

// calendarCmd creates the calendar command.
func calendarCmd(j *journal.Journal, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "calendar",
		Usage: "Print a month grid with the moods of each day",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "month", Aliases: []string{"m"}, Usage: "Month as YYYY-MM (default: current)"},
			&cli.BoolFlag{Name: "json", Usage: "Print the grid as JSON"},
		},
		Action: func(c *cli.Context) error {
			output, err := ops.Calendar(j, cfg, ops.CalendarInput{Month: c.String("month")})
			if err != nil {
				return outputError(err)
			}

			if c.Bool("json") {
				return outputJSON(c.App.Writer, output)
			}
			printCalendar(c.App.Writer, output)
			return nil
		},
	}
}

// exportCmd creates the export command.
func exportCmd(j *journal.Journal, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Export entries to a JSONL file",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "path", Aliases: []string{"p"}, Usage: "Export file path (default: ~/.moodcal/exports/moodcal-<scope>-<timestamp>.jsonl)"},
			&cli.StringFlag{Name: "month", Aliases: []string{"m"}, Usage: "Only export one month (YYYY-MM)"},
		},
		Action: func(c *cli.Context) error {
			output, err := ops.Export(c.Context, j, cfg, ops.ExportInput{
				Path:  c.String("path"),
				Month: c.String("month"),
			})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(c.App.Writer, output)
		},
	}
}

// importCmd creates the import command.
func importCmd(j *journal.Journal, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "import",
		Usage: "Import entries from a JSONL file",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "path", Aliases: []string{"p"}, Required: true, Usage: "Import file path"},
			&cli.StringFlag{Name: "mode", Aliases: []string{"m"}, Value: "error", Usage: "Collision mode: error|replace|skip"},
		},
		Action: func(c *cli.Context) error {
			output, err := ops.Import(c.Context, j, cfg, ops.ImportInput{
				Path: c.String("path"),
				Mode: ops.ImportMode(c.String("mode")),
			})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(c.App.Writer, output)
		},
	}
}

// focusCmd creates the focus command.
func focusCmd(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "focus",
		Usage: "Run a breathing countdown (Ctrl-C to stop)",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "seconds", Aliases: []string{"s"}, Usage: "Countdown length (default: focus_seconds from config)"},
		},
		Action: func(c *cli.Context) error {
			d := cfg.FocusDuration()
			if s := c.Int("seconds"); s > 0 {
				d = time.Duration(s) * time.Second
			}

			ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
			defer stop()

			w := c.App.Writer
			timer := &focus.Timer{
				Duration: d,
				Tick: func(remaining time.Duration) {
					fmt.Fprintf(w, "\r%s", focus.Format(remaining))
				},
			}
			left, err := timer.Run(ctx)
			fmt.Fprintln(w)
			if err != nil {
				fmt.Fprintf(w, "Stopped with %s left.\n", focus.Format(left))
				return nil
			}
			fmt.Fprintln(w, "Done.")
			return nil
		},
	}
}

// uiCmd creates the ui command.
func uiCmd(j *journal.Journal, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:        "ui",
		Usage:       "Serve the web UI",
		Description: "Pages and edits reread the journal when another moodcal process has changed it.",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "bind", Value: web.DefaultBind, Usage: "Address to bind"},
			&cli.IntFlag{Name: "port", Value: web.DefaultPort, Usage: "Port to listen on"},
		},
		Action: func(c *cli.Context) error {
			srv := web.NewServer(j, cfg, Version, c.String("bind"), c.Int("port"))
			if err := web.Run(srv); err != nil {
				return outputError(errors.NewInternal(err))
			}
			return nil
		},
	}
}

// Helper functions

// outputJSON marshals result to w as indented JSON.
func outputJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputError formats error for CLI.
func outputError(err error) error {
	if moodErr, ok := err.(*errors.MoodError); ok {
		return cli.Exit(fmt.Sprintf("[%s] %s", moodErr.Code, moodErr.Message), 1)
	}
	return cli.Exit(err.Error(), 1)
}

// noteFlag returns the --note value, reading stdin for "-". Unset means nil.
func noteFlag(c *cli.Context) (*string, error) {
	if !c.IsSet("note") {
		return nil, nil
	}
	note := c.String("note")
	if note == "-" {
		if !stdinHasData() {
			return nil, errors.NewInvalidRequest("--note - requires the note piped via stdin")
		}
		text, err := readStdin(maxStdinBytes)
		if err != nil {
			return nil, errors.NewInvalidRequest(err.Error())
		}
		note = text
	}
	return &note, nil
}

// stdinHasData returns true if stdin has piped data (not a terminal).
func stdinHasData() bool {
	return !isTerminal()
}

// readStdin reads at most limit bytes from stdin.
func readStdin(limit int64) (string, error) {
	data, err := io.ReadAll(io.LimitReader(os.Stdin, limit+1))
	if err != nil {
		return "", err
	}
	if int64(len(data)) > limit {
		return "", fmt.Errorf("stdin exceeds %d bytes", limit)
	}
	return strings.TrimSpace(string(data)), nil
}

// printCalendar writes a text month grid. Each cell shows the day number
// followed by up to two glyphs, newest first, and "+" when there are more.
func printCalendar(w io.Writer, out *ops.CalendarOutput) {
	fmt.Fprintf(w, "%s\n", out.Label)
	for _, wd := range out.Weekdays {
		fmt.Fprintf(w, "%-7s", wd)
	}
	fmt.Fprintln(w)
	for _, week := range out.Weeks {
		var line strings.Builder
		for _, cell := range week {
			if cell.Day == 0 {
				line.WriteString("       ")
				continue
			}
			marks := strings.Join(cell.Glyphs, "")
			if cell.More {
				marks += "+"
			}
			fmt.Fprintf(&line, "%2d %-4s", cell.Day, marks)
		}
		fmt.Fprintln(w, strings.TrimRight(line.String(), " "))
	}
}
