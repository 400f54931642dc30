package mcp

import "github.com/mark3labs/mcp-go/mcp"

var moodEnum = mcp.Enum("great", "happy", "neutral", "sad", "terrible")

var logToolDef = mcp.NewTool("mood_log",
	mcp.WithDescription("Log a mood entry for right now. Several entries per day are allowed."),
	mcp.WithString("mood", mcp.Required(), moodEnum,
		mcp.Description("Mood tag (case-insensitive)")),
	mcp.WithString("note", mcp.Description("Optional free-text note; blank means no note")),
)

var editToolDef = mcp.NewTool("mood_edit",
	mcp.WithDescription("Change the mood and/or note of an entry. Date and creation time never change. Unknown ids return updated:false."),
	mcp.WithString("id", mcp.Required(), mcp.Description("Entry id")),
	mcp.WithString("mood", moodEnum, mcp.Description("New mood")),
	mcp.WithString("note", mcp.Description("New note")),
	mcp.WithBoolean("clear_note", mcp.Description("Remove the note (exclusive with note)")),
)

var deleteToolDef = mcp.NewTool("mood_delete",
	mcp.WithDescription("Delete an entry by id. Deleting an unknown id returns deleted:false."),
	mcp.WithString("id", mcp.Required(), mcp.Description("Entry id")),
)

var fetchToolDef = mcp.NewTool("mood_fetch",
	mcp.WithDescription("Fetch one entry by id."),
	mcp.WithString("id", mcp.Required(), mcp.Description("Entry id")),
)

var monthToolDef = mcp.NewTool("mood_month",
	mcp.WithDescription("List a month's entries in the order they were logged."),
	mcp.WithString("month", mcp.Description("Month as YYYY-MM (default: current month)")),
)

var dayToolDef = mcp.NewTool("mood_day",
	mcp.WithDescription("List one day's entries, newest first."),
	mcp.WithString("date", mcp.Description("Date as YYYY-MM-DD (default: today)")),
)

var statsToolDef = mcp.NewTool("mood_stats",
	mcp.WithDescription("Mood distribution, most frequent mood, and current streak for a month or all time. statistics is null when there are no entries."),
	mcp.WithString("month", mcp.Description("Month as YYYY-MM (default: current month)")),
	mcp.WithBoolean("all", mcp.Description("Use every entry instead of one month")),
)

var calendarToolDef = mcp.NewTool("mood_calendar",
	mcp.WithDescription("Month grid: weeks of seven cells with up to two glyphs per day. Blank cells have day 0."),
	mcp.WithString("month", mcp.Description("Month as YYYY-MM (default: current month)")),
)

var exportToolDef = mcp.NewTool("mood_export",
	mcp.WithDescription("Export entries to a JSONL file (header line + one entry per line)."),
	mcp.WithString("path", mcp.Description("Output .jsonl path (default: ~/.moodcal/exports/moodcal-<month|all>-<timestamp>.jsonl)")),
	mcp.WithString("month", mcp.Description("Only export this month (YYYY-MM)")),
)

var importToolDef = mcp.NewTool("mood_import",
	mcp.WithDescription("Import entries from a JSONL export."),
	mcp.WithString("path", mcp.Required(), mcp.Description("Input .jsonl path")),
	mcp.WithString("mode", mcp.Enum("error", "replace", "skip"),
		mcp.Description("Collision handling (default: error, which imports nothing on any problem)")),
)
