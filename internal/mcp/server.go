package mcp

import (
	"slices"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/hpungsan/moodcal/internal/config"
	"github.com/hpungsan/moodcal/internal/journal"
)

// toolEntry pairs a tool definition with a handler factory.
type toolEntry struct {
	def     mcp.Tool
	handler func(*Handlers) server.ToolHandlerFunc
}

// toolRegistry maps tool names to their definitions and handler factories.
var toolRegistry = map[string]toolEntry{
	"mood_log": {
		def:     logToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleLog },
	},
	"mood_edit": {
		def:     editToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleEdit },
	},
	"mood_delete": {
		def:     deleteToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleDelete },
	},
	"mood_fetch": {
		def:     fetchToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleFetch },
	},
	"mood_month": {
		def:     monthToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleMonth },
	},
	"mood_day": {
		def:     dayToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleDay },
	},
	"mood_stats": {
		def:     statsToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleStats },
	},
	"mood_calendar": {
		def:     calendarToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleCalendar },
	},
	"mood_export": {
		def:     exportToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleExport },
	},
	"mood_import": {
		def:     importToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleImport },
	},
}

// AllToolNames returns every registered tool name, sorted.
func AllToolNames() []string {
	names := make([]string, 0, len(toolRegistry))
	for name := range toolRegistry {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// ValidateDisabledTools returns the names that match no known tool.
func ValidateDisabledTools(names []string) []string {
	unknown := make([]string, 0)
	for _, name := range names {
		if _, ok := toolRegistry[name]; !ok {
			unknown = append(unknown, name)
		}
	}
	return unknown
}

// NewServer creates an MCP server with the mood tools registered,
// skipping those listed in cfg.DisabledTools.
func NewServer(j *journal.Journal, cfg *config.Config, version string) *server.MCPServer {
	s := server.NewMCPServer(
		"moodcal",
		version,
		server.WithToolCapabilities(true),
	)

	h := NewHandlers(j, cfg)

	disabled := make(map[string]bool, len(cfg.DisabledTools))
	for _, name := range cfg.DisabledTools {
		disabled[name] = true
	}

	for name, entry := range toolRegistry {
		if disabled[name] {
			continue
		}
		s.AddTool(entry.def, entry.handler(h))
	}

	return s
}

// Run serves the MCP tools over stdio until stdin closes.
func Run(j *journal.Journal, cfg *config.Config, version string) error {
	return server.ServeStdio(NewServer(j, cfg, version))
}
