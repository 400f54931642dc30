package mcp

import (
	"context"
	"encoding/json"
	stderrors "errors"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/hpungsan/moodcal/internal/config"
	"github.com/hpungsan/moodcal/internal/errors"
	"github.com/hpungsan/moodcal/internal/journal"
	"github.com/hpungsan/moodcal/internal/ops"
)

// Handlers holds dependencies for MCP tool handlers.
type Handlers struct {
	journal *journal.Journal
	cfg     *config.Config
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(j *journal.Journal, cfg *config.Config) *Handlers {
	return &Handlers{journal: j, cfg: cfg}
}

// LogRequest represents the arguments for mood_log.
type LogRequest struct {
	Mood string  `json:"mood"`
	Note *string `json:"note,omitempty"`
}

// EditRequest represents the arguments for mood_edit.
type EditRequest struct {
	ID        string  `json:"id"`
	Mood      *string `json:"mood,omitempty"`
	Note      *string `json:"note,omitempty"`
	ClearNote bool    `json:"clear_note,omitempty"`
}

// IDRequest represents the arguments for mood_delete and mood_fetch.
type IDRequest struct {
	ID string `json:"id"`
}

// MonthRequest represents the arguments for mood_month and mood_calendar.
type MonthRequest struct {
	Month string `json:"month,omitempty"`
}

// DayRequest represents the arguments for mood_day.
type DayRequest struct {
	Date string `json:"date,omitempty"`
}

// StatsRequest represents the arguments for mood_stats.
type StatsRequest struct {
	Month string `json:"month,omitempty"`
	All   bool   `json:"all,omitempty"`
}

// ExportRequest represents the arguments for mood_export.
type ExportRequest struct {
	Path  string `json:"path,omitempty"`
	Month string `json:"month,omitempty"`
}

// ImportRequest represents the arguments for mood_import.
type ImportRequest struct {
	Path string `json:"path"`
	Mode string `json:"mode,omitempty"`
}

// HandleLog handles the mood_log tool call.
func (h *Handlers) HandleLog(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[LogRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Log(ctx, h.journal, h.cfg, ops.LogInput{
		Mood: input.Mood,
		Note: input.Note,
	})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// HandleEdit handles the mood_edit tool call.
func (h *Handlers) HandleEdit(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[EditRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Edit(ctx, h.journal, h.cfg, ops.EditInput{
		ID:        input.ID,
		Mood:      input.Mood,
		Note:      input.Note,
		ClearNote: input.ClearNote,
	})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// HandleDelete handles the mood_delete tool call.
func (h *Handlers) HandleDelete(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[IDRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Remove(ctx, h.journal, ops.RemoveInput{ID: input.ID})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// HandleFetch handles the mood_fetch tool call.
func (h *Handlers) HandleFetch(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[IDRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	h.journal.Refresh(ctx)
	result, err := ops.Fetch(h.journal, ops.FetchInput{ID: input.ID})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// HandleMonth handles the mood_month tool call.
func (h *Handlers) HandleMonth(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[MonthRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	h.journal.Refresh(ctx)
	result, err := ops.Month(h.journal, ops.MonthInput{Month: input.Month})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// HandleDay handles the mood_day tool call.
func (h *Handlers) HandleDay(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[DayRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	h.journal.Refresh(ctx)
	result, err := ops.Day(h.journal, ops.DayInput{Date: input.Date})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// HandleStats handles the mood_stats tool call.
func (h *Handlers) HandleStats(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[StatsRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	h.journal.Refresh(ctx)
	result, err := ops.Stats(h.journal, ops.StatsInput{Month: input.Month, All: input.All})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// HandleCalendar handles the mood_calendar tool call.
func (h *Handlers) HandleCalendar(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[MonthRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	h.journal.Refresh(ctx)
	result, err := ops.Calendar(h.journal, h.cfg, ops.CalendarInput{Month: input.Month})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// HandleExport handles the mood_export tool call.
func (h *Handlers) HandleExport(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ExportRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Export(ctx, h.journal, h.cfg, ops.ExportInput{
		Path:  input.Path,
		Month: input.Month,
	})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// HandleImport handles the mood_import tool call.
func (h *Handlers) HandleImport(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ImportRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Import(ctx, h.journal, h.cfg, ops.ImportInput{
		Path: input.Path,
		Mode: ops.ImportMode(input.Mode),
	})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// errorResult creates an MCP error result with IsError set.
// INTERNAL errors carry no details so paths and SQL text stay private.
func errorResult(err error) *mcp.CallToolResult {
	var payload map[string]any

	var moodErr *errors.MoodError
	if stderrors.As(err, &moodErr) {
		errorObj := map[string]any{
			"code":    moodErr.Code,
			"message": moodErr.Message,
			"status":  moodErr.Status,
		}
		if moodErr.Code == errors.ErrInternal {
			errorObj["message"] = "an internal error occurred"
		} else {
			if error(moodErr) != err {
				// Keep wrapper context such as "line 3: ...".
				errorObj["message"] = err.Error()
			}
			if moodErr.Details != nil {
				errorObj["details"] = moodErr.Details
			}
		}
		payload = map[string]any{"error": errorObj}
	} else {
		payload = map[string]any{
			"error": map[string]any{
				"code":    errors.ErrInternal,
				"message": "an internal error occurred",
				"status":  500,
			},
		}
	}

	content, _ := json.Marshal(payload)
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.TextContent{Type: "text", Text: string(content)}},
		IsError: true,
	}
}

// successResult creates an MCP success result from any data.
func successResult(data any) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultJSON(data)
}
