package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/hpungsan/moodcal/internal/config"
	"github.com/hpungsan/moodcal/internal/db"
	"github.com/hpungsan/moodcal/internal/errors"
	"github.com/hpungsan/moodcal/internal/journal"
)

// testSetup creates a journal over a temporary database.
func testSetup(t *testing.T) (*journal.Journal, *config.Config) {
	t.Helper()

	database, err := db.Init(t.TempDir())
	if err != nil {
		t.Fatalf("failed to init db: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	j := journal.New(db.NewKV(database),
		journal.WithLocation(time.UTC),
		journal.WithClock(func() time.Time { return time.Date(2024, 1, 3, 10, 0, 0, 0, time.UTC) }))
	j.Load(context.Background())

	cfg := config.DefaultConfig()
	cfg.AllowUnsafePaths = true
	return j, cfg
}

// makeRequest creates a CallToolRequest with the given arguments.
func makeRequest(args map[string]any) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Arguments: args,
		},
	}
}

func logEntry(t *testing.T, h *Handlers, args map[string]any) string {
	t.Helper()
	result, err := h.HandleLog(context.Background(), makeRequest(args))
	if err != nil {
		t.Fatalf("HandleLog returned error: %v", err)
	}
	out := parseOutput(t, result)
	return out["entry"].(map[string]any)["id"].(string)
}

func TestHandleLog(t *testing.T) {
	j, cfg := testSetup(t)
	h := NewHandlers(j, cfg)
	ctx := context.Background()

	tests := []struct {
		name      string
		args      map[string]any
		wantError bool
		errorCode string
	}{
		{"mood only", map[string]any{"mood": "happy"}, false, ""},
		{"mood with note", map[string]any{"mood": "Sad", "note": "long day"}, false, ""},
		{"missing mood", map[string]any{}, true, "INVALID_REQUEST"},
		{"unknown mood", map[string]any{"mood": "elated"}, true, "INVALID_REQUEST"},
		{"wrong type", map[string]any{"mood": 3}, true, "INVALID_REQUEST"},
		{"unknown field", map[string]any{"mood": "happy", "date": "2024-01-01"}, true, "INVALID_REQUEST"},
		{"note too large", map[string]any{"mood": "happy", "note": strings.Repeat("x", 1001)}, true, "NOTE_TOO_LARGE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := h.HandleLog(ctx, makeRequest(tt.args))
			if err != nil {
				t.Fatalf("handler returned error: %v", err)
			}
			if tt.wantError {
				if !result.IsError {
					t.Errorf("expected error result, got success")
				}
				assertErrorCode(t, result, tt.errorCode)
			} else if result.IsError {
				t.Errorf("expected success, got error: %v", extractErrorMessage(result))
			}
		})
	}

	if j.Len() != 2 {
		t.Errorf("journal Len = %d, want 2", j.Len())
	}
}

func TestHandleEditFetchDelete(t *testing.T) {
	j, cfg := testSetup(t)
	h := NewHandlers(j, cfg)
	ctx := context.Background()

	id := logEntry(t, h, map[string]any{"mood": "neutral", "note": "ok"})

	result, _ := h.HandleEdit(ctx, makeRequest(map[string]any{"id": id, "mood": "great", "clear_note": true}))
	out := parseOutput(t, result)
	if out["updated"] != true {
		t.Fatalf("updated = %v, want true", out["updated"])
	}

	result, _ = h.HandleFetch(ctx, makeRequest(map[string]any{"id": id}))
	out = parseOutput(t, result)
	if out["mood"] != "Great" {
		t.Errorf("mood = %v, want Great", out["mood"])
	}
	if _, ok := out["note"]; ok {
		t.Errorf("note = %v, want omitted", out["note"])
	}

	result, _ = h.HandleEdit(ctx, makeRequest(map[string]any{"id": "missing", "mood": "sad"}))
	if out := parseOutput(t, result); out["updated"] != false {
		t.Errorf("unknown id updated = %v, want false", out["updated"])
	}

	result, _ = h.HandleDelete(ctx, makeRequest(map[string]any{"id": id}))
	if out := parseOutput(t, result); out["deleted"] != true {
		t.Errorf("deleted = %v, want true", out["deleted"])
	}
	result, _ = h.HandleDelete(ctx, makeRequest(map[string]any{"id": id}))
	if out := parseOutput(t, result); out["deleted"] != false {
		t.Errorf("second delete = %v, want false", out["deleted"])
	}

	result, _ = h.HandleFetch(ctx, makeRequest(map[string]any{"id": id}))
	if !result.IsError {
		t.Fatal("fetch after delete should fail")
	}
	assertErrorCode(t, result, "NOT_FOUND")
}

func TestHandleViews(t *testing.T) {
	j, cfg := testSetup(t)
	h := NewHandlers(j, cfg)
	ctx := context.Background()

	logEntry(t, h, map[string]any{"mood": "happy"})
	logEntry(t, h, map[string]any{"mood": "happy"})

	result, _ := h.HandleMonth(ctx, makeRequest(map[string]any{"month": "2024-01"}))
	if out := parseOutput(t, result); out["count"] != float64(2) {
		t.Errorf("month count = %v, want 2", out["count"])
	}

	result, _ = h.HandleDay(ctx, makeRequest(map[string]any{"date": "2024-01-03"}))
	if out := parseOutput(t, result); len(out["entries"].([]any)) != 2 {
		t.Errorf("day entries = %v, want 2", out["entries"])
	}

	result, _ = h.HandleStats(ctx, makeRequest(map[string]any{"month": "2024-01"}))
	out := parseOutput(t, result)
	s := out["statistics"].(map[string]any)
	if s["most_frequent_mood"] != "Happy" {
		t.Errorf("most_frequent_mood = %v", s["most_frequent_mood"])
	}
	streak := s["current_streak"].(map[string]any)
	if streak["count"] != float64(2) {
		t.Errorf("streak count = %v, want 2", streak["count"])
	}

	result, _ = h.HandleStats(ctx, makeRequest(map[string]any{"month": "1999-01"}))
	if out := parseOutput(t, result); out["statistics"] != nil {
		t.Errorf("empty month statistics = %v, want null", out["statistics"])
	}

	result, _ = h.HandleCalendar(ctx, makeRequest(map[string]any{"month": "2024-01"}))
	out = parseOutput(t, result)
	if out["label"] != "January 2024" {
		t.Errorf("label = %v", out["label"])
	}
	if weeks := out["weeks"].([]any); len(weeks) != 5 {
		t.Errorf("weeks = %d, want 5", len(weeks))
	}

	result, _ = h.HandleMonth(ctx, makeRequest(map[string]any{"month": "2024-1"}))
	assertErrorCode(t, result, "INVALID_REQUEST")
}

func TestHandleExportImport(t *testing.T) {
	j, cfg := testSetup(t)
	h := NewHandlers(j, cfg)
	ctx := context.Background()

	logEntry(t, h, map[string]any{"mood": "terrible", "note": "migraine"})

	path := filepath.Join(t.TempDir(), "out.jsonl")
	result, _ := h.HandleExport(ctx, makeRequest(map[string]any{"path": path}))
	out := parseOutput(t, result)
	if out["count"] != float64(1) {
		t.Fatalf("export count = %v, want 1", out["count"])
	}

	other, _ := testSetup(t)
	h2 := NewHandlers(other, cfg)
	result, _ = h2.HandleImport(ctx, makeRequest(map[string]any{"path": path}))
	out = parseOutput(t, result)
	if out["imported"] != float64(1) {
		t.Errorf("imported = %v, want 1", out["imported"])
	}

	result, _ = h2.HandleImport(ctx, makeRequest(map[string]any{"path": path}))
	assertErrorCode(t, result, "ID_COLLISION")

	result, _ = h2.HandleImport(ctx, makeRequest(map[string]any{"path": path, "mode": "skip"}))
	if out := parseOutput(t, result); out["skipped"] != float64(1) {
		t.Errorf("skipped = %v, want 1", out["skipped"])
	}
}

func TestServerRegistration(t *testing.T) {
	j, cfg := testSetup(t)

	s := NewServer(j, cfg, "test")
	tools := s.ListTools()

	expected := []string{
		"mood_log", "mood_edit", "mood_delete", "mood_fetch", "mood_month",
		"mood_day", "mood_stats", "mood_calendar", "mood_export", "mood_import",
	}
	if len(tools) != len(expected) {
		t.Errorf("registered tool count = %d, want %d", len(tools), len(expected))
	}
	for _, name := range expected {
		if _, ok := tools[name]; !ok {
			t.Errorf("missing registered tool: %s", name)
		}
	}
}

func TestServerRegistration_WithDisabledTools(t *testing.T) {
	j, cfg := testSetup(t)
	cfg.DisabledTools = []string{"mood_import", "mood_delete", "mood_delete"}

	tools := NewServer(j, cfg, "test").ListTools()
	if len(tools) != 8 {
		t.Errorf("registered tool count = %d, want 8", len(tools))
	}
	for _, name := range []string{"mood_import", "mood_delete"} {
		if _, ok := tools[name]; ok {
			t.Errorf("disabled tool %q should not be registered", name)
		}
	}
}

func TestServerRegistration_AllToolsDisabled(t *testing.T) {
	j, cfg := testSetup(t)
	cfg.DisabledTools = AllToolNames()

	if tools := NewServer(j, cfg, "test").ListTools(); len(tools) != 0 {
		t.Errorf("registered tool count = %d, want 0", len(tools))
	}
}

func TestValidateDisabledTools(t *testing.T) {
	tests := []struct {
		name    string
		input   []string
		wantLen int
	}{
		{"all valid", []string{"mood_import", "mood_delete"}, 0},
		{"one unknown", []string{"mood_import", "mood_purge"}, 1},
		{"empty", []string{}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValidateDisabledTools(tt.input); len(got) != tt.wantLen {
				t.Errorf("ValidateDisabledTools() = %v, want %d unknown", got, tt.wantLen)
			}
		})
	}
}

func TestAllToolNames(t *testing.T) {
	names := AllToolNames()
	if len(names) != 10 {
		t.Errorf("AllToolNames() returned %d names, want 10", len(names))
	}
	if names[0] != "mood_calendar" {
		t.Errorf("names not sorted: %v", names)
	}
}

func TestErrorResult_InternalDoesNotExposeDetails(t *testing.T) {
	r := errorResult(errors.NewInternal(fmt.Errorf("open /home/me/.moodcal/moodcal.db: permission denied")))
	if !r.IsError {
		t.Fatal("expected IsError=true")
	}

	errObj := errorObject(t, r)
	if errObj["code"] != string(errors.ErrInternal) {
		t.Fatalf("code=%v, want %v", errObj["code"], errors.ErrInternal)
	}
	if strings.Contains(errObj["message"].(string), "/home/me") {
		t.Errorf("message leaks path: %v", errObj["message"])
	}
}

func TestErrorResult_WrappedErrorPreservesContext(t *testing.T) {
	r := errorResult(fmt.Errorf("line 3: %w", errors.NewInvalidRequest("bad mood")))

	errObj := errorObject(t, r)
	if errObj["code"] != string(errors.ErrInvalidRequest) {
		t.Errorf("code=%v, want %v", errObj["code"], errors.ErrInvalidRequest)
	}
	if msg := errObj["message"].(string); !strings.Contains(msg, "line 3") {
		t.Errorf("message should keep wrapper context, got: %s", msg)
	}
}

func TestErrorResult_NonInternalIncludesDetails(t *testing.T) {
	errObj := errorObject(t, errorResult(errors.NewNotFound("abc")))

	if errObj["message"] != "entry not found: abc" {
		t.Errorf("message = %v", errObj["message"])
	}
	if _, ok := errObj["details"]; !ok {
		t.Fatal("expected details for NOT_FOUND")
	}
}

func TestDecode(t *testing.T) {
	got, err := decode[EditRequest](makeRequest(map[string]any{"id": "a", "clear_note": true}))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.ID != "a" || !got.ClearNote || got.Mood != nil {
		t.Errorf("decode = %+v", got)
	}

	if _, err := decode[EditRequest](makeRequest(map[string]any{"id": "a", "clearNote": true})); err == nil {
		t.Error("expected unknown field error")
	}

	empty, err := decode[MonthRequest](mcp.CallToolRequest{})
	if err != nil || empty.Month != "" {
		t.Errorf("nil args = %+v, %v", empty, err)
	}
}

// Helper functions

func errorObject(t *testing.T, result *mcp.CallToolResult) map[string]any {
	t.Helper()
	var payload map[string]any
	if err := json.Unmarshal([]byte(result.Content[0].(mcp.TextContent).Text), &payload); err != nil {
		t.Fatalf("failed to unmarshal error payload: %v", err)
	}
	return payload["error"].(map[string]any)
}

// parseOutput extracts and unmarshals the JSON output from an MCP result.
func parseOutput(t *testing.T, result *mcp.CallToolResult) map[string]any {
	t.Helper()
	if result.IsError {
		t.Fatalf("expected success, got error: %v", extractErrorMessage(result))
	}
	var output map[string]any
	if err := json.Unmarshal([]byte(result.Content[0].(mcp.TextContent).Text), &output); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	return output
}

func assertErrorCode(t *testing.T, result *mcp.CallToolResult, expectedCode string) {
	t.Helper()
	if !result.IsError {
		t.Errorf("expected error %s, got success", expectedCode)
		return
	}
	code, _ := errorObject(t, result)["code"].(string)
	if code != expectedCode {
		t.Errorf("got error code %q, want %q", code, expectedCode)
	}
}

func extractErrorMessage(result *mcp.CallToolResult) string {
	if len(result.Content) == 0 {
		return "<no content>"
	}
	text, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		return "<not text content>"
	}
	return text.Text
}
