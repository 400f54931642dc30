package web

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"html/template"
	"io/fs"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/yuin/goldmark"

	"github.com/hpungsan/moodcal/internal/calendar"
	"github.com/hpungsan/moodcal/internal/errors"
	"github.com/hpungsan/moodcal/internal/mood"
	"github.com/hpungsan/moodcal/internal/ops"
	"github.com/hpungsan/moodcal/internal/stats"
)

// PageData contains common fields used across all page templates.
type PageData struct {
	Title   string
	Version string
	Nav     string // active nav item: "today", "calendar", "stats"
}

// MoodOption is one button on the log form.
type MoodOption struct {
	Kind  mood.Kind
	Glyph string
}

// EntryView is an entry prepared for display.
type EntryView struct {
	ops.EntryOutput
	Time     string
	NoteHTML template.HTML
	Return   string // where the delete form sends the browser back to
}

// TodayPageData is the template data for the log page.
type TodayPageData struct {
	PageData
	Date    string
	Label   string
	Moods   []MoodOption
	Entries []EntryView
}

// CalendarPageData is the template data for the calendar page.
type CalendarPageData struct {
	PageData
	Calendar *ops.CalendarOutput
	Selected string
	DayLabel string
	Entries  []EntryView
}

// StatsPageData is the template data for the statistics page.
type StatsPageData struct {
	PageData
	Stats    *ops.StatsOutput
	Frequent *mood.Kind
	Streak   *stats.Streak
	Prev     string
	Next     string
	All      bool
}

// ErrorPageData is the template data for the error page.
type ErrorPageData struct {
	PageData
	StatusCode int
	Message    string
}

// Renderer manages template parsing and rendering.
type Renderer struct {
	templates map[string]*template.Template
	version   string
	moodCSS   []byte
}

// NewRenderer creates a Renderer by parsing templates from the given FS.
func NewRenderer(templateFS fs.FS, version string) *Renderer {
	funcMap := template.FuncMap{
		"glyph":   func(k mood.Kind) string { return k.Glyph() },
		"percent": func(p float64) string { return fmt.Sprintf("%.0f%%", p) },
	}

	// Parse layout as the base template
	layoutTmpl := template.Must(template.New("layout").Funcs(funcMap).ParseFS(templateFS, "layout.html"))

	pages := map[string]string{
		"today":    "today.html",
		"calendar": "calendar.html",
		"stats":    "stats.html",
		"error":    "error.html",
	}

	templates := make(map[string]*template.Template, len(pages))
	for name, file := range pages {
		t := template.Must(layoutTmpl.Clone())
		template.Must(t.ParseFS(templateFS, file))
		templates[name] = t
	}

	return &Renderer{
		templates: templates,
		version:   version,
		moodCSS:   moodStylesheet(),
	}
}

// renderPage renders a named page template with the given data and HTTP 200 status.
func (r *Renderer) renderPage(w http.ResponseWriter, req *http.Request, name string, data any) {
	r.renderPageStatus(w, req, http.StatusOK, name, data)
}

// renderPageStatus renders a named page template with the given data and HTTP status code.
// For HTMX requests, only the "content" block is rendered to avoid duplicating the layout.
func (r *Renderer) renderPageStatus(w http.ResponseWriter, req *http.Request, status int, name string, data any) {
	t, ok := r.templates[name]
	if !ok {
		log.Printf("template %q not found", name)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	block := "layout"
	if req != nil && req.Header.Get("HX-Request") == "true" {
		block = "content"
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, block, data); err != nil {
		log.Printf("template execution error: %v", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

// renderError renders an error response with content negotiation.
func (r *Renderer) renderError(w http.ResponseWriter, req *http.Request, err error) {
	var mErr *errors.MoodError
	if !stderrors.As(err, &mErr) {
		mErr = errors.NewInternal(err)
	}

	status := mErr.Status
	message := mErr.Message
	if mErr.Code == errors.ErrInternal {
		log.Printf("internal error: %v", err)
		message = "an internal error occurred"
	}

	// HTMX request: return HTML fragment
	if req.Header.Get("HX-Request") == "true" {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(status)
		fmt.Fprintf(w, `<div class="error-message">%s</div>`, template.HTMLEscapeString(message))
		return
	}

	if wantsJSON(req) {
		renderJSON(w, status, map[string]any{
			"error": map[string]any{
				"code":    string(mErr.Code),
				"message": message,
				"status":  status,
			},
		})
		return
	}

	r.renderPageStatus(w, req, status, "error", ErrorPageData{
		PageData: PageData{
			Title:   fmt.Sprintf("Error %d", status),
			Version: r.version,
		},
		StatusCode: status,
		Message:    message,
	})
}

func wantsJSON(req *http.Request) bool {
	return strings.Contains(req.Header.Get("Accept"), "application/json")
}

// renderJSON writes a JSON response.
func renderJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// renderMarkdown converts a note to HTML using goldmark.
// Raw HTML in the note is dropped by goldmark's default renderer.
func renderMarkdown(md string) template.HTML {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(md), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(md))
	}
	return template.HTML(buf.String())
}

// entryViews prepares entries for display in the journal's location.
func entryViews(entries []ops.EntryOutput, loc *time.Location, returnTo string) []EntryView {
	views := make([]EntryView, len(entries))
	for i, e := range entries {
		v := EntryView{
			EntryOutput: e,
			Time:        calendar.FormatTime(e.CreatedAt.In(loc)),
			Return:      returnTo,
		}
		if e.Note != nil {
			v.NoteHTML = renderMarkdown(*e.Note)
		}
		views[i] = v
	}
	return views
}

func moodOptions() []MoodOption {
	opts := make([]MoodOption, len(mood.All))
	for i, k := range mood.All {
		opts[i] = MoodOption{Kind: k, Glyph: k.Glyph()}
	}
	return opts
}

// moodStylesheet renders one background rule per mood from the color table.
// Served as a file because the CSP forbids inline styles.
func moodStylesheet() []byte {
	var buf bytes.Buffer
	for _, k := range mood.All {
		fmt.Fprintf(&buf, ".mood-%s { background: %s; }\n", k, k.Color().CSS())
	}
	return buf.Bytes()
}
