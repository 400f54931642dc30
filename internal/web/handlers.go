package web

import (
	"net/http"
	"net/url"

	"github.com/hpungsan/moodcal/internal/calendar"
	"github.com/hpungsan/moodcal/internal/config"
	"github.com/hpungsan/moodcal/internal/errors"
	"github.com/hpungsan/moodcal/internal/journal"
	"github.com/hpungsan/moodcal/internal/ops"
)

// Handlers contains HTTP route handlers for the web UI.
type Handlers struct {
	journal  *journal.Journal
	cfg      *config.Config
	renderer *Renderer
}

// HandleToday handles GET /today: the log form and today's entries.
func (h *Handlers) HandleToday(w http.ResponseWriter, r *http.Request) {
	h.journal.Refresh(r.Context())
	day, err := ops.Day(h.journal, ops.DayInput{})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	h.renderer.renderPage(w, r, "today", TodayPageData{
		PageData: PageData{
			Title:   "Today",
			Version: h.renderer.version,
			Nav:     "today",
		},
		Date:    day.Date,
		Label:   day.Label,
		Moods:   moodOptions(),
		Entries: entryViews(day.Entries, h.journal.Location(), "/today"),
	})
}

// HandleLog handles POST /entries: record a mood from the form.
func (h *Handlers) HandleLog(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderer.renderError(w, r, errors.NewInvalidRequest("invalid form data"))
		return
	}

	input := ops.LogInput{Mood: r.FormValue("mood")}
	if note := r.FormValue("note"); note != "" {
		input.Note = &note
	}

	result, err := ops.Log(r.Context(), h.journal, h.cfg, input)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	if wantsJSON(r) {
		renderJSON(w, http.StatusCreated, result)
		return
	}

	// HTMX request: re-render the page body in place
	if r.Header.Get("HX-Request") == "true" {
		h.HandleToday(w, r)
		return
	}

	http.Redirect(w, r, "/today", http.StatusSeeOther)
}

// HandleCalendar handles GET /calendar: month grid plus the selected day's entries.
func (h *Handlers) HandleCalendar(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	h.journal.Refresh(r.Context())
	cal, err := ops.Calendar(h.journal, h.cfg, ops.CalendarInput{Month: q.Get("month")})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	data := CalendarPageData{
		PageData: PageData{
			Title:   cal.Label,
			Version: h.renderer.version,
			Nav:     "calendar",
		},
		Calendar: cal,
	}

	if date := q.Get("day"); date != "" {
		day, err := ops.Day(h.journal, ops.DayInput{Date: date})
		if err != nil {
			h.renderer.renderError(w, r, err)
			return
		}
		data.Selected = day.Date
		data.DayLabel = day.Label
		data.Entries = entryViews(day.Entries, h.journal.Location(),
			"/calendar?month="+cal.Month+"&day="+day.Date)
	}

	h.renderer.renderPage(w, r, "calendar", data)
}

// HandleStats handles GET /stats: statistics for a month or all time.
func (h *Handlers) HandleStats(w http.ResponseWriter, r *http.Request) {
	input := ops.StatsInput{
		Month: r.URL.Query().Get("month"),
		All:   parseBoolParam(r, "all"),
	}

	h.journal.Refresh(r.Context())
	result, err := ops.Stats(h.journal, input)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	if wantsJSON(r) {
		renderJSON(w, http.StatusOK, result)
		return
	}

	data := StatsPageData{
		PageData: PageData{
			Title:   "Statistics",
			Version: h.renderer.version,
			Nav:     "stats",
		},
		Stats: result,
		All:   input.All,
	}
	if result.Statistics != nil {
		data.Frequent = result.Statistics.MostFrequentMood
		data.Streak = result.Statistics.CurrentStreak
	}
	if !input.All {
		if m, err := calendar.ParseMonth(result.Period, h.journal.Location()); err == nil {
			data.Prev = calendar.MonthKey(calendar.AddMonths(m, -1))
			data.Next = calendar.MonthKey(calendar.AddMonths(m, 1))
		}
	}

	h.renderer.renderPage(w, r, "stats", data)
}

// HandleDelete handles DELETE /entries/{id} and its POST form fallback.
func (h *Handlers) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		h.renderer.renderError(w, r, errors.NewInvalidRequest("entry ID is required"))
		return
	}

	result, err := ops.Remove(r.Context(), h.journal, ops.RemoveInput{ID: id})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	back := safeReturn(r.FormValue("return"))

	// HTMX request: redirect via HX-Redirect header
	if r.Header.Get("HX-Request") == "true" {
		w.Header().Set("HX-Redirect", back)
		w.WriteHeader(http.StatusOK)
		return
	}

	if wantsJSON(r) {
		renderJSON(w, http.StatusOK, map[string]any{
			"deleted": result.Deleted,
			"id":      result.ID,
		})
		return
	}

	http.Redirect(w, r, back, http.StatusSeeOther)
}

// HandleMoodCSS handles GET /static/moods.css.
func (h *Handlers) HandleMoodCSS(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/css; charset=utf-8")
	_, _ = w.Write(h.renderer.moodCSS)
}

// parseBoolParam parses a boolean query parameter.
func parseBoolParam(r *http.Request, name string) bool {
	s := r.URL.Query().Get(name)
	return s == "true" || s == "1"
}

// safeReturn accepts only local absolute paths as redirect targets.
func safeReturn(s string) string {
	u, err := url.Parse(s)
	if err != nil || s == "" || u.IsAbs() || u.Host != "" || len(u.Path) == 0 || u.Path[0] != '/' || (len(s) > 1 && (s[1] == '/' || s[1] == '\\')) {
		return "/today"
	}
	return s
}
