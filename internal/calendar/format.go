package calendar

import (
	"fmt"
	"strings"
	"time"
)

const (
	monthLayout = "January 2006"
	dateLayout  = "January 2, 2006"
	timeLayout  = "3:04 PM"
	monthKey    = "2006-01"
)

// StartOfMonth returns midnight on the 1st of t's month in t's location.
func StartOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

// AddMonths moves to the start of the month n months away. Negative n goes back.
func AddMonths(t time.Time, n int) time.Time {
	return StartOfMonth(t).AddDate(0, n, 0)
}

// FormatMonth renders a month header such as "March 2024".
func FormatMonth(t time.Time) string {
	return t.Format(monthLayout)
}

// FormatDate renders a long date such as "March 5, 2024".
func FormatDate(t time.Time) string {
	return t.Format(dateLayout)
}

// FormatTime renders a short clock time such as "9:41 AM".
func FormatTime(t time.Time) string {
	return t.Format(timeLayout)
}

// MonthKey formats t as YYYY-MM.
func MonthKey(t time.Time) string {
	return t.Format(monthKey)
}

// ParseMonth parses "YYYY-MM" into the start of that month in loc.
func ParseMonth(s string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(monthKey, strings.TrimSpace(s), loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid month %q (want YYYY-MM)", s)
	}
	return t, nil
}

// ParseDay parses "YYYY-MM-DD" into midnight of that day in loc.
func ParseDay(s string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(time.DateOnly, strings.TrimSpace(s), loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (want YYYY-MM-DD)", s)
	}
	return t, nil
}
