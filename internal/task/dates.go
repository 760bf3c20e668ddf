package task

import (
	"fmt"
	"strings"
	"time"
)

// dateLayouts are tried in order when parsing an explicit date.
var dateLayouts = []string{
	"2006-01-02",
	"02/01/2006",
	"01/02/2006",
	"02-01-2006",
	"2006/01/02",
}

// ParseDate parses a date string relative to now. It accepts the keywords
// "today", "tomorrow", "next_week", and "next_month", or an explicit date
// in one of the supported layouts. The result is the start of the day in
// UTC.
func ParseDate(raw string, now time.Time) (time.Time, error) {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}

	today := startOfDay(now.UTC())
	switch s {
	case "today":
		return today, nil
	case "tomorrow":
		return today.AddDate(0, 0, 1), nil
	case "next_week":
		return today.AddDate(0, 0, 7), nil
	case "next_month":
		return today.AddDate(0, 0, 30), nil
	}

	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", raw)
}

// FormatDate renders a timestamp for display, or "Not set" for nil.
func FormatDate(t *time.Time) string {
	if t == nil {
		return "Not set"
	}
	return t.Format("2006-01-02")
}
