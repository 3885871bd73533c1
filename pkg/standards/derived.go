package standards

import (
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// IsDeprecated reports whether the label or help text mentions "deprecated".
// There is no explicit status field upstream, so this is a text heuristic.
func IsDeprecated(s Standard) bool {
	return strings.Contains(strings.ToLower(s.Label+" "+s.HelpText), "deprecated")
}

// AddedOn returns the added date as UTC midnight.
func (s Standard) AddedOn() (time.Time, bool) {
	return parseDate(s.AddedDate)
}

// IsNew reports whether s was added within the last days calendar days,
// inclusive on both ends. Future-dated and undated records are never new.
func IsNew(s Standard, now time.Time, days int) bool {
	added, ok := s.AddedOn()
	if !ok {
		return false
	}
	elapsed := ElapsedDays(added, now)
	return elapsed >= 0 && elapsed <= days
}

// ElapsedDays counts whole calendar days from date to the calendar date of
// now (taken in now's location). It is negative for future dates.
func ElapsedDays(date, now time.Time) int {
	y, m, d := now.Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	dy, dm, dd := date.Date()
	day := time.Date(dy, dm, dd, 0, 0, 0, 0, time.UTC)
	return int(today.Sub(day).Hours() / 24)
}

func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(dateLayout, s); err == nil {
		return t, true
	}
	// Some upstream entries carry a full timestamp; only the date matters.
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		y, m, d := t.Date()
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), true
	}
	return time.Time{}, false
}

// FormatDate turns YYYY-MM-DD into M/D/YYYY. Anything else is returned as is.
func FormatDate(s string) string {
	if s == "" {
		return ""
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return s
	}
	return t.Format("1/2/2006")
}
