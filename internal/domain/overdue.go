package domain

import (
	"strings"
	"time"
)

// dueDateLayouts are tried in order. Values without a zone are read as UTC.
// Fractional seconds are accepted by time.Parse after any seconds field.
var dueDateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05Z0700",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	time.DateOnly,
}

// ParseDueDate parses a stored due date. It accepts timestamps with or without
// a zone, a space or T separator, and plain dates. As a last resort it reads
// the date before the T of a value shaped like YYYY-MM-DDT..., so a stored
// timestamp in an unknown format still compares by day.
//
// Writes must use ParseDueDateStrict; this tolerance exists only for rows that
// are already stored.
func ParseDueDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if t, ok := parseDueDateLayouts(s); ok {
		return t, true
	}

	// Only the T separator marks a timestamp whose date part is trustworthy.
	// Anything else after the date ("2024-05-01garbage") is rejected.
	if len(s) > len(time.DateOnly) && s[len(time.DateOnly)] == 'T' {
		if t, err := time.Parse(time.DateOnly, s[:len(time.DateOnly)]); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// ParseDueDateStrict parses a due date supplied on create or update. It
// accepts the same layouts as ParseDueDate but never falls back to a date
// prefix.
func ParseDueDateStrict(s string) (time.Time, bool) {
	return parseDueDateLayouts(strings.TrimSpace(s))
}

func parseDueDateLayouts(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dueDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// IsOverdue reports whether t is past its due date at now. Done tasks and
// tasks without a due date are never overdue. An unparseable due date is
// treated as not overdue so read paths survive bad historical data.
func IsOverdue(t Task, now time.Time) bool {
	if t.Status == StatusDone || t.DueDate == nil {
		return false
	}
	due, ok := ParseDueDate(*t.DueDate)
	if !ok {
		return false
	}
	return now.After(due)
}
