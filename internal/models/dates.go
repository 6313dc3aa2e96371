package models

import (
	"fmt"
	"strings"
	"time"
)

// isoLayouts are the accepted ISO-8601 date and date-time forms.
var isoLayouts = []string{
	DateLayoutISO,
	"2006-01-02T15:04:05",
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02 15:04:05",
}

// ParseISODate parses an ISO calendar date, with or without a time part,
// and returns midnight UTC of that day. Impossible dates are rejected.
func ParseISODate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range isoLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			y, m, d := t.Date()
			return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, fmt.Errorf("not an ISO date: %q", s)
}

// IsISODate reports whether s parses as an ISO calendar date.
func IsISODate(s string) bool {
	_, err := ParseISODate(s)
	return err == nil
}
