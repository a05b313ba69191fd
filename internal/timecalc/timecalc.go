package timecalc

import (
	"fmt"
	"strings"
	"time"
)

const (
	// LocalLayout is the human-readable timestamp used in every text file.
	LocalLayout = "2006-01-02 15:04:05"
	// ISOLayout is the UTC timestamp used in machine-readable sections.
	ISOLayout = "2006-01-02T15:04:05Z"
	// FileStampLayout is the timestamp embedded in export file names.
	FileStampLayout = "20060102_150405"
)

// FormatLocal formats t in local time as "YYYY-MM-DD HH:MM:SS".
// The zero time renders as "(n/a)".
func FormatLocal(t time.Time) string {
	if t.IsZero() {
		return "(n/a)"
	}
	return t.Local().Format(LocalLayout)
}

// FormatISO formats t as ISO-8601 in UTC, e.g. "2024-01-02T11:00:00Z".
// The zero time renders as "".
func FormatISO(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(ISOLayout)
}

// FileStamp formats t for use in export file names.
func FileStamp(t time.Time) string {
	return t.Local().Format(FileStampLayout)
}

// ParseLocal parses a "YYYY-MM-DD HH:MM:SS" timestamp in local time.
func ParseLocal(s string) (time.Time, error) {
	t, err := time.ParseInLocation(LocalLayout, strings.TrimSpace(s), time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("cannot parse timestamp %q: %w", s, err)
	}
	return t, nil
}

// JSONEscape escapes backslash, double quote, newline, carriage return and
// tab. Every other character is copied unchanged.
func JSONEscape(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, c := range s {
		switch c {
		case '\\':
			b.WriteString(`\\`)
		case '"':
			b.WriteString(`\"`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			b.WriteRune(c)
		}
	}
	return b.String()
}

// FormatDuration formats d as a human-readable string like "1h 40m" or "45m" or "30s".
func FormatDuration(d time.Duration) string {
	seconds := int64(d.Seconds())
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	if h > 0 {
		return fmt.Sprintf("%dh %dm", h, m)
	}
	if m > 0 {
		return fmt.Sprintf("%dm", m)
	}
	return fmt.Sprintf("%ds", s)
}

// FormatDurationHHMMSS formats d as HH:MM:SS.
func FormatDurationHHMMSS(d time.Duration) string {
	seconds := int64(d.Seconds())
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

// StartOfDay returns 00:00:00 of the same day.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// EndOfDay returns 23:59:59 of the same day.
func EndOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 0, t.Location())
}

// SameDay reports whether two times fall on the same calendar day, using the
// location of a for both.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.In(a.Location()).Date()
	return ay == by && am == bm && ad == bd
}
