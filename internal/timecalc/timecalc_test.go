package timecalc_test

import (
	"testing"
	"time"

	"github.com/Tiliavir/productivity-tracker/internal/timecalc"
)

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		seconds int64
		want    string
	}{
		{0, "0s"},
		{45, "45s"},
		{60, "1m"},
		{90, "1m"},
		{3600, "1h 0m"},
		{3661, "1h 1m"},
		{5400, "1h 30m"},
	}
	for _, tt := range tests {
		got := timecalc.FormatDuration(time.Duration(tt.seconds) * time.Second)
		if got != tt.want {
			t.Errorf("FormatDuration(%ds) = %q, want %q", tt.seconds, got, tt.want)
		}
	}
}

func TestFormatDurationHHMMSS(t *testing.T) {
	tests := []struct {
		seconds int64
		want    string
	}{
		{0, "00:00:00"},
		{61, "00:01:01"},
		{3661, "01:01:01"},
	}
	for _, tt := range tests {
		got := timecalc.FormatDurationHHMMSS(time.Duration(tt.seconds) * time.Second)
		if got != tt.want {
			t.Errorf("FormatDurationHHMMSS(%ds) = %q, want %q", tt.seconds, got, tt.want)
		}
	}
}

func TestFormatLocal(t *testing.T) {
	ts := time.Date(2024, 1, 2, 9, 5, 7, 0, time.Local)
	if got := timecalc.FormatLocal(ts); got != "2024-01-02 09:05:07" {
		t.Errorf("FormatLocal = %q, want %q", got, "2024-01-02 09:05:07")
	}
	if got := timecalc.FormatLocal(time.Time{}); got != "(n/a)" {
		t.Errorf("FormatLocal(zero) = %q, want %q", got, "(n/a)")
	}
}

func TestFormatISO(t *testing.T) {
	ts := time.Date(2024, 1, 2, 11, 0, 0, 0, time.FixedZone("CET", 3600))
	if got := timecalc.FormatISO(ts); got != "2024-01-02T10:00:00Z" {
		t.Errorf("FormatISO = %q, want %q", got, "2024-01-02T10:00:00Z")
	}
	if got := timecalc.FormatISO(time.Time{}); got != "" {
		t.Errorf("FormatISO(zero) = %q, want empty", got)
	}
}

func TestParseLocal(t *testing.T) {
	got, err := timecalc.ParseLocal("2024-01-02 00:00:01")
	if err != nil {
		t.Fatalf("ParseLocal: %v", err)
	}
	want := time.Date(2024, 1, 2, 0, 0, 1, 0, time.Local)
	if !got.Equal(want) {
		t.Errorf("ParseLocal = %v, want %v", got, want)
	}

	for _, bad := range []string{"", "yesterday", "2024-13-01 00:00:00", "2024-01-02"} {
		if _, err := timecalc.ParseLocal(bad); err == nil {
			t.Errorf("ParseLocal(%q): expected error", bad)
		}
	}
}

func TestParseLocalRoundTrip(t *testing.T) {
	ts := time.Date(2025, 7, 14, 18, 30, 59, 0, time.Local)
	got, err := timecalc.ParseLocal(timecalc.FormatLocal(ts))
	if err != nil {
		t.Fatal(err)
	}
	if !got.Equal(ts) {
		t.Errorf("round trip = %v, want %v", got, ts)
	}
}

func TestFileStamp(t *testing.T) {
	ts := time.Date(2024, 3, 9, 7, 8, 9, 0, time.Local)
	if got := timecalc.FileStamp(ts); got != "20240309_070809" {
		t.Errorf("FileStamp = %q, want %q", got, "20240309_070809")
	}
}

func TestJSONEscape(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"plain", "plain"},
		{"He said \"hi\"\n", `He said \"hi\"\n`},
		{`back\slash`, `back\\slash`},
		{"tab\tcr\r", `tab\tcr\r`},
		{"unicode ✓ and \x01", "unicode ✓ and \x01"},
		{"", ""},
	}
	for _, tt := range tests {
		got := timecalc.JSONEscape(tt.input)
		if got != tt.want {
			t.Errorf("JSONEscape(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestSameDay(t *testing.T) {
	a := time.Date(2026, 2, 27, 10, 0, 0, 0, time.UTC)
	b := time.Date(2026, 2, 27, 23, 59, 59, 0, time.UTC)
	c := time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC)

	if !timecalc.SameDay(a, b) {
		t.Error("SameDay: expected same day for a and b")
	}
	if timecalc.SameDay(a, c) {
		t.Error("SameDay: expected different day for a and c")
	}
}

func TestStartAndEndOfDay(t *testing.T) {
	ts := time.Date(2026, 2, 27, 10, 11, 12, 0, time.UTC)
	if got := timecalc.StartOfDay(ts); !got.Equal(time.Date(2026, 2, 27, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("StartOfDay = %v", got)
	}
	if got := timecalc.EndOfDay(ts); !got.Equal(time.Date(2026, 2, 27, 23, 59, 59, 0, time.UTC)) {
		t.Errorf("EndOfDay = %v", got)
	}
}
