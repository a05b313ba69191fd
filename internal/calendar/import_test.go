package calendar_test

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Tiliavir/productivity-tracker/internal/calendar"
	"github.com/Tiliavir/productivity-tracker/internal/eventlog"
	"github.com/Tiliavir/productivity-tracker/internal/model"
)

func makeEvent(id, subject, start, end string) calendar.CalendarEvent {
	return calendar.CalendarEvent{
		ID:          id,
		Subject:     subject,
		Sensitivity: "normal",
		ShowAs:      "busy",
		Start:       calendar.Time{DateTime: start, TimeZone: "UTC"},
		End:         calendar.Time{DateTime: end, TimeZone: "UTC"},
	}
}

func newLog(t *testing.T) *eventlog.Store {
	t.Helper()
	return eventlog.New(filepath.Join(t.TempDir(), "daily_logs.txt"))
}

func TestMeetingEvent(t *testing.T) {
	event := makeEvent("ext-id-1", "Sprint Planning", "2026-02-27T09:00:00.0000000", "2026-02-27T10:30:00.0000000")
	got, err := calendar.MeetingEvent(event, "UTC")
	if err != nil {
		t.Fatalf("MeetingEvent: %v", err)
	}
	if got.Kind != model.KindMeeting {
		t.Errorf("Kind = %q, want %q", got.Kind, model.KindMeeting)
	}
	if got.Text != "Meeting: Sprint Planning (1h 30m)" {
		t.Errorf("Text = %q", got.Text)
	}
	want := time.Date(2026, 2, 27, 9, 0, 0, 0, time.UTC)
	if !got.Timestamp.Equal(want) {
		t.Errorf("Timestamp = %v, want %v", got.Timestamp, want)
	}
}

func TestMeetingEvent_WithLocation(t *testing.T) {
	event := makeEvent("ext-id-2", "Standup", "2026-02-27T10:00:00", "2026-02-27T10:15:00")
	event.Location.DisplayName = "Zoom"

	got, err := calendar.MeetingEvent(event, "UTC")
	if err != nil {
		t.Fatalf("MeetingEvent: %v", err)
	}
	if got.Text != "Meeting: Standup @ Zoom (15m)" {
		t.Errorf("Text = %q, want %q", got.Text, "Meeting: Standup @ Zoom (15m)")
	}
}

func TestMeetingEvent_Timezone(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Berlin")
	if err != nil {
		t.Skipf("timezone data unavailable: %v", err)
	}
	event := makeEvent("tz", "Review", "2026-02-27T09:00:00", "2026-02-27T09:30:00")
	got, err := calendar.MeetingEvent(event, "Europe/Berlin")
	if err != nil {
		t.Fatalf("MeetingEvent: %v", err)
	}
	want := time.Date(2026, 2, 27, 9, 0, 0, 0, loc)
	if !got.Timestamp.Equal(want) {
		t.Errorf("Timestamp = %v, want %v", got.Timestamp, want)
	}
}

func TestMeetingEvent_BadTime(t *testing.T) {
	event := makeEvent("bad", "Broken", "yesterday", "2026-02-27T09:30:00")
	if _, err := calendar.MeetingEvent(event, "UTC"); err == nil {
		t.Error("expected error for unparsable start")
	}
}

func TestImport(t *testing.T) {
	log := newLog(t)
	var out bytes.Buffer
	events := []calendar.CalendarEvent{
		makeEvent("ext-1", "Architecture Board", "2026-02-27T09:00:00", "2026-02-27T10:30:00"),
	}

	result := calendar.Import(log, events, calendar.ImportOptions{Timezone: "UTC", Out: &out})
	if result.Imported != 1 {
		t.Errorf("Imported = %d, want 1", result.Imported)
	}

	reloaded := eventlog.New(log.Path())
	got := reloaded.Load()
	if len(got) != 1 {
		t.Fatalf("events = %d, want 1", len(got))
	}
	if got[0].Kind != model.KindMeeting || got[0].Text != "Meeting: Architecture Board (1h 30m)" {
		t.Errorf("event = %+v", got[0])
	}
	if !strings.Contains(out.String(), "Imported: Meeting: Architecture Board") {
		t.Errorf("progress output = %q", out.String())
	}
}

func TestImport_Idempotent(t *testing.T) {
	log := newLog(t)
	events := []calendar.CalendarEvent{
		makeEvent("ext-1", "Architecture Board", "2026-02-27T09:00:00", "2026-02-27T10:30:00"),
	}
	opts := calendar.ImportOptions{Timezone: "UTC"}

	if r := calendar.Import(log, events, opts); r.Imported != 1 {
		t.Fatalf("first import: Imported = %d, want 1", r.Imported)
	}

	// A later process sees the meeting through the file only.
	reloaded := eventlog.New(log.Path())
	reloaded.Load()
	r2 := calendar.Import(reloaded, events, opts)
	if r2.Imported != 0 || r2.Skipped != 1 {
		t.Errorf("second import = %+v, want 0 imported, 1 skipped", r2)
	}
	if n := len(reloaded.Load()); n != 1 {
		t.Errorf("events = %d after 2 imports, want 1", n)
	}
}

func TestImport_DuplicatesInOneBatch(t *testing.T) {
	log := newLog(t)
	e := makeEvent("ext-1", "Standup", "2026-02-27T10:00:00", "2026-02-27T10:15:00")
	r := calendar.Import(log, []calendar.CalendarEvent{e, e}, calendar.ImportOptions{Timezone: "UTC"})
	if r.Imported != 1 || r.Skipped != 1 {
		t.Errorf("result = %+v, want 1 imported, 1 skipped", r)
	}
}

func TestImport_RenamedMeetingIsNew(t *testing.T) {
	log := newLog(t)
	e := makeEvent("ext-1", "Architecture Board", "2026-02-27T09:00:00", "2026-02-27T10:30:00")
	calendar.Import(log, []calendar.CalendarEvent{e}, calendar.ImportOptions{Timezone: "UTC"})

	e.Subject = "Architecture Board (updated)"
	r := calendar.Import(log, []calendar.CalendarEvent{e}, calendar.ImportOptions{Timezone: "UTC"})
	if r.Imported != 1 {
		t.Errorf("Imported = %d, want 1", r.Imported)
	}
	if n := log.Len(); n != 2 {
		t.Errorf("events = %d, want 2", n)
	}
}

func TestImport_SkipFiltered(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(e *calendar.CalendarEvent)
	}{
		{"cancelled", func(e *calendar.CalendarEvent) { e.IsCancelled = true }},
		{"all-day", func(e *calendar.CalendarEvent) { e.IsAllDay = true }},
		{"private", func(e *calendar.CalendarEvent) { e.Sensitivity = "private" }},
		{"free", func(e *calendar.CalendarEvent) { e.ShowAs = "free" }},
		{"no end", func(e *calendar.CalendarEvent) { e.End.DateTime = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log := newLog(t)
			e := makeEvent("c1", "Filtered", "2026-02-27T09:00:00", "2026-02-27T10:00:00")
			tt.mutate(&e)
			r := calendar.Import(log, []calendar.CalendarEvent{e}, calendar.ImportOptions{Timezone: "UTC"})
			if r.Imported != 0 || r.Filtered != 1 {
				t.Errorf("result = %+v, want 0 imported, 1 filtered", r)
			}
			if log.Len() != 0 {
				t.Errorf("log has %d events, want 0", log.Len())
			}
		})
	}
}

func TestImport_DryRun(t *testing.T) {
	log := newLog(t)
	events := []calendar.CalendarEvent{
		makeEvent("ext-dry", "Dry Run Event", "2026-02-27T09:00:00", "2026-02-27T10:00:00"),
	}

	r := calendar.Import(log, events, calendar.ImportOptions{Timezone: "UTC", DryRun: true})
	if r.Imported != 1 {
		t.Errorf("dry-run Imported = %d, want 1", r.Imported)
	}
	if log.Len() != 0 {
		t.Errorf("dry-run wrote %d events, want 0", log.Len())
	}
}

func TestImport_KeepsExistingEvents(t *testing.T) {
	log := newLog(t)
	log.AppendAt(time.Date(2026, 2, 27, 9, 0, 0, 0, time.UTC), model.KindHourly, "manual note")

	events := []calendar.CalendarEvent{
		makeEvent("ext-1", "Meeting", "2026-02-27T11:00:00", "2026-02-27T12:00:00"),
	}
	calendar.Import(log, events, calendar.ImportOptions{Timezone: "UTC"})

	got := log.Events()
	if len(got) != 2 {
		t.Fatalf("events = %d, want 2 (manual + imported)", len(got))
	}
	if got[0].Kind != model.KindHourly || got[0].Text != "manual note" {
		t.Errorf("manual event changed: %+v", got[0])
	}
}
