// Package calendar imports Outlook meetings from Microsoft Graph into the
// event log as MEETING events stamped with the meeting start.
package calendar

import (
	"fmt"
	"io"
	"time"

	"github.com/Tiliavir/productivity-tracker/internal/eventlog"
	"github.com/Tiliavir/productivity-tracker/internal/logger"
	"github.com/Tiliavir/productivity-tracker/internal/model"
	"github.com/Tiliavir/productivity-tracker/internal/timecalc"
)

// ImportResult holds counters for an import run.
type ImportResult struct {
	Imported int
	Skipped  int
	Filtered int
	Errors   int
}

// ImportOptions configures Import.
type ImportOptions struct {
	// Timezone is the IANA zone Graph was asked to report times in.
	Timezone string
	DryRun   bool
	// Out receives one progress line per meeting; nil discards them.
	Out io.Writer
}

// parseGraphTime parses a Graph API dateTime string in the given timezone.
// Graph returns times like "2026-02-27T09:00:00.0000000" without a zone suffix
// when a Prefer: outlook.timezone header is set.
func parseGraphTime(dt, tz string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, dt); err == nil {
		return t, nil
	}

	loc := time.UTC
	if tz != "" {
		if l, err := time.LoadLocation(tz); err == nil {
			loc = l
		}
	}

	for _, layout := range []string{
		"2006-01-02T15:04:05.0000000",
		"2006-01-02T15:04:05",
	} {
		if t, err := time.ParseInLocation(layout, dt, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot parse graph time %q", dt)
}

// shouldSkip returns true if the event should not be imported.
func shouldSkip(event CalendarEvent) bool {
	switch {
	case event.IsCancelled, event.IsAllDay:
		return true
	case event.Sensitivity == "private":
		return true
	case event.ShowAs == "free":
		return true
	case event.Start.DateTime == "" || event.End.DateTime == "":
		return true
	}
	return false
}

// MeetingEvent converts a Graph event into a MEETING event at its start.
func MeetingEvent(event CalendarEvent, timezone string) (model.Event, error) {
	start, err := parseGraphTime(event.Start.DateTime, timezone)
	if err != nil {
		return model.Event{}, fmt.Errorf("parsing start time: %w", err)
	}
	end, err := parseGraphTime(event.End.DateTime, timezone)
	if err != nil {
		return model.Event{}, fmt.Errorf("parsing end time: %w", err)
	}

	text := "Meeting: " + event.Subject
	if event.Location.DisplayName != "" {
		text += " @ " + event.Location.DisplayName
	}
	text += " (" + timecalc.FormatDuration(end.Sub(start)) + ")"

	return model.Event{Timestamp: start, Kind: model.KindMeeting, Text: text}, nil
}

// meetingKey identifies a meeting the way it survives a log round trip.
func meetingKey(e model.Event) string {
	return timecalc.FormatLocal(e.Timestamp) + "\x00" + e.Text
}

// Import appends every relevant meeting not already present in log. A
// meeting is present when a MEETING event with the same second and text
// exists, so repeated imports of the same range add nothing.
func Import(log *eventlog.Store, events []CalendarEvent, opts ImportOptions) ImportResult {
	out := opts.Out
	if out == nil {
		out = io.Discard
	}

	seen := map[string]bool{}
	for _, e := range log.Events() {
		if e.Kind == model.KindMeeting {
			seen[meetingKey(e)] = true
		}
	}

	var result ImportResult
	for _, event := range events {
		if shouldSkip(event) {
			result.Filtered++
			continue
		}

		meeting, err := MeetingEvent(event, opts.Timezone)
		if err != nil {
			logger.Warn("calendar event not imported", "subject", event.Subject, "err", err)
			fmt.Fprintf(out, "  ! Error mapping event %q: %v\n", event.Subject, err)
			result.Errors++
			continue
		}

		key := meetingKey(meeting)
		if seen[key] {
			fmt.Fprintf(out, "  – Skipped:  %s (already imported)\n", event.Subject)
			result.Skipped++
			continue
		}
		seen[key] = true

		if !opts.DryRun {
			log.AppendAt(meeting.Timestamp, meeting.Kind, meeting.Text)
		}
		fmt.Fprintf(out, "  ✓ Imported: %s\n", meeting.Text)
		result.Imported++
	}
	return result
}
