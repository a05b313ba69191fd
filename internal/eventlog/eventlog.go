// Package eventlog keeps the ordered activity log and mirrors it to an
// append-only text file, one event per line:
//
//	2024-01-02 09:00:00 - HOURLY - reviewed pull requests
//
// The text is written verbatim. The parser splits on the first two " - "
// separators only, so a kind must never contain one; text may.
package eventlog

import (
	"bufio"
	"errors"
	"io"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/Tiliavir/productivity-tracker/internal/logger"
	"github.com/Tiliavir/productivity-tracker/internal/model"
	"github.com/Tiliavir/productivity-tracker/internal/storage"
	"github.com/Tiliavir/productivity-tracker/internal/timecalc"
)

// Separator delimits the timestamp, kind and text fields of a line.
const Separator = " - "

// Store is the in-memory event log backed by an append-only file.
type Store struct {
	path   string
	events []model.Event

	// Now is the clock used for new events and unparsable timestamps.
	Now func() time.Time
}

// New returns an empty store backed by the file at path.
func New(path string) *Store {
	return &Store{path: path, Now: time.Now}
}

// Path returns the backing file.
func (s *Store) Path() string {
	return s.path
}

// Append records a new event stamped with the current time.
func (s *Store) Append(kind, text string) model.Event {
	return s.AppendAt(s.Now(), kind, text)
}

// AppendAt records a new event with an explicit timestamp. The in-memory log
// always updates; a failed file write is only logged.
func (s *Store) AppendAt(ts time.Time, kind, text string) model.Event {
	e := model.Event{Timestamp: ts, Kind: kind, Text: text}
	s.events = append(s.events, e)
	if err := storage.AppendLine(s.path, EncodeLine(e)); err != nil {
		logger.Warn("event not persisted", "kind", kind, "err", err)
	}
	return e
}

// Load replaces the in-memory log with the content of the backing file.
// Malformed lines degrade to defaults; a missing file yields an empty log.
func (s *Store) Load() []model.Event {
	s.events = nil

	f, err := os.Open(s.path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			logger.Warn("cannot read event log", "path", s.path, "err", err)
		}
		return s.Events()
	}
	defer f.Close()

	// Lines have no length limit; a status text can be arbitrarily long.
	r := bufio.NewReader(f)
	for {
		line, err := r.ReadString('\n')
		line = strings.TrimRight(line, "\r\n")
		if line != "" {
			s.events = append(s.events, ParseLine(line, s.Now()))
		}
		if err != nil {
			if !errors.Is(err, io.EOF) {
				logger.Warn("event log read stopped early", "path", s.path, "err", err)
			}
			break
		}
	}
	logger.Debug("event log loaded", "path", s.path, "events", len(s.events))
	return s.Events()
}

// Reset drops every in-memory event. The backing file is left untouched.
func (s *Store) Reset() {
	s.events = nil
}

// Len returns the number of events.
func (s *Store) Len() int {
	return len(s.events)
}

// Events returns a copy of the log, oldest first.
func (s *Store) Events() []model.Event {
	out := make([]model.Event, len(s.events))
	copy(out, s.events)
	return out
}

// SameDay returns the events of the given kind that fall on the local
// calendar day of ref, in store order.
func (s *Store) SameDay(kind string, ref time.Time) []model.Event {
	ref = ref.Local()
	var out []model.Event
	for _, e := range s.events {
		if e.Kind == kind && timecalc.SameDay(ref, e.Timestamp) {
			out = append(out, e)
		}
	}
	return out
}

// Since returns the events stamped at or after cutoff, in store order.
func (s *Store) Since(cutoff time.Time) []model.Event {
	var out []model.Event
	for _, e := range s.events {
		if !e.Timestamp.Before(cutoff) {
			out = append(out, e)
		}
	}
	return out
}

// EncodeLine renders e in the log line format, without the trailing newline.
func EncodeLine(e model.Event) string {
	return timecalc.FormatLocal(e.Timestamp) + Separator + e.Kind + Separator + e.Text
}

// ParseLine decodes one log line. now stands in for timestamps that are
// missing or unparsable.
func ParseLine(line string, now time.Time) model.Event {
	first := strings.Index(line, Separator)
	if first < 0 {
		return model.Event{Timestamp: now, Kind: model.KindLog, Text: line}
	}

	ts, err := timecalc.ParseLocal(line[:first])
	if err != nil {
		ts = now
	}
	rest := line[first+len(Separator):]

	second := strings.Index(rest, Separator)
	if second < 0 {
		return model.Event{Timestamp: ts, Kind: model.KindLog, Text: rest}
	}
	return model.Event{
		Timestamp: ts,
		Kind:      rest[:second],
		Text:      rest[second+len(Separator):],
	}
}
