package breaks_test

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Tiliavir/productivity-tracker/internal/breaks"
	"github.com/Tiliavir/productivity-tracker/internal/eventlog"
	"github.com/Tiliavir/productivity-tracker/internal/model"
)

type clock struct{ now time.Time }

func (c *clock) Now() time.Time          { return c.now }
func (c *clock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newTracker(t *testing.T, types []string) (*breaks.Tracker, *eventlog.Store, *clock) {
	t.Helper()
	c := &clock{now: time.Date(2024, 1, 2, 10, 0, 0, 0, time.Local)}
	log := eventlog.New(filepath.Join(t.TempDir(), "daily_logs.txt"))
	log.Now = c.Now
	tr := breaks.New(log, types)
	tr.Now = c.Now
	return tr, log, c
}

func TestStartLogsEvent(t *testing.T) {
	tr, log, _ := newTracker(t, nil)
	b := tr.Start("Coffee")
	if !b.Active() || b.Category != "Coffee" {
		t.Errorf("Start = %+v", b)
	}
	events := log.Events()
	if len(events) != 1 || events[0].Kind != model.KindBreakStart || events[0].Text != "Started break: Coffee" {
		t.Errorf("events = %+v", events)
	}
}

func TestEndClosesMostRecentOpen(t *testing.T) {
	tr, log, c := newTracker(t, nil)
	tr.Start("Coffee")
	c.Advance(time.Minute)
	tr.Start("Coffee")
	c.Advance(time.Minute)

	ended, ok := tr.EndMostRecentOpen("Coffee")
	if !ok {
		t.Fatal("EndMostRecentOpen reported no open break")
	}
	want := time.Date(2024, 1, 2, 10, 1, 0, 0, time.Local)
	if !ended.Start.Equal(want) {
		t.Errorf("closed break started at %v, want the second one at %v", ended.Start, want)
	}

	entries := tr.Entries()
	if !entries[0].Active() {
		t.Error("first break was closed, want it still open")
	}
	if entries[1].Active() {
		t.Error("second break still open")
	}

	last := log.Events()[log.Len()-1]
	wantText := "Ended break: Coffee (start 2024-01-02 10:01:00, end 2024-01-02 10:02:00)"
	if last.Kind != model.KindBreakEnd || last.Text != wantText {
		t.Errorf("last event = %s %q, want BREAK_END %q", last.Kind, last.Text, wantText)
	}
}

func TestEndWithoutOpenBreakWarns(t *testing.T) {
	tr, log, _ := newTracker(t, nil)
	tr.Start("Water")
	if _, ok := tr.EndMostRecentOpen("Lunch"); ok {
		t.Error("EndMostRecentOpen reported success for a category never started")
	}
	last := log.Events()[log.Len()-1]
	if last.Kind != model.KindBreakWarn || last.Text != "Tried to end break but none active: Lunch" {
		t.Errorf("last event = %+v", last)
	}
	if len(tr.Active()) != 1 {
		t.Error("unrelated break was closed")
	}
}

func TestRandom(t *testing.T) {
	tr, log, c := newTracker(t, []string{"Stretch"})
	for i := 0; i < 50; i++ {
		b := tr.Random()
		if b.Category != "Stretch" {
			t.Fatalf("category = %q, want Stretch", b.Category)
		}
		if b.Active() || !b.End.Equal(c.Now()) {
			t.Fatalf("random break not closed at now: %+v", b)
		}
		gap := b.End.Sub(b.Start)
		if gap < time.Minute || gap > 20*time.Minute || gap%time.Minute != 0 {
			t.Fatalf("random break length = %v, want whole minutes in [1m, 20m]", gap)
		}
	}
	e := log.Events()[0]
	if e.Kind != model.KindBreakRandom || !strings.HasPrefix(e.Text, "Random break: Stretch (") {
		t.Errorf("event = %+v", e)
	}
}

func TestDefaultTypes(t *testing.T) {
	tr, _, _ := newTracker(t, nil)
	if got := strings.Join(tr.Types(), ","); got != "Coffee,Bathroom,Water,Lunch,Stretch" {
		t.Errorf("Types = %q", got)
	}
}

func TestReplayRebuildsState(t *testing.T) {
	tr, log, c := newTracker(t, nil)
	tr.Start("Coffee")
	c.Advance(5 * time.Minute)
	tr.Start("Coffee")
	tr.Start("Lunch")
	c.Advance(5 * time.Minute)
	tr.EndMostRecentOpen("Coffee")
	tr.EndMostRecentOpen("Bathroom")
	tr.Random()
	want := tr.Entries()

	reloaded := eventlog.New(log.Path())
	replayed := breaks.New(reloaded, nil)
	replayed.Replay(reloaded.Load())
	got := replayed.Entries()

	if len(got) != len(want) {
		t.Fatalf("Replay = %d entries, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i].Category != want[i].Category || !got[i].Start.Equal(want[i].Start) {
			t.Errorf("entry %d = %+v, want %+v", i, got[i], want[i])
		}
		if got[i].Active() != want[i].Active() {
			t.Errorf("entry %d active = %v, want %v", i, got[i].Active(), want[i].Active())
		}
		if !want[i].Active() && !got[i].End.Equal(*want[i].End) {
			t.Errorf("entry %d end = %v, want %v", i, *got[i].End, *want[i].End)
		}
	}
	if reloaded.Len() != log.Len() {
		t.Error("Replay wrote to the event log")
	}
}

func TestReset(t *testing.T) {
	tr, _, _ := newTracker(t, nil)
	tr.Start("Coffee")
	tr.Reset()
	if len(tr.Entries()) != 0 {
		t.Error("Reset kept entries")
	}
}
