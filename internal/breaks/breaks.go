// Package breaks tracks break intervals and narrates them into the event log.
package breaks

import (
	"math/rand"
	"regexp"
	"strings"
	"time"

	"github.com/Tiliavir/productivity-tracker/internal/eventlog"
	"github.com/Tiliavir/productivity-tracker/internal/model"
	"github.com/Tiliavir/productivity-tracker/internal/timecalc"
)

// DefaultTypes are the break categories offered when none are configured.
var DefaultTypes = []string{"Coffee", "Bathroom", "Water", "Lunch", "Stretch"}

const (
	startPrefix  = "Started break: "
	endPrefix    = "Ended break: "
	warnPrefix   = "Tried to end break but none active: "
	randomPrefix = "Random break: "
)

var (
	endPattern    = regexp.MustCompile(`^Ended break: (.*) \(start (.+), end (.+)\)$`)
	randomPattern = regexp.MustCompile(`^Random break: (.*) \((\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}) - (\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2})\)$`)
)

// Tracker holds break intervals in memory and narrates every change into
// the event log.
type Tracker struct {
	entries []model.BreakEntry
	log     *eventlog.Store
	types   []string
	rng     *rand.Rand

	// Now is the clock used for break boundaries.
	Now func() time.Time
}

// New returns an empty tracker. types is the preset list used by Random;
// an empty list falls back to DefaultTypes.
func New(log *eventlog.Store, types []string) *Tracker {
	if len(types) == 0 {
		types = DefaultTypes
	}
	return &Tracker{
		log:   log,
		types: append([]string(nil), types...),
		rng:   rand.New(rand.NewSource(time.Now().UnixNano())),
		Now:   time.Now,
	}
}

// Types returns the preset categories.
func (t *Tracker) Types() []string {
	return append([]string(nil), t.types...)
}

// Start opens a break of the given category.
func (t *Tracker) Start(category string) model.BreakEntry {
	b := model.BreakEntry{Category: category, Start: t.Now()}
	t.entries = append(t.entries, b)
	t.log.Append(model.KindBreakStart, startPrefix+category)
	return b
}

// EndMostRecentOpen closes the most recently started open break of the given
// category. If there is none a BREAK_WARN event is recorded and false is
// returned.
func (t *Tracker) EndMostRecentOpen(category string) (model.BreakEntry, bool) {
	for i := len(t.entries) - 1; i >= 0; i-- {
		b := &t.entries[i]
		if b.Category != category || !b.Active() {
			continue
		}
		end := t.Now()
		b.End = &end
		t.log.Append(model.KindBreakEnd, endPrefix+b.Category+
			" (start "+timecalc.FormatLocal(b.Start)+", end "+timecalc.FormatLocal(end)+")")
		return cloneEntry(*b), true
	}
	t.log.Append(model.KindBreakWarn, warnPrefix+category)
	return model.BreakEntry{}, false
}

// Random records an already closed break of a random preset category that
// started 1 to 20 minutes ago.
func (t *Tracker) Random() model.BreakEntry {
	category := t.types[t.rng.Intn(len(t.types))]
	end := t.Now()
	start := end.Add(-time.Duration(1+t.rng.Intn(20)) * time.Minute)
	b := model.BreakEntry{Category: category, Start: start, End: &end}
	t.entries = append(t.entries, b)
	t.log.Append(model.KindBreakRandom, randomPrefix+category+
		" ("+timecalc.FormatLocal(start)+" - "+timecalc.FormatLocal(end)+")")
	return cloneEntry(b)
}

// Entries returns a copy of every break, oldest first.
func (t *Tracker) Entries() []model.BreakEntry {
	out := make([]model.BreakEntry, len(t.entries))
	for i, b := range t.entries {
		out[i] = cloneEntry(b)
	}
	return out
}

// Active returns the open breaks, oldest first.
func (t *Tracker) Active() []model.BreakEntry {
	var out []model.BreakEntry
	for _, b := range t.entries {
		if b.Active() {
			out = append(out, cloneEntry(b))
		}
	}
	return out
}

// Reset drops every break.
func (t *Tracker) Reset() {
	t.entries = nil
}

// Replay rebuilds the break list from the narrative events written by
// Start, EndMostRecentOpen and Random. Nothing is written to the log.
func (t *Tracker) Replay(events []model.Event) {
	t.entries = nil
	for _, e := range events {
		switch e.Kind {
		case model.KindBreakStart:
			if category, ok := strings.CutPrefix(e.Text, startPrefix); ok {
				t.entries = append(t.entries, model.BreakEntry{Category: category, Start: e.Timestamp})
			}
		case model.KindBreakEnd:
			m := endPattern.FindStringSubmatch(e.Text)
			if m == nil {
				continue
			}
			end := e.Timestamp
			if ts, err := timecalc.ParseLocal(m[3]); err == nil {
				end = ts
			}
			t.closeLatest(m[1], end)
		case model.KindBreakRandom:
			m := randomPattern.FindStringSubmatch(e.Text)
			if m == nil {
				continue
			}
			start, err1 := timecalc.ParseLocal(m[2])
			end, err2 := timecalc.ParseLocal(m[3])
			if err1 != nil || err2 != nil {
				continue
			}
			t.entries = append(t.entries, model.BreakEntry{Category: m[1], Start: start, End: &end})
		}
	}
}

func (t *Tracker) closeLatest(category string, end time.Time) {
	for i := len(t.entries) - 1; i >= 0; i-- {
		if t.entries[i].Category == category && t.entries[i].Active() {
			t.entries[i].End = &end
			return
		}
	}
}

func cloneEntry(b model.BreakEntry) model.BreakEntry {
	if b.End != nil {
		end := *b.End
		b.End = &end
	}
	return b
}
