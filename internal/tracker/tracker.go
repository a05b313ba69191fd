// Package tracker is the entry point used by the user interface. It owns the
// event log, the task store and the break tracker, and turns user actions
// into store mutations, snapshot files and audit events.
package tracker

import (
	"time"

	"github.com/Tiliavir/productivity-tracker/internal/breaks"
	"github.com/Tiliavir/productivity-tracker/internal/eventlog"
	"github.com/Tiliavir/productivity-tracker/internal/export"
	"github.com/Tiliavir/productivity-tracker/internal/logger"
	"github.com/Tiliavir/productivity-tracker/internal/model"
	"github.com/Tiliavir/productivity-tracker/internal/storage"
	"github.com/Tiliavir/productivity-tracker/internal/tasks"
	"github.com/Tiliavir/productivity-tracker/internal/timecalc"
)

// Options configures Open.
type Options struct {
	// Dir is the data directory.
	Dir string
	// BreakTypes is the preset list for random breaks; empty means defaults.
	BreakTypes []string
	// Now overrides the clock; nil means time.Now.
	Now func() time.Time
}

// Tracker bundles the stores of one data directory.
type Tracker struct {
	dir    string
	now    func() time.Time
	log    *eventlog.Store
	tasks  *tasks.Store
	breaks *breaks.Tracker
	export *export.Generator
}

// Open loads the event log and tasks from dir and rebuilds the break list
// from the log.
func Open(opts Options) *Tracker {
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	log := eventlog.New(storage.Path(opts.Dir, storage.EventLogFile))
	log.Now = now
	br := breaks.New(log, opts.BreakTypes)
	br.Now = now
	gen := export.New(opts.Dir, log)
	gen.Now = now

	t := &Tracker{
		dir:    opts.Dir,
		now:    now,
		log:    log,
		tasks:  tasks.New(storage.Path(opts.Dir, storage.TaskFile), log),
		breaks: br,
		export: gen,
	}
	t.log.Load()
	t.tasks.Load()
	t.breaks.Replay(t.log.Events())
	logger.Debug("tracker opened", "dir", opts.Dir, "events", t.log.Len(), "tasks", t.tasks.Len())
	return t
}

// Dir returns the data directory.
func (t *Tracker) Dir() string {
	return t.dir
}

// Log appends an event of any kind.
func (t *Tracker) Log(kind, text string) model.Event {
	return t.log.Append(kind, text)
}

// LogHourly appends an HOURLY note.
func (t *Tracker) LogHourly(text string) model.Event {
	return t.log.Append(model.KindHourly, text)
}

// Events returns a copy of the event log, oldest first.
func (t *Tracker) Events() []model.Event {
	return t.log.Events()
}

// EventLog exposes the event log for importers that need explicit timestamps.
func (t *Tracker) EventLog() *eventlog.Store {
	return t.log
}

// AddTask adds a task under parent (nil for a root).
func (t *Tracker) AddTask(name string, parent *int) (model.Task, error) {
	return t.tasks.Add(name, parent)
}

// ToggleTask sets the done flag of a task.
func (t *Tracker) ToggleTask(id int, done bool) error {
	return t.tasks.Toggle(id, done)
}

// Tasks returns a copy of every task in store order.
func (t *Tracker) Tasks() []model.Task {
	return t.tasks.Tasks()
}

// WalkTasks visits the task forest depth-first in pre-order.
func (t *Tracker) WalkTasks(fn func(task model.Task, depth int)) {
	t.tasks.Walk(fn)
}

// StartBreak opens a break of the given category.
func (t *Tracker) StartBreak(category string) model.BreakEntry {
	return t.breaks.Start(category)
}

// EndBreak closes the most recent open break of the given category.
func (t *Tracker) EndBreak(category string) (model.BreakEntry, bool) {
	return t.breaks.EndMostRecentOpen(category)
}

// RandomBreak records a closed break of a random preset category.
func (t *Tracker) RandomBreak() model.BreakEntry {
	return t.breaks.Random()
}

// Breaks returns a copy of every break, oldest first.
func (t *Tracker) Breaks() []model.BreakEntry {
	return t.breaks.Entries()
}

// ActiveBreaks returns the open breaks, oldest first.
func (t *Tracker) ActiveBreaks() []model.BreakEntry {
	return t.breaks.Active()
}

// BreakTypes returns the preset break categories.
func (t *Tracker) BreakTypes() []string {
	return t.breaks.Types()
}

// SaveDailyStatus persists a daily status: a line in daily_status.txt, a
// DAILY_STATUS event and a daily_status_saved snapshot. It returns the
// snapshot path.
func (t *Tracker) SaveDailyStatus(text string) string {
	return t.saveStatus(storage.DailyStatusFile, model.KindDailyStatus, export.PrefixDailyStatusSaved, "daily", text)
}

// SaveWeeklyStatus is SaveDailyStatus for the weekly status.
func (t *Tracker) SaveWeeklyStatus(text string) string {
	return t.saveStatus(storage.WeeklyStatusFile, model.KindWeeklyStatus, export.PrefixWeeklyStatusSaved, "weekly", text)
}

func (t *Tracker) saveStatus(file, kind, prefix, label, text string) string {
	line := eventlog.EncodeLine(model.Event{Timestamp: t.now(), Kind: kind, Text: text})
	if err := storage.AppendLine(storage.Path(t.dir, file), line); err != nil {
		logger.Warn("status not persisted", "file", file, "err", err)
	}
	t.log.Append(kind, text)
	path := t.export.TextSnapshot(prefix, text)
	t.recordExport("Exported "+label+" status to ", path)
	return path
}

// ExportDailyStatus writes text to a daily_status_export snapshot.
func (t *Tracker) ExportDailyStatus(text string) string {
	path := t.export.TextSnapshot(export.PrefixDailyStatusExport, text)
	t.recordExport("Exported daily status to ", path)
	return path
}

// ExportWeeklyStatus writes text to a weekly_status_export snapshot.
func (t *Tracker) ExportWeeklyStatus(text string) string {
	path := t.export.TextSnapshot(export.PrefixWeeklyStatusExport, text)
	t.recordExport("Exported weekly status to ", path)
	return path
}

// ExportHourlyToday exports today's HOURLY notes.
func (t *Tracker) ExportHourlyToday() string {
	path := t.export.HourlyToday()
	t.recordExport("Exported hourly logs (today) to ", path)
	return path
}

// ExportWeekly exports the last seven days.
func (t *Tracker) ExportWeekly() string {
	path := t.export.Weekly()
	t.recordExport("Exported weekly logs to ", path)
	return path
}

// ExportBundle writes the weekly analysis bundle.
func (t *Tracker) ExportBundle() string {
	path := t.export.Bundle()
	t.recordExport("Exported analysis bundle to ", path)
	return path
}

func (t *Tracker) recordExport(msg, path string) {
	if path != "" {
		t.log.Append(model.KindExport, msg+path)
	}
}

// ClearAll empties every store, deletes the core files and writes
// cleared_marker.txt holding the current time. It returns the marker path,
// or "" if the marker could not be written.
func (t *Tracker) ClearAll() string {
	t.log.Reset()
	t.breaks.Reset()
	t.tasks.Reset()

	for _, name := range storage.CoreFiles {
		if err := storage.Remove(storage.Path(t.dir, name)); err != nil {
			logger.Warn("clear-all could not remove file", "file", name, "err", err)
		}
	}

	marker := storage.Path(t.dir, storage.ClearedMarkerFile)
	if err := storage.WriteFile(marker, timecalc.FormatLocal(t.now())+"\n"); err != nil {
		logger.Warn("clear-all marker not written", "err", err)
		return ""
	}
	logger.Info("cleared all data", "dir", t.dir)
	return marker
}
