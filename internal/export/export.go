// Package export writes derived snapshot files next to the stores. Every
// function returns the produced path, or "" when nothing was written.
// Exports only read the event log.
package export

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/Tiliavir/productivity-tracker/internal/eventlog"
	"github.com/Tiliavir/productivity-tracker/internal/logger"
	"github.com/Tiliavir/productivity-tracker/internal/model"
	"github.com/Tiliavir/productivity-tracker/internal/storage"
	"github.com/Tiliavir/productivity-tracker/internal/timecalc"
)

// File name prefixes of the generated snapshots.
const (
	PrefixHourlyToday        = "hourly_logs_today"
	PrefixWeeklyLogs         = "weekly_logs_export"
	PrefixDailyStatusExport  = "daily_status_export"
	PrefixWeeklyStatusExport = "weekly_status_export"
	PrefixDailyStatusSaved   = "daily_status_saved"
	PrefixWeeklyStatusSaved  = "weekly_status_saved"
	PrefixBundle             = "weekly_bundle"
)

// Week is the rolling window of the weekly export.
const Week = 7 * 24 * time.Hour

const (
	jsonlHeader = "=== HOURLY_ENTRIES_JSONL (one JSON object per line) ==="
	endMarker   = "=== END OF EXPORT ==="
)

// Generator builds snapshot files in a data directory.
type Generator struct {
	dir string
	log *eventlog.Store

	// Now is the clock used for file names and time windows.
	Now func() time.Time
}

// New returns a generator writing into dir and reading from log.
func New(dir string, log *eventlog.Store) *Generator {
	return &Generator{dir: dir, log: log, Now: time.Now}
}

// TextSnapshot writes content plus a trailing newline to
// <dir>/<prefix>_<YYYYMMDD_HHMMSS>.txt.
func (g *Generator) TextSnapshot(prefix, content string) string {
	name := prefix + "_" + timecalc.FileStamp(g.Now()) + ".txt"
	path := storage.Path(g.dir, name)
	if err := storage.WriteFile(path, content+"\n"); err != nil {
		logger.Warn("export failed", "prefix", prefix, "err", err)
		return ""
	}
	logger.Debug("export written", "path", path)
	return path
}

// HourlyToday exports today's HOURLY events, oldest first. Without any
// matching event no file is written.
func (g *Generator) HourlyToday() string {
	events := g.log.SameDay(model.KindHourly, g.Now())
	if len(events) == 0 {
		return ""
	}
	var b strings.Builder
	for _, e := range events {
		b.WriteString(eventlog.EncodeLine(e))
		b.WriteByte('\n')
	}
	return g.TextSnapshot(PrefixHourlyToday, b.String())
}

// Weekly exports every event of the last seven days followed by a JSONL
// section holding the HOURLY ones. An empty log produces no file.
func (g *Generator) Weekly() string {
	if g.log.Len() == 0 {
		return ""
	}
	now := g.Now()
	events := g.log.Since(now.Add(-Week))

	var human, jsonl strings.Builder
	human.WriteString("WEEKLY LOG EXPORT\n")
	human.WriteString("Generated: " + timecalc.FormatLocal(now) + "\n")
	human.WriteString("Range: last 7 days\n\n")
	for _, e := range events {
		human.WriteString(eventlog.EncodeLine(e))
		human.WriteByte('\n')
		if e.Kind == model.KindHourly {
			jsonl.WriteString(HourlyJSON(e))
			jsonl.WriteByte('\n')
		}
	}

	var content strings.Builder
	content.WriteString(human.String())
	content.WriteString("\n" + jsonlHeader + "\n")
	content.WriteString(jsonl.String())
	content.WriteString("\n" + endMarker + "\n")
	return g.TextSnapshot(PrefixWeeklyLogs, content.String())
}

// HourlyJSON renders an HOURLY event as one JSON object.
func HourlyJSON(e model.Event) string {
	return `{"type":"HOURLY","timestamp":"` + timecalc.JSONEscape(timecalc.FormatISO(e.Timestamp)) +
		`","text":"` + timecalc.JSONEscape(e.Text) + `"}`
}

// bundlePatterns select the files worth handing to a weekly review.
var bundlePatterns = []string{
	PrefixWeeklyStatusExport + "_*",
	"tasks*",
	PrefixHourlyToday + "_*",
	"daily_status*",
	storage.EventLogFile,
}

const bundlePrompt = "Here are my productivity logs for this week. Please analyze and suggest ways I can " +
	"improve my workflow, manage energy, and reduce distractions. " +
	"Summarize patterns, recommend changes, and highlight both strengths and weaknesses."

// RecentFiles lists the bundle candidates in the data directory modified
// within the last seven days, sorted by path.
func (g *Generator) RecentFiles() []string {
	cutoff := g.Now().Add(-Week)
	seen := map[string]bool{}
	var files []string
	for _, pattern := range bundlePatterns {
		matches, err := filepath.Glob(filepath.Join(g.dir, pattern))
		if err != nil {
			continue
		}
		for _, m := range matches {
			info, err := os.Stat(m)
			if err != nil || info.IsDir() || info.ModTime().Before(cutoff) || seen[m] {
				continue
			}
			seen[m] = true
			files = append(files, m)
		}
	}
	sort.Strings(files)
	return files
}

// Bundle concatenates the recent files under a review prompt into a single
// snapshot. Without recent files no bundle is written.
func (g *Generator) Bundle() string {
	files := g.RecentFiles()
	if len(files) == 0 {
		return ""
	}
	var parts []string
	for _, f := range files {
		data, err := os.ReadFile(f)
		if err != nil {
			logger.Warn("skipping unreadable file", "path", f, "err", err)
			continue
		}
		parts = append(parts, "--- "+filepath.Base(f)+" ---\n"+string(data))
	}
	if len(parts) == 0 {
		return ""
	}
	return g.TextSnapshot(PrefixBundle, bundlePrompt+"\n\nLOGS:\n"+strings.Join(parts, "\n\n"))
}
