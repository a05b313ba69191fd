package storage

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/Tiliavir/productivity-tracker/internal/logger"
)

// DirName is the data directory created under the user's home.
const DirName = ".productivity_tracker"

// Backing files of the core stores.
const (
	EventLogFile      = "daily_logs.txt"
	TaskFile          = "tasks.txt"
	DailyStatusFile   = "daily_status.txt"
	WeeklyStatusFile  = "weekly_status.txt"
	ClearedMarkerFile = "cleared_marker.txt"
)

// CoreFiles are the files removed by a clear-all.
var CoreFiles = []string{EventLogFile, TaskFile, DailyStatusFile, WeeklyStatusFile}

var userHomeDirFunc = os.UserHomeDir

// BaseDir returns the root data directory (~/.productivity_tracker).
func BaseDir() (string, error) {
	home, err := userHomeDirFunc()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, DirName), nil
}

// Path returns the absolute path of name inside base, creating base with
// private permissions if needed. If the directory cannot be created the bare
// name is returned, which resolves against the working directory.
func Path(base, name string) string {
	if err := os.MkdirAll(base, 0o700); err != nil {
		logger.Warn("data directory unavailable, using working directory", "dir", base, "err", err)
		return name
	}
	return filepath.Join(base, name)
}

// AppendLine appends line plus a newline to the file at path, creating it if
// necessary. The file is opened and closed per call.
func AppendLine(path, line string) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return fmt.Errorf("storage error opening %s: %w", path, err)
	}
	if _, err := f.WriteString(line + "\n"); err != nil {
		f.Close()
		return fmt.Errorf("storage error appending to %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("storage error closing %s: %w", path, err)
	}
	return nil
}

// WriteFile replaces the content of the file at path. The write is not
// atomic: a crash mid-write can leave a truncated file.
func WriteFile(path, content string) error {
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		return fmt.Errorf("storage error writing %s: %w", path, err)
	}
	return nil
}

// Remove deletes the file at path. A missing file is not an error.
func Remove(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("storage error removing %s: %w", path, err)
	}
	return nil
}
