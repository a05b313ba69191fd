package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestBaseDir(t *testing.T) {
	old := userHomeDirFunc
	t.Cleanup(func() { userHomeDirFunc = old })

	userHomeDirFunc = func() (string, error) { return "/home/alice", nil }
	got, err := BaseDir()
	if err != nil {
		t.Fatalf("BaseDir: %v", err)
	}
	if want := filepath.Join("/home/alice", DirName); got != want {
		t.Errorf("BaseDir = %q, want %q", got, want)
	}

	userHomeDirFunc = func() (string, error) { return "", errors.New("no home") }
	if _, err := BaseDir(); err == nil {
		t.Error("expected error without home directory")
	}
}

func TestPathCreatesPrivateDir(t *testing.T) {
	base := filepath.Join(t.TempDir(), "data")
	got := Path(base, EventLogFile)
	if got != filepath.Join(base, EventLogFile) {
		t.Errorf("Path = %q, want %q", got, filepath.Join(base, EventLogFile))
	}
	info, err := os.Stat(base)
	if err != nil {
		t.Fatalf("data dir not created: %v", err)
	}
	if !info.IsDir() {
		t.Fatal("data dir is not a directory")
	}
	if perm := info.Mode().Perm(); perm&0o077 != 0 {
		t.Errorf("data dir permissions = %o, want private", perm)
	}
}

func TestPathFallsBackToBareName(t *testing.T) {
	// A regular file where the directory should be makes MkdirAll fail.
	blocker := filepath.Join(t.TempDir(), "blocker")
	if err := os.WriteFile(blocker, nil, 0o600); err != nil {
		t.Fatal(err)
	}
	if got := Path(blocker, TaskFile); got != TaskFile {
		t.Errorf("Path = %q, want bare %q", got, TaskFile)
	}
}

func TestAppendLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "log.txt")
	for _, line := range []string{"first", "second"} {
		if err := AppendLine(path, line); err != nil {
			t.Fatalf("AppendLine: %v", err)
		}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "first\nsecond\n" {
		t.Errorf("content = %q, want %q", string(data), "first\nsecond\n")
	}
}

func TestAppendLineMissingDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "log.txt")
	if err := AppendLine(path, "x"); err == nil {
		t.Error("expected error for missing directory")
	}
}

func TestWriteFileOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.txt")
	if err := WriteFile(path, "one\ntwo\n"); err != nil {
		t.Fatal(err)
	}
	if err := WriteFile(path, "three\n"); err != nil {
		t.Fatal(err)
	}
	data, _ := os.ReadFile(path)
	if string(data) != "three\n" {
		t.Errorf("content = %q, want %q", string(data), "three\n")
	}
}

func TestRemove(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gone.txt")
	if err := Remove(path); err != nil {
		t.Errorf("Remove on missing file: %v", err)
	}
	if err := os.WriteFile(path, []byte("x"), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := Remove(path); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("file still exists after Remove")
	}
}
