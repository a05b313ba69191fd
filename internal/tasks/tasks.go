// Package tasks maintains the task forest and its flat-file encoding:
//
//	0: [ ] write report
//	1: [x] collect numbers (parent=0)
//
// The leading number is the task's position and parent references point at
// positions. Tasks are never deleted or reordered, so a task keeps its ID for
// the lifetime of the file. Load renumbers by read order.
package tasks

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/Tiliavir/productivity-tracker/internal/eventlog"
	"github.com/Tiliavir/productivity-tracker/internal/logger"
	"github.com/Tiliavir/productivity-tracker/internal/model"
	"github.com/Tiliavir/productivity-tracker/internal/storage"
)

var (
	// ErrNotFound is returned for task or parent IDs the store does not hold.
	ErrNotFound = errors.New("task not found")
	// ErrEmptyName is returned when adding a task without a name.
	ErrEmptyName = errors.New("task name is empty")
	// ErrInvalidName is returned for names the task file cannot hold: line
	// breaks, surrounding whitespace or a parent marker.
	ErrInvalidName = errors.New("task name must be a single line without surrounding whitespace or \"(parent=\"")
)

const parentPrefix = "(parent="

// Store is the in-memory task list backed by a fully rewritten file.
type Store struct {
	path  string
	tasks []model.Task
	log   *eventlog.Store
}

// New returns an empty store backed by the file at path. Added tasks are
// recorded in log.
func New(path string, log *eventlog.Store) *Store {
	return &Store{path: path, log: log}
}

// Add appends a new open task under parent (nil for a root), saves the store
// and records a TASK event.
func (s *Store) Add(name string, parent *int) (model.Task, error) {
	if strings.TrimSpace(name) == "" {
		return model.Task{}, ErrEmptyName
	}
	if strings.ContainsAny(name, "\r\n") || strings.TrimSpace(name) != name ||
		strings.Contains(name, parentPrefix) {
		return model.Task{}, fmt.Errorf("%q: %w", name, ErrInvalidName)
	}
	if parent != nil && s.index(*parent) < 0 {
		return model.Task{}, fmt.Errorf("parent %d: %w", *parent, ErrNotFound)
	}

	t := model.Task{ID: s.nextID(), Name: name, Parent: copyID(parent)}
	s.tasks = append(s.tasks, t)
	s.Save()
	if s.log != nil {
		s.log.Append(model.KindTask, "Added task: "+name)
	}
	return cloneTask(t), nil
}

// Toggle sets the done flag of task id and saves the store.
func (s *Store) Toggle(id int, done bool) error {
	i := s.index(id)
	if i < 0 {
		return fmt.Errorf("task %d: %w", id, ErrNotFound)
	}
	s.tasks[i].Done = done
	s.Save()
	return nil
}

// Get returns the task with the given ID.
func (s *Store) Get(id int) (model.Task, bool) {
	i := s.index(id)
	if i < 0 {
		return model.Task{}, false
	}
	return cloneTask(s.tasks[i]), true
}

// Tasks returns a copy of every task in store order.
func (s *Store) Tasks() []model.Task {
	out := make([]model.Task, len(s.tasks))
	for i, t := range s.tasks {
		out[i] = cloneTask(t)
	}
	return out
}

// Len returns the number of tasks.
func (s *Store) Len() int {
	return len(s.tasks)
}

// Reset drops every in-memory task. The backing file is left untouched.
func (s *Store) Reset() {
	s.tasks = nil
}

// Save rewrites the backing file from scratch. Failures are logged only.
func (s *Store) Save() {
	var b strings.Builder
	for _, t := range s.tasks {
		b.WriteString(EncodeLine(t))
		b.WriteByte('\n')
	}
	if err := storage.WriteFile(s.path, b.String()); err != nil {
		logger.Warn("tasks not saved", "err", err)
	}
}

// Load replaces the in-memory tasks with the content of the backing file.
// The stored index field is ignored: tasks are numbered by read order, so
// parent references always resolve against file positions and hand-edited
// or corrupt indexes are harmless. A missing file yields an empty store.
func (s *Store) Load() []model.Task {
	s.tasks = nil

	f, err := os.Open(s.path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			logger.Warn("cannot read tasks", "path", s.path, "err", err)
		}
		return s.Tasks()
	}
	defer f.Close()

	r := bufio.NewReader(f)
	for {
		line, err := r.ReadString('\n')
		line = strings.TrimRight(line, "\r\n")
		if line != "" {
			t, idOK := ParseLine(line)
			if !idOK || t.ID != len(s.tasks) {
				logger.Debug("task renumbered", "name", t.Name, "id", len(s.tasks))
			}
			t.ID = len(s.tasks)
			s.tasks = append(s.tasks, t)
		}
		if err != nil {
			if !errors.Is(err, io.EOF) {
				logger.Warn("task file read stopped early", "path", s.path, "err", err)
			}
			break
		}
	}
	return s.Tasks()
}

// Walk visits the forest depth-first in pre-order. Roots are tasks without a
// parent or whose parent is not in the store; children follow in store
// order. A task is visited at most once, so hand-edited cycles terminate.
func (s *Store) Walk(fn func(t model.Task, depth int)) {
	visited := make(map[int]bool, len(s.tasks))
	var visit func(i, depth int)
	visit = func(i, depth int) {
		t := s.tasks[i]
		if visited[t.ID] {
			return
		}
		visited[t.ID] = true
		fn(cloneTask(t), depth)
		for j, child := range s.tasks {
			if child.Parent != nil && *child.Parent == t.ID {
				visit(j, depth+1)
			}
		}
	}
	for i, t := range s.tasks {
		if t.Parent == nil || s.index(*t.Parent) < 0 {
			visit(i, 0)
		}
	}
	// Tasks only reachable through a cycle are shown as roots.
	for i := range s.tasks {
		visit(i, 0)
	}
}

// EncodeLine renders t in the task line format, without the trailing newline.
func EncodeLine(t model.Task) string {
	mark := " "
	if t.Done {
		mark = "x"
	}
	line := fmt.Sprintf("%d: [%s] %s", t.ID, mark, t.Name)
	if t.Parent != nil {
		line += fmt.Sprintf(" (parent=%d)", *t.Parent)
	}
	return line
}

// ParseLine decodes one task line. The boolean reports whether the ID field
// held a usable non-negative integer; malformed markers and parent suffixes
// degrade to "not done" and "no parent".
func ParseLine(line string) (model.Task, bool) {
	var t model.Task
	idOK := false

	rest := line
	if colon := strings.IndexByte(line, ':'); colon >= 0 {
		if id, err := strconv.Atoi(strings.TrimSpace(line[:colon])); err == nil && id >= 0 {
			t.ID = id
			idOK = true
		}
		rest = line[colon+1:]
	}
	rest = strings.TrimLeft(rest, " \t")

	if len(rest) >= 3 && rest[0] == '[' && rest[2] == ']' {
		t.Done = rest[1] == 'x' || rest[1] == 'X'
		rest = strings.TrimLeft(rest[3:], " \t")
	}

	if p := strings.LastIndex(rest, parentPrefix); p >= 0 {
		if end := strings.IndexByte(rest[p:], ')'); end >= 0 {
			num := rest[p+len(parentPrefix) : p+end]
			if id, err := strconv.Atoi(strings.TrimSpace(num)); err == nil {
				t.Parent = &id
			}
			rest = strings.TrimRight(rest[:p], " \t")
		}
	}

	t.Name = rest
	return t, idOK
}

func (s *Store) index(id int) int {
	for i, t := range s.tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) nextID() int {
	next := 0
	for _, t := range s.tasks {
		if t.ID >= next {
			next = t.ID + 1
		}
	}
	return next
}

func copyID(id *int) *int {
	if id == nil {
		return nil
	}
	v := *id
	return &v
}

func cloneTask(t model.Task) model.Task {
	t.Parent = copyID(t.Parent)
	return t
}
