// Package watch reports changes to Kestrel source files. It watches the
// parent directories through fsnotify, so editors that save by rename are
// still seen, and coalesces bursts of events per file.
package watch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Op describes what happened to a file
type Op uint32

const (
	OpCreate Op = 1 << iota
	OpWrite
	OpRemove
	OpRename
	OpChmod
)

func (op Op) String() string {
	var parts []string
	for _, n := range []struct {
		op   Op
		name string
	}{
		{OpCreate, "CREATE"},
		{OpWrite, "WRITE"},
		{OpRemove, "REMOVE"},
		{OpRename, "RENAME"},
		{OpChmod, "CHMOD"},
	} {
		if op&n.op != 0 {
			parts = append(parts, n.name)
		}
	}
	if len(parts) == 0 {
		return "NONE"
	}
	return strings.Join(parts, "|")
}

// Event is one coalesced change to Path
type Event struct {
	Path string
	Op   Op
}

// Watcher delivers debounced file events
type Watcher struct {
	w        *fsnotify.Watcher
	evC      chan Event
	erC      chan error
	debounce time.Duration

	mu      sync.RWMutex
	files   map[string]bool
	dirs    map[string]bool
	watched map[string]bool
}

// New starts a watcher. Events for a file are held until it has been quiet
// for debounce; zero delivers every event immediately. The watcher stops
// when ctx is done or Close is called, and then closes Events.
func New(ctx context.Context, debounce time.Duration) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	fw := &Watcher{
		w:        w,
		evC:      make(chan Event, 128),
		erC:      make(chan error, 1),
		debounce: debounce,
		files:    make(map[string]bool),
		dirs:     make(map[string]bool),
		watched:  make(map[string]bool),
	}
	go fw.loop(ctx)
	return fw, nil
}

// Add watches a file, or every file directly inside a directory
func (fw *Watcher) Add(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	info, err := os.Stat(abs)
	if err != nil {
		return err
	}

	dir := abs
	if !info.IsDir() {
		dir = filepath.Dir(abs)
	}

	fw.mu.Lock()
	if info.IsDir() {
		fw.dirs[abs] = true
	} else {
		fw.files[abs] = true
	}
	needAdd := !fw.watched[dir]
	fw.watched[dir] = true
	fw.mu.Unlock()

	if needAdd {
		if err := fw.w.Add(dir); err != nil {
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}
	}
	return nil
}

func (fw *Watcher) Events() <-chan Event { return fw.evC }
func (fw *Watcher) Errors() <-chan error { return fw.erC }
func (fw *Watcher) Close() error         { return fw.w.Close() }

func (fw *Watcher) matches(path string) bool {
	fw.mu.RLock()
	defer fw.mu.RUnlock()
	return fw.files[path] || fw.dirs[filepath.Dir(path)]
}

func (fw *Watcher) loop(ctx context.Context) {
	defer close(fw.evC)

	pending := make(map[string]Op)
	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	flush := func() bool {
		paths := make([]string, 0, len(pending))
		for p := range pending {
			paths = append(paths, p)
		}
		sort.Strings(paths)
		for _, p := range paths {
			select {
			case fw.evC <- Event{Path: p, Op: pending[p]}:
			case <-ctx.Done():
				return false
			}
			delete(pending, p)
		}
		return true
	}

	for {
		select {
		case <-ctx.Done():
			_ = fw.w.Close()
			return
		case ev, ok := <-fw.w.Events:
			if !ok {
				return
			}
			path := filepath.Clean(ev.Name)
			if !fw.matches(path) {
				continue
			}
			pending[path] |= convert(ev.Op)
			if fw.debounce <= 0 {
				if !flush() {
					return
				}
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.NewTimer(fw.debounce)
			fire = timer.C
		case <-fire:
			fire = nil
			if !flush() {
				return
			}
		case err, ok := <-fw.w.Errors:
			if !ok {
				return
			}
			select {
			case fw.erC <- err:
			default:
			}
		}
	}
}

func convert(op fsnotify.Op) Op {
	var out Op
	if op&fsnotify.Create != 0 {
		out |= OpCreate
	}
	if op&fsnotify.Write != 0 {
		out |= OpWrite
	}
	if op&fsnotify.Remove != 0 {
		out |= OpRemove
	}
	if op&fsnotify.Rename != 0 {
		out |= OpRename
	}
	if op&fsnotify.Chmod != 0 {
		out |= OpChmod
	}
	return out
}
