// Package watch reports data files changed on disk by something other than
// the editor.
package watch

import (
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Debounce is the window in which repeated events for one file collapse
// into a single report.
const Debounce = 100 * time.Millisecond

type Kind int

const (
	KindData Kind = iota
	KindMigration
)

type Event struct {
	Path    string
	Kind    Kind
	Removed bool
}

type Watcher struct {
	watcher *fsnotify.Watcher
	Events  chan Event
	Errors  chan error
	closeCh chan struct{}
	once    sync.Once

	mu    sync.Mutex
	muted map[string]time.Time
}

func NewWatcher(dirs ...string) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	for _, dir := range dirs {
		if err := w.Add(dir); err != nil {
			_ = w.Close()
			return nil, err
		}
	}

	watcher := &Watcher{
		watcher: w,
		Events:  make(chan Event, 16),
		Errors:  make(chan error, 1),
		closeCh: make(chan struct{}),
		muted:   make(map[string]time.Time),
	}
	go watcher.run()
	return watcher, nil
}

// Mute drops events for path until d has passed. The editor mutes files it
// is about to save so its own writes are not reported back.
func (w *Watcher) Mute(path string, d time.Duration) {
	w.mu.Lock()
	w.muted[filepath.Clean(path)] = time.Now().Add(d)
	w.mu.Unlock()
}

func (w *Watcher) isMuted(path string, now time.Time) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	until, ok := w.muted[path]
	if !ok {
		return false
	}
	if now.After(until) {
		delete(w.muted, path)
		return false
	}
	return true
}

func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.closeCh)
		err = w.watcher.Close()
	})
	return err
}

// Poll returns the next pending event without blocking.
func (w *Watcher) Poll() (Event, bool) {
	select {
	case ev := <-w.Events:
		return ev, true
	default:
		return Event{}, false
	}
}

func (w *Watcher) run() {
	last := make(map[string]time.Time)
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			kind, ok := classify(event.Name)
			if !ok {
				continue
			}
			name := filepath.Clean(event.Name)
			now := time.Now()
			if w.isMuted(name, now) {
				continue
			}
			if t, ok := last[name]; ok && now.Sub(t) < Debounce {
				continue
			}
			last[name] = now
			ev := Event{
				Path:    name,
				Kind:    kind,
				Removed: event.Op&(fsnotify.Remove|fsnotify.Rename) != 0,
			}
			select {
			case w.Events <- ev:
			case <-w.closeCh:
				return
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			select {
			case w.Errors <- err:
			default:
			}
		case <-w.closeCh:
			return
		}
	}
}

func classify(path string) (Kind, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return KindData, true
	case ".yaml", ".yml", ".tengo":
		return KindMigration, true
	default:
		return 0, false
	}
}
