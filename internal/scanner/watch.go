package scanner

import (
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

const defaultDebounce = 500 * time.Millisecond

// Watcher reports new image files appearing under watched directories.
// Write bursts for the same path are debounced so a file being copied in
// yields one notification once it settles.
type Watcher struct {
	fsw      *fsnotify.Watcher
	log      zerolog.Logger
	debounce time.Duration

	mu     sync.Mutex
	timers map[string]*time.Timer
	closed bool
	// senders tracks fired debounce timers; they are the only writers to
	// paths, so Close may close the channel once they drain.
	senders sync.WaitGroup

	paths chan string
	done  chan struct{}
}

// NewWatcher starts a filesystem watcher. debounce <= 0 uses the default.
func NewWatcher(log zerolog.Logger, debounce time.Duration) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if debounce <= 0 {
		debounce = defaultDebounce
	}
	w := &Watcher{
		fsw:      fsw,
		log:      log,
		debounce: debounce,
		timers:   make(map[string]*time.Timer),
		paths:    make(chan string, 64),
		done:     make(chan struct{}),
	}
	go w.run()
	return w, nil
}

// Paths yields settled image file paths. The channel closes on Close.
func (w *Watcher) Paths() <-chan string { return w.paths }

// Add watches dir and all its current subdirectories.
func (w *Watcher) Add(dir string) error {
	return filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil || !d.IsDir() {
			return nil
		}
		if err := w.fsw.Add(path); err != nil {
			w.log.Warn().Err(err).Str("dir", path).Msg("watch add failed")
		}
		return nil
	})
}

// Remove stops watching dir. Subdirectory watches expire on their own when
// the kernel drops them with the directory.
func (w *Watcher) Remove(dir string) {
	if err := w.fsw.Remove(dir); err != nil {
		w.log.Debug().Err(err).Str("dir", dir).Msg("watch remove")
	}
}

// Close stops the watcher and closes the Paths channel.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	for _, t := range w.timers {
		t.Stop()
	}
	w.timers = nil
	w.mu.Unlock()
	close(w.done)
	// Timers that fired before closed was set may still be sending; wait
	// them out before closing their target channel.
	w.senders.Wait()
	close(w.paths)
	return w.fsw.Close()
}

func (w *Watcher) run() {
	for {
		select {
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handle(ev)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.log.Warn().Err(err).Msg("watcher error")
		case <-w.done:
			return
		}
	}
}

func (w *Watcher) handle(ev fsnotify.Event) {
	if !ev.Op.Has(fsnotify.Create) && !ev.Op.Has(fsnotify.Write) {
		return
	}
	// New subdirectories must be added to the watch set to keep the
	// recursive guarantee.
	if ev.Op.Has(fsnotify.Create) {
		if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
			_ = w.Add(ev.Name)
			return
		}
	}
	if !IsImagePath(ev.Name) {
		return
	}
	w.schedule(ev.Name)
}

func (w *Watcher) schedule(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	if t, ok := w.timers[path]; ok {
		t.Reset(w.debounce)
		return
	}
	w.timers[path] = time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		if w.closed {
			w.mu.Unlock()
			return
		}
		delete(w.timers, path)
		w.senders.Add(1)
		w.mu.Unlock()
		defer w.senders.Done()
		select {
		case w.paths <- path:
		case <-w.done:
		}
	})
}
