package config

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
)

// Watcher reloads a configuration file when it changes on disk and hands the
// new Config to a callback. A burst of writes yields one reload after the
// last write settles. Invalid intermediate writes are logged and skipped.
type Watcher struct {
	watcher  *fsnotify.Watcher
	path     string
	debounce time.Duration
	mu       sync.Mutex
	pending  *time.Timer
	closed   bool
	logger   *logrus.Entry
	onReload func(*Config)
}

// NewWatcher watches the directory containing path. Editors commonly replace
// files on save, so the directory is watched rather than the file itself.
func NewWatcher(path string, debounce time.Duration, onReload func(*Config)) (*Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		watcher.Close()
		return nil, err
	}

	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		watcher.Close()
		return nil, err
	}

	if debounce <= 0 {
		debounce = 100 * time.Millisecond
	}

	return &Watcher{
		watcher:  watcher,
		path:     abs,
		debounce: debounce,
		logger:   logrus.NewEntry(logrus.StandardLogger()).WithField("component", "config-watcher"),
		onReload: onReload,
	}, nil
}

// WithLogger replaces the watcher's logger. Callers normally pass the
// "config-watcher" component logger; the package cannot build it itself
// because logging depends on config.
func (w *Watcher) WithLogger(logger *logrus.Entry) *Watcher {
	w.logger = logger
	return w
}

// Start blocks until ctx is cancelled or the watcher is closed.
func (w *Watcher) Start(ctx context.Context) {
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				w.handleChange()
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Errorf("Watcher error: %v", err)
		case <-ctx.Done():
			w.Close()
			return
		}
	}
}

// handleChange (re)arms the trailing reload so the last write of a burst is
// always picked up.
func (w *Watcher) handleChange() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return
	}
	if w.pending != nil {
		w.logger.Debugf("Debounced: %s", filepath.Base(w.path))
		w.pending.Reset(w.debounce)
		return
	}
	w.pending = time.AfterFunc(w.debounce, w.reload)
}

func (w *Watcher) reload() {
	w.mu.Lock()
	w.pending = nil
	closed := w.closed
	w.mu.Unlock()
	if closed {
		return
	}

	cfg, err := Load(w.path)
	if err != nil {
		w.logger.WithError(err).Warn("Ignoring invalid configuration change")
		return
	}

	w.logger.Infof("Config changed: %s", filepath.Base(w.path))
	if w.onReload != nil {
		w.onReload(cfg)
	}
}

// Close stops the watcher, cancels any pending reload and releases resources.
func (w *Watcher) Close() error {
	w.mu.Lock()
	w.closed = true
	if w.pending != nil {
		w.pending.Stop()
		w.pending = nil
	}
	w.mu.Unlock()
	return w.watcher.Close()
}
