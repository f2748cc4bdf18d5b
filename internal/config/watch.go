package config

import (
	"log/slog"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watcher reloads a Config from disk whenever its backing file changes.
// File-watching and live-reload are explicitly orthogonal to the engine
// (spec.md §6): a failed reload is logged and the previously-loaded
// Config keeps serving until a valid one replaces it.
type Watcher struct {
	path    string
	watcher *fsnotify.Watcher
	current *Config
	onLoad  func(*Config)
}

// WatchFile starts watching path for changes, invoking onLoad with the
// freshly parsed Config after every successful reload. The first, initial
// load is performed synchronously before WatchFile returns.
func WatchFile(path string, onLoad func(*Config)) (*Watcher, error) {
	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fw.Add(filepath.Dir(path)); err != nil {
		fw.Close()
		return nil, err
	}

	w := &Watcher{path: path, watcher: fw, current: cfg, onLoad: onLoad}
	onLoad(cfg)

	go w.run()
	return w, nil
}

func (w *Watcher) run() {
	for {
		select {
		case evt, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(evt.Name) != filepath.Clean(w.path) {
				continue
			}
			if evt.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			w.reload()
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			slog.Warn("config watcher error", "error", err)
		}
	}
}

func (w *Watcher) reload() {
	cfg, err := Load(w.path)
	if err != nil {
		slog.Warn("config reload failed, keeping previous config", "path", w.path, "error", err)
		return
	}
	w.current = cfg
	w.onLoad(cfg)
	slog.Info("config reloaded", "path", w.path)
}

// Current returns the most recently loaded Config.
func (w *Watcher) Current() *Config { return w.current }

// Close stops watching the file.
func (w *Watcher) Close() error { return w.watcher.Close() }
