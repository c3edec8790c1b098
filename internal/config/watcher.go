// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for innerlog.
package config

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// =============================================================================
// SETTINGS WATCHER
// =============================================================================

// Watcher emits a fresh Settings snapshot whenever the configuration file
// changes on disk. Events are debounced because editors typically fire
// several write events per save.
type Watcher struct {
	path     string
	debounce time.Duration
	watcher  *fsnotify.Watcher
	changes  chan Settings
	ctx      context.Context
	cancel   context.CancelFunc
}

// DefaultDebounce is how long the watcher waits after the last write event
// before reloading.
const DefaultDebounce = 250 * time.Millisecond

// NewWatcher creates a watcher for the given configuration file path.
// The parent directory is watched rather than the file itself: editors and
// our own Save replace the file via rename, which would drop a file-level
// watch.
func NewWatcher(path string, debounce time.Duration) (*Watcher, error) {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fw.Add(filepath.Dir(path)); err != nil {
		fw.Close()
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	w := &Watcher{
		path:     path,
		debounce: debounce,
		watcher:  fw,
		changes:  make(chan Settings, 1),
		ctx:      ctx,
		cancel:   cancel,
	}
	go w.run()
	return w, nil
}

// Changes returns the channel of reloaded settings snapshots.
func (w *Watcher) Changes() <-chan Settings {
	return w.changes
}

// Close stops watching and releases resources.
func (w *Watcher) Close() error {
	w.cancel()
	return w.watcher.Close()
}

// run consumes fsnotify events until the watcher is closed.
func (w *Watcher) run() {
	var timer *time.Timer
	var timerC <-chan time.Time

	for {
		select {
		case <-w.ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != filepath.Clean(w.path) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			timerC = timer.C

		case <-timerC:
			timerC = nil
			w.reload()

		case _, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			// Watch errors are not fatal; the next event may still arrive.
		}
	}
}

// reload re-reads the file and publishes the snapshot, dropping the oldest
// pending snapshot if the consumer is behind.
func (w *Watcher) reload() {
	cfg, err := LoadFromPath(w.path)
	if err != nil {
		return
	}
	snap := cfg.Snapshot()

	select {
	case w.changes <- snap:
	default:
		select {
		case <-w.changes:
		default:
		}
		w.changes <- snap
	}
}
