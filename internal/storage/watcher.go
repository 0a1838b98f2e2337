// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/jeranaias/chatwithdata-tui/internal/logging"
)

// DefaultWatchDebounce coalesces the write+rename bursts of an atomic save.
const DefaultWatchDebounce = 150 * time.Millisecond

// Watcher reports changes to a credential file made by any process.
//
// The parent directory is watched rather than the file itself, because
// atomic writes replace the file and a file-level watch would be lost.
type Watcher struct {
	path     string
	watcher  *fsnotify.Watcher
	debounce time.Duration
	logger   *zap.Logger

	mu      sync.Mutex
	pending bool
	last    time.Time

	changes chan struct{}
	ctx     context.Context
	cancel  context.CancelFunc
}

// NewWatcher creates a watcher for the credential file at path. The parent
// directory is created if needed so that a first login is observed.
func NewWatcher(path string, debounce time.Duration, logger *zap.Logger) (*Watcher, error) {
	logger = logging.OrNop(logger)
	if debounce <= 0 {
		debounce = DefaultWatchDebounce
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		fw.Close()
		return nil, err
	}
	if err := fw.Add(dir); err != nil {
		fw.Close()
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	w := &Watcher{
		path:     filepath.Clean(path),
		watcher:  fw,
		debounce: debounce,
		logger:   logger,
		changes:  make(chan struct{}, 1),
		ctx:      ctx,
		cancel:   cancel,
	}

	go w.processEvents()
	go w.processPending()

	return w, nil
}

// Wait blocks until the next change or until ctx is done. It returns false
// when no change was observed.
func (w *Watcher) Wait(ctx context.Context) bool {
	select {
	case <-ctx.Done():
		return false
	case <-w.ctx.Done():
		return false
	case _, ok := <-w.changes:
		return ok
	}
}

func (w *Watcher) processEvents() {
	for {
		select {
		case <-w.ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			w.mu.Lock()
			w.pending = true
			w.last = time.Now()
			w.mu.Unlock()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("credential watch error", zap.Error(err))
		}
	}
}

func (w *Watcher) processPending() {
	// Sub-3ns debounces would otherwise yield a zero tick and panic.
	ticker := time.NewTicker(max(w.debounce/3, time.Millisecond))
	defer ticker.Stop()

	for {
		select {
		case <-w.ctx.Done():
			return

		case <-ticker.C:
			w.mu.Lock()
			fire := w.pending && time.Since(w.last) >= w.debounce
			if fire {
				w.pending = false
			}
			w.mu.Unlock()

			if fire {
				w.logger.Debug("credential file changed", zap.String("path", w.path))
				select {
				case w.changes <- struct{}{}:
				default:
				}
			}
		}
	}
}

// Close stops watching and releases resources.
func (w *Watcher) Close() error {
	w.cancel()
	return w.watcher.Close()
}
