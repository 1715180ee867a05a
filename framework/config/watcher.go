package config

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

const debounceDelay = 200 * time.Millisecond

// Watcher reloads a Repository in place whenever one of the files it was
// loaded from changes. Objects holding the repository (injected through a
// whole-configuration binding) see new values on their next Get.
type Watcher struct {
	repo   *Repository
	opts   Options
	logger *zap.Logger

	mu        sync.Mutex
	callbacks []func(*Repository)
}

// NewWatcher prepares a watcher for repo, which must have been produced by
// Load(opts).
func NewWatcher(repo *Repository, opts Options, logger *zap.Logger) *Watcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Watcher{repo: repo, opts: opts, logger: logger}
}

// OnChange registers a callback fired after every successful reload.
func (w *Watcher) OnChange(cb func(*Repository)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.callbacks = append(w.callbacks, cb)
}

// Start begins watching until ctx is done. Directories are watched rather
// than files so editors that replace files on save are still seen.
func (w *Watcher) Start(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("config: create watcher: %w", err)
	}

	watched := make(map[string]bool)
	dirs := make(map[string]bool)
	for _, f := range append(append([]string{}, w.opts.Files...), w.opts.EnvFiles...) {
		abs, err := filepath.Abs(f)
		if err != nil {
			continue
		}
		watched[abs] = true
		dirs[filepath.Dir(abs)] = true
	}
	for dir := range dirs {
		if err := fw.Add(dir); err != nil {
			w.logger.Warn("Failed to watch config directory", zap.String("dir", dir), zap.Error(err))
		}
	}

	go w.loop(ctx, fw, watched)
	return nil
}

func (w *Watcher) loop(ctx context.Context, fw *fsnotify.Watcher, watched map[string]bool) {
	defer fw.Close()

	var debounce *time.Timer
	defer func() {
		if debounce != nil {
			debounce.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-fw.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if abs, _ := filepath.Abs(ev.Name); !watched[abs] {
				continue
			}
			w.logger.Debug("Configuration file changed", zap.String("file", ev.Name), zap.String("op", ev.Op.String()))
			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(debounceDelay, w.reload)
		case err, ok := <-fw.Errors:
			if !ok {
				return
			}
			w.logger.Error("Config watcher error", zap.Error(err))
		}
	}
}

func (w *Watcher) reload() {
	fresh, err := Load(w.opts)
	if err != nil {
		w.logger.Error("Failed to reload configuration", zap.Error(err))
		return
	}
	w.repo.replace(fresh)

	w.mu.Lock()
	cbs := append([]func(*Repository){}, w.callbacks...)
	w.mu.Unlock()
	for _, cb := range cbs {
		cb(w.repo)
	}
	w.logger.Info("Configuration reloaded", zap.Int("callbacks", len(cbs)))
}
