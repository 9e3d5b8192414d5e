package tld

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// ErrWatcherFailed indicates the filesystem watcher failed to initialize.
var ErrWatcherFailed = errors.New("failed to initialize filesystem watcher")

// DefaultDebounce is how long the watcher waits for a burst of events on the
// list file to settle before reloading.
const DefaultDebounce = 200 * time.Millisecond

// Watcher reloads a Cache whenever its backing file changes.
//
// The parent directory is watched rather than the file itself so that
// editors and tools that replace the file atomically are still observed.
// Bursts of events are coalesced into one reload, and reloads go through the
// cache's refresh limit.
type Watcher struct {
	cache    *Cache
	path     string
	watcher  *fsnotify.Watcher
	logger   *zap.Logger
	debounce time.Duration
	reloads  chan struct{}
}

// NewWatcher creates a Watcher for path. The cache should have been built
// with FileLoader(path).
func NewWatcher(cache *Cache, path string, logger *zap.Logger) (*Watcher, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", path, err)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrWatcherFailed, err)
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		_ = fw.Close()
		return nil, fmt.Errorf("watching %s: %w", filepath.Dir(abs), err)
	}

	return &Watcher{
		cache:    cache,
		path:     abs,
		watcher:  fw,
		logger:   logger,
		debounce: DefaultDebounce,
		reloads:  make(chan struct{}, 1),
	}, nil
}

// SetDebounce changes the settle delay. Call it before Run.
func (w *Watcher) SetDebounce(d time.Duration) {
	if d > 0 {
		w.debounce = d
	}
}

// Reloads signals after each successful reload. Signals are dropped when
// nobody is receiving.
func (w *Watcher) Reloads() <-chan struct{} {
	return w.reloads
}

// Run processes filesystem events until ctx is done, then closes the
// underlying watcher.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.watcher.Close()

	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			timer.Reset(w.debounce)

		case <-timer.C:
			if err := w.cache.Reload(ctx); err != nil {
				if ctxErr := ctx.Err(); ctxErr != nil {
					return ctxErr
				}
				w.logger.Warn("tld reload failed",
					zap.String("path", w.path),
					zap.Error(err))
				continue
			}
			select {
			case w.reloads <- struct{}{}:
			default:
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("tld watcher error", zap.Error(err))
		}
	}
}
