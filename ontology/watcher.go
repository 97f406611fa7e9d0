package ontology

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// reloadDebounce batches the burst of write events an ETL run produces
// into a single reload.
const reloadDebounce = 500 * time.Millisecond

// Watcher re-loads the ontology when files in the data directory change.
// The dataset is static between ETL runs, so this only fires when the
// ETL rewrites the Turtle files.
type Watcher struct {
	dir      string
	provider *Provider
	logger   *slog.Logger
	fsw      *fsnotify.Watcher
}

// NewWatcher creates a watcher over the provider's ontology directory.
func NewWatcher(dir string, provider *Provider, logger *slog.Logger) (*Watcher, error) {
	if logger == nil {
		logger = slog.Default()
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fs watcher: %w", err)
	}
	// Loading is recursive, so watch every subdirectory as well.
	walkErr := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return fsw.Add(path)
		}
		return nil
	})
	if walkErr != nil {
		fsw.Close()
		return nil, fmt.Errorf("watch %s: %w", dir, walkErr)
	}
	return &Watcher{dir: dir, provider: provider, logger: logger, fsw: fsw}, nil
}

// Run processes filesystem events until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.fsw.Close()

	var timer *time.Timer
	var pending <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if !relevantEvent(ev) {
				continue
			}
			w.logger.Debug("ontology file changed",
				slog.String("file", ev.Name),
				slog.String("op", ev.Op.String()))
			if timer == nil {
				timer = time.NewTimer(reloadDebounce)
			} else {
				timer.Reset(reloadDebounce)
			}
			pending = timer.C
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("fs watcher error", slog.String("error", err.Error()))
		case <-pending:
			pending = nil
			// Reload failures keep the previous store; nothing else to do.
			_ = w.provider.Reload()
		}
	}
}

func relevantEvent(ev fsnotify.Event) bool {
	if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
		return false
	}
	return strings.EqualFold(filepath.Ext(ev.Name), ".ttl")
}
