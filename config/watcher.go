package config

import (
	"context"
	"time"

	"github.com/bep/debounce"
	"github.com/edaniels/golog"
	"github.com/fsnotify/fsnotify"
	"go.uber.org/multierr"
	"go.viam.com/utils"
)

// rapid successive writes, as editors tend to produce, collapse into one reload
const watchDebounce = 500 * time.Millisecond

// Watch emits a freshly read config every time the file at path is written.
// Reads that fail are logged and skipped; the previous config stays in effect.
// The channel is never closed; consumers stop receiving when ctx ends.
func Watch(ctx context.Context, path string, logger golog.Logger) (<-chan *Config, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := watcher.Add(path); err != nil {
		return nil, multierr.Combine(err, watcher.Close())
	}

	out := make(chan *Config)
	debounced := debounce.New(watchDebounce)
	utils.ManagedGo(func() {
		defer utils.UncheckedErrorFunc(watcher.Close)
		for {
			if ctx.Err() != nil {
				return
			}
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if event.Op&fsnotify.Write != fsnotify.Write {
					continue
				}
				debounced(func() {
					cfg, err := Read(path)
					if err != nil {
						logger.Errorw("failed to reload config", "path", path, "error", err)
						return
					}
					if err := cfg.Validate("robot"); err != nil {
						logger.Errorw("rejecting invalid config", "path", path, "error", err)
						return
					}
					select {
					case out <- cfg:
					case <-ctx.Done():
					}
				})
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Errorw("config watcher error", "path", path, "error", err)
			}
		}
	}, nil)
	return out, nil
}
