// Package watch reports backup files written to a directory.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watcher watches a directory for files whose name matches a pattern.
type Watcher struct {
	dir     string
	pattern string

	log *slog.Logger
}

type options struct {
	logger *slog.Logger
}

// Options represents an optional function to override Watcher default values.
type Options func(*options)

// WithLogger sets the logger of the watcher.
func WithLogger(l *slog.Logger) Options {
	return func(o *options) {
		o.logger = l
	}
}

// New returns a Watcher of dir for file names matching pattern, a filepath.Match pattern.
func New(dir, pattern string, args ...Options) (*Watcher, error) {
	if _, err := filepath.Match(pattern, ""); err != nil {
		return nil, fmt.Errorf("invalid file pattern %q: %v", pattern, err)
	}

	opts := options{
		logger: slog.Default(),
	}
	for _, opt := range args {
		opt(&opts)
	}

	if dir == "" {
		dir = "."
	}

	return &Watcher{
		dir:     dir,
		pattern: pattern,
		log:     opts.logger,
	}, nil
}

// Watch starts watching the directory.
//
// It returns two channels: one receiving the path of every matching file created or
// written to, and another for unrecoverable watcher errors. Both are closed once ctx
// is done or the watcher fails.
func (w *Watcher) Watch(ctx context.Context) (files <-chan string, errors <-chan error, err error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create watcher: %v", err)
	}

	if err := watcher.Add(w.dir); err != nil {
		watcher.Close()
		return nil, nil, fmt.Errorf("failed to add directory %s to watcher: %v", w.dir, err)
	}

	w.log.Info("Watching directory", "dir", w.dir, "pattern", w.pattern)
	filesCh := make(chan string, 1)
	errorsCh := make(chan error, 1)

	go func() {
		defer close(filesCh)
		defer close(errorsCh)
		defer watcher.Close()

		for {
			select {
			case <-ctx.Done():
				w.log.Info("Directory watcher stopped")
				return
			case event, ok := <-watcher.Events:
				if !ok {
					errorsCh <- fmt.Errorf("watcher events channel closed unexpectedly")
					return
				}
				if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}
				if ok, _ := filepath.Match(w.pattern, filepath.Base(event.Name)); !ok {
					continue
				}

				w.log.Debug("Backup file changed", "file", event.Name, "op", event.Op)
				select {
				case filesCh <- event.Name:
				case <-ctx.Done():
					w.log.Info("Directory watcher stopped")
					return
				}

			case err, ok := <-watcher.Errors:
				if !ok {
					errorsCh <- fmt.Errorf("watcher errors channel closed unexpectedly")
					return
				}
				w.log.Warn("Watcher error", "err", err)
			}
		}
	}()

	return filesCh, errorsCh, nil
}
