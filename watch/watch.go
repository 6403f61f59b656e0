// Package watch re-runs the export whenever the watched source trees change.
package watch

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/teranos/tsexport/errors"
	"github.com/teranos/tsexport/logger"
)

// DefaultDebounce is the quiet period used when none is configured.
const DefaultDebounce = 500 * time.Millisecond

// Trigger is called once per burst of changes.
type Trigger func(ctx context.Context)

// Watcher watches directory trees and coalesces bursts of events.
type Watcher struct {
	watcher  *fsnotify.Watcher
	debounce time.Duration
	ignore   []string
	log      *zap.SugaredLogger
}

// New watches every directory under paths. Events under any ignore path
// (typically the output directory) never trigger a run.
func New(paths []string, debounce time.Duration, ignore ...string) (*Watcher, error) {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "failed to create fsnotify watcher")
	}

	w := &Watcher{
		watcher:  fw,
		debounce: debounce,
		log:      logger.Named("watch"),
	}
	for _, p := range ignore {
		if abs, err := filepath.Abs(p); err == nil {
			w.ignore = append(w.ignore, abs)
		}
	}

	for _, p := range paths {
		if err := w.addTree(p); err != nil {
			fw.Close()
			return nil, err
		}
	}
	return w, nil
}

// addTree watches root and every directory below it.
func (w *Watcher) addTree(root string) error {
	return filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return errors.Wrapf(err, "failed to watch %s", p)
		}
		if !d.IsDir() {
			return nil
		}
		if w.ignored(p) {
			return filepath.SkipDir
		}
		if err := w.watcher.Add(p); err != nil {
			return errors.Wrapf(err, "failed to watch %s", p)
		}
		w.log.Debugw("Watching directory", logger.FieldPath, p)
		return nil
	})
}

func (w *Watcher) ignored(p string) bool {
	abs, err := filepath.Abs(p)
	if err != nil {
		return false
	}
	for _, dir := range w.ignore {
		if abs == dir || strings.HasPrefix(abs, dir+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

// Run blocks until ctx is cancelled, calling trigger after each burst of
// changes has been quiet for the debounce period. The watcher is closed
// when Run returns.
func (w *Watcher) Run(ctx context.Context, trigger Trigger) error {
	defer w.watcher.Close()

	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if !w.relevant(event) {
				continue
			}

			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := w.addTree(event.Name); err != nil {
						w.log.Warnw("Failed to watch new directory",
							logger.FieldPath, event.Name, logger.FieldError, err)
					}
				}
			}

			w.log.Debugw("Detected change", logger.FieldPath, event.Name, "op", event.Op.String())
			timer.Reset(w.debounce)

		case <-timer.C:
			trigger(ctx)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.log.Warnw("Watcher error", logger.FieldError, err)
		}
	}
}

// relevant filters out chmod-only events, editor swap files and ignored trees.
func (w *Watcher) relevant(event fsnotify.Event) bool {
	if event.Op == fsnotify.Chmod {
		return false
	}
	base := filepath.Base(event.Name)
	if strings.HasSuffix(base, "~") || strings.HasSuffix(base, ".swp") || strings.HasPrefix(base, ".#") {
		return false
	}
	return !w.ignored(event.Name)
}
