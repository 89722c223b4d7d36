package main

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// debounce groups the events of editors that write a file in several steps.
var debounce = 100 * time.Millisecond

// watch calls run after any of paths changes, until ctx is done. Failed
// runs are logged and watching continues.
func watch(ctx context.Context, log *zap.Logger, paths []string, run func() error) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	files := make(map[string]bool, len(paths))
	dirs := make(map[string]bool)
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return err
		}
		files[abs] = true
		dirs[filepath.Dir(abs)] = true
	}
	// Directories are watched since editors often replace files by renaming.
	for dir := range dirs {
		if err := w.Add(dir); err != nil {
			return err
		}
	}
	log.Info("watching", zap.Int("files", len(files)))

	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !files[filepath.Clean(ev.Name)] || ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			log.Debug("input changed", zap.String("file", ev.Name), zap.Stringer("op", ev.Op))
			fire = time.After(debounce)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.Warn("watch error", zap.Error(err))
		case <-fire:
			fire = nil
			if err := run(); err != nil {
				log.Error("generation failed", zap.Error(err))
			}
		}
	}
}
