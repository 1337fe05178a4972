package server

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// watchFiles reloads the catalog whenever one of its files changes.
//
// Directories are watched rather than files so that editors which replace
// a file by rename are still seen.
func (s *Server) watchFiles(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer func() { _ = watcher.Close() }()

	files := s.watchedFiles()
	dirs := make(map[string]struct{})
	for file := range files {
		dirs[filepath.Dir(file)] = struct{}{}
	}
	for dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			s.logger.Error("failed to watch catalog directory", "dir", dir, "error", err)
			// Don't fail - continue without watching this directory
		}
	}
	s.logger.Debug("watching catalog files", "files", len(files))

	var debounceTimer *time.Timer
	defer func() {
		if debounceTimer != nil {
			debounceTimer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if _, tracked := files[filepath.Clean(event.Name)]; !tracked {
				continue
			}

			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			name := event.Name
			debounceTimer = time.AfterFunc(s.debounce, func() {
				if ctx.Err() != nil {
					return
				}
				s.logger.Debug("catalog file changed, reloading", "file", name)
				if _, err := s.Reload(ctx); err != nil {
					s.logger.Error("reload failed", "file", name, "error", err)
				}
			})

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			s.logger.Error("watcher error", "error", err)
		}
	}
}

func (s *Server) watchedFiles() map[string]struct{} {
	files := make(map[string]struct{}, 3)
	for _, path := range []string{s.source.Dependencies, s.source.Columns, s.source.Code} {
		if path == "" {
			continue
		}
		if abs, err := filepath.Abs(path); err == nil {
			path = abs
		}
		files[filepath.Clean(path)] = struct{}{}
	}
	return files
}
