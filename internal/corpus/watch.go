package corpus

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/gobwas/glob"
)

// watchDebounce coalesces bursts of events (editors write several times per save).
const watchDebounce = 200 * time.Millisecond

// Watch rescans the loader whenever a matching file under its root is
// created or written, or anything is removed or renamed, and calls onChange
// with the new file list. Directories moved in are watched and rescanned.
// It blocks until ctx is cancelled.
func (l *Loader) Watch(ctx context.Context, onChange func([]InterviewFile, error)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	matcher, err := glob.Compile(l.pattern)
	if err != nil {
		return fmt.Errorf("compile pattern %q: %w", l.pattern, err)
	}

	if err := addDirs(watcher, l.root); err != nil {
		return err
	}

	var (
		timer   *time.Timer
		trigger <-chan time.Time
	)
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			name := filepath.Base(event.Name)
			if strings.HasPrefix(name, ".") {
				continue
			}
			switch {
			case event.Op&fsnotify.Create != 0 && isDir(event.Name):
				// A directory moved in may already hold files.
				_ = addDirs(watcher, event.Name)
			case event.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
				// The path is gone, so a directory cannot be told apart from a file.
			case !matcher.Match(name):
				continue
			}
			if timer == nil {
				timer = time.NewTimer(watchDebounce)
			} else {
				timer.Reset(watchDebounce)
			}
			trigger = timer.C

		case <-trigger:
			trigger = nil
			files, err := l.Scan()
			onChange(files, err)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			onChange(nil, fmt.Errorf("watch: %w", err))
		}
	}
}

func isDir(p string) bool {
	info, err := os.Lstat(p)
	return err == nil && info.IsDir()
}

// addDirs registers root and every non-hidden directory below it.
func addDirs(watcher *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if p == root {
				return fmt.Errorf("watch %s: %w", root, err)
			}
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if p != root && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		if err := watcher.Add(p); err != nil {
			return fmt.Errorf("watch %s: %w", p, err)
		}
		return nil
	})
}
