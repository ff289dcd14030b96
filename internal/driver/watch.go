package driver

import (
	"context"
	"path/filepath"
	"sort"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long Watch waits for more changes before calling back.
const DefaultDebounce = 200 * time.Millisecond

// Watch calls onChange with the sorted list of changed program files each
// time some of them are written, created or replaced. The parent directories
// are watched, not the files, so editors that save by rename are seen.
// Watch returns when ctx is done or the watcher fails.
func Watch(ctx context.Context, files []string, debounce time.Duration, onChange func(changed []string)) error {
	w, err := newFileWatcher(files)
	if err != nil {
		return err
	}
	defer w.close()
	return w.run(ctx, debounce, onChange)
}

// fileWatcher is a started fsnotify watcher plus the files it reports.
type fileWatcher struct {
	watcher *fsnotify.Watcher
	wanted  map[string]struct{}
}

// newFileWatcher registers the parent directories of files. Events are
// delivered from the moment it returns.
func newFileWatcher(files []string) (*fileWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	wanted := make(map[string]struct{}, len(files))
	dirs := make(map[string]struct{})
	for _, f := range files {
		abs, err := filepath.Abs(f)
		if err != nil {
			watcher.Close()
			return nil, err
		}
		abs = filepath.Clean(abs)
		wanted[abs] = struct{}{}
		dirs[filepath.Dir(abs)] = struct{}{}
	}
	for dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			watcher.Close()
			return nil, err
		}
	}
	return &fileWatcher{watcher: watcher, wanted: wanted}, nil
}

func (w *fileWatcher) close() error { return w.watcher.Close() }

func (w *fileWatcher) run(ctx context.Context, debounce time.Duration, onChange func(changed []string)) error {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	timer := time.NewTimer(time.Hour)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()
	pending := make(map[string]struct{})

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			path := filepath.Clean(event.Name)
			if _, ok := w.wanted[path]; !ok {
				continue
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) == 0 {
				continue
			}
			pending[path] = struct{}{}
			timer.Reset(debounce)
		case <-timer.C:
			if len(pending) == 0 {
				continue
			}
			changed := make([]string, 0, len(pending))
			for p := range pending {
				changed = append(changed, p)
			}
			sort.Strings(changed)
			clear(pending)
			onChange(changed)
		case werr, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			return werr
		}
	}
}
