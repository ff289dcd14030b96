package driver

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

const testDebounce = 100 * time.Millisecond

type watchRun struct {
	calls  chan []string
	done   chan error
	cancel context.CancelFunc
}

// startWatching registers files synchronously, then runs the event loop in
// the background.
func startWatching(t *testing.T, files ...string) *watchRun {
	t.Helper()
	w, err := newFileWatcher(files)
	if err != nil {
		t.Fatalf("watch: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	run := &watchRun{calls: make(chan []string, 8), done: make(chan error, 1), cancel: cancel}
	go func() {
		defer w.close()
		run.done <- w.run(ctx, testDebounce, func(changed []string) { run.calls <- changed })
	}()
	t.Cleanup(func() {
		cancel()
		<-run.done
	})
	return run
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func (r *watchRun) expectNoCall(t *testing.T, within time.Duration) {
	t.Helper()
	select {
	case changed := <-r.calls:
		t.Fatalf("unexpected callback %v", changed)
	case <-time.After(within):
	}
}

func TestWatchDebouncesWrites(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.kexp")
	b := filepath.Join(dir, "b.kexp")
	writeFile(t, a, "1")
	writeFile(t, b, "1")
	run := startWatching(t, b, a)

	writeFile(t, a, "2")
	time.Sleep(testDebounce / 4)
	writeFile(t, b, "2")
	time.Sleep(testDebounce / 4)
	writeFile(t, a, "3")

	select {
	case changed := <-run.calls:
		want := []string{filepath.Clean(a), filepath.Clean(b)}
		if !reflect.DeepEqual(changed, want) {
			t.Fatalf("changed = %v, want %v", changed, want)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no callback after writes")
	}
	run.expectNoCall(t, 3*testDebounce)
}

func TestWatchIgnoresUnwatchedSiblings(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.kexp")
	other := filepath.Join(dir, "other.kexp")
	writeFile(t, a, "1")
	run := startWatching(t, a)

	writeFile(t, other, "1")
	writeFile(t, other, "2")
	run.expectNoCall(t, 3*testDebounce)
}

func TestWatchReturnsOnCancel(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.kexp")
	writeFile(t, a, "1")

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- Watch(ctx, []string{a}, testDebounce, func([]string) {}) }()
	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Watch returned %v after cancel", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Watch did not return after cancel")
	}
}
