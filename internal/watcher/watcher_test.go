package watcher

import (
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
)

func TestWatcher_ReloadOnCSVWrite(t *testing.T) {
	dir := t.TempDir()
	reloaded := make(chan struct{}, 1)

	w, err := New(dir, func() {
		select {
		case reloaded <- struct{}{}:
		default:
		}
	}, WithDebounceDelay(50*time.Millisecond))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer w.Close()
	go w.Start()

	if err := os.WriteFile(filepath.Join(dir, "call_tree_methods.csv"), []byte("Id,Name\n"), 0644); err != nil {
		t.Fatal(err)
	}

	select {
	case <-reloaded:
	case <-time.After(5 * time.Second):
		t.Fatal("reload callback never fired")
	}
}

func TestWatcher_IgnoresNonCSV(t *testing.T) {
	dir := t.TempDir()
	reloaded := make(chan struct{}, 1)

	w, err := New(dir, func() {
		select {
		case reloaded <- struct{}{}:
		default:
		}
	}, WithDebounceDelay(50*time.Millisecond))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer w.Close()
	go w.Start()

	if err := os.WriteFile(filepath.Join(dir, "analyzer.log"), []byte("done\n"), 0644); err != nil {
		t.Fatal(err)
	}

	select {
	case <-reloaded:
		t.Fatal("reload fired for a non-CSV file")
	case <-time.After(300 * time.Millisecond):
	}
}

// TestWatcher_CloseWaitsForReload ensures Close does not return while a
// reload is still running; shutdown closes the Neo4j connection right
// after, so a late import must not be in flight.
func TestWatcher_CloseWaitsForReload(t *testing.T) {
	dir := t.TempDir()
	started := make(chan struct{})
	var once sync.Once
	var finished atomic.Bool

	w, err := New(dir, func() {
		once.Do(func() { close(started) })
		time.Sleep(200 * time.Millisecond)
		finished.Store(true)
	}, WithDebounceDelay(20*time.Millisecond))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	go w.Start()

	if err := os.WriteFile(filepath.Join(dir, "call_tree_methods.csv"), []byte("Id,Name\n"), 0644); err != nil {
		t.Fatal(err)
	}

	select {
	case <-started:
	case <-time.After(5 * time.Second):
		t.Fatal("reload never started")
	}

	if err := w.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if !finished.Load() {
		t.Error("Close returned while a reload was still running")
	}
}

func TestRelevant(t *testing.T) {
	cases := []struct {
		event fsnotify.Event
		want  bool
	}{
		{fsnotify.Event{Name: "a/call_tree_methods.csv", Op: fsnotify.Write}, true},
		{fsnotify.Event{Name: "a/call_tree_targets.csv", Op: fsnotify.Create}, true},
		{fsnotify.Event{Name: "a/call_tree_methods.csv", Op: fsnotify.Chmod}, false},
		{fsnotify.Event{Name: "a/notes.txt", Op: fsnotify.Write}, false},
	}
	for _, c := range cases {
		if got := relevant(c.event); got != c.want {
			t.Errorf("relevant(%v %s) = %v, want %v", c.event.Op, c.event.Name, got, c.want)
		}
	}
}
