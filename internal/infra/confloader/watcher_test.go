package confloader

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWatcher_NotifiesOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "respkv.yaml")
	if err := os.WriteFile(path, []byte("log:\n  level: info\n"), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	w, err := NewWatcher()
	if err != nil {
		t.Fatalf("NewWatcher() error = %v", err)
	}
	defer w.Stop()

	if err := w.Watch(path); err != nil {
		t.Fatalf("Watch() error = %v", err)
	}

	changed := make(chan string, 8)
	w.OnChange(func(p string) { changed <- p })
	w.StartAsync()

	// A sibling file in the same directory must not trigger the callback.
	if err := os.WriteFile(filepath.Join(dir, "other.txt"), []byte("x"), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	if err := os.WriteFile(path, []byte("log:\n  level: debug\n"), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	select {
	case p := <-changed:
		if filepath.Base(p) != "respkv.yaml" {
			t.Errorf("callback path = %q, want respkv.yaml", p)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("no change notification within 3s")
	}
}

func TestWatcher_WatchMissingDir(t *testing.T) {
	w, err := NewWatcher()
	if err != nil {
		t.Fatalf("NewWatcher() error = %v", err)
	}
	defer w.Stop()

	if err := w.Watch(filepath.Join(t.TempDir(), "missing", "respkv.yaml")); err == nil {
		t.Error("Watch() on a missing directory should fail")
	}
}

func TestWatcher_StopTwice(t *testing.T) {
	w, err := NewWatcher()
	if err != nil {
		t.Fatalf("NewWatcher() error = %v", err)
	}
	w.StartAsync()
	if err := w.Stop(); err != nil {
		t.Errorf("first Stop() error = %v", err)
	}
	if err := w.Stop(); err != nil {
		t.Errorf("second Stop() error = %v", err)
	}
}
