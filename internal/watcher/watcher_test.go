package watcher

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

// collector gathers events delivered to a handler.
type collector struct {
	mu     sync.Mutex
	events []Event
	notify chan struct{}
}

func newCollector() *collector {
	return &collector{notify: make(chan struct{}, 64)}
}

func (c *collector) handle(e Event) {
	c.mu.Lock()
	c.events = append(c.events, e)
	c.mu.Unlock()
	c.notify <- struct{}{}
}

func (c *collector) wait(t *testing.T) {
	t.Helper()
	select {
	case <-c.notify:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for event")
	}
}

func (c *collector) snapshot() []Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Event, len(c.events))
	copy(out, c.events)
	return out
}

func TestWatcherDetectsWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "source.txt")
	if err := os.WriteFile(path, []byte("a\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	w, err := New(WithDebounce(20 * time.Millisecond))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer w.Close()

	c := newCollector()
	w.OnChange(c.handle)
	if err := w.Watch(path); err != nil {
		t.Fatalf("Watch failed: %v", err)
	}

	if err := os.WriteFile(path, []byte("a\nb\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	c.wait(t)

	events := c.snapshot()
	abs, _ := filepath.Abs(path)
	if events[0].Path != abs {
		t.Errorf("Path = %q, want %q", events[0].Path, abs)
	}
	if !events[0].Op.Has(OpWrite) && !events[0].Op.Has(OpCreate) {
		t.Errorf("Op = %v, want write", events[0].Op)
	}
	if w.TotalEvents() < 1 {
		t.Errorf("TotalEvents = %d", w.TotalEvents())
	}
}

func TestWatcherDetectsCreate(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "later.txt")

	w, err := New(WithDebounce(20 * time.Millisecond))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer w.Close()

	c := newCollector()
	w.OnChange(c.handle)
	if err := w.Watch(path); err != nil {
		t.Fatalf("Watch failed: %v", err)
	}

	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	c.wait(t)

	if op := c.snapshot()[0].Op; !op.Has(OpCreate) {
		t.Errorf("Op = %v, want create", op)
	}
}

func TestWatcherIgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	watched := filepath.Join(dir, "watched.txt")
	other := filepath.Join(dir, "other.txt")

	w, err := New(WithDebounce(10 * time.Millisecond))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer w.Close()

	c := newCollector()
	w.OnChange(c.handle)
	if err := w.Watch(watched); err != nil {
		t.Fatalf("Watch failed: %v", err)
	}

	if err := os.WriteFile(other, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(watched, []byte("y"), 0o644); err != nil {
		t.Fatal(err)
	}
	c.wait(t)

	for _, e := range c.snapshot() {
		if filepath.Base(e.Path) != "watched.txt" {
			t.Errorf("unexpected event for %s", e.Path)
		}
	}
}

func TestWatcherDebounces(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "burst.txt")

	w, err := New(WithDebounce(200 * time.Millisecond))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer w.Close()

	c := newCollector()
	w.OnChange(c.handle)
	if err := w.Watch(path); err != nil {
		t.Fatalf("Watch failed: %v", err)
	}

	for i := 0; i < 5; i++ {
		if err := os.WriteFile(path, []byte{byte('a' + i)}, 0o644); err != nil {
			t.Fatal(err)
		}
	}
	c.wait(t)
	time.Sleep(300 * time.Millisecond)

	if n := len(c.snapshot()); n >= 5 {
		t.Errorf("expected burst to be coalesced, got %d events", n)
	}
}

func TestWatcherUnwatch(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "f.txt")

	w, err := New()
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer w.Close()

	if err := w.Watch(path); err != nil {
		t.Fatalf("Watch failed: %v", err)
	}
	if err := w.Unwatch(path); err != nil {
		t.Fatalf("Unwatch failed: %v", err)
	}
	if len(w.dirs) != 0 || len(w.files) != 0 {
		t.Errorf("watcher still tracking %v %v", w.dirs, w.files)
	}
}

func TestWatcherClosed(t *testing.T) {
	w, err := New()
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	if err := w.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("second Close failed: %v", err)
	}
	if err := w.Watch("x.txt"); err != ErrWatcherClosed {
		t.Errorf("Watch after Close = %v, want ErrWatcherClosed", err)
	}
}

func TestOpString(t *testing.T) {
	if s := (OpCreate | OpWrite).String(); s != "create|write" {
		t.Errorf("String() = %q", s)
	}
	if s := Op(0).String(); s != "none" {
		t.Errorf("String() = %q", s)
	}
}

func TestWatcherSetDebounce(t *testing.T) {
	w, err := New(WithDebounce(time.Second))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer w.Close()

	w.SetDebounce(10 * time.Millisecond)
	w.SetDebounce(-1)
	if got := w.Debounce(); got != 10*time.Millisecond {
		t.Fatalf("Debounce() = %v, want 10ms", got)
	}

	dir := t.TempDir()
	path := filepath.Join(dir, "source.txt")
	if err := os.WriteFile(path, []byte("a"), 0o644); err != nil {
		t.Fatal(err)
	}
	c := newCollector()
	w.OnChange(c.handle)
	if err := w.Watch(path); err != nil {
		t.Fatalf("Watch failed: %v", err)
	}

	if err := os.WriteFile(path, []byte("b"), 0o644); err != nil {
		t.Fatal(err)
	}
	select {
	case <-c.notify:
	case <-time.After(500 * time.Millisecond):
		t.Fatal("event not delivered with the shorter debounce")
	}
}
