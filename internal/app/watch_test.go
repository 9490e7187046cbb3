package app

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func TestWatchNoSource(t *testing.T) {
	f := newFixture(t, "")
	app := f.newApp(t)

	if err := app.Watch(context.Background(), ""); !errors.Is(err, ErrNoSource) {
		t.Errorf("expected ErrNoSource, got %v", err)
	}
}

func TestWatchTopsUpScratch(t *testing.T) {
	f := newFixture(t, "[sequence]\nheadroom = 2\n[watch]\ndebounce = '10ms'\n")
	source := filepath.Join(f.dir, "source.txt")
	if err := os.WriteFile(source, []byte("a\nb\nc"), 0o644); err != nil {
		t.Fatal(err)
	}
	app := f.newApp(t)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.Watch(ctx, source) }()

	contains := func(token string) func() bool {
		return func() bool {
			data, err := os.ReadFile(f.scratch)
			return err == nil && strings.Contains(string(data), token)
		}
	}

	// Three source lines: cursor on line 2, so identifiers up to 2+2.
	waitFor(t, "initial top-up", contains("00004"))

	if err := os.WriteFile(source, []byte(strings.Repeat("x\n", 9)+"x"), 0o644); err != nil {
		t.Fatal(err)
	}
	waitFor(t, "top-up after change", contains("00011"))

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Watch() error = %v", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("Watch did not stop")
	}

	if strings.Contains(f.read(t), "00012") {
		t.Errorf("scratch grew past the headroom: %q", f.read(t))
	}
}
