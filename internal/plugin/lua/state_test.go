package lua

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	glua "github.com/yuin/gopher-lua"
)

func TestNewState(t *testing.T) {
	state := NewState()
	defer state.Close()

	if state.IsClosed() {
		t.Error("NewState() returned closed state")
	}
}

func TestStateDoString(t *testing.T) {
	state := NewState()
	defer state.Close()

	if err := state.DoString(context.Background(), `x = 1 + 1`); err != nil {
		t.Fatalf("DoString() error = %v", err)
	}

	if num, ok := state.GetGlobal("x").(glua.LNumber); !ok || float64(num) != 2 {
		t.Errorf("x = %v, want 2", state.GetGlobal("x"))
	}
}

func TestStateDoStringSyntaxError(t *testing.T) {
	state := NewState()
	defer state.Close()

	if err := state.DoString(context.Background(), `invalid lua code !!!`); err == nil {
		t.Error("DoString() expected error for invalid code")
	}
}

func TestStateDoFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "script.lua")
	if err := os.WriteFile(path, []byte("answer = 6 * 7\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	state := NewState()
	defer state.Close()

	if err := state.DoFile(context.Background(), path); err != nil {
		t.Fatalf("DoFile() error = %v", err)
	}
	if num, ok := state.GetGlobal("answer").(glua.LNumber); !ok || float64(num) != 42 {
		t.Errorf("answer = %v, want 42", state.GetGlobal("answer"))
	}
}

func TestStateDoFileMissing(t *testing.T) {
	state := NewState()
	defer state.Close()

	if err := state.DoFile(context.Background(), filepath.Join(t.TempDir(), "none.lua")); err == nil {
		t.Error("DoFile() expected error for missing file")
	}
}

func TestStateTimeout(t *testing.T) {
	state := NewState(WithExecutionTimeout(50 * time.Millisecond))
	defer state.Close()

	err := state.DoString(context.Background(), `while true do end`)
	if !errors.Is(err, ErrExecutionTimeout) {
		t.Fatalf("expected ErrExecutionTimeout, got %v", err)
	}
}

func TestStateClosed(t *testing.T) {
	state := NewState()
	if err := state.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	if err := state.DoString(context.Background(), `x = 1`); !errors.Is(err, ErrStateClosed) {
		t.Errorf("DoString() after Close = %v, want ErrStateClosed", err)
	}
	if state.GetGlobal("x") != glua.LNil {
		t.Error("GetGlobal() after Close should return nil")
	}
	if err := state.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
}

func TestSandboxRemovesLoaders(t *testing.T) {
	state := NewState()
	defer state.Close()

	for _, name := range []string{"dofile", "loadfile", "load", "loadstring", "io", "os"} {
		if v := state.GetGlobal(name); v != glua.LNil {
			t.Errorf("global %s should be nil, got %v", name, v)
		}
	}
}

func TestSandboxRequire(t *testing.T) {
	state := NewState()
	defer state.Close()
	ctx := context.Background()

	if err := state.DoString(ctx, `local s = require("string"); n = s.len("abc")`); err != nil {
		t.Fatalf("require(string) error = %v", err)
	}

	err := state.DoString(ctx, `require("os")`)
	if err == nil || !strings.Contains(err.Error(), "not available") {
		t.Errorf("require(os) error = %v, want not available", err)
	}
}
