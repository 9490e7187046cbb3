package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out, errOut bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func setup(t *testing.T) (dir, config, scratch string) {
	t.Helper()
	dir = t.TempDir()
	config = filepath.Join(dir, "gyobango.yaml")
	writeFile(t, config, "sequence:\n  headroom: 3\n")
	return dir, config, filepath.Join(dir, "numbers.txt")
}

func TestNumberCommand(t *testing.T) {
	_, config, scratch := setup(t)

	out, err := execute(t, "--config", config, "number", "--line", "2", scratch)
	if err != nil {
		t.Fatalf("number failed: %v", err)
	}
	if !strings.Contains(out, "added 5 identifiers 00001..00005 at line 0; cursor to line 2 of 5") {
		t.Errorf("unexpected output: %q", out)
	}

	data, err := os.ReadFile(scratch)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "00001\n00002\n00003\n00004\n00005" {
		t.Errorf("scratch = %q", data)
	}
}

func TestNumberCommandDryRunHeadroom(t *testing.T) {
	_, config, scratch := setup(t)

	out, err := execute(t, "-c", config, "number", "--headroom", "1", "--dry-run", scratch)
	if err != nil {
		t.Fatalf("number failed: %v", err)
	}
	if out != "00001\n" {
		t.Errorf("output = %q, want a single identifier", out)
	}
	if _, err := os.Stat(scratch); !os.IsNotExist(err) {
		t.Error("dry run created the scratch document")
	}
}

func TestNumberCommandLineBounds(t *testing.T) {
	_, config, scratch := setup(t)

	for _, line := range []string{"-1", "100000", "10000000000"} {
		if _, err := execute(t, "-c", config, "number", "--line", line, scratch); err == nil {
			t.Errorf("--line %s: expected error", line)
		}
	}
	if _, err := os.Stat(scratch); !os.IsNotExist(err) {
		t.Error("rejected command created the scratch document")
	}
}

func TestScanCommand(t *testing.T) {
	_, config, scratch := setup(t)
	writeFile(t, scratch, "00001\n00002\n000100\n")

	out, err := execute(t, "-c", config, "scan", scratch)
	if err != nil {
		t.Fatalf("scan failed: %v", err)
	}
	for _, want := range []string{"count:     2", "last:      2", "last line: 1", "oversized: 1", "terminal:  true"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q: %q", want, out)
		}
	}
}

func TestRunCommand(t *testing.T) {
	dir, config, scratch := setup(t)
	script := filepath.Join(dir, "fill.lua")
	writeFile(t, script, "gyo.number(1)\n")

	if _, err := execute(t, "-c", config, "run", script, scratch); err != nil {
		t.Fatalf("run failed: %v", err)
	}

	data, err := os.ReadFile(scratch)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "00001\n00002\n00003\n00004" {
		t.Errorf("scratch = %q", data)
	}
}

func TestWatchRequiresSource(t *testing.T) {
	_, config, scratch := setup(t)

	if _, err := execute(t, "-c", config, "watch", scratch); err == nil {
		t.Error("expected error without --source")
	}
}

func TestInvalidLogLevel(t *testing.T) {
	_, config, scratch := setup(t)

	if _, err := execute(t, "-c", config, "--log-level", "loud", "scan", scratch); err == nil {
		t.Error("expected error for invalid log level")
	}
}

func TestLogLevelIgnoresCase(t *testing.T) {
	_, config, scratch := setup(t)

	if _, err := execute(t, "-c", config, "--log-level", "DEBUG", "scan", scratch); err != nil {
		t.Errorf("--log-level DEBUG: %v", err)
	}
}
