package app

import (
	"errors"
	"testing"
)

func TestOperationError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *OperationError
		expected string
	}{
		{
			name:     "nil error",
			err:      nil,
			expected: "",
		},
		{
			name:     "op only",
			err:      &OperationError{Op: "save"},
			expected: "save",
		},
		{
			name:     "op and target",
			err:      &OperationError{Op: "number", Target: "numbers.txt"},
			expected: "number numbers.txt",
		},
		{
			name:     "full error chain",
			err:      &OperationError{Op: "run", Target: "fill.lua", Err: errors.New("timeout")},
			expected: "run fill.lua: timeout",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.err.Error()
			if result != tt.expected {
				t.Errorf("Error() = '%s', expected '%s'", result, tt.expected)
			}
		})
	}
}

func TestOperationError_Unwrap(t *testing.T) {
	inner := errors.New("disk full")
	err := NewOperationError("save", "numbers.txt", inner)

	if !errors.Is(err, inner) {
		t.Error("errors.Is should find the wrapped error")
	}

	var opErr *OperationError
	if !errors.As(error(err), &opErr) || opErr.Op != "save" {
		t.Error("errors.As should find the OperationError")
	}

	var nilErr *OperationError
	if nilErr.Unwrap() != nil {
		t.Error("nil Unwrap should return nil")
	}
}

func TestInitError(t *testing.T) {
	inner := errors.New("bad width")
	err := &InitError{Component: "config", Err: inner}

	if err.Error() != "initializing config: bad width" {
		t.Errorf("Error() = %q", err.Error())
	}
	if !errors.Is(err, ErrInitialization) {
		t.Error("InitError should match ErrInitialization")
	}
	if !errors.Is(err, inner) {
		t.Error("InitError should match the wrapped error")
	}
}
