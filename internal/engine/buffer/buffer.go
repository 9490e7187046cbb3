package buffer

import (
	"errors"
	"io"
	"strings"
	"sync"
)

// Errors returned by buffer operations.
var (
	ErrLineOutOfRange   = errors.New("line out of range")
	ErrRevisionMismatch = errors.New("buffer revision changed")
)

// LineEnding specifies the line ending style.
type LineEnding uint8

const (
	LineEndingLF   LineEnding = iota // Unix: \n
	LineEndingCRLF                   // Windows: \r\n
	LineEndingCR                     // Old Mac: \r
)

// String returns the string representation of the line ending.
func (le LineEnding) String() string {
	switch le {
	case LineEndingCRLF:
		return "\\r\\n"
	case LineEndingCR:
		return "\\r"
	default:
		return "\\n"
	}
}

// Sequence returns the actual line ending characters.
func (le LineEnding) Sequence() string {
	switch le {
	case LineEndingCRLF:
		return "\r\n"
	case LineEndingCR:
		return "\r"
	default:
		return "\n"
	}
}

// ParseLineEnding parses "lf", "crlf" or "cr".
func ParseLineEnding(s string) (LineEnding, bool) {
	switch strings.ToLower(s) {
	case "", "lf":
		return LineEndingLF, true
	case "crlf":
		return LineEndingCRLF, true
	case "cr":
		return LineEndingCR, true
	default:
		return LineEndingLF, false
	}
}

// Buffer holds a document as a slice of lines.
// All methods are thread-safe.
type Buffer struct {
	mu         sync.RWMutex
	lines      []string
	revisionID RevisionID
	savedRev   RevisionID
	lineEnding LineEnding
}

// NewBuffer creates a new empty buffer.
func NewBuffer(opts ...Option) *Buffer {
	b := &Buffer{
		lines:      []string{""},
		revisionID: NewRevisionID(),
		lineEnding: LineEndingLF,
	}

	for _, opt := range opts {
		opt(b)
	}

	b.savedRev = b.revisionID
	return b
}

// NewBufferFromString creates a buffer with initial content.
func NewBufferFromString(s string, opts ...Option) *Buffer {
	b := NewBuffer(opts...)
	b.lines = splitLines(s)
	return b
}

// NewBufferFromReader creates a buffer from an io.Reader.
func NewBufferFromReader(r io.Reader, opts ...Option) (*Buffer, error) {
	// Read everything first; CRLF pairs may straddle read boundaries.
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return NewBufferFromString(string(data), opts...), nil
}

// splitLines normalizes all line endings and splits s into lines.
func splitLines(s string) []string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	return strings.Split(s, "\n")
}

// Read Operations

// Text returns the full buffer content joined with the buffer's line ending.
func (b *Buffer) Text() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return strings.Join(b.lines, b.lineEnding.Sequence())
}

// Lines returns a copy of the buffer's lines.
func (b *Buffer) Lines() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]string, len(b.lines))
	copy(out, b.lines)
	return out
}

// LineCount returns the number of lines. An empty buffer has one line.
func (b *Buffer) LineCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.lines)
}

// LineText returns the text of a specific line, or "" if out of range.
func (b *Buffer) LineText(line int) string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if line < 0 || line >= len(b.lines) {
		return ""
	}
	return b.lines[line]
}

// IsEmpty reports whether the buffer holds no text.
func (b *Buffer) IsEmpty() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.isEmpty()
}

func (b *Buffer) isEmpty() bool {
	return len(b.lines) == 1 && b.lines[0] == ""
}

// LineEnding returns the buffer's line ending style.
func (b *Buffer) LineEnding() LineEnding {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.lineEnding
}

// RevisionID returns the current revision.
func (b *Buffer) RevisionID() RevisionID {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.revisionID
}

// Modified reports whether the buffer changed since it was last marked saved.
func (b *Buffer) Modified() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.revisionID != b.savedRev
}

// MarkSaved records the current revision as persisted.
func (b *Buffer) MarkSaved() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.savedRev = b.revisionID
}

// Write Operations

// InsertLinesAt inserts lines so that the first one ends up at index line.
// line may equal LineCount to append. An empty buffer is replaced rather
// than keeping its single empty line.
//
// If expect is non-zero and differs from the current revision, nothing is
// written and ErrRevisionMismatch is returned.
func (b *Buffer) InsertLinesAt(line int, lines []string, expect RevisionID) (RevisionID, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if expect != 0 && expect != b.revisionID {
		return b.revisionID, ErrRevisionMismatch
	}
	if line < 0 || line > len(b.lines) {
		return b.revisionID, ErrLineOutOfRange
	}
	if len(lines) == 0 {
		return b.revisionID, nil
	}

	var normalized []string
	for _, l := range lines {
		normalized = append(normalized, splitLines(l)...)
	}

	if b.isEmpty() {
		b.lines = normalized
	} else {
		next := make([]string, 0, len(b.lines)+len(normalized))
		next = append(next, b.lines[:line]...)
		next = append(next, normalized...)
		next = append(next, b.lines[line:]...)
		b.lines = next
	}

	b.revisionID = NewRevisionID()
	return b.revisionID, nil
}

// Replace replaces the whole buffer content.
func (b *Buffer) Replace(text string) RevisionID {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.lines = splitLines(text)
	b.revisionID = NewRevisionID()
	return b.revisionID
}

// Snapshot returns an immutable view of the current state.
func (b *Buffer) Snapshot() *Snapshot {
	b.mu.RLock()
	defer b.mu.RUnlock()

	lines := make([]string, len(b.lines))
	copy(lines, b.lines)
	return &Snapshot{
		lines:      lines,
		revisionID: b.revisionID,
		lineEnding: b.lineEnding,
	}
}
