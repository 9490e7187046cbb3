package buffer

import "strings"

// Snapshot provides a read-only view of a buffer at a specific point in time.
// It is safe for concurrent access and will not change even if the original
// buffer is modified.
type Snapshot struct {
	lines      []string
	revisionID RevisionID
	lineEnding LineEnding
}

// Text returns the content joined with the buffer's line ending.
func (s *Snapshot) Text() string {
	return strings.Join(s.lines, s.lineEnding.Sequence())
}

// LFText returns the content joined with "\n" regardless of line ending.
func (s *Snapshot) LFText() string {
	return strings.Join(s.lines, "\n")
}

// Lines returns a copy of the snapshot's lines.
func (s *Snapshot) Lines() []string {
	out := make([]string, len(s.lines))
	copy(out, s.lines)
	return out
}

// LineCount returns the number of lines.
func (s *Snapshot) LineCount() int {
	return len(s.lines)
}

// LineText returns the text of a specific line, or "" if out of range.
func (s *Snapshot) LineText(line int) string {
	if line < 0 || line >= len(s.lines) {
		return ""
	}
	return s.lines[line]
}

// RevisionID returns the revision the snapshot was taken at.
func (s *Snapshot) RevisionID() RevisionID {
	return s.revisionID
}
