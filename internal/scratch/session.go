package scratch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"

	"github.com/dshills/gyobango/internal/engine/buffer"
	"github.com/dshills/gyobango/internal/sequence"
)

// Logger is the logging surface a session needs.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Warn(string, ...any)  {}

// Request carries the editor state a numbering command needs.
type Request struct {
	// CursorLine is the zero-based line of the cursor in the source
	// document, i.e. how far the cursor can move up. It is the minimum
	// number of new identifiers wanted.
	CursorLine int
}

// Outcome reports what a numbering command did.
type Outcome struct {
	// Result is the allocation that was applied.
	Result sequence.Result

	// Revision is the buffer revision after the insertion.
	Revision buffer.RevisionID

	// CursorTarget is the zero-based line the scratch cursor should move to.
	CursorTarget int

	// LineCount is the scratch document's line count after the insertion.
	LineCount int
}

// Session is a scratch document plus the allocator that numbers it.
type Session struct {
	mu     sync.Mutex
	id     string
	buf    *buffer.Buffer
	alloc  *sequence.Allocator
	path   string
	logger Logger
}

// Option configures a Session.
type Option func(*Session)

// WithAllocator sets the allocator.
func WithAllocator(a *sequence.Allocator) Option {
	return func(s *Session) {
		if a != nil {
			s.alloc = a
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithPath sets the file the session saves to.
func WithPath(path string) Option {
	return func(s *Session) {
		s.path = path
	}
}

// New creates a session over buf.
func New(buf *buffer.Buffer, opts ...Option) *Session {
	s := &Session{
		id:     uuid.NewString(),
		buf:    buf,
		alloc:  sequence.New(),
		logger: nopLogger{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Open loads the scratch document at path. A missing file yields an empty
// document that is created on Save.
func Open(path string, le buffer.LineEnding, opts ...Option) (*Session, error) {
	data, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("reading scratch document %s: %w", path, err)
	}

	if len(data) > 0 {
		le = buffer.DetectLineEnding(string(data))
	}
	buf := buffer.NewBufferFromString(string(data), buffer.WithLineEnding(le))
	return New(buf, append([]Option{WithPath(path)}, opts...)...), nil
}

// ID returns the session ID.
func (s *Session) ID() string {
	return s.id
}

// Path returns the backing file, or "".
func (s *Session) Path() string {
	return s.path
}

// Buffer returns the scratch document.
func (s *Session) Buffer() *buffer.Buffer {
	return s.buf
}

// Allocator returns the current allocator.
func (s *Session) Allocator() *sequence.Allocator {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.alloc
}

// SetAllocator swaps the allocator, e.g. after a configuration reload.
func (s *Session) SetAllocator(a *sequence.Allocator) {
	if a == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.alloc = a
}

// Ledger scans the current document.
func (s *Session) Ledger() sequence.Ledger {
	s.mu.Lock()
	alloc := s.alloc
	s.mu.Unlock()
	return alloc.Scan(s.buf.Snapshot().LFText())
}

// Plan computes an allocation from a snapshot without touching the buffer.
func (s *Session) Plan(snap *buffer.Snapshot, minCount int) sequence.Result {
	s.mu.Lock()
	alloc := s.alloc
	s.mu.Unlock()
	return alloc.Allocate(snap.LFText(), minCount)
}

// Apply inserts a planned allocation. It fails with ErrStaleSnapshot if the
// buffer is no longer at the snapshot's revision.
func (s *Session) Apply(snap *buffer.Snapshot, res sequence.Result) (buffer.RevisionID, error) {
	if s.buf == nil {
		return 0, ErrNoDocument
	}
	rev, err := s.buf.InsertLinesAt(res.InsertAt, res.Lines(), snap.RevisionID())
	if errors.Is(err, buffer.ErrRevisionMismatch) {
		return rev, ErrStaleSnapshot
	}
	if err != nil {
		return rev, fmt.Errorf("applying allocation at line %d: %w", res.InsertAt, err)
	}
	return rev, nil
}

// Number runs one numbering command against the scratch document.
func (s *Session) Number(ctx context.Context, req Request) (Outcome, error) {
	if s.buf == nil {
		return Outcome{}, ErrNoDocument
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snap := s.buf.Snapshot()
	res := s.alloc.Allocate(snap.LFText(), req.CursorLine)

	if err := ctx.Err(); err != nil {
		return Outcome{}, err
	}

	rev, err := s.Apply(snap, res)
	if err != nil {
		return Outcome{}, err
	}

	lineCount := s.buf.LineCount()
	out := Outcome{
		Result:       res,
		Revision:     rev,
		CursorTarget: CursorTarget(req.CursorLine, lineCount),
		LineCount:    lineCount,
	}

	s.logger.Debug("allocated %d identifiers [%d, %d] at line %d (session %s)",
		len(res.Tokens), res.Start, res.End, res.InsertAt, s.id)
	if res.Terminal {
		s.logger.Warn("sequence exceeded %d digits; new lines will not be recognized on the next scan",
			s.alloc.Width())
	}
	return out, nil
}

// TopUp numbers the document only if its identifiers stop short of
// minCount plus the allocator's headroom. It reports whether anything was
// inserted.
func (s *Session) TopUp(ctx context.Context, minCount int) (Outcome, bool, error) {
	if s.buf == nil {
		return Outcome{}, false, ErrNoDocument
	}

	s.mu.Lock()
	alloc := s.alloc
	s.mu.Unlock()

	ledger := alloc.Scan(s.buf.Snapshot().LFText())
	target := min(max(minCount, 0), alloc.MaxCount()) + alloc.Headroom()
	if ledger.Len() > 0 && ledger.LastValue() >= target {
		return Outcome{}, false, nil
	}
	out, err := s.Number(ctx, Request{CursorLine: minCount})
	if err != nil {
		return Outcome{}, false, err
	}
	return out, true, nil
}

// CursorTarget returns the scratch line the cursor lands on after a
// command issued with the source cursor at cursorLine. The cursor goes one
// line below min(cursorLine-1, lineCount-1), never above line 1 and never
// past the last line.
func CursorTarget(cursorLine, lineCount int) int {
	if lineCount <= 0 {
		return 0
	}
	target := min(cursorLine-1, lineCount-1)
	if target < 0 {
		target = 0
	}
	return min(target+1, lineCount-1)
}

// Save writes the document to its path atomically.
func (s *Session) Save() error {
	if s.path == "" {
		return ErrNoPath
	}
	if err := writeFileAtomic(s.path, []byte(s.buf.Text())); err != nil {
		return fmt.Errorf("saving scratch document %s: %w", s.path, err)
	}
	s.buf.MarkSaved()
	s.logger.Debug("saved %s", s.path)
	return nil
}

// writeFileAtomic writes data to a temp file in the target directory and
// renames it into place.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}
