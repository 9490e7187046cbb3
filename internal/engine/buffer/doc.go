// Package buffer provides a thread-safe, line-oriented text buffer used as
// the document a numbering command edits.
//
// The buffer package provides:
//
//   - Thread-safe read/write access via sync.RWMutex
//   - Line ending normalization on input
//   - Revision tracking so edits computed from a snapshot can be rejected
//     when the buffer changed in between
//   - Read-only snapshots for computing edits off the write path
//
// Basic usage:
//
//	buf := buffer.NewBufferFromString("00001\n00002")
//
//	snap := buf.Snapshot()
//	lines := compute(snap.Lines())
//
//	// Fails with ErrRevisionMismatch if buf was written after snap was taken.
//	_, err := buf.InsertLinesAt(2, lines, snap.RevisionID())
//
// Thread Safety:
//
// All Buffer methods are thread-safe. A Snapshot is immutable and can be
// shared freely.
package buffer
