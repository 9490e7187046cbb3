package buffer

import "sync/atomic"

// RevisionID identifies a buffer state. Every write produces a new one.
// The zero value never identifies a buffer state.
type RevisionID uint64

var revisionCounter uint64

// NewRevisionID returns a process-unique revision ID.
func NewRevisionID() RevisionID {
	return RevisionID(atomic.AddUint64(&revisionCounter, 1))
}
