// Package scratch holds the scratch document that receives sequential
// identifiers and applies allocations to it.
//
// A Session owns the document buffer and an allocator. Number performs one
// full command: snapshot the buffer, allocate from the snapshot text, apply
// the insertion, and report where the caller's cursor should land.
//
// The allocation is computed from a snapshot and applied afterwards. If the
// buffer is written in between, the insertion is rejected with
// ErrStaleSnapshot instead of landing on the wrong line. Number holds the
// session lock across both steps; callers that split the work with Plan and
// Apply must provide that single-writer discipline themselves.
package scratch
