// Package sequence allocates sequential, zero-padded numeric identifiers
// for a plain-text document.
//
// A document holds one identifier per line. A line is recognized as a Token
// when, after trimming surrounding whitespace, it consists of exactly Width
// ASCII digits (5 by default). All other lines are ignored.
//
// Allocation reads the document text, finds the last Token, and produces the
// values that follow it:
//
//	res := sequence.Allocate("00001\n00002\n00003", 0)
//	// res.Start == 4, res.End == 100
//	// res.Tokens[0].Text == "00004"
//	// res.InsertAt == 3
//
// The range always reaches at least minCount plus Headroom (100 by
// default), so a request for zero tokens on an empty document still yields
// Headroom tokens. Once the last identifier is past that point, exactly
// one new token follows it. Values are padded, never
// truncated: once the sequence passes 10^Width-1 the new lines are wider
// than the grammar and are no longer recognized on the next scan. Results
// that reach that point are marked Terminal.
//
// Allocation only extends the sequence. Gaps left by deleted lines are
// never backfilled, and values already present are skipped.
//
// Concurrency:
//
// Allocate is a pure function of its inputs and is safe for concurrent use.
// It does not apply the result. A caller that reads the text, allocates and
// then edits the document must make sure nothing else wrote to the document
// in between; otherwise InsertAt may point at a stale line.
package sequence
