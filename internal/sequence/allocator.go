package sequence

import "strings"

// Defaults and limits for the token grammar and allocation window.
const (
	DefaultWidth    = 5
	DefaultHeadroom = 100

	// MaxHeadroom is the largest headroom WithHeadroom accepts.
	MaxHeadroom = 1_000_000
)

// Result describes the tokens to append to a document.
type Result struct {
	// Tokens are the new tokens in ascending order.
	Tokens []Token

	// Start and End bound the scanned range, inclusive.
	Start int
	End   int

	// LastValue is the value of the last existing token, or 0.
	LastValue int

	// LastTokenLine is the line index after which the tokens go,
	// or -1 when the document has no tokens.
	LastTokenLine int

	// InsertAt is the zero-based line at which the new tokens begin.
	InsertAt int

	// Terminal is set when the sequence has outgrown the token width.
	// Lines produced past that point are not recognized by later scans.
	Terminal bool
}

// Lines returns the token texts in order.
func (r Result) Lines() []string {
	lines := make([]string, len(r.Tokens))
	for i, t := range r.Tokens {
		lines[i] = t.Text
	}
	return lines
}

// Text returns the new tokens joined by newlines.
func (r Result) Text() string {
	return strings.Join(r.Lines(), "\n")
}

// Empty reports whether there is nothing to insert.
func (r Result) Empty() bool {
	return len(r.Tokens) == 0
}

// Allocator computes new tokens for a document.
// The zero value is not usable; create one with New.
type Allocator struct {
	width    int
	headroom int
}

// Option configures an Allocator.
type Option func(*Allocator)

// WithWidth sets the token width in digits.
// Widths outside 1..9 are ignored.
func WithWidth(width int) Option {
	return func(a *Allocator) {
		if width >= 1 && width <= 9 {
			a.width = width
		}
	}
}

// WithHeadroom sets how far past the requested count the range extends.
// Values outside 0..MaxHeadroom are ignored.
func WithHeadroom(n int) Option {
	return func(a *Allocator) {
		if n >= 0 && n <= MaxHeadroom {
			a.headroom = n
		}
	}
}

// New creates an allocator.
func New(opts ...Option) *Allocator {
	a := &Allocator{
		width:    DefaultWidth,
		headroom: DefaultHeadroom,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Width returns the token width.
func (a *Allocator) Width() int {
	return a.width
}

// Headroom returns the configured headroom.
func (a *Allocator) Headroom() int {
	return a.headroom
}

// MaxCount returns the largest useful minimum count: the largest value
// the token width can hold.
func (a *Allocator) MaxCount() int {
	return maxValue(a.width)
}

// Scan builds the ledger for text using this allocator's width.
func (a *Allocator) Scan(text string) Ledger {
	return scan(text, a.width)
}

// Allocate returns the tokens to append to text so that its identifiers
// reach at least minCount plus headroom. Values already present are skipped.
// Negative counts are treated as zero and counts above MaxCount as
// MaxCount, so End never exceeds MaxCount plus headroom.
func (a *Allocator) Allocate(text string, minCount int) Result {
	minCount = min(max(minCount, 0), a.MaxCount())

	ledger := a.Scan(text)
	last := ledger.LastValue()
	start := last + 1
	end := max(start, minCount+a.headroom)

	res := Result{
		Start:         start,
		End:           end,
		LastValue:     last,
		LastTokenLine: ledger.LastLine,
		InsertAt:      ledger.LastLine + 1,
		Terminal:      ledger.Oversized > 0,
		Tokens:        make([]Token, 0, min(end-start+1, 4096)),
	}

	limit := maxValue(a.width)
	for v := start; v <= end; v++ {
		if ledger.Has(v) {
			continue
		}
		res.Tokens = append(res.Tokens, Token{Value: v, Text: Format(v, a.width), Line: -1})
		if v > limit {
			res.Terminal = true
		}
	}
	return res
}

var defaultAllocator = New()

// Allocate runs the default allocator.
func Allocate(text string, minCount int) Result {
	return defaultAllocator.Allocate(text, minCount)
}
