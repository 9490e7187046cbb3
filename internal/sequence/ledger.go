package sequence

import "strings"

// Ledger is the ordered set of tokens found in a document.
type Ledger struct {
	// Tokens in document order.
	Tokens []Token

	// LastLine is the line index of the last token, or -1 if there is none.
	LastLine int

	// LineCount is the number of lines in the scanned text.
	LineCount int

	// Oversized counts all-digit lines wider than the token width.
	// They are what an exhausted sequence leaves behind.
	Oversized int

	values map[int]struct{}
}

// Len returns the number of tokens.
func (l Ledger) Len() int {
	return len(l.Tokens)
}

// Last returns the last token and true, or a zero token and false if empty.
func (l Ledger) Last() (Token, bool) {
	if len(l.Tokens) == 0 {
		return Token{}, false
	}
	return l.Tokens[len(l.Tokens)-1], true
}

// LastValue returns the value of the last token, or 0 if empty.
func (l Ledger) LastValue() int {
	if t, ok := l.Last(); ok {
		return t.Value
	}
	return 0
}

// Has reports whether value is already present.
func (l Ledger) Has(value int) bool {
	_, ok := l.values[value]
	return ok
}

// Scan builds the ledger for text using the default token width.
func Scan(text string) Ledger {
	return scan(text, DefaultWidth)
}

func scan(text string, width int) Ledger {
	lines := strings.Split(text, "\n")
	l := Ledger{
		LastLine:  -1,
		LineCount: len(lines),
		values:    make(map[int]struct{}),
	}
	for i, line := range lines {
		tok, ok := ParseToken(line, width)
		if !ok {
			if s := strings.TrimSpace(line); len(s) > width && isDigits(s) {
				l.Oversized++
			}
			continue
		}
		tok.Line = i
		l.Tokens = append(l.Tokens, tok)
		l.values[tok.Value] = struct{}{}
		l.LastLine = i
	}
	return l
}
