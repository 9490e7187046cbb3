package sequence

import (
	"fmt"
	"strconv"
	"strings"
)

// Token is a recognized identifier line.
type Token struct {
	// Value is the numeric value of the token.
	Value int

	// Text is the zero-padded textual form.
	Text string

	// Line is the zero-based line index the token was read from,
	// or -1 for tokens produced by an allocation.
	Line int
}

// String returns the token text.
func (t Token) String() string {
	return t.Text
}

// Format renders value zero-padded to width digits.
// Values wider than width are rendered in full.
func Format(value, width int) string {
	return fmt.Sprintf("%0*d", width, value)
}

// ParseToken reports whether line is a token of the given width and returns it.
// The whole trimmed line must be digits; partial matches are rejected.
func ParseToken(line string, width int) (Token, bool) {
	s := strings.TrimSpace(line)
	if len(s) != width || !isDigits(s) {
		return Token{}, false
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return Token{}, false
	}
	return Token{Value: v, Text: s, Line: -1}, true
}

// isDigits reports whether s is non-empty and all ASCII digits.
func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// maxValue returns the largest value representable in width digits.
func maxValue(width int) int {
	m := 1
	for i := 0; i < width; i++ {
		m *= 10
	}
	return m - 1
}
