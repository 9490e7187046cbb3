package sequence

import "testing"

func TestParseToken(t *testing.T) {
	tests := []struct {
		line  string
		ok    bool
		value int
	}{
		{"00001", true, 1},
		{"12345", true, 12345},
		{"  00042\t", true, 42},
		{"00042\r", true, 42},
		{"0001", false, 0},
		{"000001", false, 0},
		{"0000a", false, 0},
		{"x00001", false, 0},
		{"00001 x", false, 0},
		{"+0001", false, 0},
		{"", false, 0},
		{"     ", false, 0},
	}

	for _, tt := range tests {
		tok, ok := ParseToken(tt.line, 5)
		if ok != tt.ok {
			t.Errorf("ParseToken(%q) ok = %v, want %v", tt.line, ok, tt.ok)
			continue
		}
		if ok && tok.Value != tt.value {
			t.Errorf("ParseToken(%q) value = %d, want %d", tt.line, tok.Value, tt.value)
		}
	}
}

func TestFormat(t *testing.T) {
	tests := []struct {
		value int
		width int
		want  string
	}{
		{1, 5, "00001"},
		{99999, 5, "99999"},
		{100000, 5, "100000"},
		{7, 3, "007"},
		{0, 5, "00000"},
	}

	for _, tt := range tests {
		if got := Format(tt.value, tt.width); got != tt.want {
			t.Errorf("Format(%d, %d) = %q, want %q", tt.value, tt.width, got, tt.want)
		}
	}
}

func TestScanLedger(t *testing.T) {
	l := Scan("a\n00002\n\n00005\n123456\nb")

	if l.Len() != 2 {
		t.Fatalf("Len = %d, want 2", l.Len())
	}
	if l.LastLine != 3 {
		t.Errorf("LastLine = %d, want 3", l.LastLine)
	}
	if l.LineCount != 6 {
		t.Errorf("LineCount = %d, want 6", l.LineCount)
	}
	if l.Oversized != 1 {
		t.Errorf("Oversized = %d, want 1", l.Oversized)
	}
	if !l.Has(2) || !l.Has(5) || l.Has(3) {
		t.Error("Has reports wrong membership")
	}
	if l.LastValue() != 5 {
		t.Errorf("LastValue = %d, want 5", l.LastValue())
	}
}

func TestScanEmpty(t *testing.T) {
	l := Scan("")

	if _, ok := l.Last(); ok {
		t.Error("Last() ok on empty ledger")
	}
	if l.LastValue() != 0 {
		t.Errorf("LastValue = %d, want 0", l.LastValue())
	}
	if l.LastLine != -1 {
		t.Errorf("LastLine = %d, want -1", l.LastLine)
	}
}
