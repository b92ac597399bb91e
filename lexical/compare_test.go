package lexical

import "testing"

func TestCompare(t *testing.T) {
	tests := []struct {
		a, b string
		want int // sign only
	}{
		{"Abc", "abc", 0},
		{"abc", "ABC", 0},
		{"abc", "abd", -1},
		{"abd", "abc", 1},
		{"", "", 0},
		{"ab", "abc", -1},
		{"abc", "ab", 1},
		{"", "a", -1},
		{"COM1", "com2", -1},
		{"ttyUSB0", "TTYusb0", 0},
		{"a1", "A1", 0},
		{"[", "a", 1}, // 'a' folds to 'A', which is below '['
	}

	for _, tt := range tests {
		got := Compare(tt.a, tt.b)
		if sign(got) != tt.want {
			t.Errorf("Compare(%q, %q) = %d, want sign %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestComparePrefixUsesRawNextByte(t *testing.T) {
	// The longer string's next byte is compared against the end marker without
	// case folding.
	if got := Compare("ab", "abc"); got != -int('c') {
		t.Errorf("Compare(\"ab\", \"abc\") = %d, want %d", got, -int('c'))
	}
	if got := Compare("ABC", "ab"); got != int('C') {
		t.Errorf("Compare(\"ABC\", \"ab\") = %d, want %d", got, int('C'))
	}
}

func TestCompareMismatchIsUpperCased(t *testing.T) {
	if got := Compare("abc", "abd"); got != int('C')-int('D') {
		t.Errorf("Compare(\"abc\", \"abd\") = %d, want %d", got, int('C')-int('D'))
	}
	if got := Compare("a", "B"); got != -1 {
		t.Errorf("Compare(\"a\", \"B\") = %d, want -1", got)
	}
}

func TestCompareHighBytesAreUnsigned(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"\xe9", "", 0xe9},
		{"", "\xe9", -0xe9},
		{"\xe9", "z", 0xe9 - 'Z'},
		{"\xe9", "\xc9", 0xe9 - 0xc9}, // no folding outside ASCII
	}

	for _, tt := range tests {
		if got := Compare(tt.a, tt.b); got != tt.want {
			t.Errorf("Compare(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestCompareN(t *testing.T) {
	tests := []struct {
		a, b string
		n    int
		want int // sign only
	}{
		{"abcXYZ", "abcQRS", 3, 0},
		{"abcXYZ", "abcQRS", 4, 1},
		{"ab", "abc", 3, -1},
		{"ab", "abc", 2, 0},
		{"abc", "ab", 3, 1},
		{"Hello", "hELLO", 10, 0},
		{"abc", "xyz", 0, 0},
		{"abc", "xyz", -1, 0},
		{"", "", 5, 0},
		{"", "x", 1, -1},
	}

	for _, tt := range tests {
		got := CompareN(tt.a, tt.b, tt.n)
		if sign(got) != tt.want {
			t.Errorf("CompareN(%q, %q, %d) = %d, want sign %d", tt.a, tt.b, tt.n, got, tt.want)
		}
	}
}

func sign(v int) int {
	switch {
	case v < 0:
		return -1
	case v > 0:
		return 1
	}
	return 0
}
