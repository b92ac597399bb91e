// Package lexical provides ASCII case-insensitive string comparison used to
// match configuration values against device and command names.
package lexical

// Compare compares a and b ignoring ASCII case.
//
// The walk stops at the first differing pair or when either string runs out.
// A mismatch returns the difference of the upper-cased bytes. When one string
// is a prefix of the other the result is the difference between the end marker
// (0) and the next byte of the longer string, taken as-is, so the shorter
// string always compares less.
//
// Bytes are unsigned, so a byte at or above 0x80 sorts after every ASCII byte
// and after the end of a string: Compare("\xe9", "") is 233.
func Compare(a, b string) int {
	return compare(a, b, -1)
}

// CompareN is Compare limited to the first n byte pairs. If n pairs are equal
// the result is 0 regardless of what follows. A non-positive n yields 0.
func CompareN(a, b string, n int) int {
	if n <= 0 {
		return 0
	}
	return compare(a, b, n)
}

func compare(a, b string, n int) int {
	i := 0
	for ; i < len(a) && i < len(b); i++ {
		if n >= 0 && i == n {
			return 0
		}
		ca, cb := upper(a[i]), upper(b[i])
		if ca != cb {
			return int(ca) - int(cb)
		}
	}
	if n >= 0 && i == n {
		return 0
	}
	return int(at(a, i)) - int(at(b, i))
}

// at returns the byte at i, or 0 past the end.
func at(s string, i int) byte {
	if i < len(s) {
		return s[i]
	}
	return 0
}

func upper(c byte) byte {
	if 'a' <= c && c <= 'z' {
		return c - ('a' - 'A')
	}
	return c
}
