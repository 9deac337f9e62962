// Package searcher runs compiled automata over strings: longest-match
// scanning with a bounded non-matching memo, and a search-and-replace
// driver over a copy-on-write output buffer.
package searcher

import "unicode/utf16"

// Chars is a string decoded into 16-bit code units, the alphabet the
// automata run on. All positions reported by a Matcher and passed to
// replacement callbacks are indices into this sequence. Characters outside
// the basic multilingual plane occupy two units as a surrogate pair.
type Chars []uint16

// NewChars decodes s into code units.
func NewChars(s string) Chars {
	return utf16.Encode([]rune(s))
}

// String encodes the code units back into a string.
func (c Chars) String() string {
	return string(utf16.Decode(c))
}

// Ascii returns the sequence as bytes if every unit is in the ASCII range,
// or nil and false otherwise. For an ASCII sequence, byte offsets and code
// unit offsets coincide.
func (c Chars) Ascii() ([]byte, bool) {
	b := make([]byte, len(c))
	for i, u := range c {
		if u > 0x7F {
			return nil, false
		}
		b[i] = byte(u)
	}
	return b, true
}
