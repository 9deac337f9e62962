package literal

import "github.com/coregx/dfamatch/pattern"

// Extract recognizes a pattern set consisting entirely of case-sensitive
// ASCII string literals and returns them as a deduplicated sequence. It
// reports false when any pattern is not such a literal, when a literal is
// empty, or when a literal contains a character outside the ASCII range.
// Every extracted literal is complete.
func Extract(pats []pattern.Pattern) (*Seq, bool) {
	seq := NewSeq()
	for _, p := range pats {
		chars, ok := p.LiteralChars()
		if !ok || len(chars) == 0 {
			return nil, false
		}
		b := make([]byte, len(chars))
		for i, c := range chars {
			if c > 0x7F {
				return nil, false
			}
			b[i] = byte(c)
		}
		seq.Push(NewLiteral(b, true))
	}
	seq.Dedupe()
	return seq, true
}
