package searcher

import (
	"github.com/coregx/dfamatch/dfa"
	"github.com/coregx/dfamatch/prefilter"
)

// ReplaceFunc generates the replacement for one match. It may append any
// content to dest and returns the position where scanning resumes, at
// least start and at most len(src). Returning end continues right after
// the match; returning a larger position skips input; returning start
// leaves the matched text to be passed through again.
type ReplaceFunc[M comparable] func(dest *ReplaceAppendable, mr M, src Chars, start, end int) int

// StringSearcher finds occurrences of a compiled pattern set in strings
// and rewrites them. It is immutable and safe for concurrent use; each
// call gets its own scratch state.
type StringSearcher[M comparable] struct {
	start dfa.State[M]
	pf    prefilter.Prefilter
}

// NewStringSearcher creates a searcher scanning from the given start
// state. A non-nil prefilter is consulted on ASCII inputs to skip ahead to
// candidate match positions; it must be one that never skips a real match
// of the pattern set.
func NewStringSearcher[M comparable](start dfa.State[M], pf prefilter.Prefilter) *StringSearcher[M] {
	return &StringSearcher[M]{start: start, pf: pf}
}

// FindAndReplace rewrites src by applying replace to every match, left to
// right, passing unmatched stretches through unchanged. At a given
// position the longest match wins. If no match fires, the original string
// is returned without copying.
func (s *StringSearcher[M]) FindAndReplace(src string, replace ReplaceFunc[M]) string {
	chars := NewChars(src)
	var ascii []byte
	if s.pf != nil {
		ascii, _ = chars.Ascii()
	}

	m := NewMatcher[M](chars)
	var dest *ReplaceAppendable
	doneTo := 0
	for pos := 0; pos <= len(chars); {
		matchPos := pos
		if ascii != nil {
			cand := s.pf.Find(ascii, matchPos)
			if cand < 0 {
				break
			}
			matchPos = cand
		}
		mr, ok := m.MatchAt(s.start, matchPos)
		if !ok {
			pos = matchPos + 1
			continue
		}
		start, end := m.Start(), m.End()
		if dest == nil {
			dest = NewReplaceAppendable(src, chars)
		}
		dest.Append(chars, doneTo, start)
		next := replace(dest, mr, chars, start, end)
		if next < start {
			next = start
		} else if next > len(chars) {
			next = len(chars)
		}
		doneTo = next
		// Resume past the match start even when the callback did not
		// advance, so every iteration makes progress.
		pos = next
		if pos <= start {
			pos = start + 1
		}
	}

	if dest == nil {
		return src
	}
	dest.Append(chars, doneTo, len(chars))
	return dest.String()
}
