// Package prefilter finds candidate match positions ahead of the automaton.
//
// A prefilter scans a byte haystack for literals that every match must
// begin with. Positions before the first literal occurrence cannot start a
// match, so the search can skip directly to it. A candidate is only a
// candidate: the automaton still decides whether a match actually starts
// there.
package prefilter

import (
	"github.com/coregx/ahocorasick"

	"github.com/coregx/dfamatch/literal"
)

// Prefilter reports candidate match positions in a byte haystack.
type Prefilter interface {
	// Find returns the position of the first candidate at or after 'at',
	// or -1 when no candidate remains.
	Find(haystack []byte, at int) int
}

// Literals is a multi-pattern literal prefilter backed by an Aho-Corasick
// automaton. It is immutable and safe for concurrent use.
type Literals struct {
	auto   *ahocorasick.Automaton
	minLen int
}

// NewLiterals compiles the literals of seq into a prefilter. The sequence
// must be non-empty.
func NewLiterals(seq *literal.Seq) (*Literals, error) {
	builder := ahocorasick.NewBuilder()
	for i := 0; i < seq.Len(); i++ {
		builder.AddPattern(seq.Get(i).Bytes)
	}
	auto, err := builder.Build()
	if err != nil {
		return nil, err
	}
	return &Literals{auto: auto, minLen: seq.MinLen()}, nil
}

// Find returns the start of the leftmost literal occurrence at or after
// 'at', or -1 when none of the literals occurs there.
func (p *Literals) Find(haystack []byte, at int) int {
	if at >= len(haystack) {
		return -1
	}
	m := p.auto.Find(haystack, at)
	if m == nil {
		return -1
	}
	return m.Start
}

// MinLen returns the length of the shortest literal the prefilter scans
// for.
func (p *Literals) MinLen() int {
	return p.minLen
}
