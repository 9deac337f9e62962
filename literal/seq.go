// Package literal recognizes pattern sets that consist entirely of plain
// string literals and represents them as byte sequences for prefiltering.
//
// When every pattern in a set is a fixed ASCII string, a search does not
// need to probe each position of the input: a multi-pattern substring scan
// can jump straight to the next position where any of the literals occurs,
// and only there does the automaton need to run.
package literal

import "bytes"

// Literal is one fixed byte sequence from a pattern set. Complete reports
// whether an occurrence of the literal is by itself a full pattern match,
// as opposed to only a required prefix of one.
type Literal struct {
	Bytes    []byte
	Complete bool
}

// NewLiteral creates a Literal over b.
func NewLiteral(b []byte, complete bool) Literal {
	return Literal{Bytes: b, Complete: complete}
}

// Len returns the length of the literal in bytes.
func (l Literal) Len() int {
	return len(l.Bytes)
}

// Seq is an ordered set of alternative literals.
type Seq struct {
	literals []Literal
}

// NewSeq creates a sequence from the given literals.
func NewSeq(lits ...Literal) *Seq {
	return &Seq{literals: lits}
}

// Len returns the number of literals in the sequence.
func (s *Seq) Len() int {
	return len(s.literals)
}

// IsEmpty reports whether the sequence holds no literals.
func (s *Seq) IsEmpty() bool {
	return len(s.literals) == 0
}

// Get returns the i'th literal.
func (s *Seq) Get(i int) Literal {
	return s.literals[i]
}

// Push appends a literal to the sequence.
func (s *Seq) Push(l Literal) {
	s.literals = append(s.literals, l)
}

// Dedupe removes exact duplicate byte sequences, keeping the first
// occurrence of each. A duplicate is complete if any of its copies was.
func (s *Seq) Dedupe() {
	out := s.literals[:0]
	for _, l := range s.literals {
		dup := false
		for i := range out {
			if bytes.Equal(out[i].Bytes, l.Bytes) {
				out[i].Complete = out[i].Complete || l.Complete
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, l)
		}
	}
	s.literals = out
}

// MinLen returns the length of the shortest literal, or 0 for an empty
// sequence.
func (s *Seq) MinLen() int {
	if len(s.literals) == 0 {
		return 0
	}
	min := s.literals[0].Len()
	for _, l := range s.literals[1:] {
		if l.Len() < min {
			min = l.Len()
		}
	}
	return min
}
