package searcher

import "github.com/coregx/dfamatch/dfa"

const nmmSize = 128

// Matcher scans one string for longest matches of a compiled automaton.
// It keeps a cursor, so repeated FindNext calls walk the string left to
// right, and a non-matching memo that short-circuits repeated unproductive
// scans. A Matcher is single-use scratch state; create one per string and
// per goroutine.
type Matcher[M comparable] struct {
	src          Chars
	currentMatch M
	hasMatch     bool
	currentStart int
	currentEnd   int

	// Non-matching memo. For every x >= nmmStart, reaching nmmStates[x]
	// at position nmmPositions[x] cannot lead to a better match than the
	// one already recorded, so the scan can stop there. Entries are
	// sorted by position; the region below nmmStart is staging space.
	nmmStart     int
	nmmPositions [nmmSize]int
	nmmStates    [nmmSize]dfa.State[M]
}

// NewMatcher creates a matcher over src with the cursor at the beginning.
func NewMatcher[M comparable](src Chars) *Matcher[M] {
	return &Matcher[M]{src: src, nmmStart: nmmSize}
}

// Match returns the accept value of the most recent match, if there was
// one.
func (m *Matcher[M]) Match() (M, bool) {
	return m.currentMatch, m.hasMatch
}

// Start returns the start position of the most recent match attempt.
func (m *Matcher[M]) Start() int {
	return m.currentStart
}

// End returns the position one past the most recent match, or the attempt's
// start position when nothing matched.
func (m *Matcher[M]) End() int {
	return m.currentEnd
}

// FindNext returns the first match at or after the cursor, trying
// successive start positions until one matches or the string ends. On
// success the cursor moves past the match.
func (m *Matcher[M]) FindNext(start dfa.State[M]) (M, bool) {
	pos := m.currentEnd
	ret, ok := m.MatchAt(start, pos)
	for !ok && pos < len(m.src) {
		pos++
		ret, ok = m.MatchAt(start, pos)
	}
	return ret, ok
}

// MatchNext returns the longest match beginning exactly at the cursor.
func (m *Matcher[M]) MatchNext(start dfa.State[M]) (M, bool) {
	return m.MatchAt(start, m.currentEnd)
}

// MatchAt returns the accept value of the longest accepting prefix of the
// string beginning at startPos, stepping the automaton from start until
// the input ends or a dead transition. When several prefixes accept, the
// longest wins.
func (m *Matcher[M]) MatchAt(start dfa.State[M], startPos int) (M, bool) {
	m.currentStart, m.currentEnd = startPos, startPos
	m.currentMatch, m.hasMatch = start.Match()
	lim := len(m.src)
	newNmmSize := 0
	writeNmmNext := startPos + 2

	s := start
scan:
	for pos := startPos; pos < lim; {
		s = s.Next(m.src[pos])
		pos++
		if s.IsDead() {
			break
		}
		if match, ok := s.Match(); ok {
			m.currentMatch, m.hasMatch = match, true
			m.currentEnd = pos
			newNmmSize = 0
			continue
		}

		// Only non-accepting runs consult the memo. Entries at or
		// before the current position that don't hit are expired.
		for m.nmmStart < nmmSize && m.nmmPositions[m.nmmStart] <= pos {
			if m.nmmPositions[m.nmmStart] == pos && m.nmmStates[m.nmmStart] == s {
				break scan
			}
			m.nmmStart++
		}
		if pos >= writeNmmNext && newNmmSize < m.nmmStart {
			m.nmmPositions[newNmmSize] = pos
			m.nmmStates[newNmmSize] = s
			newNmmSize++
			writeNmmNext += (writeNmmNext + 4 - startPos) >> 1
		}
	}

	// Drop live entries inside the window this scan covered, then merge
	// the staged entries in, keeping the live region sorted by position.
	for m.nmmStart < nmmSize && m.nmmPositions[m.nmmStart] < writeNmmNext {
		m.nmmStart++
	}
	for newNmmSize > 0 {
		newNmmSize--
		m.nmmStart--
		m.nmmPositions[m.nmmStart] = m.nmmPositions[newNmmSize]
		m.nmmStates[m.nmmStart] = m.nmmStates[newNmmSize]
	}

	return m.currentMatch, m.hasMatch
}
