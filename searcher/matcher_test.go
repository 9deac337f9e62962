package searcher_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/coregx/dfamatch/dfa"
	"github.com/coregx/dfamatch/nfa"
	"github.com/coregx/dfamatch/pattern"
	"github.com/coregx/dfamatch/searcher"
)

// compile builds a single-language DFA accepting each pattern with its
// position in pats as the accept value.
func compile(t *testing.T, pats ...pattern.Pattern) dfa.State[int] {
	t.Helper()
	var n nfa.NFA[int]
	start := n.AddState()
	for i, p := range pats {
		acc := n.AddAcceptingState(i)
		n.AddEpsilon(start, p.EmitIntoNFA(&n, acc))
	}
	d, err := dfa.Build(&n, []int{start}, func(candidates []int) (int, error) {
		min := candidates[0]
		for _, c := range candidates[1:] {
			if c < min {
				min = c
			}
		}
		return min, nil
	}, dfa.DefaultConfig())
	require.NoError(t, err)
	return d.Start(0)
}

type span struct {
	start, end, accept int
}

func allMatches(start dfa.State[int], src string) []span {
	m := searcher.NewMatcher[int](searcher.NewChars(src))
	var out []span
	for {
		v, ok := m.FindNext(start)
		if !ok {
			return out
		}
		out = append(out, span{m.Start(), m.End(), v})
	}
}

func TestMatcher_FindNext(t *testing.T) {
	num := pattern.Repeat(pattern.Range('0', '9'))
	id := pattern.Match("foo")

	t.Run("token stream", func(t *testing.T) {
		start := compile(t, num, id)
		got := allMatches(start, "foo123bar")
		require.Equal(t, []span{{0, 3, 1}, {3, 6, 0}}, got)
	})

	t.Run("no match", func(t *testing.T) {
		start := compile(t, num)
		require.Empty(t, allMatches(start, "none here"))
	})

	t.Run("match at end", func(t *testing.T) {
		start := compile(t, id)
		got := allMatches(start, "xxfoo")
		require.Equal(t, []span{{2, 5, 0}}, got)
	})

	t.Run("case insensitive", func(t *testing.T) {
		start := compile(t, pattern.MatchI("HeLLo"))
		got := allMatches(start, "say hello HELLO HeLlO")
		require.Equal(t, []span{{4, 9, 0}, {10, 15, 0}, {16, 21, 0}}, got)
	})
}

func TestMatcher_LongestMatch(t *testing.T) {
	// Both "a" and "ab" accept; the longer prefix wins at position 0 and
	// nothing matches afterwards.
	start := compile(t, pattern.Match("a"), pattern.Match("ab"))
	m := searcher.NewMatcher[int](searcher.NewChars("abc"))

	v, ok := m.MatchAt(start, 0)
	require.True(t, ok)
	require.Equal(t, 1, v)
	require.Equal(t, 0, m.Start())
	require.Equal(t, 2, m.End())

	_, ok = m.FindNext(start)
	require.False(t, ok)
}

func TestMatcher_MatchNext(t *testing.T) {
	start := compile(t, pattern.Repeat(pattern.Range('a', 'z')))
	m := searcher.NewMatcher[int](searcher.NewChars("ab cd"))

	v, ok := m.MatchNext(start)
	require.True(t, ok)
	require.Equal(t, 0, v)
	require.Equal(t, 2, m.End())

	// Cursor sits on the space, where the pattern has no match.
	_, ok = m.MatchNext(start)
	require.False(t, ok)
}

func TestMatcher_EmptyMatch(t *testing.T) {
	start := compile(t, pattern.Maybe(pattern.Match("x")))
	m := searcher.NewMatcher[int](searcher.NewChars("ax"))

	v, ok := m.MatchAt(start, 0)
	require.True(t, ok)
	require.Equal(t, 0, v)
	require.Equal(t, 0, m.End())

	v, ok = m.MatchAt(start, 1)
	require.True(t, ok)
	require.Equal(t, 0, v)
	require.Equal(t, 2, m.End())

	// The start state itself accepts, so even the end of input matches.
	_, ok = m.MatchAt(start, 2)
	require.True(t, ok)
	require.Equal(t, 2, m.End())
}

func TestMatcher_LongNonMatchingRuns(t *testing.T) {
	// The scan from position 0 walks the whole run of 'b's and gives up
	// at its end; scans from later positions die on their first unit.
	// Correctness over the long run is what we assert.
	p := pattern.Match("a").ThenMaybeRepeat(pattern.Match("b")).ThenString("c")
	start := compile(t, p)

	long := "a" + strings.Repeat("b", 5000)
	require.Empty(t, allMatches(start, long))

	got := allMatches(start, long+"c")
	require.Equal(t, []span{{0, len(long) + 1, 0}}, got)
}

func TestMatcher_SurrogatePairs(t *testing.T) {
	emoji := "\U0001F600"
	start := compile(t, pattern.Match(emoji))
	src := "hi" + emoji + "!"
	got := allMatches(start, src)
	// The emoji occupies two code units.
	require.Equal(t, []span{{2, 4, 0}}, got)
}
