// Package pattern provides an immutable algebra for describing the languages
// a DFA is compiled from.
//
// Patterns are built from literals, character ranges, unions, repetitions and
// concatenations. A pattern never changes after construction; combinators
// return new values. Text is modeled as 16-bit code units, so a Go string is
// interpreted as its UTF-16 encoding and supplementary-plane characters
// traverse as surrogate pairs.
package pattern

import (
	"unicode"
	"unicode/utf16"
)

// NFABuilder is the surface a pattern needs to emit itself into an automaton.
// It is satisfied by *nfa.NFA.
type NFABuilder interface {
	// AddState adds a new non-accepting state and returns its index.
	AddState() int
	// AddTransition adds a transition from state from to state to,
	// taken on any code unit c with first <= c <= last.
	AddTransition(from, to int, first, last uint16)
	// AddEpsilon adds an epsilon transition from state from to state to.
	AddEpsilon(from, to int)
}

// Matchable is anything that can emit itself into an NFA. Pattern implements
// it; external implementations can be wrapped with FromMatchable.
//
// EmitIntoNFA must create whatever new states it needs and return a state
// that reaches target exactly by matching the language. It must not add any
// transition out of target or out of any other pre-existing state.
type Matchable interface {
	MatchesEmpty() bool
	EmitIntoNFA(b NFABuilder, target int) int
}

// Pattern is an immutable description of a matchable language.
// The zero value matches exactly the empty string.
type Pattern struct {
	n node
}

type node interface {
	matchesEmpty() bool
	emit(b NFABuilder, target int) int
	// sign appends a canonical encoding of the node to s.
	// It reports false if the node has no stable encoding.
	sign(s *signer) bool
}

func (p Pattern) node() node {
	if p.n == nil {
		return emptyNode{}
	}
	return p.n
}

// MatchesEmpty reports whether the pattern matches the empty string.
func (p Pattern) MatchesEmpty() bool {
	return p.node().matchesEmpty()
}

// EmitIntoNFA adds states matching the pattern to b, transitioning to target
// on a match. It returns the entry state, which may be target itself when the
// pattern matches only the empty string. No transitions are added out of
// target or any other pre-existing state.
func (p Pattern) EmitIntoNFA(b NFABuilder, target int) int {
	return p.node().emit(b, target)
}

// Match returns a pattern that matches exactly the given string.
func Match(s string) Pattern {
	return Pattern{literalNode{chars: utf16.Encode([]rune(s))}}
}

// MatchI returns a pattern that matches the given string, ignoring case.
// Case folding is applied per code unit.
func MatchI(s string) Pattern {
	return Pattern{literalNode{chars: utf16.Encode([]rune(s)), foldCase: true}}
}

// Empty returns a pattern that matches exactly the empty string.
func Empty() Pattern {
	return Pattern{emptyNode{}}
}

// FromMatchable wraps an external Matchable as a Pattern.
// The result cannot participate in build-cache digests.
func FromMatchable(m Matchable) Pattern {
	if p, ok := m.(Pattern); ok {
		return p
	}
	return Pattern{matchableNode{m}}
}

// AnyOf returns a pattern that matches any of the given patterns.
// With no arguments it matches nothing at all.
func AnyOf(patterns ...Pattern) Pattern {
	choices := make([]node, len(patterns))
	for i, p := range patterns {
		choices[i] = p.node()
	}
	return Pattern{newUnionNode(choices)}
}

// AnyOfStrings returns a pattern that matches any of the given strings.
func AnyOfStrings(strs ...string) Pattern {
	choices := make([]node, len(strs))
	for i, s := range strs {
		choices[i] = Match(s).n
	}
	return Pattern{newUnionNode(choices)}
}

// AnyOfStringsI returns a pattern that matches any of the given strings,
// ignoring case.
func AnyOfStringsI(strs ...string) Pattern {
	choices := make([]node, len(strs))
	for i, s := range strs {
		choices[i] = MatchI(s).n
	}
	return Pattern{newUnionNode(choices)}
}

// Repeat returns a pattern that matches one or more occurrences of p.
func Repeat(p Pattern) Pattern {
	return Pattern{repeatNode{sub: p.node(), atLeastOne: true}}
}

// RepeatString returns a pattern that matches one or more occurrences of the
// given string.
func RepeatString(s string) Pattern {
	return Repeat(Match(s))
}

// RepeatStringI returns a pattern that matches one or more occurrences of the
// given string, ignoring case.
func RepeatStringI(s string) Pattern {
	return Repeat(MatchI(s))
}

// MaybeRepeat returns a pattern that matches zero or more occurrences of p.
func MaybeRepeat(p Pattern) Pattern {
	return Pattern{repeatNode{sub: p.node()}}
}

// MaybeRepeatString returns a pattern that matches zero or more occurrences
// of the given string.
func MaybeRepeatString(s string) Pattern {
	return MaybeRepeat(Match(s))
}

// MaybeRepeatStringI returns a pattern that matches zero or more occurrences
// of the given string, ignoring case.
func MaybeRepeatStringI(s string) Pattern {
	return MaybeRepeat(MatchI(s))
}

// Maybe returns a pattern that matches p or the empty string.
func Maybe(p Pattern) Pattern {
	return Pattern{optionalNode{sub: p.node()}}
}

// MaybeString returns a pattern that matches the given string or the empty
// string.
func MaybeString(s string) Pattern {
	return Maybe(Match(s))
}

// MaybeStringI returns a pattern that matches the given string or the empty
// string, ignoring case.
func MaybeStringI(s string) Pattern {
	return Maybe(MatchI(s))
}

// Then returns a pattern that matches this pattern followed by p.
func (p Pattern) Then(q Pattern) Pattern {
	return Pattern{newCatNode(p.node(), q.node())}
}

// ThenString returns a pattern that matches this pattern followed by the
// given string.
func (p Pattern) ThenString(s string) Pattern {
	return p.Then(Match(s))
}

// ThenStringI returns a pattern that matches this pattern followed by the
// given string, ignoring case.
func (p Pattern) ThenStringI(s string) Pattern {
	return p.Then(MatchI(s))
}

// ThenRepeat returns a pattern that matches this pattern followed by one or
// more occurrences of q.
func (p Pattern) ThenRepeat(q Pattern) Pattern {
	return p.Then(Repeat(q))
}

// ThenRepeatString returns a pattern that matches this pattern followed by
// one or more occurrences of the given string.
func (p Pattern) ThenRepeatString(s string) Pattern {
	return p.Then(RepeatString(s))
}

// ThenRepeatStringI returns a pattern that matches this pattern followed by
// one or more occurrences of the given string, ignoring case.
func (p Pattern) ThenRepeatStringI(s string) Pattern {
	return p.Then(RepeatStringI(s))
}

// ThenMaybe returns a pattern that matches this pattern, optionally followed
// by q.
func (p Pattern) ThenMaybe(q Pattern) Pattern {
	return p.Then(Maybe(q))
}

// ThenMaybeString returns a pattern that matches this pattern, optionally
// followed by the given string.
func (p Pattern) ThenMaybeString(s string) Pattern {
	return p.Then(MaybeString(s))
}

// ThenMaybeStringI returns a pattern that matches this pattern, optionally
// followed by the given string, ignoring case.
func (p Pattern) ThenMaybeStringI(s string) Pattern {
	return p.Then(MaybeStringI(s))
}

// ThenMaybeRepeat returns a pattern that matches this pattern followed by
// zero or more occurrences of q.
func (p Pattern) ThenMaybeRepeat(q Pattern) Pattern {
	return p.Then(MaybeRepeat(q))
}

// ThenMaybeRepeatString returns a pattern that matches this pattern followed
// by zero or more occurrences of the given string.
func (p Pattern) ThenMaybeRepeatString(s string) Pattern {
	return p.Then(MaybeRepeatString(s))
}

// ThenMaybeRepeatStringI returns a pattern that matches this pattern followed
// by zero or more occurrences of the given string, ignoring case.
func (p Pattern) ThenMaybeRepeatStringI(s string) Pattern {
	return p.Then(MaybeRepeatStringI(s))
}

// LiteralChars returns the exact code-unit sequence the pattern matches, if
// it matches exactly one case-sensitive string. The second result reports
// whether such a sequence exists.
func (p Pattern) LiteralChars() ([]uint16, bool) {
	return literalCharsOf(p.node())
}

func literalCharsOf(n node) ([]uint16, bool) {
	switch n := n.(type) {
	case emptyNode:
		return nil, true
	case literalNode:
		if n.foldCase && len(n.chars) > 0 {
			return nil, false
		}
		return n.chars, true
	case catNode:
		a, ok := literalCharsOf(n.first)
		if !ok {
			return nil, false
		}
		b, ok := literalCharsOf(n.then)
		if !ok {
			return nil, false
		}
		out := make([]uint16, 0, len(a)+len(b))
		out = append(out, a...)
		return append(out, b...), true
	}
	return nil, false
}

type emptyNode struct{}

func (emptyNode) matchesEmpty() bool                { return true }
func (emptyNode) emit(_ NFABuilder, target int) int { return target }

type literalNode struct {
	chars    []uint16
	foldCase bool
}

func (n literalNode) matchesEmpty() bool { return len(n.chars) == 0 }

func (n literalNode) emit(b NFABuilder, target int) int {
	for i := len(n.chars) - 1; i >= 0; i-- {
		c := n.chars[i]
		st := b.AddState()
		b.AddTransition(st, target, c, c)
		if n.foldCase {
			for _, f := range caseVariants(c) {
				b.AddTransition(st, target, f, f)
			}
		}
		target = st
	}
	return target
}

// caseVariants returns the case-folded forms of c other than c itself that
// still fit in a single code unit.
func caseVariants(c uint16) []uint16 {
	r := rune(c)
	var out []uint16
	if lc := unicode.ToLower(r); lc != r && lc <= 0xFFFF {
		out = append(out, uint16(lc))
	}
	if uc := unicode.ToUpper(r); uc != r && uc <= 0xFFFF {
		out = append(out, uint16(uc))
	}
	return out
}

type catNode struct {
	first, then node
	empty       bool
}

func newCatNode(first, then node) catNode {
	return catNode{
		first: first,
		then:  then,
		empty: first.matchesEmpty() && then.matchesEmpty(),
	}
}

func (n catNode) matchesEmpty() bool { return n.empty }

func (n catNode) emit(b NFABuilder, target int) int {
	target = n.then.emit(b, target)
	return n.first.emit(b, target)
}

type unionNode struct {
	choices []node
	empty   bool
}

func newUnionNode(choices []node) unionNode {
	empty := false
	for _, c := range choices {
		if c.matchesEmpty() {
			empty = true
			break
		}
	}
	return unionNode{choices: choices, empty: empty}
}

func (n unionNode) matchesEmpty() bool { return n.empty }

func (n unionNode) emit(b NFABuilder, target int) int {
	start := b.AddState()
	for _, c := range n.choices {
		b.AddEpsilon(start, c.emit(b, target))
	}
	return start
}

type repeatNode struct {
	sub        node
	atLeastOne bool
}

func (n repeatNode) matchesEmpty() bool {
	return !n.atLeastOne || n.sub.matchesEmpty()
}

func (n repeatNode) emit(b NFABuilder, target int) int {
	rep := b.AddState()
	b.AddEpsilon(rep, target)
	start := n.sub.emit(b, rep)
	b.AddEpsilon(rep, start)
	if n.atLeastOne || n.sub.matchesEmpty() {
		return start
	}
	skip := b.AddState()
	b.AddEpsilon(skip, target)
	b.AddEpsilon(skip, start)
	return skip
}

type optionalNode struct {
	sub node
}

func (optionalNode) matchesEmpty() bool { return true }

func (n optionalNode) emit(b NFABuilder, target int) int {
	start := n.sub.emit(b, target)
	if n.sub.matchesEmpty() {
		return start
	}
	skip := b.AddState()
	b.AddEpsilon(skip, target)
	b.AddEpsilon(skip, start)
	return skip
}

type matchableNode struct {
	m Matchable
}

func (n matchableNode) matchesEmpty() bool { return n.m.MatchesEmpty() }

func (n matchableNode) emit(b NFABuilder, target int) int {
	return n.m.EmitIntoNFA(b, target)
}
