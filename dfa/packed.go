// Package dfa compiles NFAs into minimized deterministic automata over
// 16-bit code units and provides their packed runtime representation.
//
// Construction runs in three stages: subset construction over canonical
// disjoint code unit ranges, partition refinement down to the minimal number
// of states, and packing of each state's transitions into an array-packed
// binary search tree. Scanning touches only the packed form.
package dfa

import (
	"github.com/coregx/dfamatch/internal/conv"
	"github.com/coregx/dfamatch/nfa"
)

// DFA is a compiled, minimized automaton. It is immutable and safe for
// concurrent use by any number of scanners.
type DFA[M comparable] struct {
	states  []packedState
	accepts []M
	starts  []int32
}

// packedState holds one state's transitions as an array-packed binary
// search tree.
//
// nodes contains an internal node for each code unit c whose transition
// differs from the transition on c-1, packed heap-style: the root is at
// [0] and the children of [x] are at [2x+1] and [2x+2]. targets holds the
// leaves; the children of nodes[x] are at [2x+1-len(nodes)] and
// [2x+2-len(nodes)] in targets. Target noTarget means no transition.
type packedState struct {
	nodes       []uint16
	targets     []int32
	acceptIndex int32
}

// Build compiles the NFA into a DFA with one start state per entry in
// starts. Languages built together share equivalent states, but distinct
// start states are never merged with each other.
//
// The resolver combines conflicting accept values; nil fails ambiguous sets
// with an AmbiguityError.
func Build[M comparable](n *nfa.NFA[M], starts []int, resolve Resolver[M], cfg Config) (*DFA[M], error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	raw, err := determinize(n, starts, resolve, cfg)
	if err != nil {
		return nil, err
	}
	return pack(minimize(raw)), nil
}

// NumStates returns the number of states in the DFA.
func (d *DFA[M]) NumStates() int {
	return len(d.states)
}

// NumStarts returns the number of languages the DFA was built for.
func (d *DFA[M]) NumStarts() int {
	return len(d.starts)
}

// Start returns the start state of the i'th language.
func (d *DFA[M]) Start(i int) State[M] {
	return State[M]{d: d, id: d.starts[i]}
}

// State is a handle on one DFA state. The zero value is the dead state,
// from which nothing matches. States are values and can be compared with ==.
type State[M comparable] struct {
	d  *DFA[M]
	id int32
}

// IsDead reports whether this is the dead state.
func (s State[M]) IsDead() bool {
	return s.d == nil
}

// Next returns the state reached on code unit c, or the dead state if there
// is no transition. The lookup walks the packed tree, one compare per level.
func (s State[M]) Next(c uint16) State[M] {
	if s.d == nil {
		return s
	}
	st := &s.d.states[s.id]
	i := 0
	for i < len(st.nodes) {
		if c < st.nodes[i] {
			i = 2*i + 1
		} else {
			i = 2*i + 2
		}
	}
	t := st.targets[i-len(st.nodes)]
	if t < 0 {
		return State[M]{}
	}
	return State[M]{d: s.d, id: t}
}

// Match returns the accept value of this state, if it has one.
// The dead state never accepts.
func (s State[M]) Match() (M, bool) {
	var zero M
	if s.d == nil {
		return zero, false
	}
	ai := s.d.states[s.id].acceptIndex
	if ai < 0 {
		return zero, false
	}
	return s.d.accepts[ai], true
}

// Number returns the dense index of this state within its DFA, or -1 for
// the dead state. Numbers are stable across Serialize and Deserialize.
func (s State[M]) Number() int {
	if s.d == nil {
		return -1
	}
	return int(s.id)
}

// EnumerateTransitions reconstructs the state's disjoint transition ranges
// from the packed tree and calls visit for each, in increasing code unit
// order. Ranges without a transition are skipped.
func (s State[M]) EnumerateTransitions(visit func(first, last uint16, target State[M])) {
	if s.d == nil {
		return
	}
	st := &s.d.states[s.id]
	bounds, targets := st.inorder()
	for i, t := range targets {
		if t < 0 {
			continue
		}
		lo := 0
		if i > 0 {
			lo = int(bounds[i-1])
		}
		hi := 0xFFFF
		if i < len(bounds) {
			hi = int(bounds[i]) - 1
		}
		visit(uint16(lo), uint16(hi), State[M]{d: s.d, id: t})
	}
}

// inorder flattens the packed tree back into its sorted boundary list and
// the targets of the len(bounds)+1 intervals between them.
func (st *packedState) inorder() (bounds []uint16, targets []int32) {
	bounds = make([]uint16, 0, len(st.nodes))
	targets = make([]int32, 0, len(st.targets))
	var walk func(root int)
	walk = func(root int) {
		if root < len(st.nodes) {
			walk(2*root + 1)
			bounds = append(bounds, st.nodes[root])
			walk(2*root + 2)
		} else {
			targets = append(targets, st.targets[root-len(st.nodes)])
		}
	}
	walk(0)
	return bounds, targets
}

// pack converts a raw DFA into its packed tree representation.
func pack[M comparable](raw *rawDFA[M]) *DFA[M] {
	d := &DFA[M]{
		states:  make([]packedState, len(raw.states)),
		accepts: raw.accepts,
		starts:  raw.starts,
	}
	for i, st := range raw.states {
		d.states[i] = packState(st)
	}
	return d
}

func packState(st rawState) packedState {
	if len(st.transitions) == 0 {
		return packedState{targets: []int32{noTarget}, acceptIndex: st.acceptIndex}
	}

	// Find all code units c whose transition differs from the one on c-1.
	bounds := make([]uint16, 0, len(st.transitions)*2)
	prev := st.transitions[0]
	if prev.first != 0 {
		bounds = append(bounds, prev.first)
	}
	for _, next := range st.transitions[1:] {
		if int(next.first) > int(prev.last)+1 {
			// gap between transitions
			bounds = append(bounds, conv.IntToUint16(int(prev.last)+1), next.first)
		} else if next.target != prev.target {
			bounds = append(bounds, next.first)
		}
		prev = next
	}
	if prev.last != 0xFFFF {
		bounds = append(bounds, prev.last+1)
	}

	if len(bounds) == 0 {
		// same transition on every code unit
		return packedState{targets: []int32{prev.target}, acceptIndex: st.acceptIndex}
	}

	out := packedState{
		nodes:       make([]uint16, len(bounds)),
		targets:     make([]int32, len(bounds)+1),
		acceptIndex: st.acceptIndex,
	}
	ts := &transcriptionSource{bounds: bounds, transitions: st.transitions}
	out.transcribeSubtree(0, ts)
	return out
}

// transcribeSubtree fills the packed tree by inorder traversal, consuming
// boundaries from the source in sorted order.
func (st *packedState) transcribeSubtree(root int, ts *transcriptionSource) {
	if root < len(st.nodes) {
		st.transcribeSubtree(2*root+1, ts)
		st.nodes[root] = ts.nextBound()
		st.transcribeSubtree(2*root+2, ts)
	} else {
		st.targets[root-len(st.nodes)] = ts.currentTarget()
	}
}

// transcriptionSource maintains a cursor in the sorted boundary list and
// resolves the target of the interval just before the cursor.
type transcriptionSource struct {
	bounds      []uint16
	transitions []rawTransition
	pos         int // cursor sits just before bounds[pos]
	current     int // transitions below this index are no longer relevant
}

func (ts *transcriptionSource) nextBound() uint16 {
	b := ts.bounds[ts.pos]
	ts.pos++
	return b
}

func (ts *transcriptionSource) currentTarget() int32 {
	// representative code unit of the current interval
	var c uint16
	if ts.pos > 0 {
		c = ts.bounds[ts.pos-1]
	}
	for ; ; ts.current++ {
		if ts.current >= len(ts.transitions) {
			return noTarget
		}
		tr := ts.transitions[ts.current]
		if tr.last >= c {
			if c >= tr.first {
				return tr.target
			}
			return noTarget
		}
	}
}
