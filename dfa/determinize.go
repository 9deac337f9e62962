package dfa

import (
	"encoding/binary"
	"sort"

	"github.com/coregx/dfamatch/internal/conv"
	"github.com/coregx/dfamatch/internal/sparse"
	"github.com/coregx/dfamatch/nfa"
)

// Resolver combines conflicting accept values when patterns with different
// results match the same string. It returns the value the combined state
// accepts with, or an error to fail the build.
//
// A nil resolver passes a singleton accept set through and fails with an
// AmbiguityError on anything larger.
type Resolver[M comparable] func(candidates []M) (M, error)

// noTarget marks a missing transition in raw and packed states.
const noTarget int32 = -1

type rawTransition struct {
	first, last uint16
	target      int32
}

type rawState struct {
	transitions []rawTransition
	acceptIndex int32
}

// rawDFA is the unminimized result of subset construction. Transitions of a
// state are sorted by first code unit and pairwise disjoint.
type rawDFA[M comparable] struct {
	states  []rawState
	accepts []M
	starts  []int32
}

// determinizer runs subset construction over one NFA for any number of start
// states at once, so the languages share equivalent states from the outset.
type determinizer[M comparable] struct {
	nfa     *nfa.NFA[M]
	resolve Resolver[M]
	cfg     Config

	work  *sparse.SparseSet // closure workspace
	stack []int
	seeds []int

	states     []rawState
	stateSets  [][]uint32 // NFA-state set of each raw state, sorted
	setIndex   map[string]int32
	accepts    []M
	acceptsIdx map[M]int32
}

func determinize[M comparable](n *nfa.NFA[M], starts []int, resolve Resolver[M], cfg Config) (*rawDFA[M], error) {
	d := &determinizer[M]{
		nfa:        n,
		resolve:    resolve,
		cfg:        cfg,
		work:       sparse.NewSparseSet(conv.IntToUint32(n.NumStates())),
		setIndex:   make(map[string]int32),
		acceptsIdx: make(map[M]int32),
	}

	startIDs := make([]int32, len(starts))
	for i, s := range starts {
		id, err := d.stateFor(d.closure(s))
		if err != nil {
			return nil, err
		}
		startIDs[i] = id
	}

	// The worklist is the state arena itself; transitions of state i may
	// append states past i.
	for i := 0; i < len(d.states); i++ {
		if err := d.computeTransitions(int32(i)); err != nil {
			return nil, err
		}
	}

	return &rawDFA[M]{
		states:  d.states,
		accepts: d.accepts,
		starts:  startIDs,
	}, nil
}

// closure returns the sorted epsilon closure of the seed states, keeping
// only NFA states that accept or have outgoing transitions.
func (d *determinizer[M]) closure(seeds ...int) []uint32 {
	d.work.Clear()
	d.stack = d.stack[:0]
	for _, s := range seeds {
		u := conv.IntToUint32(s)
		if !d.work.Contains(u) {
			d.work.Insert(u)
			d.stack = append(d.stack, s)
		}
	}
	for len(d.stack) > 0 {
		s := d.stack[len(d.stack)-1]
		d.stack = d.stack[:len(d.stack)-1]
		for _, e := range d.nfa.Epsilons(s) {
			u := conv.IntToUint32(e)
			if !d.work.Contains(u) {
				d.work.Insert(u)
				d.stack = append(d.stack, e)
			}
		}
	}

	set := make([]uint32, 0, d.work.Size())
	for _, v := range d.work.Values() {
		if d.nfa.HasTransitionsOrAccept(int(v)) {
			set = append(set, v)
		}
	}
	sort.Slice(set, func(i, j int) bool { return set[i] < set[j] })
	return set
}

// setKey builds an order-independent fingerprint of an NFA-state set. The
// set is already sorted, so encoding it positionally is canonical.
func setKey(set []uint32) string {
	buf := make([]byte, 0, len(set)*4)
	for _, v := range set {
		buf = binary.LittleEndian.AppendUint32(buf, v)
	}
	return string(buf)
}

// stateFor returns the raw state for the given sorted NFA-state set,
// creating it if it does not exist yet.
func (d *determinizer[M]) stateFor(set []uint32) (int32, error) {
	key := setKey(set)
	if id, ok := d.setIndex[key]; ok {
		return id, nil
	}
	if uint32(len(d.states)) >= d.cfg.MaxStates {
		return noTarget, ErrStateLimitExceeded
	}

	acceptIndex, err := d.acceptIndexFor(set)
	if err != nil {
		return noTarget, err
	}

	id := conv.IntToInt32(len(d.states))
	d.states = append(d.states, rawState{acceptIndex: acceptIndex})
	d.stateSets = append(d.stateSets, set)
	d.setIndex[key] = id
	return id, nil
}

// acceptIndexFor resolves the accept values of the NFA states in the set to
// a single entry in the deduplicated accept table, or -1 for none.
func (d *determinizer[M]) acceptIndexFor(set []uint32) (int32, error) {
	var candidates []M
	var seen map[M]bool
	for _, s := range set {
		v, ok := d.nfa.Accept(int(s))
		if !ok {
			continue
		}
		if seen == nil {
			seen = make(map[M]bool)
		}
		if !seen[v] {
			seen[v] = true
			candidates = append(candidates, v)
		}
	}

	var match M
	switch len(candidates) {
	case 0:
		return noTarget, nil
	case 1:
		match = candidates[0]
	default:
		if d.resolve == nil {
			return noTarget, &AmbiguityError[M]{Matches: candidates}
		}
		var err error
		if match, err = d.resolve(candidates); err != nil {
			return noTarget, err
		}
	}

	if idx, ok := d.acceptsIdx[match]; ok {
		return idx, nil
	}
	idx := conv.IntToInt32(len(d.accepts))
	d.accepts = append(d.accepts, match)
	d.acceptsIdx[match] = idx
	return idx, nil
}

// computeTransitions fills in the outgoing transitions of a raw state by
// splitting the code unit space at every boundary where the reachable
// NFA-state set can change.
func (d *determinizer[M]) computeTransitions(id int32) error {
	set := d.stateSets[id]

	var bounds []int
	for _, s := range set {
		for _, tr := range d.nfa.Transitions(int(s)) {
			bounds = append(bounds, int(tr.First), int(tr.Last)+1)
		}
	}
	if len(bounds) == 0 {
		return nil
	}
	sort.Ints(bounds)
	bounds = uniqueInts(bounds)

	var transitions []rawTransition
	for i, lo := range bounds {
		if lo > 0xFFFF {
			break
		}
		hi := 0xFFFF
		if i+1 < len(bounds) {
			hi = bounds[i+1] - 1
		}

		d.seeds = d.seeds[:0]
		for _, s := range set {
			for _, tr := range d.nfa.Transitions(int(s)) {
				if int(tr.First) <= lo && lo <= int(tr.Last) {
					d.seeds = append(d.seeds, tr.To)
				}
			}
		}
		if len(d.seeds) == 0 {
			continue
		}
		target, err := d.stateFor(d.closure(d.seeds...))
		if err != nil {
			return err
		}

		if n := len(transitions); n > 0 &&
			transitions[n-1].target == target &&
			int(transitions[n-1].last)+1 == lo {
			transitions[n-1].last = conv.IntToUint16(hi)
			continue
		}
		transitions = append(transitions, rawTransition{
			first:  conv.IntToUint16(lo),
			last:   conv.IntToUint16(hi),
			target: target,
		})
	}
	d.states[id].transitions = transitions
	return nil
}

func uniqueInts(sorted []int) []int {
	out := sorted[:1]
	for _, v := range sorted[1:] {
		if v != out[len(out)-1] {
			out = append(out, v)
		}
	}
	return out
}
