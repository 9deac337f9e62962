// Package nfa provides an append-only nondeterministic finite automaton over
// 16-bit code units.
//
// States are integer indices into an arena. Each state carries its outgoing
// ranged transitions, its outgoing epsilon transitions, and optionally an
// accept value of type M. The automaton has no distinguished start state;
// determinization takes any number of start states, so one NFA can host
// several languages side by side.
package nfa

// Transition is a ranged transition to another state, taken on any code unit
// c with First <= c <= Last.
type Transition struct {
	First, Last uint16
	To          int
}

// NFA is an append-only automaton under construction. The zero value is
// empty and ready to use.
type NFA[M any] struct {
	transitions [][]Transition
	epsilons    [][]int
	accepts     []M
	hasAccept   []bool
}

// NumStates returns the number of states added so far.
func (n *NFA[M]) NumStates() int {
	return len(n.transitions)
}

// AddState adds a new non-accepting state and returns its index.
func (n *NFA[M]) AddState() int {
	id := len(n.transitions)
	n.transitions = append(n.transitions, nil)
	n.epsilons = append(n.epsilons, nil)
	var zero M
	n.accepts = append(n.accepts, zero)
	n.hasAccept = append(n.hasAccept, false)
	return id
}

// AddAcceptingState adds a new state that accepts with the given value and
// returns its index.
func (n *NFA[M]) AddAcceptingState(match M) int {
	id := n.AddState()
	n.accepts[id] = match
	n.hasAccept[id] = true
	return id
}

// AddTransition adds a transition from state from to state to, taken on any
// code unit c with first <= c <= last.
func (n *NFA[M]) AddTransition(from, to int, first, last uint16) {
	n.transitions[from] = append(n.transitions[from], Transition{First: first, Last: last, To: to})
}

// AddEpsilon adds an epsilon transition from state from to state to.
func (n *NFA[M]) AddEpsilon(from, to int) {
	n.epsilons[from] = append(n.epsilons[from], to)
}

// Accept returns the accept value of the state, if it has one.
func (n *NFA[M]) Accept(state int) (M, bool) {
	return n.accepts[state], n.hasAccept[state]
}

// Transitions returns the outgoing ranged transitions of the state.
// The returned slice is owned by the NFA and must not be modified.
func (n *NFA[M]) Transitions(state int) []Transition {
	return n.transitions[state]
}

// Epsilons returns the outgoing epsilon transitions of the state.
// The returned slice is owned by the NFA and must not be modified.
func (n *NFA[M]) Epsilons(state int) []int {
	return n.epsilons[state]
}

// HasTransitionsOrAccept reports whether the state accepts or has at least
// one outgoing transition of either kind.
func (n *NFA[M]) HasTransitionsOrAccept(state int) bool {
	return n.hasAccept[state] || len(n.transitions[state]) > 0 || len(n.epsilons[state]) > 0
}
