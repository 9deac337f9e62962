package nfa

import "testing"

func TestNFA_AddState(t *testing.T) {
	var n NFA[string]

	if n.NumStates() != 0 {
		t.Fatalf("new NFA has %d states, want 0", n.NumStates())
	}

	s0 := n.AddState()
	s1 := n.AddState()
	if s0 != 0 || s1 != 1 {
		t.Errorf("state ids = %d, %d, want 0, 1", s0, s1)
	}
	if n.NumStates() != 2 {
		t.Errorf("NumStates = %d, want 2", n.NumStates())
	}

	if _, ok := n.Accept(s0); ok {
		t.Error("plain state should not accept")
	}
}

func TestNFA_AcceptingState(t *testing.T) {
	var n NFA[string]
	s := n.AddAcceptingState("token")

	got, ok := n.Accept(s)
	if !ok || got != "token" {
		t.Errorf("Accept = %q, %v, want \"token\", true", got, ok)
	}
}

func TestNFA_Transitions(t *testing.T) {
	var n NFA[int]
	a := n.AddState()
	b := n.AddAcceptingState(7)

	n.AddTransition(a, b, 'x', 'z')
	n.AddTransition(a, b, '0', '0')
	n.AddEpsilon(a, b)

	trans := n.Transitions(a)
	if len(trans) != 2 {
		t.Fatalf("len(Transitions) = %d, want 2", len(trans))
	}
	if trans[0] != (Transition{First: 'x', Last: 'z', To: b}) {
		t.Errorf("first transition = %+v", trans[0])
	}
	if trans[1] != (Transition{First: '0', Last: '0', To: b}) {
		t.Errorf("second transition = %+v", trans[1])
	}

	eps := n.Epsilons(a)
	if len(eps) != 1 || eps[0] != b {
		t.Errorf("Epsilons = %v, want [%d]", eps, b)
	}
	if len(n.Transitions(b)) != 0 || len(n.Epsilons(b)) != 0 {
		t.Error("target state should have no outgoing edges")
	}
}

func TestNFA_HasTransitionsOrAccept(t *testing.T) {
	var n NFA[int]
	empty := n.AddState()
	acc := n.AddAcceptingState(1)
	withTrans := n.AddState()
	n.AddTransition(withTrans, acc, 'a', 'a')
	withEps := n.AddState()
	n.AddEpsilon(withEps, acc)

	tests := []struct {
		name  string
		state int
		want  bool
	}{
		{"empty state", empty, false},
		{"accepting state", acc, true},
		{"state with transition", withTrans, true},
		{"state with epsilon", withEps, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := n.HasTransitionsOrAccept(tt.state); got != tt.want {
				t.Errorf("HasTransitionsOrAccept(%d) = %v, want %v", tt.state, got, tt.want)
			}
		})
	}
}
