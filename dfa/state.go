package dfa

import (
	"fmt"
	"sort"
	"strings"
)

// State is a single DFA state. Its identity for deduplication purposes is the
// set of underlying NFA node ids it represents, not the Go pointer: two states
// with equal signatures are the same state. Signature returns a canonical key
// for that set so map-based containers compare states by value.
type State struct {
	ID        int
	NFAStates []int // sorted, never mutated after construction
	Accepting bool

	transitions map[rune]*State
}

func NewState(id int, nfaStates []int) *State {
	sorted := append([]int(nil), nfaStates...)
	sort.Ints(sorted)
	return &State{
		ID:          id,
		NFAStates:   sorted,
		transitions: make(map[rune]*State),
	}
}

// AddTransition records the successor of s under symbol.
func (s *State) AddTransition(symbol rune, target *State) {
	s.transitions[symbol] = target
}

// Transition returns the successor of s under symbol, or nil.
func (s *State) Transition(symbol rune) *State {
	return s.transitions[symbol]
}

// Signature returns the canonical key of the state's NFA node-id set.
func (s *State) Signature() string {
	return signatureKey(s.NFAStates)
}

func (s *State) String() string {
	accept := ""
	if s.Accepting {
		accept = " [ACCEPT]"
	}
	return fmt.Sprintf("State%d{%s}%s", s.ID, s.Signature(), accept)
}

// signatureKey canonicalizes a sorted id set into a map key.
func signatureKey(sorted []int) string {
	var b strings.Builder
	for i, id := range sorted {
		if i > 0 {
			b.WriteByte(',')
		}
		fmt.Fprintf(&b, "%d", id)
	}
	return b.String()
}
