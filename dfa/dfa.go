package dfa

import (
	"fmt"
	"strings"
)

// DFA is a deterministic automaton: a start state, the full owned state list,
// and the alphabet actually used by its transitions. The alphabet is kept
// sorted so every walk over it is deterministic.
type DFA struct {
	Start    *State
	States   []*State
	Alphabet []rune
}

// Match runs the automaton over input starting at the given rune offset and
// returns the length of the longest prefix ending in an accepting state.
// The second result is false when no prefix is accepted at all.
func (d *DFA) Match(input []rune, start int) (int, bool) {
	current := d.Start
	lastAccepting := -1
	if current.Accepting {
		lastAccepting = 0
	}

	for pos := start; pos < len(input); pos++ {
		next := current.Transition(input[pos])
		if next == nil {
			break
		}
		current = next
		if current.Accepting {
			lastAccepting = pos + 1 - start
		}
	}

	if lastAccepting < 0 {
		return 0, false
	}
	return lastAccepting, true
}

// String renders the automaton in transition-table form.
func (d *DFA) String() string {
	var b strings.Builder
	b.WriteString("DFA:\n")
	fmt.Fprintf(&b, "start state: %d\n", d.Start.ID)

	var accepting []string
	for _, s := range d.States {
		if s.Accepting {
			accepting = append(accepting, fmt.Sprintf("%d", s.ID))
		}
	}
	b.WriteString("accepting states: " + strings.Join(accepting, " ") + "\n")
	fmt.Fprintf(&b, "alphabet: %q\n", string(d.Alphabet))

	b.WriteString("transitions:\n")
	for _, s := range d.States {
		for _, symbol := range d.Alphabet {
			if target := s.Transition(symbol); target != nil {
				fmt.Fprintf(&b, "  %d --%c--> %d\n", s.ID, symbol, target.ID)
			}
		}
	}
	return b.String()
}
