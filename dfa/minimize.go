package dfa

import "sort"

// block is a group of states in the refinement partition, kept sorted by
// state id so blocks compare and iterate deterministically.
type block []*State

func newBlock(states []*State) block {
	b := append(block(nil), states...)
	sort.Slice(b, func(i, j int) bool { return b[i].ID < b[j].ID })
	return b
}

func (b block) equal(other block) bool {
	if len(b) != len(other) {
		return false
	}
	for i := range b {
		if b[i].ID != other[i].ID {
			return false
		}
	}
	return true
}

// Minimize collapses d into the coarsest equivalent DFA by partition
// refinement. The initial partition separates accepting from non-accepting
// states; blocks are then split against every symbol's predecessor set until
// no block can be split further.
func Minimize(d *DFA) *DFA {
	partition := initialPartition(d)
	partition = refine(d, partition)
	return buildMinimized(d, partition)
}

func initialPartition(d *DFA) []block {
	var accepting, nonAccepting []*State
	for _, s := range d.States {
		if s.Accepting {
			accepting = append(accepting, s)
		} else {
			nonAccepting = append(nonAccepting, s)
		}
	}

	var parts []block
	if len(accepting) > 0 {
		parts = append(parts, newBlock(accepting))
	}
	if len(nonAccepting) > 0 {
		parts = append(parts, newBlock(nonAccepting))
	}
	return parts
}

func refine(d *DFA, initial []block) []block {
	queue := append([]block(nil), initial...)
	partition := append([]block(nil), initial...)

	for len(queue) > 0 {
		a := queue[0]
		queue = queue[1:]

		for _, symbol := range d.Alphabet {
			preds := predecessors(d, a, symbol)
			if len(preds) == 0 {
				continue
			}

			var next []block
			changed := false

			for _, y := range partition {
				var inside, outside []*State
				for _, s := range y {
					if preds[s.ID] {
						inside = append(inside, s)
					} else {
						outside = append(outside, s)
					}
				}

				if len(inside) == 0 || len(outside) == 0 {
					next = append(next, y)
					continue
				}

				y1 := newBlock(inside)
				y2 := newBlock(outside)
				next = append(next, y1, y2)
				changed = true

				// If the split block is still queued, both halves must be
				// tested; otherwise queueing the smaller half is enough to
				// keep the refinement invariant.
				if idx := indexOfBlock(queue, y); idx >= 0 {
					queue = append(queue[:idx], queue[idx+1:]...)
					queue = append(queue, y1, y2)
				} else if len(y1) <= len(y2) {
					queue = append(queue, y1)
				} else {
					queue = append(queue, y2)
				}
			}

			if changed {
				partition = next
			}
		}
	}

	return partition
}

// predecessors returns the ids of states whose transition on symbol lands in
// target.
func predecessors(d *DFA, target block, symbol rune) map[int]bool {
	in := make(map[int]bool, len(target))
	for _, s := range target {
		in[s.ID] = true
	}

	preds := make(map[int]bool)
	for _, s := range d.States {
		if next := s.Transition(symbol); next != nil && in[next.ID] {
			preds[s.ID] = true
		}
	}
	return preds
}

func indexOfBlock(queue []block, b block) int {
	for i, candidate := range queue {
		if candidate.equal(b) {
			return i
		}
	}
	return -1
}

// buildMinimized creates one state per block. The new state's signature is
// the union of its members' signatures, kept so the minimized automaton is
// still traceable back to the NFA. Transitions come from the lowest-id member;
// all members of a block are transition-equivalent by construction.
func buildMinimized(d *DFA, partition []block) *DFA {
	newStates := make([]*State, 0, len(partition))
	stateFor := make(map[int]*State, len(d.States))

	for i, b := range partition {
		union := make(map[int]bool)
		accepting := false
		for _, s := range b {
			for _, id := range s.NFAStates {
				union[id] = true
			}
			accepting = accepting || s.Accepting
		}

		signature := make([]int, 0, len(union))
		for id := range union {
			signature = append(signature, id)
		}

		merged := NewState(i, signature)
		merged.Accepting = accepting
		newStates = append(newStates, merged)

		for _, s := range b {
			stateFor[s.ID] = merged
		}
	}

	for i, b := range partition {
		representative := b[0]
		for _, symbol := range d.Alphabet {
			oldTarget := representative.Transition(symbol)
			if oldTarget == nil {
				continue
			}
			newStates[i].AddTransition(symbol, stateFor[oldTarget.ID])
		}
	}

	return &DFA{
		Start:    stateFor[d.Start.ID],
		States:   newStates,
		Alphabet: append([]rune(nil), d.Alphabet...),
	}
}
