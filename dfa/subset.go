package dfa

import (
	"sort"

	"github.com/yxawander/minicc/nfa"
)

// FromNFA converts a Thompson NFA into a DFA by subset construction. The
// result is deterministic: the alphabet is sorted and states are discovered in
// a fixed worklist order, so converting the same machine twice yields
// identical state signatures and transition tables.
func FromNFA(m nfa.Machine) *DFA {
	alphabet := extractAlphabet(m)

	startSet := epsilonClosure(m.Graph, []int{m.Start})
	start := NewState(0, startSet)
	start.Accepting = contains(startSet, m.End)

	states := []*State{start}
	bySignature := map[string]*State{start.Signature(): start}
	worklist := []*State{start}

	for len(worklist) > 0 {
		current := worklist[len(worklist)-1]
		worklist = worklist[:len(worklist)-1]

		for _, symbol := range alphabet {
			moved := move(m.Graph, current.NFAStates, symbol)
			if len(moved) == 0 {
				continue
			}

			closure := epsilonClosure(m.Graph, moved)
			key := signatureKey(closure)

			target, ok := bySignature[key]
			if !ok {
				target = NewState(len(states), closure)
				target.Accepting = contains(closure, m.End)
				states = append(states, target)
				bySignature[key] = target
				worklist = append(worklist, target)
			}

			current.AddTransition(symbol, target)
		}
	}

	return &DFA{Start: start, States: states, Alphabet: alphabet}
}

// extractAlphabet collects every character label reachable from the start
// node, sorted for deterministic iteration.
func extractAlphabet(m nfa.Machine) []rune {
	seen := make(map[rune]bool)
	visited := make(map[int]bool)
	stack := []int{m.Start}

	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if visited[id] {
			continue
		}
		visited[id] = true

		if label, ok := m.Graph.Label(id); ok {
			seen[label] = true
		}
		for _, next := range m.Graph.Next(id) {
			if !visited[next] {
				stack = append(stack, next)
			}
		}
	}

	alphabet := make([]rune, 0, len(seen))
	for symbol := range seen {
		alphabet = append(alphabet, symbol)
	}
	sort.Slice(alphabet, func(i, j int) bool { return alphabet[i] < alphabet[j] })
	return alphabet
}

// epsilonClosure expands a node-id set with everything reachable through
// epsilon nodes' successor edges. The result is sorted.
func epsilonClosure(g *nfa.Graph, ids []int) []int {
	closure := make(map[int]bool, len(ids))
	stack := append([]int(nil), ids...)
	for _, id := range ids {
		closure[id] = true
	}

	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		// Only an unlabeled node's edges are epsilon edges.
		if _, labeled := g.Label(id); labeled {
			continue
		}
		for _, next := range g.Next(id) {
			if !closure[next] {
				closure[next] = true
				stack = append(stack, next)
			}
		}
	}

	out := make([]int, 0, len(closure))
	for id := range closure {
		out = append(out, id)
	}
	sort.Ints(out)
	return out
}

// move returns the sorted set of nodes reachable from ids on symbol.
func move(g *nfa.Graph, ids []int, symbol rune) []int {
	result := make(map[int]bool)
	for _, id := range ids {
		label, labeled := g.Label(id)
		if !labeled || label != symbol {
			continue
		}
		for _, next := range g.Next(id) {
			result[next] = true
		}
	}

	out := make([]int, 0, len(result))
	for id := range result {
		out = append(out, id)
	}
	sort.Ints(out)
	return out
}

func contains(sorted []int, id int) bool {
	i := sort.SearchInts(sorted, id)
	return i < len(sorted) && sorted[i] == id
}
