package nfa

// Graph is an arena of automaton nodes. Nodes are addressed by index, and
// every edge is an index back into the arena, so shared nodes and the
// back-edges created by Kleene closure need no special ownership handling.
// A Graph is built by one compilation pass and discarded once a DFA has been
// derived from it.
type Graph struct {
	nodes []node
}

// node is a single automaton state. A node either carries a character label,
// in which case next holds the single target reachable on that character, or
// it is an epsilon node and next holds zero or more epsilon-reachable targets.
type node struct {
	label   rune
	labeled bool
	next    []int
}

func NewGraph() *Graph {
	return &Graph{}
}

// NewNode allocates a fresh unlabeled node and returns its id.
func (g *Graph) NewNode() int {
	g.nodes = append(g.nodes, node{})
	return len(g.nodes) - 1
}

// AddTransition labels from with ch and links it to target.
func (g *Graph) AddTransition(from int, ch rune, target int) {
	n := &g.nodes[from]
	n.label = ch
	n.labeled = true
	n.next = append(n.next, target)
}

// AddEpsilon links from to target without consuming input.
func (g *Graph) AddEpsilon(from, target int) {
	g.nodes[from].next = append(g.nodes[from].next, target)
}

// Label reports the character label of id, if it has one.
func (g *Graph) Label(id int) (rune, bool) {
	n := g.nodes[id]
	return n.label, n.labeled
}

// Next returns the successor ids of id.
func (g *Graph) Next(id int) []int {
	return g.nodes[id].next
}

// Size returns the number of nodes in the arena.
func (g *Graph) Size() int {
	return len(g.nodes)
}

// Machine is a Thompson NFA: a start node and a single end node in a Graph.
type Machine struct {
	Graph *Graph
	Start int
	End   int
}
