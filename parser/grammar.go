package parser

import (
	"fmt"
	"sort"
	"strings"
)

// EndMarker is the reserved terminal appended to every token stream.
const EndMarker = "EOF"

// epsilon is used inside FIRST-set computation only; it never appears in the
// exposed FIRST/FOLLOW/SELECT tables.
const epsilon = "ε"

// Grammar is a context-free grammar: a start symbol and, per nonterminal, an
// ordered list of right-hand sides. An empty right-hand side is the epsilon
// production. Any symbol that is not a production key is a terminal,
// including EndMarker.
type Grammar struct {
	Start       string
	Productions map[string][][]string
}

// IsNonterminal reports whether sym has productions.
func (g *Grammar) IsNonterminal(sym string) bool {
	_, ok := g.Productions[sym]
	return ok
}

// TerminalSet is a set of terminal symbols.
type TerminalSet map[string]bool

func (s TerminalSet) Has(sym string) bool { return s[sym] }

// Sorted returns the members in lexical order, for stable rendering.
func (s TerminalSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for sym := range s {
		out = append(out, sym)
	}
	sort.Strings(out)
	return out
}

// Sets holds the FIRST, FOLLOW and SELECT tables of a grammar. They are
// computed once by Analyze and treated as immutable thereafter; every parse
// reuses the same tables.
type Sets struct {
	grammar *Grammar
	First   map[string]TerminalSet
	Follow  map[string]TerminalSet
	Select  map[string]TerminalSet // keyed by productionKey
}

func productionKey(lhs string, rhs []string) string {
	if len(rhs) == 0 {
		return lhs + " -> " + epsilon
	}
	return lhs + " -> " + strings.Join(rhs, " ")
}

// SelectFor returns the SELECT set of the given production. Looking up a
// production the grammar does not declare is a defect in the caller's fixed
// tables, not bad input, so it panics.
func (s *Sets) SelectFor(lhs string, rhs ...string) TerminalSet {
	key := productionKey(lhs, rhs)
	set, ok := s.Select[key]
	if !ok {
		panic(fmt.Sprintf("grammar has no production %s", key))
	}
	return set
}

// Analyze computes FIRST, FOLLOW and SELECT by fixed-point iteration.
func (g *Grammar) Analyze() *Sets {
	first := g.computeFirst()
	follow := g.computeFollow(first)
	sel := g.computeSelect(first, follow)

	// Strip the internal epsilon marker from the exposed FIRST sets.
	exposed := make(map[string]TerminalSet, len(first))
	for nt, set := range first {
		clean := make(TerminalSet, len(set))
		for sym := range set {
			if sym != epsilon {
				clean[sym] = true
			}
		}
		exposed[nt] = clean
	}

	return &Sets{grammar: g, First: exposed, Follow: follow, Select: sel}
}

func (g *Grammar) computeFirst() map[string]TerminalSet {
	first := make(map[string]TerminalSet, len(g.Productions))
	for nt := range g.Productions {
		first[nt] = make(TerminalSet)
	}

	add := func(set TerminalSet, sym string) bool {
		if set[sym] {
			return false
		}
		set[sym] = true
		return true
	}

	for changed := true; changed; {
		changed = false
		for lhs, rhss := range g.Productions {
			for _, rhs := range rhss {
				if len(rhs) == 0 {
					if add(first[lhs], epsilon) {
						changed = true
					}
					continue
				}

				allEpsilon := true
				for _, sym := range rhs {
					if !g.IsNonterminal(sym) {
						if add(first[lhs], sym) {
							changed = true
						}
						allEpsilon = false
						break
					}

					symFirst := first[sym]
					for t := range symFirst {
						if t != epsilon && add(first[lhs], t) {
							changed = true
						}
					}
					if !symFirst[epsilon] {
						allEpsilon = false
						break
					}
				}

				if allEpsilon && add(first[lhs], epsilon) {
					changed = true
				}
			}
		}
	}

	return first
}

// firstOfSequence returns FIRST(seq) without epsilon, and whether seq can
// derive epsilon.
func (g *Grammar) firstOfSequence(seq []string, first map[string]TerminalSet) (TerminalSet, bool) {
	out := make(TerminalSet)
	for _, sym := range seq {
		if !g.IsNonterminal(sym) {
			out[sym] = true
			return out, false
		}
		f := first[sym]
		for t := range f {
			if t != epsilon {
				out[t] = true
			}
		}
		if !f[epsilon] {
			return out, false
		}
	}
	return out, true
}

func (g *Grammar) computeFollow(first map[string]TerminalSet) map[string]TerminalSet {
	follow := make(map[string]TerminalSet, len(g.Productions))
	for nt := range g.Productions {
		follow[nt] = make(TerminalSet)
	}
	follow[g.Start][EndMarker] = true

	for changed := true; changed; {
		changed = false
		for lhs, rhss := range g.Productions {
			for _, rhs := range rhss {
				for i, b := range rhs {
					if !g.IsNonterminal(b) {
						continue
					}

					beta := rhs[i+1:]
					firstBeta, betaEpsilon := g.firstOfSequence(beta, first)

					for t := range firstBeta {
						if !follow[b][t] {
							follow[b][t] = true
							changed = true
						}
					}

					if betaEpsilon {
						for t := range follow[lhs] {
							if !follow[b][t] {
								follow[b][t] = true
								changed = true
							}
						}
					}
				}
			}
		}
	}

	return follow
}

func (g *Grammar) computeSelect(first, follow map[string]TerminalSet) map[string]TerminalSet {
	sel := make(map[string]TerminalSet)
	for lhs, rhss := range g.Productions {
		for _, rhs := range rhss {
			firstRHS, rhsEpsilon := g.firstOfSequence(rhs, first)
			set := make(TerminalSet, len(firstRHS))
			for t := range firstRHS {
				set[t] = true
			}
			if rhsEpsilon {
				for t := range follow[lhs] {
					set[t] = true
				}
			}
			sel[productionKey(lhs, rhs)] = set
		}
	}
	return sel
}

// DefaultGrammar returns the statement/expression grammar the parser is
// written against, in LL(1) form.
func DefaultGrammar() *Grammar {
	return &Grammar{
		Start: "Program",
		Productions: map[string][][]string{
			"Program":  {{"StmtList", EndMarker}},
			"StmtList": {{"Stmt", "StmtList"}, {}},
			"Stmt": {
				{"ForStmt"},
				{"Block"},
				{"DeclStmt", ";"},
				{";"},
				{"PrefixIncDec", ";"},
				{"IDENT", "IdStmtTail", ";"},
			},
			"Block": {{"{", "StmtList", "}"}},

			"ForStmt":    {{"for", "(", "ForInitOpt", ";", "ForCondOpt", ";", "ForIterOpt", ")", "Stmt"}},
			"ForInitOpt": {{"DeclStmt"}, {"PrefixIncDec"}, {"IDENT", "ForIdTail"}, {}},
			"ForCondOpt": {{"Expr"}, {}},
			"ForIterOpt": {{"PrefixIncDec"}, {"IDENT", "ForIdTail"}, {}},

			"DeclStmt":     {{"Type", "IDENT", "DeclInitOpt"}},
			"Type":         {{"int"}, {"float"}, {"double"}, {"char"}},
			"DeclInitOpt":  {{"=", "Expr"}, {}},
			"AssignOp":     {{"="}, {"+="}, {"-="}, {"*="}, {"/="}},
			"IncDecOp":     {{"++"}, {"--"}},
			"PrefixIncDec": {{"IncDecOp", "IDENT"}},
			"IdStmtTail":   {{"IncDecOp"}, {"AssignOp", "Expr"}},
			"ForIdTail":    {{"IncDecOp"}, {"AssignOp", "Expr"}},

			"Expr":    {{"AddExpr", "RelTail"}},
			"RelTail": {{"RelOp", "AddExpr", "RelTail"}, {}},
			"RelOp":   {{"<"}, {"<="}, {">"}, {">="}, {"=="}, {"!="}},
			"AddExpr": {{"MulExpr", "AddTail"}},
			"AddTail": {{"AddOp", "MulExpr", "AddTail"}, {}},
			"AddOp":   {{"+"}, {"-"}},
			"MulExpr": {{"Unary", "MulTail"}},
			"MulTail": {{"MulOp", "Unary", "MulTail"}, {}},
			"MulOp":   {{"*"}, {"/"}},
			"Unary":   {{"UnaryOp", "Unary"}, {"Primary"}},
			"UnaryOp": {{"+"}, {"-"}, {"!"}},
			"Primary": {{"IDENT"}, {"NUM"}, {"(", "Expr", ")"}},
		},
	}
}

// FormatSets renders the three tables in a stable order.
func FormatSets(s *Sets) string {
	var b strings.Builder
	b.WriteString("========================================\n")
	b.WriteString("     LL(1) FIRST / FOLLOW / SELECT\n")
	b.WriteString("========================================\n\n")

	nts := make([]string, 0, len(s.First))
	for nt := range s.First {
		nts = append(nts, nt)
	}
	sort.Strings(nts)

	b.WriteString("[FIRST]\n")
	for _, nt := range nts {
		fmt.Fprintf(&b, "FIRST(%s) = { %s }\n", nt, strings.Join(s.First[nt].Sorted(), ", "))
	}
	b.WriteString("\n[FOLLOW]\n")
	for _, nt := range nts {
		fmt.Fprintf(&b, "FOLLOW(%s) = { %s }\n", nt, strings.Join(s.Follow[nt].Sorted(), ", "))
	}

	keys := make([]string, 0, len(s.Select))
	for key := range s.Select {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	b.WriteString("\n[SELECT]\n")
	for _, key := range keys {
		fmt.Fprintf(&b, "SELECT(%s) = { %s }\n", key, strings.Join(s.Select[key].Sorted(), ", "))
	}
	return b.String()
}
