package nfa

import (
	"errors"
	"fmt"
)

// The restricted regex dialect supports literal characters, alternation '|',
// Kleene closure '*', grouping with parentheses, and backslash escapes.
// Concatenation is implicit in the source pattern; the shunting-yard pass
// inserts an explicit concat operator before building the machine.
const (
	opConcat = '~'
	endMark  = '#'
)

// postfixToken is one element of the postfix form: either an operator or a
// literal character with escapes already decoded.
type postfixToken struct {
	op bool
	ch rune
}

// Builder compiles restricted regex patterns into Thompson NFAs. Each call to
// Build works on a fresh arena, so a Builder can be reused across patterns.
type Builder struct{}

func NewBuilder() *Builder {
	return &Builder{}
}

func isOperator(ch rune) bool {
	switch ch {
	case '|', opConcat, '*', '(', ')':
		return true
	}
	return false
}

func priority(op rune) int {
	switch op {
	case '*':
		return 3
	case opConcat:
		return 2
	case '|':
		return 1
	}
	return 0
}

// decodeEscape maps an escaped character to the literal it stands for.
// Unknown escapes stand for themselves, so "\|" is a literal '|'.
func decodeEscape(ch rune) rune {
	switch ch {
	case 'n':
		return '\n'
	case 't':
		return '\t'
	case 'r':
		return '\r'
	case '0':
		return 0
	}
	return ch
}

// infixToPostfix converts a pattern to postfix form, inserting the explicit
// concat operator between adjacent atoms. An atom is a literal, an escape, or
// a group; concat is needed whenever the previous token could end an atom
// (a literal, ')' or '*') and the current one starts a new atom.
func infixToPostfix(pattern string) ([]postfixToken, error) {
	processed := append([]rune(pattern), endMark)

	var out []postfixToken
	var ops []rune

	// prev tracks the previous significant character; endMark means "start
	// of input", matching the end-marker sentinel.
	prev := rune(endMark)

	pushConcat := func() {
		for len(ops) > 0 && priority(ops[len(ops)-1]) >= priority(opConcat) {
			out = append(out, postfixToken{op: true, ch: ops[len(ops)-1]})
			ops = ops[:len(ops)-1]
		}
		ops = append(ops, opConcat)
	}

	endsAtom := func(prev rune) bool {
		return prev != endMark && (prev == ')' || !isOperator(prev) || prev == '*')
	}

	for i := 0; i < len(processed); i++ {
		current := processed[i]

		// Escape sequence: the escaped character is an ordinary atom.
		if current == '\\' {
			if endsAtom(prev) {
				pushConcat()
			}
			if i+1 < len(processed) && processed[i+1] != endMark {
				out = append(out, postfixToken{ch: decodeEscape(processed[i+1])})
				i++
			} else {
				// Trailing backslash: treat it as a literal backslash.
				out = append(out, postfixToken{ch: '\\'})
			}
			prev = 'a'
			continue
		}

		if current != endMark && !isOperator(current) {
			if endsAtom(prev) {
				pushConcat()
			}
			out = append(out, postfixToken{ch: current})
			prev = current
			continue
		}

		switch current {
		case '(':
			if endsAtom(prev) {
				pushConcat()
			}
			ops = append(ops, current)
			prev = current

		case ')':
			for len(ops) > 0 && ops[len(ops)-1] != '(' {
				out = append(out, postfixToken{op: true, ch: ops[len(ops)-1]})
				ops = ops[:len(ops)-1]
			}
			if len(ops) == 0 {
				return nil, fmt.Errorf("unmatched parentheses in pattern %q", pattern)
			}
			ops = ops[:len(ops)-1]
			prev = current

		case endMark:
			for len(ops) > 0 {
				op := ops[len(ops)-1]
				ops = ops[:len(ops)-1]
				if op == '(' {
					return nil, fmt.Errorf("unmatched parentheses in pattern %q", pattern)
				}
				out = append(out, postfixToken{op: true, ch: op})
			}

		default: // '|' or '*'
			for len(ops) > 0 && priority(ops[len(ops)-1]) >= priority(current) && ops[len(ops)-1] != '(' {
				out = append(out, postfixToken{op: true, ch: ops[len(ops)-1]})
				ops = ops[:len(ops)-1]
			}
			ops = append(ops, current)
			prev = current
		}
	}

	return out, nil
}

// fragment is an intermediate value on the Thompson construction stack.
type fragment struct {
	start, end int
}

// Build compiles pattern into a Thompson NFA on a fresh arena.
func (b *Builder) Build(pattern string) (Machine, error) {
	if pattern == "" {
		return Machine{}, errors.New("pattern must not be empty")
	}

	postfix, err := infixToPostfix(pattern)
	if err != nil {
		return Machine{}, err
	}

	g := NewGraph()
	var stack []fragment

	pop := func() fragment {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		return f
	}

	for _, tok := range postfix {
		if !tok.op {
			stack = append(stack, literal(g, tok.ch))
			continue
		}

		switch tok.ch {
		case '|':
			if len(stack) < 2 {
				return Machine{}, fmt.Errorf("pattern %q: missing operand for |", pattern)
			}
			right := pop()
			left := pop()
			stack = append(stack, alternate(g, left, right))

		case opConcat:
			if len(stack) < 2 {
				return Machine{}, fmt.Errorf("pattern %q: missing operand for concatenation", pattern)
			}
			right := pop()
			left := pop()
			stack = append(stack, concatenate(g, left, right))

		case '*':
			if len(stack) == 0 {
				return Machine{}, fmt.Errorf("pattern %q: missing operand for *", pattern)
			}
			stack = append(stack, star(g, pop()))

		default:
			return Machine{}, fmt.Errorf("pattern %q: unsupported operator %q", pattern, tok.ch)
		}
	}

	if len(stack) != 1 {
		return Machine{}, fmt.Errorf("invalid pattern %q", pattern)
	}

	f := stack[0]
	return Machine{Graph: g, Start: f.start, End: f.end}, nil
}

// literal builds the two-node fragment for a single character.
func literal(g *Graph, ch rune) fragment {
	start := g.NewNode()
	end := g.NewNode()
	g.AddTransition(start, ch, end)
	return fragment{start, end}
}

// alternate wraps two fragments in a fresh split node and join node.
func alternate(g *Graph, a, b fragment) fragment {
	start := g.NewNode()
	end := g.NewNode()
	g.AddEpsilon(start, a.start)
	g.AddEpsilon(start, b.start)
	g.AddEpsilon(a.end, end)
	g.AddEpsilon(b.end, end)
	return fragment{start, end}
}

// concatenate epsilon-links the first fragment's end to the second's start.
func concatenate(g *Graph, a, b fragment) fragment {
	g.AddEpsilon(a.end, b.start)
	return fragment{a.start, b.end}
}

// star builds the Kleene closure: a fresh entry that can skip the fragment
// entirely, and a back-edge from the fragment's end to its start.
func star(g *Graph, f fragment) fragment {
	start := g.NewNode()
	end := g.NewNode()
	g.AddEpsilon(start, end)
	g.AddEpsilon(start, f.start)
	g.AddEpsilon(f.end, f.start)
	g.AddEpsilon(f.end, end)
	return fragment{start, end}
}
