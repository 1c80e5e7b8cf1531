package lexer

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/yxawander/minicc/dfa"
	"github.com/yxawander/minicc/nfa"
)

// category pairs a token kind with its restricted-regex pattern. The order of
// the table is significant: earlier categories win longest-match ties.
type category struct {
	kind    Kind
	pattern string
}

const (
	letters = "a|b|c|d|e|f|g|h|i|j|k|l|m|n|o|p|q|r|s|t|u|v|w|x|y|z|" +
		"A|B|C|D|E|F|G|H|I|J|K|L|M|N|O|P|Q|R|S|T|U|V|W|X|Y|Z|_"
	digits = "0|1|2|3|4|5|6|7|8|9"
)

func defaultCategories() []category {
	return []category{
		{Keyword, "do|int|float|double|char|if|else|while|for|return|void|main"},
		{Identifier, "(" + letters + ")(" + letters + "|" + digits + ")*"},
		{Integer, "(1|2|3|4|5|6|7|8|9)(" + digits + ")*|0"},
		{Float, "(" + digits + ")(" + digits + ")*.(" + digits + ")(" + digits + ")*"},
		{Operator, `==|!=|<=|>=|&&|\|\||\+\+|--|\+=|-=|\*=|/=|\+|\-|\*|/|=|>|<|!`},
		{Delimiter, `\(|\)|\{|\}|\[|\]|;|,|:`},
	}
}

// Lexer tokenizes source text with one minimized DFA per token category.
// Building a Lexer runs the full regex→NFA→DFA→minimal-DFA pipeline once per
// category; the resulting automata are immutable and a Lexer is safe to reuse
// across any number of Tokenize calls.
type Lexer struct {
	categories  []category
	automata    []*dfa.DFA // parallel to categories; nil when the pattern failed
	diagnostics []error
}

// New builds a Lexer from the built-in pattern table.
func New() *Lexer {
	return NewWithPatterns(nil)
}

// NewWithPatterns builds a Lexer, replacing the built-in pattern of any kind
// present in overrides. A category whose pattern fails to compile is skipped:
// lexing degrades for that category only and the failure is recorded as a
// diagnostic.
func NewWithPatterns(overrides map[Kind]string) *Lexer {
	l := &Lexer{categories: defaultCategories()}
	for i, c := range l.categories {
		if p, ok := overrides[c.kind]; ok {
			l.categories[i].pattern = p
		}
	}

	builder := nfa.NewBuilder()
	l.automata = make([]*dfa.DFA, len(l.categories))
	for i, c := range l.categories {
		machine, err := builder.Build(c.pattern)
		if err != nil {
			l.diagnostics = append(l.diagnostics, fmt.Errorf("building %s automaton: %w", c.kind, err))
			continue
		}
		l.automata[i] = dfa.Minimize(dfa.FromNFA(machine))
	}
	return l
}

// Diagnostics returns the pattern compilation failures recorded while
// building the lexer, one per degraded category.
func (l *Lexer) Diagnostics() []error {
	return l.diagnostics
}

// Automaton returns the minimized DFA for kind, or nil if its pattern failed
// to compile or kind is not automaton-backed.
func (l *Lexer) Automaton(kind Kind) *dfa.DFA {
	for i, c := range l.categories {
		if c.kind == kind {
			return l.automata[i]
		}
	}
	return nil
}

// Pattern returns the effective pattern for kind.
func (l *Lexer) Pattern(kind Kind) string {
	for _, c := range l.categories {
		if c.kind == kind {
			return c.pattern
		}
	}
	return ""
}

// DumpAutomata renders every category's pattern and minimized DFA.
func (l *Lexer) DumpAutomata() string {
	var b strings.Builder
	b.WriteString("========================================\n")
	b.WriteString("        patterns / minimized DFAs\n")
	b.WriteString("========================================\n\n")

	for i, c := range l.categories {
		b.WriteString("----------------------------------------\n")
		fmt.Fprintf(&b, "token kind: %s\n", c.kind)
		fmt.Fprintf(&b, "pattern: %s\n", c.pattern)
		if l.automata[i] == nil {
			b.WriteString("DFA: (build failed)\n")
			continue
		}
		b.WriteString("\n")
		b.WriteString(l.automata[i].String())
		b.WriteString("\n")
	}
	return b.String()
}

// Tokenize scans source left to right and returns the token sequence.
// Whitespace advances line/column bookkeeping but produces no token; a '"'
// starts the dedicated string-literal scan; anything else is matched by the
// longest accepting prefix across all automata, with the earliest-declared
// category winning length ties. Input no automaton accepts becomes an Error
// token, so the scan always makes progress.
func (l *Lexer) Tokenize(source string) []Token {
	input := []rune(source)
	var tokens []Token

	pos := 0
	line, column := 1, 1

	for pos < len(input) {
		ch := input[pos]

		if unicode.IsSpace(ch) {
			if ch == '\n' {
				line++
				column = 1
			} else {
				column++
			}
			pos++
			continue
		}

		var tok Token
		var ok bool
		if ch == '"' {
			tok = l.scanString(input, pos, line, column)
			ok = true
		} else {
			tok, ok = l.findLongestMatch(input, pos, line, column)
		}
		if !ok {
			tok = l.scanError(input, pos, line, column)
		}

		tokens = append(tokens, tok)
		line, column = advancePosition(tok.Lexeme, line, column)
		pos += len([]rune(tok.Lexeme))
	}

	return tokens
}

// findLongestMatch runs every automaton at pos and keeps the strictly longest
// accepted prefix. The strict comparison is deliberate: on equal lengths the
// earlier category keeps the match, which is what lets the exact-text keyword
// pattern beat the identifier pattern.
func (l *Lexer) findLongestMatch(input []rune, pos, line, column int) (Token, bool) {
	best := -1
	maxLength := 0

	for i, automaton := range l.automata {
		if automaton == nil {
			continue
		}
		if length, ok := automaton.Match(input, pos); ok && length > maxLength {
			maxLength = length
			best = i
		}
	}

	if best < 0 {
		return Token{}, false
	}
	return Token{
		Kind:   l.categories[best].kind,
		Lexeme: string(input[pos : pos+maxLength]),
		Line:   line,
		Column: column,
	}, true
}

// scanString consumes a quoted literal. A backslash escapes the next
// character, so an escaped '"' does not terminate the scan. The literal is
// never validated by the automata.
func (l *Lexer) scanString(input []rune, pos, line, column int) Token {
	end := pos + 1
	escaped := false
	for end < len(input) {
		c := input[end]
		if escaped {
			escaped = false
		} else if c == '\\' {
			escaped = true
		} else if c == '"' {
			end++
			break
		}
		end++
	}
	return Token{Kind: String, Lexeme: string(input[pos:end]), Line: line, Column: column}
}

// scanError consumes the run of characters up to the next whitespace or ';',
// at least one character long.
func (l *Lexer) scanError(input []rune, pos, line, column int) Token {
	end := pos + 1
	for end < len(input) {
		c := input[end]
		if unicode.IsSpace(c) || c == ';' {
			break
		}
		end++
	}
	return Token{Kind: Error, Lexeme: string(input[pos:end]), Line: line, Column: column}
}

func advancePosition(text string, line, column int) (int, int) {
	for _, c := range text {
		if c == '\n' {
			line++
			column = 1
		} else {
			column++
		}
	}
	return line, column
}
