package lexer

import "fmt"

// Kind classifies a token. The declaration order of the automaton-backed
// kinds (Keyword through Delimiter) doubles as the tie-break order when two
// automata match prefixes of equal length.
type Kind int

const (
	Keyword Kind = iota
	Identifier
	Integer
	Float
	Operator
	Delimiter
	String
	Error
)

var kindNames = map[Kind]string{
	Keyword:    "KEYWORD",
	Identifier: "IDENTIFIER",
	Integer:    "INTEGER",
	Float:      "FLOAT",
	Operator:   "OPERATOR",
	Delimiter:  "DELIMITER",
	String:     "STRING",
	Error:      "ERROR",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Token is one lexeme with its 1-based source position. Immutable once
// produced.
type Token struct {
	Kind   Kind
	Lexeme string
	Line   int
	Column int
}

func (t Token) String() string {
	return fmt.Sprintf("⟨%s, %q⟩ at %d:%d", t.Kind, t.Lexeme, t.Line, t.Column)
}
