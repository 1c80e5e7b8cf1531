package parser

import (
	"github.com/yxawander/minicc/lexer"
)

// SyntaxToken is a lexer token normalized to the grammar's terminal
// vocabulary: keywords, operators and delimiters become their own lexeme,
// identifiers become IDENT, and numeric literals collapse to NUM.
type SyntaxToken struct {
	Terminal string
	Lexeme   string
	Line     int
	Column   int
	Raw      string // the lexer-level kind this token came from
}

func fromLexToken(t lexer.Token) SyntaxToken {
	var terminal string
	switch t.Kind {
	case lexer.Keyword, lexer.Operator, lexer.Delimiter:
		terminal = t.Lexeme
	case lexer.Identifier:
		terminal = "IDENT"
	case lexer.Integer, lexer.Float:
		terminal = "NUM"
	case lexer.String:
		terminal = "STRING"
	default:
		terminal = t.Kind.String()
	}
	return SyntaxToken{
		Terminal: terminal,
		Lexeme:   t.Lexeme,
		Line:     t.Line,
		Column:   t.Column,
		Raw:      t.Kind.String(),
	}
}

// Normalize maps lexer tokens onto syntax tokens, optionally dropping Error
// tokens, and appends the EOF sentinel. The sentinel's position is derived
// from the last real token so diagnostics at end of input still point
// somewhere sensible.
func Normalize(tokens []lexer.Token, dropErrors bool) []SyntaxToken {
	out := make([]SyntaxToken, 0, len(tokens)+1)
	for _, t := range tokens {
		if dropErrors && t.Kind == lexer.Error {
			continue
		}
		out = append(out, fromLexToken(t))
	}

	eofLine, eofColumn := 1, 1
	if len(out) > 0 {
		last := out[len(out)-1]
		width := len([]rune(last.Lexeme))
		if width < 1 {
			width = 1
		}
		eofLine, eofColumn = last.Line, last.Column+width
	}
	out = append(out, SyntaxToken{Terminal: EndMarker, Line: eofLine, Column: eofColumn, Raw: EndMarker})
	return out
}

// Stream is a cursor over a normalized token sequence. Peeking past the end
// returns the EOF sentinel, and Advance never moves past it.
type Stream struct {
	tokens []SyntaxToken
	index  int
}

func NewStream(tokens []SyntaxToken) *Stream {
	return &Stream{tokens: tokens}
}

// Peek returns the token k positions ahead without moving the cursor; k=0 is
// the current token.
func (s *Stream) Peek(k int) SyntaxToken {
	idx := s.index + k
	if idx < 0 {
		idx = 0
	}
	if idx >= len(s.tokens) {
		return s.tokens[len(s.tokens)-1]
	}
	return s.tokens[idx]
}

// Advance returns the current token and moves to the next one.
func (s *Stream) Advance() SyntaxToken {
	tok := s.Peek(0)
	if s.index < len(s.tokens)-1 {
		s.index++
	}
	return tok
}

func (s *Stream) AtEnd() bool {
	return s.Peek(0).Terminal == EndMarker
}
