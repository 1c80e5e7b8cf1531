package lexer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenize(t *testing.T) {
	t.Parallel()
	l := New()
	require.Empty(t, l.Diagnostics())

	tests := []struct {
		name     string
		input    string
		expected []Token
	}{
		{
			name:  "identifier beats keyword prefix by length",
			input: "int3",
			expected: []Token{
				{Kind: Identifier, Lexeme: "int3", Line: 1, Column: 1},
			},
		},
		{
			name:  "keyword wins equal-length tie over identifier",
			input: "if",
			expected: []Token{
				{Kind: Keyword, Lexeme: "if", Line: 1, Column: 1},
			},
		},
		{
			name:  "declaration with initializer",
			input: "int x = 10;",
			expected: []Token{
				{Kind: Keyword, Lexeme: "int", Line: 1, Column: 1},
				{Kind: Identifier, Lexeme: "x", Line: 1, Column: 5},
				{Kind: Operator, Lexeme: "=", Line: 1, Column: 7},
				{Kind: Integer, Lexeme: "10", Line: 1, Column: 9},
				{Kind: Delimiter, Lexeme: ";", Line: 1, Column: 11},
			},
		},
		{
			name:  "float literal",
			input: "3.14",
			expected: []Token{
				{Kind: Float, Lexeme: "3.14", Line: 1, Column: 1},
			},
		},
		{
			name:  "compound operators are single tokens",
			input: "a+=b++",
			expected: []Token{
				{Kind: Identifier, Lexeme: "a", Line: 1, Column: 1},
				{Kind: Operator, Lexeme: "+=", Line: 1, Column: 2},
				{Kind: Identifier, Lexeme: "b", Line: 1, Column: 4},
				{Kind: Operator, Lexeme: "++", Line: 1, Column: 5},
			},
		},
		{
			name:  "newline resets column",
			input: "x\ny",
			expected: []Token{
				{Kind: Identifier, Lexeme: "x", Line: 1, Column: 1},
				{Kind: Identifier, Lexeme: "y", Line: 2, Column: 1},
			},
		},
		{
			name:  "string literal with escaped quote",
			input: `"he\"llo" x`,
			expected: []Token{
				{Kind: String, Lexeme: `"he\"llo"`, Line: 1, Column: 1},
				{Kind: Identifier, Lexeme: "x", Line: 1, Column: 11},
			},
		},
		{
			name:  "unterminated string runs to end of input",
			input: `"abc`,
			expected: []Token{
				{Kind: String, Lexeme: `"abc`, Line: 1, Column: 1},
			},
		},
		{
			name:  "unrecognized run becomes one error token",
			input: "@#@ x;",
			expected: []Token{
				{Kind: Error, Lexeme: "@#@", Line: 1, Column: 1},
				{Kind: Identifier, Lexeme: "x", Line: 1, Column: 5},
				{Kind: Delimiter, Lexeme: ";", Line: 1, Column: 6},
			},
		},
		{
			name:  "error token stops at semicolon",
			input: "@;",
			expected: []Token{
				{Kind: Error, Lexeme: "@", Line: 1, Column: 1},
				{Kind: Delimiter, Lexeme: ";", Line: 1, Column: 2},
			},
		},
		{
			name:     "whitespace only",
			input:    " \t\n ",
			expected: nil,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, l.Tokenize(tt.input))
		})
	}
}

func TestTokenizeKeywordsAndIdentifiers(t *testing.T) {
	t.Parallel()
	l := New()

	// Every keyword in the pattern table must lex as a keyword on its own,
	// and as an identifier when extended by one character.
	for _, kw := range []string{"do", "int", "float", "double", "char", "if", "else", "while", "for", "return", "void", "main"} {
		tokens := l.Tokenize(kw)
		require.Len(t, tokens, 1, "keyword %q", kw)
		assert.Equal(t, Keyword, tokens[0].Kind, "keyword %q", kw)

		tokens = l.Tokenize(kw + "x")
		require.Len(t, tokens, 1)
		assert.Equal(t, Identifier, tokens[0].Kind, "identifier %q", kw+"x")
	}
}

func TestTokenizeNoCrossBoundaryOverMatch(t *testing.T) {
	t.Parallel()
	l := New()

	// "int" is a maximal keyword match and ";" follows with no whitespace;
	// neither token may absorb part of the other.
	tokens := l.Tokenize("int;")
	require.Len(t, tokens, 2)
	assert.Equal(t, Token{Kind: Keyword, Lexeme: "int", Line: 1, Column: 1}, tokens[0])
	assert.Equal(t, Token{Kind: Delimiter, Lexeme: ";", Line: 1, Column: 4}, tokens[1])
}

func TestTokenizeMultiLineProgram(t *testing.T) {
	t.Parallel()
	l := New()

	tokens := l.Tokenize("int x = 1;\nfor(i=0;i<3;i++){\n  x=x+1;\n}")

	var kinds []Kind
	for _, tok := range tokens {
		kinds = append(kinds, tok.Kind)
	}
	assert.NotContains(t, kinds, Error)

	last := tokens[len(tokens)-1]
	assert.Equal(t, "}", last.Lexeme)
	assert.Equal(t, 4, last.Line)
	assert.Equal(t, 1, last.Column)
}

func TestLexerIsReusable(t *testing.T) {
	t.Parallel()
	l := New()

	first := l.Tokenize("int x;")
	second := l.Tokenize("int x;")
	assert.Equal(t, first, second)
}

func TestPatternOverride(t *testing.T) {
	t.Parallel()

	// Replace the keyword pattern with a single word; "if" then lexes as an
	// identifier because only the identifier automaton accepts it.
	l := NewWithPatterns(map[Kind]string{Keyword: "loop"})
	require.Empty(t, l.Diagnostics())

	tokens := l.Tokenize("if loop")
	require.Len(t, tokens, 2)
	assert.Equal(t, Identifier, tokens[0].Kind)
	assert.Equal(t, Keyword, tokens[1].Kind)
}

func TestBrokenPatternDegradesCategoryOnly(t *testing.T) {
	t.Parallel()

	l := NewWithPatterns(map[Kind]string{Integer: "(0|1"})
	require.Len(t, l.Diagnostics(), 1)
	assert.Nil(t, l.Automaton(Integer))

	// Integers no longer lex, but every other category still works.
	tokens := l.Tokenize("x = 5;")
	require.Len(t, tokens, 4)
	assert.Equal(t, Identifier, tokens[0].Kind)
	assert.Equal(t, Operator, tokens[1].Kind)
	assert.Equal(t, Error, tokens[2].Kind)
	assert.Equal(t, Delimiter, tokens[3].Kind)
}

func TestDumpAutomata(t *testing.T) {
	t.Parallel()
	l := New()

	dump := l.DumpAutomata()
	for _, kind := range []Kind{Keyword, Identifier, Integer, Float, Operator, Delimiter} {
		assert.Contains(t, dump, kind.String())
	}
	assert.Contains(t, dump, "transitions:")
}
