// Package minicc wires the lexical pipeline and the recursive-descent parser
// into a single front end for the toy C-like statement language: source text
// in, tokens, quadruples and diagnostics out.
package minicc

import (
	"fmt"

	"github.com/yxawander/minicc/lexer"
	"github.com/yxawander/minicc/parser"
)

// Result carries everything one compilation produced. All fields are
// read-only views for the caller; nothing here feeds back into the pipeline.
type Result struct {
	Tokens     []lexer.Token
	Quads      []parser.Quad
	Errors     []*parser.ParseError
	ParseTrace []string
	EmitTrace  []string

	// LexDiagnostics are pattern-compilation failures from lexer
	// construction; affected categories were skipped, not fatal.
	LexDiagnostics []error
}

// OK reports whether the source was syntactically accepted.
func (r *Result) OK() bool {
	return len(r.Errors) == 0
}

// Pipeline is a reusable compiler front end. The automata are built once in
// New; Compile can then be called any number of times.
type Pipeline struct {
	lex *lexer.Lexer
	cfg *Config
}

func New(cfg *Config) (*Pipeline, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	overrides := make(map[lexer.Kind]string)
	for name, pattern := range cfg.Patterns {
		kind, ok := kindByName(name)
		if !ok {
			return nil, fmt.Errorf("config: unknown token kind %q", name)
		}
		overrides[kind] = pattern
	}

	return &Pipeline{lex: lexer.NewWithPatterns(overrides), cfg: cfg}, nil
}

// Lexer exposes the underlying lexical pipeline, mainly for automaton dumps.
func (p *Pipeline) Lexer() *lexer.Lexer {
	return p.lex
}

// Compile runs source through tokenization, normalization and parsing.
func (p *Pipeline) Compile(source string) *Result {
	tokens := p.lex.Tokenize(source)

	normalized := parser.Normalize(tokens, !p.cfg.KeepErrorTokens)
	ps := parser.New(parser.NewStream(normalized))
	ps.AssignTable = p.cfg.AssignTable
	parsed := ps.ParseProgram()

	return &Result{
		Tokens:         tokens,
		Quads:          parsed.Quads,
		Errors:         parsed.Errors,
		ParseTrace:     parsed.ParseTrace,
		EmitTrace:      parsed.EmitTrace,
		LexDiagnostics: p.lex.Diagnostics(),
	}
}

func kindByName(name string) (lexer.Kind, bool) {
	for _, k := range []lexer.Kind{
		lexer.Keyword, lexer.Identifier, lexer.Integer, lexer.Float,
		lexer.Operator, lexer.Delimiter,
	} {
		if k.String() == name {
			return k, true
		}
	}
	return 0, false
}
