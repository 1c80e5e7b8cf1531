package minicc

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yxawander/minicc/lexer"
	"github.com/yxawander/minicc/parser"
)

func TestPipelineCompile(t *testing.T) {
	t.Parallel()

	p, err := New(nil)
	require.NoError(t, err)

	result := p.Compile("int sum = 0;\nfor(i=0;i<10;i++){sum+=i;}")
	require.True(t, result.OK(), "errors: %v", result.Errors)
	assert.Empty(t, result.LexDiagnostics)
	assert.NotEmpty(t, result.Tokens)
	assert.NotEmpty(t, result.ParseTrace)

	// The loop skeleton must be present and ordered: begin label, condition,
	// exit test, body, iteration, back edge, end label.
	var ops []string
	for _, q := range result.Quads {
		ops = append(ops, q.Op)
	}
	assert.Equal(t, []string{"=", "=", "label", "<", "ifFalse", "+", "=", "+", "=", "goto", "label"}, ops)
}

func TestPipelineCompileIsReusable(t *testing.T) {
	t.Parallel()

	p, err := New(nil)
	require.NoError(t, err)

	first := p.Compile("x = 1;")
	second := p.Compile("x = 1;")
	assert.Equal(t, first.Quads, second.Quads)
	assert.Equal(t, first.Tokens, second.Tokens)
}

func TestPipelineCompileReportsSyntaxErrors(t *testing.T) {
	t.Parallel()

	p, err := New(nil)
	require.NoError(t, err)

	result := p.Compile("int ;")
	assert.False(t, result.OK())
	require.Len(t, result.Errors, 1)
	assert.Equal(t, 1, result.Errors[0].Line)
}

func TestPipelineDropsErrorTokensByDefault(t *testing.T) {
	t.Parallel()

	p, err := New(nil)
	require.NoError(t, err)

	// The unrecognized run shows up in the token list but is dropped before
	// parsing, so the statement still goes through.
	result := p.Compile("x = 1; @#@")
	assert.True(t, result.OK(), "errors: %v", result.Errors)

	var sawError bool
	for _, tok := range result.Tokens {
		if tok.Kind == lexer.Error {
			sawError = true
		}
	}
	assert.True(t, sawError)
}

func TestPipelineKeepErrorTokens(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.KeepErrorTokens = true
	p, err := New(cfg)
	require.NoError(t, err)

	result := p.Compile("x = 1; @#@")
	assert.False(t, result.OK())
}

func TestPipelinePatternOverride(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.Patterns = map[string]string{"KEYWORD": "loop"}
	p, err := New(cfg)
	require.NoError(t, err)
	require.Empty(t, p.Lexer().Diagnostics())

	tokens := p.Lexer().Tokenize("if")
	require.Len(t, tokens, 1)
	assert.Equal(t, lexer.Identifier, tokens[0].Kind)
}

func TestPipelineUnknownPatternKind(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.Patterns = map[string]string{"NOPE": "a"}
	_, err := New(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown token kind")
}

func TestPipelineAssignTableToggle(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.AssignTable = false
	p, err := New(cfg)
	require.NoError(t, err)

	result := p.Compile("x = a + b;")
	require.True(t, result.OK())
	for _, line := range result.ParseTrace {
		assert.NotContains(t, line, "assignment analysis")
	}
}

func TestLoadConfig(t *testing.T) {
	t.Parallel()

	t.Run("empty path returns defaults", func(t *testing.T) {
		t.Parallel()
		cfg, err := LoadConfig("")
		require.NoError(t, err)
		assert.True(t, cfg.AssignTable)
		assert.False(t, cfg.KeepErrorTokens)
	})

	t.Run("missing file returns defaults", func(t *testing.T) {
		t.Parallel()
		cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yml"))
		require.NoError(t, err)
		assert.True(t, cfg.AssignTable)
	})

	t.Run("yaml values override defaults", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "cfg.yml")
		data := "keep-error-tokens: true\nassign-table: false\npatterns:\n  KEYWORD: loop\n"
		require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

		cfg, err := LoadConfig(path)
		require.NoError(t, err)
		assert.True(t, cfg.KeepErrorTokens)
		assert.False(t, cfg.AssignTable)
		assert.Equal(t, "loop", cfg.Patterns["KEYWORD"])
	})

	t.Run("malformed yaml errors", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "bad.yml")
		require.NoError(t, os.WriteFile(path, []byte("patterns: ["), 0o644))

		_, err := LoadConfig(path)
		require.Error(t, err)
	})
}

func TestResultQuadsRenderAsThreeAddress(t *testing.T) {
	t.Parallel()

	p, err := New(nil)
	require.NoError(t, err)

	result := p.Compile("x = a * b;")
	require.True(t, result.OK())
	require.Len(t, result.Quads, 2)
	assert.Equal(t, parser.Quad{Op: "*", Arg1: "a", Arg2: "b", Result: "t1"}, result.Quads[0])
	assert.Equal(t, "x = t1", result.Quads[1].ThreeAddress())
}
