package parser

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yxawander/minicc/lexer"
)

func parseSource(t *testing.T, source string) *Result {
	t.Helper()
	tokens := lexer.New().Tokenize(source)
	p := New(NewStream(Normalize(tokens, true)))
	p.AssignTable = false
	return p.ParseProgram()
}

func TestParseSimpleStatements(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		source   string
		expected []Quad
	}{
		{
			name:     "declaration without initializer emits nothing",
			source:   "int x;",
			expected: nil,
		},
		{
			name:   "declaration with initializer",
			source: "int x = 10;",
			expected: []Quad{
				{Op: "=", Arg1: "10", Result: "x"},
			},
		},
		{
			name:   "plain assignment",
			source: "x = a + b * c;",
			expected: []Quad{
				{Op: "*", Arg1: "b", Arg2: "c", Result: "t1"},
				{Op: "+", Arg1: "a", Arg2: "t1", Result: "t2"},
				{Op: "=", Arg1: "t2", Result: "x"},
			},
		},
		{
			name:   "compound assignment expands to arithmetic plus copy",
			source: "x += 2;",
			expected: []Quad{
				{Op: "+", Arg1: "x", Arg2: "2", Result: "t1"},
				{Op: "=", Arg1: "t1", Result: "x"},
			},
		},
		{
			name:   "postfix increment",
			source: "i++;",
			expected: []Quad{
				{Op: "+", Arg1: "i", Arg2: "1", Result: "t1"},
				{Op: "=", Arg1: "t1", Result: "i"},
			},
		},
		{
			name:   "prefix decrement",
			source: "--i;",
			expected: []Quad{
				{Op: "-", Arg1: "i", Arg2: "1", Result: "t1"},
				{Op: "=", Arg1: "t1", Result: "i"},
			},
		},
		{
			name:   "unary minus subtracts from zero",
			source: "x = -y;",
			expected: []Quad{
				{Op: "-", Arg1: "0", Arg2: "y", Result: "t1"},
				{Op: "=", Arg1: "t1", Result: "x"},
			},
		},
		{
			name:   "unary plus is a no-op",
			source: "x = +y;",
			expected: []Quad{
				{Op: "=", Arg1: "y", Result: "x"},
			},
		},
		{
			name:   "parentheses override precedence",
			source: "x = (a + b) * c;",
			expected: []Quad{
				{Op: "+", Arg1: "a", Arg2: "b", Result: "t1"},
				{Op: "*", Arg1: "t1", Arg2: "c", Result: "t2"},
				{Op: "=", Arg1: "t2", Result: "x"},
			},
		},
		{
			name:   "relational binds looser than addition",
			source: "x = a + 1 < b;",
			expected: []Quad{
				{Op: "+", Arg1: "a", Arg2: "1", Result: "t1"},
				{Op: "<", Arg1: "t1", Arg2: "b", Result: "t2"},
				{Op: "=", Arg1: "t2", Result: "x"},
			},
		},
		{
			name:     "empty statement",
			source:   ";",
			expected: nil,
		},
		{
			name:     "empty block",
			source:   "{}",
			expected: nil,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			result := parseSource(t, tt.source)
			require.True(t, result.OK, "errors: %v", result.Errors)
			assert.Equal(t, tt.expected, result.Quads)
		})
	}
}

func TestParseForLoopQuadOrder(t *testing.T) {
	t.Parallel()

	// The condition and iteration expressions appear in the header but must be
	// emitted inside the loop: condition after the begin label, iteration
	// after the body.
	result := parseSource(t, "for(i=0;i<3;i++){x=x+1;}")
	require.True(t, result.OK, "errors: %v", result.Errors)

	assert.Equal(t, []Quad{
		{Op: "=", Arg1: "0", Result: "i"},
		{Op: "label", Result: "L1"},
		{Op: "<", Arg1: "i", Arg2: "3", Result: "t1"},
		{Op: "ifFalse", Arg1: "t1", Result: "L2"},
		{Op: "+", Arg1: "x", Arg2: "1", Result: "t3"},
		{Op: "=", Arg1: "t3", Result: "x"},
		{Op: "+", Arg1: "i", Arg2: "1", Result: "t2"},
		{Op: "=", Arg1: "t2", Result: "i"},
		{Op: "goto", Result: "L1"},
		{Op: "label", Result: "L2"},
	}, result.Quads)
}

func TestParseForLoopEmptyHeader(t *testing.T) {
	t.Parallel()

	// for(;;) body: no condition means no ifFalse, the loop is unconditional.
	result := parseSource(t, "for(;;)x=1;")
	require.True(t, result.OK, "errors: %v", result.Errors)

	assert.Equal(t, []Quad{
		{Op: "label", Result: "L1"},
		{Op: "=", Arg1: "1", Result: "x"},
		{Op: "goto", Result: "L1"},
		{Op: "label", Result: "L2"},
	}, result.Quads)
}

func TestParseForLoopWithDeclarationInit(t *testing.T) {
	t.Parallel()

	result := parseSource(t, "for(int i=0;i<2;++i);")
	require.True(t, result.OK, "errors: %v", result.Errors)

	assert.Equal(t, []Quad{
		{Op: "=", Arg1: "0", Result: "i"},
		{Op: "label", Result: "L1"},
		{Op: "<", Arg1: "i", Arg2: "2", Result: "t1"},
		{Op: "ifFalse", Arg1: "t1", Result: "L2"},
		{Op: "+", Arg1: "i", Arg2: "1", Result: "t2"},
		{Op: "=", Arg1: "t2", Result: "i"},
		{Op: "goto", Result: "L1"},
		{Op: "label", Result: "L2"},
	}, result.Quads)
}

func TestParseNestedForLoops(t *testing.T) {
	t.Parallel()

	result := parseSource(t, "for(i=0;i<2;i++){for(j=0;j<2;j++){x=x+1;}}")
	require.True(t, result.OK, "errors: %v", result.Errors)

	// The outer loop allocates L1/L2 before the inner loop runs, so the inner
	// loop gets L3/L4 and its back edge targets L3.
	var labels []string
	for _, q := range result.Quads {
		if q.Op == "label" {
			labels = append(labels, q.Result)
		}
	}
	assert.Equal(t, []string{"L1", "L3", "L4", "L2"}, labels)

	var gotos []string
	for _, q := range result.Quads {
		if q.Op == "goto" {
			gotos = append(gotos, q.Result)
		}
	}
	assert.Equal(t, []string{"L3", "L1"}, gotos)
}

func TestParseErrorRecovery(t *testing.T) {
	t.Parallel()

	// The malformed declaration is reported, the parse resynchronizes at its
	// ';' and the following statement is still translated.
	result := parseSource(t, "int ;\nx = 1;")
	require.False(t, result.OK)
	require.Len(t, result.Errors, 1)

	err := result.Errors[0]
	assert.Equal(t, 1, err.Line)
	assert.Contains(t, err.Error(), "syntax error at line 1")

	assert.Equal(t, []Quad{
		{Op: "=", Arg1: "1", Result: "x"},
	}, result.Quads)
}

func TestParseErrorRecoveryMultiple(t *testing.T) {
	t.Parallel()

	result := parseSource(t, "int ;\n= 2;\ny = 3;")
	require.False(t, result.OK)
	assert.Len(t, result.Errors, 2)

	// The final good statement still comes through.
	require.NotEmpty(t, result.Quads)
	assert.Equal(t, Quad{Op: "=", Arg1: "3", Result: "y"}, result.Quads[len(result.Quads)-1])
}

func TestParseRecoveryStrayClosingBrace(t *testing.T) {
	t.Parallel()

	// A surplus '}' at top level has no enclosing block to consume it; the
	// recovery path must skip it instead of resynchronizing on it forever.
	result := parseSource(t, "}")
	require.False(t, result.OK)
	require.Len(t, result.Errors, 1)

	result = parseSource(t, "{x=1;}}")
	require.False(t, result.OK)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, []Quad{
		{Op: "=", Arg1: "1", Result: "x"},
	}, result.Quads)
}

func TestParseRecoveryStrayBraceAfterForBody(t *testing.T) {
	t.Parallel()

	// The loop body's recovery leaves the '}' for an enclosing block, so the
	// top-level statement list is the one that discards it.
	result := parseSource(t, "for(;;)}")
	require.False(t, result.OK)
	assert.NotEmpty(t, result.Errors)
}

func TestParseRecoveryStrayBraceBetweenStatements(t *testing.T) {
	t.Parallel()

	result := parseSource(t, "x = 1;\n}\ny = 2;")
	require.False(t, result.OK)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, []Quad{
		{Op: "=", Arg1: "1", Result: "x"},
		{Op: "=", Arg1: "2", Result: "y"},
	}, result.Quads)
}

func TestParseErrorBareIdentifier(t *testing.T) {
	t.Parallel()

	result := parseSource(t, "y + 1;")
	require.False(t, result.OK)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0].Message, "assignment operator")
}

func TestParseErrorsAreInTrace(t *testing.T) {
	t.Parallel()

	result := parseSource(t, "int ;")
	require.Len(t, result.Errors, 1)

	trace := strings.Join(result.ParseTrace, "\n")
	assert.Contains(t, trace, result.Errors[0].Error())
}

func TestParseTraceShape(t *testing.T) {
	t.Parallel()

	result := parseSource(t, "x = 1;")
	require.True(t, result.OK)

	trace := strings.Join(result.ParseTrace, "\n")
	assert.Contains(t, trace, "enter <Program>")
	assert.Contains(t, trace, "production: Stmt -> AssignStmt ;")
	assert.Contains(t, trace, "match IDENT (x)")
	assert.Contains(t, trace, "leave <Program>")

	// Nesting shows as two-space indentation.
	assert.Contains(t, trace, "\n  enter <StmtList>")
}

func TestAssignTableInTrace(t *testing.T) {
	t.Parallel()

	tokens := lexer.New().Tokenize("x = a + b;")
	p := New(NewStream(Normalize(tokens, true)))
	result := p.ParseProgram()
	require.True(t, result.OK)

	trace := strings.Join(result.ParseTrace, "\n")
	assert.Contains(t, trace, "production | consumed | lookahead | remaining")
}

func TestEmitTraceMatchesQuads(t *testing.T) {
	t.Parallel()

	result := parseSource(t, "x = a + b;")
	require.True(t, result.OK)
	require.Len(t, result.EmitTrace, len(result.Quads))
	for i, q := range result.Quads {
		assert.Equal(t, q.ThreeAddress(), result.EmitTrace[i])
	}
}
