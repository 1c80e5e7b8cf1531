package parser

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// ParseError is a recoverable syntax error. Errors are collected over the
// whole parse and reported as data; a parse never aborts on the first one.
type ParseError struct {
	Message  string
	Line     int
	Column   int
	Got      string
	Expected []string
}

func (e *ParseError) Error() string {
	expected := ""
	if len(e.Expected) > 0 {
		sorted := append([]string(nil), e.Expected...)
		sort.Strings(sorted)
		expected = ", expected: " + strings.Join(sorted, ", ")
	}
	return fmt.Sprintf("syntax error at line %d, column %d: %s (got %s%s)",
		e.Line, e.Column, e.Message, e.Got, expected)
}

var (
	typeKeywords   = TerminalSet{"int": true, "float": true, "double": true, "char": true}
	relOps         = TerminalSet{"<": true, "<=": true, ">": true, ">=": true, "==": true, "!=": true}
	addOps         = TerminalSet{"+": true, "-": true}
	mulOps         = TerminalSet{"*": true, "/": true}
	assignOps      = TerminalSet{"=": true, "+=": true, "-=": true, "*=": true, "/=": true}
	unaryPrefixOps = TerminalSet{"+": true, "-": true, "!": true}
)

var (
	defaultSetsOnce sync.Once
	defaultSets     *Sets
)

// DefaultSets returns the FIRST/FOLLOW/SELECT tables of DefaultGrammar,
// computed on first use and shared by every parser.
func DefaultSets() *Sets {
	defaultSetsOnce.Do(func() {
		defaultSets = DefaultGrammar().Analyze()
	})
	return defaultSets
}

// Result is the outcome of one parse: collected errors, the parse trace, the
// emission trace and the quad stream. OK means no error was recorded.
type Result struct {
	OK         bool
	Errors     []*ParseError
	ParseTrace []string
	EmitTrace  []string
	Quads      []Quad
}

// Parser is a recursive-descent parser over a normalized token stream, one
// method per nonterminal, choosing alternatives by SELECT-set membership of
// the single lookahead terminal. It emits three-address code as expressions
// are reduced. A Parser is single use: one stream, one ParseProgram call.
type Parser struct {
	stream  *Stream
	errors  []*ParseError
	trace   []string
	indent  int
	emitter *Emitter
	out     emitter

	// AssignTable controls whether assignment statements get a textbook
	// predictive-analysis table appended to the parse trace.
	AssignTable bool

	selStmtFor    TerminalSet
	selStmtBlock  TerminalSet
	selStmtDecl   TerminalSet
	selStmtEmpty  TerminalSet
	selStmtPrefix TerminalSet
	selStmtIdent  TerminalSet
	selForInitEps TerminalSet
	selForCondEps TerminalSet
	selForIterEps TerminalSet
	firstExpr     TerminalSet
}

func New(stream *Stream) *Parser {
	sets := DefaultSets()
	em := NewEmitter()
	return &Parser{
		stream:      stream,
		emitter:     em,
		out:         em,
		AssignTable: true,

		selStmtFor:    sets.SelectFor("Stmt", "ForStmt"),
		selStmtBlock:  sets.SelectFor("Stmt", "Block"),
		selStmtDecl:   sets.SelectFor("Stmt", "DeclStmt", ";"),
		selStmtEmpty:  sets.SelectFor("Stmt", ";"),
		selStmtPrefix: sets.SelectFor("Stmt", "PrefixIncDec", ";"),
		selStmtIdent:  sets.SelectFor("Stmt", "IDENT", "IdStmtTail", ";"),
		selForInitEps: sets.SelectFor("ForInitOpt"),
		selForCondEps: sets.SelectFor("ForCondOpt"),
		selForIterEps: sets.SelectFor("ForIterOpt"),
		firstExpr:     sets.First["Expr"],
	}
}

// ParseProgram parses the whole stream and returns the collected result.
func (p *Parser) ParseProgram() *Result {
	p.enter("Program")
	p.stmtList(TerminalSet{EndMarker: true})
	if _, err := p.expect(EndMarker); err != nil {
		p.errors = append(p.errors, err)
	}
	p.leave("Program")

	return &Result{
		OK:         len(p.errors) == 0,
		Errors:     p.errors,
		ParseTrace: p.trace,
		EmitTrace:  append([]string(nil), p.emitter.Trace()...),
		Quads:      p.emitter.Quads(),
	}
}

// Emitter exposes the underlying code emitter, mainly for listings.
func (p *Parser) Emitter() *Emitter {
	return p.emitter
}

// ---------------- trace helpers ----------------

func (p *Parser) log(msg string) {
	p.trace = append(p.trace, strings.Repeat("  ", p.indent)+msg)
}

func (p *Parser) production(lhs, rhs string) {
	p.log("production: " + lhs + " -> " + rhs)
}

func (p *Parser) enter(name string) {
	p.log("enter <" + name + ">")
	p.indent++
}

func (p *Parser) leave(name string) {
	if p.indent > 0 {
		p.indent--
	}
	p.log("leave <" + name + ">")
}

// ---------------- token helpers ----------------

func (p *Parser) peek() SyntaxToken {
	return p.stream.Peek(0)
}

func (p *Parser) match(terminal string) (SyntaxToken, bool) {
	if p.peek().Terminal != terminal {
		return SyntaxToken{}, false
	}
	tok := p.stream.Advance()
	p.log(fmt.Sprintf("match %s (%s)", terminal, tok.Lexeme))
	return tok, true
}

func (p *Parser) expect(terminal string) (SyntaxToken, *ParseError) {
	tok := p.peek()
	if tok.Terminal != terminal {
		got := tok.Terminal
		if got == "" {
			got = tok.Lexeme
		}
		return SyntaxToken{}, &ParseError{
			Message:  "unexpected terminal",
			Line:     tok.Line,
			Column:   tok.Column,
			Got:      got,
			Expected: []string{terminal},
		}
	}
	got := p.stream.Advance()
	p.log(fmt.Sprintf("match %s (%s)", got.Terminal, got.Lexeme))
	return got, nil
}

func (p *Parser) expectAny(terminals []string) (SyntaxToken, *ParseError) {
	tok := p.peek()
	for _, t := range terminals {
		if tok.Terminal == t {
			p.log(fmt.Sprintf("match %s (%s)", tok.Terminal, tok.Lexeme))
			return p.stream.Advance(), nil
		}
	}
	return SyntaxToken{}, &ParseError{
		Message:  "unexpected terminal",
		Line:     tok.Line,
		Column:   tok.Column,
		Got:      tok.Terminal,
		Expected: terminals,
	}
}

// syncTo discards tokens until one from sync or end of input is seen.
func (p *Parser) syncTo(sync TerminalSet) {
	for !sync.Has(p.peek().Terminal) && p.peek().Terminal != EndMarker {
		p.stream.Advance()
	}
}

// withSink redirects emission into sink for the duration of fn. The restore
// is deferred so a parse error inside fn cannot leave the parser emitting
// into a dead buffer.
func (p *Parser) withSink(sink emitter, fn func()) {
	saved := p.out
	p.out = sink
	defer func() { p.out = saved }()
	fn()
}

// ---------------- statements ----------------

func (p *Parser) stmtList(stop TerminalSet) {
	p.enter("StmtList")
	for !stop.Has(p.peek().Terminal) && p.peek().Terminal != EndMarker {
		p.stmt(stop)
	}
	p.leave("StmtList")
}

// stmt is the panic-mode recovery point: any syntax error below it is
// recorded here and the stream is resynchronized to ';', '}' or end of
// input. The sync token is consumed unless it belongs to the enclosing
// context (a '}' the caller's stop set claims), so recovery always makes
// progress.
func (p *Parser) stmt(stop TerminalSet) {
	p.enter("Stmt")
	defer p.leave("Stmt")

	tok := p.peek()
	var err *ParseError

	switch {
	case p.selStmtFor.Has(tok.Terminal):
		p.production("Stmt", "ForStmt")
		err = p.forStmt()
	case p.selStmtBlock.Has(tok.Terminal):
		p.production("Stmt", "Block")
		err = p.block()
	case p.selStmtDecl.Has(tok.Terminal):
		p.production("Stmt", "DeclStmt ;")
		err = p.declStmt(true)
	case p.selStmtEmpty.Has(tok.Terminal):
		p.production("Stmt", ";")
		_, err = p.expect(";")
	case p.selStmtPrefix.Has(tok.Terminal):
		p.production("Stmt", "IncDec ;")
		err = p.incDec(true)
	case p.selStmtIdent.Has(tok.Terminal):
		la2 := p.stream.Peek(1).Terminal
		switch {
		case la2 == "++" || la2 == "--":
			p.production("Stmt", "IncDec ;")
			err = p.incDec(true)
		case assignOps.Has(la2):
			p.production("Stmt", "AssignStmt ;")
			err = p.assignStmt(true)
		default:
			err = &ParseError{
				Message:  "statement starting with IDENT needs ++/-- or an assignment operator",
				Line:     tok.Line,
				Column:   tok.Column,
				Got:      la2,
				Expected: append(assignOps.Sorted(), "++", "--"),
			}
		}
	default:
		err = &ParseError{
			Message:  "unrecognized statement start",
			Line:     tok.Line,
			Column:   tok.Column,
			Got:      tok.Terminal,
			Expected: append([]string{"for", "{", ";", "IDENT", "++", "--"}, typeKeywords.Sorted()...),
		}
	}

	if err != nil {
		p.errors = append(p.errors, err)
		p.log(err.Error())
		p.syncTo(TerminalSet{";": true, "}": true})
		switch t := p.peek().Terminal; {
		case t == ";":
			p.stream.Advance()
		case t == "}" && !stop.Has("}"):
			p.stream.Advance()
		}
	}
}

func (p *Parser) block() *ParseError {
	p.enter("Block")
	defer p.leave("Block")

	if _, err := p.expect("{"); err != nil {
		return err
	}
	p.stmtList(TerminalSet{"}": true})
	_, err := p.expect("}")
	return err
}

// forStmt parses the loop header left to right, buffering the condition and
// iteration code in deferred emitters, then lays out the skeleton
//
//	label L_begin; cond; ifFalse goto L_end; body; iter; goto L_begin; label L_end
//
// so the condition is recomputed every iteration and the iteration expression
// runs after the body, despite both appearing lexically in the header.
func (p *Parser) forStmt() *ParseError {
	p.enter("ForStmt")
	defer p.leave("ForStmt")
	p.production("ForStmt", "for ( ForInitOpt ; ForCondOpt ; ForIterOpt ) Stmt")

	if _, err := p.expect("for"); err != nil {
		return err
	}
	if _, err := p.expect("("); err != nil {
		return err
	}

	// init runs once, straight into the main stream.
	switch tok := p.peek(); {
	case typeKeywords.Has(tok.Terminal):
		p.production("ForInitOpt", "DeclStmt")
		if err := p.declStmt(false); err != nil {
			return err
		}
	case tok.Terminal == "IDENT":
		la2 := p.stream.Peek(1).Terminal
		switch {
		case la2 == "++" || la2 == "--":
			p.production("ForInitOpt", "IncDec")
			if err := p.incDec(false); err != nil {
				return err
			}
		case assignOps.Has(la2):
			p.production("ForInitOpt", "AssignStmt")
			if err := p.assignStmt(false); err != nil {
				return err
			}
		default:
			return &ParseError{
				Message:  "for-init: IDENT needs ++/-- or an assignment operator",
				Line:     tok.Line,
				Column:   tok.Column,
				Got:      la2,
				Expected: append(assignOps.Sorted(), "++", "--"),
			}
		}
	case p.selStmtPrefix.Has(tok.Terminal):
		p.production("ForInitOpt", "IncDec")
		if err := p.incDec(false); err != nil {
			return err
		}
	case p.selForInitEps.Has(tok.Terminal):
		p.production("ForInitOpt", epsilon)
	default:
		return &ParseError{
			Message:  "for-init: unsupported start",
			Line:     tok.Line,
			Column:   tok.Column,
			Got:      tok.Terminal,
			Expected: append(typeKeywords.Sorted(), "IDENT", "++", "--", ";"),
		}
	}
	if _, err := p.expect(";"); err != nil {
		return err
	}

	// cond is parsed now but emitted after L_begin.
	condPlace := ""
	hasCond := false
	condBuf := newDeferred(p.emitter)
	switch tok := p.peek(); {
	case p.firstExpr.Has(tok.Terminal):
		p.production("ForCondOpt", "Expr")
		var err *ParseError
		p.withSink(condBuf, func() {
			condPlace, err = p.expr()
		})
		if err != nil {
			return err
		}
		hasCond = true
	case p.selForCondEps.Has(tok.Terminal):
		p.production("ForCondOpt", epsilon)
	default:
		return &ParseError{
			Message:  "for-cond: unsupported start",
			Line:     tok.Line,
			Column:   tok.Column,
			Got:      tok.Terminal,
			Expected: append(p.firstExpr.Sorted(), ";"),
		}
	}
	if _, err := p.expect(";"); err != nil {
		return err
	}

	// iter is parsed now but emitted after the body.
	iterBuf := newDeferred(p.emitter)
	switch tok := p.peek(); {
	case tok.Terminal == "IDENT":
		la2 := p.stream.Peek(1).Terminal
		p.production("ForIterOpt", "AssignStmt | IncDec")
		var err *ParseError
		p.withSink(iterBuf, func() {
			switch {
			case la2 == "++" || la2 == "--":
				err = p.incDec(false)
			case assignOps.Has(la2):
				err = p.assignStmt(false)
			default:
				err = &ParseError{
					Message:  "for-iter: IDENT needs ++/-- or an assignment operator",
					Line:     tok.Line,
					Column:   tok.Column,
					Got:      la2,
					Expected: append(assignOps.Sorted(), "++", "--"),
				}
			}
		})
		if err != nil {
			return err
		}
	case p.selStmtPrefix.Has(tok.Terminal):
		p.production("ForIterOpt", "IncDec")
		var err *ParseError
		p.withSink(iterBuf, func() {
			err = p.incDec(false)
		})
		if err != nil {
			return err
		}
	case p.selForIterEps.Has(tok.Terminal):
		p.production("ForIterOpt", epsilon)
	default:
		return &ParseError{
			Message:  "for-iter: unsupported start",
			Line:     tok.Line,
			Column:   tok.Column,
			Got:      tok.Terminal,
			Expected: []string{"IDENT", "++", "--", ")"},
		}
	}
	if _, err := p.expect(")"); err != nil {
		return err
	}

	begin := p.emitter.NewLabel()
	end := p.emitter.NewLabel()

	p.emitter.Label(begin)
	if hasCond {
		condBuf.flush()
		p.emitter.IfFalse(condPlace, end)
	}

	p.stmt(TerminalSet{"}": true})

	iterBuf.flush()
	p.emitter.Goto(begin)
	p.emitter.Label(end)
	return nil
}

func (p *Parser) declStmt(requireSemicolon bool) *ParseError {
	p.enter("DeclStmt")
	defer p.leave("DeclStmt")

	if _, err := p.expectAny(typeKeywords.Sorted()); err != nil {
		return err
	}
	ident, err := p.expect("IDENT")
	if err != nil {
		return err
	}

	if _, ok := p.match("="); ok {
		rhs, err := p.expr()
		if err != nil {
			return err
		}
		p.out.Emit("=", rhs, "", ident.Lexeme)
	}

	if requireSemicolon {
		if _, err := p.expect(";"); err != nil {
			return err
		}
	}
	return nil
}

func (p *Parser) assignStmt(requireSemicolon bool) *ParseError {
	p.enter("AssignStmt")
	defer p.leave("AssignStmt")

	// Peek the statement's tokens up front so the textbook analysis table can
	// be rendered; the real parse below is unaffected.
	var tableLines []string
	if p.AssignTable && requireSemicolon {
		tableLines = p.buildAssignTable(p.collectAssignStmtTokens())
	}

	if _, err := p.assignExpr(); err != nil {
		return err
	}
	if requireSemicolon {
		if _, err := p.expect(";"); err != nil {
			return err
		}
	}

	p.trace = append(p.trace, tableLines...)
	return nil
}

func (p *Parser) assignExpr() (string, *ParseError) {
	p.enter("AssignExpr")
	defer p.leave("AssignExpr")

	ident, err := p.expect("IDENT")
	if err != nil {
		return "", err
	}
	opTok, err := p.expectAny(assignOps.Sorted())
	if err != nil {
		return "", err
	}
	rhs, err := p.expr()
	if err != nil {
		return "", err
	}

	if opTok.Terminal == "=" {
		p.out.Emit("=", rhs, "", ident.Lexeme)
	} else {
		// x += y is x = x + y
		arith := strings.TrimSuffix(opTok.Terminal, "=")
		t := p.out.NewTemp()
		p.out.Emit(arith, ident.Lexeme, rhs, t)
		p.out.Emit("=", t, "", ident.Lexeme)
	}
	return ident.Lexeme, nil
}

func (p *Parser) incDec(requireSemicolon bool) *ParseError {
	p.enter("IncDec")
	defer p.leave("IncDec")

	var op string
	var ident SyntaxToken
	if t := p.peek().Terminal; t == "++" || t == "--" {
		op = p.stream.Advance().Terminal
		tok, err := p.expect("IDENT")
		if err != nil {
			return err
		}
		ident = tok
	} else {
		tok, err := p.expect("IDENT")
		if err != nil {
			return err
		}
		ident = tok
		opTok, err := p.expectAny([]string{"++", "--"})
		if err != nil {
			return err
		}
		op = opTok.Terminal
	}

	t := p.out.NewTemp()
	if op == "++" {
		p.out.Emit("+", ident.Lexeme, "1", t)
	} else {
		p.out.Emit("-", ident.Lexeme, "1", t)
	}
	p.out.Emit("=", t, "", ident.Lexeme)

	if requireSemicolon {
		if _, err := p.expect(";"); err != nil {
			return err
		}
	}
	return nil
}

// ---------------- expressions ----------------

func (p *Parser) expr() (string, *ParseError) {
	p.enter("Expr")
	defer p.leave("Expr")

	left, err := p.addExpr()
	if err != nil {
		return "", err
	}
	for relOps.Has(p.peek().Terminal) {
		op := p.stream.Advance().Terminal
		right, err := p.addExpr()
		if err != nil {
			return "", err
		}
		t := p.out.NewTemp()
		p.out.Emit(op, left, right, t)
		left = t
	}
	return left, nil
}

func (p *Parser) addExpr() (string, *ParseError) {
	p.enter("AddExpr")
	defer p.leave("AddExpr")

	left, err := p.mulExpr()
	if err != nil {
		return "", err
	}
	for addOps.Has(p.peek().Terminal) {
		op := p.stream.Advance().Terminal
		right, err := p.mulExpr()
		if err != nil {
			return "", err
		}
		t := p.out.NewTemp()
		p.out.Emit(op, left, right, t)
		left = t
	}
	return left, nil
}

func (p *Parser) mulExpr() (string, *ParseError) {
	p.enter("MulExpr")
	defer p.leave("MulExpr")

	left, err := p.unary()
	if err != nil {
		return "", err
	}
	for mulOps.Has(p.peek().Terminal) {
		op := p.stream.Advance().Terminal
		right, err := p.unary()
		if err != nil {
			return "", err
		}
		t := p.out.NewTemp()
		p.out.Emit(op, left, right, t)
		left = t
	}
	return left, nil
}

func (p *Parser) unary() (string, *ParseError) {
	p.enter("Unary")
	defer p.leave("Unary")

	if unaryPrefixOps.Has(p.peek().Terminal) {
		op := p.stream.Advance().Terminal
		operand, err := p.unary()
		if err != nil {
			return "", err
		}
		// unary + is a no-op passthrough
		if op == "+" {
			return operand, nil
		}
		t := p.out.NewTemp()
		if op == "-" {
			p.out.Emit("-", "0", operand, t)
		} else {
			p.out.Emit("!", operand, "", t)
		}
		return t, nil
	}

	return p.primary()
}

func (p *Parser) primary() (string, *ParseError) {
	p.enter("Primary")
	defer p.leave("Primary")

	tok := p.peek()
	switch tok.Terminal {
	case "IDENT", "NUM":
		t := p.stream.Advance()
		p.log(fmt.Sprintf("match %s (%s)", t.Terminal, t.Lexeme))
		return t.Lexeme, nil
	case "(":
		if _, err := p.expect("("); err != nil {
			return "", err
		}
		place, err := p.expr()
		if err != nil {
			return "", err
		}
		if _, err := p.expect(")"); err != nil {
			return "", err
		}
		return place, nil
	}

	return "", &ParseError{
		Message:  "expression is missing an operand",
		Line:     tok.Line,
		Column:   tok.Column,
		Got:      tok.Terminal,
		Expected: []string{"IDENT", "NUM", "("},
	}
}
