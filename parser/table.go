package parser

import "fmt"

// The textbook predictive-analysis table shown for assignment statements uses
// the classic Expr/Term/Factor grammar:
//
//	S -> id op Expr ;   Expr -> Term ExprP   ExprP -> + Term ExprP | - Term ExprP | ε
//	Term -> Factor TermP   TermP -> * Factor TermP | / Factor TermP | ε
//	Factor -> id | num | ( Expr )
//
// It is display only and is driven by a private copy of the statement's
// tokens; the real parse never consults it.

// collectAssignStmtTokens peeks forward from the current token up to and
// including the next ';', without moving the stream.
func (p *Parser) collectAssignStmtTokens() []SyntaxToken {
	const limit = 200
	var out []SyntaxToken
	for k := 0; k < limit; k++ {
		t := p.stream.Peek(k)
		out = append(out, t)
		if t.Terminal == EndMarker || t.Terminal == ";" {
			break
		}
	}
	return out
}

func stmtLexemes(tokens []SyntaxToken) string {
	var s string
	for _, t := range tokens {
		if t.Terminal != EndMarker {
			s += t.Lexeme
		}
	}
	return s
}

// terminalKind maps a token to the terminal vocabulary of the display
// grammar.
func terminalKind(tok SyntaxToken) string {
	switch tok.Terminal {
	case "IDENT":
		return "id"
	case "NUM":
		return "num"
	case EndMarker:
		return EndMarker
	}
	return tok.Terminal
}

type tableRow struct {
	production string
	consumed   string
	lookahead  string
	remaining  string
}

// buildAssignTable renders the analysis table for a statement of the shape
// IDENT assign-op Expr ';'. Anything else yields no table.
func (p *Parser) buildAssignTable(stmtTokens []SyntaxToken) []string {
	if len(stmtTokens) < 4 {
		return nil
	}
	if stmtTokens[0].Terminal != "IDENT" {
		return nil
	}
	if !assignOps.Has(stmtTokens[1].Terminal) && !assignOps.Has(stmtTokens[1].Lexeme) {
		return nil
	}
	opLexeme := stmtTokens[1].Lexeme

	// Truncate at the semicolon so the remaining-input column is stable.
	semicolon := -1
	for i, t := range stmtTokens {
		if t.Terminal == ";" {
			semicolon = i
			break
		}
	}
	if semicolon < 0 {
		return nil
	}
	stmtTokens = stmtTokens[:semicolon+1]

	fullStmt := stmtLexemes(stmtTokens)

	i := 0
	consumed := ""

	remaining := func() string {
		return stmtLexemes(stmtTokens[i:])
	}
	lookahead := func() string {
		if i >= len(stmtTokens) {
			return ""
		}
		return stmtTokens[i].Lexeme
	}
	kind := func() string {
		if i >= len(stmtTokens) {
			return EndMarker
		}
		return terminalKind(stmtTokens[i])
	}

	var rows []tableRow
	addRow := func(production string) {
		rows = append(rows, tableRow{
			production: production,
			consumed:   consumed,
			lookahead:  lookahead(),
			remaining:  remaining(),
		})
	}
	consume := func() {
		consumed += stmtTokens[i].Lexeme
		i++
	}

	addRow(fmt.Sprintf("S -> id %s Expr ;", opLexeme))

	// id and op are matched implicitly by the S production.
	consume()
	consume()

	// The prediction stack only drives production choice; it is not shown.
	stack := []string{";", "Expr"}

loop:
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		la := kind()

		switch top {
		case ";":
			if la != ";" {
				break loop
			}
			consume()
			addRow("match ;")

		case "Expr":
			addRow("Expr -> Term ExprP")
			stack = append(stack, "ExprP", "Term")

		case "ExprP":
			switch la {
			case "+", "-":
				addRow(fmt.Sprintf("ExprP -> %s Term ExprP", la))
				stack = append(stack, "ExprP", "Term", la)
			case ")", ";", EndMarker:
				addRow("ExprP -> ε")
			default:
				break loop
			}

		case "Term":
			addRow("Term -> Factor TermP")
			stack = append(stack, "TermP", "Factor")

		case "TermP":
			switch la {
			case "*", "/":
				addRow(fmt.Sprintf("TermP -> %s Factor TermP", la))
				stack = append(stack, "TermP", "Factor", la)
			case "+", "-", ")", ";", EndMarker:
				addRow("TermP -> ε")
			default:
				break loop
			}

		case "Factor":
			switch la {
			case "id":
				addRow("Factor -> id")
				consume()
			case "num":
				addRow("Factor -> num")
				consume()
			case "(":
				addRow("Factor -> ( Expr )")
				stack = append(stack, ")", "Expr", "(")
			default:
				break loop
			}

		case "+", "-", "*", "/", "(", ")":
			if la != top {
				break loop
			}
			consume()

		default:
			break loop
		}
	}

	if len(rows) == 0 {
		return nil
	}

	out := []string{
		"",
		"[assignment analysis] " + fullStmt,
		"production | consumed | lookahead | remaining",
	}
	const gap = "      "
	for _, r := range rows {
		out = append(out, fmt.Sprintf("%-22s%s%-10s%s%-8s%s%s",
			r.production, gap, r.consumed, gap, r.lookahead, gap, r.remaining))
	}
	out = append(out, "")
	return out
}
