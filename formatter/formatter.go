// Package formatter renders the compiler core's outputs (token lists, parse
// errors, quad streams, traces) as human-readable reports. Everything here is
// a pure read-only view over core data.
package formatter

import (
	"fmt"
	"strings"

	"github.com/fatih/color"

	"github.com/yxawander/minicc/lexer"
	"github.com/yxawander/minicc/parser"
)

var (
	headerStyle  = color.New(color.FgCyan, color.Bold)
	errorStyle   = color.New(color.FgRed, color.Bold)
	kindStyle    = color.New(color.FgYellow)
	lineStyle    = color.New(color.FgHiBlue, color.Bold)
	successStyle = color.New(color.FgGreen, color.Bold)
)

const (
	heavyRule = "========================================"
	lightRule = "────────────────────────────────────────"
)

// EscapeLexeme makes a lexeme safe for single-line display: control
// characters and quotes become backslash escapes, anything non-printable
// becomes \uXXXX, and long results are truncated.
func EscapeLexeme(lexeme string) string {
	if lexeme == "" {
		return "[empty]"
	}

	var b strings.Builder
	for _, c := range lexeme {
		switch c {
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		case '\r':
			b.WriteString(`\r`)
		case '\b':
			b.WriteString(`\b`)
		case '\f':
			b.WriteString(`\f`)
		case '"':
			b.WriteString(`\"`)
		case '\'':
			b.WriteString(`\'`)
		case '\\':
			b.WriteString(`\\`)
		default:
			if c < 32 || c > 126 {
				fmt.Fprintf(&b, `\u%04x`, c)
			} else {
				b.WriteRune(c)
			}
		}
	}

	escaped := b.String()
	if len(escaped) > 50 {
		return escaped[:47] + "..."
	}
	return escaped
}

// TokenReport renders the token list of one source file with per-line
// separators and per-category statistics.
func TokenReport(tokens []lexer.Token, sourceName string) string {
	var b strings.Builder
	b.WriteString(heavyRule + "\n")
	b.WriteString(headerStyle.Sprint("          lexical analysis report") + "\n")
	b.WriteString(heavyRule + "\n")
	fmt.Fprintf(&b, "source: %s\n", sourceName)
	b.WriteString(heavyRule + "\n\n")

	counts := make(map[lexer.Kind]int)
	currentLine := -1

	for _, tok := range tokens {
		counts[tok.Kind]++

		if tok.Line != currentLine {
			if currentLine != -1 {
				b.WriteString(lightRule + "\n")
			}
			currentLine = tok.Line
		}

		fmt.Fprintf(&b, "line %4d, col %3d | %s | %s\n",
			tok.Line, tok.Column, kindStyle.Sprintf("%-10s", tok.Kind), EscapeLexeme(tok.Lexeme))
		if tok.Kind == lexer.Error {
			b.WriteString(errorStyle.Sprintf("           unrecognized symbol %q", tok.Lexeme) + "\n")
		}
	}
	if currentLine != -1 {
		b.WriteString(lightRule + "\n")
	}

	total := len(tokens)
	errorRate := 0.0
	if total > 0 {
		errorRate = float64(counts[lexer.Error]) * 100.0 / float64(total)
	}

	b.WriteString("\n" + heavyRule + "\n")
	b.WriteString(headerStyle.Sprint("             statistics") + "\n")
	b.WriteString(heavyRule + "\n")
	fmt.Fprintf(&b, "total tokens:  %8d\n", total)
	b.WriteString(lightRule + "\n")
	for _, kind := range []lexer.Kind{
		lexer.Keyword, lexer.Identifier, lexer.Integer, lexer.Float,
		lexer.Operator, lexer.Delimiter, lexer.String,
	} {
		fmt.Fprintf(&b, "%-14s %8d\n", strings.ToLower(kind.String())+":", counts[kind])
	}
	b.WriteString(lightRule + "\n")
	fmt.Fprintf(&b, "error tokens:  %8d\n", counts[lexer.Error])
	fmt.Fprintf(&b, "error rate:    %7.2f%%\n", errorRate)
	b.WriteString(heavyRule + "\n")
	return b.String()
}

// ParseErrorReport renders the collected syntax errors, or a success line
// when there are none.
func ParseErrorReport(errs []*parser.ParseError) string {
	if len(errs) == 0 {
		return successStyle.Sprint("parse succeeded: no syntax errors") + "\n"
	}

	var b strings.Builder
	b.WriteString(errorStyle.Sprintf("%d syntax error(s)", len(errs)) + "\n")
	for _, e := range errs {
		b.WriteString(lineStyle.Sprintf(" --> line %d, col %d: ", e.Line, e.Column))
		b.WriteString(e.Error() + "\n")
	}
	return b.String()
}

// TACListing renders a quad stream as a numbered three-address listing.
func TACListing(quads []parser.Quad) string {
	var b strings.Builder
	b.WriteString(heavyRule + "\n")
	b.WriteString("           three-address code\n")
	b.WriteString(heavyRule + "\n\n")
	for i, q := range quads {
		fmt.Fprintf(&b, "%04d: %s\n", i+1, q.ThreeAddress())
	}
	return b.String()
}

// QuadListing renders a quad stream in raw quadruple form.
func QuadListing(quads []parser.Quad) string {
	var b strings.Builder
	b.WriteString(heavyRule + "\n")
	b.WriteString("              quadruples\n")
	b.WriteString(heavyRule + "\n\n")
	for i, q := range quads {
		fmt.Fprintf(&b, "%04d: (%s, %s, %s, %s)\n", i+1, q.Op, q.Arg1, q.Arg2, q.Result)
	}
	return b.String()
}

// ParseLog renders the parse trace and emission trace the way they are
// written to the parser log file: two titled sections, errors appended when
// present.
func ParseLog(parseTrace, emitTrace []string, errs []*parser.ParseError) string {
	var b strings.Builder
	b.WriteString(heavyRule + "\n")
	b.WriteString("        recursive-descent parse log\n")
	b.WriteString(heavyRule + "\n\n")
	b.WriteString(strings.Join(parseTrace, "\n"))
	b.WriteString("\n\n" + heavyRule + "\n")
	b.WriteString("      code generation log\n")
	b.WriteString(heavyRule + "\n\n")
	b.WriteString(strings.Join(emitTrace, "\n"))

	if len(errs) > 0 {
		b.WriteString("\n\n" + heavyRule + "\n")
		b.WriteString("            syntax errors\n")
		b.WriteString(heavyRule + "\n\n")
		for i, e := range errs {
			if i > 0 {
				b.WriteString("\n")
			}
			b.WriteString(e.Error())
		}
	}
	b.WriteString("\n")
	return b.String()
}
