package parser

import (
	"github.com/santalang/santa/ast"
	"github.com/santalang/santa/reporter"
)

// Parser is a recursive-descent/Pratt parser over the full token stream
// (§4.2). It tokenizes eagerly so that expression-level lookahead can skip
// over insignificant newlines without mutating lexer state, while
// statement/section boundaries still treat NEWLINE as a separator.
type Parser struct {
	toks    []ast.Token
	pos     int
	handler *reporter.Handler
	aborted bool
}

// Parse lexes and parses source into a *ast.Program. Errors are reported to
// handler; per §4.2, parsing aborts at the first error (no recovery).
func Parse(source string, handler *reporter.Handler) *ast.Program {
	lex := NewLexer(source, handler)
	var toks []ast.Token
	for {
		tok := lex.Next()
		toks = append(toks, tok)
		if tok.Kind == ast.TokenEOF {
			break
		}
	}
	p := &Parser{toks: toks, handler: handler}
	return p.parseProgram()
}

func (p *Parser) cur() ast.Token { return p.toks[p.pos] }

func (p *Parser) advance() ast.Token {
	tok := p.toks[p.pos]
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return tok
}

func (p *Parser) skipNewlines() {
	for p.cur().Kind == ast.TokenNewline {
		p.advance()
	}
}

// peekSkip returns the next significant token without consuming anything.
// It looks past line-break NEWLINE tokens but stops at one produced by ';',
// so a ';' always ends the current expression.
func (p *Parser) peekSkip() ast.Token {
	i := p.pos
	for p.toks[i].Kind == ast.TokenNewline && p.toks[i].Lexeme != ";" {
		i++
	}
	return p.toks[i]
}

// takeSkip consumes up to and including the next significant token (i.e.
// any newlines in between are treated as insignificant once the caller has
// committed to continuing the current expression across them).
func (p *Parser) takeSkip() ast.Token {
	p.skipNewlines()
	return p.advance()
}

func (p *Parser) errorf(span ast.Span, format string, args ...any) {
	if p.aborted {
		return
	}
	p.aborted = true
	p.handler.HandleError(reporter.Newf(reporter.SyntaxError, span, format, args...))
}

func (p *Parser) failed() bool { return p.aborted || p.handler.HasErrors() }

func (p *Parser) expect(kind ast.TokenKind, what string) ast.Token {
	tok := p.peekSkip()
	if tok.Kind != kind {
		p.errorf(tok.Span, "Expected %s", what)
		return tok
	}
	return p.takeSkip()
}

// ---- Program & sections ----------------------------------------------

func (p *Parser) parseProgram() *ast.Program {
	prog := &ast.Program{}
	p.skipNewlines()
	for p.cur().Kind != ast.TokenEOF && !p.failed() {
		if p.cur().Kind == ast.TokenSectionID {
			prog.Items = append(prog.Items, ast.TopLevel{Section: p.parseSection()})
		} else {
			stmt := p.parseStmt()
			if stmt == nil {
				break
			}
			prog.Items = append(prog.Items, ast.TopLevel{Stmt: stmt})
		}
		p.skipNewlines()
	}
	return prog
}

func (p *Parser) parseSection() *ast.Section {
	header := p.advance() // TokenSectionID
	p.expect(ast.TokenColon, "':'")

	if header.Lexeme == "test" {
		sec := &ast.Section{Name: header.Lexeme}
		sec.Tests = p.parseTestCases()
		sec.SetSpan(ast.Span{Start: header.Span.Start, End: p.prevEnd()})
		return sec
	}

	body := p.parseStmtSequenceUntilSection()
	span := ast.Span{Start: header.Span.Start, End: p.prevEnd()}
	sec := &ast.Section{Name: header.Lexeme, Expr: &ast.BlockExpr{Stmts: body}}
	sec.SetSpan(span)
	sec.Expr.(*ast.BlockExpr).SetSpan(span)
	return sec
}

func (p *Parser) parseTestCases() []ast.TestCase {
	var cases []ast.TestCase
	p.skipNewlines()
	for {
		tok := p.cur()
		if tok.Kind != ast.TokenSectionID || tok.Lexeme == "test" {
			break
		}
		if tok.Lexeme != "input" && tok.Lexeme != "part_one" && tok.Lexeme != "part_two" {
			break
		}
		// A test: section is a sequence of one-or-more {input, part_one,
		// part_two} sub-blocks, possibly repeated to describe several
		// example cases (§4.2).
		var tc ast.TestCase
		tcStart := p.cur().Span.Start
		for p.cur().Kind == ast.TokenSectionID && p.cur().Lexeme != "test" {
			name := p.advance()
			p.expect(ast.TokenColon, "':'")
			lit := p.parseStringLiteralExpr()
			switch name.Lexeme {
			case "input":
				tc.Input = lit
			case "part_one":
				tc.PartOne = lit
			case "part_two":
				tc.PartTwo = lit
			default:
				p.errorf(name.Span, "Unexpected section %q in test block", name.Lexeme)
				return cases
			}
			p.skipNewlines()
		}
		tc.SetSpan(ast.Span{Start: tcStart, End: p.prevEnd()})
		cases = append(cases, tc)
		if p.failed() {
			break
		}
	}
	return cases
}

func (p *Parser) parseStringLiteralExpr() *ast.StringLiteral {
	tok := p.expect(ast.TokenString, "string literal")
	lit := &ast.StringLiteral{Value: decodeStringLexeme(tok.Lexeme)}
	lit.SetSpan(tok.Span)
	return lit
}

// parseStmtSequenceUntilSection parses ordinary statements until EOF or the
// next section header, used for a section's implicit block body.
func (p *Parser) parseStmtSequenceUntilSection() []ast.Stmt {
	var stmts []ast.Stmt
	p.skipNewlines()
	for p.cur().Kind != ast.TokenEOF && p.cur().Kind != ast.TokenSectionID && !p.failed() {
		stmt := p.parseStmt()
		if stmt == nil {
			break
		}
		stmts = append(stmts, stmt)
		p.skipNewlines()
	}
	return stmts
}

func (p *Parser) prevEnd() ast.Position {
	i := p.pos
	for i > 0 && p.toks[i].Kind == ast.TokenNewline {
		i--
	}
	if i > 0 {
		i--
	}
	return p.toks[i].Span.End
}

// ---- Statements --------------------------------------------------------

func (p *Parser) parseStmt() ast.Stmt {
	switch p.cur().Kind {
	case ast.TokenLet:
		return p.parseLetStmt()
	case ast.TokenReturn:
		return p.parseReturnStmt()
	case ast.TokenBreak:
		return p.parseBreakStmt()
	default:
		start := p.cur().Span.Start
		expr := p.parseExpr()
		if expr == nil {
			return nil
		}
		stmt := &ast.ExprStmt{Expr: expr}
		stmt.SetSpan(ast.Span{Start: start, End: p.prevEnd()})
		return stmt
	}
}

func (p *Parser) parseLetStmt() ast.Stmt {
	start := p.advance().Span.Start // `let`
	mutable := false
	if p.cur().Kind == ast.TokenMut {
		p.advance()
		mutable = true
	}
	pattern := p.parsePattern()
	p.expect(ast.TokenEq, "'=' in let")
	value := p.parseExpr()
	stmt := &ast.LetStmt{Mutable: mutable, Pattern: pattern, Value: value}
	stmt.SetSpan(ast.Span{Start: start, End: p.prevEnd()})
	return stmt
}

func (p *Parser) parseReturnStmt() ast.Stmt {
	start := p.advance().Span.Start
	var value ast.Expr
	if p.startsExpr(p.cur()) {
		value = p.parseExpr()
	}
	stmt := &ast.ReturnStmt{Value: value}
	stmt.SetSpan(ast.Span{Start: start, End: p.prevEnd()})
	return stmt
}

func (p *Parser) parseBreakStmt() ast.Stmt {
	start := p.advance().Span.Start
	var value ast.Expr
	if p.startsExpr(p.cur()) {
		value = p.parseExpr()
	}
	stmt := &ast.BreakStmt{Value: value}
	stmt.SetSpan(ast.Span{Start: start, End: p.prevEnd()})
	return stmt
}

func (p *Parser) startsExpr(tok ast.Token) bool {
	switch tok.Kind {
	case ast.TokenNewline, ast.TokenEOF, ast.TokenRBrace, ast.TokenSectionID:
		return false
	default:
		return true
	}
}
