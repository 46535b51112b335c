package parser

import (
	"strconv"

	"github.com/santalang/santa/ast"
)

func decodeStringLexeme(lexeme string) string {
	if len(lexeme) < 2 {
		return ""
	}
	return lexeme[1 : len(lexeme)-1]
}

// parseExpr is the entry point for the twelve-level precedence ladder
// documented in SPEC_FULL.md ("Open Question resolution"): assignment,
// ||, &&, comparison, range, additive, multiplicative, pipeline,
// composition, unary, postfix, primary (low to high).
func (p *Parser) parseExpr() ast.Expr {
	return p.parseAssignment()
}

func (p *Parser) parseAssignment() ast.Expr {
	start := p.cur().Span.Start
	left := p.parseOr()
	if left == nil {
		return nil
	}
	if p.peekSkip().Kind == ast.TokenEq {
		p.takeSkip()
		value := p.parseAssignment() // right-associative
		e := &ast.AssignmentExpr{Target: left, Value: value}
		e.SetSpan(ast.Span{Start: start, End: p.prevEnd()})
		return e
	}
	return left
}

func (p *Parser) parseOr() ast.Expr {
	start := p.cur().Span.Start
	left := p.parseAnd()
	for left != nil && p.peekSkip().Kind == ast.TokenOrOr {
		p.takeSkip()
		right := p.parseAnd()
		e := &ast.BinaryExpr{Op: ast.BinOr, Left: left, Right: right}
		e.SetSpan(ast.Span{Start: start, End: p.prevEnd()})
		left = e
	}
	return left
}

func (p *Parser) parseAnd() ast.Expr {
	start := p.cur().Span.Start
	left := p.parseComparison()
	for left != nil && p.peekSkip().Kind == ast.TokenAndAnd {
		p.takeSkip()
		right := p.parseComparison()
		e := &ast.BinaryExpr{Op: ast.BinAnd, Left: left, Right: right}
		e.SetSpan(ast.Span{Start: start, End: p.prevEnd()})
		left = e
	}
	return left
}

var comparisonOps = map[ast.TokenKind]ast.BinaryOp{
	ast.TokenEqEq:  ast.BinEq,
	ast.TokenNotEq: ast.BinNotEq,
	ast.TokenLt:    ast.BinLt,
	ast.TokenLtEq:  ast.BinLtEq,
	ast.TokenGt:    ast.BinGt,
	ast.TokenGtEq:  ast.BinGtEq,
}

// parseComparison is non-associative (§4.2): at most one comparison
// operator is consumed, so `a < b < c` is a syntax error (the statement
// parser will reject the dangling `< c`).
func (p *Parser) parseComparison() ast.Expr {
	start := p.cur().Span.Start
	left := p.parseRange()
	if left == nil {
		return nil
	}
	if op, ok := comparisonOps[p.peekSkip().Kind]; ok {
		p.takeSkip()
		right := p.parseRange()
		e := &ast.BinaryExpr{Op: op, Left: left, Right: right}
		e.SetSpan(ast.Span{Start: start, End: p.prevEnd()})
		return e
	}
	return left
}

func (p *Parser) parseRange() ast.Expr {
	start := p.cur().Span.Start
	left := p.parseAdditive()
	if left == nil {
		return nil
	}
	tok := p.peekSkip()
	if tok.Kind != ast.TokenDotDot && tok.Kind != ast.TokenDotDotEq {
		return left
	}
	p.takeSkip()
	inclusive := tok.Kind == ast.TokenDotDotEq
	e := &ast.RangeExpr{Start: left, Inclusive: inclusive}
	if p.startsExpr(p.peekSkip()) && p.canStartRangeEnd() && p.peekSkip().Kind != ast.TokenPipeGt {
		e.End = p.parseAdditive()
	}
	e.SetSpan(ast.Span{Start: start, End: p.prevEnd()})
	if e.End != nil {
		return e
	}
	// An unbounded range followed by `|>` pipes the range itself:
	// `1.. |> f` ≡ `(1..) |> f`.
	left = e
	for p.peekSkip().Kind == ast.TokenPipeGt {
		p.takeSkip()
		right := p.parseComposition()
		pipe := &ast.BinaryExpr{Op: ast.BinPipe, Left: left, Right: right}
		pipe.SetSpan(ast.Span{Start: start, End: p.prevEnd()})
		left = pipe
	}
	return left
}

// canStartRangeEnd guards against consuming a token that ends the
// enclosing construct (',', ')', ']', '}', ':') as if it began the range's
// end operand, which would otherwise make `1..` followed by a delimiter
// impossible to parse as an unbounded range.
func (p *Parser) canStartRangeEnd() bool {
	switch p.peekSkip().Kind {
	case ast.TokenComma, ast.TokenRParen, ast.TokenRBracket, ast.TokenRBrace, ast.TokenColon:
		return false
	default:
		return true
	}
}

func (p *Parser) parseAdditive() ast.Expr {
	start := p.cur().Span.Start
	left := p.parseMultiplicative()
	for left != nil {
		var op ast.BinaryOp
		switch p.peekSkip().Kind {
		case ast.TokenPlus:
			op = ast.BinAdd
		case ast.TokenMinus:
			op = ast.BinSub
		default:
			return left
		}
		p.takeSkip()
		right := p.parseMultiplicative()
		e := &ast.BinaryExpr{Op: op, Left: left, Right: right}
		e.SetSpan(ast.Span{Start: start, End: p.prevEnd()})
		left = e
	}
	return left
}

func (p *Parser) parseMultiplicative() ast.Expr {
	start := p.cur().Span.Start
	left := p.parsePipeline()
	for left != nil {
		var op ast.BinaryOp
		switch p.peekSkip().Kind {
		case ast.TokenStar:
			op = ast.BinMul
		case ast.TokenSlash:
			op = ast.BinDiv
		case ast.TokenPercent:
			op = ast.BinMod
		default:
			return left
		}
		p.takeSkip()
		right := p.parsePipeline()
		e := &ast.BinaryExpr{Op: op, Left: left, Right: right}
		e.SetSpan(ast.Span{Start: start, End: p.prevEnd()})
		left = e
	}
	return left
}

func (p *Parser) parsePipeline() ast.Expr {
	start := p.cur().Span.Start
	left := p.parseComposition()
	for left != nil && p.peekSkip().Kind == ast.TokenPipeGt {
		p.takeSkip()
		right := p.parseComposition()
		e := &ast.BinaryExpr{Op: ast.BinPipe, Left: left, Right: right}
		e.SetSpan(ast.Span{Start: start, End: p.prevEnd()})
		left = e
	}
	return left
}

func (p *Parser) parseComposition() ast.Expr {
	start := p.cur().Span.Start
	left := p.parseUnary()
	if left == nil {
		return nil
	}
	if p.peekSkip().Kind == ast.TokenGtGt {
		p.takeSkip()
		right := p.parseComposition() // right-associative
		e := &ast.BinaryExpr{Op: ast.BinCompose, Left: left, Right: right}
		e.SetSpan(ast.Span{Start: start, End: p.prevEnd()})
		return e
	}
	return left
}

func (p *Parser) parseUnary() ast.Expr {
	start := p.cur().Span.Start
	switch p.peekSkip().Kind {
	case ast.TokenMinus:
		p.takeSkip()
		operand := p.parseUnary()
		e := &ast.UnaryExpr{Op: ast.UnaryNeg, Operand: operand}
		e.SetSpan(ast.Span{Start: start, End: p.prevEnd()})
		return e
	case ast.TokenBang:
		p.takeSkip()
		operand := p.parseUnary()
		e := &ast.UnaryExpr{Op: ast.UnaryNot, Operand: operand}
		e.SetSpan(ast.Span{Start: start, End: p.prevEnd()})
		return e
	default:
		return p.parsePostfix()
	}
}

// parsePostfix handles call/index/infix-backtick chains and the
// trailing-lambda and spread-argument sugars (§3.3, GLOSSARY).
func (p *Parser) parsePostfix() ast.Expr {
	start := p.cur().Span.Start
	expr := p.parsePrimary()
	for expr != nil {
		switch p.peekSkip().Kind {
		case ast.TokenLParen:
			p.takeSkip()
			args := p.parseArgs()
			p.expect(ast.TokenRParen, "')'")
			call := &ast.CallExpr{Callee: expr, Args: args}
			// Trailing-lambda sugar: f(x) |p| body ≡ f(x, |p| body).
			if p.peekSkip().Kind == ast.TokenPipe || p.peekSkip().Kind == ast.TokenOrOr {
				lambda := p.parseFunctionExpr()
				call.Args = append(call.Args, lambda)
			}
			call.SetSpan(ast.Span{Start: start, End: p.prevEnd()})
			expr = call
		case ast.TokenLBracket:
			p.takeSkip()
			index := p.parseExpr()
			p.expect(ast.TokenRBracket, "']'")
			e := &ast.IndexExpr{Target: expr, Index: index}
			e.SetSpan(ast.Span{Start: start, End: p.prevEnd()})
			expr = e
		case ast.TokenBacktick:
			p.takeSkip()
			fn := p.parseIdentifierExpr()
			p.expect(ast.TokenBacktick, "'`'")
			right := p.parsePostfixOperandAfterInfix()
			e := &ast.InfixCallExpr{Left: expr, Func: fn, Right: right}
			e.SetSpan(ast.Span{Start: start, End: p.prevEnd()})
			expr = e
		default:
			return expr
		}
	}
	return expr
}

// parsePostfixOperandAfterInfix parses the right-hand operand of `` x `f` y
// ``, which binds at the same postfix tightness as the rest of the chain.
func (p *Parser) parsePostfixOperandAfterInfix() ast.Expr {
	return p.parsePostfix()
}

func (p *Parser) parseArgs() []ast.Expr {
	var args []ast.Expr
	p.skipNewlines()
	for p.cur().Kind != ast.TokenRParen && p.cur().Kind != ast.TokenEOF {
		if p.cur().Kind == ast.TokenDotDot {
			start := p.advance().Span.Start
			val := p.parseExpr()
			sp := &ast.SpreadElement{Value: val}
			sp.SetSpan(ast.Span{Start: start, End: p.prevEnd()})
			args = append(args, sp)
		} else {
			args = append(args, p.parseExpr())
		}
		p.skipNewlines()
		if p.cur().Kind == ast.TokenComma {
			p.advance()
			p.skipNewlines()
		} else {
			break
		}
	}
	p.skipNewlines()
	return args
}

func (p *Parser) parseIdentifierExpr() ast.Expr {
	tok := p.expect(ast.TokenIdent, "identifier")
	e := &ast.IdentifierExpr{Name: tok.Lexeme}
	e.SetSpan(tok.Span)
	return e
}

// ---- Primary expressions ------------------------------------------------

func (p *Parser) parsePrimary() ast.Expr {
	tok := p.peekSkip()
	switch tok.Kind {
	case ast.TokenInt:
		p.takeSkip()
		v, _ := strconv.ParseInt(tok.Lexeme, 10, 64)
		e := &ast.IntLiteral{Value: v}
		e.SetSpan(tok.Span)
		return e
	case ast.TokenDecimal:
		p.takeSkip()
		v, _ := strconv.ParseFloat(tok.Lexeme, 64)
		e := &ast.DecimalLiteral{Value: v}
		e.SetSpan(tok.Span)
		return e
	case ast.TokenString:
		p.takeSkip()
		e := &ast.StringLiteral{Value: decodeStringLexeme(tok.Lexeme)}
		e.SetSpan(tok.Span)
		return e
	case ast.TokenTrue, ast.TokenFalse:
		p.takeSkip()
		e := &ast.BoolLiteral{Value: tok.Kind == ast.TokenTrue}
		e.SetSpan(tok.Span)
		return e
	case ast.TokenNil:
		p.takeSkip()
		e := &ast.NilLiteral{}
		e.SetSpan(tok.Span)
		return e
	case ast.TokenPlaceholder:
		p.takeSkip()
		e := &ast.PlaceholderExpr{Ordinal: -1}
		e.SetSpan(tok.Span)
		return e
	case ast.TokenIdent:
		p.takeSkip()
		e := &ast.IdentifierExpr{Name: tok.Lexeme}
		e.SetSpan(tok.Span)
		return e
	case ast.TokenLParen:
		p.takeSkip()
		inner := p.parseExpr()
		p.expect(ast.TokenRParen, "')'")
		return inner
	case ast.TokenLBracket:
		return p.parseListExpr()
	case ast.TokenHashBrace:
		return p.parseSetOrDict()
	case ast.TokenLBrace:
		return p.parseBlockExpr()
	case ast.TokenPipe, ast.TokenOrOr:
		return p.parseFunctionExpr()
	case ast.TokenIf:
		return p.parseIfExpr()
	case ast.TokenMatch:
		return p.parseMatchExpr()
	default:
		p.errorf(tok.Span, "Expected expression")
		return nil
	}
}

func (p *Parser) parseListExpr() ast.Expr {
	start := p.takeSkip().Span.Start // '['
	var elems []ast.Expr
	p.skipNewlines()
	for p.cur().Kind != ast.TokenRBracket && p.cur().Kind != ast.TokenEOF {
		if p.cur().Kind == ast.TokenDotDot {
			spStart := p.advance().Span.Start
			val := p.parseExpr()
			sp := &ast.SpreadElement{Value: val}
			sp.SetSpan(ast.Span{Start: spStart, End: p.prevEnd()})
			elems = append(elems, sp)
		} else {
			elems = append(elems, p.parseExpr())
		}
		p.skipNewlines()
		if p.cur().Kind == ast.TokenComma {
			p.advance()
			p.skipNewlines()
		} else {
			break
		}
	}
	p.expect(ast.TokenRBracket, "']'")
	e := &ast.ListExpr{Elements: elems}
	e.SetSpan(ast.Span{Start: start, End: p.prevEnd()})
	return e
}

// parseSetOrDict disambiguates `#{1, 2, 3}` (set) from `#{"a": 1}` and the
// shorthand `#{a, b}` ≡ `#{"a": a, "b": b}` (dict), per §3.3.
func (p *Parser) parseSetOrDict() ast.Expr {
	start := p.takeSkip().Span.Start // '#{'
	p.skipNewlines()
	if p.cur().Kind == ast.TokenRBrace {
		p.advance()
		e := &ast.SetExpr{}
		e.SetSpan(ast.Span{Start: start, End: p.prevEnd()})
		return e
	}

	var firstKeyCandidate ast.Expr
	var firstValue ast.Expr
	isSpread := p.cur().Kind == ast.TokenDotDot
	var firstSpreadStart ast.Position
	if isSpread {
		firstSpreadStart = p.advance().Span.Start
		firstValue = p.parseExpr()
	} else {
		firstKeyCandidate = p.parseExpr()
	}

	isDict := !isSpread && p.peekSkip().Kind == ast.TokenColon
	if isDict {
		return p.finishDict(start, firstKeyCandidate)
	}
	return p.finishSetOrShorthandDict(start, firstKeyCandidate, firstValue, isSpread, firstSpreadStart)
}

func (p *Parser) finishDict(start ast.Position, firstKey ast.Expr) ast.Expr {
	var entries []ast.Expr
	p.takeSkip() // ':'
	val := p.parseExpr()
	entry := &ast.DictEntry{Key: firstKey, Value: val}
	entry.SetSpan(ast.Span{Start: firstKey.Span().Start, End: p.prevEnd()})
	entries = append(entries, entry)
	p.skipNewlines()
	for p.cur().Kind == ast.TokenComma {
		p.advance()
		p.skipNewlines()
		if p.cur().Kind == ast.TokenRBrace {
			break
		}
		if p.cur().Kind == ast.TokenDotDot {
			spStart := p.advance().Span.Start
			val := p.parseExpr()
			sp := &ast.SpreadElement{Value: val}
			sp.SetSpan(ast.Span{Start: spStart, End: p.prevEnd()})
			entries = append(entries, sp)
		} else {
			key := p.parseExpr()
			p.expect(ast.TokenColon, "':'")
			val := p.parseExpr()
			e := &ast.DictEntry{Key: key, Value: val}
			e.SetSpan(ast.Span{Start: key.Span().Start, End: p.prevEnd()})
			entries = append(entries, e)
		}
		p.skipNewlines()
	}
	p.expect(ast.TokenRBrace, "'}'")
	e := &ast.DictExpr{Entries: entries}
	e.SetSpan(ast.Span{Start: start, End: p.prevEnd()})
	return e
}

// finishSetOrShorthandDict continues parsing after a first element that
// was NOT immediately followed by ':' (a spread, or a plain element). The
// literal is a dict when every non-spread element is either a bare
// identifier (the `#{a, b}` ≡ `#{"a": a, "b": b}` shorthand) or a later
// `key: value` entry, as in `#{..a, "y": 2}`; otherwise it is a set.
func (p *Parser) finishSetOrShorthandDict(start ast.Position, firstKey, firstSpreadValue ast.Expr, isSpread bool, spreadStart ast.Position) ast.Expr {
	type rawElem struct {
		spread  bool
		start   ast.Position
		value   ast.Expr
		dictVal ast.Expr // set for a `key: value` element; value is the key
	}
	var raw []rawElem
	if isSpread {
		raw = append(raw, rawElem{spread: true, start: spreadStart, value: firstSpreadValue})
	} else {
		raw = append(raw, rawElem{value: firstKey})
	}
	p.skipNewlines()
	for p.cur().Kind == ast.TokenComma {
		p.advance()
		p.skipNewlines()
		if p.cur().Kind == ast.TokenRBrace {
			break
		}
		if p.cur().Kind == ast.TokenDotDot {
			spStart := p.advance().Span.Start
			val := p.parseExpr()
			raw = append(raw, rawElem{spread: true, start: spStart, value: val})
		} else {
			val := p.parseExpr()
			var dictVal ast.Expr
			if p.peekSkip().Kind == ast.TokenColon {
				p.takeSkip()
				dictVal = p.parseExpr()
			}
			raw = append(raw, rawElem{value: val, dictVal: dictVal})
		}
		p.skipNewlines()
	}
	p.expect(ast.TokenRBrace, "'}'")

	allBareIdents := true
	for _, r := range raw {
		if r.spread || r.dictVal != nil {
			continue
		}
		if _, ok := r.value.(*ast.IdentifierExpr); !ok {
			allBareIdents = false
			break
		}
	}

	if allBareIdents && len(raw) > 0 {
		var entries []ast.Expr
		for _, r := range raw {
			if r.spread {
				sp := &ast.SpreadElement{Value: r.value}
				sp.SetSpan(ast.Span{Start: r.start, End: r.value.Span().End})
				entries = append(entries, sp)
				continue
			}
			if r.dictVal != nil {
				entry := &ast.DictEntry{Key: r.value, Value: r.dictVal}
				entry.SetSpan(ast.Span{Start: r.value.Span().Start, End: r.dictVal.Span().End})
				entries = append(entries, entry)
				continue
			}
			ident := r.value.(*ast.IdentifierExpr)
			key := &ast.StringLiteral{Value: ident.Name}
			key.SetSpan(ident.Span())
			entry := &ast.DictEntry{Key: key, Value: ident}
			entry.SetSpan(ident.Span())
			entries = append(entries, entry)
		}
		e := &ast.DictExpr{Entries: entries}
		e.SetSpan(ast.Span{Start: start, End: p.prevEnd()})
		return e
	}

	var elems []ast.Expr
	for _, r := range raw {
		if r.spread {
			sp := &ast.SpreadElement{Value: r.value}
			sp.SetSpan(ast.Span{Start: r.start, End: r.value.Span().End})
			elems = append(elems, sp)
		} else {
			if r.dictVal != nil {
				p.errorf(r.dictVal.Span(), "Unexpected ':' in set literal")
			}
			elems = append(elems, r.value)
		}
	}
	e := &ast.SetExpr{Elements: elems}
	e.SetSpan(ast.Span{Start: start, End: p.prevEnd()})
	return e
}

func (p *Parser) parseBlockExpr() ast.Expr {
	start := p.takeSkip().Span.Start // '{'
	p.skipNewlines()
	var stmts []ast.Stmt
	for p.cur().Kind != ast.TokenRBrace && p.cur().Kind != ast.TokenEOF && !p.failed() {
		stmt := p.parseStmt()
		if stmt == nil {
			break
		}
		stmts = append(stmts, stmt)
		p.skipNewlines()
	}
	p.expect(ast.TokenRBrace, "'}'")
	e := &ast.BlockExpr{Stmts: stmts}
	e.SetSpan(ast.Span{Start: start, End: p.prevEnd()})
	return e
}

func (p *Parser) parseFunctionExpr() ast.Expr {
	start := p.cur().Span.Start
	var params []ast.Param
	if p.cur().Kind == ast.TokenOrOr {
		p.advance() // no params, written as `||`
	} else {
		p.expect(ast.TokenPipe, "'|'")
		p.skipNewlines()
		for p.cur().Kind != ast.TokenPipe && p.cur().Kind != ast.TokenEOF {
			params = append(params, p.parseParam())
			p.skipNewlines()
			if p.cur().Kind == ast.TokenComma {
				p.advance()
				p.skipNewlines()
			} else {
				break
			}
		}
		p.expect(ast.TokenPipe, "'|'")
	}
	body := p.parseExpr()
	e := &ast.FunctionExpr{Params: params, Body: body}
	e.SetSpan(ast.Span{Start: start, End: p.prevEnd()})
	return e
}

func (p *Parser) parseParam() ast.Param {
	start := p.cur().Span.Start
	if p.cur().Kind == ast.TokenIdent {
		name := p.advance()
		param := ast.Param{Name: name.Lexeme}
		param.SetSpan(name.Span)
		return param
	}
	pattern := p.parsePattern()
	param := ast.Param{Pattern: pattern}
	param.SetSpan(ast.Span{Start: start, End: p.prevEnd()})
	return param
}

func (p *Parser) parseIfExpr() ast.Expr {
	start := p.advance().Span.Start // `if`
	var condPattern ast.Pattern
	var cond ast.Expr
	if p.cur().Kind == ast.TokenLet {
		p.advance()
		condPattern = p.parsePattern()
		p.expect(ast.TokenEq, "'='")
		cond = p.parseExpr()
	} else {
		cond = p.parseExpr()
	}
	then := p.parseBlockExpr()
	var elseExpr ast.Expr
	if p.peekSkip().Kind == ast.TokenElse {
		p.takeSkip()
		if p.peekSkip().Kind == ast.TokenIf {
			p.skipNewlines()
			elseExpr = p.parseIfExpr()
		} else {
			elseExpr = p.parseBlockExpr()
		}
	}
	e := &ast.IfExpr{CondPattern: condPattern, Cond: cond, Then: then, Else: elseExpr}
	e.SetSpan(ast.Span{Start: start, End: p.prevEnd()})
	return e
}

func (p *Parser) parseMatchExpr() ast.Expr {
	start := p.advance().Span.Start // `match`
	subject := p.parseExpr()
	p.expect(ast.TokenLBrace, "'{'")
	p.skipNewlines()
	var arms []ast.MatchArm
	for p.cur().Kind != ast.TokenRBrace && p.cur().Kind != ast.TokenEOF {
		armStart := p.cur().Span.Start
		pattern := p.parsePattern()
		p.expect(ast.TokenColon, "':'")
		body := p.parseExpr()
		arm := ast.MatchArm{Pattern: pattern, Body: body}
		arm.SetSpan(ast.Span{Start: armStart, End: p.prevEnd()})
		arms = append(arms, arm)
		p.skipNewlines()
		if p.cur().Kind == ast.TokenComma {
			p.advance()
			p.skipNewlines()
		}
	}
	p.expect(ast.TokenRBrace, "'}'")
	e := &ast.MatchExpr{Subject: subject, Arms: arms}
	e.SetSpan(ast.Span{Start: start, End: p.prevEnd()})
	return e
}
