package parser

import (
	"strconv"

	"github.com/santalang/santa/ast"
)

// parsePattern parses a `let` target, function parameter, or `match` arm
// pattern (§3.3, §4.3.2): wildcard, binding, rest, list, literal, or integer
// range.
func (p *Parser) parsePattern() ast.Pattern {
	tok := p.peekSkip()
	switch tok.Kind {
	case ast.TokenPlaceholder:
		p.takeSkip()
		pat := &ast.WildcardPattern{}
		pat.SetSpan(tok.Span)
		return pat
	case ast.TokenDotDot:
		return p.parseRestPattern()
	case ast.TokenLBracket:
		return p.parseListPattern()
	case ast.TokenIdent:
		p.takeSkip()
		pat := &ast.BindingPattern{Name: tok.Lexeme}
		pat.SetSpan(tok.Span)
		return pat
	case ast.TokenMinus, ast.TokenInt:
		return p.parseIntOrRangePattern()
	case ast.TokenDecimal:
		p.takeSkip()
		v, _ := strconv.ParseFloat(tok.Lexeme, 64)
		lit := &ast.DecimalLiteral{Value: v}
		lit.SetSpan(tok.Span)
		pat := &ast.LiteralPattern{Value: lit}
		pat.SetSpan(tok.Span)
		return pat
	case ast.TokenString:
		p.takeSkip()
		lit := &ast.StringLiteral{Value: decodeStringLexeme(tok.Lexeme)}
		lit.SetSpan(tok.Span)
		pat := &ast.LiteralPattern{Value: lit}
		pat.SetSpan(tok.Span)
		return pat
	case ast.TokenTrue, ast.TokenFalse:
		p.takeSkip()
		lit := &ast.BoolLiteral{Value: tok.Kind == ast.TokenTrue}
		lit.SetSpan(tok.Span)
		pat := &ast.LiteralPattern{Value: lit}
		pat.SetSpan(tok.Span)
		return pat
	case ast.TokenNil:
		p.takeSkip()
		lit := &ast.NilLiteral{}
		lit.SetSpan(tok.Span)
		pat := &ast.LiteralPattern{Value: lit}
		pat.SetSpan(tok.Span)
		return pat
	default:
		p.errorf(tok.Span, "Expected pattern")
		return nil
	}
}

func (p *Parser) parseRestPattern() ast.Pattern {
	start := p.takeSkip().Span.Start // '..'
	var name string
	if p.peekSkip().Kind == ast.TokenIdent {
		name = p.takeSkip().Lexeme
	}
	pat := &ast.RestPattern{Name: name}
	pat.SetSpan(ast.Span{Start: start, End: p.prevEnd()})
	return pat
}

func (p *Parser) parseListPattern() ast.Pattern {
	start := p.takeSkip().Span.Start // '['
	var elems []ast.Pattern
	restSeen := false
	p.skipNewlines()
	for p.cur().Kind != ast.TokenRBracket && p.cur().Kind != ast.TokenEOF {
		el := p.parsePattern()
		if el == nil {
			break
		}
		if _, ok := el.(*ast.RestPattern); ok {
			if restSeen {
				p.errorf(el.Span(), "A list pattern may have at most one rest element")
			}
			restSeen = true
		}
		elems = append(elems, el)
		p.skipNewlines()
		if p.cur().Kind == ast.TokenComma {
			p.advance()
			p.skipNewlines()
		} else {
			break
		}
	}
	p.expect(ast.TokenRBracket, "']'")
	pat := &ast.ListPattern{Elements: elems}
	pat.SetSpan(ast.Span{Start: start, End: p.prevEnd()})
	return pat
}

// parseIntOrRangePattern parses a (possibly negative) integer literal
// pattern, promoting it to a RangePattern when followed by `..`/`..=`.
func (p *Parser) parseIntOrRangePattern() ast.Pattern {
	start := p.peekSkip().Span.Start
	startVal := p.parseSignedIntOperand()
	tok := p.peekSkip()
	if tok.Kind != ast.TokenDotDot && tok.Kind != ast.TokenDotDotEq {
		lit := &ast.IntLiteral{Value: startVal}
		lit.SetSpan(ast.Span{Start: start, End: p.prevEnd()})
		pat := &ast.LiteralPattern{Value: lit}
		pat.SetSpan(lit.Span())
		return pat
	}
	p.takeSkip()
	inclusive := tok.Kind == ast.TokenDotDotEq
	endVal := p.parseSignedIntOperand()
	pat := &ast.RangePattern{Start: startVal, End: endVal, Inclusive: inclusive}
	pat.SetSpan(ast.Span{Start: start, End: p.prevEnd()})
	return pat
}

func (p *Parser) parseSignedIntOperand() int64 {
	neg := false
	if p.peekSkip().Kind == ast.TokenMinus {
		p.takeSkip()
		neg = true
	}
	tok := p.expect(ast.TokenInt, "integer literal")
	v, _ := strconv.ParseInt(tok.Lexeme, 10, 64)
	if neg {
		return -v
	}
	return v
}
