// Package parser turns santa-lang source text into an *ast.Program. It is a
// single-pass, hand-written lexer feeding a recursive-descent/Pratt parser,
// in the same spirit as the teacher's runeReader-driven scanner
// (parser/lexer.go) paired with its own recursive-descent expression parser
// — but targeting santa-lang's grammar instead of protobuf's.
package parser

import (
	"strconv"
	"strings"

	"github.com/santalang/santa/ast"
	"github.com/santalang/santa/reporter"
)

// runeCursor scans a []rune buffer while tracking (line, column). Lines and
// columns are 1-based and decoded over Unicode code points (§3.1).
type runeCursor struct {
	src  []rune
	pos  int
	line int
	col  int
}

func newRuneCursor(src []rune) *runeCursor {
	return &runeCursor{src: src, pos: 0, line: 1, col: 1}
}

func (c *runeCursor) eof() bool { return c.pos >= len(c.src) }

func (c *runeCursor) peek() rune {
	if c.eof() {
		return 0
	}
	return c.src[c.pos]
}

func (c *runeCursor) peekAt(offset int) rune {
	if c.pos+offset >= len(c.src) {
		return 0
	}
	return c.src[c.pos+offset]
}

func (c *runeCursor) position() ast.Position {
	return ast.Position{Line: c.line, Column: c.col}
}

func (c *runeCursor) advance() rune {
	r := c.src[c.pos]
	c.pos++
	if r == '\n' {
		c.line++
		c.col = 1
	} else {
		c.col++
	}
	return r
}

// Lexer is restartable over any prefix: it never looks backward past its
// current cursor position (§4.1).
type Lexer struct {
	cursor             *runeCursor
	includeComments    bool
	handler            *reporter.Handler
	pendingSectionCtx  bool // true at start of line / after newline: a bare `name:` here opens a section
}

// NewLexer constructs a Lexer over source. handler receives LexError
// diagnostics.
func NewLexer(source string, handler *reporter.Handler) *Lexer {
	return &Lexer{
		cursor:            newRuneCursor([]rune(source)),
		handler:           handler,
		pendingSectionCtx: true,
	}
}

// LexIncludingComments enables retaining comment tokens instead of
// stripping them (§3.2).
func (l *Lexer) LexIncludingComments(include bool) { l.includeComments = include }

func (l *Lexer) errorf(span ast.Span, format string, args ...any) {
	l.handler.HandleError(reporter.Newf(reporter.LexError, span, format, args...))
}

func isIdentStart(r rune) bool {
	return r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func isIdentCont(r rune) bool {
	return isIdentStart(r) || (r >= '0' && r <= '9')
}

func isDigit(r rune) bool { return r >= '0' && r <= '9' }

// Next scans and returns the next token. It returns a TokenEOF token forever
// once the input is exhausted.
func (l *Lexer) Next() ast.Token {
	for {
		tok, skip := l.next()
		if skip {
			continue
		}
		return tok
	}
}

// next scans one token. skip is true when the token was a stripped comment
// and the caller should scan again.
func (l *Lexer) next() (tok ast.Token, skip bool) {
	c := l.cursor
	l.skipInsignificantWhitespace()

	start := c.position()
	if c.eof() {
		return ast.Token{Kind: ast.TokenEOF, Span: ast.Span{Start: start, End: start}}, false
	}

	r := c.peek()

	switch {
	case r == '\n' || r == ';':
		c.advance()
		end := c.position()
		l.pendingSectionCtx = true
		return ast.Token{Kind: ast.TokenNewline, Lexeme: string(r), Span: ast.Span{Start: start, End: end}}, false
	case r == '/' && c.peekAt(1) == '/':
		text := l.scanLineComment()
		if l.includeComments {
			return ast.Token{Kind: ast.TokenError, Lexeme: text, Span: ast.Span{Start: start, End: c.position()}}, false
		}
		return ast.Token{}, true
	case r == '"':
		return l.scanString(start)
	case isDigit(r):
		return l.scanNumber(start)
	case isIdentStart(r):
		return l.scanIdentOrKeyword(start)
	default:
		return l.scanOperator(start)
	}
}

// skipInsignificantWhitespace consumes spaces/tabs/CR, which carry no
// grammatical meaning (unlike NEWLINE, which the grammar is sensitive to).
func (l *Lexer) skipInsignificantWhitespace() {
	for !l.cursor.eof() {
		switch l.cursor.peek() {
		case ' ', '\t', '\r':
			l.cursor.advance()
		default:
			return
		}
	}
}

func (l *Lexer) scanLineComment() string {
	c := l.cursor
	start := c.pos
	for !c.eof() && c.peek() != '\n' {
		c.advance()
	}
	return string(c.src[start:c.pos])
}

func (l *Lexer) scanString(start ast.Position) (ast.Token, bool) {
	c := l.cursor
	c.advance() // opening quote
	var sb strings.Builder
	sb.WriteByte('"')
	for {
		if c.eof() {
			l.errorf(ast.Span{Start: start, End: c.position()}, "Unterminated string")
			return ast.Token{Kind: ast.TokenString, Lexeme: sb.String(), Span: ast.Span{Start: start, End: c.position()}}, false
		}
		r := c.peek()
		if r == '"' {
			c.advance()
			sb.WriteByte('"')
			break
		}
		if r == '\\' {
			escStart := c.position()
			c.advance()
			if c.eof() {
				l.errorf(ast.Span{Start: escStart, End: c.position()}, "Invalid escape")
				break
			}
			e := c.advance()
			switch e {
			case 'n':
				sb.WriteByte('\n')
			case 't':
				sb.WriteByte('\t')
			case 'r':
				sb.WriteByte('\r')
			case 'b':
				sb.WriteByte('\b')
			case 'f':
				sb.WriteByte('\f')
			case '"':
				sb.WriteByte('"')
			case '\\':
				sb.WriteByte('\\')
			default:
				l.errorf(ast.Span{Start: escStart, End: c.position()}, "Invalid escape \\%c", e)
			}
			continue
		}
		// Strings allow embedded literal newlines (§3.2).
		c.advance()
		sb.WriteRune(r)
	}
	return ast.Token{Kind: ast.TokenString, Lexeme: sb.String(), Span: ast.Span{Start: start, End: c.position()}}, false
}

func (l *Lexer) scanNumber(start ast.Position) (ast.Token, bool) {
	c := l.cursor
	var sb strings.Builder
	isDecimal := false

	scanDigits := func() {
		for !c.eof() {
			r := c.peek()
			if isDigit(r) {
				sb.WriteRune(c.advance())
			} else if r == '_' {
				c.advance() // digit separator, dropped from the lexeme
			} else {
				break
			}
		}
	}
	scanDigits()
	if c.peek() == '.' && isDigit(c.peekAt(1)) {
		isDecimal = true
		sb.WriteRune(c.advance())
		scanDigits()
	}
	if c.peek() == 'e' || c.peek() == 'E' {
		isDecimal = true
		save := sb.String()
		mark := c.pos
		sb.WriteRune(c.advance())
		if c.peek() == '+' || c.peek() == '-' {
			sb.WriteRune(c.advance())
		}
		if !isDigit(c.peek()) {
			// not actually an exponent; roll back
			c.pos = mark
			sb.Reset()
			sb.WriteString(save)
			isDecimal = strings.Contains(save, ".")
		} else {
			scanDigits()
		}
	}

	span := ast.Span{Start: start, End: c.position()}
	text := sb.String()
	if isDecimal {
		_, err := strconv.ParseFloat(text, 64)
		if err != nil {
			l.errorf(span, "Invalid decimal literal %q", text)
		}
		return ast.Token{Kind: ast.TokenDecimal, Lexeme: text, Span: span}, false
	}
	if _, err := strconv.ParseInt(text, 10, 64); err != nil {
		l.errorf(span, "Invalid integer literal %q", text)
	}
	return ast.Token{Kind: ast.TokenInt, Lexeme: text, Span: span}, false
}

func (l *Lexer) scanIdentOrKeyword(start ast.Position) (ast.Token, bool) {
	c := l.cursor
	if c.peek() == '_' && !isIdentCont(c.peekAt(1)) {
		c.advance()
		return ast.Token{Kind: ast.TokenPlaceholder, Lexeme: "_", Span: ast.Span{Start: start, End: c.position()}}, false
	}
	var sb strings.Builder
	for !c.eof() && isIdentCont(c.peek()) {
		sb.WriteRune(c.advance())
	}
	name := sb.String()
	span := ast.Span{Start: start, End: c.position()}

	// A name immediately followed by ':' at the start of an
	// expression context opens a section header (§4.2) when it is one of
	// the recognized section names.
	if l.pendingSectionCtx && ast.SectionNames[name] && c.peek() == ':' {
		l.pendingSectionCtx = false
		return ast.Token{Kind: ast.TokenSectionID, Lexeme: name, Span: span}, false
	}
	l.pendingSectionCtx = false
	if kw, ok := ast.Keywords[name]; ok {
		return ast.Token{Kind: kw, Lexeme: name, Span: span}, false
	}
	return ast.Token{Kind: ast.TokenIdent, Lexeme: name, Span: span}, false
}

func (l *Lexer) scanOperator(start ast.Position) (ast.Token, bool) {
	c := l.cursor
	l.pendingSectionCtx = false
	r := c.advance()

	two := func(next rune, kind ast.TokenKind, lexeme string) (ast.Token, bool, bool) {
		if c.peek() == next {
			c.advance()
			return ast.Token{Kind: kind, Lexeme: lexeme, Span: ast.Span{Start: start, End: c.position()}}, false, true
		}
		return ast.Token{}, false, false
	}

	switch r {
	case '(':
		return ast.Token{Kind: ast.TokenLParen, Lexeme: "(", Span: ast.Span{Start: start, End: c.position()}}, false
	case ')':
		return ast.Token{Kind: ast.TokenRParen, Lexeme: ")", Span: ast.Span{Start: start, End: c.position()}}, false
	case '{':
		return ast.Token{Kind: ast.TokenLBrace, Lexeme: "{", Span: ast.Span{Start: start, End: c.position()}}, false
	case '}':
		return ast.Token{Kind: ast.TokenRBrace, Lexeme: "}", Span: ast.Span{Start: start, End: c.position()}}, false
	case '[':
		return ast.Token{Kind: ast.TokenLBracket, Lexeme: "[", Span: ast.Span{Start: start, End: c.position()}}, false
	case ']':
		return ast.Token{Kind: ast.TokenRBracket, Lexeme: "]", Span: ast.Span{Start: start, End: c.position()}}, false
	case ',':
		return ast.Token{Kind: ast.TokenComma, Lexeme: ",", Span: ast.Span{Start: start, End: c.position()}}, false
	case ':':
		return ast.Token{Kind: ast.TokenColon, Lexeme: ":", Span: ast.Span{Start: start, End: c.position()}}, false
	case '`':
		return ast.Token{Kind: ast.TokenBacktick, Lexeme: "`", Span: ast.Span{Start: start, End: c.position()}}, false
	case '#':
		if c.peek() == '{' {
			c.advance()
			return ast.Token{Kind: ast.TokenHashBrace, Lexeme: "#{", Span: ast.Span{Start: start, End: c.position()}}, false
		}
	case '+':
		return ast.Token{Kind: ast.TokenPlus, Lexeme: "+", Span: ast.Span{Start: start, End: c.position()}}, false
	case '-':
		return ast.Token{Kind: ast.TokenMinus, Lexeme: "-", Span: ast.Span{Start: start, End: c.position()}}, false
	case '*':
		return ast.Token{Kind: ast.TokenStar, Lexeme: "*", Span: ast.Span{Start: start, End: c.position()}}, false
	case '/':
		return ast.Token{Kind: ast.TokenSlash, Lexeme: "/", Span: ast.Span{Start: start, End: c.position()}}, false
	case '%':
		return ast.Token{Kind: ast.TokenPercent, Lexeme: "%", Span: ast.Span{Start: start, End: c.position()}}, false
	case '!':
		if tok, _, ok := two('=', ast.TokenNotEq, "!="); ok {
			return tok, false
		}
		return ast.Token{Kind: ast.TokenBang, Lexeme: "!", Span: ast.Span{Start: start, End: c.position()}}, false
	case '=':
		if tok, _, ok := two('=', ast.TokenEqEq, "=="); ok {
			return tok, false
		}
		return ast.Token{Kind: ast.TokenEq, Lexeme: "=", Span: ast.Span{Start: start, End: c.position()}}, false
	case '<':
		if tok, _, ok := two('=', ast.TokenLtEq, "<="); ok {
			return tok, false
		}
		return ast.Token{Kind: ast.TokenLt, Lexeme: "<", Span: ast.Span{Start: start, End: c.position()}}, false
	case '>':
		if tok, _, ok := two('=', ast.TokenGtEq, ">="); ok {
			return tok, false
		}
		if tok, _, ok := two('>', ast.TokenGtGt, ">>"); ok {
			return tok, false
		}
		return ast.Token{Kind: ast.TokenGt, Lexeme: ">", Span: ast.Span{Start: start, End: c.position()}}, false
	case '&':
		if tok, _, ok := two('&', ast.TokenAndAnd, "&&"); ok {
			return tok, false
		}
	case '|':
		if c.peek() == '|' {
			c.advance()
			return ast.Token{Kind: ast.TokenOrOr, Lexeme: "||", Span: ast.Span{Start: start, End: c.position()}}, false
		}
		if c.peek() == '>' {
			c.advance()
			return ast.Token{Kind: ast.TokenPipeGt, Lexeme: "|>", Span: ast.Span{Start: start, End: c.position()}}, false
		}
		return ast.Token{Kind: ast.TokenPipe, Lexeme: "|", Span: ast.Span{Start: start, End: c.position()}}, false
	case '.':
		if c.peek() == '.' {
			c.advance()
			if c.peek() == '=' {
				c.advance()
				return ast.Token{Kind: ast.TokenDotDotEq, Lexeme: "..=", Span: ast.Span{Start: start, End: c.position()}}, false
			}
			return ast.Token{Kind: ast.TokenDotDot, Lexeme: "..", Span: ast.Span{Start: start, End: c.position()}}, false
		}
	}

	span := ast.Span{Start: start, End: c.position()}
	l.errorf(span, "Unexpected character %q", string(r))
	return ast.Token{Kind: ast.TokenError, Lexeme: string(r), Span: span}, false
}
