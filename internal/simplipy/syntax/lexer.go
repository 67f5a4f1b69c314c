package syntax

import (
	"fmt"
	"strings"
)

// tabWidth is the number of columns a tab advances to, matching CPython's
// tokenizer.
const tabWidth = 8

// A SyntaxError reports a lexical or grammatical fault with its source line.
type SyntaxError struct {
	Line int
	Msg  string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Msg)
}

func errAt(line int, format string, args ...any) *SyntaxError {
	return &SyntaxError{Line: line, Msg: fmt.Sprintf(format, args...)}
}

type lexer struct {
	src    string
	pos    int
	line   int
	col    int
	tokens []Token

	indents     []int
	parenDepth  int
	atLineStart bool
}

// Tokenize scans SimpliPy source into a token stream ending in EOF.
// Indentation is converted into Indent/Dedent tokens; blank and
// comment-only lines produce nothing.
func Tokenize(src string) ([]Token, error) {
	l := &lexer{src: src, line: 1, indents: []int{0}, atLineStart: true}
	if err := l.run(); err != nil {
		return nil, err
	}
	return l.tokens, nil
}

func (l *lexer) run() error {
	for l.pos < len(l.src) {
		if l.atLineStart && l.parenDepth == 0 {
			if err := l.scanIndent(); err != nil {
				return err
			}
			if l.pos >= len(l.src) {
				break
			}
			continue
		}

		c := l.src[l.pos]
		switch {
		case c == '\n':
			l.endLine()
		case c == ' ' || c == '\t' || c == '\r':
			l.advance(1)
		case c == '#':
			l.skipComment()
		case isNameStart(c):
			l.scanName()
		case isDigit(c) || (c == '.' && l.pos+1 < len(l.src) && isDigit(l.src[l.pos+1])):
			if err := l.scanNumber(); err != nil {
				return err
			}
		case c == '\'' || c == '"':
			if err := l.scanString(); err != nil {
				return err
			}
		default:
			if err := l.scanOperator(); err != nil {
				return err
			}
		}
	}

	l.flushLine()
	for len(l.indents) > 1 {
		l.indents = l.indents[:len(l.indents)-1]
		l.emit(Dedent, "")
	}
	l.emit(EOF, "")
	return nil
}

// scanIndent measures the leading whitespace of a logical line and emits
// Indent/Dedent tokens against the indentation stack. Lines holding only
// whitespace or a comment are consumed without any token.
func (l *lexer) scanIndent() error {
	width := 0
	i := l.pos
	for i < len(l.src) {
		switch l.src[i] {
		case ' ':
			width++
		case '\t':
			width = (width/tabWidth + 1) * tabWidth
		default:
			goto measured
		}
		i++
	}
measured:
	if i >= len(l.src) || l.src[i] == '\n' || l.src[i] == '\r' || l.src[i] == '#' {
		// Blank or comment-only line.
		for i < len(l.src) && l.src[i] != '\n' {
			i++
		}
		if i < len(l.src) {
			i++ // consume the newline
		}
		l.pos = i
		l.line++
		l.col = 0
		return nil
	}

	l.col = width
	l.pos = i
	l.atLineStart = false

	top := l.indents[len(l.indents)-1]
	switch {
	case width > top:
		l.indents = append(l.indents, width)
		l.emit(Indent, "")
	case width < top:
		for len(l.indents) > 1 && l.indents[len(l.indents)-1] > width {
			l.indents = l.indents[:len(l.indents)-1]
			l.emit(Dedent, "")
		}
		if l.indents[len(l.indents)-1] != width {
			return errAt(l.line, "unindent does not match any outer indentation level")
		}
	}
	return nil
}

func (l *lexer) endLine() {
	if l.parenDepth == 0 {
		l.flushLine()
		l.atLineStart = true
	}
	l.pos++
	l.line++
	l.col = 0
}

// flushLine emits a Newline token if the current line produced any tokens.
func (l *lexer) flushLine() {
	if n := len(l.tokens); n > 0 {
		last := l.tokens[n-1].Kind
		if last != Newline && last != Indent && last != Dedent {
			l.emit(Newline, "")
		}
	}
}

func (l *lexer) skipComment() {
	for l.pos < len(l.src) && l.src[l.pos] != '\n' {
		l.advance(1)
	}
}

func (l *lexer) scanName() {
	start := l.pos
	for l.pos < len(l.src) && isNameChar(l.src[l.pos]) {
		l.advance(1)
	}
	word := l.src[start:l.pos]
	if kind, ok := keywords[word]; ok {
		l.emit(kind, word)
		return
	}
	l.emit(Name, word)
}

func (l *lexer) scanNumber() error {
	start := l.pos
	isFloat := false
	for l.pos < len(l.src) && isDigit(l.src[l.pos]) {
		l.advance(1)
	}
	if l.pos < len(l.src) && l.src[l.pos] == '.' {
		isFloat = true
		l.advance(1)
		for l.pos < len(l.src) && isDigit(l.src[l.pos]) {
			l.advance(1)
		}
	}
	if l.pos < len(l.src) && (l.src[l.pos] == 'e' || l.src[l.pos] == 'E') {
		isFloat = true
		l.advance(1)
		if l.pos < len(l.src) && (l.src[l.pos] == '+' || l.src[l.pos] == '-') {
			l.advance(1)
		}
		if l.pos >= len(l.src) || !isDigit(l.src[l.pos]) {
			return errAt(l.line, "malformed number literal %q", l.src[start:l.pos])
		}
		for l.pos < len(l.src) && isDigit(l.src[l.pos]) {
			l.advance(1)
		}
	}
	if l.pos < len(l.src) && isNameStart(l.src[l.pos]) {
		return errAt(l.line, "malformed number literal %q", l.src[start:l.pos+1])
	}

	lit := l.src[start:l.pos]
	if isFloat {
		l.emit(FloatLit, lit)
	} else {
		l.emit(IntLit, lit)
	}
	return nil
}

func (l *lexer) scanString() error {
	quote := l.src[l.pos]
	startLine := l.line
	l.advance(1)

	var b strings.Builder
	for {
		if l.pos >= len(l.src) || l.src[l.pos] == '\n' {
			return errAt(startLine, "unterminated string literal")
		}
		c := l.src[l.pos]
		if c == quote {
			l.advance(1)
			break
		}
		if c == '\\' {
			l.advance(1)
			if l.pos >= len(l.src) {
				return errAt(startLine, "unterminated string literal")
			}
			esc := l.src[l.pos]
			switch esc {
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			case 'r':
				b.WriteByte('\r')
			case '\\', '\'', '"':
				b.WriteByte(esc)
			case '0':
				b.WriteByte(0)
			default:
				return errAt(startLine, "unsupported escape sequence '\\%c'", esc)
			}
			l.advance(1)
			continue
		}
		b.WriteByte(c)
		l.advance(1)
	}
	l.emit(StrLit, b.String())
	return nil
}

func (l *lexer) scanOperator() error {
	two := ""
	if l.pos+1 < len(l.src) {
		two = l.src[l.pos : l.pos+2]
	}

	// Augmented assignment is recognized so the parser can name it in
	// errors instead of choking on a stray '='.
	switch two {
	case "+=", "-=", "*=", "/=", "%=", "@=", "&=", "|=", "^=":
		l.emitAdvance(AugAssign, two, 2)
		return nil
	}
	if l.pos+2 < len(l.src) {
		three := l.src[l.pos : l.pos+3]
		switch three {
		case "**=", "//=", "<<=", ">>=":
			l.emitAdvance(AugAssign, three, 3)
			return nil
		}
	}

	switch two {
	case "**":
		l.emitAdvance(DoubleStar, two, 2)
	case "//":
		l.emitAdvance(DoubleSlash, two, 2)
	case "<<":
		l.emitAdvance(LShift, two, 2)
	case ">>":
		l.emitAdvance(RShift, two, 2)
	case "==":
		l.emitAdvance(EqEq, two, 2)
	case "!=":
		l.emitAdvance(NotEq, two, 2)
	case "<=":
		l.emitAdvance(LtE, two, 2)
	case ">=":
		l.emitAdvance(GtE, two, 2)
	default:
		c := l.src[l.pos]
		switch c {
		case '(':
			l.parenDepth++
			l.emitAdvance(LParen, "(", 1)
		case ')':
			if l.parenDepth > 0 {
				l.parenDepth--
			}
			l.emitAdvance(RParen, ")", 1)
		case ',':
			l.emitAdvance(Comma, ",", 1)
		case ':':
			l.emitAdvance(Colon, ":", 1)
		case '=':
			l.emitAdvance(Assign, "=", 1)
		case '+':
			l.emitAdvance(Plus, "+", 1)
		case '-':
			l.emitAdvance(Minus, "-", 1)
		case '*':
			l.emitAdvance(Star, "*", 1)
		case '/':
			l.emitAdvance(Slash, "/", 1)
		case '%':
			l.emitAdvance(Percent, "%", 1)
		case '@':
			l.emitAdvance(At, "@", 1)
		case '|':
			l.emitAdvance(Pipe, "|", 1)
		case '^':
			l.emitAdvance(Caret, "^", 1)
		case '&':
			l.emitAdvance(Amp, "&", 1)
		case '~':
			l.emitAdvance(Tilde, "~", 1)
		case '<':
			l.emitAdvance(Lt, "<", 1)
		case '>':
			l.emitAdvance(Gt, ">", 1)
		default:
			return errAt(l.line, "unexpected character %q", string(c))
		}
	}
	return nil
}

func (l *lexer) emit(kind Kind, lit string) {
	l.tokens = append(l.tokens, Token{Kind: kind, Lit: lit, Line: l.line, Col: l.col})
}

func (l *lexer) emitAdvance(kind Kind, lit string, width int) {
	l.emit(kind, lit)
	l.advance(width)
}

func (l *lexer) advance(n int) {
	l.pos += n
	l.col += n
}

func isNameStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isNameChar(c byte) bool {
	return isNameStart(c) || isDigit(c)
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
