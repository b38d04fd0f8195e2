// Package lexer converts source text into tokens in a single scan. The
// first malformed piece of input aborts the scan with a SyntaxError.
package lexer

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"anilang/interpreter-go/pkg/diag"
	"anilang/interpreter-go/pkg/source"
	"anilang/interpreter-go/pkg/token"
)

type lexer struct {
	src    *source.SourceText
	pos    int
	tokens []token.Token
}

// Lex tokenizes src. Whitespace and comments are skipped. The returned
// stream always ends with an EOF token.
func Lex(src *source.SourceText) ([]token.Token, error) {
	l := &lexer{src: src}
	for !l.atEnd() {
		if err := l.next(); err != nil {
			return nil, err
		}
	}
	l.add(token.EOF, l.pos, 0)
	return l.tokens, nil
}

func (l *lexer) atEnd() bool {
	return l.pos >= l.src.Len()
}

// peek returns the byte at offset ahead of the cursor, or zero past the end.
func (l *lexer) peek(ahead int) byte {
	i := l.pos + ahead
	if i >= l.src.Len() {
		return 0
	}
	return l.src.Text[i]
}

func (l *lexer) add(kind token.Kind, start, length int) {
	l.tokens = append(l.tokens, token.New(kind, start, length))
}

// afterExpression reports whether the previous token can end an expression.
// A dot there is property access, not the start of a fraction, so "a.1" is
// a dot between two tokens rather than "a" followed by "0.1".
func (l *lexer) afterExpression() bool {
	if len(l.tokens) == 0 {
		return false
	}
	switch l.tokens[len(l.tokens)-1].Kind {
	case token.Ident, token.IntLit, token.FloatLit, token.StringLit,
		token.BoolLit, token.KwNull, token.RParen, token.RBracket, token.RBrace:
		return true
	}
	return false
}

// twoByteOp consumes a two character operator when the next byte matches
// want, otherwise a single character operator of kind one. A one kind of
// EOF means the single character form is not a valid token.
func (l *lexer) twoByteOp(start int, want byte, two, one token.Kind) error {
	if l.peek(1) == want {
		l.add(two, start, 2)
		l.pos += 2
		return nil
	}
	if one == token.EOF {
		l.pos++
		return diag.NewSyntaxError(diag.InvalidCharacter, source.NewSpan(start, 1),
			"unexpected character %q", l.src.Text[start])
	}
	l.add(one, start, 1)
	l.pos++
	return nil
}

func (l *lexer) next() error {
	start := l.pos
	ch := l.src.Text[l.pos]

	switch {
	case ch == ' ' || ch == '\t' || ch == '\r' || ch == '\n':
		l.pos++
		return nil
	case ch >= '0' && ch <= '9':
		l.lexNumber(start)
		return nil
	case ch == '.' && isDigit(l.peek(1)) && !l.afterExpression():
		l.lexNumber(start)
		return nil
	case ch < utf8.RuneSelf && isIdentStart(rune(ch)):
		l.lexIdent(start)
		return nil
	case ch >= utf8.RuneSelf:
		r, size := utf8.DecodeRuneInString(l.src.Text[l.pos:])
		if isIdentStart(r) {
			l.lexIdent(start)
			return nil
		}
		l.pos += size
		return diag.NewSyntaxError(diag.InvalidCharacter, source.NewSpan(start, size),
			"unexpected character %q", r)
	}

	switch ch {
	case '\'', '"':
		return l.lexString(start, ch)
	case '/':
		switch l.peek(1) {
		case '/':
			l.skipLineComment()
			return nil
		case '*':
			return l.skipBlockComment(start)
		}
		l.add(token.Slash, start, 1)
		l.pos++
	case '+':
		return l.twoByteOp(start, '+', token.PlusPlus, token.Plus)
	case '-':
		return l.twoByteOp(start, '-', token.MinusMinus, token.Minus)
	case '*':
		l.add(token.Star, start, 1)
		l.pos++
	case '%':
		l.add(token.Percent, start, 1)
		l.pos++
	case '^':
		l.add(token.Caret, start, 1)
		l.pos++
	case '=':
		return l.twoByteOp(start, '=', token.EqEq, token.Assign)
	case '!':
		return l.twoByteOp(start, '=', token.BangEq, token.Bang)
	case '<':
		return l.twoByteOp(start, '=', token.LtEq, token.Lt)
	case '>':
		return l.twoByteOp(start, '=', token.GtEq, token.Gt)
	case '&':
		return l.twoByteOp(start, '&', token.AndAnd, token.EOF)
	case '|':
		return l.twoByteOp(start, '|', token.OrOr, token.EOF)
	case '.':
		return l.twoByteOp(start, '.', token.DotDot, token.Dot)
	case ':':
		return l.twoByteOp(start, ':', token.ColonColon, token.Colon)
	case ',':
		l.add(token.Comma, start, 1)
		l.pos++
	case '(':
		l.add(token.LParen, start, 1)
		l.pos++
	case ')':
		l.add(token.RParen, start, 1)
		l.pos++
	case '{':
		l.add(token.LBrace, start, 1)
		l.pos++
	case '}':
		l.add(token.RBrace, start, 1)
		l.pos++
	case '[':
		l.add(token.LBracket, start, 1)
		l.pos++
	case ']':
		l.add(token.RBracket, start, 1)
		l.pos++
	default:
		_, size := utf8.DecodeRuneInString(l.src.Text[l.pos:])
		l.pos += size
		return diag.NewSyntaxError(diag.InvalidCharacter, source.NewSpan(start, size),
			"unexpected character %q", l.src.Text[start:start+size])
	}
	return nil
}

// lexNumber consumes a digit run with an optional fractional part. Either
// side of the dot may be empty, so '5.', '.5' and '5.5' are all floats.
// A dot followed by another dot is left for the range operator.
func (l *lexer) lexNumber(start int) {
	kind := token.IntLit
	for isDigit(l.peek(0)) {
		l.pos++
	}
	if l.peek(0) == '.' && l.peek(1) != '.' {
		kind = token.FloatLit
		l.pos++
		for isDigit(l.peek(0)) {
			l.pos++
		}
	}
	l.add(kind, start, l.pos-start)
}

func (l *lexer) lexIdent(start int) {
	for !l.atEnd() {
		r, size := utf8.DecodeRuneInString(l.src.Text[l.pos:])
		if !isIdentPart(r) {
			break
		}
		l.pos += size
	}
	text := l.src.Text[start:l.pos]
	l.add(token.LookupIdent(text), start, l.pos-start)
}

// lexString consumes a literal up to the matching delimiter. A backslash
// escapes the following character. The token span includes the delimiters.
func (l *lexer) lexString(start int, delim byte) error {
	l.pos++
	for !l.atEnd() {
		switch l.src.Text[l.pos] {
		case '\\':
			l.pos += 2
		case delim:
			l.pos++
			l.add(token.StringLit, start, l.pos-start)
			return nil
		default:
			l.pos++
		}
	}
	return diag.NewSyntaxError(diag.UnterminatedString, source.NewSpan(start, l.src.Len()-start),
		"string literal is never closed")
}

func (l *lexer) skipLineComment() {
	for !l.atEnd() && l.src.Text[l.pos] != '\n' {
		l.pos++
	}
}

// skipBlockComment discards everything up to the first '*/'. Block
// comments do not nest.
func (l *lexer) skipBlockComment(start int) error {
	l.pos += 2
	for l.pos+1 < l.src.Len() {
		if l.src.Text[l.pos] == '*' && l.src.Text[l.pos+1] == '/' {
			l.pos += 2
			return nil
		}
		l.pos++
	}
	l.pos = l.src.Len()
	return diag.NewSyntaxError(diag.UnterminatedComment, source.NewSpan(start, l.src.Len()-start),
		"block comment is never closed")
}

// Unescape interprets the body of a string literal, without its delimiters.
// A backslash makes the following character literal and is itself dropped.
func Unescape(body string) string {
	if !strings.Contains(body, `\`) {
		return body
	}
	out := make([]byte, 0, len(body))
	for i := 0; i < len(body); i++ {
		if body[i] == '\\' && i+1 < len(body) {
			i++
		}
		out = append(out, body[i])
	}
	return string(out)
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isIdentPart(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
