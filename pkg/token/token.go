// Package token defines the lexical vocabulary shared by the lexer and
// parser: token kinds, keyword lookup, and operator precedence.
package token

import "anilang/interpreter-go/pkg/source"

// Token is a single lexeme with its location in the source text. The text
// itself is recovered by slicing the SourceText with Span.
type Token struct {
	Kind Kind
	Span source.TextSpan
}

func New(kind Kind, start, length int) Token {
	return Token{Kind: kind, Span: source.NewSpan(start, length)}
}

// Text returns the raw source text covered by the token.
func (t Token) Text(src *source.SourceText) string {
	return src.Slice(t.Span)
}

var keywords = map[string]Kind{
	"let":       KwLet,
	"fn":        KwFn,
	"if":        KwIf,
	"else":      KwElse,
	"loop":      KwLoop,
	"while":     KwWhile,
	"break":     KwBreak,
	"return":    KwReturn,
	"true":      BoolLit,
	"false":     BoolLit,
	"null":      KwNull,
	"interface": KwInterface,
}

// LookupIdent maps an identifier-shaped lexeme to its keyword kind, or to
// Ident when it is not reserved.
func LookupIdent(text string) Kind {
	if kind, ok := keywords[text]; ok {
		return kind
	}
	return Ident
}
