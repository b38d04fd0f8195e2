// Package diag defines the error values produced by the lexer, parser, and
// evaluator, and renders them against the source text.
package diag

import (
	"fmt"

	"anilang/interpreter-go/pkg/source"
)

// SyntaxKind classifies errors raised while lexing or parsing.
type SyntaxKind uint8

const (
	UnexpectedToken SyntaxKind = iota
	InvalidCharacter
	UnterminatedString
	UnterminatedComment
	InvalidNumber
)

var syntaxKindNames = map[SyntaxKind]string{
	UnexpectedToken:     "UnexpectedToken",
	InvalidCharacter:    "InvalidCharacter",
	UnterminatedString:  "UnterminatedString",
	UnterminatedComment: "UnterminatedComment",
	InvalidNumber:       "InvalidNumber",
}

func (k SyntaxKind) String() string {
	if name, ok := syntaxKindNames[k]; ok {
		return name
	}
	return "SyntaxError"
}

// SyntaxError aborts lexing or parsing at the first malformed input.
type SyntaxError struct {
	Kind    SyntaxKind
	Span    source.TextSpan
	Message string
}

func NewSyntaxError(kind SyntaxKind, span source.TextSpan, format string, args ...any) *SyntaxError {
	return &SyntaxError{Kind: kind, Span: span, Message: fmt.Sprintf(format, args...)}
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// RuntimeKind classifies errors raised during evaluation.
type RuntimeKind uint8

const (
	TypeError RuntimeKind = iota
	UndefinedVariable
	NotIndexable
	ArityMismatch
	IndexOutOfRange
	KeyNotFound
	BreakOutsideLoop
	DivisionByZero
	ValueOutOfRange
)

var runtimeKindNames = map[RuntimeKind]string{
	TypeError:         "TypeError",
	UndefinedVariable: "UndefinedVariable",
	NotIndexable:      "NotIndexable",
	ArityMismatch:     "ArityMismatch",
	IndexOutOfRange:   "IndexOutOfRange",
	KeyNotFound:       "KeyNotFound",
	BreakOutsideLoop:  "BreakOutsideLoop",
	DivisionByZero:    "DivisionByZero",
	ValueOutOfRange:   "ValueOutOfRange",
}

func (k RuntimeKind) String() string {
	if name, ok := runtimeKindNames[k]; ok {
		return name
	}
	return "RuntimeError"
}

// RuntimeError halts evaluation. Span points at the expression that failed.
type RuntimeError struct {
	Kind    RuntimeKind
	Span    source.TextSpan
	Message string
}

func NewRuntimeError(kind RuntimeKind, span source.TextSpan, format string, args ...any) *RuntimeError {
	return &RuntimeError{Kind: kind, Span: span, Message: fmt.Sprintf(format, args...)}
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}
