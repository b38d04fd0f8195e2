// Package parser turns a token stream into a syntax tree by recursive
// descent, with precedence climbing for binary expressions. All surface
// sugar (property access, object shorthand, compound assignment,
// interfaces) is rewritten here, so the evaluator only sees core nodes.
//
// Parsing is fail fast: the first unexpected token aborts the whole parse,
// there is no recovery pass.
package parser

import (
	"anilang/interpreter-go/pkg/ast"
	"anilang/interpreter-go/pkg/diag"
	"anilang/interpreter-go/pkg/lexer"
	"anilang/interpreter-go/pkg/source"
	"anilang/interpreter-go/pkg/token"
)

type parser struct {
	src    *source.SourceText
	tokens []token.Token
	pos    int
}

// Parse lexes and parses src into a block of top level statements.
func Parse(src *source.SourceText) (*ast.Block, error) {
	tokens, err := lexer.Lex(src)
	if err != nil {
		return nil, err
	}
	p := &parser{src: src, tokens: tokens}

	statements, err := p.parseStatements(token.EOF)
	if err != nil {
		return nil, err
	}
	p.pos++ // EOF
	return ast.NewBlock(statements, source.NewSpan(0, src.Len())), nil
}

// cur is the token under the cursor. The stream always ends with EOF, so
// peeking past the end clamps there.
func (p *parser) cur() token.Token {
	return p.peek(0)
}

func (p *parser) peek(offset int) token.Token {
	i := p.pos + offset
	if i >= len(p.tokens) {
		i = len(p.tokens) - 1
	}
	if i < 0 {
		i = 0
	}
	return p.tokens[i]
}

// next returns the current token and advances past it.
func (p *parser) next() token.Token {
	t := p.cur()
	if p.pos < len(p.tokens)-1 {
		p.pos++
	}
	return t
}

// expect consumes a token of the wanted kind or fails the parse.
func (p *parser) expect(kind token.Kind) (token.Token, error) {
	if p.cur().Kind != kind {
		return token.Token{}, p.unexpected(kind.String())
	}
	return p.next(), nil
}

func (p *parser) unexpected(wanted string) error {
	t := p.cur()
	if t.Kind == token.EOF {
		return diag.NewSyntaxError(diag.UnexpectedToken, t.Span,
			"unexpected end of input, expected %s", wanted)
	}
	return diag.NewSyntaxError(diag.UnexpectedToken, t.Span,
		"unexpected token %s, expected %s", t.Kind, wanted)
}

func (p *parser) text(t token.Token) string {
	return t.Text(p.src)
}

// parseStatements parses until the closing kind, without consuming it.
// Interface declarations expand to several statements, which is why this
// collects through parseInterface rather than parseStatement alone.
func (p *parser) parseStatements(end token.Kind) ([]ast.Node, error) {
	var statements []ast.Node
	for p.cur().Kind != end {
		if p.cur().Kind == token.EOF {
			return nil, p.unexpected(end.String())
		}
		if p.cur().Kind == token.KwInterface {
			expanded, err := p.parseInterface()
			if err != nil {
				return nil, err
			}
			statements = append(statements, expanded...)
			continue
		}
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		statements = append(statements, stmt)
	}
	return statements, nil
}

// parseBlock parses '{ statements }' including both braces.
func (p *parser) parseBlock() (*ast.Block, error) {
	open, err := p.expect(token.LBrace)
	if err != nil {
		return nil, err
	}
	statements, err := p.parseStatements(token.RBrace)
	if err != nil {
		return nil, err
	}
	close := p.next()
	return ast.NewBlock(statements, source.SpanBetween(open.Span, close.Span)), nil
}

// parseStatement parses one statement. Statements are expressions here:
// every construct yields a value, so this is also the entry point for
// nested positions such as a declaration's right hand side, call
// arguments, and parenthesised expressions.
func (p *parser) parseStatement() (ast.Node, error) {
	// Assignment through an index or property chain needs lookahead: the
	// target reads like any other postfix expression until the '='.
	if p.cur().Kind == token.Ident &&
		(p.peek(1).Kind == token.Dot || p.peek(1).Kind == token.LBracket) {
		switch p.scanAssignKind() {
		case assignPlain:
			return p.parseAssignment()
		case assignCompound:
			return p.parseCompoundAssignment()
		}
	}

	var stmt ast.Node
	var err error
	switch p.cur().Kind {
	case token.KwLet:
		stmt, err = p.parseDeclaration()
	case token.Ident:
		if p.peek(1).Kind == token.Assign {
			stmt, err = p.parseAssignment()
		} else if p.peek(1).Kind.IsCompoundAssignOp() && p.peek(2).Kind == token.Assign {
			stmt, err = p.parseCompoundAssignment()
		} else {
			stmt, err = p.parseBinaryExpression(token.PrecNone)
		}
	case token.KwFn:
		stmt, err = p.parseFn()
	case token.KwIf:
		stmt, err = p.parseIf()
	case token.KwLoop:
		stmt, err = p.parseLoop()
	case token.KwWhile:
		stmt, err = p.parseWhile()
	case token.KwBreak:
		t := p.next()
		stmt = ast.NewBreak(t.Span)
	case token.KwReturn:
		stmt, err = p.parseReturn()
	case token.KwInterface:
		return nil, diag.NewSyntaxError(diag.UnexpectedToken, p.cur().Span,
			"an interface declaration cannot be used as a value")
	default:
		stmt, err = p.parseBinaryExpression(token.PrecNone)
	}
	if err != nil {
		return nil, err
	}

	// A range binds looser than any operator, so it is checked after the
	// whole statement: 'a + 1 .. b * 2' spans both products.
	if p.cur().Kind == token.DotDot {
		p.next()
		end, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		return ast.NewRangeExpr(stmt, end, source.SpanBetween(stmt.Span(), end.Span())), nil
	}
	return stmt, nil
}

func (p *parser) parseDeclaration() (ast.Node, error) {
	let := p.next()
	name, err := p.expect(token.Ident)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.Assign); err != nil {
		return nil, err
	}
	value, err := p.parseStatement()
	if err != nil {
		return nil, err
	}
	return ast.NewDeclaration(p.text(name), value,
		source.SpanBetween(let.Span, value.Span())), nil
}

type assignKind uint8

const (
	assignNone assignKind = iota
	assignPlain
	assignCompound
)

// scanAssignKind looks ahead from an identifier through an index and
// property chain and reports whether an assignment operator follows it.
// Nothing is consumed; an ordinary expression like 'a[0] + 1' reports none.
func (p *parser) scanAssignKind() assignKind {
	i := p.pos + 1
	depth := 0
	for i < len(p.tokens)-1 {
		switch p.tokens[i].Kind {
		case token.LBracket:
			depth++
		case token.RBracket:
			depth--
		case token.Dot:
			if p.tokens[i+1].Kind != token.Ident {
				return assignNone
			}
			i++
		}
		i++

		if depth == 0 && p.tokens[i].Kind != token.Dot {
			if p.tokens[i].Kind.IsCompoundAssignOp() && p.tokens[i+1].Kind == token.Assign {
				return assignCompound
			}
			switch p.tokens[i].Kind {
			case token.LBracket:
				depth = 1
				i++
			case token.Assign:
				return assignPlain
			default:
				return assignNone
			}
		}
	}
	return assignNone
}

// parseTarget parses the identifier plus any index and property chain that
// forms an assignment target.
func (p *parser) parseTarget() (ast.Node, error) {
	name := p.next()
	var target ast.Node = ast.NewVariable(p.text(name), name.Span)
	for {
		switch p.cur().Kind {
		case token.LBracket:
			p.next()
			key, err := p.parseStatement()
			if err != nil {
				return nil, err
			}
			close, err := p.expect(token.RBracket)
			if err != nil {
				return nil, err
			}
			target = ast.NewIndex(target, key, source.SpanBetween(name.Span, close.Span))
		case token.Dot:
			p.next()
			prop, err := p.expect(token.Ident)
			if err != nil {
				return nil, err
			}
			key := ast.NewStringLiteral(p.text(prop), prop.Span)
			target = ast.NewIndex(target, key, source.SpanBetween(name.Span, prop.Span))
		default:
			return target, nil
		}
	}
}

func (p *parser) parseAssignment() (ast.Node, error) {
	target, err := p.parseTarget()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.Assign); err != nil {
		return nil, err
	}
	value, err := p.parseStatement()
	if err != nil {
		return nil, err
	}
	return ast.NewAssignment(target, value,
		source.SpanBetween(target.Span(), value.Span())), nil
}

// parseCompoundAssignment rewrites 'x op= v' into 'x = x op v'. The target
// expression is reused as both the write target and the left operand.
func (p *parser) parseCompoundAssignment() (ast.Node, error) {
	target, err := p.parseTarget()
	if err != nil {
		return nil, err
	}
	op := p.next()
	if _, err := p.expect(token.Assign); err != nil {
		return nil, err
	}
	right, err := p.parseStatement()
	if err != nil {
		return nil, err
	}
	value := ast.NewBinary(op.Kind, target, right,
		source.SpanBetween(op.Span, right.Span()))
	return ast.NewAssignment(target, value,
		source.SpanBetween(target.Span(), right.Span())), nil
}

// parseFn parses a function with an optional name. 'fn add(a, b) { }' is
// sugar for 'let add = fn(a, b) { }'.
func (p *parser) parseFn() (ast.Node, error) {
	fn := p.next()
	name := ""
	if p.cur().Kind == token.Ident {
		name = p.text(p.next())
	}
	lit, err := p.parseFnRest(fn.Span)
	if err != nil {
		return nil, err
	}
	if name == "" {
		return lit, nil
	}
	return ast.NewDeclaration(name, lit, lit.Span()), nil
}

// parseFnRest parses the parameter list and body, the 'fn' keyword and any
// name already being consumed.
func (p *parser) parseFnRest(start source.TextSpan) (*ast.FnLiteral, error) {
	if _, err := p.expect(token.LParen); err != nil {
		return nil, err
	}
	var params []string
	for p.cur().Kind != token.RParen {
		name, err := p.expect(token.Ident)
		if err != nil {
			return nil, err
		}
		params = append(params, p.text(name))
		if p.cur().Kind != token.Comma {
			break
		}
		p.next()
	}
	if _, err := p.expect(token.RParen); err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return ast.NewFnLiteral(params, body, source.SpanBetween(start, body.Span())), nil
}

func (p *parser) parseIf() (ast.Node, error) {
	kw := p.next()
	cond, err := p.parseStatement()
	if err != nil {
		return nil, err
	}
	then, err := p.parseBlock()
	if err != nil {
		return nil, err
	}

	var els ast.Node
	if p.cur().Kind == token.KwElse {
		p.next()
		switch p.cur().Kind {
		case token.KwIf:
			els, err = p.parseIf()
		case token.LBrace:
			els, err = p.parseBlock()
		default:
			err = p.unexpected("'if' or a block after 'else'")
		}
		if err != nil {
			return nil, err
		}
	}

	span := source.SpanBetween(kw.Span, then.Span())
	if els != nil {
		span = source.SpanBetween(kw.Span, els.Span())
	}
	return ast.NewIf(cond, then, els, span), nil
}

func (p *parser) parseLoop() (ast.Node, error) {
	kw := p.next()
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return ast.NewLoop(body, source.SpanBetween(kw.Span, body.Span())), nil
}

func (p *parser) parseWhile() (ast.Node, error) {
	kw := p.next()
	cond, err := p.parseStatement()
	if err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return ast.NewWhile(cond, body, source.SpanBetween(kw.Span, body.Span())), nil
}

// parseReturn parses 'return' with an optional value: a closing token right
// after the keyword means a bare return.
func (p *parser) parseReturn() (ast.Node, error) {
	kw := p.next()
	switch p.cur().Kind {
	case token.RBrace, token.RParen, token.EOF:
		return ast.NewReturn(nil, kw.Span), nil
	}
	value, err := p.parseStatement()
	if err != nil {
		return nil, err
	}
	return ast.NewReturn(value, source.SpanBetween(kw.Span, value.Span())), nil
}

// parseBinaryExpression climbs operator precedence. A unary operator binds
// tighter than any binary operator to its right, and power is the one
// right associative level.
func (p *parser) parseBinaryExpression(parentPrec int) (ast.Node, error) {
	var left ast.Node
	var err error
	if prec := p.cur().Kind.UnaryPrecedence(); prec != token.PrecNone && prec >= parentPrec {
		op := p.next()
		operand, err := p.parseBinaryExpression(prec)
		if err != nil {
			return nil, err
		}
		left = ast.NewUnary(op.Kind, operand, source.SpanBetween(op.Span, operand.Span()))
	} else {
		left, err = p.parsePostfixExpression()
		if err != nil {
			return nil, err
		}
	}

	for {
		kind := p.cur().Kind
		prec := kind.BinaryPrecedence()
		if prec == token.PrecNone || prec < parentPrec {
			break
		}
		op := p.next()
		// A right associative operator reparses at its own level so the
		// chain nests rightward; everything else steps one level up.
		nextPrec := prec + 1
		if kind.IsRightAssociative() {
			nextPrec = prec
		}
		right, err := p.parseBinaryExpression(nextPrec)
		if err != nil {
			return nil, err
		}
		left = ast.NewBinary(op.Kind, left, right,
			source.SpanBetween(left.Span(), right.Span()))
	}
	return left, nil
}
