package parser

import (
	"strconv"

	"anilang/interpreter-go/pkg/ast"
	"anilang/interpreter-go/pkg/diag"
	"anilang/interpreter-go/pkg/lexer"
	"anilang/interpreter-go/pkg/source"
	"anilang/interpreter-go/pkg/token"
)

// parsePostfixExpression parses a primary expression and then any chain of
// calls, index reads, and property reads hanging off it.
func (p *parser) parsePostfixExpression() (ast.Node, error) {
	node, err := p.parsePrimaryExpression()
	if err != nil {
		return nil, err
	}

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
			node = ast.NewIndex(node, key, source.SpanBetween(node.Span(), close.Span))
		case token.LParen:
			p.next()
			args, close, err := p.parseCommaSeparated(token.RParen)
			if err != nil {
				return nil, err
			}
			node = ast.NewCall(node, args, source.SpanBetween(node.Span(), close.Span))
		case token.Dot:
			p.next()
			prop, err := p.expect(token.Ident)
			if err != nil {
				return nil, err
			}
			key := ast.NewStringLiteral(p.text(prop), prop.Span)
			node = ast.NewIndex(node, key, source.SpanBetween(node.Span(), prop.Span))
		default:
			return node, nil
		}
	}
}

func (p *parser) parsePrimaryExpression() (ast.Node, error) {
	switch p.cur().Kind {
	case token.IntLit, token.FloatLit, token.StringLit, token.BoolLit, token.KwNull:
		return p.parseLiteral()
	case token.Ident:
		return p.parseVariable()
	case token.KwFn:
		return p.parseFn()
	case token.LBrace:
		if p.looksLikeObject() {
			return p.parseObject()
		}
		return p.parseBlock()
	case token.LParen:
		p.next()
		inner, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.RParen); err != nil {
			return nil, err
		}
		return inner, nil
	case token.LBracket:
		return p.parseList()
	default:
		return nil, p.unexpected("an expression")
	}
}

// parseVariable reads a name, joining 'Name::member' into one namespaced
// variable name.
func (p *parser) parseVariable() (ast.Node, error) {
	name := p.next()
	span := name.Span
	text := p.text(name)
	if p.cur().Kind == token.ColonColon {
		p.next()
		member, err := p.expect(token.Ident)
		if err != nil {
			return nil, err
		}
		span = source.SpanBetween(span, member.Span)
		text = text + "::" + p.text(member)
	}
	return ast.NewVariable(text, span), nil
}

func (p *parser) parseLiteral() (ast.Node, error) {
	t := p.next()
	switch t.Kind {
	case token.IntLit:
		v, err := strconv.ParseInt(p.text(t), 10, 64)
		if err != nil {
			return nil, diag.NewSyntaxError(diag.InvalidNumber, t.Span,
				"int literal %s does not fit in 64 bits", p.text(t))
		}
		return ast.NewIntLiteral(v, t.Span), nil
	case token.FloatLit:
		text := p.text(t)
		v, err := strconv.ParseFloat(text, 64)
		if err != nil {
			// '5.' has no digits after the dot, which ParseFloat accepts,
			// so any failure here is a malformed literal.
			return nil, diag.NewSyntaxError(diag.InvalidNumber, t.Span,
				"%s is not a valid float literal", text)
		}
		return ast.NewFloatLiteral(v, t.Span), nil
	case token.StringLit:
		raw := p.text(t)
		body := raw[1 : len(raw)-1]
		return ast.NewStringLiteral(lexer.Unescape(body), t.Span), nil
	case token.BoolLit:
		return ast.NewBoolLiteral(p.text(t) == "true", t.Span), nil
	default: // null
		return ast.NewNullLiteral(t.Span), nil
	}
}

func (p *parser) parseList() (ast.Node, error) {
	open := p.next()
	elements, close, err := p.parseCommaSeparated(token.RBracket)
	if err != nil {
		return nil, err
	}
	return ast.NewListLiteral(elements, source.SpanBetween(open.Span, close.Span)), nil
}

// parseCommaSeparated parses statements separated by commas up to the
// closing kind, consuming it. A trailing comma is allowed.
func (p *parser) parseCommaSeparated(end token.Kind) ([]ast.Node, token.Token, error) {
	var items []ast.Node
	for p.cur().Kind != end {
		item, err := p.parseStatement()
		if err != nil {
			return nil, token.Token{}, err
		}
		items = append(items, item)
		if p.cur().Kind != token.Comma {
			break
		}
		p.next()
	}
	close, err := p.expect(end)
	if err != nil {
		return nil, token.Token{}, err
	}
	return items, close, nil
}

// looksLikeObject decides whether a '{' opens an object literal or a
// block, by lookahead only. An empty '{}' is an empty block, worth Null;
// '{ a, ...' and '{ a(...) {' are object shorthands; otherwise a ':'
// before any brace means the first entry has an explicit key.
func (p *parser) looksLikeObject() bool {
	i := p.pos + 1
	switch p.tokens[i].Kind {
	case token.Ident:
		switch p.peekAt(i + 1) {
		case token.Comma:
			return true
		case token.LParen:
			// Skip to the matching ')' and look for the method body brace.
			depth := 1
			i += 2
			for i < len(p.tokens) {
				switch p.tokens[i].Kind {
				case token.LParen:
					depth++
				case token.RParen:
					depth--
				}
				i++
				if depth == 0 {
					return p.peekAt(i) == token.LBrace
				}
			}
			return false
		}
	}
	for i < len(p.tokens) {
		switch p.tokens[i].Kind {
		case token.LBrace, token.RBrace, token.EOF:
			return false
		case token.Colon:
			return true
		}
		i++
	}
	return false
}

func (p *parser) peekAt(i int) token.Kind {
	if i >= len(p.tokens) {
		return token.EOF
	}
	return p.tokens[i].Kind
}

// parseObject parses an object literal. Entry sugar:
//
//	name         -> "name": name
//	name: v      -> "name": v
//	name(a) { }  -> "name": fn(a) { }
//	expr: v      -> key evaluated at runtime, must yield a string
func (p *parser) parseObject() (ast.Node, error) {
	open := p.next()
	var entries []ast.ObjectEntry

	for p.cur().Kind != token.RBrace {
		var entry ast.ObjectEntry
		cur := p.cur()
		switch {
		case cur.Kind == token.Ident && p.peek(1).Kind == token.Colon:
			name := p.next()
			p.next()
			value, err := p.parseStatement()
			if err != nil {
				return nil, err
			}
			entry = ast.ObjectEntry{
				Key:   ast.NewStringLiteral(p.text(name), name.Span),
				Value: value,
			}
		case cur.Kind == token.Ident && p.peek(1).Kind == token.LParen:
			name := p.next()
			fn, err := p.parseFnRest(name.Span)
			if err != nil {
				return nil, err
			}
			entry = ast.ObjectEntry{
				Key:   ast.NewStringLiteral(p.text(name), name.Span),
				Value: fn,
			}
		case cur.Kind == token.Ident && (p.peek(1).Kind == token.Comma || p.peek(1).Kind == token.RBrace):
			name := p.next()
			entry = ast.ObjectEntry{
				Key:   ast.NewStringLiteral(p.text(name), name.Span),
				Value: ast.NewVariable(p.text(name), name.Span),
			}
		default:
			key, err := p.parseStatement()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(token.Colon); err != nil {
				return nil, err
			}
			value, err := p.parseStatement()
			if err != nil {
				return nil, err
			}
			entry = ast.ObjectEntry{Key: key, Value: value}
		}
		entries = append(entries, entry)

		if p.cur().Kind != token.Comma {
			break
		}
		p.next()
	}

	close, err := p.expect(token.RBrace)
	if err != nil {
		return nil, err
	}
	return ast.NewObjectLiteral(entries, source.SpanBetween(open.Span, close.Span)), nil
}
