package parser

import (
	"anilang/interpreter-go/pkg/ast"
	"anilang/interpreter-go/pkg/diag"
	"anilang/interpreter-go/pkg/source"
	"anilang/interpreter-go/pkg/token"
)

// An interface declaration is pure sugar and is rewritten here into core
// nodes, so the evaluator never sees it. For
//
//	interface Dog {
//	    sound = 'woof'
//	    fn speak(self) { self.sound }
//	    Dog(sound) { self.sound = sound }
//	}
//
// the expansion is
//
//	let Dog::speak = fn(self) { self.sound }
//	let Dog = fn(sound) {
//	    let self = { sound: 'woof', speak: Dog::speak }
//	    self.sound = sound
//	    return self
//	}
//
// Plain properties are re-evaluated on every construction. A member
// function lands in self only when its first parameter is literally named
// 'self'; the others are reachable through the Dog::name declarations
// alone. The trailing return is added only when the written constructor
// body does not already end in one.
type interfaceMember struct {
	name string
	span source.TextSpan
	prop ast.Node       // nil for functions
	fn   *ast.FnLiteral // nil for properties
}

func (p *parser) parseInterface() ([]ast.Node, error) {
	kw := p.next()
	nameTok, err := p.expect(token.Ident)
	if err != nil {
		return nil, err
	}
	name := p.text(nameTok)
	if _, err := p.expect(token.LBrace); err != nil {
		return nil, err
	}

	var members []interfaceMember
	var ctor *ast.FnLiteral

	for {
		cur := p.cur()
		if cur.Kind == token.RBrace {
			p.next()
			break
		}
		switch {
		case cur.Kind == token.KwFn:
			fnTok := p.next()
			memberTok, err := p.expect(token.Ident)
			if err != nil {
				return nil, err
			}
			fn, err := p.parseFnRest(fnTok.Span)
			if err != nil {
				return nil, err
			}
			members = append(members, interfaceMember{
				name: p.text(memberTok), span: memberTok.Span, fn: fn,
			})
		case cur.Kind == token.Ident && p.text(cur) == name:
			ctorTok := p.next()
			fn, err := p.parseFnRest(ctorTok.Span)
			if err != nil {
				return nil, err
			}
			if ctor != nil {
				return nil, diag.NewSyntaxError(diag.UnexpectedToken, ctorTok.Span,
					"interface %s already has a constructor", name)
			}
			ctor = fn
		case cur.Kind == token.Ident:
			propTok := p.next()
			if _, err := p.expect(token.Assign); err != nil {
				return nil, err
			}
			value, err := p.parseStatement()
			if err != nil {
				return nil, err
			}
			members = append(members, interfaceMember{
				name: p.text(propTok), span: propTok.Span, prop: value,
			})
		default:
			return nil, p.unexpected("an interface member or '}'")
		}
	}

	if ctor == nil {
		// No written constructor: synthesize an empty one, which still
		// builds and returns self.
		ctor = ast.NewFnLiteral(nil, ast.NewBlock(nil, nameTok.Span), nameTok.Span)
	}

	var out []ast.Node
	for _, m := range members {
		if m.fn != nil {
			out = append(out, ast.NewDeclaration(name+"::"+m.name, m.fn, m.fn.Span()))
		}
	}
	out = append(out, ast.NewDeclaration(name, wrapConstructor(name, members, ctor),
		source.SpanBetween(kw.Span, ctor.Span())))
	return out, nil
}

// wrapConstructor builds the constructor that pre-populates self, runs the
// written body, and returns self unless the body already returned.
func wrapConstructor(name string, members []interfaceMember, ctor *ast.FnLiteral) *ast.FnLiteral {
	span := ctor.Span()

	var entries []ast.ObjectEntry
	for _, m := range members {
		key := ast.NewStringLiteral(m.name, m.span)
		switch {
		case m.prop != nil:
			entries = append(entries, ast.ObjectEntry{Key: key, Value: m.prop})
		case len(m.fn.Params) > 0 && m.fn.Params[0] == "self":
			entries = append(entries, ast.ObjectEntry{
				Key:   key,
				Value: ast.NewVariable(name+"::"+m.name, m.span),
			})
		}
	}

	body := []ast.Node{
		ast.NewDeclaration("self", ast.NewObjectLiteral(entries, span), span),
	}
	body = append(body, ctor.Body.Statements...)

	last := ast.Node(nil)
	if n := len(ctor.Body.Statements); n > 0 {
		last = ctor.Body.Statements[n-1]
	}
	if _, ok := last.(*ast.Return); !ok {
		body = append(body, ast.NewReturn(ast.NewVariable("self", span), span))
	}

	return ast.NewFnLiteral(ctor.Params, ast.NewBlock(body, span), span)
}
