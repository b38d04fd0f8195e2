// Package analysis is a static pre-pass over parsed programs. It cannot
// change what running the program does; it exists so 'anilang check' can
// flag the mistakes that are decidable without running: references that
// no enclosing scope ever declares, break statements outside any loop,
// and duplicate keys in one object literal.
//
// The scope model is deliberately looser than the evaluator's: a block's
// declarations are treated as visible throughout the whole block, so
// mutually recursive functions do not trip the checker even though the
// later one is bound after the earlier one's body is written.
package analysis

import (
	"fmt"
	"sort"

	"anilang/interpreter-go/pkg/ast"
	"anilang/interpreter-go/pkg/source"
)

// Finding is one reported problem.
type Finding struct {
	Span    source.TextSpan
	Message string
}

func (f Finding) String() string {
	return fmt.Sprintf("%d..%d: %s", f.Span.Start, f.Span.End(), f.Message)
}

type scope struct {
	names  map[string]bool
	parent *scope
}

func (s *scope) declared(name string) bool {
	for cur := s; cur != nil; cur = cur.parent {
		if cur.names[name] {
			return true
		}
	}
	return false
}

type checker struct {
	findings []Finding
}

// Check walks a parsed program and returns its findings ordered by span.
func Check(program *ast.Block) []Finding {
	c := &checker{}
	root := &scope{names: map[string]bool{}}
	collectDeclarations(program, root)
	for _, stmt := range program.Statements {
		c.walk(stmt, root, false)
	}
	sort.Slice(c.findings, func(i, j int) bool {
		return c.findings[i].Span.Start < c.findings[j].Span.Start
	})
	return c.findings
}

func (c *checker) report(span source.TextSpan, format string, args ...any) {
	c.findings = append(c.findings, Finding{Span: span, Message: fmt.Sprintf(format, args...)})
}

// collectDeclarations hoists a block's own declarations into its scope.
func collectDeclarations(block *ast.Block, s *scope) {
	for _, stmt := range block.Statements {
		if decl, ok := stmt.(*ast.Declaration); ok {
			s.names[decl.Name] = true
		}
	}
}

func (c *checker) walkBlock(block *ast.Block, parent *scope, inLoop bool) {
	s := &scope{names: map[string]bool{}, parent: parent}
	collectDeclarations(block, s)
	for _, stmt := range block.Statements {
		c.walk(stmt, s, inLoop)
	}
}

func (c *checker) walk(node ast.Node, s *scope, inLoop bool) {
	switch n := node.(type) {
	case *ast.Literal:
	case *ast.Variable:
		if !s.declared(n.Name) {
			c.report(n.Span(), "'%s' is never declared", n.Name)
		}
	case *ast.ListLiteral:
		for _, el := range n.Elements {
			c.walk(el, s, inLoop)
		}
	case *ast.ObjectLiteral:
		c.checkObjectKeys(n)
		for _, entry := range n.Entries {
			c.walk(entry.Key, s, inLoop)
			c.walk(entry.Value, s, inLoop)
		}
	case *ast.RangeExpr:
		c.walk(n.Start, s, inLoop)
		c.walk(n.End, s, inLoop)
	case *ast.Binary:
		c.walk(n.Left, s, inLoop)
		c.walk(n.Right, s, inLoop)
	case *ast.Unary:
		c.walk(n.Operand, s, inLoop)
	case *ast.Declaration:
		c.walk(n.Value, s, inLoop)
	case *ast.Assignment:
		c.walk(n.Target, s, inLoop)
		c.walk(n.Value, s, inLoop)
	case *ast.Block:
		c.walkBlock(n, s, inLoop)
	case *ast.If:
		c.walk(n.Cond, s, inLoop)
		c.walkBlock(n.Then, s, inLoop)
		if n.Else != nil {
			c.walk(n.Else, s, inLoop)
		}
	case *ast.Loop:
		c.walkBlock(n.Body, s, true)
	case *ast.While:
		c.walk(n.Cond, s, inLoop)
		c.walkBlock(n.Body, s, true)
	case *ast.Break:
		if !inLoop {
			c.report(n.Span(), "break outside of a loop")
		}
	case *ast.Return:
		if n.Value != nil {
			c.walk(n.Value, s, inLoop)
		}
	case *ast.FnLiteral:
		// A function body is a fresh break boundary; its parameters are in
		// scope throughout.
		params := &scope{names: map[string]bool{}, parent: s}
		for _, p := range n.Params {
			params.names[p] = true
		}
		c.walkBlock(n.Body, params, false)
	case *ast.Call:
		c.walk(n.Callee, s, inLoop)
		for _, arg := range n.Args {
			c.walk(arg, s, inLoop)
		}
	case *ast.Index:
		c.walk(n.Target, s, inLoop)
		c.walk(n.Key, s, inLoop)
	}
}

func (c *checker) checkObjectKeys(obj *ast.ObjectLiteral) {
	seen := map[string]bool{}
	for _, entry := range obj.Entries {
		lit, ok := entry.Key.(*ast.Literal)
		if !ok || lit.Kind != ast.LitString {
			continue
		}
		if seen[lit.Str] {
			c.report(lit.Span(), "duplicate object key %q", lit.Str)
		}
		seen[lit.Str] = true
	}
}
