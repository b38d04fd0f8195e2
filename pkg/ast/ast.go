// Package ast defines the tree produced by the parser and walked by the
// evaluator. The language is expression oriented, so there is no statement
// and expression split: every construct yields a value.
package ast

import (
	"anilang/interpreter-go/pkg/source"
	"anilang/interpreter-go/pkg/token"
)

type NodeType string

const (
	NodeLiteral       NodeType = "Literal"
	NodeVariable      NodeType = "Variable"
	NodeListLiteral   NodeType = "ListLiteral"
	NodeObjectLiteral NodeType = "ObjectLiteral"
	NodeRangeExpr     NodeType = "RangeExpr"
	NodeBinary        NodeType = "Binary"
	NodeUnary         NodeType = "Unary"
	NodeDeclaration   NodeType = "Declaration"
	NodeAssignment    NodeType = "Assignment"
	NodeBlock         NodeType = "Block"
	NodeIf            NodeType = "If"
	NodeLoop          NodeType = "Loop"
	NodeWhile         NodeType = "While"
	NodeBreak         NodeType = "Break"
	NodeReturn        NodeType = "Return"
	NodeFnLiteral     NodeType = "FnLiteral"
	NodeCall          NodeType = "Call"
	NodeIndex         NodeType = "Index"
)

// Node is any construct in the tree. Span points back at the source text
// that produced it, for error reporting.
type Node interface {
	NodeType() NodeType
	Span() source.TextSpan
	isNode()
}

type nodeImpl struct {
	Type     NodeType        `msgpack:"type"`
	TextSpan source.TextSpan `msgpack:"span"`
}

func newNodeImpl(kind NodeType, span source.TextSpan) nodeImpl {
	return nodeImpl{Type: kind, TextSpan: span}
}

func (n nodeImpl) NodeType() NodeType    { return n.Type }
func (n nodeImpl) Span() source.TextSpan { return n.TextSpan }
func (nodeImpl) isNode()                 {}

// Literals

// LitKind discriminates the payload of a Literal.
type LitKind uint8

const (
	LitInt LitKind = iota
	LitFloat
	LitBool
	LitString
	LitNull
)

// Literal is a constant written directly in the source. Only the field
// matching Kind is meaningful.
type Literal struct {
	nodeImpl

	Kind  LitKind `msgpack:"kind"`
	Int   int64   `msgpack:"int,omitempty"`
	Float float64 `msgpack:"float,omitempty"`
	Bool  bool    `msgpack:"bool,omitempty"`
	Str   string  `msgpack:"str,omitempty"`
}

func NewIntLiteral(value int64, span source.TextSpan) *Literal {
	return &Literal{nodeImpl: newNodeImpl(NodeLiteral, span), Kind: LitInt, Int: value}
}

func NewFloatLiteral(value float64, span source.TextSpan) *Literal {
	return &Literal{nodeImpl: newNodeImpl(NodeLiteral, span), Kind: LitFloat, Float: value}
}

func NewBoolLiteral(value bool, span source.TextSpan) *Literal {
	return &Literal{nodeImpl: newNodeImpl(NodeLiteral, span), Kind: LitBool, Bool: value}
}

func NewStringLiteral(value string, span source.TextSpan) *Literal {
	return &Literal{nodeImpl: newNodeImpl(NodeLiteral, span), Kind: LitString, Str: value}
}

func NewNullLiteral(span source.TextSpan) *Literal {
	return &Literal{nodeImpl: newNodeImpl(NodeLiteral, span), Kind: LitNull}
}

// Variable reads a name from the current scope chain.
type Variable struct {
	nodeImpl

	Name string `msgpack:"name"`
}

func NewVariable(name string, span source.TextSpan) *Variable {
	return &Variable{nodeImpl: newNodeImpl(NodeVariable, span), Name: name}
}

// ListLiteral builds a fresh list from its element expressions.
type ListLiteral struct {
	nodeImpl

	Elements []Node `msgpack:"elements"`
}

func NewListLiteral(elements []Node, span source.TextSpan) *ListLiteral {
	return &ListLiteral{nodeImpl: newNodeImpl(NodeListLiteral, span), Elements: elements}
}

// ObjectEntry is one key value pair of an ObjectLiteral. Identifier keys
// are stored as string Literals.
type ObjectEntry struct {
	Key   Node `msgpack:"key"`
	Value Node `msgpack:"value"`
}

// ObjectLiteral builds a fresh object from its entries, in source order.
type ObjectLiteral struct {
	nodeImpl

	Entries []ObjectEntry `msgpack:"entries"`
}

func NewObjectLiteral(entries []ObjectEntry, span source.TextSpan) *ObjectLiteral {
	return &ObjectLiteral{nodeImpl: newNodeImpl(NodeObjectLiteral, span), Entries: entries}
}

// RangeExpr is 'start..end'. It binds looser than every binary operator.
type RangeExpr struct {
	nodeImpl

	Start Node `msgpack:"start"`
	End   Node `msgpack:"end"`
}

func NewRangeExpr(start, end Node, span source.TextSpan) *RangeExpr {
	return &RangeExpr{nodeImpl: newNodeImpl(NodeRangeExpr, span), Start: start, End: end}
}

// Binary applies an infix operator. Op is the operator's token kind.
type Binary struct {
	nodeImpl

	Op    token.Kind `msgpack:"op"`
	Left  Node       `msgpack:"left"`
	Right Node       `msgpack:"right"`
}

func NewBinary(op token.Kind, left, right Node, span source.TextSpan) *Binary {
	return &Binary{nodeImpl: newNodeImpl(NodeBinary, span), Op: op, Left: left, Right: right}
}

// Unary applies a prefix operator to its operand.
type Unary struct {
	nodeImpl

	Op      token.Kind `msgpack:"op"`
	Operand Node       `msgpack:"operand"`
}

func NewUnary(op token.Kind, operand Node, span source.TextSpan) *Unary {
	return &Unary{nodeImpl: newNodeImpl(NodeUnary, span), Op: op, Operand: operand}
}

// Declaration introduces a name in the current scope, shadowing any outer
// binding with the same name.
type Declaration struct {
	nodeImpl

	Name  string `msgpack:"name"`
	Value Node   `msgpack:"value"`
}

func NewDeclaration(name string, value Node, span source.TextSpan) *Declaration {
	return &Declaration{nodeImpl: newNodeImpl(NodeDeclaration, span), Name: name, Value: value}
}

// Assignment writes to an existing binding or to an element of a
// container. Target is a *Variable or an *Index.
type Assignment struct {
	nodeImpl

	Target Node `msgpack:"target"`
	Value  Node `msgpack:"value"`
}

func NewAssignment(target, value Node, span source.TextSpan) *Assignment {
	return &Assignment{nodeImpl: newNodeImpl(NodeAssignment, span), Target: target, Value: value}
}

// Block runs its statements in a child scope and yields the value of the
// last one, or null when empty.
type Block struct {
	nodeImpl

	Statements []Node `msgpack:"statements"`
}

func NewBlock(statements []Node, span source.TextSpan) *Block {
	return &Block{nodeImpl: newNodeImpl(NodeBlock, span), Statements: statements}
}

// If evaluates Then when the condition is truthy, otherwise Else. Else is
// nil, another *If for an 'else if' chain, or a *Block.
type If struct {
	nodeImpl

	Cond Node   `msgpack:"cond"`
	Then *Block `msgpack:"then"`
	Else Node   `msgpack:"else,omitempty"`
}

func NewIf(cond Node, then *Block, els Node, span source.TextSpan) *If {
	return &If{nodeImpl: newNodeImpl(NodeIf, span), Cond: cond, Then: then, Else: els}
}

// Loop runs its body until a break. The loop itself yields null.
type Loop struct {
	nodeImpl

	Body *Block `msgpack:"body"`
}

func NewLoop(body *Block, span source.TextSpan) *Loop {
	return &Loop{nodeImpl: newNodeImpl(NodeLoop, span), Body: body}
}

// While checks its condition in the enclosing scope before each pass.
type While struct {
	nodeImpl

	Cond Node   `msgpack:"cond"`
	Body *Block `msgpack:"body"`
}

func NewWhile(cond Node, body *Block, span source.TextSpan) *While {
	return &While{nodeImpl: newNodeImpl(NodeWhile, span), Cond: cond, Body: body}
}

// Break exits the nearest enclosing loop.
type Break struct {
	nodeImpl
}

func NewBreak(span source.TextSpan) *Break {
	return &Break{nodeImpl: newNodeImpl(NodeBreak, span)}
}

// Return exits the nearest enclosing function. A nil Value returns null.
type Return struct {
	nodeImpl

	Value Node `msgpack:"value,omitempty"`
}

func NewReturn(value Node, span source.TextSpan) *Return {
	return &Return{nodeImpl: newNodeImpl(NodeReturn, span), Value: value}
}

// FnLiteral is a function expression. A named declaration is sugar for
// binding a FnLiteral with a let.
type FnLiteral struct {
	nodeImpl

	Params []string `msgpack:"params"`
	Body   *Block   `msgpack:"body"`
}

func NewFnLiteral(params []string, body *Block, span source.TextSpan) *FnLiteral {
	return &FnLiteral{nodeImpl: newNodeImpl(NodeFnLiteral, span), Params: params, Body: body}
}

// Call invokes the value of Callee with the given arguments.
type Call struct {
	nodeImpl

	Callee Node   `msgpack:"callee"`
	Args   []Node `msgpack:"args"`
}

func NewCall(callee Node, args []Node, span source.TextSpan) *Call {
	return &Call{nodeImpl: newNodeImpl(NodeCall, span), Callee: callee, Args: args}
}

// Index reads or, as an assignment target, writes one element of a
// container. Property access 'x.name' parses to an Index with a string key.
type Index struct {
	nodeImpl

	Target Node `msgpack:"target"`
	Key    Node `msgpack:"key"`
}

func NewIndex(target, key Node, span source.TextSpan) *Index {
	return &Index{nodeImpl: newNodeImpl(NodeIndex, span), Target: target, Key: key}
}
