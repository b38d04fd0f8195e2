package ast

import (
	"fmt"
	"io"

	"github.com/vmihailenco/msgpack/v5"

	"anilang/interpreter-go/pkg/source"
	"anilang/interpreter-go/pkg/token"
)

// WireVersion is bumped whenever the encoded tree layout changes.
const WireVersion = 1

// Program is the on disk form of a parsed tree, written by 'anilang build'
// and loaded back by 'anilang run'.
type Program struct {
	Version int       `msgpack:"version"`
	Root    *wireNode `msgpack:"root"`
}

// wireNode is the flattened, type tagged form a Node takes on the wire.
// Children are stored in a fixed order per node type.
type wireNode struct {
	Type   NodeType        `msgpack:"type"`
	Span   source.TextSpan `msgpack:"span"`
	Kind   uint8           `msgpack:"kind,omitempty"`
	Int    int64           `msgpack:"int,omitempty"`
	Float  float64         `msgpack:"float,omitempty"`
	Bool   bool            `msgpack:"bool,omitempty"`
	Str    string          `msgpack:"str,omitempty"`
	Op     uint8           `msgpack:"op,omitempty"`
	Params []string        `msgpack:"params,omitempty"`
	Kids   []*wireNode     `msgpack:"kids,omitempty"`
}

// Encode writes root to w as a versioned msgpack Program.
func Encode(w io.Writer, root *Block) error {
	program := Program{Version: WireVersion, Root: flatten(root)}
	return msgpack.NewEncoder(w).Encode(&program)
}

// Decode reads a Program from r and rebuilds the tree.
func Decode(r io.Reader) (*Block, error) {
	var program Program
	if err := msgpack.NewDecoder(r).Decode(&program); err != nil {
		return nil, fmt.Errorf("decoding program: %w", err)
	}
	if program.Version != WireVersion {
		return nil, fmt.Errorf("program version %d, this build reads %d", program.Version, WireVersion)
	}
	root, err := unflatten(program.Root)
	if err != nil {
		return nil, err
	}
	block, ok := root.(*Block)
	if !ok {
		return nil, fmt.Errorf("program root is %T, want block", root)
	}
	return block, nil
}

func flatten(node Node) *wireNode {
	if node == nil {
		return nil
	}
	w := &wireNode{Type: node.NodeType(), Span: node.Span()}
	switch n := node.(type) {
	case *Literal:
		w.Kind = uint8(n.Kind)
		w.Int, w.Float, w.Bool, w.Str = n.Int, n.Float, n.Bool, n.Str
	case *Variable:
		w.Str = n.Name
	case *ListLiteral:
		for _, el := range n.Elements {
			w.Kids = append(w.Kids, flatten(el))
		}
	case *ObjectLiteral:
		// Keys and values interleave.
		for _, entry := range n.Entries {
			w.Kids = append(w.Kids, flatten(entry.Key), flatten(entry.Value))
		}
	case *RangeExpr:
		w.Kids = []*wireNode{flatten(n.Start), flatten(n.End)}
	case *Binary:
		w.Op = uint8(n.Op)
		w.Kids = []*wireNode{flatten(n.Left), flatten(n.Right)}
	case *Unary:
		w.Op = uint8(n.Op)
		w.Kids = []*wireNode{flatten(n.Operand)}
	case *Declaration:
		w.Str = n.Name
		w.Kids = []*wireNode{flatten(n.Value)}
	case *Assignment:
		w.Kids = []*wireNode{flatten(n.Target), flatten(n.Value)}
	case *Block:
		for _, stmt := range n.Statements {
			w.Kids = append(w.Kids, flatten(stmt))
		}
	case *If:
		w.Kids = []*wireNode{flatten(n.Cond), flatten(n.Then), flatten(n.Else)}
	case *Loop:
		w.Kids = []*wireNode{flatten(n.Body)}
	case *While:
		w.Kids = []*wireNode{flatten(n.Cond), flatten(n.Body)}
	case *Break:
	case *Return:
		w.Kids = []*wireNode{flatten(n.Value)}
	case *FnLiteral:
		w.Params = n.Params
		w.Kids = []*wireNode{flatten(n.Body)}
	case *Call:
		w.Kids = []*wireNode{flatten(n.Callee)}
		for _, arg := range n.Args {
			w.Kids = append(w.Kids, flatten(arg))
		}
	case *Index:
		w.Kids = []*wireNode{flatten(n.Target), flatten(n.Key)}
	}
	return w
}

func unflatten(w *wireNode) (Node, error) {
	if w == nil {
		return nil, nil
	}
	kids := make([]Node, len(w.Kids))
	for i, kid := range w.Kids {
		node, err := unflatten(kid)
		if err != nil {
			return nil, err
		}
		kids[i] = node
	}
	need := func(n int) error {
		if len(kids) != n {
			return fmt.Errorf("%s node has %d children, want %d", w.Type, len(kids), n)
		}
		return nil
	}

	switch w.Type {
	case NodeLiteral:
		lit := &Literal{nodeImpl: newNodeImpl(NodeLiteral, w.Span), Kind: LitKind(w.Kind)}
		lit.Int, lit.Float, lit.Bool, lit.Str = w.Int, w.Float, w.Bool, w.Str
		return lit, nil
	case NodeVariable:
		return NewVariable(w.Str, w.Span), nil
	case NodeListLiteral:
		return NewListLiteral(kids, w.Span), nil
	case NodeObjectLiteral:
		if len(kids)%2 != 0 {
			return nil, fmt.Errorf("object node has %d children, want an even count", len(kids))
		}
		entries := make([]ObjectEntry, 0, len(kids)/2)
		for i := 0; i < len(kids); i += 2 {
			entries = append(entries, ObjectEntry{Key: kids[i], Value: kids[i+1]})
		}
		return NewObjectLiteral(entries, w.Span), nil
	case NodeRangeExpr:
		if err := need(2); err != nil {
			return nil, err
		}
		return NewRangeExpr(kids[0], kids[1], w.Span), nil
	case NodeBinary:
		if err := need(2); err != nil {
			return nil, err
		}
		return NewBinary(token.Kind(w.Op), kids[0], kids[1], w.Span), nil
	case NodeUnary:
		if err := need(1); err != nil {
			return nil, err
		}
		return NewUnary(token.Kind(w.Op), kids[0], w.Span), nil
	case NodeDeclaration:
		if err := need(1); err != nil {
			return nil, err
		}
		return NewDeclaration(w.Str, kids[0], w.Span), nil
	case NodeAssignment:
		if err := need(2); err != nil {
			return nil, err
		}
		return NewAssignment(kids[0], kids[1], w.Span), nil
	case NodeBlock:
		return NewBlock(kids, w.Span), nil
	case NodeIf:
		if err := need(3); err != nil {
			return nil, err
		}
		then, err := asBlock(kids[1], w.Type)
		if err != nil {
			return nil, err
		}
		return NewIf(kids[0], then, kids[2], w.Span), nil
	case NodeLoop:
		if err := need(1); err != nil {
			return nil, err
		}
		body, err := asBlock(kids[0], w.Type)
		if err != nil {
			return nil, err
		}
		return NewLoop(body, w.Span), nil
	case NodeWhile:
		if err := need(2); err != nil {
			return nil, err
		}
		body, err := asBlock(kids[1], w.Type)
		if err != nil {
			return nil, err
		}
		return NewWhile(kids[0], body, w.Span), nil
	case NodeBreak:
		return NewBreak(w.Span), nil
	case NodeReturn:
		if err := need(1); err != nil {
			return nil, err
		}
		return NewReturn(kids[0], w.Span), nil
	case NodeFnLiteral:
		if err := need(1); err != nil {
			return nil, err
		}
		body, err := asBlock(kids[0], w.Type)
		if err != nil {
			return nil, err
		}
		return NewFnLiteral(w.Params, body, w.Span), nil
	case NodeCall:
		if len(kids) < 1 {
			return nil, fmt.Errorf("call node has no callee")
		}
		return NewCall(kids[0], kids[1:], w.Span), nil
	case NodeIndex:
		if err := need(2); err != nil {
			return nil, err
		}
		return NewIndex(kids[0], kids[1], w.Span), nil
	default:
		return nil, fmt.Errorf("unknown node type %q", w.Type)
	}
}

func asBlock(node Node, parent NodeType) (*Block, error) {
	if node == nil {
		return nil, fmt.Errorf("%s node is missing its block", parent)
	}
	block, ok := node.(*Block)
	if !ok {
		return nil, fmt.Errorf("%s node holds %T, want block", parent, node)
	}
	return block, nil
}
