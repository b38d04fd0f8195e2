package ast

import (
	"fmt"
	"io"
	"strings"
)

// Fprint writes an indented outline of the tree to w.
func Fprint(w io.Writer, node Node) {
	fprint(w, node, 0)
}

func fprint(w io.Writer, node Node, depth int) {
	indent := strings.Repeat("  ", depth)
	if node == nil {
		fmt.Fprintf(w, "%s<nil>\n", indent)
		return
	}
	fmt.Fprintf(w, "%s%s%s\n", indent, node.NodeType(), label(node))
	for _, kid := range children(node) {
		fprint(w, kid, depth+1)
	}
}

// label is the detail printed after the node type, when the node has one.
func label(node Node) string {
	switch n := node.(type) {
	case *Literal:
		switch n.Kind {
		case LitInt:
			return fmt.Sprintf(" %d", n.Int)
		case LitFloat:
			return fmt.Sprintf(" %v", n.Float)
		case LitBool:
			return fmt.Sprintf(" %t", n.Bool)
		case LitString:
			return fmt.Sprintf(" %q", n.Str)
		default:
			return " null"
		}
	case *Variable:
		return " " + n.Name
	case *Binary:
		return " " + n.Op.String()
	case *Unary:
		return " " + n.Op.String()
	case *Declaration:
		return " " + n.Name
	case *FnLiteral:
		return " (" + strings.Join(n.Params, ", ") + ")"
	}
	return ""
}

func children(node Node) []Node {
	switch n := node.(type) {
	case *ListLiteral:
		return n.Elements
	case *ObjectLiteral:
		kids := make([]Node, 0, len(n.Entries)*2)
		for _, entry := range n.Entries {
			kids = append(kids, entry.Key, entry.Value)
		}
		return kids
	case *RangeExpr:
		return []Node{n.Start, n.End}
	case *Binary:
		return []Node{n.Left, n.Right}
	case *Unary:
		return []Node{n.Operand}
	case *Declaration:
		return []Node{n.Value}
	case *Assignment:
		return []Node{n.Target, n.Value}
	case *Block:
		return n.Statements
	case *If:
		kids := []Node{n.Cond, n.Then}
		if n.Else != nil {
			kids = append(kids, n.Else)
		}
		return kids
	case *Loop:
		return []Node{n.Body}
	case *While:
		return []Node{n.Cond, n.Body}
	case *Return:
		if n.Value != nil {
			return []Node{n.Value}
		}
	case *FnLiteral:
		return []Node{n.Body}
	case *Call:
		return append([]Node{n.Callee}, n.Args...)
	case *Index:
		return []Node{n.Target, n.Key}
	}
	return nil
}
