// Package runtime defines the values the evaluator produces, the scope
// chain they live in, and the operator and indexing semantics between them.
package runtime

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"anilang/interpreter-go/pkg/ast"
)

// Kind identifies the runtime value category.
type Kind int

const (
	KindInt Kind = iota
	KindFloat
	KindBool
	KindRange
	KindString
	KindList
	KindObject
	KindFunction
	KindNull
)

func (k Kind) String() string {
	switch k {
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindBool:
		return "bool"
	case KindRange:
		return "range"
	case KindString:
		return "string"
	case KindList:
		return "list"
	case KindObject:
		return "object"
	case KindFunction:
		return "function"
	case KindNull:
		return "null"
	default:
		return fmt.Sprintf("unknown_kind_%d", int(k))
	}
}

// Value is the shared behaviour for all runtime values.
//
// Int, Float, Bool, Range, Null and Function are value types and use value
// receivers. String, List and Object are reference types: they use pointer
// receivers, so copying a Value copies the pointer and every alias observes
// mutation through any other.
type Value interface {
	Kind() Kind
}

type IntValue struct {
	Val int64
}

func (v IntValue) Kind() Kind { return KindInt }

type FloatValue struct {
	Val float64
}

func (v FloatValue) Kind() Kind { return KindFloat }

type BoolValue struct {
	Val bool
}

func (v BoolValue) Kind() Kind { return KindBool }

// RangeValue is a half open span of ints, start inclusive and end exclusive.
type RangeValue struct {
	Start int64
	End   int64
}

func (v RangeValue) Kind() Kind { return KindRange }

type NullValue struct{}

func (NullValue) Kind() Kind { return KindNull }

// StringValue is a mutable character buffer. Index operations address
// characters, not bytes.
type StringValue struct {
	Val string
}

func (v *StringValue) Kind() Kind { return KindString }

// NewString wraps s in a fresh buffer.
func NewString(s string) *StringValue {
	return &StringValue{Val: s}
}

type ListValue struct {
	Elements []Value
}

func (v *ListValue) Kind() Kind { return KindList }

func NewList(elements ...Value) *ListValue {
	return &ListValue{Elements: elements}
}

type ObjectValue struct {
	Entries map[string]Value
}

func (v *ObjectValue) Kind() Kind { return KindObject }

func NewObject() *ObjectValue {
	return &ObjectValue{Entries: make(map[string]Value)}
}

// FunctionValue is a closure: the parameter list and body from the source,
// plus the frame that was active at the definition site.
type FunctionValue struct {
	Params  []string
	Body    *ast.Block
	Closure *Environment
}

func (v FunctionValue) Kind() Kind { return KindFunction }

// Truthy converts any value to a boolean for conditionals and '!'.
// Numbers are truthy when nonzero, containers when non empty, a range when
// it spans at least one element. Functions are always truthy, null never.
func Truthy(v Value) bool {
	switch val := v.(type) {
	case IntValue:
		return val.Val != 0
	case FloatValue:
		return val.Val != 0
	case BoolValue:
		return val.Val
	case RangeValue:
		return val.Start != val.End
	case *StringValue:
		return len(val.Val) != 0
	case *ListValue:
		return len(val.Elements) != 0
	case *ObjectValue:
		return len(val.Entries) != 0
	case FunctionValue:
		return true
	default:
		return false
	}
}

// Render formats a value for display. Containers may contain themselves, so
// traversal carries a visited set and prints '...' on the second sight.
func Render(v Value) string {
	var b strings.Builder
	render(&b, v, false, map[Value]bool{})
	return b.String()
}

// Repr is Render with top level strings quoted, the way the REPL echoes
// results.
func Repr(v Value) string {
	var b strings.Builder
	render(&b, v, true, map[Value]bool{})
	return b.String()
}

func render(b *strings.Builder, v Value, quoted bool, visited map[Value]bool) {
	switch val := v.(type) {
	case IntValue:
		b.WriteString(strconv.FormatInt(val.Val, 10))
	case FloatValue:
		b.WriteString(strconv.FormatFloat(val.Val, 'g', -1, 64))
	case BoolValue:
		b.WriteString(strconv.FormatBool(val.Val))
	case RangeValue:
		fmt.Fprintf(b, "%d..%d", val.Start, val.End)
	case NullValue:
		b.WriteString("null")
	case *StringValue:
		if quoted {
			b.WriteString(strconv.Quote(val.Val))
		} else {
			b.WriteString(val.Val)
		}
	case *ListValue:
		if visited[v] {
			b.WriteString("[...]")
			return
		}
		visited[v] = true
		b.WriteByte('[')
		for i, el := range val.Elements {
			if i > 0 {
				b.WriteString(", ")
			}
			render(b, el, true, visited)
		}
		b.WriteByte(']')
		delete(visited, v)
	case *ObjectValue:
		if visited[v] {
			b.WriteString("{...}")
			return
		}
		visited[v] = true
		b.WriteByte('{')
		for i, key := range sortedKeys(val.Entries) {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(key)
			b.WriteString(": ")
			render(b, val.Entries[key], true, visited)
		}
		b.WriteByte('}')
		delete(visited, v)
	case FunctionValue:
		fmt.Fprintf(b, "fn(%s)", strings.Join(val.Params, ", "))
	default:
		b.WriteString("<unknown>")
	}
}

// sortedKeys keeps object rendering deterministic; entry order is not part
// of the language semantics.
func sortedKeys(entries map[string]Value) []string {
	keys := make([]string, 0, len(entries))
	for k := range entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
