// Package interpreter walks a syntax tree and evaluates it against a chain
// of scope frames. Break and return travel as error values internally and
// are absorbed at their boundary (the loop, the call), so a signal that
// reaches the caller is always a real failure.
package interpreter

import (
	"fmt"

	"anilang/interpreter-go/pkg/ast"
	"anilang/interpreter-go/pkg/diag"
	"anilang/interpreter-go/pkg/runtime"
	"anilang/interpreter-go/pkg/source"
)

type Interpreter struct {
	global *runtime.Environment
}

func New() *Interpreter {
	return &Interpreter{global: runtime.NewEnvironment(nil)}
}

// GlobalEnvironment is the persistent outermost frame. A REPL evaluates
// every submission against it, so declarations survive across lines.
func (i *Interpreter) GlobalEnvironment() *runtime.Environment {
	return i.global
}

// Evaluate runs a parsed program in the global frame and yields the value
// of its last statement, or Null for an empty program.
func (i *Interpreter) Evaluate(program *ast.Block) (runtime.Value, error) {
	return i.EvaluateIn(program, i.global)
}

// EvaluateIn runs the program's statements directly in env, without the
// child frame an ordinary block gets. Top level declarations therefore
// land in env itself.
func (i *Interpreter) EvaluateIn(program *ast.Block, env *runtime.Environment) (runtime.Value, error) {
	var result runtime.Value = runtime.NullValue{}
	for _, stmt := range program.Statements {
		val, err := i.eval(stmt, env)
		if err != nil {
			switch sig := err.(type) {
			case breakSignal:
				return nil, diag.NewRuntimeError(diag.BreakOutsideLoop, sig.span,
					"break outside of a loop")
			case returnSignal:
				// A top level return ends the program with its value.
				return sig.value, nil
			}
			return nil, err
		}
		result = val
	}
	return result, nil
}

func (i *Interpreter) eval(node ast.Node, env *runtime.Environment) (runtime.Value, error) {
	switch n := node.(type) {
	case *ast.Literal:
		return evalLiteral(n), nil
	case *ast.Variable:
		return i.evalVariable(n, env)
	case *ast.ListLiteral:
		return i.evalListLiteral(n, env)
	case *ast.ObjectLiteral:
		return i.evalObjectLiteral(n, env)
	case *ast.RangeExpr:
		return i.evalRange(n, env)
	case *ast.Binary:
		return i.evalBinary(n, env)
	case *ast.Unary:
		return i.evalUnary(n, env)
	case *ast.FnLiteral:
		return runtime.FunctionValue{Params: n.Params, Body: n.Body, Closure: env}, nil
	case *ast.Call:
		return i.evalCall(n, env)
	case *ast.Index:
		return i.evalIndex(n, env)
	case *ast.Declaration:
		return i.evalDeclaration(n, env)
	case *ast.Assignment:
		return i.evalAssignment(n, env)
	case *ast.Block:
		return i.evalBlock(n, env)
	case *ast.If:
		return i.evalIf(n, env)
	case *ast.Loop:
		return i.evalLoop(n, env)
	case *ast.While:
		return i.evalWhile(n, env)
	case *ast.Break:
		return nil, breakSignal{span: n.Span()}
	case *ast.Return:
		return i.evalReturn(n, env)
	default:
		return nil, fmt.Errorf("unsupported node type: %s", n.NodeType())
	}
}

// breakSignal and returnSignal ride the error return through nested
// evaluations. They never escape Evaluate.
type breakSignal struct {
	span source.TextSpan
}

func (b breakSignal) Error() string { return "break" }

type returnSignal struct {
	value runtime.Value
}

func (r returnSignal) Error() string { return "return" }
