package interpreter

import (
	"anilang/interpreter-go/pkg/ast"
	"anilang/interpreter-go/pkg/diag"
	"anilang/interpreter-go/pkg/runtime"
)

func (i *Interpreter) evalDeclaration(n *ast.Declaration, env *runtime.Environment) (runtime.Value, error) {
	value, err := i.eval(n.Value, env)
	if err != nil {
		return nil, err
	}
	env.Define(n.Name, value)
	return value, nil
}

func (i *Interpreter) evalAssignment(n *ast.Assignment, env *runtime.Environment) (runtime.Value, error) {
	switch target := n.Target.(type) {
	case *ast.Variable:
		value, err := i.eval(n.Value, env)
		if err != nil {
			return nil, err
		}
		if !env.Assign(target.Name, value) {
			return nil, diag.NewRuntimeError(diag.UndefinedVariable, target.Span(),
				"variable '%s' is not declared", target.Name)
		}
		return value, nil
	case *ast.Index:
		return i.evalIndexAssignment(target, n.Value, env)
	default:
		return nil, diag.NewRuntimeError(diag.TypeError, n.Target.Span(),
			"cannot assign to this expression")
	}
}

func (i *Interpreter) evalIndexAssignment(target *ast.Index, rhs ast.Node, env *runtime.Environment) (runtime.Value, error) {
	container, err := i.eval(target.Target, env)
	if err != nil {
		return nil, err
	}
	key, err := i.eval(target.Key, env)
	if err != nil {
		return nil, err
	}
	value, err := i.eval(rhs, env)
	if err != nil {
		return nil, err
	}
	if _, err := runtime.IndexSet(container, key, value, target.Span()); err != nil {
		return nil, err
	}
	return value, nil
}

func (i *Interpreter) evalBlock(n *ast.Block, env *runtime.Environment) (runtime.Value, error) {
	scope := runtime.NewEnvironment(env)
	var result runtime.Value = runtime.NullValue{}
	for _, stmt := range n.Statements {
		val, err := i.eval(stmt, scope)
		if err != nil {
			return nil, err
		}
		result = val
	}
	return result, nil
}

func (i *Interpreter) evalIf(n *ast.If, env *runtime.Environment) (runtime.Value, error) {
	cond, err := i.eval(n.Cond, env)
	if err != nil {
		return nil, err
	}
	if runtime.Truthy(cond) {
		return i.evalBlock(n.Then, env)
	}
	switch els := n.Else.(type) {
	case nil:
		return runtime.NullValue{}, nil
	case *ast.Block:
		return i.evalBlock(els, env)
	default:
		// An else-if chain nests a further If here.
		return i.eval(els, env)
	}
}

// evalLoop runs the body forever, each iteration in a fresh frame. The
// construct itself always yields Null; break just stops the iteration.
func (i *Interpreter) evalLoop(n *ast.Loop, env *runtime.Environment) (runtime.Value, error) {
	for {
		if _, err := i.evalBlock(n.Body, env); err != nil {
			if _, ok := err.(breakSignal); ok {
				return runtime.NullValue{}, nil
			}
			return nil, err
		}
	}
}

// evalWhile re-evaluates the condition in the enclosing frame before every
// iteration, so a condition variable mutated by the body is seen.
func (i *Interpreter) evalWhile(n *ast.While, env *runtime.Environment) (runtime.Value, error) {
	for {
		cond, err := i.eval(n.Cond, env)
		if err != nil {
			return nil, err
		}
		if !runtime.Truthy(cond) {
			return runtime.NullValue{}, nil
		}
		if _, err := i.evalBlock(n.Body, env); err != nil {
			if _, ok := err.(breakSignal); ok {
				return runtime.NullValue{}, nil
			}
			return nil, err
		}
	}
}

func (i *Interpreter) evalReturn(n *ast.Return, env *runtime.Environment) (runtime.Value, error) {
	var value runtime.Value = runtime.NullValue{}
	if n.Value != nil {
		val, err := i.eval(n.Value, env)
		if err != nil {
			return nil, err
		}
		value = val
	}
	return nil, returnSignal{value: value}
}
