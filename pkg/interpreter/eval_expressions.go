package interpreter

import (
	"anilang/interpreter-go/pkg/ast"
	"anilang/interpreter-go/pkg/diag"
	"anilang/interpreter-go/pkg/runtime"
	"anilang/interpreter-go/pkg/token"
)

func evalLiteral(n *ast.Literal) runtime.Value {
	switch n.Kind {
	case ast.LitInt:
		return runtime.IntValue{Val: n.Int}
	case ast.LitFloat:
		return runtime.FloatValue{Val: n.Float}
	case ast.LitBool:
		return runtime.BoolValue{Val: n.Bool}
	case ast.LitString:
		return runtime.NewString(n.Str)
	default:
		return runtime.NullValue{}
	}
}

func (i *Interpreter) evalVariable(n *ast.Variable, env *runtime.Environment) (runtime.Value, error) {
	value, ok := env.Get(n.Name)
	if !ok {
		return nil, diag.NewRuntimeError(diag.UndefinedVariable, n.Span(),
			"variable '%s' is not declared", n.Name)
	}
	return value, nil
}

func (i *Interpreter) evalListLiteral(n *ast.ListLiteral, env *runtime.Environment) (runtime.Value, error) {
	list := runtime.NewList()
	for _, el := range n.Elements {
		value, err := i.eval(el, env)
		if err != nil {
			return nil, err
		}
		list.Elements = append(list.Elements, value)
	}
	return list, nil
}

func (i *Interpreter) evalObjectLiteral(n *ast.ObjectLiteral, env *runtime.Environment) (runtime.Value, error) {
	object := runtime.NewObject()
	for _, entry := range n.Entries {
		key, err := i.eval(entry.Key, env)
		if err != nil {
			return nil, err
		}
		str, ok := key.(*runtime.StringValue)
		if !ok {
			return nil, diag.NewRuntimeError(diag.TypeError, entry.Key.Span(),
				"object key must be a string, got %s", key.Kind())
		}
		value, err := i.eval(entry.Value, env)
		if err != nil {
			return nil, err
		}
		object.Entries[str.Val] = value
	}
	return object, nil
}

func (i *Interpreter) evalRange(n *ast.RangeExpr, env *runtime.Environment) (runtime.Value, error) {
	start, err := i.evalRangeEndpoint(n.Start, env)
	if err != nil {
		return nil, err
	}
	end, err := i.evalRangeEndpoint(n.End, env)
	if err != nil {
		return nil, err
	}
	return runtime.RangeValue{Start: start, End: end}, nil
}

func (i *Interpreter) evalRangeEndpoint(n ast.Node, env *runtime.Environment) (int64, error) {
	value, err := i.eval(n, env)
	if err != nil {
		return 0, err
	}
	iv, ok := value.(runtime.IntValue)
	if !ok {
		return 0, diag.NewRuntimeError(diag.TypeError, n.Span(),
			"range bound must be an int, got %s", value.Kind())
	}
	return iv.Val, nil
}

func (i *Interpreter) evalBinary(n *ast.Binary, env *runtime.Environment) (runtime.Value, error) {
	// Boolean operators decide on the left operand's truthiness alone when
	// they can; the right side is then never evaluated.
	if n.Op == token.AndAnd || n.Op == token.OrOr {
		left, err := i.eval(n.Left, env)
		if err != nil {
			return nil, err
		}
		lt := runtime.Truthy(left)
		if (n.Op == token.AndAnd && !lt) || (n.Op == token.OrOr && lt) {
			return runtime.BoolValue{Val: lt}, nil
		}
		right, err := i.eval(n.Right, env)
		if err != nil {
			return nil, err
		}
		return runtime.BoolValue{Val: runtime.Truthy(right)}, nil
	}

	left, err := i.eval(n.Left, env)
	if err != nil {
		return nil, err
	}
	right, err := i.eval(n.Right, env)
	if err != nil {
		return nil, err
	}
	return runtime.BinaryOp(n.Op, left, right, n.Span())
}

func (i *Interpreter) evalUnary(n *ast.Unary, env *runtime.Environment) (runtime.Value, error) {
	operand, err := i.eval(n.Operand, env)
	if err != nil {
		return nil, err
	}
	return runtime.UnaryOp(n.Op, operand, n.Span())
}

func (i *Interpreter) evalCall(n *ast.Call, env *runtime.Environment) (runtime.Value, error) {
	callee, err := i.eval(n.Callee, env)
	if err != nil {
		return nil, err
	}
	fn, ok := callee.(runtime.FunctionValue)
	if !ok {
		return nil, diag.NewRuntimeError(diag.TypeError, n.Callee.Span(),
			"%s value is not callable", callee.Kind())
	}
	if len(n.Args) != len(fn.Params) {
		return nil, diag.NewRuntimeError(diag.ArityMismatch, n.Span(),
			"function takes %d arguments, got %d", len(fn.Params), len(n.Args))
	}

	// Parameters bind into a child of the frame captured at the function's
	// definition, not of the call site. That is the whole of lexical scoping.
	frame := runtime.NewEnvironment(fn.Closure)
	for idx, param := range fn.Params {
		arg, err := i.eval(n.Args[idx], env)
		if err != nil {
			return nil, err
		}
		frame.Define(param, arg)
	}

	result, err := i.evalBlock(fn.Body, frame)
	if err != nil {
		switch sig := err.(type) {
		case returnSignal:
			return sig.value, nil
		case breakSignal:
			return nil, diag.NewRuntimeError(diag.BreakOutsideLoop, sig.span,
				"break outside of a loop")
		}
		return nil, err
	}
	return result, nil
}

func (i *Interpreter) evalIndex(n *ast.Index, env *runtime.Environment) (runtime.Value, error) {
	target, err := i.eval(n.Target, env)
	if err != nil {
		return nil, err
	}
	key, err := i.eval(n.Key, env)
	if err != nil {
		return nil, err
	}
	return runtime.IndexGet(target, key, n.Span())
}
