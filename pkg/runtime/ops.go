package runtime

import (
	"math"

	"anilang/interpreter-go/pkg/diag"
	"anilang/interpreter-go/pkg/source"
	"anilang/interpreter-go/pkg/token"
)

// numeric promotion: when either side is a float, both compute as floats.
// Returns false when either operand is not a number.
func promote(left, right Value) (l, r float64, isFloat, ok bool) {
	li, lInt := left.(IntValue)
	lf, lFloat := left.(FloatValue)
	ri, rInt := right.(IntValue)
	rf, rFloat := right.(FloatValue)
	if (!lInt && !lFloat) || (!rInt && !rFloat) {
		return 0, 0, false, false
	}
	if lInt {
		l = float64(li.Val)
	} else {
		l = lf.Val
	}
	if rInt {
		r = float64(ri.Val)
	} else {
		r = rf.Val
	}
	return l, r, lFloat || rFloat, true
}

func typeErr(span source.TextSpan, op token.Kind, left, right Value) error {
	return diag.NewRuntimeError(diag.TypeError, span,
		"%s is not defined between %s and %s", op, left.Kind(), right.Kind())
}

// BinaryOp applies an infix operator. The boolean operators are absent:
// they short circuit, so the evaluator handles them before the right
// operand exists.
func BinaryOp(op token.Kind, left, right Value, span source.TextSpan) (Value, error) {
	switch op {
	case token.Plus:
		return add(left, right, span)
	case token.Minus, token.Star, token.Slash, token.Percent, token.Caret:
		return arithmetic(op, left, right, span)
	case token.EqEq:
		return BoolValue{Val: Equals(left, right)}, nil
	case token.BangEq:
		return BoolValue{Val: !Equals(left, right)}, nil
	case token.Lt, token.LtEq, token.Gt, token.GtEq:
		return ordering(op, left, right, span)
	default:
		return nil, typeErr(span, op, left, right)
	}
}

// add handles numbers plus the two concatenation forms. Concatenation
// always builds a fresh container, neither operand is touched.
func add(left, right Value, span source.TextSpan) (Value, error) {
	switch l := left.(type) {
	case *StringValue:
		if r, ok := right.(*StringValue); ok {
			return NewString(l.Val + r.Val), nil
		}
	case *ListValue:
		if r, ok := right.(*ListValue); ok {
			joined := make([]Value, 0, len(l.Elements)+len(r.Elements))
			joined = append(joined, l.Elements...)
			joined = append(joined, r.Elements...)
			return NewList(joined...), nil
		}
	}
	return arithmetic(token.Plus, left, right, span)
}

func arithmetic(op token.Kind, left, right Value, span source.TextSpan) (Value, error) {
	if li, lok := left.(IntValue); lok {
		if ri, rok := right.(IntValue); rok {
			return intArithmetic(op, li.Val, ri.Val, span)
		}
	}
	l, r, _, ok := promote(left, right)
	if !ok {
		return nil, typeErr(span, op, left, right)
	}
	return floatArithmetic(op, l, r, span)
}

func intArithmetic(op token.Kind, l, r int64, span source.TextSpan) (Value, error) {
	switch op {
	case token.Plus:
		return IntValue{Val: l + r}, nil
	case token.Minus:
		return IntValue{Val: l - r}, nil
	case token.Star:
		return IntValue{Val: l * r}, nil
	case token.Slash:
		if r == 0 {
			return nil, diag.NewRuntimeError(diag.DivisionByZero, span, "division by zero")
		}
		// Go division already truncates toward zero.
		return IntValue{Val: l / r}, nil
	case token.Percent:
		if r == 0 {
			return nil, diag.NewRuntimeError(diag.DivisionByZero, span, "division by zero")
		}
		// Go's % takes the sign of the dividend.
		return IntValue{Val: l % r}, nil
	case token.Caret:
		return intPow(l, r, span)
	}
	return nil, diag.NewRuntimeError(diag.TypeError, span, "%s is not an arithmetic operator", op)
}

// intPow keeps int^int closed over the ints, so a negative exponent is an
// error rather than a silent cast to float.
func intPow(base, exp int64, span source.TextSpan) (Value, error) {
	if exp < 0 || exp > math.MaxUint32 {
		return nil, diag.NewRuntimeError(diag.ValueOutOfRange, span,
			"int exponent must be between 0 and %d, got %d", math.MaxUint32, exp)
	}
	result := int64(1)
	for exp > 0 {
		if exp&1 == 1 {
			result *= base
		}
		base *= base
		exp >>= 1
	}
	return IntValue{Val: result}, nil
}

func floatArithmetic(op token.Kind, l, r float64, span source.TextSpan) (Value, error) {
	switch op {
	case token.Plus:
		return FloatValue{Val: l + r}, nil
	case token.Minus:
		return FloatValue{Val: l - r}, nil
	case token.Star:
		return FloatValue{Val: l * r}, nil
	case token.Slash:
		if r == 0 {
			return nil, diag.NewRuntimeError(diag.DivisionByZero, span, "division by zero")
		}
		return FloatValue{Val: l / r}, nil
	case token.Percent:
		if r == 0 {
			return nil, diag.NewRuntimeError(diag.DivisionByZero, span, "division by zero")
		}
		return FloatValue{Val: math.Mod(l, r)}, nil
	case token.Caret:
		return FloatValue{Val: math.Pow(l, r)}, nil
	}
	return nil, diag.NewRuntimeError(diag.TypeError, span, "%s is not an arithmetic operator", op)
}

// ordering is defined between two numbers or two strings, nothing else.
func ordering(op token.Kind, left, right Value, span source.TextSpan) (Value, error) {
	less, equal, ok := compare(left, right)
	if !ok {
		return nil, typeErr(span, op, left, right)
	}
	switch op {
	case token.Lt:
		return BoolValue{Val: less}, nil
	case token.LtEq:
		return BoolValue{Val: less || equal}, nil
	case token.Gt:
		return BoolValue{Val: !less && !equal}, nil
	default:
		return BoolValue{Val: !less}, nil
	}
}

// compare reports left < right and left == right. Int pairs compare
// exactly, mixed numbers promote to float, strings compare by character.
func compare(left, right Value) (less, equal, ok bool) {
	switch l := left.(type) {
	case IntValue:
		if r, rok := right.(IntValue); rok {
			return l.Val < r.Val, l.Val == r.Val, true
		}
	case *StringValue:
		if r, rok := right.(*StringValue); rok {
			return l.Val < r.Val, l.Val == r.Val, true
		}
		return false, false, false
	}
	if l, r, _, pok := promote(left, right); pok {
		return l < r, l == r, true
	}
	return false, false, false
}

// UnaryOp applies a prefix operator. '!' accepts anything via truthiness,
// '+' and '-' want a number.
func UnaryOp(op token.Kind, operand Value, span source.TextSpan) (Value, error) {
	switch op {
	case token.Bang:
		return BoolValue{Val: !Truthy(operand)}, nil
	case token.Plus:
		switch operand.(type) {
		case IntValue, FloatValue:
			return operand, nil
		}
	case token.Minus:
		switch v := operand.(type) {
		case IntValue:
			return IntValue{Val: -v.Val}, nil
		case FloatValue:
			return FloatValue{Val: -v.Val}, nil
		}
	}
	return nil, diag.NewRuntimeError(diag.TypeError, span,
		"unary %s is not defined for %s", op, operand.Kind())
}

// Equals compares two values. Lists and objects compare structurally;
// containers may contain themselves, so traversal carries a visited set and
// treats a revisited pair as equal rather than recursing forever.
func Equals(left, right Value) bool {
	return equals(left, right, map[[2]Value]bool{})
}

func equals(left, right Value, visited map[[2]Value]bool) bool {
	if li, lok := left.(IntValue); lok {
		if ri, rok := right.(IntValue); rok {
			return li.Val == ri.Val
		}
	}
	if l, r, _, ok := promote(left, right); ok {
		return l == r
	}
	switch l := left.(type) {
	case BoolValue:
		r, ok := right.(BoolValue)
		return ok && l.Val == r.Val
	case RangeValue:
		r, ok := right.(RangeValue)
		return ok && l == r
	case NullValue:
		_, ok := right.(NullValue)
		return ok
	case *StringValue:
		r, ok := right.(*StringValue)
		return ok && (l == r || l.Val == r.Val)
	case *ListValue:
		r, ok := right.(*ListValue)
		if !ok {
			return false
		}
		if l == r {
			return true
		}
		if len(l.Elements) != len(r.Elements) {
			return false
		}
		pair := [2]Value{left, right}
		if visited[pair] {
			return true
		}
		visited[pair] = true
		for i := range l.Elements {
			if !equals(l.Elements[i], r.Elements[i], visited) {
				return false
			}
		}
		return true
	case *ObjectValue:
		r, ok := right.(*ObjectValue)
		if !ok {
			return false
		}
		if l == r {
			return true
		}
		if len(l.Entries) != len(r.Entries) {
			return false
		}
		pair := [2]Value{left, right}
		if visited[pair] {
			return true
		}
		visited[pair] = true
		for key, lv := range l.Entries {
			rv, ok := r.Entries[key]
			if !ok || !equals(lv, rv, visited) {
				return false
			}
		}
		return true
	case FunctionValue:
		// Functions compare by definition, not by behaviour.
		r, ok := right.(FunctionValue)
		return ok && l.Body == r.Body && l.Closure == r.Closure
	}
	return false
}
