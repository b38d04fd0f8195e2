package runtime

import (
	"errors"
	"testing"

	"anilang/interpreter-go/pkg/diag"
	"anilang/interpreter-go/pkg/source"
	"anilang/interpreter-go/pkg/token"
)

var noSpan = source.NewSpan(0, 0)

func mustBinary(t *testing.T, op token.Kind, left, right Value) Value {
	t.Helper()
	v, err := BinaryOp(op, left, right, noSpan)
	if err != nil {
		t.Fatalf("BinaryOp(%v, %v, %v) failed: %v", op, left, right, err)
	}
	return v
}

func wantRuntimeErr(t *testing.T, err error, kind diag.RuntimeKind) {
	t.Helper()
	var re *diag.RuntimeError
	if !errors.As(err, &re) {
		t.Fatalf("err = %v, want RuntimeError", err)
	}
	if re.Kind != kind {
		t.Fatalf("error kind = %v, want %v", re.Kind, kind)
	}
}

func TestIntDivisionTruncatesTowardZero(t *testing.T) {
	cases := []struct{ a, b, div, mod int64 }{
		{7, 2, 3, 1},
		{-7, 2, -3, -1},
		{7, -2, -3, 1},
		{-7, -2, 3, -1},
	}
	for _, c := range cases {
		div := mustBinary(t, token.Slash, IntValue{c.a}, IntValue{c.b})
		mod := mustBinary(t, token.Percent, IntValue{c.a}, IntValue{c.b})
		if div.(IntValue).Val != c.div {
			t.Errorf("%d / %d = %v, want %d", c.a, c.b, div, c.div)
		}
		if mod.(IntValue).Val != c.mod {
			t.Errorf("%d %% %d = %v, want %d", c.a, c.b, mod, c.mod)
		}
		// The division identity holds for every sign combination.
		if (c.div)*c.b+c.mod != c.a {
			t.Errorf("(a/b)*b + a%%b != a for a=%d b=%d", c.a, c.b)
		}
	}
}

func TestDivisionByZero(t *testing.T) {
	_, err := BinaryOp(token.Slash, IntValue{1}, IntValue{0}, noSpan)
	wantRuntimeErr(t, err, diag.DivisionByZero)
	_, err = BinaryOp(token.Percent, FloatValue{1}, FloatValue{0}, noSpan)
	wantRuntimeErr(t, err, diag.DivisionByZero)
}

func TestFloatPromotion(t *testing.T) {
	v := mustBinary(t, token.Plus, IntValue{1}, FloatValue{2.5})
	if f, ok := v.(FloatValue); !ok || f.Val != 3.5 {
		t.Errorf("1 + 2.5 = %#v, want FloatValue 3.5", v)
	}
	v = mustBinary(t, token.Star, FloatValue{2}, IntValue{3})
	if f, ok := v.(FloatValue); !ok || f.Val != 6 {
		t.Errorf("2.0 * 3 = %#v, want FloatValue 6", v)
	}
}

func TestPower(t *testing.T) {
	if v := mustBinary(t, token.Caret, IntValue{2}, IntValue{10}); v.(IntValue).Val != 1024 {
		t.Errorf("2^10 = %v", v)
	}
	_, err := BinaryOp(token.Caret, IntValue{2}, IntValue{-1}, noSpan)
	wantRuntimeErr(t, err, diag.ValueOutOfRange)
	if v := mustBinary(t, token.Caret, FloatValue{2}, IntValue{-1}); v.(FloatValue).Val != 0.5 {
		t.Errorf("2.0^-1 = %v", v)
	}
}

func TestConcatenationBuildsFreshContainers(t *testing.T) {
	a, b := NewString("ab"), NewString("cd")
	v := mustBinary(t, token.Plus, a, b)
	s := v.(*StringValue)
	if s.Val != "abcd" {
		t.Errorf("concat = %q", s.Val)
	}
	if s == a || s == b || a.Val != "ab" || b.Val != "cd" {
		t.Error("concatenation must not reuse or mutate an operand")
	}

	l1, l2 := NewList(IntValue{1}), NewList(IntValue{2})
	joined := mustBinary(t, token.Plus, l1, l2).(*ListValue)
	if len(joined.Elements) != 2 || len(l1.Elements) != 1 {
		t.Error("list concat must build a fresh list")
	}
}

func TestArithmeticTypeErrors(t *testing.T) {
	_, err := BinaryOp(token.Plus, IntValue{1}, NullValue{}, noSpan)
	wantRuntimeErr(t, err, diag.TypeError)
	_, err = BinaryOp(token.Minus, NewString("a"), NewString("b"), noSpan)
	wantRuntimeErr(t, err, diag.TypeError)
}

func TestOrdering(t *testing.T) {
	if v := mustBinary(t, token.Lt, IntValue{1}, FloatValue{1.5}); !v.(BoolValue).Val {
		t.Error("1 < 1.5 should hold")
	}
	if v := mustBinary(t, token.GtEq, NewString("b"), NewString("a")); !v.(BoolValue).Val {
		t.Error(`"b" >= "a" should hold`)
	}
	_, err := BinaryOp(token.Lt, BoolValue{true}, BoolValue{false}, noSpan)
	wantRuntimeErr(t, err, diag.TypeError)
	_, err = BinaryOp(token.Gt, NewList(), NewList(), noSpan)
	wantRuntimeErr(t, err, diag.TypeError)
}

func TestUnary(t *testing.T) {
	if v, _ := UnaryOp(token.Minus, IntValue{5}, noSpan); v.(IntValue).Val != -5 {
		t.Errorf("-5 = %v", v)
	}
	if v, _ := UnaryOp(token.Bang, NewString(""), noSpan); !v.(BoolValue).Val {
		t.Error(`!"" should be true`)
	}
	_, err := UnaryOp(token.Minus, NewString("x"), noSpan)
	wantRuntimeErr(t, err, diag.TypeError)
}

func TestEquality(t *testing.T) {
	values := []Value{
		IntValue{3}, FloatValue{3.5}, BoolValue{true}, NullValue{},
		RangeValue{1, 5}, NewString("hi"), NewList(IntValue{1}),
	}
	for _, v := range values {
		if !Equals(v, v) {
			t.Errorf("%v should equal itself", v)
		}
	}
	if !Equals(IntValue{1}, FloatValue{1}) || !Equals(FloatValue{1}, IntValue{1}) {
		t.Error("1 == 1.0 should hold both ways")
	}
	if Equals(IntValue{0}, NullValue{}) || Equals(BoolValue{false}, IntValue{0}) {
		t.Error("distinct kinds must not compare equal")
	}
	if !Equals(NewList(IntValue{1}, IntValue{2}), NewList(IntValue{1}, IntValue{2})) {
		t.Error("lists compare structurally")
	}
	a, b := NewObject(), NewObject()
	a.Entries["k"] = NewList(IntValue{1})
	b.Entries["k"] = NewList(IntValue{1})
	if !Equals(a, b) {
		t.Error("objects compare structurally")
	}
	b.Entries["extra"] = NullValue{}
	if Equals(a, b) {
		t.Error("objects with different entry counts differ")
	}
}

func TestEqualityOnCyclicLists(t *testing.T) {
	a, b := NewList(), NewList()
	a.Elements = append(a.Elements, a)
	b.Elements = append(b.Elements, b)
	// Must terminate, and the structures are indistinguishable.
	if !Equals(a, b) {
		t.Error("identical cycles should compare equal")
	}
}

func TestTruthiness(t *testing.T) {
	truthy := []Value{
		IntValue{-1}, FloatValue{0.1}, BoolValue{true}, RangeValue{1, 2},
		NewString("x"), NewList(NullValue{}), FunctionValue{},
	}
	falsy := []Value{
		IntValue{0}, FloatValue{0}, BoolValue{false}, RangeValue{3, 3},
		NewString(""), NewList(), NewObject(), NullValue{},
	}
	for _, v := range truthy {
		if !Truthy(v) {
			t.Errorf("%#v should be truthy", v)
		}
	}
	for _, v := range falsy {
		if Truthy(v) {
			t.Errorf("%#v should be falsy", v)
		}
	}
}

func TestIndexReads(t *testing.T) {
	s := NewString("hello")
	if v, _ := IndexGet(s, IntValue{-1}, noSpan); v.(*StringValue).Val != "o" {
		t.Errorf(`"hello"[-1] = %v`, v)
	}
	if v, _ := IndexGet(s, RangeValue{1, 4}, noSpan); v.(*StringValue).Val != "ell" {
		t.Errorf(`"hello"[1..4] = %v`, v)
	}
	r := RangeValue{1, 5}
	if v, _ := IndexGet(r, NewString("start"), noSpan); v.(IntValue).Val != 1 {
		t.Errorf(`(1..5)["start"] = %v`, v)
	}
	if v, _ := IndexGet(r, NewString("end"), noSpan); v.(IntValue).Val != 5 {
		t.Errorf(`(1..5)["end"] = %v`, v)
	}
	_, err := IndexGet(r, NewString("middle"), noSpan)
	wantRuntimeErr(t, err, diag.TypeError)
	_, err = IndexGet(r, IntValue{0}, noSpan)
	wantRuntimeErr(t, err, diag.TypeError)

	l := NewList(IntValue{1}, IntValue{2}, IntValue{3})
	if v, _ := IndexGet(l, IntValue{-2}, noSpan); v.(IntValue).Val != 2 {
		t.Errorf("list[-2] = %v", v)
	}
	sub, _ := IndexGet(l, RangeValue{0, 2}, noSpan)
	if got := sub.(*ListValue); len(got.Elements) != 2 || got == l {
		t.Error("list slice should be a fresh two element list")
	}

	_, err = IndexGet(l, IntValue{3}, noSpan)
	wantRuntimeErr(t, err, diag.IndexOutOfRange)

	// A wrong key kind on an indexable container is a type error, only a
	// target that cannot be indexed at all is not indexable.
	_, err = IndexGet(s, NewString("x"), noSpan)
	wantRuntimeErr(t, err, diag.TypeError)
	_, err = IndexGet(l, BoolValue{true}, noSpan)
	wantRuntimeErr(t, err, diag.TypeError)
	_, err = IndexGet(IntValue{1}, IntValue{0}, noSpan)
	wantRuntimeErr(t, err, diag.NotIndexable)

	o := NewObject()
	_, err = IndexGet(o, NewString("missing"), noSpan)
	wantRuntimeErr(t, err, diag.KeyNotFound)
}

func TestStringSpliceAssignment(t *testing.T) {
	s := NewString("----")
	if _, err := IndexSet(s, IntValue{2}, NewString("a"), noSpan); err != nil {
		t.Fatal(err)
	}
	if s.Val != "--a-" {
		t.Fatalf(`after s[2] = "a": %q`, s.Val)
	}
	if _, err := IndexSet(s, IntValue{1}, NewString("ab"), noSpan); err != nil {
		t.Fatal(err)
	}
	if s.Val != "-aba-" {
		t.Fatalf(`after s[1] = "ab": %q`, s.Val)
	}
	// Longer replacement may also shrink.
	if _, err := IndexSet(s, RangeValue{1, 4}, NewString(""), noSpan); err != nil {
		t.Fatal(err)
	}
	if s.Val != "--" {
		t.Fatalf(`after s[1..4] = "": %q`, s.Val)
	}
	_, err := IndexSet(s, IntValue{0}, IntValue{7}, noSpan)
	wantRuntimeErr(t, err, diag.TypeError)
}

func TestListAndObjectAssignment(t *testing.T) {
	l := NewList(IntValue{1}, IntValue{2}, IntValue{3})
	if _, err := IndexSet(l, IntValue{-1}, NewString("x"), noSpan); err != nil {
		t.Fatal(err)
	}
	if l.Elements[2].(*StringValue).Val != "x" {
		t.Error("list[-1] assignment missed")
	}
	if _, err := IndexSet(l, RangeValue{0, 2}, NewList(IntValue{9}), noSpan); err != nil {
		t.Fatal(err)
	}
	if len(l.Elements) != 2 || l.Elements[0].(IntValue).Val != 9 {
		t.Errorf("list splice produced %v", Render(l))
	}

	o := NewObject()
	if _, err := IndexSet(o, NewString("k"), IntValue{1}, noSpan); err != nil {
		t.Fatal(err)
	}
	if v, _ := IndexGet(o, NewString("k"), noSpan); v.(IntValue).Val != 1 {
		t.Error("object entry not created")
	}
	_, err := IndexSet(o, IntValue{0}, IntValue{1}, noSpan)
	wantRuntimeErr(t, err, diag.TypeError)
}

func TestAliasingThroughIndexSet(t *testing.T) {
	x := NewList(IntValue{1})
	y := Value(x) // plain assignment copies the reference
	if _, err := IndexSet(y, IntValue{0}, IntValue{42}, noSpan); err != nil {
		t.Fatal(err)
	}
	if x.Elements[0].(IntValue).Val != 42 {
		t.Error("mutation through alias must be visible through the original")
	}
}

func TestEnvironment(t *testing.T) {
	global := NewEnvironment(nil)
	global.Define("a", IntValue{1})

	child := global.Extend()
	child.Define("b", IntValue{2})

	if v, ok := child.Get("a"); !ok || v.(IntValue).Val != 1 {
		t.Error("child should see the outer binding")
	}
	if _, ok := global.Get("b"); ok {
		t.Error("parent must not see child bindings")
	}
	if !child.Assign("a", IntValue{10}) {
		t.Fatal("assign to outer binding failed")
	}
	if v, _ := global.Get("a"); v.(IntValue).Val != 10 {
		t.Error("assignment should land in the defining frame")
	}
	if child.Assign("missing", IntValue{0}) {
		t.Error("assigning an unbound name should fail")
	}

	// Shadowing: define in child leaves the outer binding alone.
	child.Define("a", IntValue{99})
	if v, _ := global.Get("a"); v.(IntValue).Val != 10 {
		t.Error("shadowing must not touch the outer frame")
	}
}

func TestRender(t *testing.T) {
	l := NewList(IntValue{1}, NewString("a"), NullValue{})
	if got := Render(l); got != `[1, "a", null]` {
		t.Errorf("Render list = %q", got)
	}
	if got := Render(NewString("plain")); got != "plain" {
		t.Errorf("Render string = %q", got)
	}
	if got := Repr(NewString("plain")); got != `"plain"` {
		t.Errorf("Repr string = %q", got)
	}
	if got := Render(RangeValue{2, 6}); got != "2..6" {
		t.Errorf("Render range = %q", got)
	}

	cyclic := NewList()
	cyclic.Elements = append(cyclic.Elements, cyclic)
	if got := Render(cyclic); got != "[[...]]" {
		t.Errorf("Render cyclic = %q", got)
	}
}
