package interpreter

import (
	"errors"
	"testing"

	"anilang/interpreter-go/pkg/diag"
	"anilang/interpreter-go/pkg/parser"
	"anilang/interpreter-go/pkg/runtime"
	"anilang/interpreter-go/pkg/source"
)

func run(t *testing.T, src string) runtime.Value {
	t.Helper()
	program, err := parser.Parse(source.New(src))
	if err != nil {
		t.Fatalf("parse %q failed: %v", src, err)
	}
	value, err := New().Evaluate(program)
	if err != nil {
		t.Fatalf("evaluate %q failed: %v", src, err)
	}
	return value
}

func runErr(t *testing.T, src string, kind diag.RuntimeKind) *diag.RuntimeError {
	t.Helper()
	program, err := parser.Parse(source.New(src))
	if err != nil {
		t.Fatalf("parse %q failed: %v", src, err)
	}
	_, err = New().Evaluate(program)
	if err == nil {
		t.Fatalf("evaluate %q succeeded, want error", src)
	}
	var rerr *diag.RuntimeError
	if !errors.As(err, &rerr) {
		t.Fatalf("evaluate %q error is %T, want *diag.RuntimeError", src, err)
	}
	if rerr.Kind != kind {
		t.Fatalf("evaluate %q error kind is %v, want %v", src, rerr.Kind, kind)
	}
	return rerr
}

func wantIntResult(t *testing.T, src string, value int64) {
	t.Helper()
	got, ok := run(t, src).(runtime.IntValue)
	if !ok || got.Val != value {
		t.Errorf("%q evaluated to %#v, want int %d", src, got, value)
	}
}

func wantStringResult(t *testing.T, src string, value string) {
	t.Helper()
	got, ok := run(t, src).(*runtime.StringValue)
	if !ok || got.Val != value {
		t.Errorf("%q evaluated to %#v, want string %q", src, got, value)
	}
}

func wantBoolResult(t *testing.T, src string, value bool) {
	t.Helper()
	got, ok := run(t, src).(runtime.BoolValue)
	if !ok || got.Val != value {
		t.Errorf("%q evaluated to %#v, want bool %v", src, got, value)
	}
}

func wantNullResult(t *testing.T, src string) {
	t.Helper()
	if got := run(t, src); got.Kind() != runtime.KindNull {
		t.Errorf("%q evaluated to %#v, want null", src, got)
	}
}

func TestLiteralsAndArithmetic(t *testing.T) {
	wantIntResult(t, "1 + 2 * 3", 7)
	wantIntResult(t, "2 ^ 3 ^ 2", 512)
	wantIntResult(t, "7 / 2", 3)
	wantIntResult(t, "-7 % 3", -1)
	if got := run(t, "1 / 2.0").(runtime.FloatValue); got.Val != 0.5 {
		t.Errorf("1 / 2.0 = %v, want 0.5", got.Val)
	}
}

func TestWhileCountsUp(t *testing.T) {
	wantIntResult(t, "let a = 1 while a < 5 { a = a + 1 } a", 5)
}

func TestStringSplice(t *testing.T) {
	wantStringResult(t, `let s = "----" s[2] = "a" s`, "--a-")
	wantStringResult(t, `let s = "----" s[2] = "a" s[1] = "ab" s`, "-aba-")
}

func TestRecursion(t *testing.T) {
	wantIntResult(t, `
fn factorial(n) {
    if n == 1 { return 1 }
    n * factorial(n - 1)
}
factorial(5)
`, 120)
}

func TestIndexing(t *testing.T) {
	wantStringResult(t, `"hello"[-1]`, "o")
	wantIntResult(t, `(1..5)["start"]`, 1)
	wantIntResult(t, `(1..5)["end"]`, 5)
	wantStringResult(t, `"hello"[1..4]`, "ell")
	wantIntResult(t, "[1, 2, 3][-2]", 2)
	wantIntResult(t, `let o = { a: 1 } o.a`, 1)
}

func TestUndefinedVariable(t *testing.T) {
	rerr := runErr(t, "let a = 1\nmissing", diag.UndefinedVariable)
	if rerr.Span.Start != 10 {
		t.Errorf("error span starts at %d, want 10", rerr.Span.Start)
	}
}

func TestImmediateInvocation(t *testing.T) {
	wantIntResult(t, "(fn(a, b) { a + b })(1, 2)", 3)
	runErr(t, "(fn(a, b) { a + b })(1)", diag.ArityMismatch)
}

func TestBlocks(t *testing.T) {
	wantNullResult(t, "{}")
	wantIntResult(t, "{ 1 2 3 }", 3)
	// A block frame shadows without leaking.
	wantIntResult(t, "let x = 1 { let x = 2 x } x", 1)
	wantIntResult(t, "let x = 1 { x = 2 } x", 2)
}

func TestIfBranches(t *testing.T) {
	wantIntResult(t, "if 1 < 2 { 10 } else { 20 }", 10)
	wantIntResult(t, "if 1 > 2 { 10 } else if 2 > 1 { 20 } else { 30 }", 20)
	wantNullResult(t, "if false { 10 }")
}

func TestLoopYieldsNull(t *testing.T) {
	wantNullResult(t, "let i = 0 loop { i = i + 1 if i == 3 { break } }")
	wantIntResult(t, "let i = 0 loop { i = i + 1 if i == 3 { break } } i", 3)
}

func TestLoopIterationFrames(t *testing.T) {
	// Each iteration re-declares j in a fresh frame.
	wantIntResult(t, `
let i = 0
let seen = 0
while i < 3 {
    let j = i * 10
    seen = seen + j
    i = i + 1
}
seen
`, 30)
}

func TestBreakOutsideLoop(t *testing.T) {
	runErr(t, "break", diag.BreakOutsideLoop)
	runErr(t, "fn f() { break } f()", diag.BreakOutsideLoop)
	// A break inside a loop inside a function stays inside it.
	wantIntResult(t, "fn f() { loop { break } 7 } f()", 7)
}

func TestReturnStopsFunction(t *testing.T) {
	wantIntResult(t, "fn f() { loop { return 9 } } f()", 9)
	wantNullResult(t, "fn f() { return } f()")
	wantIntResult(t, "fn f() { 1 2 } f()", 2)
}

func TestClosuresAreLexical(t *testing.T) {
	wantIntResult(t, `
fn counter() {
    let n = 0
    fn() { n = n + 1 n }
}
let c = counter()
c()
c()
c()
`, 3)
	// The captured frame wins over a same-named call site binding.
	wantIntResult(t, `
let x = 1
fn get() { x }
fn shadowed() { let x = 99 get() }
shadowed()
`, 1)
}

func TestAliasingIsVisible(t *testing.T) {
	wantIntResult(t, "let a = [1, 2] let b = a b[0] = 9 a[0]", 9)
	wantStringResult(t, `let s = "hi" let u = s u[0] = "H" s`, "Hi")
	wantIntResult(t, "let o = { n: 1 } let p = o p.n = 5 o.n", 5)
}

func TestShortCircuit(t *testing.T) {
	// The right side would blow up if it ran.
	wantBoolResult(t, "false && missing", false)
	wantBoolResult(t, "true || missing", true)
	wantBoolResult(t, "1 && 2", true)
	wantBoolResult(t, "0 || null", false)
}

func TestTruthinessInConditions(t *testing.T) {
	wantIntResult(t, `if "" { 1 } else { 2 }`, 2)
	wantIntResult(t, "if 0..0 { 1 } else { 2 }", 2)
	wantIntResult(t, "if [0] { 1 } else { 2 }", 1)
	wantIntResult(t, "if !null { 1 } else { 2 }", 1)
}

func TestObjectLiteralKeys(t *testing.T) {
	wantIntResult(t, `let k = "a" let o = { k + "b": 1 } o.ab`, 1)
	runErr(t, "let o = { 1 + 1: 2 }", diag.TypeError)
}

func TestRangeBounds(t *testing.T) {
	runErr(t, "1.5..2", diag.TypeError)
	runErr(t, `(1..5)["middle"]`, diag.TypeError)
}

func TestRuntimeErrors(t *testing.T) {
	runErr(t, "1 + null", diag.TypeError)
	runErr(t, "missing = 1", diag.UndefinedVariable)
	runErr(t, "1 / 0", diag.DivisionByZero)
	runErr(t, "[1, 2][5]", diag.IndexOutOfRange)
	runErr(t, "({ a: 1 }).b", diag.KeyNotFound)
	runErr(t, "3(1)", diag.TypeError)
	runErr(t, "true[0]", diag.NotIndexable)
	runErr(t, `[1, 2]["x"]`, diag.TypeError)
	runErr(t, `"abc"[true]`, diag.TypeError)
}

func TestInterfaceConstruction(t *testing.T) {
	src := `
interface Dog {
    legs = 4
    fn speak(self) { self.sound }
    Dog(sound) { self.sound = sound }
}
let rex = Dog("woof")
`
	wantStringResult(t, src+"rex.speak(rex)", "woof")
	wantIntResult(t, src+"rex.legs", 4)
	wantStringResult(t, src+`Dog::speak(rex)`, "woof")
	// Separate constructions do not share state.
	wantStringResult(t, src+`let fido = Dog("arf") rex.speak(rex)`, "woof")
}

func TestInterfacePropertiesReEvaluate(t *testing.T) {
	wantIntResult(t, `
let next = 0
interface Tagged {
    id = { next = next + 1 next }
}
Tagged()
Tagged()
let c = Tagged()
c.id
`, 3)
}

func TestGlobalFramePersists(t *testing.T) {
	i := New()
	first, err := parser.Parse(source.New("let a = 2"))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if _, err := i.Evaluate(first); err != nil {
		t.Fatalf("first evaluation failed: %v", err)
	}
	second, err := parser.Parse(source.New("a * 21"))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	value, err := i.Evaluate(second)
	if err != nil {
		t.Fatalf("second evaluation failed: %v", err)
	}
	if got, ok := value.(runtime.IntValue); !ok || got.Val != 42 {
		t.Errorf("second evaluation gave %#v, want 42", value)
	}
}

func TestTopLevelReturn(t *testing.T) {
	wantIntResult(t, "return 5 1 + missing", 5)
}
