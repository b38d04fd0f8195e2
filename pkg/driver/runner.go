package driver

import (
	"errors"
	"fmt"

	"anilang/interpreter-go/pkg/diag"
	"anilang/interpreter-go/pkg/interpreter"
	"anilang/interpreter-go/pkg/parser"
	"anilang/interpreter-go/pkg/runtime"
	"anilang/interpreter-go/pkg/source"
)

// Result records one executed case.
type Result struct {
	Case   Case
	Passed bool
	Got    string // rendering of the value, or the error kind
	Detail string // failure explanation, empty when passed
}

// Run executes every case in order and reports per case results. Cases
// never abort the run; a failing case is just a failed Result.
func Run(suite *Suite) []Result {
	shared := interpreter.New()
	results := make([]Result, 0, len(suite.Cases))
	for _, c := range suite.Cases {
		interp := shared
		if !suite.SharedFrame {
			interp = interpreter.New()
		}
		results = append(results, runCase(interp, c))
	}
	return results
}

func runCase(interp *interpreter.Interpreter, c Case) Result {
	result := Result{Case: c}

	value, err := evalSource(interp, c.Source)
	if err != nil {
		result.Got = errorKind(err)
		if c.WantError == "" {
			result.Detail = fmt.Sprintf("unexpected error: %v", err)
		} else if result.Got != c.WantError {
			result.Detail = fmt.Sprintf("error kind %s, want %s", result.Got, c.WantError)
		} else {
			result.Passed = true
		}
		return result
	}

	result.Got = runtime.Repr(value)
	switch {
	case c.WantError != "":
		result.Detail = fmt.Sprintf("evaluated to %s, want %s error", result.Got, c.WantError)
	case result.Got != c.Want:
		result.Detail = fmt.Sprintf("evaluated to %s, want %s", result.Got, c.Want)
	default:
		result.Passed = true
	}
	return result
}

func evalSource(interp *interpreter.Interpreter, src string) (runtime.Value, error) {
	program, err := parser.Parse(source.New(src))
	if err != nil {
		return nil, err
	}
	return interp.Evaluate(program)
}

// errorKind maps an evaluation error to the bare kind name suites match
// against, e.g. "TypeError" or "UnexpectedToken".
func errorKind(err error) string {
	var serr *diag.SyntaxError
	if errors.As(err, &serr) {
		return serr.Kind.String()
	}
	var rerr *diag.RuntimeError
	if errors.As(err, &rerr) {
		return rerr.Kind.String()
	}
	return err.Error()
}
