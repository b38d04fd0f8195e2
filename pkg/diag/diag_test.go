package diag

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"anilang/interpreter-go/pkg/source"
)

func TestErrorMessages(t *testing.T) {
	syn := NewSyntaxError(UnterminatedString, source.NewSpan(4, 3), "string literal never closed")
	if got := syn.Error(); got != "UnterminatedString: string literal never closed" {
		t.Errorf("syntax error = %q", got)
	}
	run := NewRuntimeError(TypeError, source.NewSpan(0, 1), "cannot add int and null")
	if got := run.Error(); got != "TypeError: cannot add int and null" {
		t.Errorf("runtime error = %q", got)
	}
}

func TestErrorsAs(t *testing.T) {
	var err error = NewRuntimeError(DivisionByZero, source.NewSpan(2, 5), "division by zero")
	var re *RuntimeError
	if !errors.As(err, &re) {
		t.Fatal("errors.As failed for *RuntimeError")
	}
	if re.Kind != DivisionByZero {
		t.Errorf("kind = %v, want DivisionByZero", re.Kind)
	}
}

func TestRenderExcerptAndMarker(t *testing.T) {
	src := source.New("let x = 1\nlet y = x + z\n")
	span := source.NewSpan(strings.Index(src.Text, "z"), 1)
	err := NewRuntimeError(UndefinedVariable, span, "variable 'z' not found")

	var buf bytes.Buffer
	NewRenderer(&buf).Render(src, err)
	out := buf.String()

	for _, want := range []string{
		"UndefinedVariable: variable 'z' not found",
		"2 | let y = x + z",
		"^",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	// Marker column lines up with 'z'.
	lines := strings.Split(out, "\n")
	excerpt, marker := "", ""
	for i, line := range lines {
		if strings.Contains(line, "let y") && i+1 < len(lines) {
			excerpt, marker = line, lines[i+1]
		}
	}
	if strings.Index(excerpt, "z") != strings.Index(marker, "^") {
		t.Errorf("marker misaligned:\n%s\n%s", excerpt, marker)
	}
}

func TestRenderPlainError(t *testing.T) {
	var buf bytes.Buffer
	NewRenderer(&buf).Render(source.New(""), errors.New("boom"))
	if got := buf.String(); got != "Error: boom\n" {
		t.Errorf("output = %q", got)
	}
}
