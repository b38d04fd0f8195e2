package diag

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/term"

	"anilang/interpreter-go/pkg/source"
)

// Renderer prints errors with a source excerpt and a marker under the
// offending span.
type Renderer struct {
	out     io.Writer
	heading *color.Color
	lineno  *color.Color
	marker  *color.Color
}

// NewRenderer writes to out. Color is applied only when out is a terminal.
func NewRenderer(out io.Writer) *Renderer {
	r := &Renderer{
		out:     out,
		heading: color.New(color.FgRed, color.Bold),
		lineno:  color.New(color.FgCyan),
		marker:  color.New(color.FgRed),
	}
	if f, ok := out.(*os.File); !ok || !term.IsTerminal(int(f.Fd())) {
		r.heading.DisableColor()
		r.lineno.DisableColor()
		r.marker.DisableColor()
	}
	return r
}

// Render prints err against src. Errors without a known span fall back to
// the plain message.
func (r *Renderer) Render(src *source.SourceText, err error) {
	switch e := err.(type) {
	case *SyntaxError:
		r.render(src, e.Kind.String(), e.Message, e.Span)
	case *RuntimeError:
		r.render(src, e.Kind.String(), e.Message, e.Span)
	default:
		r.heading.Fprint(r.out, "Error")
		fmt.Fprintf(r.out, ": %v\n", err)
	}
}

func (r *Renderer) render(src *source.SourceText, kind, message string, span source.TextSpan) {
	r.heading.Fprintf(r.out, "%s", kind)
	fmt.Fprintf(r.out, ": %s\n", message)

	lineno, ok := src.Lineno(span.Start)
	if !ok {
		return
	}
	start, end := src.Line(lineno)
	line := strings.TrimRight(src.Slice(source.NewSpan(start, end-start)), "\n")

	// Lines are tracked zero based; people count from one.
	prefix := fmt.Sprintf("%4d | ", lineno+1)
	r.lineno.Fprint(r.out, prefix)
	fmt.Fprintln(r.out, line)

	col := span.Start - start
	if col < 0 {
		col = 0
	}
	width := span.Len
	if span.Start+width > end {
		width = end - span.Start
	}
	if width < 1 {
		width = 1
	}
	pad := strings.Repeat(" ", len(prefix)+visualWidth(line[:min(col, len(line))]))
	fmt.Fprint(r.out, pad)
	r.marker.Fprintln(r.out, strings.Repeat("^", width))
}

// visualWidth expands tabs so the marker lines up with the excerpt.
func visualWidth(s string) int {
	w := 0
	for _, ch := range []byte(s) {
		if ch == '\t' {
			w += 8 - w%8
		} else {
			w++
		}
	}
	return w
}
