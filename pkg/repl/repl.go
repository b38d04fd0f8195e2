// Package repl implements the interactive shell: a line reader with
// continuation detection feeding one persistent interpreter, so every
// submission sees the declarations of the ones before it.
package repl

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"anilang/interpreter-go/pkg/config"
	"anilang/interpreter-go/pkg/diag"
	"anilang/interpreter-go/pkg/interpreter"
	"anilang/interpreter-go/pkg/lexer"
	"anilang/interpreter-go/pkg/parser"
	"anilang/interpreter-go/pkg/runtime"
	"anilang/interpreter-go/pkg/source"
	"anilang/interpreter-go/pkg/token"
)

type Session struct {
	cfg      config.REPL
	interp   *interpreter.Interpreter
	out      io.Writer
	renderer *diag.Renderer
	history  []string

	prompt *color.Color
	result *color.Color
}

func New(cfg config.REPL, out io.Writer) *Session {
	s := &Session{
		cfg:      cfg,
		interp:   interpreter.New(),
		out:      out,
		renderer: diag.NewRenderer(out),
		prompt:   color.New(color.FgCyan),
		result:   color.New(color.FgGreen),
	}
	switch cfg.Color {
	case "always":
		s.prompt.EnableColor()
		s.result.EnableColor()
	case "never":
		s.prompt.DisableColor()
		s.result.DisableColor()
	}
	return s
}

// Run reads lines until EOF or '.exit'. A chunk is submitted once its
// delimiters balance; errors are reported and the session keeps going.
func (s *Session) Run(in io.Reader) error {
	scanner := bufio.NewScanner(in)
	var buffer strings.Builder

	s.prompt.Fprint(s.out, s.cfg.Prompt)
	for scanner.Scan() {
		line := scanner.Text()
		if buffer.Len() == 0 {
			trimmed := strings.TrimSpace(line)
			if trimmed == "" {
				s.prompt.Fprint(s.out, s.cfg.Prompt)
				continue
			}
			// A leading dot means a directive unless it starts a float
			// literal like '.5'.
			if len(trimmed) > 1 && trimmed[0] == '.' && trimmed[1] >= 'a' && trimmed[1] <= 'z' {
				if done := s.directive(trimmed); done {
					return nil
				}
				s.prompt.Fprint(s.out, s.cfg.Prompt)
				continue
			}
		}
		buffer.WriteString(line)
		buffer.WriteByte('\n')

		if needsMore(buffer.String()) {
			s.prompt.Fprint(s.out, s.cfg.Continuation)
			// Pre-indent the next line to the current nesting depth.
			s.prompt.Fprint(s.out, strings.Repeat("  ", openDepth(buffer.String())))
			continue
		}
		s.Submit(buffer.String())
		buffer.Reset()
		s.prompt.Fprint(s.out, s.cfg.Prompt)
	}
	fmt.Fprintln(s.out)
	return scanner.Err()
}

// directive handles dot commands; it reports whether the session ends.
func (s *Session) directive(line string) bool {
	switch line {
	case ".exit":
		return true
	case ".history":
		for _, chunk := range s.history {
			fmt.Fprintln(s.out, chunk)
		}
	case ".vars":
		env := s.interp.GlobalEnvironment()
		for _, name := range env.Names() {
			if v, ok := env.Get(name); ok {
				fmt.Fprintf(s.out, "%s = %s\n", name, runtime.Repr(v))
			}
		}
	case ".help":
		fmt.Fprintln(s.out, "directives: .exit  .help  .history  .vars")
	default:
		fmt.Fprintf(s.out, "unknown directive %s (try .help)\n", line)
	}
	return false
}

// Submit evaluates one chunk against the session frame and echoes the
// result or renders the error.
func (s *Session) Submit(src string) {
	text := source.New(src)
	if text.IsBlank() {
		return
	}
	s.remember(src)
	program, err := parser.Parse(text)
	if err != nil {
		s.renderer.Render(text, err)
		return
	}
	value, err := s.interp.Evaluate(program)
	if err != nil {
		s.renderer.Render(text, err)
		return
	}
	s.result.Fprintln(s.out, runtime.Repr(value))
}

// History returns submitted chunks, oldest first.
func (s *Session) History() []string {
	return s.history
}

func (s *Session) remember(src string) {
	if s.cfg.HistorySize == 0 {
		return
	}
	s.history = append(s.history, strings.TrimRight(src, "\n"))
	if len(s.history) > s.cfg.HistorySize {
		s.history = s.history[len(s.history)-s.cfg.HistorySize:]
	}
}

// needsMore reports whether the chunk is an obviously unfinished
// submission: open delimiters, an unterminated string, or an open block
// comment. Anything else is submitted as is; real mistakes should be
// reported, not silently accumulated.
func needsMore(src string) bool {
	if _, err := lexer.Lex(source.New(src)); err != nil {
		var serr *diag.SyntaxError
		if errors.As(err, &serr) {
			return serr.Kind == diag.UnterminatedString || serr.Kind == diag.UnterminatedComment
		}
		return false
	}
	return openDepth(src) > 0
}

// openDepth counts delimiters left open by the chunk, 0 when they are
// balanced or over-closed.
func openDepth(src string) int {
	tokens, err := lexer.Lex(source.New(src))
	if err != nil {
		return 0
	}
	depth := 0
	for _, t := range tokens {
		switch t.Kind {
		case token.LBrace, token.LParen, token.LBracket:
			depth++
		case token.RBrace, token.RParen, token.RBracket:
			depth--
			if depth < 0 {
				return 0
			}
		}
	}
	return depth
}
