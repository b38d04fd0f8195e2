package source

import (
	"sort"
	"strings"
)

// SourceText wraps a chunk of program text with a line table, so diagnostics
// can map byte offsets back to line numbers. The offset shifts reported line
// numbers, which lets a REPL number each submission after the previous one.
type SourceText struct {
	Text string

	// lines[i] is the byte offset where line i starts.
	lines  []int
	offset int
}

// New builds a SourceText with line numbers starting at zero.
func New(text string) *SourceText {
	return WithOffset(text, 0)
}

// WithOffset builds a SourceText whose first line is numbered offset.
func WithOffset(text string, offset int) *SourceText {
	lines := []int{0}
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			lines = append(lines, i+1)
		}
	}
	return &SourceText{Text: text, lines: lines, offset: offset}
}

// Len is the length of the underlying text in bytes.
func (s *SourceText) Len() int {
	return len(s.Text)
}

// Slice returns the text covered by span, clamped to the source bounds.
func (s *SourceText) Slice(span TextSpan) string {
	start, end := span.Start, span.End()
	if start < 0 {
		start = 0
	}
	if end > len(s.Text) {
		end = len(s.Text)
	}
	if start >= end {
		return ""
	}
	return s.Text[start:end]
}

// Lineno returns the (offset adjusted) line number containing the byte index,
// or false when the index is outside the text.
func (s *SourceText) Lineno(index int) (int, bool) {
	if index < 0 || index > len(s.Text) {
		return 0, false
	}
	i := sort.Search(len(s.lines), func(i int) bool { return s.lines[i] > index }) - 1
	return i + s.offset, true
}

// Line returns the start and end byte offsets of line number lineno, already
// adjusted for the configured offset. The end excludes the trailing newline.
func (s *SourceText) Line(lineno int) (int, int) {
	i := lineno - s.offset
	if i < 0 || i >= len(s.lines) {
		return 0, 0
	}
	start := s.lines[i]
	end := len(s.Text)
	if i+1 < len(s.lines) {
		end = s.lines[i+1] - 1
	}
	return start, end
}

// IsBlank reports whether the text contains nothing but whitespace.
func (s *SourceText) IsBlank() bool {
	return strings.TrimSpace(s.Text) == ""
}
