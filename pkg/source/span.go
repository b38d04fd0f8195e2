package source

// TextSpan marks a half-open region of the source text by byte offset.
type TextSpan struct {
	Start int
	Len   int
}

// NewSpan builds a span from a start offset and length.
func NewSpan(start, length int) TextSpan {
	return TextSpan{Start: start, Len: length}
}

// SpanBetween covers everything from the start of first to the end of last.
func SpanBetween(first, last TextSpan) TextSpan {
	return TextSpan{Start: first.Start, Len: last.End() - first.Start}
}

// End is the first offset past the span.
func (s TextSpan) End() int {
	return s.Start + s.Len
}

// IsEmpty reports whether the span covers no text.
func (s TextSpan) IsEmpty() bool {
	return s.Len == 0
}
