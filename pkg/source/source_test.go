package source

import "testing"

func TestLinenoMapsOffsets(t *testing.T) {
	src := New("let a = 1 + 2\na + 3")

	cases := []struct {
		index int
		line  int
	}{
		{0, 0},
		{3, 0},
		{13, 0},
		{14, 1},
		{18, 1},
	}
	for _, c := range cases {
		line, ok := src.Lineno(c.index)
		if !ok {
			t.Fatalf("Lineno(%d) reported out of range", c.index)
		}
		if line != c.line {
			t.Errorf("Lineno(%d) = %d, want %d", c.index, line, c.line)
		}
	}

	if _, ok := src.Lineno(-1); ok {
		t.Errorf("Lineno(-1) should be out of range")
	}
	if _, ok := src.Lineno(src.Len() + 1); ok {
		t.Errorf("Lineno past end should be out of range")
	}
}

func TestLinenoHonorsOffset(t *testing.T) {
	src := WithOffset("let a = 1 + 2\na + 3", 4)
	if line, _ := src.Lineno(3); line != 4 {
		t.Errorf("first line = %d, want 4", line)
	}
	if line, _ := src.Lineno(14); line != 5 {
		t.Errorf("second line = %d, want 5", line)
	}
}

func TestLineBounds(t *testing.T) {
	src := New("ab\ncdef\ng")
	start, end := src.Line(1)
	if src.Text[start:end] != "cdef" {
		t.Errorf("line 1 = %q, want %q", src.Text[start:end], "cdef")
	}
	start, end = src.Line(2)
	if src.Text[start:end] != "g" {
		t.Errorf("line 2 = %q, want %q", src.Text[start:end], "g")
	}
}

func TestSliceClampsSpan(t *testing.T) {
	src := New("hello")
	if got := src.Slice(NewSpan(1, 3)); got != "ell" {
		t.Errorf("Slice = %q, want %q", got, "ell")
	}
	if got := src.Slice(NewSpan(3, 10)); got != "lo" {
		t.Errorf("clamped Slice = %q, want %q", got, "lo")
	}
}

func TestSpanBetween(t *testing.T) {
	span := SpanBetween(NewSpan(2, 3), NewSpan(8, 4))
	if span.Start != 2 || span.End() != 12 {
		t.Errorf("unexpected span %+v", span)
	}
}
