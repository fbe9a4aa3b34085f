package render

import (
	"testing"
)

func TestNewGridBlank(t *testing.T) {
	g := NewGrid(4, 2)
	for y := 0; y < 2; y++ {
		for x := 0; x < 4; x++ {
			if c := g.At(x, y); c != blankCell {
				t.Fatalf("Cell (%d,%d) = %+v, want blank", x, y, c)
			}
		}
	}

	empty := NewGrid(-1, 3)
	if empty.Cols() != 0 || empty.Rows() != 3 {
		t.Errorf("Expected 0x3 grid, got %dx%d", empty.Cols(), empty.Rows())
	}
	empty.Put(0, 0, 'x', StyleNone) // must not panic
	empty.Clear()
}

func TestGridPutBounds(t *testing.T) {
	tests := []struct {
		name string
		x, y int
		ok   bool
	}{
		{"origin", 0, 0, true},
		{"last cell", 3, 2, true},
		{"x negative", -1, 0, false},
		{"y negative", 0, -1, false},
		{"x past edge", 4, 0, false},
		{"y past edge", 0, 3, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewGrid(4, 3)
			before := g.Clone()
			g.Put(tt.x, tt.y, 'z', StylePlain)

			if tt.ok {
				if c := g.At(tt.x, tt.y); c.Rune != 'z' || c.Style != StylePlain {
					t.Errorf("Expected z at (%d,%d), got %+v", tt.x, tt.y, c)
				}
				return
			}
			if g.String() != before.String() {
				t.Errorf("Out-of-bounds put modified grid:\n%s", g.String())
			}
		})
	}
}

func TestGridText(t *testing.T) {
	g := NewGrid(5, 2)
	g.Text(3, 0, "hello", StyleNone)
	g.Text(-2, 1, "abcd", StyleNone)
	g.Text(0, 5, "ignored", StyleNone)

	want := "   he\ncd   "
	if got := g.String(); got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
}

func TestGridKeepsCellsSingleWidth(t *testing.T) {
	g := NewGrid(4, 2)
	g.Put(0, 0, '中', StyleNone)
	g.Put(1, 0, '\x1b', StyleNone)
	g.Text(2, 0, "é\u0301", StyleNone)
	g.FillStyled(0, 1, 4, 1, '語', StyleNone)

	want := "? é?\n????"
	if got := g.String(); got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
}

func TestGridFillAndClear(t *testing.T) {
	g := NewGrid(5, 3)
	bold := StyleNone.Bold(true)
	g.FillStyled(-1, 1, 3, 5, '#', bold)

	want := "     \n##   \n##   "
	if got := g.String(); got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
	if g.At(0, 2).Style != bold {
		t.Errorf("Expected styled fill, got %+v", g.At(0, 2))
	}

	g.Fill(0, 1, 1, 1, 0)
	if c := g.At(0, 1); c != blankCell {
		t.Errorf("Fill with zero rune should produce blank, got %+v", c)
	}

	g.Clear()
	if got := g.String(); got != "     \n     \n     " {
		t.Errorf("Clear left %q", got)
	}
}

func TestGridCloneIndependent(t *testing.T) {
	g := NewGrid(2, 1)
	c := g.Clone()
	c.Put(0, 0, 'x', StyleNone)
	if g.At(0, 0).Rune != ' ' {
		t.Error("Clone shares storage with original")
	}
	if !g.SameShape(c) || g.SameShape(NewGrid(1, 2)) || g.SameShape(nil) {
		t.Error("SameShape mismatch")
	}
}
