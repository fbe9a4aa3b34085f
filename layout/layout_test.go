package layout

import (
	"math/rand"
	"reflect"
	"testing"

	"github.com/lixenwraith/gridterm/render"
)

func TestPartition(t *testing.T) {
	tests := []struct {
		name    string
		length  int
		weights []int
		want    []int
	}{
		{"equal thirds tie-break", 10, []int{1, 1, 1}, []int{4, 3, 3}},
		{"exact", 9, []int{1, 1, 1}, []int{3, 3, 3}},
		{"weighted", 10, []int{1, 2, 1}, []int{3, 5, 2}},
		{"all zero treated as ones", 5, []int{0, 0}, []int{3, 2}},
		{"zero weight child", 6, []int{0, 1, 1}, []int{0, 3, 3}},
		{"negative weight clamps", 4, []int{-5, 1}, []int{0, 4}},
		{"zero length", 0, []int{1, 2}, []int{0, 0}},
		{"negative length", -3, []int{1}, []int{0}},
		{"no weights", 7, nil, []int{}},
		{"length below count", 2, []int{1, 1, 1}, []int{1, 1, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Partition(tt.length, tt.weights)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Partition(%d, %v) = %v, want %v", tt.length, tt.weights, got, tt.want)
			}
		})
	}
}

func TestPartitionSumsExactly(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for iter := 0; iter < 2000; iter++ {
		n := 1 + rng.Intn(6)
		weights := make([]int, n)
		for i := range weights {
			weights[i] = rng.Intn(5) // includes zeros, sometimes all zero
		}
		length := rng.Intn(200)

		sum := 0
		for _, l := range Partition(length, weights) {
			if l < 0 {
				t.Fatalf("negative length for %d %v", length, weights)
			}
			sum += l
		}
		if sum != length {
			t.Fatalf("Partition(%d, %v) sums to %d", length, weights, sum)
		}
	}
}

// fillLeaf paints its whole area with ch
func fillLeaf(ch rune) *Node {
	return Leaf(func(p *render.Painter, area Rect) {
		p.Fill(area.X, area.Y, area.W, area.H, ch, render.StyleNone)
	})
}

// recordLeaf captures the area it was given
func recordLeaf(dst *[]Rect) *Node {
	return Leaf(func(_ *render.Painter, area Rect) {
		*dst = append(*dst, area)
	})
}

func TestHStackAreas(t *testing.T) {
	var areas []Rect
	root := HStack(recordLeaf(&areas), recordLeaf(&areas), recordLeaf(&areas)).Gap(1).Pad(1)

	g := render.NewGrid(14, 5)
	Render(root, Rect{W: 14, H: 5}, render.NewPainter(g))

	// Inner 12x3 at (1,1); 12 - 2 gaps = 10 -> 4,3,3
	want := []Rect{
		{X: 1, Y: 1, W: 4, H: 3},
		{X: 6, Y: 1, W: 3, H: 3},
		{X: 10, Y: 1, W: 3, H: 3},
	}
	if !reflect.DeepEqual(areas, want) {
		t.Errorf("Expected %v, got %v", want, areas)
	}
}

func TestVStackGrowAndSkip(t *testing.T) {
	var areas []Rect
	root := VStack(recordLeaf(&areas), recordLeaf(&areas), recordLeaf(&areas)).
		Gap(1).
		Grow(0, 0).
		Grow(2, 3).
		Grow(9, 5) // ignored

	Render(root, Rect{X: 2, Y: 0, W: 5, H: 10}, render.NewPainter(render.NewGrid(10, 10)))

	// 10 - 2 gaps = 8 over weights [0,1,3] -> [0,2,6]; child 0 skipped but its gap is consumed
	want := []Rect{
		{X: 2, Y: 1, W: 5, H: 2},
		{X: 2, Y: 4, W: 5, H: 6},
	}
	if !reflect.DeepEqual(areas, want) {
		t.Errorf("Expected %v, got %v", want, areas)
	}
}

func TestStackRendersNothingWhenTooSmall(t *testing.T) {
	tests := []struct {
		name string
		node func(dst *[]Rect) *Node
		area Rect
	}{
		{"pad consumes area", func(d *[]Rect) *Node { return HStack(recordLeaf(d)).Pad(3) }, Rect{W: 6, H: 10}},
		{"gaps consume area", func(d *[]Rect) *Node { return HStack(recordLeaf(d), recordLeaf(d), recordLeaf(d)).Gap(2) }, Rect{W: 4, H: 1}},
		{"no children", func(d *[]Rect) *Node { return VStack() }, Rect{W: 4, H: 4}},
		{"empty area", func(d *[]Rect) *Node { return VStack(recordLeaf(d)) }, Rect{W: 0, H: 4}},
		{"overlay pad", func(d *[]Rect) *Node { return Overlay(recordLeaf(d)).Pad(2) }, Rect{W: 4, H: 9}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var areas []Rect
			Render(tt.node(&areas), tt.area, render.NewPainter(render.NewGrid(10, 10)))
			if len(areas) != 0 {
				t.Errorf("Expected no child render, got %v", areas)
			}
		})
	}
}

func TestNegativeParametersClamp(t *testing.T) {
	n := HStack(fillLeaf('a'), fillLeaf('b')).Gap(-3).Pad(-1).Grow(1, -2)
	if n.gap != 0 || n.pad != 0 || n.Weight(1) != 0 {
		t.Errorf("Expected clamped params, got gap=%d pad=%d weight=%d", n.gap, n.pad, n.Weight(1))
	}

	g := render.NewGrid(4, 1)
	Render(n, Rect{W: 4, H: 1}, render.NewPainter(g))
	if got := g.String(); got != "aaaa" {
		t.Errorf("Expected child 0 to take the whole row, got %q", got)
	}
}

func TestOverlayLaterWins(t *testing.T) {
	g := render.NewGrid(4, 2)
	root := Overlay(
		fillLeaf('A'),
		Leaf(func(p *render.Painter, area Rect) {
			p.Put(area.X+1, area.Y, 'B', render.StyleNone)
		}),
	)
	Render(root, Rect{W: 4, H: 2}, render.NewPainter(g))

	if got := g.String(); got != "ABAA\nAAAA" {
		t.Errorf("Expected later child on top, got %q", got)
	}
}

func TestNestedComposition(t *testing.T) {
	g := render.NewGrid(6, 3)
	root := VStack(
		HStack(fillLeaf('l'), fillLeaf('r')),
		fillLeaf('-'),
		HStack(fillLeaf('x'), fillLeaf('y'), fillLeaf('z')).Grow(1, 0),
	)
	Render(root, Rect{W: 6, H: 3}, render.NewPainter(g))

	want := "lllrrr\n------\nxxxzzz"
	if got := g.String(); got != want {
		t.Errorf("Expected\n%s\ngot\n%s", want, got)
	}
}

func TestRenderNilSafe(t *testing.T) {
	Render(nil, Rect{W: 2, H: 2}, render.NewPainter(render.NewGrid(2, 2)))
	Render(Leaf(nil), Rect{W: 2, H: 2}, render.NewPainter(render.NewGrid(2, 2)))
}
