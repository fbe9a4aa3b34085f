// Package layout composes a screen from a tree of stack and overlay nodes.
// The tree is evaluated from scratch every frame; nodes keep no layout state.
package layout

import "github.com/lixenwraith/gridterm/render"

// Rect is an area in terminal cell coordinates
type Rect struct {
	X, Y, W, H int
}

// Inset returns the rect shrunk by n cells on every side; dimensions floor at 0
func (r Rect) Inset(n int) Rect {
	return Rect{
		X: r.X + n,
		Y: r.Y + n,
		W: max(0, r.W-2*n),
		H: max(0, r.H-2*n),
	}
}

// Empty reports whether the rect covers no cells
func (r Rect) Empty() bool {
	return r.W <= 0 || r.H <= 0
}

// DrawFunc paints a leaf into its assigned area
type DrawFunc func(p *render.Painter, area Rect)

// Kind tags the node variant
type Kind uint8

const (
	KindLeaf Kind = iota
	KindVStack
	KindHStack
	KindOverlay
)

// String returns the lowercase kind name
func (k Kind) String() string {
	switch k {
	case KindLeaf:
		return "leaf"
	case KindVStack:
		return "vstack"
	case KindHStack:
		return "hstack"
	case KindOverlay:
		return "overlay"
	}
	return "unknown"
}

// Node is one element of the layout tree
type Node struct {
	kind     Kind
	draw     DrawFunc
	children []*Node
	weights  []int
	gap      int
	pad      int
}

// Leaf wraps an application paint function
func Leaf(fn DrawFunc) *Node {
	return &Node{kind: KindLeaf, draw: fn}
}

// VStack stacks children top to bottom
func VStack(children ...*Node) *Node {
	return newContainer(KindVStack, children)
}

// HStack stacks children left to right
func HStack(children ...*Node) *Node {
	return newContainer(KindHStack, children)
}

// Overlay renders every child into the same area; later children cover earlier ones
func Overlay(children ...*Node) *Node {
	return newContainer(KindOverlay, children)
}

func newContainer(kind Kind, children []*Node) *Node {
	weights := make([]int, len(children))
	for i := range weights {
		weights[i] = 1
	}
	return &Node{kind: kind, children: children, weights: weights}
}

// Kind returns the node variant
func (n *Node) Kind() Kind {
	return n.kind
}

// Children returns the child nodes
func (n *Node) Children() []*Node {
	return n.children
}

// Gap sets the spacing between stack children; negative values clamp to 0
func (n *Node) Gap(g int) *Node {
	n.gap = max(0, g)
	return n
}

// Pad sets the inset applied before laying out children; negative values clamp to 0
func (n *Node) Pad(p int) *Node {
	n.pad = max(0, p)
	return n
}

// Grow sets the growth weight of child i; negative weights clamp to 0, bad indices are ignored
func (n *Node) Grow(i, weight int) *Node {
	if i < 0 || i >= len(n.weights) {
		return n
	}
	n.weights[i] = max(0, weight)
	return n
}

// Weight returns the growth weight of child i, 0 for bad indices
func (n *Node) Weight(i int) int {
	if i < 0 || i >= len(n.weights) {
		return 0
	}
	return n.weights[i]
}
