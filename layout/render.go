package layout

import "github.com/lixenwraith/gridterm/render"

// Partition divides length among weights: floor(length*w/total) each, then the
// rounding remainder one unit at a time from index 0
// The result always sums to max(length, 0); all-zero weights count as all ones
func Partition(length int, weights []int) []int {
	out := make([]int, len(weights))
	if len(weights) == 0 || length <= 0 {
		return out
	}

	total := 0
	for _, w := range weights {
		total += max(0, w)
	}

	used := 0
	for i, w := range weights {
		if total == 0 {
			out[i] = length / len(weights)
		} else {
			out[i] = length * max(0, w) / total
		}
		used += out[i]
	}

	// Each floor loses less than one unit, so the remainder is below len(weights)
	for i := 0; used < length; i++ {
		out[i]++
		used++
	}
	return out
}

// Render evaluates the tree rooted at n into area
func Render(n *Node, area Rect, p *render.Painter) {
	if n == nil {
		return
	}

	switch n.kind {
	case KindLeaf:
		if n.draw != nil && !area.Empty() {
			n.draw(p, area)
		}

	case KindOverlay:
		inner := area.Inset(n.pad)
		if inner.Empty() {
			return
		}
		for _, child := range n.children {
			Render(child, inner, p)
		}

	case KindVStack, KindHStack:
		renderStack(n, area, p)
	}
}

// renderStack splits the padded area along the stack axis by growth weight
func renderStack(n *Node, area Rect, p *render.Painter) {
	inner := area.Inset(n.pad)
	count := len(n.children)
	if inner.Empty() || count == 0 {
		return
	}

	vertical := n.kind == KindVStack
	axis := inner.W
	if vertical {
		axis = inner.H
	}

	free := axis - n.gap*(count-1)
	if free <= 0 {
		return
	}

	lengths := Partition(free, n.weights)
	pos := 0
	for i, child := range n.children {
		size := lengths[i]
		if size > 0 {
			var r Rect
			if vertical {
				r = Rect{X: inner.X, Y: inner.Y + pos, W: inner.W, H: size}
			} else {
				r = Rect{X: inner.X + pos, Y: inner.Y, W: size, H: inner.H}
			}
			Render(child, r, p)
		}
		// A skipped child still consumes its gap
		pos += size + n.gap
	}
}
