package render

import (
	"bytes"
	"fmt"
	"unicode/utf8"

	"github.com/lixenwraith/gridterm/terminal"
)

// Output is the terminal side of the renderer
type Output interface {
	Size() (cols, rows int)
	Batch(chunks ...[]byte) error
}

// Stats describes the most recent commit
type Stats struct {
	Runs        int  // Positioned writes emitted
	Cells       int  // Cells written
	StyleCodes  int  // SGR sequences emitted, trailing reset excluded
	Bytes       int  // Total bytes handed to the output
	FullRepaint bool // Screen was cleared before the diff
}

var sgrReset = []byte(terminal.SGRReset)

// DiffRenderer synchronizes the terminal to successive grids with minimal writes
// It retains the last committed grid as the record of what the terminal shows
type DiffRenderer struct {
	out    Output
	prev   *Grid  // nil means unknown: next commit repaints everything
	active []byte // SGR sequence currently in effect on the terminal
	buf    []byte // Persistent frame buffer, reused across commits
	key    []byte // Scratch for the run's SGR
	stats  Stats
}

// NewDiffRenderer creates a renderer writing to out
func NewDiffRenderer(out Output) *DiffRenderer {
	return &DiffRenderer{
		out:    out,
		active: append([]byte(nil), sgrReset...),
		buf:    make([]byte, 0, 64*1024),
		key:    make([]byte, 0, 32),
	}
}

// NewGrid returns a blank grid sized to the output's current dimensions
func (r *DiffRenderer) NewGrid() *Grid {
	cols, rows := r.out.Size()
	return NewGrid(cols, rows)
}

// Reset forgets the terminal contents; the next commit clears and repaints
func (r *DiffRenderer) Reset() {
	r.prev = nil
	r.active = append(r.active[:0], sgrReset...)
}

// Stats returns counters for the most recent commit
func (r *DiffRenderer) Stats() Stats {
	return r.stats
}

// Commit diffs next against the retained grid and writes the delta in a single batch
// The retained grid is updated before the write, so a write error leaves it claiming
// content the terminal may lack; callers Reset after an error to heal on the next frame
func (r *DiffRenderer) Commit(next *Grid) error {
	if next == nil {
		return nil
	}

	r.stats = Stats{}
	buf := r.buf[:0]

	if !next.SameShape(r.prev) {
		r.prev = NewGrid(next.cols, next.rows)
		buf = append(buf, terminal.ClearHome...)
		r.active = append(r.active[:0], sgrReset...)
		r.stats.FullRepaint = true
	}

	cols := next.cols
	for y := 0; y < next.rows; y++ {
		nrow := next.Row(y)
		prow := r.prev.Row(y)

		x := 0
		for x < cols {
			if nrow[x] == prow[x] {
				x++
				continue
			}

			// Run: consecutive changed cells sharing the first cell's style
			style := nrow[x].Style
			end := x + 1
			for end < cols && nrow[end] != prow[end] && nrow[end].Style == style {
				end++
			}

			buf = terminal.AppendCursorPos(buf, x, y)
			buf = r.appendStyle(buf, style)

			for i := x; i < end; i++ {
				buf = appendGlyph(buf, nrow[i].Rune)
				prow[i] = nrow[i]
			}

			r.stats.Runs++
			r.stats.Cells += end - x
			x = end
		}
	}

	// Never leave the terminal in a styled state between frames
	buf = append(buf, sgrReset...)
	r.active = append(r.active[:0], sgrReset...)

	r.buf = buf
	r.stats.Bytes = len(buf)

	if err := r.out.Batch(buf); err != nil {
		return fmt.Errorf("commit frame: %w", err)
	}
	return nil
}

// appendStyle emits the run's SGR unless it is already active
// A set-style issued over a non-reset state is prefixed with 0 so attributes never bleed between runs
func (r *DiffRenderer) appendStyle(buf []byte, style Style) []byte {
	r.key = style.AppendSGR(r.key[:0])
	if bytes.Equal(r.key, r.active) {
		return buf
	}

	if style.hasCodes() && !bytes.Equal(r.active, sgrReset) {
		buf = append(buf, "\x1b[0;"...)
		buf = style.appendCodes(buf)
		buf = append(buf, 'm')
	} else {
		buf = append(buf, r.key...)
	}

	r.active = append(r.active[:0], r.key...)
	r.stats.StyleCodes++
	return buf
}

// appendGlyph writes a rune, substituting spaces for control bytes that would move the cursor
func appendGlyph(buf []byte, ch rune) []byte {
	if ch < 0x20 || ch == 0x7f {
		return append(buf, ' ')
	}
	return utf8.AppendRune(buf, ch)
}
