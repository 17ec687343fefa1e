// Package canvas places rendered blocks of text at cell coordinates.
package canvas

import (
	"strings"

	"github.com/charmbracelet/x/cellbuf"
	"github.com/muesli/reflow/truncate"

	charmansi "github.com/charmbracelet/x/ansi"

	"github.com/macropower/pagelegend/pkg/layout"
)

// Canvas is a fixed size grid of cells. Blocks drawn on it may contain ANSI
// sequences.
type Canvas struct {
	lines         []string
	width, height int
}

// New creates a blank [Canvas].
func New(width, height int) *Canvas {
	width = max(width, 0)
	height = max(height, 0)

	lines := make([]string, height)
	for i := range lines {
		lines[i] = strings.Repeat(" ", width)
	}

	return &Canvas{lines: lines, width: width, height: height}
}

// Bounds returns the area of the canvas.
func (c *Canvas) Bounds() layout.Rect {
	return layout.Rect{Size: layout.Size{Width: c.width, Height: c.height}}
}

// Draw places block with its top left corner at p.
func (c *Canvas) Draw(p layout.Point, block string) {
	c.DrawClipped(p, block, c.Bounds())
}

// DrawClipped places block with its top left corner at p. Only the cells
// inside clip are drawn.
func (c *Canvas) DrawClipped(p layout.Point, block string, clip layout.Rect) {
	clip = intersect(clip, c.Bounds())
	if clip.Empty() {
		return
	}

	clipMax := clip.Max()

	for i, line := range strings.Split(block, "\n") {
		row := p.Y + i
		if row < clip.Y || row >= clipMax.Y {
			continue
		}

		w := charmansi.StringWidth(line)
		start := max(p.X, clip.X)
		end := min(p.X+w, clipMax.X)
		if start >= end {
			continue
		}

		seg := line
		if start > p.X {
			seg = charmansi.TruncateLeft(seg, start-p.X, "")
		}
		seg = charmansi.Truncate(seg, end-start, "")

		c.lines[row] = splice(c.lines[row], c.width, start, seg)
	}
}

// String returns the canvas contents.
func (c *Canvas) String() string {
	return strings.Join(c.lines, "\n")
}

// splice writes seg over bg, starting at column x.
func splice(bg string, width, x int, seg string) string {
	segWidth := charmansi.StringWidth(seg)

	var b strings.Builder

	left := truncate.String(bg, uint(x)) //nolint:gosec // G115: x is never negative.
	b.WriteString(left)
	if lw := charmansi.StringWidth(left); lw < x {
		// A wide cell was cut in half.
		b.WriteString(strings.Repeat(" ", x-lw))
	}

	b.WriteString(seg)

	pos := x + segWidth
	if pos < width {
		right := charmansi.TruncateLeft(bg, pos, "")
		if rw := charmansi.StringWidth(right); rw < width-pos {
			b.WriteString(strings.Repeat(" ", width-pos-rw))
		}
		b.WriteString(right)
	}

	return b.String()
}

func intersect(a, b layout.Rect) layout.Rect {
	aMax, bMax := a.Max(), b.Max()

	x0, y0 := max(a.X, b.X), max(a.Y, b.Y)
	x1, y1 := min(aMax.X, bMax.X), min(aMax.Y, bMax.Y)

	return layout.Rect{
		Point: layout.Point{X: x0, Y: y0},
		Size:  layout.Size{Width: max(x1-x0, 0), Height: max(y1-y0, 0)},
	}
}

// Wrap wraps s to width cells, breaking on spaces and dashes.
func Wrap(s string, width int) string {
	if width <= 0 {
		return s
	}

	return cellbuf.Wrap(s, width, " -")
}

// Truncate cuts s to width cells, ending it with tail when cut.
func Truncate(s string, width int, tail string) string {
	if width <= 0 {
		return ""
	}

	return truncate.StringWithTail(s, uint(width), tail) //nolint:gosec // G115: width is positive.
}
