// Package region implements 4-connected region edits: flood fill and
// connected erase.
package region

import (
	"image"
	"image/color"

	"github.com/MeKo-Tech/pixelcanvas/internal/canvas"
)

// neighbors4 are the offsets of the 4-connected neighborhood.
var neighbors4 = [4]image.Point{{X: 1}, {X: -1}, {Y: 1}, {Y: -1}}

// FloodFill repaints every pixel 4-connected to (x, y) whose color equals the
// seed color with fill. It returns the number of repainted pixels. A seed
// outside the buffer is a no-op.
func FloodFill(buf *canvas.Buffer, x, y int, fill color.NRGBA) int {
	if !buf.InBounds(x, y) {
		return 0
	}
	target := buf.At(x, y)
	return walk(buf, x, y, func(c color.NRGBA) bool { return c == target }, fill)
}

// EraseConnected resets every non-background pixel 4-connected to (x, y) to
// background. Unlike FloodFill the region need not share one color. It returns
// the number of erased pixels.
func EraseConnected(buf *canvas.Buffer, x, y int, background color.NRGBA) int {
	if !buf.InBounds(x, y) {
		return 0
	}
	return walk(buf, x, y, func(c color.NRGBA) bool { return c != background }, background)
}

// walk runs a breadth-first search from the seed, painting eligible pixels
// and expanding only through them. Pixels are marked visited when enqueued so
// none is queued twice.
func walk(buf *canvas.Buffer, x, y int, eligible func(color.NRGBA) bool, paint color.NRGBA) int {
	w, h := buf.Width(), buf.Height()
	visited := make([]bool, w*h)

	queue := []image.Point{{X: x, Y: y}}
	visited[buf.Index(x, y)] = true
	painted := 0

	for len(queue) > 0 {
		p := queue[0]
		queue = queue[1:]

		if !eligible(buf.At(p.X, p.Y)) {
			continue
		}
		buf.Set(p.X, p.Y, paint)
		painted++

		for _, d := range neighbors4 {
			n := p.Add(d)
			if !buf.InBounds(n.X, n.Y) {
				continue
			}
			i := buf.Index(n.X, n.Y)
			if visited[i] {
				continue
			}
			visited[i] = true
			queue = append(queue, n)
		}
	}

	return painted
}
