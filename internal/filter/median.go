package filter

import (
	"container/heap"
	"fmt"
	"image/color"

	"github.com/MeKo-Tech/pixelcanvas/internal/canvas"
)

// maxHeap is a max-heap of channel values.
type maxHeap []uint8

func (h maxHeap) Len() int           { return len(h) }
func (h maxHeap) Less(i, j int) bool { return h[i] > h[j] }
func (h maxHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *maxHeap) Push(x any)        { *h = append(*h, x.(uint8)) }
func (h *maxHeap) Pop() any {
	old := *h
	n := len(old)
	v := old[n-1]
	*h = old[:n-1]
	return v
}

// lowerMedian returns the value of rank (n-1)/2 in ascending order, i.e. the
// lower median for even n. It keeps the (n-1)/2+1 smallest samples in a
// max-heap and peeks the top. h is reused as scratch space.
func lowerMedian(samples []uint8, h *maxHeap) uint8 {
	keep := (len(samples)-1)/2 + 1
	*h = (*h)[:0]
	for _, s := range samples {
		heap.Push(h, s)
		if h.Len() > keep {
			heap.Pop(h)
		}
	}
	return (*h)[0]
}

// Median replaces every pixel's R, G and B with the lower median of that
// channel over the square window of the given radius. Neighbors outside the
// buffer are skipped, so border windows hold fewer samples. Output is opaque.
func Median(src *canvas.Buffer, radius int) (*canvas.Buffer, error) {
	if radius < 0 {
		return nil, fmt.Errorf("median radius must not be negative, got %d", radius)
	}
	w, h := src.Width(), src.Height()
	dst := src.Clone()

	side := 2*radius + 1
	reds := make([]uint8, 0, side*side)
	greens := make([]uint8, 0, side*side)
	blues := make([]uint8, 0, side*side)
	scratch := make(maxHeap, 0, side*side)

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			reds, greens, blues = reds[:0], greens[:0], blues[:0]
			for dy := -radius; dy <= radius; dy++ {
				for dx := -radius; dx <= radius; dx++ {
					nx, ny := x+dx, y+dy
					if !src.InBounds(nx, ny) {
						continue
					}
					c := src.At(nx, ny)
					reds = append(reds, c.R)
					greens = append(greens, c.G)
					blues = append(blues, c.B)
				}
			}
			dst.Set(x, y, color.NRGBA{
				R: lowerMedian(reds, &scratch),
				G: lowerMedian(greens, &scratch),
				B: lowerMedian(blues, &scratch),
				A: 255,
			})
		}
	}

	return dst, nil
}
