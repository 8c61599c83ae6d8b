package filter

import (
	"fmt"
	"image/color"
	"math"

	"github.com/MeKo-Tech/pixelcanvas/internal/canvas"
)

// Kernel is a row-major grid of convolution weights. Weights need not sum to 1.
type Kernel struct {
	Weights []float64
	Width   int
	Height  int
}

// NewKernel validates that weights cover a width x height grid.
func NewKernel(width, height int, weights []float64) (Kernel, error) {
	if width <= 0 || height <= 0 {
		return Kernel{}, fmt.Errorf("kernel dimensions must be positive, got %dx%d", width, height)
	}
	if len(weights) != width*height {
		return Kernel{}, fmt.Errorf("kernel has %d weights, want %d", len(weights), width*height)
	}
	return Kernel{Weights: weights, Width: width, Height: height}, nil
}

// Row returns a horizontal 1-D kernel.
func Row(weights ...float64) Kernel {
	return Kernel{Weights: weights, Width: len(weights), Height: 1}
}

// Column returns a vertical 1-D kernel.
func Column(weights ...float64) Kernel {
	return Kernel{Weights: weights, Width: 1, Height: len(weights)}
}

// Sum returns the total of all weights.
func (k Kernel) Sum() float64 {
	var s float64
	for _, w := range k.Weights {
		s += w
	}
	return s
}

// Mode selects how accumulated convolution sums become channel values.
type Mode int

const (
	// Normalize divides each sum by the sum of the weights used.
	Normalize Mode = iota
	// Magnitude takes the absolute sum clamped to 255. Used for gradients.
	Magnitude
)

// Convolve applies k to the RGB channels of src and returns a new buffer of the
// same size. The kernel is flipped (true convolution) and samples outside the
// buffer are reflected back in along each axis independently. Alpha is copied
// from the center pixel.
func Convolve(src *canvas.Buffer, k Kernel, mode Mode) *canvas.Buffer {
	w, h := src.Width(), src.Height()
	dst := src.Clone()

	halfW := k.Width / 2
	halfH := k.Height / 2
	weightSum := k.Sum()

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var accR, accG, accB float64

			for ky := k.Height - 1; ky >= 0; ky-- {
				sy := reflect(y+halfH-ky, h)
				for kx := k.Width - 1; kx >= 0; kx-- {
					sx := reflect(x+halfW-kx, w)
					weight := k.Weights[ky*k.Width+kx]
					c := src.At(sx, sy)
					accR += weight * float64(c.R)
					accG += weight * float64(c.G)
					accB += weight * float64(c.B)
				}
			}

			center := src.At(x, y)
			out := color.NRGBA{A: center.A}
			switch mode {
			case Magnitude:
				out.R = toChannel(math.Min(math.Abs(accR), 255))
				out.G = toChannel(math.Min(math.Abs(accG), 255))
				out.B = toChannel(math.Min(math.Abs(accB), 255))
			default:
				if weightSum == 0 {
					// Zero-sum kernels cannot be normalized.
					out = center
				} else {
					out.R = toChannel(accR / weightSum)
					out.G = toChannel(accG / weightSum)
					out.B = toChannel(accB / weightSum)
				}
			}
			dst.Set(x, y, out)
		}
	}

	return dst
}

// reflect maps an out-of-range coordinate back into [0, n). Negative
// coordinates mirror around 0 without repeating the edge; coordinates at or
// past n mirror so that n maps to n-1. Repeats until in range, which matters
// when the kernel is wider than the buffer.
func reflect(v, n int) int {
	for v < 0 || v >= n {
		if v < 0 {
			v = -v
		} else {
			v = (n - 1) - (v % n)
		}
	}
	return v
}

// toChannel rounds a 0..255 float to the nearest channel value, clamping.
func toChannel(v float64) uint8 {
	if math.IsNaN(v) {
		return 0
	}
	v = math.Round(v)
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}

// unitToChannel converts a normalized 0..1 value to a channel.
func unitToChannel(v float64) uint8 {
	return toChannel(v * 255)
}

// channelToUnit converts a channel to the normalized 0..1 range.
func channelToUnit(c uint8) float64 {
	return float64(c) / 255.0
}
