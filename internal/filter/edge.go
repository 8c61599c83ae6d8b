package filter

import (
	"fmt"
	"image/color"
	"math"

	"github.com/MeKo-Tech/pixelcanvas/internal/canvas"
)

// Separable Sobel factors. Each gradient is a row pass followed by a column pass.
var (
	sobelXRow    = Row(-1, 0, 1)
	sobelXColumn = Column(1, 2, 1)
	sobelYRow    = Row(1, 2, 1)
	sobelYColumn = Column(1, 0, -1)
)

// Luminance returns the Rec. 601 luma of c rounded to a channel value.
func Luminance(c color.NRGBA) uint8 {
	return toChannel(0.299*float64(c.R) + 0.587*float64(c.G) + 0.114*float64(c.B))
}

// Grayscale replicates the luma of every pixel into R, G and B. Alpha is kept.
func Grayscale(src *canvas.Buffer) *canvas.Buffer {
	dst := src.Clone()
	for y := 0; y < dst.Height(); y++ {
		for x := 0; x < dst.Width(); x++ {
			c := dst.At(x, y)
			l := Luminance(c)
			dst.Set(x, y, color.NRGBA{R: l, G: l, B: l, A: c.A})
		}
	}
	return dst
}

// EdgeDetect computes a Sobel gradient magnitude image scaled by sensitivity.
// Every intermediate pass is clamped to [0,255] before the next one runs.
func EdgeDetect(src *canvas.Buffer, sensitivity float64) (*canvas.Buffer, error) {
	if sensitivity < 0 {
		return nil, fmt.Errorf("edge sensitivity must not be negative, got %f", sensitivity)
	}
	gray := Grayscale(src)

	gx := Convolve(Convolve(gray, sobelXRow, Magnitude), sobelXColumn, Magnitude)
	gy := Convolve(Convolve(gray, sobelYRow, Magnitude), sobelYColumn, Magnitude)

	dst := gray.Clone()
	for y := 0; y < dst.Height(); y++ {
		for x := 0; x < dst.Width(); x++ {
			rx := float64(gx.At(x, y).R)
			ry := float64(gy.At(x, y).R)
			m := toChannel(sensitivity * math.Sqrt(rx*rx+ry*ry))
			dst.Set(x, y, color.NRGBA{R: m, G: m, B: m, A: 255})
		}
	}
	return dst, nil
}
