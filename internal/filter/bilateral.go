package filter

import (
	"fmt"
	"image/color"
	"math"

	"github.com/MeKo-Tech/pixelcanvas/internal/canvas"
)

const (
	// DefaultSigmaSpatial is the spatial standard deviation in pixels.
	DefaultSigmaSpatial = 3.0
	// DefaultSigmaRange is the range standard deviation on normalized channels.
	DefaultSigmaRange = 0.1
)

// Bilateral smooths src while preserving edges. Each neighbor in the square
// window contributes a spatial Gaussian weight over its Euclidean distance
// times a per-channel range Gaussian weight over the normalized difference to
// the center value. Every channel is normalized by its own weight sum.
// Neighbors outside the buffer are skipped. Output is opaque.
func Bilateral(src *canvas.Buffer, radius int, sigmaSpatial, sigmaRange float64) (*canvas.Buffer, error) {
	if radius < 0 {
		return nil, fmt.Errorf("bilateral radius must not be negative, got %d", radius)
	}
	if sigmaSpatial <= 0 || sigmaRange <= 0 {
		return nil, fmt.Errorf("bilateral sigmas must be positive, got %g/%g", sigmaSpatial, sigmaRange)
	}
	w, h := src.Width(), src.Height()
	dst := src.Clone()

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			center := src.At(x, y)
			cr, cg, cb := channelToUnit(center.R), channelToUnit(center.G), channelToUnit(center.B)

			var accR, accG, accB float64
			var wR, wG, wB float64

			for dy := -radius; dy <= radius; dy++ {
				for dx := -radius; dx <= radius; dx++ {
					nx, ny := x+dx, y+dy
					if !src.InBounds(nx, ny) {
						continue
					}
					c := src.At(nx, ny)
					nr, ng, nb := channelToUnit(c.R), channelToUnit(c.G), channelToUnit(c.B)

					spatial := gaussian(math.Hypot(float64(dx), float64(dy)), sigmaSpatial)
					kr := spatial * gaussian(cr-nr, sigmaRange)
					kg := spatial * gaussian(cg-ng, sigmaRange)
					kb := spatial * gaussian(cb-nb, sigmaRange)

					accR += nr * kr
					accG += ng * kg
					accB += nb * kb
					wR += kr
					wG += kg
					wB += kb
				}
			}

			dst.Set(x, y, color.NRGBA{
				R: normalizedOr(accR, wR, center.R),
				G: normalizedOr(accG, wG, center.G),
				B: normalizedOr(accB, wB, center.B),
				A: 255,
			})
		}
	}

	return dst, nil
}

// normalizedOr divides a normalized accumulator by its weight, falling back to
// the source channel when the weight underflowed to zero.
func normalizedOr(acc, weight float64, fallback uint8) uint8 {
	if weight == 0 {
		return fallback
	}
	return unitToChannel(acc / weight)
}
