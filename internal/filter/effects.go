package filter

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/aquilax/go-perlin"
	"github.com/disintegration/gift"

	"github.com/MeKo-Tech/pixelcanvas/internal/canvas"
)

// applyGift runs a gift filter chain over src and returns the result as a new buffer.
func applyGift(src *canvas.Buffer, filters ...gift.Filter) (*canvas.Buffer, error) {
	g := gift.New(filters...)

	in := src.Image()
	dst := image.NewNRGBA(g.Bounds(in.Bounds()))
	g.Draw(dst, in)

	out, err := canvas.FromImage(dst)
	if err != nil {
		return nil, fmt.Errorf("failed to convert filtered image: %w", err)
	}
	return out, nil
}

// Sharpen applies an unsharp mask. sigma controls the blur used to find edges
// and amount how strongly they are boosted.
func Sharpen(src *canvas.Buffer, sigma, amount float32) (*canvas.Buffer, error) {
	if sigma <= 0 {
		return nil, fmt.Errorf("sharpen sigma must be positive, got %g", sigma)
	}
	return applyGift(src, gift.UnsharpMask(sigma, amount, 0))
}

// Desaturate converts src to grayscale.
func Desaturate(src *canvas.Buffer) (*canvas.Buffer, error) {
	return applyGift(src, gift.Grayscale())
}

// Invert negates the color channels of src.
func Invert(src *canvas.Buffer) (*canvas.Buffer, error) {
	return applyGift(src, gift.Invert())
}

// Grain perturbs RGB with deterministic Perlin noise.
// scale: noise feature size in pixels (larger = smoother)
// strength: 0 leaves the image untouched, 1 shifts channels by up to ±128
func Grain(src *canvas.Buffer, scale, strength float64, seed int64) (*canvas.Buffer, error) {
	if scale <= 0 {
		return nil, fmt.Errorf("grain scale must be positive, got %g", scale)
	}
	if strength < 0 {
		strength = 0
	}
	if strength > 1 {
		strength = 1
	}

	p := perlin.NewPerlin(2.0, 2.0, 3, seed)
	dst := src.Clone()

	for y := 0; y < dst.Height(); y++ {
		for x := 0; x < dst.Width(); x++ {
			val := p.Noise2D(float64(x)/scale, float64(y)/scale)

			// Map to 0..255 like a grayscale noise texture, then center on 128.
			noise := math.Max(0, math.Min(255, (val+1.0)/2.0*255))
			delta := (noise - 128.0) * strength

			c := dst.At(x, y)
			dst.Set(x, y, color.NRGBA{
				R: toChannel(float64(c.R) + delta),
				G: toChannel(float64(c.G) + delta),
				B: toChannel(float64(c.B) + delta),
				A: c.A,
			})
		}
	}

	return dst, nil
}
