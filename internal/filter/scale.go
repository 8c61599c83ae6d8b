package filter

import (
	"errors"
	"fmt"
	"image/color"
	"math"

	"github.com/MeKo-Tech/pixelcanvas/internal/canvas"
)

// ErrInvalidScale is returned when a scale factor is not positive or would
// produce an empty image.
var ErrInvalidScale = errors.New("invalid scale")

// triangle is the tent resampling weight. Minification (scale < 1) widens the
// tent to 1/scale and lowers its peak to keep the area at 1.
func triangle(x, scale float64) float64 {
	r := 1.0
	if scale < 1 {
		r = 1.0 / scale
	}
	if x < -r || x > r {
		return 0
	}
	return (1 - math.Abs(x)/r) / r
}

// support returns how far from the back-projected center source samples
// contribute.
func support(scale float64) float64 {
	if scale >= 1 {
		return 1
	}
	return 1 / scale
}

// OutputSize returns the geometry Scale will produce.
func OutputSize(width, height int, scaleX, scaleY float64) (int, int, error) {
	if !(scaleX > 0) || !(scaleY > 0) || math.IsInf(scaleX, 0) || math.IsInf(scaleY, 0) {
		return 0, 0, fmt.Errorf("%w: factors must be positive, got %g x %g", ErrInvalidScale, scaleX, scaleY)
	}
	outW := int(math.Round(float64(width) * scaleX))
	outH := int(math.Round(float64(height) * scaleY))
	if outW <= 0 || outH <= 0 {
		return 0, 0, fmt.Errorf("%w: %dx%d scaled by %g x %g is empty", ErrInvalidScale, width, height, scaleX, scaleY)
	}
	return outW, outH, nil
}

// Scale resamples src by independent horizontal and vertical factors with a
// two-pass separable triangle filter. The X pass runs over every source row
// and produces an intermediate of the output width; the Y pass then produces
// the output height.
func Scale(src *canvas.Buffer, scaleX, scaleY float64) (*canvas.Buffer, error) {
	outW, outH, err := OutputSize(src.Width(), src.Height(), scaleX, scaleY)
	if err != nil {
		return nil, err
	}

	intermediate, err := canvas.New(outW, src.Height())
	if err != nil {
		return nil, err
	}
	for y := 0; y < src.Height(); y++ {
		resampleLine(src.Width(), outW, scaleX,
			func(i int) color.NRGBA { return src.At(i, y) },
			func(o int, c color.NRGBA) { intermediate.Set(o, y, c) })
	}

	dst, err := canvas.New(outW, outH)
	if err != nil {
		return nil, err
	}
	for x := 0; x < outW; x++ {
		resampleLine(src.Height(), outH, scaleY,
			func(i int) color.NRGBA { return intermediate.At(x, i) },
			func(o int, c color.NRGBA) { dst.Set(x, o, c) })
	}

	return dst, nil
}

// resampleLine resamples one row or column of length inLen into outLen
// samples. Output pixels are opaque.
func resampleLine(inLen, outLen int, scale float64, get func(int) color.NRGBA, put func(int, color.NRGBA)) {
	sup := support(scale)
	for o := 0; o < outLen; o++ {
		center := float64(o)/scale + (1-scale)/(2*scale)
		left := int(math.Ceil(center - sup))
		right := int(math.Floor(center + sup))

		var accR, accG, accB, weightSum float64
		for i := left; i <= right; i++ {
			if i < 0 || i >= inLen {
				continue
			}
			w := triangle(float64(i)-center, scale)
			c := get(i)
			weightSum += w
			accR += w * channelToUnit(c.R)
			accG += w * channelToUnit(c.G)
			accB += w * channelToUnit(c.B)
		}

		if weightSum == 0 {
			// No tap landed on the tent; use the nearest source sample.
			nearest := int(math.Round(center))
			nearest = max(0, min(inLen-1, nearest))
			c := get(nearest)
			put(o, color.NRGBA{R: c.R, G: c.G, B: c.B, A: 255})
			continue
		}

		put(o, color.NRGBA{
			R: unitToChannel(accR / weightSum),
			G: unitToChannel(accG / weightSum),
			B: unitToChannel(accB / weightSum),
			A: 255,
		})
	}
}
