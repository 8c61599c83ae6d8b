package filter

import (
	"fmt"
	"math"

	"github.com/MeKo-Tech/pixelcanvas/internal/canvas"
)

// gaussian evaluates the normal density with mean 0 at x.
func gaussian(x, sigma float64) float64 {
	return math.Exp(-(x*x)/(2*sigma*sigma)) / math.Sqrt(2*math.Pi*sigma*sigma)
}

// GaussianWeights samples the Gaussian density at the 2*radius+1 integer
// offsets around the center with sigma = radius/3. The samples are not
// renormalized; Convolve normalizes by their sum. Radius 0 yields the identity
// weight.
func GaussianWeights(radius int) []float64 {
	if radius <= 0 {
		return []float64{1}
	}
	sigma := float64(radius) / 3.0
	weights := make([]float64, 2*radius+1)
	for i := range weights {
		weights[i] = gaussian(float64(i-radius), sigma)
	}
	return weights
}

// Blur applies a separable Gaussian blur: a horizontal pass followed by a
// vertical pass over the horizontal result.
func Blur(src *canvas.Buffer, radius int) (*canvas.Buffer, error) {
	if radius < 0 {
		return nil, fmt.Errorf("blur radius must not be negative, got %d", radius)
	}
	weights := GaussianWeights(radius)

	horizontal := Convolve(src, Row(weights...), Normalize)
	return Convolve(horizontal, Column(weights...), Normalize), nil
}
