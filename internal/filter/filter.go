// Package filter implements the neighborhood filters of the editor: separable
// blur and edge detection on a shared convolution core, triangle-filter
// resampling, median and bilateral smoothing, plus a few supplementary effects.
//
// Every filter reads its input and returns a new buffer; Apply commits the
// result into the live buffer in one step.
package filter

import (
	"errors"
	"fmt"
	"strings"

	"github.com/MeKo-Tech/pixelcanvas/internal/canvas"
)

// ErrUnknownFilter is returned when a filter type has no implementation.
var ErrUnknownFilter = errors.New("unknown filter")

// Type selects a filter.
type Type int

const (
	TypeNone Type = iota
	TypeBlur
	TypeEdgeDetect
	TypeScale
	TypeMedian
	TypeBilateral
	TypeSharpen
	TypeGrayscale
	TypeInvert
	TypeGrain
)

var typeNames = map[Type]string{
	TypeNone:       "none",
	TypeBlur:       "blur",
	TypeEdgeDetect: "edge",
	TypeScale:      "scale",
	TypeMedian:     "median",
	TypeBilateral:  "bilateral",
	TypeSharpen:    "sharpen",
	TypeGrayscale:  "grayscale",
	TypeInvert:     "invert",
	TypeGrain:      "grain",
}

func (t Type) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("filter(%d)", int(t))
}

// ParseType maps a filter name to its Type. Matching is case-insensitive.
func ParseType(name string) (Type, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "edge-detect" || name == "sobel" {
		return TypeEdgeDetect, nil
	}
	for t, n := range typeNames {
		if n == name {
			return t, nil
		}
	}
	return TypeNone, fmt.Errorf("%w: %q", ErrUnknownFilter, name)
}

// Names lists the selectable filter names in declaration order.
func Names() []string {
	names := make([]string, 0, len(typeNames)-1)
	for t := TypeBlur; t <= TypeGrain; t++ {
		names = append(names, typeNames[t])
	}
	return names
}

// Params are the user-chosen filter settings.
type Params struct {
	Type            Type
	BlurRadius      int
	EdgeSensitivity float64
	ScaleX          float64
	ScaleY          float64
	MedianRadius    int
	BilateralRadius int

	SharpenSigma  float32
	SharpenAmount float32
	GrainScale    float64
	GrainStrength float64
	GrainSeed     int64
}

// DefaultParams returns the settings a new session starts with.
func DefaultParams() Params {
	return Params{
		Type:            TypeBlur,
		BlurRadius:      2,
		EdgeSensitivity: 0.5,
		ScaleX:          1,
		ScaleY:          1,
		MedianRadius:    1,
		BilateralRadius: 2,
		SharpenSigma:    1.0,
		SharpenAmount:   1.5,
		GrainScale:      8.0,
		GrainStrength:   0.2,
		GrainSeed:       1337,
	}
}

// Run computes the filtered image without touching src.
func Run(src *canvas.Buffer, p Params) (*canvas.Buffer, error) {
	if src == nil {
		return nil, errors.New("source buffer is nil")
	}

	switch p.Type {
	case TypeBlur:
		return Blur(src, p.BlurRadius)
	case TypeEdgeDetect:
		return EdgeDetect(src, p.EdgeSensitivity)
	case TypeScale:
		return Scale(src, p.ScaleX, p.ScaleY)
	case TypeMedian:
		return Median(src, p.MedianRadius)
	case TypeBilateral:
		return Bilateral(src, p.BilateralRadius, DefaultSigmaSpatial, DefaultSigmaRange)
	case TypeSharpen:
		return Sharpen(src, p.SharpenSigma, p.SharpenAmount)
	case TypeGrayscale:
		return Desaturate(src)
	case TypeInvert:
		return Invert(src)
	case TypeGrain:
		return Grain(src, p.GrainScale, p.GrainStrength, p.GrainSeed)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownFilter, p.Type)
	}
}

// Apply runs the selected filter and commits the result into buf, including
// any geometry change. On error buf is left untouched.
func Apply(buf *canvas.Buffer, p Params) error {
	out, err := Run(buf, p)
	if err != nil {
		return err
	}
	buf.Replace(out)
	return nil
}
