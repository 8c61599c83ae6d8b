package brush

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// ErrUnknownBrush is returned for brush types without a stamp definition.
var ErrUnknownBrush = errors.New("unknown brush type")

// Type selects a painting tool.
type Type int

const (
	TypeConstant Type = iota
	TypeLinear
	TypeQuadratic
	TypeSmudge
	TypeSpray
	TypeEraser
	TypeFill
	TypeColorPicker
	TypeEraserConnected
)

var typeNames = []string{
	TypeConstant:        "constant",
	TypeLinear:          "linear",
	TypeQuadratic:       "quadratic",
	TypeSmudge:          "smudge",
	TypeSpray:           "spray",
	TypeEraser:          "eraser",
	TypeFill:            "fill",
	TypeColorPicker:     "picker",
	TypeEraserConnected: "eraser-connected",
}

func (t Type) String() string {
	if t >= 0 && int(t) < len(typeNames) {
		return typeNames[t]
	}
	return fmt.Sprintf("brush(%d)", int(t))
}

// ParseType maps a brush name to its Type. Matching is case-insensitive.
func ParseType(name string) (Type, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	switch name {
	case "color-picker", "colorpicker":
		return TypeColorPicker, nil
	case "connected-eraser":
		return TypeEraserConnected, nil
	}
	for i, n := range typeNames {
		if n == name {
			return Type(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownBrush, name)
}

// Names lists the brush names in declaration order.
func Names() []string {
	out := make([]string, len(typeNames))
	copy(out, typeNames)
	return out
}

// Stamp is a square (2r+1)x(2r+1) grid of paint intensities in [0,1], keyed by
// the rounded Euclidean distance of each cell from the center. An empty stamp
// paints nothing.
type Stamp struct {
	Radius  int
	Weights []float64
}

// Size returns the side length of the stamp.
func (s Stamp) Size() int { return 2*s.Radius + 1 }

// Empty reports whether the stamp has no spatial kernel.
func (s Stamp) Empty() bool { return len(s.Weights) == 0 }

// At returns the intensity at column i, row j of the stamp.
func (s Stamp) At(i, j int) float64 {
	if s.Empty() {
		return 0
	}
	return s.Weights[j*s.Size()+i]
}

// NewStamp builds the intensity kernel for a brush. Region and sampling tools
// (fill, picker, connected eraser) have no spatial kernel and return an empty
// stamp. Unknown types return an empty stamp and ErrUnknownBrush.
func NewStamp(t Type, radius int) (Stamp, error) {
	if radius < 0 {
		return Stamp{}, fmt.Errorf("brush radius must not be negative, got %d", radius)
	}

	var falloff func(d, r float64) float64
	switch t {
	case TypeConstant, TypeSpray, TypeEraser:
		falloff = constantFalloff
	case TypeLinear:
		falloff = linearFalloff
	case TypeQuadratic, TypeSmudge:
		falloff = quadraticFalloff
	case TypeFill, TypeColorPicker, TypeEraserConnected:
		return Stamp{Radius: radius}, nil
	default:
		return Stamp{Radius: radius}, fmt.Errorf("%w: %s", ErrUnknownBrush, t)
	}

	size := 2*radius + 1
	s := Stamp{Radius: radius, Weights: make([]float64, size*size)}
	r := float64(radius)
	for j := 0; j < size; j++ {
		for i := 0; i < size; i++ {
			d := math.Round(math.Hypot(float64(i-radius), float64(j-radius)))
			if d > r {
				continue
			}
			if radius == 0 {
				// Single-cell brush: falloffs divide by r.
				s.Weights[j*size+i] = 1
				continue
			}
			s.Weights[j*size+i] = falloff(d, r)
		}
	}
	return s, nil
}

func constantFalloff(_, _ float64) float64 { return 1 }

func linearFalloff(d, r float64) float64 {
	return math.Max(0, 1-d/r)
}

// quadraticFalloff is (d/r)^2 - 2d/r + 1, i.e. (1 - d/r)^2.
func quadraticFalloff(d, r float64) float64 {
	return math.Max(0, (d*d)/(r*r)-2*d/r+1)
}
