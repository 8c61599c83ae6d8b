// Package config holds the user-chosen tool parameters and loads them from
// viper (flags, environment, config.yaml).
package config

import (
	"errors"
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/spf13/viper"

	"github.com/MeKo-Tech/pixelcanvas/internal/brush"
	"github.com/MeKo-Tech/pixelcanvas/internal/filter"
)

// ErrInvalid is returned for out-of-range or unparsable settings.
var ErrInvalid = errors.New("invalid configuration")

// Viper keys.
const (
	KeyBrush   = "tool.brush"
	KeyRadius  = "tool.radius"
	KeyDensity = "tool.density"
	KeyColor   = "tool.color"
	KeySeed    = "tool.seed"

	KeyFilter          = "filter.type"
	KeyBlurRadius      = "filter.blur_radius"
	KeyEdgeSensitivity = "filter.edge_sensitivity"
	KeyScaleX          = "filter.scale_x"
	KeyScaleY          = "filter.scale_y"
	KeyMedianRadius    = "filter.median_radius"
	KeyBilateralRadius = "filter.bilateral_radius"
	KeySharpenSigma    = "filter.sharpen_sigma"
	KeySharpenAmount   = "filter.sharpen_amount"
	KeyGrainScale      = "filter.grain_scale"
	KeyGrainStrength   = "filter.grain_strength"
	KeyGrainSeed       = "filter.grain_seed"
)

// Tool is the complete tool configuration passed into each editor operation.
type Tool struct {
	Brush  brush.Settings
	Filter filter.Params
	// Seed fixes the spray random source when non-zero.
	Seed int64
}

// Default returns the configuration a new session starts with.
func Default() Tool {
	return Tool{
		Brush:  brush.DefaultSettings(),
		Filter: filter.DefaultParams(),
	}
}

// SetDefaults registers the default values of every key on v.
func SetDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault(KeyBrush, d.Brush.Type.String())
	v.SetDefault(KeyRadius, d.Brush.Radius)
	v.SetDefault(KeyDensity, d.Brush.Density)
	v.SetDefault(KeyColor, FormatColor(d.Brush.Color))
	v.SetDefault(KeySeed, d.Seed)

	v.SetDefault(KeyFilter, d.Filter.Type.String())
	v.SetDefault(KeyBlurRadius, d.Filter.BlurRadius)
	v.SetDefault(KeyEdgeSensitivity, d.Filter.EdgeSensitivity)
	v.SetDefault(KeyScaleX, d.Filter.ScaleX)
	v.SetDefault(KeyScaleY, d.Filter.ScaleY)
	v.SetDefault(KeyMedianRadius, d.Filter.MedianRadius)
	v.SetDefault(KeyBilateralRadius, d.Filter.BilateralRadius)
	v.SetDefault(KeySharpenSigma, d.Filter.SharpenSigma)
	v.SetDefault(KeySharpenAmount, d.Filter.SharpenAmount)
	v.SetDefault(KeyGrainScale, d.Filter.GrainScale)
	v.SetDefault(KeyGrainStrength, d.Filter.GrainStrength)
	v.SetDefault(KeyGrainSeed, d.Filter.GrainSeed)
}

// Load reads a Tool from v. Keys that are not set keep their defaults.
func Load(v *viper.Viper) (Tool, error) {
	if v == nil {
		v = viper.GetViper()
	}
	SetDefaults(v)

	t := Default()

	bt, err := brush.ParseType(v.GetString(KeyBrush))
	if err != nil {
		return Tool{}, fmt.Errorf("%w: %s: %v", ErrInvalid, KeyBrush, err)
	}
	t.Brush.Type = bt
	t.Brush.Radius = v.GetInt(KeyRadius)
	t.Brush.Density = v.GetInt(KeyDensity)
	c, err := ParseColor(v.GetString(KeyColor))
	if err != nil {
		return Tool{}, fmt.Errorf("%w: %s: %v", ErrInvalid, KeyColor, err)
	}
	t.Brush.Color = c
	t.Seed = v.GetInt64(KeySeed)

	ft, err := filter.ParseType(v.GetString(KeyFilter))
	if err != nil {
		return Tool{}, fmt.Errorf("%w: %s: %v", ErrInvalid, KeyFilter, err)
	}
	t.Filter.Type = ft
	t.Filter.BlurRadius = v.GetInt(KeyBlurRadius)
	t.Filter.EdgeSensitivity = v.GetFloat64(KeyEdgeSensitivity)
	t.Filter.ScaleX = v.GetFloat64(KeyScaleX)
	t.Filter.ScaleY = v.GetFloat64(KeyScaleY)
	t.Filter.MedianRadius = v.GetInt(KeyMedianRadius)
	t.Filter.BilateralRadius = v.GetInt(KeyBilateralRadius)
	t.Filter.SharpenSigma = float32(v.GetFloat64(KeySharpenSigma))
	t.Filter.SharpenAmount = float32(v.GetFloat64(KeySharpenAmount))
	t.Filter.GrainScale = v.GetFloat64(KeyGrainScale)
	t.Filter.GrainStrength = v.GetFloat64(KeyGrainStrength)
	t.Filter.GrainSeed = v.GetInt64(KeyGrainSeed)

	if err := t.Validate(); err != nil {
		return Tool{}, err
	}
	return t, nil
}

// Validate checks value ranges.
func (t Tool) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalid}, args...)...))
		}
	}

	check(t.Brush.Radius >= 0, "brush radius must not be negative, got %d", t.Brush.Radius)
	check(t.Brush.Density >= 0 && t.Brush.Density <= brush.MaxDensity,
		"brush density must be in 0..%d, got %d", brush.MaxDensity, t.Brush.Density)

	f := t.Filter
	check(f.BlurRadius >= 0, "blur radius must not be negative, got %d", f.BlurRadius)
	check(f.EdgeSensitivity >= 0, "edge sensitivity must not be negative, got %g", f.EdgeSensitivity)
	check(f.ScaleX > 0 && f.ScaleY > 0, "scale factors must be positive, got %gx%g", f.ScaleX, f.ScaleY)
	check(f.MedianRadius >= 0, "median radius must not be negative, got %d", f.MedianRadius)
	check(f.BilateralRadius >= 0, "bilateral radius must not be negative, got %d", f.BilateralRadius)
	check(f.SharpenSigma > 0, "sharpen sigma must be positive, got %g", f.SharpenSigma)
	check(f.GrainScale > 0, "grain scale must be positive, got %g", f.GrainScale)
	check(f.GrainStrength >= 0 && f.GrainStrength <= 1, "grain strength must be in 0..1, got %g", f.GrainStrength)

	return errors.Join(errs...)
}

// ParseColor parses "#rrggbb" or "#rrggbbaa" (leading '#' optional). Colors
// without an alpha component are opaque.
func ParseColor(s string) (color.NRGBA, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) != 6 && len(s) != 8 {
		return color.NRGBA{}, fmt.Errorf("color %q must have 6 or 8 hex digits", s)
	}
	if len(s) == 6 {
		s += "ff"
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("failed to parse color %q: %w", s, err)
	}
	return color.NRGBA{
		R: uint8(v >> 24),
		G: uint8(v >> 16),
		B: uint8(v >> 8),
		A: uint8(v),
	}, nil
}

// FormatColor renders c as "#rrggbbaa".
func FormatColor(c color.NRGBA) string {
	return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
}
