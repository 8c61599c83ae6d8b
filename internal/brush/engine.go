// Package brush paints falloff stamps onto a canvas buffer with alpha
// compositing, including the color-sampling smudge and picker tools.
package brush

import (
	"image/color"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/MeKo-Tech/pixelcanvas/internal/canvas"
)

// MaxDensity is the upper bound of Settings.Density.
const MaxDensity = 100

// Settings are the user-chosen brush parameters.
type Settings struct {
	Type    Type
	Radius  int
	Density int // spray coverage, 0..MaxDensity
	Color   color.NRGBA
}

// DefaultSettings returns the brush a new session starts with.
func DefaultSettings() Settings {
	return Settings{
		Type:    TypeLinear,
		Radius:  10,
		Density: 50,
		Color:   color.NRGBA{R: 0, G: 0, B: 0, A: 255},
	}
}

// Engine holds the derived stamp and the smudge sample between stamps.
// It is not safe for concurrent use.
type Engine struct {
	stamp   Stamp
	derived bool
	key     stampKey
	sample  []color.NRGBA
	rng     *rand.Rand
	logger  *slog.Logger
}

// stampKey are the settings a stamp depends on.
type stampKey struct {
	typ     Type
	radius  int
	density int
}

// Option configures an Engine.
type Option func(*Engine)

// WithRand sets the random source used by the spray brush.
func WithRand(r *rand.Rand) Option {
	return func(e *Engine) {
		if r != nil {
			e.rng = r
		}
	}
}

// WithLogger sets the logger used for diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// NewEngine creates a brush engine. Without WithRand the spray brush is seeded
// from the clock.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{}
	for _, opt := range opts {
		opt(e)
	}
	if e.rng == nil {
		now := uint64(time.Now().UnixNano())
		e.rng = rand.New(rand.NewPCG(now, now>>1))
	}
	return e
}

// Seed resets the spray random source to a fixed seed.
func (e *Engine) Seed(seed int64) {
	e.rng = rand.New(rand.NewPCG(uint64(seed), 0))
}

func (e *Engine) log() *slog.Logger {
	if e.logger != nil {
		return e.logger
	}
	return slog.Default()
}

// Update re-derives the stamp when brush type, radius or density changed since
// the last derivation. It reports whether a new stamp was built.
func (e *Engine) Update(s Settings) bool {
	key := stampKey{typ: s.Type, radius: s.Radius, density: s.Density}
	if e.derived && key == e.key {
		return false
	}

	stamp, err := NewStamp(s.Type, s.Radius)
	if err != nil {
		e.log().Warn("Brush has no stamp; painting disabled", "brush", s.Type.String(), "radius", s.Radius, "error", err)
	}
	e.stamp = stamp
	e.key = key
	e.derived = true
	e.sample = nil
	return true
}

// Stamp returns the current stamp.
func (e *Engine) Stamp() Stamp { return e.stamp }

// Capture records the canvas colors under a stamp centered at (x, y). The next
// smudge stamp blends from these colors, so smudging trails one step behind the
// pointer. Cells outside the buffer are recorded as transparent black.
func (e *Engine) Capture(buf *canvas.Buffer, x, y int, s Settings) {
	e.Update(s)
	r := s.Radius
	size := 2*r + 1
	if cap(e.sample) < size*size {
		e.sample = make([]color.NRGBA, size*size)
	}
	e.sample = e.sample[:size*size]

	i := 0
	for row := y - r; row <= y+r; row++ {
		for col := x - r; col <= x+r; col++ {
			e.sample[i] = buf.At(col, row)
			i++
		}
	}
}

// Draw stamps the brush centered at (x, y). Each covered in-bounds pixel is
// composited per RGB channel as
//
//	new = 0.5 + a*I*src + dst*(1 - a*I)   (truncated)
//
// where I is the stamp intensity and a the tool alpha (1 for smudge and
// eraser). src is the tool color, the captured smudge sample or the canvas
// background for the eraser. Alpha is not modified.
func (e *Engine) Draw(buf *canvas.Buffer, x, y int, s Settings) {
	e.Update(s)
	if e.stamp.Empty() {
		return
	}
	if s.Type == TypeSmudge && len(e.sample) != len(e.stamp.Weights) {
		e.Capture(buf, x, y, s)
	}

	size := e.stamp.Size()
	startX := x - e.stamp.Radius
	startY := y - e.stamp.Radius

	src := s.Color
	alpha := float64(s.Color.A) / 255.0
	switch s.Type {
	case TypeSmudge:
		alpha = 1
	case TypeEraser:
		src = canvas.Background
		alpha = 1
	}

	for j := 0; j < size; j++ {
		for i := 0; i < size; i++ {
			cx, cy := startX+i, startY+j
			if !buf.InBounds(cx, cy) {
				continue
			}
			intensity := e.stamp.At(i, j)
			if intensity == 0 {
				continue
			}

			switch s.Type {
			case TypeSmudge:
				src = e.sample[j*size+i]
			case TypeSpray:
				if e.rng.IntN(100) > s.Density/6 {
					continue
				}
			}

			k := alpha * intensity
			dst := buf.At(cx, cy)
			buf.Set(cx, cy, color.NRGBA{
				R: composite(src.R, dst.R, k),
				G: composite(src.G, dst.G, k),
				B: composite(src.B, dst.B, k),
				A: dst.A,
			})
		}
	}
}

// composite blends a source channel over a destination channel with coverage k.
func composite(src, dst uint8, k float64) uint8 {
	v := 0.5 + k*float64(src) + float64(dst)*(1-k)
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v)
}

// PickColor returns the pixel under (x, y). ok is false outside the buffer.
func PickColor(buf *canvas.Buffer, x, y int) (c color.NRGBA, ok bool) {
	if !buf.InBounds(x, y) {
		return color.NRGBA{}, false
	}
	return buf.At(x, y), true
}
