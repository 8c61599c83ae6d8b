// Package editor owns the live canvas buffer and dispatches pointer, filter,
// load and undo commands to the brush, region, filter and history engines.
//
// An Editor is synchronous and has a single owner; it must not be used from
// more than one goroutine at a time.
package editor

import (
	"fmt"
	"image/color"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/MeKo-Tech/pixelcanvas/internal/brush"
	"github.com/MeKo-Tech/pixelcanvas/internal/canvas"
	"github.com/MeKo-Tech/pixelcanvas/internal/codec"
	"github.com/MeKo-Tech/pixelcanvas/internal/config"
	"github.com/MeKo-Tech/pixelcanvas/internal/filter"
	"github.com/MeKo-Tech/pixelcanvas/internal/history"
	"github.com/MeKo-Tech/pixelcanvas/internal/region"
)

// Renderer presents the buffer after every mutation. pix is a fresh copy in
// row-major RGBA8 order.
type Renderer interface {
	Render(pix []byte, width, height int)
}

// RenderFunc adapts a function to Renderer.
type RenderFunc func(pix []byte, width, height int)

// Render implements Renderer.
func (f RenderFunc) Render(pix []byte, width, height int) { f(pix, width, height) }

// Editor is the canvas facade.
type Editor struct {
	buf     *canvas.Buffer
	brush   *brush.Engine
	history *history.Manager

	renderer Renderer
	onColor  func(color.NRGBA)
	logger   *slog.Logger

	width, height int
	depth         int
	rng           *rand.Rand
	seed          int64
	path          string
}

// Option configures an Editor.
type Option func(*Editor)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *Editor) { e.logger = l }
}

// WithRenderer sets the display collaborator.
func WithRenderer(r Renderer) Option {
	return func(e *Editor) { e.renderer = r }
}

// WithColorListener is called with the picked color whenever the color picker
// samples the canvas.
func WithColorListener(fn func(color.NRGBA)) Option {
	return func(e *Editor) { e.onColor = fn }
}

// WithRand fixes the spray random source.
func WithRand(r *rand.Rand) Option {
	return func(e *Editor) { e.rng = r }
}

// WithSize sets the initial canvas geometry.
func WithSize(width, height int) Option {
	return func(e *Editor) {
		e.width = width
		e.height = height
	}
}

// WithHistoryDepth bounds the undo history.
func WithHistoryDepth(n int) Option {
	return func(e *Editor) { e.depth = n }
}

// New creates an editor with a white canvas, derives the default stamp and
// records the initial history snapshot.
func New(opts ...Option) (*Editor, error) {
	e := &Editor{
		width:  canvas.DefaultWidth,
		height: canvas.DefaultHeight,
		depth:  history.DefaultMaxDepth,
	}
	for _, opt := range opts {
		opt(e)
	}

	buf, err := canvas.New(e.width, e.height)
	if err != nil {
		return nil, fmt.Errorf("failed to create canvas: %w", err)
	}
	e.buf = buf
	e.history = history.New(e.depth)
	e.brush = brush.NewEngine(brush.WithRand(e.rng), brush.WithLogger(e.logger))
	e.brush.Update(config.Default().Brush)

	e.history.Snapshot(e.buf)
	e.render()
	return e, nil
}

func (e *Editor) log() *slog.Logger {
	if e.logger != nil {
		return e.logger
	}
	return slog.Default()
}

func (e *Editor) render() {
	if e.renderer == nil {
		return
	}
	e.renderer.Render(e.buf.Bytes(), e.buf.Width(), e.buf.Height())
}

// SettingsChanged re-derives the brush stamp if the brush type, radius or
// density changed.
func (e *Editor) SettingsChanged(tool config.Tool) {
	e.reseed(tool)
	if e.brush.Update(tool.Brush) {
		e.log().Debug("Derived brush stamp", "brush", tool.Brush.Type.String(), "radius", tool.Brush.Radius)
	}
}

// reseed fixes the spray source to tool.Seed unless a source was injected.
func (e *Editor) reseed(tool config.Tool) {
	if e.rng != nil || tool.Seed == 0 || tool.Seed == e.seed {
		return
	}
	e.seed = tool.Seed
	e.brush.Seed(tool.Seed)
}

// PointerDown starts a stroke at (x, y). Fill, color picker and connected
// eraser act once here and ignore the following drags.
func (e *Editor) PointerDown(x, y int, tool config.Tool) {
	e.reseed(tool)
	s := tool.Brush

	switch s.Type {
	case brush.TypeFill:
		n := region.FloodFill(e.buf, x, y, s.Color)
		e.log().Debug("Flood fill", "x", x, "y", y, "pixels", n)
	case brush.TypeEraserConnected:
		n := region.EraseConnected(e.buf, x, y, canvas.Background)
		e.log().Debug("Connected erase", "x", x, "y", y, "pixels", n)
	case brush.TypeColorPicker:
		c, ok := brush.PickColor(e.buf, x, y)
		if ok && e.onColor != nil {
			e.onColor(c)
		}
		return
	case brush.TypeSmudge:
		e.brush.Capture(e.buf, x, y, s)
		e.brush.Draw(e.buf, x, y, s)
	default:
		e.brush.Draw(e.buf, x, y, s)
	}
	e.render()
}

// PointerDrag continues a stroke at (x, y).
func (e *Editor) PointerDrag(x, y int, tool config.Tool) {
	s := tool.Brush

	switch s.Type {
	case brush.TypeFill, brush.TypeEraserConnected, brush.TypeColorPicker:
		return
	case brush.TypeSmudge:
		e.brush.Draw(e.buf, x, y, s)
		e.brush.Capture(e.buf, x, y, s)
	default:
		e.brush.Draw(e.buf, x, y, s)
	}
	e.render()
}

// PointerUp ends a stroke and records it in the history.
func (e *Editor) PointerUp(x, y int, tool config.Tool) {
	e.history.Snapshot(e.buf)
}

// ApplyFilter runs the configured filter and commits its result. On error the
// buffer is unchanged.
func (e *Editor) ApplyFilter(tool config.Tool) error {
	start := time.Now()
	name := tool.Filter.Type.String()

	if err := filter.Apply(e.buf, tool.Filter); err != nil {
		return fmt.Errorf("failed to apply filter %s: %w", name, err)
	}

	e.log().Info("Applied filter",
		"filter", name,
		"width", e.buf.Width(),
		"height", e.buf.Height(),
		"duration", time.Since(start))
	e.render()
	return nil
}

// Load decodes path with dec and replaces the canvas wholesale. The history
// restarts at the loaded image, so Undo cannot return to the canvas that was
// live before the load. On failure the canvas and history are unchanged.
func (e *Editor) Load(path string, dec codec.Decoder) error {
	pix, w, h, err := dec.Decode(path)
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	if err := e.LoadRaw(pix, w, h); err != nil {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	e.path = path
	return nil
}

// LoadRaw replaces the canvas with raw RGBA8 pixels and restarts the history
// from the loaded image; earlier snapshots are dropped. On failure the canvas
// is unchanged.
func (e *Editor) LoadRaw(pix []byte, width, height int) error {
	buf, err := canvas.FromBytes(pix, width, height)
	if err != nil {
		return err
	}
	e.buf.Replace(buf)
	e.path = ""
	e.history.Reset()
	e.history.Snapshot(e.buf)
	e.log().Debug("Loaded canvas", "width", width, "height", height)
	e.render()
	return nil
}

// Clear fills the canvas with opaque white and forgets the loaded path.
func (e *Editor) Clear() {
	e.buf.Clear()
	e.path = ""
	e.render()
}

// Undo restores the most recent snapshot. It reports false when the history
// is empty.
func (e *Editor) Undo() bool {
	if !e.history.Undo(e.buf) {
		return false
	}
	e.render()
	return true
}

// Buffer returns the live buffer. Callers must not keep it across commands.
func (e *Editor) Buffer() *canvas.Buffer { return e.buf }

// Bytes returns a copy of the canvas as RGBA8 bytes.
func (e *Editor) Bytes() []byte { return e.buf.Bytes() }

// Size returns the canvas geometry.
func (e *Editor) Size() (width, height int) { return e.buf.Width(), e.buf.Height() }

// Path returns the path of the last loaded image, or "" after Clear.
func (e *Editor) Path() string { return e.path }

// HistoryLen returns the number of undo snapshots held.
func (e *Editor) HistoryLen() int { return e.history.Len() }
