// Package canvas provides the RGBA8 pixel buffer every editing operation works on.
package canvas

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
)

const (
	// DefaultWidth and DefaultHeight are the geometry of a freshly initialized canvas.
	DefaultWidth  = 500
	DefaultHeight = 500
)

// Background is the color a cleared canvas is filled with and the color
// erasers paint back.
var Background = color.NRGBA{R: 255, G: 255, B: 255, A: 255}

var (
	// ErrInvalidSize is returned for non-positive width or height.
	ErrInvalidSize = errors.New("canvas dimensions must be positive")
	// ErrSizeMismatch is returned when raw pixel data does not match the geometry.
	ErrSizeMismatch = errors.New("pixel data does not match dimensions")
)

// Buffer is a width x height grid of non-premultiplied RGBA pixels stored
// row-major. The zero value is not usable; use New, FromBytes or FromImage.
type Buffer struct {
	img *image.NRGBA
}

// New returns a buffer of the given size filled with Background.
func New(width, height int) (*Buffer, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidSize, width, height)
	}
	b := &Buffer{img: image.NewNRGBA(image.Rect(0, 0, width, height))}
	b.Fill(Background)
	return b, nil
}

// FromBytes copies raw RGBA8 row-major pixel data into a new buffer.
func FromBytes(pix []byte, width, height int) (*Buffer, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidSize, width, height)
	}
	if len(pix) != 4*width*height {
		return nil, fmt.Errorf("%w: got %d bytes for %dx%d", ErrSizeMismatch, len(pix), width, height)
	}
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	copy(img.Pix, pix)
	return &Buffer{img: img}, nil
}

// FromImage converts any image into a buffer anchored at the origin.
func FromImage(src image.Image) (*Buffer, error) {
	if src == nil {
		return nil, errors.New("source image is nil")
	}
	bounds := src.Bounds()
	if bounds.Dx() <= 0 || bounds.Dy() <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidSize, bounds.Dx(), bounds.Dy())
	}
	img := image.NewNRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(img, img.Bounds(), src, bounds.Min, draw.Src)
	return &Buffer{img: img}, nil
}

// Width returns the number of columns.
func (b *Buffer) Width() int { return b.img.Rect.Dx() }

// Height returns the number of rows.
func (b *Buffer) Height() int { return b.img.Rect.Dy() }

// Len returns the number of pixels, always Width()*Height().
func (b *Buffer) Len() int { return len(b.img.Pix) / 4 }

// Bounds returns the buffer rectangle.
func (b *Buffer) Bounds() image.Rectangle { return b.img.Rect }

// InBounds reports whether (x, y) addresses a pixel.
func (b *Buffer) InBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < b.Width() && y < b.Height()
}

// Index converts a coordinate to its linear row-major index.
func (b *Buffer) Index(x, y int) int { return y*b.Width() + x }

// Pos converts a linear index back to (x, y).
func (b *Buffer) Pos(i int) (x, y int) {
	w := b.Width()
	return i % w, i / w
}

// At returns the pixel at (x, y), or the zero pixel when out of range.
func (b *Buffer) At(x, y int) color.NRGBA {
	if !b.InBounds(x, y) {
		return color.NRGBA{}
	}
	return b.img.NRGBAAt(x, y)
}

// Set writes the pixel at (x, y). Out-of-range writes are ignored.
func (b *Buffer) Set(x, y int, c color.NRGBA) {
	if !b.InBounds(x, y) {
		return
	}
	b.img.SetNRGBA(x, y, c)
}

// Fill sets every pixel to c.
func (b *Buffer) Fill(c color.NRGBA) {
	pix := b.img.Pix
	for i := 0; i < len(pix); i += 4 {
		pix[i] = c.R
		pix[i+1] = c.G
		pix[i+2] = c.B
		pix[i+3] = c.A
	}
}

// Clear resets the canvas to opaque white.
func (b *Buffer) Clear() {
	b.Fill(Background)
}

// Resize reallocates the buffer to width x height. Content is not resampled:
// the old bytes are reinterpreted under the new geometry and any cells past the
// old length are zero.
func (b *Buffer) Resize(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidSize, width, height)
	}
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	copy(img.Pix, b.img.Pix)
	b.img = img
	return nil
}

// Clone returns a deep copy that shares no memory with b.
func (b *Buffer) Clone() *Buffer {
	img := image.NewNRGBA(b.img.Rect)
	copy(img.Pix, b.img.Pix)
	return &Buffer{img: img}
}

// Replace commits other's geometry and pixels into b. other must not be used
// afterwards.
func (b *Buffer) Replace(other *Buffer) {
	if other == nil || other == b {
		return
	}
	b.img = other.img
}

// Bytes returns a copy of the pixels as RGBA8 row-major bytes.
func (b *Buffer) Bytes() []byte {
	out := make([]byte, len(b.img.Pix))
	copy(out, b.img.Pix)
	return out
}

// Image returns a copy of the buffer as an *image.NRGBA.
func (b *Buffer) Image() *image.NRGBA {
	return b.Clone().img
}

// Equal reports whether both buffers have the same geometry and pixels.
func (b *Buffer) Equal(other *Buffer) bool {
	if other == nil || b.img.Rect != other.img.Rect {
		return false
	}
	for i := range b.img.Pix {
		if b.img.Pix[i] != other.img.Pix[i] {
			return false
		}
	}
	return true
}
