// Package codec decodes image files into raw RGBA8 pixels and encodes canvas
// buffers back to disk.
package codec

import (
	"errors"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"

	_ "golang.org/x/image/webp" // Register WebP decoder

	"github.com/MeKo-Tech/pixelcanvas/internal/canvas"
)

// ErrUnsupportedFormat is returned when an output extension has no encoder.
var ErrUnsupportedFormat = errors.New("unsupported image format")

// Decoder turns a file path into raw row-major RGBA8 pixels.
type Decoder interface {
	Decode(path string) (pix []byte, width, height int, err error)
}

// FileCodec decodes PNG, JPEG, GIF, BMP, TIFF and WebP and encodes every one
// of them except WebP.
type FileCodec struct {
	// JPEGQuality is used for .jpg/.jpeg output; 0 selects 95.
	JPEGQuality int
}

// Decode implements Decoder.
func (c FileCodec) Decode(path string) ([]byte, int, int, error) {
	buf, err := c.DecodeBuffer(path)
	if err != nil {
		return nil, 0, 0, err
	}
	return buf.Bytes(), buf.Width(), buf.Height(), nil
}

// DecodeBuffer decodes path into a canvas buffer. Alpha is kept as decoded.
func (c FileCodec) DecodeBuffer(path string) (*canvas.Buffer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image %s: %w", path, err)
	}
	defer f.Close()

	buf, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image %s: %w", path, err)
	}
	return buf, nil
}

// Read decodes any registered format from r.
func Read(r io.Reader) (*canvas.Buffer, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, err
	}
	return canvas.FromImage(img)
}

// Encode writes buf to path, choosing the format from the file extension.
func (c FileCodec) Encode(path string, buf *canvas.Buffer) error {
	format := FormatFromPath(path)
	if format == "" || format == "webp" {
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file %s: %w", path, err)
	}

	if err := c.Write(f, buf, format); err != nil {
		f.Close()
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close output file %s: %w", path, err)
	}
	return nil
}

// Write encodes buf to w in the named format (png, jpeg, gif, bmp, tiff).
func (c FileCodec) Write(w io.Writer, buf *canvas.Buffer, format string) error {
	img := buf.Image()

	switch format {
	case "png":
		return png.Encode(w, img)
	case "jpeg":
		q := c.JPEGQuality
		if q <= 0 {
			q = 95
		}
		return jpeg.Encode(w, img, &jpeg.Options{Quality: q})
	case "gif":
		return gif.Encode(w, img, nil)
	case "bmp":
		return bmp.Encode(w, img)
	case "tiff":
		return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
}

// FormatFromPath maps a file extension to a format name, or "" if unknown.
func FormatFromPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return "png"
	case ".jpg", ".jpeg":
		return "jpeg"
	case ".gif":
		return "gif"
	case ".bmp":
		return "bmp"
	case ".tif", ".tiff":
		return "tiff"
	case ".webp":
		return "webp"
	default:
		return ""
	}
}

// IsImage reports whether path has an extension the codec can decode.
func IsImage(path string) bool {
	return FormatFromPath(path) != ""
}

// WriteRaw writes the buffer as raw row-major RGBA8 bytes.
func WriteRaw(w io.Writer, buf *canvas.Buffer) error {
	if _, err := w.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("failed to write raw pixels: %w", err)
	}
	return nil
}

// ReadRaw reads width*height RGBA8 pixels from r.
func ReadRaw(r io.Reader, width, height int) (*canvas.Buffer, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", canvas.ErrInvalidSize, width, height)
	}
	pix := make([]byte, 4*width*height)
	if _, err := io.ReadFull(r, pix); err != nil {
		return nil, fmt.Errorf("failed to read raw pixels: %w", err)
	}
	return canvas.FromBytes(pix, width, height)
}
