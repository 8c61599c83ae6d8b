package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/MeKo-Tech/pixelcanvas/internal/canvas"
	"github.com/MeKo-Tech/pixelcanvas/internal/codec"
	"github.com/MeKo-Tech/pixelcanvas/internal/editor"
)

// loadInput loads path into ed. With raw set the file holds width*height RGBA8
// pixels and a path of "-" reads them from stdin; otherwise it is decoded by
// extension.
func loadInput(ed *editor.Editor, path string, raw bool, width, height int, stdin io.Reader) error {
	if !raw {
		return ed.Load(path, codec.FileCodec{})
	}

	r := stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("failed to open input file %s: %w", path, err)
		}
		defer f.Close()
		r = f
	}

	buf, err := codec.ReadRaw(r, width, height)
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return ed.LoadRaw(buf.Bytes(), width, height)
}

// writeOutput encodes buf to path by extension, or writes raw RGBA8 bytes when
// raw is set. A raw path of "-" writes to stdout.
func writeOutput(path string, raw bool, buf *canvas.Buffer, stdout io.Writer) error {
	if path == "" {
		return fmt.Errorf("--out is required")
	}

	if !raw {
		return codec.FileCodec{}.Encode(path, buf)
	}

	if path == "-" {
		return codec.WriteRaw(stdout, buf)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file %s: %w", path, err)
	}
	if err := codec.WriteRaw(f, buf); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
