package canvas

import (
	"errors"
	"image"
	"image/color"
	"testing"
)

func TestNewFillsBackground(t *testing.T) {
	b, err := New(3, 2)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if b.Width() != 3 || b.Height() != 2 {
		t.Fatalf("unexpected geometry %dx%d", b.Width(), b.Height())
	}
	if b.Len() != 6 {
		t.Fatalf("expected 6 pixels, got %d", b.Len())
	}
	for y := 0; y < 2; y++ {
		for x := 0; x < 3; x++ {
			if got := b.At(x, y); got != Background {
				t.Fatalf("pixel (%d,%d) = %+v, want background", x, y, got)
			}
		}
	}
}

func TestNewRejectsInvalidSize(t *testing.T) {
	for _, size := range [][2]int{{0, 1}, {1, 0}, {-1, 4}} {
		if _, err := New(size[0], size[1]); !errors.Is(err, ErrInvalidSize) {
			t.Fatalf("New(%d,%d) error = %v, want ErrInvalidSize", size[0], size[1], err)
		}
	}
}

func TestSetAndAtIgnoreOutOfRange(t *testing.T) {
	b, _ := New(2, 2)
	red := color.NRGBA{R: 255, A: 255}

	b.Set(1, 1, red)
	b.Set(-1, 0, red)
	b.Set(2, 0, red)
	b.Set(0, 5, red)

	if got := b.At(1, 1); got != red {
		t.Fatalf("expected red at (1,1), got %+v", got)
	}
	if got := b.At(5, 5); got != (color.NRGBA{}) {
		t.Fatalf("expected zero pixel out of range, got %+v", got)
	}
	if b.Len() != 4 {
		t.Fatalf("geometry changed: %d pixels", b.Len())
	}
}

func TestIndexAndPosRoundTrip(t *testing.T) {
	b, _ := New(4, 3)
	for y := 0; y < 3; y++ {
		for x := 0; x < 4; x++ {
			i := b.Index(x, y)
			if i != y*4+x {
				t.Fatalf("Index(%d,%d) = %d", x, y, i)
			}
			px, py := b.Pos(i)
			if px != x || py != y {
				t.Fatalf("Pos(%d) = (%d,%d), want (%d,%d)", i, px, py, x, y)
			}
		}
	}
}

func TestResizeKeepsGeometryInvariant(t *testing.T) {
	b, _ := New(2, 2)
	b.Set(0, 0, color.NRGBA{R: 1, G: 2, B: 3, A: 4})

	if err := b.Resize(3, 3); err != nil {
		t.Fatalf("Resize returned error: %v", err)
	}
	if b.Len() != 9 || b.Width() != 3 || b.Height() != 3 {
		t.Fatalf("unexpected geometry after resize: %dx%d (%d)", b.Width(), b.Height(), b.Len())
	}
	// Reinterpretation keeps the byte prefix.
	if got := b.At(0, 0); got != (color.NRGBA{R: 1, G: 2, B: 3, A: 4}) {
		t.Fatalf("prefix not preserved: %+v", got)
	}
	// Cells past the old length are zero.
	if got := b.At(2, 2); got != (color.NRGBA{}) {
		t.Fatalf("expected zero cell, got %+v", got)
	}

	if err := b.Resize(0, 3); !errors.Is(err, ErrInvalidSize) {
		t.Fatalf("expected ErrInvalidSize, got %v", err)
	}
	if b.Len() != 9 {
		t.Fatalf("failed resize mutated buffer")
	}
}

func TestFromBytes(t *testing.T) {
	pix := []byte{
		1, 2, 3, 4, 5, 6, 7, 8,
		9, 10, 11, 12, 13, 14, 15, 16,
	}
	b, err := FromBytes(pix, 2, 2)
	if err != nil {
		t.Fatalf("FromBytes returned error: %v", err)
	}
	if got := b.At(1, 1); got != (color.NRGBA{R: 13, G: 14, B: 15, A: 16}) {
		t.Fatalf("unexpected pixel %+v", got)
	}

	pix[0] = 99
	if b.At(0, 0).R == 99 {
		t.Fatal("buffer aliases input slice")
	}

	if _, err := FromBytes(pix[:12], 2, 2); !errors.Is(err, ErrSizeMismatch) {
		t.Fatalf("expected ErrSizeMismatch, got %v", err)
	}
}

func TestFromImageAnchorsAtOrigin(t *testing.T) {
	src := image.NewNRGBA(image.Rect(10, 10, 12, 11))
	src.SetNRGBA(11, 10, color.NRGBA{G: 200, A: 255})

	b, err := FromImage(src)
	if err != nil {
		t.Fatalf("FromImage returned error: %v", err)
	}
	if b.Width() != 2 || b.Height() != 1 {
		t.Fatalf("unexpected geometry %dx%d", b.Width(), b.Height())
	}
	if got := b.At(1, 0); got.G != 200 {
		t.Fatalf("expected green pixel, got %+v", got)
	}
}

func TestCloneIsDeep(t *testing.T) {
	b, _ := New(2, 2)
	c := b.Clone()
	c.Set(0, 0, color.NRGBA{A: 255})

	if b.At(0, 0) != Background {
		t.Fatal("clone shares memory with original")
	}
	if b.Equal(c) {
		t.Fatal("expected buffers to differ")
	}
}

func TestReplaceCommitsGeometry(t *testing.T) {
	b, _ := New(2, 2)
	other, _ := New(5, 1)
	other.Set(4, 0, color.NRGBA{B: 9, A: 255})

	b.Replace(other)

	if b.Width() != 5 || b.Height() != 1 || b.Len() != 5 {
		t.Fatalf("unexpected geometry %dx%d", b.Width(), b.Height())
	}
	if b.At(4, 0).B != 9 {
		t.Fatal("pixels not committed")
	}
}

func TestBytesIsCopy(t *testing.T) {
	b, _ := New(1, 1)
	raw := b.Bytes()
	if len(raw) != 4 {
		t.Fatalf("expected 4 bytes, got %d", len(raw))
	}
	raw[0] = 0
	if b.At(0, 0).R != 255 {
		t.Fatal("Bytes aliases the buffer")
	}
}

func TestClear(t *testing.T) {
	b, _ := New(2, 2)
	b.Fill(color.NRGBA{R: 10, A: 10})
	b.Clear()
	if b.At(1, 1) != Background {
		t.Fatalf("expected background after clear, got %+v", b.At(1, 1))
	}
}
