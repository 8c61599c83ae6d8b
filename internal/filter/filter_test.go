package filter

import (
	"errors"
	"image/color"
	"testing"

	"github.com/MeKo-Tech/pixelcanvas/internal/canvas"
)

func solidBuffer(t *testing.T, w, h int, c color.NRGBA) *canvas.Buffer {
	t.Helper()
	b, err := canvas.New(w, h)
	if err != nil {
		t.Fatalf("canvas.New: %v", err)
	}
	b.Fill(c)
	return b
}

// patternBuffer fills a buffer with a deterministic, non-uniform pattern.
func patternBuffer(t *testing.T, w, h int) *canvas.Buffer {
	t.Helper()
	b := solidBuffer(t, w, h, color.NRGBA{})
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			b.Set(x, y, color.NRGBA{
				R: uint8(17*x + 3*y),
				G: uint8(40*y + x),
				B: uint8(200 - 9*x - 7*y),
				A: uint8(255 - 5*x),
			})
		}
	}
	return b
}

func absDiff(a, b uint8) int {
	if a > b {
		return int(a - b)
	}
	return int(b - a)
}

func assertUniform(t *testing.T, b *canvas.Buffer, want color.NRGBA, tolerance int) {
	t.Helper()
	for y := 0; y < b.Height(); y++ {
		for x := 0; x < b.Width(); x++ {
			got := b.At(x, y)
			if absDiff(got.R, want.R) > tolerance || absDiff(got.G, want.G) > tolerance || absDiff(got.B, want.B) > tolerance {
				t.Fatalf("pixel (%d,%d) = %+v, want %+v ±%d", x, y, got, want, tolerance)
			}
		}
	}
}

func TestConvolveIdentityKernel(t *testing.T) {
	src := patternBuffer(t, 6, 4)
	identity, err := NewKernel(1, 1, []float64{1})
	if err != nil {
		t.Fatalf("NewKernel: %v", err)
	}

	out := Convolve(src, identity, Normalize)
	if !out.Equal(src) {
		t.Fatal("identity convolution changed the image")
	}
}

func TestNewKernelValidates(t *testing.T) {
	if _, err := NewKernel(2, 2, []float64{1, 2, 3}); err == nil {
		t.Fatal("expected error for short weight slice")
	}
	if _, err := NewKernel(0, 1, nil); err == nil {
		t.Fatal("expected error for empty kernel")
	}
}

func TestReflect(t *testing.T) {
	tests := []struct {
		v, n, want int
	}{
		{v: 0, n: 5, want: 0},
		{v: 4, n: 5, want: 4},
		{v: -1, n: 5, want: 1},
		{v: -2, n: 5, want: 2},
		{v: 5, n: 5, want: 4},
		{v: 6, n: 5, want: 3},
		{v: -3, n: 2, want: 0},
		{v: 7, n: 1, want: 0},
		{v: -1, n: 1, want: 0},
	}
	for _, tt := range tests {
		if got := reflect(tt.v, tt.n); got != tt.want {
			t.Errorf("reflect(%d, %d) = %d, want %d", tt.v, tt.n, got, tt.want)
		}
	}
}

func TestConvolveReflectsVerticallyByRow(t *testing.T) {
	// Wide, short buffer: a vertical kernel reaching past the bottom edge must
	// sample by row, not by column.
	src := solidBuffer(t, 8, 2, color.NRGBA{A: 255})
	for x := 0; x < 8; x++ {
		src.Set(x, 1, color.NRGBA{R: 100, A: 255})
	}

	// Picks the sample one row below (kernel is flipped).
	down := Column(1, 0, 0)
	out := Convolve(src, down, Normalize)

	// Row 1 looks at row 2, which reflects to row 1.
	for x := 0; x < 8; x++ {
		if got := out.At(x, 1).R; got != 100 {
			t.Fatalf("column %d: got %d, want 100", x, got)
		}
	}
}

func TestBlurConstantIsIdentity(t *testing.T) {
	c := color.NRGBA{R: 90, G: 180, B: 30, A: 255}
	for _, radius := range []int{0, 1, 3, 6} {
		src := solidBuffer(t, 7, 5, c)
		out, err := Blur(src, radius)
		if err != nil {
			t.Fatalf("Blur(%d): %v", radius, err)
		}
		if out.Width() != 7 || out.Height() != 5 {
			t.Fatalf("geometry changed to %dx%d", out.Width(), out.Height())
		}
		assertUniform(t, out, c, 1)
	}
}

func TestBlurLightensIsolatedDarkPixel(t *testing.T) {
	src := solidBuffer(t, 5, 5, canvas.Background)
	src.Set(2, 2, color.NRGBA{A: 255})

	out, err := Blur(src, 1)
	if err != nil {
		t.Fatalf("Blur: %v", err)
	}

	center := out.At(2, 2)
	if center.R == 0 || center.R == 255 {
		t.Fatalf("expected center to lighten toward gray, got %d", center.R)
	}
	for _, p := range [][2]int{{0, 0}, {4, 0}, {0, 4}, {4, 4}} {
		if got := out.At(p[0], p[1]).R; got < 250 {
			t.Fatalf("corner %v should stay near white, got %d", p, got)
		}
	}
}

func TestBlurRejectsNegativeRadius(t *testing.T) {
	if _, err := Blur(solidBuffer(t, 2, 2, canvas.Background), -1); err == nil {
		t.Fatal("expected error for negative radius")
	}
}

func TestGaussianWeights(t *testing.T) {
	w := GaussianWeights(3)
	if len(w) != 7 {
		t.Fatalf("expected 7 weights, got %d", len(w))
	}
	for i := 0; i < 3; i++ {
		if w[i] != w[6-i] {
			t.Fatalf("weights not symmetric at %d", i)
		}
		if w[i] >= w[i+1] {
			t.Fatalf("weights should increase toward the center")
		}
	}
	if got := GaussianWeights(0); len(got) != 1 || got[0] != 1 {
		t.Fatalf("radius 0 should be identity, got %v", got)
	}
}

func TestEdgeDetectConstantIsZero(t *testing.T) {
	for _, c := range []color.NRGBA{
		canvas.Background,
		{R: 50, G: 50, B: 50, A: 255},
		{R: 200, G: 10, B: 90, A: 128},
	} {
		out, err := EdgeDetect(solidBuffer(t, 6, 6, c), 1.0)
		if err != nil {
			t.Fatalf("EdgeDetect: %v", err)
		}
		assertUniform(t, out, color.NRGBA{}, 0)
	}
}

func TestEdgeDetectFindsVerticalStep(t *testing.T) {
	src := solidBuffer(t, 6, 4, color.NRGBA{A: 255})
	for y := 0; y < 4; y++ {
		for x := 3; x < 6; x++ {
			src.Set(x, y, canvas.Background)
		}
	}

	out, err := EdgeDetect(src, 1.0)
	if err != nil {
		t.Fatalf("EdgeDetect: %v", err)
	}
	if got := out.At(2, 1); got.R == 0 || got.R != got.G || got.G != got.B {
		t.Fatalf("expected gray edge response at the step, got %+v", got)
	}
	if got := out.At(0, 1).R; got != 0 {
		t.Fatalf("expected no response away from the step, got %d", got)
	}
}

func TestLuminance(t *testing.T) {
	if got := Luminance(canvas.Background); got != 255 {
		t.Fatalf("white luma = %d", got)
	}
	if got := Luminance(color.NRGBA{R: 255}); got != 76 {
		t.Fatalf("red luma = %d, want 76", got)
	}
}

func TestScaleByOneIsNearIdentity(t *testing.T) {
	src := patternBuffer(t, 7, 5)
	out, err := Scale(src, 1, 1)
	if err != nil {
		t.Fatalf("Scale: %v", err)
	}
	if out.Width() != 7 || out.Height() != 5 {
		t.Fatalf("unexpected geometry %dx%d", out.Width(), out.Height())
	}
	for y := 0; y < 5; y++ {
		for x := 0; x < 7; x++ {
			a, b := src.At(x, y), out.At(x, y)
			if absDiff(a.R, b.R) > 1 || absDiff(a.G, b.G) > 1 || absDiff(a.B, b.B) > 1 {
				t.Fatalf("pixel (%d,%d): %+v vs %+v", x, y, a, b)
			}
		}
	}
}

func TestScaleGeometry(t *testing.T) {
	src := patternBuffer(t, 10, 6)
	tests := []struct {
		sx, sy float64
		w, h   int
	}{
		{sx: 2, sy: 2, w: 20, h: 12},
		{sx: 0.5, sy: 0.5, w: 5, h: 3},
		{sx: 1.5, sy: 0.25, w: 15, h: 2},
	}
	for _, tt := range tests {
		out, err := Scale(src, tt.sx, tt.sy)
		if err != nil {
			t.Fatalf("Scale(%g,%g): %v", tt.sx, tt.sy, err)
		}
		if out.Width() != tt.w || out.Height() != tt.h || out.Len() != tt.w*tt.h {
			t.Fatalf("Scale(%g,%g) = %dx%d, want %dx%d", tt.sx, tt.sy, out.Width(), out.Height(), tt.w, tt.h)
		}
	}
}

func TestScaleConstantStaysConstant(t *testing.T) {
	c := color.NRGBA{R: 12, G: 130, B: 250, A: 255}
	for _, s := range []float64{0.3, 0.5, 2, 3.7} {
		out, err := Scale(solidBuffer(t, 9, 9, c), s, s)
		if err != nil {
			t.Fatalf("Scale(%g): %v", s, err)
		}
		assertUniform(t, out, c, 1)
	}
}

func TestScaleRejectsInvalidFactors(t *testing.T) {
	src := solidBuffer(t, 4, 4, canvas.Background)
	for _, f := range [][2]float64{{0, 1}, {1, -2}, {0.01, 1}} {
		if _, err := Scale(src, f[0], f[1]); !errors.Is(err, ErrInvalidScale) {
			t.Fatalf("Scale(%v) error = %v, want ErrInvalidScale", f, err)
		}
	}
}

func TestTriangle(t *testing.T) {
	if got := triangle(0, 1); got != 1 {
		t.Fatalf("triangle(0,1) = %g", got)
	}
	if got := triangle(1, 1); got != 0 {
		t.Fatalf("triangle(1,1) = %g", got)
	}
	if got := triangle(0, 0.5); got != 0.5 {
		t.Fatalf("triangle(0,0.5) = %g, want 0.5", got)
	}
	if got := triangle(3, 0.5); got != 0 {
		t.Fatalf("triangle(3,0.5) = %g", got)
	}
}

func TestLowerMedianRank(t *testing.T) {
	var h maxHeap
	tests := []struct {
		samples []uint8
		want    uint8
	}{
		{samples: []uint8{7}, want: 7},
		{samples: []uint8{200, 10}, want: 10},
		{samples: []uint8{50, 10, 200}, want: 50},
		{samples: []uint8{4, 1, 3, 2}, want: 2},
		{samples: []uint8{9, 9, 1, 1, 5}, want: 5},
	}
	for _, tt := range tests {
		if got := lowerMedian(tt.samples, &h); got != tt.want {
			t.Errorf("lowerMedian(%v) = %d, want %d", tt.samples, got, tt.want)
		}
	}
}

func TestMedianSkipsOutOfBoundsNeighbors(t *testing.T) {
	src := solidBuffer(t, 3, 1, color.NRGBA{A: 255})
	src.Set(0, 0, color.NRGBA{R: 10, A: 255})
	src.Set(1, 0, color.NRGBA{R: 50, A: 255})
	src.Set(2, 0, color.NRGBA{R: 200, A: 255})

	out, err := Median(src, 1)
	if err != nil {
		t.Fatalf("Median: %v", err)
	}
	want := []uint8{10, 50, 50}
	for x, w := range want {
		if got := out.At(x, 0).R; got != w {
			t.Fatalf("pixel %d: got %d, want %d", x, got, w)
		}
	}
}

func TestMedianRemovesIsolatedPixel(t *testing.T) {
	src := solidBuffer(t, 3, 3, canvas.Background)
	src.Set(1, 1, color.NRGBA{A: 255})

	out, err := Median(src, 1)
	if err != nil {
		t.Fatalf("Median: %v", err)
	}
	assertUniform(t, out, canvas.Background, 0)
}

func TestBilateralConstantIsIdentity(t *testing.T) {
	c := color.NRGBA{R: 33, G: 66, B: 99, A: 255}
	out, err := Bilateral(solidBuffer(t, 5, 5, c), 2, DefaultSigmaSpatial, DefaultSigmaRange)
	if err != nil {
		t.Fatalf("Bilateral: %v", err)
	}
	assertUniform(t, out, c, 1)
}

func TestBilateralPreservesHardEdge(t *testing.T) {
	src := solidBuffer(t, 4, 1, color.NRGBA{A: 255})
	src.Set(2, 0, canvas.Background)
	src.Set(3, 0, canvas.Background)

	out, err := Bilateral(src, 1, DefaultSigmaSpatial, DefaultSigmaRange)
	if err != nil {
		t.Fatalf("Bilateral: %v", err)
	}
	if got := out.At(1, 0).R; got != 0 {
		t.Fatalf("dark side bled: %d", got)
	}
	if got := out.At(2, 0).R; got != 255 {
		t.Fatalf("light side bled: %d", got)
	}
}

func TestNormalizedOrGuardsZeroWeight(t *testing.T) {
	if got := normalizedOr(0, 0, 77); got != 77 {
		t.Fatalf("expected fallback 77, got %d", got)
	}
	if got := normalizedOr(0.5, 1, 0); got != 128 {
		t.Fatalf("expected 128, got %d", got)
	}
}

func TestApplyCommitsScaledGeometry(t *testing.T) {
	buf := patternBuffer(t, 4, 4)
	p := DefaultParams()
	p.Type = TypeScale
	p.ScaleX, p.ScaleY = 2, 0.5

	if err := Apply(buf, p); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if buf.Width() != 8 || buf.Height() != 2 || buf.Len() != 16 {
		t.Fatalf("unexpected geometry %dx%d", buf.Width(), buf.Height())
	}
}

func TestApplyUnknownFilterLeavesBufferUntouched(t *testing.T) {
	buf := patternBuffer(t, 3, 3)
	before := buf.Clone()

	err := Apply(buf, Params{Type: Type(99)})
	if !errors.Is(err, ErrUnknownFilter) {
		t.Fatalf("expected ErrUnknownFilter, got %v", err)
	}
	if !buf.Equal(before) {
		t.Fatal("buffer mutated by failed filter")
	}
}

func TestParseType(t *testing.T) {
	for _, name := range Names() {
		typ, err := ParseType(name)
		if err != nil {
			t.Fatalf("ParseType(%q): %v", name, err)
		}
		if typ.String() != name {
			t.Fatalf("round trip %q -> %s", name, typ)
		}
	}
	if typ, err := ParseType("Edge-Detect"); err != nil || typ != TypeEdgeDetect {
		t.Fatalf("alias not accepted: %v %v", typ, err)
	}
	if _, err := ParseType("emboss"); !errors.Is(err, ErrUnknownFilter) {
		t.Fatalf("expected ErrUnknownFilter, got %v", err)
	}
}

func TestConvolveZeroSumKernelFallsBack(t *testing.T) {
	src := patternBuffer(t, 5, 4)

	out := Convolve(src, Row(-1, 0, 1), Normalize)
	if !out.Equal(src) {
		t.Fatal("zero-sum kernel should keep every source pixel")
	}
}

func TestResampleLineZeroWeightUsesNearest(t *testing.T) {
	// A single source sample with unit scale: the second output center lands
	// exactly on the tent edge, so no tap carries weight.
	src := []color.NRGBA{{R: 10, G: 20, B: 30, A: 40}}
	out := make([]color.NRGBA, 2)

	resampleLine(len(src), len(out), 1,
		func(i int) color.NRGBA { return src[i] },
		func(o int, c color.NRGBA) { out[o] = c })

	want := color.NRGBA{R: 10, G: 20, B: 30, A: 255}
	for o, got := range out {
		if got != want {
			t.Fatalf("out[%d] = %+v, want %+v", o, got, want)
		}
	}
}

func TestInvert(t *testing.T) {
	tests := []struct {
		in   color.NRGBA
		want color.NRGBA
	}{
		{color.NRGBA{R: 0, G: 0, B: 0, A: 255}, color.NRGBA{R: 255, G: 255, B: 255, A: 255}},
		{color.NRGBA{R: 255, G: 128, B: 1, A: 255}, color.NRGBA{R: 0, G: 127, B: 254, A: 255}},
		{color.NRGBA{R: 60, G: 123, B: 152, A: 240}, color.NRGBA{R: 195, G: 132, B: 103, A: 240}},
	}

	for _, tt := range tests {
		src := solidBuffer(t, 2, 2, tt.in)
		out, err := Invert(src)
		if err != nil {
			t.Fatalf("Invert: %v", err)
		}
		if got := out.At(1, 1); got != tt.want {
			t.Fatalf("Invert(%+v) = %+v, want %+v", tt.in, got, tt.want)
		}
	}
}

func TestDesaturateEqualizesChannels(t *testing.T) {
	src := patternBuffer(t, 6, 5)
	out, err := Desaturate(src)
	if err != nil {
		t.Fatalf("Desaturate: %v", err)
	}
	if out.Width() != 6 || out.Height() != 5 {
		t.Fatalf("unexpected geometry %dx%d", out.Width(), out.Height())
	}
	for y := 0; y < out.Height(); y++ {
		for x := 0; x < out.Width(); x++ {
			c := out.At(x, y)
			if c.R != c.G || c.G != c.B {
				t.Fatalf("pixel (%d,%d) = %+v is not gray", x, y, c)
			}
		}
	}
}

func TestSharpen(t *testing.T) {
	gray := color.NRGBA{R: 120, G: 120, B: 120, A: 255}
	out, err := Sharpen(solidBuffer(t, 6, 6, gray), 1, 1.5)
	if err != nil {
		t.Fatalf("Sharpen: %v", err)
	}
	assertUniform(t, out, gray, 1)

	// Step edge: dark left half, light right half.
	step := solidBuffer(t, 10, 3, color.NRGBA{R: 100, G: 100, B: 100, A: 255})
	for y := 0; y < 3; y++ {
		for x := 5; x < 10; x++ {
			step.Set(x, y, color.NRGBA{R: 150, G: 150, B: 150, A: 255})
		}
	}
	out, err = Sharpen(step, 1, 1.5)
	if err != nil {
		t.Fatalf("Sharpen: %v", err)
	}
	if dark := out.At(4, 1).R; dark >= 100 {
		t.Fatalf("dark side of edge = %d, want < 100", dark)
	}
	if light := out.At(5, 1).R; light <= 150 {
		t.Fatalf("light side of edge = %d, want > 150", light)
	}

	if _, err := Sharpen(step, 0, 1); err == nil {
		t.Fatal("expected error for zero sigma")
	}
}

func TestGrain(t *testing.T) {
	src := solidBuffer(t, 16, 16, color.NRGBA{R: 128, G: 128, B: 128, A: 200})

	a, err := Grain(src, 4, 0.8, 42)
	if err != nil {
		t.Fatalf("Grain: %v", err)
	}
	b, err := Grain(src, 4, 0.8, 42)
	if err != nil {
		t.Fatalf("Grain: %v", err)
	}
	if !a.Equal(b) {
		t.Fatal("same seed produced different grain")
	}
	if a.Equal(src) {
		t.Fatal("grain with positive strength left the image unchanged")
	}
	if got := a.At(3, 7).A; got != 200 {
		t.Fatalf("alpha changed to %d", got)
	}

	none, err := Grain(src, 4, 0, 42)
	if err != nil {
		t.Fatalf("Grain: %v", err)
	}
	if !none.Equal(src) {
		t.Fatal("zero strength changed the image")
	}

	if _, err := Grain(src, 0, 0.5, 42); err == nil {
		t.Fatal("expected error for zero scale")
	}
}

func TestRunDispatchesEveryType(t *testing.T) {
	src := patternBuffer(t, 6, 6)
	for _, name := range Names() {
		typ, err := ParseType(name)
		if err != nil {
			t.Fatalf("ParseType(%q): %v", name, err)
		}
		p := DefaultParams()
		p.Type = typ

		out, err := Run(src, p)
		if err != nil {
			t.Fatalf("Run(%s): %v", name, err)
		}
		if out == nil || out.Len() == 0 {
			t.Fatalf("Run(%s) returned an empty buffer", name)
		}
		if out == src {
			t.Fatalf("Run(%s) returned the source buffer", name)
		}
	}

	if _, err := Run(src, Params{Type: TypeNone}); !errors.Is(err, ErrUnknownFilter) {
		t.Fatalf("expected ErrUnknownFilter for none, got %v", err)
	}
}
