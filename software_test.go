package raytrace

import (
	"bytes"
	"image"
	"testing"
)

func renderFixed(t *testing.T, width, height int) *image.RGBA {
	t.Helper()
	img := NewSoftwareRenderer().Render(width, height, Scene())
	if got := img.Bounds(); got.Dx() != width || got.Dy() != height {
		t.Fatalf("bounds = %v, want %dx%d", got, width, height)
	}
	return img
}

func TestSoftwareRenderer_SphereSilhouette(t *testing.T) {
	// A world-radius-0.5 sphere at depth 1 projects to a circular
	// silhouette: a camera ray (x, y, -1) grazes the sphere when
	// sqrt(x^2+y^2) = 0.5/sqrt(0.75) ~ 0.5774, which at 400x225 is
	// ~65 px from the image center along both axes.
	img := renderFixed(t, BaseWidth, BaseHeight)
	cx, cy := BaseWidth/2, BaseHeight/2

	center := img.RGBAAt(cx, cy)
	if center.R != 128 || center.G != 128 || center.B != 255 {
		t.Errorf("center pixel = %v, want (128,128,255)", center)
	}
	if center.A != 255 {
		t.Errorf("center alpha = %d, want 255", center.A)
	}

	// Background pixels keep the gradient's saturated blue channel;
	// off-center sphere pixels do not.
	inside := []image.Point{
		{cx + 60, cy}, {cx - 60, cy}, {cx, cy + 60}, {cx, cy - 60},
	}
	for _, p := range inside {
		if c := img.RGBAAt(p.X, p.Y); c.B > 250 {
			t.Errorf("pixel %v = %v, want sphere (B well below 255)", p, c)
		}
	}
	outside := []image.Point{
		{cx + 70, cy}, {cx - 70, cy}, {cx, cy + 70}, {cx, cy - 70},
		{0, 0}, {BaseWidth - 1, BaseHeight - 1},
	}
	for _, p := range outside {
		if c := img.RGBAAt(p.X, p.Y); c.B != 255 {
			t.Errorf("pixel %v = %v, want background (B=255)", p, c)
		}
	}
}

func TestSoftwareRenderer_GradientRunsTopToBottom(t *testing.T) {
	// No vertical flip: the top row has a negative direction Y, so it
	// sits nearer the white end of the gradient than the bottom row.
	img := renderFixed(t, BaseWidth, BaseHeight)

	top := img.RGBAAt(10, 0)
	bottom := img.RGBAAt(10, BaseHeight-1)
	if top.R <= bottom.R {
		t.Errorf("top row R=%d should exceed bottom row R=%d", top.R, bottom.R)
	}
	if top.B != 255 || bottom.B != 255 {
		t.Errorf("gradient blue channel must stay saturated, got top=%d bottom=%d", top.B, bottom.B)
	}
}

func TestSoftwareRenderer_OddDimensions(t *testing.T) {
	// 401x225 is not a multiple of the 8x8 tile. The CPU path has no
	// tiles, but every pixel must still be written exactly once.
	img := renderFixed(t, 401, 225)
	for _, p := range []image.Point{{0, 0}, {400, 0}, {0, 224}, {400, 224}, {200, 112}} {
		if img.RGBAAt(p.X, p.Y).A != 255 {
			t.Errorf("pixel %v left unwritten", p)
		}
	}
}

func TestSoftwareRenderer_Deterministic(t *testing.T) {
	// Rendering the same size twice must produce identical bytes,
	// the CPU analogue of a redundant resize rebuild changing nothing.
	a := renderFixed(t, 96, 54)
	b := renderFixed(t, 96, 54)
	if !bytes.Equal(a.Pix, b.Pix) {
		t.Error("repeated renders at the same size differ")
	}
}

func TestSoftwareRenderer_TinyImages(t *testing.T) {
	for _, size := range []image.Point{{1, 1}, {1, 8}, {8, 1}, {3, 2}} {
		img := renderFixed(t, size.X, size.Y)
		if img.RGBAAt(0, 0).A != 255 {
			t.Errorf("size %v: first pixel unwritten", size)
		}
	}
}
