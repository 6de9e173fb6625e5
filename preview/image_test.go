package preview

import (
	"bytes"
	"image/png"
	"math"
	"strings"
	"testing"

	"github.com/soypat/geometry/ms2"

	"github.com/soypat/flowchamber"
)

func TestRenderPNGDimensions(t *testing.T) {
	s := NewScene(flowchamber.DefaultParams(), 16)
	var buf bytes.Buffer
	err := RenderPNG(s, &buf, ImageConfig{Width: 320, Height: 240, Title: "chamber"})
	if err != nil {
		t.Fatal(err)
	}
	cfg, err := png.DecodeConfig(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Width != 320 || cfg.Height != 240 {
		t.Errorf("image is %dx%d, want 320x240", cfg.Width, cfg.Height)
	}
}

func TestRenderPNGDeterministic(t *testing.T) {
	s := NewScene(flowchamber.DefaultParams(), 16)
	var a, b bytes.Buffer
	if err := RenderPNG(s, &a, ImageConfig{Width: 200, Height: 160}); err != nil {
		t.Fatal(err)
	}
	if err := RenderPNG(s, &b, ImageConfig{Width: 200, Height: 160}); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(a.Bytes(), b.Bytes()) {
		t.Error("two renders of the same scene differ")
	}
}

func TestRenderPNGBadFont(t *testing.T) {
	s := NewScene(flowchamber.DefaultParams(), 8)
	var buf bytes.Buffer
	err := RenderPNG(s, &buf, ImageConfig{Title: "chamber", Font: []byte("not a font")})
	if err == nil || !strings.Contains(err.Error(), "font") {
		t.Fatalf("expected font parse error, got %v", err)
	}
}

func TestViewVec(t *testing.T) {
	const tol = 1e-12
	v := viewVec(0, 0)
	if math.Abs(v.X-1) > tol || math.Abs(v.Y) > tol || math.Abs(v.Z) > tol {
		t.Errorf("viewVec(0,0) = %+v, want +x", v)
	}
	v = viewVec(0, math.Pi/2)
	if math.Abs(v.Z-1) > tol {
		t.Errorf("viewVec(0,pi/2) = %+v, want +z", v)
	}
	v = viewVec(math.Pi/2, 0)
	if math.Abs(v.Y-1) > tol {
		t.Errorf("viewVec(pi/2,0) = %+v, want +y", v)
	}
}

func TestStrokeQuad(t *testing.T) {
	q := strokeQuad(ms2.Vec{X: 0, Y: 0}, ms2.Vec{X: 10, Y: 0}, 2)
	if len(q) != 4 {
		t.Fatalf("got %d corners, want 4", len(q))
	}
	for i, p := range q {
		if p.Y != 1 && p.Y != -1 {
			t.Errorf("corner %d at y=%g, want +-1", i, p.Y)
		}
	}
	if degenerate := strokeQuad(ms2.Vec{X: 3, Y: 3}, ms2.Vec{X: 3, Y: 3}, 2); degenerate != nil {
		t.Errorf("zero length segment returned %v, want nil", degenerate)
	}
}
