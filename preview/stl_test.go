package preview

import (
	"bytes"
	"encoding/binary"
	"math"
	"testing"

	"github.com/soypat/geometry/ms3"

	"github.com/soypat/flowchamber"
)

func TestWriteBinarySTLSize(t *testing.T) {
	s := NewScene(flowchamber.DefaultParams(), 0)
	tris := s.Triangles()
	var buf bytes.Buffer
	n, err := WriteBinarySTL(&buf, tris)
	if err != nil {
		t.Fatal(err)
	}
	want := 84 + 50*len(tris)
	if n != want || buf.Len() != want {
		t.Fatalf("wrote %d bytes (buffer %d), want %d", n, buf.Len(), want)
	}
	count := binary.LittleEndian.Uint32(buf.Bytes()[80:84])
	if count != uint32(len(tris)) {
		t.Errorf("triangle count field %d, want %d", count, len(tris))
	}
}

func TestWriteBinarySTLRecord(t *testing.T) {
	tri := ms3.Triangle{
		ms3.Vec{X: 0, Y: 0, Z: 0},
		ms3.Vec{X: 1, Y: 0, Z: 0},
		ms3.Vec{X: 0, Y: 1, Z: 0},
	}
	var buf bytes.Buffer
	if _, err := WriteBinarySTL(&buf, []ms3.Triangle{tri}); err != nil {
		t.Fatal(err)
	}
	rec := buf.Bytes()[84:]
	f32 := func(off int) float32 {
		return math.Float32frombits(binary.LittleEndian.Uint32(rec[off:]))
	}
	// Winding gives +z facet normal.
	if f32(0) != 0 || f32(4) != 0 || f32(8) != 1 {
		t.Errorf("normal (%g,%g,%g), want (0,0,1)", f32(0), f32(4), f32(8))
	}
	wantVerts := []float32{0, 0, 0, 1, 0, 0, 0, 1, 0}
	for i, want := range wantVerts {
		if got := f32(12 + 4*i); got != want {
			t.Errorf("vertex float %d = %g, want %g", i, got, want)
		}
	}
	if attr := binary.LittleEndian.Uint16(rec[48:]); attr != 0 {
		t.Errorf("attribute byte count %d, want 0", attr)
	}
}

func TestWriteBinarySTLDegenerate(t *testing.T) {
	z := ms3.Vec{X: 1, Y: 2, Z: 3}
	var buf bytes.Buffer
	if _, err := WriteBinarySTL(&buf, []ms3.Triangle{{z, z, z}}); err != nil {
		t.Fatal(err)
	}
	rec := buf.Bytes()[84:]
	for off := 0; off < 12; off += 4 {
		bits := binary.LittleEndian.Uint32(rec[off:])
		if f := math.Float32frombits(bits); f != 0 {
			t.Errorf("degenerate normal component at %d is %g, want 0", off, f)
		}
	}
}
