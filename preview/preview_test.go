package preview

import (
	"math"
	"testing"

	"github.com/soypat/geometry/md3"

	"github.com/soypat/flowchamber"
	"github.com/soypat/flowchamber/tess"
)

func TestNewSceneGroups(t *testing.T) {
	p := flowchamber.DefaultParams()
	s := NewScene(p, 0)
	if len(s.Groups) != 3 {
		t.Fatalf("got %d groups, want 3", len(s.Groups))
	}
	wantNames := []string{"inlet", "outlet", "mesh"}
	wantFaces := []int{tess.DefaultSegments, tess.DefaultSegments, 2}
	for i, g := range s.Groups {
		if g.Name != wantNames[i] {
			t.Errorf("group %d name %q, want %q", i, g.Name, wantNames[i])
		}
		if len(g.Faces) != wantFaces[i] {
			t.Errorf("group %q has %d faces, want %d", g.Name, len(g.Faces), wantFaces[i])
		}
		if g.Color.A == 0 {
			t.Errorf("group %q is fully transparent", g.Name)
		}
	}
	if len(s.Wire) != 12 {
		t.Errorf("wireframe has %d edges, want 12", len(s.Wire))
	}
	if s.Bounds() != p.Envelope() {
		t.Errorf("scene bounds %+v, want envelope %+v", s.Bounds(), p.Envelope())
	}
}

func TestNewSceneSegments(t *testing.T) {
	s := NewScene(flowchamber.DefaultParams(), 12)
	if got := len(s.Groups[0].Faces); got != 12 {
		t.Errorf("inlet faces %d, want 12", got)
	}
	if got := len(s.Groups[1].Faces); got != 12 {
		t.Errorf("outlet faces %d, want 12", got)
	}
}

func TestSceneTriangles(t *testing.T) {
	s := NewScene(flowchamber.DefaultParams(), 0)
	tris := s.Triangles()
	want := 2 * (2*tess.DefaultSegments + 2)
	if len(tris) != want {
		t.Fatalf("got %d triangles, want %d", len(tris), want)
	}
	for i, tri := range tris {
		for _, v := range tri {
			if math.IsNaN(float64(v.X)) || math.IsNaN(float64(v.Y)) || math.IsNaN(float64(v.Z)) {
				t.Fatalf("triangle %d has NaN vertex %+v", i, v)
			}
		}
	}
}

func TestTriangulateQuadWinding(t *testing.T) {
	q := tess.Quad(
		md3.Vec{X: 0, Y: 0, Z: 0},
		md3.Vec{X: 1, Y: 0, Z: 0},
		md3.Vec{X: 1, Y: 1, Z: 0},
		md3.Vec{X: 0, Y: 1, Z: 0},
	)
	tris := Triangulate([]tess.Face{q})
	if len(tris) != 2 {
		t.Fatalf("got %d triangles, want 2", len(tris))
	}
	// Fan about the first vertex: (v0,v1,v2) and (v0,v2,v3).
	if tris[0][0] != tris[1][0] {
		t.Errorf("triangles do not share the fan origin: %+v vs %+v", tris[0][0], tris[1][0])
	}
	if tris[0][2] != tris[1][1] {
		t.Errorf("triangles do not share the quad diagonal: %+v vs %+v", tris[0][2], tris[1][1])
	}
}

func TestEnvelopeWireEdges(t *testing.T) {
	p := flowchamber.DefaultParams()
	p.Lx, p.Ly, p.Lz = 30, 20, 10 // distinct extents so lengths identify axes
	edges := envelopeWire(p.Envelope())
	if len(edges) != 12 {
		t.Fatalf("got %d edges, want 12", len(edges))
	}
	// Each edge must be axis aligned and span a full box extent.
	counts := map[float64]int{}
	for i, e := range edges {
		d := md3.Sub(e[1], e[0])
		nonzero := 0
		if d.X != 0 {
			nonzero++
		}
		if d.Y != 0 {
			nonzero++
		}
		if d.Z != 0 {
			nonzero++
		}
		if nonzero != 1 {
			t.Errorf("edge %d not axis aligned: %+v", i, d)
		}
		counts[md3.Norm(d)]++
	}
	if counts[p.Lx] != 4 || counts[p.Ly] != 4 || counts[p.Lz] != 4 {
		t.Errorf("edge length histogram %v, want 4 per box extent", counts)
	}
}
