package flowchamber

import (
	"testing"

	"github.com/soypat/geometry/md3"
)

func boxContains(b md3.Box, v md3.Vec) bool {
	return v.X >= b.Min.X && v.X <= b.Max.X &&
		v.Y >= b.Min.Y && v.Y <= b.Max.Y &&
		v.Z >= b.Min.Z && v.Z <= b.Max.Z
}

func TestRegionsOrderAndShape(t *testing.T) {
	regs := Regions(DefaultParams())
	wantOrder := []string{"inlet", "outlet", "mesh", "walls"}
	if len(regs) != len(wantOrder) {
		t.Fatalf("got %d regions, want %d", len(regs), len(wantOrder))
	}
	for i, r := range regs {
		if r.Name != wantOrder[i] {
			t.Errorf("region %d is %q, want %q", i, r.Name, wantOrder[i])
		}
		sz := md3.Sub(r.Box.Max, r.Box.Min)
		if sz.X <= 0 || sz.Y <= 0 || sz.Z <= 0 {
			t.Errorf("region %q box is empty: %+v", r.Name, r.Box)
		}
		if r.All != (r.Name == "walls") {
			t.Errorf("region %q: All=%v", r.Name, r.All)
		}
	}
}

func TestRegionsDefaultPlacement(t *testing.T) {
	regs := Regions(DefaultParams())
	byName := map[string]Region{}
	for _, r := range regs {
		byName[r.Name] = r
	}
	if !boxContains(byName["inlet"].Box, md3.Vec{X: 4, Y: 10, Z: 20}) {
		t.Errorf("inlet box %+v does not contain the inlet port point", byName["inlet"].Box)
	}
	if !boxContains(byName["outlet"].Box, md3.Vec{X: 26, Y: 10, Z: 18}) {
		t.Errorf("outlet box %+v does not contain the recess floor point", byName["outlet"].Box)
	}
	mesh := byName["mesh"].Box
	const margin = 0.06
	if mesh.Min.X > 10-margin || mesh.Max.X < 10+margin {
		t.Errorf("mesh box x span [%v, %v] does not straddle the plate station by %v", mesh.Min.X, mesh.Max.X, margin)
	}
}

// The classifier margin stays fixed when the plate gets thicker than the
// slab it is matched with.
func TestMeshRegionIndependentOfThickness(t *testing.T) {
	thin := DefaultParams()
	thick := DefaultParams()
	thick.MeshThk = 1.0
	a := Regions(thin)[2].Box
	b := Regions(thick)[2].Box
	if a != b {
		t.Errorf("mesh region changed with plate thickness: %+v vs %+v", a, b)
	}
}

func TestRegionsFollowParameters(t *testing.T) {
	p := DefaultParams()
	p.Lx = 50
	p.Lz = 25
	p.OutDepth = 4
	regs := Regions(p)
	outlet := regs[1].Box
	// Recess floor sits OutDepth below the raised top wall at the far end.
	if !boxContains(outlet, md3.Vec{X: 46, Y: 10, Z: 21}) {
		t.Errorf("outlet box %+v does not track Lx/Lz/OutDepth", outlet)
	}
	inlet := regs[0].Box
	if !boxContains(inlet, md3.Vec{X: 4, Y: 10, Z: 25}) {
		t.Errorf("inlet box %+v does not track Lz", inlet)
	}
}
