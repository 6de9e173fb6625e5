package flowchamber

import "github.com/soypat/geometry/md3"

// Region pairs a boundary patch name with the axis aligned box the mesher
// uses to select its surfaces. Regions match in declaration order; All
// marks the complement selector claiming every surface the earlier
// regions left unclaimed.
type Region struct {
	Name string
	Box  md3.Box
	All  bool
}

// Regions returns the boundary classification in precedence order: inlet,
// outlet, mesh, then walls as the complement. Boxes may overlap near
// degenerate parameter choices; ties go to the earlier region and are not
// reported.
func Regions(p Params) []Region {
	inBase, inAxis, _ := p.Inlet()
	inTop := md3.Add(inBase, inAxis) // port face center on the top wall
	outBase, outAxis, _ := p.Outlet()
	outTip := md3.Add(outBase, outAxis) // recess floor center
	halo := md3.Vec{X: regionHalo, Y: regionHalo, Z: regionHalo}
	env := p.Envelope()
	return []Region{
		{Name: "inlet", Box: md3.Box{
			Min: md3.Vec{X: inTop.X - regionHalo, Y: inTop.Y - regionHalo, Z: inTop.Z},
			Max: md3.Vec{X: inTop.X + regionHalo, Y: inTop.Y + regionHalo, Z: inTop.Z + regionHalo},
		}},
		{Name: "outlet", Box: md3.Box{
			Min: md3.Vec{X: outBase.X - regionHalo, Y: outBase.Y - regionHalo, Z: outTip.Z - regionHalo},
			Max: md3.Vec{X: outBase.X + regionHalo, Y: outBase.Y + regionHalo, Z: outBase.Z + regionHalo},
		}},
		{Name: "mesh", Box: md3.Box{
			Min: md3.Vec{X: p.MeshX - meshRegionMargin, Y: -regionHalo, Z: -regionHalo},
			Max: md3.Vec{X: p.MeshX + meshRegionMargin, Y: p.Ly + regionHalo, Z: p.Lz + regionHalo},
		}},
		{Name: "walls", All: true, Box: md3.Box{
			Min: md3.Sub(env.Min, halo),
			Max: md3.Add(env.Max, halo),
		}},
	}
}
