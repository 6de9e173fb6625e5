package flowchamber

import (
	"github.com/soypat/geometry/md3"

	"github.com/soypat/flowchamber/geobuild"
)

// Compile lowers the chamber into a CSG program: the envelope, both tube
// bores and the plate, the boolean sequence carving the fluid domain, and
// the physical tags the downstream mesher and solver key on. The tube
// bores are subtracted before the plate is fused; the plate is solid
// material inside the already cut channel and reversing the two changes
// the topology.
func Compile(p Params) (*geobuild.Program, error) {
	bld := geobuild.Builder{NoEmitPanic: true}
	envelope := bld.Box(md3.Vec{}, md3.Vec{X: p.Lx, Y: p.Ly, Z: p.Lz})
	inBase, inAxis, inR := p.Inlet()
	inlet := bld.Cylinder(inBase, inAxis, inR)
	outBase, outAxis, outR := p.Outlet()
	outlet := bld.Cylinder(outBase, outAxis, outR)
	plate := bld.Box(
		md3.Vec{X: p.MeshX - p.MeshThk/2},
		md3.Vec{X: p.MeshThk, Y: p.Ly, Z: p.Lz},
	)

	fluid := bld.Difference([]geobuild.Handle{envelope}, []geobuild.Handle{inlet, outlet})
	solid := bld.Fuse([]geobuild.Handle{fluid}, []geobuild.Handle{plate})

	bld.TagVolume("fluid", solid)
	for _, reg := range Regions(p) {
		if reg.All {
			bld.TagRemainingSurfaces(reg.Name)
		} else {
			bld.TagSurfacesIn(reg.Name, reg.Box)
		}
	}
	bld.MeshSizeAt(solid, p.MeshScale)
	bld.Option("Mesh.CharacteristicLengthExtend", 0)
	return bld.Program()
}
