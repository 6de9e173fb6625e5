// Package tess builds polygonal preview surfaces for the chamber
// primitives directly from their placement parameters. It never consults
// CSG state; the faces approximate what the external mesher will produce
// and exist purely for visualization. All math is double precision.
package tess

import (
	"math"

	"github.com/soypat/geometry/md3"
)

const (
	// DefaultSegments is the angular resolution used for cylinder previews,
	// trading fidelity for render cost.
	DefaultSegments = 48
	// upAlignTol is the |cosine| between an axis and world up beyond which
	// the frame seed switches to the Y axis to avoid a near zero cross
	// product.
	upAlignTol = 0.99
	// epstol guards lengths used as normalization denominators.
	epstol = 1e-12
)

// Frame is a right handed orthonormal basis. W points along the axis it
// was built from, U and V span the perpendicular plane.
type Frame struct {
	U, V, W md3.Vec
}

// NewFrame builds the orthonormal frame for an axis. The in-plane seed is
// world up crossed with the axis unless the two are nearly parallel, in
// which case world Y is crossed instead. A zero length axis panics.
func NewFrame(axis md3.Vec) Frame {
	if md3.Norm(axis) < epstol {
		panic("zero length frame axis")
	}
	w := md3.Unit(axis)
	seed := md3.Vec{Z: 1}
	if math.Abs(w.Z) >= upAlignTol {
		seed = md3.Vec{Y: 1}
	}
	u := md3.Unit(md3.Cross(seed, w))
	v := md3.Cross(w, u)
	return Frame{U: u, V: v, W: w}
}

// Face is a planar polygon with three or four vertices.
type Face struct {
	V [4]md3.Vec
	// Sides is 3 for triangles and 4 for quadrilaterals.
	Sides int
}

// Quad returns a four sided face.
func Quad(a, b, c, d md3.Vec) Face {
	return Face{V: [4]md3.Vec{a, b, c, d}, Sides: 4}
}

// Tri returns a three sided face.
func Tri(a, b, c md3.Vec) Face {
	return Face{V: [4]md3.Vec{a, b, c}, Sides: 3}
}

// Vertices returns the face vertices in winding order.
func (f Face) Vertices() []md3.Vec {
	return f.V[:f.Sides]
}

// Cylinder tessellates the lateral surface of the cylinder starting at
// base and extending along axis, as one quadrilateral per segment with
// the final quad wrapping back to the first column. End caps are not
// generated. segments below 3 panics.
func Cylinder(base, axis md3.Vec, r float64, segments int) []Face {
	if segments < 3 {
		panic("cylinder tessellation needs at least 3 segments")
	}
	frame := NewFrame(axis)
	bot := make([]md3.Vec, segments)
	top := make([]md3.Vec, segments)
	for k := 0; k < segments; k++ {
		sin, cos := math.Sincos(2 * math.Pi * float64(k) / float64(segments))
		radial := md3.Add(md3.Scale(r*cos, frame.U), md3.Scale(r*sin, frame.V))
		bot[k] = md3.Add(base, radial)
		top[k] = md3.Add(bot[k], axis)
	}
	faces := make([]Face, segments)
	for k := 0; k < segments; k++ {
		next := (k + 1) % segments
		faces[k] = Quad(bot[k], bot[next], top[next], top[k])
	}
	return faces
}

// Plate tessellates the thin slab centered on x spanning the full
// (0..ly, 0..lz) cross section as its two horizontal edge quads, one at
// z=0 and one at z=lz.
func Plate(x, thickness, ly, lz float64) []Face {
	x0 := x - thickness/2
	x1 := x + thickness/2
	return []Face{
		Quad(
			md3.Vec{X: x0, Y: 0, Z: 0},
			md3.Vec{X: x1, Y: 0, Z: 0},
			md3.Vec{X: x1, Y: ly, Z: 0},
			md3.Vec{X: x0, Y: ly, Z: 0},
		),
		Quad(
			md3.Vec{X: x0, Y: 0, Z: lz},
			md3.Vec{X: x1, Y: 0, Z: lz},
			md3.Vec{X: x1, Y: ly, Z: lz},
			md3.Vec{X: x0, Y: ly, Z: lz},
		),
	}
}
