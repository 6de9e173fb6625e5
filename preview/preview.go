// Package preview renders the chamber before any external tool runs: a
// pure Go PNG renderer, a binary STL export of the tessellated faces and
// an interactive OpenGL viewer. Everything here works from the preview
// tessellation; the CSG program is never evaluated.
package preview

import (
	"context"
	"image/color"

	"github.com/soypat/geometry/md3"
	"github.com/soypat/geometry/ms3"

	"github.com/soypat/flowchamber"
	"github.com/soypat/flowchamber/tess"
)

// Group colors: skyblue, salmon and forestgreen at 60/60/40 percent
// opacity, black wireframe at 30.
var (
	colorInlet  = color.NRGBA{R: 135, G: 206, B: 235, A: 153}
	colorOutlet = color.NRGBA{R: 250, G: 128, B: 114, A: 153}
	colorPlate  = color.NRGBA{R: 34, G: 139, B: 34, A: 102}
	colorWire   = color.NRGBA{A: 77}
)

// FaceGroup is a set of faces rendered in one color.
type FaceGroup struct {
	Name  string
	Color color.NRGBA
	Faces []tess.Face
}

// Scene is the pre-mesh visualization of a chamber: the envelope
// wireframe plus one colored face group per feature.
type Scene struct {
	Groups []FaceGroup
	// Wire holds the twelve envelope edges.
	Wire   [][2]md3.Vec
	bounds md3.Box
}

// NewScene tessellates a chamber for display. segments <= 0 uses
// [tess.DefaultSegments].
func NewScene(p flowchamber.Params, segments int) *Scene {
	if segments <= 0 {
		segments = tess.DefaultSegments
	}
	inBase, inAxis, inR := p.Inlet()
	outBase, outAxis, outR := p.Outlet()
	return &Scene{
		Groups: []FaceGroup{
			{Name: "inlet", Color: colorInlet, Faces: tess.Cylinder(inBase, inAxis, inR, segments)},
			{Name: "outlet", Color: colorOutlet, Faces: tess.Cylinder(outBase, outAxis, outR, segments)},
			{Name: "mesh", Color: colorPlate, Faces: tess.Plate(p.MeshX, p.MeshThk, p.Ly, p.Lz)},
		},
		Wire:   envelopeWire(p.Envelope()),
		bounds: p.Envelope(),
	}
}

// Bounds returns the chamber envelope for camera framing.
func (s *Scene) Bounds() md3.Box {
	return s.bounds
}

// Triangles splits every face group into render triangles, converting to
// single precision at this boundary.
func (s *Scene) Triangles() []ms3.Triangle {
	var tris []ms3.Triangle
	for _, g := range s.Groups {
		tris = append(tris, Triangulate(g.Faces)...)
	}
	return tris
}

// Triangulate fans faces into triangles preserving winding.
func Triangulate(faces []tess.Face) []ms3.Triangle {
	tris := make([]ms3.Triangle, 0, 2*len(faces))
	for _, f := range faces {
		v := f.Vertices()
		for i := 2; i < len(v); i++ {
			tris = append(tris, ms3.Triangle{vec32(v[0]), vec32(v[i-1]), vec32(v[i])})
		}
	}
	return tris
}

func vec32(v md3.Vec) ms3.Vec {
	return ms3.Vec{X: float32(v.X), Y: float32(v.Y), Z: float32(v.Z)}
}

// envelopeWire returns the twelve edges of a box: bottom loop, top loop,
// four columns.
func envelopeWire(b md3.Box) [][2]md3.Vec {
	lo, hi := b.Min, b.Max
	c := func(x, y, z float64) md3.Vec { return md3.Vec{X: x, Y: y, Z: z} }
	var edges [][2]md3.Vec
	for _, z := range []float64{lo.Z, hi.Z} {
		edges = append(edges,
			[2]md3.Vec{c(lo.X, lo.Y, z), c(hi.X, lo.Y, z)},
			[2]md3.Vec{c(hi.X, lo.Y, z), c(hi.X, hi.Y, z)},
			[2]md3.Vec{c(hi.X, hi.Y, z), c(lo.X, hi.Y, z)},
			[2]md3.Vec{c(lo.X, hi.Y, z), c(lo.X, lo.Y, z)},
		)
	}
	for _, x := range []float64{lo.X, hi.X} {
		for _, y := range []float64{lo.Y, hi.Y} {
			edges = append(edges, [2]md3.Vec{c(x, y, lo.Z), c(x, y, hi.Z)})
		}
	}
	return edges
}

// UIConfig configures the interactive viewer window.
type UIConfig struct {
	Width, Height int
	Title         string
	// Context cancels the render loop when done.
	Context context.Context
}

// UI opens an interactive viewer for the scene with an orbiting camera:
// drag to rotate, scroll to dolly. Requires cgo; without it an error is
// returned immediately.
func UI(s *Scene, cfg UIConfig) error {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		cfg.Width, cfg.Height = 800, 600
	}
	if cfg.Title == "" {
		cfg.Title = "flowchamber preview"
	}
	return ui(s, cfg)
}
