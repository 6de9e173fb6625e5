// Package flowchamber models a parametric microfluidic test chamber: a
// rectangular envelope with an inlet tube reaching in through the top
// wall, an outlet recess drilled into the top wall near the far end, and
// a thin mesh plate standing across the flow. The chamber compiles to a
// symbolic CSG program in the gmsh OpenCASCADE dialect for external
// meshing; companion packages tessellate it for previews and drive the
// downstream solver pipeline.
package flowchamber

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/soypat/geometry/md3"
	"gopkg.in/yaml.v3"
)

// Chamber layout constants, millimeters.
const (
	// inletStationX is the inlet tube axis distance from the x=0 wall.
	inletStationX = 4.0
	// outletInsetX is the outlet recess axis distance from the x=Lx wall.
	outletInsetX = 4.0
	// regionHalo pads classifier boxes around the tube port faces.
	regionHalo = 0.1
	// meshRegionMargin is the half width of the classifier slab straddling
	// the plate station. Fixed; does not follow MeshThk.
	meshRegionMargin = 0.06
)

// Params holds the chamber dimensions in millimeters. Values are not
// validated here: impossible geometry compiles fine and is rejected by
// the external mesher.
type Params struct {
	Lx float64 `yaml:"lx"` // envelope extent along the flow axis
	Ly float64 `yaml:"ly"` // envelope width
	Lz float64 `yaml:"lz"` // envelope height

	TubeID  float64 `yaml:"tube_id"`  // inlet tube inner diameter
	TubeLen float64 `yaml:"tube_len"` // inlet tube reach from the top wall down

	MeshX   float64 `yaml:"mesh_x"`   // plate station along x
	MeshThk float64 `yaml:"mesh_thk"` // plate thickness

	OutID    float64 `yaml:"out_id"`    // outlet recess diameter
	OutDepth float64 `yaml:"out_depth"` // outlet recess depth into the top wall

	MeshScale float64 `yaml:"mesh_scale"` // characteristic mesh length forwarded to the mesher
}

// DefaultParams returns the stock chamber used for mesh plate testing.
func DefaultParams() Params {
	return Params{
		Lx: 30, Ly: 20, Lz: 20,
		TubeID: 3.175, TubeLen: 18,
		MeshX: 10, MeshThk: 0.11,
		OutID: 3.175, OutDepth: 2,
		MeshScale: 2,
	}
}

// LoadParams overlays a YAML parameter file onto the defaults. Fields the
// file omits keep their default values; fields it invents are an error.
func LoadParams(path string) (Params, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return DefaultParams(), err
	}
	return ParamsFromYAML(data)
}

// ParamsFromYAML overlays YAML document bytes onto the defaults.
func ParamsFromYAML(data []byte) (Params, error) {
	p := DefaultParams()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	err := dec.Decode(&p)
	if errors.Is(err, io.EOF) {
		return p, nil // empty document keeps every default
	}
	if err != nil {
		return p, fmt.Errorf("chamber parameters: %w", err)
	}
	return p, nil
}

// Envelope returns the chamber outer box with one corner at the origin.
func (p Params) Envelope() md3.Box {
	return md3.Box{Max: md3.Vec{X: p.Lx, Y: p.Ly, Z: p.Lz}}
}

// Inlet returns the inlet tube placement. The tube hangs from the top
// wall on the chamber midplane: its top face is flush with z=Lz and it
// reaches TubeLen down into the chamber.
func (p Params) Inlet() (base, axis md3.Vec, r float64) {
	base = md3.Vec{X: inletStationX, Y: p.Ly / 2, Z: p.Lz - p.TubeLen}
	return base, md3.Vec{Z: p.TubeLen}, p.TubeID / 2
}

// Outlet returns the outlet recess placement: a short bore drilled down
// into the top wall near the far end, axis pointing into the chamber.
func (p Params) Outlet() (base, axis md3.Vec, r float64) {
	base = md3.Vec{X: p.Lx - outletInsetX, Y: p.Ly / 2, Z: p.Lz}
	return base, md3.Vec{Z: -p.OutDepth}, p.OutID / 2
}

// PlateBox returns the mesh plate solid: MeshThk wide in x, centered on
// MeshX, spanning the full cross section.
func (p Params) PlateBox() md3.Box {
	return md3.Box{
		Min: md3.Vec{X: p.MeshX - p.MeshThk/2},
		Max: md3.Vec{X: p.MeshX + p.MeshThk/2, Y: p.Ly, Z: p.Lz},
	}
}
