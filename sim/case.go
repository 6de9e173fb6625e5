// Package sim builds and drives the external meshing and CFD toolchain:
// OpenFOAM case generation, gmsh/blockMesh/simpleFoam invocation and
// validation of the sampled result against the analytic Poiseuille
// profile.
package sim

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// CaseParams sizes the cube calibration case. Lengths are millimeters,
// velocities m/s.
type CaseParams struct {
	// Edge is the cube side length.
	Edge float64 `yaml:"edge"`
	// Cells per edge of the hex block.
	Cells int `yaml:"cells"`
	// EndTime is the last SIMPLE iteration.
	EndTime       int `yaml:"end_time"`
	WriteInterval int `yaml:"write_interval"`
	// Nu is the kinematic viscosity in m2/s.
	Nu float64 `yaml:"nu"`
	// InletVelocity is the uniform inlet speed along +x.
	InletVelocity float64 `yaml:"inlet_velocity"`
	// SamplePoints along the centerline probe.
	SamplePoints int `yaml:"sample_points"`
}

// DefaultCaseParams returns the laminar water calibration case: a 5 mm
// cube at 20 cells per edge, converged by iteration 200.
func DefaultCaseParams() CaseParams {
	return CaseParams{
		Edge:          5,
		Cells:         20,
		EndTime:       200,
		WriteInterval: 200,
		Nu:            1e-6,
		InletVelocity: 0.001,
		SamplePoints:  100,
	}
}

// LoadCaseParams overlays a YAML parameter file onto the defaults. Fields
// the file omits keep their default values; fields it invents are an
// error.
func LoadCaseParams(path string) (CaseParams, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return DefaultCaseParams(), err
	}
	return CaseParamsFromYAML(data)
}

// CaseParamsFromYAML overlays YAML document bytes onto the defaults.
func CaseParamsFromYAML(data []byte) (CaseParams, error) {
	p := DefaultCaseParams()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	err := dec.Decode(&p)
	if errors.Is(err, io.EOF) {
		return p, nil // empty document keeps every default
	}
	if err != nil {
		return p, fmt.Errorf("case parameters: %w", err)
	}
	return p, nil
}

// WriteCase writes the complete OpenFOAM case tree under dir: system/,
// constant/ and 0/ dictionaries. Existing files are overwritten so a
// case regenerates cleanly.
func WriteCase(dir string, p CaseParams) error {
	for _, sub := range []string{"system", "constant", "0"} {
		if err := os.MkdirAll(filepath.Join(dir, sub), 0o755); err != nil {
			return fmt.Errorf("creating case directory: %w", err)
		}
	}
	files := []struct {
		path string
		body string
	}{
		{"system/blockMeshDict", blockMeshDict(p)},
		{"system/fvSchemes", fvSchemes()},
		{"system/fvSolution", fvSolution()},
		{"system/controlDict", controlDict(p)},
		{"system/sampleDict", sampleDict(p)},
		{"constant/transportProperties", transportProperties(p)},
		{"constant/momentumTransport", momentumTransport()},
		{"0/U", velocityField(p)},
		{"0/p", pressureField()},
	}
	for _, f := range files {
		path := filepath.Join(dir, filepath.FromSlash(f.path))
		if err := os.WriteFile(path, []byte(f.body), 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", f.path, err)
		}
	}
	return nil
}

// fl prints a float the shortest way that parses back exactly.
func fl(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func foamHeader(object string) string {
	return `FoamFile
{
    version     2.0;
    format      ascii;
    class       dictionary;
    object      ` + object + `;
}
// * * * * * * * * * * * * * * * * * * * * * //

`
}

// blockMeshDict describes the cube in millimeters: one hex block with
// the x=0 face as inlet, x=edge as outlet and the rest as walls.
func blockMeshDict(p CaseParams) string {
	return foamHeader("blockMeshDict") + fmt.Sprintf(`convertToMeters 0.001;
vertices (
    (0 0 0)
    (%[1]s 0 0)
    (%[1]s %[1]s 0)
    (0 %[1]s 0)
    (0 0 %[1]s)
    (%[1]s 0 %[1]s)
    (%[1]s %[1]s %[1]s)
    (0 %[1]s %[1]s)
);
blocks (
    hex (0 1 2 3 4 5 6 7) (%[2]d %[2]d %[2]d) simpleGrading (1 1 1)
);
boundary (
    inlet  { type patch; faces ((0 3 7 4)); }
    outlet { type patch; faces ((1 2 6 5)); }
    walls  { type wall;  faces (
        (0 1 5 4)
        (3 2 6 7)
        (0 1 2 3)
        (4 5 6 7)
    ); }
);
`, fl(p.Edge), p.Cells)
}

func fvSchemes() string {
	return foamHeader("fvSchemes") + `ddtSchemes
{
    default         steadyState;
}
gradSchemes
{
    default         Gauss linear;
}
divSchemes
{
    default         none;
    div(phi,U)      Gauss linear;
}
laplacianSchemes
{
    default         Gauss linear corrected;
}
interpolationSchemes
{
    default         linear;
}
snGradSchemes
{
    default         corrected;
}
`
}

func fvSolution() string {
	return foamHeader("fvSolution") + `solvers
{
    p
    {
        solver          PCG;
        preconditioner  DIC;
        tolerance       1e-06;
        relTol          0;
    }
    U
    {
        solver          smoothSolver;
        smoother        symGaussSeidel;
        tolerance       1e-06;
        relTol          0;
    }
}

SIMPLE
{
    nNonOrthogonalCorrectors 0;
}

relaxationFactors
{
    fields
    {
        p               0.3;
    }
    equations
    {
        U               0.7;
    }
}
`
}

func controlDict(p CaseParams) string {
	return foamHeader("controlDict") + fmt.Sprintf(`application     simpleFoam;
startFrom       startTime;
startTime       0;
endTime         %d;
deltaT          1;
writeControl    timeStep;
writeInterval   %d;
purgeWrite      0;
`, p.EndTime, p.WriteInterval)
}

func transportProperties(p CaseParams) string {
	return foamHeader("transportProperties") + fmt.Sprintf(`transportModel  Newtonian;
nu              [0 2 -1 0 0 0 0] %s;
`, fl(p.Nu))
}

func momentumTransport() string {
	return foamHeader("momentumTransport") + "simulationType laminar;\n"
}

func velocityField(p CaseParams) string {
	v := fl(p.InletVelocity)
	return foamHeader("U") + fmt.Sprintf(`dimensions      [0 1 -1 0 0 0 0];
internalField   uniform (%[1]s 0 0);
boundaryField
{
    inlet  { type fixedValue; value uniform (%[1]s 0 0); }
    outlet { type zeroGradient; }
    walls  { type noSlip; }
}
`, v)
}

func pressureField() string {
	return foamHeader("p") + `dimensions      [0 2 -2 0 0 0 0];
internalField   uniform 0;
boundaryField
{
    inlet  { type zeroGradient; }
    outlet { type fixedValue; value uniform 0; }
    walls  { type zeroGradient; }
}
`
}

// sampleDict probes the velocity along the cube centerline.
func sampleDict(p CaseParams) string {
	mid := fl(p.Edge / 2)
	return foamHeader("sampleDict") + fmt.Sprintf(`interpolationScheme cellPoint;
sets ( centerLine uniform (0 %[2]s %[2]s) (%[1]s %[2]s %[2]s) %[3]d );
fields ( U );
`, fl(p.Edge), mid, p.SamplePoints)
}
