package sim

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestCaseParamsFromYAML(t *testing.T) {
	p, err := CaseParamsFromYAML([]byte("cells: 30\nend_time: 400\n"))
	if err != nil {
		t.Fatal(err)
	}
	if p.Cells != 30 || p.EndTime != 400 {
		t.Errorf("overlay not applied: cells=%v end_time=%v", p.Cells, p.EndTime)
	}
	if p.Edge != 5 || p.Nu != 1e-6 || p.SamplePoints != 100 {
		t.Errorf("defaults lost on overlay: %+v", p)
	}
}

func TestCaseParamsFromYAMLEmpty(t *testing.T) {
	p, err := CaseParamsFromYAML(nil)
	if err != nil {
		t.Fatal(err)
	}
	if p != DefaultCaseParams() {
		t.Errorf("empty document should keep defaults, got %+v", p)
	}
}

func TestCaseParamsFromYAMLUnknownField(t *testing.T) {
	_, err := CaseParamsFromYAML([]byte("edge: 8\nwidth: 2\n"))
	if err == nil {
		t.Error("expected error for unknown parameter name")
	}
}

func TestLoadCaseParams(t *testing.T) {
	path := filepath.Join(t.TempDir(), "case.yaml")
	if err := os.WriteFile(path, []byte("edge: 8\ninlet_velocity: 0.002\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	p, err := LoadCaseParams(path)
	if err != nil {
		t.Fatal(err)
	}
	if p.Edge != 8 || p.InletVelocity != 0.002 || p.Cells != 20 {
		t.Errorf("loaded case params: %+v", p)
	}
	if _, err := LoadCaseParams(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestWriteCaseTree(t *testing.T) {
	dir := t.TempDir()
	if err := WriteCase(dir, DefaultCaseParams()); err != nil {
		t.Fatal(err)
	}
	wantFiles := []string{
		"system/blockMeshDict",
		"system/fvSchemes",
		"system/fvSolution",
		"system/controlDict",
		"system/sampleDict",
		"constant/transportProperties",
		"constant/momentumTransport",
		"0/U",
		"0/p",
	}
	for _, f := range wantFiles {
		body, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(f)))
		if err != nil {
			t.Fatalf("case file %s: %v", f, err)
		}
		if !strings.HasPrefix(string(body), "FoamFile") {
			t.Errorf("%s does not start with a FoamFile header", f)
		}
	}
}

func TestBlockMeshDictContents(t *testing.T) {
	body := blockMeshDict(DefaultCaseParams())
	for _, want := range []string{
		"convertToMeters 0.001;",
		"hex (0 1 2 3 4 5 6 7) (20 20 20) simpleGrading (1 1 1)",
		"(5 5 5)",
		"inlet  { type patch; faces ((0 3 7 4)); }",
		"outlet { type patch; faces ((1 2 6 5)); }",
		"type wall;",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("blockMeshDict missing %q", want)
		}
	}
}

func TestCaseDictionaryValues(t *testing.T) {
	p := DefaultCaseParams()
	if got := controlDict(p); !strings.Contains(got, "endTime         200;") ||
		!strings.Contains(got, "application     simpleFoam;") {
		t.Errorf("controlDict missing solver or end time:\n%s", got)
	}
	if got := transportProperties(p); !strings.Contains(got, "nu              [0 2 -1 0 0 0 0] 1e-06;") {
		t.Errorf("transportProperties missing viscosity:\n%s", got)
	}
	if got := velocityField(p); !strings.Contains(got, "internalField   uniform (0.001 0 0);") ||
		!strings.Contains(got, "walls  { type noSlip; }") {
		t.Errorf("velocity field missing inlet value or wall condition:\n%s", got)
	}
	if got := pressureField(); !strings.Contains(got, "outlet { type fixedValue; value uniform 0; }") {
		t.Errorf("pressure field missing outlet reference:\n%s", got)
	}
	if got := sampleDict(p); !strings.Contains(got, "sets ( centerLine uniform (0 2.5 2.5) (5 2.5 2.5) 100 );") {
		t.Errorf("sampleDict missing centerline probe:\n%s", got)
	}
	if got := fvSolution(); !strings.Contains(got, "solver          PCG;") ||
		!strings.Contains(got, "p               0.3;") ||
		!strings.Contains(got, "U               0.7;") {
		t.Errorf("fvSolution missing solver or relaxation setup:\n%s", got)
	}
	if got := momentumTransport(); !strings.Contains(got, "simulationType laminar;") {
		t.Errorf("momentumTransport not laminar:\n%s", got)
	}
}

func TestWriteCaseParameterized(t *testing.T) {
	p := DefaultCaseParams()
	p.Edge = 8
	p.Cells = 10
	p.EndTime = 50
	p.WriteInterval = 50
	p.InletVelocity = 0.002
	dir := t.TempDir()
	if err := WriteCase(dir, p); err != nil {
		t.Fatal(err)
	}
	block, err := os.ReadFile(filepath.Join(dir, "system", "blockMeshDict"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(block), "(10 10 10)") || !strings.Contains(string(block), "(8 8 8)") {
		t.Errorf("blockMeshDict does not follow parameters:\n%s", block)
	}
	sample, err := os.ReadFile(filepath.Join(dir, "system", "sampleDict"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(sample), "(0 4 4) (8 4 4)") {
		t.Errorf("sampleDict centerline not rescaled:\n%s", sample)
	}
}

func TestWriteCaseOverwrites(t *testing.T) {
	dir := t.TempDir()
	if err := WriteCase(dir, DefaultCaseParams()); err != nil {
		t.Fatal(err)
	}
	p := DefaultCaseParams()
	p.EndTime = 123
	if err := WriteCase(dir, p); err != nil {
		t.Fatal(err)
	}
	body, err := os.ReadFile(filepath.Join(dir, "system", "controlDict"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(body), "endTime         123;") {
		t.Errorf("regenerated controlDict kept stale end time:\n%s", body)
	}
}
