package sim

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Pipeline invokes the external meshing and solver tools against one
// case directory. Tool fields hold executable names resolved through
// PATH and may point at absolute paths for nonstandard installs.
type Pipeline struct {
	Gmsh        string
	BlockMesh   string
	SimpleFoam  string
	PostProcess string
	// Dir is the case directory passed to every solver stage.
	Dir string
	// Log is optional; nil disables logging.
	Log *zap.Logger
}

// NewPipeline returns a pipeline with the standard tool names.
func NewPipeline(dir string, log *zap.Logger) Pipeline {
	return Pipeline{
		Gmsh:        "gmsh",
		BlockMesh:   "blockMesh",
		SimpleFoam:  "simpleFoam",
		PostProcess: "postProcess",
		Dir:         dir,
		Log:         log,
	}
}

// Commands returns the argv vectors Run executes, in order.
func (pl Pipeline) Commands() [][]string {
	return [][]string{
		{pl.BlockMesh, "-case", pl.Dir},
		{pl.SimpleFoam, "-case", pl.Dir},
		{pl.PostProcess, "-case", pl.Dir, "-func", "sample"},
	}
}

// MeshSTL meshes a geometry script into a surface STL.
func (pl Pipeline) MeshSTL(ctx context.Context, geoPath, stlPath string) error {
	return pl.runTool(ctx, []string{pl.Gmsh, "-3", "-format", "stl", "-o", stlPath, geoPath})
}

// Run executes mesh generation, the steady solve and the centerline
// sampling strictly in order, stopping at the first nonzero exit. No
// stage output is considered usable after a failure.
func (pl Pipeline) Run(ctx context.Context) error {
	for _, argv := range pl.Commands() {
		if err := pl.runTool(ctx, argv); err != nil {
			return err
		}
	}
	return nil
}

func (pl Pipeline) runTool(ctx context.Context, argv []string) error {
	log := pl.Log
	if log == nil {
		log = zap.NewNop()
	}
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	log.Info("running external tool", zap.String("cmd", strings.Join(argv, " ")))
	start := time.Now()
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s: %w: %s", argv[0], err, tail(&stderr, 2048))
	}
	log.Info("external tool finished",
		zap.String("tool", argv[0]),
		zap.Duration("elapsed", time.Since(start)),
	)
	return nil
}

// tail keeps at most n trailing bytes of captured output.
func tail(buf *bytes.Buffer, n int) string {
	s := strings.TrimSpace(buf.String())
	if len(s) > n {
		s = s[len(s)-n:]
	}
	return s
}
