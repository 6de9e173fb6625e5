package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/soypat/flowchamber"
	"github.com/soypat/flowchamber/sim"
)

var (
	runDir string
	runTol float64
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run geometry, meshing, solve and validation end to end",
	Long: `run compiles the chamber geometry, meshes it with gmsh, writes the
calibration case, drives blockMesh, simpleFoam and the sampling post
process, then validates the sampled centerline against the analytic
Poiseuille profile. Any stage failure aborts the pipeline.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		p, err := loadParams()
		if err != nil {
			return err
		}
		if err := os.MkdirAll(runDir, 0o755); err != nil {
			return err
		}

		prog, err := flowchamber.Compile(p)
		if err != nil {
			return err
		}
		geoPath := filepath.Join(runDir, "chamber.geo")
		f, err := os.Create(geoPath)
		if err != nil {
			return err
		}
		if _, err := prog.WriteTo(f); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
		logger.Info("geometry script written", zap.String("path", geoPath))

		caseParams, err := loadCaseParams()
		if err != nil {
			return err
		}
		caseDir := filepath.Join(runDir, "case")
		if err := sim.WriteCase(caseDir, caseParams); err != nil {
			return err
		}
		pl := sim.NewPipeline(caseDir, logger)
		if err := pl.MeshSTL(ctx, geoPath, filepath.Join(runDir, "chamber.stl")); err != nil {
			return err
		}
		if err := pl.Run(ctx); err != nil {
			return err
		}

		profPath := sim.ProfilePath(caseDir, strconv.Itoa(caseParams.EndTime))
		pf, err := os.Open(profPath)
		if err != nil {
			return fmt.Errorf("opening sampled profile: %w", err)
		}
		defer pf.Close()
		prof, err := sim.LoadProfile(pf)
		if err != nil {
			return err
		}
		if err := sim.Validate(prof, caseParams.Edge, runTol); err != nil {
			return err
		}
		logger.Info("validation passed",
			zap.Int("samples", len(prof.X)),
			zap.Float64("tolerance", runTol),
		)
		return nil
	},
}

func init() {
	runCmd.Flags().StringVar(&runDir, "dir", "out", "Working directory for generated artifacts")
	runCmd.Flags().Float64Var(&runTol, "tolerance", sim.DefaultTolerance, "Relative L2 acceptance threshold")
}
