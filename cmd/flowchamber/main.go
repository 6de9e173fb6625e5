package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/soypat/flowchamber"
	"github.com/soypat/flowchamber/sim"
)

var (
	// Global flags
	paramsPath     string
	caseParamsPath string
	verbose        bool

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "flowchamber",
	Short: "Parametric microfluidic chamber geometry and CFD harness",
	Long: `flowchamber compiles a parametric test chamber into a CSG geometry
script for external meshing, renders previews of the chamber and drives
the OpenFOAM calibration case through meshing, solving and validation.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config := zap.NewProductionConfig()
		if verbose {
			config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = config.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

// loadParams resolves chamber parameters from --params, falling back to
// the built-in defaults.
func loadParams() (flowchamber.Params, error) {
	if paramsPath == "" {
		return flowchamber.DefaultParams(), nil
	}
	return flowchamber.LoadParams(paramsPath)
}

// loadCaseParams resolves calibration case parameters from --case-params,
// falling back to the built-in defaults.
func loadCaseParams() (sim.CaseParams, error) {
	if caseParamsPath == "" {
		return sim.DefaultCaseParams(), nil
	}
	return sim.LoadCaseParams(caseParamsPath)
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&paramsPath, "params", "p", "", "Chamber parameters YAML file")
	rootCmd.PersistentFlags().StringVar(&caseParamsPath, "case-params", "", "Calibration case parameters YAML file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.AddCommand(geoCmd)
	rootCmd.AddCommand(previewCmd)
	rootCmd.AddCommand(caseCmd)
	rootCmd.AddCommand(runCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
