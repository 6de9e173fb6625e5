package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/soypat/flowchamber/sim"
)

var caseOutDir string

var caseCmd = &cobra.Command{
	Use:   "case",
	Short: "Write the OpenFOAM calibration case",
	Long: `case generates the complete cube calibration case: block mesh and
solver dictionaries, initial velocity and pressure fields, and the
centerline sampling setup. The case validates the solver install against
the analytic Poiseuille profile before chamber runs are trusted.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := loadCaseParams()
		if err != nil {
			return err
		}
		if err := sim.WriteCase(caseOutDir, p); err != nil {
			return err
		}
		logger.Info("calibration case written", zap.String("dir", caseOutDir))
		return nil
	},
}

func init() {
	caseCmd.Flags().StringVarP(&caseOutDir, "dir", "d", "case", "Case directory")
}
