package main

import (
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/soypat/flowchamber"
)

var geoOutput string

var geoCmd = &cobra.Command{
	Use:   "geo",
	Short: "Compile the chamber into a CSG geometry script",
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := loadParams()
		if err != nil {
			return err
		}
		prog, err := flowchamber.Compile(p)
		if err != nil {
			return err
		}
		if geoOutput == "-" {
			_, err = prog.WriteTo(os.Stdout)
			return err
		}
		f, err := os.Create(geoOutput)
		if err != nil {
			return err
		}
		n, err := prog.WriteTo(f)
		if err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
		logger.Info("geometry script written",
			zap.String("path", geoOutput),
			zap.Int64("bytes", n),
		)
		return nil
	},
}

func init() {
	geoCmd.Flags().StringVarP(&geoOutput, "output", "o", "chamber.geo", "Output path, - for stdout")
}
