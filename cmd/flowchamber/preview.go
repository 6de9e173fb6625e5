package main

import (
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/soypat/flowchamber/preview"
)

var (
	previewOutput   string
	previewSTL      string
	previewUI       bool
	previewSegments int
	previewWidth    int
	previewHeight   int
)

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Render the chamber preview",
	Long: `preview tessellates the chamber features and renders them: a PNG
image by default, an interactive OpenGL viewer with --ui, and optionally
a binary STL of the preview mesh with --stl.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := loadParams()
		if err != nil {
			return err
		}
		scene := preview.NewScene(p, previewSegments)
		if previewSTL != "" {
			f, err := os.Create(previewSTL)
			if err != nil {
				return err
			}
			n, err := preview.WriteBinarySTL(f, scene.Triangles())
			if err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
			logger.Info("preview STL written",
				zap.String("path", previewSTL),
				zap.Int("bytes", n),
			)
		}
		if previewUI {
			return preview.UI(scene, preview.UIConfig{
				Width:   previewWidth,
				Height:  previewHeight,
				Title:   "flowchamber preview",
				Context: cmd.Context(),
			})
		}
		f, err := os.Create(previewOutput)
		if err != nil {
			return err
		}
		cfg := preview.ImageConfig{
			Width:  previewWidth,
			Height: previewHeight,
			Title:  "Quick geometry preview",
			Log:    logger,
		}
		if err := preview.RenderPNG(scene, f, cfg); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
		logger.Info("preview image written", zap.String("path", previewOutput))
		return nil
	},
}

func init() {
	previewCmd.Flags().StringVarP(&previewOutput, "output", "o", "chamber.png", "Preview image path")
	previewCmd.Flags().StringVar(&previewSTL, "stl", "", "Also export the preview mesh as binary STL")
	previewCmd.Flags().BoolVar(&previewUI, "ui", false, "Open the interactive viewer instead of writing an image")
	previewCmd.Flags().IntVar(&previewSegments, "segments", 0, "Cylinder tessellation segments, 0 for the default")
	previewCmd.Flags().IntVar(&previewWidth, "width", 960, "Render width in pixels")
	previewCmd.Flags().IntVar(&previewHeight, "height", 720, "Render height in pixels")
}
