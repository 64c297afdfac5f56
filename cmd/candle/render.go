package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"chosenoffset.com/candle/internal/scene"
)

var (
	renderOutput     string
	renderNoOutlines bool
	renderNoMarkers  bool
)

var renderCmd = &cobra.Command{
	Use:   "render [scene]",
	Short: "Render one frame of a scene to a PNG file",
	Long:  "Cast every light, compose the lighting area on the CPU and write the frame as PNG, optionally with occluder outlines and light markers.",
	Args:  cobra.MaximumNArgs(1),
	Run:   runRender,
}

func init() {
	renderCmd.Flags().StringVarP(&renderOutput, "output", "o", "candle.png", "Output PNG file")
	renderCmd.Flags().BoolVar(&renderNoOutlines, "no-outlines", false, "Do not draw occluder outlines")
	renderCmd.Flags().BoolVar(&renderNoMarkers, "no-markers", false, "Do not draw light markers")
	rootCmd.AddCommand(renderCmd)
}

func runRender(cmd *cobra.Command, args []string) {
	s := loadScene(args)

	opts := scene.DefaultRenderOptions()
	opts.Outlines = !renderNoOutlines
	opts.Markers = !renderNoMarkers

	f, err := os.Create(renderOutput)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating output file: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	if err := scene.RenderPNG(s, f, opts); err != nil {
		fmt.Fprintf(os.Stderr, "Error rendering scene: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Wrote %dx%d frame to %s\n", s.Width, s.Height, renderOutput)
}
