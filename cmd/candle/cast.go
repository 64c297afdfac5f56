package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"chosenoffset.com/candle/internal/render/soft"
	"chosenoffset.com/candle/internal/scene"
)

var castCmd = &cobra.Command{
	Use:   "cast [scene]",
	Short: "Print the visibility polygon of every light",
	Long:  "Build the scene, cast each light against the occluders and report its polygon size and lit area.",
	Args:  cobra.MaximumNArgs(1),
	Run:   runCast,
}

func init() {
	rootCmd.AddCommand(castCmd)
}

func runCast(cmd *cobra.Command, args []string) {
	s := loadScene(args)

	world, err := scene.Build(s, soft.NewRenderer(), nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error building scene: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Scene")
	fmt.Println("=====")
	fmt.Printf("Size: %dx%d\n", s.Width, s.Height)
	fmt.Printf("Area: %s, opacity %.2f\n", world.Area.Mode(), world.Area.AreaOpacity())
	fmt.Printf("Occluders: %d edges\n\n", world.Pool.Len())

	fmt.Println("Lights:")
	for i, st := range world.Stats() {
		x, y := world.Lights.Light(i).Base().Position()
		fmt.Printf("  %d. %-8s at (%.1f, %.1f): %d rim vertices, lit area %.1f square pixels\n",
			i+1, st.Type, x, y, st.Vertices, st.LitArea)
	}
}
