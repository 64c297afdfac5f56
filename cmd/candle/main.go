package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"chosenoffset.com/candle/internal/render/lighting"
	"chosenoffset.com/candle/internal/scene"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "candle",
	Short: "2D light and shadow casting over segment occluders",
	Long: `candle casts visibility polygons for radial and directed lights against
line segment occluders and composes them into a fog or ambient lighting area.
Scenes are read from JSON, TOML or YAML files; without a file the built-in
demo scene is used.`,
	Version: "1.0.0",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if !verbose {
			return
		}
		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
		lighting.SetLogger(logger)
		scene.SetLogger(logger)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log lighting and scene diagnostics to stderr")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadScene reads the optional scene argument.
func loadScene(args []string) *scene.Scene {
	if len(args) == 0 {
		return scene.DefaultScene()
	}
	s, err := scene.LoadScene(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading scene: %v\n", err)
		os.Exit(1)
	}
	return s
}
