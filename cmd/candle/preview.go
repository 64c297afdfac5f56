package main

import (
	"fmt"
	"os"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"

	"chosenoffset.com/candle/internal/render/soft"
	"chosenoffset.com/candle/internal/render/term"
	"chosenoffset.com/candle/internal/scene"
)

var previewCmd = &cobra.Command{
	Use:   "preview [scene]",
	Short: "Explore a scene in the terminal",
	Long:  "Render the scene with half-block characters. Arrows move the selected light, tab selects the next one, +/- change its range, r rotates, f toggles fade, m toggles FOG/AMBIENT and q quits.",
	Args:  cobra.MaximumNArgs(1),
	Run:   runPreview,
}

func init() {
	rootCmd.AddCommand(previewCmd)
}

func runPreview(cmd *cobra.Command, args []string) {
	s := loadScene(args)

	p, err := scene.NewPreview(s, soft.NewResourceLoader())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error building scene: %v\n", err)
		os.Exit(1)
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening terminal: %v\n", err)
		os.Exit(1)
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Error initialising terminal: %v\n", err)
		os.Exit(1)
	}
	defer screen.Fini()

	term.NewPresenter(screen).Loop(p)
}
