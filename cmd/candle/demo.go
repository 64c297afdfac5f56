package main

import (
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	ebitenrender "chosenoffset.com/candle/internal/render/ebiten"
	"chosenoffset.com/candle/internal/sandbox"
	"chosenoffset.com/candle/internal/scene"
)

var demoEmpty bool

var demoCmd = &cobra.Command{
	Use:   "demo [scene]",
	Short: "Open the interactive lighting sandbox",
	Long: `Open a window with the scene and a tool menu. R, D, B and L pick the radial,
directed, block and line brushes; left click places, right click drops the
brush. The wheel changes range (shift: beam, alt: rotation, block: size).
M toggles FOG/AMBIENT, T persistent fog, A/Z opacity, S/X intensity,
G glow, F fade, C colour. Space clears everything (shift: lights, alt: edges).
Hold control to snap to the grid. Q or Escape quits.`,
	Args: cobra.MaximumNArgs(1),
	Run:  runDemo,
}

func init() {
	demoCmd.Flags().BoolVar(&demoEmpty, "empty", false, "Start from an empty canvas instead of the demo scene")
	rootCmd.AddCommand(demoCmd)
}

func runDemo(cmd *cobra.Command, args []string) {
	s := loadScene(args)
	if demoEmpty && len(args) == 0 {
		s = scene.NewScene(s.Width, s.Height)
	}

	// Initialize the renderer backend (ebiten)
	renderer := ebitenrender.NewRenderer()
	inputMgr := ebitenrender.NewInputManager()
	loader := ebitenrender.NewResourceLoader()
	engine := ebitenrender.NewEngine()

	world, err := scene.Build(s, renderer, loader)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error building scene: %v\n", err)
		os.Exit(1)
	}

	game, err := sandbox.New(sandbox.DefaultConfig(), renderer, inputMgr, world)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating sandbox: %v\n", err)
		os.Exit(1)
	}

	// Set up the window
	width, height := game.Layout(0, 0)
	engine.SetWindowSize(width, height)
	engine.SetWindowTitle("Candle")
	engine.SetWindowResizable(false)

	log.Println("Starting sandbox...")
	if err := engine.RunGame(game); err != nil && !errors.Is(err, sandbox.ErrQuit) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
