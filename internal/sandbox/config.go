// Package sandbox is an interactive playground for the lighting core:
// place lights, blocks and walls with the mouse and watch the fog react.
package sandbox

import (
	"image/color"

	"chosenoffset.com/candle/internal/render/lighting"
)

// Config holds the sandbox layout and the starting brush parameters.
type Config struct {
	// Width and Height of the lit area; the menu column sits to its right.
	Width     int
	Height    int
	MenuWidth int

	// Background grid, also used for control-snapping.
	Rows int
	Cols int

	RadialRange   float64
	DirectedRange float64
	DirectedBeam  float64 // degrees

	// Palette is cycled through with the C key.
	Palette    []color.NRGBA
	CellColors []color.NRGBA

	Glow          bool // new lights also glow over the scene
	PersistentFog bool // fog is restored every frame
}

// DefaultConfig returns the classic 700x700 demo layout.
func DefaultConfig() Config {
	return Config{
		Width:         700,
		Height:        700,
		MenuWidth:     700 / 8,
		Rows:          16,
		Cols:          16,
		RadialRange:   lighting.DefaultRadialRange,
		DirectedRange: lighting.DefaultDirectedRange,
		DirectedBeam:  lighting.DefaultDirectedBeamWidth,
		Palette: []color.NRGBA{
			{255, 255, 255, 255},
			{255, 0, 255, 255},
			{0, 255, 255, 255},
			{255, 255, 0, 255},
		},
		CellColors: []color.NRGBA{
			{0, 255, 0, 255},
			{0, 0, 255, 255},
			{255, 0, 0, 255},
		},
		Glow:          true,
		PersistentFog: true,
	}
}

// CellSize returns the size of one background cell.
func (c Config) CellSize() (w, h float64) {
	cols, rows := max(c.Cols, 1), max(c.Rows, 1)
	return float64(c.Width) / float64(cols), float64(c.Height) / float64(rows)
}
