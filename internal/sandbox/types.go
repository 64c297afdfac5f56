package sandbox

import (
	"image"

	"chosenoffset.com/candle/internal/core/shadows"
)

// Brush is what a left click in the sandbox places.
type Brush int

const (
	BrushNone Brush = iota
	BrushRadial
	BrushDirected
	BrushBlock
	BrushLine
)

// String returns the brush name.
func (b Brush) String() string {
	switch b {
	case BrushRadial:
		return "radial"
	case BrushDirected:
		return "directed"
	case BrushBlock:
		return "block"
	case BrushLine:
		return "line"
	default:
		return "none"
	}
}

// isLight reports whether the brush places lights.
func (b Brush) isLight() bool {
	return b == BrushRadial || b == BrushDirected
}

// Message represents an on-screen message that fades over time.
type Message struct {
	Text     string
	TimeLeft float64 // Seconds remaining
	MaxTime  float64 // Initial duration
}

// lineDraft is the line being dragged out by the line brush.
type lineDraft struct {
	start  shadows.Point
	active bool
	inPool bool // the draft segment is the last edge in the pool
}

// button is one entry of the side menu. Rect is relative to the menu.
type button struct {
	name   string
	rect   image.Rectangle
	action func(g *Game)
	icon   func(g *Game, dst iconTarget)
}
