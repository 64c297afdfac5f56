package render

import (
	"image"
	"image/color"
)

// Renderer is the main rendering interface that abstracts the underlying
// graphics engine. Lighting code only ever talks to this interface, so the
// same scene renders through ebiten on screen and through the software
// backend in tests and headless output.
type Renderer interface {
	// Image operations
	NewImage(width, height int) Image

	// Vector operations (for drawing shapes)
	FillCircle(dst Image, x, y, radius float32, clr color.Color)
	StrokeCircle(dst Image, x, y, radius float32, strokeWidth float32, clr color.Color)
	StrokeLine(dst Image, x0, y0, x1, y1 float32, strokeWidth float32, clr color.Color)

	// Text operations
	DrawText(dst Image, text string, x, y int, clr color.Color, scale float64)
	MeasureText(text string, scale float64) (width, height int)
}

// Image represents a renderable image surface that can be drawn to or drawn from.
// It abstracts the underlying image implementation.
type Image interface {
	// Properties
	Bounds() image.Rectangle
	Size() (width, height int)

	// Sub-image extraction
	SubImage(r image.Rectangle) Image

	// Fill operations
	Fill(clr color.Color)
	Clear()

	// Drawing operations
	DrawImage(src Image, opts *DrawImageOptions)
	DrawTriangles(vertices []Vertex, indices []uint16, img Image, opts *DrawTrianglesOptions)

	// Resource management
	Dispose()
}

// Blend selects how source pixels combine with the destination.
type Blend int

const (
	// BlendSourceOver is regular alpha blending.
	BlendSourceOver Blend = iota
	// BlendLighter adds source and destination (clamped).
	BlendLighter
	// BlendDestinationOut scales the destination by one minus the source
	// alpha. The destination colour is unchanged; only its coverage shrinks.
	BlendDestinationOut
)

// String returns the name of the blend.
func (b Blend) String() string {
	switch b {
	case BlendSourceOver:
		return "source-over"
	case BlendLighter:
		return "lighter"
	case BlendDestinationOut:
		return "destination-out"
	default:
		return "unknown"
	}
}

// Filter selects how a source image is sampled when it is scaled.
type Filter int

const (
	// FilterNearest samples the closest texel.
	FilterNearest Filter = iota
	// FilterLinear interpolates between texels (the "smooth" flag).
	FilterLinear
)

// DrawImageOptions contains options for drawing an image.
type DrawImageOptions struct {
	GeoM GeoM
	// Tint multiplies the source colour. Nil means no tint.
	Tint   color.Color
	Blend  Blend
	Filter Filter
}

// DrawTrianglesOptions contains options for drawing triangles.
type DrawTrianglesOptions struct {
	AntiAlias bool
	Blend     Blend
}

// Vertex represents a vertex for triangle rendering.
// Colours are straight (non-premultiplied) and scale the sampled texel.
type Vertex struct {
	DstX   float32
	DstY   float32
	SrcX   float32
	SrcY   float32
	ColorR float32
	ColorG float32
	ColorB float32
	ColorA float32
}

// InputManager handles input from the user (keyboard, mouse, etc).
type InputManager interface {
	IsKeyPressed(key Key) bool
	IsKeyJustPressed(key Key) bool
	GetCursorPosition() (x, y int)
	IsMouseButtonPressed(button MouseButton) bool
	IsMouseButtonJustPressed(button MouseButton) bool
	IsMouseButtonJustReleased(button MouseButton) bool
	// Wheel returns the scroll offset accumulated this frame.
	Wheel() (dx, dy float64)
}

// Key represents a keyboard key.
type Key int

// Key constants for the keys the sandbox binds
const (
	KeyA Key = iota
	KeyB
	KeyC
	KeyD
	KeyF
	KeyG
	KeyL
	KeyM
	KeyP
	KeyQ
	KeyR
	KeyS
	KeyT
	KeyX
	KeyZ
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeySpace
	KeyEscape
	KeyShift
	KeyControl
	KeyAlt
	Key1
	Key2
	Key3
	Key4
)

// MouseButton represents a mouse button.
type MouseButton int

// Mouse button constants
const (
	MouseButtonLeft MouseButton = iota
	MouseButtonRight
	MouseButtonMiddle
)

// ResourceLoader handles loading resources like images from disk.
type ResourceLoader interface {
	LoadImage(path string) (Image, error)
}

// Game is driven by an Engine: Update once per tick, Draw once per frame.
type Game interface {
	// Update advances the state. A non-nil error stops the engine and is
	// returned from RunGame.
	Update() error

	Draw(screen Image)

	// Layout maps the window size to the logical screen size used for
	// drawing and cursor coordinates.
	Layout(outsideWidth, outsideHeight int) (screenWidth, screenHeight int)
}

// Engine owns the window and the main loop.
type Engine interface {
	SetWindowSize(width, height int)
	SetWindowTitle(title string)
	SetWindowResizable(resizable bool)

	// RunGame blocks until the game's Update returns an error or the
	// window is closed.
	RunGame(game Game) error
}
