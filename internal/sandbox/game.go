package sandbox

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"log"
	"math"

	"chosenoffset.com/candle/internal/core/shadows"
	"chosenoffset.com/candle/internal/render"
	"chosenoffset.com/candle/internal/render/lighting"
	"chosenoffset.com/candle/internal/scene"
)

// ErrQuit is returned from Update when the user asks to leave.
var ErrQuit = errors.New("sandbox: quit")

const (
	opacityStep   = 0.1
	intensityStep = 0.1
	rotateStep    = 6  // degrees per wheel notch
	beamStep      = 5  // degrees per wheel notch
	rangeStep     = 10 // pixels per wheel notch
)

// Game is the interactive lighting sandbox. It implements render.Game.
type Game struct {
	Config   Config
	Renderer render.Renderer
	InputMgr render.InputManager
	World    *scene.World

	brush     Brush
	radial    *lighting.RadialLight
	directed  *lighting.DirectedLight
	blockSize float64
	hover     int // edges of the block brush at the tail of the pool
	line      lineDraft
	colorIdx  int

	glow          bool
	persistentFog bool

	// Pointer state. brushPos is the last pointer position inside the
	// lit area, possibly snapped to the grid.
	mouse    shadows.Point
	brushPos shadows.Point
	control  bool
	shift    bool
	alt      bool

	buttons    []button
	pressed    int
	background render.Image

	// UI state
	Messages []Message

	// Debug
	FrameCount int
}

// New creates a sandbox over world. A nil world starts from an empty
// scene of the configured size. The lit area always takes the size of the
// world's scene.
func New(cfg Config, r render.Renderer, input render.InputManager, world *scene.World) (*Game, error) {
	if world == nil {
		var err error
		world, err = scene.Build(scene.NewScene(cfg.Width, cfg.Height), r, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to build sandbox world: %w", err)
		}
	}
	cfg.Width, cfg.Height = world.Scene.Width, world.Scene.Height
	if len(cfg.Palette) == 0 {
		cfg.Palette = []color.NRGBA{{255, 255, 255, 255}}
	}
	cellW, _ := cfg.CellSize()

	g := &Game{
		Config:        cfg,
		Renderer:      r,
		InputMgr:      input,
		World:         world,
		radial:        lighting.NewRadialLight(),
		directed:      lighting.NewDirectedLight(),
		blockSize:     cellW,
		glow:          cfg.Glow,
		persistentFog: cfg.PersistentFog,
		pressed:       -1,
	}
	g.radial.SetRange(cfg.RadialRange)
	g.directed.SetRange(cfg.DirectedRange)
	g.directed.SetBeamWidth(cfg.DirectedBeam)
	g.radial.SetColor(cfg.Palette[0])
	g.directed.SetColor(cfg.Palette[0])
	g.buttons = newMenu(cfg)

	log.Printf("Sandbox ready: %dx%d, %d edges, %d lights, mode %s",
		cfg.Width, cfg.Height, world.Pool.Len(), world.Lights.Len(), world.Area.Mode())
	return g, nil
}

// Update handles input and composes the lighting area for this frame.
func (g *Game) Update() error {
	// Delta time for timers (assuming 60 FPS)
	dt := 1.0 / 60.0
	g.updateMessages(dt)

	in := g.InputMgr
	if in.IsKeyJustPressed(render.KeyEscape) || in.IsKeyJustPressed(render.KeyQ) {
		return ErrQuit
	}

	g.control = in.IsKeyPressed(render.KeyControl)
	g.shift = in.IsKeyPressed(render.KeyShift)
	g.alt = in.IsKeyPressed(render.KeyAlt)

	g.updatePointer()
	g.handleKeys()

	if _, dy := in.Wheel(); dy != 0 {
		g.scroll(math.Copysign(1, dy))
	}
	if in.IsMouseButtonJustPressed(render.MouseButtonLeft) {
		g.leftClick()
	}
	if in.IsMouseButtonJustPressed(render.MouseButtonRight) {
		g.SetBrush(BrushNone)
	}
	if in.IsMouseButtonJustReleased(render.MouseButtonLeft) {
		g.line = lineDraft{}
		g.pressed = -1
	}

	g.composeLighting()
	g.FrameCount++
	return nil
}

// Layout returns the lit area plus the menu column.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.Config.Width + g.Config.MenuWidth, g.Config.Height
}

// composeLighting restores the fog when it is persistent, then draws every
// committed light and the brush light into the area.
func (g *Game) composeLighting() {
	area := g.World.Area
	if g.persistentFog {
		area.Clear()
	}
	for _, l := range g.World.Lights.All() {
		area.Draw(l, g.World.Pool)
	}
	area.Display()
}

func (g *Game) inSandbox(p shadows.Point) bool {
	return p.X >= 0 && p.Y >= 0 && p.X < float64(g.Config.Width) && p.Y < float64(g.Config.Height)
}

// snap moves p to the centre of its background cell.
func (g *Game) snap(p shadows.Point) shadows.Point {
	cw, ch := g.Config.CellSize()
	return shadows.Point{
		X: math.Floor(p.X/cw)*cw + cw/2,
		Y: math.Floor(p.Y/ch)*ch + ch/2,
	}
}

func (g *Game) updatePointer() {
	x, y := g.InputMgr.GetCursorPosition()
	p := shadows.Point{X: float64(x), Y: float64(y)}
	if g.control && g.inSandbox(p) {
		p = g.snap(p)
	}
	if p == g.mouse {
		return
	}
	g.mouse = p
	if g.inSandbox(p) {
		g.brushPos = p
		g.brushMoved()
	}
}

func (g *Game) brushMoved() {
	p := g.brushPos
	switch g.brush {
	case BrushRadial, BrushDirected:
		g.BrushLight().Base().SetPosition(p.X, p.Y)
	case BrushBlock:
		g.popBlock()
		g.pushBlock(p)
	case BrushLine:
		if g.line.active {
			g.dragLine(p)
		}
	}
}

func (g *Game) handleKeys() {
	in := g.InputMgr

	switch {
	case in.IsKeyJustPressed(render.KeyR), in.IsKeyJustPressed(render.Key1):
		g.SetBrush(BrushRadial)
	case in.IsKeyJustPressed(render.KeyD), in.IsKeyJustPressed(render.Key2):
		g.SetBrush(BrushDirected)
	case in.IsKeyJustPressed(render.KeyB), in.IsKeyJustPressed(render.Key3):
		g.SetBrush(BrushBlock)
	case in.IsKeyJustPressed(render.KeyL), in.IsKeyJustPressed(render.Key4):
		g.SetBrush(BrushLine)
	}

	if in.IsKeyJustPressed(render.KeyM) {
		g.ToggleMode()
	}
	if in.IsKeyJustPressed(render.KeyT) {
		g.persistentFog = !g.persistentFog
		g.ShowMessage(fmt.Sprintf("Persistent fog: %v", g.persistentFog))
	}
	if in.IsKeyJustPressed(render.KeyP) {
		g.logStats()
	}
	if in.IsKeyJustPressed(render.KeyA) {
		g.ChangeOpacity(opacityStep)
	}
	if in.IsKeyJustPressed(render.KeyZ) {
		g.ChangeOpacity(-opacityStep)
	}
	if in.IsKeyJustPressed(render.KeySpace) {
		g.line = lineDraft{}
		switch {
		case g.alt:
			g.ClearEdges()
		case g.shift:
			g.ClearLights()
		default:
			g.ClearLights()
			g.ClearEdges()
		}
	}

	l := g.BrushLight()
	if l == nil {
		return
	}
	src := l.Base()
	if in.IsKeyJustPressed(render.KeyS) {
		src.SetIntensity(roundTenth(src.Intensity() + intensityStep))
	}
	if in.IsKeyJustPressed(render.KeyX) {
		src.SetIntensity(roundTenth(src.Intensity() - intensityStep))
	}
	if in.IsKeyJustPressed(render.KeyG) {
		g.glow = !g.glow
		g.ShowMessage(fmt.Sprintf("Glow: %v", g.glow))
	}
	if in.IsKeyJustPressed(render.KeyF) {
		src.SetFade(!src.Fade())
	}
	if in.IsKeyJustPressed(render.KeyC) {
		g.colorIdx = (g.colorIdx + 1) % len(g.Config.Palette)
		src.SetColor(g.Config.Palette[g.colorIdx])
	}
}

// scroll applies one wheel notch in direction d (+1 or -1) to the brush.
func (g *Game) scroll(d float64) {
	switch g.brush {
	case BrushRadial:
		switch {
		case g.alt:
			g.radial.Rotate(rotateStep * d)
		case g.shift:
			g.radial.SetBeamAngle(g.radial.BeamAngle() + beamStep*d)
		default:
			g.radial.SetRange(g.radial.Range() + rangeStep*d)
		}
	case BrushDirected:
		switch {
		case g.alt:
			g.directed.Rotate(rotateStep * d)
		case g.shift:
			g.directed.SetBeamWidth(g.directed.BeamWidth() + beamStep*d)
		default:
			g.directed.SetRange(g.directed.Range() + rangeStep*d)
		}
	case BrushBlock:
		cw, _ := g.Config.CellSize()
		if size := g.blockSize + cw*d; size > 0 {
			g.popBlock()
			g.blockSize = size
			g.pushBlock(g.brushPos)
		}
	}
}

func (g *Game) leftClick() {
	if !g.inSandbox(g.mouse) {
		g.clickMenu()
		return
	}
	switch g.brush {
	case BrushRadial, BrushDirected:
		g.World.Lights.Add(g.BrushLight().Clone(), g.glow)
	case BrushBlock:
		g.pushBlock(g.brushPos)
	case BrushLine:
		g.line = lineDraft{start: g.brushPos, active: true}
	}
}

func (g *Game) clickMenu() {
	local := image.Pt(int(g.mouse.X)-g.Config.Width, int(g.mouse.Y))
	for i, b := range g.buttons {
		if local.In(b.rect) {
			g.pressed = i
			b.action(g)
			return
		}
	}
	g.SetBrush(BrushNone)
}

// SetBrush switches the brush. The block brush keeps a preview block in
// the edge pool and the light brushes become the manager's cursor light.
func (g *Game) SetBrush(b Brush) {
	if b == g.brush {
		return
	}
	if g.brush == BrushBlock {
		g.popBlock()
	}
	g.line = lineDraft{}
	g.brush = b

	lights := g.World.Lights
	if l := g.BrushLight(); l != nil {
		l.Base().SetPosition(g.brushPos.X, g.brushPos.Y)
		lights.SetCursorLight(l)
		lights.EnableCursorLight(true)
	} else {
		lights.EnableCursorLight(false)
	}
	if b == BrushBlock {
		g.pushBlock(g.brushPos)
	}
}

// Brush returns the current brush.
func (g *Game) Brush() Brush { return g.brush }

// BrushLight returns the light that follows the pointer, or nil when the
// brush does not place lights.
func (g *Game) BrushLight() lighting.Light {
	switch g.brush {
	case BrushRadial:
		return g.radial
	case BrushDirected:
		return g.directed
	default:
		return nil
	}
}

// BlockSize returns the edge length of the block brush.
func (g *Game) BlockSize() float64 { return g.blockSize }

// Glow reports whether new lights are also drawn over the scene.
func (g *Game) Glow() bool { return g.glow }

// PersistentFog reports whether the fog is restored every frame.
func (g *Game) PersistentFog() bool { return g.persistentFog }

func (g *Game) pushBlock(p shadows.Point) {
	g.hover = g.World.Pool.AppendAll(shadows.BlockEdges(p, g.blockSize))
}

func (g *Game) popBlock() {
	for ; g.hover > 0; g.hover-- {
		g.World.Pool.RemoveLast()
	}
}

func (g *Game) dragLine(p shadows.Point) {
	pool := g.World.Pool
	if g.line.inPool {
		pool.RemoveLast()
	}
	g.line.inPool = pool.Append(shadows.NewSegment(g.line.start, p))
}

// ToggleMode flips the area between FOG and AMBIENT. A flat area turns
// black for fog and yellow for ambient light; a textured one is left
// untinted.
func (g *Game) ToggleMode() {
	area := g.World.Area
	mode, clr := lighting.ModeAmbient, color.NRGBA{255, 255, 0, 255}
	if area.Mode() == lighting.ModeAmbient {
		mode, clr = lighting.ModeFog, color.NRGBA{0, 0, 0, 255}
	}
	if area.AreaTexture() != nil {
		clr = color.NRGBA{255, 255, 255, 255}
	}
	area.SetMode(mode)
	area.SetAreaColor(clr)
	area.Clear()
	g.ShowMessage("Mode: " + mode.String())
}

// ChangeOpacity adds d to the area opacity.
func (g *Game) ChangeOpacity(d float64) {
	area := g.World.Area
	area.SetAreaOpacity(roundTenth(area.AreaOpacity() + d))
	area.Clear()
	g.ShowMessage(fmt.Sprintf("Opacity: %.1f", area.AreaOpacity()))
}

// ClearLights removes every placed light.
func (g *Game) ClearLights() {
	g.World.Lights.Clear()
	g.World.Area.Clear()
}

// ClearEdges removes every occluder. The block brush preview is restored.
func (g *Game) ClearEdges() {
	g.World.Pool.Clear()
	g.hover = 0
	g.line = lineDraft{}
	if g.brush == BrushBlock {
		g.pushBlock(g.brushPos)
	}
	g.World.Area.Clear()
}

func (g *Game) logStats() {
	for i, st := range g.World.Stats() {
		log.Printf("Light %d: %s, %d vertices, lit area %.0f", i, st.Type, st.Vertices, st.LitArea)
	}
	g.ShowMessage(fmt.Sprintf("%d lights, %d edges", g.World.Lights.Len(), g.World.Pool.Len()))
}

func (g *Game) updateMessages(dt float64) {
	var active []Message
	for _, msg := range g.Messages {
		msg.TimeLeft -= dt
		if msg.TimeLeft > 0 {
			active = append(active, msg)
		}
	}
	g.Messages = active
}

// ShowMessage adds a new message to be displayed on screen.
func (g *Game) ShowMessage(text string) {
	g.Messages = append(g.Messages, Message{
		Text:     text,
		TimeLeft: 3.0,
		MaxTime:  3.0,
	})
	log.Printf("Message: %s", text)
}

func roundTenth(v float64) float64 {
	return math.Round(v*10) / 10
}
