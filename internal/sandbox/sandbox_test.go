package sandbox

import (
	"errors"
	"image/color"
	"math"
	"testing"

	"chosenoffset.com/candle/internal/core/shadows"
	"chosenoffset.com/candle/internal/render"
	"chosenoffset.com/candle/internal/render/lighting"
	"chosenoffset.com/candle/internal/render/soft"
	"chosenoffset.com/candle/internal/scene"
)

// fakeInput is a scripted InputManager. Just-pressed state lasts one Update.
type fakeInput struct {
	held     map[render.Key]bool
	just     map[render.Key]bool
	clicked  map[render.MouseButton]bool
	released map[render.MouseButton]bool
	x, y     int
	wheel    float64
}

func newFakeInput() *fakeInput {
	f := &fakeInput{held: make(map[render.Key]bool)}
	f.reset()
	return f
}

func (f *fakeInput) reset() {
	f.just = make(map[render.Key]bool)
	f.clicked = make(map[render.MouseButton]bool)
	f.released = make(map[render.MouseButton]bool)
	f.wheel = 0
}

func (f *fakeInput) IsKeyPressed(key render.Key) bool     { return f.held[key] || f.just[key] }
func (f *fakeInput) IsKeyJustPressed(key render.Key) bool { return f.just[key] }
func (f *fakeInput) GetCursorPosition() (int, int)        { return f.x, f.y }
func (f *fakeInput) IsMouseButtonPressed(b render.MouseButton) bool {
	return f.clicked[b]
}
func (f *fakeInput) IsMouseButtonJustPressed(b render.MouseButton) bool  { return f.clicked[b] }
func (f *fakeInput) IsMouseButtonJustReleased(b render.MouseButton) bool { return f.released[b] }
func (f *fakeInput) Wheel() (float64, float64)                           { return 0, f.wheel }

func (f *fakeInput) press(keys ...render.Key) {
	for _, k := range keys {
		f.just[k] = true
	}
}

func (f *fakeInput) moveTo(x, y int) { f.x, f.y = x, y }

// testConfig is a 64x256 area split into 16 pixel cells with a 32 pixel
// menu, tall enough for every button.
func testConfig() Config {
	cfg := DefaultConfig()
	cfg.Width, cfg.Height = 64, 256
	cfg.MenuWidth = 32
	cfg.Cols, cfg.Rows = 4, 16
	return cfg
}

func newTestGame(t *testing.T, cfg Config) (*Game, *fakeInput) {
	t.Helper()
	in := newFakeInput()
	g, err := New(cfg, soft.NewRenderer(), in, nil)
	if err != nil {
		t.Fatalf("Failed to create sandbox: %v", err)
	}
	return g, in
}

func step(t *testing.T, g *Game, in *fakeInput) {
	t.Helper()
	if err := g.Update(); err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	in.reset()
}

func areaAlpha(t *testing.T, g *Game, x, y int) uint8 {
	t.Helper()
	tex, _ := g.World.Area.Texture()
	return tex.(*soft.Image).At(x, y).A
}

func TestNewDefaults(t *testing.T) {
	g, _ := newTestGame(t, testConfig())

	if g.Brush() != BrushNone {
		t.Errorf("Expected no brush, got %v", g.Brush())
	}
	if w, h := g.Layout(0, 0); w != 96 || h != 256 {
		t.Errorf("Expected layout 96x256, got %dx%d", w, h)
	}
	if g.BlockSize() != 16 {
		t.Errorf("Expected block size of one cell (16), got %v", g.BlockSize())
	}
	if !g.Glow() || !g.PersistentFog() {
		t.Errorf("Expected glow and persistent fog on by default")
	}
	if g.World.Pool.Len() != 0 || g.World.Lights.Len() != 0 {
		t.Errorf("Expected an empty world, got %d edges and %d lights", g.World.Pool.Len(), g.World.Lights.Len())
	}
	if g.World.Area.Mode() != lighting.ModeFog {
		t.Errorf("Expected FOG area, got %v", g.World.Area.Mode())
	}
}

func TestNewUsesWorldSize(t *testing.T) {
	r := soft.NewRenderer()
	world, err := scene.Build(scene.DefaultScene(), r, nil)
	if err != nil {
		t.Fatalf("Failed to build world: %v", err)
	}
	g, err := New(testConfig(), r, newFakeInput(), world)
	if err != nil {
		t.Fatalf("Failed to create sandbox: %v", err)
	}
	if g.Config.Width != 700 || g.Config.Height != 700 {
		t.Errorf("Expected the world size 700x700, got %dx%d", g.Config.Width, g.Config.Height)
	}
	if g.World.Lights.Len() != 2 {
		t.Errorf("Expected the scene lights to be kept, got %d", g.World.Lights.Len())
	}
}

func TestRadialBrushPlacesLight(t *testing.T) {
	g, in := newTestGame(t, testConfig())

	in.moveTo(20, 20)
	in.press(render.KeyR)
	step(t, g, in)

	if g.Brush() != BrushRadial {
		t.Fatalf("Expected radial brush, got %v", g.Brush())
	}
	if !g.World.Lights.IsCursorLightOn() {
		t.Errorf("Expected the brush light to be the cursor light")
	}
	if x, y := g.BrushLight().Base().Position(); x != 20 || y != 20 {
		t.Errorf("Expected brush light at (20, 20), got (%v, %v)", x, y)
	}
	if a := areaAlpha(t, g, 20, 20); a > 20 {
		t.Errorf("Expected the cursor light to clear the fog, got alpha %d", a)
	}

	in.clicked[render.MouseButtonLeft] = true
	step(t, g, in)

	if g.World.Lights.Len() != 1 {
		t.Fatalf("Expected 1 light, got %d", g.World.Lights.Len())
	}
	placed := g.World.Lights.Light(0)
	if placed == g.BrushLight() {
		t.Errorf("Expected the placed light to be a copy of the brush")
	}
	if x, y := placed.Base().Position(); x != 20 || y != 20 {
		t.Errorf("Expected placed light at (20, 20), got (%v, %v)", x, y)
	}
	if len(g.World.Lights.Glowing()) != 1 {
		t.Errorf("Expected the placed light to glow")
	}
}

func TestRightClickDropsBrush(t *testing.T) {
	g, in := newTestGame(t, testConfig())

	in.press(render.KeyD)
	step(t, g, in)
	if g.Brush() != BrushDirected {
		t.Fatalf("Expected directed brush, got %v", g.Brush())
	}

	in.clicked[render.MouseButtonRight] = true
	step(t, g, in)
	if g.Brush() != BrushNone {
		t.Errorf("Expected no brush after right click, got %v", g.Brush())
	}
	if g.World.Lights.IsCursorLightOn() {
		t.Errorf("Expected the cursor light to be off")
	}
}

func TestBlockBrushFollowsPointer(t *testing.T) {
	g, in := newTestGame(t, testConfig())
	pool := g.World.Pool

	in.moveTo(8, 8)
	in.press(render.KeyB)
	step(t, g, in)
	if pool.Len() != 4 {
		t.Fatalf("Expected a 4 edge preview block, got %d edges", pool.Len())
	}

	in.moveTo(40, 40)
	step(t, g, in)
	if pool.Len() != 4 {
		t.Errorf("Expected the preview to move, got %d edges", pool.Len())
	}
	if o := pool.At(0).Origin; o != (shadows.Point{X: 32, Y: 32}) {
		t.Errorf("Expected preview corner at (32, 32), got %v", o)
	}

	in.clicked[render.MouseButtonLeft] = true
	step(t, g, in)
	if pool.Len() != 8 {
		t.Errorf("Expected the block to be placed, got %d edges", pool.Len())
	}

	in.moveTo(10, 10)
	step(t, g, in)
	if pool.Len() != 8 {
		t.Errorf("Expected 8 edges, got %d", pool.Len())
	}
	if o := pool.At(0).Origin; o != (shadows.Point{X: 32, Y: 32}) {
		t.Errorf("Expected the placed block to stay at (32, 32), got %v", o)
	}

	in.clicked[render.MouseButtonRight] = true
	step(t, g, in)
	if pool.Len() != 4 {
		t.Errorf("Expected the preview to be removed with the brush, got %d edges", pool.Len())
	}
}

func TestScrollResizesBlock(t *testing.T) {
	g, in := newTestGame(t, testConfig())

	in.moveTo(32, 32)
	in.press(render.KeyB)
	step(t, g, in)

	in.wheel = 1
	step(t, g, in)
	if g.BlockSize() != 32 {
		t.Errorf("Expected block size 32, got %v", g.BlockSize())
	}
	if g.World.Pool.Len() != 4 {
		t.Errorf("Expected one preview block, got %d edges", g.World.Pool.Len())
	}
	if o := g.World.Pool.At(0).Origin; o != (shadows.Point{X: 16, Y: 16}) {
		t.Errorf("Expected resized corner at (16, 16), got %v", o)
	}

	for range 3 {
		in.wheel = -1
		step(t, g, in)
	}
	if g.BlockSize() != 16 {
		t.Errorf("Expected block size to stop at one cell, got %v", g.BlockSize())
	}
}

func TestScrollAdjustsLight(t *testing.T) {
	g, in := newTestGame(t, testConfig())

	in.press(render.KeyR)
	step(t, g, in)
	rl := g.BrushLight().(*lighting.RadialLight)

	in.wheel = 1
	step(t, g, in)
	if rl.Range() != 110 {
		t.Errorf("Expected range 110, got %v", rl.Range())
	}

	in.held[render.KeyShift] = true
	in.wheel = -1
	step(t, g, in)
	delete(in.held, render.KeyShift)
	if rl.BeamAngle() != 355 {
		t.Errorf("Expected beam 355, got %v", rl.BeamAngle())
	}

	in.held[render.KeyAlt] = true
	in.wheel = 2
	step(t, g, in)
	delete(in.held, render.KeyAlt)
	if rl.Rotation() != 6 {
		t.Errorf("Expected rotation 6, got %v", rl.Rotation())
	}

	in.press(render.KeyD)
	step(t, g, in)
	dl := g.BrushLight().(*lighting.DirectedLight)
	in.held[render.KeyShift] = true
	in.wheel = 1
	step(t, g, in)
	if dl.BeamWidth() != lighting.DefaultDirectedBeamWidth+5 {
		t.Errorf("Expected beam width %v, got %v", lighting.DefaultDirectedBeamWidth+5, dl.BeamWidth())
	}
}

func TestLineBrush(t *testing.T) {
	g, in := newTestGame(t, testConfig())
	pool := g.World.Pool

	in.moveTo(10, 10)
	in.press(render.KeyL)
	step(t, g, in)

	in.clicked[render.MouseButtonLeft] = true
	step(t, g, in)
	if pool.Len() != 0 {
		t.Errorf("Expected no edge before dragging, got %d", pool.Len())
	}

	in.moveTo(50, 10)
	step(t, g, in)
	in.moveTo(50, 50)
	step(t, g, in)
	if pool.Len() != 1 {
		t.Fatalf("Expected one dragged edge, got %d", pool.Len())
	}
	seg := pool.At(0)
	if seg.Origin != (shadows.Point{X: 10, Y: 10}) || seg.End() != (shadows.Point{X: 50, Y: 50}) {
		t.Errorf("Expected edge (10,10)-(50,50), got %v-%v", seg.Origin, seg.End())
	}

	in.released[render.MouseButtonLeft] = true
	step(t, g, in)
	in.moveTo(20, 30)
	step(t, g, in)
	if pool.Len() != 1 || pool.At(0).End() != (shadows.Point{X: 50, Y: 50}) {
		t.Errorf("Expected the edge to stay after release, got %d edges", pool.Len())
	}
}

func TestControlSnapsToCells(t *testing.T) {
	g, in := newTestGame(t, testConfig())

	in.held[render.KeyControl] = true
	in.moveTo(5, 21)
	in.press(render.KeyR)
	step(t, g, in)

	if x, y := g.BrushLight().Base().Position(); x != 8 || y != 24 {
		t.Errorf("Expected snapped position (8, 24), got (%v, %v)", x, y)
	}
}

func TestToggleMode(t *testing.T) {
	g, in := newTestGame(t, testConfig())
	area := g.World.Area

	in.press(render.KeyM)
	step(t, g, in)
	if area.Mode() != lighting.ModeAmbient {
		t.Errorf("Expected AMBIENT, got %v", area.Mode())
	}
	if c := area.AreaColor(); c != (color.NRGBA{255, 255, 0, 255}) {
		t.Errorf("Expected yellow ambient area, got %v", c)
	}

	in.press(render.KeyM)
	step(t, g, in)
	if area.Mode() != lighting.ModeFog {
		t.Errorf("Expected FOG, got %v", area.Mode())
	}
	if c := area.AreaColor(); c != (color.NRGBA{0, 0, 0, 255}) {
		t.Errorf("Expected black fog, got %v", c)
	}
	if len(g.Messages) != 2 {
		t.Errorf("Expected 2 messages, got %d", len(g.Messages))
	}
}

func TestOpacityKeys(t *testing.T) {
	g, in := newTestGame(t, testConfig())
	area := g.World.Area

	in.press(render.KeyA)
	step(t, g, in)
	if area.AreaOpacity() != 1 {
		t.Errorf("Expected opacity to stay at 1, got %v", area.AreaOpacity())
	}

	in.press(render.KeyZ)
	step(t, g, in)
	in.press(render.KeyZ)
	step(t, g, in)
	if math.Abs(area.AreaOpacity()-0.8) > 1e-9 {
		t.Errorf("Expected opacity 0.8, got %v", area.AreaOpacity())
	}
	if a := areaAlpha(t, g, 60, 60); a < 200 || a > 208 {
		t.Errorf("Expected fog alpha near 204, got %d", a)
	}
}

func TestLightKeys(t *testing.T) {
	g, in := newTestGame(t, testConfig())

	in.press(render.KeyS)
	step(t, g, in)
	if g.radial.Intensity() != 1 {
		t.Errorf("Expected light keys to be ignored without a light brush, got intensity %v", g.radial.Intensity())
	}

	in.press(render.KeyR)
	step(t, g, in)
	src := g.BrushLight().Base()

	in.press(render.KeyX)
	step(t, g, in)
	if math.Abs(src.Intensity()-0.9) > 1e-9 {
		t.Errorf("Expected intensity 0.9, got %v", src.Intensity())
	}

	in.press(render.KeyC)
	step(t, g, in)
	if c := src.Color(); c != (color.NRGBA{255, 0, 255, 255}) {
		t.Errorf("Expected magenta after one colour step, got %v", c)
	}

	in.press(render.KeyG, render.KeyF)
	step(t, g, in)
	if g.Glow() {
		t.Errorf("Expected glow to be toggled off")
	}
	if src.Fade() {
		t.Errorf("Expected fade to be toggled off")
	}
}

func TestSpaceClears(t *testing.T) {
	g, in := newTestGame(t, testConfig())

	in.moveTo(20, 20)
	in.press(render.KeyR)
	step(t, g, in)
	in.clicked[render.MouseButtonLeft] = true
	step(t, g, in)

	in.press(render.KeyB)
	step(t, g, in)
	in.clicked[render.MouseButtonLeft] = true
	step(t, g, in)
	if g.World.Pool.Len() != 8 || g.World.Lights.Len() != 1 {
		t.Fatalf("Expected 8 edges and 1 light, got %d and %d", g.World.Pool.Len(), g.World.Lights.Len())
	}

	in.held[render.KeyAlt] = true
	in.press(render.KeySpace)
	step(t, g, in)
	delete(in.held, render.KeyAlt)
	if g.World.Pool.Len() != 4 {
		t.Errorf("Expected only the preview block left, got %d edges", g.World.Pool.Len())
	}
	if g.World.Lights.Len() != 1 {
		t.Errorf("Expected lights to survive alt+space, got %d", g.World.Lights.Len())
	}

	in.held[render.KeyShift] = true
	in.press(render.KeySpace)
	step(t, g, in)
	delete(in.held, render.KeyShift)
	if g.World.Lights.Len() != 0 {
		t.Errorf("Expected lights cleared, got %d", g.World.Lights.Len())
	}
	if g.World.Pool.Len() != 4 {
		t.Errorf("Expected edges to survive shift+space, got %d", g.World.Pool.Len())
	}
}

func TestPersistentFog(t *testing.T) {
	cfg := testConfig()
	cfg.RadialRange = 20

	tests := []struct {
		name       string
		toggle     bool
		wantReveal bool
	}{
		{"restored each frame", false, false},
		{"accumulates", true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, in := newTestGame(t, cfg)
			if tt.toggle {
				in.press(render.KeyT)
				step(t, g, in)
			}

			in.moveTo(16, 16)
			in.press(render.KeyR)
			step(t, g, in)
			in.moveTo(48, 48)
			step(t, g, in)

			revealed := areaAlpha(t, g, 16, 16) < 20
			if revealed != tt.wantReveal {
				t.Errorf("Expected revealed=%v at the old position, got alpha %d", tt.wantReveal, areaAlpha(t, g, 16, 16))
			}
		})
	}
}

func TestMenuButtons(t *testing.T) {
	g, in := newTestGame(t, testConfig())

	// Third button: block brush.
	in.moveTo(64+16, 2+2*32+10)
	in.clicked[render.MouseButtonLeft] = true
	step(t, g, in)
	if g.Brush() != BrushBlock {
		t.Errorf("Expected block brush from the menu, got %v", g.Brush())
	}
	if g.pressed != 2 {
		t.Errorf("Expected button 2 pressed, got %d", g.pressed)
	}

	in.released[render.MouseButtonLeft] = true
	step(t, g, in)
	if g.pressed != -1 {
		t.Errorf("Expected no pressed button after release, got %d", g.pressed)
	}

	// Fifth button lowers the opacity.
	in.moveTo(64+16, 2+4*32+10)
	in.clicked[render.MouseButtonLeft] = true
	step(t, g, in)
	if math.Abs(g.World.Area.AreaOpacity()-0.9) > 1e-9 {
		t.Errorf("Expected opacity 0.9 from the menu, got %v", g.World.Area.AreaOpacity())
	}

	// Off the buttons drops the brush.
	in.moveTo(65, 1)
	in.clicked[render.MouseButtonLeft] = true
	step(t, g, in)
	if g.Brush() != BrushNone {
		t.Errorf("Expected no brush after clicking the menu background, got %v", g.Brush())
	}
}

func TestEscapeQuits(t *testing.T) {
	for _, key := range []render.Key{render.KeyEscape, render.KeyQ} {
		g, in := newTestGame(t, testConfig())
		in.press(key)
		if err := g.Update(); !errors.Is(err, ErrQuit) {
			t.Errorf("Expected ErrQuit for key %v, got %v", key, err)
		}
	}
}

func TestMessagesExpire(t *testing.T) {
	g, in := newTestGame(t, testConfig())

	in.press(render.KeyP)
	step(t, g, in)
	if len(g.Messages) != 1 || g.Messages[0].Text != "0 lights, 0 edges" {
		t.Fatalf("Expected a stats message, got %v", g.Messages)
	}

	for range 200 {
		step(t, g, in)
	}
	if len(g.Messages) != 0 {
		t.Errorf("Expected messages to expire, got %d", len(g.Messages))
	}
}

func TestDraw(t *testing.T) {
	g, in := newTestGame(t, testConfig())
	w, h := g.Layout(0, 0)
	screen := soft.NewImage(w, h)

	step(t, g, in)
	g.Draw(screen)

	if c := screen.At(60, 200); c != (color.RGBA{0, 0, 0, 255}) {
		t.Errorf("Expected black fog over the area, got %v", c)
	}
	if c := screen.At(80, 32); c != (color.RGBA{30, 30, 30, 255}) {
		t.Errorf("Expected menu background between buttons, got %v", c)
	}
	if c := screen.At(69, 27); c != (color.RGBA{50, 50, 50, 255}) {
		t.Errorf("Expected idle radial button, got %v", c)
	}

	in.moveTo(32, 32)
	in.press(render.KeyR)
	step(t, g, in)
	in.clicked[render.MouseButtonLeft] = true
	step(t, g, in)
	g.Draw(screen)

	if c := screen.At(32, 32); c.B < 200 {
		t.Errorf("Expected the light to show the blue cell under it, got %v", c)
	}
	if c := screen.At(69, 27); c != (color.RGBA{50, 50, 250, 255}) {
		t.Errorf("Expected highlighted radial button, got %v", c)
	}
}

func TestDrawEdgesAndLineCursor(t *testing.T) {
	g, in := newTestGame(t, testConfig())
	w, h := g.Layout(0, 0)
	screen := soft.NewImage(w, h)

	g.World.Pool.Append(shadows.NewSegment(shadows.Point{X: 0, Y: 100.5}, shadows.Point{X: 64, Y: 100.5}))
	step(t, g, in)
	g.Draw(screen)

	if c := screen.At(30, 100); c.R < 128 || c.G < 128 || c.B < 128 {
		t.Errorf("Expected a white edge over the fog, got %v", c)
	}
}

func TestDarken(t *testing.T) {
	got := darken(color.NRGBA{255, 255, 255, 255}, 0.5)
	for _, v := range []uint8{got.R, got.G, got.B} {
		if v < 127 || v > 128 {
			t.Errorf("Expected half grey, got %v", got)
			break
		}
	}
	if got.A != 255 {
		t.Errorf("Expected alpha to be kept, got %d", got.A)
	}
}
