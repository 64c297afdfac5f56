package sandbox

import (
	"image"
	"image/color"

	"github.com/lucasb-eyer/go-colorful"

	"chosenoffset.com/candle/internal/render"
)

// Menu colours
var (
	buttonIdle       = color.NRGBA{50, 50, 50, 255}
	buttonIdleEdge   = color.NRGBA{100, 100, 100, 255}
	buttonActive     = color.NRGBA{50, 50, 250, 255}
	buttonActiveEdge = color.NRGBA{100, 100, 250, 255}
	iconLight        = color.NRGBA{255, 255, 150, 255}
	iconDark         = color.NRGBA{25, 25, 25, 255}
)

const buttonGap = 4

// iconTarget is where a button draws its icon, in screen coordinates.
type iconTarget struct {
	dst  render.Image
	x, y float32 // top-left corner
	size float32
}

func (t iconTarget) center() (float32, float32) {
	return t.x + t.size/2, t.y + t.size/2
}

// newMenu lays the buttons out in a single column.
func newMenu(cfg Config) []button {
	size := cfg.MenuWidth - buttonGap
	entries := []struct {
		name   string
		action func(g *Game)
		icon   func(g *Game, t iconTarget)
	}{
		{"radial", func(g *Game) { g.SetBrush(BrushRadial) }, drawRadialIcon},
		{"directed", func(g *Game) { g.SetBrush(BrushDirected) }, drawDirectedIcon},
		{"block", func(g *Game) { g.SetBrush(BrushBlock) }, drawBlockIcon},
		{"line", func(g *Game) { g.SetBrush(BrushLine) }, drawLineIcon},
		{"opacity-", func(g *Game) { g.ChangeOpacity(-opacityStep) }, opacityIcon(0.2)},
		{"opacity+", func(g *Game) { g.ChangeOpacity(opacityStep) }, opacityIcon(0.5)},
		{"clear lights", (*Game).ClearLights, crossIcon(iconLight)},
		{"clear edges", (*Game).ClearEdges, crossIcon(iconDark)},
	}

	buttons := make([]button, 0, len(entries))
	for i, e := range entries {
		x := buttonGap / 2
		y := buttonGap/2 + i*(size+buttonGap)
		buttons = append(buttons, button{
			name:   e.name,
			rect:   image.Rect(x, y, x+size, y+size),
			action: e.action,
			icon:   e.icon,
		})
	}
	return buttons
}

func (g *Game) drawMenu(screen render.Image) {
	r := g.Renderer
	ox := g.Config.Width
	for i, b := range g.buttons {
		rect := b.rect.Add(image.Pt(ox, 0))
		fill, edge := buttonIdle, buttonIdleEdge
		if i == g.pressed || g.isCurrentBrush(b.name) {
			fill, edge = buttonActive, buttonActiveEdge
		}
		screen.SubImage(rect).Fill(fill)

		x0, y0 := float32(rect.Min.X), float32(rect.Min.Y)
		x1, y1 := float32(rect.Max.X), float32(rect.Max.Y)
		r.StrokeLine(screen, x0, y0, x1, y0, 2, edge)
		r.StrokeLine(screen, x1, y0, x1, y1, 2, edge)
		r.StrokeLine(screen, x1, y1, x0, y1, 2, edge)
		r.StrokeLine(screen, x0, y1, x0, y0, 2, edge)

		b.icon(g, iconTarget{dst: screen, x: x0, y: y0, size: float32(rect.Dx())})
	}
}

func (g *Game) isCurrentBrush(name string) bool {
	return g.brush != BrushNone && g.brush.String() == name
}

func drawRadialIcon(g *Game, t iconTarget) {
	cx, cy := t.center()
	g.Renderer.FillCircle(t.dst, cx, cy, t.size/3, iconLight)
	g.Renderer.StrokeCircle(t.dst, cx, cy, t.size/3, 2, color.White)
}

func drawDirectedIcon(g *Game, t iconTarget) {
	w, h := t.size*2/3, t.size/2
	x, y := t.x+(t.size-w)/2, t.y+(t.size-h)/2
	t.dst.SubImage(image.Rect(int(x), int(y), int(x+w), int(y+h))).Fill(iconLight)
}

func drawBlockIcon(g *Game, t iconTarget) {
	s := t.size / 2
	x, y := t.x+s/2, t.y+s/2
	t.dst.SubImage(image.Rect(int(x), int(y), int(x+s), int(y+s))).Fill(iconDark)
}

func drawLineIcon(g *Game, t iconTarget) {
	m := t.size / 5
	g.Renderer.StrokeLine(t.dst, t.x+m, t.y+t.size-m, t.x+t.size-m, t.y+m, 3, iconDark)
}

// opacityIcon draws a strip of background cells darkened by amount.
func opacityIcon(amount float64) func(g *Game, t iconTarget) {
	return func(g *Game, t iconTarget) {
		cells := g.Config.CellColors
		if len(cells) == 0 {
			return
		}
		w := t.size * 2 / 3 / float32(len(cells))
		h := t.size / 3
		x, y := t.x+t.size/6, t.y+(t.size-h)/2
		for i, c := range cells {
			cx := x + float32(i)*w
			t.dst.SubImage(image.Rect(int(cx), int(y), int(cx+w), int(y+h))).Fill(darken(c, amount))
		}
	}
}

func crossIcon(clr color.NRGBA) func(g *Game, t iconTarget) {
	return func(g *Game, t iconTarget) {
		m := t.size / 4
		w := t.size / 6
		g.Renderer.StrokeLine(t.dst, t.x+m, t.y+m, t.x+t.size-m, t.y+t.size-m, w, clr)
		g.Renderer.StrokeLine(t.dst, t.x+t.size-m, t.y+m, t.x+m, t.y+t.size-m, w, clr)
	}
}

// darken blends c towards black by amount in [0, 1].
func darken(c color.NRGBA, amount float64) color.NRGBA {
	cf, ok := colorful.MakeColor(c)
	if !ok {
		return c
	}
	r, g, b := cf.BlendRgb(colorful.Color{}, amount).Clamped().RGB255()
	return color.NRGBA{r, g, b, c.A}
}
