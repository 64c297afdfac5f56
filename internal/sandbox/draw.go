package sandbox

import (
	"fmt"
	"image"
	"image/color"

	"chosenoffset.com/candle/internal/render"
)

var (
	edgeColor   = color.NRGBA{255, 255, 255, 255}
	cursorColor = color.NRGBA{255, 255, 255, 255}
	textColor   = color.NRGBA{255, 255, 255, 255}
	menuColor   = color.NRGBA{30, 30, 30, 255}
)

// Draw renders the sandbox to the screen.
func (g *Game) Draw(screen render.Image) {
	w, h := g.Config.Width, g.Config.Height

	// Ensure the cached background exists and is the right size
	if g.background == nil || needsResize(g.background, w, h) {
		if g.background != nil {
			g.background.Dispose()
		}
		g.background = g.Renderer.NewImage(w, h)
		g.drawCells(g.background)
	}

	screen.Clear()
	screen.DrawImage(g.background, &render.DrawImageOptions{})

	g.World.Area.DrawTo(screen)
	g.drawGlow(screen)
	g.drawEdges(screen)
	g.drawCursor(screen)

	screen.SubImage(image.Rect(w, 0, w+g.Config.MenuWidth, h)).Fill(menuColor)
	g.drawMenu(screen)
	g.drawStatus(screen)
}

func needsResize(img render.Image, w, h int) bool {
	bounds := img.Bounds()
	return bounds.Dx() != w || bounds.Dy() != h
}

// drawCells fills the background grid, cycling through the cell colours.
func (g *Game) drawCells(dst render.Image) {
	colors := g.Config.CellColors
	if len(colors) == 0 {
		dst.Fill(color.Black)
		return
	}
	cw, ch := g.Config.CellSize()
	for row := 0; row < max(g.Config.Rows, 1); row++ {
		for col := 0; col < max(g.Config.Cols, 1); col++ {
			rect := image.Rect(
				int(float64(col)*cw), int(float64(row)*ch),
				int(float64(col+1)*cw), int(float64(row+1)*ch),
			)
			dst.SubImage(rect).Fill(colors[(row+col)%len(colors)])
		}
	}
}

func (g *Game) drawGlow(screen render.Image) {
	occ := g.World.Pool
	for _, l := range g.World.Lights.Glowing() {
		l.Render(g.Renderer, screen, occ)
	}
	if l := g.BrushLight(); l != nil && g.glow {
		l.Render(g.Renderer, screen, occ)
	}
}

func (g *Game) drawEdges(screen render.Image) {
	for seg := range g.World.Pool.All() {
		end := seg.End()
		g.Renderer.StrokeLine(screen,
			float32(seg.Origin.X), float32(seg.Origin.Y), float32(end.X), float32(end.Y),
			1, edgeColor)
	}
}

func (g *Game) drawCursor(screen render.Image) {
	if g.brush != BrushLine {
		return
	}
	g.Renderer.FillCircle(screen, float32(g.brushPos.X), float32(g.brushPos.Y), 2, cursorColor)
}

// drawStatus prints the brush and area settings plus recent messages in
// the top-left corner, clipped to the lit area.
func (g *Game) drawStatus(screen render.Image) {
	screen = screen.SubImage(image.Rect(0, 0, g.Config.Width, g.Config.Height))
	area := g.World.Area
	status := fmt.Sprintf("%s  opacity %.1f  brush %s  lights %d  edges %d",
		area.Mode(), area.AreaOpacity(), g.brush, g.World.Lights.Len(), g.World.Pool.Len())
	g.Renderer.DrawText(screen, status, 8, 8, textColor, 1)

	_, lineH := g.Renderer.MeasureText(status, 1)
	y := 8 + lineH + 4
	for _, msg := range g.Messages {
		alpha := uint8(255 * msg.TimeLeft / msg.MaxTime)
		g.Renderer.DrawText(screen, msg.Text, 8, y, color.NRGBA{255, 255, 255, alpha}, 1)
		y += lineH + 4
	}
}
