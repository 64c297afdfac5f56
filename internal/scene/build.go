package scene

import (
	"fmt"
	"image"
	"strings"

	"chosenoffset.com/candle/internal/core/shadows"
	"chosenoffset.com/candle/internal/render"
	"chosenoffset.com/candle/internal/render/lighting"
)

// World is a scene built for one renderer: its occluders, lights and
// lighting area.
type World struct {
	Scene  *Scene
	Pool   *shadows.EdgePool
	Lights *lighting.Manager
	Area   *lighting.Area

	renderer render.Renderer
}

// LightStats summarises one cast of a light.
type LightStats struct {
	Type     string
	Vertices int
	LitArea  float64
}

// Build creates the world for s. The area texture, if any, is loaded with
// loader; without a loader the area falls back to its flat colour.
func Build(s *Scene, r render.Renderer, loader render.ResourceLoader) (*World, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	w := &World{
		Scene:    s,
		Pool:     buildPool(s),
		Lights:   lighting.NewManager(),
		renderer: r,
	}

	area, err := buildArea(s, r, loader)
	if err != nil {
		return nil, err
	}
	w.Area = area

	for _, spec := range s.Lights {
		w.Lights.Add(buildLight(spec), spec.Glow || s.Glow)
	}

	Logger().Debug("scene built",
		"edges", w.Pool.Len(), "lights", w.Lights.Len(), "mode", area.Mode())
	return w, nil
}

func buildPool(s *Scene) *shadows.EdgePool {
	pool := shadows.NewEdgePool()

	for i, e := range s.Edges {
		seg := shadows.NewSegment(shadows.Point{X: e.X1, Y: e.Y1}, shadows.Point{X: e.X2, Y: e.Y2})
		if !pool.Append(seg) {
			Logger().Warn("skipping degenerate edge", "index", i)
		}
	}
	for _, b := range s.Blocks {
		for _, seg := range shadows.BlockEdges(shadows.Point{X: b.X, Y: b.Y}, b.Size) {
			pool.Append(seg)
		}
	}
	if len(s.Walls.Rows) > 0 {
		for _, seg := range shadows.GridEdges(wallGrid(s.Walls.Rows), s.Walls.TileSize) {
			pool.Append(seg)
		}
	}
	return pool
}

func buildArea(s *Scene, r render.Renderer, loader render.ResourceLoader) (*lighting.Area, error) {
	spec := s.Area
	mode, _ := lighting.ParseMode(spec.Mode)

	var area *lighting.Area
	switch {
	case spec.Texture != "" && loader != nil:
		tex, err := loader.LoadImage(spec.Texture)
		if err != nil {
			return nil, fmt.Errorf("failed to load area texture: %w", err)
		}
		var rect image.Rectangle
		if tr := spec.TextureRect; tr != nil {
			rect = image.Rect(tr.X, tr.Y, tr.X+tr.W, tr.Y+tr.H)
		}
		area = lighting.NewTexturedArea(r, mode, tex, rect)
		area.SetPosition(spec.X, spec.Y)
	default:
		if spec.Texture != "" {
			Logger().Warn("no loader for area texture, using flat colour", "texture", spec.Texture)
		}
		width, height := spec.Width, spec.Height
		if width <= 0 {
			width = float64(s.Width)
		}
		if height <= 0 {
			height = float64(s.Height)
		}
		area = lighting.NewArea(r, mode, spec.X, spec.Y, width, height)
	}

	if spec.Scale > 0 {
		area.SetScale(spec.Scale, spec.Scale)
	}
	area.SetAreaColor(parsedColor(spec.Color))
	area.SetAreaOpacity(spec.Opacity)
	area.Clear()
	return area, nil
}

func buildLight(spec LightSpec) lighting.Light {
	var l lighting.Light
	switch strings.ToLower(spec.Type) {
	case LightDirected:
		d := lighting.NewDirectedLight()
		if spec.Beam != nil {
			d.SetBeamWidth(*spec.Beam)
		}
		l = d
	default:
		rl := lighting.NewRadialLight()
		if spec.Beam != nil {
			rl.SetBeamAngle(*spec.Beam)
		}
		l = rl
	}

	src := l.Base()
	src.SetPosition(spec.X, spec.Y)
	src.SetRotation(spec.Rotation)
	src.SetColor(parsedColor(spec.Color))
	if spec.Range != nil {
		src.SetRange(*spec.Range)
	}
	if spec.Intensity != nil {
		src.SetIntensity(*spec.Intensity)
	}
	if spec.Fade != nil {
		src.SetFade(*spec.Fade)
	}
	return l
}

// Frame composes every committed light into the lighting area.
func (w *World) Frame() {
	w.Area.Compose(w.Pool, w.Lights.All()...)
}

// RenderScene draws the lighting area and the glowing lights into dst.
func (w *World) RenderScene(dst render.Image) {
	w.Area.DrawTo(dst)
	for _, l := range w.Lights.Glowing() {
		l.Render(w.renderer, dst, w.Pool)
	}
}

// Stats casts every committed light once and reports its polygon.
func (w *World) Stats() []LightStats {
	lights := w.Lights.Committed()
	stats := make([]LightStats, 0, len(lights))
	for _, l := range lights {
		p := l.Cast(w.Pool)
		stats = append(stats, LightStats{
			Type:     lightType(l),
			Vertices: len(p.Rim),
			LitArea:  p.Area(),
		})
	}
	return stats
}

func lightType(l lighting.Light) string {
	if _, ok := l.(*lighting.DirectedLight); ok {
		return LightDirected
	}
	return LightRadial
}

// wallGrid reads '#' cells of a tile map as sight blockers.
type wallGrid []string

func (g wallGrid) Size() (width, height int) {
	for _, row := range g {
		width = max(width, len(row))
	}
	return width, len(g)
}

func (g wallGrid) BlocksSight(x, y int) bool {
	if y < 0 || y >= len(g) || x < 0 || x >= len(g[y]) {
		return false
	}
	return g[y][x] == '#'
}
