package scene

import (
	"fmt"
	"image"
	"image/color"
	"io"

	"github.com/gogpu/gg"

	"chosenoffset.com/candle/internal/render"
	"chosenoffset.com/candle/internal/render/soft"
)

// Overlay colours for headless frames.
var (
	outlineColor = color.NRGBA{255, 80, 80, 255}
	markerColor  = color.NRGBA{255, 255, 0, 255}
)

const markerRadius = 3

// RenderOptions controls what a headless frame shows on top of the lit scene.
type RenderOptions struct {
	Outlines bool                  // draw occluder segments
	Markers  bool                  // draw a dot at every light
	Loader   render.ResourceLoader // loads the area texture; nil uses the flat colour
}

// DefaultRenderOptions shows outlines and markers and loads textures from disk.
func DefaultRenderOptions() RenderOptions {
	return RenderOptions{
		Outlines: true,
		Markers:  true,
		Loader:   soft.NewResourceLoader(),
	}
}

// RenderImage renders one frame of s on the CPU.
func RenderImage(s *Scene, opts RenderOptions) (image.Image, error) {
	dc, err := renderContext(s, opts)
	if err != nil {
		return nil, err
	}
	defer dc.Close()
	return dc.Image(), nil
}

// RenderPNG renders one frame of s and writes it to w as PNG.
func RenderPNG(s *Scene, w io.Writer, opts RenderOptions) error {
	dc, err := renderContext(s, opts)
	if err != nil {
		return err
	}
	defer dc.Close()
	if err := dc.EncodePNG(w); err != nil {
		return fmt.Errorf("failed to encode frame: %w", err)
	}
	return nil
}

// renderContext draws the background with gg, composes the lights with the
// software backend on top, then returns a gg context over the result with
// the overlays applied.
func renderContext(s *Scene, opts RenderOptions) (*gg.Context, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	background, err := drawBackground(s)
	if err != nil {
		return nil, err
	}
	frame := soft.FromImage(background)

	world, err := Build(s, soft.NewRenderer(), opts.Loader)
	if err != nil {
		return nil, err
	}
	world.Frame()
	world.RenderScene(frame)

	dc := gg.NewContextForImage(frame.RGBA())
	if opts.Outlines {
		if err := drawOutlines(dc, world); err != nil {
			dc.Close()
			return nil, err
		}
	}
	if opts.Markers {
		if err := drawMarkers(dc, world); err != nil {
			dc.Close()
			return nil, err
		}
	}
	return dc, nil
}

func drawBackground(s *Scene) (image.Image, error) {
	dc := gg.NewContext(s.Width, s.Height)
	defer dc.Close()

	dc.ClearWithColor(gg.FromColor(parsedColor(s.Grid.Background)))
	if size := s.Grid.Size; size > 0 {
		dc.SetColor(parsedColor(s.Grid.Color))
		dc.SetLineWidth(1)
		for x := 0; x <= s.Width; x += size {
			dc.DrawLine(float64(x)+0.5, 0, float64(x)+0.5, float64(s.Height))
		}
		for y := 0; y <= s.Height; y += size {
			dc.DrawLine(0, float64(y)+0.5, float64(s.Width), float64(y)+0.5)
		}
		if err := dc.Stroke(); err != nil {
			return nil, fmt.Errorf("failed to draw grid: %w", err)
		}
	}
	return dc.Image(), nil
}

func drawOutlines(dc *gg.Context, w *World) error {
	if w.Pool.Len() == 0 {
		return nil
	}
	dc.SetColor(outlineColor)
	dc.SetLineWidth(2)
	for seg := range w.Pool.All() {
		end := seg.End()
		dc.DrawLine(seg.Origin.X, seg.Origin.Y, end.X, end.Y)
	}
	if err := dc.Stroke(); err != nil {
		return fmt.Errorf("failed to draw outlines: %w", err)
	}
	return nil
}

func drawMarkers(dc *gg.Context, w *World) error {
	lights := w.Lights.Committed()
	if len(lights) == 0 {
		return nil
	}
	dc.SetColor(markerColor)
	for _, l := range lights {
		x, y := l.Base().Position()
		dc.DrawCircle(x, y, markerRadius)
	}
	if err := dc.Fill(); err != nil {
		return fmt.Errorf("failed to draw markers: %w", err)
	}
	return nil
}
