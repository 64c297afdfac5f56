// Package lighting turns visibility casts into coloured light polygons and
// composites them into lighting areas.
package lighting

import (
	"image/color"
	"math"

	"chosenoffset.com/candle/internal/core/shadows"
	"chosenoffset.com/candle/internal/render"
)

// Light is a light source that can cast itself against occluders.
// RadialLight and DirectedLight are the two implementations.
type Light interface {
	// Cast computes the lit polygon for the current occluders.
	Cast(occ shadows.Occluders) Polygon
	// Render casts and draws the polygon straight into dst with additive
	// blending, independent of any lighting area.
	Render(r render.Renderer, dst render.Image, occ shadows.Occluders)
	// Clone returns an independent copy.
	Clone() Light
	// Base exposes the shared parameters for editing.
	Base() *Source
}

// Source holds the parameters every light shares. Setters clamp their
// input instead of failing.
type Source struct {
	position  shadows.Point
	rotation  float64 // degrees in [0, 360)
	rng       float64
	intensity float64
	color     color.NRGBA
	fade      bool
}

func newSource(rng float64) Source {
	s := Source{
		intensity: 1,
		color:     color.NRGBA{255, 255, 255, 255},
		fade:      true,
	}
	s.SetRange(rng)
	return s
}

// SetPosition moves the light to (x, y).
func (s *Source) SetPosition(x, y float64) {
	s.position = shadows.Point{X: x, Y: y}
}

// Position returns the light position.
func (s *Source) Position() (x, y float64) {
	return s.position.X, s.position.Y
}

// Move offsets the light by (dx, dy).
func (s *Source) Move(dx, dy float64) {
	s.position = s.position.Add(shadows.Point{X: dx, Y: dy})
}

// Rotate turns the light by deg degrees.
func (s *Source) Rotate(deg float64) {
	s.SetRotation(s.rotation + deg)
}

// SetRotation sets the facing direction in degrees, 0 along +X, growing
// towards +Y.
func (s *Source) SetRotation(deg float64) {
	if math.IsNaN(deg) || math.IsInf(deg, 0) {
		deg = 0
	}
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	s.rotation = deg
}

// Rotation returns the facing direction in degrees.
func (s *Source) Rotation() float64 { return s.rotation }

// SetRange sets how far the light reaches. NaN and negative values clamp to 0.
func (s *Source) SetRange(r float64) {
	if !(r > 0) || math.IsInf(r, 1) {
		r = 0
	}
	s.rng = r
}

// Range returns how far the light reaches.
func (s *Source) Range() float64 { return s.rng }

// SetIntensity sets the brightness, clamped to [0, 1].
func (s *Source) SetIntensity(i float64) {
	s.intensity = clamp01(i)
}

// Intensity returns the brightness.
func (s *Source) Intensity() float64 { return s.intensity }

// SetColor sets the light colour. Its alpha is the base alpha of the light.
func (s *Source) SetColor(c color.Color) {
	s.color = color.NRGBAModel.Convert(c).(color.NRGBA)
}

// Color returns the light colour.
func (s *Source) Color() color.NRGBA { return s.color }

// SetFade enables the linear falloff towards the range boundary.
func (s *Source) SetFade(fade bool) { s.fade = fade }

// Fade reports whether the falloff is enabled.
func (s *Source) Fade() bool { return s.fade }

// Lit reports whether the light can contribute anything at all.
func (s *Source) Lit() bool {
	return s.intensity > 0 && s.rng > 0
}

// cast runs the visibility cast over arc and colours the result.
func (s *Source) cast(arc shadows.Arc, occ shadows.Occluders) Polygon {
	hits := shadows.Cast(s.position, s.rng, arc, occ)
	p := newPolygon(s, hits)
	Logger().Debug("light cast",
		"x", s.position.X, "y", s.position.Y,
		"range", s.rng, "vertices", len(p.Rim))
	return p
}

// render draws a cast into dst with additive blending.
func (s *Source) render(p Polygon, r render.Renderer, dst render.Image) {
	if p.Empty() {
		return
	}
	p.Draw(dst, whiteTexture(r), nil, render.BlendLighter)
}

func clamp01(v float64) float64 {
	switch {
	case !(v > 0):
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}

func clampDegrees(deg float64) float64 {
	switch {
	case !(deg > 0):
		return 0
	case deg > 360:
		return 360
	default:
		return deg
	}
}
