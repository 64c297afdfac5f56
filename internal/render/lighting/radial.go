package lighting

import (
	"chosenoffset.com/candle/internal/core/shadows"
	"chosenoffset.com/candle/internal/render"
)

// DefaultRadialRange is the range of a new radial light.
const DefaultRadialRange = 100

// RadialLight shines in every direction, or within a beam centred on its
// rotation when the beam angle is narrower than a full turn.
type RadialLight struct {
	Source
	beamAngle float64
}

// NewRadialLight creates a white full-circle light with fade enabled.
func NewRadialLight() *RadialLight {
	return &RadialLight{Source: newSource(DefaultRadialRange), beamAngle: 360}
}

// SetBeamAngle restricts the light to a cone of deg degrees, clamped to
// [0, 360]. 360 is a full circle.
func (l *RadialLight) SetBeamAngle(deg float64) {
	l.beamAngle = clampDegrees(deg)
}

// BeamAngle returns the beam aperture in degrees.
func (l *RadialLight) BeamAngle() float64 { return l.beamAngle }

func (l *RadialLight) arc() shadows.Arc {
	facing := shadows.Radians(l.rotation)
	if l.beamAngle >= 360 {
		return shadows.FullCircle(facing)
	}
	return shadows.Cone(facing, shadows.Radians(l.beamAngle))
}

// Cast computes the lit polygon for the current occluders.
func (l *RadialLight) Cast(occ shadows.Occluders) Polygon {
	return l.cast(l.arc(), occ)
}

// Render casts and draws the light additively into dst.
func (l *RadialLight) Render(r render.Renderer, dst render.Image, occ shadows.Occluders) {
	l.render(l.Cast(occ), r, dst)
}

// Clone returns an independent copy.
func (l *RadialLight) Clone() Light {
	c := *l
	return &c
}

// Base exposes the shared parameters.
func (l *RadialLight) Base() *Source { return &l.Source }
