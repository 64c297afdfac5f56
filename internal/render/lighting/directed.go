package lighting

import (
	"chosenoffset.com/candle/internal/core/shadows"
	"chosenoffset.com/candle/internal/render"
)

// Defaults for a new directed light.
const (
	DefaultDirectedRange     = 200
	DefaultDirectedBeamWidth = 90
)

// DirectedLight is a forward cone centred on the light's rotation.
type DirectedLight struct {
	Source
	beamWidth float64
}

// NewDirectedLight creates a white directed light with fade enabled.
func NewDirectedLight() *DirectedLight {
	return &DirectedLight{
		Source:    newSource(DefaultDirectedRange),
		beamWidth: DefaultDirectedBeamWidth,
	}
}

// SetBeamWidth sets the cone aperture in degrees, clamped to [0, 360].
func (l *DirectedLight) SetBeamWidth(deg float64) {
	l.beamWidth = clampDegrees(deg)
}

// BeamWidth returns the cone aperture in degrees.
func (l *DirectedLight) BeamWidth() float64 { return l.beamWidth }

// Cast computes the lit polygon for the current occluders.
func (l *DirectedLight) Cast(occ shadows.Occluders) Polygon {
	arc := shadows.Cone(shadows.Radians(l.rotation), shadows.Radians(l.beamWidth))
	return l.cast(arc, occ)
}

// Render casts and draws the light additively into dst.
func (l *DirectedLight) Render(r render.Renderer, dst render.Image, occ shadows.Occluders) {
	l.render(l.Cast(occ), r, dst)
}

// Clone returns an independent copy.
func (l *DirectedLight) Clone() Light {
	c := *l
	return &c
}

// Base exposes the shared parameters.
func (l *DirectedLight) Base() *Source { return &l.Source }
