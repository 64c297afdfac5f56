package lighting

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"strings"
	"sync"

	"chosenoffset.com/candle/internal/core/shadows"
	"chosenoffset.com/candle/internal/render"
)

// Mode selects how lights interact with an area.
type Mode int

const (
	// ModeFog starts opaque and lights erase it.
	ModeFog Mode = iota
	// ModeAmbient starts as a tint and lights add to it.
	ModeAmbient
)

// String returns "FOG" or "AMBIENT".
func (m Mode) String() string {
	switch m {
	case ModeFog:
		return "FOG"
	case ModeAmbient:
		return "AMBIENT"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseMode parses a mode name, case-insensitively.
func ParseMode(s string) (Mode, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "FOG":
		return ModeFog, nil
	case "AMBIENT":
		return ModeAmbient, nil
	default:
		return ModeFog, fmt.Errorf("unknown lighting mode %q", s)
	}
}

// lightBlend is how a light polygon combines with the area surface.
func (m Mode) lightBlend() render.Blend {
	if m == ModeAmbient {
		return render.BlendLighter
	}
	return render.BlendDestinationOut
}

// compositeBlend is how the area combines with the frame it is drawn onto.
func (m Mode) compositeBlend() render.Blend {
	if m == ModeAmbient {
		return render.BlendLighter
	}
	return render.BlendSourceOver
}

// Rect is an axis-aligned rectangle in floating point coordinates.
type Rect struct {
	X, Y, W, H float64
}

// Area is an off-screen lighting surface placed in the world. In FOG mode
// it starts filled with the area colour and every light drawn into it
// erases coverage; in AMBIENT mode it starts as a tint and lights add to
// it. A frame is Clear, any number of Draw calls, then Display.
//
// An Area is safe for concurrent use.
type Area struct {
	mu sync.Mutex

	r       render.Renderer
	mode    Mode
	color   color.NRGBA
	opacity float64

	texture render.Image
	texRect image.Rectangle

	x, y   float64
	sx, sy float64

	surface   render.Image
	width     int
	height    int
	displayed bool
}

// NewArea creates a flat-coloured area covering the rectangle (x, y, w, h).
// The area colour defaults to opaque white and the opacity to 1.
func NewArea(r render.Renderer, mode Mode, x, y, w, h float64) *Area {
	a := newArea(r, mode)
	a.x, a.y = x, y
	a.resize(int(math.Ceil(math.Max(w, 0))), int(math.Ceil(math.Max(h, 0))))
	a.clear()
	return a
}

// NewTexturedArea creates an area whose base is the rect portion of tex.
// An empty rect selects the whole texture. A nil texture falls back to a
// flat area the size of rect.
func NewTexturedArea(r render.Renderer, mode Mode, tex render.Image, rect image.Rectangle) *Area {
	a := newArea(r, mode)
	a.setTexture(tex, rect)
	a.clear()
	return a
}

func newArea(r render.Renderer, mode Mode) *Area {
	return &Area{
		r:       r,
		mode:    mode,
		color:   color.NRGBA{255, 255, 255, 255},
		opacity: 1,
		sx:      1,
		sy:      1,
	}
}

// Clear resets the surface to its base: the tinted texture, or the actual
// colour when there is no texture.
func (a *Area) Clear() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.clear()
}

func (a *Area) clear() {
	a.displayed = false
	if a.surface == nil {
		return
	}
	if a.texture == nil {
		a.surface.Fill(a.actualColor())
		return
	}

	a.surface.Clear()
	src := a.texture.SubImage(a.texRect)
	sw, sh := src.Size()
	if sw == 0 || sh == 0 {
		return
	}
	opts := &render.DrawImageOptions{
		Tint:   a.actualColor(),
		Blend:  render.BlendSourceOver,
		Filter: render.FilterLinear,
	}
	opts.GeoM.Scale(float64(a.width)/float64(sw), float64(a.height)/float64(sh))
	a.surface.DrawImage(src, opts)
}

// Draw casts l against occ and applies it to the surface. Lights with no
// intensity or range, and draws into a fully transparent area, do nothing.
func (a *Area) Draw(l Light, occ shadows.Occluders) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.draw(l, occ)
}

func (a *Area) draw(l Light, occ shadows.Occluders) {
	if a.surface == nil || a.opacity == 0 || !l.Base().Lit() {
		return
	}
	p := l.Cast(occ)
	if p.Empty() {
		return
	}

	// World coordinates to surface coordinates.
	geo := a.transform()
	if !geo.Invert() {
		return
	}
	p.Draw(a.surface, whiteTexture(a.r), &geo, a.mode.lightBlend())
	a.displayed = false
}

// Display marks the surface as finished for this frame.
func (a *Area) Display() {
	a.mu.Lock()
	a.displayed = true
	a.mu.Unlock()
}

// Texture returns the surface and whether it has been displayed since the
// last Clear or Draw.
func (a *Area) Texture() (render.Image, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.surface, a.displayed
}

// DrawTo composites the surface onto dst at the area's position and scale.
// AMBIENT areas add to dst; FOG areas are alpha blended over it.
func (a *Area) DrawTo(dst render.Image) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.surface == nil || a.opacity == 0 {
		return
	}
	opts := &render.DrawImageOptions{
		GeoM:   a.transform(),
		Blend:  a.mode.compositeBlend(),
		Filter: render.FilterLinear,
	}
	dst.DrawImage(a.surface, opts)
}

// Compose runs a whole frame: Clear, Draw for every light, Display.
func (a *Area) Compose(occ shadows.Occluders, lights ...Light) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.clear()
	for _, l := range lights {
		a.draw(l, occ)
	}
	a.displayed = true
	Logger().Debug("area composed", "mode", a.mode, "lights", len(lights))
}

// SetMode switches between FOG and AMBIENT. It takes effect on the next
// Clear.
func (a *Area) SetMode(m Mode) {
	a.mu.Lock()
	a.mode = m
	a.mu.Unlock()
}

// Mode returns the current mode.
func (a *Area) Mode() Mode {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.mode
}

// SetAreaColor sets the base colour, including its alpha.
func (a *Area) SetAreaColor(c color.Color) {
	a.mu.Lock()
	a.color = color.NRGBAModel.Convert(c).(color.NRGBA)
	a.mu.Unlock()
}

// AreaColor returns the base colour.
func (a *Area) AreaColor() color.NRGBA {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.color
}

// ActualColor is the area colour with its alpha scaled by the opacity.
func (a *Area) ActualColor() color.NRGBA {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.actualColor()
}

func (a *Area) actualColor() color.NRGBA {
	c := a.color
	c.A = uint8(math.Round(float64(c.A) * a.opacity))
	return c
}

// SetAreaOpacity sets the opacity, clamped to [0, 1].
func (a *Area) SetAreaOpacity(o float64) {
	a.mu.Lock()
	a.opacity = clamp01(o)
	a.mu.Unlock()
}

// AreaOpacity returns the opacity.
func (a *Area) AreaOpacity() float64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.opacity
}

// SetAreaTexture replaces the base texture and resizes the surface to rect.
// An empty rect selects the whole texture; a nil texture goes back to a
// flat colour at the current size.
func (a *Area) SetAreaTexture(tex render.Image, rect image.Rectangle) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.setTexture(tex, rect)
}

func (a *Area) setTexture(tex render.Image, rect image.Rectangle) {
	if tex == nil {
		if a.texture == nil && a.surface == nil {
			Logger().Warn("area texture missing, using flat colour", "rect", rect)
			a.resize(rect.Dx(), rect.Dy())
		}
		a.texture = nil
		return
	}
	if rect.Empty() {
		rect = tex.Bounds()
	}
	a.texture = tex
	a.texRect = rect
	a.resize(rect.Dx(), rect.Dy())
}

// AreaTexture returns the base texture, or nil.
func (a *Area) AreaTexture() render.Image {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.texture
}

// SetTextureRect changes the sampled portion of the texture without
// resizing the surface.
func (a *Area) SetTextureRect(rect image.Rectangle) {
	a.mu.Lock()
	a.texRect = rect
	a.mu.Unlock()
}

// TextureRect returns the sampled portion of the texture.
func (a *Area) TextureRect() image.Rectangle {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.texRect
}

// SetPosition places the top-left corner of the area in world space.
func (a *Area) SetPosition(x, y float64) {
	a.mu.Lock()
	a.x, a.y = x, y
	a.mu.Unlock()
}

// Position returns the top-left corner of the area.
func (a *Area) Position() (x, y float64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.x, a.y
}

// SetScale scales the area around its position.
func (a *Area) SetScale(sx, sy float64) {
	a.mu.Lock()
	a.sx, a.sy = sx, sy
	a.mu.Unlock()
}

// Scale returns the area scale.
func (a *Area) Scale() (sx, sy float64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.sx, a.sy
}

// LocalBounds is the untransformed surface rectangle.
func (a *Area) LocalBounds() Rect {
	a.mu.Lock()
	defer a.mu.Unlock()
	return Rect{W: float64(a.width), H: float64(a.height)}
}

// GlobalBounds is the surface rectangle in world space.
func (a *Area) GlobalBounds() Rect {
	a.mu.Lock()
	defer a.mu.Unlock()
	r := Rect{X: a.x, Y: a.y, W: float64(a.width) * a.sx, H: float64(a.height) * a.sy}
	if r.W < 0 {
		r.X += r.W
		r.W = -r.W
	}
	if r.H < 0 {
		r.Y += r.H
		r.H = -r.H
	}
	return r
}

// transform maps surface coordinates to world coordinates.
func (a *Area) transform() render.GeoM {
	var g render.GeoM
	g.Scale(a.sx, a.sy)
	g.Translate(a.x, a.y)
	return g
}

func (a *Area) resize(w, h int) {
	w, h = max(w, 0), max(h, 0)
	if a.surface != nil && w == a.width && h == a.height {
		return
	}
	if a.surface != nil {
		a.surface.Dispose()
	}
	a.width, a.height = w, h
	a.surface = a.r.NewImage(w, h)
}
