// Package soft is a CPU implementation of the render interfaces.
//
// Images are premultiplied *image.RGBA buffers, so every pixel is
// deterministic and can be inspected by tests or written out as PNG.
// Sub-images share pixels with their parent and keep the parent's
// coordinate space, as ebiten sub-images do.
package soft

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"chosenoffset.com/candle/internal/render"
)

// Image is a software render target.
type Image struct {
	rgba *image.RGBA
	rect image.Rectangle
}

// NewImage creates a transparent image of the given size.
func NewImage(width, height int) *Image {
	rgba := image.NewRGBA(image.Rect(0, 0, max(width, 0), max(height, 0)))
	return &Image{rgba: rgba, rect: rgba.Rect}
}

// FromImage copies any image into a new software image whose bounds start
// at the origin.
func FromImage(src image.Image) *Image {
	b := src.Bounds()
	img := NewImage(b.Dx(), b.Dy())
	draw.Draw(img.rgba, img.rect, src, b.Min, draw.Src)
	return img
}

// Wrap uses rgba as the backing store without copying.
func Wrap(rgba *image.RGBA) *Image {
	return &Image{rgba: rgba, rect: rgba.Rect}
}

// RGBA returns the pixels covered by the image. The result aliases the
// image's memory.
func (i *Image) RGBA() *image.RGBA {
	return i.rgba.SubImage(i.rect).(*image.RGBA)
}

// At returns the premultiplied pixel at (x, y), or transparent outside the
// image.
func (i *Image) At(x, y int) color.RGBA {
	if !image.Pt(x, y).In(i.rect) {
		return color.RGBA{}
	}
	return i.rgba.RGBAAt(x, y)
}

// Bounds returns the bounds of the image.
func (i *Image) Bounds() image.Rectangle {
	return i.rect
}

// Size returns the width and height of the image.
func (i *Image) Size() (width, height int) {
	return i.rect.Dx(), i.rect.Dy()
}

// SubImage returns a view on the part of the image inside r.
func (i *Image) SubImage(r image.Rectangle) render.Image {
	return &Image{rgba: i.rgba, rect: r.Intersect(i.rect)}
}

// Fill replaces every pixel with clr.
func (i *Image) Fill(clr color.Color) {
	c := pixelFromColor(clr)
	for y := i.rect.Min.Y; y < i.rect.Max.Y; y++ {
		for x := i.rect.Min.X; x < i.rect.Max.X; x++ {
			storePixel(i.pix(x, y), c)
		}
	}
}

// Clear makes every pixel transparent.
func (i *Image) Clear() {
	i.Fill(color.Transparent)
}

// Dispose releases the pixel buffer. The image is empty afterwards.
func (i *Image) Dispose() {
	i.rgba = image.NewRGBA(image.Rectangle{})
	i.rect = image.Rectangle{}
}

// pix returns the four bytes of the pixel at (x, y).
func (i *Image) pix(x, y int) []uint8 {
	off := i.rgba.PixOffset(x, y)
	return i.rgba.Pix[off : off+4 : off+4]
}

// blendAt composites a premultiplied source onto the pixel at (x, y).
func (i *Image) blendAt(x, y int, src pixel, mode render.Blend) {
	p := i.pix(x, y)
	storePixel(p, blendPixel(loadPixel(p), src, mode))
}

// DrawImage draws src onto the image. Each destination pixel centre is
// mapped back through the inverse of opts.GeoM and sampled from src.
func (i *Image) DrawImage(src render.Image, opts *render.DrawImageOptions) {
	s := asImage(src)
	if opts == nil {
		opts = &render.DrawImageOptions{}
	}
	sw, sh := s.Size()
	if sw == 0 || sh == 0 {
		return
	}

	geo := opts.GeoM
	inv := geo
	if !inv.Invert() {
		return
	}

	area := transformedBounds(&geo, float64(sw), float64(sh)).Intersect(i.rect)
	if area.Empty() {
		return
	}

	tint := pixel{1, 1, 1, 1}
	if opts.Tint != nil {
		tint = pixelFromColor(opts.Tint)
	}

	for y := area.Min.Y; y < area.Max.Y; y++ {
		for x := area.Min.X; x < area.Max.X; x++ {
			u, v := inv.Apply(float64(x)+0.5, float64(y)+0.5)
			if u < 0 || v < 0 || u >= float64(sw) || v >= float64(sh) {
				continue
			}
			var c pixel
			if opts.Filter == render.FilterLinear {
				c = s.sampleLinear(u, v)
			} else {
				c = s.sampleNearest(u, v)
			}
			c = c.mul(tint)
			i.blendAt(x, y, c, opts.Blend)
		}
	}
}

// sampleNearest returns the texel containing (u, v), relative to the image
// origin.
func (i *Image) sampleNearest(u, v float64) pixel {
	w, h := i.Size()
	x := clampInt(int(math.Floor(u)), 0, w-1)
	y := clampInt(int(math.Floor(v)), 0, h-1)
	return loadPixel(i.pix(i.rect.Min.X+x, i.rect.Min.Y+y))
}

// sampleLinear interpolates the four texels around (u, v), clamping at the
// edges.
func (i *Image) sampleLinear(u, v float64) pixel {
	w, h := i.Size()
	fx, fy := u-0.5, v-0.5
	x0, y0 := math.Floor(fx), math.Floor(fy)
	tx, ty := float32(fx-x0), float32(fy-y0)

	ix0 := clampInt(int(x0), 0, w-1)
	iy0 := clampInt(int(y0), 0, h-1)
	ix1 := clampInt(int(x0)+1, 0, w-1)
	iy1 := clampInt(int(y0)+1, 0, h-1)

	at := func(x, y int) pixel {
		return loadPixel(i.pix(i.rect.Min.X+x, i.rect.Min.Y+y))
	}
	top := lerpPixel(at(ix0, iy0), at(ix1, iy0), tx)
	bottom := lerpPixel(at(ix0, iy1), at(ix1, iy1), tx)
	return lerpPixel(top, bottom, ty)
}

func lerpPixel(a, b pixel, t float32) pixel {
	return pixel{
		a.r + (b.r-a.r)*t,
		a.g + (b.g-a.g)*t,
		a.b + (b.b-a.b)*t,
		a.a + (b.a-a.a)*t,
	}
}

// transformedBounds returns the integer bounding box of the rectangle
// (0,0)-(w,h) after geo.
func transformedBounds(geo *render.GeoM, w, h float64) image.Rectangle {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, c := range [4][2]float64{{0, 0}, {w, 0}, {0, h}, {w, h}} {
		x, y := geo.Apply(c[0], c[1])
		minX, maxX = math.Min(minX, x), math.Max(maxX, x)
		minY, maxY = math.Min(minY, y), math.Max(maxY, y)
	}
	return image.Rect(
		int(math.Floor(minX)), int(math.Floor(minY)),
		int(math.Ceil(maxX)), int(math.Ceil(maxY)),
	)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// asImage returns the software image behind a render.Image. Mixing
// backends is a programming error.
func asImage(img render.Image) *Image {
	return img.(*Image)
}
