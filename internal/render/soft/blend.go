package soft

import (
	"image/color"

	"chosenoffset.com/candle/internal/render"
)

// pixel is a premultiplied colour with components in [0, 1].
type pixel struct {
	r, g, b, a float32
}

// loadPixel reads a premultiplied RGBA8 pixel.
func loadPixel(p []uint8) pixel {
	return pixel{
		r: float32(p[0]) / 255,
		g: float32(p[1]) / 255,
		b: float32(p[2]) / 255,
		a: float32(p[3]) / 255,
	}
}

// storePixel writes c as RGBA8, rounding to the nearest level.
func storePixel(p []uint8, c pixel) {
	p[0] = toByte(c.r)
	p[1] = toByte(c.g)
	p[2] = toByte(c.b)
	p[3] = toByte(c.a)
}

func toByte(v float32) uint8 {
	switch {
	case !(v > 0):
		return 0
	case v >= 1:
		return 255
	default:
		return uint8(v*255 + 0.5)
	}
}

// pixelFromColor converts any color.Color to a premultiplied pixel.
func pixelFromColor(c color.Color) pixel {
	if c == nil {
		return pixel{}
	}
	r, g, b, a := c.RGBA()
	return pixel{
		r: float32(r) / 0xffff,
		g: float32(g) / 0xffff,
		b: float32(b) / 0xffff,
		a: float32(a) / 0xffff,
	}
}

// straight returns a premultiplied pixel from straight-alpha components.
func straight(r, g, b, a float32) pixel {
	return pixel{r * a, g * a, b * a, a}
}

func (p pixel) mul(q pixel) pixel {
	return pixel{p.r * q.r, p.g * q.g, p.b * q.b, p.a * q.a}
}

func (p pixel) scale(k float32) pixel {
	return pixel{p.r * k, p.g * k, p.b * k, p.a * k}
}

// blendPixel composites src onto dst. Both are premultiplied.
//
//	source-over:      S + D*(1-Sa)
//	lighter:          S + D, clamped
//	destination-out:  D*(1-Sa)
func blendPixel(dst, src pixel, mode render.Blend) pixel {
	switch mode {
	case render.BlendLighter:
		return pixel{
			min(src.r+dst.r, 1),
			min(src.g+dst.g, 1),
			min(src.b+dst.b, 1),
			min(src.a+dst.a, 1),
		}
	case render.BlendDestinationOut:
		return dst.scale(1 - src.a)
	default:
		inv := 1 - src.a
		return pixel{
			src.r + dst.r*inv,
			src.g + dst.g*inv,
			src.b + dst.b*inv,
			src.a + dst.a*inv,
		}
	}
}
