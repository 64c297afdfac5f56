package soft

import (
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg"
	_ "image/png"
	"math"
	"os"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"chosenoffset.com/candle/internal/render"
)

// baseFontSize is the text size at scale 1, in pixels.
const baseFontSize = 13

// Renderer implements render.Renderer on software images.
type Renderer struct {
	mu    sync.Mutex
	font  *opentype.Font
	faces map[float64]font.Face
}

// NewRenderer creates a software renderer using the Go Regular font for text.
func NewRenderer() *Renderer {
	f, err := opentype.Parse(goregular.TTF)
	if err != nil {
		// goregular is compiled in; a parse failure is a broken build
		panic(fmt.Sprintf("soft: failed to parse embedded font: %v", err))
	}
	return &Renderer{font: f, faces: make(map[float64]font.Face)}
}

// NewImage creates a new image with the given dimensions.
func (r *Renderer) NewImage(width, height int) render.Image {
	return NewImage(width, height)
}

// FillCircle draws a filled circle on the destination image.
func (r *Renderer) FillCircle(dst render.Image, x, y, radius float32, clr color.Color) {
	asImage(dst).FillCircle(x, y, radius, clr)
}

// StrokeCircle draws a circle outline on the destination image.
func (r *Renderer) StrokeCircle(dst render.Image, x, y, radius float32, strokeWidth float32, clr color.Color) {
	asImage(dst).StrokeCircle(x, y, radius, strokeWidth, clr)
}

// StrokeLine draws a line segment on the destination image.
func (r *Renderer) StrokeLine(dst render.Image, x0, y0, x1, y1 float32, strokeWidth float32, clr color.Color) {
	asImage(dst).StrokeLine(x0, y0, x1, y1, strokeWidth, clr)
}

// face returns the cached face for a text scale.
func (r *Renderer) face(scale float64) font.Face {
	if !(scale > 0) {
		scale = 1
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if f, ok := r.faces[scale]; ok {
		return f
	}
	f, err := opentype.NewFace(r.font, &opentype.FaceOptions{
		Size:    baseFontSize * scale,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		panic(fmt.Sprintf("soft: failed to create font face: %v", err))
	}
	r.faces[scale] = f
	return f
}

// DrawText draws text with its top-left corner at (x, y).
func (r *Renderer) DrawText(dst render.Image, text string, x, y int, clr color.Color, scale float64) {
	if text == "" {
		return
	}
	face := r.face(scale)
	w, h := r.MeasureText(text, scale)
	if w == 0 || h == 0 {
		return
	}

	mask := image.NewAlpha(image.Rect(0, 0, w, h))
	d := &font.Drawer{
		Dst:  mask,
		Src:  image.Opaque,
		Face: face,
		Dot:  fixed.Point26_6{X: 0, Y: face.Metrics().Ascent},
	}
	d.DrawString(text)

	img := asImage(dst)
	img.fillMask(image.Rect(x, y, x+w, y+h), mask, clr)
}

// MeasureText measures the width and height of text with the given scale.
func (r *Renderer) MeasureText(text string, scale float64) (width, height int) {
	face := r.face(scale)
	m := face.Metrics()
	return font.MeasureString(face, text).Ceil(), (m.Ascent + m.Descent).Ceil()
}

// Loader implements render.ResourceLoader by decoding PNG or JPEG files into
// software images.
type Loader struct{}

// NewResourceLoader creates a software resource loader.
func NewResourceLoader() render.ResourceLoader {
	return Loader{}
}

// LoadImage loads an image from the specified file path.
func (Loader) LoadImage(path string) (render.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	src, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image %s: %w", path, err)
	}
	return FromImage(src), nil
}

// Snapshot returns a copy of the pixels of img as straight-alpha colours,
// row by row. It is meant for comparisons in tests and previews.
func Snapshot(img render.Image) []color.NRGBA {
	s := asImage(img)
	b := s.rect
	out := make([]color.NRGBA, 0, b.Dx()*b.Dy())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			out = append(out, color.NRGBAModel.Convert(s.rgba.RGBAAt(x, y)).(color.NRGBA))
		}
	}
	return out
}

// MeanAlpha returns the average alpha of img in [0, 1].
func MeanAlpha(img render.Image) float64 {
	s := asImage(img)
	b := s.rect
	if b.Empty() {
		return 0
	}
	var sum float64
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			sum += float64(s.rgba.RGBAAt(x, y).A)
		}
	}
	return sum / 255 / float64(b.Dx()*b.Dy())
}

// Equal reports whether two images hold identical pixels, allowing each
// channel to differ by at most tol levels.
func Equal(a, b render.Image, tol uint8) bool {
	x, y := asImage(a), asImage(b)
	if x.rect.Dx() != y.rect.Dx() || x.rect.Dy() != y.rect.Dy() {
		return false
	}
	for j := 0; j < x.rect.Dy(); j++ {
		for i := 0; i < x.rect.Dx(); i++ {
			p := x.rgba.RGBAAt(x.rect.Min.X+i, x.rect.Min.Y+j)
			q := y.rgba.RGBAAt(y.rect.Min.X+i, y.rect.Min.Y+j)
			if diff(p.R, q.R) > tol || diff(p.G, q.G) > tol || diff(p.B, q.B) > tol || diff(p.A, q.A) > tol {
				return false
			}
		}
	}
	return true
}

func diff(a, b uint8) uint8 {
	return uint8(math.Abs(float64(a) - float64(b)))
}
