// Package term presents software-rendered frames in a terminal.
//
// Each cell shows two vertically stacked pixels with the upper half block
// glyph: the foreground colours the top pixel and the background the bottom
// one. The last row is reserved for a status line.
package term

import (
	"image"

	"github.com/gdamore/tcell/v2"

	"chosenoffset.com/candle/internal/render/soft"
)

const upperHalfBlock = '▀'

// Viewer supplies frames to the loop and reacts to keys.
type Viewer interface {
	// Frame renders the current state.
	Frame() *soft.Image
	// Status returns the text shown on the last row.
	Status() string
	// HandleKey applies a key press and reports whether the loop should
	// keep running.
	HandleKey(ev *tcell.EventKey) bool
}

// Presenter draws frames onto a tcell screen.
type Presenter struct {
	screen     tcell.Screen
	background tcell.Color
	statusFg   tcell.Color
}

// NewPresenter creates a presenter for an initialised screen.
func NewPresenter(screen tcell.Screen) *Presenter {
	return &Presenter{
		screen:     screen,
		background: tcell.NewRGBColor(0, 0, 0),
		statusFg:   tcell.NewRGBColor(200, 200, 200),
	}
}

// Present scales img to fit the screen above the status row, keeping its
// aspect ratio, and shows it.
func (p *Presenter) Present(img *soft.Image, status string) {
	cols, rows := p.screen.Size()
	rows--
	bg := tcell.StyleDefault.Background(p.background)

	p.screen.Clear()
	if cols > 0 && rows > 0 {
		src := img.RGBA()
		fit := fitRect(src.Bounds(), cols, rows*2)
		for cy := range rows {
			for cx := range cols {
				top, okTop := sampleBox(src, fit, cols, rows*2, cx, cy*2)
				bottom, okBottom := sampleBox(src, fit, cols, rows*2, cx, cy*2+1)
				if !okTop && !okBottom {
					p.screen.SetContent(cx, cy, ' ', nil, bg)
					continue
				}
				style := tcell.StyleDefault.
					Foreground(rgbColor(top)).
					Background(rgbColor(bottom))
				p.screen.SetContent(cx, cy, upperHalfBlock, nil, style)
			}
		}
	}

	statusStyle := tcell.StyleDefault.Foreground(p.statusFg).Background(p.background)
	x := 0
	for _, r := range status {
		if x >= cols {
			break
		}
		p.screen.SetContent(x, rows, r, nil, statusStyle)
		x++
	}
	p.screen.Show()
}

// Loop presents frames and dispatches key events until the viewer asks to
// stop or the user presses Escape or Ctrl+C.
func (p *Presenter) Loop(v Viewer) {
	p.Present(v.Frame(), v.Status())
	for {
		ev := p.screen.PollEvent()
		switch ev := ev.(type) {
		case nil:
			return
		case *tcell.EventResize:
			p.screen.Sync()
		case *tcell.EventKey:
			if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC {
				return
			}
			if !v.HandleKey(ev) {
				return
			}
		}
		p.Present(v.Frame(), v.Status())
	}
}

// fitRect returns the rectangle, in target pixels, that src occupies when
// scaled to fit a w by h target.
func fitRect(src image.Rectangle, w, h int) image.Rectangle {
	sw, sh := src.Dx(), src.Dy()
	if sw == 0 || sh == 0 {
		return image.Rectangle{}
	}
	scale := min(float64(w)/float64(sw), float64(h)/float64(sh))
	fw, fh := int(float64(sw)*scale), int(float64(sh)*scale)
	x0, y0 := (w-fw)/2, (h-fh)/2
	return image.Rect(x0, y0, x0+fw, y0+fh)
}

// sampleBox averages the source pixels that fall under target pixel (tx, ty).
// The averaged colour is premultiplied, which is the colour over black.
func sampleBox(src *image.RGBA, fit image.Rectangle, w, h, tx, ty int) ([3]uint8, bool) {
	if !image.Pt(tx, ty).In(fit) {
		return [3]uint8{}, false
	}
	b := src.Bounds()
	fx, fy := tx-fit.Min.X, ty-fit.Min.Y
	x0 := b.Min.X + fx*b.Dx()/fit.Dx()
	x1 := max(b.Min.X+(fx+1)*b.Dx()/fit.Dx(), x0+1)
	y0 := b.Min.Y + fy*b.Dy()/fit.Dy()
	y1 := max(b.Min.Y+(fy+1)*b.Dy()/fit.Dy(), y0+1)

	var r, g, bl, n int
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			c := src.RGBAAt(x, y)
			r += int(c.R)
			g += int(c.G)
			bl += int(c.B)
			n++
		}
	}
	return [3]uint8{uint8(r / n), uint8(g / n), uint8(bl / n)}, true
}

func rgbColor(c [3]uint8) tcell.Color {
	return tcell.NewRGBColor(int32(c[0]), int32(c[1]), int32(c[2]))
}
