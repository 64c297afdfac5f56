package scene

import (
	"fmt"
	"image"

	"github.com/gdamore/tcell/v2"

	"chosenoffset.com/candle/internal/render"
	"chosenoffset.com/candle/internal/render/lighting"
	"chosenoffset.com/candle/internal/render/soft"
)

const (
	previewMoveStep   = 10
	previewRangeStep  = 10
	previewRotateStep = 15
)

// Preview drives a scene from the keyboard and renders it on the CPU. It
// implements term.Viewer.
type Preview struct {
	world      *World
	background image.Image
	selected   int
}

// NewPreview builds s with the software backend.
func NewPreview(s *Scene, loader render.ResourceLoader) (*Preview, error) {
	background, err := drawBackground(s)
	if err != nil {
		return nil, err
	}
	world, err := Build(s, soft.NewRenderer(), loader)
	if err != nil {
		return nil, err
	}
	return &Preview{world: world, background: background}, nil
}

// World returns the previewed world.
func (p *Preview) World() *World { return p.world }

// Selected returns the light the keys act on, or nil without lights.
func (p *Preview) Selected() lighting.Light {
	return p.world.Lights.Light(p.selected)
}

// Frame renders the current state.
func (p *Preview) Frame() *soft.Image {
	frame := soft.FromImage(p.background)
	p.world.Frame()
	p.world.RenderScene(frame)
	return frame
}

// Status describes the selected light and the key bindings.
func (p *Preview) Status() string {
	area := p.world.Area
	l := p.Selected()
	if l == nil {
		return fmt.Sprintf("%s  no lights  [m mode  q quit]", area.Mode())
	}
	src := l.Base()
	x, y := src.Position()
	return fmt.Sprintf("%s  light %d/%d %s at (%.0f,%.0f) range %.0f fade %v  [arrows move  +/- range  r rotate  tab next  f fade  m mode  q quit]",
		area.Mode(), p.selected+1, p.world.Lights.Len(), lightType(l), x, y, src.Range(), src.Fade())
}

// HandleKey applies one key press. It returns false on q.
func (p *Preview) HandleKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyTab:
		if n := p.world.Lights.Len(); n > 0 {
			p.selected = (p.selected + 1) % n
		}
		return true
	case tcell.KeyUp:
		p.move(0, -previewMoveStep)
		return true
	case tcell.KeyDown:
		p.move(0, previewMoveStep)
		return true
	case tcell.KeyLeft:
		p.move(-previewMoveStep, 0)
		return true
	case tcell.KeyRight:
		p.move(previewMoveStep, 0)
		return true
	case tcell.KeyRune:
	default:
		return true
	}

	switch ev.Rune() {
	case 'q':
		return false
	case 'm':
		area := p.world.Area
		if area.Mode() == lighting.ModeFog {
			area.SetMode(lighting.ModeAmbient)
		} else {
			area.SetMode(lighting.ModeFog)
		}
	case '+', '=':
		p.adjust(func(s *lighting.Source) { s.SetRange(s.Range() + previewRangeStep) })
	case '-':
		p.adjust(func(s *lighting.Source) { s.SetRange(s.Range() - previewRangeStep) })
	case 'r':
		p.adjust(func(s *lighting.Source) { s.Rotate(previewRotateStep) })
	case 'f':
		p.adjust(func(s *lighting.Source) { s.SetFade(!s.Fade()) })
	}
	return true
}

func (p *Preview) move(dx, dy float64) {
	p.adjust(func(s *lighting.Source) { s.Move(dx, dy) })
}

func (p *Preview) adjust(fn func(s *lighting.Source)) {
	if l := p.Selected(); l != nil {
		fn(l.Base())
	}
}
