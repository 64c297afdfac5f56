package term

import (
	"image"
	"image/color"
	"testing"

	"github.com/gdamore/tcell/v2"

	"chosenoffset.com/candle/internal/render/soft"
)

func newScreen(t *testing.T, w, h int) tcell.SimulationScreen {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	screen.SetSize(w, h)
	if err := screen.Init(); err != nil {
		t.Fatalf("Failed to init screen: %v", err)
	}
	screen.SetSize(w, h)
	t.Cleanup(screen.Fini)
	return screen
}

func TestPresentHalfBlocks(t *testing.T) {
	screen := newScreen(t, 4, 3)

	img := soft.NewImage(4, 4)
	img.SubImage(image.Rect(0, 0, 4, 2)).Fill(color.RGBA{255, 0, 0, 255})
	img.SubImage(image.Rect(0, 2, 4, 4)).Fill(color.RGBA{0, 0, 255, 255})

	NewPresenter(screen).Present(img, "ok")

	mainc, _, style, _ := screen.GetContent(1, 0)
	if mainc != upperHalfBlock {
		t.Errorf("Expected half block glyph, got %q", mainc)
	}
	fg, bg, _ := style.Decompose()
	if fg != tcell.NewRGBColor(255, 0, 0) || bg != tcell.NewRGBColor(255, 0, 0) {
		t.Errorf("Expected red cell on the first row, got fg %v bg %v", fg, bg)
	}

	_, _, style, _ = screen.GetContent(1, 1)
	fg, bg, _ = style.Decompose()
	if fg != tcell.NewRGBColor(0, 0, 255) || bg != tcell.NewRGBColor(0, 0, 255) {
		t.Errorf("Expected blue cell on the second row, got fg %v bg %v", fg, bg)
	}

	if r, _, _, _ := screen.GetContent(0, 2); r != 'o' {
		t.Errorf("Expected status text on the last row, got %q", r)
	}
}

func TestPresentKeepsAspect(t *testing.T) {
	screen := newScreen(t, 8, 3)

	img := soft.NewImage(4, 4)
	img.Fill(color.White)
	NewPresenter(screen).Present(img, "")

	// A square image in an 8x4 pixel target occupies the middle four columns
	if r, _, _, _ := screen.GetContent(0, 0); r == upperHalfBlock {
		t.Error("Expected left margin to stay blank")
	}
	if r, _, _, _ := screen.GetContent(3, 0); r != upperHalfBlock {
		t.Error("Expected image in the centre columns")
	}
}

func TestFitRect(t *testing.T) {
	got := fitRect(image.Rect(0, 0, 100, 50), 40, 40)
	want := image.Rect(0, 10, 40, 30)
	if got != want {
		t.Errorf("Expected %v, got %v", want, got)
	}
	if !fitRect(image.Rectangle{}, 10, 10).Empty() {
		t.Error("Expected empty fit for an empty source")
	}
}

type keyViewer struct {
	frames int
	keys   []rune
}

func (v *keyViewer) Frame() *soft.Image {
	v.frames++
	return soft.NewImage(2, 2)
}

func (v *keyViewer) Status() string { return "" }

func (v *keyViewer) HandleKey(ev *tcell.EventKey) bool {
	v.keys = append(v.keys, ev.Rune())
	return ev.Rune() != 'q'
}

func TestLoopStopsOnQuit(t *testing.T) {
	screen := newScreen(t, 10, 5)
	v := &keyViewer{}

	screen.InjectKey(tcell.KeyRune, 'a', tcell.ModNone)
	screen.InjectKey(tcell.KeyRune, 'q', tcell.ModNone)

	NewPresenter(screen).Loop(v)

	if len(v.keys) != 2 || v.keys[0] != 'a' || v.keys[1] != 'q' {
		t.Errorf("Expected keys [a q], got %q", v.keys)
	}
	if v.frames < 2 {
		t.Errorf("Expected a frame before and after 'a', got %d", v.frames)
	}
}
