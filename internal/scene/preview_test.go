package scene

import (
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"

	"chosenoffset.com/candle/internal/render/lighting"
)

func key(k tcell.Key) *tcell.EventKey {
	return tcell.NewEventKey(k, 0, tcell.ModNone)
}

func runeKey(r rune) *tcell.EventKey {
	return tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone)
}

func TestPreviewKeys(t *testing.T) {
	s, err := ParseScene([]byte(jsonScene), "json")
	if err != nil {
		t.Fatalf("Failed to parse scene: %v", err)
	}
	p, err := NewPreview(s, nil)
	if err != nil {
		t.Fatalf("Failed to create preview: %v", err)
	}

	if !p.HandleKey(key(tcell.KeyRight)) {
		t.Fatalf("Expected the loop to continue after an arrow key")
	}
	if x, y := p.Selected().Base().Position(); x != 20 || y != 10 {
		t.Errorf("Expected first light at (20, 10), got (%v, %v)", x, y)
	}

	p.HandleKey(key(tcell.KeyTab))
	if _, ok := p.Selected().(*lighting.DirectedLight); !ok {
		t.Fatalf("Expected tab to select the directed light, got %T", p.Selected())
	}
	p.HandleKey(key(tcell.KeyUp))
	if x, y := p.Selected().Base().Position(); x != 30 || y != 10 {
		t.Errorf("Expected second light at (30, 10), got (%v, %v)", x, y)
	}

	before := p.Selected().Base().Range()
	p.HandleKey(runeKey('+'))
	if got := p.Selected().Base().Range(); got != before+10 {
		t.Errorf("Expected range %v, got %v", before+10, got)
	}

	p.HandleKey(runeKey('f'))
	if p.Selected().Base().Fade() {
		t.Errorf("Expected fade to be toggled off")
	}

	p.HandleKey(runeKey('m'))
	if p.World().Area.Mode() != lighting.ModeFog {
		t.Errorf("Expected m to switch the AMBIENT area to FOG, got %v", p.World().Area.Mode())
	}

	if !strings.Contains(p.Status(), "light 2/2 directed") {
		t.Errorf("Expected status to describe the selected light, got %q", p.Status())
	}
	if p.HandleKey(runeKey('q')) {
		t.Errorf("Expected q to stop the loop")
	}
}

func TestPreviewFrame(t *testing.T) {
	p, err := NewPreview(NewScene(32, 24), nil)
	if err != nil {
		t.Fatalf("Failed to create preview: %v", err)
	}

	frame := p.Frame()
	if w, h := frame.Size(); w != 32 || h != 24 {
		t.Errorf("Expected a 32x24 frame, got %dx%d", w, h)
	}
	if c := frame.At(20, 20); c.R != 0 || c.G != 0 || c.B != 0 {
		t.Errorf("Expected an unlit scene to be black, got %v", c)
	}

	if p.Selected() != nil {
		t.Errorf("Expected no selected light")
	}
	p.HandleKey(key(tcell.KeyLeft))
	if !strings.Contains(p.Status(), "no lights") {
		t.Errorf("Expected status without lights, got %q", p.Status())
	}
}
