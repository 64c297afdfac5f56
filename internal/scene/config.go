// Package scene describes lighting scenes in data files and turns them into
// live worlds or headless frames.
package scene

import (
	"encoding/json"
	"errors"
	"fmt"
	"image/color"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/lucasb-eyer/go-colorful"
	"gopkg.in/yaml.v3"

	"chosenoffset.com/candle/internal/render/lighting"
)

// ErrUnknownFormat is returned for scene files whose extension is not
// .json, .toml, .yaml or .yml.
var ErrUnknownFormat = errors.New("unknown scene format")

// Light types accepted in LightSpec.Type.
const (
	LightRadial   = "radial"
	LightDirected = "directed"
)

// Scene is everything needed to build a frame
type Scene struct {
	Width  int `json:"width" toml:"width" yaml:"width"`
	Height int `json:"height" toml:"height" yaml:"height"`

	Area AreaSpec `json:"area" toml:"area" yaml:"area"`
	Grid GridSpec `json:"grid" toml:"grid" yaml:"grid"`

	Lights []LightSpec `json:"lights" toml:"lights" yaml:"lights"`
	Edges  []EdgeSpec  `json:"edges" toml:"edges" yaml:"edges"`
	Blocks []BlockSpec `json:"blocks" toml:"blocks" yaml:"blocks"`
	Walls  WallSpec    `json:"walls" toml:"walls" yaml:"walls"`

	// Glow draws every light into the scene as well as into the area.
	Glow bool `json:"glow" toml:"glow" yaml:"glow"`
}

// AreaSpec configures the lighting area
type AreaSpec struct {
	Mode    string  `json:"mode" toml:"mode" yaml:"mode"`       // "FOG" or "AMBIENT"
	Color   string  `json:"color" toml:"color" yaml:"color"`    // hex, e.g. "#000000" or "#00000080"
	Opacity float64 `json:"opacity" toml:"opacity" yaml:"opacity"`

	X      float64 `json:"x" toml:"x" yaml:"x"`
	Y      float64 `json:"y" toml:"y" yaml:"y"`
	Width  float64 `json:"width" toml:"width" yaml:"width"`    // 0 = scene width
	Height float64 `json:"height" toml:"height" yaml:"height"` // 0 = scene height
	Scale  float64 `json:"scale" toml:"scale" yaml:"scale"`    // 0 = 1

	// Texture is an image file used as the area base instead of a flat colour.
	Texture     string    `json:"texture" toml:"texture" yaml:"texture"`
	TextureRect *RectSpec `json:"texture_rect,omitempty" toml:"texture_rect" yaml:"texture_rect,omitempty"`
}

// RectSpec is an integer rectangle
type RectSpec struct {
	X int `json:"x" toml:"x" yaml:"x"`
	Y int `json:"y" toml:"y" yaml:"y"`
	W int `json:"w" toml:"w" yaml:"w"`
	H int `json:"h" toml:"h" yaml:"h"`
}

// GridSpec configures the background drawn under the lighting area
type GridSpec struct {
	Size       int    `json:"size" toml:"size" yaml:"size"` // cell size in pixels, 0 disables the lines
	Color      string `json:"color" toml:"color" yaml:"color"`
	Background string `json:"background" toml:"background" yaml:"background"`
}

// LightSpec describes one light. Unset optional fields take the defaults of
// the light type.
type LightSpec struct {
	Type      string   `json:"type" toml:"type" yaml:"type"`
	X         float64  `json:"x" toml:"x" yaml:"x"`
	Y         float64  `json:"y" toml:"y" yaml:"y"`
	Rotation  float64  `json:"rotation" toml:"rotation" yaml:"rotation"` // degrees
	Range     *float64 `json:"range,omitempty" toml:"range" yaml:"range,omitempty"`
	Beam      *float64 `json:"beam,omitempty" toml:"beam" yaml:"beam,omitempty"` // degrees
	Intensity *float64 `json:"intensity,omitempty" toml:"intensity" yaml:"intensity,omitempty"`
	Color     string   `json:"color" toml:"color" yaml:"color"`
	Fade      *bool    `json:"fade,omitempty" toml:"fade" yaml:"fade,omitempty"`
	Glow      bool     `json:"glow" toml:"glow" yaml:"glow"`
}

// EdgeSpec is a single occluding segment
type EdgeSpec struct {
	X1 float64 `json:"x1" toml:"x1" yaml:"x1"`
	Y1 float64 `json:"y1" toml:"y1" yaml:"y1"`
	X2 float64 `json:"x2" toml:"x2" yaml:"x2"`
	Y2 float64 `json:"y2" toml:"y2" yaml:"y2"`
}

// BlockSpec is a square occluder centred on (X, Y)
type BlockSpec struct {
	X    float64 `json:"x" toml:"x" yaml:"x"`
	Y    float64 `json:"y" toml:"y" yaml:"y"`
	Size float64 `json:"size" toml:"size" yaml:"size"`
}

// WallSpec is a tile map whose '#' cells block light
type WallSpec struct {
	TileSize float64  `json:"tile_size" toml:"tile_size" yaml:"tile_size"`
	Rows     []string `json:"rows" toml:"rows" yaml:"rows"`
}

// DefaultScene returns the demo scene: a 700x700 black fog over a grid,
// lit by one radial and one directed light.
func DefaultScene() *Scene {
	s := baseScene()
	s.Lights = []LightSpec{
		{Type: LightRadial, X: 350, Y: 350, Range: ptr(100.0), Color: "#ffffff"},
		{Type: LightDirected, X: 150, Y: 150, Rotation: 45, Range: ptr(200.0), Color: "#ffd080"},
	}
	s.Blocks = []BlockSpec{
		{X: 420, Y: 330, Size: 32},
		{X: 250, Y: 250, Size: 24},
	}
	return s
}

// baseScene is the default canvas without any lights or occluders. Scene
// files are decoded on top of it.
func baseScene() *Scene {
	return &Scene{
		Width:  700,
		Height: 700,
		Area: AreaSpec{
			Mode:    "FOG",
			Color:   "#000000",
			Opacity: 1,
		},
		Grid: GridSpec{
			Size:       16,
			Color:      "#3c3c3c",
			Background: "#787878",
		},
	}
}

// NewScene returns an empty width x height scene with the default area
// and grid.
func NewScene(width, height int) *Scene {
	s := baseScene()
	s.Width, s.Height = width, height
	return s
}

func ptr[T any](v T) *T { return &v }

// LoadScene loads a scene file, picking the format from its extension.
// A missing file yields the default scene.
func LoadScene(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			Logger().Warn("scene file not found, using defaults", "path", path)
			return DefaultScene(), nil
		}
		return nil, fmt.Errorf("failed to read scene: %w", err)
	}
	return ParseScene(data, filepath.Ext(path))
}

// ParseScene decodes data in the given format ("json", "toml", "yaml" or
// "yml", with or without a leading dot). Fields the data leaves out keep
// the default canvas settings; lights and occluders start empty.
func ParseScene(data []byte, format string) (*Scene, error) {
	s := baseScene()

	var err error
	switch strings.ToLower(strings.TrimPrefix(format, ".")) {
	case "json":
		err = json.Unmarshal(data, s)
	case "toml":
		err = toml.Unmarshal(data, s)
	case "yaml", "yml":
		err = yaml.Unmarshal(data, s)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse scene: %w", err)
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Validate checks sizes, names and colours.
func (s *Scene) Validate() error {
	if s.Width <= 0 || s.Height <= 0 {
		return fmt.Errorf("invalid scene size %dx%d", s.Width, s.Height)
	}
	if _, err := lighting.ParseMode(s.Area.Mode); err != nil {
		return err
	}
	for _, c := range []string{s.Area.Color, s.Grid.Color, s.Grid.Background} {
		if _, err := ParseColor(c); err != nil {
			return err
		}
	}
	for i, l := range s.Lights {
		switch strings.ToLower(l.Type) {
		case LightRadial, LightDirected:
		default:
			return fmt.Errorf("light %d: unknown type %q", i, l.Type)
		}
		if _, err := ParseColor(l.Color); err != nil {
			return fmt.Errorf("light %d: %w", i, err)
		}
	}
	return nil
}

// ParseColor parses "#rgb", "#rrggbb" or "#rrggbbaa". An empty string is
// opaque white.
func ParseColor(s string) (color.NRGBA, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return color.NRGBA{255, 255, 255, 255}, nil
	}

	alpha := uint8(255)
	if len(s) == 9 && s[0] == '#' {
		a, err := strconv.ParseUint(s[7:], 16, 8)
		if err != nil {
			return color.NRGBA{}, fmt.Errorf("invalid colour %q: %w", s, err)
		}
		alpha = uint8(a)
		s = s[:7]
	}

	c, err := colorful.Hex(s)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("invalid colour %q: %w", s, err)
	}
	r, g, b := c.RGB255()
	return color.NRGBA{r, g, b, alpha}, nil
}

// FormatColor is the inverse of ParseColor. The alpha is omitted when opaque.
func FormatColor(c color.NRGBA) string {
	hex := colorful.Color{
		R: float64(c.R) / 255,
		G: float64(c.G) / 255,
		B: float64(c.B) / 255,
	}.Hex()
	if c.A == 255 {
		return hex
	}
	return fmt.Sprintf("%s%02x", hex, c.A)
}

// parsedColor is ParseColor for already validated input.
func parsedColor(s string) color.NRGBA {
	c, err := ParseColor(s)
	if err != nil {
		return color.NRGBA{255, 255, 255, 255}
	}
	return c
}
