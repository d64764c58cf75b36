package pad

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"

	toml "github.com/pelletier/go-toml"
	yaml "gopkg.in/yaml.v3"
)

// ErrInvalidLayout is wrapped by every layout validation failure.
var ErrInvalidLayout = errors.New("invalid layout")

// KeyMap resolves named buttons to key codes and holds the default D-pad
// direction codes.
type KeyMap struct {
	Buttons map[string]int `json:"buttons" yaml:"buttons" toml:"buttons"`
	DPad    DirCodes       `json:"dpad" yaml:"dpad" toml:"dpad"`
}

// DefaultKeyMap returns the Android-compatible gamepad key codes.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Buttons: map[string]int{
			"a":      KeyCodeButtonA,
			"b":      KeyCodeButtonB,
			"c":      KeyCodeButtonC,
			"x":      KeyCodeButtonX,
			"y":      KeyCodeButtonY,
			"z":      KeyCodeButtonZ,
			"l":      KeyCodeButtonL1,
			"l2":     KeyCodeButtonL2,
			"r":      KeyCodeButtonR1,
			"r2":     KeyCodeButtonR2,
			"select": KeyCodeButtonSelect,
			"start":  KeyCodeButtonStart,
		},
		DPad: DirCodes{
			Left:   KeyCodeDPadLeft,
			Top:    KeyCodeDPadUp,
			Right:  KeyCodeDPadRight,
			Bottom: KeyCodeDPadDown,
		},
	}
}

// Descriptor declares one component of a layout.
//
// Buttons take Code, or the key-map code of Name when Code is zero.
// D-pads take Codes, or the key-map D-pad codes when Codes is empty.
type Descriptor struct {
	ID     int      `json:"id" yaml:"id" toml:"id"`
	Kind   string   `json:"kind" yaml:"kind" toml:"kind"`
	Name   string   `json:"name,omitempty" yaml:"name,omitempty" toml:"name,omitempty"`
	Bounds Rect     `json:"bounds" yaml:"bounds" toml:"bounds"`
	Code   int      `json:"code,omitempty" yaml:"code,omitempty" toml:"code,omitempty"`
	Codes  DirCodes `json:"codes,omitempty" yaml:"codes,omitempty" toml:"codes,omitempty"`
	Mode   string   `json:"mode,omitempty" yaml:"mode,omitempty" toml:"mode,omitempty"`
}

// Layout is the ordered component list a Surface is built from.
type Layout struct {
	Components []Descriptor `json:"components" yaml:"components" toml:"components"`
}

// DefaultLayout places A, B, START and an 8-way D-pad at their stock
// positions. Sizes are 40dp for buttons and 100dp for the D-pad.
func DefaultLayout(density float64) Layout {
	if density <= 0 {
		density = 1
	}
	btn := int(math.Round(40 * density))
	dpad := int(math.Round(100 * density))
	return Layout{Components: []Descriptor{
		{ID: 1, Kind: "button", Name: "a", Bounds: Rect{X: 100, Y: 100, Width: btn, Height: btn}},
		{ID: 2, Kind: "button", Name: "b", Bounds: Rect{X: 300, Y: 100, Width: btn, Height: btn}},
		{ID: 3, Kind: "button", Name: "start", Bounds: Rect{X: 100, Y: 300, Width: btn, Height: btn}},
		{ID: 4, Kind: "dpad", Bounds: Rect{X: 300, Y: 300, Width: dpad, Height: dpad}, Mode: EightWay.String()},
	}}
}

// Build validates the layout and creates a Surface whose components report
// to sink.
func (l Layout) Build(km KeyMap, sink EventSink) (*Surface, error) {
	components := make([]*Component, 0, len(l.Components))
	seen := map[int]bool{}
	for i, d := range l.Components {
		c, err := d.component(km)
		if err != nil {
			return nil, fmt.Errorf("component %d: %w", i, err)
		}
		if seen[c.id] {
			return nil, fmt.Errorf("component %d: %w: duplicate id %d", i, ErrInvalidLayout, c.id)
		}
		seen[c.id] = true
		components = append(components, c)
	}
	return NewSurface(sink, components...), nil
}

// Validate checks the layout against km without building a surface.
func (l Layout) Validate(km KeyMap) error {
	_, err := l.Build(km, nil)
	return err
}

func (d Descriptor) component(km KeyMap) (*Component, error) {
	if d.Bounds.Empty() {
		return nil, fmt.Errorf("%w: empty bounds", ErrInvalidLayout)
	}
	switch strings.ToLower(d.Kind) {
	case "button", "":
		code := d.Code
		if code == 0 {
			var ok bool
			code, ok = km.Buttons[strings.ToLower(d.Name)]
			if !ok {
				return nil, fmt.Errorf("%w: button %q has no code", ErrInvalidLayout, d.Name)
			}
		}
		return NewButton(d.ID, d.Bounds, code), nil
	case "dpad":
		mode, err := ParseDirectionMode(d.Mode)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidLayout, err)
		}
		codes := d.Codes
		if codes.IsZero() {
			codes = km.DPad
		}
		return NewDirectionalPad(d.ID, d.Bounds, codes, mode), nil
	default:
		return nil, fmt.Errorf("%w: unknown kind %q", ErrInvalidLayout, d.Kind)
	}
}

// ParseDirectionMode accepts "4way", "8way" and a few spellings of them.
// The empty string selects EightWay.
func ParseDirectionMode(s string) (DirectionMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "8way", "8-way", "8":
		return EightWay, nil
	case "4way", "4-way", "4":
		return FourWay, nil
	default:
		return EightWay, fmt.Errorf("unknown direction mode %q", s)
	}
}

// LoadLayout reads a layout file, choosing the decoder by extension.
func LoadLayout(path string) (Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Layout{}, fmt.Errorf("read layout: %w", err)
	}
	l, err := DecodeLayout(data, FormatFromPath(path))
	if err != nil {
		return Layout{}, fmt.Errorf("decode layout %s: %w", path, err)
	}
	return l, nil
}

// FormatFromPath maps a file extension to json, yaml or toml.
func FormatFromPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return "yaml"
	case ".toml":
		return "toml"
	default:
		return "json"
	}
}

// DecodeLayout decodes data in the given format.
func DecodeLayout(data []byte, format string) (Layout, error) {
	var l Layout
	var err error
	switch format {
	case "yaml":
		err = yaml.Unmarshal(data, &l)
	case "toml":
		err = toml.Unmarshal(data, &l)
	case "json":
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		err = dec.Decode(&l)
	default:
		err = fmt.Errorf("unsupported format: %s", format)
	}
	return l, err
}

// Encode writes the layout in the given format.
func (l Layout) Encode(format string) ([]byte, error) {
	switch format {
	case "yaml":
		return yaml.Marshal(l)
	case "toml":
		return toml.Marshal(l)
	case "json":
		return json.MarshalIndent(l, "", "  ")
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}

// Names returns the sorted button names known to km.
func (km KeyMap) Names() []string {
	names := make([]string, 0, len(km.Buttons))
	for n := range km.Buttons {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
