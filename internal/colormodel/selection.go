// Package colormodel holds the manual light color the user has picked.
//
// A Selection is created once per dashboard session and is only mutated
// through its own methods. Changing it never talks to the device: sending a
// color is a separate, explicit action owned by the control package.
package colormodel

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/lucasb-eyer/go-colorful"
)

// CustomSwatchID identifies the free-form picker swatch
const CustomSwatchID = "custom"

var (
	// ErrInvalidColor is returned for anything that is not "#RRGGBB"
	ErrInvalidColor = errors.New("invalid color (expected #RRGGBB)")

	// ErrUnknownSwatch is returned when a preset id is not in the palette
	ErrUnknownSwatch = errors.New("unknown swatch")
)

var hexPattern = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// Swatch is a fixed, named color choice
type Swatch struct {
	ID      string
	Label   string
	R, G, B uint8
}

// Hex returns the swatch color as "#rrggbb"
func (s Swatch) Hex() string {
	return ToHex(s.R, s.G, s.B)
}

// presets is the fixed palette; the first entry is the startup selection
var presets = []Swatch{
	{ID: "sunrise", Label: "Sunrise", R: 255, G: 60, B: 10},
	{ID: "warm", Label: "Warm White", R: 255, G: 255, B: 220},
	{ID: "amber", Label: "Amber", R: 255, G: 140, B: 0},
	{ID: "red", Label: "Red", R: 255, G: 0, B: 0},
	{ID: "blue", Label: "Blue", R: 40, G: 90, B: 255},
}

// Presets returns a copy of the preset palette, in display order
func Presets() []Swatch {
	out := make([]Swatch, len(presets))
	copy(out, presets)
	return out
}

// LookupPreset finds a preset swatch by id
func LookupPreset(id string) (Swatch, bool) {
	for _, s := range presets {
		if s.ID == id {
			return s, true
		}
	}
	return Swatch{}, false
}

// SwatchIDs returns every selectable swatch id, presets first and custom last
func SwatchIDs() []string {
	ids := make([]string, 0, len(presets)+1)
	for _, s := range presets {
		ids = append(ids, s.ID)
	}
	return append(ids, CustomSwatchID)
}

// Selection is the pending manual-light color plus which swatch is active.
// Exactly one swatch is active at any time.
type Selection struct {
	R, G, B uint8

	// Active is the id of the highlighted swatch (a preset id or CustomSwatchID)
	Active string

	// PickerVisible reports whether the custom hex picker row is shown
	PickerVisible bool
}

// NewSelection starts on the first preset with the picker hidden
func NewSelection() *Selection {
	first := presets[0]
	return &Selection{
		R:      first.R,
		G:      first.G,
		B:      first.B,
		Active: first.ID,
	}
}

// SetRGB replaces all three channels in one step
func (s *Selection) SetRGB(r, g, b uint8) {
	s.R, s.G, s.B = r, g, b
}

// RGB returns the current channels
func (s *Selection) RGB() (r, g, b uint8) {
	return s.R, s.G, s.B
}

// SelectPreset makes a preset swatch active, takes its color and hides the picker.
func (s *Selection) SelectPreset(id string) (Swatch, error) {
	swatch, ok := LookupPreset(id)
	if !ok {
		return Swatch{}, fmt.Errorf("%w: %q", ErrUnknownSwatch, id)
	}
	s.SetRGB(swatch.R, swatch.G, swatch.B)
	s.Active = swatch.ID
	s.PickerVisible = false
	return swatch, nil
}

// SelectCustom activates the custom swatch and reveals the picker.
// The color itself is left alone until the picker reports a value.
func (s *Selection) SelectCustom() {
	s.Active = CustomSwatchID
	s.PickerVisible = true
}

// SelectFromHex takes the color reported by the picker.
// Malformed input leaves the selection untouched.
func (s *Selection) SelectFromHex(hex string) error {
	r, g, b, err := ParseHex(hex)
	if err != nil {
		return err
	}
	s.SetRGB(r, g, b)
	return nil
}

// Hex returns the selection as "#rrggbb"
func (s *Selection) Hex() string {
	return ToHex(s.R, s.G, s.B)
}

// IsActive reports whether the given swatch id is the highlighted one
func (s *Selection) IsActive(id string) bool {
	return s.Active == id
}

// ToHex formats three channels as lowercase "#rrggbb"
func ToHex(r, g, b uint8) string {
	return colorful.Color{
		R: float64(r) / 255.0,
		G: float64(g) / 255.0,
		B: float64(b) / 255.0,
	}.Hex()
}

// ParseHex parses "#RRGGBB" (either case) into channels
func ParseHex(hex string) (r, g, b uint8, err error) {
	if !hexPattern.MatchString(hex) {
		return 0, 0, 0, fmt.Errorf("%w: %q", ErrInvalidColor, hex)
	}
	c, err := colorful.Hex(hex)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("%w: %v", ErrInvalidColor, err)
	}
	r, g, b = c.RGB255()
	return r, g, b, nil
}
