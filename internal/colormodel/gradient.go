package colormodel

import (
	"github.com/lucasb-eyer/go-colorful"
)

// gradientStop is one color stop of the ramp preview
type gradientStop struct {
	pos float64
	hex string
}

// rampStops mirror what the device ramps through: black, a deep red at 30%,
// then the sunrise target. The preview illustrates "a sunrise" and is not
// tied to the manual color selection.
var rampStops = []gradientStop{
	{pos: 0.0, hex: "#000000"},
	{pos: 0.3, hex: "#3d0000"},
	{pos: 1.0, hex: "#ff3c0a"},
}

// RampGradient samples the fixed sunrise gradient into width "#rrggbb" cells.
func RampGradient(width int) []string {
	if width <= 0 {
		return nil
	}

	cells := make([]string, width)
	for i := range cells {
		t := 0.0
		if width > 1 {
			t = float64(i) / float64(width-1)
		}
		cells[i] = sampleRamp(t).Hex()
	}
	return cells
}

func sampleRamp(t float64) colorful.Color {
	for i := 1; i < len(rampStops); i++ {
		lo, hi := rampStops[i-1], rampStops[i]
		if t > hi.pos {
			continue
		}
		from, _ := colorful.Hex(lo.hex)
		to, _ := colorful.Hex(hi.hex)
		return from.BlendRgb(to, (t-lo.pos)/(hi.pos-lo.pos)).Clamped()
	}
	last, _ := colorful.Hex(rampStops[len(rampStops)-1].hex)
	return last
}
