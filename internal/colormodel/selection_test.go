package colormodel

import (
	"errors"
	"testing"
)

func TestToHex(t *testing.T) {
	tests := []struct {
		r, g, b uint8
		want    string
	}{
		{255, 60, 10, "#ff3c0a"},
		{0, 0, 0, "#000000"},
		{255, 255, 255, "#ffffff"},
		{1, 2, 3, "#010203"},
	}

	for _, tt := range tests {
		if got := ToHex(tt.r, tt.g, tt.b); got != tt.want {
			t.Errorf("ToHex(%d, %d, %d) = %s, want %s", tt.r, tt.g, tt.b, got, tt.want)
		}
	}
}

func TestHexRoundTrip(t *testing.T) {
	// Each channel independently over the full range, other channels fixed.
	sel := NewSelection()
	for v := 0; v <= 255; v++ {
		c := uint8(v)
		for _, rgb := range [][3]uint8{{c, 0, 0}, {0, c, 0}, {0, 0, c}, {c, 255 - c, c / 2}} {
			if err := sel.SelectFromHex(ToHex(rgb[0], rgb[1], rgb[2])); err != nil {
				t.Fatalf("SelectFromHex(%v) error = %v", rgb, err)
			}
			r, g, b := sel.RGB()
			if r != rgb[0] || g != rgb[1] || b != rgb[2] {
				t.Fatalf("round trip %v came back as (%d, %d, %d)", rgb, r, g, b)
			}
		}
	}
}

func TestSelectFromHex_Invalid(t *testing.T) {
	inputs := []string{"", "ff3c0a", "#ff3c0", "#ff3c0a0", "#gg3c0a", "#fff", "red"}

	for _, in := range inputs {
		sel := NewSelection()
		before := *sel
		err := sel.SelectFromHex(in)
		if !errors.Is(err, ErrInvalidColor) {
			t.Errorf("SelectFromHex(%q) error = %v, want ErrInvalidColor", in, err)
		}
		if *sel != before {
			t.Errorf("SelectFromHex(%q) changed the selection: %+v", in, *sel)
		}
	}
}

func TestSelectFromHex_UpperCase(t *testing.T) {
	sel := NewSelection()
	if err := sel.SelectFromHex("#FF3C0A"); err != nil {
		t.Fatalf("SelectFromHex error = %v", err)
	}
	if sel.Hex() != "#ff3c0a" {
		t.Errorf("Hex() = %s, want #ff3c0a", sel.Hex())
	}
}

func TestSelectPreset(t *testing.T) {
	sel := NewSelection()
	sel.SelectCustom()

	swatch, err := sel.SelectPreset("amber")
	if err != nil {
		t.Fatalf("SelectPreset error = %v", err)
	}
	if swatch.ID != "amber" {
		t.Errorf("returned swatch = %s, want amber", swatch.ID)
	}
	if r, g, b := sel.RGB(); r != 255 || g != 140 || b != 0 {
		t.Errorf("RGB = (%d, %d, %d), want (255, 140, 0)", r, g, b)
	}
	if sel.PickerVisible {
		t.Error("selecting a preset should hide the picker")
	}

	active := 0
	for _, id := range SwatchIDs() {
		if sel.IsActive(id) {
			active++
		}
	}
	if active != 1 {
		t.Errorf("%d swatches active, want exactly 1", active)
	}
}

func TestSelectPreset_Unknown(t *testing.T) {
	sel := NewSelection()
	before := *sel
	if _, err := sel.SelectPreset("ultraviolet"); !errors.Is(err, ErrUnknownSwatch) {
		t.Errorf("SelectPreset(unknown) error = %v, want ErrUnknownSwatch", err)
	}
	if *sel != before {
		t.Error("unknown preset must not change the selection")
	}
}

func TestSelectCustom_KeepsColor(t *testing.T) {
	sel := NewSelection()
	r, g, b := sel.RGB()

	sel.SelectCustom()

	if !sel.PickerVisible {
		t.Error("custom swatch should reveal the picker")
	}
	if !sel.IsActive(CustomSwatchID) {
		t.Errorf("Active = %s, want %s", sel.Active, CustomSwatchID)
	}
	if r2, g2, b2 := sel.RGB(); r2 != r || g2 != g || b2 != b {
		t.Error("selecting custom must not change the color")
	}
}

func TestNewSelection(t *testing.T) {
	sel := NewSelection()
	if sel.Hex() != "#ff3c0a" {
		t.Errorf("initial color = %s, want #ff3c0a", sel.Hex())
	}
	if sel.Active != "sunrise" {
		t.Errorf("initial swatch = %s, want sunrise", sel.Active)
	}
}

func TestRampGradient(t *testing.T) {
	cells := RampGradient(11)
	if len(cells) != 11 {
		t.Fatalf("len = %d, want 11", len(cells))
	}
	if cells[0] != "#000000" {
		t.Errorf("first cell = %s, want #000000", cells[0])
	}
	if cells[3] != "#3d0000" {
		t.Errorf("cell at 30%% = %s, want #3d0000", cells[3])
	}
	if cells[10] != "#ff3c0a" {
		t.Errorf("last cell = %s, want #ff3c0a", cells[10])
	}

	if RampGradient(0) != nil {
		t.Error("zero width should give no cells")
	}

	// The preview does not follow the selection.
	sel := NewSelection()
	_, _ = sel.SelectPreset("blue")
	again := RampGradient(11)
	for i := range cells {
		if cells[i] != again[i] {
			t.Fatalf("gradient changed after selecting a preset at cell %d", i)
		}
	}
}
