package darkroom

import "testing"

func TestAllPresetsHaveNames(t *testing.T) {
	for _, p := range AllPresets() {
		if p.String() == "Unknown" {
			t.Errorf("preset %d has no display name", int(p))
		}
	}
	if FilmPreset(999).String() != "Unknown" {
		t.Error("out-of-range preset should be Unknown")
	}
}

func TestPresetNoneIsDisabled(t *testing.T) {
	f := PresetNone.Emulation()
	if f.Enabled {
		t.Error("PresetNone should map to disabled emulation")
	}
	if f != DefaultFilmEmulation() {
		t.Error("PresetNone should be the neutral default")
	}
}

func TestPresetsEnabled(t *testing.T) {
	for _, p := range AllPresets() {
		if p == PresetNone {
			continue
		}
		if !p.Emulation().Enabled {
			t.Errorf("%s emulation should be enabled", p)
		}
	}
}

func TestMonochromePresets(t *testing.T) {
	mono := map[FilmPreset]bool{
		PresetTMax400:   true,
		PresetTMax100:   true,
		PresetHP5:       true,
		PresetTriX400:   true,
		PresetDelta3200: true,
	}
	for _, p := range AllPresets() {
		if got := p.Emulation().Monochrome; got != mono[p] {
			t.Errorf("%s: Monochrome = %v, want %v", p, got, mono[p])
		}
	}
}

func TestVelvia50Character(t *testing.T) {
	f := PresetVelvia50.Emulation()

	if f.GrainAmount != 0.03 {
		t.Errorf("Velvia 50 grain = %v, want 0.03 (very fine)", f.GrainAmount)
	}
	if f.Monochrome {
		t.Error("Velvia 50 is a color stock")
	}
	// Negative crossover widens channel separation for the saturated look.
	if f.GreenInRed >= 0 || f.RedInGreen >= 0 {
		t.Error("Velvia 50 should use negative channel crossover")
	}
	if f.ChromaBoost <= 1 {
		t.Errorf("Velvia 50 chroma boost = %v, want > 1", f.ChromaBoost)
	}
	if f.SCurveStrength <= PresetPortra400.Emulation().SCurveStrength {
		t.Error("Velvia 50 should be contrastier than Portra 400")
	}
}

// Monochrome presets must collapse every pixel to equal channels; grain
// is applied uniformly so neutrality survives the full pipeline.
func TestMonochromePresetNeutralOutput(t *testing.T) {
	e := NewEngine(WithWorkers(2))
	defer e.Close()

	img := NewImage(16, 16)
	for y := 0; y < 16; y++ {
		for x := 0; x < 16; x++ {
			img.SetPixelRGBA(x, y, uint8(x*16), uint8(y*16), uint8((x+y)*8), 255)
		}
	}

	adj := DefaultAdjustments()
	adj.Film = PresetTriX400.Emulation()

	out := e.Apply(img, adj)
	for y := 0; y < out.Height(); y++ {
		for x := 0; x < out.Width(); x++ {
			r, g, b, _ := out.PixelRGBA(x, y)
			if r != g || g != b {
				t.Fatalf("pixel (%d,%d) = %d,%d,%d; monochrome output must be neutral", x, y, r, g, b)
			}
		}
	}
}
