package darkroom

// FilmPreset identifies a built-in film stock. Presets are pure data:
// each maps to one fixed FilmEmulation configuration via Emulation.
type FilmPreset int

const (
	PresetNone FilmPreset = iota
	PresetPortra400
	PresetPortra160
	PresetPortra800
	PresetTMax400
	PresetTMax100
	PresetProvia100
	PresetAstia100
	PresetHP5
	PresetVelvia50
	PresetVelvia100
	PresetKodakGold200
	PresetFuji400H
	PresetTriX400
	PresetDelta3200
	PresetEktar100

	presetCount // sentinel, keep last
)

// String returns the display name of the preset.
func (p FilmPreset) String() string {
	switch p {
	case PresetNone:
		return "None"
	case PresetPortra400:
		return "Portra 400"
	case PresetPortra160:
		return "Portra 160"
	case PresetPortra800:
		return "Portra 800"
	case PresetTMax400:
		return "T-Max 400"
	case PresetTMax100:
		return "T-Max 100"
	case PresetProvia100:
		return "Provia 100"
	case PresetAstia100:
		return "Astia 100"
	case PresetHP5:
		return "HP5 Plus"
	case PresetVelvia50:
		return "Velvia 50"
	case PresetVelvia100:
		return "Velvia 100"
	case PresetKodakGold200:
		return "Kodak Gold 200"
	case PresetFuji400H:
		return "Fuji 400H"
	case PresetTriX400:
		return "Tri-X 400"
	case PresetDelta3200:
		return "Delta 3200"
	case PresetEktar100:
		return "Ektar 100"
	default:
		return "Unknown"
	}
}

// AllPresets returns every preset in display order, starting with
// PresetNone.
func AllPresets() []FilmPreset {
	out := make([]FilmPreset, presetCount)
	for i := range out {
		out[i] = FilmPreset(i)
	}
	return out
}

// Emulation returns the film emulation configuration for the preset.
// PresetNone and unknown values return the disabled default.
func (p FilmPreset) Emulation() FilmEmulation {
	f := DefaultFilmEmulation()

	switch p {
	case PresetPortra400:
		// Soft, warm portrait negative with generous latitude.
		f.Enabled = true
		f.RedGamma, f.GreenGamma, f.BlueGamma = 0.98, 1.0, 1.04
		f.GreenInRed, f.RedInGreen = 0.02, 0.02
		f.ToneCurveShadows, f.ToneCurveHighlights = 0.08, -0.05
		f.SCurveStrength = 0.15
		f.BlackPoint, f.WhitePoint = 0.03, 0.97
		f.GrainAmount, f.GrainSize = 0.06, 1.1
		f.HalationAmount = 0.06
		f.VignetteAmount = 0.05
		f.Latitude = 0.8
		f.ShadowTint = [3]float32{0.010, 0.005, 0.0}
		f.HighlightTint = [3]float32{0.010, 0.008, 0.004}

	case PresetPortra160:
		f.Enabled = true
		f.RedGamma, f.GreenGamma, f.BlueGamma = 0.98, 1.0, 1.03
		f.GreenInRed, f.RedInGreen = 0.02, 0.02
		f.ToneCurveShadows, f.ToneCurveHighlights = 0.06, -0.04
		f.SCurveStrength = 0.12
		f.BlackPoint, f.WhitePoint = 0.02, 0.98
		f.GrainAmount = 0.04
		f.HalationAmount = 0.05
		f.VignetteAmount = 0.04
		f.Latitude = 0.7
		f.ShadowTint = [3]float32{0.008, 0.004, 0.0}

	case PresetPortra800:
		f.Enabled = true
		f.RedGamma, f.GreenGamma, f.BlueGamma = 0.97, 1.0, 1.04
		f.GreenInRed, f.RedInGreen = 0.03, 0.02
		f.ToneCurveShadows, f.ToneCurveHighlights = 0.1, -0.06
		f.SCurveStrength = 0.18
		f.BlackPoint, f.WhitePoint = 0.03, 0.97
		f.GrainAmount, f.GrainSize, f.GrainRoughness = 0.09, 1.2, 0.6
		f.HalationAmount = 0.08
		f.VignetteAmount = 0.06
		f.Latitude = 0.85
		f.ShadowTint = [3]float32{0.012, 0.006, 0.0}

	case PresetTMax400:
		// Fine tabular-grain monochrome.
		f.Enabled = true
		f.Monochrome = true
		f.ToneCurveShadows, f.ToneCurveHighlights = 0.05, -0.05
		f.SCurveStrength = 0.25
		f.BlackPoint, f.WhitePoint = 0.04, 0.96
		f.GrainAmount, f.GrainSize = 0.08, 0.9
		f.VignetteAmount = 0.05
		f.Latitude = 0.6

	case PresetTMax100:
		f.Enabled = true
		f.Monochrome = true
		f.ToneCurveShadows, f.ToneCurveHighlights = 0.04, -0.04
		f.SCurveStrength = 0.22
		f.BlackPoint, f.WhitePoint = 0.03, 0.97
		f.GrainAmount, f.GrainSize = 0.04, 0.8
		f.VignetteAmount = 0.04
		f.Latitude = 0.5

	case PresetProvia100:
		// Neutral slide film, moderate contrast.
		f.Enabled = true
		f.RedGamma, f.GreenGamma, f.BlueGamma = 1.02, 1.02, 1.02
		f.GreenInRed, f.RedInGreen = -0.02, -0.02
		f.SCurveStrength = 0.3
		f.BlackPoint, f.WhitePoint = 0.02, 0.98
		f.GrainAmount = 0.04
		f.HalationAmount = 0.03
		f.VignetteAmount = 0.06
		f.Latitude = 0.3
		f.ChromaBoost = 1.08

	case PresetAstia100:
		// Soft slide film for skin tones.
		f.Enabled = true
		f.RedGamma, f.GreenGamma, f.BlueGamma = 1.0, 1.0, 1.01
		f.SCurveStrength = 0.2
		f.ToneCurveShadows = 0.04
		f.BlackPoint, f.WhitePoint = 0.02, 0.98
		f.GrainAmount = 0.04
		f.HalationAmount = 0.03
		f.VignetteAmount = 0.04
		f.Latitude = 0.4

	case PresetHP5:
		// Classic gritty monochrome.
		f.Enabled = true
		f.Monochrome = true
		f.ToneCurveShadows, f.ToneCurveHighlights = 0.08, -0.06
		f.SCurveStrength = 0.25
		f.BlackPoint, f.WhitePoint = 0.05, 0.95
		f.GrainAmount, f.GrainSize, f.GrainRoughness = 0.12, 1.3, 0.6
		f.VignetteAmount = 0.06
		f.Latitude = 0.7

	case PresetVelvia50:
		// High-saturation slide film: chroma boost and negative
		// crossover widen channel separation, steep S-curve deepens
		// contrast, very fine grain.
		f.Enabled = true
		f.RedGamma, f.GreenGamma, f.BlueGamma = 1.06, 1.04, 1.08
		f.GreenInRed, f.BlueInRed = -0.06, -0.02
		f.RedInGreen, f.BlueInGreen = -0.05, -0.03
		f.RedInBlue, f.GreenInBlue = -0.03, -0.05
		f.ToneCurveShadows = -0.08
		f.SCurveStrength = 0.35
		f.GrainAmount, f.GrainSize = 0.03, 0.8
		f.HalationAmount = 0.03
		f.VignetteAmount = 0.05
		f.Latitude = 0.2
		f.ChromaBoost = 1.3

	case PresetVelvia100:
		f.Enabled = true
		f.RedGamma, f.GreenGamma, f.BlueGamma = 1.05, 1.03, 1.06
		f.GreenInRed, f.BlueInRed = -0.05, -0.02
		f.RedInGreen, f.BlueInGreen = -0.04, -0.02
		f.RedInBlue, f.GreenInBlue = -0.02, -0.04
		f.ToneCurveShadows = -0.06
		f.SCurveStrength = 0.3
		f.GrainAmount, f.GrainSize = 0.05, 0.9
		f.HalationAmount = 0.03
		f.VignetteAmount = 0.05
		f.Latitude = 0.25
		f.ChromaBoost = 1.22

	case PresetKodakGold200:
		// Warm consumer negative.
		f.Enabled = true
		f.RedGamma, f.GreenGamma, f.BlueGamma = 0.97, 1.0, 1.06
		f.GreenInRed = 0.03
		f.ToneCurveShadows, f.ToneCurveHighlights = 0.08, -0.05
		f.SCurveStrength = 0.18
		f.BlackPoint, f.WhitePoint = 0.03, 0.97
		f.GrainAmount, f.GrainSize = 0.08, 1.1
		f.HalationAmount = 0.05
		f.VignetteAmount = 0.06
		f.Latitude = 0.6
		f.ShadowTint = [3]float32{0.012, 0.008, 0.0}
		f.HighlightTint = [3]float32{0.010, 0.006, 0.0}

	case PresetFuji400H:
		// Pastel negative with a green-leaning cast.
		f.Enabled = true
		f.RedGamma, f.GreenGamma, f.BlueGamma = 0.97, 0.98, 1.0
		f.RedInGreen, f.GreenInRed = 0.03, 0.02
		f.ToneCurveShadows = 0.1
		f.SCurveStrength = 0.12
		f.BlackPoint, f.WhitePoint = 0.04, 0.97
		f.GrainAmount, f.GrainSize = 0.07, 1.1
		f.HalationAmount = 0.04
		f.VignetteAmount = 0.04
		f.Latitude = 0.9
		f.ShadowTint = [3]float32{0.0, 0.008, 0.006}
		f.ChromaBoost = 0.95

	case PresetTriX400:
		f.Enabled = true
		f.Monochrome = true
		f.ToneCurveShadows, f.ToneCurveHighlights = 0.06, -0.08
		f.SCurveStrength = 0.3
		f.BlackPoint, f.WhitePoint = 0.05, 0.95
		f.GrainAmount, f.GrainSize, f.GrainRoughness = 0.14, 1.4, 0.7
		f.VignetteAmount = 0.08
		f.Latitude = 0.65

	case PresetDelta3200:
		// Very fast monochrome, pronounced grain.
		f.Enabled = true
		f.Monochrome = true
		f.ToneCurveShadows, f.ToneCurveHighlights = 0.1, -0.05
		f.SCurveStrength = 0.2
		f.BlackPoint, f.WhitePoint = 0.06, 0.94
		f.GrainAmount, f.GrainSize, f.GrainRoughness = 0.25, 1.8, 0.8
		f.VignetteAmount = 0.08
		f.Latitude = 0.75

	case PresetEktar100:
		// Vivid fine-grain negative.
		f.Enabled = true
		f.RedGamma, f.GreenGamma, f.BlueGamma = 1.03, 1.02, 1.04
		f.GreenInRed, f.RedInGreen = -0.04, -0.03
		f.GreenInBlue = -0.02
		f.ToneCurveShadows = -0.04
		f.SCurveStrength = 0.3
		f.BlackPoint, f.WhitePoint = 0.01, 0.99
		f.GrainAmount, f.GrainSize = 0.04, 0.8
		f.HalationAmount = 0.04
		f.VignetteAmount = 0.05
		f.Latitude = 0.4
		f.ChromaBoost = 1.18
	}

	return f
}
