package darkroom

// ImageAdjustments describes the full set of parameters applied by the
// adjustment engine. The zero value is not neutral; use
// DefaultAdjustments.
//
// ImageAdjustments is a comparable value type: two values compare equal
// exactly when they describe the same processing.
type ImageAdjustments struct {
	// Exposure in stops, practical range -3.0 to +3.0. 0 is neutral.
	Exposure float32

	// Saturation multiplier, 0.0 to 2.0. 1 is neutral. Applied in a
	// perceptually uniform color space, so it does not shift luminance.
	Saturation float32

	// Temperature from -1.0 (cool) to +1.0 (warm). 0 is neutral.
	Temperature float32

	// Film holds the film emulation parameters. Disabled by default.
	Film FilmEmulation

	// Frame holds border framing parameters. Disabled by default.
	// Enabling a frame changes the output dimensions.
	Frame FrameSettings
}

// FrameSettings describes an optional solid border composited around the
// processed image. Thickness is in pixels per edge, so the framed output
// is 2*Thickness larger in each axis.
type FrameSettings struct {
	Enabled   bool
	Color     [3]uint8
	Thickness int
}

// FilmEmulation simulates the response of an analog film stock: tone
// curve, channel crossover, grain, halation, vignette and tinting.
// The zero value is not neutral; use DefaultFilmEmulation.
type FilmEmulation struct {
	Enabled bool

	// Monochrome collapses the image to luminance before the curve,
	// as for black-and-white stocks. Saturation is skipped when set.
	Monochrome bool

	// Tone curve control points, -1.0 to 1.0 each.
	ToneCurveShadows    float32
	ToneCurveMidtones   float32
	ToneCurveHighlights float32

	// SCurveStrength blends a sigmoid contrast curve, 0.0 to 1.0.
	SCurveStrength float32

	// Grain simulation.
	GrainAmount    float32 // 0.0 to 1.0
	GrainSize      float32 // 0.5 to 2.0, 1.0 = normal
	GrainRoughness float32 // 0.0 to 1.0

	// Halation (bloom tint around bright areas).
	HalationAmount float32
	HalationRadius float32
	HalationColor  [3]float32

	// Channel crossover coefficients, -0.2 to 0.2. Each names the
	// source channel bleeding into the destination channel.
	RedInGreen  float32
	RedInBlue   float32
	GreenInRed  float32
	GreenInBlue float32
	BlueInRed   float32
	BlueInGreen float32

	// Per-channel gamma, 0.8 to 1.2.
	RedGamma   float32
	GreenGamma float32
	BlueGamma  float32

	// Black and white point (film base and max density).
	BlackPoint float32 // 0.0 to 0.1; raised blacks give a faded look
	WhitePoint float32 // 0.9 to 1.0

	// Color cast in shadows and highlights.
	ShadowTint    [3]float32
	HighlightTint [3]float32

	// Vignette (lens falloff).
	VignetteAmount   float32 // 0.0 to 1.0
	VignetteSoftness float32 // 0.5 to 2.0

	// ChromaBoost multiplies the perceptual saturation stage, 0.8 to
	// 1.5. 1 is neutral. Values above 1 give the exaggerated color of
	// saturated slide stocks; ignored for monochrome stocks.
	ChromaBoost float32

	// Latitude compresses highlights to recover dynamic range, 0.0 to 1.0.
	Latitude float32
}

// DefaultAdjustments returns the neutral adjustment set: applying it to
// an image is the identity transform.
func DefaultAdjustments() ImageAdjustments {
	return ImageAdjustments{
		Exposure:    0,
		Saturation:  1,
		Temperature: 0,
		Film:        DefaultFilmEmulation(),
		Frame: FrameSettings{
			Enabled:   false,
			Color:     [3]uint8{0, 0, 0},
			Thickness: 10,
		},
	}
}

// DefaultFilmEmulation returns a disabled film emulation with all
// parameters at their neutral values.
func DefaultFilmEmulation() FilmEmulation {
	return FilmEmulation{
		Enabled:          false,
		GrainSize:        1.0,
		GrainRoughness:   0.5,
		HalationRadius:   1.0,
		HalationColor:    [3]float32{1.0, 0.3, 0.1},
		RedGamma:         1.0,
		GreenGamma:       1.0,
		BlueGamma:        1.0,
		WhitePoint:       1.0,
		VignetteSoftness: 1.0,
		ChromaBoost:      1.0,
	}
}

// IsDefault reports whether applying a to an image would be a no-op.
// The engine uses this as a fast short-circuit to return an untouched
// copy without running the pipeline.
func (a ImageAdjustments) IsDefault() bool {
	return a.pixelNeutral() && !a.Frame.Enabled
}

// pixelNeutral reports whether the dimension-preserving stages of the
// pipeline are a no-op. Framing is excluded: a frame-only adjustment
// must composite the border without recoloring the interior.
func (a ImageAdjustments) pixelNeutral() bool {
	return a.Exposure == 0 &&
		a.Saturation == 1 &&
		a.Temperature == 0 &&
		!a.Film.Enabled
}

// Preview returns a cheaper variant for interactive dragging: grain,
// halation, S-curve, vignette and latitude are zeroed while the color
// response of the pipeline is preserved.
func (a ImageAdjustments) Preview() ImageAdjustments {
	p := a
	p.Film.GrainAmount = 0
	p.Film.HalationAmount = 0
	p.Film.SCurveStrength = 0
	p.Film.VignetteAmount = 0
	p.Film.Latitude = 0
	return p
}
