package darkroom

import "math"

// Film emulation stages. The characteristic curve runs before exposure
// and tone mapping; vignette, grain and halation run after, on the
// nearly final value.

// applyFilmCurve applies the film characteristic curve to one pixel in
// normalized 0..1 space: monochrome collapse or channel crossover,
// per-channel gamma, latitude compression, S-curve, tone curve control
// points, black/white point and shadow/highlight tinting.
func applyFilmCurve(f *FilmEmulation, r, g, b float32) (float32, float32, float32) {
	if f.Monochrome {
		// Film-like spectral sensitivity for the mono collapse.
		l := luma709(r, g, b)
		r, g, b = l, l, l
	} else {
		// Film layer crosstalk.
		or, og, ob := r, g, b
		r = or + og*f.GreenInRed + ob*f.BlueInRed
		g = og + or*f.RedInGreen + ob*f.BlueInGreen
		b = ob + or*f.RedInBlue + og*f.GreenInBlue
	}

	// Per-channel color response curves.
	r = powf(maxf(r, 0), f.RedGamma)
	g = powf(maxf(g, 0), f.GreenGamma)
	b = powf(maxf(b, 0), f.BlueGamma)

	// Latitude: soft-clip highlights, then compensate the compression.
	if f.Latitude > 0 {
		k := f.Latitude * 0.5
		r = r / (1 + r*k)
		g = g / (1 + g*k)
		b = b / (1 + b*k)
		comp := 1 + k*0.5
		r *= comp
		g *= comp
		b *= comp
	}

	if f.SCurveStrength > 0 {
		r = applySCurve(r, f.SCurveStrength)
		g = applySCurve(g, f.SCurveStrength)
		b = applySCurve(b, f.SCurveStrength)
	}

	r = applyToneCurve(r, f.ToneCurveShadows, f.ToneCurveMidtones, f.ToneCurveHighlights)
	g = applyToneCurve(g, f.ToneCurveShadows, f.ToneCurveMidtones, f.ToneCurveHighlights)
	b = applyToneCurve(b, f.ToneCurveShadows, f.ToneCurveMidtones, f.ToneCurveHighlights)

	// Film base and max density.
	if rng := f.WhitePoint - f.BlackPoint; rng > 0.01 {
		r = f.BlackPoint + r*rng
		g = f.BlackPoint + g*rng
		b = f.BlackPoint + b*rng
	}

	// Shadow and highlight color casts, masked by luminance.
	l := luma601(r, g, b)
	shadow := clamp01(1 - l*2)
	highlight := clamp01((l - 0.5) * 2)

	r += f.ShadowTint[0]*shadow + f.HighlightTint[0]*highlight
	g += f.ShadowTint[1]*shadow + f.HighlightTint[1]*highlight
	b += f.ShadowTint[2]*shadow + f.HighlightTint[2]*highlight

	return r, g, b
}

// applyFilmPost applies the positional film effects to one pixel:
// vignette falloff, grain noise and the halation highlight glow.
// Coordinates are pixel positions; cx, cy and maxDist describe the
// image center geometry.
func applyFilmPost(f *FilmEmulation, r, g, b float32, px, py, cx, cy, maxDist float32) (float32, float32, float32) {
	if f.VignetteAmount > 0 {
		dx := px - cx
		dy := py - cy
		dist := float32(math.Sqrt(float64(dx*dx+dy*dy))) / maxDist
		v := clamp01(1 - f.VignetteAmount*powf(dist/f.VignetteSoftness, 2))
		r *= v
		g *= v
		b *= v
	}

	if f.GrainAmount > 0 {
		noise := filmGrain(uint32(px), uint32(py), f.GrainSize, f.GrainRoughness)

		// Midtone-peaked mask: grain shows most at 50% luminance.
		l := luma601(r, g, b)
		mask := 4 * l * (1 - l)
		strength := f.GrainAmount * 0.15 * mask

		r += noise * strength
		g += noise * strength
		b += noise * strength
	}

	// Simplified single-pass halation: tint wherever the highlight mask
	// fires. A blur-based glow would need neighboring pixels.
	if f.HalationAmount > 0 {
		l := luma601(r, g, b)
		mask := clamp01((l - 0.7) / 0.3)
		strength := f.HalationAmount * mask * 0.12

		r += f.HalationColor[0] * strength
		g += f.HalationColor[1] * strength
		b += f.HalationColor[2] * strength
	}

	return r, g, b
}

// applySCurve applies a sigmoid contrast curve centered at 0.5,
// normalized to hit 0 and 1 at the endpoints, blended with identity by
// strength. Approximates the Hurter-Driffield characteristic curve.
func applySCurve(x, strength float32) float32 {
	x = clamp01(x)
	const midpoint = 0.5
	steepness := 1 + strength*3

	sigmoid := 1 / (1 + expf(-steepness*(x-midpoint)))
	minSig := 1 / (1 + expf(steepness*midpoint))
	maxSig := 1 / (1 + expf(-steepness*(1-midpoint)))

	normalized := (sigmoid - minSig) / (maxSig - minSig)
	return x*(1-strength) + normalized*strength
}

// applyToneCurve lifts or lowers the shadow, midtone and highlight
// regions by their control points, weighted by where the input value
// falls. Regions: shadows 0-0.33, midtones 0.33-0.66, highlights 0.66-1.
func applyToneCurve(x, shadows, midtones, highlights float32) float32 {
	x = clamp01(x)

	shadowW := clamp01(1 - x*3)
	highlightW := clamp01((x - 0.66) * 3)
	midtoneW := 1 - shadowW - highlightW

	adjustment := shadows*shadowW*0.15 +
		midtones*midtoneW*0.1 +
		highlights*highlightW*0.15

	return clamp01(x + adjustment)
}

func maxf(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}

func powf(x, y float32) float32 {
	return float32(math.Pow(float64(x), float64(y)))
}

func expf(x float32) float32 {
	return float32(math.Exp(float64(x)))
}
