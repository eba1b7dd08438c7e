package darkroom

import "math"

// Color math shared by the CPU pipeline and mirrored in the WGSL kernels.
// All functions operate on normalized 0..1 channel values unless noted.

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func clampf(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// luma709 is the film-style luminance used for monochrome collapse.
func luma709(r, g, b float32) float32 {
	return 0.30*r + 0.59*g + 0.11*b
}

// luma601 is the luminance used for masks (tinting, grain, halation).
func luma601(r, g, b float32) float32 {
	return 0.299*r + 0.587*g + 0.114*b
}

// srgbToLinear removes the sRGB transfer curve.
func srgbToLinear(c float32) float32 {
	if c <= 0.04045 {
		return c / 12.92
	}
	return float32(math.Pow(float64(c+0.055)/1.055, 2.4))
}

// linearToSRGB applies the sRGB transfer curve.
func linearToSRGB(c float32) float32 {
	if c <= 0.0031308 {
		return c * 12.92
	}
	return 1.055*float32(math.Pow(float64(c), 1/2.4)) - 0.055
}

// acesTonemap is the ACES-style filmic rolloff.
// f(x) = x(ax+b) / (x(cx+d)+e)
func acesTonemap(x float32) float32 {
	const (
		a = 2.51
		b = 0.03
		c = 2.43
		d = 0.59
		e = 0.14
	)
	return clamp01(x * (a*x + b) / (x*(c*x+d) + e))
}

// toneMapStrength derives the ACES blend factor from the exposure
// multiplier: the further exposure deviates from neutral, the harder the
// highlights are rolled off.
func toneMapStrength(exposureMult float32) float32 {
	dev := exposureMult - 1
	if dev < 0 {
		dev = -dev
	}
	return clampf(0.5+0.3*dev, 0.3, 0.9)
}

// oklabFromLinear converts linear sRGB to Oklab.
func oklabFromLinear(r, g, b float32) (L, A, B float32) {
	l := 0.4122214708*r + 0.5363325363*g + 0.0514459929*b
	m := 0.2119034982*r + 0.6806995451*g + 0.1073969566*b
	s := 0.0883024619*r + 0.2817188376*g + 0.6299787005*b

	lr := cbrt(l)
	mr := cbrt(m)
	sr := cbrt(s)

	L = 0.2104542553*lr + 0.7936177850*mr - 0.0040720468*sr
	A = 1.9779984951*lr - 2.4285922050*mr + 0.4505937099*sr
	B = 0.0259040371*lr + 0.7827717662*mr - 0.8086757660*sr
	return L, A, B
}

// linearFromOklab converts Oklab back to linear sRGB.
func linearFromOklab(L, A, B float32) (r, g, b float32) {
	lr := L + 0.3963377774*A + 0.2158037573*B
	mr := L - 0.1055613458*A - 0.0638541728*B
	sr := L - 0.0894841775*A - 1.2914855480*B

	l := lr * lr * lr
	m := mr * mr * mr
	s := sr * sr * sr

	r = 4.0767416621*l - 3.3077115913*m + 0.2309699292*s
	g = -1.2684380046*l + 2.6097574011*m - 0.3413193965*s
	b = -0.0041960863*l - 0.7034186147*m + 1.7076147010*s
	return r, g, b
}

func cbrt(v float32) float32 {
	return float32(math.Cbrt(float64(v)))
}

// adjustSaturation scales the chroma of a gamma-encoded sRGB value in
// Oklab. Working in linear light keeps luminance stable while chroma
// changes; doing this in gamma space would visibly darken or brighten.
func adjustSaturation(r, g, b, factor float32) (float32, float32, float32) {
	lr := srgbToLinear(clamp01(r))
	lg := srgbToLinear(clamp01(g))
	lb := srgbToLinear(clamp01(b))

	L, A, B := oklabFromLinear(lr, lg, lb)
	A *= factor
	B *= factor
	lr, lg, lb = linearFromOklab(L, A, B)

	return linearToSRGB(clamp01(lr)), linearToSRGB(clamp01(lg)), linearToSRGB(clamp01(lb))
}

// grainSeed keeps the grain pattern stable across frames so interactive
// redraws do not shimmer.
const grainSeed = 12345

// filmGrain generates deterministic per-pixel noise in -1..1, hashed
// from the pixel position. Size scales the effective grain clump size;
// roughness blends in a second noise octave.
func filmGrain(x, y uint32, size, roughness float32) float32 {
	scale := float32(1)
	if size > 0 {
		scale = 1 / size
	}
	sx := uint64(float32(x) * scale)
	sy := uint64(float32(y) * scale)

	h := uint64(grainSeed)
	h ^= sx
	h *= 0x517cc1b727220a95
	h ^= sy
	h *= 0x517cc1b727220a95
	h ^= h >> 32

	noise := float32(float64(h)/float64(math.MaxUint64))*2 - 1

	if roughness > 0 {
		h *= 0x517cc1b727220a95
		noise2 := float32(float64(h)/float64(math.MaxUint64))*2 - 1
		noise = noise*(1-roughness*0.5) + noise2*roughness*0.5
	}
	return noise
}
