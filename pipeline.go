package darkroom

import "math"

// The CPU reference pipeline. Per-pixel processing is a pure function of
// the pixel's own coordinates and input value, so the image can be split
// into contiguous chunks processed in any order.

// pipelineParams holds per-image precomputed values so the hot loop does
// no redundant work.
type pipelineParams struct {
	exposureMult float32
	toneStrength float32
	tempRAdd     float32
	tempBSub     float32

	saturation float32 // effective chroma factor, film boost included
	saturate   bool    // run the perceptual saturation stage

	centerX float32
	centerY float32
	maxDist float32
}

func newPipelineParams(adj *ImageAdjustments, width, height int) pipelineParams {
	mult := float32(math.Pow(2, float64(adj.Exposure)))

	var rAdd, bSub float32
	if adj.Temperature >= 0 {
		// Warm shifts push red harder than they pull blue.
		rAdd = adj.Temperature * 0.1
		bSub = adj.Temperature * 0.06
	} else {
		rAdd = adj.Temperature * 0.06
		bSub = adj.Temperature * 0.1
	}

	cx := float32(width) / 2
	cy := float32(height) / 2

	sat := adj.Saturation
	if adj.Film.Enabled {
		sat *= adj.Film.ChromaBoost
	}

	return pipelineParams{
		exposureMult: mult,
		toneStrength: toneMapStrength(mult),
		tempRAdd:     rAdd,
		tempBSub:     bSub,
		saturation:   sat,
		saturate:     sat != 1 && !(adj.Film.Enabled && adj.Film.Monochrome),
		centerX:      cx,
		centerY:      cy,
		maxDist:      float32(math.Sqrt(float64(cx*cx + cy*cy))),
	}
}

// processPixel runs the full per-pixel pipeline (everything except
// framing) on one normalized RGB value at pixel position (px, py).
func processPixel(adj *ImageAdjustments, p *pipelineParams, r, g, b, px, py float32) (float32, float32, float32) {
	if adj.Film.Enabled {
		r, g, b = applyFilmCurve(&adj.Film, r, g, b)
	}

	// Exposure in stops.
	r *= p.exposureMult
	g *= p.exposureMult
	b *= p.exposureMult

	// Temperature: asymmetric additive shift on red and blue.
	r += p.tempRAdd
	b -= p.tempBSub

	// Filmic rolloff, blended harder the further exposure deviates.
	r = r*(1-p.toneStrength) + acesTonemap(r)*p.toneStrength
	g = g*(1-p.toneStrength) + acesTonemap(g)*p.toneStrength
	b = b*(1-p.toneStrength) + acesTonemap(b)*p.toneStrength

	if p.saturate {
		r, g, b = adjustSaturation(r, g, b, p.saturation)
	}

	if adj.Film.Enabled {
		r, g, b = applyFilmPost(&adj.Film, r, g, b, px, py, p.centerX, p.centerY, p.maxDist)
	}

	return r, g, b
}

// processRange runs the pipeline over a contiguous pixel index range of
// the buffer. Alpha is passed through unchanged.
func processRange(data []uint8, width int, adj *ImageAdjustments, p *pipelineParams, start, end int) {
	for idx := start; idx < end; idx++ {
		i := idx * 4
		px := float32(idx % width)
		py := float32(idx / width)

		r := float32(data[i]) / 255
		g := float32(data[i+1]) / 255
		b := float32(data[i+2]) / 255

		r, g, b = processPixel(adj, p, r, g, b, px, py)

		data[i] = uint8(clamp01(r)*255 + 0.5)
		data[i+1] = uint8(clamp01(g)*255 + 0.5)
		data[i+2] = uint8(clamp01(b)*255 + 0.5)
	}
}

// applyFrame composites img onto a larger canvas filled with the frame
// color, adding Thickness pixels on every edge. This is the only stage
// that changes output dimensions.
func applyFrame(img *Image, frame FrameSettings) *Image {
	t := frame.Thickness
	if t <= 0 {
		return img
	}

	out := NewImage(img.width+2*t, img.height+2*t)
	out.Fill(frame.Color[0], frame.Color[1], frame.Color[2], 255)

	// Composite the processed image at the centered offset.
	for y := 0; y < img.height; y++ {
		srcOff := y * img.width * 4
		dstOff := ((y+t)*out.width + t) * 4
		copy(out.data[dstOff:dstOff+img.width*4], img.data[srcOff:srcOff+img.width*4])
	}
	return out
}
