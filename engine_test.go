package darkroom

import (
	"math"
	"testing"
)

func grayImage(w, h int, v uint8) *Image {
	img := NewImage(w, h)
	img.Fill(v, v, v, 255)
	return img
}

func TestApplyDefaultIsIdentity(t *testing.T) {
	e := NewEngine(WithWorkers(2))
	defer e.Close()

	img := NewImage(8, 8)
	for i := range img.Data() {
		img.Data()[i] = uint8(i * 7)
	}

	out := e.Apply(img, DefaultAdjustments())
	if out == img {
		t.Fatal("Apply must not return the input image")
	}
	for i, v := range out.Data() {
		if v != img.Data()[i] {
			t.Fatalf("byte %d changed: %d != %d", i, v, img.Data()[i])
		}
	}
}

func TestApplyDoesNotModifyInput(t *testing.T) {
	e := NewEngine(WithWorkers(2))
	defer e.Close()

	img := grayImage(8, 8, 128)
	before := img.Clone()

	adj := DefaultAdjustments()
	adj.Exposure = 1
	e.Apply(img, adj)

	for i, v := range img.Data() {
		if v != before.Data()[i] {
			t.Fatalf("input modified at byte %d", i)
		}
	}
}

func TestApplyExposureBrightens(t *testing.T) {
	e := NewEngine(WithWorkers(2))
	defer e.Close()

	img := grayImage(32, 32, 128)
	adj := DefaultAdjustments()
	adj.Exposure = 1

	out := e.Apply(img, adj)
	r, _, _, a := out.PixelRGBA(16, 16)
	if r <= 128 {
		t.Errorf("+1 EV on gray 128 should brighten, got %d", r)
	}
	if r >= 255 {
		t.Errorf("tone mapping should keep +1 EV below clipping, got %d", r)
	}
	if a != 255 {
		t.Errorf("alpha must pass through, got %d", a)
	}
}

func TestApplyNegativeExposureDarkens(t *testing.T) {
	e := NewEngine(WithWorkers(2))
	defer e.Close()

	img := grayImage(32, 32, 128)
	adj := DefaultAdjustments()
	adj.Exposure = -1

	out := e.Apply(img, adj)
	r, _, _, _ := out.PixelRGBA(16, 16)
	if r >= 128 {
		t.Errorf("-1 EV on gray 128 should darken, got %d", r)
	}
}

func TestApplySaturationKeepsGrayNeutral(t *testing.T) {
	e := NewEngine(WithWorkers(2))
	defer e.Close()

	img := grayImage(16, 16, 100)
	adj := DefaultAdjustments()
	adj.Saturation = 2

	out := e.Apply(img, adj)
	r, g, b, _ := out.PixelRGBA(8, 8)
	if r != g || g != b {
		t.Errorf("chroma scaling must not color gray pixels: %d,%d,%d", r, g, b)
	}
}

func TestApplySaturationZeroDesaturates(t *testing.T) {
	e := NewEngine(WithWorkers(2))
	defer e.Close()

	img := NewImage(16, 16)
	img.Fill(200, 80, 60, 255)
	adj := DefaultAdjustments()
	adj.Saturation = 0

	out := e.Apply(img, adj)
	r, g, b, _ := out.PixelRGBA(8, 8)
	spread := int(maxu8(r, maxu8(g, b))) - int(minu8(r, minu8(g, b)))
	if spread > 3 {
		t.Errorf("saturation 0 should be nearly neutral, spread %d (%d,%d,%d)", spread, r, g, b)
	}
}

func TestApplyTemperatureWarms(t *testing.T) {
	e := NewEngine(WithWorkers(2))
	defer e.Close()

	img := grayImage(16, 16, 128)
	adj := DefaultAdjustments()
	adj.Temperature = 0.5

	out := e.Apply(img, adj)
	r, _, b, _ := out.PixelRGBA(8, 8)
	if r <= b {
		t.Errorf("warm temperature should push red above blue: r=%d b=%d", r, b)
	}
	if r <= 128 {
		t.Errorf("warm temperature should raise red, got %d", r)
	}
}

func TestApplyTemperatureCools(t *testing.T) {
	e := NewEngine(WithWorkers(2))
	defer e.Close()

	img := grayImage(16, 16, 128)
	adj := DefaultAdjustments()
	adj.Temperature = -0.5

	out := e.Apply(img, adj)
	r, _, b, _ := out.PixelRGBA(8, 8)
	if b <= r {
		t.Errorf("cool temperature should push blue above red: r=%d b=%d", r, b)
	}
}

func TestApplyFrameGrowsImage(t *testing.T) {
	e := NewEngine(WithWorkers(2))
	defer e.Close()

	img := grayImage(10, 8, 50)
	adj := DefaultAdjustments()
	adj.Frame = FrameSettings{Enabled: true, Color: [3]uint8{255, 255, 255}, Thickness: 5}

	out := e.Apply(img, adj)
	if out.Width() != 20 || out.Height() != 18 {
		t.Fatalf("framed output = %dx%d, want 20x18", out.Width(), out.Height())
	}

	// Corner is frame, center is image.
	r, g, b, a := out.PixelRGBA(0, 0)
	if r != 255 || g != 255 || b != 255 || a != 255 {
		t.Errorf("frame corner = %d,%d,%d,%d, want opaque white", r, g, b, a)
	}
	r, _, _, _ = out.PixelRGBA(10, 9)
	if r != 50 {
		t.Errorf("image content should sit inside the frame, got %d", r)
	}
}

func TestApplyFrameOnlyKeepsInteriorExact(t *testing.T) {
	// Enabling only the frame must composite a border around a
	// byte-identical copy of the source; no pipeline stage may touch
	// the interior.
	e := NewEngine(WithWorkers(2))
	defer e.Close()

	img := NewImage(12, 9)
	for i := range img.Data() {
		img.Data()[i] = uint8(i * 11)
	}

	adj := DefaultAdjustments()
	adj.Frame = FrameSettings{Enabled: true, Color: [3]uint8{255, 255, 255}, Thickness: 3}

	out := e.Apply(img, adj)
	for y := 0; y < 9; y++ {
		for x := 0; x < 12; x++ {
			wr, wg, wb, wa := img.PixelRGBA(x, y)
			gr, gg, gb, ga := out.PixelRGBA(x+3, y+3)
			if gr != wr || gg != wg || gb != wb || ga != wa {
				t.Fatalf("interior pixel (%d,%d) recolored: got %d,%d,%d,%d want %d,%d,%d,%d",
					x, y, gr, gg, gb, ga, wr, wg, wb, wa)
			}
		}
	}
}

// meanOklabChroma averages sqrt(A^2+B^2) in Oklab over every pixel.
func meanOklabChroma(img *Image) float64 {
	data := img.Data()
	n := img.Width() * img.Height()

	var sum float64
	for i := 0; i < n; i++ {
		r := srgbToLinear(float32(data[i*4]) / 255)
		g := srgbToLinear(float32(data[i*4+1]) / 255)
		b := srgbToLinear(float32(data[i*4+2]) / 255)
		_, A, B := oklabFromLinear(r, g, b)
		sum += math.Sqrt(float64(A*A + B*B))
	}
	return sum / float64(n)
}

func TestApplyVelvia50IncreasesMeanChroma(t *testing.T) {
	// The saturated-slide look must hold as a measurable property, not
	// just as preset data: processing a color image with Velvia 50 at
	// otherwise neutral settings raises the mean Oklab chroma.
	e := NewEngine(WithWorkers(2))
	defer e.Close()

	img := NewImage(64, 48)
	for y := 0; y < 48; y++ {
		for x := 0; x < 64; x++ {
			img.SetPixelRGBA(x, y, uint8(60+x*3), uint8(220-y*3), uint8(80+x+y), 255)
		}
	}

	adj := DefaultAdjustments()
	adj.Film = PresetVelvia50.Emulation()

	out := e.Apply(img, adj)
	before := meanOklabChroma(img)
	after := meanOklabChroma(out)
	if after <= before {
		t.Errorf("Velvia 50 should raise mean chroma: before %.5f, after %.5f", before, after)
	}
}

func TestApplyChunkingIsSeamless(t *testing.T) {
	// A gradient processed with 1 worker and 7 workers must be
	// byte-identical: chunk boundaries carry no state.
	one := NewEngine(WithWorkers(1))
	defer one.Close()
	many := NewEngine(WithWorkers(7))
	defer many.Close()

	img := NewImage(64, 48)
	for y := 0; y < 48; y++ {
		for x := 0; x < 64; x++ {
			img.SetPixelRGBA(x, y, uint8(x*4), uint8(y*5), uint8(x+y), 255)
		}
	}

	adj := DefaultAdjustments()
	adj.Exposure = 0.8
	adj.Saturation = 1.4
	adj.Temperature = 0.2

	a := one.Apply(img, adj)
	b := many.Apply(img, adj)
	for i := range a.Data() {
		if a.Data()[i] != b.Data()[i] {
			t.Fatalf("worker count changed output at byte %d", i)
		}
	}
}

func TestApplyThumbnailMatchesDimensions(t *testing.T) {
	e := NewEngine(WithWorkers(2))
	defer e.Close()

	img := grayImage(20, 10, 90)
	adj := DefaultAdjustments()
	adj.Exposure = 0.5
	adj.Film = PresetVelvia50.Emulation()

	out := e.ApplyThumbnail(img, adj)
	if out.Width() != 20 || out.Height() != 10 {
		t.Fatalf("thumbnail pipeline must preserve dimensions, got %dx%d", out.Width(), out.Height())
	}
}

func TestApplyThumbnailKeepsMonochromeCollapse(t *testing.T) {
	// The thumbnail path drops film extras but must keep the
	// black-and-white conversion: a mono-stock thumbnail in color would
	// misrepresent the image it previews.
	e := NewEngine(WithWorkers(2))
	defer e.Close()

	img := NewImage(16, 12)
	for y := 0; y < 12; y++ {
		for x := 0; x < 16; x++ {
			img.SetPixelRGBA(x, y, uint8(200-x*5), uint8(60+y*8), uint8(40+x*6), 255)
		}
	}

	adj := DefaultAdjustments()
	adj.Film = PresetTriX400.Emulation()

	out := e.ApplyThumbnail(img, adj)
	for y := 0; y < 12; y++ {
		for x := 0; x < 16; x++ {
			r, g, b, _ := out.PixelRGBA(x, y)
			if r != g || g != b {
				t.Fatalf("monochrome thumbnail pixel (%d,%d) has color: %d,%d,%d", x, y, r, g, b)
			}
		}
	}
}

func TestApplyThumbnailAppliesFrame(t *testing.T) {
	e := NewEngine(WithWorkers(2))
	defer e.Close()

	img := grayImage(10, 10, 90)
	adj := DefaultAdjustments()
	adj.Frame = FrameSettings{Enabled: true, Color: [3]uint8{0, 0, 0}, Thickness: 2}

	out := e.ApplyThumbnail(img, adj)
	if out.Width() != 14 || out.Height() != 14 {
		t.Fatalf("framed thumbnail = %dx%d, want 14x14", out.Width(), out.Height())
	}
}

func TestEngineHistogramMatchesReference(t *testing.T) {
	e := NewEngine(WithWorkers(2))
	defer e.Close()

	img := NewImage(33, 17)
	for i := range img.Data() {
		img.Data()[i] = uint8(i * 13)
	}

	got := e.Histogram(img)
	want := ComputeHistogram(img)
	if !got.Equal(want) {
		t.Error("engine histogram should match the CPU reference")
	}
}

func maxu8(a, b uint8) uint8 {
	if a > b {
		return a
	}
	return b
}

func minu8(a, b uint8) uint8 {
	if a < b {
		return a
	}
	return b
}
