package darkroom

import "testing"

func checkerImage(w, h int) *Image {
	img := NewImage(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetPixelRGBA(x, y, uint8(x*31), uint8(y*47), uint8((x*y)%256), uint8(255-x%3))
		}
	}
	return img
}

func TestHistogramCountsSumToPixelCount(t *testing.T) {
	img := checkerImage(37, 23)
	h := ComputeHistogram(img)

	want := uint64(37 * 23)
	for name, bins := range map[string][HistogramBins]uint32{
		"R": h.R, "G": h.G, "B": h.B, "A": h.A,
	} {
		var sum uint64
		for _, c := range bins {
			sum += uint64(c)
		}
		if sum != want {
			t.Errorf("channel %s: bin sum = %d, want %d", name, sum, want)
		}
	}
}

func TestHistogramTileInvariance(t *testing.T) {
	img := checkerImage(64, 41)

	ref := ComputeHistogramTiled(img, 1)
	for _, tiles := range []int{2, 3, 8, 41, 100} {
		got := ComputeHistogramTiled(img, tiles)
		if !got.Equal(ref) {
			t.Errorf("%d tiles: histogram differs from single-tile reference", tiles)
		}
	}
}

func TestHistogramUniformImage(t *testing.T) {
	img := NewImage(10, 10)
	img.Fill(7, 200, 0, 255)

	h := ComputeHistogram(img)
	if h.R[7] != 100 || h.G[200] != 100 || h.B[0] != 100 || h.A[255] != 100 {
		t.Errorf("uniform image should land all counts in one bin per channel")
	}
}

func TestHistogramEmptyImage(t *testing.T) {
	h := ComputeHistogram(NewImage(0, 0))
	for i := 0; i < HistogramBins; i++ {
		if h.R[i] != 0 || h.G[i] != 0 || h.B[i] != 0 || h.A[i] != 0 {
			t.Fatal("empty image must produce an all-zero histogram")
		}
	}
}

func TestHistogramEqual(t *testing.T) {
	img := checkerImage(16, 16)
	a := ComputeHistogram(img)
	b := ComputeHistogram(img)
	if !a.Equal(b) {
		t.Error("identical images should produce equal histograms")
	}

	b.G[10]++
	if a.Equal(b) {
		t.Error("differing bins should not compare equal")
	}

	var nilH *Histogram
	if a.Equal(nilH) || nilH.Equal(a) {
		t.Error("nil and non-nil histograms are not equal")
	}
	if !nilH.Equal(nil) {
		t.Error("two nil histograms are equal")
	}
}

func TestOptimalTileCount(t *testing.T) {
	if got := OptimalTileCount(100, 100); got != 2 {
		t.Errorf("small image tiles = %d, want 2", got)
	}
	if got := OptimalTileCount(5000, 5000); got < 2 {
		t.Errorf("large image tiles = %d, want >= 2", got)
	}
}
