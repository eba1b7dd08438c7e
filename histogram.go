package darkroom

import (
	"runtime"
	"sync"

	"github.com/gogpu/darkroom/internal/parallel"
)

// HistogramBins is the number of bins per channel.
const HistogramBins = 256

// Histogram holds per-channel bin counts for an RGBA image.
// For any channel, the bin counts sum to the pixel count of the image.
type Histogram struct {
	R [HistogramBins]uint32
	G [HistogramBins]uint32
	B [HistogramBins]uint32
	A [HistogramBins]uint32
}

// Equal reports whether two histograms have identical bin counts.
func (h *Histogram) Equal(other *Histogram) bool {
	if h == nil || other == nil {
		return h == other
	}
	return h.R == other.R && h.G == other.G && h.B == other.B && h.A == other.A
}

// accumulate adds the pixels of a row range into the histogram.
func (h *Histogram) accumulate(data []uint8, width, startY, endY int) {
	for y := startY; y < endY; y++ {
		row := data[y*width*4 : (y+1)*width*4]
		for i := 0; i < len(row); i += 4 {
			h.R[row[i]]++
			h.G[row[i+1]]++
			h.B[row[i+2]]++
			h.A[row[i+3]]++
		}
	}
}

// merge adds all of other's bin counts into h.
func (h *Histogram) merge(other *Histogram) {
	for i := 0; i < HistogramBins; i++ {
		h.R[i] += other.R[i]
		h.G[i] += other.G[i]
		h.B[i] += other.B[i]
		h.A[i] += other.A[i]
	}
}

// ComputeHistogram computes the per-channel histogram on the CPU with an
// adaptive tile count. This is the reference implementation the GPU
// kernel is verified against.
func ComputeHistogram(img *Image) *Histogram {
	return ComputeHistogramTiled(img, OptimalTileCount(img.Width(), img.Height()))
}

// ComputeHistogramTiled computes the histogram by partitioning image
// rows into numTiles tiles, accumulating per-tile local histograms in
// parallel and merging them under a single lock. The result is invariant
// to the tile count.
func ComputeHistogramTiled(img *Image, numTiles int) *Histogram {
	height := img.Height()
	if numTiles < 1 {
		numTiles = 1
	}
	if numTiles > height {
		numTiles = height
	}

	global := &Histogram{}
	if height == 0 || img.Width() == 0 {
		return global
	}

	tiles := parallel.Chunks(height, numTiles)

	var mu sync.Mutex
	var wg sync.WaitGroup
	wg.Add(len(tiles))
	for _, tile := range tiles {
		go func(startY, endY int) {
			defer wg.Done()

			local := &Histogram{}
			local.accumulate(img.Data(), img.Width(), startY, endY)

			mu.Lock()
			global.merge(local)
			mu.Unlock()
		}(tile.Start, tile.End)
	}
	wg.Wait()

	return global
}

// OptimalTileCount picks a tile count for the image size: small images
// get minimal parallelism, large images scale up to the CPU count.
func OptimalTileCount(width, height int) int {
	totalPixels := width * height
	minTiles := 2
	maxTiles := runtime.NumCPU()
	if maxTiles < minTiles {
		maxTiles = minTiles
	}

	switch {
	case totalPixels < 1_000_000:
		return minTiles
	case totalPixels < 10_000_000:
		half := maxTiles / 2
		if half < minTiles {
			return minTiles
		}
		return half
	default:
		return maxTiles
	}
}
