package darkroom

import (
	"runtime"

	"github.com/gogpu/darkroom/internal/parallel"
)

// Engine applies adjustments and computes histograms, choosing between
// GPU kernels and the CPU worker pool per the fallback chain:
// texture kernel, then buffer kernel, then CPU. From the caller's point
// of view Apply always succeeds if the CPU path would succeed.
//
// Engine is safe for concurrent use. Close releases the worker pool.
type Engine struct {
	workers int
	pool    *parallel.WorkerPool
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithWorkers sets the number of CPU workers used for chunked pixel
// processing. Values below 1 keep the default of
// max(available parallelism, 2).
func WithWorkers(n int) EngineOption {
	return func(e *Engine) {
		if n >= 1 {
			e.workers = n
		}
	}
}

// NewEngine creates an adjustment engine with its own CPU worker pool.
func NewEngine(opts ...EngineOption) *Engine {
	e := &Engine{workers: defaultWorkers()}
	for _, opt := range opts {
		opt(e)
	}
	e.pool = parallel.NewWorkerPool(e.workers)
	return e
}

func defaultWorkers() int {
	n := runtime.NumCPU()
	if n < 2 {
		n = 2
	}
	return n
}

// Close releases the engine's worker pool. The engine must not be used
// after Close.
func (e *Engine) Close() {
	e.pool.Close()
}

// Apply runs the adjustment pipeline on img and returns the processed
// image. The input is never modified. Default adjustments return an
// identical copy without touching pixels.
//
// Film-emulation-enabled adjustments always run on the CPU; the GPU
// kernels implement only the non-film stages.
func (e *Engine) Apply(img *Image, adj ImageAdjustments) *Image {
	var out *Image
	if adj.pixelNeutral() {
		// Nothing to recolor; a frame-only adjustment must leave the
		// interior pixels untouched.
		out = img.Clone()
	} else {
		out = e.applyPixels(img, adj)
	}

	if adj.Frame.Enabled {
		out = applyFrame(out, adj.Frame)
	}
	return out
}

// applyPixels runs the dimension-preserving part of the pipeline,
// walking the fallback chain.
func (e *Engine) applyPixels(img *Image, adj ImageAdjustments) *Image {
	if !adj.Film.Enabled {
		if p := Processor(); p != nil {
			out, err := p.AdjustTexture(img, adj)
			if err == nil {
				return out
			}
			Logger().Warn("texture kernel unavailable, trying buffer kernel",
				"processor", p.Name(), "error", err)

			out, err = p.AdjustBuffer(img, adj)
			if err == nil {
				return out
			}
			Logger().Warn("buffer kernel unavailable, falling back to CPU",
				"processor", p.Name(), "error", err)
		}
	}
	return e.applyCPU(img, adj)
}

// applyCPU runs the pipeline on the worker pool, partitioning pixels
// into contiguous chunks. Chunk order never affects output: processing
// is a pure function of each pixel's own coordinates and value.
func (e *Engine) applyCPU(img *Image, adj ImageAdjustments) *Image {
	out := img.Clone()
	params := newPipelineParams(&adj, out.width, out.height)

	total := out.width * out.height
	chunks := parallel.Chunks(total, e.workers)
	if len(chunks) <= 1 {
		processRange(out.data, out.width, &adj, &params, 0, total)
		return out
	}

	work := make([]func(), len(chunks))
	for i, c := range chunks {
		start, end := c.Start, c.End
		work[i] = func() {
			processRange(out.data, out.width, &adj, &params, start, end)
		}
	}
	e.pool.ExecuteAll(work)
	return out
}

// ApplyThumbnail is the strictly sequential variant for small images:
// no film emulation extras and no parallel chunking, which avoids
// chunk-boundary glitches on tiny buffers. Monochrome stocks keep their
// luminance collapse so black-and-white thumbnails stay black and white.
func (e *Engine) ApplyThumbnail(img *Image, adj ImageAdjustments) *Image {
	thin := adj
	thin.Film = DefaultFilmEmulation()
	if adj.Film.Enabled && adj.Film.Monochrome {
		thin.Film.Enabled = true
		thin.Film.Monochrome = true
	}

	var out *Image
	if thin.pixelNeutral() {
		out = img.Clone()
	} else {
		out = img.Clone()
		params := newPipelineParams(&thin, out.width, out.height)
		processRange(out.data, out.width, &thin, &params, 0, out.width*out.height)
	}

	if adj.Frame.Enabled {
		out = applyFrame(out, adj.Frame)
	}
	return out
}

// Histogram computes the per-channel histogram of img, preferring the
// GPU kernel when a processor is registered. GPU failures fall back to
// the tiled CPU reference; both produce identical bin counts.
func (e *Engine) Histogram(img *Image) *Histogram {
	if p := Processor(); p != nil {
		h, err := p.ComputeHistogram(img)
		if err == nil {
			return h
		}
		Logger().Warn("GPU histogram unavailable, falling back to CPU",
			"processor", p.Name(), "error", err)
	}
	return ComputeHistogram(img)
}
