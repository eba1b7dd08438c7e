// Package darkroom is an image processing core for photo applications.
//
// # Overview
//
// darkroom turns a decoded RGBA bitmap plus a set of numeric adjustment
// parameters into a displayable image. It provides a deterministic color
// pipeline (exposure, temperature, perceptual saturation, filmic tone
// mapping, film emulation, framing), a histogram engine, a priority task
// scheduler for background work, and a bounded LRU cache for images and
// thumbnails.
//
// # Quick Start
//
//	import "github.com/gogpu/darkroom"
//
//	img, _ := darkroom.LoadImageFile("photo.jpg")
//
//	adj := darkroom.DefaultAdjustments()
//	adj.Exposure = 0.5
//	adj.Film = darkroom.PresetVelvia50.Emulation()
//
//	engine := darkroom.NewEngine()
//	out := engine.Apply(img, adj)
//	hist := engine.Histogram(out)
//	_ = hist
//
// # GPU Acceleration
//
// By default all processing runs on the CPU across a worker pool. To enable
// GPU compute (wgpu/hal, Vulkan), blank-import the gpu subpackage:
//
//	import _ "github.com/gogpu/darkroom/gpu"
//
// The engine tries a texture-resident compute kernel first, then a
// buffer-resident kernel, then falls back to the CPU path. Fallbacks are
// logged and never surfaced to the caller.
//
// # Architecture
//
// The library is organized into:
//   - Public API: Image, ImageAdjustments, FilmEmulation, Engine, Histogram
//   - scheduler: priority task queue, worker pool, memory pool
//   - cache: bounded LRU image/thumbnail cache with statistics
//   - Internal: pipeline math (this package), internal/gpu (wgpu kernels),
//     internal/parallel (chunked execution)
package darkroom

// Version information
const (
	// Version is the current version of the library
	Version = "0.2.0"

	// VersionMajor is the major version
	VersionMajor = 0

	// VersionMinor is the minor version
	VersionMinor = 2

	// VersionPatch is the patch version
	VersionPatch = 0
)
