//go:build !nogpu

// Package gpu registers the wgpu compute processor for
// hardware-accelerated image adjustment and histogram computation.
//
// Import this package to run the adjustment pipeline on the GPU when a
// device is available. The processor uses wgpu/hal compute shaders with
// a texture path for typical images and a storage-buffer path for
// images that exceed texture size limits.
//
// If GPU initialization fails (no Vulkan available), the registration
// is silently skipped and all processing stays on the CPU.
//
// Usage:
//
//	import _ "github.com/gogpu/darkroom/gpu" // enable GPU acceleration
package gpu

import (
	"github.com/gogpu/darkroom"
	gpuimpl "github.com/gogpu/darkroom/internal/gpu"
)

func init() {
	proc := &gpuimpl.Processor{}
	if err := darkroom.RegisterProcessor(proc); err != nil {
		darkroom.Logger().Warn("GPU processor not available", "err", err)
	}
}

// SetDeviceProvider configures the GPU processor to use a shared GPU
// device from an external provider (e.g., an application that already
// owns a wgpu device). This avoids creating a separate GPU instance.
//
// The provider must expose HalDevice() any and HalQueue() any returning
// hal.Device and hal.Queue.
//
// Call this after importing this package, before processing images.
func SetDeviceProvider(provider any) error {
	return darkroom.SetProcessorDeviceProvider(provider)
}
