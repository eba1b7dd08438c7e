package darkroom

import (
	"errors"
	"sync"
)

// ErrFallbackToCPU indicates the GPU processor cannot handle this
// operation. The engine transparently falls back to the next step of the
// fallback chain; the error never reaches callers of Engine.Apply.
var ErrFallbackToCPU = errors.New("darkroom: falling back to CPU processing")

// GPUProcessor is an optional GPU compute provider.
//
// When registered via RegisterProcessor, the Engine tries GPU kernels
// first for supported operations. If the processor returns
// ErrFallbackToCPU or any error, processing transparently falls back:
// texture kernel, then buffer kernel, then the CPU pipeline.
//
// Implementations are provided by GPU backend packages. Users opt in via
// blank import:
//
//	import _ "github.com/gogpu/darkroom/gpu" // enables GPU processing
type GPUProcessor interface {
	// Name returns the processor name (e.g., "wgpu-compute").
	Name() string

	// Init initializes GPU resources. Called once during registration.
	Init() error

	// Close releases GPU resources.
	Close()

	// AdjustTexture applies adjustments with the texture-resident kernel.
	// Returns ErrFallbackToCPU (or any error) if the image cannot be
	// processed this way; the buffer kernel is tried next.
	AdjustTexture(img *Image, adj ImageAdjustments) (*Image, error)

	// AdjustBuffer applies adjustments with the buffer-resident kernel.
	// Returns an error to trigger the CPU fallback.
	AdjustBuffer(img *Image, adj ImageAdjustments) (*Image, error)

	// ComputeHistogram computes the per-channel histogram on the GPU.
	// Bin counts must match the CPU path bit for bit.
	ComputeHistogram(img *Image) (*Histogram, error)
}

// DeviceProviderAware is an optional interface for processors that can
// share GPU resources with an external provider (e.g., an application
// window). When SetDeviceProvider is called, the processor reuses the
// provided GPU device instead of creating its own.
type DeviceProviderAware interface {
	SetDeviceProvider(provider any) error
}

var (
	procMu sync.RWMutex
	proc   GPUProcessor
)

// RegisterProcessor registers a GPU processor for optional GPU compute.
//
// Only one processor can be registered. Subsequent calls replace the
// previous one. The processor's Init() method is called during
// registration; if it fails, the processor is not registered and the
// error is returned.
//
// Typical usage via blank import in GPU backend packages:
//
//	func init() {
//	    darkroom.RegisterProcessor(&gpuimpl.Processor{})
//	}
func RegisterProcessor(p GPUProcessor) error {
	if p == nil {
		return errors.New("darkroom: processor must not be nil")
	}
	propagateLogger(p, Logger())
	if err := p.Init(); err != nil {
		return err
	}
	procMu.Lock()
	old := proc
	proc = p
	procMu.Unlock()
	if old != nil {
		old.Close()
	}
	return nil
}

// Processor returns the currently registered GPU processor, or nil.
func Processor() GPUProcessor {
	procMu.RLock()
	p := proc
	procMu.RUnlock()
	return p
}

// SetProcessorDeviceProvider passes a device provider to the registered
// processor, enabling GPU device sharing. If no processor is registered
// or it doesn't support device sharing, this is a no-op.
//
// The provider should implement HalDevice() any and HalQueue() any
// methods that return wgpu/hal types.
func SetProcessorDeviceProvider(provider any) error {
	p := Processor()
	if p == nil {
		return nil
	}
	if dpa, ok := p.(DeviceProviderAware); ok {
		return dpa.SetDeviceProvider(provider)
	}
	return nil
}
