// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !nogpu

// processor.go owns the wgpu device lifecycle and the three compute
// pipelines: texture adjustment, buffer adjustment, and histogram.

package gpu

import (
	_ "embed"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	// Import Vulkan backend so it registers via init().
	_ "github.com/gogpu/wgpu/hal/vulkan"

	"github.com/gogpu/darkroom"
)

//go:embed shaders/adjust_texture.wgsl
var shaderAdjustTexture string

//go:embed shaders/adjust_buffer.wgsl
var shaderAdjustBuffer string

//go:embed shaders/histogram.wgsl
var shaderHistogram string

const (
	// adjustWGSize is the linear workgroup size of the buffer and
	// histogram kernels; matches @workgroup_size in the WGSL.
	adjustWGSize = 256

	// texTileSize is the square workgroup edge of the texture kernel.
	texTileSize = 16

	// maxWorkgroups is the per-dimension dispatch limit. Larger images
	// are processed in offset chunks.
	maxWorkgroups = 65535

	// maxTextureDim is the conservative side limit for the texture
	// path; larger images use the buffer kernel.
	maxTextureDim = 8192

	// fenceTimeout is the maximum time to wait for GPU work.
	fenceTimeout = 5 * time.Second
)

// capabilityState tracks GPU availability explicitly rather than
// through a nullable device reference.
type capabilityState int

const (
	stateUnavailable capabilityState = iota
	stateInitializing
	stateReady
)

// computePipeline bundles one shader's pipeline objects for teardown.
type computePipeline struct {
	shader     hal.ShaderModule
	bindLayout hal.BindGroupLayout
	pipeLayout hal.PipelineLayout
	pipeline   hal.ComputePipeline
}

func (cp *computePipeline) destroy(device hal.Device) {
	if device == nil {
		return
	}
	if cp.pipeline != nil {
		device.DestroyComputePipeline(cp.pipeline)
		cp.pipeline = nil
	}
	if cp.pipeLayout != nil {
		device.DestroyPipelineLayout(cp.pipeLayout)
		cp.pipeLayout = nil
	}
	if cp.bindLayout != nil {
		device.DestroyBindGroupLayout(cp.bindLayout)
		cp.bindLayout = nil
	}
	if cp.shader != nil {
		device.DestroyShaderModule(cp.shader)
		cp.shader = nil
	}
}

// Processor implements darkroom.GPUProcessor on wgpu/hal compute
// shaders. One Processor exclusively owns its device and queue; dispatch
// is serialized under the mutex so two goroutines never race on a
// command encoder.
type Processor struct {
	mu sync.Mutex

	state capabilityState

	instance hal.Instance
	device   hal.Device
	queue    hal.Queue

	adjustTex computePipeline
	adjustBuf computePipeline
	histogram computePipeline

	externalDevice bool // true when using a shared device (don't destroy on Close)
}

// Interface compliance checks.
var _ darkroom.GPUProcessor = (*Processor)(nil)
var _ darkroom.DeviceProviderAware = (*Processor)(nil)

// Name returns the processor identifier.
func (p *Processor) Name() string { return "wgpu-compute" }

// SetLogger sets the logger for the processor and its internal helpers.
// Called by darkroom.SetLogger to propagate logging configuration.
func (p *Processor) SetLogger(l *slog.Logger) {
	setLogger(l)
}

// Init creates a standalone Vulkan device and compiles the kernels.
// Returns darkroom.ErrGPUUnavailable wrapped when no adapter exists, in
// which case registration is skipped and all work stays on the CPU.
func (p *Processor) Init() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.state == stateReady {
		return nil
	}
	p.state = stateInitializing

	if err := p.initGPULocked(); err != nil {
		p.state = stateUnavailable
		return err
	}
	p.state = stateReady
	return nil
}

// Close releases all GPU resources held by the processor.
func (p *Processor) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.adjustTex.destroy(p.device)
	p.adjustBuf.destroy(p.device)
	p.histogram.destroy(p.device)

	if !p.externalDevice {
		if p.device != nil {
			p.device.Destroy()
			p.device = nil
		}
		if p.instance != nil {
			p.instance.Destroy()
			p.instance = nil
		}
	} else {
		// Don't destroy shared resources -- we don't own them.
		p.device = nil
		p.instance = nil
	}
	p.queue = nil
	p.state = stateUnavailable
	p.externalDevice = false
}

// SetDeviceProvider switches the processor to a shared GPU device from
// an external provider (e.g., an application window). The provider must
// implement HalDevice() any and HalQueue() any returning hal types.
func (p *Processor) SetDeviceProvider(provider any) error {
	type halProvider interface {
		HalDevice() any
		HalQueue() any
	}
	hp, ok := provider.(halProvider)
	if !ok {
		return fmt.Errorf("wgpu-compute: provider does not expose HAL types")
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return fmt.Errorf("wgpu-compute: provider HalDevice is not hal.Device")
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return fmt.Errorf("wgpu-compute: provider HalQueue is not hal.Queue")
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	p.adjustTex.destroy(p.device)
	p.adjustBuf.destroy(p.device)
	p.histogram.destroy(p.device)

	if !p.externalDevice && p.device != nil {
		p.device.Destroy()
	}
	if p.instance != nil {
		p.instance.Destroy()
		p.instance = nil
	}

	p.device = device
	p.queue = queue
	p.externalDevice = true

	if err := p.createPipelinesLocked(); err != nil {
		p.state = stateUnavailable
		return fmt.Errorf("wgpu-compute: pipelines on shared device: %w", err)
	}
	p.state = stateReady
	slogger().Debug("wgpu-compute: switched to shared GPU device")
	return nil
}

// initGPULocked creates a standalone Vulkan device for compute-only
// use. Caller must hold p.mu.
func (p *Processor) initGPULocked() error {
	backend, ok := hal.GetBackend(gputypes.BackendVulkan)
	if !ok {
		return fmt.Errorf("%w: vulkan backend not available", darkroom.ErrGPUUnavailable)
	}
	instance, err := backend.CreateInstance(&hal.InstanceDescriptor{Flags: 0})
	if err != nil {
		return fmt.Errorf("create instance: %w", err)
	}
	p.instance = instance

	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		return fmt.Errorf("%w: no GPU adapters found", darkroom.ErrGPUUnavailable)
	}

	var selected *hal.ExposedAdapter
	for i := range adapters {
		if adapters[i].Info.DeviceType == gputypes.DeviceTypeDiscreteGPU ||
			adapters[i].Info.DeviceType == gputypes.DeviceTypeIntegratedGPU {
			selected = &adapters[i]
			break
		}
	}
	if selected == nil {
		selected = &adapters[0]
	}

	openDev, err := selected.Adapter.Open(gputypes.Features(0), gputypes.DefaultLimits())
	if err != nil {
		return fmt.Errorf("open device: %w", err)
	}
	p.device = openDev.Device
	p.queue = openDev.Queue

	if err := p.createPipelinesLocked(); err != nil {
		p.device.Destroy()
		p.device = nil
		p.queue = nil
		return fmt.Errorf("create pipelines: %w", err)
	}

	slogger().Info("wgpu-compute: GPU initialized", "adapter", selected.Info.Name)
	return nil
}

// createPipelinesLocked compiles all three kernels. Caller must hold p.mu.
func (p *Processor) createPipelinesLocked() error {
	var err error

	p.adjustTex, err = p.buildPipeline("adjust_texture", shaderAdjustTexture,
		[]gputypes.BindGroupLayoutEntry{
			{Binding: 0, Visibility: gputypes.ShaderStageCompute, Buffer: &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform}},
			{Binding: 1, Visibility: gputypes.ShaderStageCompute, Texture: &gputypes.TextureBindingLayout{
				SampleType:    gputypes.TextureSampleTypeFloat,
				ViewDimension: gputypes.TextureViewDimension2D,
			}},
			{Binding: 2, Visibility: gputypes.ShaderStageCompute, StorageTexture: &gputypes.StorageTextureBindingLayout{
				Access:        gputypes.StorageTextureAccessReadWrite,
				Format:        gputypes.TextureFormatRGBA8Unorm,
				ViewDimension: gputypes.TextureViewDimension2D,
			}},
		})
	if err != nil {
		return err
	}

	p.adjustBuf, err = p.buildPipeline("adjust_buffer", shaderAdjustBuffer,
		[]gputypes.BindGroupLayoutEntry{
			{Binding: 0, Visibility: gputypes.ShaderStageCompute, Buffer: &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform}},
			{Binding: 1, Visibility: gputypes.ShaderStageCompute, Buffer: &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeStorage}},
		})
	if err != nil {
		return err
	}

	p.histogram, err = p.buildPipeline("histogram", shaderHistogram,
		[]gputypes.BindGroupLayoutEntry{
			{Binding: 0, Visibility: gputypes.ShaderStageCompute, Buffer: &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform}},
			{Binding: 1, Visibility: gputypes.ShaderStageCompute, Buffer: &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeReadOnlyStorage}},
			{Binding: 2, Visibility: gputypes.ShaderStageCompute, Buffer: &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeStorage}},
		})
	return err
}

// buildPipeline compiles one WGSL module and assembles its layouts.
func (p *Processor) buildPipeline(name, source string, entries []gputypes.BindGroupLayoutEntry) (computePipeline, error) {
	var cp computePipeline

	shader, err := p.device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  name,
		Source: hal.ShaderSource{WGSL: source},
	})
	if err != nil {
		return cp, fmt.Errorf("compile %s shader: %w", name, err)
	}
	cp.shader = shader

	bindLayout, err := p.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label:   name + "_bind_layout",
		Entries: entries,
	})
	if err != nil {
		cp.destroy(p.device)
		return cp, fmt.Errorf("create %s bind group layout: %w", name, err)
	}
	cp.bindLayout = bindLayout

	pipeLayout, err := p.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label: name + "_pipe_layout", BindGroupLayouts: []hal.BindGroupLayout{bindLayout},
	})
	if err != nil {
		cp.destroy(p.device)
		return cp, fmt.Errorf("create %s pipeline layout: %w", name, err)
	}
	cp.pipeLayout = pipeLayout

	pipeline, err := p.device.CreateComputePipeline(&hal.ComputePipelineDescriptor{
		Label: name + "_pipeline", Layout: pipeLayout,
		Compute: hal.ComputeState{Module: shader, EntryPoint: "main"},
	})
	if err != nil {
		cp.destroy(p.device)
		return cp, fmt.Errorf("create %s compute pipeline: %w", name, err)
	}
	cp.pipeline = pipeline

	return cp, nil
}

// ready reports whether dispatch can proceed. Caller must hold p.mu.
func (p *Processor) readyLocked() bool {
	return p.state == stateReady && p.device != nil && p.queue != nil
}

// submitAndWait submits one command buffer and blocks until the fence
// signals. This wait must only happen on worker threads.
func (p *Processor) submitAndWait(cmdBuf hal.CommandBuffer) error {
	fence, err := p.device.CreateFence()
	if err != nil {
		return fmt.Errorf("create fence: %w", err)
	}
	defer p.device.DestroyFence(fence)

	if err := p.queue.Submit([]hal.CommandBuffer{cmdBuf}, fence, 1); err != nil {
		return fmt.Errorf("submit: %w", err)
	}
	fenceOK, err := p.device.Wait(fence, 1, fenceTimeout)
	if err != nil {
		return fmt.Errorf("wait for GPU: %w", err)
	}
	if !fenceOK {
		return fmt.Errorf("wait for GPU: timeout after %v", fenceTimeout)
	}
	return nil
}
