// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !nogpu

package gpu

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/darkroom"
)

// maxPixelsPerChunk is the widest dispatch the linear kernels can cover
// in one pass: 65535 workgroups of 256 invocations.
const maxPixelsPerChunk = maxWorkgroups * adjustWGSize

// AdjustBuffer applies exposure, temperature, tone mapping and chroma
// scaling on the GPU using the storage-buffer kernel. Pixels are
// processed in place in a single storage buffer and read back through a
// staging buffer. Film emulation always falls back to the CPU.
func (p *Processor) AdjustBuffer(img *darkroom.Image, adj darkroom.ImageAdjustments) (*darkroom.Image, error) {
	if adj.Film.Enabled {
		return nil, darkroom.ErrFallbackToCPU
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.readyLocked() {
		return nil, darkroom.ErrFallbackToCPU
	}

	width, height := img.Width(), img.Height()
	total := width * height
	dataSize := uint64(len(img.Data()))

	pixelBuf, err := p.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "adjust_pixels",
		Size:  dataSize,
		Usage: gputypes.BufferUsageStorage | gputypes.BufferUsageCopyDst | gputypes.BufferUsageCopySrc,
	})
	if err != nil {
		return nil, fmt.Errorf("create pixel buffer: %w", err)
	}
	defer p.device.DestroyBuffer(pixelBuf)

	stagingBuf, err := p.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "adjust_staging",
		Size:  dataSize,
		Usage: gputypes.BufferUsageMapRead | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("create staging buffer: %w", err)
	}
	defer p.device.DestroyBuffer(stagingBuf)

	p.queue.WriteBuffer(pixelBuf, 0, img.Data())

	params := newAdjustParams(adj, width, height)

	// One uniform buffer and bind group per chunk; all passes are
	// recorded into a single encoder and submitted once.
	type chunkRes struct {
		uniform hal.Buffer
		bind    hal.BindGroup
	}
	var chunks []chunkRes
	defer func() {
		for _, c := range chunks {
			p.device.DestroyBindGroup(c.bind)
			p.device.DestroyBuffer(c.uniform)
		}
	}()

	for offset := 0; offset < total; offset += maxPixelsPerChunk {
		cp := params
		cp.pixelOffset = uint32(offset)

		uniformBuf, err := p.device.CreateBuffer(&hal.BufferDescriptor{
			Label: "adjust_params",
			Size:  adjustParamsSize,
			Usage: gputypes.BufferUsageUniform | gputypes.BufferUsageCopyDst,
		})
		if err != nil {
			return nil, fmt.Errorf("create uniform buffer: %w", err)
		}
		p.queue.WriteBuffer(uniformBuf, 0, cp.toBytes())

		bindGroup, err := p.device.CreateBindGroup(&hal.BindGroupDescriptor{
			Label:  "adjust_bind",
			Layout: p.adjustBuf.bindLayout,
			Entries: []gputypes.BindGroupEntry{
				{Binding: 0, Resource: gputypes.BufferBinding{Buffer: uniformBuf.NativeHandle(), Offset: 0, Size: adjustParamsSize}},
				{Binding: 1, Resource: gputypes.BufferBinding{Buffer: pixelBuf.NativeHandle(), Offset: 0, Size: dataSize}},
			},
		})
		if err != nil {
			p.device.DestroyBuffer(uniformBuf)
			return nil, fmt.Errorf("create bind group: %w", err)
		}
		chunks = append(chunks, chunkRes{uniform: uniformBuf, bind: bindGroup})
	}

	encoder, err := p.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{Label: "adjust_buffer"})
	if err != nil {
		return nil, fmt.Errorf("create command encoder: %w", err)
	}
	encoder.BeginEncoding("adjust_buffer")

	for i, c := range chunks {
		remaining := total - i*maxPixelsPerChunk
		groups := uint32((min(remaining, maxPixelsPerChunk) + adjustWGSize - 1) / adjustWGSize)

		pass := encoder.BeginComputePass(&hal.ComputePassDescriptor{Label: "adjust_pass"})
		pass.SetPipeline(p.adjustBuf.pipeline)
		pass.SetBindGroup(0, c.bind, nil)
		pass.Dispatch(groups, 1, 1)
		pass.End()
	}

	encoder.CopyBufferToBuffer(pixelBuf, stagingBuf, []hal.BufferCopy{
		{SrcOffset: 0, DstOffset: 0, Size: dataSize},
	})

	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return nil, fmt.Errorf("end encoding: %w", err)
	}
	defer p.device.FreeCommandBuffer(cmdBuf)

	if err := p.submitAndWait(cmdBuf); err != nil {
		return nil, err
	}

	out := make([]byte, dataSize)
	if err := p.queue.ReadBuffer(stagingBuf, 0, out); err != nil {
		return nil, fmt.Errorf("read back pixels: %w", err)
	}

	return darkroom.NewImageFromData(width, height, out)
}
