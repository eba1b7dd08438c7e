// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !nogpu

package gpu

import (
	"encoding/binary"
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/darkroom"
)

// binsBufSize holds 4 channels of 256 u32 bins.
const binsBufSize = 4 * darkroom.HistogramBins * 4

// ComputeHistogram bins all four channels on the GPU using atomic
// adds. The result is bit-identical to the CPU path since counting is
// exact regardless of execution order.
func (p *Processor) ComputeHistogram(img *darkroom.Image) (*darkroom.Histogram, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.readyLocked() {
		return nil, darkroom.ErrFallbackToCPU
	}

	width, height := img.Width(), img.Height()
	total := width * height
	dataSize := uint64(len(img.Data()))

	pixelBuf, err := p.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "hist_pixels",
		Size:  dataSize,
		Usage: gputypes.BufferUsageStorage | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("create pixel buffer: %w", err)
	}
	defer p.device.DestroyBuffer(pixelBuf)
	p.queue.WriteBuffer(pixelBuf, 0, img.Data())

	binsBuf, err := p.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "hist_bins",
		Size:  binsBufSize,
		Usage: gputypes.BufferUsageStorage | gputypes.BufferUsageCopyDst | gputypes.BufferUsageCopySrc,
	})
	if err != nil {
		return nil, fmt.Errorf("create bins buffer: %w", err)
	}
	defer p.device.DestroyBuffer(binsBuf)
	p.queue.WriteBuffer(binsBuf, 0, make([]byte, binsBufSize)) // zero the bins

	stagingBuf, err := p.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "hist_staging",
		Size:  binsBufSize,
		Usage: gputypes.BufferUsageMapRead | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("create staging buffer: %w", err)
	}
	defer p.device.DestroyBuffer(stagingBuf)

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
		params := histParams{width: uint32(width), height: uint32(height), pixelOffset: uint32(offset)}

		uniformBuf, err := p.device.CreateBuffer(&hal.BufferDescriptor{
			Label: "hist_params",
			Size:  histParamsSize,
			Usage: gputypes.BufferUsageUniform | gputypes.BufferUsageCopyDst,
		})
		if err != nil {
			return nil, fmt.Errorf("create uniform buffer: %w", err)
		}
		p.queue.WriteBuffer(uniformBuf, 0, params.toBytes())

		bindGroup, err := p.device.CreateBindGroup(&hal.BindGroupDescriptor{
			Label:  "hist_bind",
			Layout: p.histogram.bindLayout,
			Entries: []gputypes.BindGroupEntry{
				{Binding: 0, Resource: gputypes.BufferBinding{Buffer: uniformBuf.NativeHandle(), Offset: 0, Size: histParamsSize}},
				{Binding: 1, Resource: gputypes.BufferBinding{Buffer: pixelBuf.NativeHandle(), Offset: 0, Size: dataSize}},
				{Binding: 2, Resource: gputypes.BufferBinding{Buffer: binsBuf.NativeHandle(), Offset: 0, Size: binsBufSize}},
			},
		})
		if err != nil {
			p.device.DestroyBuffer(uniformBuf)
			return nil, fmt.Errorf("create bind group: %w", err)
		}
		chunks = append(chunks, chunkRes{uniform: uniformBuf, bind: bindGroup})
	}

	encoder, err := p.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{Label: "histogram"})
	if err != nil {
		return nil, fmt.Errorf("create command encoder: %w", err)
	}
	encoder.BeginEncoding("histogram")

	for i, c := range chunks {
		remaining := total - i*maxPixelsPerChunk
		groups := uint32((min(remaining, maxPixelsPerChunk) + adjustWGSize - 1) / adjustWGSize)

		pass := encoder.BeginComputePass(&hal.ComputePassDescriptor{Label: "hist_pass"})
		pass.SetPipeline(p.histogram.pipeline)
		pass.SetBindGroup(0, c.bind, nil)
		pass.Dispatch(groups, 1, 1)
		pass.End()
	}

	encoder.CopyBufferToBuffer(binsBuf, stagingBuf, []hal.BufferCopy{
		{SrcOffset: 0, DstOffset: 0, Size: binsBufSize},
	})

	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return nil, fmt.Errorf("end encoding: %w", err)
	}
	defer p.device.FreeCommandBuffer(cmdBuf)

	if err := p.submitAndWait(cmdBuf); err != nil {
		return nil, err
	}

	raw := make([]byte, binsBufSize)
	if err := p.queue.ReadBuffer(stagingBuf, 0, raw); err != nil {
		return nil, fmt.Errorf("read back bins: %w", err)
	}

	var hist darkroom.Histogram
	for i := 0; i < darkroom.HistogramBins; i++ {
		hist.R[i] = binary.LittleEndian.Uint32(raw[i*4:])
		hist.G[i] = binary.LittleEndian.Uint32(raw[(256+i)*4:])
		hist.B[i] = binary.LittleEndian.Uint32(raw[(512+i)*4:])
		hist.A[i] = binary.LittleEndian.Uint32(raw[(768+i)*4:])
	}
	return &hist, nil
}
