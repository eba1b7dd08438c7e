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

// AdjustTexture applies the adjustment kernel through sampled and
// storage textures. This is the preferred GPU path: the 2D dispatch
// keeps texture cache locality and avoids the linear chunking of the
// buffer kernel. Oversized images and film emulation fall back.
func (p *Processor) AdjustTexture(img *darkroom.Image, adj darkroom.ImageAdjustments) (*darkroom.Image, error) {
	if adj.Film.Enabled {
		return nil, darkroom.ErrFallbackToCPU
	}

	width, height := img.Width(), img.Height()
	if width > maxTextureDim || height > maxTextureDim {
		return nil, darkroom.ErrFallbackToCPU
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.readyLocked() {
		return nil, darkroom.ErrFallbackToCPU
	}

	extent := hal.Extent3D{Width: uint32(width), Height: uint32(height), DepthOrArrayLayers: 1}

	srcTex, err := p.device.CreateTexture(&hal.TextureDescriptor{
		Label:         "adjust_src",
		Size:          extent,
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        gputypes.TextureFormatRGBA8Unorm,
		Usage:         gputypes.TextureUsageTextureBinding | gputypes.TextureUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("create source texture: %w", err)
	}
	defer p.device.DestroyTexture(srcTex)

	dstTex, err := p.device.CreateTexture(&hal.TextureDescriptor{
		Label:         "adjust_dst",
		Size:          extent,
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        gputypes.TextureFormatRGBA8Unorm,
		Usage:         gputypes.TextureUsageStorageBinding | gputypes.TextureUsageCopySrc,
	})
	if err != nil {
		return nil, fmt.Errorf("create destination texture: %w", err)
	}
	defer p.device.DestroyTexture(dstTex)

	srcView, err := p.device.CreateTextureView(srcTex, &hal.TextureViewDescriptor{
		Label:         "adjust_src_view",
		Format:        gputypes.TextureFormatRGBA8Unorm,
		Dimension:     gputypes.TextureViewDimension2D,
		Aspect:        gputypes.TextureAspectAll,
		MipLevelCount: 1,
	})
	if err != nil {
		return nil, fmt.Errorf("create source view: %w", err)
	}
	defer p.device.DestroyTextureView(srcView)

	dstView, err := p.device.CreateTextureView(dstTex, &hal.TextureViewDescriptor{
		Label:         "adjust_dst_view",
		Format:        gputypes.TextureFormatRGBA8Unorm,
		Dimension:     gputypes.TextureViewDimension2D,
		Aspect:        gputypes.TextureAspectAll,
		MipLevelCount: 1,
	})
	if err != nil {
		return nil, fmt.Errorf("create destination view: %w", err)
	}
	defer p.device.DestroyTextureView(dstView)

	p.queue.WriteTexture(
		&hal.ImageCopyTexture{Texture: srcTex, MipLevel: 0},
		img.Data(),
		&hal.ImageDataLayout{Offset: 0, BytesPerRow: uint32(width * 4), RowsPerImage: uint32(height)},
		&extent,
	)

	params := newAdjustParams(adj, width, height)

	uniformBuf, err := p.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "adjust_params",
		Size:  adjustParamsSize,
		Usage: gputypes.BufferUsageUniform | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("create uniform buffer: %w", err)
	}
	defer p.device.DestroyBuffer(uniformBuf)
	p.queue.WriteBuffer(uniformBuf, 0, params.toBytes())

	// Readback rows must be aligned to 256 bytes for texture copies.
	alignedRow := (uint32(width*4) + 255) &^ 255
	stagingSize := uint64(alignedRow) * uint64(height)

	stagingBuf, err := p.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "adjust_readback",
		Size:  stagingSize,
		Usage: gputypes.BufferUsageMapRead | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("create readback buffer: %w", err)
	}
	defer p.device.DestroyBuffer(stagingBuf)

	bindGroup, err := p.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:  "adjust_tex_bind",
		Layout: p.adjustTex.bindLayout,
		Entries: []gputypes.BindGroupEntry{
			{Binding: 0, Resource: gputypes.BufferBinding{Buffer: uniformBuf.NativeHandle(), Offset: 0, Size: adjustParamsSize}},
			{Binding: 1, Resource: gputypes.TextureViewBinding{TextureView: srcView.NativeHandle()}},
			{Binding: 2, Resource: gputypes.TextureViewBinding{TextureView: dstView.NativeHandle()}},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create bind group: %w", err)
	}
	defer p.device.DestroyBindGroup(bindGroup)

	encoder, err := p.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{Label: "adjust_texture"})
	if err != nil {
		return nil, fmt.Errorf("create command encoder: %w", err)
	}
	encoder.BeginEncoding("adjust_texture")

	pass := encoder.BeginComputePass(&hal.ComputePassDescriptor{Label: "adjust_pass"})
	pass.SetPipeline(p.adjustTex.pipeline)
	pass.SetBindGroup(0, bindGroup, nil)
	pass.Dispatch(uint32((width+texTileSize-1)/texTileSize), uint32((height+texTileSize-1)/texTileSize), 1)
	pass.End()

	encoder.TransitionTextures([]hal.TextureBarrier{
		{
			Texture: dstTex,
			Usage: hal.TextureUsageTransition{
				OldUsage: gputypes.TextureUsageStorageBinding,
				NewUsage: gputypes.TextureUsageCopySrc,
			},
		},
	})

	encoder.CopyTextureToBuffer(dstTex, stagingBuf, []hal.BufferTextureCopy{
		{
			BufferLayout: hal.ImageDataLayout{Offset: 0, BytesPerRow: alignedRow, RowsPerImage: uint32(height)},
			TextureBase:  hal.ImageCopyTexture{Texture: dstTex, MipLevel: 0},
			Size:         extent,
		},
	})

	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return nil, fmt.Errorf("end encoding: %w", err)
	}
	defer p.device.FreeCommandBuffer(cmdBuf)

	if err := p.submitAndWait(cmdBuf); err != nil {
		return nil, err
	}

	padded := make([]byte, stagingSize)
	if err := p.queue.ReadBuffer(stagingBuf, 0, padded); err != nil {
		return nil, fmt.Errorf("read back texture: %w", err)
	}

	// Strip the row padding introduced by the copy alignment.
	rowBytes := width * 4
	out := make([]byte, rowBytes*height)
	for y := 0; y < height; y++ {
		copy(out[y*rowBytes:(y+1)*rowBytes], padded[y*int(alignedRow):y*int(alignedRow)+rowBytes])
	}

	return darkroom.NewImageFromData(width, height, out)
}
