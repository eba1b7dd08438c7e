// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !nogpu

package gpu

import (
	"encoding/binary"
	"math"

	"github.com/gogpu/darkroom"
)

// adjustParams is the uniform block shared by the texture and buffer
// adjustment kernels. The layout must match the Params struct in the
// WGSL sources: four u32 followed by eight f32, 48 bytes total.
type adjustParams struct {
	width       uint32
	height      uint32
	pixelOffset uint32
	saturate    uint32 // bool flag: run the chroma stage

	exposureMult float32
	tempRAdd     float32
	tempBSub     float32
	saturation   float32

	toneStrength float32
	// three f32 of padding keep the struct a multiple of 16 bytes
}

const adjustParamsSize = 48

// newAdjustParams derives the kernel uniforms from the adjustment set,
// mirroring the CPU pipeline's precomputation.
func newAdjustParams(adj darkroom.ImageAdjustments, width, height int) adjustParams {
	mult := float32(math.Pow(2, float64(adj.Exposure)))

	var rAdd, bSub float32
	if adj.Temperature >= 0 {
		rAdd = adj.Temperature * 0.1
		bSub = adj.Temperature * 0.06
	} else {
		rAdd = adj.Temperature * 0.06
		bSub = adj.Temperature * 0.1
	}

	dev := mult - 1
	if dev < 0 {
		dev = -dev
	}
	strength := 0.5 + 0.3*dev
	if strength < 0.3 {
		strength = 0.3
	}
	if strength > 0.9 {
		strength = 0.9
	}

	var saturate uint32
	if adj.Saturation != 1 {
		saturate = 1
	}

	return adjustParams{
		width:        uint32(width),
		height:       uint32(height),
		saturate:     saturate,
		exposureMult: mult,
		tempRAdd:     rAdd,
		tempBSub:     bSub,
		saturation:   adj.Saturation,
		toneStrength: strength,
	}
}

// toBytes serializes the uniform block in the little-endian layout the
// kernels expect.
func (p adjustParams) toBytes() []byte {
	buf := make([]byte, adjustParamsSize)
	binary.LittleEndian.PutUint32(buf[0:], p.width)
	binary.LittleEndian.PutUint32(buf[4:], p.height)
	binary.LittleEndian.PutUint32(buf[8:], p.pixelOffset)
	binary.LittleEndian.PutUint32(buf[12:], p.saturate)
	binary.LittleEndian.PutUint32(buf[16:], math.Float32bits(p.exposureMult))
	binary.LittleEndian.PutUint32(buf[20:], math.Float32bits(p.tempRAdd))
	binary.LittleEndian.PutUint32(buf[24:], math.Float32bits(p.tempBSub))
	binary.LittleEndian.PutUint32(buf[28:], math.Float32bits(p.saturation))
	binary.LittleEndian.PutUint32(buf[32:], math.Float32bits(p.toneStrength))
	return buf
}

// histParams is the uniform block for the histogram kernel: width,
// height, pixel offset and padding, 16 bytes.
type histParams struct {
	width       uint32
	height      uint32
	pixelOffset uint32
}

const histParamsSize = 16

func (p histParams) toBytes() []byte {
	buf := make([]byte, histParamsSize)
	binary.LittleEndian.PutUint32(buf[0:], p.width)
	binary.LittleEndian.PutUint32(buf[4:], p.height)
	binary.LittleEndian.PutUint32(buf[8:], p.pixelOffset)
	return buf
}
